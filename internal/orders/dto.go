package orders

// CreateOrderInput is the checkout payload. The product is referenced by
// name, matching what the storefront shows. Any client-submitted total is
// ignored: the server stamps price × quantity at order time.
type CreateOrderInput struct {
	CustomerName string `json:"customerName" validate:"required,max=120"`
	Phone        string `json:"phone" validate:"required,max=30"`
	Product      string `json:"product" validate:"required"`
	Quantity     int    `json:"quantity" validate:"required,gte=1"`
	City         string `json:"city" validate:"required"`
	Address      string `json:"address" validate:"required,max=500"`
	Comment      string `json:"comment" validate:"omitempty,max=1000"`
}

// UpdateOrderInput carries the admin-editable fields. Quantity changes
// trigger a stock delta; the total is restamped from the snapshot price.
type UpdateOrderInput struct {
	CustomerName string `json:"customerName" validate:"required,max=120"`
	Phone        string `json:"phone" validate:"required,max=30"`
	Quantity     int    `json:"quantity" validate:"required,gte=1"`
	City         string `json:"city" validate:"required"`
	Address      string `json:"address" validate:"required,max=500"`
	Status       string `json:"status" validate:"required"`
	Comment      string `json:"comment" validate:"omitempty,max=1000"`
}

// ListFilters narrows order listings.
type ListFilters struct {
	Product string
	City    string
	Status  string
	Search  string
	Page    int
	Limit   int
}
