package catalog

// ProductForm carries the writable product fields submitted by the admin
// dashboard. The image travels separately as a multipart file.
type ProductForm struct {
	Name          string  `json:"name" validate:"required,max=200"`
	Category      string  `json:"category" validate:"required"`
	Price         float64 `json:"price" validate:"required,gte=0"`
	OriginalPrice float64 `json:"originalPrice" validate:"omitempty,gte=0"`
	Stock         int     `json:"stock" validate:"gte=0"`
	Status        string  `json:"status" validate:"omitempty,oneof=Shown Hidden 'Out of Stock'"`
	Description   string  `json:"description" validate:"omitempty,max=1000"`
	AdLink        string  `json:"adLink" validate:"omitempty,url"`
}

// ListFilters narrows product listings.
type ListFilters struct {
	Category string
	Status   string
	Search   string
	Page     int
	Limit    int
}
