package orders

import "time"

// OrderStatus tracks fulfilment progress.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusConfirmed OrderStatus = "Confirmed"
	OrderStatusShipping  OrderStatus = "Shipping"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipping, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is a customer order. The product is referenced by its stable id;
// name and image are denormalized snapshots taken at order time so the order
// history keeps rendering after catalog edits.
type Order struct {
	ID            int64       `json:"id"`
	CustomerName  string      `json:"customerName"`
	Phone         string      `json:"phone"`
	ProductID     int64       `json:"product_id"`
	ProductName   string      `json:"product"`
	ProductImage  string      `json:"productImage,omitempty"`
	Quantity      int         `json:"quantity"`
	City          string      `json:"city"`
	Address       string      `json:"address"`
	Total         float64     `json:"total"`
	Status        OrderStatus `json:"status"`
	PaymentMethod string      `json:"paymentMethod"`
	Comment       string      `json:"comment,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// Cities lists the deliverable governorates accepted at checkout.
var Cities = []string{
	"Tunis", "Ariana", "Ben Arous", "Manouba", "Nabeul", "Zaghouan",
	"Bizerte", "Beja", "Jendouba", "Kef", "Siliana", "Kairouan",
	"Kasserine", "Sousse", "Monastir", "Mahdia", "Sfax", "Gabes",
	"Medenine", "Tataouine", "Gafsa", "Tozeur", "Kebili", "Sidi Bouzid",
}

// Stats summarises orders for the admin dashboard.
type Stats struct {
	TotalOrders       int     `json:"totalOrders"`
	PendingOrders     int     `json:"pendingOrders"`
	ConfirmedOrders   int     `json:"confirmedOrders"`
	ShippingOrders    int     `json:"shippingOrders"`
	DeliveredOrders   int     `json:"deliveredOrders"`
	CancelledOrders   int     `json:"cancelledOrders"`
	TotalRevenue      float64 `json:"totalRevenue"`
	AverageOrderValue float64 `json:"averageOrderValue"`
	RecentOrders      []Order `json:"recentOrders"`
}
