package catalog

import (
	"math"
	"time"
)

// Status is the product availability flag shown on the storefront.
type Status string

const (
	// StatusShown lists the product on the public storefront.
	StatusShown Status = "Shown"
	// StatusHidden removes the product from the public storefront.
	StatusHidden Status = "Hidden"
	// StatusOutOfStock is forced whenever stock reaches zero.
	StatusOutOfStock Status = "Out of Stock"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusShown, StatusHidden, StatusOutOfStock:
		return true
	}
	return false
}

// Categories lists the product categories accepted on create/update.
var Categories = []string{"Accessories", "Electronics", "Bags", "Fashion", "Sports"}

// Product represents a catalog entry.
type Product struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	Price         float64   `json:"price"`
	OriginalPrice float64   `json:"originalPrice"`
	Discount      int       `json:"discount"`
	Stock         int       `json:"stock"`
	Status        Status    `json:"status"`
	Image         string    `json:"image"`
	Description   string    `json:"description,omitempty"`
	AdLink        string    `json:"adLink,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ApplyDerived recomputes the fields that must stay consistent on every
// write: the discount percentage follows price/originalPrice, and a zero
// stock forces the Out of Stock status regardless of the requested one.
func (p *Product) ApplyDerived() {
	if p.OriginalPrice <= 0 {
		p.OriginalPrice = p.Price
	}
	if p.OriginalPrice > p.Price {
		p.Discount = int(math.Round((p.OriginalPrice - p.Price) / p.OriginalPrice * 100))
	} else {
		p.Discount = 0
	}
	if p.Stock == 0 {
		p.Status = StatusOutOfStock
	}
}
