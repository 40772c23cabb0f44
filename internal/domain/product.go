package domain

import "time"

// Product is an item that can be put on wishlists. It never changes after
// creation.
type Product struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"-"`
}

// CreateProductInput holds the parameters for creating a product. Absent
// fields stay at their zero value.
type CreateProductInput struct {
	Title string  `json:"title"`
	Price float64 `json:"price"`
}
