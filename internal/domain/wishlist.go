package domain

import "time"

// WishList is a named set of product references. Products are only ever
// added; a product id appears at most once.
type WishList struct {
	ID         string    `json:"_id"`
	Title      string    `json:"title"`
	ProductIDs []string  `json:"products"`
	CreatedAt  time.Time `json:"-"`
}

// NewWishList returns an unsaved wishlist with an empty product set.
func NewWishList(title string) *WishList {
	return &WishList{Title: title, ProductIDs: []string{}}
}

// WishListDetail is a wishlist with its product references resolved, in the
// order they were added. References to products that no longer resolve are
// left out.
type WishListDetail struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Products  []Product `json:"products"`
	CreatedAt time.Time `json:"-"`
}

// Expand resolves w's product references against products. The result
// always has a non-nil Products slice.
func (w *WishList) Expand(products map[string]Product) WishListDetail {
	detail := WishListDetail{
		ID:        w.ID,
		Title:     w.Title,
		Products:  make([]Product, 0, len(w.ProductIDs)),
		CreatedAt: w.CreatedAt,
	}
	for _, id := range w.ProductIDs {
		if p, ok := products[id]; ok {
			detail.Products = append(detail.Products, p)
		}
	}
	return detail
}

// CreateWishListInput holds the parameters for creating a wishlist.
type CreateWishListInput struct {
	Title string `json:"title"`
}
