package repository

import (
	"context"

	"github.com/utafrali/swagshop/internal/domain"
)

// ProductRepository defines the interface for product persistence operations.
type ProductRepository interface {
	// Create assigns an id and stores the product.
	Create(ctx context.Context, product *domain.Product) error

	// List returns every product in insertion order.
	List(ctx context.Context) ([]domain.Product, error)
}

// WishListRepository defines the interface for wishlist persistence operations.
type WishListRepository interface {
	// Create assigns an id and stores the wishlist with an empty product set.
	Create(ctx context.Context, wishList *domain.WishList) error

	// AddProduct adds productID to the wishlist's product set in one store
	// round trip where the store allows it. An unknown product yields
	// apperrors.ErrNotFound. An unknown wishlist is not an error and
	// changes nothing.
	AddProduct(ctx context.Context, wishListID, productID string) error

	// List returns every wishlist with its product references resolved.
	List(ctx context.Context) ([]domain.WishListDetail, error)
}
