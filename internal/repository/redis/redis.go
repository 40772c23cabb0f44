// Package redis implements the repositories on Redis.
//
// Key layout:
//
//	product:{id}            JSON product record
//	products                list of product ids in insertion order
//	wishlist:{id}           JSON wishlist record
//	wishlists               list of wishlist ids in insertion order
//	wishlist:{id}:products  sorted set of product ids scored by add order
package redis

import (
	"fmt"

	"github.com/utafrali/swagshop/pkg/database"
	apperrors "github.com/utafrali/swagshop/pkg/errors"
)

const (
	productKeyPrefix  = "product:"
	productsKey       = "products"
	wishListKeyPrefix = "wishlist:"
	wishListsKey      = "wishlists"
)

func productKey(id string) string {
	return productKeyPrefix + id
}

func wishListKey(id string) string {
	return wishListKeyPrefix + id
}

func wishListProductsKey(id string) string {
	return wishListKeyPrefix + id + ":products"
}

// storeError wraps err with what, tagging connectivity failures as
// unavailable.
func storeError(what string, err error) error {
	if database.IsConnectionError(err) {
		return fmt.Errorf("%s: %w", what, apperrors.Unavailable("redis", err))
	}
	return fmt.Errorf("%s: %w", what, err)
}
