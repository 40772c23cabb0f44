// Package mongo implements the repositories on MongoDB. Collection names and
// document shapes match the ones the storefront has always used, so existing
// databases can be served as-is.
package mongo

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	apperrors "github.com/utafrali/swagshop/pkg/errors"
)

// Collection names.
const (
	ProductsCollection  = "products"
	WishListsCollection = "wishlists"
)

// parseID converts a hex id into an ObjectID. Malformed ids can never match
// a document, so they are reported as not found.
func parseID(resource, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperrors.NotFound(resource, id)
	}
	return oid, nil
}

// storeError wraps err with what, tagging connectivity failures as
// unavailable.
func storeError(what string, err error) error {
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) || errors.Is(err, mongo.ErrClientDisconnected) {
		return fmt.Errorf("%s: %w", what, apperrors.Unavailable("mongodb", err))
	}
	return fmt.Errorf("%s: %w", what, err)
}
