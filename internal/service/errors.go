package service

import (
	"fmt"

	apperrors "github.com/utafrali/swagshop/pkg/errors"
)

// CreationError reports that a create operation could not be persisted.
type CreationError struct {
	Resource string
	Err      error
}

func (e *CreationError) Error() string {
	return fmt.Sprintf("create %s: underlying store operation failed: %v", e.Resource, e.Err)
}

func (e *CreationError) Unwrap() error { return e.Err }

// QueryError reports that a list operation could not read the store.
type QueryError struct {
	Resource string
	Err      error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("list %s: underlying store operation failed: %v", e.Resource, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// Cause classifies why an association failed.
type Cause int

const (
	// CauseStoreUnavailable covers every store failure other than a missing
	// product.
	CauseStoreUnavailable Cause = iota
	// CauseNotFound means the product does not exist.
	CauseNotFound
)

func (c Cause) String() string {
	switch c {
	case CauseNotFound:
		return "not_found"
	default:
		return "store_unavailable"
	}
}

// AssociationError reports that a product could not be added to a wishlist.
type AssociationError struct {
	Cause      Cause
	ProductID  string
	WishListID string
	Err        error
}

func newAssociationError(productID, wishListID string, err error) *AssociationError {
	cause := CauseStoreUnavailable
	if apperrors.IsNotFound(err) {
		cause = CauseNotFound
	}
	return &AssociationError{Cause: cause, ProductID: productID, WishListID: wishListID, Err: err}
}

func (e *AssociationError) Error() string {
	return fmt.Sprintf("could not add item to wishlist (%s): %v", e.Cause, e.Err)
}

func (e *AssociationError) Unwrap() error { return e.Err }
