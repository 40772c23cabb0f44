package event

import (
	"context"

	"github.com/utafrali/swagshop/internal/domain"
)

// Discard drops every event. It is used when Kafka is disabled.
type Discard struct{}

func (Discard) PublishProductCreated(context.Context, *domain.Product) error   { return nil }
func (Discard) PublishWishListCreated(context.Context, *domain.WishList) error { return nil }
func (Discard) PublishProductAddedToWishList(context.Context, string, string) error {
	return nil
}
