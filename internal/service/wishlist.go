package service

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/utafrali/swagshop/internal/domain"
	"github.com/utafrali/swagshop/internal/repository"
	"github.com/utafrali/swagshop/pkg/logger"
	"github.com/utafrali/swagshop/pkg/tracing"
)

// WishListService implements the business logic for wishlist operations.
type WishListService struct {
	repo   repository.WishListRepository
	events EventPublisher
	logger *slog.Logger
}

// NewWishListService creates a new wishlist service.
func NewWishListService(repo repository.WishListRepository, events EventPublisher, logger *slog.Logger) *WishListService {
	return &WishListService{
		repo:   repo,
		events: events,
		logger: logger,
	}
}

// CreateWishList stores a new wishlist with an empty product set.
func (s *WishListService) CreateWishList(ctx context.Context, input domain.CreateWishListInput) (*domain.WishList, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "WishListService.CreateWishList")
	defer span.End()

	wishList := domain.NewWishList(input.Title)
	if err := s.repo.Create(ctx, wishList); err != nil {
		tracing.RecordError(span, err)
		return nil, &CreationError{Resource: "wishlist", Err: err}
	}
	span.SetAttributes(attribute.String("wishlist.id", wishList.ID))

	if err := s.events.PublishWishListCreated(ctx, wishList); err != nil {
		logger.WithContext(ctx, s.logger).ErrorContext(ctx, "failed to publish wishlist.created event",
			slog.String("wishlist_id", wishList.ID),
			logger.Err(err),
		)
	}

	logger.WithContext(ctx, s.logger).InfoContext(ctx, "wishlist created",
		slog.String("wishlist_id", wishList.ID),
	)
	return wishList, nil
}

// ListWishLists returns every wishlist with product references resolved.
func (s *WishListService) ListWishLists(ctx context.Context) ([]domain.WishListDetail, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "WishListService.ListWishLists")
	defer span.End()

	lists, err := s.repo.List(ctx)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, &QueryError{Resource: "wishlists", Err: err}
	}
	span.SetAttributes(attribute.Int("wishlist.count", len(lists)))
	return lists, nil
}

// AddProductToWishList adds productID to the wishlist's product set. Adding
// a product that is already present changes nothing. An unknown product
// fails with CauseNotFound; an unknown wishlist succeeds without effect.
// Nothing is retried.
func (s *WishListService) AddProductToWishList(ctx context.Context, productID, wishListID string) error {
	ctx, span := tracing.StartSpan(ctx, tracerName, "WishListService.AddProductToWishList",
		attribute.String("product.id", productID),
		attribute.String("wishlist.id", wishListID),
	)
	defer span.End()

	if err := s.repo.AddProduct(ctx, wishListID, productID); err != nil {
		assocErr := newAssociationError(productID, wishListID, err)
		tracing.RecordError(span, assocErr)
		return assocErr
	}

	if err := s.events.PublishProductAddedToWishList(ctx, wishListID, productID); err != nil {
		logger.WithContext(ctx, s.logger).ErrorContext(ctx, "failed to publish wishlist.product_added event",
			slog.String("wishlist_id", wishListID),
			slog.String("product_id", productID),
			logger.Err(err),
		)
	}

	logger.WithContext(ctx, s.logger).InfoContext(ctx, "product added to wishlist",
		slog.String("wishlist_id", wishListID),
		slog.String("product_id", productID),
	)
	return nil
}
