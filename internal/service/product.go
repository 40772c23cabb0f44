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

const tracerName = "github.com/utafrali/swagshop/internal/service"

// EventPublisher emits domain events after successful writes. Failures are
// logged and never fail the operation.
type EventPublisher interface {
	PublishProductCreated(ctx context.Context, product *domain.Product) error
	PublishWishListCreated(ctx context.Context, wishList *domain.WishList) error
	PublishProductAddedToWishList(ctx context.Context, wishListID, productID string) error
}

// ProductService implements the business logic for product operations.
type ProductService struct {
	repo   repository.ProductRepository
	events EventPublisher
	logger *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(repo repository.ProductRepository, events EventPublisher, logger *slog.Logger) *ProductService {
	return &ProductService{
		repo:   repo,
		events: events,
		logger: logger,
	}
}

// CreateProduct stores a new product. Title and price are taken as given;
// absent values stay at their zero value.
func (s *ProductService) CreateProduct(ctx context.Context, input domain.CreateProductInput) (*domain.Product, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "ProductService.CreateProduct")
	defer span.End()

	product := &domain.Product{Title: input.Title, Price: input.Price}
	if err := s.repo.Create(ctx, product); err != nil {
		tracing.RecordError(span, err)
		return nil, &CreationError{Resource: "product", Err: err}
	}
	span.SetAttributes(attribute.String("product.id", product.ID))

	if err := s.events.PublishProductCreated(ctx, product); err != nil {
		logger.WithContext(ctx, s.logger).ErrorContext(ctx, "failed to publish product.created event",
			slog.String("product_id", product.ID),
			logger.Err(err),
		)
	}

	logger.WithContext(ctx, s.logger).InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
	)
	return product, nil
}

// ListProducts returns every product.
func (s *ProductService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "ProductService.ListProducts")
	defer span.End()

	products, err := s.repo.List(ctx)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, &QueryError{Resource: "products", Err: err}
	}
	span.SetAttributes(attribute.Int("product.count", len(products)))
	return products, nil
}
