package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/swagshop/internal/domain"
	pkgkafka "github.com/utafrali/swagshop/pkg/kafka"
	"github.com/utafrali/swagshop/pkg/logger"
)

// Kafka topics for swag-shop domain events.
var (
	TopicProductCreated         = pkgkafka.Topic("product", "created")
	TopicWishListCreated        = pkgkafka.Topic("wishlist", "created")
	TopicProductAddedToWishList = pkgkafka.Topic("wishlist", "product_added")
)

// Aggregate types.
const (
	AggregateTypeProduct  = "product"
	AggregateTypeWishList = "wishlist"
)

// SourceSwagShop identifies events originating from this service.
const SourceSwagShop = "swag-shop"

// ProductCreatedData is the payload for a product.created event.
type ProductCreatedData struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
}

// WishListCreatedData is the payload for a wishlist.created event.
type WishListCreatedData struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ProductAddedData is the payload for a wishlist.product_added event. It is
// emitted for every successful add, including repeats and adds to unknown
// wishlists, since the store does not report whether anything changed.
type ProductAddedData struct {
	WishListID string `json:"wishlist_id"`
	ProductID  string `json:"product_id"`
}

// Publisher is the subset of *pkgkafka.Producer used here.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes swag-shop domain events to Kafka.
type Producer struct {
	kafka  Publisher
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishProductCreated publishes a product.created event.
func (p *Producer) PublishProductCreated(ctx context.Context, product *domain.Product) error {
	data := ProductCreatedData{ID: product.ID, Title: product.Title, Price: product.Price}
	if err := p.publish(ctx, TopicProductCreated, product.ID, AggregateTypeProduct, data); err != nil {
		return err
	}

	p.logger.DebugContext(ctx, "published product.created event",
		slog.String("product_id", product.ID),
	)
	return nil
}

// PublishWishListCreated publishes a wishlist.created event.
func (p *Producer) PublishWishListCreated(ctx context.Context, wishList *domain.WishList) error {
	data := WishListCreatedData{ID: wishList.ID, Title: wishList.Title}
	if err := p.publish(ctx, TopicWishListCreated, wishList.ID, AggregateTypeWishList, data); err != nil {
		return err
	}

	p.logger.DebugContext(ctx, "published wishlist.created event",
		slog.String("wishlist_id", wishList.ID),
	)
	return nil
}

// PublishProductAddedToWishList publishes a wishlist.product_added event
// keyed by the wishlist id.
func (p *Producer) PublishProductAddedToWishList(ctx context.Context, wishListID, productID string) error {
	data := ProductAddedData{WishListID: wishListID, ProductID: productID}
	if err := p.publish(ctx, TopicProductAddedToWishList, wishListID, AggregateTypeWishList, data); err != nil {
		return err
	}

	p.logger.DebugContext(ctx, "published wishlist.product_added event",
		slog.String("wishlist_id", wishListID),
		slog.String("product_id", productID),
	)
	return nil
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) error {
	event, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, SourceSwagShop, data,
		pkgkafka.WithCorrelationID(logger.CorrelationIDFromContext(ctx)))
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}
	return nil
}
