package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/utafrali/swagshop/internal/domain"
	"github.com/utafrali/swagshop/pkg/database"
)

type productRecord struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

func (r productRecord) toDomain() domain.Product {
	return domain.Product{ID: r.ID, Title: r.Title, Price: r.Price, CreatedAt: r.CreatedAt}
}

// ProductRepository implements repository.ProductRepository using Redis.
type ProductRepository struct {
	client *redis.Client
}

// NewProductRepository creates a new Redis-backed product repository.
func NewProductRepository(client *redis.Client) *ProductRepository {
	return &ProductRepository{client: client}
}

// Create stores the product record and appends its id to the product list
// in one MULTI/EXEC.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) (err error) {
	ctx, end := database.TraceQuery(ctx, database.SystemRedis, "InsertProduct", "SET product:{id}; RPUSH products")
	defer func() { end(err) }()

	rec := productRecord{ID: uuid.New().String(), Title: p.Title, Price: p.Price, CreatedAt: time.Now().UTC()}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, productKey(rec.ID), data, 0)
		pipe.RPush(ctx, productsKey, rec.ID)
		return nil
	})
	if err != nil {
		return storeError("redis insert product", err)
	}

	*p = rec.toDomain()
	return nil
}

// List returns every product in insertion order.
func (r *ProductRepository) List(ctx context.Context) (_ []domain.Product, err error) {
	ctx, end := database.TraceQuery(ctx, database.SystemRedis, "ListProducts", "LRANGE products; MGET product:{id}...")
	defer func() { end(err) }()

	ids, err := r.client.LRange(ctx, productsKey, 0, -1).Result()
	if err != nil {
		return nil, storeError("redis list product ids", err)
	}

	byID, err := loadProducts(ctx, r.client, ids)
	if err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			products = append(products, p)
		}
	}
	return products, nil
}

// loadProducts fetches the given product records with a single MGET. Ids
// without a record are absent from the result.
func loadProducts(ctx context.Context, client *redis.Client, ids []string) (map[string]domain.Product, error) {
	out := make(map[string]domain.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = productKey(id)
	}

	values, err := client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, storeError("redis mget products", err)
	}

	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var rec productRecord
		if err := json.Unmarshal([]byte(s), &rec); err != nil {
			return nil, fmt.Errorf("unmarshal product: %w", err)
		}
		out[rec.ID] = rec.toDomain()
	}
	return out, nil
}
