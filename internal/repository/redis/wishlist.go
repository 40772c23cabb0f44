package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/utafrali/swagshop/internal/domain"
	"github.com/utafrali/swagshop/pkg/database"
	apperrors "github.com/utafrali/swagshop/pkg/errors"
)

type wishListRecord struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// addProductScript adds ARGV[1] to the wishlist's product set when both the
// product (KEYS[1]) and the wishlist (KEYS[2]) exist. The score is the set
// size before the add, which keeps members in add order.
//
// Returns -1 for an unknown product, 0 for an unknown wishlist and 1 otherwise.
var addProductScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return -1
end
if redis.call('EXISTS', KEYS[2]) == 0 then
	return 0
end
redis.call('ZADD', KEYS[3], 'NX', redis.call('ZCARD', KEYS[3]), ARGV[1])
return 1
`)

// WishListRepository implements repository.WishListRepository using Redis.
type WishListRepository struct {
	client *redis.Client
}

// NewWishListRepository creates a new Redis-backed wishlist repository.
func NewWishListRepository(client *redis.Client) *WishListRepository {
	return &WishListRepository{client: client}
}

// Create stores the wishlist record and appends its id to the wishlist list.
// The product set key is only created on the first add.
func (r *WishListRepository) Create(ctx context.Context, w *domain.WishList) (err error) {
	ctx, end := database.TraceQuery(ctx, database.SystemRedis, "InsertWishList", "SET wishlist:{id}; RPUSH wishlists")
	defer func() { end(err) }()

	rec := wishListRecord{ID: uuid.New().String(), Title: w.Title, CreatedAt: time.Now().UTC()}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal wishlist: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, wishListKey(rec.ID), data, 0)
		pipe.RPush(ctx, wishListsKey, rec.ID)
		return nil
	})
	if err != nil {
		return storeError("redis insert wishlist", err)
	}

	w.ID = rec.ID
	w.ProductIDs = []string{}
	w.CreatedAt = rec.CreatedAt
	return nil
}

// AddProduct runs the add as a single server-side script.
func (r *WishListRepository) AddProduct(ctx context.Context, wishListID, productID string) (err error) {
	ctx, end := database.TraceQuery(ctx, database.SystemRedis, "AddProductToWishList", "EVALSHA add_product")
	defer func() { end(err) }()

	keys := []string{productKey(productID), wishListKey(wishListID), wishListProductsKey(wishListID)}
	res, err := addProductScript.Run(ctx, r.client, keys, productID).Int()
	if err != nil {
		return storeError("redis add product to wishlist", err)
	}
	if res < 0 {
		return apperrors.NotFound("product", productID)
	}
	return nil
}

// List returns every wishlist in insertion order with products expanded.
// Records and product sets are read in one pipeline, products with one MGET.
func (r *WishListRepository) List(ctx context.Context) (_ []domain.WishListDetail, err error) {
	ctx, end := database.TraceQuery(ctx, database.SystemRedis, "ListWishLists", "LRANGE wishlists; GET/ZRANGE wishlist:{id}...; MGET product:{id}...")
	defer func() { end(err) }()

	ids, err := r.client.LRange(ctx, wishListsKey, 0, -1).Result()
	if err != nil {
		return nil, storeError("redis list wishlist ids", err)
	}
	if len(ids) == 0 {
		return []domain.WishListDetail{}, nil
	}

	records := make([]*redis.StringCmd, len(ids))
	members := make([]*redis.StringSliceCmd, len(ids))
	_, err = r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			records[i] = pipe.Get(ctx, wishListKey(id))
			members[i] = pipe.ZRange(ctx, wishListProductsKey(id), 0, -1)
		}
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, storeError("redis load wishlists", err)
	}

	lists := make([]domain.WishList, 0, len(ids))
	seen := make(map[string]struct{})
	var productIDs []string
	for i := range ids {
		data, err := records[i].Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, storeError("redis get wishlist", err)
		}
		var rec wishListRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("unmarshal wishlist: %w", err)
		}

		pids, err := members[i].Result()
		if err != nil {
			return nil, storeError("redis get wishlist products", err)
		}
		for _, pid := range pids {
			if _, ok := seen[pid]; !ok {
				seen[pid] = struct{}{}
				productIDs = append(productIDs, pid)
			}
		}
		lists = append(lists, domain.WishList{ID: rec.ID, Title: rec.Title, ProductIDs: pids, CreatedAt: rec.CreatedAt})
	}

	products, err := loadProducts(ctx, r.client, productIDs)
	if err != nil {
		return nil, err
	}

	out := make([]domain.WishListDetail, 0, len(lists))
	for i := range lists {
		out = append(out, lists[i].Expand(products))
	}
	return out, nil
}
