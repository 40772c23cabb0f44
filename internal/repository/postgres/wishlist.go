package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/utafrali/swagshop/internal/domain"
	"github.com/utafrali/swagshop/pkg/database"
	apperrors "github.com/utafrali/swagshop/pkg/errors"
)

// WishListRepository implements repository.WishListRepository using PostgreSQL.
type WishListRepository struct {
	db database.DBTX
}

// NewWishListRepository creates a new PostgreSQL-backed wishlist repository.
func NewWishListRepository(db database.DBTX) *WishListRepository {
	return &WishListRepository{db: db}
}

// Create inserts a new wishlist. Its product set starts empty.
func (r *WishListRepository) Create(ctx context.Context, w *domain.WishList) (err error) {
	query := `
		INSERT INTO wishlists (id, title, created_at)
		VALUES ($1, $2, $3)`

	ctx, end := database.TraceQuery(ctx, database.SystemPostgres, "InsertWishList", query)
	defer func() { end(err) }()

	id := uuid.New().String()
	createdAt := time.Now().UTC()
	if _, err = r.db.Exec(ctx, query, id, w.Title, createdAt); err != nil {
		return storeError("insert wishlist", err)
	}

	w.ID = id
	w.ProductIDs = []string{}
	w.CreatedAt = createdAt
	return nil
}

// addProductQuery checks the product and inserts the association in one
// statement. The insert only happens when both rows exist; ON CONFLICT makes
// a repeated add a no-op. The result says whether the product exists.
const addProductQuery = `
	WITH product AS (
		SELECT id FROM products WHERE id = $2
	), added AS (
		INSERT INTO wishlist_products (wishlist_id, product_id)
		SELECT w.id, p.id FROM wishlists w, product p WHERE w.id = $1
		ON CONFLICT (wishlist_id, product_id) DO NOTHING
	)
	SELECT EXISTS (SELECT 1 FROM product)`

// AddProduct adds productID to the wishlist's product set.
func (r *WishListRepository) AddProduct(ctx context.Context, wishListID, productID string) (err error) {
	ctx, end := database.TraceQuery(ctx, database.SystemPostgres, "AddProductToWishList", addProductQuery)
	defer func() { end(err) }()

	var productExists bool
	if err = r.db.QueryRow(ctx, addProductQuery, wishListID, productID).Scan(&productExists); err != nil {
		return storeError("add product to wishlist", err)
	}
	if !productExists {
		return apperrors.NotFound("product", productID)
	}
	return nil
}

// List returns every wishlist in insertion order, each with its products in
// the order they were added.
func (r *WishListRepository) List(ctx context.Context) (_ []domain.WishListDetail, err error) {
	query := `
		SELECT w.id, w.title, w.created_at, p.id, COALESCE(p.title, ''), COALESCE(p.price, 0)
		FROM wishlists w
		LEFT JOIN wishlist_products wp ON wp.wishlist_id = w.id
		LEFT JOIN products p ON p.id = wp.product_id
		ORDER BY w.seq, wp.seq`

	ctx, end := database.TraceQuery(ctx, database.SystemPostgres, "ListWishLists", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, storeError("list wishlists", err)
	}
	defer rows.Close()

	lists := []domain.WishListDetail{}
	index := make(map[string]int)
	for rows.Next() {
		var (
			w         domain.WishListDetail
			productID pgtype.Text
			product   domain.Product
		)
		if err = rows.Scan(&w.ID, &w.Title, &w.CreatedAt, &productID, &product.Title, &product.Price); err != nil {
			return nil, storeError("scan wishlist", err)
		}

		i, seen := index[w.ID]
		if !seen {
			w.Products = []domain.Product{}
			lists = append(lists, w)
			i = len(lists) - 1
			index[w.ID] = i
		}
		// An empty wishlist still yields one row, with NULL product columns.
		if !productID.Valid {
			continue
		}
		product.ID = productID.String
		lists[i].Products = append(lists[i].Products, product)
	}
	if err = rows.Err(); err != nil {
		return nil, storeError("iterate wishlist rows", err)
	}

	return lists, nil
}
