package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/swagshop/internal/domain"
	"github.com/utafrali/swagshop/pkg/database"
)

// ProductRepository implements repository.ProductRepository using PostgreSQL.
type ProductRepository struct {
	db database.DBTX
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(db database.DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserts a new product with a generated id.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) (err error) {
	query := `
		INSERT INTO products (id, title, price, created_at)
		VALUES ($1, $2, $3, $4)`

	ctx, end := database.TraceQuery(ctx, database.SystemPostgres, "InsertProduct", query)
	defer func() { end(err) }()

	id := uuid.New().String()
	createdAt := time.Now().UTC()
	if _, err = r.db.Exec(ctx, query, id, p.Title, p.Price, createdAt); err != nil {
		return storeError("insert product", err)
	}

	p.ID = id
	p.CreatedAt = createdAt
	return nil
}

// List returns every product in insertion order.
func (r *ProductRepository) List(ctx context.Context) (_ []domain.Product, err error) {
	query := `SELECT id, title, price, created_at FROM products ORDER BY seq`

	ctx, end := database.TraceQuery(ctx, database.SystemPostgres, "ListProducts", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, storeError("list products", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err = rows.Scan(&p.ID, &p.Title, &p.Price, &p.CreatedAt); err != nil {
			return nil, storeError("scan product", err)
		}
		products = append(products, p)
	}
	if err = rows.Err(); err != nil {
		return nil, storeError("iterate product rows", err)
	}

	return products, nil
}
