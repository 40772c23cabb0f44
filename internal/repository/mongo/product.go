package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/utafrali/swagshop/internal/domain"
	"github.com/utafrali/swagshop/pkg/database"
	apperrors "github.com/utafrali/swagshop/pkg/errors"
)

type productDocument struct {
	ID    primitive.ObjectID `bson:"_id,omitempty"`
	Title string             `bson:"title"`
	Price float64            `bson:"price"`
}

func (d productDocument) toDomain() domain.Product {
	return domain.Product{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Price:     d.Price,
		CreatedAt: d.ID.Timestamp(),
	}
}

// ProductRepository implements repository.ProductRepository using MongoDB.
type ProductRepository struct {
	coll *mongo.Collection
}

// NewProductRepository creates a new MongoDB-backed product repository.
func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{coll: db.Collection(ProductsCollection)}
}

// Create inserts a new product and fills in its generated id.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) (err error) {
	ctx, end := database.TraceQuery(ctx, database.SystemMongoDB, "InsertProduct", "products.insertOne")
	defer func() { end(err) }()

	doc := productDocument{ID: primitive.NewObjectID(), Title: p.Title, Price: p.Price}
	if _, err = r.coll.InsertOne(ctx, doc); err != nil {
		return storeError("insert product", err)
	}

	*p = doc.toDomain()
	return nil
}

// GetByID retrieves a product by its hex id.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (_ *domain.Product, err error) {
	oid, err := parseID("product", id)
	if err != nil {
		return nil, err
	}

	ctx, end := database.TraceQuery(ctx, database.SystemMongoDB, "GetProduct", "products.findOne")
	defer func() { end(err) }()

	var doc productDocument
	if err = r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, storeError("get product", err)
	}

	p := doc.toDomain()
	return &p, nil
}

// List returns every product ordered by id, which follows insertion order.
func (r *ProductRepository) List(ctx context.Context) (_ []domain.Product, err error) {
	ctx, end := database.TraceQuery(ctx, database.SystemMongoDB, "ListProducts", "products.find")
	defer func() { end(err) }()

	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, storeError("list products", err)
	}
	defer cur.Close(ctx)

	var docs []productDocument
	if err = cur.All(ctx, &docs); err != nil {
		return nil, storeError("decode products", err)
	}

	products := make([]domain.Product, 0, len(docs))
	for _, d := range docs {
		products = append(products, d.toDomain())
	}
	return products, nil
}
