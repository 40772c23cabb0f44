package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/utafrali/swagshop/internal/domain"
	"github.com/utafrali/swagshop/pkg/database"
)

type wishListDocument struct {
	ID       primitive.ObjectID   `bson:"_id,omitempty"`
	Title    string               `bson:"title"`
	Products []primitive.ObjectID `bson:"products"`
}

// wishListLookup is a wishlist joined with the products it references. The
// bson codec skips unexported embedded structs, so the wishlist fields are
// listed here rather than inlined.
type wishListLookup struct {
	ID          primitive.ObjectID   `bson:"_id"`
	Title       string               `bson:"title"`
	Products    []primitive.ObjectID `bson:"products"`
	ProductDocs []productDocument    `bson:"productDocs"`
}

func (d wishListLookup) toDomain() domain.WishListDetail {
	ids := make([]string, 0, len(d.Products))
	for _, oid := range d.Products {
		ids = append(ids, oid.Hex())
	}
	byID := make(map[string]domain.Product, len(d.ProductDocs))
	for _, pd := range d.ProductDocs {
		byID[pd.ID.Hex()] = pd.toDomain()
	}

	w := domain.WishList{ID: d.ID.Hex(), Title: d.Title, ProductIDs: ids, CreatedAt: d.ID.Timestamp()}
	return w.Expand(byID)
}

// WishListRepository implements repository.WishListRepository using MongoDB.
type WishListRepository struct {
	wishLists *mongo.Collection
	products  *ProductRepository
}

// NewWishListRepository creates a new MongoDB-backed wishlist repository.
func NewWishListRepository(db *mongo.Database) *WishListRepository {
	return &WishListRepository{
		wishLists: db.Collection(WishListsCollection),
		products:  NewProductRepository(db),
	}
}

// Create inserts a new wishlist with an empty product set.
func (r *WishListRepository) Create(ctx context.Context, w *domain.WishList) (err error) {
	ctx, end := database.TraceQuery(ctx, database.SystemMongoDB, "InsertWishList", "wishlists.insertOne")
	defer func() { end(err) }()

	doc := wishListDocument{ID: primitive.NewObjectID(), Title: w.Title, Products: []primitive.ObjectID{}}
	if _, err = r.wishLists.InsertOne(ctx, doc); err != nil {
		return storeError("insert wishlist", err)
	}

	w.ID = doc.ID.Hex()
	w.ProductIDs = []string{}
	w.CreatedAt = doc.ID.Timestamp()
	return nil
}

// AddProduct resolves the product and then applies $addToSet to the
// wishlist. A standalone server cannot make the two collections change
// together, so this takes two round trips. Matching no wishlist is not an
// error.
func (r *WishListRepository) AddProduct(ctx context.Context, wishListID, productID string) (err error) {
	product, err := r.products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	productOID, err := primitive.ObjectIDFromHex(product.ID)
	if err != nil {
		return err
	}

	wishListOID, perr := primitive.ObjectIDFromHex(wishListID)
	if perr != nil {
		// Cannot match any wishlist.
		return nil
	}

	ctx, end := database.TraceQuery(ctx, database.SystemMongoDB, "AddProductToWishList", "wishlists.updateOne $addToSet")
	defer func() { end(err) }()

	_, err = r.wishLists.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: wishListOID}},
		bson.D{{Key: "$addToSet", Value: bson.D{{Key: "products", Value: productOID}}}},
	)
	if err != nil {
		return storeError("add product to wishlist", err)
	}
	return nil
}

// List returns every wishlist with its products resolved through $lookup.
// $lookup does not keep array order, so products are re-ordered by the
// wishlist's id array.
func (r *WishListRepository) List(ctx context.Context) (_ []domain.WishListDetail, err error) {
	ctx, end := database.TraceQuery(ctx, database.SystemMongoDB, "ListWishLists", "wishlists.aggregate $lookup products")
	defer func() { end(err) }()

	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: ProductsCollection},
			{Key: "localField", Value: "products"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "productDocs"},
		}}},
	}

	cur, err := r.wishLists.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, storeError("list wishlists", err)
	}
	defer cur.Close(ctx)

	var docs []wishListLookup
	if err = cur.All(ctx, &docs); err != nil {
		return nil, storeError("decode wishlists", err)
	}

	out := make([]domain.WishListDetail, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}
