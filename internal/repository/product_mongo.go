package repository

import (
	"context"
	"regexp"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"marketplace/internal/model"
)

type mongoProductRepository struct {
	coll *mongo.Collection
}

// NewMongoProductRepository creates a MongoDB-backed listing repository.
func NewMongoProductRepository(db *mongo.Database) ProductRepository {
	return &mongoProductRepository{coll: db.Collection(productsCollection)}
}

func (r *mongoProductRepository) Create(ctx context.Context, product *model.Product) error {
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	if product.Ratings == nil {
		product.Ratings = []model.Rating{}
	}
	_, err := r.coll.InsertOne(ctx, product)
	return translateMongoError(err)
}

func (r *mongoProductRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		return nil, translateMongoError(err)
	}
	return &product, nil
}

func (r *mongoProductRepository) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]model.Product, error) {
	cursor, err := r.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	products := make([]model.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *mongoProductRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}
	products, err := r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	return orderByIDs(ids, products), nil
}

func (r *mongoProductRepository) ListBySeller(ctx context.Context, sellerEmail string) ([]model.Product, error) {
	return r.find(ctx, bson.M{"seller_email": sellerEmail},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
}

func searchFilter(f model.ProductFilter) bson.M {
	filter := bson.M{}
	if f.Name != "" {
		filter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Name), Options: "i"}
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Brand != "" {
		filter["brand"] = f.Brand
	}
	if f.SellerEmail != "" {
		filter["seller_email"] = f.SellerEmail
	}
	return filter
}

func (r *mongoProductRepository) Search(ctx context.Context, f model.ProductFilter) (*model.ProductPage, error) {
	filter := searchFilter(f)

	opts := options.Find().SetSkip(int64(f.Offset())).SetLimit(int64(f.Limit))
	switch f.Sort {
	case "asc":
		opts.SetSort(bson.D{{Key: "price", Value: 1}})
	case "desc":
		opts.SetSort(bson.D{{Key: "price", Value: -1}})
	}

	products, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}

	categories, err := r.distinct(ctx, "category", filter)
	if err != nil {
		return nil, err
	}
	brands, err := r.distinct(ctx, "brand", filter)
	if err != nil {
		return nil, err
	}

	return &model.ProductPage{
		Products:      products,
		Categories:    categories,
		Brands:        brands,
		TotalProducts: total,
	}, nil
}

func (r *mongoProductRepository) distinct(ctx context.Context, field string, filter bson.M) ([]string, error) {
	values, err := r.coll.Distinct(ctx, field, filter)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *mongoProductRepository) UpdateOwned(ctx context.Context, id, sellerEmail string, fields map[string]interface{}, now time.Time) (*model.Product, error) {
	set := bson.M{"updated_at": now}
	for k, v := range fields {
		set[k] = v
	}

	var product model.Product
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "seller_email": sellerEmail},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&product)
	if err != nil {
		return nil, translateMongoError(err)
	}
	return &product, nil
}

func (r *mongoProductRepository) DeleteOwned(ctx context.Context, id, sellerEmail string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id, "seller_email": sellerEmail})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
