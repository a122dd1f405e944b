package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"marketplace/internal/model"
)

const (
	accountsCollection = "accounts"
	productsCollection = "products"
)

type mongoAccountRepository struct {
	coll *mongo.Collection
}

// NewMongoAccountRepository creates a MongoDB-backed account repository.
func NewMongoAccountRepository(db *mongo.Database) AccountRepository {
	return &mongoAccountRepository{coll: db.Collection(accountsCollection)}
}

// EnsureMongoIndexes creates the indexes the repositories rely on.
// The unique email index is what makes registration conflict-safe.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(accountsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	_, err = db.Collection(productsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "seller_email", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "brand", Value: 1}}},
		{Keys: bson.D{{Key: "price", Value: 1}}},
	})
	return err
}

func translateMongoError(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicateKey
	default:
		return err
	}
}

func (r *mongoAccountRepository) Create(ctx context.Context, account *model.Account) error {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	_, err := r.coll.InsertOne(ctx, account)
	return translateMongoError(err)
}

func (r *mongoAccountRepository) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*model.Account, error) {
	var account model.Account
	if err := r.coll.FindOne(ctx, filter, opts...).Decode(&account); err != nil {
		return nil, translateMongoError(err)
	}
	return &account, nil
}

func (r *mongoAccountRepository) FindByID(ctx context.Context, id string) (*model.Account, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoAccountRepository) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoAccountRepository) List(ctx context.Context) ([]model.Account, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	accounts := make([]model.Account, 0)
	if err := cursor.All(ctx, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *mongoAccountRepository) ChangeRole(ctx context.Context, id string, role model.Role, now time.Time) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "ban_status": model.Unbanned},
		bson.M{"$set": bson.M{"role": role, "updated_at": now}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *mongoAccountRepository) Ban(ctx context.Context, id string, now time.Time) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"ban_status": model.Banned, "updated_at": now}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *mongoAccountRepository) AddToCollection(ctx context.Context, email string, kind model.CollectionKind, productID string, now time.Time) (bool, error) {
	field := string(kind)
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"email": email, "ban_status": model.Unbanned, field: bson.M{"$ne": productID}},
		bson.M{
			"$push": bson.M{field: productID},
			"$set":  bson.M{"updated_at": now},
		},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *mongoAccountRepository) RemoveFromCollection(ctx context.Context, email string, kind model.CollectionKind, productID string, now time.Time) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"email": email, "ban_status": model.Unbanned},
		bson.M{
			"$pull": bson.M{string(kind): productID},
			"$set":  bson.M{"updated_at": now},
		},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *mongoAccountRepository) CollectionIDs(ctx context.Context, email string, kind model.CollectionKind) ([]string, error) {
	account, err := r.findOne(ctx, bson.M{"email": email},
		options.FindOne().SetProjection(bson.M{string(kind): 1}))
	if err != nil {
		return nil, err
	}

	ids := account.Wishlist
	if kind == model.Cart {
		ids = account.Cart
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}
