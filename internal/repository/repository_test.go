package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"marketplace/internal/model"
)

func TestOrderByIDs(t *testing.T) {
	products := []model.Product{{ID: "c"}, {ID: "a"}}

	got := orderByIDs([]string{"a", "b", "c"}, products)

	assert.Equal(t, []model.Product{{ID: "a"}, {ID: "c"}}, got)
}

func TestOrderByIDs_Empty(t *testing.T) {
	got := orderByIDs(nil, nil)

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestTranslateGormError(t *testing.T) {
	assert.ErrorIs(t, translateGormError(gorm.ErrRecordNotFound), ErrNotFound)
	assert.ErrorIs(t, translateGormError(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey)), ErrDuplicateKey)

	other := errors.New("boom")
	assert.Equal(t, other, translateGormError(other))
	assert.NoError(t, translateGormError(nil))
}

func TestTranslateMongoError(t *testing.T) {
	assert.ErrorIs(t, translateMongoError(mongo.ErrNoDocuments), ErrNotFound)

	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}
	assert.ErrorIs(t, translateMongoError(dup), ErrDuplicateKey)
	assert.NoError(t, translateMongoError(nil))
}

func TestSearchFilter(t *testing.T) {
	filter := searchFilter(model.ProductFilter{Name: "a.b", Category: "shoes", Brand: "acme"})

	assert.Equal(t, primitive.Regex{Pattern: `a\.b`, Options: "i"}, filter["name"])
	assert.Equal(t, "shoes", filter["category"])
	assert.Equal(t, "acme", filter["brand"])
	assert.NotContains(t, filter, "seller_email")
}

func TestSearchFilter_EmptyMatchesEverything(t *testing.T) {
	assert.Empty(t, searchFilter(model.ProductFilter{Page: 1, Limit: 6}))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_now`, escapeLike("50% off_now"))
}
