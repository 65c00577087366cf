package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestMongoFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   bson.M
	}{
		{"nil", nil, bson.M{}},
		{"empty and", And{}, bson.M{}},
		{"eq", Eq{Field: "category", Value: "Teh"}, bson.M{"category": "Teh"}},
		{
			"contains quotes pattern",
			Contains{Field: "name", Substring: "a.b"},
			bson.M{"name": bson.M{"$regex": `a\.b`, "$options": "i"}},
		},
		{
			"any contains",
			AnyContains{Field: "ingredients", Substring: "jahe"},
			bson.M{"ingredients": bson.M{"$elemMatch": bson.M{"$regex": "jahe", "$options": "i"}}},
		},
		{
			"in",
			In{Field: "tags", Values: []interface{}{"kunyit"}},
			bson.M{"tags": bson.M{"$in": bson.A{"kunyit"}}},
		},
		{
			"single and unwraps",
			And{Eq{Field: "category", Value: "Teh"}},
			bson.M{"category": "Teh"},
		},
		{
			"and of or",
			And{
				Or{Contains{Field: "name", Substring: "q"}, Contains{Field: "description", Substring: "q"}},
				Eq{Field: "category", Value: "Teh"},
			},
			bson.M{"$and": bson.A{
				bson.M{"$or": bson.A{
					bson.M{"name": bson.M{"$regex": "q", "$options": "i"}},
					bson.M{"description": bson.M{"$regex": "q", "$options": "i"}},
				}},
				bson.M{"category": "Teh"},
			}},
		},
		{"empty or matches nothing", Or{}, bson.M{"_id": bson.M{"$in": bson.A{}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := mongoFilter(tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type customFilter struct{}

func (customFilter) Match(Document) bool { return true }

func TestMongoFilter_Unsupported(t *testing.T) {
	_, err := mongoFilter(Or{customFilter{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported filter")
}
