package store

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo stores each collection in a MongoDB collection of the same name.
type Mongo struct {
	client  *mongo.Client
	db      *mongo.Database
	nowFunc func() time.Time
}

// NewMongo creates a client for uri. The driver connects lazily, so an unreachable
// server is only reported by Ping or by the first operation.
func NewMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	clientOptions := options.Client().
		ApplyURI(uri).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})
	if err := clientOptions.Validate(); err != nil {
		return nil, fmt.Errorf("invalid mongo uri: %w", err)
	}

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	return &Mongo{
		client:  client,
		db:      client.Database(database),
		nowFunc: time.Now,
	}, nil
}

// Ping checks that the server is reachable.
func (m *Mongo) Ping(ctx context.Context) error {
	if err := m.client.Ping(ctx, nil); err != nil {
		return opError("ping", "", err)
	}
	return nil
}

func (m *Mongo) Name() string { return m.db.Name() }

func (m *Mongo) CreateDocument(ctx context.Context, collection string, doc Document) (string, error) {
	if err := ValidateCollection(collection); err != nil {
		return "", opError("create", collection, err)
	}
	res, err := m.db.Collection(collection).InsertOne(ctx, bson.M(stamp(doc, m.nowFunc())))
	if err != nil {
		return "", opError("create", collection, err)
	}
	return idString(res.InsertedID), nil
}

func (m *Mongo) GetDocuments(ctx context.Context, collection string, filter Filter) ([]Document, error) {
	if err := ValidateCollection(collection); err != nil {
		return nil, opError("find", collection, err)
	}
	query, err := mongoFilter(filter)
	if err != nil {
		return nil, opError("find", collection, err)
	}

	cursor, err := m.db.Collection(collection).Find(ctx, query)
	if err != nil {
		return nil, opError("find", collection, err)
	}
	defer cursor.Close(ctx)

	var raw []bson.M
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, opError("find", collection, err)
	}
	docs := make([]Document, 0, len(raw))
	for _, r := range raw {
		docs = append(docs, Document(r))
	}
	return docs, nil
}

func (m *Mongo) CountDocuments(ctx context.Context, collection string, filter Filter) (int64, error) {
	if err := ValidateCollection(collection); err != nil {
		return 0, opError("count", collection, err)
	}
	query, err := mongoFilter(filter)
	if err != nil {
		return 0, opError("count", collection, err)
	}
	n, err := m.db.Collection(collection).CountDocuments(ctx, query)
	if err != nil {
		return 0, opError("count", collection, err)
	}
	return n, nil
}

func (m *Mongo) ListCollections(ctx context.Context) ([]string, error) {
	names, err := m.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, opError("list collections", "", err)
	}
	return names, nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// mongoFilter translates a Filter into a query document. Substrings are quoted so
// user input is never interpreted as a regular expression.
func mongoFilter(f Filter) (bson.M, error) {
	switch t := f.(type) {
	case nil:
		return bson.M{}, nil
	case Eq:
		return bson.M{t.Field: t.Value}, nil
	case Contains:
		return bson.M{t.Field: foldRegex(t.Substring)}, nil
	case AnyContains:
		return bson.M{t.Field: bson.M{"$elemMatch": foldRegex(t.Substring)}}, nil
	case In:
		return bson.M{t.Field: bson.M{"$in": bson.A(t.Values)}}, nil
	case Or:
		if len(t) == 0 {
			return bson.M{IDField: bson.M{"$in": bson.A{}}}, nil
		}
		parts, err := mongoFilters(t)
		if err != nil {
			return nil, err
		}
		return bson.M{"$or": parts}, nil
	case And:
		switch len(t) {
		case 0:
			return bson.M{}, nil
		case 1:
			return mongoFilter(t[0])
		}
		parts, err := mongoFilters(t)
		if err != nil {
			return nil, err
		}
		return bson.M{"$and": parts}, nil
	default:
		return nil, fmt.Errorf("unsupported filter %s", describe(f))
	}
}

func mongoFilters(fs []Filter) (bson.A, error) {
	parts := make(bson.A, 0, len(fs))
	for _, sub := range fs {
		q, err := mongoFilter(sub)
		if err != nil {
			return nil, err
		}
		parts = append(parts, q)
	}
	return parts, nil
}

func foldRegex(substr string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(substr), "$options": "i"}
}
