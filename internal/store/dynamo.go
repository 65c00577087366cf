package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"

	internalaws "github.com/imrishuroy/go-herbal-store/internal/aws"
)

// Dynamo stores each collection in the DynamoDB table <prefix><collection>, keyed by
// the string attribute _id. Reads scan the table and evaluate filters in process.
type Dynamo struct {
	client  internalaws.DynamoDBAPI
	prefix  string
	nowFunc func() time.Time
}

// NewDynamo returns a store over client using tables named prefix+collection.
func NewDynamo(client internalaws.DynamoDBAPI, prefix string) *Dynamo {
	return &Dynamo{
		client:  client,
		prefix:  prefix,
		nowFunc: time.Now,
	}
}

func (d *Dynamo) Name() string { return d.prefix }

func (d *Dynamo) table(collection string) *string {
	name := d.prefix + collection
	return &name
}

func (d *Dynamo) CreateDocument(ctx context.Context, collection string, doc Document) (string, error) {
	if err := ValidateCollection(collection); err != nil {
		return "", opError("create", collection, err)
	}
	id := uuid.NewString()
	stored := stamp(doc, d.nowFunc())
	stored[IDField] = id

	item, err := attributevalue.MarshalMap(map[string]interface{}(stored))
	if err != nil {
		return "", opError("create", collection, fmt.Errorf("marshal document: %w", err))
	}

	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                d.table(collection),
		Item:                     item,
		ConditionExpression:      awsString("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{"#id": IDField},
	})
	if err != nil {
		if isTableMissing(err) {
			return "", opError("create", collection, fmt.Errorf("%w: table %s does not exist", ErrInvalidCollection, *d.table(collection)))
		}
		return "", opError("create", collection, fmt.Errorf("put item: %w", err))
	}
	return id, nil
}

// GetDocuments returns matches ordered by created_at. A missing table reads as empty,
// the same as an absent Mongo collection.
func (d *Dynamo) GetDocuments(ctx context.Context, collection string, filter Filter) ([]Document, error) {
	if err := ValidateCollection(collection); err != nil {
		return nil, opError("find", collection, err)
	}

	out := []Document{}
	var startKey map[string]types.AttributeValue
	for {
		page, err := d.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         d.table(collection),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			if isTableMissing(err) {
				return []Document{}, nil
			}
			return nil, opError("find", collection, fmt.Errorf("scan: %w", err))
		}
		for _, item := range page.Items {
			var doc map[string]interface{}
			if err := attributevalue.UnmarshalMap(item, &doc); err != nil {
				return nil, opError("find", collection, fmt.Errorf("unmarshal item: %w", err))
			}
			if Matches(filter, doc) {
				out = append(out, doc)
			}
		}
		if len(page.LastEvaluatedKey) == 0 {
			break
		}
		startKey = page.LastEvaluatedKey
	}

	sort.SliceStable(out, func(i, j int) bool {
		return createdAt(out[i]).Before(createdAt(out[j]))
	})
	return out, nil
}

func (d *Dynamo) CountDocuments(ctx context.Context, collection string, filter Filter) (int64, error) {
	docs, err := d.GetDocuments(ctx, collection, filter)
	if err != nil {
		return 0, opError("count", collection, unwrap(err))
	}
	return int64(len(docs)), nil
}

func (d *Dynamo) ListCollections(ctx context.Context) ([]string, error) {
	var names []string
	var start *string
	for {
		out, err := d.client.ListTables(ctx, &dynamodb.ListTablesInput{ExclusiveStartTableName: start})
		if err != nil {
			return nil, opError("list collections", "", fmt.Errorf("list tables: %w", err))
		}
		for _, t := range out.TableNames {
			if strings.HasPrefix(t, d.prefix) && len(t) > len(d.prefix) {
				names = append(names, strings.TrimPrefix(t, d.prefix))
			}
		}
		if out.LastEvaluatedTableName == nil {
			break
		}
		start = out.LastEvaluatedTableName
	}
	return names, nil
}

func (d *Dynamo) Close(ctx context.Context) error { return nil }

func isTableMissing(err error) bool {
	var rnf *types.ResourceNotFoundException
	if errors.As(err, &rnf) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "ResourceNotFoundException"
}

func createdAt(doc Document) time.Time {
	switch v := doc[CreatedAtField].(type) {
	case string:
		t, _ := time.Parse(time.RFC3339Nano, v)
		return t
	case time.Time:
		return v
	}
	return time.Time{}
}

func awsString(s string) *string { return &s }
