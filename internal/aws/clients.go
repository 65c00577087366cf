package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// Clients holds the service clients behind the DynamoDB document store, the order
// event publisher and the created-document metrics.
type Clients struct {
	DynamoDB   DynamoDBAPI
	SQS        SQSAPI
	CloudWatch CloudWatchAPI
}

// NewClients builds every client from one shared AWS config.
func NewClients(ctx context.Context) (*Clients, error) {
	cfg, err := LoadAWSConfig(ctx)
	if err != nil {
		return nil, err
	}

	return &Clients{
		DynamoDB:   dynamodb.NewFromConfig(cfg),
		SQS:        sqs.NewFromConfig(cfg),
		CloudWatch: cloudwatch.NewFromConfig(cfg),
	}, nil
}

// Publisher returns an order event publisher for queueURL, or nil when no queue is
// configured or c is nil.
func (c *Clients) Publisher(queueURL string) *Publisher {
	if c == nil || queueURL == "" {
		return nil
	}
	return NewPublisher(c.SQS, queueURL)
}

// Metrics returns a metrics recorder for namespace, or nil when no namespace is
// configured or c is nil.
func (c *Clients) Metrics(namespace string) *Metrics {
	if c == nil || namespace == "" {
		return nil
	}
	return NewMetrics(c.CloudWatch, namespace)
}
