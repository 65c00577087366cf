package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// MetricDocumentsCreated counts documents written per collection.
const MetricDocumentsCreated = "DocumentsCreated"

// Metrics publishes custom metrics to CloudWatch under one namespace.
type Metrics struct {
	CloudWatch CloudWatchAPI
	Namespace  string
	nowFunc    func() time.Time
}

// NewMetrics returns a Metrics recorder for namespace.
func NewMetrics(cw CloudWatchAPI, namespace string) *Metrics {
	return &Metrics{
		CloudWatch: cw,
		Namespace:  namespace,
		nowFunc:    time.Now,
	}
}

// RecordDocumentCreated emits a count of one for collection.
func (m *Metrics) RecordDocumentCreated(ctx context.Context, collection string) error {
	now := m.nowFunc()
	one := 1.0
	_, err := m.CloudWatch.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: &m.Namespace,
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: awsString(MetricDocumentsCreated),
				Dimensions: []cwtypes.Dimension{
					{Name: awsString("Collection"), Value: awsString(collection)},
				},
				Timestamp: &now,
				Unit:      cwtypes.StandardUnitCount,
				Value:     &one,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("put metric data: %w", err)
	}
	return nil
}
