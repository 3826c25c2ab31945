package analytics

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// EventStore writes raw interaction events.
type EventStore interface {
	RecordEvent(ctx context.Context, event *Event) error
}

type dynamoEventStore struct {
	client *dynamodb.Client
	table  string
}

// NewDynamoEventStore creates a DynamoDB-backed event store. Raw events go
// to DynamoDB because writes dominate reads; the rollup job drains them
// into Postgres for querying.
func NewDynamoEventStore(client *dynamodb.Client, table string) EventStore {
	return &dynamoEventStore{client: client, table: table}
}

func (s *dynamoEventStore) RecordEvent(ctx context.Context, event *Event) error {
	item, err := attributevalue.MarshalMap(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}
	return nil
}
