package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"kinship-backend/internal/domain"
	appErrors "kinship-backend/pkg/errors"
)

// ddbSnapshot is the shape of a graph snapshot item in DynamoDB. The
// whole graph is one item: personal graphs are small and every mutation
// rewrites the full snapshot anyway.
type ddbSnapshot struct {
	PK        string          `dynamodbav:"PK"`
	SK        string          `dynamodbav:"SK"`
	Snapshot  domain.Snapshot `dynamodbav:"Snapshot"`
	UpdatedAt string          `dynamodbav:"UpdatedAt"`
}

const snapshotSK = "GRAPH#SNAPSHOT"

// DynamoStore implements Store on DynamoDB. This is the only layer that
// should have knowledge of DynamoDB specifics.
type DynamoStore struct {
	dbClient *dynamodb.Client
	table    string
}

// NewDynamoStore creates a DynamoDB-backed snapshot store.
func NewDynamoStore(dbClient *dynamodb.Client, table string) *DynamoStore {
	return &DynamoStore{dbClient: dbClient, table: table}
}

func snapshotPK(userID string) string {
	return fmt.Sprintf("USER#%s", userID)
}

// LoadSnapshot fetches the user's snapshot item.
func (s *DynamoStore) LoadSnapshot(ctx context.Context, userID string) (*domain.Snapshot, error) {
	out, err := s.dbClient.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: snapshotPK(userID)},
			"SK": &types.AttributeValueMemberS{Value: snapshotSK},
		},
	})
	if err != nil {
		return nil, appErrors.Wrap(err, "failed to get snapshot item")
	}
	if out.Item == nil {
		return nil, ErrSnapshotNotFound
	}

	var item ddbSnapshot
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, appErrors.Wrap(err, "failed to unmarshal snapshot item")
	}
	return &item.Snapshot, nil
}

// SaveSnapshot overwrites the user's snapshot item.
func (s *DynamoStore) SaveSnapshot(ctx context.Context, userID string, snap *domain.Snapshot) error {
	item, err := attributevalue.MarshalMap(ddbSnapshot{
		PK:        snapshotPK(userID),
		SK:        snapshotSK,
		Snapshot:  *snap,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return appErrors.Wrap(err, "failed to marshal snapshot item")
	}

	_, err = s.dbClient.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return appErrors.Wrap(err, "failed to put snapshot item")
	}
	return nil
}
