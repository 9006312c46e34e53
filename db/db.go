// Package db is a DynamoDB backed clip store.
package db

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/google/uuid"
	"github.com/jsphweid/notegen/clip"
	"github.com/jsphweid/notegen/model"
)

const DefaultTable = "notegen-clips"

type clipItem struct {
	PK   string     `dynamodbav:"PK"`
	Clip model.Clip `dynamodbav:"Clip"`
}

// ClipStore implements clip.Store on one table keyed by PK.
type ClipStore struct {
	client dynamodbiface.DynamoDBAPI
	table  string
}

var _ clip.Store = (*ClipStore)(nil)

func NewClipStore(client dynamodbiface.DynamoDBAPI, table string) *ClipStore {
	if table == "" {
		table = DefaultTable
	}
	return &ClipStore{client: client, table: table}
}

// NewClient connects to DynamoDB. An empty endpoint uses the AWS default
// for the region; local development points it at http://localhost:8000.
func NewClient(endpoint, region string) (*dynamodb.DynamoDB, error) {
	cfg := &aws.Config{Region: aws.String(region)}
	if endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("could not create a new DynamoDB session: %w", err)
	}
	return dynamodb.New(sess), nil
}

func key(id string) map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{
		"PK": {S: aws.String(id)},
	}
}

func (s *ClipStore) Get(ctx context.Context, id string) (model.Clip, error) {
	out, err := s.client.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key:       key(id),
	})
	if err != nil {
		return model.Clip{}, fmt.Errorf("error from DynamoDB: %w", err)
	}
	if len(out.Item) == 0 {
		return model.Clip{}, fmt.Errorf("%w: %v", clip.ErrNotFound, id)
	}
	var item clipItem
	if err := dynamodbattribute.UnmarshalMap(out.Item, &item); err != nil {
		return model.Clip{}, fmt.Errorf("could not decode clip %v: %w", id, err)
	}
	return item.Clip, nil
}

func (s *ClipStore) Put(ctx context.Context, c model.Clip) (model.Clip, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	av, err := dynamodbattribute.MarshalMap(clipItem{PK: c.ID, Clip: c})
	if err != nil {
		return model.Clip{}, fmt.Errorf("could not encode clip %v: %w", c.ID, err)
	}
	_, err = s.client.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      av,
	})
	if err != nil {
		return model.Clip{}, fmt.Errorf("error from DynamoDB: %w", err)
	}
	return c, nil
}

func (s *ClipStore) List(ctx context.Context) ([]model.Clip, error) {
	var res []model.Clip
	var decodeErr error
	err := s.client.ScanPagesWithContext(ctx, &dynamodb.ScanInput{
		TableName: aws.String(s.table),
	}, func(page *dynamodb.ScanOutput, last bool) bool {
		var items []clipItem
		if decodeErr = dynamodbattribute.UnmarshalListOfMaps(page.Items, &items); decodeErr != nil {
			return false
		}
		for _, item := range items {
			res = append(res, item.Clip)
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("error from DynamoDB: %w", err)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("could not decode clips: %w", decodeErr)
	}
	return res, nil
}
