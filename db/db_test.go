package db

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jsphweid/notegen/clip"
	"github.com/jsphweid/notegen/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDynamo keeps items in memory and splits scans into single-item pages.
type fakeDynamo struct {
	dynamodbiface.DynamoDBAPI
	items map[string]map[string]*dynamodb.AttributeValue
	table string
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: make(map[string]map[string]*dynamodb.AttributeValue)}
}

func (f *fakeDynamo) GetItemWithContext(_ aws.Context, in *dynamodb.GetItemInput, _ ...request.Option) (*dynamodb.GetItemOutput, error) {
	f.table = *in.TableName
	return &dynamodb.GetItemOutput{Item: f.items[*in.Key["PK"].S]}, nil
}

func (f *fakeDynamo) PutItemWithContext(_ aws.Context, in *dynamodb.PutItemInput, _ ...request.Option) (*dynamodb.PutItemOutput, error) {
	f.table = *in.TableName
	f.items[*in.Item["PK"].S] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) ScanPagesWithContext(_ aws.Context, in *dynamodb.ScanInput, fn func(*dynamodb.ScanOutput, bool) bool, _ ...request.Option) error {
	f.table = *in.TableName
	i := 0
	for _, item := range f.items {
		i++
		page := &dynamodb.ScanOutput{Items: []map[string]*dynamodb.AttributeValue{item}}
		if !fn(page, i == len(f.items)) {
			break
		}
	}
	return nil
}

func TestClipStore(t *testing.T) {
	ctx := context.Background()
	fake := newFakeDynamo()
	s := NewClipStore(fake, "")

	assert := assert.New(t)
	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(err, clip.ErrNotFound)
	assert.Equal(DefaultTable, fake.table)

	saved, err := s.Put(ctx, model.Clip{
		Name:        "verse",
		LengthTicks: 64,
		Tempo:       120,
		Progression: []model.ProgressionEntry{{Chord: "Am", Bars: 2}},
		Notes:       []model.NoteEvent{{Pitch: 60, Start: 0, Length: 4, Velocity: 100}},
	})
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	got, err := s.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(saved, got)

	_, err = s.Put(ctx, model.Clip{ID: "chorus"})
	require.NoError(t, err)
	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(all, 2)
}
