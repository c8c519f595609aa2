package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"moviefinder/searches"
)

const attrSearchTerm = "search_term"

// SearchRepository implements searches.Repository on a table whose
// partition key is the string attribute search_term.
type SearchRepository struct {
	client *dynamodb.Client
	table  string
}

type searchItem struct {
	SearchTerm string    `dynamodbav:"search_term"`
	ID         string    `dynamodbav:"id"`
	Title      string    `dynamodbav:"title"`
	PosterURL  string    `dynamodbav:"poster_url,omitempty"`
	Count      int       `dynamodbav:"count"`
	MovieID    int       `dynamodbav:"movie_id"`
	CreatedAt  time.Time `dynamodbav:"created_at"`
	UpdatedAt  time.Time `dynamodbav:"updated_at"`
}

func NewSearchRepository(client *dynamodb.Client, table string) *SearchRepository {
	return &SearchRepository{
		client: client,
		table:  table,
	}
}

func (r *SearchRepository) FindByTerm(ctx context.Context, term string) (searches.Entry, error) {
	if err := validateTable(r.table); err != nil {
		return searches.Entry{}, err
	}

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      &r.table,
		Key:            termKey(term),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return searches.Entry{}, fmt.Errorf("dynamodb: get search: %w", err)
	}
	if len(out.Item) == 0 {
		return searches.Entry{}, searches.ErrNotFound
	}

	var item searchItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return searches.Entry{}, fmt.Errorf("dynamodb: unmarshal search: %w", err)
	}
	return item.entry(), nil
}

func (r *SearchRepository) Create(ctx context.Context, e searches.Entry) error {
	if err := validateTable(r.table); err != nil {
		return err
	}

	item := searchItem{
		SearchTerm: e.SearchTerm,
		ID:         uuid.NewString(),
		Title:      e.Title,
		PosterURL:  e.PosterURL,
		Count:      e.Count,
		MovieID:    e.MovieID,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("dynamodb: marshal search: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &r.table,
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("dynamodb: put search: %w", err)
	}
	return nil
}

func (r *SearchRepository) UpdateCount(ctx context.Context, term string, count int, at time.Time) error {
	if err := validateTable(r.table); err != nil {
		return err
	}

	updated, err := attributevalue.Marshal(at)
	if err != nil {
		return fmt.Errorf("dynamodb: marshal timestamp: %w", err)
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           &r.table,
		Key:                 termKey(term),
		UpdateExpression:    aws.String("SET #count = :count, updated_at = :updated"),
		ConditionExpression: aws.String("attribute_exists(" + attrSearchTerm + ")"),
		ExpressionAttributeNames: map[string]string{
			"#count": "count",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":count":   &types.AttributeValueMemberN{Value: strconv.Itoa(count)},
			":updated": updated,
		},
	})
	if err != nil {
		var cond *types.ConditionalCheckFailedException
		if errors.As(err, &cond) {
			return searches.ErrNotFound
		}
		return fmt.Errorf("dynamodb: update search: %w", err)
	}
	return nil
}

// Top scans every positive counter and ranks them client side.
func (r *SearchRepository) Top(ctx context.Context, limit int) ([]searches.Entry, error) {
	if err := validateTable(r.table); err != nil {
		return nil, err
	}

	var items []searchItem
	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName:        &r.table,
		FilterExpression: aws.String("#count > :zero"),
		ExpressionAttributeNames: map[string]string{
			"#count": "count",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":zero": &types.AttributeValueMemberN{Value: "0"},
		},
	})
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("dynamodb: scan searches: %w", err)
		}

		var page []searchItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("dynamodb: unmarshal searches: %w", err)
		}
		items = append(items, page...)
	}

	return rank(items, limit), nil
}

func rank(items []searchItem, limit int) []searches.Entry {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return items[i].UpdatedAt.After(items[j].UpdatedAt)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	entries := make([]searches.Entry, len(items))
	for i, item := range items {
		entries[i] = item.entry()
	}
	return entries
}

func termKey(term string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrSearchTerm: &types.AttributeValueMemberS{Value: term},
	}
}

func (i searchItem) entry() searches.Entry {
	return searches.Entry{
		ID:         i.ID,
		SearchTerm: i.SearchTerm,
		Title:      i.Title,
		PosterURL:  i.PosterURL,
		Count:      i.Count,
		MovieID:    i.MovieID,
		CreatedAt:  i.CreatedAt,
		UpdatedAt:  i.UpdatedAt,
	}
}
