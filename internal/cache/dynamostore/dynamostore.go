package dynamostore

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/taxlien/domaincheck/internal/cache"
	"github.com/taxlien/domaincheck/internal/model"
)

// DynamoStore is a DynamoDB implementation of cache.Store.
// The table is keyed by the normalized domain name (PK "domain"); the TTL
// invariant is enforced client-side on read so behavior matches the other
// backends regardless of the table's TTL settings.
type DynamoStore struct {
	client    *dynamodb.Client
	tableName string
	now       func() time.Time
}

// New creates a DynamoDB-backed cache store
func New(client *dynamodb.Client, tableName string) *DynamoStore {
	return &DynamoStore{
		client:    client,
		tableName: tableName,
		now:       time.Now,
	}
}

// Get retrieves the cached info for a domain.
// Expired entries are lazily deleted and reported as ErrNotFound.
func (s *DynamoStore) Get(ctx context.Context, domain string) (*model.DomainInfo, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key:       s.key(domain),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get cache entry: %w", err)
	}

	if result.Item == nil {
		return nil, cache.ErrNotFound
	}

	var entry cache.Entry
	if err := attributevalue.UnmarshalMap(result.Item, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache entry: %w", err)
	}

	if entry.Expired(s.now()) {
		// Lazy purge; a failed delete still counts as a miss
		_, _ = s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(s.tableName),
			Key:       s.key(domain),
		})
		return nil, cache.ErrNotFound
	}

	return entry.Info()
}

// Set upserts the cached info for a domain.
// PutItem with the same key overwrites the existing item, which gives the
// upsert semantics the cache requires.
func (s *DynamoStore) Set(ctx context.Context, domain string, info *model.DomainInfo, ttl time.Duration) error {
	entry, err := cache.NewEntry(domain, info, ttl, s.now())
	if err != nil {
		return err
	}

	item, err := attributevalue.MarshalMap(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}

	return nil
}

// Delete removes the entry for a domain. Missing entries are not an error.
func (s *DynamoStore) Delete(ctx context.Context, domain string) error {
	if _, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key:       s.key(domain),
	}); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// Clear removes all entries by scanning the table and deleting each item.
// Note: for large tables this should use pagination; the cache tables this
// tool writes stay small.
func (s *DynamoStore) Clear(ctx context.Context) error {
	result, err := s.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:            aws.String(s.tableName),
		ProjectionExpression: aws.String("#d"),
		ExpressionAttributeNames: map[string]string{
			"#d": "domain",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to scan cache entries: %w", err)
	}

	for _, item := range result.Items {
		var entry cache.Entry
		if err := attributevalue.UnmarshalMap(item, &entry); err != nil {
			return fmt.Errorf("failed to unmarshal cache entry: %w", err)
		}
		if err := s.Delete(ctx, entry.Domain); err != nil {
			return err
		}
	}
	return nil
}

// Stats counts total and expired entries via a scan, without deleting anything
func (s *DynamoStore) Stats(ctx context.Context) (cache.Stats, error) {
	result, err := s.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(s.tableName),
	})
	if err != nil {
		return cache.Stats{}, fmt.Errorf("failed to scan cache entries: %w", err)
	}

	now := s.now()
	stats := cache.Stats{TotalEntries: len(result.Items)}
	for _, item := range result.Items {
		var entry cache.Entry
		if err := attributevalue.UnmarshalMap(item, &entry); err != nil {
			return cache.Stats{}, fmt.Errorf("failed to unmarshal cache entry: %w", err)
		}
		if entry.Expired(now) {
			stats.ExpiredEntries++
		}
	}
	stats.ActiveEntries = stats.TotalEntries - stats.ExpiredEntries
	return stats, nil
}

func (s *DynamoStore) key(domain string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"domain": &types.AttributeValueMemberS{Value: domain},
	}
}
