package s3

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/hupe1980/eidgo/snapshotstore"
)

// DDBLatestStore implements snapshotstore.Store backed by S3 with DynamoDB
// holding the LATEST pointer. This enables safe concurrent writers.
//
// S3 lacks compare-and-swap, so two processes saving at the same time could
// each move a plain-object LATEST pointer and silently drop one commit.
// DynamoDB conditional writes give the pointer update atomic semantics:
//   - Snapshot bodies are written to S3 as usual
//   - Pointer moves append a monotonically increasing version row, with a
//     condition that the version does not exist yet
//   - A losing writer gets ErrConcurrentCommit instead of clobbering
//
// Table schema:
//   - Partition key: base_uri (string) - the S3 bucket/prefix
//   - Sort key: version (number) - monotonically increasing commit version
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name eid-registry-commits \
//	  --attribute-definitions AttributeName=base_uri,AttributeType=S AttributeName=version,AttributeType=N \
//	  --key-schema AttributeName=base_uri,KeyType=HASH AttributeName=version,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type DDBLatestStore struct {
	inner     snapshotstore.Store
	ddbClient DDBClient
	tableName string
	baseURI   string
}

// DDBClient is the interface for DynamoDB operations.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// ErrConcurrentCommit is returned when another writer moved the LATEST
// pointer first.
var ErrConcurrentCommit = errors.New("concurrent snapshot commit detected")

// NewDDBLatestStore creates a snapshot store that delegates object storage
// to inner and routes LATEST pointer reads/writes through DynamoDB.
// baseURI should be "s3://bucket/prefix", used as the partition key.
func NewDDBLatestStore(inner snapshotstore.Store, ddbClient DDBClient, tableName, baseURI string) *DDBLatestStore {
	return &DDBLatestStore{
		inner:     inner,
		ddbClient: ddbClient,
		tableName: tableName,
		baseURI:   baseURI,
	}
}

// Put writes a snapshot. The LATEST pointer goes through a DynamoDB
// conditional write; everything else delegates to the inner store.
func (s *DDBLatestStore) Put(ctx context.Context, name string, data []byte) error {
	if name == snapshotstore.LatestPointer {
		return s.commitLatest(ctx, string(data))
	}
	return s.inner.Put(ctx, name, data)
}

// Get reads a snapshot. The LATEST pointer resolves from DynamoDB.
func (s *DDBLatestStore) Get(ctx context.Context, name string) ([]byte, error) {
	if name == snapshotstore.LatestPointer {
		version, snapshotName, err := s.latestCommit(ctx)
		if err != nil {
			return nil, err
		}
		if version == 0 {
			return nil, snapshotstore.ErrNotFound
		}
		return []byte(snapshotName), nil
	}
	return s.inner.Get(ctx, name)
}

// List delegates to the inner store.
func (s *DDBLatestStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

// Delete delegates to the inner store. Commit rows are never deleted; they
// are the audit trail of pointer moves.
func (s *DDBLatestStore) Delete(ctx context.Context, name string) error {
	if name == snapshotstore.LatestPointer {
		return nil
	}
	return s.inner.Delete(ctx, name)
}

// latestCommit queries DynamoDB for the newest committed pointer row.
func (s *DDBLatestStore) latestCommit(ctx context.Context) (uint64, string, error) {
	resp, err := s.ddbClient.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("base_uri = :uri"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uri": &types.AttributeValueMemberS{Value: s.baseURI},
		},
		ScanIndexForward: aws.Bool(false), // Descending order
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return 0, "", fmt.Errorf("query commit table: %w", err)
	}

	if len(resp.Items) == 0 {
		return 0, "", nil
	}

	item := resp.Items[0]
	versionAttr, ok := item["version"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, "", errors.New("invalid version attribute in commit table")
	}
	nameAttr, ok := item["snapshot_name"].(*types.AttributeValueMemberS)
	if !ok {
		return 0, "", errors.New("invalid snapshot_name attribute in commit table")
	}

	var version uint64
	if _, err := fmt.Sscanf(versionAttr.Value, "%d", &version); err != nil {
		return 0, "", fmt.Errorf("parse commit version: %w", err)
	}

	return version, nameAttr.Value, nil
}

// commitLatest atomically appends a new pointer row.
func (s *DDBLatestStore) commitLatest(ctx context.Context, snapshotName string) error {
	currentVersion, _, err := s.latestCommit(ctx)
	if err != nil {
		return err
	}

	newVersion := currentVersion + 1

	// Conditional put: only succeed if this version doesn't exist yet.
	_, err = s.ddbClient.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item: map[string]types.AttributeValue{
			"base_uri":      &types.AttributeValueMemberS{Value: s.baseURI},
			"version":       &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", newVersion)},
			"snapshot_name": &types.AttributeValueMemberS{Value: snapshotName},
		},
		ConditionExpression: aws.String("attribute_not_exists(version)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return ErrConcurrentCommit
		}
		return fmt.Errorf("commit latest pointer: %w", err)
	}

	return nil
}
