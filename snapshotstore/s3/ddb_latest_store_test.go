package s3

import (
	"context"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/eidgo/snapshotstore"
)

// fakeDDB is an in-memory DDBClient holding commit rows for one base_uri.
type fakeDDB struct {
	rows       []map[string]types.AttributeValue
	failNextPut error
}

func (f *fakeDDB) PutItem(_ context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if f.failNextPut != nil {
		err := f.failNextPut
		f.failNextPut = nil
		return nil, err
	}
	version := params.Item["version"].(*types.AttributeValueMemberN).Value
	for _, row := range f.rows {
		if row["version"].(*types.AttributeValueMemberN).Value == version {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	f.rows = append(f.rows, params.Item)
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDDB) Query(_ context.Context, _ *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	if len(f.rows) == 0 {
		return &dynamodb.QueryOutput{}, nil
	}
	// Newest row wins, matching ScanIndexForward=false with Limit 1.
	latest := f.rows[0]
	for _, row := range f.rows[1:] {
		if row["version"].(*types.AttributeValueMemberN).Value > latest["version"].(*types.AttributeValueMemberN).Value {
			latest = row
		}
	}
	return &dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{latest}}, nil
}

func newTestStore(ddb *fakeDDB) *DDBLatestStore {
	return NewDDBLatestStore(
		snapshotstore.NewMemoryStore(), ddb,
		"eid-registry-commits", "s3://bucket/eid-registry",
	)
}

func TestDDBLatestStorePointerRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(&fakeDDB{})

	_, err := store.Get(ctx, snapshotstore.LatestPointer)
	assert.ErrorIs(t, err, snapshotstore.ErrNotFound)

	name := snapshotstore.SnapshotName(1)
	require.NoError(t, store.Put(ctx, name, []byte("snapshot body")))
	require.NoError(t, store.Put(ctx, snapshotstore.LatestPointer, []byte(name)))

	got, err := store.Get(ctx, snapshotstore.LatestPointer)
	require.NoError(t, err)
	assert.Equal(t, name, string(got))

	body, err := store.Get(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, []byte("snapshot body"), body)
}

func TestDDBLatestStorePointerAdvances(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(&fakeDDB{})

	for v := uint64(1); v <= 3; v++ {
		name := snapshotstore.SnapshotName(v)
		require.NoError(t, store.Put(ctx, name, []byte(fmt.Sprintf("body %d", v))))
		require.NoError(t, store.Put(ctx, snapshotstore.LatestPointer, []byte(name)))
	}

	got, err := store.Get(ctx, snapshotstore.LatestPointer)
	require.NoError(t, err)
	assert.Equal(t, snapshotstore.SnapshotName(3), string(got))
}

func TestDDBLatestStoreConcurrentCommit(t *testing.T) {
	ctx := context.Background()
	ddb := &fakeDDB{}
	store := newTestStore(ddb)

	require.NoError(t, store.Put(ctx, snapshotstore.LatestPointer, []byte(snapshotstore.SnapshotName(1))))

	// Simulate a racing writer that committed the same version first.
	ddb.failNextPut = &types.ConditionalCheckFailedException{}
	err := store.Put(ctx, snapshotstore.LatestPointer, []byte(snapshotstore.SnapshotName(2)))
	assert.ErrorIs(t, err, ErrConcurrentCommit)
}

func TestDDBLatestStoreDeleteNeverTouchesCommits(t *testing.T) {
	ctx := context.Background()
	ddb := &fakeDDB{}
	store := newTestStore(ddb)

	require.NoError(t, store.Put(ctx, snapshotstore.LatestPointer, []byte(snapshotstore.SnapshotName(1))))
	require.NoError(t, store.Delete(ctx, snapshotstore.LatestPointer))

	got, err := store.Get(ctx, snapshotstore.LatestPointer)
	require.NoError(t, err)
	assert.Equal(t, snapshotstore.SnapshotName(1), string(got))
}

func TestStripPrefix(t *testing.T) {
	assert.Equal(t, "LATEST", stripPrefix("eid-registry/LATEST", "eid-registry"))
	assert.Equal(t, "LATEST", stripPrefix("eid-registry/LATEST", "eid-registry/"))
	assert.Equal(t, "LATEST", stripPrefix("LATEST", ""))
}
