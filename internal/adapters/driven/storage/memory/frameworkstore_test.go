package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/artemis/internal/core/domain"
)

func insertAll(store *FrameworkStore, records ...domain.FrameworkRecord) error {
	for _, r := range records {
		_, err := store.Upsert(context.Background(), r, func(_ *domain.FrameworkRecord, in domain.FrameworkRecord) (domain.FrameworkRecord, error) {
			return in, nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func TestFrameworkStore_UpsertAndGet(t *testing.T) {
	store := NewFrameworkStore()
	ctx := context.Background()

	require.NoError(t, insertAll(store, domain.FrameworkRecord{Name: "Spring", InternalType: "java", NumberOfDetections: 1}))

	got, err := store.Get(ctx, "Spring", "java")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.NumberOfDetections)

	_, err = store.Get(ctx, "Spring", "cobol")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFrameworkStore_UpsertPassesStored(t *testing.T) {
	store := NewFrameworkStore()
	ctx := context.Background()
	require.NoError(t, insertAll(store, domain.FrameworkRecord{Name: "Spring", InternalType: "java", NumberOfDetections: 2}))

	var seen *domain.FrameworkRecord
	saved, err := store.Upsert(ctx, domain.FrameworkRecord{Name: "Spring", InternalType: "java"},
		func(stored *domain.FrameworkRecord, in domain.FrameworkRecord) (domain.FrameworkRecord, error) {
			seen = stored
			return stored.MergeDetection(in), nil
		})

	require.NoError(t, err)
	require.NotNil(t, seen)
	assert.Equal(t, int64(3), saved.NumberOfDetections)
}

func TestFrameworkStore_UpsertMergeError(t *testing.T) {
	store := NewFrameworkStore()

	_, err := store.Upsert(context.Background(), domain.FrameworkRecord{Name: "X"},
		func(*domain.FrameworkRecord, domain.FrameworkRecord) (domain.FrameworkRecord, error) {
			return domain.FrameworkRecord{}, domain.ErrNotFound
		})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	n, _ := store.Count(context.Background(), domain.FrameworkFilter{})
	assert.Equal(t, int64(0), n)
}

func TestFrameworkStore_Queries(t *testing.T) {
	store := NewFrameworkStore()
	ctx := context.Background()
	require.NoError(t, insertAll(store,
		domain.FrameworkRecord{Name: "spring-core", InternalType: "java"},
		domain.FrameworkRecord{Name: "Spring", InternalType: "net"},
		domain.FrameworkRecord{Name: "Spring", InternalType: "java"},
		domain.FrameworkRecord{Name: "lodash", InternalType: "js"},
	))

	byName, err := store.FindByName(ctx, "Spring")
	require.NoError(t, err)
	require.Len(t, byName, 2)
	assert.Equal(t, "java", byName[0].InternalType)

	contains, err := store.FindNameContains(ctx, "pring", 10)
	require.NoError(t, err)
	assert.Len(t, contains, 3)

	limited, err := store.FindNameContains(ctx, "pring", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	javaCount, err := store.Count(ctx, domain.FrameworkFilter{InternalType: "java"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), javaCount)
}

func TestFrameworkStore_ListPages(t *testing.T) {
	store := NewFrameworkStore()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, insertAll(store, domain.FrameworkRecord{Name: fmt.Sprintf("fw-%d", i), InternalType: "java"}))
	}

	page, err := store.List(ctx, domain.FrameworkFilter{}, 1, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "fw-1", page[0].Name)
	assert.Equal(t, "fw-2", page[1].Name)

	tail, err := store.List(ctx, domain.FrameworkFilter{}, 4, 10)
	require.NoError(t, err)
	assert.Len(t, tail, 1)

	empty, err := store.List(ctx, domain.FrameworkFilter{}, 10, 2)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
