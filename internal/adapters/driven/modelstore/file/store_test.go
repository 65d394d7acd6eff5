package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/artemis/internal/core/domain"
)

func TestStore_SaveLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "models")
	store := NewStore(dir)
	ctx := context.Background()

	_, err := store.Load(ctx, "java")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, store.Save(ctx, "java", []byte(`{"v":1}`)))
	require.NoError(t, store.Save(ctx, "java", []byte(`{"v":2}`)))

	data, err := store.Load(ctx, "java")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":2}`, string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")
}
