package corpus

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/artemis/internal/core/domain"
)

func TestWatch_RequiresDirectory(t *testing.T) {
	err := NewWatcher("").Watch(context.Background(), func(string) {})
	assert.ErrorIs(t, err, domain.ErrConfigurationMissing)
}

func TestWatch_ReportsChangedLanguage(t *testing.T) {
	dir := t.TempDir()
	w := NewWatcher(dir)
	w.debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan string, 4)
	done := make(chan error, 1)
	go func() {
		done <- w.Watch(ctx, func(lang string) { changed <- lang })
	}()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cobol.csv"), []byte("CEEDAYS,FRAMEWORK\n"), 0600))

	select {
	case lang := <-changed:
		assert.Equal(t, "cobol", lang)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
