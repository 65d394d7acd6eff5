package pythia

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/artemis/internal/core/domain"
)

func newTestClient(t *testing.T, handler http.Handler, cacheSize int) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		BaseURL:   server.URL,
		Token:     "secret",
		Timeout:   2 * time.Second,
		CacheSize: cacheSize,
	})
	require.NoError(t, err)
	return client, server
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewClient_RequiresURL(t *testing.T) {
	_, err := NewClient(Config{})
	assert.ErrorIs(t, err, domain.ErrConfigurationMissing)
}

func TestPing(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	})
	client, _ := newTestClient(t, mux, 0)

	assert.NoError(t, client.Ping(context.Background()))
}

func TestPing_ServerError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	}), 0)

	err := client.Ping(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRemoteSync)

	var remote *domain.RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, OpPing, remote.Op)
	assert.Equal(t, http.StatusServiceUnavailable, remote.StatusCode)
}

func TestPing_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	client, err := NewClient(Config{BaseURL: server.URL, Timeout: time.Second})
	require.NoError(t, err)

	err = client.Ping(context.Background())
	var remote *domain.RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Zero(t, remote.StatusCode)
}

func TestLastUpdate(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/frameworks/last-update", r.URL.Path)
		writeJSON(w, map[string]int64{"lastUpdate": 1714552200000})
	}), 0)

	got, err := client.LastUpdate(context.Background())
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)))
}

func TestPull(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/frameworks/pull", r.URL.Path)
		assert.Equal(t, "1714552200000", r.URL.Query().Get("since"))
		writeJSON(w, map[string]any{"frameworks": []map[string]any{
			{"name": "Spring", "internalType": "JV_PACKAGE", "type": "FRAMEWORK", "numberOfDetection": 12, "detectionScore": 0.97},
			{"name": "Cart", "internalType": "JV_CLASS", "type": "not_framework"},
		}})
	}), 0)

	records, err := client.Pull(context.Background(), time.UnixMilli(1714552200000))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, domain.FrameworkTypeFramework, records[0].Type)
	assert.Equal(t, int64(12), records[0].NumberOfDetections)
	assert.Equal(t, domain.FrameworkTypeNotFramework, records[1].Type)
}

func TestPull_ZeroWatermarkSendsZero(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "0", r.URL.Query().Get("since"))
		writeJSON(w, map[string]any{"frameworks": []any{}})
	}), 0)

	records, err := client.Pull(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestPull_BadRecord(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{"frameworks": []map[string]any{{"name": "X", "type": "MAYBE"}}})
	}), 0)

	_, err := client.Pull(context.Background(), time.Time{})
	assert.ErrorIs(t, err, domain.ErrRemoteSync)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestForecast(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/frameworks/forecast", r.URL.Path)
		writeJSON(w, map[string]int64{"count": 7})
	}), 0)

	n, err := client.Forecast(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
}

func TestFind_HitIsCached(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "Spring", r.URL.Query().Get("name"))
		assert.Equal(t, "JV_PACKAGE", r.URL.Query().Get("internalType"))
		writeJSON(w, map[string]any{"name": "Spring", "internalType": "JV_PACKAGE", "type": "FRAMEWORK", "location": "https://spring.io"})
	}), 8)

	for i := 0; i < 3; i++ {
		r, err := client.Find(context.Background(), "Spring", "JV_PACKAGE")
		require.NoError(t, err)
		require.NotNil(t, r)
		assert.Equal(t, "https://spring.io", r.Location)
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestFind_MissIsNotCached(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.NotFound(w, nil)
	}), 8)

	for i := 0; i < 2; i++ {
		r, err := client.Find(context.Background(), "Nope", "")
		require.NoError(t, err)
		assert.Nil(t, r)
	}
	assert.Equal(t, int32(2), calls.Load())
}

func TestFind_NoRetryOnFailure(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}), 0)

	_, err := client.Find(context.Background(), "Spring", "")
	assert.ErrorIs(t, err, domain.ErrRemoteSync)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRateLimited(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(HeaderRetryAfter, "30")
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}), 0)

	err := client.Ping(context.Background())
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.ErrorIs(t, err, domain.ErrRemoteSync)
	assert.True(t, client.limiter.BlockedUntil().After(time.Now().Add(20*time.Second)))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err = client.Ping(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
