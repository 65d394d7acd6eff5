package s3

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/artemis/internal/core/domain"
)

// fakeS3 serves the handful of path-style calls the store makes.
type fakeS3 struct {
	mu      sync.Mutex
	buckets map[string]bool
	objects map[string][]byte
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	parts := strings.SplitN(strings.Trim(r.URL.Path, "/"), "/", 2)
	bucket := parts[0]
	if len(parts) == 1 {
		switch r.Method {
		case http.MethodHead:
			if !f.buckets[bucket] {
				w.WriteHeader(http.StatusNotFound)
			}
		case http.MethodPut:
			f.buckets[bucket] = true
		}
		return
	}

	key := bucket + "/" + parts[1]
	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		if strings.HasPrefix(r.Header.Get("X-Amz-Content-Sha256"), "STREAMING-") {
			body = decodeAWSChunked(body)
		}
		f.objects[key] = body
		w.Header().Set("ETag", `"etag"`)
	case http.MethodGet:
		data, ok := f.objects[key]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>missing</Message><Key>%s</Key></Error>`, parts[1])
			return
		}
		w.Header().Set("ETag", `"etag"`)
		w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Length", fmt.Sprint(len(data)))
		_, _ = w.Write(data)
	}
}

// decodeAWSChunked strips the chunk framing of a streaming-signed upload.
func decodeAWSChunked(body []byte) []byte {
	var out []byte
	for len(body) > 0 {
		line, rest, ok := strings.Cut(string(body), "\r\n")
		if !ok {
			break
		}
		sizeHex, _, _ := strings.Cut(line, ";")
		size, err := strconv.ParseInt(sizeHex, 16, 64)
		if err != nil || size == 0 || int(size) > len(rest) {
			break
		}
		out = append(out, rest[:size]...)
		body = []byte(strings.TrimPrefix(rest[size:], "\r\n"))
	}
	return out
}

func newTestStore(t *testing.T) (*Store, *fakeS3) {
	t.Helper()
	fake := &fakeS3{buckets: map[string]bool{}, objects: map[string][]byte{}}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	store, err := NewStore(Config{
		Endpoint:  strings.TrimPrefix(server.URL, "http://"),
		Bucket:    "artemis",
		AccessKey: "key",
		SecretKey: "secret",
	})
	require.NoError(t, err)
	return store, fake
}

func TestNewStore_RequiresEndpointAndBucket(t *testing.T) {
	_, err := NewStore(Config{Bucket: "b"})
	assert.ErrorIs(t, err, domain.ErrConfigurationMissing)

	_, err = NewStore(Config{Endpoint: "localhost:9000"})
	assert.ErrorIs(t, err, domain.ErrConfigurationMissing)
}

func TestStore_SaveLoad(t *testing.T) {
	store, fake := newTestStore(t)
	ctx := context.Background()

	_, err := store.Load(ctx, "java")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.True(t, fake.buckets["artemis"], "bucket created on first use")

	require.NoError(t, store.Save(ctx, "java", []byte(`{"version":1}`)))
	assert.Contains(t, fake.objects, "artemis/models/java.json")

	data, err := store.Load(ctx, "java")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1}`, string(data))
}
