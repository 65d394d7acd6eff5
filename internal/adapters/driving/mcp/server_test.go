package mcp

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil detection service returns error", func(t *testing.T) {
		ports := &Ports{Frameworks: &mockFrameworkService{}}
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingDetectionService)
	})

	t.Run("nil framework service returns error", func(t *testing.T) {
		ports := &Ports{Detection: &mockDetectionService{}}
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingFrameworkService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		server, err := NewServer(validPorts())
		require.NoError(t, err)
		assert.NotNil(t, server)
	})

	t.Run("oracle port registers oracle tools", func(t *testing.T) {
		ports := validPorts()
		ports.Oracle = &mockOracleService{}
		server, err := NewServer(ports)
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("empty ports returns error", func(t *testing.T) {
		ports := &Ports{}
		err := ports.Validate()
		assert.ErrorIs(t, err, ErrMissingDetectionService)
	})

	t.Run("required ports are valid", func(t *testing.T) {
		err := validPorts().Validate()
		assert.NoError(t, err)
	})

	t.Run("all ports is valid", func(t *testing.T) {
		ports := validPorts()
		ports.Oracle = &mockOracleService{}
		err := ports.Validate()
		assert.NoError(t, err)
	})
}

func TestServer_HandlerServesMounted(t *testing.T) {
	server, err := NewServer(validPorts())
	require.NoError(t, err)

	server.Mount("/metrics", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("artemis_up 1\n"))
	}))

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "artemis_up 1\n", rec.Body.String())
}

func TestServer_Healthz(t *testing.T) {
	ports := validPorts()
	server, err := NewServer(ports)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","version":"`+Version+`","oracle":false}`, rec.Body.String())

	ports.Oracle = &mockOracleService{}
	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Contains(t, rec.Body.String(), `"oracle":true`)
}
