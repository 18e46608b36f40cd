package metric

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCounterWithRegistry(reg, "test_requests_total", "Test requests.", "code")

	c.Increment("200")
	c.Increment("200")
	c.Increment("500")

	rec := httptest.NewRecorder()
	GetHandlerForRegistry(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `test_requests_total{code="200"} 2`)
	assert.Contains(t, string(body), `test_requests_total{code="500"} 1`)
}

func TestCounterDuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCounterWithRegistry(reg, "dup_total", "Dup.", "code")

	assert.Panics(t, func() {
		NewCounterWithRegistry(reg, "dup_total", "Dup.", "code")
	})
}
