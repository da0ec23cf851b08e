package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plateful-app/ambrosia/internal/middleware/memory"
)

func TestCached(t *testing.T) {
	calls := 0
	handler := Cached(memory.NewStorage(), time.Minute, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"total":1}`)) // nolint:errcheck
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		handler(w, httptest.NewRequest(http.MethodGet, "/feed/explore?limit=20", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, `{"total":1}`, w.Body.String())
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	}

	assert.Equal(t, 1, calls)
}

func TestCached_KeyIncludesQuery(t *testing.T) {
	calls := 0
	handler := Cached(memory.NewStorage(), time.Minute, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(r.URL.RawQuery)) // nolint:errcheck
	})

	first := httptest.NewRecorder()
	handler(first, httptest.NewRequest(http.MethodGet, "/feed/explore?limit=10", nil))

	second := httptest.NewRecorder()
	handler(second, httptest.NewRequest(http.MethodGet, "/feed/explore?limit=20", nil))

	assert.Equal(t, 2, calls)
	assert.Equal(t, "limit=10", first.Body.String())
	assert.Equal(t, "limit=20", second.Body.String())
}

func TestCached_ErrorsNotCached(t *testing.T) {
	calls := 0
	handler := Cached(memory.NewStorage(), time.Minute, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error":"source unavailable"}`)) // nolint:errcheck
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		handler(w, httptest.NewRequest(http.MethodGet, "/feed/trending", nil))

		require.Equal(t, http.StatusBadGateway, w.Code)
	}

	assert.Equal(t, 2, calls)
}
