// Package middleware ...
package middleware

import (
	"net/http"
	"net/http/httptest"
	"time"
)

// CacheStorage ...
type CacheStorage interface {
	Get(key string) []byte
	Set(key string, content []byte, ttl time.Duration)
}

// Cached wraps a handler with a TTL response cache. Only user-independent
// handlers may be cached, a personalized page must never be served to
// another user.
func Cached(storage CacheStorage, ttl time.Duration, handler func(w http.ResponseWriter, r *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if content := storage.Get(r.RequestURI); content != nil {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(content)
			return
		}

		c := httptest.NewRecorder()
		handler(c, r)

		for k, v := range c.Header() {
			w.Header()[k] = v
		}

		w.WriteHeader(c.Code)
		content := c.Body.Bytes()

		if c.Code == http.StatusOK {
			storage.Set(r.RequestURI, content, ttl)
		}

		_, _ = w.Write(content)
	}
}
