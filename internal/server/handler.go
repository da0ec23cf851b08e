package server

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi"

	"github.com/plateful-app/ambrosia/internal/metrics"
	"github.com/plateful-app/ambrosia/internal/ranking"
	"github.com/plateful-app/ambrosia/internal/service"
)

func (s server) getPersonalizedFeed(w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /users/{userID}/feed Feed GetPersonalizedFeed
	//
	// Return the personalized, diet-and-allergen-safe feed page.
	//
	// ---
	// produces:
	// - application/json
	// parameters:
	// - name: userID
	//   in: path
	//   required: true
	//   type: string
	// - name: page
	//   description: page number, clamped to >= 1
	//   in: query
	//   required: false
	//   default: 1
	// - name: limit
	//   description: page size, clamped to [1, 50]
	//   in: query
	//   required: false
	//   default: 10
	// responses:
	//   '200':
	//     description: Feed page
	//     schema:
	//       "$ref": "#/definitions/FeedResponse"
	//   '404':
	//     description: user not found
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '500':
	//     description: internal server error
	//     schema:
	//       "$ref": "#/definitions/Error"

	userID := chi.URLParam(r, "userID")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	page, err := intQueryParam(r.URL.Query(), "page", 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit, err := intQueryParam(r.URL.Query(), "limit", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.respond(w, r, "personalized", func() (*ranking.RankedPage, error) {
		return s.s.GetPersonalizedFeed(r.Context(), userID, page, limit)
	})
}

func (s server) getFollowingFeed(w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /users/{userID}/feed/following Feed GetFollowingFeed
	//
	// Return posts of followed creators, newest first, without scoring.
	//
	// ---
	// produces:
	// - application/json
	// parameters:
	// - name: userID
	//   in: path
	//   required: true
	//   type: string
	// - name: limit
	//   in: query
	//   required: false
	//   default: 20
	// responses:
	//   '200':
	//     description: Feed page
	//     schema:
	//       "$ref": "#/definitions/FeedResponse"
	//   '404':
	//     description: user not found
	//     schema:
	//       "$ref": "#/definitions/Error"

	userID := chi.URLParam(r, "userID")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	limit, err := intQueryParam(r.URL.Query(), "limit", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.respond(w, r, "following", func() (*ranking.RankedPage, error) {
		return s.s.GetFollowingFeed(r.Context(), userID, limit)
	})
}

func (s server) getExploreFeed(w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /feed/explore Feed GetExploreFeed
	//
	// Return the non-personalized explore feed ordered by likes, newest first.
	// Deterministic: identical pools produce identical pages.
	//
	// ---
	// produces:
	// - application/json
	// parameters:
	// - name: offset
	//   description: clamped to >= 0
	//   in: query
	//   required: false
	// - name: limit
	//   in: query
	//   required: false
	//   default: 20
	// responses:
	//   '200':
	//     description: Feed page
	//     schema:
	//       "$ref": "#/definitions/FeedResponse"

	offset, err := intQueryParam(r.URL.Query(), "offset", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit, err := intQueryParam(r.URL.Query(), "limit", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.respond(w, r, "explore", func() (*ranking.RankedPage, error) {
		return s.s.GetExploreFeed(r.Context(), offset, limit)
	})
}

func (s server) getTrendingFeed(w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /feed/trending Feed GetTrendingFeed
	//
	// Return posts created within the last week ordered by popularity.
	//
	// ---
	// produces:
	// - application/json
	// parameters:
	// - name: limit
	//   in: query
	//   required: false
	//   default: 20
	// responses:
	//   '200':
	//     description: Feed page
	//     schema:
	//       "$ref": "#/definitions/FeedResponse"

	limit, err := intQueryParam(r.URL.Query(), "limit", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.respond(w, r, "trending", func() (*ranking.RankedPage, error) {
		return s.s.GetTrendingFeed(r.Context(), limit)
	})
}

func (s server) getSimilarPosts(w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /posts/{postID}/similar Feed GetSimilarPosts
	//
	// Return posts sharing tagged products with the given post.
	//
	// ---
	// produces:
	// - application/json
	// parameters:
	// - name: postID
	//   in: path
	//   required: true
	//   type: string
	// - name: limit
	//   in: query
	//   required: false
	//   default: 5
	// responses:
	//   '200':
	//     description: Feed page
	//     schema:
	//       "$ref": "#/definitions/FeedResponse"
	//   '404':
	//     description: post not found
	//     schema:
	//       "$ref": "#/definitions/Error"

	postID := chi.URLParam(r, "postID")
	if postID == "" {
		writeError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	limit, err := intQueryParam(r.URL.Query(), "limit", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.respond(w, r, "similar", func() (*ranking.RankedPage, error) {
		return s.s.GetSimilarPosts(r.Context(), postID, limit)
	})
}

// respond invokes the feed computation, records metrics and maps the error
// taxonomy to status codes.
func (s server) respond(w http.ResponseWriter, r *http.Request, feed string, f func() (*ranking.RankedPage, error)) {
	start := time.Now()

	page, err := f()

	metrics.FeedRequestDuration.WithLabelValues(feed).Observe(time.Since(start).Seconds())
	metrics.FeedRequests.WithLabelValues(feed).Inc()

	if err != nil {
		metrics.FeedErrors.WithLabelValues(feed).Inc()

		switch {
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "user not found")
		case errors.Is(err, service.ErrPostNotFound):
			writeError(w, http.StatusNotFound, "post not found")
		case errors.Is(err, service.ErrUpstreamTimeout):
			writeError(w, http.StatusGatewayTimeout, "upstream timeout")
		case errors.Is(err, service.ErrSourceUnavailable):
			writeError(w, http.StatusBadGateway, "source unavailable")
		default:
			writeInternalErrorf(r.Context(), w, "failed to build %s feed: %s", feed, err.Error())
		}

		return
	}

	metrics.FeedPoolSize.WithLabelValues(feed).Observe(float64(page.Diagnostics.PoolSize))

	writeOK(w, http.StatusOK, newFeedResponse(page))
}

// intQueryParam parses an optional integer query parameter. Range clamping
// happens in the engine; only non-numeric input is rejected.
func intQueryParam(q url.Values, name string, def int) (int, error) {
	s := q.Get(name)
	if s == "" {
		return def, nil
	}

	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New("failed to parse " + name)
	}

	return v, nil
}
