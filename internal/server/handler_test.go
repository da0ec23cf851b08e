package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plateful-app/ambrosia/internal/entities"
	"github.com/plateful-app/ambrosia/internal/middleware/memory"
	"github.com/plateful-app/ambrosia/internal/ranking"
	"github.com/plateful-app/ambrosia/internal/service"
	"github.com/plateful-app/ambrosia/internal/service/mock"
)

var timestamp = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func newTestRouter(t *testing.T) (chi.Router, *mock.MockService) {
	ctrl := gomock.NewController(t)

	s := mock.NewMockService(ctrl)

	router := chi.NewRouter()
	SetupRouter(s, router, time.Second, memory.NewStorage())

	return router, s
}

func samplePage() *ranking.RankedPage {
	return &ranking.RankedPage{
		Posts: []*ranking.ScoredPost{
			{
				Post: &entities.Post{
					ID:        "p1",
					CreatorID: "alice",
					Title:     "green curry",
					DietType:  entities.DietVegan,
					Metrics:   entities.Metrics{Views: 100, Likes: 10},
					CreatedAt: timestamp,
				},
				Scores: ranking.ComponentScores{Popularity: 50, Compatibility: 100},
				Total:  82.5,
			},
		},
		Total: 1,
		Diagnostics: ranking.Diagnostics{
			DietType:      entities.DietVegan,
			AllergyFilter: true,
			Composer:      "blend",
			PoolSize:      200,
		},
	}
}

func Test_getPersonalizedFeed(t *testing.T) {
	router, s := newTestRouter(t)

	s.EXPECT().GetPersonalizedFeed(gomock.Any(), "user-1", 2, 25).Return(samplePage(), nil)

	r := httptest.NewRequest(http.MethodGet, "/v1/users/user-1/feed?page=2&limit=25", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp FeedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Len(t, resp.Posts, 1)
	assert.Equal(t, "p1", resp.Posts[0].ID)
	assert.Equal(t, "alice", resp.Posts[0].CreatorID)
	assert.Equal(t, "vegan", resp.Posts[0].DietType)
	assert.InDelta(t, 82.5, resp.Posts[0].Score, 1e-9)
	assert.InDelta(t, 100, resp.Posts[0].Scores.Compatibility, 1e-9)
	assert.EqualValues(t, timestamp.Unix(), resp.Posts[0].CreatedAt)
	assert.True(t, resp.Diagnostics.AllergyFilter)
	assert.Equal(t, 200, resp.Diagnostics.PoolSize)
}

func Test_getPersonalizedFeed_defaults(t *testing.T) {
	router, s := newTestRouter(t)

	// No query: page defaults to 1, limit to the zero value resolved downstream.
	s.EXPECT().GetPersonalizedFeed(gomock.Any(), "user-1", 1, 0).Return(samplePage(), nil)

	r := httptest.NewRequest(http.MethodGet, "/v1/users/user-1/feed", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
}

func Test_getPersonalizedFeed_badLimit(t *testing.T) {
	router, _ := newTestRouter(t)

	r := httptest.NewRequest(http.MethodGet, "/v1/users/user-1/feed?limit=abc", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"failed to parse limit"}`, w.Body.String())
}

func Test_getPersonalizedFeed_errors(t *testing.T) {
	tt := []struct {
		name string
		err  error
		code int
		body string
	}{
		{
			name: "user not found",
			err:  service.ErrUserNotFound,
			code: http.StatusNotFound,
			body: `{"error":"user not found"}`,
		},
		{
			name: "upstream timeout",
			err:  service.ErrUpstreamTimeout,
			code: http.StatusGatewayTimeout,
			body: `{"error":"upstream timeout"}`,
		},
		{
			name: "source unavailable",
			err:  service.ErrSourceUnavailable,
			code: http.StatusBadGateway,
			body: `{"error":"source unavailable"}`,
		},
		{
			name: "internal",
			err:  context.Canceled,
			code: http.StatusInternalServerError,
			body: `{"error":"internal error"}`,
		},
	}

	for i := range tt {
		tc := tt[i]

		t.Run(tc.name, func(t *testing.T) {
			router, s := newTestRouter(t)

			s.EXPECT().GetPersonalizedFeed(gomock.Any(), "user-1", 1, 0).Return(nil, tc.err)

			r := httptest.NewRequest(http.MethodGet, "/v1/users/user-1/feed", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, r)

			assert.Equal(t, tc.code, w.Code)
			assert.JSONEq(t, tc.body, w.Body.String())
		})
	}
}

func Test_getFollowingFeed(t *testing.T) {
	router, s := newTestRouter(t)

	s.EXPECT().GetFollowingFeed(gomock.Any(), "user-1", 30).Return(samplePage(), nil)

	r := httptest.NewRequest(http.MethodGet, "/v1/users/user-1/feed/following?limit=30", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
}

func Test_getExploreFeed(t *testing.T) {
	router, s := newTestRouter(t)

	// The explore feed is cached, the service sees one call for two requests.
	s.EXPECT().GetExploreFeed(gomock.Any(), 10, 20).Return(samplePage(), nil)

	for i := 0; i < 2; i++ {
		r := httptest.NewRequest(http.MethodGet, "/v1/feed/explore?offset=10&limit=20", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, r)

		require.Equal(t, http.StatusOK, w.Code)

		var resp FeedResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Total)
	}
}

func Test_getTrendingFeed(t *testing.T) {
	router, s := newTestRouter(t)

	s.EXPECT().GetTrendingFeed(gomock.Any(), 0).Return(samplePage(), nil)

	r := httptest.NewRequest(http.MethodGet, "/v1/feed/trending", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
}

func Test_getSimilarPosts(t *testing.T) {
	router, s := newTestRouter(t)

	s.EXPECT().GetSimilarPosts(gomock.Any(), "post-1", 5).Return(samplePage(), nil)

	r := httptest.NewRequest(http.MethodGet, "/v1/posts/post-1/similar?limit=5", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
}

func Test_getSimilarPosts_notFound(t *testing.T) {
	router, s := newTestRouter(t)

	s.EXPECT().GetSimilarPosts(gomock.Any(), "ghost", 0).Return(nil, service.ErrPostNotFound)

	r := httptest.NewRequest(http.MethodGet, "/v1/posts/ghost/similar", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"post not found"}`, w.Body.String())
}
