// Package server Ambrosia
//
// The Ambrosia service ranks the Plateful community feed: it turns a user's
// dietary profile and a pool of recent posts into an ordered, allergen-safe,
// paginated page of content.
//
//     Schemes: https
//     BasePath: /v1
//     Version: 1.0.0
//
//     Produces:
//     - application/json
//
// swagger:meta
package server

import (
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"

	mm "github.com/plateful-app/ambrosia/internal/middleware"
	"github.com/plateful-app/ambrosia/internal/service"
)

const cacheTTL = 5 * time.Minute

type server struct {
	s service.Service
}

// SetupRouter setups handlers to chi router. The explore and trending feeds
// are user-independent and cached; personalized feeds never are.
func SetupRouter(s service.Service, r chi.Router, timeout time.Duration, cache mm.CacheStorage) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.StripSlashes,
		cors.AllowAll().Handler,
		middleware.Recoverer,
		middleware.Timeout(timeout),
	)

	srv := server{
		s: s,
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/users/{userID}/feed", srv.getPersonalizedFeed)
		r.Get("/users/{userID}/feed/following", srv.getFollowingFeed)
		r.Get("/feed/explore", mm.Cached(cache, cacheTTL, srv.getExploreFeed))
		r.Get("/feed/trending", mm.Cached(cache, cacheTTL, srv.getTrendingFeed))
		r.Get("/posts/{postID}/similar", srv.getSimilarPosts)
	})
}
