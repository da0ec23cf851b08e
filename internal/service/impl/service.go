// Package impl is implementation of service interface.
package impl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/plateful-app/ambrosia/internal/entities"
	"github.com/plateful-app/ambrosia/internal/ranking"
	"github.com/plateful-app/ambrosia/internal/service"
	"github.com/plateful-app/ambrosia/internal/storage"
)

// likedPostsLimit bounds the liked-posts lookup feeding the affinity scorer.
const likedPostsLimit = 50

type srv struct {
	s storage.Storage
	e *ranking.Engine

	fetchTimeout time.Duration
	poolSize     uint16
	now          func() time.Time
	seed         func() int64
}

// Option configures the service.
type Option func(s *srv)

// WithFetchTimeout sets the per-upstream-fetch deadline.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *srv) { s.fetchTimeout = d }
}

// WithPoolSize sets the candidate recency window bound.
func WithPoolSize(n uint16) Option {
	return func(s *srv) { s.poolSize = n }
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *srv) { s.now = now }
}

// WithSeed overrides the shuffle seed source, used by tests.
func WithSeed(seed func() int64) Option {
	return func(s *srv) { s.seed = seed }
}

// New creates new instance of service.
func New(s storage.Storage, e *ranking.Engine, opts ...Option) service.Service {
	out := &srv{
		s:            s,
		e:            e,
		fetchTimeout: 3 * time.Second,
		poolSize:     storage.DefaultPoolSize,
		now:          time.Now,
	}
	out.seed = func() int64 { return out.now().UnixNano() }

	for _, o := range opts {
		o(out)
	}

	return out
}

func (s *srv) GetPersonalizedFeed(ctx context.Context, userID string, page, limit int) (*ranking.RankedPage, error) {
	var (
		profile *entities.Profile
		pool    []*entities.Post
	)

	// Profile and pool snapshots are independent, fetch them concurrently.
	gr, grCtx := errgroup.WithContext(ctx)
	gr.Go(func() error {
		p, err := s.fetchProfile(grCtx, userID)
		if err != nil {
			return err
		}
		profile = p

		return nil
	})
	gr.Go(func() error {
		p, err := s.fetchPool(grCtx)
		if err != nil {
			return err
		}
		pool = p

		return nil
	})

	if err := gr.Wait(); err != nil {
		return nil, err
	}

	liked, err := s.fetchLikedPosts(ctx, profile)
	if err != nil {
		return nil, err
	}

	return s.e.Rank(profile, liked, pool, ranking.Params{
		Page:  page,
		Limit: limit,
		Seed:  s.seed(),
		Now:   s.now(),
	}), nil
}

func (s *srv) GetExploreFeed(ctx context.Context, offset, limit int) (*ranking.RankedPage, error) {
	pool, err := s.fetchPool(ctx)
	if err != nil {
		return nil, err
	}

	return s.e.Explore(pool, offset, limit), nil
}

func (s *srv) GetTrendingFeed(ctx context.Context, limit int) (*ranking.RankedPage, error) {
	pool, err := s.fetchPool(ctx)
	if err != nil {
		return nil, err
	}

	return s.e.Trending(pool, s.now(), limit), nil
}

func (s *srv) GetFollowingFeed(ctx context.Context, userID string, limit int) (*ranking.RankedPage, error) {
	var (
		profile *entities.Profile
		pool    []*entities.Post
	)

	gr, grCtx := errgroup.WithContext(ctx)
	gr.Go(func() error {
		p, err := s.fetchProfile(grCtx, userID)
		if err != nil {
			return err
		}
		profile = p

		return nil
	})
	gr.Go(func() error {
		p, err := s.fetchPool(grCtx)
		if err != nil {
			return err
		}
		pool = p

		return nil
	})

	if err := gr.Wait(); err != nil {
		return nil, err
	}

	return s.e.Following(profile, pool, limit), nil
}

func (s *srv) GetSimilarPosts(ctx context.Context, postID string, limit int) (*ranking.RankedPage, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	src, err := s.s.GetPost(fetchCtx, postID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, service.ErrPostNotFound
		}

		return nil, upstreamError("failed to get post", err)
	}

	pool, err := s.fetchPool(ctx)
	if err != nil {
		return nil, err
	}

	return s.e.Similar(src, pool, limit), nil
}

func (s *srv) fetchProfile(ctx context.Context, userID string) (*entities.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	p, err := s.s.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, service.ErrUserNotFound
		}

		return nil, upstreamError("failed to get profile", err)
	}

	return p, nil
}

func (s *srv) fetchPool(ctx context.Context) ([]*entities.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	pool, err := s.s.ListRecentPosts(ctx, s.poolSize)
	if err != nil {
		return nil, upstreamError("failed to list recent posts", err)
	}

	return pool, nil
}

func (s *srv) fetchLikedPosts(ctx context.Context, profile *entities.Profile) ([]*entities.Post, error) {
	ids := profile.LikedPostIDs
	if len(ids) > likedPostsLimit {
		ids = ids[len(ids)-likedPostsLimit:]
	}

	if len(ids) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	liked, err := s.s.ListPostsByIDs(ctx, ids)
	if err != nil {
		return nil, upstreamError("failed to list liked posts", err)
	}

	return liked, nil
}

// upstreamError maps a fetch failure to the retryable part of the error
// taxonomy. A timed-out fetch never falls back to stale or partial data,
// that could show an allergen-unfiltered feed.
func upstreamError(msg string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", msg, service.ErrUpstreamTimeout)
	}

	return fmt.Errorf("%s: %w: %s", msg, service.ErrSourceUnavailable, err)
}
