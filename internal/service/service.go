// Package service contains interface for service business-logic.
package service

import (
	"context"
	"errors"

	"github.com/plateful-app/ambrosia/internal/ranking"
)

//go:generate mockgen -destination=./mock/service.go -package=mock -source=service.go

// ErrUserNotFound returned when no profile snapshot exists for the user.
// No anonymous fallback feed is substituted.
var ErrUserNotFound = errors.New("user not found")

// ErrPostNotFound returned when the similar-posts source post does not exist.
var ErrPostNotFound = errors.New("post not found")

// ErrUpstreamTimeout returned when a profile or content fetch exceeded its
// deadline. Retryable by the caller; the service itself does not retry.
var ErrUpstreamTimeout = errors.New("upstream timeout")

// ErrSourceUnavailable returned when the profile or content store cannot be
// reached. Retryable by the caller with backoff.
var ErrSourceUnavailable = errors.New("source unavailable")

// Service assembles feed pages. Every call recomputes from fresh snapshots,
// nothing is shared between requests.
type Service interface {
	GetPersonalizedFeed(ctx context.Context, userID string, page, limit int) (*ranking.RankedPage, error)
	GetExploreFeed(ctx context.Context, offset, limit int) (*ranking.RankedPage, error)
	GetTrendingFeed(ctx context.Context, limit int) (*ranking.RankedPage, error)
	GetFollowingFeed(ctx context.Context, userID string, limit int) (*ranking.RankedPage, error)
	GetSimilarPosts(ctx context.Context, postID string, limit int) (*ranking.RankedPage, error)
}
