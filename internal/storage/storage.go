// Package storage contains a storage interface.
package storage

import (
	"context"
	"fmt"

	"github.com/plateful-app/ambrosia/internal/entities"
)

//go:generate mockgen -destination=./mock/storage.go -package=mock -source=storage.go

// ErrNotFound ...
var ErrNotFound = fmt.Errorf("not found")

// DefaultPoolSize is the default recency window fetched per request.
const DefaultPoolSize = 200

// Storage provides read-only snapshots of the profile and content stores.
// The ranking engine never owns these rows and never writes them.
type Storage interface {
	// GetProfile returns the profile snapshot or ErrNotFound.
	GetProfile(ctx context.Context, id string) (*entities.Profile, error)

	// ListRecentPosts returns up to limit most recent posts, newest first.
	// No personalization is applied, it is a plain recency window.
	ListRecentPosts(ctx context.Context, limit uint16) ([]*entities.Post, error)

	// ListPostsByIDs returns posts for the given ids; missing ids are skipped.
	ListPostsByIDs(ctx context.Context, ids []string) ([]*entities.Post, error)

	// GetPost returns a single post or ErrNotFound.
	GetPost(ctx context.Context, id string) (*entities.Post, error)
}
