// Package postgres is implementation of storage interface.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/plateful-app/ambrosia/internal/entities"
	"github.com/plateful-app/ambrosia/internal/storage"
)

var log = logrus.WithField("layer", "storage").WithField("package", "postgres") // nolint:gochecknoglobals

type pg struct {
	ext sqlx.ExtContext
}

type profileDTO struct {
	ID                 string         `db:"id"`
	DietType           string         `db:"diet_type"`
	Allergies          pq.StringArray `db:"allergies"`
	Following          pq.StringArray `db:"following"`
	LikedPostIDs       pq.StringArray `db:"liked_post_ids"`
	FavoriteProductIDs pq.StringArray `db:"favorite_product_ids"`
	ViewedPostIDs      pq.StringArray `db:"viewed_post_ids"`
	SeenCategories     []byte         `db:"seen_categories"`
	CreatedAt          time.Time      `db:"created_at"`
}

type postDTO struct {
	ID               string         `db:"id"`
	CreatorID        string         `db:"creator_id"`
	Title            string         `db:"title"`
	PreviewImage     string         `db:"preview_image"`
	Category         string         `db:"category"`
	DietType         string         `db:"diet_type"`
	Allergens        pq.StringArray `db:"allergens"`
	IsAllergenFree   bool           `db:"is_allergen_free"`
	TaggedProductIDs pq.StringArray `db:"tagged_product_ids"`
	Hashtags         pq.StringArray `db:"hashtags"`
	Views            uint32         `db:"views"`
	Likes            uint32         `db:"likes"`
	Comments         uint32         `db:"comments"`
	Shares           uint32         `db:"shares"`
	CreatorLevel     int            `db:"creator_level"`
	LikedBy          pq.StringArray `db:"liked_by"`
	CreatedAt        time.Time      `db:"created_at"`
}

const postColumns = `
	id, creator_id, title, preview_image, category, diet_type, allergens,
	is_allergen_free, tagged_product_ids, hashtags, views, likes, comments,
	shares, creator_level, liked_by, created_at
`

func (s pg) GetProfile(ctx context.Context, id string) (*entities.Profile, error) {
	var p profileDTO

	if err := sqlx.GetContext(ctx, s.ext, &p, `
			SELECT id, diet_type, allergies, following, liked_post_ids,
				favorite_product_ids, viewed_post_ids, seen_categories, created_at
			FROM profile
			WHERE id = $1
		`, id,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}

		return nil, fmt.Errorf("failed to query: %w", err)
	}

	return toProfile(&p)
}

func (s pg) ListRecentPosts(ctx context.Context, limit uint16) ([]*entities.Post, error) {
	if limit == 0 {
		limit = storage.DefaultPoolSize
	}

	var p []*postDTO

	if err := sqlx.SelectContext(ctx, s.ext, &p, fmt.Sprintf(`
			SELECT %s FROM post
			ORDER BY created_at DESC, id ASC
			LIMIT $1
		`, postColumns), limit,
	); err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}

	return toPosts(p), nil
}

func (s pg) ListPostsByIDs(ctx context.Context, ids []string) ([]*entities.Post, error) {
	if len(ids) == 0 {
		return []*entities.Post{}, nil
	}

	query, args, err := sqlx.In(fmt.Sprintf(`
			SELECT %s FROM post WHERE id IN (?)
		`, postColumns), stringsUnique(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to construct IN clause: %w", err)
	}

	var p []*postDTO

	if err := sqlx.SelectContext(ctx, s.ext, &p, s.ext.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}

	return toPosts(p), nil
}

func (s pg) GetPost(ctx context.Context, id string) (*entities.Post, error) {
	var p postDTO

	if err := sqlx.GetContext(ctx, s.ext, &p, fmt.Sprintf(`
			SELECT %s FROM post WHERE id = $1
		`, postColumns), id,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}

		return nil, fmt.Errorf("failed to query: %w", err)
	}

	return toPost(&p), nil
}

// New creates new instance of pg.
func New(db *sql.DB) storage.Storage {
	return pg{
		ext: sqlx.NewDb(db, "postgres"),
	}
}

func toProfile(p *profileDTO) (*entities.Profile, error) {
	seen := map[string]int{}
	if len(p.SeenCategories) > 0 {
		if err := json.Unmarshal(p.SeenCategories, &seen); err != nil {
			log.WithError(err).WithField("profile", p.ID).Error("malformed seen_categories")

			return nil, fmt.Errorf("failed to decode seen_categories: %w", err)
		}
	}

	return &entities.Profile{
		ID:                 p.ID,
		DietType:           entities.DietType(p.DietType).Normalize(),
		Allergies:          p.Allergies,
		Following:          p.Following,
		LikedPostIDs:       p.LikedPostIDs,
		FavoriteProductIDs: p.FavoriteProductIDs,
		ViewedPostIDs:      p.ViewedPostIDs,
		SeenCategories:     seen,
		CreatedAt:          p.CreatedAt,
	}, nil
}

func toPost(p *postDTO) *entities.Post {
	return &entities.Post{
		ID:               p.ID,
		CreatorID:        p.CreatorID,
		Title:            p.Title,
		PreviewImage:     p.PreviewImage,
		Category:         p.Category,
		DietType:         entities.DietType(p.DietType).Normalize(),
		Allergens:        p.Allergens,
		IsAllergenFree:   p.IsAllergenFree,
		TaggedProductIDs: p.TaggedProductIDs,
		Hashtags:         p.Hashtags,
		Metrics: entities.Metrics{
			Views:    p.Views,
			Likes:    p.Likes,
			Comments: p.Comments,
			Shares:   p.Shares,
		},
		CreatorLevel: p.CreatorLevel,
		LikedBy:      p.LikedBy,
		CreatedAt:    p.CreatedAt,
	}
}

func toPosts(p []*postDTO) []*entities.Post {
	out := make([]*entities.Post, len(p))
	for i, v := range p {
		out[i] = toPost(v)
	}

	return out
}

func stringsUnique(s []string) []string {
	m := make(map[string]struct{}, len(s))
	out := make([]string, 0, len(s))

	for _, v := range s {
		if _, ok := m[v]; !ok {
			m[v] = struct{}{}
			out = append(out, v)
		}
	}

	return out
}
