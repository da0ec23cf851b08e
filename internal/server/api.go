package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/plateful-app/ambrosia/internal/ranking"
)

// Error ...
// swagger:model
type Error struct {
	Error string `json:"error"`
}

// FeedResponse ...
// swagger:model
type FeedResponse struct {
	Posts       []Post              `json:"posts"`
	Total       int                 `json:"total"`
	Diagnostics ranking.Diagnostics `json:"diagnostics"`
}

// Post ...
type Post struct {
	ID             string          `json:"id"`
	CreatorID      string          `json:"creatorId"`
	Title          string          `json:"title"`
	PreviewImage   string          `json:"previewImage,omitempty"`
	Category       string          `json:"category,omitempty"`
	DietType       string          `json:"dietType,omitempty"`
	Allergens      []string        `json:"allergens,omitempty"`
	IsAllergenFree bool            `json:"isAllergenFree,omitempty"`
	Likes          uint32          `json:"likes"`
	Comments       uint32          `json:"comments"`
	Shares         uint32          `json:"shares"`
	Views          uint32          `json:"views"`
	CreatedAt      uint64          `json:"createdAt"`
	Score          float64         `json:"score"`
	Scores         ComponentScores `json:"scores"`
}

// ComponentScores are exposed for diagnostics and testing.
type ComponentScores struct {
	Popularity    float64 `json:"popularity"`
	Compatibility float64 `json:"compatibility"`
	Affinity      float64 `json:"affinity"`
	Social        float64 `json:"social"`
	Freshness     float64 `json:"freshness"`
}

func newFeedResponse(p *ranking.RankedPage) FeedResponse {
	out := FeedResponse{
		Posts:       make([]Post, len(p.Posts)),
		Total:       p.Total,
		Diagnostics: p.Diagnostics,
	}

	for i, v := range p.Posts {
		out.Posts[i] = Post{
			ID:             v.Post.ID,
			CreatorID:      v.Post.CreatorID,
			Title:          v.Post.Title,
			PreviewImage:   v.Post.PreviewImage,
			Category:       v.Post.Category,
			DietType:       string(v.Post.DietType),
			Allergens:      v.Post.Allergens,
			IsAllergenFree: v.Post.IsAllergenFree,
			Likes:          v.Post.Metrics.Likes,
			Comments:       v.Post.Metrics.Comments,
			Shares:         v.Post.Metrics.Shares,
			Views:          v.Post.Metrics.Views,
			CreatedAt:      uint64(v.Post.CreatedAt.Unix()),
			Score:          v.Total,
			Scores: ComponentScores{
				Popularity:    v.Scores.Popularity,
				Compatibility: v.Scores.Compatibility,
				Affinity:      v.Scores.Affinity,
				Social:        v.Scores.Social,
				Freshness:     v.Scores.Freshness,
			},
		}
	}

	return out
}

func writeOK(w http.ResponseWriter, status int, v interface{}) {
	data, _ := json.Marshal(v)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data) // nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeOK(w, status, Error{Error: message})
}

func writeInternalErrorf(ctx context.Context, w http.ResponseWriter, format string, args ...interface{}) {
	logrus.WithContext(ctx).Errorf(format, args...)

	writeError(w, http.StatusInternalServerError, "internal error")
}
