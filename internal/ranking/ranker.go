package ranking

import (
	"math/rand"
	"sort"
	"time"

	"github.com/plateful-app/ambrosia/internal/entities"
)

// trendingWindow restricts the trending feed to recently created content.
const trendingWindow = 7 * 24 * time.Hour

// Rank produces the personalized feed page: score every candidate, sort,
// shortlist the top band, shuffle it, paginate. liked are the user's
// previously liked posts used by the affinity scorer.
func (e *Engine) Rank(profile *entities.Profile, liked []*entities.Post, pool []*entities.Post, p Params) *RankedPage {
	p, clamped := p.normalize()

	viewed := map[string]struct{}{}
	if profile != nil {
		viewed = normalizeSet(profile.ViewedPostIDs)
	}

	scored := make([]*ScoredPost, 0, len(pool))
	for _, post := range pool {
		scored = append(scored, e.score(profile, liked, viewed, post, p.Now))
	}

	sortByTotal(scored)

	// Allergen-excluded candidates rank last by construction; keep them out
	// of the shortlist entirely so the shuffle can never surface them.
	eligible := scored[:0:0]
	for _, s := range scored {
		if !s.Excluded {
			eligible = append(eligible, s)
		}
	}

	shortlist := eligible
	if len(shortlist) > e.shortlist {
		shortlist = shortlist[:e.shortlist]
	}

	// Fisher-Yates over the shortlist only. Scores within the top band are
	// intentionally not order-preserving across requests.
	shuffled := make([]*ScoredPost, len(shortlist))
	copy(shuffled, shortlist)
	rand.New(rand.NewSource(p.Seed)).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	page := paginate(shuffled, (p.Page-1)*p.Limit, p.Limit)

	return &RankedPage{
		Posts:       page,
		Total:       len(page),
		Diagnostics: e.diagnostics(profile, len(pool), clamped),
	}
}

// Explore is the non-personalized feed: likes descending, then newest first.
// Deterministic, never shuffled, safe to cache.
func (e *Engine) Explore(pool []*entities.Post, offset, limit int) *RankedPage {
	offset, limit, clamped := clampOffsetLimit(offset, limit, 20)

	scored := e.wrapWithPopularity(pool)
	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i].Post, scored[j].Post
		if a.Metrics.Likes != b.Metrics.Likes {
			return a.Metrics.Likes > b.Metrics.Likes
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}

		return a.ID < b.ID
	})

	page := paginate(scored, offset, limit)

	return &RankedPage{
		Posts:       page,
		Total:       len(page),
		Diagnostics: e.diagnostics(nil, len(pool), clamped),
	}
}

// Trending restricts the pool to the trailing week and orders by the
// popularity score. Deterministic, never shuffled.
func (e *Engine) Trending(pool []*entities.Post, now time.Time, limit int) *RankedPage {
	_, limit, clamped := clampOffsetLimit(0, limit, 20)

	if now.IsZero() {
		now = time.Now()
	}

	recent := make([]*entities.Post, 0, len(pool))
	for _, p := range pool {
		if now.Sub(p.CreatedAt) < trendingWindow {
			recent = append(recent, p)
		}
	}

	scored := e.wrapWithPopularity(recent)
	sortByTotal(scored)

	page := paginate(scored, 0, limit)

	return &RankedPage{
		Posts:       page,
		Total:       len(page),
		Diagnostics: e.diagnostics(nil, len(pool), clamped),
	}
}

// Following lists posts of followed creators, newest first, without scoring.
func (e *Engine) Following(profile *entities.Profile, pool []*entities.Post, limit int) *RankedPage {
	_, limit, clamped := clampOffsetLimit(0, limit, 20)

	following := normalizeSet(profile.Following)

	out := make([]*ScoredPost, 0, len(pool))
	for _, p := range pool {
		if intersectCount(following, []string{p.CreatorID}) == 0 {
			continue
		}
		out = append(out, &ScoredPost{Post: p})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Post, out[j].Post
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}

		return a.ID < b.ID
	})

	page := paginate(out, 0, limit)

	return &RankedPage{
		Posts:       page,
		Total:       len(page),
		Diagnostics: e.diagnostics(profile, len(pool), clamped),
	}
}

// Similar ranks candidates sharing tagged products with src:
// shared count * 20 plus half the popularity score. Candidates with no
// shared product are omitted, the source post always is.
func (e *Engine) Similar(src *entities.Post, pool []*entities.Post, limit int) *RankedPage {
	_, limit, clamped := clampOffsetLimit(0, limit, 5)

	tagged := normalizeSet(src.TaggedProductIDs)

	out := make([]*ScoredPost, 0, len(pool))
	for _, p := range pool {
		if p.ID == src.ID {
			continue
		}

		shared := intersectCount(tagged, p.TaggedProductIDs)
		if shared == 0 {
			continue
		}

		popularity := e.popularity.Score(p.Metrics)
		out = append(out, &ScoredPost{
			Post:   p,
			Scores: ComponentScores{Popularity: popularity},
			Total:  float64(shared)*20 + 0.5*popularity,
		})
	}

	sortByTotal(out)

	page := paginate(out, 0, limit)

	return &RankedPage{
		Posts:       page,
		Total:       len(page),
		Diagnostics: e.diagnostics(nil, len(pool), clamped),
	}
}

func (e *Engine) wrapWithPopularity(pool []*entities.Post) []*ScoredPost {
	out := make([]*ScoredPost, len(pool))
	for i, p := range pool {
		s := ComponentScores{Popularity: e.popularity.Score(p.Metrics)}
		out[i] = &ScoredPost{Post: p, Scores: s, Total: s.Popularity}
	}

	return out
}

// sortByTotal orders by total descending; ties break by createdAt descending,
// then id ascending, so equal pools always produce equal orderings.
func sortByTotal(scored []*ScoredPost) {
	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		if !a.Post.CreatedAt.Equal(b.Post.CreatedAt) {
			return a.Post.CreatedAt.After(b.Post.CreatedAt)
		}

		return a.Post.ID < b.Post.ID
	})
}

func paginate(scored []*ScoredPost, offset, limit int) []*ScoredPost {
	if offset >= len(scored) {
		return []*ScoredPost{}
	}

	end := offset + limit
	if end > len(scored) {
		end = len(scored)
	}

	return scored[offset:end]
}

func clampOffsetLimit(offset, limit, def int) (int, int, bool) {
	clamped := false

	if offset < 0 {
		offset = 0
		clamped = true
	}

	switch {
	case limit == 0:
		limit = def
	case limit < 0:
		limit = def
		clamped = true
	case limit > MaxLimit:
		limit = MaxLimit
		clamped = true
	}

	return offset, limit, clamped
}
