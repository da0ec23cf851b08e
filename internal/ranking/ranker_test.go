package ranking

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plateful-app/ambrosia/internal/entities"
)

var now = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func pageIDs(p *RankedPage) []string {
	out := make([]string, len(p.Posts))
	for i, v := range p.Posts {
		out[i] = v.Post.ID
	}

	return out
}

func TestRank_AllergenScenario(t *testing.T) {
	profile := &entities.Profile{
		ID:        "user",
		DietType:  entities.DietVegan,
		Allergies: []string{"peanut"},
	}

	postA := &entities.Post{
		ID:        "a",
		CreatorID: "c1",
		DietType:  entities.DietVegetarian,
		Allergens: []string{"peanut"},
		CreatedAt: now.Add(-time.Hour),
	}
	postB := &entities.Post{
		ID:        "b",
		CreatorID: "c2",
		DietType:  entities.DietVegan,
		Metrics:   entities.Metrics{Views: 1000, Likes: 100},
		CreatedAt: now.Add(-2 * time.Hour),
	}
	postC := &entities.Post{
		ID:        "c",
		CreatorID: "c3",
		DietType:  entities.DietOmnivore,
		CreatedAt: now.Add(-10 * 24 * time.Hour),
	}

	page := New().Rank(profile, nil, []*entities.Post{postA, postB, postC}, Params{Limit: 10, Now: now, Seed: 1})

	ids := pageIDs(page)
	require.Len(t, ids, 2)
	assert.NotContains(t, ids, "a")
	assert.Contains(t, ids, "b")
	assert.Contains(t, ids, "c")

	byID := map[string]*ScoredPost{}
	for _, v := range page.Posts {
		byID[v.Post.ID] = v
	}

	// The vegan-compatible diet of A is irrelevant once the allergen gate fires.
	assert.Greater(t, byID["b"].Total, byID["c"].Total)
	assert.True(t, page.Diagnostics.AllergyFilter)
	assert.Equal(t, entities.DietVegan, page.Diagnostics.DietType)
}

func TestRank_ShortlistBound(t *testing.T) {
	pool := make([]*entities.Post, 40)
	for i := range pool {
		pool[i] = &entities.Post{
			ID:        fmt.Sprintf("p%02d", i),
			CreatorID: "c",
			Metrics:   entities.Metrics{Views: 1000, Likes: uint32(i)},
			CreatedAt: now.Add(-time.Hour),
		}
	}

	page := New().Rank(&entities.Profile{ID: "user"}, nil, pool, Params{Limit: 50, Now: now, Seed: 42})

	// Totals grow strictly with the index, so the shortlist is p10..p39.
	require.Len(t, page.Posts, DefaultShortlistSize)
	for _, id := range pageIDs(page) {
		assert.GreaterOrEqual(t, id, "p10")
	}
}

func TestRank_SeededShuffleIsDeterministic(t *testing.T) {
	pool := make([]*entities.Post, 20)
	for i := range pool {
		pool[i] = &entities.Post{
			ID:        fmt.Sprintf("p%02d", i),
			CreatorID: "c",
			Metrics:   entities.Metrics{Views: 100, Likes: uint32(i)},
			CreatedAt: now.Add(-time.Hour),
		}
	}

	profile := &entities.Profile{ID: "user"}
	p := Params{Limit: 20, Now: now, Seed: 7}

	first := New().Rank(profile, nil, pool, p)
	second := New().Rank(profile, nil, pool, p)

	assert.Equal(t, pageIDs(first), pageIDs(second))
}

func TestRank_Pagination(t *testing.T) {
	pool := make([]*entities.Post, 15)
	for i := range pool {
		pool[i] = &entities.Post{
			ID:        fmt.Sprintf("p%02d", i),
			CreatorID: "c",
			CreatedAt: now.Add(-time.Hour),
		}
	}

	e := New()
	profile := &entities.Profile{ID: "user"}

	second := e.Rank(profile, nil, pool, Params{Page: 2, Limit: 10, Now: now, Seed: 3})
	assert.Len(t, second.Posts, 5)
	assert.Equal(t, 5, second.Total)

	beyond := e.Rank(profile, nil, pool, Params{Page: 5, Limit: 10, Now: now, Seed: 3})
	assert.Empty(t, beyond.Posts)
	assert.Zero(t, beyond.Total)

	clamped := e.Rank(profile, nil, pool, Params{Page: -1, Limit: 1000, Now: now, Seed: 3})
	assert.True(t, clamped.Diagnostics.Clamped)
	assert.Len(t, clamped.Posts, 15)
}

func TestRank_EmptyPool(t *testing.T) {
	page := New().Rank(&entities.Profile{ID: "user"}, nil, nil, Params{Now: now})

	assert.Empty(t, page.Posts)
	assert.Zero(t, page.Total)
	assert.Zero(t, page.Diagnostics.PoolSize)
}

func TestRank_UnseenBonus(t *testing.T) {
	post := &entities.Post{ID: "p", CreatorID: "c", CreatedAt: now.Add(-time.Hour)}

	fresh := New().Rank(&entities.Profile{ID: "u"}, nil, []*entities.Post{post}, Params{Now: now, Seed: 1})
	seen := New().Rank(&entities.Profile{ID: "u", ViewedPostIDs: []string{"p"}}, nil, []*entities.Post{post}, Params{Now: now, Seed: 1})

	require.Len(t, fresh.Posts, 1)
	require.Len(t, seen.Posts, 1)
	assert.InDelta(t, 10, fresh.Posts[0].Total-seen.Posts[0].Total, 1e-9)
}

func TestExplore_DeterministicOrder(t *testing.T) {
	pool := []*entities.Post{
		{ID: "old-popular", Metrics: entities.Metrics{Likes: 50}, CreatedAt: now.Add(-48 * time.Hour)},
		{ID: "new-popular", Metrics: entities.Metrics{Likes: 50}, CreatedAt: now.Add(-time.Hour)},
		{ID: "viral", Metrics: entities.Metrics{Likes: 500}, CreatedAt: now.Add(-100 * time.Hour)},
		{ID: "quiet", Metrics: entities.Metrics{Likes: 1}, CreatedAt: now},
	}

	e := New()

	page := e.Explore(pool, 0, 20)
	assert.Equal(t, []string{"viral", "new-popular", "old-popular", "quiet"}, pageIDs(page))

	// Pagination idempotence: an unchanged pool produces an identical sequence.
	assert.Equal(t, pageIDs(page), pageIDs(e.Explore(pool, 0, 20)))

	offset := e.Explore(pool, 2, 20)
	assert.Equal(t, []string{"old-popular", "quiet"}, pageIDs(offset))

	negative := e.Explore(pool, -5, 0)
	assert.True(t, negative.Diagnostics.Clamped)
	assert.Len(t, negative.Posts, 4)
}

func TestTrending_WindowAndOrder(t *testing.T) {
	pool := []*entities.Post{
		{ID: "stale", Metrics: entities.Metrics{Views: 1000, Likes: 500}, CreatedAt: now.Add(-8 * 24 * time.Hour)},
		{ID: "hot", Metrics: entities.Metrics{Views: 1000, Likes: 100}, CreatedAt: now.Add(-time.Hour)},
		{ID: "warm", Metrics: entities.Metrics{Views: 500}, CreatedAt: now.Add(-2 * 24 * time.Hour)},
	}

	page := New().Trending(pool, now, 20)

	assert.Equal(t, []string{"hot", "warm"}, pageIDs(page))
}

func TestFollowing_FilterAndOrder(t *testing.T) {
	profile := &entities.Profile{ID: "u", Following: []string{"alice", "carol"}}

	pool := []*entities.Post{
		{ID: "p1", CreatorID: "bob", CreatedAt: now.Add(-time.Hour)},
		{ID: "p2", CreatorID: "alice", CreatedAt: now.Add(-3 * time.Hour)},
		{ID: "p3", CreatorID: "carol", CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "p4", CreatorID: "alice", CreatedAt: now.Add(-30 * time.Minute)},
	}

	page := New().Following(profile, pool, 20)

	assert.Equal(t, []string{"p4", "p3", "p2"}, pageIDs(page))
}

func TestSimilar(t *testing.T) {
	src := &entities.Post{ID: "src", TaggedProductIDs: []string{"P1", "P2"}}

	pool := []*entities.Post{
		src,
		{ID: "one-shared", TaggedProductIDs: []string{"P1", "P3"}},
		{ID: "two-shared", TaggedProductIDs: []string{"P1", "P2"}},
		{ID: "unrelated", TaggedProductIDs: []string{"P9"}},
	}

	page := New().Similar(src, pool, 5)

	assert.Equal(t, []string{"two-shared", "one-shared"}, pageIDs(page))

	// One shared product contributes exactly 20 before the popularity term.
	byID := map[string]*ScoredPost{}
	for _, v := range page.Posts {
		byID[v.Post.ID] = v
	}
	assert.InDelta(t, 20, byID["one-shared"].Total, 1e-9)
	assert.InDelta(t, 40, byID["two-shared"].Total, 1e-9)
}

func TestSortByTotal_Ties(t *testing.T) {
	scored := []*ScoredPost{
		{Post: &entities.Post{ID: "b", CreatedAt: now}, Total: 50},
		{Post: &entities.Post{ID: "a", CreatedAt: now}, Total: 50},
		{Post: &entities.Post{ID: "c", CreatedAt: now.Add(time.Hour)}, Total: 50},
		{Post: &entities.Post{ID: "d", CreatedAt: now}, Total: 60},
	}

	sortByTotal(scored)

	ids := make([]string, len(scored))
	for i, v := range scored {
		ids[i] = v.Post.ID
	}

	// Total desc, then createdAt desc, then id asc.
	assert.Equal(t, []string{"d", "c", "a", "b"}, ids)
}

func TestNewFromNames(t *testing.T) {
	e, err := NewFromNames("legacy", "log", "legacy")
	require.NoError(t, err)
	assert.Equal(t, "legacy", e.composer.Name())
	assert.Equal(t, "log", e.popularity.Name())
	assert.Equal(t, "legacy", e.freshness.Name())

	_, err = NewFromNames("bogus", "", "")
	assert.Error(t, err)
}
