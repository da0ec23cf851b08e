// Package ranking turns a user snapshot and a candidate pool into an ordered,
// diet-and-allergen-safe page of posts. One ranking computation is a pure
// function over immutable snapshots, there is no shared state between requests.
package ranking

import (
	"fmt"
	"strings"
	"time"

	"github.com/plateful-app/ambrosia/internal/entities"
)

// DefaultShortlistSize is the top-K band the diversification shuffle is applied to.
const DefaultShortlistSize = 30

// Pagination bounds.
const (
	DefaultLimit = 10
	MaxLimit     = 50
)

// ComponentScores are per-candidate factor scores, each in [0,100].
type ComponentScores struct {
	Popularity    float64
	Compatibility float64
	Affinity      float64
	Social        float64
	Freshness     float64
	Diversity     float64
}

// ScoredPost is a candidate with its computed scores. It lives for the
// duration of one request and is never persisted.
type ScoredPost struct {
	Post   *entities.Post
	Scores ComponentScores
	Total  float64
	// Excluded reports that the allergen hard gate fired. Excluded posts are
	// filtered from the shortlist, they never raise an error.
	Excluded bool
}

// Diagnostics describes how a page was produced.
type Diagnostics struct {
	DietType      entities.DietType `json:"dietType,omitempty"`
	AllergyFilter bool              `json:"allergyFilter"`
	Composer      string            `json:"composer,omitempty"`
	Popularity    string            `json:"popularity,omitempty"`
	Freshness     string            `json:"freshness,omitempty"`
	PoolSize      int               `json:"poolSize"`
	Clamped       bool              `json:"clamped,omitempty"`
}

// RankedPage is the output of one ranking request.
type RankedPage struct {
	Posts       []*ScoredPost
	Total       int
	Diagnostics Diagnostics
}

// Params are pagination and determinism parameters of one request.
// Seed drives the shortlist shuffle; tests inject a fixed value.
type Params struct {
	Page  int
	Limit int
	Seed  int64
	Now   time.Time
}

// normalize clamps pagination to documented bounds. Out-of-range values are
// clamped, not rejected.
func (p Params) normalize() (Params, bool) {
	clamped := false

	switch {
	case p.Page == 0:
		p.Page = 1
	case p.Page < 0:
		p.Page = 1
		clamped = true
	}

	switch {
	case p.Limit == 0:
		p.Limit = DefaultLimit
	case p.Limit < 0:
		p.Limit = DefaultLimit
		clamped = true
	case p.Limit > MaxLimit:
		p.Limit = MaxLimit
		clamped = true
	}

	if p.Now.IsZero() {
		p.Now = time.Now()
	}

	return p, clamped
}

// Engine scores and ranks candidate pools. Safe for concurrent use.
type Engine struct {
	composer   Composer
	popularity PopularityStrategy
	freshness  FreshnessStrategy
	shortlist  int
}

// Option configures an Engine.
type Option func(e *Engine)

// WithComposer sets the score composer strategy.
func WithComposer(c Composer) Option {
	return func(e *Engine) { e.composer = c }
}

// WithPopularity sets the popularity strategy.
func WithPopularity(p PopularityStrategy) Option {
	return func(e *Engine) { e.popularity = p }
}

// WithFreshness sets the freshness strategy.
func WithFreshness(f FreshnessStrategy) Option {
	return func(e *Engine) { e.freshness = f }
}

// WithShortlistSize overrides the top-K shuffle band.
func WithShortlistSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.shortlist = n
		}
	}
}

// New creates an engine with canonical strategies.
func New(opts ...Option) *Engine {
	e := &Engine{
		composer:   CanonicalComposer{},
		popularity: BlendPopularity{},
		freshness:  TieredFreshness{},
		shortlist:  DefaultShortlistSize,
	}

	for _, o := range opts {
		o(e)
	}

	return e
}

// NewFromNames creates an engine from strategy names, typically taken from
// configuration. Unknown names are a configuration error.
func NewFromNames(composer, popularity, freshness string) (*Engine, error) {
	c, err := ComposerByName(composer)
	if err != nil {
		return nil, err
	}

	p, err := PopularityByName(popularity)
	if err != nil {
		return nil, err
	}

	f, err := FreshnessByName(freshness)
	if err != nil {
		return nil, err
	}

	return New(WithComposer(c), WithPopularity(p), WithFreshness(f)), nil
}

func (e *Engine) diagnostics(profile *entities.Profile, poolSize int, clamped bool) Diagnostics {
	d := Diagnostics{
		Composer:   e.composer.Name(),
		Popularity: e.popularity.Name(),
		Freshness:  e.freshness.Name(),
		PoolSize:   poolSize,
		Clamped:    clamped,
	}

	if profile != nil {
		d.DietType = profile.DietType.Normalize()
		d.AllergyFilter = len(profile.Allergies) > 0
	}

	return d
}

// score computes all component scores and the composed total for one candidate.
func (e *Engine) score(profile *entities.Profile, liked []*entities.Post, viewed map[string]struct{}, post *entities.Post, now time.Time) *ScoredPost {
	compatibility, excluded := compatibilityScore(profile, post)

	s := ComponentScores{
		Popularity:    e.popularity.Score(post.Metrics),
		Compatibility: compatibility,
		Affinity:      affinityScore(profile, liked, post),
		Social:        socialScore(profile, post),
		Freshness:     e.freshness.Score(now.Sub(post.CreatedAt)),
		Diversity:     diversityScore(profile, post),
	}

	out := &ScoredPost{
		Post:     post,
		Scores:   s,
		Excluded: excluded,
	}

	// An allergen match is a hard exclusion signal, not a penalty. The total
	// is zero regardless of every other factor.
	if !excluded {
		_, seen := viewed[post.ID]
		out.Total = e.composer.Compose(s, !seen)
	}

	return out
}

func normalizeSet(ss []string) map[string]struct{} {
	out := make(map[string]struct{}, len(ss))
	for _, s := range ss {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out[s] = struct{}{}
		}
	}

	return out
}

func intersectCount(set map[string]struct{}, ss []string) int {
	n := 0
	for _, s := range ss {
		if _, ok := set[strings.ToLower(strings.TrimSpace(s))]; ok {
			n++
		}
	}

	return n
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}

var errUnknownStrategy = fmt.Errorf("unknown strategy")
