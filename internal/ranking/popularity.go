package ranking

import (
	"fmt"
	"math"
	"time"

	"github.com/plateful-app/ambrosia/internal/entities"
)

// PopularityStrategy scores engagement of a post, result in [0,100].
// The two feed generations disagreed on the formula, so both are kept behind
// one interface; Blend is canonical, Log is retained for parity.
type PopularityStrategy interface {
	Name() string
	Score(m entities.Metrics) float64
}

// FreshnessStrategy scores content age, result in [0,100].
type FreshnessStrategy interface {
	Name() string
	Score(age time.Duration) float64
}

// BlendPopularity is the canonical popularity measure: a view-volume term
// capped at 40 points (full credit at 1000 views) blended with an
// engagement-rate term capped at 60 points (full credit at a 10% rate).
type BlendPopularity struct{}

// Name ...
func (BlendPopularity) Name() string { return "blend" }

// Score ...
func (BlendPopularity) Score(m entities.Metrics) float64 {
	volume := clamp(float64(m.Views)/1000*40, 0, 40)

	rate := 0.0
	if m.Views > 0 {
		rate = float64(m.Likes+m.Comments+m.Shares) / float64(m.Views)
	}

	return volume + clamp(rate*600, 0, 60)
}

// LogPopularity is the legacy logarithmic engagement score:
// log10(likes + 2*comments + 3*shares + 1) / 4, scaled to [0,100].
type LogPopularity struct{}

// Name ...
func (LogPopularity) Name() string { return "log" }

// Score ...
func (LogPopularity) Score(m entities.Metrics) float64 {
	engagement := float64(m.Likes) + 2*float64(m.Comments) + 3*float64(m.Shares)

	return clamp(math.Log10(engagement+1)/4*100, 0, 100)
}

// TieredFreshness is the canonical hour-granularity decay.
type TieredFreshness struct{}

// Name ...
func (TieredFreshness) Name() string { return "tiered" }

// Score ...
func (TieredFreshness) Score(age time.Duration) float64 {
	switch {
	case age < 6*time.Hour:
		return 100
	case age < 24*time.Hour:
		return 80
	case age < 72*time.Hour:
		return 60
	case age < 168*time.Hour:
		return 40
	default:
		return 20
	}
}

// LegacyFreshness is the coarser day-granularity decay of the older feed.
type LegacyFreshness struct{}

// Name ...
func (LegacyFreshness) Name() string { return "legacy" }

// Score ...
func (LegacyFreshness) Score(age time.Duration) float64 {
	switch {
	case age < 24*time.Hour:
		return 100
	case age < 48*time.Hour:
		return 70
	case age < 7*24*time.Hour:
		return 40
	default:
		return 20
	}
}

// PopularityByName resolves a configured popularity strategy.
func PopularityByName(name string) (PopularityStrategy, error) {
	switch name {
	case "", "blend":
		return BlendPopularity{}, nil
	case "log":
		return LogPopularity{}, nil
	default:
		return nil, fmt.Errorf("%w: popularity %q", errUnknownStrategy, name)
	}
}

// FreshnessByName resolves a configured freshness strategy.
func FreshnessByName(name string) (FreshnessStrategy, error) {
	switch name {
	case "", "tiered":
		return TieredFreshness{}, nil
	case "legacy":
		return LegacyFreshness{}, nil
	default:
		return nil, fmt.Errorf("%w: freshness %q", errUnknownStrategy, name)
	}
}
