package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalComposer(t *testing.T) {
	c := CanonicalComposer{}

	scores := ComponentScores{
		Popularity:    80,
		Compatibility: 100,
		Affinity:      50,
		Social:        50,
		Freshness:     100,
		Diversity:     100,
	}

	// 0.30*80 + 0.25*100 + 0.20*50 + 0.15*50 + 0.10*100 = 76.5
	assert.InDelta(t, 76.5, c.Compose(scores, false), 1e-9)
	assert.InDelta(t, 86.5, c.Compose(scores, true), 1e-9)

	t.Run("unseen bonus is capped at 100", func(t *testing.T) {
		all := ComponentScores{Popularity: 100, Compatibility: 100, Affinity: 100, Social: 100, Freshness: 100}
		assert.EqualValues(t, 100, c.Compose(all, true))
	})

	t.Run("diversity has no weight", func(t *testing.T) {
		a := scores
		a.Diversity = 30
		assert.Equal(t, c.Compose(scores, false), c.Compose(a, false))
	})
}

func TestLegacyComposer(t *testing.T) {
	c := LegacyComposer{}

	scores := ComponentScores{
		Popularity:    80,
		Compatibility: 100,
		Affinity:      90,
		Social:        90,
		Freshness:     100,
		Diversity:     100,
	}

	// 0.40*100 + 0.35*100 + 0.10*100 + 0.10*80 + 0.05*100 = 98
	assert.InDelta(t, 98, c.Compose(scores, false), 1e-9)

	t.Run("no social or affinity terms", func(t *testing.T) {
		a := scores
		a.Affinity = 0
		a.Social = 0
		assert.Equal(t, c.Compose(scores, false), c.Compose(a, false))
	})

	t.Run("no unseen bonus", func(t *testing.T) {
		assert.Equal(t, c.Compose(scores, false), c.Compose(scores, true))
	})
}
