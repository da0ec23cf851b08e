package ranking

import "fmt"

// Composer combines component scores into one total in [0,100]. Two feed
// generations shipped with different weight sets; both are implemented as
// interchangeable strategies and selected per deployment. Weights are fixed
// per strategy, a mismatch between them is a configuration error caught by
// tests, not handled at runtime.
type Composer interface {
	Name() string
	// Compose returns the weighted total. unseen reports that the user has
	// not viewed the candidate before.
	Compose(s ComponentScores, unseen bool) float64
}

// CanonicalComposer is the full personalized-feed model.
type CanonicalComposer struct{}

// Name ...
func (CanonicalComposer) Name() string { return "canonical" }

// Compose ...
func (CanonicalComposer) Compose(s ComponentScores, unseen bool) float64 {
	total := 0.30*s.Popularity +
		0.25*s.Compatibility +
		0.20*s.Affinity +
		0.15*s.Social +
		0.10*s.Freshness

	if unseen {
		total += 10
	}

	return clamp(total, 0, 100)
}

// LegacyComposer is the older non-social backend model. It has no social or
// affinity terms and weighs diet and allergen compatibility much heavier.
type LegacyComposer struct{}

// Name ...
func (LegacyComposer) Name() string { return "legacy" }

// Compose ...
func (LegacyComposer) Compose(s ComponentScores, _ bool) float64 {
	// Allergy compatibility is a full score whenever the hard gate did not
	// fire; the gate itself zeroes the total upstream.
	total := 0.40*s.Compatibility +
		0.35*100 +
		0.10*s.Freshness +
		0.10*s.Popularity +
		0.05*s.Diversity

	return clamp(total, 0, 100)
}

// ComposerByName resolves a configured composer strategy.
func ComposerByName(name string) (Composer, error) {
	switch name {
	case "", "canonical":
		return CanonicalComposer{}, nil
	case "legacy":
		return LegacyComposer{}, nil
	default:
		return nil, fmt.Errorf("%w: composer %q", errUnknownStrategy, name)
	}
}
