package ranking

import (
	"github.com/plateful-app/ambrosia/internal/entities"
)

// affinityScore is a content-based proxy for collaborative similarity built
// on shared tagged products. Base 50; +30 when the candidate tags one of the
// user's favorite products; +5 per product shared with a previously liked
// post, capped at +30.
func affinityScore(profile *entities.Profile, liked []*entities.Post, post *entities.Post) float64 {
	score := 50.0

	if profile == nil {
		return score
	}

	if len(profile.FavoriteProductIDs) > 0 &&
		intersectCount(normalizeSet(profile.FavoriteProductIDs), post.TaggedProductIDs) > 0 {
		score += 30
	}

	if len(liked) > 0 && len(post.TaggedProductIDs) > 0 {
		tagged := normalizeSet(post.TaggedProductIDs)

		shared := 0
		for _, l := range liked {
			if l.ID == post.ID {
				continue
			}
			shared += intersectCount(tagged, l.TaggedProductIDs)
		}

		score += clamp(float64(shared)*5, 0, 30)
	}

	return clamp(score, 0, 100)
}

// socialScore rewards the social graph: +50 for a followed creator, an
// influence bonus of creatorLevel*2 capped at 30, and +10 per follower who
// liked the post capped at 20.
func socialScore(profile *entities.Profile, post *entities.Post) float64 {
	if profile == nil || len(profile.Following) == 0 {
		return socialInfluence(post)
	}

	score := 0.0
	following := normalizeSet(profile.Following)

	if intersectCount(following, []string{post.CreatorID}) > 0 {
		score += 50
	}

	score += socialInfluence(post)

	if len(post.LikedBy) > 0 {
		score += clamp(float64(10*intersectCount(following, post.LikedBy)), 0, 20)
	}

	return clamp(score, 0, 100)
}

func socialInfluence(post *entities.Post) float64 {
	return clamp(float64(post.CreatorLevel*2), 0, 30)
}

// diversityScore penalizes category fatigue: 100 minus 20 per recent view of
// the same category, floored at 30. Only the legacy composer weighs it.
func diversityScore(profile *entities.Profile, post *entities.Post) float64 {
	if profile == nil || post.Category == "" {
		return 100
	}

	seen := profile.SeenCategories[post.Category]

	return clamp(100-float64(seen)*20, 30, 100)
}
