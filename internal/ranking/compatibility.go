package ranking

import (
	"strings"

	"github.com/plateful-app/ambrosia/internal/entities"
)

// Diet soft-preference scores.
const (
	dietScoreExact      = 100
	dietScoreTagged     = 90
	dietScoreCompatible = 70
	dietScoreNeutral    = 50
	dietScoreMismatch   = 30
)

// dietMatrix marks which declared candidate diets are acceptable to a user
// diet beyond an exact match. The relation is directional: vegan content
// suits a vegetarian, vegetarian content does not suit a vegan.
var dietMatrix = map[entities.DietType][]entities.DietType{
	entities.DietVegan: {entities.DietVegetarian},
	entities.DietKeto:  {entities.DietPaleo},
}

// dietTagKeywords are diets recognizable from hashtags.
var dietTagKeywords = []entities.DietType{
	entities.DietVegan,
	entities.DietVegetarian,
	entities.DietPaleo,
	entities.DietKeto,
	entities.DietHalal,
	entities.DietKosher,
}

// compatibilityScore combines the allergen hard gate with the diet
// soft-preference score. When the gate fires the score is 0 and the second
// return value is true; the composed total must then be 0 regardless of all
// other factors.
func compatibilityScore(profile *entities.Profile, post *entities.Post) (float64, bool) {
	if profile == nil {
		return dietScoreNeutral, false
	}

	if allergenMatch(profile, post) {
		return 0, true
	}

	return dietScore(profile.DietType, post), false
}

// allergenMatch reports whether any of the user's allergies intersects the
// candidate's declared allergens. Posts flagged allergen-free never match.
func allergenMatch(profile *entities.Profile, post *entities.Post) bool {
	if len(profile.Allergies) == 0 || post.IsAllergenFree || len(post.Allergens) == 0 {
		return false
	}

	return intersectCount(normalizeSet(profile.Allergies), post.Allergens) > 0
}

func dietScore(userDiet entities.DietType, post *entities.Post) float64 {
	userDiet = userDiet.Normalize()
	if userDiet == "" || userDiet == entities.DietNone {
		return dietScoreNeutral
	}

	postDiet := post.DietType.Normalize()
	if postDiet != "" && postDiet == userDiet {
		return dietScoreExact
	}

	tags := dietTags(post.Hashtags)
	if _, ok := tags[userDiet]; ok {
		return dietScoreTagged
	}

	if isDietCompatible(postDiet, userDiet) {
		return dietScoreCompatible
	}

	// Undeclared content with no diet tags is unknown, not incompatible.
	if postDiet == "" && len(tags) == 0 {
		return dietScoreNeutral
	}

	return dietScoreMismatch
}

// isDietCompatible reports whether content of diet candidate is acceptable to
// a user of diet user per the directional compatibility matrix.
func isDietCompatible(candidate, user entities.DietType) bool {
	for _, d := range dietMatrix[candidate.Normalize()] {
		if d == user.Normalize() {
			return true
		}
	}

	return false
}

// dietTags extracts diets mentioned in hashtags via keyword match.
func dietTags(hashtags []string) map[entities.DietType]struct{} {
	if len(hashtags) == 0 {
		return nil
	}

	out := make(map[entities.DietType]struct{})
	for _, h := range hashtags {
		h = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(h), "#"))
		for _, d := range dietTagKeywords {
			if strings.Contains(h, string(d)) {
				out[d] = struct{}{}
			}
		}
	}

	return out
}
