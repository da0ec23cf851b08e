// Package entities contains main entities of service.
package entities

import (
	"strings"
	"time"
)

// DietType is a dietary preference declared on a profile or a post.
type DietType string

// Known diet types.
const (
	DietOmnivore    DietType = "omnivore"
	DietVegetarian  DietType = "vegetarian"
	DietVegan       DietType = "vegan"
	DietFlexitarian DietType = "flexitarian"
	DietPaleo       DietType = "paleo"
	DietKeto        DietType = "keto"
	DietHalal       DietType = "halal"
	DietKosher      DietType = "kosher"
	DietNone        DietType = "none"
)

// Normalize lowercases a diet type so comparisons are case-insensitive.
func (d DietType) Normalize() DietType {
	return DietType(strings.ToLower(strings.TrimSpace(string(d))))
}

// Profile is a read-only snapshot of the requesting user.
// It is immutable for the duration of one ranking request.
type Profile struct {
	ID                 string
	DietType           DietType
	Allergies          []string
	Following          []string
	LikedPostIDs       []string
	FavoriteProductIDs []string
	ViewedPostIDs      []string
	SeenCategories     map[string]int
	CreatedAt          time.Time
}

// Metrics are engagement counters of a post. Counters never decrease.
type Metrics struct {
	Views    uint32
	Likes    uint32
	Comments uint32
	Shares   uint32
}

// Post is a candidate content item eligible for ranking.
type Post struct {
	ID               string
	CreatorID        string
	Title            string
	PreviewImage     string
	Category         string
	DietType         DietType // empty means undeclared
	Allergens        []string
	IsAllergenFree   bool
	TaggedProductIDs []string
	Hashtags         []string
	Metrics          Metrics
	CreatorLevel     int
	LikedBy          []string
	CreatedAt        time.Time
}
