package domain

import (
	"regexp"
	"time"
)

// hexColorRe matches #RGB and #RRGGBB colors.
var hexColorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Tag field length limits.
const (
	MaxTagNameLength = 32
	MaxTagSlugLength = 16
)

// Tag represents a global recipe tag ("breakfast", "gluten-free").
// Tags are reference data: seeded once, shared across all users, immutable
// through the public API. Slug is the canonical form used in filters.
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`  // Canonical form: lowercase, hyphenated
	Color     string    `json:"color"` // Hex color, unique per tag
	CreatedAt time.Time `json:"created_at"`
}

// ValidHexColor reports whether the value is a #RGB or #RRGGBB hex color.
func ValidHexColor(color string) bool {
	return hexColorRe.MatchString(color)
}

// RecipeTag represents the many-to-many relationship between recipes and tags.
type RecipeTag struct {
	RecipeID  string    `json:"recipe_id"`
	TagID     string    `json:"tag_id"`
	CreatedAt time.Time `json:"created_at"`
}
