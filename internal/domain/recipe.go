package domain

import "time"

// Cooking time bounds in minutes. The upper bound is the config default;
// PolicyConfig can lower or raise it.
const (
	CookingTimeMin = 1
	AmountMin      = 1
)

// Recipe represents a published recipe.
// Tags and ingredient lines live in join tables and are loaded separately;
// the edit contract guarantees a stored recipe always has at least one of
// each, enforced at write time rather than by the schema.
type Recipe struct {
	ID            string    `json:"id"`
	AuthorID      string    `json:"author_id"`
	Name          string    `json:"name"`
	Text          string    `json:"text"`
	ImagePath     string    `json:"image_path,omitempty"`
	ImageBlurHash string    `json:"image_blur_hash,omitempty"`
	CookingTime   int       `json:"cooking_time"` // minutes
	PubDate       time.Time `json:"pub_date"`     // immutable, set at creation
	UpdatedAt     time.Time `json:"updated_at"`
}

// IngredientLine is one (ingredient, amount) entry on a recipe.
// Duplicate ingredient IDs on one recipe are allowed at storage; the
// aggregation engine merges them instead of the write path rejecting them.
type IngredientLine struct {
	IngredientID string `json:"ingredient_id"`
	Amount       int    `json:"amount"`
}

// ResolvedLine is an ingredient line joined with its catalog entry,
// as returned to clients and consumed by the aggregation engine.
type ResolvedLine struct {
	Ingredient Ingredient `json:"ingredient"`
	Amount     int        `json:"amount"`
}
