package domain

import "time"

// Favorite represents a (user, recipe) favorite edge.
// Semantics are strict: adding an existing edge or removing an absent one
// is a conflict, not a silent no-op.
type Favorite struct {
	UserID    string    `json:"user_id"`
	RecipeID  string    `json:"recipe_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Cart is a user's shopping cart. One per user, created lazily on the first
// add; a user who never adds a recipe never gets a cart row.
type Cart struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CartRecipe represents a (cart, recipe) edge with the same strict
// add/remove semantics as Favorite.
type CartRecipe struct {
	CartID    string    `json:"cart_id"`
	RecipeID  string    `json:"recipe_id"`
	CreatedAt time.Time `json:"created_at"`
}
