// Package store defines the persistence interface for the Plateful server.
package store

import (
	"context"

	"github.com/platefulapp/plateful-server/internal/domain"
)

// SearchIndexer is the interface for updating the ingredient search index.
// Store uses this to keep search in sync without depending on the search
// implementation.
type SearchIndexer interface {
	IndexIngredient(ctx context.Context, ing *domain.Ingredient) error
	DeleteIngredient(ctx context.Context, ingredientID string) error
}

// NoopSearchIndexer is a no-op implementation for testing.
type NoopSearchIndexer struct{}

// IndexIngredient is a no-op.
func (NoopSearchIndexer) IndexIngredient(context.Context, *domain.Ingredient) error { return nil }

// DeleteIngredient is a no-op.
func (NoopSearchIndexer) DeleteIngredient(context.Context, string) error { return nil }

// NewNoopSearchIndexer creates a new no-op indexer for testing.
func NewNoopSearchIndexer() SearchIndexer {
	return NoopSearchIndexer{}
}

// RecipeFilter narrows a recipe listing. Zero-value fields are ignored.
type RecipeFilter struct {
	AuthorID    string   // Only recipes by this author
	TagSlugs    []string // Recipes carrying at least one of these tags
	FavoritedBy string   // Recipes favorited by this user
	InCartOf    string   // Recipes in this user's cart
}

// Store defines the interface for all persistence operations.
type Store interface {
	// Lifecycle
	Close() error
	SetSearchIndexer(indexer SearchIndexer)

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUsersByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	ListUsers(ctx context.Context, params PaginationParams) (*PaginatedResult[*domain.User], error)

	// Auth sessions
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSessionByRefreshTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error)
	UpdateSession(ctx context.Context, session *domain.Session) error
	DeleteSession(ctx context.Context, id string) error
	DeleteAllUserSessions(ctx context.Context, userID string) error
	DeleteExpiredSessions(ctx context.Context) (int, error)

	// Tags
	CreateTag(ctx context.Context, tag *domain.Tag) error
	GetTagByID(ctx context.Context, id string) (*domain.Tag, error)
	GetTagBySlug(ctx context.Context, slug string) (*domain.Tag, error)
	GetTagsByIDs(ctx context.Context, ids []string) ([]*domain.Tag, error)
	ListTags(ctx context.Context) ([]*domain.Tag, error)
	DeleteTag(ctx context.Context, id string) error

	// Ingredients
	CreateIngredient(ctx context.Context, ing *domain.Ingredient) error
	InsertIngredientIfAbsent(ctx context.Context, ing *domain.Ingredient) (created bool, err error)
	GetIngredient(ctx context.Context, id string) (*domain.Ingredient, error)
	GetIngredientsByIDs(ctx context.Context, ids []string) ([]*domain.Ingredient, error)
	ListIngredients(ctx context.Context) ([]*domain.Ingredient, error)
	CountIngredients(ctx context.Context) (int, error)

	// Recipes
	CreateRecipe(ctx context.Context, r *domain.Recipe, tagIDs []string, lines []domain.IngredientLine) error
	GetRecipe(ctx context.Context, id string) (*domain.Recipe, error)
	GetRecipeTags(ctx context.Context, recipeID string) ([]*domain.Tag, error)
	GetRecipeLines(ctx context.Context, recipeID string) ([]domain.ResolvedLine, error)
	UpdateRecipe(ctx context.Context, r *domain.Recipe, tagIDs []string, lines []domain.IngredientLine) error
	DeleteRecipe(ctx context.Context, id string) error
	ListRecipes(ctx context.Context, filter RecipeFilter, params PaginationParams) (*PaginatedResult[*domain.Recipe], error)
	CountRecipesByAuthor(ctx context.Context, authorID string) (int, error)

	// Favorites
	AddFavorite(ctx context.Context, userID, recipeID string) error
	RemoveFavorite(ctx context.Context, userID, recipeID string) error
	FavoriteRecipeIDSet(ctx context.Context, userID string, recipeIDs []string) (map[string]bool, error)

	// Carts
	GetCartByUserID(ctx context.Context, userID string) (*domain.Cart, error)
	GetOrCreateCart(ctx context.Context, userID string) (*domain.Cart, error)
	AddRecipeToCart(ctx context.Context, cartID, recipeID string) error
	RemoveRecipeFromCart(ctx context.Context, cartID, recipeID string) error
	CartRecipeIDSet(ctx context.Context, userID string, recipeIDs []string) (map[string]bool, error)
	CartResolvedLines(ctx context.Context, cartID string) ([]domain.ResolvedLine, error)

	// Follows
	CreateFollow(ctx context.Context, followerID, authorID string) error
	DeleteFollow(ctx context.Context, followerID, authorID string) error
	IsFollowing(ctx context.Context, followerID, authorID string) (bool, error)
	ListFollowedAuthors(ctx context.Context, followerID string, params PaginationParams) (*PaginatedResult[*domain.User], error)
	FollowedAuthorIDSet(ctx context.Context, followerID string, authorIDs []string) (map[string]bool, error)
}
