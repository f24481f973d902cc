package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/platefulapp/plateful-server/internal/service"
	"github.com/platefulapp/plateful-server/internal/store"
)

func (s *Server) registerRecipeRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createRecipe",
		Method:      http.MethodPost,
		Path:        "/api/v1/recipes",
		Summary:     "Create recipe",
		Description: "Creates a recipe with its ingredient lines and tag links in one transaction",
		Tags:        []string{"Recipes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "listRecipes",
		Method:      http.MethodGet,
		Path:        "/api/v1/recipes",
		Summary:     "List recipes",
		Description: "Returns recipes newest first, filtered by author, tags, and viewer membership flags",
		Tags:        []string{"Recipes"},
	}, s.handleListRecipes)

	huma.Register(s.api, huma.Operation{
		OperationID: "getRecipe",
		Method:      http.MethodGet,
		Path:        "/api/v1/recipes/{id}",
		Summary:     "Get recipe",
		Description: "Returns a consolidated recipe view",
		Tags:        []string{"Recipes"},
	}, s.handleGetRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateRecipe",
		Method:      http.MethodPatch,
		Path:        "/api/v1/recipes/{id}",
		Summary:     "Replace recipe",
		Description: "Replaces a recipe with full-payload semantics; author or admin only",
		Tags:        []string{"Recipes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteRecipe",
		Method:      http.MethodDelete,
		Path:        "/api/v1/recipes/{id}",
		Summary:     "Delete recipe",
		Description: "Deletes a recipe and its memberships; author or admin only",
		Tags:        []string{"Recipes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "favoriteRecipe",
		Method:      http.MethodPost,
		Path:        "/api/v1/recipes/{id}/favorite",
		Summary:     "Favorite recipe",
		Description: "Adds the recipe to the viewer's favorites",
		Tags:        []string{"Recipes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleFavoriteRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "unfavoriteRecipe",
		Method:      http.MethodDelete,
		Path:        "/api/v1/recipes/{id}/favorite",
		Summary:     "Unfavorite recipe",
		Description: "Removes the recipe from the viewer's favorites",
		Tags:        []string{"Recipes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUnfavoriteRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "getRecipeImage",
		Method:      http.MethodGet,
		Path:        "/api/v1/recipes/{id}/image",
		Summary:     "Get recipe image",
		Description: "Serves the stored recipe photo",
		Tags:        []string{"Recipes"},
	}, s.handleGetRecipeImage)
}

// === DTOs ===

// RecipeLineRequest is one ingredient line in a recipe payload.
type RecipeLineRequest struct {
	IngredientID string `json:"ingredient_id" doc:"Catalog ingredient ID"`
	Amount       int    `json:"amount" doc:"Amount in the ingredient's unit"`
}

// RecipeRequest is the create/replace payload. Replace uses full-payload
// semantics, so the same shape serves both.
type RecipeRequest struct {
	Name        string              `json:"name" doc:"Recipe name"`
	Text        string              `json:"text" doc:"Preparation text"`
	CookingTime int                 `json:"cooking_time" doc:"Cooking time in minutes"`
	Tags        []string            `json:"tags" doc:"Tag IDs"`
	Ingredients []RecipeLineRequest `json:"ingredients" doc:"Ingredient lines"`
	Image       string              `json:"image,omitempty" doc:"Base64 image data URI"`
}

// CreateRecipeInput wraps the create payload for Huma.
type CreateRecipeInput struct {
	Authorization string `header:"Authorization"`
	Body          RecipeRequest
}

// UpdateRecipeInput wraps the replace payload for Huma.
type UpdateRecipeInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Recipe ID"`
	Body          RecipeRequest
}

// RecipeOutput wraps a consolidated recipe view for Huma.
type RecipeOutput struct {
	Body service.RecipeView
}

// GetRecipeInput contains parameters for a recipe lookup.
type GetRecipeInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Recipe ID"`
}

// RecipeActionInput contains parameters for authenticated per-recipe actions.
type RecipeActionInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Recipe ID"`
}

// ListRecipesInput contains recipe listing filters.
type ListRecipesInput struct {
	Authorization string `header:"Authorization"`
	Author        string `query:"author" doc:"Only recipes by this author ID"`
	Tags          string `query:"tags" doc:"Comma-separated tag slugs, OR-combined"`
	IsFavorited   string `query:"is_favorited" doc:"Only the viewer's favorites (1/true)"`
	IsInCart      string `query:"is_in_shopping_cart" doc:"Only recipes in the viewer's cart (1/true)"`
	Limit         string `query:"limit" doc:"Max results; absent or non-numeric means no limit"`
	Offset        string `query:"offset" doc:"Items to skip"`
}

// RecipeListResponse contains a page of consolidated recipe views.
type RecipeListResponse struct {
	Recipes []*service.RecipeView `json:"recipes" doc:"Recipe views"`
	Total   int                   `json:"total" doc:"Total matching recipes"`
	HasMore bool                  `json:"has_more" doc:"Whether more pages exist"`
}

// RecipeListOutput wraps the recipe list response for Huma.
type RecipeListOutput struct {
	Body RecipeListResponse
}

// RecipeImageOutput serves raw photo bytes; the envelope does not apply.
type RecipeImageOutput struct {
	ContentType  string `header:"Content-Type"`
	ETag         string `header:"ETag"`
	CacheControl string `header:"Cache-Control"`
	Body         []byte
}

// === Handlers ===

func (s *Server) handleCreateRecipe(ctx context.Context, input *CreateRecipeInput) (*RecipeOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	view, err := s.services.Recipe.Create(ctx, user, recipeInput(input.Body))
	if err != nil {
		return nil, err
	}

	return &RecipeOutput{Body: *view}, nil
}

func (s *Server) handleListRecipes(ctx context.Context, input *ListRecipesInput) (*RecipeListOutput, error) {
	viewerID := s.optionalViewerID(ctx, input.Authorization)

	filter := service.ListFilter{
		AuthorID:      input.Author,
		TagSlugs:      splitSlugs(input.Tags),
		FavoritedOnly: parseFlag(input.IsFavorited),
		InCartOnly:    parseFlag(input.IsInCart),
	}

	result, err := s.services.Recipe.List(ctx, viewerID, filter, store.PaginationParams{
		Limit:  parseLimit(input.Limit),
		Offset: parseLimit(input.Offset),
	})
	if err != nil {
		return nil, err
	}

	return &RecipeListOutput{Body: RecipeListResponse{
		Recipes: result.Items,
		Total:   result.Total,
		HasMore: result.HasMore,
	}}, nil
}

func (s *Server) handleGetRecipe(ctx context.Context, input *GetRecipeInput) (*RecipeOutput, error) {
	viewerID := s.optionalViewerID(ctx, input.Authorization)

	view, err := s.services.Recipe.Get(ctx, viewerID, input.ID)
	if err != nil {
		return nil, err
	}

	return &RecipeOutput{Body: *view}, nil
}

func (s *Server) handleUpdateRecipe(ctx context.Context, input *UpdateRecipeInput) (*RecipeOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	view, err := s.services.Recipe.Update(ctx, user, input.ID, recipeInput(input.Body))
	if err != nil {
		return nil, err
	}

	return &RecipeOutput{Body: *view}, nil
}

func (s *Server) handleDeleteRecipe(ctx context.Context, input *RecipeActionInput) (*MessageOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Recipe.Delete(ctx, user, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Recipe deleted"}}, nil
}

func (s *Server) handleFavoriteRecipe(ctx context.Context, input *RecipeActionInput) (*MessageOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Recipe.Favorite(ctx, user.ID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Recipe favorited"}}, nil
}

func (s *Server) handleUnfavoriteRecipe(ctx context.Context, input *RecipeActionInput) (*MessageOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Recipe.Unfavorite(ctx, user.ID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Recipe unfavorited"}}, nil
}

func (s *Server) handleGetRecipeImage(ctx context.Context, input *GetRecipeInput) (*RecipeImageOutput, error) {
	data, hash, err := s.services.Recipe.Image(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &RecipeImageOutput{
		ContentType:  http.DetectContentType(data),
		ETag:         `"` + hash + `"`,
		CacheControl: CacheOneDay,
		Body:         data,
	}, nil
}

// === Helpers ===

func recipeInput(req RecipeRequest) service.RecipeInput {
	lines := make([]service.RecipeLineInput, len(req.Ingredients))
	for i, l := range req.Ingredients {
		lines[i] = service.RecipeLineInput{
			IngredientID: l.IngredientID,
			Amount:       l.Amount,
		}
	}

	return service.RecipeInput{
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		TagIDs:      req.Tags,
		Lines:       lines,
		Image:       req.Image,
	}
}

// splitSlugs parses a comma-separated tag slug filter.
func splitSlugs(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	slugs := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			slugs = append(slugs, p)
		}
	}
	return slugs
}
