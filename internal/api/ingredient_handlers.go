package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/platefulapp/plateful-server/internal/domain"
)

func (s *Server) registerIngredientRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchIngredients",
		Method:      http.MethodGet,
		Path:        "/api/v1/ingredients",
		Summary:     "Search ingredients",
		Description: "Prefix-matches the ingredient catalog, case-insensitively; an empty query lists everything",
		Tags:        []string{"Ingredients"},
	}, s.handleSearchIngredients)

	huma.Register(s.api, huma.Operation{
		OperationID: "getIngredient",
		Method:      http.MethodGet,
		Path:        "/api/v1/ingredients/{id}",
		Summary:     "Get ingredient",
		Description: "Returns an ingredient by ID",
		Tags:        []string{"Ingredients"},
	}, s.handleGetIngredient)
}

// === DTOs ===

// SearchIngredientsInput contains ingredient search parameters.
type SearchIngredientsInput struct {
	Name  string `query:"name" doc:"Name prefix to match"`
	Limit string `query:"limit" doc:"Max results; absent or non-numeric means no limit"`
}

// IngredientListResponse contains matching catalog entries.
type IngredientListResponse struct {
	Ingredients []*domain.Ingredient `json:"ingredients" doc:"Matching ingredients"`
}

// IngredientListOutput wraps the ingredient list response for Huma.
type IngredientListOutput struct {
	Body IngredientListResponse
}

// GetIngredientInput contains parameters for getting an ingredient.
type GetIngredientInput struct {
	ID string `path:"id" doc:"Ingredient ID"`
}

// IngredientOutput wraps a single ingredient for Huma.
type IngredientOutput struct {
	Body *domain.Ingredient
}

// === Handlers ===

func (s *Server) handleSearchIngredients(ctx context.Context, input *SearchIngredientsInput) (*IngredientListOutput, error) {
	ings, err := s.services.Ingredient.Search(ctx, input.Name, parseLimit(input.Limit))
	if err != nil {
		return nil, err
	}

	return &IngredientListOutput{Body: IngredientListResponse{Ingredients: ings}}, nil
}

func (s *Server) handleGetIngredient(ctx context.Context, input *GetIngredientInput) (*IngredientOutput, error) {
	ing, err := s.services.Ingredient.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &IngredientOutput{Body: ing}, nil
}
