package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerCartRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "addToShoppingCart",
		Method:      http.MethodPost,
		Path:        "/api/v1/recipes/{id}/shopping_cart",
		Summary:     "Add recipe to shopping cart",
		Description: "Adds the recipe to the viewer's cart, creating the cart on first use",
		Tags:        []string{"Shopping cart"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddToCart)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeFromShoppingCart",
		Method:      http.MethodDelete,
		Path:        "/api/v1/recipes/{id}/shopping_cart",
		Summary:     "Remove recipe from shopping cart",
		Description: "Removes the recipe from the viewer's cart",
		Tags:        []string{"Shopping cart"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRemoveFromCart)

	huma.Register(s.api, huma.Operation{
		OperationID: "downloadShoppingCart",
		Method:      http.MethodGet,
		Path:        "/api/v1/recipes/shopping_cart/download",
		Summary:     "Download shopping list",
		Description: "Aggregates the cart's ingredient lines into a checklist document",
		Tags:        []string{"Shopping cart"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDownloadCart)
}

// === DTOs ===

// DownloadCartInput contains parameters for the checklist download.
type DownloadCartInput struct {
	Authorization string `header:"Authorization"`
}

// ChecklistOutput serves the rendered checklist as an attachment; the
// envelope does not apply.
type ChecklistOutput struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	CacheControl       string `header:"Cache-Control"`
	Body               []byte
}

// === Handlers ===

func (s *Server) handleAddToCart(ctx context.Context, input *RecipeActionInput) (*MessageOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Cart.Add(ctx, user.ID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Recipe added to shopping cart"}}, nil
}

func (s *Server) handleRemoveFromCart(ctx context.Context, input *RecipeActionInput) (*MessageOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Cart.Remove(ctx, user.ID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Recipe removed from shopping cart"}}, nil
}

func (s *Server) handleDownloadCart(ctx context.Context, input *DownloadCartInput) (*ChecklistOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	doc, err := s.services.Cart.Download(ctx, user)
	if err != nil {
		return nil, err
	}

	return &ChecklistOutput{
		ContentType:        doc.ContentType,
		ContentDisposition: `attachment; filename="` + doc.Filename + `"`,
		CacheControl:       CacheNoStore,
		Body:               doc.Data,
	}, nil
}
