package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/platefulapp/plateful-server/internal/checklist"
	"github.com/platefulapp/plateful-server/internal/domain"
	domainerrors "github.com/platefulapp/plateful-server/internal/errors"
	"github.com/platefulapp/plateful-server/internal/store"
)

// CartService manages shopping cart membership and the aggregated checklist
// download.
type CartService struct {
	store    store.Store
	renderer checklist.Renderer
	logger   *slog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(store store.Store, renderer checklist.Renderer, logger *slog.Logger) *CartService {
	return &CartService{
		store:    store,
		renderer: renderer,
		logger:   logger,
	}
}

// ChecklistDocument is a rendered shopping checklist ready to send as an
// attachment.
type ChecklistDocument struct {
	Data        []byte
	ContentType string
	Filename    string
}

// Add puts a recipe in the user's cart, creating the cart on first use.
// Strict semantics: adding a recipe already in the cart is a conflict.
func (s *CartService) Add(ctx context.Context, userID, recipeID string) error {
	if err := s.checkRecipe(ctx, recipeID); err != nil {
		return err
	}

	cart, err := s.store.GetOrCreateCart(ctx, userID)
	if err != nil {
		return fmt.Errorf("get or create cart: %w", err)
	}

	if err := s.store.AddRecipeToCart(ctx, cart.ID, recipeID); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domainerrors.Conflict("recipe is already in the shopping cart")
		}
		return fmt.Errorf("add recipe to cart: %w", err)
	}

	return nil
}

// Remove takes a recipe out of the user's cart. A user with no cart, or a
// recipe not in it, is the same absent edge: a conflict.
func (s *CartService) Remove(ctx context.Context, userID, recipeID string) error {
	if err := s.checkRecipe(ctx, recipeID); err != nil {
		return err
	}

	cart, err := s.store.GetCartByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.Conflict("recipe is not in the shopping cart")
		}
		return fmt.Errorf("get cart: %w", err)
	}

	if err := s.store.RemoveRecipeFromCart(ctx, cart.ID, recipeID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.Conflict("recipe is not in the shopping cart")
		}
		return fmt.Errorf("remove recipe from cart: %w", err)
	}

	return nil
}

// Download aggregates the user's cart into a deduplicated, sorted checklist
// and renders it. A user with no cart (or an empty one) still gets a valid
// document with no rows.
func (s *CartService) Download(ctx context.Context, user *domain.User) (*ChecklistDocument, error) {
	var portions []domain.IngredientPortion

	cart, err := s.store.GetCartByUserID(ctx, user.ID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		// Never added anything: empty list.
	case err != nil:
		return nil, fmt.Errorf("get cart: %w", err)
	default:
		lines, err := s.store.CartResolvedLines(ctx, cart.ID)
		if err != nil {
			return nil, fmt.Errorf("resolve cart lines: %w", err)
		}
		portions = domain.PortionsFromLines(lines)
	}

	rows := domain.AggregateShoppingList(portions)

	title := user.FirstName + "'s shopping cart"
	data, err := s.renderer.Render(title, rows)
	if err != nil {
		return nil, fmt.Errorf("render checklist: %w", err)
	}

	s.logger.Debug("Rendered shopping checklist",
		"user_id", user.ID,
		"rows", len(rows),
	)

	return &ChecklistDocument{
		Data:        data,
		ContentType: s.renderer.ContentType(),
		Filename:    s.renderer.Filename(),
	}, nil
}

func (s *CartService) checkRecipe(ctx context.Context, recipeID string) error {
	if _, err := s.store.GetRecipe(ctx, recipeID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("recipe not found")
		}
		return fmt.Errorf("get recipe: %w", err)
	}
	return nil
}
