package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/platefulapp/plateful-server/internal/domain"
	domainerrors "github.com/platefulapp/plateful-server/internal/errors"
	"github.com/platefulapp/plateful-server/internal/search"
	"github.com/platefulapp/plateful-server/internal/store"
)

// IngredientService provides catalog lookup backed by the search index.
type IngredientService struct {
	store  store.Store
	index  *search.IngredientIndex
	logger *slog.Logger
}

// NewIngredientService creates a new ingredient service.
func NewIngredientService(store store.Store, index *search.IngredientIndex, logger *slog.Logger) *IngredientService {
	return &IngredientService{
		store:  store,
		index:  index,
		logger: logger,
	}
}

// Search returns catalog entries whose name starts with the given prefix,
// case-insensitively. An empty prefix lists the whole catalog ordered by
// name. limit <= 0 means no limit.
func (s *IngredientService) Search(ctx context.Context, prefix string, limit int) ([]*domain.Ingredient, error) {
	if prefix == "" {
		ings, err := s.store.ListIngredients(ctx)
		if err != nil {
			return nil, fmt.Errorf("list ingredients: %w", err)
		}
		if limit > 0 && len(ings) > limit {
			ings = ings[:limit]
		}
		return ings, nil
	}

	if limit <= 0 {
		// The index needs a concrete result size; use the catalog size so
		// "no limit" really returns everything.
		count, err := s.store.CountIngredients(ctx)
		if err != nil {
			return nil, fmt.Errorf("count ingredients: %w", err)
		}
		if count == 0 {
			return []*domain.Ingredient{}, nil
		}
		limit = count
	}

	hits, err := s.index.SearchPrefix(ctx, prefix, limit)
	if err != nil {
		return nil, fmt.Errorf("search ingredients: %w", err)
	}

	ings := make([]*domain.Ingredient, len(hits))
	for i, hit := range hits {
		ings[i] = &domain.Ingredient{
			ID:   hit.ID,
			Name: hit.Name,
			Unit: hit.Unit,
		}
	}

	return ings, nil
}

// IndexDocumentCount reports how many ingredients the search index holds.
// Used by the health check to spot a stale or unreachable index.
func (s *IngredientService) IndexDocumentCount() (uint64, error) {
	return s.index.DocumentCount()
}

// ReindexAll drops the search index and rebuilds it from the catalog.
// Runs on startup when the index is empty but the store is not.
func (s *IngredientService) ReindexAll(ctx context.Context) error {
	ings, err := s.store.ListIngredients(ctx)
	if err != nil {
		return fmt.Errorf("list ingredients: %w", err)
	}

	if err := s.index.Rebuild(); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}

	if err := s.index.IndexIngredients(ings); err != nil {
		return fmt.Errorf("index ingredients: %w", err)
	}

	s.logger.Info("Ingredient reindex completed", "count", len(ings))
	return nil
}

// Get returns one catalog entry by ID.
func (s *IngredientService) Get(ctx context.Context, ingredientID string) (*domain.Ingredient, error) {
	ing, err := s.store.GetIngredient(ctx, ingredientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("ingredient not found")
		}
		return nil, fmt.Errorf("get ingredient: %w", err)
	}
	return ing, nil
}
