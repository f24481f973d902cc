package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/platefulapp/plateful-server/internal/domain"
	"github.com/platefulapp/plateful-server/internal/store"
)

// ingredientColumns is the ordered list of columns selected in ingredient
// queries. Must match the scan order in scanIngredient.
const ingredientColumns = `id, name, unit, created_at`

// scanIngredient scans a sql.Row (or sql.Rows via its Scan method) into a
// domain.Ingredient.
func scanIngredient(scanner interface{ Scan(dest ...any) error }) (*domain.Ingredient, error) {
	var ing domain.Ingredient

	var createdAt string

	err := scanner.Scan(
		&ing.ID,
		&ing.Name,
		&ing.Unit,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	ing.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &ing, nil
}

// CreateIngredient inserts a new catalog entry.
// Returns store.ErrAlreadyExists on a duplicate (name, unit) pair, compared
// case-insensitively on the name.
func (s *Store) CreateIngredient(ctx context.Context, ing *domain.Ingredient) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ingredients (id, name, name_lower, unit, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		ing.ID,
		ing.Name,
		strings.ToLower(ing.Name),
		ing.Unit,
		formatTime(ing.CreatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}

	if err := s.searchIndexer.IndexIngredient(ctx, ing); err != nil {
		s.logger.Warn("index ingredient", "id", ing.ID, "error", err)
	}

	return nil
}

// InsertIngredientIfAbsent inserts the entry unless an equal (name, unit)
// pair already exists. Returns whether a row was created. Used by bulk
// import, where re-running the same file must be a no-op.
func (s *Store) InsertIngredientIfAbsent(ctx context.Context, ing *domain.Ingredient) (bool, error) {
	err := s.CreateIngredient(ctx, ing)
	if err == store.ErrAlreadyExists {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetIngredient retrieves a catalog entry by ID.
// Returns store.ErrNotFound if it does not exist.
func (s *Store) GetIngredient(ctx context.Context, id string) (*domain.Ingredient, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+ingredientColumns+` FROM ingredients WHERE id = ?`, id)

	ing, err := scanIngredient(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return ing, nil
}

// GetIngredientsByIDs retrieves multiple catalog entries, preserving input
// order. A missing ID yields store.ErrNotFound so recipe writes can reject
// references to entries that do not exist.
func (s *Store) GetIngredientsByIDs(ctx context.Context, ids []string) ([]*domain.Ingredient, error) {
	if len(ids) == 0 {
		return []*domain.Ingredient{}, nil
	}

	placeholders := strings.Repeat("?,", len(ids)-1) + "?"
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+ingredientColumns+` FROM ingredients WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[string]*domain.Ingredient, len(ids))
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, err
		}
		byID[ing.ID] = ing
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]*domain.Ingredient, 0, len(ids))
	for _, id := range ids {
		ing, ok := byID[id]
		if !ok {
			return nil, store.ErrNotFound.WithMessage("ingredient " + id + " not found")
		}
		out = append(out, ing)
	}
	return out, nil
}

// ListIngredients returns the full catalog ordered by name.
// Used for search index rebuilds; interactive lookup goes through the index.
func (s *Store) ListIngredients(ctx context.Context) ([]*domain.Ingredient, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+ingredientColumns+` FROM ingredients ORDER BY name_lower ASC, unit ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ings []*domain.Ingredient
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, err
		}
		ings = append(ings, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if ings == nil {
		ings = []*domain.Ingredient{}
	}

	return ings, nil
}

// CountIngredients returns the size of the catalog.
func (s *Store) CountIngredients(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ingredients`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
