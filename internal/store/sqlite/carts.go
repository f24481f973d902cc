package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/platefulapp/plateful-server/internal/domain"
	"github.com/platefulapp/plateful-server/internal/id"
	"github.com/platefulapp/plateful-server/internal/store"
)

// cartColumns is the ordered list of columns selected in cart queries.
// Must match the scan order in scanCart.
const cartColumns = `id, user_id, created_at`

// scanCart scans a sql.Row (or sql.Rows via its Scan method) into a domain.Cart.
func scanCart(scanner interface{ Scan(dest ...any) error }) (*domain.Cart, error) {
	var c domain.Cart

	var createdAt string

	err := scanner.Scan(
		&c.ID,
		&c.UserID,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	c.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// GetCartByUserID retrieves a user's cart.
// Returns store.ErrNotFound if the user has never added a recipe.
func (s *Store) GetCartByUserID(ctx context.Context, userID string) (*domain.Cart, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+cartColumns+` FROM carts WHERE user_id = ?`, userID)

	c, err := scanCart(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetOrCreateCart finds the user's cart or lazily creates one.
func (s *Store) GetOrCreateCart(ctx context.Context, userID string) (*domain.Cart, error) {
	existing, err := s.GetCartByUserID(ctx, userID)
	if err == nil {
		return existing, nil
	}
	if err != store.ErrNotFound {
		return nil, err
	}

	cartID, err := id.Generate("crt")
	if err != nil {
		return nil, fmt.Errorf("generate cart id: %w", err)
	}

	c := &domain.Cart{
		ID:        cartID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO carts (id, user_id, created_at)
		VALUES (?, ?, ?)`,
		c.ID,
		c.UserID,
		formatTime(c.CreatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			// Race: another request created it between lookup and insert.
			return s.GetCartByUserID(ctx, userID)
		}
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return nil, store.ErrNotFound.WithMessage("user not found")
		}
		return nil, err
	}

	return c, nil
}

// AddRecipeToCart creates a (cart, recipe) edge.
// Returns store.ErrAlreadyExists if the recipe is already in the cart, or
// store.ErrNotFound if the recipe does not exist.
func (s *Store) AddRecipeToCart(ctx context.Context, cartID, recipeID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cart_recipes (cart_id, recipe_id, created_at)
		VALUES (?, ?, ?)`,
		cartID,
		recipeID,
		formatTime(time.Now().UTC()),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return store.ErrNotFound
		}
		return err
	}
	return nil
}

// RemoveRecipeFromCart deletes a (cart, recipe) edge.
// Returns store.ErrNotFound if the recipe is not in the cart.
func (s *Store) RemoveRecipeFromCart(ctx context.Context, cartID, recipeID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM cart_recipes WHERE cart_id = ? AND recipe_id = ?`, cartID, recipeID)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// CartRecipeIDSet reports which of the given recipes sit in the user's
// cart, as a set of recipe IDs. A user with no cart gets an empty set.
func (s *Store) CartRecipeIDSet(ctx context.Context, userID string, recipeIDs []string) (map[string]bool, error) {
	set := make(map[string]bool, len(recipeIDs))
	if userID == "" || len(recipeIDs) == 0 {
		return set, nil
	}

	placeholders := strings.Repeat("?,", len(recipeIDs)-1) + "?"
	args := make([]any, 0, len(recipeIDs)+1)
	args = append(args, userID)
	for _, id := range recipeIDs {
		args = append(args, id)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT cr.recipe_id
		FROM cart_recipes cr
		JOIN carts c ON c.id = cr.cart_id
		WHERE c.user_id = ? AND cr.recipe_id IN (`+placeholders+`)`,
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		set[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return set, nil
}

// CartResolvedLines returns every ingredient line across all recipes in the
// cart, joined with the catalog, in one query. This is the raw input to
// shopping-list aggregation.
func (s *Store) CartResolvedLines(ctx context.Context, cartID string) ([]domain.ResolvedLine, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT i.id, i.name, i.unit, i.created_at, ri.amount
		FROM cart_recipes cr
		JOIN recipe_ingredients ri ON ri.recipe_id = cr.recipe_id
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE cr.cart_id = ?`, cartID)
	if err != nil {
		return nil, fmt.Errorf("query cart lines: %w", err)
	}
	defer rows.Close()

	lines := []domain.ResolvedLine{}
	for rows.Next() {
		var line domain.ResolvedLine
		var createdAt string
		err := rows.Scan(
			&line.Ingredient.ID,
			&line.Ingredient.Name,
			&line.Ingredient.Unit,
			&createdAt,
			&line.Amount,
		)
		if err != nil {
			return nil, err
		}
		line.Ingredient.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}
