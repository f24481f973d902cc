package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/platefulapp/plateful-server/internal/store"
)

// AddFavorite creates a (user, recipe) favorite edge.
// Returns store.ErrAlreadyExists if the edge already exists, or
// store.ErrNotFound if the user or recipe does not.
func (s *Store) AddFavorite(ctx context.Context, userID, recipeID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO favorites (user_id, recipe_id, created_at)
		VALUES (?, ?, ?)`,
		userID,
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

// RemoveFavorite deletes a favorite edge.
// Returns store.ErrNotFound if the edge does not exist.
func (s *Store) RemoveFavorite(ctx context.Context, userID, recipeID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = ? AND recipe_id = ?`, userID, recipeID)
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

// FavoriteRecipeIDSet reports which of the given recipes the user has
// favorited, as a set of recipe IDs. Used to decorate recipe listings
// without a query per row.
func (s *Store) FavoriteRecipeIDSet(ctx context.Context, userID string, recipeIDs []string) (map[string]bool, error) {
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

	rows, err := s.db.QueryContext(ctx,
		`SELECT recipe_id FROM favorites WHERE user_id = ? AND recipe_id IN (`+placeholders+`)`,
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
