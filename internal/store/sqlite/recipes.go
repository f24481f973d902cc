package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/platefulapp/plateful-server/internal/domain"
	"github.com/platefulapp/plateful-server/internal/store"
)

// recipeColumns is the ordered list of columns selected in recipe queries.
// Must match the scan order in scanRecipe.
const recipeColumns = `id, author_id, name, text, image_path, image_blur_hash,
	cooking_time, pub_date, updated_at`

// scanRecipe scans a sql.Row (or sql.Rows via its Scan method) into a domain.Recipe.
func scanRecipe(scanner interface{ Scan(dest ...any) error }) (*domain.Recipe, error) {
	var r domain.Recipe

	var (
		imagePath     sql.NullString
		imageBlurHash sql.NullString
		pubDate       string
		updatedAt     string
	)

	err := scanner.Scan(
		&r.ID,
		&r.AuthorID,
		&r.Name,
		&r.Text,
		&imagePath,
		&imageBlurHash,
		&r.CookingTime,
		&pubDate,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if imagePath.Valid {
		r.ImagePath = imagePath.String
	}
	if imageBlurHash.Valid {
		r.ImageBlurHash = imageBlurHash.String
	}

	r.PubDate, err = parseTime(pubDate)
	if err != nil {
		return nil, err
	}
	r.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &r, nil
}

// insertRecipeComponents writes the tag and ingredient join rows for a
// recipe inside an open transaction.
func insertRecipeComponents(ctx context.Context, tx *sql.Tx, recipeID string, tagIDs []string, lines []domain.IngredientLine) error {
	now := formatTime(time.Now().UTC())

	for _, tagID := range tagIDs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO recipe_tags (recipe_id, tag_id, created_at)
			VALUES (?, ?, ?)`,
			recipeID,
			tagID,
			now,
		)
		if err != nil {
			if strings.Contains(err.Error(), "UNIQUE constraint failed") {
				return store.ErrInvalidInput.WithMessage("duplicate tag " + tagID)
			}
			if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
				return store.ErrNotFound.WithMessage("tag " + tagID + " not found")
			}
			return fmt.Errorf("insert recipe_tag: %w", err)
		}
	}

	for _, line := range lines {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO recipe_ingredients (recipe_id, ingredient_id, amount)
			VALUES (?, ?, ?)`,
			recipeID,
			line.IngredientID,
			line.Amount,
		)
		if err != nil {
			if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
				return store.ErrNotFound.WithMessage("ingredient " + line.IngredientID + " not found")
			}
			return fmt.Errorf("insert recipe_ingredient: %w", err)
		}
	}

	return nil
}

// CreateRecipe inserts a recipe with its tags and ingredient lines in a
// single transaction. Either everything lands or nothing does.
func (s *Store) CreateRecipe(ctx context.Context, r *domain.Recipe, tagIDs []string, lines []domain.IngredientLine) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO recipes (
			id, author_id, name, text, image_path, image_blur_hash,
			cooking_time, pub_date, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID,
		r.AuthorID,
		r.Name,
		r.Text,
		nullString(r.ImagePath),
		nullString(r.ImageBlurHash),
		r.CookingTime,
		formatTime(r.PubDate),
		formatTime(r.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("insert recipe: %w", err)
	}

	if err := insertRecipeComponents(ctx, tx, r.ID, tagIDs, lines); err != nil {
		return err
	}

	return tx.Commit()
}

// UpdateRecipe updates a recipe's mutable fields and replaces its tag and
// ingredient join rows, all in one transaction. The join rows are deleted
// and re-inserted; a failure at any step rolls the whole edit back, leaving
// the previous state untouched. PubDate is never written.
func (s *Store) UpdateRecipe(ctx context.Context, r *domain.Recipe, tagIDs []string, lines []domain.IngredientLine) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE recipes SET
			name = ?, text = ?, image_path = ?, image_blur_hash = ?,
			cooking_time = ?, updated_at = ?
		WHERE id = ?`,
		r.Name,
		r.Text,
		nullString(r.ImagePath),
		nullString(r.ImageBlurHash),
		r.CookingTime,
		formatTime(r.UpdatedAt),
		r.ID,
	)
	if err != nil {
		return fmt.Errorf("update recipe: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_tags WHERE recipe_id = ?`, r.ID); err != nil {
		return fmt.Errorf("delete recipe_tags: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = ?`, r.ID); err != nil {
		return fmt.Errorf("delete recipe_ingredients: %w", err)
	}

	if err := insertRecipeComponents(ctx, tx, r.ID, tagIDs, lines); err != nil {
		return err
	}

	return tx.Commit()
}

// GetRecipe retrieves a recipe by ID.
// Returns store.ErrNotFound if the recipe does not exist.
func (s *Store) GetRecipe(ctx context.Context, id string) (*domain.Recipe, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE id = ?`, id)

	r, err := scanRecipe(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// GetRecipeTags returns the tags attached to a recipe, ordered by slug.
func (s *Store) GetRecipeTags(ctx context.Context, recipeID string) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+prefixColumns("t", tagColumns)+`
		FROM recipe_tags rt
		JOIN tags t ON t.id = rt.tag_id
		WHERE rt.recipe_id = ?
		ORDER BY t.slug ASC`, recipeID)
	if err != nil {
		return nil, fmt.Errorf("query recipe tags: %w", err)
	}
	defer rows.Close()

	tags := []*domain.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tags, nil
}

// GetRecipeLines returns a recipe's ingredient lines joined with their
// catalog entries, ordered by ingredient name. Payload order does not
// survive a round trip.
func (s *Store) GetRecipeLines(ctx context.Context, recipeID string) ([]domain.ResolvedLine, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT i.id, i.name, i.unit, i.created_at, ri.amount
		FROM recipe_ingredients ri
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE ri.recipe_id = ?
		ORDER BY i.name ASC, i.id ASC`, recipeID)
	if err != nil {
		return nil, fmt.Errorf("query recipe lines: %w", err)
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

// DeleteRecipe removes a recipe. Join rows, favorites and cart entries
// cascade. Returns store.ErrNotFound if the recipe does not exist.
func (s *Store) DeleteRecipe(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id)
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

// buildRecipeFilter translates a store.RecipeFilter into a WHERE clause and
// its arguments. The returned clause is empty when no filters are set.
func buildRecipeFilter(filter store.RecipeFilter) (string, []any) {
	var conds []string
	var args []any

	if filter.AuthorID != "" {
		conds = append(conds, `r.author_id = ?`)
		args = append(args, filter.AuthorID)
	}

	if len(filter.TagSlugs) > 0 {
		placeholders := strings.Repeat("?,", len(filter.TagSlugs)-1) + "?"
		conds = append(conds, `EXISTS (
			SELECT 1 FROM recipe_tags rt
			JOIN tags t ON t.id = rt.tag_id
			WHERE rt.recipe_id = r.id AND t.slug IN (`+placeholders+`))`)
		for _, slug := range filter.TagSlugs {
			args = append(args, slug)
		}
	}

	if filter.FavoritedBy != "" {
		conds = append(conds, `EXISTS (
			SELECT 1 FROM favorites f
			WHERE f.recipe_id = r.id AND f.user_id = ?)`)
		args = append(args, filter.FavoritedBy)
	}

	if filter.InCartOf != "" {
		conds = append(conds, `EXISTS (
			SELECT 1 FROM cart_recipes cr
			JOIN carts c ON c.id = cr.cart_id
			WHERE cr.recipe_id = r.id AND c.user_id = ?)`)
		args = append(args, filter.InCartOf)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// ListRecipes returns recipes matching the filter, newest first, with
// offset pagination.
func (s *Store) ListRecipes(ctx context.Context, filter store.RecipeFilter, params store.PaginationParams) (*store.PaginatedResult[*domain.Recipe], error) {
	params.Validate()

	where, args := buildRecipeFilter(filter)

	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM recipes r`+where, args...).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count recipes: %w", err)
	}

	query := `SELECT ` + prefixColumns("r", recipeColumns) + ` FROM recipes r` + where +
		` ORDER BY r.pub_date DESC, r.id DESC LIMIT ? OFFSET ?`
	listArgs := append(append([]any{}, args...), params.Limit, params.Offset)

	rows, err := s.db.QueryContext(ctx, query, listArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipes := []*domain.Recipe{}
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &store.PaginatedResult[*domain.Recipe]{
		Items:   recipes,
		Total:   total,
		HasMore: params.Offset+len(recipes) < total,
	}, nil
}

// CountRecipesByAuthor returns the number of recipes published by an author.
func (s *Store) CountRecipesByAuthor(ctx context.Context, authorID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM recipes WHERE author_id = ?`, authorID).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// prefixColumns qualifies each column in a comma-separated list with a
// table alias, for use in joined queries.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
