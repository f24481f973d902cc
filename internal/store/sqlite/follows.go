package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/platefulapp/plateful-server/internal/domain"
	"github.com/platefulapp/plateful-server/internal/store"
)

// CreateFollow creates a follower to author edge.
// Returns store.ErrAlreadyExists if the edge exists, store.ErrInvalidInput
// on a self-follow, or store.ErrNotFound if either user is missing.
func (s *Store) CreateFollow(ctx context.Context, followerID, authorID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO follows (follower_id, author_id, created_at)
		VALUES (?, ?, ?)`,
		followerID,
		authorID,
		formatTime(time.Now().UTC()),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		if strings.Contains(err.Error(), "CHECK constraint failed") {
			return store.ErrInvalidInput.WithMessage("cannot follow yourself")
		}
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return store.ErrNotFound
		}
		return err
	}
	return nil
}

// DeleteFollow removes a follow edge.
// Returns store.ErrNotFound if the edge does not exist.
func (s *Store) DeleteFollow(ctx context.Context, followerID, authorID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id = ? AND author_id = ?`, followerID, authorID)
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

// IsFollowing reports whether follower follows author.
func (s *Store) IsFollowing(ctx context.Context, followerID, authorID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM follows WHERE follower_id = ? AND author_id = ?`,
		followerID, authorID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListFollowedAuthors returns the authors a user follows, most recently
// followed first, with offset pagination.
func (s *Store) ListFollowedAuthors(ctx context.Context, followerID string, params store.PaginationParams) (*store.PaginatedResult[*domain.User], error) {
	params.Validate()

	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM follows WHERE follower_id = ?`, followerID).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count follows: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+prefixColumns("u", userColumns)+`
		FROM follows f
		JOIN users u ON u.id = f.author_id
		WHERE f.follower_id = ?
		ORDER BY f.created_at DESC, u.id ASC
		LIMIT ? OFFSET ?`,
		followerID, params.Limit, params.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	authors := []*domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		authors = append(authors, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &store.PaginatedResult[*domain.User]{
		Items:   authors,
		Total:   total,
		HasMore: params.Offset+len(authors) < total,
	}, nil
}

// FollowedAuthorIDSet reports which of the given authors the user follows,
// as a set of author IDs.
func (s *Store) FollowedAuthorIDSet(ctx context.Context, followerID string, authorIDs []string) (map[string]bool, error) {
	set := make(map[string]bool, len(authorIDs))
	if followerID == "" || len(authorIDs) == 0 {
		return set, nil
	}

	placeholders := strings.Repeat("?,", len(authorIDs)-1) + "?"
	args := make([]any, 0, len(authorIDs)+1)
	args = append(args, followerID)
	for _, id := range authorIDs {
		args = append(args, id)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT author_id FROM follows WHERE follower_id = ? AND author_id IN (`+placeholders+`)`,
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
