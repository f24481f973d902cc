package sqlite

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/platefulapp/plateful-server/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// insertTestUser creates a user row with sensible defaults.
func insertTestUser(t *testing.T, s *Store, id, username string) *domain.User {
	t.Helper()
	now := time.Now().UTC()
	u := &domain.User{
		ID:           id,
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "argon2id$test",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("insert test user %s: %v", id, err)
	}
	return u
}

// insertTestRecipe creates a recipe with no tags or lines.
func insertTestRecipe(t *testing.T, s *Store, id, authorID, name string) *domain.Recipe {
	t.Helper()
	now := time.Now().UTC()
	r := &domain.Recipe{
		ID:          id,
		AuthorID:    authorID,
		Name:        name,
		Text:        "Mix and serve.",
		CookingTime: 30,
		PubDate:     now,
		UpdatedAt:   now,
	}
	if err := s.CreateRecipe(context.Background(), r, nil, nil); err != nil {
		t.Fatalf("insert test recipe %s: %v", id, err)
	}
	return r
}

func makeTestTag(id, name, slug, color string) *domain.Tag {
	return &domain.Tag{
		ID:        id,
		Name:      name,
		Slug:      slug,
		Color:     color,
		CreatedAt: time.Now().UTC(),
	}
}

func makeTestIngredient(id, name, unit string) *domain.Ingredient {
	return &domain.Ingredient{
		ID:        id,
		Name:      name,
		Unit:      unit,
		CreatedAt: time.Now().UTC(),
	}
}

func TestOpen(t *testing.T) {
	s := newTestStore(t)

	// Verify WAL mode is set.
	var journalMode string
	err := s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode)
	if err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("expected wal, got %s", journalMode)
	}

	// Verify foreign keys are enabled.
	var fk int
	err = s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk)
	if err != nil {
		t.Fatalf("query foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("expected foreign_keys=1, got %d", fk)
	}

	// Verify tables exist.
	tables := []string{
		"users", "sessions", "tags", "ingredients",
		"recipes", "recipe_tags", "recipe_ingredients",
		"favorites", "carts", "cart_recipes", "follows",
	}
	for _, table := range tables {
		var name string
		err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
}

func TestOpenClose(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	s, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	// Re-open should work (schema is idempotent).
	s2, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("re-open store: %v", err)
	}
	defer s2.Close()
}
