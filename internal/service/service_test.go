package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/platefulapp/plateful-server/internal/config"
	"github.com/platefulapp/plateful-server/internal/domain"
	"github.com/platefulapp/plateful-server/internal/store"
	"github.com/platefulapp/plateful-server/internal/store/sqlite"
)

// testLogger discards output; service logging is not under test.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testPolicy mirrors the config defaults.
func testPolicy() config.PolicyConfig {
	return config.PolicyConfig{
		ReservedUsernames: config.DefaultReservedUsernames,
		CookingTimeMax:    1440,
		AmountMax:         10000,
	}
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := sqlite.Open(dbPath, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func createTestUser(t *testing.T, s store.Store, id, username string) *domain.User {
	t.Helper()
	now := time.Now()
	user := &domain.User{
		ID:           id,
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "Julia",
		LastName:     "Childs",
		PasswordHash: "argon2id$test",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

func createTestAdmin(t *testing.T, s store.Store, id, username string) *domain.User {
	t.Helper()
	now := time.Now()
	user := &domain.User{
		ID:           id,
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "Ad",
		LastName:     "Min",
		PasswordHash: "argon2id$test",
		IsAdmin:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

func createTestTag(t *testing.T, s store.Store, id, slug, color string) *domain.Tag {
	t.Helper()
	tag := &domain.Tag{
		ID:        id,
		Name:      slug,
		Slug:      slug,
		Color:     color,
		CreatedAt: time.Now(),
	}
	require.NoError(t, s.CreateTag(context.Background(), tag))
	return tag
}

func createTestIngredient(t *testing.T, s store.Store, id, name, unit string) *domain.Ingredient {
	t.Helper()
	ing := &domain.Ingredient{
		ID:        id,
		Name:      name,
		Unit:      unit,
		CreatedAt: time.Now(),
	}
	require.NoError(t, s.CreateIngredient(context.Background(), ing))
	return ing
}

func createTestRecipe(t *testing.T, s store.Store, id, authorID string, tagIDs []string, lines []domain.IngredientLine) *domain.Recipe {
	t.Helper()
	now := time.Now()
	recipe := &domain.Recipe{
		ID:          id,
		AuthorID:    authorID,
		Name:        "Recipe " + id,
		Text:        "Mix and serve.",
		CookingTime: 30,
		PubDate:     now,
		UpdatedAt:   now,
	}
	require.NoError(t, s.CreateRecipe(context.Background(), recipe, tagIDs, lines))
	return recipe
}
