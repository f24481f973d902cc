package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/platefulapp/plateful-server/internal/auth"
	"github.com/platefulapp/plateful-server/internal/checklist"
	"github.com/platefulapp/plateful-server/internal/config"
	"github.com/platefulapp/plateful-server/internal/domain"
	"github.com/platefulapp/plateful-server/internal/media/images"
	"github.com/platefulapp/plateful-server/internal/ratelimit"
	"github.com/platefulapp/plateful-server/internal/search"
	"github.com/platefulapp/plateful-server/internal/service"
	"github.com/platefulapp/plateful-server/internal/store"
	"github.com/platefulapp/plateful-server/internal/store/sqlite"
	"github.com/platefulapp/plateful-server/internal/validation"
)

// testEnvelope mirrors the wire envelope for assertions.
type testEnvelope[T any] struct {
	V       int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// testServer wraps the API server with a humatest client and direct store
// access for seeding.
type testServer struct {
	*Server
	api   humatest.TestAPI
	store store.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := sqlite.Open(filepath.Join(dir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	index, err := search.NewIngredientIndex(search.Options{
		DataPath: filepath.Join(dir, "search"),
		Logger:   logger,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })
	st.SetSearchIndexer(index)

	storage, err := images.NewStorage(filepath.Join(dir, "media"))
	require.NoError(t, err)
	processor := images.NewProcessor(storage, logger)

	tokenService, err := auth.NewTokenService(strings.Repeat("ab", 32), 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)

	limiter := ratelimit.New(100, 100)
	t.Cleanup(limiter.Stop)

	policy := config.PolicyConfig{
		ReservedUsernames: config.DefaultReservedUsernames,
		CookingTimeMax:    1440,
		AmountMax:         10000,
	}
	validator := validation.New()

	sessionService := service.NewSessionService(st, tokenService, logger)
	services := &Services{
		Auth:       service.NewAuthService(st, tokenService, sessionService, limiter, policy, validator, logger),
		User:       service.NewUserService(st, logger),
		Social:     service.NewSocialService(st, logger),
		Tag:        service.NewTagService(st, logger),
		Ingredient: service.NewIngredientService(st, index, logger),
		Recipe:     service.NewRecipeService(st, processor, policy, validator, logger),
		Cart:       service.NewCartService(st, checklist.NewTextRenderer(), logger),
	}

	srv := NewServer(st, services, logger)

	return &testServer{
		Server: srv,
		api:    humatest.Wrap(t, srv.api),
		store:  st,
	}
}

// registerAndLogin creates an account through the API and returns a bearer
// token plus the user ID.
func (ts *testServer) registerAndLogin(t *testing.T, email, username string) (token, userID string) {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":      email,
		"username":   username,
		"first_name": "Julia",
		"last_name":  "Childs",
		"password":   "beurre blanc 123",
	})
	require.Equal(t, http.StatusOK, resp.Code, "register failed: %s", resp.Body.String())

	var registered testEnvelope[UserResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &registered))

	resp = ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    email,
		"password": "beurre blanc 123",
	})
	require.Equal(t, http.StatusOK, resp.Code, "login failed: %s", resp.Body.String())

	var logged testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &logged))

	return logged.Data.AccessToken, registered.Data.ID
}

// seedCatalog creates the tags and ingredients recipe payloads refer to.
func (ts *testServer) seedCatalog(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	_, err := ts.services.Tag.Create(ctx, "breakfast", "breakfast", "#49B64E")
	require.NoError(t, err)
	_, err = ts.services.Tag.Create(ctx, "dinner", "dinner", "#3344FF")
	require.NoError(t, err)

	for _, ing := range []struct{ id, name, unit string }{
		{"ing-flour", "flour", "g"},
		{"ing-egg", "egg", ""},
		{"ing-sugar", "sugar", "g"},
	} {
		require.NoError(t, ts.store.CreateIngredient(ctx, &domain.Ingredient{
			ID:        ing.id,
			Name:      ing.name,
			Unit:      ing.unit,
			CreatedAt: time.Now(),
		}))
	}
}

// recipePayload returns a valid create/replace body referencing the seeded
// catalog. Callers mutate it per case.
func (ts *testServer) recipePayload(t *testing.T) map[string]any {
	t.Helper()

	tags := ts.tagIDs(t)
	return map[string]any{
		"name":         "Pancakes",
		"text":         "Mix and fry.",
		"cooking_time": 20,
		"tags":         []string{tags["breakfast"]},
		"ingredients": []map[string]any{
			{"ingredient_id": "ing-flour", "amount": 200},
			{"ingredient_id": "ing-egg", "amount": 2},
		},
	}
}

// tagIDs maps seeded tag slugs to their generated IDs.
func (ts *testServer) tagIDs(t *testing.T) map[string]string {
	t.Helper()

	tags, err := ts.services.Tag.List(context.Background())
	require.NoError(t, err)

	ids := make(map[string]string, len(tags))
	for _, tag := range tags {
		ids[tag.Slug] = tag.ID
	}
	return ids
}

// bearer formats a humatest Authorization header argument.
func bearer(token string) string {
	return "Authorization: Bearer " + token
}
