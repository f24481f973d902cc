package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platefulapp/plateful-server/internal/service"
)

func (ts *testServer) createRecipe(t *testing.T, token string, payload map[string]any) string {
	t.Helper()

	resp := ts.api.Post("/api/v1/recipes", bearer(token), payload)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var created testEnvelope[service.RecipeView]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	return created.Data.ID
}

func TestShoppingCart_Strict(t *testing.T) {
	ts := newTestServer(t)
	ts.seedCatalog(t)
	token, _ := ts.registerAndLogin(t, "julia@example.com", "chef.julia")
	recipeID := ts.createRecipe(t, token, ts.recipePayload(t))

	// Removing from a cart that does not exist yet conflicts.
	resp := ts.api.Delete("/api/v1/recipes/"+recipeID+"/shopping_cart", bearer(token))
	assert.Equal(t, http.StatusConflict, resp.Code)

	resp = ts.api.Post("/api/v1/recipes/"+recipeID+"/shopping_cart", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	// Duplicate add conflicts.
	resp = ts.api.Post("/api/v1/recipes/"+recipeID+"/shopping_cart", bearer(token))
	assert.Equal(t, http.StatusConflict, resp.Code)

	t.Run("flag reflects membership", func(t *testing.T) {
		resp := ts.api.Get("/api/v1/recipes/"+recipeID, bearer(token))
		require.Equal(t, http.StatusOK, resp.Code)

		var view testEnvelope[service.RecipeView]
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &view))
		assert.True(t, view.Data.IsInShoppingCart)
	})

	resp = ts.api.Delete("/api/v1/recipes/"+recipeID+"/shopping_cart", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)

	// Removing again conflicts.
	resp = ts.api.Delete("/api/v1/recipes/"+recipeID+"/shopping_cart", bearer(token))
	assert.Equal(t, http.StatusConflict, resp.Code)

	t.Run("unknown recipe is 404", func(t *testing.T) {
		resp := ts.api.Post("/api/v1/recipes/rcp-missing/shopping_cart", bearer(token))
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

func TestShoppingCart_Download(t *testing.T) {
	ts := newTestServer(t)
	ts.seedCatalog(t)
	token, _ := ts.registerAndLogin(t, "julia@example.com", "chef.julia")
	tags := ts.tagIDs(t)

	pancakes := ts.recipePayload(t)
	cake := map[string]any{
		"name":         "Sugar cake",
		"text":         "Bake it.",
		"cooking_time": 45,
		"tags":         []string{tags["dinner"]},
		"ingredients": []map[string]any{
			{"ingredient_id": "ing-flour", "amount": 100},
			{"ingredient_id": "ing-sugar", "amount": 50},
		},
	}

	for _, payload := range []map[string]any{pancakes, cake} {
		id := ts.createRecipe(t, token, payload)
		resp := ts.api.Post("/api/v1/recipes/"+id+"/shopping_cart", bearer(token))
		require.Equal(t, http.StatusOK, resp.Code)
	}

	resp := ts.api.Get("/api/v1/recipes/shopping_cart/download", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", resp.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="shopping_cart.txt"`, resp.Header().Get("Content-Disposition"))

	text := resp.Body.String()
	assert.Contains(t, text, "Julia's shopping cart")
	assert.Contains(t, text, "flour (g)")
	assert.Contains(t, text, "300", "flour amounts summed across recipes")

	// Sorted by label: egg before flour before sugar.
	eggIdx := strings.Index(text, "egg")
	flourIdx := strings.Index(text, "flour")
	sugarIdx := strings.Index(text, "sugar")
	assert.Less(t, eggIdx, flourIdx)
	assert.Less(t, flourIdx, sugarIdx)
}

func TestShoppingCart_DownloadEmpty(t *testing.T) {
	ts := newTestServer(t)
	token, _ := ts.registerAndLogin(t, "julia@example.com", "chef.julia")

	resp := ts.api.Get("/api/v1/recipes/shopping_cart/download", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Julia's shopping cart")
}

func TestShoppingCart_RequiresAuth(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.api.Get("/api/v1/recipes/shopping_cart/download")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
