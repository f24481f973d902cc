package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platefulapp/plateful-server/internal/domain"
	domainerrors "github.com/platefulapp/plateful-server/internal/errors"
	"github.com/platefulapp/plateful-server/internal/media/images"
	"github.com/platefulapp/plateful-server/internal/store"
	"github.com/platefulapp/plateful-server/internal/validation"
)

func setupRecipeService(t *testing.T) (*RecipeService, store.Store) {
	t.Helper()
	s := newTestStore(t)

	storage, err := images.NewStorage(t.TempDir())
	require.NoError(t, err)
	processor := images.NewProcessor(storage, testLogger())

	svc := NewRecipeService(s, processor, testPolicy(), validation.New(), testLogger())
	return svc, s
}

// seedRecipeWorld creates an author, two tags, and three ingredients.
func seedRecipeWorld(t *testing.T, s store.Store) *domain.User {
	t.Helper()
	author := createTestUser(t, s, "user-author", "author")
	createTestTag(t, s, "tag-1", "breakfast", "#49B64E")
	createTestTag(t, s, "tag-2", "dinner", "#3344FF")
	createTestIngredient(t, s, "ing-flour", "flour", "g")
	createTestIngredient(t, s, "ing-egg", "egg", "")
	createTestIngredient(t, s, "ing-sugar", "sugar", "g")
	return author
}

func validInput() RecipeInput {
	return RecipeInput{
		Name:        "Pancakes",
		Text:        "Whisk, fry, flip.",
		CookingTime: 20,
		TagIDs:      []string{"tag-1"},
		Lines: []RecipeLineInput{
			{IngredientID: "ing-flour", Amount: 200},
			{IngredientID: "ing-egg", Amount: 2},
		},
	}
}

func TestRecipeService_Create(t *testing.T) {
	svc, s := setupRecipeService(t)
	ctx := context.Background()
	author := seedRecipeWorld(t, s)

	view, err := svc.Create(ctx, author, validInput())
	require.NoError(t, err)

	assert.Equal(t, "Pancakes", view.Name)
	assert.Equal(t, 20, view.CookingTime)
	assert.Equal(t, author.ID, view.Author.ID)
	assert.False(t, view.PubDate.IsZero())
	require.Len(t, view.Tags, 1)
	assert.Equal(t, "breakfast", view.Tags[0].Slug)
	require.Len(t, view.Ingredients, 2)
	assert.Equal(t, "egg", view.Ingredients[0].Name)
	assert.Equal(t, 2, view.Ingredients[0].Amount)
	assert.Equal(t, "flour", view.Ingredients[1].Name)
	assert.Equal(t, 200, view.Ingredients[1].Amount)
	assert.False(t, view.IsFavorited)
	assert.False(t, view.IsInShoppingCart)
}

func TestRecipeService_Create_Validation(t *testing.T) {
	svc, s := setupRecipeService(t)
	ctx := context.Background()
	author := seedRecipeWorld(t, s)

	tests := []struct {
		name     string
		mutate   func(*RecipeInput)
		wantCode domainerrors.Code
	}{
		{
			name:     "missing name",
			mutate:   func(in *RecipeInput) { in.Name = "" },
			wantCode: domainerrors.CodeValidation,
		},
		{
			name:     "missing text",
			mutate:   func(in *RecipeInput) { in.Text = "" },
			wantCode: domainerrors.CodeValidation,
		},
		{
			name:     "cooking time zero",
			mutate:   func(in *RecipeInput) { in.CookingTime = 0 },
			wantCode: domainerrors.CodeValidation,
		},
		{
			name:     "cooking time over policy max",
			mutate:   func(in *RecipeInput) { in.CookingTime = 1441 },
			wantCode: domainerrors.CodeValidation,
		},
		{
			name:     "no tags",
			mutate:   func(in *RecipeInput) { in.TagIDs = nil },
			wantCode: domainerrors.CodeValidation,
		},
		{
			name:     "no ingredient lines",
			mutate:   func(in *RecipeInput) { in.Lines = nil },
			wantCode: domainerrors.CodeValidation,
		},
		{
			name:     "amount zero",
			mutate:   func(in *RecipeInput) { in.Lines[0].Amount = 0 },
			wantCode: domainerrors.CodeValidation,
		},
		{
			name:     "amount over policy max",
			mutate:   func(in *RecipeInput) { in.Lines[0].Amount = 10001 },
			wantCode: domainerrors.CodeValidation,
		},
		{
			name:     "unknown tag",
			mutate:   func(in *RecipeInput) { in.TagIDs = []string{"tag-missing"} },
			wantCode: domainerrors.CodeNotFound,
		},
		{
			name:     "unknown ingredient",
			mutate:   func(in *RecipeInput) { in.Lines[0].IngredientID = "ing-missing" },
			wantCode: domainerrors.CodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(&input)

			_, err := svc.Create(ctx, author, input)
			require.Error(t, err)

			var derr *domainerrors.Error
			require.True(t, errors.As(err, &derr), "got %v", err)
			assert.Equal(t, tt.wantCode, derr.Code)
		})
	}
}

func TestRecipeService_Create_BoundaryCookingTime(t *testing.T) {
	svc, s := setupRecipeService(t)
	ctx := context.Background()
	author := seedRecipeWorld(t, s)

	input := validInput()
	input.CookingTime = 1

	view, err := svc.Create(ctx, author, input)
	require.NoError(t, err)
	assert.Equal(t, 1, view.CookingTime)
}

func TestRecipeService_Create_WithImage(t *testing.T) {
	svc, s := setupRecipeService(t)
	ctx := context.Background()
	author := seedRecipeWorld(t, s)

	input := validInput()
	input.Image = pngDataURI(t)

	view, err := svc.Create(ctx, author, input)
	require.NoError(t, err)
	assert.NotEmpty(t, view.Image)
	assert.NotEmpty(t, view.ImageBlurHash)

	data, hash, err := svc.Image(ctx, view.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Len(t, hash, 64)
}

func TestRecipeService_Create_BadImage(t *testing.T) {
	svc, s := setupRecipeService(t)
	ctx := context.Background()
	author := seedRecipeWorld(t, s)

	input := validInput()
	input.Image = "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("nope"))

	_, err := svc.Create(ctx, author, input)
	assert.True(t, errors.Is(err, domainerrors.ErrValidation), "got %v", err)
}

func TestRecipeService_Update(t *testing.T) {
	svc, s := setupRecipeService(t)
	ctx := context.Background()
	author := seedRecipeWorld(t, s)

	created, err := svc.Create(ctx, author, validInput())
	require.NoError(t, err)

	input := validInput()
	input.Name = "Crepes"
	input.TagIDs = []string{"tag-2"}
	input.Lines = []RecipeLineInput{{IngredientID: "ing-sugar", Amount: 50}}

	view, err := svc.Update(ctx, author, created.ID, input)
	require.NoError(t, err)
	assert.Equal(t, "Crepes", view.Name)
	require.Len(t, view.Tags, 1)
	assert.Equal(t, "dinner", view.Tags[0].Slug)
	require.Len(t, view.Ingredients, 1)
	assert.Equal(t, "sugar", view.Ingredients[0].Name)
	assert.Equal(t, created.PubDate.Unix(), view.PubDate.Unix(), "pub_date is immutable")
}

func TestRecipeService_Update_FailedValidationLeavesRecipeUntouched(t *testing.T) {
	svc, s := setupRecipeService(t)
	ctx := context.Background()
	author := seedRecipeWorld(t, s)

	created, err := svc.Create(ctx, author, validInput())
	require.NoError(t, err)

	// Full-payload semantics: a payload missing its tags fails before any
	// deletion happens.
	input := validInput()
	input.Name = "Should Not Land"
	input.TagIDs = nil

	_, err = svc.Update(ctx, author, created.ID, input)
	require.Error(t, err)

	after, err := svc.Get(ctx, "", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pancakes", after.Name)
	require.Len(t, after.Tags, 1)
	assert.Equal(t, "breakfast", after.Tags[0].Slug)
	assert.Len(t, after.Ingredients, 2)
}

// failingUpdateStore rejects every recipe row update.
type failingUpdateStore struct {
	store.Store
}

func (f *failingUpdateStore) UpdateRecipe(ctx context.Context, r *domain.Recipe, tagIDs []string, lines []domain.IngredientLine) error {
	return errors.New("disk full")
}

func TestRecipeService_Update_FailedWriteKeepsExistingPhoto(t *testing.T) {
	svc, s := setupRecipeService(t)
	ctx := context.Background()
	author := seedRecipeWorld(t, s)

	input := validInput()
	input.Image = pngDataURI(t)
	created, err := svc.Create(ctx, author, input)
	require.NoError(t, err)

	before, _, err := svc.Image(ctx, created.ID)
	require.NoError(t, err)

	broken := NewRecipeService(&failingUpdateStore{Store: s}, svc.processor, testPolicy(), validation.New(), testLogger())
	update := validInput()
	update.Image = jpegDataURI(t)
	_, err = broken.Update(ctx, author, created.ID, update)
	require.Error(t, err)

	after, _, err := svc.Image(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after, "stored photo changed even though the row update failed")

	storage := svc.processor.Storage()
	assert.False(t, storage.Exists(created.ID+".staging.jpg"), "discarded upload left on disk")
	assert.False(t, storage.Exists(created.ID+".jpg"))
}

func TestRecipeService_Update_FormatChangeRemovesOldPhoto(t *testing.T) {
	svc, s := setupRecipeService(t)
	ctx := context.Background()
	author := seedRecipeWorld(t, s)

	input := validInput()
	input.Image = pngDataURI(t)
	created, err := svc.Create(ctx, author, input)
	require.NoError(t, err)

	storage := svc.processor.Storage()
	require.True(t, storage.Exists(created.ID+".png"))

	update := validInput()
	update.Image = jpegDataURI(t)
	view, err := svc.Update(ctx, author, created.ID, update)
	require.NoError(t, err)
	assert.NotEmpty(t, view.Image)

	assert.True(t, storage.Exists(created.ID+".jpg"))
	assert.False(t, storage.Exists(created.ID+".png"), "superseded photo left on disk")
	assert.False(t, storage.Exists(created.ID+".staging.jpg"))
}

func TestRecipeService_Update_Authorization(t *testing.T) {
	svc, s := setupRecipeService(t)
	ctx := context.Background()
	author := seedRecipeWorld(t, s)
	stranger := createTestUser(t, s, "user-stranger", "stranger")
	admin := createTestAdmin(t, s, "user-admin", "admin")

	created, err := svc.Create(ctx, author, validInput())
	require.NoError(t, err)

	_, err = svc.Update(ctx, stranger, created.ID, validInput())
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden), "stranger: got %v", err)

	err = svc.Delete(ctx, stranger, created.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden), "stranger delete: got %v", err)

	input := validInput()
	input.Name = "Admin Edit"
	view, err := svc.Update(ctx, admin, created.ID, input)
	require.NoError(t, err)
	assert.Equal(t, "Admin Edit", view.Name)

	require.NoError(t, svc.Delete(ctx, admin, created.ID))
	_, err = svc.Get(ctx, "", created.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
}

func TestRecipeService_Favorite_Strict(t *testing.T) {
	svc, s := setupRecipeService(t)
	ctx := context.Background()
	author := seedRecipeWorld(t, s)
	fan := createTestUser(t, s, "user-fan", "fan")

	created, err := svc.Create(ctx, author, validInput())
	require.NoError(t, err)

	// Removing before adding is a conflict.
	err = svc.Unfavorite(ctx, fan.ID, created.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrConflict), "got %v", err)

	require.NoError(t, svc.Favorite(ctx, fan.ID, created.ID))

	err = svc.Favorite(ctx, fan.ID, created.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrConflict), "duplicate: got %v", err)

	view, err := svc.Get(ctx, fan.ID, created.ID)
	require.NoError(t, err)
	assert.True(t, view.IsFavorited)

	require.NoError(t, svc.Unfavorite(ctx, fan.ID, created.ID))

	err = svc.Favorite(ctx, fan.ID, "rcp-missing")
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound), "unknown recipe: got %v", err)
}

func TestRecipeService_List(t *testing.T) {
	svc, s := setupRecipeService(t)
	ctx := context.Background()
	author := seedRecipeWorld(t, s)
	other := createTestUser(t, s, "user-other", "other")

	first, err := svc.Create(ctx, author, validInput())
	require.NoError(t, err)

	input := validInput()
	input.Name = "Roast"
	input.TagIDs = []string{"tag-2"}
	_, err = svc.Create(ctx, author, input)
	require.NoError(t, err)

	require.NoError(t, svc.Favorite(ctx, other.ID, first.ID))

	t.Run("by author", func(t *testing.T) {
		result, err := svc.List(ctx, "", ListFilter{AuthorID: author.ID}, store.PaginationParams{Limit: 10})
		require.NoError(t, err)
		assert.Len(t, result.Items, 2)
	})

	t.Run("unknown author is not found", func(t *testing.T) {
		_, err := svc.List(ctx, "", ListFilter{AuthorID: "user-missing"}, store.PaginationParams{Limit: 10})
		assert.True(t, errors.Is(err, domainerrors.ErrNotFound), "got %v", err)
	})

	t.Run("by tag slug", func(t *testing.T) {
		result, err := svc.List(ctx, "", ListFilter{TagSlugs: []string{"dinner"}}, store.PaginationParams{Limit: 10})
		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, "Roast", result.Items[0].Name)
	})

	t.Run("favorited for viewer", func(t *testing.T) {
		result, err := svc.List(ctx, other.ID, ListFilter{FavoritedOnly: true}, store.PaginationParams{Limit: 10})
		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, first.ID, result.Items[0].ID)
		assert.True(t, result.Items[0].IsFavorited)
	})

	t.Run("membership flags ignored for anonymous", func(t *testing.T) {
		result, err := svc.List(ctx, "", ListFilter{FavoritedOnly: true}, store.PaginationParams{Limit: 10})
		require.NoError(t, err)
		assert.Len(t, result.Items, 2)
	})
}

// pngDataURI returns a tiny valid PNG as a base64 data URI.
func pngDataURI(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 32), G: uint8(y * 32), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

// jpegDataURI returns a tiny valid JPEG as a base64 data URI.
func jpegDataURI(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: uint8(x * 30), B: uint8(y * 30), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}
