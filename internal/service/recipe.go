package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/platefulapp/plateful-server/internal/config"
	"github.com/platefulapp/plateful-server/internal/domain"
	domainerrors "github.com/platefulapp/plateful-server/internal/errors"
	"github.com/platefulapp/plateful-server/internal/id"
	"github.com/platefulapp/plateful-server/internal/media/images"
	"github.com/platefulapp/plateful-server/internal/store"
	"github.com/platefulapp/plateful-server/internal/validation"
)

// RecipeService orchestrates the recipe edit transaction and viewer-aware
// reads.
type RecipeService struct {
	store     store.Store
	processor *images.Processor
	policy    config.PolicyConfig
	validator *validation.Validator
	logger    *slog.Logger
}

// NewRecipeService creates a new recipe service.
func NewRecipeService(
	store store.Store,
	processor *images.Processor,
	policy config.PolicyConfig,
	validator *validation.Validator,
	logger *slog.Logger,
) *RecipeService {
	return &RecipeService{
		store:     store,
		processor: processor,
		policy:    policy,
		validator: validator,
		logger:    logger,
	}
}

// RecipeLineInput is one ingredient line in a create/replace payload.
type RecipeLineInput struct {
	IngredientID string `json:"ingredient_id" validate:"required"`
	Amount       int    `json:"amount"`
}

// RecipeInput is the full create/replace payload. Replace has full-payload
// semantics: every required field must be present on every write.
type RecipeInput struct {
	Name        string            `json:"name" validate:"required,max=250"`
	Text        string            `json:"text" validate:"required"`
	CookingTime int               `json:"cooking_time"`
	TagIDs      []string          `json:"tags"`
	Lines       []RecipeLineInput `json:"ingredients"`
	Image       string            `json:"image,omitempty"` // base64 data URI, optional
}

// LineView is a resolved ingredient line as returned to clients.
type LineView struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Unit   string `json:"measurement_unit"`
	Amount int    `json:"amount"`
}

// RecipeView is the consolidated recipe representation.
type RecipeView struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	Text             string        `json:"text"`
	Image            string        `json:"image,omitempty"`
	ImageBlurHash    string        `json:"image_blur_hash,omitempty"`
	CookingTime      int           `json:"cooking_time"`
	PubDate          time.Time     `json:"pub_date"`
	Author           UserView      `json:"author"`
	Tags             []*domain.Tag `json:"tags"`
	Ingredients      []LineView    `json:"ingredients"`
	IsFavorited      bool          `json:"is_favorited"`
	IsInShoppingCart bool          `json:"is_in_shopping_cart"`
}

// RecipeSummary is the short recipe form used in subscription previews.
type RecipeSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image,omitempty"`
	CookingTime int       `json:"cooking_time"`
	PubDate     time.Time `json:"pub_date"`
}

func newRecipeSummary(r *domain.Recipe) RecipeSummary {
	return RecipeSummary{
		ID:          r.ID,
		Name:        r.Name,
		Image:       imageURL(r),
		CookingTime: r.CookingTime,
		PubDate:     r.PubDate,
	}
}

// imageURL returns the serving path for a recipe's photo, or "" if it has
// none.
func imageURL(r *domain.Recipe) string {
	if r.ImagePath == "" {
		return ""
	}
	return "/api/v1/recipes/" + r.ID + "/image"
}

// validateInput checks the payload before any write happens: scalar bounds,
// non-empty tag and line sets, and existence of every referenced tag and
// ingredient.
func (s *RecipeService) validateInput(ctx context.Context, input RecipeInput) ([]*domain.Tag, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	if input.CookingTime < domain.CookingTimeMin || input.CookingTime > s.policy.CookingTimeMax {
		return nil, domainerrors.Validationf("cooking_time must be between %d and %d minutes",
			domain.CookingTimeMin, s.policy.CookingTimeMax)
	}
	if len(input.TagIDs) == 0 {
		return nil, domainerrors.Validation("at least one tag is required")
	}
	if len(input.Lines) == 0 {
		return nil, domainerrors.Validation("at least one ingredient is required")
	}
	for _, line := range input.Lines {
		if line.Amount < domain.AmountMin || line.Amount > s.policy.AmountMax {
			return nil, domainerrors.Validationf("ingredient amount must be between %d and %d",
				domain.AmountMin, s.policy.AmountMax)
		}
	}

	tags, err := s.store.GetTagsByIDs(ctx, input.TagIDs)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound(storeErrorMessage(err, "tag not found"))
		}
		return nil, fmt.Errorf("resolve tags: %w", err)
	}

	lineIDs := make([]string, len(input.Lines))
	for i, line := range input.Lines {
		lineIDs[i] = line.IngredientID
	}
	if _, err := s.store.GetIngredientsByIDs(ctx, lineIDs); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound(storeErrorMessage(err, "ingredient not found"))
		}
		return nil, fmt.Errorf("resolve ingredients: %w", err)
	}

	return tags, nil
}

// Create inserts a recipe with its lines and tag links in one transaction.
func (s *RecipeService) Create(ctx context.Context, author *domain.User, input RecipeInput) (*RecipeView, error) {
	if _, err := s.validateInput(ctx, input); err != nil {
		return nil, err
	}

	recipeID, err := id.Generate("rcp")
	if err != nil {
		return nil, fmt.Errorf("generate recipe ID: %w", err)
	}

	var imagePath, blurHash string
	if input.Image != "" {
		imagePath, blurHash, err = s.processor.ProcessDataURI(recipeID, input.Image)
		if err != nil {
			return nil, domainerrors.Validation("image must be a valid base64 image data URI").WithCause(err)
		}
	}

	now := time.Now()
	recipe := &domain.Recipe{
		ID:            recipeID,
		AuthorID:      author.ID,
		Name:          input.Name,
		Text:          input.Text,
		ImagePath:     imagePath,
		ImageBlurHash: blurHash,
		CookingTime:   input.CookingTime,
		PubDate:       now,
		UpdatedAt:     now,
	}

	if err := s.store.CreateRecipe(ctx, recipe, input.TagIDs, inputLines(input)); err != nil {
		// The row never landed; don't leave its photo behind.
		if imagePath != "" {
			_ = s.processor.Remove(imagePath)
		}
		return nil, fmt.Errorf("create recipe: %w", err)
	}

	s.logger.Info("Recipe created",
		"recipe_id", recipeID,
		"author_id", author.ID,
	)

	return s.buildView(ctx, author.ID, recipe)
}

// Update replaces a recipe's scalar fields, lines, and tag links in one
// transaction. A payload that fails validation leaves the stored recipe
// untouched. PubDate never changes.
func (s *RecipeService) Update(ctx context.Context, viewer *domain.User, recipeID string, input RecipeInput) (*RecipeView, error) {
	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if err := authorizeRecipeWrite(viewer, recipe); err != nil {
		return nil, err
	}

	if _, err := s.validateInput(ctx, input); err != nil {
		return nil, err
	}

	// A replacement photo is staged under a temporary name; the previous
	// photo stays in place until the row update lands.
	var staged *images.StagedImage
	previousPath := recipe.ImagePath
	if input.Image != "" {
		st, blurHash, err := s.processor.Stage(recipeID, input.Image)
		if err != nil {
			return nil, domainerrors.Validation("image must be a valid base64 image data URI").WithCause(err)
		}
		staged = st
		recipe.ImagePath = st.Filename()
		recipe.ImageBlurHash = blurHash
	}

	recipe.Name = input.Name
	recipe.Text = input.Text
	recipe.CookingTime = input.CookingTime
	recipe.UpdatedAt = time.Now()

	if err := s.store.UpdateRecipe(ctx, recipe, input.TagIDs, inputLines(input)); err != nil {
		if staged != nil {
			_ = staged.Discard()
		}
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound(storeErrorMessage(err, "recipe not found"))
		}
		return nil, fmt.Errorf("update recipe: %w", err)
	}

	if staged != nil {
		if err := staged.Promote(); err != nil {
			return nil, fmt.Errorf("promote recipe photo: %w", err)
		}
		// A format change moves the photo to a new extension; drop the
		// superseded file.
		if previousPath != "" && previousPath != recipe.ImagePath {
			if err := s.processor.Remove(previousPath); err != nil {
				s.logger.Warn("failed to remove superseded recipe photo",
					"recipe_id", recipeID,
					"error", err,
				)
			}
		}
	}

	s.logger.Info("Recipe updated",
		"recipe_id", recipeID,
		"editor_id", viewer.ID,
	)

	return s.buildView(ctx, viewer.ID, recipe)
}

// Delete removes a recipe; lines, tag links, and memberships cascade.
func (s *RecipeService) Delete(ctx context.Context, viewer *domain.User, recipeID string) error {
	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return err
	}
	if err := authorizeRecipeWrite(viewer, recipe); err != nil {
		return err
	}

	if err := s.store.DeleteRecipe(ctx, recipeID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("recipe not found")
		}
		return fmt.Errorf("delete recipe: %w", err)
	}

	if recipe.ImagePath != "" {
		if err := s.processor.Remove(recipe.ImagePath); err != nil {
			s.logger.Warn("failed to remove recipe photo",
				"recipe_id", recipeID,
				"error", err,
			)
		}
	}

	s.logger.Info("Recipe deleted",
		"recipe_id", recipeID,
		"editor_id", viewer.ID,
	)

	return nil
}

// Get returns the consolidated recipe view for a viewer. viewerID may be
// empty for anonymous requests.
func (s *RecipeService) Get(ctx context.Context, viewerID, recipeID string) (*RecipeView, error) {
	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, viewerID, recipe)
}

// ListFilter narrows a recipe listing. FavoritedOnly and InCartOnly apply
// only to authenticated viewers and are ignored for anonymous requests.
type ListFilter struct {
	AuthorID      string
	TagSlugs      []string
	FavoritedOnly bool
	InCartOnly    bool
}

// List returns a page of consolidated recipe views.
// An unknown author ID is NotFound rather than an empty page.
func (s *RecipeService) List(ctx context.Context, viewerID string, filter ListFilter, params store.PaginationParams) (*store.PaginatedResult[*RecipeView], error) {
	if filter.AuthorID != "" {
		if _, err := s.store.GetUser(ctx, filter.AuthorID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, domainerrors.NotFound("author not found")
			}
			return nil, fmt.Errorf("get author: %w", err)
		}
	}

	storeFilter := store.RecipeFilter{
		AuthorID: filter.AuthorID,
		TagSlugs: filter.TagSlugs,
	}
	if viewerID != "" {
		if filter.FavoritedOnly {
			storeFilter.FavoritedBy = viewerID
		}
		if filter.InCartOnly {
			storeFilter.InCartOf = viewerID
		}
	}

	result, err := s.store.ListRecipes(ctx, storeFilter, params)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}

	views, err := s.buildViews(ctx, viewerID, result.Items)
	if err != nil {
		return nil, err
	}

	return &store.PaginatedResult[*RecipeView]{
		Items:   views,
		Total:   result.Total,
		HasMore: result.HasMore,
	}, nil
}

// Favorite marks a recipe as a favorite of the user. Strict semantics:
// favoriting twice is a conflict.
func (s *RecipeService) Favorite(ctx context.Context, userID, recipeID string) error {
	if _, err := s.getRecipe(ctx, recipeID); err != nil {
		return err
	}

	if err := s.store.AddFavorite(ctx, userID, recipeID); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domainerrors.Conflict("recipe is already a favorite")
		}
		return fmt.Errorf("add favorite: %w", err)
	}
	return nil
}

// Unfavorite removes a favorite. Removing an absent one is a conflict.
func (s *RecipeService) Unfavorite(ctx context.Context, userID, recipeID string) error {
	if _, err := s.getRecipe(ctx, recipeID); err != nil {
		return err
	}

	if err := s.store.RemoveFavorite(ctx, userID, recipeID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.Conflict("recipe is not a favorite")
		}
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}

// Image returns the stored photo bytes and content hash for a recipe.
func (s *RecipeService) Image(ctx context.Context, recipeID string) ([]byte, string, error) {
	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return nil, "", err
	}
	if recipe.ImagePath == "" {
		return nil, "", domainerrors.NotFound("recipe has no image")
	}

	data, err := s.processor.Storage().Get(recipe.ImagePath)
	if err != nil {
		return nil, "", domainerrors.NotFound("recipe image missing from storage").WithCause(err)
	}

	hash, err := s.processor.Storage().Hash(recipe.ImagePath)
	if err != nil {
		return nil, "", fmt.Errorf("hash image: %w", err)
	}

	return data, hash, nil
}

func (s *RecipeService) getRecipe(ctx context.Context, recipeID string) (*domain.Recipe, error) {
	recipe, err := s.store.GetRecipe(ctx, recipeID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("recipe not found")
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return recipe, nil
}

// authorizeRecipeWrite allows the author and admins to modify a recipe.
func authorizeRecipeWrite(viewer *domain.User, recipe *domain.Recipe) error {
	if viewer == nil {
		return domainerrors.Unauthorized("authentication required")
	}
	if viewer.ID != recipe.AuthorID && !viewer.IsAdmin {
		return domainerrors.Forbidden("only the author or an admin can modify this recipe")
	}
	return nil
}

// inputLines converts payload lines to domain lines, preserving order.
func inputLines(input RecipeInput) []domain.IngredientLine {
	lines := make([]domain.IngredientLine, len(input.Lines))
	for i, line := range input.Lines {
		lines[i] = domain.IngredientLine{
			IngredientID: line.IngredientID,
			Amount:       line.Amount,
		}
	}
	return lines
}

// buildView assembles the consolidated view for one recipe.
func (s *RecipeService) buildView(ctx context.Context, viewerID string, recipe *domain.Recipe) (*RecipeView, error) {
	views, err := s.buildViews(ctx, viewerID, []*domain.Recipe{recipe})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// buildViews assembles consolidated views for a batch of recipes.
// Author lookups and membership flags are batched; tags and lines are
// loaded per recipe.
func (s *RecipeService) buildViews(ctx context.Context, viewerID string, recipes []*domain.Recipe) ([]*RecipeView, error) {
	if len(recipes) == 0 {
		return []*RecipeView{}, nil
	}

	recipeIDs := make([]string, len(recipes))
	authorIDs := make([]string, 0, len(recipes))
	seenAuthors := make(map[string]bool, len(recipes))
	for i, r := range recipes {
		recipeIDs[i] = r.ID
		if !seenAuthors[r.AuthorID] {
			seenAuthors[r.AuthorID] = true
			authorIDs = append(authorIDs, r.AuthorID)
		}
	}

	authors, err := s.store.GetUsersByIDs(ctx, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve authors: %w", err)
	}
	authorByID := make(map[string]*domain.User, len(authors))
	for _, a := range authors {
		authorByID[a.ID] = a
	}

	favorited := map[string]bool{}
	inCart := map[string]bool{}
	followed := map[string]bool{}
	if viewerID != "" {
		if favorited, err = s.store.FavoriteRecipeIDSet(ctx, viewerID, recipeIDs); err != nil {
			return nil, fmt.Errorf("resolve favorites: %w", err)
		}
		if inCart, err = s.store.CartRecipeIDSet(ctx, viewerID, recipeIDs); err != nil {
			return nil, fmt.Errorf("resolve cart membership: %w", err)
		}
		if followed, err = s.store.FollowedAuthorIDSet(ctx, viewerID, authorIDs); err != nil {
			return nil, fmt.Errorf("resolve subscriptions: %w", err)
		}
	}

	views := make([]*RecipeView, 0, len(recipes))
	for _, r := range recipes {
		tags, err := s.store.GetRecipeTags(ctx, r.ID)
		if err != nil {
			return nil, fmt.Errorf("load tags for %s: %w", r.ID, err)
		}
		lines, err := s.store.GetRecipeLines(ctx, r.ID)
		if err != nil {
			return nil, fmt.Errorf("load lines for %s: %w", r.ID, err)
		}

		lineViews := make([]LineView, len(lines))
		for i, line := range lines {
			lineViews[i] = LineView{
				ID:     line.Ingredient.ID,
				Name:   line.Ingredient.Name,
				Unit:   line.Ingredient.Unit,
				Amount: line.Amount,
			}
		}

		var authorView UserView
		if author, ok := authorByID[r.AuthorID]; ok {
			authorView = *newUserView(author, followed[author.ID])
		}

		views = append(views, &RecipeView{
			ID:               r.ID,
			Name:             r.Name,
			Text:             r.Text,
			Image:            imageURL(r),
			ImageBlurHash:    r.ImageBlurHash,
			CookingTime:      r.CookingTime,
			PubDate:          r.PubDate,
			Author:           authorView,
			Tags:             tags,
			Ingredients:      lineViews,
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
		})
	}

	return views, nil
}

// storeErrorMessage extracts the store error's message for client display,
// falling back when the error carries none.
func storeErrorMessage(err error, fallback string) string {
	var serr *store.Error
	if errors.As(err, &serr) && serr.Message != "" {
		return serr.Message
	}
	return fallback
}
