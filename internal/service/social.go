package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	domainerrors "github.com/platefulapp/plateful-server/internal/errors"
	"github.com/platefulapp/plateful-server/internal/store"
)

// SocialService manages the follow graph.
type SocialService struct {
	store  store.Store
	logger *slog.Logger
}

// NewSocialService creates a new social service.
func NewSocialService(store store.Store, logger *slog.Logger) *SocialService {
	return &SocialService{
		store:  store,
		logger: logger,
	}
}

// AuthorView is a followed author with a preview of their recipes.
type AuthorView struct {
	UserView
	Recipes      []RecipeSummary `json:"recipes"`
	RecipesCount int             `json:"recipes_count"`
}

// Follow creates a follower -> author edge.
// Self-follow is a validation error and is reported before the duplicate
// check, so repeated attempts never degrade into a conflict.
func (s *SocialService) Follow(ctx context.Context, followerID, authorID string) error {
	if followerID == authorID {
		return domainerrors.Validation("cannot subscribe to yourself")
	}

	if _, err := s.store.GetUser(ctx, authorID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("user not found")
		}
		return fmt.Errorf("get author: %w", err)
	}

	if err := s.store.CreateFollow(ctx, followerID, authorID); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domainerrors.Conflict("already subscribed to this user")
		}
		return fmt.Errorf("create follow: %w", err)
	}

	s.logger.Info("User subscribed",
		"follower_id", followerID,
		"author_id", authorID,
	)

	return nil
}

// Unfollow removes a follower -> author edge.
// Removing an absent edge is a conflict; self-unfollow stays a validation
// error on every attempt.
func (s *SocialService) Unfollow(ctx context.Context, followerID, authorID string) error {
	if followerID == authorID {
		return domainerrors.Validation("cannot subscribe to yourself")
	}

	if _, err := s.store.GetUser(ctx, authorID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("user not found")
		}
		return fmt.Errorf("get author: %w", err)
	}

	if err := s.store.DeleteFollow(ctx, followerID, authorID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.Conflict("not subscribed to this user")
		}
		return fmt.Errorf("delete follow: %w", err)
	}

	s.logger.Info("User unsubscribed",
		"follower_id", followerID,
		"author_id", authorID,
	)

	return nil
}

// Subscriptions lists the authors a user follows, each with a preview of
// their recipes. recipesLimit caps the preview per author; <= 0 means all.
func (s *SocialService) Subscriptions(
	ctx context.Context,
	followerID string,
	params store.PaginationParams,
	recipesLimit int,
) (*store.PaginatedResult[*AuthorView], error) {
	result, err := s.store.ListFollowedAuthors(ctx, followerID, params)
	if err != nil {
		return nil, fmt.Errorf("list followed authors: %w", err)
	}

	views := make([]*AuthorView, 0, len(result.Items))
	for _, author := range result.Items {
		count, err := s.store.CountRecipesByAuthor(ctx, author.ID)
		if err != nil {
			return nil, fmt.Errorf("count recipes for %s: %w", author.ID, err)
		}

		previewParams := store.PaginationParams{Limit: recipesLimit}
		if recipesLimit <= 0 {
			previewParams.Limit = count
		}
		recipes := []RecipeSummary{}
		if previewParams.Limit > 0 {
			page, err := s.store.ListRecipes(ctx, store.RecipeFilter{AuthorID: author.ID}, previewParams)
			if err != nil {
				return nil, fmt.Errorf("list recipes for %s: %w", author.ID, err)
			}
			for _, r := range page.Items {
				recipes = append(recipes, newRecipeSummary(r))
			}
		}

		views = append(views, &AuthorView{
			// Everything here is a subscription, so the flag is always set.
			UserView:     *newUserView(author, true),
			Recipes:      recipes,
			RecipesCount: count,
		})
	}

	return &store.PaginatedResult[*AuthorView]{
		Items:   views,
		Total:   result.Total,
		HasMore: result.HasMore,
	}, nil
}
