package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/platefulapp/plateful-server/internal/service"
	"github.com/platefulapp/plateful-server/internal/store"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listUsers",
		Method:      http.MethodGet,
		Path:        "/api/v1/users",
		Summary:     "List users",
		Description: "Returns user profiles with the subscription flag computed for the viewer",
		Tags:        []string{"Users"},
	}, s.handleListUsers)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Get current user",
		Description: "Returns the authenticated user's profile",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCurrentUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "listSubscriptions",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/subscriptions",
		Summary:     "List subscriptions",
		Description: "Returns followed authors, each with a recipe preview",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListSubscriptions)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{id}",
		Summary:     "Get user",
		Description: "Returns a user profile by ID",
		Tags:        []string{"Users"},
	}, s.handleGetUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "subscribe",
		Method:      http.MethodPost,
		Path:        "/api/v1/users/{id}/subscribe",
		Summary:     "Subscribe to user",
		Description: "Follows the given author",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSubscribe)

	huma.Register(s.api, huma.Operation{
		OperationID: "unsubscribe",
		Method:      http.MethodDelete,
		Path:        "/api/v1/users/{id}/subscribe",
		Summary:     "Unsubscribe from user",
		Description: "Unfollows the given author",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUnsubscribe)
}

// === DTOs ===

// ListUsersInput contains parameters for listing users.
type ListUsersInput struct {
	Authorization string `header:"Authorization"`
	Limit         string `query:"limit" doc:"Max results; absent or non-numeric means no limit"`
	Offset        string `query:"offset" doc:"Items to skip"`
}

// UserListResponse contains a page of user profiles.
type UserListResponse struct {
	Users   []*service.UserView `json:"users" doc:"User profiles"`
	Total   int                 `json:"total" doc:"Total matching users"`
	HasMore bool                `json:"has_more" doc:"Whether more pages exist"`
}

// UserListOutput wraps the user list response for Huma.
type UserListOutput struct {
	Body UserListResponse
}

// ProfileOutput wraps a single profile view for Huma.
type ProfileOutput struct {
	Body service.UserView
}

// GetCurrentUserInput contains parameters for the current-user lookup.
type GetCurrentUserInput struct {
	Authorization string `header:"Authorization"`
}

// GetUserInput contains parameters for a profile lookup.
type GetUserInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"User ID"`
}

// SubscribeInput contains parameters for follow and unfollow.
type SubscribeInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Author ID"`
}

// ListSubscriptionsInput contains parameters for the subscription list.
type ListSubscriptionsInput struct {
	Authorization string `header:"Authorization"`
	Limit         string `query:"limit" doc:"Max authors; absent or non-numeric means no limit"`
	Offset        string `query:"offset" doc:"Authors to skip"`
	RecipesLimit  string `query:"recipes_limit" doc:"Max preview recipes per author; absent means all"`
}

// SubscriptionListResponse contains followed authors with recipe previews.
type SubscriptionListResponse struct {
	Authors []*service.AuthorView `json:"authors" doc:"Followed authors"`
	Total   int                   `json:"total" doc:"Total followed authors"`
	HasMore bool                  `json:"has_more" doc:"Whether more pages exist"`
}

// SubscriptionListOutput wraps the subscription list for Huma.
type SubscriptionListOutput struct {
	Body SubscriptionListResponse
}

// === Handlers ===

func (s *Server) handleListUsers(ctx context.Context, input *ListUsersInput) (*UserListOutput, error) {
	viewerID := s.optionalViewerID(ctx, input.Authorization)

	result, err := s.services.User.List(ctx, viewerID, store.PaginationParams{
		Limit:  parseLimit(input.Limit),
		Offset: parseLimit(input.Offset),
	})
	if err != nil {
		return nil, err
	}

	return &UserListOutput{Body: UserListResponse{
		Users:   result.Items,
		Total:   result.Total,
		HasMore: result.HasMore,
	}}, nil
}

func (s *Server) handleGetCurrentUser(ctx context.Context, input *GetCurrentUserInput) (*ProfileOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	view, err := s.services.User.Get(ctx, user.ID, user.ID)
	if err != nil {
		return nil, err
	}

	return &ProfileOutput{Body: *view}, nil
}

func (s *Server) handleGetUser(ctx context.Context, input *GetUserInput) (*ProfileOutput, error) {
	viewerID := s.optionalViewerID(ctx, input.Authorization)

	view, err := s.services.User.Get(ctx, viewerID, input.ID)
	if err != nil {
		return nil, err
	}

	return &ProfileOutput{Body: *view}, nil
}

func (s *Server) handleSubscribe(ctx context.Context, input *SubscribeInput) (*MessageOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Social.Follow(ctx, user.ID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Subscribed"}}, nil
}

func (s *Server) handleUnsubscribe(ctx context.Context, input *SubscribeInput) (*MessageOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Social.Unfollow(ctx, user.ID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Unsubscribed"}}, nil
}

func (s *Server) handleListSubscriptions(ctx context.Context, input *ListSubscriptionsInput) (*SubscriptionListOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Social.Subscriptions(ctx, user.ID, store.PaginationParams{
		Limit:  parseLimit(input.Limit),
		Offset: parseLimit(input.Offset),
	}, parseLimit(input.RecipesLimit))
	if err != nil {
		return nil, err
	}

	return &SubscriptionListOutput{Body: SubscriptionListResponse{
		Authors: result.Items,
		Total:   result.Total,
		HasMore: result.HasMore,
	}}, nil
}
