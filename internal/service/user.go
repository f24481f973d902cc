package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/platefulapp/plateful-server/internal/domain"
	domainerrors "github.com/platefulapp/plateful-server/internal/errors"
	"github.com/platefulapp/plateful-server/internal/store"
)

// UserService provides user profile reads.
type UserService struct {
	store  store.Store
	logger *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(store store.Store, logger *slog.Logger) *UserService {
	return &UserService{
		store:  store,
		logger: logger,
	}
}

// UserView is a user profile as returned to clients. IsSubscribed is
// computed for the requesting viewer; false for anonymous requests.
type UserView struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsAdmin      bool   `json:"is_admin"`
	IsSubscribed bool   `json:"is_subscribed"`
}

// newUserView builds a UserView from a domain user.
func newUserView(u *domain.User, isSubscribed bool) *UserView {
	return &UserView{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsAdmin:      u.IsAdmin,
		IsSubscribed: isSubscribed,
	}
}

// Get returns a user profile with the subscription flag computed for the
// viewer. viewerID may be empty for anonymous requests.
func (s *UserService) Get(ctx context.Context, viewerID, userID string) (*UserView, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	isSubscribed := false
	if viewerID != "" && viewerID != user.ID {
		isSubscribed, err = s.store.IsFollowing(ctx, viewerID, user.ID)
		if err != nil {
			return nil, fmt.Errorf("check subscription: %w", err)
		}
	}

	return newUserView(user, isSubscribed), nil
}

// List returns a page of users with subscription flags for the viewer.
func (s *UserService) List(ctx context.Context, viewerID string, params store.PaginationParams) (*store.PaginatedResult[*UserView], error) {
	result, err := s.store.ListUsers(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	followed := map[string]bool{}
	if viewerID != "" && len(result.Items) > 0 {
		ids := make([]string, len(result.Items))
		for i, u := range result.Items {
			ids[i] = u.ID
		}
		followed, err = s.store.FollowedAuthorIDSet(ctx, viewerID, ids)
		if err != nil {
			return nil, fmt.Errorf("check subscriptions: %w", err)
		}
	}

	views := make([]*UserView, len(result.Items))
	for i, u := range result.Items {
		views[i] = newUserView(u, followed[u.ID])
	}

	return &store.PaginatedResult[*UserView]{
		Items:   views,
		Total:   result.Total,
		HasMore: result.HasMore,
	}, nil
}
