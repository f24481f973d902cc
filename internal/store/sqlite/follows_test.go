package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/platefulapp/plateful-server/internal/store"
)

func TestFollow_StrictSemantics(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "usr-follower", "follower")
	insertTestUser(t, s, "usr-author", "author")

	if err := s.CreateFollow(ctx, "usr-follower", "usr-author"); err != nil {
		t.Fatalf("CreateFollow: %v", err)
	}

	following, err := s.IsFollowing(ctx, "usr-follower", "usr-author")
	if err != nil {
		t.Fatalf("IsFollowing: %v", err)
	}
	if !following {
		t.Error("expected following=true")
	}

	// The edge is directional.
	reverse, err := s.IsFollowing(ctx, "usr-author", "usr-follower")
	if err != nil {
		t.Fatalf("IsFollowing reverse: %v", err)
	}
	if reverse {
		t.Error("reverse edge must not exist")
	}

	err = s.CreateFollow(ctx, "usr-follower", "usr-author")
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("duplicate follow: expected ErrAlreadyExists, got %v", err)
	}

	if err := s.DeleteFollow(ctx, "usr-follower", "usr-author"); err != nil {
		t.Fatalf("DeleteFollow: %v", err)
	}

	err = s.DeleteFollow(ctx, "usr-follower", "usr-author")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("absent unfollow: expected ErrNotFound, got %v", err)
	}
}

func TestCreateFollow_Self(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "usr-solo", "solo")

	err := s.CreateFollow(ctx, "usr-solo", "usr-solo")
	if !errors.Is(err, store.ErrInvalidInput) {
		t.Errorf("self-follow: expected ErrInvalidInput, got %v", err)
	}
}

func TestCreateFollow_MissingAuthor(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "usr-f", "follower")

	err := s.CreateFollow(ctx, "usr-f", "usr-missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListFollowedAuthors(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "usr-f", "follower")
	insertTestUser(t, s, "usr-a1", "anna")
	insertTestUser(t, s, "usr-a2", "ben")
	insertTestUser(t, s, "usr-a3", "cleo")

	for _, author := range []string{"usr-a1", "usr-a2", "usr-a3"} {
		if err := s.CreateFollow(ctx, "usr-f", author); err != nil {
			t.Fatalf("CreateFollow(%s): %v", author, err)
		}
	}

	page, err := s.ListFollowedAuthors(ctx, "usr-f", store.PaginationParams{Limit: 2})
	if err != nil {
		t.Fatalf("ListFollowedAuthors: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(page.Items))
	}
	if page.Total != 3 {
		t.Errorf("Total: got %d, want 3", page.Total)
	}
	if !page.HasMore {
		t.Error("expected HasMore")
	}

	// Someone with no follows gets an empty page.
	empty, err := s.ListFollowedAuthors(ctx, "usr-a1", store.PaginationParams{Limit: 10})
	if err != nil {
		t.Fatalf("ListFollowedAuthors (empty): %v", err)
	}
	if len(empty.Items) != 0 || empty.Total != 0 || empty.HasMore {
		t.Errorf("empty: got %+v", empty)
	}
}

func TestFollowedAuthorIDSet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "usr-f", "follower")
	insertTestUser(t, s, "usr-a1", "anna")
	insertTestUser(t, s, "usr-a2", "ben")

	if err := s.CreateFollow(ctx, "usr-f", "usr-a2"); err != nil {
		t.Fatalf("CreateFollow: %v", err)
	}

	set, err := s.FollowedAuthorIDSet(ctx, "usr-f", []string{"usr-a1", "usr-a2"})
	if err != nil {
		t.Fatalf("FollowedAuthorIDSet: %v", err)
	}
	if set["usr-a1"] || !set["usr-a2"] {
		t.Errorf("got %v", set)
	}
}
