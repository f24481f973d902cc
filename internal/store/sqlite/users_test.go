package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/platefulapp/plateful-server/internal/store"
)

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := insertTestUser(t, s, "usr-1", "chef-julia")

	got, err := s.GetUser(ctx, "usr-1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}

	if got.ID != u.ID {
		t.Errorf("ID: got %q, want %q", got.ID, u.ID)
	}
	if got.Email != u.Email {
		t.Errorf("Email: got %q, want %q", got.Email, u.Email)
	}
	if got.Username != u.Username {
		t.Errorf("Username: got %q, want %q", got.Username, u.Username)
	}
	if got.PasswordHash != u.PasswordHash {
		t.Errorf("PasswordHash: got %q, want %q", got.PasswordHash, u.PasswordHash)
	}
	if got.IsAdmin {
		t.Error("IsAdmin: expected false")
	}
	if got.CreatedAt.Unix() != u.CreatedAt.Unix() {
		t.Errorf("CreatedAt: got %v, want %v", got.CreatedAt, u.CreatedAt)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetUser(context.Background(), "nonexistent")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u1 := insertTestUser(t, s, "usr-dup-1", "alice")

	// Same email in a different case must collide.
	u2 := *u1
	u2.ID = "usr-dup-2"
	u2.Username = "alice2"
	u2.Email = "ALICE@example.com"
	err := s.CreateUser(ctx, &u2)
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists for duplicate email, got %v", err)
	}
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u1 := insertTestUser(t, s, "usr-dup-3", "bob")

	u2 := *u1
	u2.ID = "usr-dup-4"
	u2.Email = "other@example.com"
	u2.Username = "BOB"
	err := s.CreateUser(ctx, &u2)
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists for duplicate username, got %v", err)
	}
}

func TestGetUserByEmailAndUsername(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "usr-lookup", "carol")

	byEmail, err := s.GetUserByEmail(ctx, "CAROL@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if byEmail.ID != "usr-lookup" {
		t.Errorf("by email: got %q", byEmail.ID)
	}

	byUsername, err := s.GetUserByUsername(ctx, "Carol")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if byUsername.ID != "usr-lookup" {
		t.Errorf("by username: got %q", byUsername.ID)
	}
}

func TestUpdateUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := insertTestUser(t, s, "usr-upd", "dave")

	u.FirstName = "David"
	u.PasswordHash = "argon2id$new"
	if err := s.UpdateUser(ctx, u); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}

	got, err := s.GetUser(ctx, "usr-upd")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.FirstName != "David" {
		t.Errorf("FirstName: got %q", got.FirstName)
	}
	if got.PasswordHash != "argon2id$new" {
		t.Errorf("PasswordHash: got %q", got.PasswordHash)
	}
}

func TestUpdateUser_NotFound(t *testing.T) {
	s := newTestStore(t)

	u := insertTestUser(t, s, "usr-x", "erin")
	u.ID = "usr-missing"
	err := s.UpdateUser(context.Background(), u)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListUsers_Pagination(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "usr-p1", "anna")
	insertTestUser(t, s, "usr-p2", "ben")
	insertTestUser(t, s, "usr-p3", "cleo")

	page1, err := s.ListUsers(ctx, store.PaginationParams{Limit: 2})
	if err != nil {
		t.Fatalf("ListUsers page 1: %v", err)
	}
	if len(page1.Items) != 2 {
		t.Fatalf("page 1: expected 2 items, got %d", len(page1.Items))
	}
	if page1.Total != 3 {
		t.Errorf("Total: got %d, want 3", page1.Total)
	}
	if !page1.HasMore {
		t.Error("page 1: expected HasMore")
	}

	page2, err := s.ListUsers(ctx, store.PaginationParams{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("ListUsers page 2: %v", err)
	}
	if len(page2.Items) != 1 {
		t.Fatalf("page 2: expected 1 item, got %d", len(page2.Items))
	}
	if page2.HasMore {
		t.Error("page 2: expected no more pages")
	}
}

func TestGetUsersByIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "usr-b1", "fred")
	insertTestUser(t, s, "usr-b2", "gina")

	got, err := s.GetUsersByIDs(ctx, []string{"usr-b2", "usr-missing", "usr-b1"})
	if err != nil {
		t.Fatalf("GetUsersByIDs: %v", err)
	}

	// Missing IDs skipped, input order preserved.
	if len(got) != 2 {
		t.Fatalf("expected 2 users, got %d", len(got))
	}
	if got[0].ID != "usr-b2" || got[1].ID != "usr-b1" {
		t.Errorf("order: got [%s, %s]", got[0].ID, got[1].ID)
	}
}
