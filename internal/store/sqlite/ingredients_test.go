package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/platefulapp/plateful-server/internal/store"
)

func TestCreateAndGetIngredient(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ing := makeTestIngredient("ing-1", "flour", "g")

	if err := s.CreateIngredient(ctx, ing); err != nil {
		t.Fatalf("CreateIngredient: %v", err)
	}

	got, err := s.GetIngredient(ctx, "ing-1")
	if err != nil {
		t.Fatalf("GetIngredient: %v", err)
	}

	if got.Name != "flour" {
		t.Errorf("Name: got %q", got.Name)
	}
	if got.Unit != "g" {
		t.Errorf("Unit: got %q", got.Unit)
	}
}

func TestCreateIngredient_DuplicatePair(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateIngredient(ctx, makeTestIngredient("ing-d1", "flour", "g")); err != nil {
		t.Fatalf("CreateIngredient: %v", err)
	}

	// Same (name, unit) pair, different case, must collide.
	err := s.CreateIngredient(ctx, makeTestIngredient("ing-d2", "Flour", "g"))
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}

	// Same name with a different unit is a distinct entry.
	if err := s.CreateIngredient(ctx, makeTestIngredient("ing-d3", "flour", "cup")); err != nil {
		t.Errorf("different unit: %v", err)
	}
}

func TestInsertIngredientIfAbsent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.InsertIngredientIfAbsent(ctx, makeTestIngredient("ing-a1", "sugar", "g"))
	if err != nil {
		t.Fatalf("InsertIngredientIfAbsent: %v", err)
	}
	if !created {
		t.Error("expected created=true for new entry")
	}

	// Re-running the same row is a no-op.
	created, err = s.InsertIngredientIfAbsent(ctx, makeTestIngredient("ing-a2", "Sugar", "g"))
	if err != nil {
		t.Fatalf("InsertIngredientIfAbsent (repeat): %v", err)
	}
	if created {
		t.Error("expected created=false for existing pair")
	}

	n, err := s.CountIngredients(ctx)
	if err != nil {
		t.Fatalf("CountIngredients: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 catalog entry, got %d", n)
	}
}

func TestGetIngredientsByIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateIngredient(ctx, makeTestIngredient("ing-b1", "egg", "pcs")); err != nil {
		t.Fatalf("CreateIngredient: %v", err)
	}
	if err := s.CreateIngredient(ctx, makeTestIngredient("ing-b2", "milk", "ml")); err != nil {
		t.Fatalf("CreateIngredient: %v", err)
	}

	got, err := s.GetIngredientsByIDs(ctx, []string{"ing-b2", "ing-b1"})
	if err != nil {
		t.Fatalf("GetIngredientsByIDs: %v", err)
	}
	if len(got) != 2 || got[0].ID != "ing-b2" || got[1].ID != "ing-b1" {
		t.Errorf("got %v", got)
	}

	_, err = s.GetIngredientsByIDs(ctx, []string{"ing-b1", "ing-missing"})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing ID, got %v", err)
	}
}

func TestListIngredients_Sorted(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, pair := range [][2]string{{"zucchini", "pcs"}, {"Apple", "pcs"}, {"milk", "ml"}} {
		ing := makeTestIngredient("ing-"+pair[0], pair[0], pair[1])
		if err := s.CreateIngredient(ctx, ing); err != nil {
			t.Fatalf("CreateIngredient(%s): %v", pair[0], err)
		}
	}

	got, err := s.ListIngredients(ctx)
	if err != nil {
		t.Fatalf("ListIngredients: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	// Ordered by lowercased name.
	if got[0].Name != "Apple" || got[1].Name != "milk" || got[2].Name != "zucchini" {
		t.Errorf("order: got [%s, %s, %s]", got[0].Name, got[1].Name, got[2].Name)
	}
}
