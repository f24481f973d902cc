package domain

import (
	"reflect"
	"sort"
	"testing"
)

func TestAggregateShoppingList_MergesDuplicateLabels(t *testing.T) {
	// Same label twice on one recipe: storage allows it, aggregation merges it.
	portions := []IngredientPortion{
		{Label: "a", Amount: 2},
		{Label: "a", Amount: 3},
		{Label: "b", Amount: 1},
	}

	got := AggregateShoppingList(portions)

	want := []IngredientPortion{
		{Label: "a", Amount: 5},
		{Label: "b", Amount: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestAggregateShoppingList_TwoRecipes(t *testing.T) {
	// cart = {recipe1: flour 200, egg 2; recipe2: flour 100, sugar 50}
	portions := []IngredientPortion{
		{Label: "flour", Amount: 200},
		{Label: "egg", Amount: 2},
		{Label: "flour", Amount: 100},
		{Label: "sugar", Amount: 50},
	}

	got := AggregateShoppingList(portions)

	want := []IngredientPortion{
		{Label: "egg", Amount: 2},
		{Label: "flour", Amount: 300},
		{Label: "sugar", Amount: 50},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestAggregateShoppingList_Empty(t *testing.T) {
	got := AggregateShoppingList(nil)
	if got == nil {
		t.Fatal("expected non-nil empty slice")
	}
	if len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
}

func TestAggregateShoppingList_SortedAndUnique(t *testing.T) {
	portions := []IngredientPortion{
		{Label: "zucchini (pcs)", Amount: 1},
		{Label: "apple (pcs)", Amount: 4},
		{Label: "milk (ml)", Amount: 500},
		{Label: "apple (pcs)", Amount: 1},
		{Label: "milk (ml)", Amount: 250},
	}

	got := AggregateShoppingList(portions)

	if !sort.SliceIsSorted(got, func(i, j int) bool { return got[i].Label < got[j].Label }) {
		t.Errorf("result not sorted: %v", got)
	}

	seen := make(map[string]bool)
	for _, p := range got {
		if seen[p.Label] {
			t.Errorf("duplicate label %q in result", p.Label)
		}
		seen[p.Label] = true
	}
}

func TestAggregateShoppingList_DoesNotMutateInput(t *testing.T) {
	portions := []IngredientPortion{
		{Label: "b", Amount: 1},
		{Label: "a", Amount: 2},
	}
	snapshot := append([]IngredientPortion(nil), portions...)

	AggregateShoppingList(portions)

	if !reflect.DeepEqual(portions, snapshot) {
		t.Errorf("input mutated: %v", portions)
	}
}

func TestPortionsFromLines_SkipsDeletedIngredients(t *testing.T) {
	lines := []ResolvedLine{
		{Ingredient: Ingredient{Name: "flour", Unit: "g"}, Amount: 200},
		{Ingredient: Ingredient{}, Amount: 5}, // catalog row vanished
		{Ingredient: Ingredient{Name: "egg", Unit: "pcs"}, Amount: 2},
	}

	got := PortionsFromLines(lines)

	want := []IngredientPortion{
		{Label: "flour (g)", Amount: 200},
		{Label: "egg (pcs)", Amount: 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestIngredientLabel(t *testing.T) {
	ing := Ingredient{Name: "flour", Unit: "g"}
	if got := ing.Label(); got != "flour (g)" {
		t.Errorf("Label: got %q", got)
	}

	bare := Ingredient{Name: "salt"}
	if got := bare.Label(); got != "salt" {
		t.Errorf("Label without unit: got %q", got)
	}
}
