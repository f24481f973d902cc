package domain

import "sort"

// IngredientPortion is a (label, amount) pair: the unit of currency of the
// shopping-list aggregation and of the checklist renderer.
type IngredientPortion struct {
	Label  string `json:"label"`
	Amount int    `json:"amount"`
}

// AggregateShoppingList merges ingredient portions from any number of
// recipes into a single consolidated list. Identity is the display label,
// not the catalog row ID; two rows representing the same substance merge
// into one entry with their amounts summed.
//
// The result is sorted lexicographically by label, ascending, and contains
// no two entries with the same label. An empty or nil input yields an empty
// (non-nil) slice. Pure function: the input is never mutated.
func AggregateShoppingList(portions []IngredientPortion) []IngredientPortion {
	totals := make(map[string]int, len(portions))
	for _, p := range portions {
		totals[p.Label] += p.Amount
	}

	merged := make([]IngredientPortion, 0, len(totals))
	for label, amount := range totals {
		merged = append(merged, IngredientPortion{Label: label, Amount: amount})
	}

	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Label < merged[j].Label
	})

	return merged
}

// PortionsFromLines flattens resolved recipe lines into portions for
// aggregation. Lines with a zero-value ingredient (a catalog row deleted
// between reads) are skipped rather than failing the whole list.
func PortionsFromLines(lines []ResolvedLine) []IngredientPortion {
	portions := make([]IngredientPortion, 0, len(lines))
	for _, line := range lines {
		if line.Ingredient.Name == "" {
			continue
		}
		portions = append(portions, IngredientPortion{
			Label:  line.Ingredient.Label(),
			Amount: line.Amount,
		})
	}
	return portions
}
