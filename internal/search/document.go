// Package search provides ingredient catalog lookup using Bleve.
// Matching is prefix-only on the folded ingredient name, which keeps typeahead
// behavior predictable: "fl" finds "flour", "our" does not.
package search

import (
	"golang.org/x/text/cases"

	"github.com/platefulapp/plateful-server/internal/domain"
)

// folder performs Unicode case folding so prefixes match regardless of case.
var folder = cases.Fold()

// Fold normalizes a string for prefix comparison.
func Fold(s string) string {
	return folder.String(s)
}

// IngredientDocument is the document structure for the Bleve index.
type IngredientDocument struct {
	ID   string `json:"id"`
	Name string `json:"name"` // Original name, for display
	Unit string `json:"unit"`
}

// NewIngredientDocument builds an index document from a catalog entry.
func NewIngredientDocument(ing *domain.Ingredient) *IngredientDocument {
	return &IngredientDocument{
		ID:   ing.ID,
		Name: ing.Name,
		Unit: ing.Unit,
	}
}

// ToMap converts the document to a map whose keys match the index mapping.
// The indexed name field carries the folded form; the display fields are
// stored verbatim.
func (d *IngredientDocument) ToMap() map[string]any {
	return map[string]any{
		"id":           d.ID,
		"name":         Fold(d.Name),
		"display_name": d.Name,
		"unit":         d.Unit,
	}
}
