package domain

import (
	"fmt"
	"time"
)

// Ingredient is a catalog entry: a name with its measurement unit inline.
// The catalog is reference data populated by bulk import; (name, unit) is
// deduplicated at insert time, but nothing stops two rows from sharing a name
// with different units ("flour"/"g" and "flour"/"cup" are distinct entries).
type Ingredient struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Unit      string    `json:"measurement_unit"`
	CreatedAt time.Time `json:"created_at"`
}

// Label returns the display label used as merge identity in shopping-list
// aggregation. Two catalog rows with the same label are the same substance
// as far as a shopping list is concerned, regardless of their row IDs.
func (i *Ingredient) Label() string {
	if i.Unit == "" {
		return i.Name
	}
	return fmt.Sprintf("%s (%s)", i.Name, i.Unit)
}
