// Package checklist renders an aggregated shopping list into a printable
// checklist document.
package checklist

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/platefulapp/plateful-server/internal/domain"
)

// minPadding is the minimum run of underscores between a label and its
// amount. Longer labels shrink the padding of shorter ones never below this.
const minPadding = 3

// checkbox prefixes every item line.
const checkbox = '☐'

// Renderer turns an aggregated shopping list into a downloadable document.
type Renderer interface {
	// Render produces the document bytes for a titled list.
	Render(title string, items []domain.IngredientPortion) ([]byte, error)
	// ContentType returns the MIME type of rendered documents.
	ContentType() string
	// Filename returns the suggested download filename.
	Filename() string
}

// TextRenderer renders a plain-text checklist in a monospace-friendly
// layout: a checkbox, the label, then underscores padding every amount to
// the same column.
type TextRenderer struct{}

// NewTextRenderer creates a plain-text checklist renderer.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

// ContentType implements Renderer.
func (*TextRenderer) ContentType() string { return "text/plain; charset=utf-8" }

// Filename implements Renderer.
func (*TextRenderer) Filename() string { return "shopping_cart.txt" }

// Render implements Renderer. Items are emitted in input order; callers pass
// the already-sorted aggregation output.
func (*TextRenderer) Render(title string, items []domain.IngredientPortion) ([]byte, error) {
	var b strings.Builder

	b.WriteString(title)
	b.WriteByte('\n')
	b.WriteString(strings.Repeat("-", utf8.RuneCountInString(title)))
	b.WriteByte('\n')

	// Column width: the longest label+amount pair plus the minimum padding.
	maxLineLength := 0
	for _, item := range items {
		n := utf8.RuneCountInString(item.Label) + digits(item.Amount) + minPadding
		if n > maxLineLength {
			maxLineLength = n
		}
	}

	for _, item := range items {
		padding := maxLineLength - utf8.RuneCountInString(item.Label) - digits(item.Amount)
		b.WriteRune(checkbox)
		b.WriteByte(' ')
		b.WriteString(item.Label)
		b.WriteByte(':')
		b.WriteString(strings.Repeat("_", padding))
		b.WriteString(strconv.Itoa(item.Amount))
		b.WriteByte('\n')
	}

	return []byte(b.String()), nil
}

// digits returns the decimal width of a non-negative amount.
func digits(n int) int {
	return len(strconv.Itoa(n))
}
