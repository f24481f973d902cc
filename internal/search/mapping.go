package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for ingredient documents.
//
// Every field uses the keyword analyzer: the folded name must stay a single
// term so prefix queries see the whole string, and the display fields are
// only stored, never matched.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = keyword.Name

	docMapping := bleve.NewDocumentMapping()

	// Folded name - the only matched field.
	nameFieldMapping := bleve.NewTextFieldMapping()
	nameFieldMapping.Analyzer = keyword.Name
	nameFieldMapping.Store = false
	docMapping.AddFieldMappingsAt("name", nameFieldMapping)

	// ID - stored but not analyzed.
	idFieldMapping := bleve.NewTextFieldMapping()
	idFieldMapping.Analyzer = keyword.Name
	idFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("id", idFieldMapping)

	// Display name and unit - stored for result rendering.
	displayFieldMapping := bleve.NewTextFieldMapping()
	displayFieldMapping.Analyzer = keyword.Name
	displayFieldMapping.Store = true
	displayFieldMapping.Index = false
	docMapping.AddFieldMappingsAt("display_name", displayFieldMapping)

	unitFieldMapping := bleve.NewTextFieldMapping()
	unitFieldMapping.Analyzer = keyword.Name
	unitFieldMapping.Store = true
	unitFieldMapping.Index = false
	docMapping.AddFieldMappingsAt("unit", unitFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
