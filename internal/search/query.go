package search

import (
	"context"
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Hit is a single ingredient lookup result.
type Hit struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Unit  string  `json:"unit"`
	Score float64 `json:"score"`
}

// SearchPrefix returns catalog entries whose name starts with the given
// prefix, case-folded. An empty prefix matches the whole catalog, ordered
// by name, which serves the unfiltered catalog listing.
func (s *IngredientIndex) SearchPrefix(ctx context.Context, prefix string, limit int) ([]Hit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	var searchQuery query.Query
	if prefix == "" {
		searchQuery = bleve.NewMatchAllQuery()
	} else {
		prefixQuery := bleve.NewPrefixQuery(Fold(prefix))
		prefixQuery.SetField("name")
		searchQuery = prefixQuery
	}

	searchRequest := bleve.NewSearchRequestOptions(searchQuery, limit, 0, false)
	searchRequest.Fields = []string{"id", "display_name", "unit"}
	searchRequest.SortBy([]string{"name", "_id"})

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	hits := make([]Hit, 0, len(searchResult.Hits))
	for _, hit := range searchResult.Hits {
		h := Hit{
			ID:    hit.ID,
			Score: hit.Score,
		}
		if n, ok := hit.Fields["display_name"].(string); ok {
			h.Name = n
		}
		if u, ok := hit.Fields["unit"].(string); ok {
			h.Unit = u
		}
		hits = append(hits, h)
	}

	return hits, nil
}
