package store

// PaginationParams contains pagination request parameters. A Limit of zero
// or less means unlimited; list endpoints treat an absent or unparseable
// limit query parameter the same way.
type PaginationParams struct {
	Limit  int // Items per page; <= 0 means unlimited
	Offset int // Items to skip (0 for the first page)
}

// PaginatedResult contains paginated data and metadata.
type PaginatedResult[T any] struct {
	Items   []T  `json:"items"`
	Total   int  `json:"total"`
	HasMore bool `json:"has_more"`
}

// Validate normalizes pagination parameters for SQL use. SQLite reads
// LIMIT -1 as unlimited, so non-positive limits collapse to -1.
func (p *PaginationParams) Validate() {
	if p.Limit <= 0 {
		p.Limit = -1
	}

	if p.Offset < 0 {
		p.Offset = 0
	}
}
