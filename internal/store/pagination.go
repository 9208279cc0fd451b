package store

// Pagination limits.
const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// PaginationParams contains limit/offset pagination request parameters.
type PaginationParams struct {
	Limit  int // Items per page (defaults to 50 with a maximum of 200)
	Offset int // Number of items to skip (first page is 0)
}

// PaginatedResult contains one page of data and paging metadata.
type PaginatedResult[T any] struct {
	Items   []T  `json:"items"`
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

// DefaultPaginationParams returns sensible defaults.
func DefaultPaginationParams() PaginationParams {
	return PaginationParams{
		Limit:  DefaultLimit,
		Offset: 0,
	}
}

// Validate checks and corrects pagination parameters.
func (p *PaginationParams) Validate() {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// NewPaginatedResult assembles a result page from items and the total
// matching row count.
func NewPaginatedResult[T any](items []T, total int, p PaginationParams) *PaginatedResult[T] {
	if items == nil {
		items = []T{}
	}
	return &PaginatedResult[T]{
		Items:   items,
		Total:   total,
		Limit:   p.Limit,
		Offset:  p.Offset,
		HasMore: p.Offset+len(items) < total,
	}
}
