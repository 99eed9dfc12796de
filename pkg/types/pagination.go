package types

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// Page is one slice of a filtered listing plus counters computed from the
// whole filtered set.
type Page[T any] struct {
	Items       []T  `json:"items"`
	Total       int  `json:"total"`
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// Paginate cuts items (already filtered and sorted) into the requested page.
// page < 1 is treated as 1; limit outside (0, MaxPageLimit] falls back to the
// default or the maximum.
func Paginate[T any](items []T, page, limit int) *Page[T] {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	total := len(items)
	totalPages := (total + limit - 1) / limit

	// pages past the end are empty; checking first keeps the multiply in range
	start := total
	if page <= totalPages {
		start = (page - 1) * limit
	}
	end := start + limit
	if end > total {
		end = total
	}
	out := make([]T, end-start)
	copy(out, items[start:end])

	return &Page[T]{
		Items:       out,
		Total:       total,
		Page:        page,
		Limit:       limit,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}
