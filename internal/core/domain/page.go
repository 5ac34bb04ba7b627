package domain

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// Page is an offset window over a listing.
type Page struct {
	Skip  int
	Limit int
}

// Normalize clamps p into the accepted range.
func (p Page) Normalize() Page {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

// Paged is one page of results plus totals.
type Paged[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
	Pages int   `json:"pages"`
}

// NewPaged assembles a Paged result for the window p.
func NewPaged[T any](items []T, total int64, p Page) Paged[T] {
	p = p.Normalize()
	if items == nil {
		items = []T{}
	}
	return Paged[T]{
		Items: items,
		Total: total,
		Page:  p.Skip/p.Limit + 1,
		Size:  p.Limit,
		Pages: int((total + int64(p.Limit) - 1) / int64(p.Limit)),
	}
}
