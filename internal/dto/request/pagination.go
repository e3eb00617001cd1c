package request

// PaginatedRequest carries the page/per_page query pair used by the
// booking and lead listings. Out-of-range values fall back to safe
// defaults instead of erroring, listings are never a hard failure.
type PaginatedRequest struct {
	Page    int `json:"page" validate:"min=1"`
	PerPage int `json:"per_page" validate:"min=1,max=100"`
}

// Offset translates the 1-based page into a row offset.
func (p PaginatedRequest) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PerPage
}

// Limit clamps per_page to 1..100, defaulting to 10.
func (p PaginatedRequest) Limit() int {
	if p.PerPage < 1 {
		return 10
	}
	if p.PerPage > 100 {
		return 100
	}
	return p.PerPage
}
