package sharing

import "fmt"

// Page is an offset/limit window over a listing. A zero Size means the
// window is unbounded: callers that omit both parameters get everything.
type Page struct {
	From int
	Size int
}

// All is the unbounded window used when the caller supplies no paging.
var All = Page{From: 0, Size: 0}

// NewPage validates an explicitly supplied window.
func NewPage(from, size int) (Page, error) {
	if from < 0 {
		return Page{}, NewValidationError(fmt.Sprintf("from must not be negative, got %d", from))
	}
	if size <= 0 {
		return Page{}, NewValidationError(fmt.Sprintf("size must be positive, got %d", size))
	}
	return Page{From: from, Size: size}, nil
}

// Bounded reports whether the window carries a limit.
func (p Page) Bounded() bool {
	return p.Size > 0
}
