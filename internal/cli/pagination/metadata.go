package pagination

// PaginationMeta describes where a page sits. Cursors are kept exactly as the API sent them.
//
//nolint:revive // PaginationMeta is the canonical name for this exported type.
type PaginationMeta struct {
	Next        string `json:"next_cursor,omitempty"     yaml:"next_cursor,omitempty"`
	Previous    string `json:"previous_cursor,omitempty" yaml:"previous_cursor,omitempty"`
	CurrentPage int    `json:"current_page,omitempty"    yaml:"current_page,omitempty"`
	HasNext     bool   `json:"has_next"                  yaml:"has_next"`
	HasPrevious bool   `json:"has_previous"              yaml:"has_previous"`
}

// NewPaginationMeta builds metadata for a page fetched with params.
func NewPaginationMeta(params PaginationParams, next, previous string) PaginationMeta {
	return PaginationMeta{
		Next:        next,
		Previous:    previous,
		CurrentPage: params.Page,
		HasNext:     next != "",
		HasPrevious: previous != "" || params.Page > MinPage,
	}
}

// NextParams returns the params that fetch the following page, and false if there is none.
func (m PaginationMeta) NextParams() (PaginationParams, bool) {
	if m.Next == "" {
		return PaginationParams{}, false
	}
	return PaginationParams{Cursor: m.Next, Direction: DirectionForward}, true
}

// PreviousParams returns the params that fetch the preceding page, and false if there is none.
func (m PaginationMeta) PreviousParams() (PaginationParams, bool) {
	if m.Previous == "" {
		return PaginationParams{}, false
	}
	return PaginationParams{Cursor: m.Previous, Direction: DirectionBackward}, true
}
