package pagination

import (
	"net/http"
	"strconv"
)

// MaxLimit is the largest page size a caller may request.
const MaxLimit = 100

// Params holds limit/offset pagination parameters extracted from query strings.
type Params struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// DefaultParams returns sensible pagination defaults.
func DefaultParams() Params {
	return Params{
		Limit:  10,
		Offset: 0,
	}
}

// FromRequest extracts pagination parameters from an HTTP request.
// Limit is clamped to [1, MaxLimit]; offset is clamped to >= 0.
func FromRequest(r *http.Request) Params {
	p := DefaultParams()

	if limit := r.URL.Query().Get("limit"); limit != "" {
		if v, err := strconv.Atoi(limit); err == nil && v > 0 {
			p.Limit = v
		}
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}

	if offset := r.URL.Query().Get("offset"); offset != "" {
		if v, err := strconv.Atoi(offset); err == nil && v >= 0 {
			p.Offset = v
		}
	}

	return p
}

// Result wraps a paginated response. Total is the size of the filtered set
// before the limit/offset window was applied.
type Result[T any] struct {
	Data   []T `json:"data"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// NewResult creates a paginated result, echoing back the request parameters.
func NewResult[T any](data []T, total int, params Params) Result[T] {
	if data == nil {
		data = []T{}
	}
	return Result[T]{
		Data:   data,
		Total:  total,
		Limit:  params.Limit,
		Offset: params.Offset,
	}
}
