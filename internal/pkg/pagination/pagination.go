package pagination

import (
	"math"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/office-attendance-go/internal/pkg/validator"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params is a page request. Page is 1-based.
type Params struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// FromRequest reads ?page= and ?limit=, falling back to page 1 and defaultLimit
// for missing or non-numeric values.
func FromRequest(r *http.Request, defaultLimit int) Params {
	p := Params{Page: 1, Limit: defaultLimit}
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		p.Page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		p.Limit = v
	}
	return p
}

func (p *Params) Validate() error {
	var errs validator.ValidationErrors

	if p.Page < 1 {
		errs.Add("page", "page must be a positive number")
	}
	if p.Limit < 1 {
		errs.Add("limit", "limit must be a positive number")
	} else if p.Limit > MaxLimit {
		errs.Add("limit", "limit must not exceed 100")
	} else if p.Page > 1 && p.Page-1 > math.MaxInt/p.Limit {
		errs.Add("page", "page is out of range")
	}

	return errs.Err()
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Info describes the returned page.
type Info struct {
	CurrentPage  int   `json:"current_page"`
	TotalPages   int   `json:"total_pages"`
	TotalRecords int64 `json:"total_records"`
	HasMore      bool  `json:"has_more"`
}

func NewInfo(p Params, total int64) Info {
	totalPages := 0
	if p.Limit > 0 {
		totalPages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return Info{
		CurrentPage:  p.Page,
		TotalPages:   totalPages,
		TotalRecords: total,
		HasMore:      p.Page > 0 && p.Page < totalPages,
	}
}
