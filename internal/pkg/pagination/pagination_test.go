package pagination

import (
	"math"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/office-attendance-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRequest_Defaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/history?page=abc", nil)

	p := FromRequest(r, 10)

	assert.Equal(t, Params{Page: 1, Limit: 10}, p)
	assert.Equal(t, 0, p.Offset())
}

func TestFromRequest_Explicit(t *testing.T) {
	r := httptest.NewRequest("GET", "/history?page=3&limit=25", nil)

	p := FromRequest(r, 10)

	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 25, p.Limit)
	assert.Equal(t, 50, p.Offset())
}

func TestValidate(t *testing.T) {
	assert.NoError(t, (&Params{Page: 1, Limit: 100}).Validate())
	assert.Error(t, (&Params{Page: 0, Limit: 10}).Validate())
	assert.Error(t, (&Params{Page: 1, Limit: 101}).Validate())
}

func TestNewInfo(t *testing.T) {
	info := NewInfo(Params{Page: 2, Limit: 10}, 25)
	assert.Equal(t, Info{CurrentPage: 2, TotalPages: 3, TotalRecords: 25, HasMore: true}, info)

	last := NewInfo(Params{Page: 3, Limit: 10}, 25)
	assert.False(t, last.HasMore)

	empty := NewInfo(Params{Page: 1, Limit: 10}, 0)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasMore)
}

func TestValidate_PageOutOfRange(t *testing.T) {
	err := (&Params{Page: 1 << 62, Limit: 100}).Validate()

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "page")

	assert.NoError(t, (&Params{Page: math.MaxInt / 100, Limit: 100}).Validate())
}

func TestNewInfo_HugePage(t *testing.T) {
	info := NewInfo(Params{Page: 1 << 62, Limit: 100}, 25)
	assert.False(t, info.HasMore)
}
