package pagination

import (
	"reflect"
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params holds pagination parameters extracted from a request.
type Params struct {
	Limit int
	Skip  int
}

// FromContext extracts skip/limit pagination from the echo context,
// clamping to sane bounds.
func FromContext(c echo.Context) Params {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	skip, _ := strconv.Atoi(c.QueryParam("skip"))
	if skip < 0 {
		skip = 0
	}

	return Params{Limit: limit, Skip: skip}
}

// Response wraps a paginated records listing.
type Response struct {
	Records interface{} `json:"records"`
	Total   int         `json:"total"`
	Limit   int         `json:"limit"`
	Skip    int         `json:"skip"`
}

// NewResponse wraps records in a Response. A nil records value, including a
// typed nil slice hiding behind the interface, is replaced with an empty slice
// so the records field always serializes as a JSON array.
func NewResponse(records interface{}, total, limit, skip int) *Response {
	if isNilRecords(records) {
		records = []interface{}{}
	}
	return &Response{
		Records: records,
		Total:   total,
		Limit:   limit,
		Skip:    skip,
	}
}

func isNilRecords(records interface{}) bool {
	if records == nil {
		return true
	}
	v := reflect.ValueOf(records)
	switch v.Kind() {
	case reflect.Slice, reflect.Map, reflect.Ptr:
		return v.IsNil()
	}
	return false
}

// HasNext reports whether there are more results after the current page.
func (p Params) HasNext(total int) bool {
	return p.Skip+p.Limit < total
}
