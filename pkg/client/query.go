package client

import (
	"net/url"
	"strconv"
	"strings"
)

// DataPath is the tesseract endpoint returning flat JSON records.
const DataPath = "/tesseract/data.jsonrecords"

// Query describes one tesseract data request.
type Query struct {
	Cube       string
	Locale     string
	Drilldowns []string
	Measures   []string
	// Include restricts a dimension, e.g. "Year:2024".
	Include string
	// Limit and Offset page the result set. Limit 0 leaves paging to the server.
	Limit  int
	Offset int
}

// WithPage returns a copy of q requesting limit rows starting at offset.
func (q Query) WithPage(limit, offset int) Query {
	q.Limit = limit
	q.Offset = offset
	return q
}

// Values encodes the query parameters.
func (q Query) Values() url.Values {
	v := url.Values{}
	v.Set("cube", q.Cube)
	if q.Locale != "" {
		v.Set("locale", q.Locale)
	}
	if len(q.Drilldowns) > 0 {
		v.Set("drilldowns", strings.Join(q.Drilldowns, ","))
	}
	if len(q.Measures) > 0 {
		v.Set("measures", strings.Join(q.Measures, ","))
	}
	if q.Include != "" {
		v.Set("include", q.Include)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit)+","+strconv.Itoa(q.Offset))
	}
	return v
}
