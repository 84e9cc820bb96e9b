package assets

import (
	"net/url"
	"strconv"

	"github.com/curator-io/curator/pkg/docstore"
)

// Filters contains optional filtering criteria for asset queries.
// Nil fields are ignored; all matching is exact. Status here narrows within
// the default visibility set; it can never expose deleted assets.
type Filters struct {
	Kind     *string `json:"kind,omitempty"`
	EncodeID *string `json:"encodeId,omitempty"`
	Reported *bool   `json:"reported,omitempty"`
	Name     *string `json:"name,omitempty"`
}

// Filter converts the criteria to a document store filter.
func (f Filters) Filter() docstore.Filter {
	filter := docstore.Filter{}
	if f.Kind != nil {
		filter["kind"] = *f.Kind
	}
	if f.EncodeID != nil {
		filter["encodeId"] = *f.EncodeID
	}
	if f.Reported != nil {
		filter["reported"] = *f.Reported
	}
	if f.Name != nil {
		filter["name"] = *f.Name
	}
	return filter
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if k := values.Get("kind"); k != "" {
		f.Kind = &k
	}
	if e := values.Get("encode_id"); e != "" {
		f.EncodeID = &e
	}
	if r := values.Get("reported"); r != "" {
		if v, err := strconv.ParseBool(r); err == nil {
			f.Reported = &v
		}
	}
	if n := values.Get("name"); n != "" {
		f.Name = &n
	}

	return f
}
