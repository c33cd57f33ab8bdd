package query

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/kailas-cloud/assetdex/internal/domain"
	"github.com/kailas-cloud/assetdex/internal/domain/facet"
	"github.com/kailas-cloud/assetdex/internal/domain/search/order"
)

// Query limits.
const (
	// MaxQueryLength is the maximum free-text length in bytes.
	MaxQueryLength = 512
	MaxSelections  = 64
)

// DateRange bounds creation time inclusively. A zero bound is open.
type DateRange struct {
	From time.Time `json:"from,omitzero"`
	To   time.Time `json:"to,omitzero"`
}

// Inverted reports whether both bounds are set and To precedes From.
func (r DateRange) Inverted() bool {
	return !r.From.IsZero() && !r.To.IsZero() && r.To.Before(r.From)
}

// Filters are structured constraints sourced from dedicated controls.
// Values are kept raw: malformed entries are tolerated at evaluation time.
type Filters struct {
	CreatorIDs     []string   `json:"creator_ids,omitempty"`
	MediaKinds     []string   `json:"media_kinds,omitempty"`
	AspectRatios   []string   `json:"aspect_ratios,omitempty"`
	ReviewStatuses []string   `json:"review_statuses,omitempty"`
	ContainerIDs   []string   `json:"container_ids,omitempty"`
	TagsAll        []string   `json:"tags_all,omitempty"`
	DateRange      *DateRange `json:"date_range,omitempty"`
}

// IsEmpty reports whether no structured filter is set.
func (f Filters) IsEmpty() bool {
	return len(f.CreatorIDs) == 0 && len(f.MediaKinds) == 0 && len(f.AspectRatios) == 0 &&
		len(f.ReviewStatuses) == 0 && len(f.ContainerIDs) == 0 && len(f.TagsAll) == 0 &&
		f.DateRange == nil
}

func (f Filters) clone() Filters {
	out := Filters{
		CreatorIDs:     slices.Clone(f.CreatorIDs),
		MediaKinds:     slices.Clone(f.MediaKinds),
		AspectRatios:   slices.Clone(f.AspectRatios),
		ReviewStatuses: slices.Clone(f.ReviewStatuses),
		ContainerIDs:   slices.Clone(f.ContainerIDs),
		TagsAll:        slices.Clone(f.TagsAll),
	}
	if f.DateRange != nil {
		r := *f.DateRange
		out.DateRange = &r
	}
	return out
}

// Descriptor is one search invocation. Never mutated after New.
type Descriptor struct {
	freeText  string
	selected  []facet.Selection
	filters   Filters
	sortOrder order.Order
}

// New validates and normalizes a descriptor. Free text is trimmed; empty order means Newest.
// Facet values are not validated here: unknown ones match nothing at evaluation time.
func New(freeText string, selected []facet.Selection, filters Filters, o order.Order) (Descriptor, error) {
	freeText = strings.TrimSpace(freeText)
	if len(freeText) > MaxQueryLength {
		return Descriptor{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidQuery, MaxQueryLength)
	}
	if len(selected) > MaxSelections {
		return Descriptor{}, fmt.Errorf("%w: too many facet selections (max %d)", domain.ErrInvalidQuery, MaxSelections)
	}
	if o == "" {
		o = order.Newest
	}
	if !o.IsValid() {
		return Descriptor{}, fmt.Errorf("%w: invalid order %q", domain.ErrInvalidQuery, o)
	}

	return Descriptor{
		freeText:  freeText,
		selected:  slices.Clone(selected),
		filters:   filters.clone(),
		sortOrder: o,
	}, nil
}

// FreeText returns the trimmed free-text query.
func (d Descriptor) FreeText() string { return d.freeText }

// Selected returns the facet selections. Callers must not modify the slice.
func (d Descriptor) Selected() []facet.Selection { return d.selected }

// Filters returns the structured filters.
func (d Descriptor) Filters() Filters { return d.filters }

// Order returns the presentation order.
func (d Descriptor) Order() order.Order { return d.sortOrder }

// WithSelection returns a copy of d with one more facet selected.
func (d Descriptor) WithSelection(sel facet.Selection) Descriptor {
	out := d
	out.selected = append(slices.Clone(d.selected), sel)
	out.filters = d.filters.clone()
	return out
}

// WithFilters returns a copy of d with filters replaced.
func (d Descriptor) WithFilters(f Filters) Descriptor {
	out := d
	out.selected = slices.Clone(d.selected)
	out.filters = f.clone()
	return out
}

// Fingerprint returns a stable key for caching. Selection order does not matter.
func (d Descriptor) Fingerprint() string {
	sel := slices.Clone(d.selected)
	slices.SortFunc(sel, func(a, b facet.Selection) int {
		return cmp.Or(cmp.Compare(a.Field, b.Field), cmp.Compare(a.Value, b.Value))
	})
	payload := struct {
		Q string            `json:"q"`
		S []facet.Selection `json:"s"`
		F Filters           `json:"f"`
		O order.Order       `json:"o"`
	}{d.freeText, sel, d.filters, d.sortOrder}

	// Marshal cannot fail on these types.
	b, _ := json.Marshal(payload)
	return string(b)
}
