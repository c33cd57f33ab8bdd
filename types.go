package assetdex

import "time"

// Order controls result ordering.
type Order string

// Order constants.
const (
	OrderNewest    Order = "newest"
	OrderOldest    Order = "oldest"
	OrderRelevance Order = "relevance"
	OrderName      Order = "name"
)

// Asset is one catalog record for WithAssets.
// Kind, AspectRatio and ReviewStatus use the fixture spellings ("image", "16:9", "approved").
// Empty AspectRatio and ReviewStatus default to 16:9 and approved.
type Asset struct {
	ID           string
	DisplayName  string
	CreatorID    string
	CreatorName  string
	Kind         string
	CreatedAt    time.Time
	AspectRatio  string
	ReviewStatus string
	Tags         []string
	ContainerID  string
}

// Selection is one picked facet value. Field accepts aliases such as "tags" or "kind".
type Selection struct {
	Field string
	Value string
}

// Filters are structured constraints. Multi-value fields match any listed value;
// TagsAll requires every tag. Zero From or To leaves that end open.
type Filters struct {
	CreatorIDs     []string
	MediaKinds     []string
	AspectRatios   []string
	ReviewStatuses []string
	ContainerIDs   []string
	TagsAll        []string
	From           time.Time
	To             time.Time
}

// Query is one search request.
type Query struct {
	// Text may carry field scopes such as "tags: nike".
	Text    string
	Facets  []Selection
	Filters Filters
	Order   Order
}

// Hit is one matching asset. Score is 0 for a perfect text match and for every hit
// when there is no free text.
type Hit struct {
	Asset Asset
	Score float64
}

// FacetCount is the number of hits selecting one facet value would keep.
type FacetCount struct {
	Field string
	Value string
	Label string
	Count int
}

// Result is the outcome of one search. Facets holds every taxonomy value, zero counts included.
type Result struct {
	Hits   []Hit
	Facets []FacetCount
}

// NoMatches reports an empty result.
func (r Result) NoMatches() bool { return len(r.Hits) == 0 }

// Count returns the facet count for field and value, false if the taxonomy lacks it.
func (r Result) Count(field, value string) (int, bool) {
	for _, fc := range r.Facets {
		if fc.Field == field && fc.Value == value {
			return fc.Count, true
		}
	}
	return 0, false
}

// FacetValue is one selectable value of a facet group.
type FacetValue struct {
	Value string
	Label string
}

// FacetGroup is one field of the taxonomy.
type FacetGroup struct {
	Field  string
	Label  string
	Values []FacetValue
}
