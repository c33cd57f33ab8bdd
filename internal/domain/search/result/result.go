package result

import (
	"github.com/kailas-cloud/assetdex/internal/domain/asset"
	"github.com/kailas-cloud/assetdex/internal/domain/facet"
)

// NeutralScore is the score of every hit when no free text was given.
const NeutralScore = 0.0

// Hit is a single search hit.
type Hit struct {
	asset asset.Asset
	score float64
}

// NewHit creates a search hit.
func NewHit(a asset.Asset, score float64) Hit {
	return Hit{asset: a, score: score}
}

// Asset returns the matched asset.
func (h Hit) Asset() asset.Asset { return h.asset }

// Score returns the match score; lower is better, 0 is exact.
func (h Hit) Score() float64 { return h.score }

// FacetCount is the number of hits one facet value would keep.
type FacetCount struct {
	Key   facet.Key
	Label string
	Count int
}

// FacetCounts holds one count per taxonomy key, zero counts included, in taxonomy order.
type FacetCounts []FacetCount

// Get returns the count for key.
func (c FacetCounts) Get(key facet.Key) (int, bool) {
	for _, fc := range c {
		if fc.Key == key {
			return fc.Count, true
		}
	}
	return 0, false
}

// Map returns the counts keyed by facet key.
func (c FacetCounts) Map() map[facet.Key]int {
	out := make(map[facet.Key]int, len(c))
	for _, fc := range c {
		out[fc.Key] = fc.Count
	}
	return out
}

// Set is the outcome of one search.
type Set struct {
	Hits   []Hit
	Facets FacetCounts
}

// NoMatches reports the "no matches" sentinel state.
func (s Set) NoMatches() bool { return len(s.Hits) == 0 }

// IDs returns hit ids in result order.
func (s Set) IDs() []string {
	ids := make([]string, len(s.Hits))
	for i, h := range s.Hits {
		ids[i] = h.asset.ID()
	}
	return ids
}
