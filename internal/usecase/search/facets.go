package search

import (
	"time"

	"github.com/kailas-cloud/assetdex/internal/domain/asset"
	"github.com/kailas-cloud/assetdex/internal/domain/facet"
	"github.com/kailas-cloud/assetdex/internal/domain/search/result"
)

// CountFacets counts, for every taxonomy key, the assets of subset its predicate accepts.
// Zero counts are kept.
func CountFacets(subset []asset.Asset, tax *facet.Taxonomy, now time.Time) result.FacetCounts {
	preds := tax.Predicates(now)
	var out result.FacetCounts
	for _, d := range tax.Definitions() {
		for _, v := range d.Values {
			k := facet.Key{Field: d.Field, Value: v.Value}
			out = append(out, result.FacetCount{Key: k, Label: v.Label, Count: count(subset, preds[k])})
		}
	}
	return out
}

// drillDown computes counts against the filtered subset, except that a field with
// active picker selections is counted with its own group removed, so sibling values
// show what they would add.
func drillDown(text []candidate, p plan, final []candidate, tax *facet.Taxonomy, now time.Time) result.FacetCounts {
	counts := CountFacets(assetsOf(final), tax, now)
	if len(p.selected) == 0 {
		return counts
	}

	preds := tax.Predicates(now)
	relaxed := make(map[facet.Field][]asset.Asset, len(p.selected))
	for f := range p.selected {
		relaxed[f] = assetsOf(p.apply(text, f))
	}
	for i, fc := range counts {
		if sub, ok := relaxed[fc.Key.Field]; ok {
			counts[i].Count = count(sub, preds[fc.Key])
		}
	}
	return counts
}

func count(subset []asset.Asset, pred facet.Predicate) int {
	n := 0
	for _, a := range subset {
		if pred(a) {
			n++
		}
	}
	return n
}

func assetsOf(cs []candidate) []asset.Asset {
	out := make([]asset.Asset, len(cs))
	for i, c := range cs {
		out[i] = c.hit.Asset()
	}
	return out
}
