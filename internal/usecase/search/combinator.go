package search

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/kailas-cloud/assetdex/internal/domain/asset"
	"github.com/kailas-cloud/assetdex/internal/domain/facet"
	"github.com/kailas-cloud/assetdex/internal/domain/search/order"
	"github.com/kailas-cloud/assetdex/internal/domain/search/query"
	"github.com/kailas-cloud/assetdex/internal/domain/search/result"
)

// candidate is a hit with its corpus position, the final tie-breaker.
type candidate struct {
	hit result.Hit
	pos int
}

// group is one conjunct of the filter plan. field is set for facet-picker groups only,
// so facet counting can drop a field's own group.
type group struct {
	field facet.Field
	pred  facet.Predicate
}

// plan is a compiled descriptor. problems lists the query errors that were
// tolerated by compiling the offending filter to facet.Never.
type plan struct {
	groups   []group
	selected map[facet.Field]bool
	problems []error
}

// Filter applies free text, facet selections and structured filters to the corpus
// and returns the ordered hits.
func Filter(c *asset.Corpus, d query.Descriptor, m *Matcher, now time.Time) []result.Hit {
	text := textStage(c, d.FreeText(), m)
	p := compile(d, now)
	return hitsOf(sortCandidates(p.apply(text, ""), d))
}

// textStage keeps the assets matching freeText, best score first.
// Empty text keeps every asset in corpus order with the neutral score.
func textStage(c *asset.Corpus, freeText string, m *Matcher) []candidate {
	assets := c.Assets()
	out := make([]candidate, 0, len(assets))
	if freeText == "" {
		for i, a := range assets {
			out = append(out, candidate{hit: result.NewHit(a, result.NeutralScore), pos: i})
		}
		return out
	}

	for i, a := range assets {
		if score, ok := m.Match(a, freeText); ok {
			out = append(out, candidate{hit: result.NewHit(a, score), pos: i})
		}
	}
	slices.SortStableFunc(out, byScore)
	return out
}

// compile turns a descriptor into conjunctive groups.
// Facet-picker values of one field are OR-ed; structured multi-value filters are OR-ed
// within themselves; TagsAll is AND-ed.
func compile(d query.Descriptor, now time.Time) plan {
	p := plan{selected: make(map[facet.Field]bool)}

	var fieldOrder []facet.Field
	byField := make(map[facet.Field][]facet.Predicate)
	for _, sel := range d.Selected() {
		pred, err := facet.Compile(sel.Field, sel.Value, now)
		if err != nil {
			p.problems = append(p.problems, err)
			pred = facet.Never
		}
		if _, ok := byField[sel.Field]; !ok {
			fieldOrder = append(fieldOrder, sel.Field)
		}
		byField[sel.Field] = append(byField[sel.Field], pred)
	}
	for _, f := range fieldOrder {
		p.groups = append(p.groups, group{field: f, pred: facet.AnyOf(byField[f]...)})
		p.selected[f] = true
	}

	f := d.Filters()
	p.addAnyOf(facet.Creator, f.CreatorIDs, now)
	p.addAnyOf(facet.MediaKind, f.MediaKinds, now)
	p.addAnyOf(facet.AspectRatio, f.AspectRatios, now)
	p.addAnyOf(facet.ReviewStatus, f.ReviewStatuses, now)

	if len(f.ContainerIDs) > 0 {
		ids := slices.Clone(f.ContainerIDs)
		p.groups = append(p.groups, group{pred: func(a asset.Asset) bool {
			return slices.ContainsFunc(ids, func(id string) bool {
				return id != "" && strings.EqualFold(id, a.ContainerID())
			})
		}})
	}

	if len(f.TagsAll) > 0 {
		preds := make([]facet.Predicate, 0, len(f.TagsAll))
		for _, tag := range f.TagsAll {
			pred, err := facet.Compile(facet.Tag, tag, now)
			if err != nil {
				p.problems = append(p.problems, fmt.Errorf("tags_all: %w", err))
				pred = facet.Never
			}
			preds = append(preds, pred)
		}
		p.groups = append(p.groups, group{pred: facet.AllOf(preds...)})
	}

	if r := f.DateRange; r != nil {
		if r.Inverted() {
			p.problems = append(p.problems, fmt.Errorf("date_range: to %s precedes from %s",
				r.To.Format(time.RFC3339), r.From.Format(time.RFC3339)))
			p.groups = append(p.groups, group{pred: facet.Never})
		} else {
			from, to := r.From, r.To
			p.groups = append(p.groups, group{pred: func(a asset.Asset) bool {
				t := a.CreatedAt()
				return (from.IsZero() || !t.Before(from)) && (to.IsZero() || !t.After(to))
			}})
		}
	}

	return p
}

func (p *plan) addAnyOf(field facet.Field, values []string, now time.Time) {
	if len(values) == 0 {
		return
	}
	preds := make([]facet.Predicate, 0, len(values))
	for _, v := range values {
		pred, err := facet.Compile(field, v, now)
		if err != nil {
			p.problems = append(p.problems, err)
			continue
		}
		preds = append(preds, pred)
	}
	// All values malformed: AnyOf() matches nothing.
	p.groups = append(p.groups, group{pred: facet.AnyOf(preds...)})
}

// apply keeps candidates passing every group except the facet-picker group of skip.
func (p *plan) apply(in []candidate, skip facet.Field) []candidate {
	out := make([]candidate, 0, len(in))
next:
	for _, c := range in {
		for _, g := range p.groups {
			if skip != "" && g.field == skip {
				continue
			}
			if !g.pred(c.hit.Asset()) {
				continue next
			}
		}
		out = append(out, c)
	}
	return out
}

// sortCandidates applies the presentation order. Relevance only applies with free text;
// otherwise newest-first. Corpus position breaks every tie.
func sortCandidates(cs []candidate, d query.Descriptor) []candidate {
	o := d.Order()
	if o == order.Relevance && d.FreeText() == "" {
		o = order.Newest
	}

	var cmpFn func(a, b candidate) int
	switch o {
	case order.Relevance:
		cmpFn = byScore
	case order.Oldest:
		cmpFn = func(a, b candidate) int {
			return cmp.Or(a.hit.Asset().CreatedAt().Compare(b.hit.Asset().CreatedAt()), cmp.Compare(a.pos, b.pos))
		}
	case order.Name:
		cmpFn = func(a, b candidate) int {
			return cmp.Or(
				cmp.Compare(strings.ToLower(a.hit.Asset().DisplayName()), strings.ToLower(b.hit.Asset().DisplayName())),
				cmp.Compare(a.pos, b.pos),
			)
		}
	default:
		cmpFn = func(a, b candidate) int {
			return cmp.Or(b.hit.Asset().CreatedAt().Compare(a.hit.Asset().CreatedAt()), cmp.Compare(a.pos, b.pos))
		}
	}

	slices.SortFunc(cs, cmpFn)
	return cs
}

func byScore(a, b candidate) int {
	return cmp.Or(cmp.Compare(a.hit.Score(), b.hit.Score()), cmp.Compare(a.pos, b.pos))
}

func hitsOf(cs []candidate) []result.Hit {
	out := make([]result.Hit, len(cs))
	for i, c := range cs {
		out[i] = c.hit
	}
	return out
}
