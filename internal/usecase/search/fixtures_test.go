package search

import (
	"testing"
	"time"

	"github.com/kailas-cloud/assetdex/internal/domain/asset"
	"github.com/kailas-cloud/assetdex/internal/domain/facet"
	"github.com/kailas-cloud/assetdex/internal/domain/search/order"
	"github.com/kailas-cloud/assetdex/internal/domain/search/query"
	"github.com/kailas-cloud/assetdex/internal/domain/search/result"
)

var testNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func daysAgo(n int) time.Time { return testNow.AddDate(0, 0, -n) }

type assetOpt func(p *asset.Params)

func withTags(tags ...string) assetOpt { return func(p *asset.Params) { p.Tags = tags } }
func withKind(k asset.MediaKind) assetOpt { return func(p *asset.Params) { p.Kind = k } }
func withCreated(t time.Time) assetOpt  { return func(p *asset.Params) { p.CreatedAt = t } }
func withName(n string) assetOpt        { return func(p *asset.Params) { p.DisplayName = n } }
func withContainer(id string) assetOpt  { return func(p *asset.Params) { p.ContainerID = id } }
func withRatio(r asset.AspectRatio) assetOpt {
	return func(p *asset.Params) { p.AspectRatio = r }
}
func withCreator(id, name string) assetOpt {
	return func(p *asset.Params) { p.CreatorID, p.CreatorName = id, name }
}

func makeAsset(id string, opts ...assetOpt) asset.Asset {
	p := asset.Params{
		ID:           id,
		DisplayName:  "Asset " + id,
		CreatorID:    "c1",
		CreatorName:  "Ana Ruiz",
		Kind:         asset.Image,
		CreatedAt:    daysAgo(1),
		AspectRatio:  asset.Landscape,
		ReviewStatus: asset.Approved,
	}
	for _, o := range opts {
		o(&p)
	}
	return asset.Reconstruct(p)
}

func mustCorpus(t *testing.T, assets ...asset.Asset) *asset.Corpus {
	t.Helper()
	c, err := asset.LoadCorpus(assets)
	if err != nil {
		t.Fatalf("load corpus: %v", err)
	}
	return c
}

func mustMatcher(t *testing.T) *Matcher {
	t.Helper()
	m, err := NewMatcher(0, 0)
	if err != nil {
		t.Fatalf("new matcher: %v", err)
	}
	return m
}

func mustQuery(t *testing.T, text string, sel []facet.Selection, f query.Filters, o order.Order) query.Descriptor {
	t.Helper()
	d, err := query.New(text, sel, f, o)
	if err != nil {
		t.Fatalf("new query: %v", err)
	}
	return d
}

func mustTaxonomy(t *testing.T, c *asset.Corpus) *facet.Taxonomy {
	t.Helper()
	tax, err := facet.NewTaxonomy(append(facet.DefaultDefinitions(), facet.DefinitionsFromCorpus(c)...))
	if err != nil {
		t.Fatalf("new taxonomy: %v", err)
	}
	return tax
}

// catalog is a small console-like corpus shared by property tests.
func catalog(t *testing.T) *asset.Corpus {
	t.Helper()
	return mustCorpus(t,
		makeAsset("a1", withName("Courtside dunk"), withCreator("c1", "Ana Ruiz"),
			withTags("Lebron James", "Nike"), withCreated(daysAgo(1))),
		makeAsset("a2", withName("Locker room"), withCreator("c2", "Ben Okafor"),
			withTags("Lebron James", "Gatorade"), withCreated(daysAgo(5))),
		makeAsset("a3", withName("Sideline interview"), withCreator("c3", "Cleo Park"),
			withKind(asset.Video), withTags("Interview", "Nike"), withCreated(daysAgo(20)),
			withRatio(asset.Portrait)),
		makeAsset("a4", withName("Summer campaign"), withCreator("c1", "Ana Ruiz"),
			withKind(asset.Video), withTags("Marketing"), withCreated(daysAgo(200)), withContainer("g1")),
		makeAsset("a5", withName("Training montage"), withCreator("c2", "Ben Okafor"),
			withTags("Nike", "Gatorade", "Training"), withCreated(daysAgo(1)), withContainer("g1"),
			withRatio(asset.Square)),
	)
}

func hitIDs(hits []result.Hit) []string {
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.Asset().ID()
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
