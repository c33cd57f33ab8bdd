package assetdex

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

var testNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func testAssets() []Asset {
	return []Asset{
		{ID: "a1", DisplayName: "Courtside dunk", CreatorID: "c1", CreatorName: "Ana Ruiz",
			Kind: "image", CreatedAt: testNow.AddDate(0, 0, -1), Tags: []string{"Lebron James", "Nike"}},
		{ID: "a2", DisplayName: "Locker room", CreatorID: "c2", CreatorName: "Ben Okafor",
			Kind: "photo", CreatedAt: testNow.AddDate(0, 0, -5), Tags: []string{"Lebron James", "Gatorade"}},
		{ID: "a3", DisplayName: "Sideline interview", CreatorID: "c3", CreatorName: "Cleo Park",
			Kind: "video", CreatedAt: testNow.AddDate(0, 0, -20), AspectRatio: "9:16",
			Tags: []string{"Interview", "Nike"}, ContainerID: "g1"},
	}
}

func newTestClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	base := []Option{WithAssets(testAssets()...), WithClock(func() time.Time { return testNow })}
	c, err := New(append(base, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func ids(r Result) []string {
	out := make([]string, len(r.Hits))
	for i, h := range r.Hits {
		out[i] = h.Asset.ID
	}
	return out
}

func equal(a, b []string) bool {
	return strings.Join(a, ",") == strings.Join(b, ",")
}

// --- Construction ---

func TestNew_NoCorpus(t *testing.T) {
	if _, err := New(); err == nil {
		t.Fatal("expected error when no corpus source is given")
	}
}

func TestNew_TwoSources(t *testing.T) {
	_, err := New(WithAssets(testAssets()...), WithCorpusFile("data/catalog.yaml"))
	if err == nil {
		t.Fatal("expected error for two corpus sources")
	}
}

func TestNew_InvalidAssets(t *testing.T) {
	_, err := New(WithAssets(
		Asset{ID: "x1", Kind: "hologram", CreatedAt: testNow},
		Asset{ID: "x2", Kind: "image"},
	))
	if !errors.Is(err, ErrInvalidAsset) {
		t.Fatalf("err = %v, want ErrInvalidAsset", err)
	}
	if !strings.Contains(err.Error(), "x1") || !strings.Contains(err.Error(), "x2") {
		t.Errorf("every invalid record should be reported: %v", err)
	}
}

func TestNew_DuplicateIDs(t *testing.T) {
	a := testAssets()[0]
	_, err := New(WithAssets(a, a))
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("err = %v, want ErrDuplicateID", err)
	}
}

func TestNew_BadThreshold(t *testing.T) {
	_, err := New(WithAssets(testAssets()...), WithFuzzyThreshold(1.5, 2))
	if err == nil {
		t.Fatal("expected error for threshold outside (0,1)")
	}
}

func TestNew_CorpusReader(t *testing.T) {
	doc := `{"assets":[{"id":"j1","display_name":"Brief","creator_id":"c1","media_kind":"document","created_at":"2026-10-01"}]}`
	c, err := New(WithCorpusReader(strings.NewReader(doc)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestNew_CorpusFile(t *testing.T) {
	c, err := New(WithCorpusFile("internal/repository/corpus/testdata/catalog.yaml"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()
	if c.Len() == 0 {
		t.Error("expected assets from the fixture")
	}
}

// --- Search ---

func TestSearch_FreeTextAndTagsAll(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	res, err := c.Search(ctx, Query{Text: "lebron"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if got := ids(res); !equal(got, []string{"a1", "a2"}) {
		t.Fatalf("hits = %v", got)
	}
	if n, _ := res.Count("tag", "Gatorade"); n != 1 {
		t.Errorf("Gatorade = %d, want 1", n)
	}

	res, err = c.Search(ctx, Query{Text: "lebron", Filters: Filters{TagsAll: []string{"Nike"}}})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if got := ids(res); !equal(got, []string{"a1"}) {
		t.Fatalf("hits = %v", got)
	}
	if n, ok := res.Count("tag", "Gatorade"); !ok || n != 0 {
		t.Errorf("Gatorade = %d (present %v), want 0", n, ok)
	}
}

func TestSearch_PhotoAliasStoredAsImage(t *testing.T) {
	c := newTestClient(t)

	res, err := c.Search(context.Background(), Query{Facets: []Selection{{Field: "kind", Value: "image"}}})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if got := ids(res); !equal(got, []string{"a1", "a2"}) {
		t.Errorf("hits = %v", got)
	}
	if res.Hits[1].Asset.Kind != "image" {
		t.Errorf("kind = %q, want image", res.Hits[1].Asset.Kind)
	}
}

func TestSearch_ScoreWithoutFreeText(t *testing.T) {
	c := newTestClient(t)

	res, err := c.Search(context.Background(), Query{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for _, h := range res.Hits {
		if h.Score != 0 {
			t.Errorf("%s: score = %f, want 0", h.Asset.ID, h.Score)
		}
	}
}

func TestSearch_UnknownFacetField(t *testing.T) {
	c := newTestClient(t)

	_, err := c.Search(context.Background(), Query{Facets: []Selection{{Field: "colour", Value: "red"}}})
	if !errors.Is(err, ErrUnknownFacet) {
		t.Fatalf("err = %v, want ErrUnknownFacet", err)
	}
}

func TestSearch_InvalidOrder(t *testing.T) {
	c := newTestClient(t)

	_, err := c.Search(context.Background(), Query{Order: "random"})
	if !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("err = %v, want ErrInvalidQuery", err)
	}
}

func TestSearch_DateRange(t *testing.T) {
	c := newTestClient(t)

	res, err := c.Search(context.Background(), Query{Filters: Filters{From: testNow.AddDate(0, 0, -7)}})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if got := ids(res); !equal(got, []string{"a1", "a2"}) {
		t.Errorf("hits = %v", got)
	}
}

func TestSearch_WithResultCache(t *testing.T) {
	c := newTestClient(t, WithResultCache(8, time.Minute))

	for range 2 {
		res, err := c.Search(context.Background(), Query{Text: "interview"})
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if got := ids(res); !equal(got, []string{"a3"}) {
			t.Errorf("hits = %v", got)
		}
	}
}

func TestQueryBuilder(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	res, err := c.Query().Facet("tags", "Nike").Order(OrderName).Do(ctx)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if got := ids(res); !equal(got, []string{"a1", "a3"}) {
		t.Errorf("hits = %v", got)
	}

	res, err = c.Query().Kinds("video").InContainer("g1").Do(ctx)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if got := ids(res); !equal(got, []string{"a3"}) {
		t.Errorf("hits = %v", got)
	}

	res, err = c.Query().Limit(1).Do(ctx)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if len(res.Hits) != 1 {
		t.Errorf("hits = %d, want 1", len(res.Hits))
	}
	if n, _ := res.Count("tag", "Nike"); n != 2 {
		t.Errorf("Nike = %d, want counts over the full result", n)
	}

	q := c.Query().Text("dunk").Creators("c1").TagsAll("Nike").
		Between(testNow.AddDate(0, 0, -2), testNow).Build()
	if q.Text != "dunk" || len(q.Filters.CreatorIDs) != 1 || q.Filters.From.IsZero() {
		t.Errorf("Build() = %+v", q)
	}
}

func TestFacets(t *testing.T) {
	c := newTestClient(t)

	groups := c.Facets()
	byField := make(map[string]FacetGroup, len(groups))
	for _, g := range groups {
		byField[g.Field] = g
	}
	if len(byField["creator"].Values) != 3 {
		t.Errorf("creator values = %d, want 3", len(byField["creator"].Values))
	}
	if len(byField["tag"].Values) != 4 {
		t.Errorf("tag values = %d, want 4", len(byField["tag"].Values))
	}
	if _, ok := byField["date_bucket"]; !ok {
		t.Error("date_bucket group missing")
	}
}

// --- Sessions ---

func TestSession_OnlyLatestDelivered(t *testing.T) {
	c := newTestClient(t, WithSessionLatency(50*time.Millisecond, 50*time.Millisecond))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s, err := c.NewSession()
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	defer s.Close()

	delivered := make(chan uint64, 2)
	s.OnResult(func(seq uint64, _ Result, _ error) { delivered <- seq })

	first, err := s.Submit(Query{Text: "le"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	second, err := s.Submit(Query{Text: "lebron"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if _, err := first.Wait(ctx); !errors.Is(err, ErrSuperseded) {
		t.Errorf("first: err = %v, want ErrSuperseded", err)
	}
	res, err := second.Wait(ctx)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if got := ids(res); !equal(got, []string{"a1", "a2"}) {
		t.Errorf("hits = %v", got)
	}

	if seq := <-delivered; seq != 2 {
		t.Errorf("delivered seq = %d, want 2", seq)
	}
	select {
	case seq := <-delivered:
		t.Errorf("unexpected second delivery of seq %d", seq)
	default:
	}

	latest, seq, ok := s.Latest()
	if !ok || seq != 2 || len(latest.Hits) != 2 {
		t.Errorf("Latest = %v, %d, %v", ids(latest), seq, ok)
	}
	if s.State() != "idle" {
		t.Errorf("State = %q, want idle", s.State())
	}
}

func TestSession_Close(t *testing.T) {
	c := newTestClient(t, WithSessionLatency(time.Millisecond, time.Millisecond))

	s, err := c.NewSession()
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if s.ID() == "" {
		t.Error("empty session id")
	}
	s.Close()

	if _, err := s.Submit(Query{Text: "x"}); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("err = %v, want ErrSessionClosed", err)
	}
	s.Close()
}

func TestSession_StaysOpenWhileUsed(t *testing.T) {
	c := newTestClient(t,
		WithSessionLatency(time.Millisecond, time.Millisecond),
		WithSessionLimits(4, 8, 300*time.Millisecond),
	)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s, err := c.NewSession()
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	defer s.Close()

	for i := range 8 {
		h, err := s.Submit(Query{Text: "lebron"})
		if err != nil {
			t.Fatalf("submit %d after %d ms of use: %v", i, i*100, err)
		}
		if _, err := h.Wait(ctx); err != nil {
			t.Fatalf("wait %d: %v", i, err)
		}
		time.Sleep(100 * time.Millisecond)
	}
	if _, seq, ok := s.Latest(); !ok || seq != 8 {
		t.Errorf("Latest seq = %d (ok %v), want 8", seq, ok)
	}
}

func TestSession_InvalidQuery(t *testing.T) {
	c := newTestClient(t)

	s, err := c.NewSession()
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	defer s.Close()

	if _, err := s.Submit(Query{Order: "random"}); !errors.Is(err, ErrInvalidQuery) {
		t.Errorf("err = %v, want ErrInvalidQuery", err)
	}
}
