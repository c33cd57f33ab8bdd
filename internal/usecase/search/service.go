package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/assetdex/internal/domain/asset"
	"github.com/kailas-cloud/assetdex/internal/domain/facet"
	"github.com/kailas-cloud/assetdex/internal/domain/search/query"
	"github.com/kailas-cloud/assetdex/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/assetdex/internal/logger"
	"github.com/kailas-cloud/assetdex/internal/metrics"
)

// Service runs faceted searches over an in-memory corpus.
// The corpus and taxonomy are read-only, so Search is safe for concurrent use.
type Service struct {
	corpus   *asset.Corpus
	taxonomy *facet.Taxonomy
	matcher  *Matcher
	clock    Clock
	logger   *zap.Logger
}

var _ Searcher = (*Service)(nil)

// New creates a search service. clock defaults to time.Now.
func New(corpus *asset.Corpus, taxonomy *facet.Taxonomy, matcher *Matcher) *Service {
	return &Service{
		corpus:   corpus,
		taxonomy: taxonomy,
		matcher:  matcher,
		clock:    time.Now,
		logger:   zap.NewNop(),
	}
}

// WithClock overrides the clock used for date buckets.
func (s *Service) WithClock(c Clock) *Service {
	if c != nil {
		s.clock = c
	}
	return s
}

// WithLogger sets the fallback logger used when the context carries none.
func (s *Service) WithLogger(l *zap.Logger) *Service {
	s.logger = logpkg.Component(l, "search")
	return s
}

// Taxonomy returns the facet taxonomy the service counts against.
func (s *Service) Taxonomy() *facet.Taxonomy { return s.taxonomy }

// Corpus returns the scanned corpus.
func (s *Service) Corpus() *asset.Corpus { return s.corpus }

// Search filters, orders and facet-counts the corpus for d.
// Malformed filters never fail the search: they match nothing and are logged.
// The only error is a done context.
func (s *Service) Search(ctx context.Context, d query.Descriptor) (result.Set, error) {
	if err := ctx.Err(); err != nil {
		return result.Set{}, fmt.Errorf("search: %w", err)
	}

	start := time.Now()
	now := s.clock()

	text := textStage(s.corpus, d.FreeText(), s.matcher)
	p := compile(d, now)
	final := p.apply(text, "")
	facets := drillDown(text, p, final, s.taxonomy, now)
	final = sortCandidates(final, d)

	set := result.Set{Hits: hitsOf(final), Facets: facets}
	s.observe(ctx, d, set, p, time.Since(start))
	return set, nil
}

func (s *Service) observe(ctx context.Context, d query.Descriptor, set result.Set, p plan, took time.Duration) {
	outcome := "hits"
	if set.NoMatches() {
		outcome = "no_matches"
	}
	metrics.SearchRequestsTotal.WithLabelValues(string(d.Order()), outcome).Inc()
	metrics.SearchDuration.Observe(took.Seconds())
	metrics.SearchResultSize.Observe(float64(len(set.Hits)))

	log := logpkg.FromContextOr(ctx, s.logger)
	for _, err := range p.problems {
		metrics.SearchToleratedFiltersTotal.Inc()
		log.Debug("Filter matches nothing", zap.Error(err))
	}
	log.Debug("Search executed",
		zap.Int("free_text_len", len(d.FreeText())),
		zap.Int("selections", len(d.Selected())),
		zap.Int("hits", len(set.Hits)),
		zap.Duration("duration", took),
	)
}
