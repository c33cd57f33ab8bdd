package assetdex

import (
	"context"
	"errors"
	"fmt"

	"github.com/panjf2000/ants/v2"

	"github.com/kailas-cloud/assetdex/internal/domain/asset"
	"github.com/kailas-cloud/assetdex/internal/domain/facet"
	corpusrepo "github.com/kailas-cloud/assetdex/internal/repository/corpus"
	searchuc "github.com/kailas-cloud/assetdex/internal/usecase/search"
	sessionuc "github.com/kailas-cloud/assetdex/internal/usecase/session"
)

// Client is the assetdex SDK entry point. The catalog is loaded once and never mutated.
type Client struct {
	corpus   *asset.Corpus
	taxonomy *facet.Taxonomy
	searcher searchuc.Searcher
	pool     *ants.Pool
	sessions *sessionuc.Registry
}

// New loads the catalog and wires the search engine.
// Exactly one of WithCorpusFile, WithCorpusReader or WithAssets is required.
func New(opts ...Option) (*Client, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o.apply(cfg)
	}

	fx, err := loadFixture(cfg)
	if err != nil {
		return nil, err
	}
	return wireClient(fx, cfg)
}

func loadFixture(cfg *clientConfig) (corpusrepo.Fixture, error) {
	sources := 0
	for _, set := range []bool{cfg.corpusPath != "", cfg.corpusReader != nil, len(cfg.assets) > 0} {
		if set {
			sources++
		}
	}
	if sources != 1 {
		return corpusrepo.Fixture{}, errors.New(
			"assetdex: exactly one corpus source required (use WithCorpusFile, WithCorpusReader or WithAssets)",
		)
	}

	loader := corpusrepo.NewLoader(cfg.logger)
	switch {
	case cfg.corpusPath != "":
		fx, err := loader.Load(cfg.corpusPath)
		if err != nil {
			return corpusrepo.Fixture{}, fmt.Errorf("assetdex: %w", err)
		}
		return fx, nil
	case cfg.corpusReader != nil:
		fx, err := loader.Decode(cfg.corpusReader)
		if err != nil {
			return corpusrepo.Fixture{}, fmt.Errorf("assetdex: %w", err)
		}
		return fx, nil
	}

	assets := make([]asset.Asset, 0, len(cfg.assets))
	var errs []error
	for _, a := range cfg.assets {
		d, err := toDomainAsset(a)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		assets = append(assets, d)
	}
	if len(errs) > 0 {
		return corpusrepo.Fixture{}, fmt.Errorf("assetdex: %w", errors.Join(errs...))
	}
	c, err := asset.LoadCorpus(assets)
	if err != nil {
		return corpusrepo.Fixture{}, fmt.Errorf("assetdex: %w", err)
	}
	return corpusrepo.Fixture{Corpus: c}, nil
}

func wireClient(fx corpusrepo.Fixture, cfg *clientConfig) (*Client, error) {
	tax, err := fx.Taxonomy()
	if err != nil {
		return nil, fmt.Errorf("assetdex: %w", err)
	}
	matcher, err := searchuc.NewMatcher(cfg.fuzzyThreshold, cfg.minFuzzyLength)
	if err != nil {
		return nil, fmt.Errorf("assetdex: %w", err)
	}

	svc := searchuc.New(fx.Corpus, tax, matcher).WithClock(cfg.clock).WithLogger(cfg.logger)
	var searcher searchuc.Searcher = svc
	if cfg.cacheSize > 0 {
		searcher = searchuc.NewCachedSearcher(svc, cfg.cacheSize, cfg.cacheTTL, cfg.clock)
	}

	pool, err := ants.NewPool(cfg.poolSize, ants.WithNonblocking(true))
	if err != nil {
		return nil, fmt.Errorf("assetdex: create pool: %w", err)
	}
	reg, err := sessionuc.NewRegistry(searcher, pool, sessionuc.Options{
		MinLatency: cfg.minLatency,
		MaxLatency: cfg.maxLatency,
	}, cfg.maxSessions, cfg.idleTTL)
	if err != nil {
		pool.Release()
		return nil, fmt.Errorf("assetdex: %w", err)
	}

	return &Client{
		corpus:   fx.Corpus,
		taxonomy: tax,
		searcher: searcher,
		pool:     pool,
		sessions: reg.WithLogger(cfg.logger),
	}, nil
}

// Close tears down every session and releases the worker pool.
func (c *Client) Close() {
	c.sessions.Close()
	c.pool.Release()
}

// Len returns the number of assets in the catalog.
func (c *Client) Len() int { return c.corpus.Len() }

// Search runs one query synchronously.
func (c *Client) Search(ctx context.Context, q Query) (Result, error) {
	d, err := toDescriptor(q)
	if err != nil {
		return Result{}, err
	}
	set, err := c.searcher.Search(ctx, d)
	if err != nil {
		return Result{}, fmt.Errorf("search: %w", err)
	}
	return fromSet(set), nil
}

// Query starts a fluent query.
func (c *Client) Query() *QueryBuilder {
	return &QueryBuilder{client: c}
}

// Facets returns the facet taxonomy in presentation order.
func (c *Client) Facets() []FacetGroup {
	return fromDefinitions(c.taxonomy.Definitions())
}
