package assetdex

import (
	"io"
	"time"

	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	corpusPath   string
	corpusReader io.Reader
	assets       []Asset

	fuzzyThreshold float64
	minFuzzyLength int
	cacheSize      int
	cacheTTL       time.Duration

	minLatency  time.Duration
	maxLatency  time.Duration
	poolSize    int
	maxSessions int
	idleTTL     time.Duration

	clock  func() time.Time
	logger *zap.Logger
}

func defaultConfig() *clientConfig {
	return &clientConfig{
		poolSize:    16,
		maxSessions: 64,
		idleTTL:     15 * time.Minute,
		cacheTTL:    5 * time.Minute,
		clock:       time.Now,
		logger:      zap.NewNop(),
	}
}

// WithCorpusFile loads the catalog from a YAML or JSON fixture.
func WithCorpusFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.corpusPath = path
	})
}

// WithCorpusReader decodes the catalog from r (YAML or JSON).
func WithCorpusReader(r io.Reader) Option {
	return optionFunc(func(c *clientConfig) {
		c.corpusReader = r
	})
}

// WithAssets builds the catalog from in-memory records.
func WithAssets(assets ...Asset) Option {
	return optionFunc(func(c *clientConfig) {
		c.assets = append(c.assets, assets...)
	})
}

// WithFuzzyThreshold sets the maximum edit distance per query rune, in (0, 1).
// minLength is the query length below which literal containment is required.
func WithFuzzyThreshold(threshold float64, minLength int) Option {
	return optionFunc(func(c *clientConfig) {
		c.fuzzyThreshold = threshold
		c.minFuzzyLength = minLength
	})
}

// WithResultCache memoizes up to size results for ttl.
func WithResultCache(size int, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheSize = size
		c.cacheTTL = ttl
	})
}

// WithSessionLatency sets the simulated evaluation latency range of sessions.
func WithSessionLatency(minLatency, maxLatency time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.minLatency = minLatency
		c.maxLatency = maxLatency
	})
}

// WithSessionLimits bounds the session worker pool, the number of live sessions
// and their idle lifetime.
func WithSessionLimits(poolSize, maxSessions int, idleTTL time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.poolSize = poolSize
		c.maxSessions = maxSessions
		c.idleTTL = idleTTL
	})
}

// WithClock sets the time source used for date buckets.
func WithClock(now func() time.Time) Option {
	return optionFunc(func(c *clientConfig) {
		if now != nil {
			c.clock = now
		}
	})
}

// WithLogger sets a zap logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		if l != nil {
			c.logger = l
		}
	})
}
