package corpus

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/assetdex/internal/domain/asset"
	"github.com/kailas-cloud/assetdex/internal/domain/facet"
	logpkg "github.com/kailas-cloud/assetdex/internal/logger"
)

// Fixture is a decoded corpus file.
type Fixture struct {
	Corpus *asset.Corpus
	// Facets are the definitions declared by the file; empty when it declares none.
	Facets []facet.Definition
}

// Loader reads asset fixtures from YAML or JSON files.
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a fixture loader.
func NewLoader(l *zap.Logger) *Loader {
	return &Loader{logger: logpkg.Component(l, "corpus")}
}

// Load reads and validates the fixture at path.
func (l *Loader) Load(path string) (Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("open corpus: %w", err)
	}
	defer func() { _ = f.Close() }()

	fx, err := l.Decode(f)
	if err != nil {
		return Fixture{}, fmt.Errorf("load corpus %s: %w", path, err)
	}
	l.logger.Info("Corpus loaded",
		zap.String("path", path),
		zap.Int("assets", fx.Corpus.Len()),
		zap.Int("facet_groups", len(fx.Facets)),
	)
	return fx, nil
}

// Decode parses a fixture document. JSON is accepted as a YAML subset.
// Every invalid record is reported, not just the first.
func (l *Loader) Decode(r io.Reader) (Fixture, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Fixture{}, fmt.Errorf("read corpus: %w", err)
	}

	var file fileDTO
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, &file); err != nil {
			return Fixture{}, fmt.Errorf("parse corpus: %w", err)
		}
	}

	assets := make([]asset.Asset, 0, len(file.Assets))
	var errs []error
	for _, dto := range file.Assets {
		a, err := dto.toDomain()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		assets = append(assets, a)
	}
	if len(errs) > 0 {
		return Fixture{}, errors.Join(errs...)
	}

	c, err := asset.LoadCorpus(assets)
	if err != nil {
		return Fixture{}, err
	}
	return Fixture{Corpus: c, Facets: file.Facets}, nil
}

// Taxonomy builds the facet taxonomy for the fixture. Declared groups come first
// (defaults when the file declares none), then creator and tag groups derived from
// the corpus for fields not declared.
func (fx Fixture) Taxonomy() (*facet.Taxonomy, error) {
	defs := fx.Facets
	if len(defs) == 0 {
		defs = facet.DefaultDefinitions()
	}
	defs = slices.Clone(defs)
	for _, derived := range facet.DefinitionsFromCorpus(fx.Corpus) {
		declared := slices.ContainsFunc(defs, func(d facet.Definition) bool { return d.Field == derived.Field })
		if !declared && len(derived.Values) > 0 {
			defs = append(defs, derived)
		}
	}

	tax, err := facet.NewTaxonomy(defs)
	if err != nil {
		return nil, fmt.Errorf("build taxonomy: %w", err)
	}
	return tax, nil
}
