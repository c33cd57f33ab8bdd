package facet

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/kailas-cloud/assetdex/internal/domain"
	"github.com/kailas-cloud/assetdex/internal/domain/asset"
)

// Value is one selectable value of a facet group.
type Value struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
}

// Definition is a static facet group.
type Definition struct {
	Field  Field   `yaml:"field" json:"field"`
	Label  string  `yaml:"label" json:"label"`
	Values []Value `yaml:"values" json:"values"`
}

// Taxonomy is the validated, immutable set of facet definitions.
type Taxonomy struct {
	defs []Definition
	keys []Key
}

// NewTaxonomy validates definitions and builds a Taxonomy.
// Unknown fields, invalid values and duplicate (field, value) pairs are rejected.
func NewTaxonomy(defs []Definition) (*Taxonomy, error) {
	seenField := make(map[Field]bool, len(defs))
	seenKey := make(map[Key]bool)
	var keys []Key

	for _, d := range defs {
		if !d.Field.IsValid() {
			return nil, fmt.Errorf("%w: field %q", domain.ErrUnknownFacet, d.Field)
		}
		if seenField[d.Field] {
			return nil, fmt.Errorf("%w: field %q defined twice", domain.ErrUnknownFacet, d.Field)
		}
		seenField[d.Field] = true

		for _, v := range d.Values {
			// Any instant works here: compiling only validates the value.
			if _, err := Compile(d.Field, v.Value, time.Time{}); err != nil {
				return nil, fmt.Errorf("facet %q: %w", d.Field, err)
			}
			k := Key{Field: d.Field, Value: v.Value}
			if seenKey[k] {
				return nil, fmt.Errorf("%w: value %s defined twice", domain.ErrUnknownFacet, k)
			}
			seenKey[k] = true
			keys = append(keys, k)
		}
	}

	return &Taxonomy{defs: cloneDefinitions(defs), keys: keys}, nil
}

// MustTaxonomy builds a Taxonomy or panics.
func MustTaxonomy(defs []Definition) *Taxonomy {
	t, err := NewTaxonomy(defs)
	if err != nil {
		panic(err)
	}
	return t
}

// Definitions returns a copy of the facet groups.
func (t *Taxonomy) Definitions() []Definition { return cloneDefinitions(t.defs) }

// Keys returns every (field, value) in definition order.
func (t *Taxonomy) Keys() []Key { return slices.Clone(t.keys) }

// Predicates compiles every key against now.
func (t *Taxonomy) Predicates(now time.Time) map[Key]Predicate {
	out := make(map[Key]Predicate, len(t.keys))
	for _, k := range t.keys {
		// Values were validated in NewTaxonomy.
		p, _ := Compile(k.Field, k.Value, now)
		out[k] = p
	}
	return out
}

// DefaultDefinitions returns the static groups: media kind, aspect ratio, review status
// and date buckets.
func DefaultDefinitions() []Definition {
	return []Definition{
		{Field: MediaKind, Label: "Type", Values: []Value{
			{Value: string(asset.Image), Label: "Image"},
			{Value: string(asset.Video), Label: "Video"},
			{Value: string(asset.Audio), Label: "Audio"},
			{Value: string(asset.Document), Label: "Document"},
		}},
		{Field: AspectRatio, Label: "Aspect ratio", Values: []Value{
			{Value: string(asset.Square), Label: "Square (1:1)"},
			{Value: string(asset.Landscape), Label: "Landscape (16:9)"},
			{Value: string(asset.Portrait), Label: "Portrait (9:16)"},
			{Value: string(asset.Classic), Label: "Classic (4:3)"},
		}},
		{Field: ReviewStatus, Label: "Status", Values: []Value{
			{Value: string(asset.Approved), Label: "Approved"},
			{Value: string(asset.Pending), Label: "Pending"},
			{Value: string(asset.Draft), Label: "Draft"},
		}},
		{Field: DateBucket, Label: "Date", Values: []Value{
			{Value: string(Today), Label: "Today"},
			{Value: string(Week), Label: "Last 7 days"},
			{Value: string(Month), Label: "Last 30 days"},
			{Value: string(Year), Label: "Last year"},
		}},
	}
}

// DefinitionsFromCorpus derives the creator and tag groups from the corpus, in order
// of first appearance. Tags are deduplicated case-insensitively.
func DefinitionsFromCorpus(c *asset.Corpus) []Definition {
	creators := Definition{Field: Creator, Label: "Creator"}
	tags := Definition{Field: Tag, Label: "Tags"}
	seenCreator := make(map[string]bool)
	seenTag := make(map[string]bool)

	for _, a := range c.Assets() {
		if id := a.CreatorID(); id != "" && !seenCreator[strings.ToLower(id)] {
			seenCreator[strings.ToLower(id)] = true
			label := a.CreatorName()
			if label == "" {
				label = id
			}
			creators.Values = append(creators.Values, Value{Value: id, Label: label})
		}
		for _, tag := range a.Tags() {
			if !seenTag[strings.ToLower(tag)] {
				seenTag[strings.ToLower(tag)] = true
				tags.Values = append(tags.Values, Value{Value: tag, Label: tag})
			}
		}
	}

	return []Definition{creators, tags}
}

func cloneDefinitions(defs []Definition) []Definition {
	out := make([]Definition, len(defs))
	for i, d := range defs {
		out[i] = Definition{Field: d.Field, Label: d.Label, Values: slices.Clone(d.Values)}
	}
	return out
}
