package asset

import (
	"slices"

	"github.com/kailas-cloud/assetdex/internal/domain"
)

// Corpus is the ordered, read-only collection of assets the engine scans.
type Corpus struct {
	assets   []Asset
	position map[string]int
}

// LoadCorpus validates id uniqueness and builds a Corpus.
// All duplicated ids are reported at once, in first-seen order.
func LoadCorpus(assets []Asset) (*Corpus, error) {
	position := make(map[string]int, len(assets))
	var dups []string
	for i := range assets {
		id := assets[i].ID()
		if _, ok := position[id]; ok {
			if !slices.Contains(dups, id) {
				dups = append(dups, id)
			}
			continue
		}
		position[id] = i
	}
	if len(dups) > 0 {
		return nil, domain.NewDuplicateID(dups)
	}

	return &Corpus{assets: slices.Clone(assets), position: position}, nil
}

// Assets returns the assets in insertion order. Callers must not modify the slice.
func (c *Corpus) Assets() []Asset { return c.assets }

// Len returns the number of assets.
func (c *Corpus) Len() int { return len(c.assets) }

// Get returns the asset with the given id.
func (c *Corpus) Get(id string) (Asset, bool) {
	i, ok := c.position[id]
	if !ok {
		return Asset{}, false
	}
	return c.assets[i], true
}

// Position returns the insertion index of id, or -1 if absent.
func (c *Corpus) Position(id string) int {
	i, ok := c.position[id]
	if !ok {
		return -1
	}
	return i
}
