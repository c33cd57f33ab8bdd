package session

import (
	"context"

	"github.com/kailas-cloud/assetdex/internal/domain/search/query"
	"github.com/kailas-cloud/assetdex/internal/domain/search/result"
)

// Searcher evaluates one descriptor against the corpus.
type Searcher interface {
	Search(ctx context.Context, d query.Descriptor) (result.Set, error)
}

// Pool runs evaluation tasks. *ants.Pool satisfies it.
type Pool interface {
	Submit(task func()) error
}
