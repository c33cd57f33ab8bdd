package search

import (
	"context"
	"time"

	"github.com/kailas-cloud/assetdex/internal/domain/search/query"
	"github.com/kailas-cloud/assetdex/internal/domain/search/result"
)

// Searcher runs one synchronous search.
type Searcher interface {
	Search(ctx context.Context, d query.Descriptor) (result.Set, error)
}

// Clock returns "now" for date-bucket evaluation.
type Clock func() time.Time
