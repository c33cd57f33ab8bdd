package facet

import (
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/assetdex/internal/domain"
	"github.com/kailas-cloud/assetdex/internal/domain/asset"
)

// Predicate tests one asset against one facet value.
type Predicate func(a asset.Asset) bool

// Never matches no asset. Query errors compile to it.
func Never(asset.Asset) bool { return false }

// Compile builds the predicate for (field, value). Date buckets are evaluated against now.
// Errors wrap domain.ErrUnknownFacet.
func Compile(field Field, value string, now time.Time) (Predicate, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil, fmt.Errorf("%w: empty value for field %q", domain.ErrUnknownFacet, field)
	}

	switch field {
	case Creator:
		return func(a asset.Asset) bool { return strings.EqualFold(a.CreatorID(), v) }, nil
	case MediaKind:
		kind, err := asset.ParseMediaKind(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrUnknownFacet, err)
		}
		return func(a asset.Asset) bool { return a.Kind() == kind }, nil
	case AspectRatio:
		ratio, err := asset.ParseAspectRatio(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrUnknownFacet, err)
		}
		return func(a asset.Asset) bool { return a.AspectRatio() == ratio }, nil
	case ReviewStatus:
		status, err := asset.ParseReviewStatus(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrUnknownFacet, err)
		}
		return func(a asset.Asset) bool { return a.ReviewStatus() == status }, nil
	case Tag:
		return func(a asset.Asset) bool { return a.HasTag(v) }, nil
	case DateBucket:
		bucket, err := ParseBucket(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrUnknownFacet, err)
		}
		return func(a asset.Asset) bool { return bucket.Contains(now, a.CreatedAt()) }, nil
	default:
		return nil, fmt.Errorf("%w: field %q", domain.ErrUnknownFacet, field)
	}
}

// AnyOf returns a predicate matching when any of preds matches. Empty input matches nothing.
func AnyOf(preds ...Predicate) Predicate {
	return func(a asset.Asset) bool {
		for _, p := range preds {
			if p(a) {
				return true
			}
		}
		return false
	}
}

// AllOf returns a predicate matching when every pred matches. Empty input matches everything.
func AllOf(preds ...Predicate) Predicate {
	return func(a asset.Asset) bool {
		for _, p := range preds {
			if !p(a) {
				return false
			}
		}
		return true
	}
}
