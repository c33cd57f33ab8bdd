package assetdex

import (
	"fmt"

	"github.com/kailas-cloud/assetdex/internal/domain"
	"github.com/kailas-cloud/assetdex/internal/domain/asset"
	"github.com/kailas-cloud/assetdex/internal/domain/facet"
	"github.com/kailas-cloud/assetdex/internal/domain/search/order"
	"github.com/kailas-cloud/assetdex/internal/domain/search/query"
	"github.com/kailas-cloud/assetdex/internal/domain/search/result"
)

func toDomainAsset(a Asset) (asset.Asset, error) {
	kind, err := asset.ParseMediaKind(a.Kind)
	if err != nil {
		return asset.Asset{}, fmt.Errorf("%w: %s: %w", domain.ErrInvalidAsset, a.ID, err)
	}
	ratio := asset.Landscape
	if a.AspectRatio != "" {
		if ratio, err = asset.ParseAspectRatio(a.AspectRatio); err != nil {
			return asset.Asset{}, fmt.Errorf("%w: %s: %w", domain.ErrInvalidAsset, a.ID, err)
		}
	}
	status := asset.Approved
	if a.ReviewStatus != "" {
		if status, err = asset.ParseReviewStatus(a.ReviewStatus); err != nil {
			return asset.Asset{}, fmt.Errorf("%w: %s: %w", domain.ErrInvalidAsset, a.ID, err)
		}
	}

	return asset.New(asset.Params{
		ID:           a.ID,
		DisplayName:  a.DisplayName,
		CreatorID:    a.CreatorID,
		CreatorName:  a.CreatorName,
		Kind:         kind,
		CreatedAt:    a.CreatedAt,
		AspectRatio:  ratio,
		ReviewStatus: status,
		Tags:         a.Tags,
		ContainerID:  a.ContainerID,
	})
}

func fromDomainAsset(a asset.Asset) Asset {
	return Asset{
		ID:           a.ID(),
		DisplayName:  a.DisplayName(),
		CreatorID:    a.CreatorID(),
		CreatorName:  a.CreatorName(),
		Kind:         string(a.Kind()),
		CreatedAt:    a.CreatedAt(),
		AspectRatio:  string(a.AspectRatio()),
		ReviewStatus: string(a.ReviewStatus()),
		Tags:         append([]string(nil), a.Tags()...),
		ContainerID:  a.ContainerID(),
	}
}

// toDescriptor builds a descriptor. Unlike the HTTP API, unknown facet fields are rejected.
func toDescriptor(q Query) (query.Descriptor, error) {
	scoped := query.ParseScoped(q.Text)
	selections := scoped.Selections
	for _, s := range q.Facets {
		field, err := facet.ParseField(s.Field)
		if err != nil {
			return query.Descriptor{}, fmt.Errorf("%w: %w", domain.ErrUnknownFacet, err)
		}
		selections = append(selections, facet.Selection{Field: field, Value: s.Value})
	}

	f := q.Filters
	filters := query.Filters{
		CreatorIDs:     f.CreatorIDs,
		MediaKinds:     f.MediaKinds,
		AspectRatios:   f.AspectRatios,
		ReviewStatuses: f.ReviewStatuses,
		ContainerIDs:   f.ContainerIDs,
		TagsAll:        f.TagsAll,
	}
	if !f.From.IsZero() || !f.To.IsZero() {
		filters.DateRange = &query.DateRange{From: f.From, To: f.To}
	}

	d, err := query.New(scoped.FreeText, selections, filters, order.Order(q.Order))
	if err != nil {
		return query.Descriptor{}, fmt.Errorf("query: %w", err)
	}
	return d, nil
}

func fromSet(set result.Set) Result {
	out := Result{
		Hits:   make([]Hit, len(set.Hits)),
		Facets: make([]FacetCount, len(set.Facets)),
	}
	for i, h := range set.Hits {
		out.Hits[i] = Hit{Asset: fromDomainAsset(h.Asset()), Score: h.Score()}
	}
	for i, fc := range set.Facets {
		out.Facets[i] = FacetCount{
			Field: string(fc.Key.Field),
			Value: fc.Key.Value,
			Label: fc.Label,
			Count: fc.Count,
		}
	}
	return out
}

func fromDefinitions(defs []facet.Definition) []FacetGroup {
	out := make([]FacetGroup, len(defs))
	for i, d := range defs {
		values := make([]FacetValue, len(d.Values))
		for j, v := range d.Values {
			values[j] = FacetValue{Value: v.Value, Label: v.Label}
		}
		out[i] = FacetGroup{Field: string(d.Field), Label: d.Label, Values: values}
	}
	return out
}
