package chi

import (
	"time"

	"github.com/kailas-cloud/assetdex/internal/domain/facet"
	"github.com/kailas-cloud/assetdex/internal/domain/search/query"
	"github.com/kailas-cloud/assetdex/internal/domain/search/result"
	sessionuc "github.com/kailas-cloud/assetdex/internal/usecase/session"
)

// ErrorCode is a machine-readable error identifier.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest       ErrorCode = "bad_request"
	ErrorCodeValidationFailed ErrorCode = "validation_failed"
	ErrorCodeUnauthorized     ErrorCode = "unauthorized"
	ErrorCodeSessionNotFound  ErrorCode = "session_not_found"
	ErrorCodeSessionClosed    ErrorCode = "session_closed"
	ErrorCodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the error body.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// FacetSelection is one picked facet value.
type FacetSelection struct {
	Field string `json:"field" validate:"required"`
	Value string `json:"value" validate:"required"`
}

// SearchRequest is the body of POST /search and POST /sessions/{id}/queries.
// Query may carry field scopes such as "tags: nike".
type SearchRequest struct {
	Query   string           `json:"query" validate:"max=512"`
	Facets  []FacetSelection `json:"facets,omitempty" validate:"max=64,dive"`
	Filters query.Filters    `json:"filters"`
	Order   string           `json:"order,omitempty"`
	Offset  int              `json:"offset,omitempty" validate:"gte=0"`
	Limit   int              `json:"limit,omitempty" validate:"gte=0,lte=500"`
}

// windowParams are the paging query parameters of GET /sessions/{id}/latest.
type windowParams struct {
	Offset int `json:"offset" validate:"gte=0"`
	Limit  int `json:"limit" validate:"gte=0,lte=500"`
}

// AssetItem is one hit.
type AssetItem struct {
	ID           string    `json:"id"`
	DisplayName  string    `json:"display_name"`
	CreatorID    string    `json:"creator_id"`
	CreatorName  string    `json:"creator_name"`
	MediaKind    string    `json:"media_kind"`
	CreatedAt    time.Time `json:"created_at"`
	AspectRatio  string    `json:"aspect_ratio"`
	ReviewStatus string    `json:"review_status"`
	Tags         []string  `json:"tags"`
	ContainerID  string    `json:"container_id,omitempty"`
	Score        float64   `json:"score"`
}

// FacetCount is one facet value with its drill-down count.
type FacetCount struct {
	Field string `json:"field"`
	Value string `json:"value"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// SearchResponse is a windowed result set with counts over the full set.
type SearchResponse struct {
	Items     []AssetItem  `json:"items"`
	Total     int          `json:"total"`
	Offset    int          `json:"offset"`
	Limit     int          `json:"limit"`
	NoMatches bool         `json:"no_matches"`
	Facets    []FacetCount `json:"facets"`
}

// FacetGroup is one taxonomy group for GET /facets.
type FacetGroup struct {
	Field  string        `json:"field"`
	Label  string        `json:"label"`
	Values []facet.Value `json:"values"`
}

// FacetsResponse lists the taxonomy.
type FacetsResponse struct {
	Groups []FacetGroup `json:"groups"`
}

// SessionResponse is returned when a session is opened.
type SessionResponse struct {
	ID string `json:"id"`
}

// SubmitResponse acknowledges a session query.
type SubmitResponse struct {
	Seq   uint64 `json:"seq"`
	State string `json:"state"`
}

// LatestResponse reports a session's newest delivered result.
type LatestResponse struct {
	Seq       uint64          `json:"seq"`
	State     string          `json:"state"`
	Delivered *DeliveredQuery `json:"delivered,omitempty"`
}

// DeliveredQuery is a delivered session outcome.
type DeliveredQuery struct {
	Seq    uint64         `json:"seq"`
	Result SearchResponse `json:"result"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status     string            `json:"status"`
	Checks     map[string]string `json:"checks"`
	CorpusSize int               `json:"corpus_size"`
}

func assetToItem(h result.Hit) AssetItem {
	a := h.Asset()
	tags := a.Tags()
	if tags == nil {
		tags = []string{}
	}
	return AssetItem{
		ID:           a.ID(),
		DisplayName:  a.DisplayName(),
		CreatorID:    a.CreatorID(),
		CreatorName:  a.CreatorName(),
		MediaKind:    string(a.Kind()),
		CreatedAt:    a.CreatedAt(),
		AspectRatio:  string(a.AspectRatio()),
		ReviewStatus: string(a.ReviewStatus()),
		Tags:         tags,
		ContainerID:  a.ContainerID(),
		Score:        h.Score(),
	}
}

// setToResponse windows the hits. limit 0 returns every hit from offset.
func setToResponse(set result.Set, offset, limit int) SearchResponse {
	total := len(set.Hits)
	start := min(offset, total)
	end := total
	if limit > 0 {
		end = min(start+limit, total)
	}

	items := make([]AssetItem, 0, end-start)
	for _, h := range set.Hits[start:end] {
		items = append(items, assetToItem(h))
	}

	facets := make([]FacetCount, len(set.Facets))
	for i, fc := range set.Facets {
		facets[i] = FacetCount{
			Field: string(fc.Key.Field),
			Value: fc.Key.Value,
			Label: fc.Label,
			Count: fc.Count,
		}
	}

	return SearchResponse{
		Items:     items,
		Total:     total,
		Offset:    start,
		Limit:     limit,
		NoMatches: set.NoMatches(),
		Facets:    facets,
	}
}

func latestToResponse(c *sessionuc.Controller, offset, limit int) LatestResponse {
	resp := LatestResponse{Seq: c.Seq(), State: string(c.State())}
	if o, ok := c.Latest(); ok {
		resp.Delivered = &DeliveredQuery{Seq: o.Seq, Result: setToResponse(o.Set, offset, limit)}
	}
	return resp
}
