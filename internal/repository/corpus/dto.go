package corpus

import (
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/assetdex/internal/domain"
	"github.com/kailas-cloud/assetdex/internal/domain/asset"
	"github.com/kailas-cloud/assetdex/internal/domain/facet"
)

// fileDTO is the on-disk fixture layout. JSON files decode through the same tags.
type fileDTO struct {
	Assets []assetDTO         `yaml:"assets"`
	Facets []facet.Definition `yaml:"facets"`
}

type assetDTO struct {
	ID           string   `yaml:"id"`
	DisplayName  string   `yaml:"display_name"`
	CreatorID    string   `yaml:"creator_id"`
	CreatorName  string   `yaml:"creator_name"`
	MediaKind    string   `yaml:"media_kind"`
	CreatedAt    string   `yaml:"created_at"`
	AspectRatio  string   `yaml:"aspect_ratio"`
	ReviewStatus string   `yaml:"review_status"`
	Tags         []string `yaml:"tags"`
	ContainerID  string   `yaml:"container_id"`
}

// timeLayouts are tried in order for created_at.
var timeLayouts = []string{time.RFC3339Nano, time.DateTime, time.DateOnly}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable created_at %q", s)
}

// toDomain converts a DTO into a validated asset. The review status defaults to approved.
func (d assetDTO) toDomain() (asset.Asset, error) {
	kind, err := asset.ParseMediaKind(d.MediaKind)
	if err != nil {
		return asset.Asset{}, fmt.Errorf("%w: %s: %w", domain.ErrInvalidAsset, d.ID, err)
	}
	ratio, err := asset.ParseAspectRatio(d.AspectRatio)
	if err != nil {
		return asset.Asset{}, fmt.Errorf("%w: %s: %w", domain.ErrInvalidAsset, d.ID, err)
	}
	status := asset.Approved
	if d.ReviewStatus != "" {
		if status, err = asset.ParseReviewStatus(d.ReviewStatus); err != nil {
			return asset.Asset{}, fmt.Errorf("%w: %s: %w", domain.ErrInvalidAsset, d.ID, err)
		}
	}
	created, err := parseTime(d.CreatedAt)
	if err != nil {
		return asset.Asset{}, fmt.Errorf("%w: %s: %w", domain.ErrInvalidAsset, d.ID, err)
	}

	return asset.New(asset.Params{
		ID:           strings.TrimSpace(d.ID),
		DisplayName:  d.DisplayName,
		CreatorID:    d.CreatorID,
		CreatorName:  d.CreatorName,
		Kind:         kind,
		CreatedAt:    created,
		AspectRatio:  ratio,
		ReviewStatus: status,
		Tags:         d.Tags,
		ContainerID:  d.ContainerID,
	})
}
