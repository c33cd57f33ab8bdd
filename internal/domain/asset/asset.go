package asset

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/kailas-cloud/assetdex/internal/domain"
)

// MaxIDLength is the maximum asset id length.
const MaxIDLength = 256

// Asset is one media item of the catalog (immutable value object).
type Asset struct {
	id           string
	displayName  string
	creatorID    string
	creatorName  string
	kind         MediaKind
	createdAt    time.Time
	aspectRatio  AspectRatio
	reviewStatus ReviewStatus
	tags         []string
	containerID  string
}

// Params carries the raw fields of an asset for New.
type Params struct {
	ID           string
	DisplayName  string
	CreatorID    string
	CreatorName  string
	Kind         MediaKind
	CreatedAt    time.Time
	AspectRatio  AspectRatio
	ReviewStatus ReviewStatus
	Tags         []string
	ContainerID  string
}

// New validates and creates an Asset. Tags are copied; order is preserved.
func New(p Params) (Asset, error) {
	if p.ID == "" {
		return Asset{}, fmt.Errorf("%w: id is required", domain.ErrInvalidAsset)
	}
	if len(p.ID) > MaxIDLength {
		return Asset{}, fmt.Errorf("%w: id too long (max %d)", domain.ErrInvalidAsset, MaxIDLength)
	}
	if !p.Kind.IsValid() {
		return Asset{}, fmt.Errorf("%w: %s: invalid media kind %q", domain.ErrInvalidAsset, p.ID, p.Kind)
	}
	if !p.AspectRatio.IsValid() {
		return Asset{}, fmt.Errorf("%w: %s: invalid aspect ratio %q", domain.ErrInvalidAsset, p.ID, p.AspectRatio)
	}
	if !p.ReviewStatus.IsValid() {
		return Asset{}, fmt.Errorf("%w: %s: invalid review status %q", domain.ErrInvalidAsset, p.ID, p.ReviewStatus)
	}
	if p.CreatedAt.IsZero() {
		return Asset{}, fmt.Errorf("%w: %s: created_at is required", domain.ErrInvalidAsset, p.ID)
	}
	for i, tag := range p.Tags {
		if strings.TrimSpace(tag) == "" {
			return Asset{}, fmt.Errorf("%w: %s: tag %d is empty", domain.ErrInvalidAsset, p.ID, i)
		}
	}

	return Reconstruct(p), nil
}

// Reconstruct creates an Asset without validation (fixture hydration).
func Reconstruct(p Params) Asset {
	return Asset{
		id:           p.ID,
		displayName:  p.DisplayName,
		creatorID:    p.CreatorID,
		creatorName:  p.CreatorName,
		kind:         p.Kind,
		createdAt:    p.CreatedAt,
		aspectRatio:  p.AspectRatio,
		reviewStatus: p.ReviewStatus,
		tags:         slices.Clone(p.Tags),
		containerID:  p.ContainerID,
	}
}

// ID returns the stable asset identifier.
func (a Asset) ID() string { return a.id }

// DisplayName returns the human readable name.
func (a Asset) DisplayName() string { return a.displayName }

// CreatorID returns the contributor identifier filters key on.
func (a Asset) CreatorID() string { return a.creatorID }

// CreatorName returns the contributor name free text matches on.
func (a Asset) CreatorName() string { return a.creatorName }

// Kind returns the media kind.
func (a Asset) Kind() MediaKind { return a.kind }

// CreatedAt returns the creation instant.
func (a Asset) CreatedAt() time.Time { return a.createdAt }

// AspectRatio returns the frame ratio.
func (a Asset) AspectRatio() AspectRatio { return a.aspectRatio }

// ReviewStatus returns the moderation state.
func (a Asset) ReviewStatus() ReviewStatus { return a.reviewStatus }

// Tags returns the tags in display order. Callers must not modify the slice.
func (a Asset) Tags() []string { return a.tags }

// ContainerID returns the folder/gallery back-reference, empty when unset.
func (a Asset) ContainerID() string { return a.containerID }

// HasTag reports whether the asset carries tag, case-insensitively.
func (a Asset) HasTag(tag string) bool {
	for _, t := range a.tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
