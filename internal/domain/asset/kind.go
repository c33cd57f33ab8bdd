package asset

import (
	"fmt"
	"strings"
)

// MediaKind is the media type of an asset.
type MediaKind string

// Media kind constants.
const (
	Image    MediaKind = "image"
	Video    MediaKind = "video"
	Audio    MediaKind = "audio"
	Document MediaKind = "document"
)

// photoAlias is the legacy name for Image still sent by older console screens.
const photoAlias = "photo"

// IsValid checks if the kind is one of the supported values.
func (k MediaKind) IsValid() bool {
	return k == Image || k == Video || k == Audio || k == Document
}

// ParseMediaKind parses a media kind case-insensitively. "photo" is accepted as Image.
func ParseMediaKind(s string) (MediaKind, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == photoAlias {
		return Image, nil
	}
	k := MediaKind(v)
	if !k.IsValid() {
		return "", fmt.Errorf("invalid media kind %q", s)
	}
	return k, nil
}

// AspectRatio is the frame ratio of an asset.
type AspectRatio string

// Aspect ratio constants.
const (
	Square    AspectRatio = "1:1"
	Landscape AspectRatio = "16:9"
	Portrait  AspectRatio = "9:16"
	Classic   AspectRatio = "4:3"
)

// IsValid checks if the ratio belongs to the closed set.
func (r AspectRatio) IsValid() bool {
	return r == Square || r == Landscape || r == Portrait || r == Classic
}

// ParseAspectRatio parses an aspect ratio.
func ParseAspectRatio(s string) (AspectRatio, error) {
	r := AspectRatio(strings.TrimSpace(s))
	if !r.IsValid() {
		return "", fmt.Errorf("invalid aspect ratio %q", s)
	}
	return r, nil
}

// ReviewStatus is the moderation state of an asset.
type ReviewStatus string

// Review status constants.
const (
	Approved ReviewStatus = "approved"
	Pending  ReviewStatus = "pending"
	Draft    ReviewStatus = "draft"
)

// IsValid checks if the status is one of the supported values.
func (s ReviewStatus) IsValid() bool {
	return s == Approved || s == Pending || s == Draft
}

// ParseReviewStatus parses a review status case-insensitively.
func ParseReviewStatus(s string) (ReviewStatus, error) {
	st := ReviewStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", fmt.Errorf("invalid review status %q", s)
	}
	return st, nil
}
