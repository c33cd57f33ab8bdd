package facet

import (
	"fmt"
	"strings"
)

// Field is a filterable asset attribute. The set is closed: adding a field is a code change.
type Field string

// Facet field constants.
const (
	Creator      Field = "creator"
	MediaKind    Field = "media_kind"
	AspectRatio  Field = "aspect_ratio"
	ReviewStatus Field = "review_status"
	Tag          Field = "tag"
	DateBucket   Field = "date_bucket"
)

// Fields lists every facet field in presentation order.
var Fields = []Field{Creator, MediaKind, AspectRatio, ReviewStatus, Tag, DateBucket}

// IsValid checks if the field is one of the supported values.
func (f Field) IsValid() bool {
	switch f {
	case Creator, MediaKind, AspectRatio, ReviewStatus, Tag, DateBucket:
		return true
	}
	return false
}

// fieldAliases maps names used by field-scoped search and older screens.
var fieldAliases = map[string]Field{
	"creator":       Creator,
	"creators":      Creator,
	"author":        Creator,
	"type":          MediaKind,
	"kind":          MediaKind,
	"media_kind":    MediaKind,
	"mediakind":     MediaKind,
	"ratio":         AspectRatio,
	"aspect":        AspectRatio,
	"aspect_ratio":  AspectRatio,
	"aspectratio":   AspectRatio,
	"status":        ReviewStatus,
	"review_status": ReviewStatus,
	"reviewstatus":  ReviewStatus,
	"tag":           Tag,
	"tags":          Tag,
	"date":          DateBucket,
	"date_bucket":   DateBucket,
	"datebucket":    DateBucket,
}

// ParseField resolves a field name or alias case-insensitively.
func ParseField(s string) (Field, error) {
	f, ok := fieldAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("unknown facet field %q", s)
	}
	return f, nil
}

// Key identifies one facet value.
type Key struct {
	Field Field
	Value string
}

func (k Key) String() string { return string(k.Field) + ":" + k.Value }

// Selection is a facet value picked by the user.
type Selection = Key
