package asset

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/assetdex/internal/domain"
)

func validParams(id string) Params {
	return Params{
		ID:           id,
		DisplayName:  "Court vision",
		CreatorID:    "c1",
		CreatorName:  "Ana Ruiz",
		Kind:         Image,
		CreatedAt:    time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
		AspectRatio:  Landscape,
		ReviewStatus: Approved,
		Tags:         []string{"Nike", "Basketball"},
	}
}

// --- Asset tests ---

func TestNew_Valid(t *testing.T) {
	a, err := New(validParams("a1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ID() != "a1" {
		t.Errorf("ID() = %q", a.ID())
	}
	if a.Kind() != Image {
		t.Errorf("Kind() = %q", a.Kind())
	}
	if len(a.Tags()) != 2 || a.Tags()[0] != "Nike" {
		t.Errorf("Tags() = %v", a.Tags())
	}
}

func TestNew_CopiesTags(t *testing.T) {
	p := validParams("a1")
	a, err := New(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p.Tags[0] = "Adidas"
	if a.Tags()[0] != "Nike" {
		t.Error("asset tags must not alias caller slice")
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Params)
		want   string
	}{
		{"empty id", func(p *Params) { p.ID = "" }, "id is required"},
		{"long id", func(p *Params) { p.ID = strings.Repeat("x", MaxIDLength+1) }, "too long"},
		{"bad kind", func(p *Params) { p.Kind = "hologram" }, "media kind"},
		{"bad ratio", func(p *Params) { p.AspectRatio = "2:1" }, "aspect ratio"},
		{"bad status", func(p *Params) { p.ReviewStatus = "rejected" }, "review status"},
		{"zero time", func(p *Params) { p.CreatedAt = time.Time{} }, "created_at"},
		{"empty tag", func(p *Params) { p.Tags = []string{"ok", " "} }, "tag 1 is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams("a1")
			tt.mutate(&p)
			_, err := New(p)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, domain.ErrInvalidAsset) {
				t.Errorf("expected ErrInvalidAsset, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want substring %q", err, tt.want)
			}
		})
	}
}

func TestHasTag_CaseInsensitive(t *testing.T) {
	a := Reconstruct(validParams("a1"))
	if !a.HasTag("nike") {
		t.Error("expected nike to match Nike")
	}
	if a.HasTag("adidas") {
		t.Error("unexpected match for adidas")
	}
}

// --- Enum tests ---

func TestParseMediaKind(t *testing.T) {
	tests := []struct {
		in      string
		want    MediaKind
		wantErr bool
	}{
		{"image", Image, false},
		{"IMAGE", Image, false},
		{"photo", Image, false},
		{" Photo ", Image, false},
		{"video", Video, false},
		{"audio", Audio, false},
		{"document", Document, false},
		{"gif", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMediaKind(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseAspectRatio(t *testing.T) {
	for _, in := range []string{"1:1", "16:9", "9:16", "4:3"} {
		if _, err := ParseAspectRatio(in); err != nil {
			t.Errorf("%s: unexpected error %v", in, err)
		}
	}
	if _, err := ParseAspectRatio("21:9"); err == nil {
		t.Error("expected error for 21:9")
	}
}

func TestParseReviewStatus(t *testing.T) {
	got, err := ParseReviewStatus("Pending")
	if err != nil || got != Pending {
		t.Errorf("got %q, %v", got, err)
	}
	if _, err := ParseReviewStatus("archived"); err == nil {
		t.Error("expected error for archived")
	}
}

// --- Corpus tests ---

func TestLoadCorpus(t *testing.T) {
	c, err := LoadCorpus([]Asset{
		Reconstruct(validParams("a1")),
		Reconstruct(validParams("a2")),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d", c.Len())
	}
	if c.Position("a2") != 1 {
		t.Errorf("Position(a2) = %d", c.Position("a2"))
	}
	if c.Position("zz") != -1 {
		t.Errorf("Position(zz) = %d", c.Position("zz"))
	}
	if a, ok := c.Get("a1"); !ok || a.ID() != "a1" {
		t.Error("Get(a1) failed")
	}
}

func TestLoadCorpus_Empty(t *testing.T) {
	c, err := LoadCorpus(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d", c.Len())
	}
}

func TestLoadCorpus_DuplicateIDs(t *testing.T) {
	_, err := LoadCorpus([]Asset{
		Reconstruct(validParams("a1")),
		Reconstruct(validParams("a2")),
		Reconstruct(validParams("a1")),
		Reconstruct(validParams("a2")),
		Reconstruct(validParams("a1")),
	})
	if !errors.Is(err, domain.ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
	var dup *domain.DuplicateIDError
	if !errors.As(err, &dup) {
		t.Fatal("expected *DuplicateIDError")
	}
	if len(dup.IDs) != 2 || dup.IDs[0] != "a1" || dup.IDs[1] != "a2" {
		t.Errorf("IDs = %v", dup.IDs)
	}
}
