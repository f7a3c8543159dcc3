package seo

import (
	"strings"
	"testing"
)

func TestClampLimits(t *testing.T) {
	t.Parallel()
	long := strings.Repeat("x", 200)
	tests := []struct {
		name  string
		clamp func(string) string
		max   int
	}{
		{name: "alt_text", clamp: ClampAltText, max: MaxAltText},
		{name: "meta_title", clamp: ClampMetaTitle, max: MaxMetaTitle},
		{name: "meta_description", clamp: ClampMetaDescription, max: MaxMetaDescription},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := tc.clamp(long)
			if len([]rune(got)) != tc.max {
				t.Fatalf("clamped length = %d, want %d", len([]rune(got)), tc.max)
			}
			short := "keep me"
			if tc.clamp(short) != short {
				t.Fatalf("short value was modified: %q", tc.clamp(short))
			}
		})
	}
}

func TestClampDoesNotSplitRunes(t *testing.T) {
	t.Parallel()
	long := strings.Repeat("é", 200)
	got := ClampAltText(long)
	if len([]rune(got)) != MaxAltText {
		t.Fatalf("rune length = %d, want %d", len([]rune(got)), MaxAltText)
	}
	for _, r := range got {
		if r != 'é' {
			t.Fatalf("rune corrupted: %q", r)
		}
	}
}

func TestEffectiveValuesPreferEdits(t *testing.T) {
	t.Parallel()
	edit := strings.Repeat("a", 200)
	u := ImageUnit{ProductID: "gid://shopify/Product/1", ImageID: "gid://shopify/MediaImage/2", AltText: "fetched", EditedAltText: &edit}
	if got := u.EffectiveAltText(); len(got) != MaxAltText {
		t.Fatalf("edited alt text not clamped: len=%d", len(got))
	}
	u.EditedAltText = nil
	if got := u.EffectiveAltText(); got != "fetched" {
		t.Fatalf("EffectiveAltText() = %q, want fetched value", got)
	}

	empty := ""
	p := ProductUnit{ProductID: "gid://shopify/Product/1", MetaTitle: "fetched title", EditedMetaTitle: &empty}
	if got := p.EffectiveMetaTitle(); got != "" {
		t.Fatalf("empty edit must override fetched value, got %q", got)
	}
}

func TestUnitKeys(t *testing.T) {
	t.Parallel()
	p := ProductUnit{ProductID: "gid://shopify/Product/7"}
	if p.Key() != "gid://shopify/Product/7" {
		t.Fatalf("product key = %q", p.Key())
	}
	i := ImageUnit{ProductID: "gid://shopify/Product/7", ImageID: "gid://shopify/MediaImage/9"}
	if i.Key() != "gid://shopify/Product/7_gid://shopify/MediaImage/9" {
		t.Fatalf("image key = %q", i.Key())
	}
}

func TestOutcomeFailed(t *testing.T) {
	t.Parallel()
	if Success(GeneratedText{AltText: SentinelInvalidJSON, Sentinel: true}).Failed() {
		t.Fatal("sentinel success must not count as failure")
	}
	if !ValidationFailure("bad id").Failed() {
		t.Fatal("validation failure must count as failure")
	}
	if !RemoteFailure("boom").Failed() {
		t.Fatal("remote failure must count as failure")
	}
}
