package seotext

import (
	"context"
	"strings"
	"testing"

	"shopseo/internal/domain/seo"
)

func TestBuildAltTextPromptFallbacks(t *testing.T) {
	t.Parallel()

	prompt := buildAltTextPrompt(seo.ImageUnit{Title: "Mug"})
	for _, want := range []string{
		"Product Title: Mug",
		"Product Description: Not provided",
		"Product Type: Not specified",
		"Vendor: Not specified",
		"Image URL: Not provided",
		`{"altText": "your alt text here"}`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildMetadataPromptIncludesLimits(t *testing.T) {
	t.Parallel()

	prompt := buildMetadataPrompt(seo.ProductUnit{Title: "Mug", Handle: "mug"})
	for _, want := range []string{
		"Max 60 characters",
		"Max 160 characters",
		"Product Handle: mug",
		`"metaTitle"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestExtractJSONFragment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"prose around object", `Here you go: {"a":1} hope that helps`, `{"a":1}`},
		{"no json", "sorry, I cannot do that", "sorry, I cannot do that"},
		{"empty", "   ", ""},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := extractJSONFragment(tc.in); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestStaticGeneratorIsDeterministic(t *testing.T) {
	t.Parallel()

	gen := NewStatic()
	out := gen.AltText(context.Background(), seo.ImageUnit{
		ProductID:   "p",
		ImageID:     "i",
		Title:       "ceramic mug",
		ProductType: "Drinkware",
		Vendor:      "acme",
	})
	if out.Kind != seo.OutcomeSuccess {
		t.Fatalf("kind = %s", out.Kind)
	}
	if out.Text.AltText != "Ceramic Mug drinkware by Acme product photo" {
		t.Fatalf("alt text = %q", out.Text.AltText)
	}

	meta := gen.Metadata(context.Background(), seo.ProductUnit{ProductID: "p", Title: "ceramic mug"})
	if meta.Text.MetaTitle != "Ceramic Mug" {
		t.Fatalf("meta title = %q", meta.Text.MetaTitle)
	}
	if len([]rune(meta.Text.MetaDescription)) > seo.MaxMetaDescription {
		t.Fatal("meta description exceeds limit")
	}
}
