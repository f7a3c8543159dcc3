package seotext

import (
	"context"
	"fmt"
	"strings"

	"shopseo/internal/domain/seo"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	azureProviderName  = "azure"
	staticProviderName = "static"
)

// New builds the generator named by provider. Unknown names are rejected so a
// typo in configuration fails at startup.
func New(provider string, azure AzureOptions) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case azureProviderName:
		return NewAzure(azure)
	case staticProviderName:
		return NewStatic(), nil
	default:
		return nil, fmt.Errorf("seotext: unknown provider %q", provider)
	}
}

// Generator produces suggested SEO text for one unit. Implementations report
// transport problems as RemoteFailure outcomes; unusable model output is a
// soft failure reported as Success with a sentinel value so bulk callers can
// keep going.
type Generator interface {
	AltText(ctx context.Context, u seo.ImageUnit) seo.Outcome
	Metadata(ctx context.Context, u seo.ProductUnit) seo.Outcome
}

// Static is an offline generator that composes deterministic copy from the
// unit's own fields. Used in development and as a predictable test double.
type Static struct {
	titler cases.Caser
}

func NewStatic() *Static {
	return &Static{titler: cases.Title(language.English)}
}

func (s *Static) AltText(_ context.Context, u seo.ImageUnit) seo.Outcome {
	parts := []string{s.titler.String(strings.TrimSpace(u.Title))}
	if u.ProductType != "" {
		parts = append(parts, strings.ToLower(strings.TrimSpace(u.ProductType)))
	}
	if u.Vendor != "" {
		parts = append(parts, "by "+s.titler.String(strings.TrimSpace(u.Vendor)))
	}
	alt := fmt.Sprintf("%s product photo", strings.Join(parts, " "))
	return seo.Success(seo.GeneratedText{AltText: seo.ClampAltText(alt)})
}

func (s *Static) Metadata(_ context.Context, u seo.ProductUnit) seo.Outcome {
	title := s.titler.String(strings.TrimSpace(u.Title))
	return seo.Success(seo.GeneratedText{
		MetaTitle:       seo.ClampMetaTitle(title),
		MetaDescription: seo.ClampMetaDescription(fmt.Sprintf("Shop %s. Quality you can count on, shipped fast.", title)),
	})
}

var _ Generator = (*Static)(nil)
