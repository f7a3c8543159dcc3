package seo

// Character limits applied to every value sent back to the platform. The
// generation prompts also ask the model to stay within them, but the clamp is
// what guarantees it.
const (
	MaxMetaTitle       = 60
	MaxMetaDescription = 160
	MaxAltText         = 125

	// MinAltText is advisory only: it shapes the prompt, nothing truncates
	// or pads against it.
	MinAltText = 90
)

// UnitKey identifies one unit of work inside a batch. Product units key on the
// product GID; image units append the media GID so two images of the same
// product stay distinct.
type UnitKey string

// Unit is the atomic target of a generate or update operation.
type Unit interface {
	Key() UnitKey
}

// ProductUnit is one product's SEO metadata as fetched from the platform,
// optionally carrying merchant edits that override the fetched values.
type ProductUnit struct {
	ProductID        string  `json:"productId"`
	Title            string  `json:"title"`
	Handle           string  `json:"handle,omitempty"`
	MetaTitle        string  `json:"metaTitle"`
	MetaDescription  string  `json:"metaDescription"`
	FeaturedImageURL string  `json:"featuredImageUrl,omitempty"`
	FeaturedImageAlt string  `json:"featuredImageAlt,omitempty"`
	EditedMetaTitle  *string `json:"editedMetaTitle,omitempty"`
	EditedMetaDesc   *string `json:"editedMetaDescription,omitempty"`
}

func (u ProductUnit) Key() UnitKey { return UnitKey(u.ProductID) }

// EffectiveMetaTitle returns the merchant edit when present, otherwise the
// fetched value, clamped either way.
func (u ProductUnit) EffectiveMetaTitle() string {
	if u.EditedMetaTitle != nil {
		return ClampMetaTitle(*u.EditedMetaTitle)
	}
	return ClampMetaTitle(u.MetaTitle)
}

func (u ProductUnit) EffectiveMetaDescription() string {
	if u.EditedMetaDesc != nil {
		return ClampMetaDescription(*u.EditedMetaDesc)
	}
	return ClampMetaDescription(u.MetaDescription)
}

// ImageUnit is one product image plus the product context used to prompt the
// generator.
type ImageUnit struct {
	ProductID     string  `json:"productId"`
	ImageID       string  `json:"imageId"`
	Title         string  `json:"title"`
	Description   string  `json:"description,omitempty"`
	ProductType   string  `json:"productType,omitempty"`
	Vendor        string  `json:"vendor,omitempty"`
	ImageURL      string  `json:"imageUrl,omitempty"`
	AltText       string  `json:"altText"`
	EditedAltText *string `json:"editedAltText,omitempty"`
}

func (u ImageUnit) Key() UnitKey { return UnitKey(u.ProductID + "_" + u.ImageID) }

func (u ImageUnit) EffectiveAltText() string {
	if u.EditedAltText != nil {
		return ClampAltText(*u.EditedAltText)
	}
	return ClampAltText(u.AltText)
}

func ClampMetaTitle(s string) string       { return clamp(s, MaxMetaTitle) }
func ClampMetaDescription(s string) string { return clamp(s, MaxMetaDescription) }
func ClampAltText(s string) string         { return clamp(s, MaxAltText) }

// clamp truncates to max characters, never splitting a rune.
func clamp(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
