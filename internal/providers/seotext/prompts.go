package seotext

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"shopseo/internal/domain/seo"
)

type altTextPayload struct {
	AltText string `json:"altText"`
}

type metadataPayload struct {
	MetaTitle       string `json:"metaTitle"`
	MetaDescription string `json:"metaDescription"`
}

func buildAltTextPrompt(u seo.ImageUnit) string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "You are an expert e-commerce SEO assistant. For the given product image, generate a concise, SEO-optimized alt text (max %d characters, min %d).\n", seo.MaxAltText, seo.MinAltText)
	sb.WriteString("Focus on descriptive, keyword-rich text that enhances accessibility and searchability.\n\n")
	fmt.Fprintf(sb, "Product Title: %s\n", u.Title)
	fmt.Fprintf(sb, "Product Description: %s\n", orDefault(u.Description, "Not provided"))
	fmt.Fprintf(sb, "Product Type: %s\n", orDefault(u.ProductType, "Not specified"))
	fmt.Fprintf(sb, "Vendor: %s\n", orDefault(u.Vendor, "Not specified"))
	fmt.Fprintf(sb, "Image URL: %s\n\n", orDefault(u.ImageURL, "Not provided"))
	sb.WriteString(`Return ONLY a JSON object with a single "altText" field:` + "\n")
	sb.WriteString(`{"altText": "your alt text here"}`)
	return sb.String()
}

func buildMetadataPrompt(u seo.ProductUnit) string {
	sb := &strings.Builder{}
	sb.WriteString("You are an expert e-commerce SEO assistant. For the given product, generate an SEO-optimized meta title and meta description.\n")
	fmt.Fprintf(sb, "- Meta Title: Max %d characters. Should be catchy and include the main keyword.\n", seo.MaxMetaTitle)
	fmt.Fprintf(sb, "- Meta Description: Max %d characters. Should be a compelling summary that encourages clicks.\n\n", seo.MaxMetaDescription)
	fmt.Fprintf(sb, "Product Title: %s\n", u.Title)
	if u.Handle != "" {
		fmt.Fprintf(sb, "Product Handle: %s\n", u.Handle)
	}
	sb.WriteString("\n")
	sb.WriteString(`Return ONLY a JSON object with two fields: "metaTitle" and "metaDescription".` + "\n")
	sb.WriteString(`{"metaTitle": "your title here", "metaDescription": "your description here"}`)
	return sb.String()
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func parseModelPayload[T any](raw string) (T, error) {
	var zero T
	cleaned := extractJSONFragment(raw)
	if cleaned == "" {
		return zero, errors.New("empty payload")
	}
	var decoded T
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return zero, err
	}
	return decoded, nil
}

// extractJSONFragment recovers the JSON object from a model response that may
// wrap it in code fences or surrounding prose.
func extractJSONFragment(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}
	text = trimCodeFence(text)
	start := strings.IndexAny(text, "{[")
	end := strings.LastIndexAny(text, "]}")
	if start >= 0 && end >= start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}

func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
