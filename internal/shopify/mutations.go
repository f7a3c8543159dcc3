package shopify

import (
	"context"
	"strings"

	"shopseo/internal/domain/seo"
	"shopseo/internal/metrics"
)

const productUpdateMutation = `mutation productUpdate($input: ProductInput!) {
  productUpdate(input: $input) {
    product {
      id
      seo {
        title
        description
      }
    }
    userErrors {
      field
      message
    }
  }
}`

const productUpdateMediaMutation = `mutation productUpdateMedia($productId: ID!, $media: [UpdateMediaInput!]!) {
  productUpdateMedia(productId: $productId, media: $media) {
    media {
      id
      alt
    }
    mediaUserErrors {
      field
      message
    }
  }
}`

type userError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

func joinUserErrors(errs []userError) string {
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		messages = append(messages, e.Message)
	}
	return strings.Join(messages, ", ")
}

// UpdateProductSEO writes the unit's effective meta title and description to
// the platform. Exactly one remote write per call; retries are the caller's
// concern.
func (c *Client) UpdateProductSEO(ctx context.Context, u seo.ProductUnit) seo.Outcome {
	if !strings.HasPrefix(u.ProductID, ProductGIDPrefix) {
		return mutationOutcome("seo", seo.ValidationFailure(
			"invalid product ID format, expected "+ProductGIDPrefix+"..."))
	}

	title := u.EffectiveMetaTitle()
	description := u.EffectiveMetaDescription()
	variables := map[string]any{
		"input": map[string]any{
			"id": u.ProductID,
			"seo": map[string]any{
				"title":       title,
				"description": description,
			},
		},
	}

	var out struct {
		ProductUpdate *struct {
			Product *struct {
				ID string `json:"id"`
			} `json:"product"`
			UserErrors []userError `json:"userErrors"`
		} `json:"productUpdate"`
	}
	if err := c.do(ctx, productUpdateMutation, variables, &out); err != nil {
		return mutationOutcome("seo", seo.RemoteFailure(err.Error()))
	}
	if out.ProductUpdate == nil {
		return mutationOutcome("seo", seo.RemoteFailure("invalid response from API"))
	}
	if len(out.ProductUpdate.UserErrors) > 0 {
		return mutationOutcome("seo", seo.RemoteFailure(joinUserErrors(out.ProductUpdate.UserErrors)))
	}
	if out.ProductUpdate.Product == nil {
		return mutationOutcome("seo", seo.RemoteFailure("mutation accepted but returned no product"))
	}
	return mutationOutcome("seo", seo.Success(seo.GeneratedText{
		MetaTitle:       title,
		MetaDescription: description,
	}))
}

// UpdateImageAlt writes the unit's effective alt text to the platform. The
// image identifier must belong to the MediaImage namespace; anything else is
// rejected before any remote call is made.
func (c *Client) UpdateImageAlt(ctx context.Context, u seo.ImageUnit) seo.Outcome {
	if !strings.HasPrefix(u.ImageID, MediaImageGIDPrefix) {
		return mutationOutcome("alttext", seo.ValidationFailure(
			"invalid image ID format, expected "+MediaImageGIDPrefix+"..."))
	}

	alt := u.EffectiveAltText()
	variables := map[string]any{
		"productId": u.ProductID,
		"media": []map[string]any{
			{"id": u.ImageID, "alt": alt},
		},
	}

	var out struct {
		ProductUpdateMedia *struct {
			Media []struct {
				ID  string `json:"id"`
				Alt string `json:"alt"`
			} `json:"media"`
			MediaUserErrors []userError `json:"mediaUserErrors"`
		} `json:"productUpdateMedia"`
	}
	if err := c.do(ctx, productUpdateMediaMutation, variables, &out); err != nil {
		return mutationOutcome("alttext", seo.RemoteFailure(err.Error()))
	}
	if out.ProductUpdateMedia == nil {
		return mutationOutcome("alttext", seo.RemoteFailure("invalid response from API"))
	}
	if len(out.ProductUpdateMedia.MediaUserErrors) > 0 {
		return mutationOutcome("alttext", seo.RemoteFailure(joinUserErrors(out.ProductUpdateMedia.MediaUserErrors)))
	}
	if len(out.ProductUpdateMedia.Media) == 0 {
		return mutationOutcome("alttext", seo.RemoteFailure("mutation accepted but returned no media"))
	}
	return mutationOutcome("alttext", seo.Success(seo.GeneratedText{AltText: alt}))
}

func mutationOutcome(area string, o seo.Outcome) seo.Outcome {
	metrics.Mutations.WithLabelValues(area, string(o.Kind)).Inc()
	return o
}
