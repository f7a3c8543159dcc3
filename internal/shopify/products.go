package shopify

import (
	"context"
	"errors"
	"fmt"

	"shopseo/internal/domain/seo"
	"shopseo/internal/metrics"
)

// MediaPerProduct bounds the nested media connection. This is the platform
// API's constraint, not a tunable.
const MediaPerProduct = 10

// fetchAllPageCap stops runaway cursor loops when walking a whole catalog.
const fetchAllPageCap = 500

// ProductPage is one page of product SEO units. The cursor must be threaded
// into the next fetch; pages are never mutated, only superseded by a re-fetch.
type ProductPage struct {
	Units      []seo.ProductUnit `json:"units"`
	Cursor     string            `json:"cursor,omitempty"`
	HasNext    bool              `json:"hasNext"`
	PageNumber int               `json:"pageNumber"`
}

// ImagePage is one page of product-image units, flattened across products.
type ImagePage struct {
	Units      []seo.ImageUnit `json:"units"`
	Cursor     string          `json:"cursor,omitempty"`
	HasNext    bool            `json:"hasNext"`
	PageNumber int             `json:"pageNumber"`
}

const productPageQuery = `query ($first: Int!, $after: String) {
  products(first: $first, after: $after) {
    pageInfo {
      hasNextPage
      endCursor
    }
    edges {
      node {
        id
        title
        handle
        featuredImage {
          url
          altText
        }
        seo {
          title
          description
        }
      }
    }
  }
}`

const imagePageQuery = `query ($first: Int!, $after: String) {
  products(first: $first, after: $after) {
    pageInfo {
      hasNextPage
      endCursor
    }
    edges {
      node {
        id
        title
        description
        productType
        vendor
        media(first: 10) {
          edges {
            node {
              id
              alt
              mediaContentType
              ... on MediaImage {
                image {
                  url
                }
              }
            }
          }
        }
      }
    }
  }
}`

type pageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

func pageVariables(cursor string, first int) map[string]any {
	variables := map[string]any{"first": first}
	if cursor != "" {
		variables["after"] = cursor
	}
	return variables
}

// FetchProductPage loads one page of products with their SEO metadata.
// cursor == "" requests the first page. A malformed response is a fatal error
// for this fetch; no partial page is returned.
func (c *Client) FetchProductPage(ctx context.Context, cursor string, first int) (*ProductPage, error) {
	var out struct {
		Products *struct {
			PageInfo pageInfo `json:"pageInfo"`
			Edges    []struct {
				Node struct {
					ID            string `json:"id"`
					Title         string `json:"title"`
					Handle        string `json:"handle"`
					FeaturedImage *struct {
						URL     string `json:"url"`
						AltText string `json:"altText"`
					} `json:"featuredImage"`
					SEO *struct {
						Title       string `json:"title"`
						Description string `json:"description"`
					} `json:"seo"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"products"`
	}
	if err := c.do(ctx, productPageQuery, pageVariables(cursor, first), &out); err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	if out.Products == nil {
		return nil, errors.New("fetch products: response missing products")
	}
	metrics.PageFetches.WithLabelValues("seo").Inc()

	page := &ProductPage{HasNext: out.Products.PageInfo.HasNextPage}
	if page.HasNext {
		page.Cursor = out.Products.PageInfo.EndCursor
	}
	for _, edge := range out.Products.Edges {
		node := edge.Node
		unit := seo.ProductUnit{
			ProductID: node.ID,
			Title:     node.Title,
			Handle:    node.Handle,
		}
		if node.SEO != nil {
			unit.MetaTitle = node.SEO.Title
			unit.MetaDescription = node.SEO.Description
		}
		if node.FeaturedImage != nil {
			unit.FeaturedImageURL = node.FeaturedImage.URL
			unit.FeaturedImageAlt = node.FeaturedImage.AltText
			if unit.FeaturedImageAlt == "" {
				unit.FeaturedImageAlt = "Image of " + node.Title
			}
		}
		page.Units = append(page.Units, unit)
	}
	return page, nil
}

// FetchImagePage loads one page of products and flattens their media into
// image units. Media without an image URL (videos, 3D models) are still
// listed; the mutation client rejects them by GID namespace at update time.
func (c *Client) FetchImagePage(ctx context.Context, cursor string, first int) (*ImagePage, error) {
	var out struct {
		Products *struct {
			PageInfo pageInfo `json:"pageInfo"`
			Edges    []struct {
				Node struct {
					ID          string `json:"id"`
					Title       string `json:"title"`
					Description string `json:"description"`
					ProductType string `json:"productType"`
					Vendor      string `json:"vendor"`
					Media       struct {
						Edges []struct {
							Node struct {
								ID    string `json:"id"`
								Alt   string `json:"alt"`
								Image *struct {
									URL string `json:"url"`
								} `json:"image"`
							} `json:"node"`
						} `json:"edges"`
					} `json:"media"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"products"`
	}
	if err := c.do(ctx, imagePageQuery, pageVariables(cursor, first), &out); err != nil {
		return nil, fmt.Errorf("fetch product images: %w", err)
	}
	if out.Products == nil {
		return nil, errors.New("fetch product images: response missing products")
	}
	metrics.PageFetches.WithLabelValues("alttext").Inc()

	page := &ImagePage{HasNext: out.Products.PageInfo.HasNextPage}
	if page.HasNext {
		page.Cursor = out.Products.PageInfo.EndCursor
	}
	for _, edge := range out.Products.Edges {
		node := edge.Node
		for _, media := range node.Media.Edges {
			unit := seo.ImageUnit{
				ProductID:   node.ID,
				ImageID:     media.Node.ID,
				Title:       node.Title,
				Description: node.Description,
				ProductType: node.ProductType,
				Vendor:      node.Vendor,
				AltText:     media.Node.Alt,
			}
			if media.Node.Image != nil {
				unit.ImageURL = media.Node.Image.URL
			}
			page.Units = append(page.Units, unit)
		}
	}
	return page, nil
}

// FetchAllImages walks every page, threading cursors until the listing is
// exhausted. Used by the fetchAll query flag and the sweep CLI.
func (c *Client) FetchAllImages(ctx context.Context, first int) ([]seo.ImageUnit, error) {
	var units []seo.ImageUnit
	cursor := ""
	for page := 0; page < fetchAllPageCap; page++ {
		p, err := c.FetchImagePage(ctx, cursor, first)
		if err != nil {
			return nil, err
		}
		units = append(units, p.Units...)
		if !p.HasNext {
			return units, nil
		}
		cursor = p.Cursor
	}
	return nil, fmt.Errorf("listing did not terminate after %d pages", fetchAllPageCap)
}

// FetchAllProducts is FetchAllImages' counterpart for SEO metadata units.
func (c *Client) FetchAllProducts(ctx context.Context, first int) ([]seo.ProductUnit, error) {
	var units []seo.ProductUnit
	cursor := ""
	for page := 0; page < fetchAllPageCap; page++ {
		p, err := c.FetchProductPage(ctx, cursor, first)
		if err != nil {
			return nil, err
		}
		units = append(units, p.Units...)
		if !p.HasNext {
			return units, nil
		}
		cursor = p.Cursor
	}
	return nil, fmt.Errorf("listing did not terminate after %d pages", fetchAllPageCap)
}
