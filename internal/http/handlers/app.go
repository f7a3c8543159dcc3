package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"shopseo/internal/audit"
	"shopseo/internal/batch"
	"shopseo/internal/domain/seo"
	"shopseo/internal/middleware"
	"shopseo/internal/providers/seotext"
	"shopseo/internal/session"
	"shopseo/internal/shopify"

	"github.com/rs/zerolog"
)

// Catalog is the slice of the Admin API the handlers need: paged reads over
// the product catalog plus the two SEO mutations.
type Catalog interface {
	FetchProductPage(ctx context.Context, cursor string, first int) (*shopify.ProductPage, error)
	FetchImagePage(ctx context.Context, cursor string, first int) (*shopify.ImagePage, error)
	FetchAllProducts(ctx context.Context, first int) ([]seo.ProductUnit, error)
	FetchAllImages(ctx context.Context, first int) ([]seo.ImageUnit, error)
	UpdateProductSEO(ctx context.Context, u seo.ProductUnit) seo.Outcome
	UpdateImageAlt(ctx context.Context, u seo.ImageUnit) seo.Outcome
}

type App struct {
	Logger    zerolog.Logger
	Catalog   Catalog
	Generator seotext.Generator
	Runner    *batch.Runner
	Audit     *audit.Recorder
	Sessions  *session.Store

	// DefaultShop is used when requests carry no verified session token.
	DefaultShop string

	ProductPageSize int
	ImagePageSize   int
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, message string) {
	a.json(w, code, map[string]string{"error": message})
}

// shop resolves the shop a request acts for: the session token's destination
// when present, otherwise the configured shop.
func (a *App) shop(r *http.Request) string {
	if shop := middleware.ShopFromContext(r.Context()); shop != "" {
		return shop
	}
	return a.DefaultShop
}

func (a *App) state(r *http.Request, area string) *session.State {
	return a.Sessions.For(a.shop(r), area)
}

func decodeBody[T any](r *http.Request) (T, error) {
	var v T
	err := json.NewDecoder(r.Body).Decode(&v)
	return v, err
}

// nullable renders an error list the way the admin UI expects: null when
// nothing went wrong, the list otherwise.
func nullable(errs []string) any {
	if len(errs) == 0 {
		return nil
	}
	return errs
}
