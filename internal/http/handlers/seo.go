package handlers

import (
	"context"
	"net/http"
	"time"

	"shopseo/internal/audit"
	"shopseo/internal/batch"
	"shopseo/internal/domain/seo"
	"shopseo/internal/metrics"
	"shopseo/internal/session"
)

// SEOProducts serves one page of products with their current metadata, or the
// whole catalog when fetchAll=true. Navigation goes through the per-shop
// session so the cursor stack supports flipping backwards.
func (a *App) SEOProducts(w http.ResponseWriter, r *http.Request) {
	st := a.state(r, "seo")

	if r.URL.Query().Get("fetchAll") == "true" {
		units, err := a.Catalog.FetchAllProducts(r.Context(), a.ProductPageSize)
		if err != nil {
			a.error(w, http.StatusBadGateway, "Failed to load products: "+err.Error())
			return
		}
		a.json(w, http.StatusOK, map[string]any{
			"products":    units,
			"hasNextPage": false,
			"currentPage": 1,
		})
		return
	}

	switch r.URL.Query().Get("nav") {
	case "next":
		cursor := r.URL.Query().Get("cursor")
		if cursor == "" {
			a.error(w, http.StatusBadRequest, "Missing cursor for next page.")
			return
		}
		st.Advance(cursor)
	case "back":
		st.Back()
	}

	page, err := a.Catalog.FetchProductPage(r.Context(), st.Cursor(), a.ProductPageSize)
	if err != nil {
		a.error(w, http.StatusBadGateway, "Failed to load products: "+err.Error())
		return
	}
	units := make([]seo.ProductUnit, len(page.Units))
	for i, u := range page.Units {
		units[i] = st.ApplyToProduct(u)
	}
	a.json(w, http.StatusOK, map[string]any{
		"products":    units,
		"hasNextPage": page.HasNext,
		"nextCursor":  page.Cursor,
		"currentPage": st.Page(),
	})
}

type seoActionRequest struct {
	ActionType string `json:"actionType"`

	ProductID       string `json:"productId"`
	ProductTitle    string `json:"productTitle"`
	MetaTitle       string `json:"metaTitle"`
	MetaDescription string `json:"metaDescription"`

	Updates []seoUpdate `json:"updates"`

	Products []seoProductRef `json:"products"`
	FetchAll bool            `json:"fetchAll"`
}

type seoUpdate struct {
	ProductID       string `json:"productId"`
	MetaTitle       string `json:"metaTitle"`
	MetaDescription string `json:"metaDescription"`
}

type seoProductRef struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Handle string `json:"handle"`
}

// SEOActions dispatches the metadata operations: single generate, single
// update, bulk update, and the combined generate-and-update sweep.
func (a *App) SEOActions(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBody[seoActionRequest](r)
	if err != nil {
		a.error(w, http.StatusBadRequest, "Invalid payload.")
		return
	}

	switch req.ActionType {
	case "generate":
		a.seoGenerate(w, r, req)
	case "update":
		a.seoUpdate(w, r, req)
	case "bulkUpdate":
		a.seoBulkUpdate(w, r, req)
	case "bulkGenerateAndUpdateAll":
		a.seoBulkGenerateAndUpdateAll(w, r, req)
	default:
		a.error(w, http.StatusBadRequest, "Invalid action type.")
	}
}

func (a *App) seoGenerate(w http.ResponseWriter, r *http.Request, req seoActionRequest) {
	if req.ProductID == "" || req.ProductTitle == "" {
		a.error(w, http.StatusBadRequest, "Product ID and title are required for generation.")
		return
	}
	out := a.Generator.Metadata(r.Context(), seo.ProductUnit{
		ProductID: req.ProductID,
		Title:     req.ProductTitle,
	})
	if out.Failed() {
		a.error(w, http.StatusBadGateway, out.Reason)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"generated":                true,
		"productId":                req.ProductID,
		"generatedMetaTitle":       out.Text.MetaTitle,
		"generatedMetaDescription": out.Text.MetaDescription,
	})
}

func (a *App) seoUpdate(w http.ResponseWriter, r *http.Request, req seoActionRequest) {
	if req.ProductID == "" {
		a.error(w, http.StatusBadRequest, "Missing product ID.")
		return
	}
	title := req.MetaTitle
	desc := req.MetaDescription
	out := a.Catalog.UpdateProductSEO(r.Context(), seo.ProductUnit{
		ProductID:       req.ProductID,
		EditedMetaTitle: &title,
		EditedMetaDesc:  &desc,
	})
	switch out.Kind {
	case seo.OutcomeValidation:
		a.error(w, http.StatusBadRequest, out.Reason)
	case seo.OutcomeRemote:
		a.error(w, http.StatusBadGateway, out.Reason)
	default:
		a.state(r, "seo").ClearOverride(seo.UnitKey(req.ProductID))
		a.json(w, http.StatusOK, map[string]any{
			"updated":         true,
			"productId":       req.ProductID,
			"metaTitle":       out.Text.MetaTitle,
			"metaDescription": out.Text.MetaDescription,
		})
	}
}

func (a *App) seoBulkUpdate(w http.ResponseWriter, r *http.Request, req seoActionRequest) {
	if len(req.Updates) == 0 {
		a.error(w, http.StatusBadRequest, "No updates provided.")
		return
	}
	st := a.state(r, "seo")
	if err := st.BeginOp(); err != nil {
		a.error(w, http.StatusConflict, err.Error())
		return
	}
	defer st.EndOp()

	units := make([]seo.Unit, 0, len(req.Updates))
	for _, u := range req.Updates {
		title, desc := u.MetaTitle, u.MetaDescription
		units = append(units, seo.ProductUnit{
			ProductID:       u.ProductID,
			EditedMetaTitle: &title,
			EditedMetaDesc:  &desc,
		})
	}

	started := time.Now()
	res := a.Runner.Run(r.Context(), units, func(ctx context.Context, u seo.Unit) seo.Outcome {
		return a.Catalog.UpdateProductSEO(ctx, u.(seo.ProductUnit))
	})
	a.finishBulk(r, st, "seo", "update", started, res)

	a.json(w, http.StatusOK, map[string]any{
		"bulkUpdated":  true,
		"updatedCount": res.SuccessCount(),
		"errors":       nullable(res.FailureSummary()),
	})
}

func (a *App) seoBulkGenerateAndUpdateAll(w http.ResponseWriter, r *http.Request, req seoActionRequest) {
	var products []seo.ProductUnit
	if req.FetchAll {
		all, err := a.Catalog.FetchAllProducts(r.Context(), a.ProductPageSize)
		if err != nil {
			a.error(w, http.StatusBadGateway, "Failed to load products: "+err.Error())
			return
		}
		products = all
	} else {
		for _, ref := range req.Products {
			products = append(products, seo.ProductUnit{ProductID: ref.ID, Title: ref.Title, Handle: ref.Handle})
		}
	}
	if len(products) == 0 {
		a.error(w, http.StatusBadRequest, "No products provided.")
		return
	}

	st := a.state(r, "seo")
	if err := st.BeginOp(); err != nil {
		a.error(w, http.StatusConflict, err.Error())
		return
	}
	defer st.EndOp()

	units := make([]seo.Unit, len(products))
	for i, p := range products {
		units[i] = p
	}

	op := batch.GenerateThenUpdate(
		func(ctx context.Context, u seo.Unit) seo.Outcome {
			return a.Generator.Metadata(ctx, u.(seo.ProductUnit))
		},
		func(ctx context.Context, u seo.Unit, text seo.GeneratedText) seo.Outcome {
			p := u.(seo.ProductUnit)
			title, desc := text.MetaTitle, text.MetaDescription
			p.EditedMetaTitle = &title
			p.EditedMetaDesc = &desc
			return a.Catalog.UpdateProductSEO(ctx, p)
		},
	)

	started := time.Now()
	res := a.Runner.Run(r.Context(), units, op)
	a.finishBulk(r, st, "seo", "generate_update", started, res)

	a.json(w, http.StatusOK, map[string]any{
		"bulkGeneratedAndUpdated": true,
		"updatedCount":            res.SuccessCount(),
		"errors":                  nullable(res.FailureSummary()),
	})
}

// finishBulk records one bulk run in metrics and the audit ledger and resets
// the session's edit state, since the table contents have changed remotely.
func (a *App) finishBulk(r *http.Request, st *session.State, area, mode string, started time.Time, res *batch.Result) {
	metrics.BulkRuns.WithLabelValues(area, mode).Inc()
	failed := len(res.Failures())
	a.Audit.Record(r.Context(), audit.BulkRun{
		Shop:      a.shop(r),
		Area:      area,
		Mode:      mode,
		Total:     len(res.Order),
		Succeeded: res.SuccessCount(),
		Failed:    failed,
		Duration:  time.Since(started),
	})
	st.Reset()
}
