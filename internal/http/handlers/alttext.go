package handlers

import (
	"context"
	"net/http"
	"time"

	"shopseo/internal/batch"
	"shopseo/internal/domain/seo"
)

// AltTextImages serves one page of product images with their current alt
// text, flattened across products, or the whole catalog when fetchAll=true.
func (a *App) AltTextImages(w http.ResponseWriter, r *http.Request) {
	st := a.state(r, "alttext")

	if r.URL.Query().Get("fetchAll") == "true" {
		units, err := a.Catalog.FetchAllImages(r.Context(), a.ImagePageSize)
		if err != nil {
			a.error(w, http.StatusBadGateway, "Failed to load products: "+err.Error())
			return
		}
		a.json(w, http.StatusOK, map[string]any{
			"images":      units,
			"totalImages": len(units),
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

	page, err := a.Catalog.FetchImagePage(r.Context(), st.Cursor(), a.ImagePageSize)
	if err != nil {
		a.error(w, http.StatusBadGateway, "Failed to load products: "+err.Error())
		return
	}
	units := make([]seo.ImageUnit, len(page.Units))
	for i, u := range page.Units {
		units[i] = st.ApplyToImage(u)
	}
	a.json(w, http.StatusOK, map[string]any{
		"images":      units,
		"totalImages": len(units),
		"hasNextPage": page.HasNext,
		"nextCursor":  page.Cursor,
		"currentPage": st.Page(),
	})
}

type altTextActionRequest struct {
	ActionType string `json:"actionType"`

	ProductID          string `json:"productId"`
	ImageID            string `json:"imageId"`
	ProductTitle       string `json:"productTitle"`
	ProductDescription string `json:"productDescription"`
	ProductType        string `json:"productType"`
	Vendor             string `json:"vendor"`
	ImageURL           string `json:"imageUrl"`
	AltText            string `json:"altText"`

	Updates []altTextUpdate `json:"updates"`

	Products []altTextImageRef `json:"products"`
	FetchAll bool              `json:"fetchAll"`
}

type altTextUpdate struct {
	ProductID string `json:"productId"`
	ImageID   string `json:"imageId"`
	AltText   string `json:"altText"`
}

type altTextImageRef struct {
	ProductID          string `json:"productId"`
	ImageID            string `json:"imageId"`
	ProductTitle       string `json:"productTitle"`
	ProductDescription string `json:"productDescription"`
	ProductType        string `json:"productType"`
	Vendor             string `json:"vendor"`
	ImageURL           string `json:"imageUrl"`
}

// AltTextActions dispatches the alt text operations: single generate, single
// update, bulk update, and the combined generate-and-update sweep.
func (a *App) AltTextActions(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBody[altTextActionRequest](r)
	if err != nil {
		a.error(w, http.StatusBadRequest, "Invalid payload.")
		return
	}

	switch req.ActionType {
	case "generate":
		a.altTextGenerate(w, r, req)
	case "update":
		a.altTextUpdate(w, r, req)
	case "bulkUpdate":
		a.altTextBulkUpdate(w, r, req)
	case "bulkGenerateAndUpdateAll":
		a.altTextBulkGenerateAndUpdateAll(w, r, req)
	default:
		a.error(w, http.StatusBadRequest, "Invalid action type.")
	}
}

func (a *App) altTextGenerate(w http.ResponseWriter, r *http.Request, req altTextActionRequest) {
	if req.ProductTitle == "" || req.ImageID == "" {
		a.error(w, http.StatusBadRequest, "Product title and image ID are required for alt text generation.")
		return
	}
	out := a.Generator.AltText(r.Context(), seo.ImageUnit{
		ProductID:   req.ProductID,
		ImageID:     req.ImageID,
		Title:       req.ProductTitle,
		Description: req.ProductDescription,
		ProductType: req.ProductType,
		Vendor:      req.Vendor,
		ImageURL:    req.ImageURL,
	})
	if out.Failed() {
		a.error(w, http.StatusBadGateway, out.Reason)
		return
	}
	resp := map[string]any{
		"generated":        true,
		"productId":        req.ProductID,
		"imageId":          req.ImageID,
		"generatedAltText": out.Text.AltText,
	}
	if out.Text.Sentinel && out.Text.Raw != "" {
		resp["rawResult"] = out.Text.Raw
	}
	a.json(w, http.StatusOK, resp)
}

func (a *App) altTextUpdate(w http.ResponseWriter, r *http.Request, req altTextActionRequest) {
	if req.ProductID == "" || req.ImageID == "" {
		a.error(w, http.StatusBadRequest, "Missing product ID or image ID.")
		return
	}
	alt := req.AltText
	unit := seo.ImageUnit{
		ProductID:     req.ProductID,
		ImageID:       req.ImageID,
		EditedAltText: &alt,
	}
	out := a.Catalog.UpdateImageAlt(r.Context(), unit)
	switch out.Kind {
	case seo.OutcomeValidation:
		a.error(w, http.StatusBadRequest, out.Reason)
	case seo.OutcomeRemote:
		a.error(w, http.StatusBadGateway, out.Reason)
	default:
		a.state(r, "alttext").ClearOverride(unit.Key())
		a.json(w, http.StatusOK, map[string]any{
			"updated":   true,
			"productId": req.ProductID,
			"imageId":   req.ImageID,
			"altText":   out.Text.AltText,
		})
	}
}

func (a *App) altTextBulkUpdate(w http.ResponseWriter, r *http.Request, req altTextActionRequest) {
	if len(req.Updates) == 0 {
		a.error(w, http.StatusBadRequest, "No updates provided for bulk operation.")
		return
	}
	st := a.state(r, "alttext")
	if err := st.BeginOp(); err != nil {
		a.error(w, http.StatusConflict, err.Error())
		return
	}
	defer st.EndOp()

	units := make([]seo.Unit, 0, len(req.Updates))
	for _, u := range req.Updates {
		alt := u.AltText
		units = append(units, seo.ImageUnit{
			ProductID:     u.ProductID,
			ImageID:       u.ImageID,
			EditedAltText: &alt,
		})
	}

	started := time.Now()
	res := a.Runner.Run(r.Context(), units, func(ctx context.Context, u seo.Unit) seo.Outcome {
		return a.Catalog.UpdateImageAlt(ctx, u.(seo.ImageUnit))
	})
	a.finishBulk(r, st, "alttext", "update", started, res)

	a.json(w, http.StatusOK, map[string]any{
		"bulkUpdated":       true,
		"bulkUpdateResults": updatedImageRefs(units, res),
		"updatedCount":      res.SuccessCount(),
		"errors":            nullable(res.FailureSummary()),
	})
}

func (a *App) altTextBulkGenerateAndUpdateAll(w http.ResponseWriter, r *http.Request, req altTextActionRequest) {
	var images []seo.ImageUnit
	if req.FetchAll {
		all, err := a.Catalog.FetchAllImages(r.Context(), a.ImagePageSize)
		if err != nil {
			a.error(w, http.StatusBadGateway, "Failed to load products: "+err.Error())
			return
		}
		images = all
	} else {
		for _, ref := range req.Products {
			images = append(images, seo.ImageUnit{
				ProductID:   ref.ProductID,
				ImageID:     ref.ImageID,
				Title:       ref.ProductTitle,
				Description: ref.ProductDescription,
				ProductType: ref.ProductType,
				Vendor:      ref.Vendor,
				ImageURL:    ref.ImageURL,
			})
		}
	}
	if len(images) == 0 {
		a.error(w, http.StatusBadRequest, "No products provided for bulk generation.")
		return
	}

	st := a.state(r, "alttext")
	if err := st.BeginOp(); err != nil {
		a.error(w, http.StatusConflict, err.Error())
		return
	}
	defer st.EndOp()

	units := make([]seo.Unit, len(images))
	for i, u := range images {
		units[i] = u
	}

	op := batch.GenerateThenUpdate(
		func(ctx context.Context, u seo.Unit) seo.Outcome {
			return a.Generator.AltText(ctx, u.(seo.ImageUnit))
		},
		func(ctx context.Context, u seo.Unit, text seo.GeneratedText) seo.Outcome {
			img := u.(seo.ImageUnit)
			alt := text.AltText
			img.EditedAltText = &alt
			return a.Catalog.UpdateImageAlt(ctx, img)
		},
	)

	started := time.Now()
	res := a.Runner.Run(r.Context(), units, op)
	a.finishBulk(r, st, "alttext", "generate_update", started, res)

	a.json(w, http.StatusOK, map[string]any{
		"bulkGeneratedAndUpdated": true,
		"bulkResults":             updatedImageRefs(units, res),
		"updatedCount":            res.SuccessCount(),
		"errors":                  nullable(res.FailureSummary()),
	})
}

// updatedImageRefs lists the image IDs whose update succeeded.
func updatedImageRefs(units []seo.Unit, res *batch.Result) []map[string]string {
	out := make([]map[string]string, 0, len(units))
	for _, u := range units {
		img, ok := u.(seo.ImageUnit)
		if !ok {
			continue
		}
		if o := res.Outcomes[img.Key()]; !o.Failed() {
			out = append(out, map[string]string{
				"id":      img.ImageID,
				"altText": o.Text.AltText,
			})
		}
	}
	return out
}
