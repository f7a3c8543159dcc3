package handlers

import (
	"net/http"
	"strings"
	"testing"

	"shopseo/internal/domain/seo"
)

func TestAltTextImagesListsPage(t *testing.T) {
	t.Parallel()

	catalog := &stubCatalog{images: []seo.ImageUnit{
		{ProductID: "gid://shopify/Product/1", ImageID: "gid://shopify/MediaImage/1", Title: "Mug"},
		{ProductID: "gid://shopify/Product/1", ImageID: "gid://shopify/MediaImage/2", Title: "Mug"},
	}}
	app := newTestApp(catalog)

	rec, resp := doJSON(t, app.AltTextImages, http.MethodGet, "/alttext/images", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := resp["totalImages"].(float64); got != 2 {
		t.Fatalf("totalImages = %v", got)
	}
}

func TestAltTextGenerateAction(t *testing.T) {
	t.Parallel()

	app := newTestApp(&stubCatalog{})
	rec, resp := doJSON(t, app.AltTextActions, http.MethodPost, "/alttext/actions", map[string]any{
		"actionType":   "generate",
		"productId":    "gid://shopify/Product/1",
		"imageId":      "gid://shopify/MediaImage/1",
		"productTitle": "ceramic mug",
		"productType":  "Drinkware",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %v", rec.Code, resp)
	}
	if resp["generated"] != true {
		t.Fatalf("resp = %v", resp)
	}
	alt := resp["generatedAltText"].(string)
	if !strings.Contains(alt, "Ceramic Mug") {
		t.Fatalf("generatedAltText = %q", alt)
	}
}

func TestAltTextGenerateRequiresTitleAndImage(t *testing.T) {
	t.Parallel()

	app := newTestApp(&stubCatalog{})
	rec, _ := doJSON(t, app.AltTextActions, http.MethodPost, "/alttext/actions", map[string]any{
		"actionType": "generate",
		"productId":  "gid://shopify/Product/1",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestAltTextUpdateRejectsBadImageID(t *testing.T) {
	t.Parallel()

	catalog := &stubCatalog{}
	app := newTestApp(catalog)
	rec, resp := doJSON(t, app.AltTextActions, http.MethodPost, "/alttext/actions", map[string]any{
		"actionType": "update",
		"productId":  "gid://shopify/Product/1",
		"imageId":    "not-a-gid",
		"altText":    "alt",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d: %v", rec.Code, resp)
	}
	if !strings.Contains(resp["error"].(string), "MediaImage") {
		t.Fatalf("error = %v", resp["error"])
	}
}

func TestAltTextUpdateAction(t *testing.T) {
	t.Parallel()

	catalog := &stubCatalog{}
	app := newTestApp(catalog)
	rec, resp := doJSON(t, app.AltTextActions, http.MethodPost, "/alttext/actions", map[string]any{
		"actionType": "update",
		"productId":  "gid://shopify/Product/1",
		"imageId":    "gid://shopify/MediaImage/1",
		"altText":    "Red ceramic mug",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %v", rec.Code, resp)
	}
	if resp["updated"] != true || resp["altText"] != "Red ceramic mug" {
		t.Fatalf("resp = %v", resp)
	}
}

func TestAltTextBulkUpdateSkipsInvalidIDs(t *testing.T) {
	t.Parallel()

	catalog := &stubCatalog{}
	app := newTestApp(catalog)
	rec, resp := doJSON(t, app.AltTextActions, http.MethodPost, "/alttext/actions", map[string]any{
		"actionType": "bulkUpdate",
		"updates": []map[string]string{
			{"productId": "gid://shopify/Product/1", "imageId": "gid://shopify/MediaImage/1", "altText": "a"},
			{"productId": "gid://shopify/Product/1", "imageId": "bogus", "altText": "b"},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %v", rec.Code, resp)
	}
	if got := resp["updatedCount"].(float64); got != 1 {
		t.Fatalf("updatedCount = %v", got)
	}
	if resp["errors"] == nil {
		t.Fatal("expected an error entry for the invalid ID")
	}
	results := resp["bulkUpdateResults"].([]any)
	if len(results) != 1 {
		t.Fatalf("bulkUpdateResults = %v", results)
	}
}

func TestAltTextBulkGenerateAndUpdateAll(t *testing.T) {
	t.Parallel()

	catalog := &stubCatalog{images: []seo.ImageUnit{
		{ProductID: "gid://shopify/Product/1", ImageID: "gid://shopify/MediaImage/1", Title: "Mug"},
		{ProductID: "gid://shopify/Product/2", ImageID: "gid://shopify/MediaImage/2", Title: "Shoe"},
	}}
	app := newTestApp(catalog)

	rec, resp := doJSON(t, app.AltTextActions, http.MethodPost, "/alttext/actions", map[string]any{
		"actionType": "bulkGenerateAndUpdateAll",
		"fetchAll":   true,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %v", rec.Code, resp)
	}
	if got := resp["updatedCount"].(float64); got != 2 {
		t.Fatalf("updatedCount = %v", got)
	}
	if len(catalog.imageUpdates) != 2 {
		t.Fatalf("updates sent = %d", len(catalog.imageUpdates))
	}
	for _, u := range catalog.imageUpdates {
		if u.EffectiveAltText() == "" {
			t.Fatal("mutation received empty alt text")
		}
	}
}

func TestAltTextBulkGenerateRequiresInput(t *testing.T) {
	t.Parallel()

	app := newTestApp(&stubCatalog{})
	rec, resp := doJSON(t, app.AltTextActions, http.MethodPost, "/alttext/actions", map[string]any{
		"actionType": "bulkGenerateAndUpdateAll",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if resp["error"] != "No products provided for bulk generation." {
		t.Fatalf("error = %v", resp["error"])
	}
}

func TestSessionOpRoundTrip(t *testing.T) {
	t.Parallel()

	app := newTestApp(&stubCatalog{})
	h := app.SessionOp("alttext")

	rec, resp := doJSON(t, h, http.MethodPost, "/alttext/session", map[string]any{
		"op":  "select",
		"key": "gid://shopify/Product/1_gid://shopify/MediaImage/1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %v", rec.Code, resp)
	}
	if got := resp["selectionCount"].(float64); got != 1 {
		t.Fatalf("selectionCount = %v", got)
	}

	rec, _ = doJSON(t, h, http.MethodPost, "/alttext/session", map[string]any{"op": "noSuchOp"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}
