package handlers

import (
	"net/http"
	"strconv"
)

// BulkRunHistory lists recent bulk runs for the shop, newest first. Empty
// when no database is configured.
func (a *App) BulkRunHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := a.Audit.Recent(r.Context(), a.shop(r), limit)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "Failed to load run history.")
		return
	}
	out := make([]map[string]any, 0, len(runs))
	for _, run := range runs {
		out = append(out, map[string]any{
			"id":         run.ID.String(),
			"area":       run.Area,
			"mode":       run.Mode,
			"total":      run.Total,
			"succeeded":  run.Succeeded,
			"failed":     run.Failed,
			"durationMs": run.Duration.Milliseconds(),
			"createdAt":  run.CreatedAt,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"runs": out})
}
