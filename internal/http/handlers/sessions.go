package handlers

import (
	"net/http"

	"shopseo/internal/domain/seo"
)

type sessionOpRequest struct {
	Op   string        `json:"op"`
	Key  seo.UnitKey   `json:"key"`
	Keys []seo.UnitKey `json:"keys"`

	AltText         string `json:"altText"`
	MetaTitle       string `json:"metaTitle"`
	MetaDescription string `json:"metaDescription"`
}

// SessionOp mutates the per-shop edit state for one area: row selection,
// manual value overrides, and a full reset. The state feeds the list
// endpoints, which render overrides on top of fetched values.
func (a *App) SessionOp(area string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a.sessionOp(w, r, area)
	}
}

func (a *App) sessionOp(w http.ResponseWriter, r *http.Request, area string) {
	req, err := decodeBody[sessionOpRequest](r)
	if err != nil {
		a.error(w, http.StatusBadRequest, "Invalid payload.")
		return
	}
	st := a.state(r, area)

	switch req.Op {
	case "select":
		if req.Key == "" {
			a.error(w, http.StatusBadRequest, "Missing key.")
			return
		}
		st.Select(req.Key)
	case "deselect":
		if req.Key == "" {
			a.error(w, http.StatusBadRequest, "Missing key.")
			return
		}
		st.Deselect(req.Key)
	case "selectAll":
		st.SelectAll(req.Keys)
	case "clearSelection":
		st.ClearSelection()
	case "override":
		if req.Key == "" {
			a.error(w, http.StatusBadRequest, "Missing key.")
			return
		}
		st.SetOverride(req.Key, seo.GeneratedText{
			AltText:         req.AltText,
			MetaTitle:       req.MetaTitle,
			MetaDescription: req.MetaDescription,
		})
	case "clearOverride":
		if req.Key == "" {
			a.error(w, http.StatusBadRequest, "Missing key.")
			return
		}
		st.ClearOverride(req.Key)
	case "reset":
		st.Reset()
	default:
		a.error(w, http.StatusBadRequest, "Invalid session op.")
		return
	}

	a.json(w, http.StatusOK, map[string]any{
		"ok":             true,
		"selectionCount": st.SelectionCount(),
		"currentPage":    st.Page(),
	})
}
