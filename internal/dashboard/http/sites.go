package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rankwise/dashboard/pkg/apiclient"
	"github.com/rankwise/dashboard/pkg/httpx"
)

// SitesHandler proxies the site CRUD endpoints through the request gateway.
type SitesHandler struct {
	API *apiclient.Client
}

func (h *SitesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, err := h.API.ListSites(r.Context(), listOptions(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, page)
}

func (h *SitesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	site, err := h.API.GetSite(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, site)
}

func (h *SitesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req apiclient.CreateSiteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	site, err := h.API.CreateSite(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, site)
}

func (h *SitesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req apiclient.UpdateSiteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	site, err := h.API.UpdateSite(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, site)
}

func (h *SitesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.API.DeleteSite(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
