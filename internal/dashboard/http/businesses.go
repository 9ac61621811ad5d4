package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rankwise/dashboard/pkg/apiclient"
	"github.com/rankwise/dashboard/pkg/httpx"
)

// BusinessesHandler proxies business-listing reads through the gateway.
type BusinessesHandler struct {
	API *apiclient.Client
}

func (h *BusinessesHandler) HandleListForSite(w http.ResponseWriter, r *http.Request) {
	page, err := h.API.ListBusinesses(r.Context(), chi.URLParam(r, "id"), listOptions(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, page)
}

func (h *BusinessesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	business, err := h.API.GetBusiness(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, business)
}
