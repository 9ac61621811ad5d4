package http

import (
	"net/http"

	"github.com/rankwise/dashboard/pkg/apiclient"
	"github.com/rankwise/dashboard/pkg/httpx"
)

// LicensesHandler proxies plugin license operations through the gateway.
type LicensesHandler struct {
	API *apiclient.Client
}

func (h *LicensesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, err := h.API.ListLicenses(r.Context(), listOptions(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, page)
}

func (h *LicensesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req apiclient.CreateLicenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	license, err := h.API.CreateLicense(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, license)
}
