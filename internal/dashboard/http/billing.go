package http

import (
	"net/http"

	"github.com/rankwise/dashboard/pkg/apiclient"
	"github.com/rankwise/dashboard/pkg/httpx"
)

// BillingHandler proxies subscription and invoice reads.
type BillingHandler struct {
	API *apiclient.Client
}

func (h *BillingHandler) HandleSubscription(w http.ResponseWriter, r *http.Request) {
	sub, err := h.API.GetSubscription(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sub)
}

func (h *BillingHandler) HandleInvoices(w http.ResponseWriter, r *http.Request) {
	page, err := h.API.ListInvoices(r.Context(), listOptions(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, page)
}
