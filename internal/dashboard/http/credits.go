package http

import (
	"net/http"

	"github.com/rankwise/dashboard/pkg/apiclient"
	"github.com/rankwise/dashboard/pkg/httpx"
)

// CreditsHandler proxies the credit balance and ledger reads.
type CreditsHandler struct {
	API *apiclient.Client
}

func (h *CreditsHandler) HandleBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.API.GetCreditsBalance(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, balance)
}

func (h *CreditsHandler) HandleTransactions(w http.ResponseWriter, r *http.Request) {
	page, err := h.API.ListCreditTransactions(r.Context(), listOptions(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, page)
}
