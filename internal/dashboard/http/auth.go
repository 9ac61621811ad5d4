package http

import (
	"net/http"

	"github.com/rankwise/dashboard/pkg/apiclient"
	"github.com/rankwise/dashboard/pkg/credstore"
	"github.com/rankwise/dashboard/pkg/httpx"
	"github.com/rankwise/dashboard/pkg/session"
	"github.com/rankwise/dashboard/pkg/slogx"
)

// AuthHandler serves the browser-facing auth endpoints: credential exchange,
// logout, the session snapshot, and organization switching.
type AuthHandler struct {
	API         *apiclient.Client
	Session     *session.Store
	Credentials credstore.Store
}

// HandleLogin exchanges email/password for a token pair upstream, persists
// the credential (which also mirrors the access token into the cookie view),
// and seeds session state in one atomic update.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req apiclient.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		httpx.WriteErrorJSON(w, http.StatusBadRequest, "Email and password are required.", "INVALID_BODY")
		return
	}

	auth, err := h.API.Login(ctx, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	// Persist before publishing identity: a snapshot showing a logged-in
	// user must never precede the credential both views read.
	if err := h.Credentials.Save(ctx, auth.Tokens); err != nil {
		log.Error("credential save failed", "error", err)
		httpx.WriteErrorJSON(w, http.StatusInternalServerError, "Something went wrong", "")
		return
	}
	h.Session.Login(auth.User, auth.Organization, auth.Organizations)

	log.Info("login", "user_id", auth.User.ID, "organization_id", auth.Organization.ID)

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, h.Session.Snapshot())
}

// HandleLogout clears credentials and session state. Logging out while
// already logged out is fine; the response is the same.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.Session.Logout(r.Context()); err != nil {
		slogx.FromContext(r.Context()).Error("logout failed", "error", err)
		httpx.WriteErrorJSON(w, http.StatusInternalServerError, "Something went wrong", "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSession returns the current session snapshot.
func (h *AuthHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, h.Session.Snapshot())
}

type switchOrganizationRequest struct {
	OrganizationID string `json:"organizationId"`
}

// HandleSwitchOrganization changes the active organization. The target must
// already be in the session's organization list.
func (h *AuthHandler) HandleSwitchOrganization(w http.ResponseWriter, r *http.Request) {
	var req switchOrganizationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	snap := h.Session.Snapshot()
	var target *session.Organization
	for i := range snap.Organizations {
		if snap.Organizations[i].ID == req.OrganizationID {
			target = &snap.Organizations[i]
			break
		}
	}
	if target == nil {
		writeError(w, r, session.ErrInvalidOrganization)
		return
	}

	if err := h.Session.SwitchOrganization(*target); err != nil {
		writeError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, h.Session.Snapshot())
}
