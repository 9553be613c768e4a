package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/ResetToBasics/M-Ecosmeticos/internal/repo"
	"github.com/ResetToBasics/M-Ecosmeticos/internal/revision"
	"github.com/ResetToBasics/M-Ecosmeticos/internal/shop"
)

// App bundles the handlers' collaborators.
type App struct {
	Products *repo.ProductRepository
	Settings *repo.SettingsRepository
	Rev      *revision.Clock
	Poller   *revision.Poller
	Gate     *Gate
	Feed     *Feed
	Logger   shop.Logger
}

type syncStatus struct {
	Revision        int64  `json:"revision"`
	State           string `json:"state"`
	UpdateAvailable bool   `json:"updateAvailable"`
	LastCheckedAt   string `json:"lastCheckedAt,omitempty"`
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (a *App) getProductsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	writeJSON(w, http.StatusOK, a.Products.List())
}

func (a *App) getSettingsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	writeJSON(w, http.StatusOK, a.Settings.Load())
}

func (a *App) syncRevisionHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	st := syncStatus{
		Revision:        a.Rev.Read(),
		State:           a.Poller.State().String(),
		UpdateAvailable: a.Poller.UpdateAvailable(),
	}
	if at := a.Poller.LastCheckedAt(); !at.IsZero() {
		st.LastCheckedAt = at.UTC().Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, st)
}

func (a *App) loginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	token, ok := a.Gate.Login(req.Password)
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "invalid_credentials", "")
		return
	}
	a.Logger.Info("admin login", "request_id", RequestIDFromContext(r.Context()))
	writeJSON(w, http.StatusOK, loginResponse{Token: token})
}

func (a *App) logoutHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	a.Gate.Logout(token)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) createProductHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	var p shop.Product
	if err := decodeBody(r, &p); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if p.Name == "" {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "name is required")
		return
	}
	writeJSON(w, http.StatusCreated, a.Products.Create(p))
}

func (a *App) productByIDHandler(w http.ResponseWriter, r *http.Request) {
	id := shop.RecordID(strings.TrimPrefix(r.URL.Path, "/api/admin/products/"))
	if id == "" {
		WriteJSONError(w, http.StatusNotFound, "not_found", "")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var p shop.Product
		if err := decodeBody(r, &p); err != nil {
			WriteJSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
			return
		}
		// A missing id is a silent no-op: the unchanged catalog comes
		// back with a 200, matching the frontend's lenient contract.
		writeJSON(w, http.StatusOK, a.Products.Update(id, p))
	case http.MethodDelete:
		writeJSON(w, http.StatusOK, a.Products.Delete(id))
	default:
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
	}
}

func (a *App) saveSettingsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	var s shop.SiteSettings
	if err := decodeBody(r, &s); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, a.Settings.Save(s))
}

func (a *App) forceUpdateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	rev := a.Rev.ForceBump()
	a.Logger.Info("forced update", "revision", rev, "request_id", RequestIDFromContext(r.Context()))
	writeJSON(w, http.StatusOK, map[string]int64{"revision": rev})
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
