package server

import (
	"net/http"
)

// NewRouter registers the HTTP routes and returns the handler with
// middleware applied.
func NewRouter(app *App) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/products", app.getProductsHandler)
	mux.HandleFunc("/api/settings", app.getSettingsHandler)
	mux.HandleFunc("/api/sync/revision", app.syncRevisionHandler)
	mux.HandleFunc("/api/sync/feed", app.Feed.Handle)
	mux.HandleFunc("/api/admin/login", app.loginHandler)
	mux.HandleFunc("/api/admin/logout", RequireAdmin(app.Gate, app.logoutHandler))
	mux.HandleFunc("/api/admin/products", RequireAdmin(app.Gate, app.createProductHandler))
	mux.HandleFunc("/api/admin/products/", RequireAdmin(app.Gate, app.productByIDHandler))
	mux.HandleFunc("/api/admin/settings", RequireAdmin(app.Gate, app.saveSettingsHandler))
	mux.HandleFunc("/api/admin/force-update", RequireAdmin(app.Gate, app.forceUpdateHandler))
	mux.HandleFunc("/healthz", app.healthHandler)
	return WithRequestID(WithLogging(app.Logger, WithRecovery(app.Logger, mux)))
}
