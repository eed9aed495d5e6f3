package httpapi

import (
	"expvar"
	"net/http"
)

// NewRouter registers HTTP routes and returns the handler.
func NewRouter(app *App) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /assets", app.mintHandler)
	mux.HandleFunc("GET /assets/{id}", app.assetHandler)
	mux.HandleFunc("POST /assets/{id}/list", app.listHandler)
	mux.HandleFunc("POST /assets/{id}/delist", app.delistHandler)
	mux.HandleFunc("POST /assets/{id}/purchase", app.purchaseHandler)
	mux.HandleFunc("GET /assets/{id}/trades", app.tradesHandler)
	mux.HandleFunc("POST /admin/pause", app.pauseHandler)
	mux.HandleFunc("POST /admin/unpause", app.unpauseHandler)
	mux.HandleFunc("POST /admin/fee-receiver", app.feeReceiverHandler)
	mux.HandleFunc("GET /healthz", app.healthHandler)
	mux.HandleFunc("GET /debug/metrics", app.metricsHandler)
	mux.Handle("GET /debug/vars", expvar.Handler())
	return mux
}
