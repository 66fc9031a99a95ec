package app

import (
	"net/http"

	"estate/pkg/utils"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// UserHeader carries the verified caller uid from the fronting proxy.
const UserHeader = "X-User-ID"

// Handler returns the metrics and debug endpoints.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(a.gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /debug/cache", a.handleCacheStats)
	mux.HandleFunc("POST /debug/cache/sweep", a.handleSweep)
	mux.HandleFunc("POST /debug/indexes/rebuild", a.handleRebuild)
	mux.HandleFunc("GET /debug/occupancy/{property}", a.handleOccupancy)
	mux.HandleFunc("GET /debug/resources/{kind}", a.handleList)
	mux.HandleFunc("GET /debug/resources/{kind}/{id}", a.handleLookup)

	return utils.ApplyMiddleware(mux,
		utils.RequestIDMiddleware,
		utils.LoggingMiddleware(a.logger),
		func(next http.Handler) http.Handler { return utils.RecoverMiddleware(a.logger, next) },
	)
}

func (a *App) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, a.CacheStats())
}

func (a *App) handleSweep(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, a.registry.Sweep())
}

func (a *App) handleRebuild(w http.ResponseWriter, r *http.Request) {
	indexes, err := a.RebuildIndexes(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, indexes)
}

func (a *App) handleOccupancy(w http.ResponseWriter, r *http.Request) {
	records, err := a.Occupancy(r.Context(), r.Header.Get(UserHeader), r.PathValue("property"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, records)
}

func (a *App) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := a.List(r.Context(), r.PathValue("kind"), r.Header.Get(UserHeader))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, items)
}

func (a *App) handleLookup(w http.ResponseWriter, r *http.Request) {
	item, err := a.Lookup(r.Context(), r.PathValue("kind"), r.Header.Get(UserHeader), r.PathValue("id"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, item)
}

func (a *App) writeJSON(w http.ResponseWriter, v any) {
	if err := utils.WriteJSON(w, v); err != nil {
		a.logger.Warn("Failed to write response", zap.Error(err))
	}
}

func (a *App) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if utils.StatusCode(err) >= http.StatusInternalServerError {
		a.logger.Error("Request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", r.Header.Get(utils.RequestIDHeader)),
			zap.Error(err))
	}
	utils.WriteError(w, r, err)
}
