package handler

import (
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/templui/mediafaves/internal/db"
)

type healthHandler struct {
	db *sqlx.DB
}

func NewHealthHandler(database *sqlx.DB) *healthHandler {
	return &healthHandler{db: database}
}

func (h *healthHandler) Health(w http.ResponseWriter, r *http.Request) {
	err := db.Ping(r.Context(), h.db)
	if err != nil {
		slog.Warn("health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// NotFound answers unknown API paths with JSON rather than the static 404 page.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusNotFound, "Not found")
}
