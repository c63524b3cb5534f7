package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/templui/mediafaves/internal/ctxkeys"
	"github.com/templui/mediafaves/internal/errs"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Warn("failed to write response", "error", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}

// writeError maps an error kind to its status. Unclassified errors never
// leak their text to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch errs.KindOf(err) {
	case errs.KindValidation, errs.KindConflict:
		writeMessage(w, http.StatusBadRequest, errs.Message(err))
	case errs.KindUnauthorized:
		writeMessage(w, http.StatusUnauthorized, errs.Message(err))
	case errs.KindNotFound:
		writeMessage(w, http.StatusNotFound, errs.Message(err))
	case errs.KindUpstream:
		slog.Error("upstream request failed", "error", err, "path", r.URL.Path, "request_id", ctxkeys.RequestID(r.Context()))
		writeMessage(w, http.StatusInternalServerError, errs.Message(err))
	default:
		slog.Error("request failed", "error", err, "method", r.Method, "path", r.URL.Path, "request_id", ctxkeys.RequestID(r.Context()))
		writeMessage(w, http.StatusInternalServerError, "Server error")
	}
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errs.Validation("Request body too large")
		}
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	return body, nil
}
