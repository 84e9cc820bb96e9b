// Package handlers provides JSON response helpers shared by HTTP handlers.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/curator-io/curator/pkg/resource"
)

// RespondJSON writes data as a JSON response with the given status.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

// RespondError logs err and writes it as a JSON error body.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	logger.Error("request failed", "status", status, "error", err)
	RespondJSON(w, status, map[string]string{"error": err.Error()})
}

// RespondResult writes a result envelope. The envelope code doubles as the
// HTTP status; the body is always the full envelope.
func RespondResult(w http.ResponseWriter, result resource.Result) {
	RespondJSON(w, result.Code, result)
}
