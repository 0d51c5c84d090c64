package respond

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/wb-go/wbf/zlog"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		zlog.Logger.Error().Err(err).Int("status", status).Msg("Failed to encode response")
	}
}

// Error writes the standard error envelope. details is omitted when empty.
func Error(w http.ResponseWriter, status int, title, message, details string) {
	JSON(w, status, ErrorResponse{
		Error:   title,
		Message: message,
		Details: details,
	})
}

func NotFound(w http.ResponseWriter, r *http.Request) {
	Error(w, http.StatusNotFound, "Not Found", fmt.Sprintf("Route %s %s not found", r.Method, r.URL.RequestURI()), "")
}
