package webapp

import (
	"encoding/json"
	"log"
	"net/http"
)

type errorResponse struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}

func (webapp *WebApp) renderError(w http.ResponseWriter, code int, message string) {
	if message == "" {
		message = http.StatusText(code)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(errorResponse{Code: code, Error: message}); err != nil {
		log.Printf("Error rendering error response: %v", err)
	}
}

func (webapp *WebApp) notFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		webapp.renderError(w, http.StatusNotFound, "")
	}
}
