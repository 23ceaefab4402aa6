package api

import (
	"encoding/json"
	"net/http"
)

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

type resultResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
