package main

import (
	"encoding/json"
	"net/http"
)

func (srv *server) sendJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(payload)
	if err != nil {
		srv.app.Logger.Error("failed to encode response", "error", err, "path", r.URL.Path)
	}
}
