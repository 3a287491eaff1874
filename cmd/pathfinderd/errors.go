package main

import (
	"net/http"
)

type errorPayload struct {
	Code int    `json:"code"`
	Text string `json:"text"`
}

func (srv *server) errorResponse(w http.ResponseWriter, r *http.Request, status int, text string) {
	srv.sendJSON(w, r, status, errorPayload{Code: status, Text: text})
}

// invalidAPIKeyResponse sends a 401 Unauthorized response for requests
// missing a valid key.
func (srv *server) invalidAPIKeyResponse(w http.ResponseWriter, r *http.Request) {
	srv.errorResponse(w, r, http.StatusUnauthorized, "permission denied")
}

func (srv *server) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	srv.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

// serverErrorResponse reports fatal construction failures; the table error
// text is forwarded so the simulation driver can log the exact mismatch.
func (srv *server) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	srv.app.Logger.Error("request failed", "error", err, "path", r.URL.Path)
	srv.errorResponse(w, r, http.StatusInternalServerError, err.Error())
}

func (srv *server) noSupplyResponse(w http.ResponseWriter, r *http.Request) {
	srv.errorResponse(w, r, http.StatusConflict, "network supply not built")
}
