package main

import (
	"net/http"
)

func (srv *server) statusHandler(w http.ResponseWriter, r *http.Request) {
	stops, trips, ready := srv.app.SupplySummary()
	srv.sendJSON(w, r, http.StatusOK, struct {
		Status string `json:"status"`
		Env    string `json:"env"`
		Worker int    `json:"worker"`
		Ready  bool   `json:"ready"`
		Stops  int    `json:"stops"`
		Trips  int    `json:"trips"`
	}{
		Status: "ok",
		Env:    srv.app.Config.Env,
		Worker: srv.app.Config.WorkerID,
		Ready:  ready,
		Stops:  stops,
		Trips:  trips,
	})
}
