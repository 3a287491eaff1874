package main

import (
	"encoding/json"
	"net/http"

	"github.com/transitsim/pathfinder/internal/app"
)

// buildSupplyHandler accepts the six parallel network tables and replaces
// the worker's supply wholesale. Any dimensional mismatch is fatal for the
// request and leaves the previous supply in place.
func (srv *server) buildSupplyHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		AccessIndex   [][]int     `json:"accessIndex"`
		AccessData    [][]float64 `json:"accessData"`
		StopTimeIndex [][]int     `json:"stopTimeIndex"`
		StopTimeData  [][]float64 `json:"stopTimeData"`
		TransferIndex [][]int     `json:"transferIndex"`
		TransferData  [][]float64 `json:"transferData"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		srv.badRequestResponse(w, r, err)
		return
	}

	err := srv.app.BuildSupply(app.SupplyTables{
		AccessIndex:   input.AccessIndex,
		AccessData:    input.AccessData,
		StopTimeIndex: input.StopTimeIndex,
		StopTimeData:  input.StopTimeData,
		TransferIndex: input.TransferIndex,
		TransferData:  input.TransferData,
	})
	if err != nil {
		srv.serverErrorResponse(w, r, err)
		return
	}

	stops, trips, _ := srv.app.SupplySummary()
	srv.sendJSON(w, r, http.StatusOK, struct {
		Stops int `json:"stops"`
		Trips int `json:"trips"`
	}{Stops: stops, Trips: trips})
}
