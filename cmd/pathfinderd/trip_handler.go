package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/transitsim/pathfinder/internal/app"
	"github.com/transitsim/pathfinder/internal/utils"
)

// tripHandler exposes one trip's ordered stop-times for inspection and
// debugging of an uploaded supply.
func (srv *server) tripHandler(w http.ResponseWriter, r *http.Request) {
	rawID := utils.ExtractIDFromParams(r, "id")
	trip, err := strconv.Atoi(rawID)
	if err != nil {
		srv.badRequestResponse(w, r, err)
		return
	}

	stopTimes, err := srv.app.TripStopTimes(trip)
	if errors.Is(err, app.ErrNoSupply) {
		srv.noSupplyResponse(w, r)
		return
	}
	if len(stopTimes) == 0 {
		srv.errorResponse(w, r, http.StatusNotFound, "unknown trip")
		return
	}

	type stopTimeEntry struct {
		Seq       int     `json:"seq"`
		Stop      int     `json:"stop"`
		Arrival   float64 `json:"arrival"`
		Departure float64 `json:"departure"`
	}
	entries := make([]stopTimeEntry, 0, len(stopTimes))
	for _, st := range stopTimes {
		entries = append(entries, stopTimeEntry{
			Seq: st.Seq, Stop: st.Stop, Arrival: st.Arrival, Departure: st.Departure,
		})
	}
	srv.sendJSON(w, r, http.StatusOK, struct {
		Trip      int             `json:"trip"`
		StopTimes []stopTimeEntry `json:"stopTimes"`
	}{Trip: trip, StopTimes: entries})
}
