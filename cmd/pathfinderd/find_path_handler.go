package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/transitsim/pathfinder/internal/app"
	"github.com/transitsim/pathfinder/internal/pathfinder"
)

// findPathHandler runs one traveler query. The answer carries the hop rows
// as parallel integer and float tables; both empty means no path, which is
// a successful response.
func (srv *server) findPathHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		TravelerID    int     `json:"travelerId"`
		PathID        int     `json:"pathId"`
		Hyperpath     bool    `json:"hyperpath"`
		Origin        int     `json:"origin"`
		Destination   int     `json:"destination"`
		Outbound      bool    `json:"outbound"`
		PreferredTime float64 `json:"preferredTime"`
		Trace         bool    `json:"trace"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		srv.badRequestResponse(w, r, err)
		return
	}

	result, err := srv.app.FindPath(pathfinder.PathSpecification{
		TravelerID:     input.TravelerID,
		PathID:         input.PathID,
		Hyperpath:      input.Hyperpath,
		OriginTAZ:      input.Origin,
		DestinationTAZ: input.Destination,
		Outbound:       input.Outbound,
		PreferredTime:  input.PreferredTime,
		Trace:          input.Trace,
	})
	switch {
	case errors.Is(err, app.ErrNoSupply):
		srv.noSupplyResponse(w, r)
		return
	case err != nil:
		srv.badRequestResponse(w, r, err)
		return
	}

	srv.sendJSON(w, r, http.StatusOK, struct {
		Found  bool        `json:"found"`
		Ints   [][]int     `json:"ints"`
		Floats [][]float64 `json:"floats"`
	}{
		Found:  !result.Empty(),
		Ints:   result.IntRows(),
		Floats: result.FloatRows(),
	})
}
