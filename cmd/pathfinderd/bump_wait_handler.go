package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/transitsim/pathfinder/internal/app"
)

// replaceBumpWaitHandler swaps the capacity overlay between simulation
// iterations. An empty table clears every boarding constraint.
func (srv *server) replaceBumpWaitHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Index [][]int   `json:"index"`
		Times []float64 `json:"times"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		srv.badRequestResponse(w, r, err)
		return
	}

	err := srv.app.ReplaceBumpWait(input.Index, input.Times)
	switch {
	case errors.Is(err, app.ErrNoSupply):
		srv.noSupplyResponse(w, r)
		return
	case err != nil:
		srv.serverErrorResponse(w, r, err)
		return
	}

	srv.sendJSON(w, r, http.StatusOK, struct {
		ConstrainedBoardings int `json:"constrainedBoardings"`
	}{ConstrainedBoardings: len(input.Times)})
}
