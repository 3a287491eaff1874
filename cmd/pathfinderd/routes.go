package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

type handlerFunc func(w http.ResponseWriter, r *http.Request)

func requireAPIKey(srv *server, finalHandler handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if srv.app.RequestHasInvalidAPIKey(r) {
			srv.invalidAPIKeyResponse(w, r)
			return
		}
		finalHandler(w, r)
	})
}

func (srv *server) routes() http.Handler {
	router := httprouter.New()

	router.Handler(http.MethodPost, "/v1/supply", requireAPIKey(srv, srv.buildSupplyHandler))
	router.Handler(http.MethodPost, "/v1/bump-wait", requireAPIKey(srv, srv.replaceBumpWaitHandler))
	router.Handler(http.MethodPost, "/v1/find-path", requireAPIKey(srv, srv.findPathHandler))
	router.Handler(http.MethodGet, "/v1/status", requireAPIKey(srv, srv.statusHandler))
	router.Handler(http.MethodGet, "/v1/trips/:id", requireAPIKey(srv, srv.tripHandler))
	router.Handler(http.MethodGet, "/metrics", srv.app.Metrics.Handler())

	return router
}
