package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/transitsim/pathfinder/internal/app"
	"github.com/transitsim/pathfinder/internal/config"
	"github.com/transitsim/pathfinder/internal/logging"
)

// createTestServer builds a server instance around a test configuration.
func createTestServer(t *testing.T) *server {
	t.Helper()
	cfg := config.Default()
	cfg.Env = "test"
	cfg.APIKeys = []string{"TEST"}

	logger := logging.NewStructuredLogger(io.Discard, slog.LevelError)
	return &server{app: app.New(cfg, logger)}
}

func supplyPayload() map[string]any {
	return map[string]any{
		"accessIndex":   [][]int{{1, 10}, {2, 11}},
		"accessData":    [][]float64{{5, 1, 1}, {3, 0.5, 0.5}},
		"stopTimeIndex": [][]int{{30, 1, 10}, {30, 2, 11}},
		"stopTimeData":  [][]float64{{100, 100}, {120, 120}},
	}
}

// postJSON sends a payload to an endpoint of a running test server and
// decodes the response body into a generic map.
func postJSON(t *testing.T, ts *httptest.Server, endpoint string, payload any) (*http.Response, map[string]any) {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	resp, err := http.Post(ts.URL+endpoint, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close() // nolint:errcheck

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func getJSON(t *testing.T, ts *httptest.Server, endpoint string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Get(ts.URL + endpoint)
	require.NoError(t, err)
	defer resp.Body.Close() // nolint:errcheck

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

// serveWithSupply starts a test server with the two stop network loaded.
func serveWithSupply(t *testing.T) *httptest.Server {
	t.Helper()
	srv := createTestServer(t)
	ts := httptest.NewServer(srv.routes())
	t.Cleanup(ts.Close)

	resp, _ := postJSON(t, ts, "/v1/supply?key=TEST", supplyPayload())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return ts
}
