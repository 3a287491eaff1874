package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/transitsim/pathfinder/internal/app"
	"github.com/transitsim/pathfinder/internal/config"
	"github.com/transitsim/pathfinder/internal/logging"
)

// server holds the dependencies for the HTTP handlers: one Application
// owning the engine, plus its configuration and logger.
type server struct {
	app *app.Application
}

func main() {
	var configPath string
	var port int

	flag.StringVar(&configPath, "config", "", "Path to YAML configuration file")
	flag.IntVar(&port, "port", 0, "Override the configured server port")
	flag.Parse()

	logger := logging.NewStructuredLogger(os.Stdout, slog.LevelInfo)

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if port != 0 {
		cfg.Port = port
	}

	srv := &server{app: app.New(cfg, logger)}

	httpServer := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Port),
		Handler:     srv.routes(),
		IdleTimeout: time.Minute,
		ReadTimeout: 30 * time.Second,
		// Supply uploads and searches on large networks take a while.
		WriteTimeout: 2 * time.Minute,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	logger.Info("starting server", "addr", httpServer.Addr, "env", cfg.Env, "worker", cfg.WorkerID)
	err = httpServer.ListenAndServe()
	logger.Error(err.Error())
	os.Exit(1)
}
