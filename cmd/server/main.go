// Package main is the entry point for the basstab API server
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/james-see/basstab/pkg/api"
	"github.com/james-see/basstab/pkg/config"
	"github.com/james-see/basstab/pkg/converter"
	"github.com/james-see/basstab/pkg/session"
)

func main() {
	port := flag.Int("port", 0, "Server port (default from config, 8080)")
	configPath := flag.String("config", "", "Config file (YAML)")
	flag.Parse()

	if err := run(*configPath, *port); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, port int) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if port == 0 {
		port = cfg.Server.Port
	}

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	tuning, err := converter.LookupTuning(cfg.Tuning)
	if err != nil {
		return err
	}
	ts, err := cfg.TimeSig()
	if err != nil {
		return err
	}

	gin.SetMode(cfg.Server.Mode)
	logger.Info("swagger docs available", "url", fmt.Sprintf("http://localhost:%d/swagger/index.html", port))

	srv := api.NewServer(session.NewStore(logger), converter.New(tuning), ts, logger)
	return srv.Start(port)
}
