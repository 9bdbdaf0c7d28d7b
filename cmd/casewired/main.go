// Command casewired runs the casewire realtime backend: a WebSocket push
// channel in front of the embedded case/proceeding store.
package main

import (
	"flag"
	"log"
	"net/http"

	"github.com/casewire/casewire/internal/config"
	"github.com/casewire/casewire/internal/server"
	"github.com/casewire/casewire/internal/store"
	"github.com/casewire/casewire/pkg/logger"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to TOML config file")
		addr       = flag.String("addr", "", "listen address (overrides config)")
		dbPath     = flag.String("db", "", "SQLite database path (overrides config)")
		logLevel   = flag.String("log-level", "", "minimum log level (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *dbPath != "" {
		cfg.DatabasePath = *dbPath
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	logBuild := logger.New().Level(cfg.LogLevel)
	if cfg.LogPath != "" {
		logBuild = logBuild.FromPath(cfg.LogPath)
	}
	zlog, err := logBuild.Make()
	if err != nil {
		log.Fatal(err)
	}

	st, err := store.Open(cfg.DatabasePath, zlog)
	if err != nil {
		log.Fatal(err)
	}
	defer st.Close()

	srv := server.New(st, zlog)
	zlog.Info().Str("addr", cfg.Addr).Str("db", cfg.DatabasePath).Msg("listening")
	if err := http.ListenAndServe(cfg.Addr, srv.Router()); err != nil {
		log.Fatal(err)
	}
}
