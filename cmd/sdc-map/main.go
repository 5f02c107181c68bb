// Command sdc-map runs the survey collection server.
//
// The server stores submissions it cannot read: clients seal their answers
// for the operator's public key before posting, and the server only ever
// sees the resulting envelopes.
//
// # Configuration File
//
// Create a YAML file with server settings:
//
//	http_addr: ":8080"
//	admin_key: "shared-admin-key"
//	geo_dir: "geodata"
//	drain_duration: 5s
//	store:
//	  driver: sqlite
//	  dsn: "answers.db"
//
// # Endpoints
//
// Public:
//   - POST /submit - Store a sealed submission
//   - GET /geo/* - Boundary dataset files (when geo_dir set)
//   - GET /livez, /readyz - Health checks
//
// Privileged (shared admin key in the request body):
//   - POST /admin/answers - Full id to ciphertext map
//
// # Usage
//
//	go run ./cmd/sdc-map --config=server.yaml
//	go run ./cmd/sdc-map --addr=:8080 --admin-key=secret
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/miniBill/sdc-map/cmd/common"
	"github.com/miniBill/sdc-map/httpserver"
	"github.com/miniBill/sdc-map/server"
	"github.com/miniBill/sdc-map/store"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to YAML config file")
		addr       = flag.String("addr", "", "HTTP listen address")
		adminKey   = flag.String("admin-key", "", "Shared key gating the answers fetch")
		geoDir     = flag.String("geo-dir", "", "Directory of boundary dataset files served under /geo")
		dbDriver   = flag.String("db-driver", "", "Database driver (sqlite or postgres)")
		dbDSN      = flag.String("db-dsn", "", "Database connection string")
	)
	flag.Parse()

	cfg, err := loadConfiguration(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	applyFlagOverrides(cfg, *addr, *adminKey, *geoDir, *dbDriver, *dbDSN)

	if err := run(cfg); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfiguration(configPath string) (*common.Config, error) {
	if configPath != "" {
		return common.LoadConfig(configPath)
	}
	return common.DefaultConfig(), nil
}

func applyFlagOverrides(cfg *common.Config, addr, adminKey, geoDir, dbDriver, dbDSN string) {
	if addr != "" {
		cfg.HTTPAddr = addr
	}
	if adminKey != "" {
		cfg.AdminKey = adminKey
	}
	if geoDir != "" {
		cfg.GeoDir = geoDir
	}
	if dbDriver != "" {
		cfg.Store.Driver = dbDriver
	}
	if dbDSN != "" {
		cfg.Store.DSN = dbDSN
	}
}

func run(cfg *common.Config) error {
	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	if cfg.AdminKey == "" {
		log.Warn("no admin key configured, the answers fetch is unprotected")
	}

	submissions, err := store.NewSQLStore(cfg.Store)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer submissions.Close()

	handler := server.NewHandler(submissions, cfg.AdminKey, cfg.GeoDir, log)

	srv, err := httpserver.New(&httpserver.Config{
		ListenAddr:               cfg.HTTPAddr,
		Log:                      log,
		DrainDuration:            cfg.DrainDuration,
		GracefulShutdownDuration: 10 * time.Second,
		ReadTimeout:              15 * time.Second,
		WriteTimeout:             15 * time.Second,
	}, handler)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	log.Info("collection server listening", "addr", cfg.HTTPAddr)
	srv.RunInBackground()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("shutting down")
	srv.Shutdown()
	return nil
}
