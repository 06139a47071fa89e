package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"propsense/backend"
	"propsense/config"
	"propsense/httpapi"
	"propsense/httputil"
	"propsense/logging"
	"propsense/scheduler"
	"propsense/services"
	"propsense/storage"
	"propsense/tui"
)

var (
	runTUI = flag.Bool("tui", false, "Run the interactive terminal UI instead of the headless daemon")
)

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// The TUI owns the terminal, so file-only logging there.
	var logFile *logging.RotatingWriter
	if *runTUI {
		logFile, err = logging.SetupFileOnly(cfg.LogPath)
	} else {
		logFile, err = logging.Setup(cfg.LogPath)
	}
	if err != nil {
		log.Printf("Warning: could not set up file logging: %v", err)
	} else {
		defer logFile.Close()
	}

	log.Println("Starting propsense monitor...")
	log.Printf("Backend: %s", cfg.Backend.BaseURL)
	log.Printf("Polling: dashboard %s, sensors %s", cfg.Poll.Dashboard, cfg.Poll.Sensors)

	api := backend.NewClient(cfg.Backend.BaseURL, httputil.NewAPIClient(cfg.Backend.Timeout))

	var store *storage.SQLiteStore
	if cfg.Cache.Enabled {
		store, err = storage.NewSQLiteStore(cfg.DBPath)
		if err != nil {
			log.Fatalf("Failed to open SQLite: %v", err)
		}
		defer store.Close()
		log.Printf("Snapshot cache: %s", cfg.DBPath)
	} else {
		log.Println("Snapshot cache disabled")
	}

	var journal services.MutationJournal
	if store != nil {
		journal = store
	}
	ticketSvc := services.NewTicketService(api, journal)
	userSvc := services.NewUserService(api, journal)

	sched := scheduler.New(cfg, api, store, ticketSvc, userSvc)
	sched.Seed()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := sched.Start(ctx); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	if *runTUI {
		if err := tui.Run(cfg, sched, ticketSvc, userSvc); err != nil {
			log.Fatalf("TUI error: %v", err)
		}
		log.Println("Goodbye!")
		return
	}

	apiServer := httpapi.NewServer(sched, ticketSvc, api)
	httpServer := &http.Server{
		Addr:    cfg.HTTP.ListenAddr,
		Handler: apiServer.Handler(),
	}
	go func() {
		log.Printf("HTTP API listening on %s", cfg.HTTP.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server: %v", err)
		}
	}()

	log.Println("Daemon running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown: %v", err)
	}
	log.Println("Goodbye!")
}
