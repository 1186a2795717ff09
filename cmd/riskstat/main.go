package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	"github.com/arcadia-data/riskstat/internal/api"
	"github.com/arcadia-data/riskstat/internal/dataset"
	"github.com/arcadia-data/riskstat/internal/db"
	"github.com/arcadia-data/riskstat/internal/fraud"
	"github.com/arcadia-data/riskstat/internal/version"
)

var (
	listen        = flag.String("listen", ":8080", "Listen address")
	dbFile        = flag.String("db", "riskstat.db", "SQLite database file")
	dataFile      = flag.String("data", "", "Transaction CSV to ingest at startup")
	migrationsDir = flag.String("migrations", "", "Migrations directory to apply at startup (optional)")
	highValue     = flag.Float64("high-value", fraud.DefaultHighValueThreshold, "High-value transaction threshold")
	devMode       = flag.Bool("dev", false, "Run in dev mode (loads fixtures.csv when the database is empty)")
)

func main() {
	flag.Parse()

	if *listen == "" {
		log.Fatal("Listen address is required")
	}

	log.Printf("riskstat %s (%s)", version.Version, version.GitSHA)

	database, err := db.NewDB(*dbFile)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if *migrationsDir != "" {
		if err := database.MigrateUp(*migrationsDir); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	ingest := *dataFile
	if ingest == "" && *devMode {
		if n, err := database.CountTransactions(); err == nil && n == 0 {
			ingest = "fixtures.csv"
		}
	}
	if ingest != "" {
		transactions, err := dataset.LoadTransactions(ingest, nil)
		if err != nil {
			log.Fatalf("Failed to load dataset %s: %v", ingest, err)
		}
		if err := database.InsertTransactions(transactions); err != nil {
			log.Fatalf("Failed to store dataset: %v", err)
		}
		log.Printf("Ingested %d transactions from %s", len(transactions), ingest)
	}

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	wg.Add(1)
	go func() {
		defer wg.Done()

		mux := api.NewServer(database, *highValue).ServeMux()
		database.AttachAdminRoutes(mux)

		server := &http.Server{
			Addr:    *listen,
			Handler: api.LoggingMiddleware(mux),
		}

		go func() {
			log.Printf("Listening on %s", *listen)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		<-ctx.Done()
		log.Println("shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
			if err := server.Close(); err != nil {
				log.Printf("HTTP server force close error: %v", err)
			}
		}

		log.Printf("HTTP server routine stopped")
	}()

	wg.Wait()
	log.Printf("Graceful shutdown complete")
}
