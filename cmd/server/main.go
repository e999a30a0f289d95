package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"github.com/mockforge/mockforge/internal/history"
	"github.com/mockforge/mockforge/internal/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		log.Println("loaded configuration from .env")
	}

	generatorURL := os.Getenv("GENERATOR_URL")
	if generatorURL == "" {
		generatorURL = "http://localhost:9090"
	}

	dsn := os.Getenv("HISTORY_DB")
	if dsn == "" {
		dsn = "file:mockforge.db"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("opening history database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	runs := history.NewSQLiteStore(db)
	if err := runs.CreateTable(ctx); err != nil {
		log.Fatalf("migrating history database: %v", err)
	}

	port := 8080
	if p := os.Getenv("PORT"); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	if err := server.Run(ctx, server.Config{
		Port:         port,
		GeneratorURL: generatorURL,
		Runs:         runs,
	}); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
