package main

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	_ "github.com/jackc/pgx/v5/stdlib"

	"portal/internal/config"
	"portal/internal/repository/postgres"
)

// Drops the session table of the configured environment, signing everyone out.
// The server recreates it on the next start.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = db.Close() }() // Error ignored: script exiting

	tables := postgres.NewTableNames(cfg.TablePrefix)
	if _, err := db.Exec(fmt.Sprintf(`DROP TABLE IF EXISTS %s CASCADE`, tables.Sessions)); err != nil {
		log.Fatalf("Failed to drop session table: %v", err)
	}

	fmt.Printf("Session table dropped (%s)\n", tables.Sessions)
}
