package main

import (
	"context"
	"database/sql"
	"delivery-cost-service/internal/adapters/cache"
	"delivery-cost-service/internal/config"
	"delivery-cost-service/internal/platform/db"
	"flag"
	"log"
	"strings"
	"time"
)

// dbtool prepares and maintains the SQL quote cache.
//
//	dbtool -backend postgres           # DATABASE_URL
//	dbtool -backend sqlite -purge      # SQLITE_PATH
func main() {
	if !config.LoadDotEnv() {
		log.Println("No .env file found (using environment variables)")
	}

	backend := flag.String("backend", defaultBackend(config.Get("CACHE_BACKEND", "")), "postgres or sqlite")
	purge := flag.Bool("purge", false, "delete expired cache entries after schema init")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var (
		conn   *sql.DB
		purger func(context.Context) (int64, error)
		err    error
	)

	switch *backend {
	case "postgres":
		databaseURL := config.Get("DATABASE_URL", "")
		if databaseURL == "" {
			log.Fatal("DATABASE_URL is required")
		}
		conn, err = db.Open(ctx, databaseURL)
		if err != nil {
			log.Fatal(err)
		}
		purger = cache.NewSQLQuoteCache(conn).PurgeExpired
	case "sqlite":
		conn, err = db.OpenSQLite(ctx, config.Get("SQLITE_PATH", "data/cache.db"))
		if err != nil {
			log.Fatal(err)
		}
		purger = cache.NewSqliteQuoteCache(conn).PurgeExpired
	default:
		log.Fatalf("unsupported backend %q (want postgres or sqlite)", *backend)
	}
	defer conn.Close()

	if err := initAndPurge(ctx, conn, purger, *purge); err != nil {
		log.Fatal(err)
	}
}

// defaultBackend picks the SQL backend matching CACHE_BACKEND, or postgres
// when the server runs a non-SQL cache.
func defaultBackend(cacheBackend string) string {
	switch strings.ToLower(cacheBackend) {
	case "sqlite":
		return "sqlite"
	default:
		return "postgres"
	}
}

func initAndPurge(ctx context.Context, conn *sql.DB, purger func(context.Context) (int64, error), purge bool) error {
	log.Println("Initializing quote cache schema...")
	if err := cache.InitSchema(ctx, conn); err != nil {
		return err
	}
	log.Println("Schema ready.")

	if !purge {
		return nil
	}

	log.Println("Purging expired quotes...")
	n, err := purger(ctx)
	if err != nil {
		return err
	}
	log.Printf("Purge complete. removed=%d", n)

	return nil
}
