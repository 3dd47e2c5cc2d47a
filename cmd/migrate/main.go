// Command migrate applies or rolls back the database schema.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/contactdesk/contactdesk/internal/migrations"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "read .env:", err)
	}

	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		direction   = flag.String("direction", "up", "Migration direction: up or down")
		timeout     = flag.Duration("timeout", 30*time.Second, "Overall timeout")
	)
	flag.Parse()

	if err := run(*databaseURL, *direction, *timeout); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func run(databaseURL, direction string, timeout time.Duration) error {
	if databaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}

	migrate, err := selectDirection(direction)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	if err := migrate(ctx, db); err != nil {
		return err
	}

	fmt.Printf("migrations %s: done\n", direction)
	return nil
}

func selectDirection(direction string) (func(context.Context, migrations.Execer) error, error) {
	switch direction {
	case "up":
		return migrations.Apply, nil
	case "down":
		return migrations.Rollback, nil
	default:
		return nil, fmt.Errorf("unknown direction %q (want up or down)", direction)
	}
}
