// Package migrations holds the database schema and applies it.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed sql/*.sql
var files embed.FS

// Migration is one versioned schema step.
type Migration struct {
	Name string
	Up   string
	Down string
}

// Execer is satisfied by *sql.DB, *sql.Tx and *sql.Conn.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// All returns the embedded migrations in version order.
func All() ([]Migration, error) {
	entries, err := fs.ReadDir(files, "sql")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	byName := make(map[string]*Migration)
	for _, entry := range entries {
		fileName := entry.Name()

		var name, direction string
		switch {
		case strings.HasSuffix(fileName, ".up.sql"):
			name, direction = strings.TrimSuffix(fileName, ".up.sql"), "up"
		case strings.HasSuffix(fileName, ".down.sql"):
			name, direction = strings.TrimSuffix(fileName, ".down.sql"), "down"
		default:
			continue
		}

		body, err := fs.ReadFile(files, "sql/"+fileName)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", fileName, err)
		}

		m, ok := byName[name]
		if !ok {
			m = &Migration{Name: name}
			byName[name] = m
		}
		if direction == "up" {
			m.Up = string(body)
		} else {
			m.Down = string(body)
		}
	}

	result := make([]Migration, 0, len(byName))
	for _, m := range byName {
		if m.Up == "" || m.Down == "" {
			return nil, fmt.Errorf("migration %s is missing its up or down script", m.Name)
		}
		result = append(result, *m)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })

	return result, nil
}

// Apply runs every up script in order. Scripts are idempotent.
func Apply(ctx context.Context, db Execer) error {
	all, err := All()
	if err != nil {
		return err
	}

	for _, m := range all {
		if _, err := db.ExecContext(ctx, m.Up); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.Name, err)
		}
	}
	return nil
}

// Rollback runs every down script in reverse order.
func Rollback(ctx context.Context, db Execer) error {
	all, err := All()
	if err != nil {
		return err
	}

	for i := len(all) - 1; i >= 0; i-- {
		if _, err := db.ExecContext(ctx, all[i].Down); err != nil {
			return fmt.Errorf("rollback migration %s: %w", all[i].Name, err)
		}
	}
	return nil
}
