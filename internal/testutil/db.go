package testutil

import (
	"database/sql"
	"os"
	"testing"

	"github.com/xxxsen/kado/internal/config"
	"github.com/xxxsen/kado/internal/db"
)

// OpenTestDB connects to the postgres named by TEST_DB_HOST and truncates
// every table. Tests are skipped when the variable is unset.
func OpenTestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()
	host := os.Getenv("TEST_DB_HOST")
	if host == "" {
		t.Skip("TEST_DB_HOST not set, skipping postgres test")
	}
	conn, err := db.Open(config.DatabaseConfig{
		Host:     host,
		Port:     5432,
		User:     "kado",
		Password: "kado_pass",
		DBName:   "kado_test",
		SSLMode:  "disable",
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.ApplyMigrations(conn); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	if _, err := conn.Exec("TRUNCATE blog_revisions, blogs, content_revisions, contents, staff RESTART IDENTITY CASCADE"); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return conn, func() {
		_ = conn.Close()
	}
}
