package db

import (
	"context"
	"os"
	"testing"
)

func TestOpen_InvalidDSN(t *testing.T) {
	testCases := []struct {
		name string
		dsn  string
	}{
		{"empty", ""},
		{"invalid format", "invalid-dsn"},
		{"missing driver", "://localhost/test"},
		{"whitespace", "   "},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db, err := Open(context.Background(), tc.dsn)
			if err == nil {
				if db != nil {
					db.Close()
				}
				t.Errorf("Open(%q) should return error", tc.dsn)
				return
			}
			if db != nil {
				t.Error("Open should return nil db when error occurs")
			}
		})
	}
}

func TestOpen_Success(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	db, err := Open(context.Background(), dsn)
	if err != nil {
		t.Skipf("database connection failed: %v", err)
	}
	defer db.Close()

	var result int
	if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
		t.Errorf("should be able to query database: %v", err)
	}
	if result != 1 {
		t.Errorf("query result = %d, want 1", result)
	}
}
