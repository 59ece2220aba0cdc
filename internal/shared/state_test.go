package shared

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestState(t *testing.T) {
	t.Run("schemas", func(t *testing.T) {
		all, err := schemas()
		if err != nil {
			t.Fatalf("failed to load schemas: %v", err)
		}
		if len(all) == 0 {
			t.Fatal("expected at least one schema")
		}
		if all[0].Version != 1 || all[0].Name != "create_dialog_state" {
			t.Errorf("unexpected first schema %d %q", all[0].Version, all[0].Name)
		}
		for _, s := range all {
			if len(s.Up) == 0 || len(s.Down) == 0 {
				t.Errorf("schema %d is missing statements", s.Version)
			}
		}
	})

	t.Run("statements", func(t *testing.T) {
		tt := []struct {
			name  string
			input string
			want  []string
		}{
			{name: "empty", input: "", want: nil},
			{name: "comment only", input: "-- nothing here\n", want: nil},
			{name: "two statements", input: "CREATE TABLE a (x INT);\nDROP TABLE b;", want: []string{"CREATE TABLE a (x INT)", "DROP TABLE b"}},
			{name: "trailing comment", input: "SELECT 1; -- done\n", want: []string{"SELECT 1"}},
			{name: "multi-line", input: "CREATE TABLE a (\n  x INT -- id\n);", want: []string{"CREATE TABLE a (\nx INT\n)"}},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				if got := statements(tc.input); !reflect.DeepEqual(got, tc.want) {
					t.Errorf("expected %q, got %q", tc.want, got)
				}
			})
		}
	})

	t.Run("OpenState", func(t *testing.T) {
		t.Run("in memory", func(t *testing.T) {
			db, err := OpenState(StateConfig{Path: MemoryState})
			if err != nil {
				t.Fatalf("failed to open state: %v", err)
			}
			defer db.Close()

			if _, err := db.Exec("SELECT 1 FROM dialog_state LIMIT 1"); err != nil {
				t.Errorf("dialog_state should exist after open: %v", err)
			}
			if v, _ := SchemaVersion(db); v != 1 {
				t.Errorf("expected schema 1, got %d", v)
			}
		})

		t.Run("creates parent directory", func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "nested", "state")
			db, err := OpenState(StateConfig{Path: filepath.Join(dir, "plx.db"), MaxOpenConns: 2, MaxIdleConns: 1})
			if err != nil {
				t.Fatalf("failed to open state: %v", err)
			}
			defer db.Close()

			if _, err := os.Stat(filepath.Join(dir, "plx.db")); err != nil {
				t.Errorf("expected database file: %v", err)
			}
		})

		t.Run("requires a path", func(t *testing.T) {
			if _, err := OpenState(StateConfig{}); !errors.Is(err, ErrMissingArgument) {
				t.Errorf("expected ErrMissingArgument, got %v", err)
			}
		})
	})

	t.Run("Migrate is idempotent", func(t *testing.T) {
		db, err := OpenState(StateConfig{Path: MemoryState})
		if err != nil {
			t.Fatalf("failed to open state: %v", err)
		}
		defer db.Close()

		n, err := Migrate(db)
		if err != nil {
			t.Fatalf("failed to migrate again: %v", err)
		}
		if n != 0 {
			t.Errorf("expected nothing to apply, got %d", n)
		}
	})

	t.Run("Rollback", func(t *testing.T) {
		db, err := OpenState(StateConfig{Path: MemoryState})
		if err != nil {
			t.Fatalf("failed to open state: %v", err)
		}
		defer db.Close()

		v, err := Rollback(db)
		if err != nil {
			t.Fatalf("failed to roll back: %v", err)
		}
		if v != 1 {
			t.Errorf("expected schema 1 rolled back, got %d", v)
		}
		if _, err := db.Exec("SELECT 1 FROM dialog_state LIMIT 1"); err == nil {
			t.Error("dialog_state should be dropped after rollback")
		}
		if _, err := Rollback(db); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput on empty database, got %v", err)
		}
	})

	t.Run("ResetState discards rows and keeps the schema", func(t *testing.T) {
		db, err := OpenState(StateConfig{Path: MemoryState})
		if err != nil {
			t.Fatalf("failed to open state: %v", err)
		}
		defer db.Close()

		if _, err := db.Exec("INSERT INTO dialog_state (tag, kind, params) VALUES ('x', 'legacy', '{}')"); err != nil {
			t.Fatalf("failed to insert row: %v", err)
		}
		if err := ResetState(db); err != nil {
			t.Fatalf("failed to reset: %v", err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM dialog_state").Scan(&count); err != nil {
			t.Fatalf("dialog_state should exist after reset: %v", err)
		}
		if count != 0 {
			t.Errorf("expected no rows after reset, got %d", count)
		}
		if v, _ := SchemaVersion(db); v != 1 {
			t.Errorf("expected schema 1 after reset, got %d", v)
		}
	})
}
