// ABOUTME: Tests for the migration engine and version ledger
// ABOUTME: Covers idempotence, ordering validation, and mid-run failure
package sqlite

import (
	"database/sql"
	"testing"
)

func newTestConn(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func ledgerVersions(t *testing.T, conn *sql.DB) []int {
	t.Helper()
	rows, err := conn.Query(`SELECT version FROM schema_version ORDER BY version`)
	if err != nil {
		t.Fatalf("failed to read ledger: %v", err)
	}
	defer func() { _ = rows.Close() }()

	var versions []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			t.Fatalf("failed to scan version: %v", err)
		}
		versions = append(versions, v)
	}
	return versions
}

func TestMigrateAppliesAllVersions(t *testing.T) {
	conn := newTestConn(t)

	if err := applyMigrations(conn, migrations); err != nil {
		t.Fatalf("migration failed: %v", err)
	}

	got := ledgerVersions(t, conn)
	want := []int{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("expected versions %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected versions %v, got %v", want, got)
		}
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	conn := newTestConn(t)

	if err := applyMigrations(conn, migrations); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	first := ledgerVersions(t, conn)

	if err := applyMigrations(conn, migrations); err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	second := ledgerVersions(t, conn)

	if len(first) != len(second) {
		t.Errorf("second run changed the ledger: %v vs %v", first, second)
	}
}

func TestMigratePicksUpWhereItLeftOff(t *testing.T) {
	conn := newTestConn(t)

	// apply only v1, then the full list
	if err := applyMigrations(conn, migrations[:1]); err != nil {
		t.Fatalf("partial run failed: %v", err)
	}
	if got := ledgerVersions(t, conn); len(got) != 1 || got[0] != 1 {
		t.Fatalf("expected ledger [1], got %v", got)
	}

	if err := applyMigrations(conn, migrations); err != nil {
		t.Fatalf("full run failed: %v", err)
	}
	if got := ledgerVersions(t, conn); len(got) != 3 {
		t.Fatalf("expected 3 ledger rows, got %v", got)
	}
}

func TestMigrateFailureAborts(t *testing.T) {
	conn := newTestConn(t)

	migs := []Migration{
		{Version: 1, Name: "good", Ops: []Operation{
			CreateTable("widgets", `id TEXT PRIMARY KEY`),
		}},
		{Version: 2, Name: "bad", Ops: []Operation{
			RawSQL(`THIS IS NOT SQL`),
		}},
		{Version: 3, Name: "never reached", Ops: []Operation{
			CreateTable("gadgets", `id TEXT PRIMARY KEY`),
		}},
	}

	err := applyMigrations(conn, migs)
	if err == nil {
		t.Fatal("expected migration failure")
	}

	// v1 committed, v2 rolled back, v3 never attempted
	got := ledgerVersions(t, conn)
	if len(got) != 1 || got[0] != 1 {
		t.Fatalf("expected ledger [1] after failure, got %v", got)
	}
	var count int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE name = 'gadgets'`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Error("migration after the failing one should not have run")
	}
}

func TestValidateOrder(t *testing.T) {
	tests := []struct {
		name     string
		versions []int
		wantErr  bool
	}{
		{"empty", nil, false},
		{"single", []int{1}, false},
		{"ascending", []int{1, 2, 3}, false},
		{"gaps allowed", []int{1, 5, 9}, false},
		{"duplicate", []int{1, 2, 2}, true},
		{"regression", []int{2, 1}, true},
		{"zero version", []int{0, 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			migs := make([]Migration, len(tt.versions))
			for i, v := range tt.versions {
				migs[i] = Migration{Version: v, Name: "m"}
			}
			err := validateOrder(migs)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateOrder(%v) error = %v, wantErr %v", tt.versions, err, tt.wantErr)
			}
		})
	}
}

func TestAddColumnIsIdempotent(t *testing.T) {
	conn := newTestConn(t)

	migs := []Migration{
		{Version: 1, Name: "base", Ops: []Operation{
			CreateTable("widgets", `id TEXT PRIMARY KEY`),
		}},
	}
	if err := applyMigrations(conn, migs); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	op := AddColumn("widgets", "color", "TEXT")
	for i := 0; i < 2; i++ {
		tx, err := conn.Begin()
		if err != nil {
			t.Fatal(err)
		}
		if err := op.apply(tx); err != nil {
			t.Fatalf("apply %d failed: %v", i, err)
		}
		if err := tx.Commit(); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := conn.Exec(`UPDATE widgets SET color = 'red'`); err != nil {
		t.Errorf("column should exist after repeated AddColumn: %v", err)
	}
}
