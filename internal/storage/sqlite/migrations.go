// ABOUTME: Ordered, versioned schema migrations for the message archive
// ABOUTME: Each migration is a set of idempotent schema operations
package sqlite

import (
	"database/sql"
	"fmt"
)

// Operation is a single idempotent schema change. Re-issuing an
// operation against a schema that already has it must not error, so a
// partially-applied-then-retried migration can complete.
type Operation interface {
	apply(tx *sql.Tx) error
}

// Migration is a versioned set of schema operations applied as one
// atomic unit together with its ledger entry.
type Migration struct {
	Version int
	Name    string
	Ops     []Operation
}

type createTable struct {
	name string
	body string
}

// CreateTable creates a table if it does not exist.
func CreateTable(name, body string) Operation {
	return createTable{name: name, body: body}
}

func (op createTable) apply(tx *sql.Tx) error {
	_, err := tx.Exec(fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", op.name, op.body))
	return err
}

type createVirtualTable struct {
	name   string
	module string
	body   string
}

// CreateVirtualTable creates a virtual table (e.g. fts5) if it does
// not exist.
func CreateVirtualTable(name, module, body string) Operation {
	return createVirtualTable{name: name, module: module, body: body}
}

func (op createVirtualTable) apply(tx *sql.Tx) error {
	_, err := tx.Exec(fmt.Sprintf("CREATE VIRTUAL TABLE IF NOT EXISTS %s USING %s(%s)", op.name, op.module, op.body))
	return err
}

type createIndex struct {
	name   string
	table  string
	expr   string
	unique bool
	where  string
}

// CreateIndex creates an index if it does not exist.
func CreateIndex(name, table, expr string) Operation {
	return createIndex{name: name, table: table, expr: expr}
}

// CreateUniqueIndex creates a unique partial index if it does not
// exist; where may be empty.
func CreateUniqueIndex(name, table, expr, where string) Operation {
	return createIndex{name: name, table: table, expr: expr, unique: true, where: where}
}

func (op createIndex) apply(tx *sql.Tx) error {
	stmt := "CREATE INDEX IF NOT EXISTS"
	if op.unique {
		stmt = "CREATE UNIQUE INDEX IF NOT EXISTS"
	}
	stmt = fmt.Sprintf("%s %s ON %s (%s)", stmt, op.name, op.table, op.expr)
	if op.where != "" {
		stmt = fmt.Sprintf("%s WHERE %s", stmt, op.where)
	}
	_, err := tx.Exec(stmt)
	return err
}

type addColumn struct {
	table  string
	column string
	def    string
}

// AddColumn adds a column to an existing table. SQLite has no ADD
// COLUMN IF NOT EXISTS, so presence is checked via PRAGMA table_info.
func AddColumn(table, column, def string) Operation {
	return addColumn{table: table, column: column, def: def}
}

func (op addColumn) apply(tx *sql.Tx) error {
	exists, err := hasColumn(tx, op.table, op.column)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	_, err = tx.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", op.table, op.column, op.def))
	return err
}

type rawSQL struct {
	stmt string
}

// RawSQL runs a statement verbatim. The statement itself must be safe
// to re-issue.
func RawSQL(stmt string) Operation {
	return rawSQL{stmt: stmt}
}

func (op rawSQL) apply(tx *sql.Tx) error {
	_, err := tx.Exec(op.stmt)
	return err
}

func hasColumn(tx *sql.Tx, table, column string) (bool, error) {
	rows, err := tx.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			cid        int
			name       string
			colType    string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultVal, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

// migrations is the full ordered history of the schema. Versions are
// strictly increasing and never reused; appending a new Migration here
// is the only way the schema changes.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create threads and messages",
		Ops: []Operation{
			CreateTable("threads", `
				id         TEXT PRIMARY KEY,
				title      TEXT NOT NULL,
				source_url TEXT,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			`),
			// No foreign key on thread_id: integrity is managed at the
			// application level to keep bulk inserts cheap.
			CreateTable("messages", `
				id         TEXT PRIMARY KEY,
				thread_id  TEXT NOT NULL,
				session_id TEXT,
				sender     TEXT,
				role       TEXT NOT NULL DEFAULT 'user',
				content    TEXT NOT NULL,
				metadata   TEXT DEFAULT '{}',
				parent_id  TEXT,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			`),
			CreateIndex("idx_messages_thread", "messages", "thread_id"),
			CreateIndex("idx_messages_session", "messages", "session_id"),
			CreateIndex("idx_messages_created", "messages", "created_at"),
		},
	},
	{
		Version: 2,
		Name:    "full-text index over message content",
		Ops: []Operation{
			// Trigram tokenization so substring and partial-word
			// queries match without language-aware stemming.
			CreateVirtualTable("messages_fts", "fts5", `
				content,
				content='messages',
				content_rowid='rowid',
				tokenize='trigram'
			`),
			RawSQL(`INSERT INTO messages_fts(messages_fts) VALUES ('rebuild')`),
		},
	},
	{
		Version: 3,
		Name:    "thread aliases, status, and message provenance",
		Ops: []Operation{
			AddColumn("threads", "name", "TEXT"),
			AddColumn("threads", "status", "TEXT NOT NULL DEFAULT 'open'"),
			AddColumn("messages", "source", "TEXT"),
			CreateUniqueIndex("idx_threads_name", "threads", "name", "name IS NOT NULL"),
			CreateIndex("idx_threads_status", "threads", "status"),
		},
	},
}
