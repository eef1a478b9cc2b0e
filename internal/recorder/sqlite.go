package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists the audit trail to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so external readers don't block the bot's writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS transactions (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp     INTEGER NOT NULL,
			tx_id         TEXT,
			chat_id       INTEGER,
			fund          TEXT,
			kind          TEXT,
			amount        INTEGER,
			description   TEXT,
			actor         TEXT,
			balance_after INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tx_ts ON transactions(timestamp)`,

		`CREATE TABLE IF NOT EXISTS undos (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp     INTEGER NOT NULL,
			tx_id         TEXT,
			chat_id       INTEGER,
			fund          TEXT,
			kind          TEXT,
			amount        INTEGER,
			balance_after INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_undo_ts ON undos(timestamp)`,

		`CREATE TABLE IF NOT EXISTS cycle_resets (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp       INTEGER NOT NULL,
			chat_id         INTEGER,
			archive_key     TEXT,
			total_deposited INTEGER,
			total_withdrawn INTEGER,
			entries         INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reset_ts ON cycle_resets(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordTransaction(evt *TransactionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx := evt.Transaction
	_, err := r.db.Exec(`INSERT INTO transactions
		(timestamp, tx_id, chat_id, fund, kind, amount, description, actor, balance_after)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		tx.Time.Unix(), tx.ID, evt.ChatID, string(evt.Fund), string(tx.Kind),
		tx.Amount, tx.Description, tx.Actor, evt.BalanceAfter,
	)
	return err
}

func (r *SQLiteRecorder) RecordUndo(evt *UndoEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx := evt.Transaction
	_, err := r.db.Exec(`INSERT INTO undos
		(timestamp, tx_id, chat_id, fund, kind, amount, balance_after)
		VALUES (?,?,?,?,?,?,?)`,
		time.Now().Unix(), tx.ID, evt.ChatID, string(evt.Fund), string(tx.Kind),
		tx.Amount, evt.BalanceAfter,
	)
	return err
}

func (r *SQLiteRecorder) RecordReset(evt *ResetEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO cycle_resets
		(timestamp, chat_id, archive_key, total_deposited, total_withdrawn, entries)
		VALUES (?,?,?,?,?,?)`,
		time.Now().Unix(), evt.ChatID, evt.ArchiveKey,
		evt.TotalDeposited, evt.TotalWithdrawn, evt.Entries,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
