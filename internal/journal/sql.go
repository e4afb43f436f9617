package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS journal (
	id TEXT PRIMARY KEY,
	turn INTEGER NOT NULL,
	date INTEGER NOT NULL,
	player TEXT NOT NULL,
	event TEXT NOT NULL,
	subject TEXT NOT NULL,
	amount INTEGER NOT NULL,
	data TEXT,
	at TEXT NOT NULL
)`

const playerIndex = `CREATE INDEX IF NOT EXISTS idx_journal_player_turn ON journal(player, turn)`

const insertEntry = `INSERT INTO journal (id, turn, date, player, event, subject, amount, data, at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

const selectByPlayer = `SELECT id, turn, date, player, event, subject, amount, data, at
	FROM journal WHERE player = ? ORDER BY at, id`

// timeLayout sorts lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLSink stores entries in a journal table on sqlite or postgres.
type SQLSink struct {
	db     *sql.DB
	driver string
}

// OpenSQLite opens (creating if needed) a sqlite journal.
func OpenSQLite(path string) (*SQLSink, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return newSQLSink(context.Background(), db, "sqlite")
}

// OpenPostgres connects to a postgres journal.
func OpenPostgres(ctx context.Context, dsn string) (*SQLSink, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return newSQLSink(ctx, db, "postgres")
}

func newSQLSink(ctx context.Context, db *sql.DB, driver string) (*SQLSink, error) {
	for _, stmt := range []string{schema, playerIndex} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init schema: %w", err)
		}
	}
	return &SQLSink{db: db, driver: driver}, nil
}

func (s *SQLSink) Write(ctx context.Context, e Entry) error {
	var data []byte
	if len(e.Data) > 0 {
		var err error
		if data, err = json.Marshal(e.Data); err != nil {
			return err
		}
	}
	_, err := s.db.ExecContext(ctx, rebind(s.driver, insertEntry),
		e.ID.String(), e.Turn, e.Date, e.Player, e.Event, e.Subject, e.Amount,
		nullString(data), e.At.UTC().Format(timeLayout))
	return err
}

// Entries returns a player's entries in time order.
func (s *SQLSink) Entries(ctx context.Context, player string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, rebind(s.driver, selectByPlayer), player)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e      Entry
			id, at string
			data   sql.NullString
		)
		if err := rows.Scan(&id, &e.Turn, &e.Date, &e.Player, &e.Event, &e.Subject, &e.Amount, &data, &at); err != nil {
			return nil, err
		}
		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("entry id %q: %w", id, err)
		}
		if e.At, err = time.Parse(timeLayout, at); err != nil {
			return nil, fmt.Errorf("entry %s time: %w", id, err)
		}
		if data.Valid {
			if err := json.Unmarshal([]byte(data.String), &e.Data); err != nil {
				return nil, fmt.Errorf("entry %s data: %w", id, err)
			}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLSink) Close() error {
	return s.db.Close()
}

// rebind rewrites ? placeholders as $1, $2, ... for postgres.
func rebind(driver, query string) string {
	if driver != "postgres" {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func nullString(b []byte) sql.NullString {
	if b == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(b), Valid: true}
}
