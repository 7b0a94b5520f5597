package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/wricardo/mcp-training/monopoly/game/service"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS sessions (
	id               TEXT PRIMARY KEY,
	config_name      TEXT NOT NULL,
	turn             INTEGER NOT NULL,
	game_over        INTEGER NOT NULL,
	payload_json     BLOB NOT NULL,
	created_at       INTEGER NOT NULL,
	last_accessed_at INTEGER NOT NULL
)`

// SQLitePersistence implements SessionPersistence on a SQLite database.
// The full session document lives in payload_json; the other columns
// make the table readable from the sqlite shell.
type SQLitePersistence struct {
	sqlDB   *sql.DB
	codec   codec
	timeout time.Duration
}

// OpenSQLitePersistence opens (and creates if needed) a session store at path
func OpenSQLitePersistence(path string, configManager service.ConfigManager) (*SQLitePersistence, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if _, err := sqlDB.Exec(sqliteSchema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create sessions table: %w", err)
	}

	return &SQLitePersistence{
		sqlDB:   sqlDB,
		codec:   codec{configs: configManager},
		timeout: 5 * time.Second,
	}, nil
}

// Close releases the underlying SQLite connection
func (s *SQLitePersistence) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *SQLitePersistence) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

// Save upserts a session row
func (s *SQLitePersistence) Save(session *service.Session) error {
	payload, err := s.codec.encode(session)
	if err != nil {
		return err
	}
	state := session.Engine.GetState()

	ctx, cancel := s.opContext()
	defer cancel()

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO sessions (id, config_name, turn, game_over, payload_json, created_at, last_accessed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		    config_name = excluded.config_name,
		    turn = excluded.turn,
		    game_over = excluded.game_over,
		    payload_json = excluded.payload_json,
		    last_accessed_at = excluded.last_accessed_at`,
		session.ID,
		s.codec.configID(session),
		state.Turn,
		boolToInt(state.GameOver),
		payload,
		session.CreatedAt.UTC().UnixMilli(),
		session.LastAccessedAt.UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save session %s: %w", session.ID, err)
	}
	return nil
}

// Load reads a session row and restores its engine
func (s *SQLitePersistence) Load(id string) (*service.Session, error) {
	ctx, cancel := s.opContext()
	defer cancel()

	var payload []byte
	row := s.sqlDB.QueryRowContext(ctx, `SELECT payload_json FROM sessions WHERE id = ?`, id)
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}

	return s.codec.decode(payload)
}

// Delete removes a session row
func (s *SQLitePersistence) Delete(id string) error {
	ctx, cancel := s.opContext()
	defer cancel()

	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// ListAll returns every stored session ID, oldest first
func (s *SQLitePersistence) ListAll() ([]string, error) {
	ctx, cancel := s.opContext()
	defer cancel()

	rows, err := s.sqlDB.QueryContext(ctx, `SELECT id FROM sessions ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan session id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return ids, nil
}

// Exists checks if a session row exists
func (s *SQLitePersistence) Exists(id string) bool {
	ctx, cancel := s.opContext()
	defer cancel()

	var one int
	err := s.sqlDB.QueryRowContext(ctx, `SELECT 1 FROM sessions WHERE id = ?`, id).Scan(&one)
	return err == nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
