package credstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/guarzo/hrmapi/common"
)

const schema = `
CREATE TABLE IF NOT EXISTS credentials (
    slot TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);
`

const upsertSlot = `
INSERT INTO credentials (slot, value) VALUES (?, ?)
ON CONFLICT(slot) DO UPDATE SET value = excluded.value, updated_at = datetime('now')
`

// SQLiteStore keeps the two token slots in a SQLite table. Both slots are written in
// one transaction. Reads are served from memory, loaded once on open.
type SQLiteStore struct {
	db    *sql.DB
	state State
}

// OpenSQLite opens (creating if needed) the database at path and loads the stored pair.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open token database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply token schema: %w", err)
	}

	s := &SQLiteStore{db: db}
	access, err := s.load(ctx, common.SlotAccessToken)
	if err != nil {
		db.Close()
		return nil, err
	}
	refresh, err := s.load(ctx, common.SlotRefreshToken)
	if err != nil {
		db.Close()
		return nil, err
	}
	s.state.SetTokens(access, refresh)
	return s, nil
}

func (s *SQLiteStore) load(ctx context.Context, slot string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM credentials WHERE slot = ?`, slot).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load %s: %w", slot, err)
	}
	return value, nil
}

func (s *SQLiteStore) AccessToken() (string, bool) {
	return s.state.AccessToken()
}

func (s *SQLiteStore) RefreshToken() (string, bool) {
	return s.state.RefreshToken()
}

func (s *SQLiteStore) SetTokens(access, refresh string) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	ctx := context.Background()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin token transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, upsertSlot, common.SlotAccessToken, access); err != nil {
		return fmt.Errorf("failed to store access token: %w", err)
	}
	if _, err := tx.ExecContext(ctx, upsertSlot, common.SlotRefreshToken, refresh); err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit tokens: %w", err)
	}

	s.state.access, s.state.refresh = access, refresh
	return nil
}

func (s *SQLiteStore) Clear() error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	_, err := s.db.Exec(`DELETE FROM credentials WHERE slot IN (?, ?)`, common.SlotAccessToken, common.SlotRefreshToken)
	if err != nil {
		return fmt.Errorf("failed to clear tokens: %w", err)
	}
	s.state.access, s.state.refresh = "", ""
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
