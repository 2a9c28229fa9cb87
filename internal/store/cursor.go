package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// GetCursor returns the timestamp of the last successful sync. When no
// cursor row exists yet it synthesizes the epoch, so the first sync pulls
// the entire remote history.
func (s *Store) GetCursor(ctx context.Context) (time.Time, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT last_sync FROM sync_cursor WHERE id = 1;`).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Unix(0, 0).UTC(), nil
	}
	if err != nil {
		return time.Time{}, storeErr("get cursor", err)
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		// Corrupt cursor text; fall back to the epoch rather than wedging
		// sync forever. The next successful pass rewrites it.
		return time.Unix(0, 0).UTC(), nil
	}
	return t, nil
}

func (s *Store) SetCursor(ctx context.Context, t time.Time) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO sync_cursor (id, last_sync) VALUES (1, ?)
ON CONFLICT(id) DO UPDATE SET last_sync = excluded.last_sync;`, fmtTime(t))
	if err != nil {
		return storeErr("set cursor", err)
	}
	return nil
}
