package forecast

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/voltsched/greencharge/core/carbon"
)

// Store caches carbon forecast records in a SQLite database so the scheduler
// keeps working between feed polls and across restarts.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the database and ensures the schema.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS carbon_forecast (
        from_ts INTEGER PRIMARY KEY,
        to_ts INTEGER NOT NULL,
        intensity REAL NOT NULL
    );`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Put upserts the records, keyed by their start timestamp.
func (s *Store) Put(ctx context.Context, records []carbon.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, r := range records {
		if _, err := tx.ExecContext(ctx, `INSERT INTO carbon_forecast (from_ts, to_ts, intensity)
            VALUES (?, ?, ?)
            ON CONFLICT(from_ts) DO UPDATE SET to_ts = excluded.to_ts, intensity = excluded.intensity`,
			r.From.Unix(), r.To.Unix(), r.Intensity); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Series returns all cached records ordered by start time. It implements
// schedule.ForecastSource.
func (s *Store) Series(ctx context.Context) (carbon.Series, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT from_ts, to_ts, intensity
        FROM carbon_forecast ORDER BY from_ts`)
	if err != nil {
		return carbon.Series{}, err
	}
	defer func() { _ = rows.Close() }()
	var series carbon.Series
	for rows.Next() {
		var from, to int64
		var intensity float64
		if err := rows.Scan(&from, &to, &intensity); err != nil {
			return carbon.Series{}, err
		}
		series.Records = append(series.Records, carbon.Record{
			From:      time.Unix(from, 0).UTC(),
			To:        time.Unix(to, 0).UTC(),
			Intensity: intensity,
		})
	}
	return series, rows.Err()
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }
