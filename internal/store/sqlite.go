// Package store provides data persistence for scrip metadata and candle
// history.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"scrip-engine/internal/errors"
	"scrip-engine/internal/models"
)

// ScripType classifies a metadata row.
type ScripType string

const (
	ScripTypeCash  ScripType = "cash"
	ScripTypeIndex ScripType = "index"
)

// ScripInfo is the static metadata of a scrip: trading session, currency
// and, for indices, the constituent weights.
type ScripInfo struct {
	Scrip              string
	Type               ScripType
	Exchange           string
	Currency           string
	OpenTime           string // "09.15"
	CloseTime          string // "15.30"
	TimezoneOffset     int    // seconds east of UTC
	FreeFloatMarketCap float64
	Constituents       map[string]float64 // index constituents, weight by scrip name
}

// Location returns the metadata's timezone as a fixed zone.
func (i *ScripInfo) Location() *time.Location {
	return time.FixedZone("", i.TimezoneOffset)
}

// SQLiteStore persists scrip metadata and archived candles in SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the database at path and initializes the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Static scrip metadata, the local copy of the scrip_info table
	CREATE TABLE IF NOT EXISTS scrip_info (
		scrip TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		exchange TEXT NOT NULL,
		currency TEXT NOT NULL,
		open_time TEXT NOT NULL,
		close_time TEXT NOT NULL,
		tz_offset INTEGER NOT NULL,
		free_float_mcap REAL NOT NULL DEFAULT 0,
		constituents TEXT NOT NULL DEFAULT '{}'
	);

	-- Archived candles, long-term companion to the Redis candle cache
	CREATE TABLE IF NOT EXISTS candles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		scrip_key TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		open REAL NOT NULL,
		high REAL NOT NULL,
		low REAL NOT NULL,
		close REAL NOT NULL,
		volume INTEGER NOT NULL,
		UNIQUE(scrip_key, timestamp)
	);
	CREATE INDEX IF NOT EXISTS idx_candles_scrip_ts ON candles(scrip_key, timestamp);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveScripInfo inserts or replaces a metadata row.
func (s *SQLiteStore) SaveScripInfo(ctx context.Context, info ScripInfo) error {
	constituents := info.Constituents
	if constituents == nil {
		constituents = map[string]float64{}
	}
	blob, err := json.Marshal(constituents)
	if err != nil {
		return fmt.Errorf("encoding constituents: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO scrip_info
		(scrip, type, exchange, currency, open_time, close_time, tz_offset, free_float_mcap, constituents)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		info.Scrip, info.Type, info.Exchange, info.Currency,
		info.OpenTime, info.CloseTime, info.TimezoneOffset,
		info.FreeFloatMarketCap, string(blob))
	if err != nil {
		return fmt.Errorf("saving scrip info for %s: %w", info.Scrip, err)
	}
	return nil
}

// GetScripInfo looks up metadata by scrip name.
func (s *SQLiteStore) GetScripInfo(ctx context.Context, scrip string) (*ScripInfo, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT scrip, type, exchange, currency, open_time, close_time, tz_offset, free_float_mcap, constituents
		FROM scrip_info WHERE scrip = ?`, scrip)

	var info ScripInfo
	var blob string
	err := row.Scan(&info.Scrip, &info.Type, &info.Exchange, &info.Currency,
		&info.OpenTime, &info.CloseTime, &info.TimezoneOffset,
		&info.FreeFloatMarketCap, &blob)
	if err == sql.ErrNoRows {
		return nil, errors.NewDataError("scrip_info", scrip, "no metadata row", errors.ErrDataNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying scrip info for %s: %w", scrip, err)
	}

	if err := json.Unmarshal([]byte(blob), &info.Constituents); err != nil {
		return nil, errors.NewParseError("constituents", blob, "invalid constituents JSON")
	}
	return &info, nil
}

// ArchiveCandle stores one candle in the long-term archive.
func (s *SQLiteStore) ArchiveCandle(ctx context.Context, scrip models.Scrip, candle models.Candle) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO candles (scrip_key, timestamp, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		scrip.Key(), candle.Timestamp.UTC(),
		candle.Open, candle.High, candle.Low, candle.Close, candle.Volume)
	if err != nil {
		return fmt.Errorf("archiving candle for %s: %w", scrip.Key(), err)
	}
	return nil
}

// GetCandles returns archived candles for a scrip in a time range,
// ordered by timestamp.
func (s *SQLiteStore) GetCandles(ctx context.Context, scrip models.Scrip, from, to time.Time) ([]models.Candle, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT timestamp, open, high, low, close, volume FROM candles
		WHERE scrip_key = ? AND timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp ASC`,
		scrip.Key(), from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("querying candles for %s: %w", scrip.Key(), err)
	}
	defer rows.Close()

	var candles []models.Candle
	for rows.Next() {
		var c models.Candle
		if err := rows.Scan(&c.Timestamp, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			return nil, fmt.Errorf("scanning candle row: %w", err)
		}
		candles = append(candles, c)
	}
	return candles, rows.Err()
}
