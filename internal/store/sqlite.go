package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	apperrors "trade-journal/internal/errors"
	"trade-journal/internal/models"
)

// SQLiteStore implements TradeStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based trade store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// initSchema creates the trades table and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS trades (
		id TEXT PRIMARY KEY,
		symbol TEXT NOT NULL,
		side TEXT NOT NULL,
		asset_class TEXT,
		instrument_attrs TEXT,
		entry_price REAL NOT NULL,
		exit_price REAL,
		quantity REAL NOT NULL,
		fees REAL NOT NULL DEFAULT 0,
		pnl REAL,
		open_time TEXT NOT NULL,
		close_time TEXT,
		planned_risk REAL,
		emotion TEXT,
		confidence INTEGER,
		process_score INTEGER,
		setup_type TEXT,
		checklist TEXT,
		tags TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_trades_symbol ON trades(symbol);
	CREATE INDEX IF NOT EXISTS idx_trades_open_time ON trades(open_time);
	CREATE INDEX IF NOT EXISTS idx_trades_close_time ON trades(close_time);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveTrade inserts or replaces a raw trade record.
func (s *SQLiteStore) SaveTrade(ctx context.Context, trade *models.RawTrade) error {
	attrs, err := json.Marshal(trade.Instrument.Attributes)
	if err != nil {
		return fmt.Errorf("encoding instrument attributes: %w", err)
	}
	tags, err := json.Marshal(trade.Tags)
	if err != nil {
		return fmt.Errorf("encoding tags: %w", err)
	}

	var checklist interface{}
	if trade.Checklist != nil {
		data, err := json.Marshal(trade.Checklist)
		if err != nil {
			return fmt.Errorf("encoding checklist: %w", err)
		}
		checklist = string(data)
	}

	openTime := canonicalTime(trade.OpenTime)
	var closeTime interface{}
	if trade.CloseTime != nil {
		closeTime = canonicalTime(*trade.CloseTime)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO trades (
			id, symbol, side, asset_class, instrument_attrs,
			entry_price, exit_price, quantity, fees, pnl,
			open_time, close_time, planned_risk,
			emotion, confidence, process_score, setup_type, checklist, tags
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		trade.ID, trade.Symbol, string(trade.Side), trade.Instrument.AssetClass, string(attrs),
		trade.EntryPrice, trade.ExitPrice, trade.Quantity, trade.Fees, trade.PnL,
		openTime, closeTime, trade.PlannedRisk,
		nullableString(trade.Emotion), trade.Confidence, trade.ProcessScore,
		nullableString(trade.SetupType), checklist, string(tags),
	)
	if err != nil {
		return fmt.Errorf("saving trade %s: %w", trade.ID, err)
	}
	return nil
}

// GetTrades returns the raw trade records matching the filter, ordered
// by open time ascending.
func (s *SQLiteStore) GetTrades(ctx context.Context, filter TradeFilter) ([]models.RawTrade, error) {
	query := `
		SELECT id, symbol, side, asset_class, instrument_attrs,
			entry_price, exit_price, quantity, fees, pnl,
			open_time, close_time, planned_risk,
			emotion, confidence, process_score, setup_type, checklist, tags
		FROM trades`

	var conditions []string
	var args []interface{}

	if filter.Symbol != "" {
		conditions = append(conditions, "symbol = ?")
		args = append(args, filter.Symbol)
	}
	// Timestamps are stored as RFC 3339 UTC strings, so range filters
	// compare lexicographically.
	if !filter.StartDate.IsZero() {
		conditions = append(conditions, "open_time >= ?")
		args = append(args, filter.StartDate.UTC().Format(time.RFC3339))
	}
	if !filter.EndDate.IsZero() {
		conditions = append(conditions, "open_time < ?")
		args = append(args, filter.EndDate.UTC().Format(time.RFC3339))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY open_time ASC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewDataError("trades", filter.Symbol, "query failed", err)
	}
	defer rows.Close()

	var trades []models.RawTrade
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		trades = append(trades, trade)
	}
	return trades, rows.Err()
}

func scanTrade(rows *sql.Rows) (models.RawTrade, error) {
	var t models.RawTrade
	var side, assetClass string
	var attrs, tags sql.NullString
	var exitPrice, pnl, plannedRisk sql.NullFloat64
	var closeTime, emotion, setupType, checklist sql.NullString
	var confidence, processScore sql.NullInt64

	err := rows.Scan(
		&t.ID, &t.Symbol, &side, &assetClass, &attrs,
		&t.EntryPrice, &exitPrice, &t.Quantity, &t.Fees, &pnl,
		&t.OpenTime, &closeTime, &plannedRisk,
		&emotion, &confidence, &processScore, &setupType, &checklist, &tags,
	)
	if err != nil {
		return t, fmt.Errorf("scanning trade: %w", err)
	}

	t.Side = models.Side(side)
	t.Instrument.AssetClass = assetClass
	if attrs.Valid && attrs.String != "" && attrs.String != "null" {
		if err := json.Unmarshal([]byte(attrs.String), &t.Instrument.Attributes); err != nil {
			return t, fmt.Errorf("decoding instrument attributes for %s: %w", t.ID, err)
		}
	}
	if exitPrice.Valid {
		t.ExitPrice = &exitPrice.Float64
	}
	if pnl.Valid {
		t.PnL = &pnl.Float64
	}
	if closeTime.Valid {
		t.CloseTime = &closeTime.String
	}
	if plannedRisk.Valid {
		t.PlannedRisk = &plannedRisk.Float64
	}
	if emotion.Valid {
		t.Emotion = emotion.String
	}
	if confidence.Valid {
		v := int(confidence.Int64)
		t.Confidence = &v
	}
	if processScore.Valid {
		v := int(processScore.Int64)
		t.ProcessScore = &v
	}
	if setupType.Valid {
		t.SetupType = setupType.String
	}
	if checklist.Valid && checklist.String != "" {
		var c models.Checklist
		if err := json.Unmarshal([]byte(checklist.String), &c); err != nil {
			return t, fmt.Errorf("decoding checklist for %s: %w", t.ID, err)
		}
		t.Checklist = &c
	}
	if tags.Valid && tags.String != "" && tags.String != "null" {
		if err := json.Unmarshal([]byte(tags.String), &t.Tags); err != nil {
			return t, fmt.Errorf("decoding tags for %s: %w", t.ID, err)
		}
	}

	return t, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// canonicalTime re-encodes an RFC 3339 timestamp in UTC so stored
// strings order and range-filter lexicographically regardless of the
// offset the writer supplied. Unparsable values are stored verbatim;
// the normalizer rejects them downstream.
func canonicalTime(s string) string {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	return t.UTC().Format(time.RFC3339)
}
