package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"CoinSight/internal/domain/models"
	domrepo "CoinSight/internal/domain/repository"
	pkgch "CoinSight/pkg/clickhouse"
	applogger "CoinSight/pkg/logger"
)

// ClickHouseBarStore implements BarStore on top of one MergeTree table per
// candle interval. Unconfirmed updates overwrite confirmed rows only via the
// ReplacingMergeTree version column (confirmed sorts above in-progress).
type ClickHouseBarStore struct {
	db       *sql.DB
	database string
	l        *applogger.Logger
}

func NewClickHouseBarStore(ch *pkgch.Client, database string) *ClickHouseBarStore {
	return &ClickHouseBarStore{db: ch.DB(), database: database}
}

// SetLogger injects a structured logger.
func (s *ClickHouseBarStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *ClickHouseBarStore) table(iv domrepo.Interval) (string, error) {
	switch iv {
	case domrepo.Interval1D:
		return s.database + ".bars_1d", nil
	case domrepo.Interval4H:
		return s.database + ".bars_4h", nil
	case domrepo.Interval1H:
		return s.database + ".bars_1h", nil
	default:
		return "", fmt.Errorf("unsupported interval: %s", iv)
	}
}

// Init ensures the database and per-interval tables exist (idempotent).
func (s *ClickHouseBarStore) Init(ctx context.Context) error {
	stmts := []string{fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", s.database)}
	for _, iv := range []domrepo.Interval{domrepo.Interval1D, domrepo.Interval4H, domrepo.Interval1H} {
		table, _ := s.table(iv)
		stmts = append(stmts, fmt.Sprintf(`
            CREATE TABLE IF NOT EXISTS %s (
                ts DateTime,
                symbol String,
                open Float64,
                high Float64,
                low Float64,
                close Float64,
                volume Float64,
                confirmed UInt8
            ) ENGINE = ReplacingMergeTree(confirmed)
            ORDER BY (symbol, ts)
        `, table))
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("bar store init: %w", err)
		}
	}
	return nil
}

func (s *ClickHouseBarStore) Store(ctx context.Context, u *models.BarUpdate) error {
	table, err := s.table(domrepo.Interval1D)
	if err != nil {
		return err
	}
	q := fmt.Sprintf("INSERT INTO %s (ts, symbol, open, high, low, close, volume, confirmed) VALUES (?, ?, ?, ?, ?, ?, ?, ?)", table)
	_, err = s.db.ExecContext(ctx, q,
		u.Bar.Date,
		u.Bar.Symbol,
		u.Bar.Open,
		u.Bar.High,
		u.Bar.Low,
		u.Bar.Close,
		u.Bar.Volume,
		boolToUInt8(u.Confirmed),
	)
	return err
}

func (s *ClickHouseBarStore) StoreBatch(ctx context.Context, updates []*models.BarUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	table, err := s.table(domrepo.Interval1D)
	if err != nil {
		return err
	}
	// Multi-row VALUES inserts, chunked to bound statement size.
	const chunkSize = 2000
	for start := 0; start < len(updates); start += chunkSize {
		end := start + chunkSize
		if end > len(updates) {
			end = len(updates)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*8)
		for _, u := range updates[start:end] {
			if u == nil || u.Bar.Symbol == "" || u.Bar.Date.IsZero() {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args,
				u.Bar.Date,
				u.Bar.Symbol,
				u.Bar.Open,
				u.Bar.High,
				u.Bar.Low,
				u.Bar.Close,
				u.Bar.Volume,
				boolToUInt8(u.Confirmed),
			)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (ts, symbol, open, high, low, close, volume, confirmed) VALUES %s", table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

func (s *ClickHouseBarStore) Query(ctx context.Context, symbol string, from, to time.Time, iv domrepo.Interval) ([]models.Bar, error) {
	start := time.Now()
	table, err := s.table(iv)
	if err != nil {
		return nil, err
	}
	const qtpl = `
        SELECT ts, symbol, open, high, low, close, volume
        FROM %s FINAL
        WHERE symbol = ? AND ts >= ? AND ts <= ?
        ORDER BY ts ASC
    `
	q := fmt.Sprintf(qtpl, table)
	rows, err := s.db.QueryContext(ctx, q, symbol, from, to)
	if err != nil {
		s.logErr("query", table, symbol, err)
		return nil, fmt.Errorf("query bars: %w", err)
	}
	defer rows.Close()

	out := make([]models.Bar, 0, 1024)
	for rows.Next() {
		var b models.Bar
		if err := rows.Scan(&b.Date, &b.Symbol, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			s.logErr("scan", table, symbol, err)
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		s.logErr("rows", table, symbol, err)
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Info("clickhouse query bars ok",
			applogger.String("table", table),
			applogger.String("symbol", symbol),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func (s *ClickHouseBarStore) LatestN(ctx context.Context, symbol string, n int, iv domrepo.Interval) ([]models.Bar, error) {
	table, err := s.table(iv)
	if err != nil {
		return nil, err
	}
	const qtpl = `
        SELECT ts, symbol, open, high, low, close, volume
        FROM %s FINAL
        WHERE symbol = ?
        ORDER BY ts DESC
        LIMIT ?
    `
	q := fmt.Sprintf(qtpl, table)
	rows, err := s.db.QueryContext(ctx, q, symbol, n)
	if err != nil {
		s.logErr("latest_query", table, symbol, err)
		return nil, fmt.Errorf("latest bars: %w", err)
	}
	defer rows.Close()

	tmp := make([]models.Bar, 0, n)
	for rows.Next() {
		var b models.Bar
		if err := rows.Scan(&b.Date, &b.Symbol, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			s.logErr("latest_scan", table, symbol, err)
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		tmp = append(tmp, b)
	}
	if err := rows.Err(); err != nil {
		s.logErr("latest_rows", table, symbol, err)
		return nil, fmt.Errorf("rows: %w", err)
	}
	// reverse to ASC
	for i, j := 0, len(tmp)-1; i < j; i, j = i+1, j-1 {
		tmp[i], tmp[j] = tmp[j], tmp[i]
	}
	return tmp, nil
}

func (s *ClickHouseBarStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseBarStore) Close() error {
	return nil // pool owned by pkg client
}

func (s *ClickHouseBarStore) logErr(op, table, symbol string, err error) {
	if s.l == nil {
		return
	}
	s.l.Error("clickhouse "+op+" error",
		applogger.String("table", table),
		applogger.String("symbol", symbol),
		applogger.Error(err),
	)
}

func boolToUInt8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
