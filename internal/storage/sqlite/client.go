package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/soyrussmadrigal/seo-ai/internal/storage/models"
	"github.com/soyrussmadrigal/seo-ai/pkg/logger"
)

type Client struct {
	db *sql.DB
}

func NewClient(dbPath string) (*Client, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	logger.Info("SQLite client initialized", zap.String("path", dbPath))

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS keyword_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		keyword TEXT NOT NULL,
		intent TEXT NOT NULL DEFAULT 'pending',
		format TEXT NOT NULL DEFAULT 'pending',
		clicks INTEGER NOT NULL DEFAULT 0,
		impressions INTEGER NOT NULL DEFAULT 0,
		ctr REAL NOT NULL DEFAULT 0,
		position REAL NOT NULL DEFAULT 0,
		gsc_date TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		UNIQUE(keyword, gsc_date)
	);
	CREATE INDEX IF NOT EXISTS idx_history_keyword ON keyword_history(keyword);
	CREATE INDEX IF NOT EXISTS idx_history_date ON keyword_history(gsc_date);
	CREATE INDEX IF NOT EXISTS idx_history_labels ON keyword_history(intent, format);
	`

	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("SQLite schema initialized")
	return nil
}

// InsertHistoryRows inserts the given analytics rows as pending history
// records inside a single transaction. A row whose (keyword, gsc_date)
// pair already exists is skipped without touching the stored record.
func (c *Client) InsertHistoryRows(ctx context.Context, rows []models.AnalyticsRow) (inserted, skipped int, err error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO keyword_history (keyword, intent, format, clicks, impressions, ctr, position, gsc_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(keyword, gsc_date) DO NOTHING
	`)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, row := range rows {
		res, err := stmt.ExecContext(ctx,
			row.Keyword,
			models.LabelPending,
			models.LabelPending,
			row.Clicks,
			row.Impressions,
			row.CTR,
			row.Position,
			row.Date,
			now,
		)
		if err != nil {
			return 0, 0, fmt.Errorf("failed to insert history row: %w", err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return 0, 0, fmt.Errorf("failed to read rows affected: %w", err)
		}
		if affected > 0 {
			inserted++
		} else {
			skipped++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("failed to commit ingest: %w", err)
	}

	return inserted, skipped, nil
}

// SelectPending returns up to limit records still awaiting classification,
// newest first.
func (c *Client) SelectPending(ctx context.Context, limit int) ([]models.KeywordHistoryRecord, error) {
	query := `
		SELECT id, keyword, intent, format, clicks, impressions, ctr, position, gsc_date, created_at
		FROM keyword_history
		WHERE intent = ? AND format = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	rows, err := c.db.QueryContext(ctx, query, models.LabelPending, models.LabelPending, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select pending records: %w", err)
	}
	defer rows.Close()

	return scanHistoryRows(rows)
}

// UpdateLabels applies the resolved label pairs in a single transaction.
// The pending guard keeps a concurrent resolver's duplicate write a no-op.
func (c *Client) UpdateLabels(ctx context.Context, updates []models.LabelUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		UPDATE keyword_history
		SET intent = ?, format = ?
		WHERE id = ? AND intent = ? AND format = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare update: %w", err)
	}
	defer stmt.Close()

	for _, u := range updates {
		if _, err := stmt.ExecContext(ctx, u.Intent, u.Format, u.ID, models.LabelPending, models.LabelPending); err != nil {
			return fmt.Errorf("failed to update labels for record %d: %w", u.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit label updates: %w", err)
	}

	return nil
}

func (c *Client) CountPending(ctx context.Context) (int, error) {
	var count int
	err := c.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM keyword_history WHERE intent = ? AND format = ?`,
		models.LabelPending, models.LabelPending,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending records: %w", err)
	}
	return count, nil
}

// ListHistory returns history records matching the filter, newest
// gsc_date first. An empty result is a nil-length slice, not an error.
func (c *Client) ListHistory(ctx context.Context, filter models.HistoryFilter) ([]models.KeywordHistoryRecord, error) {
	query := `
		SELECT id, keyword, intent, format, clicks, impressions, ctr, position, gsc_date, created_at
		FROM keyword_history
		WHERE 1=1
	`
	args := []interface{}{}

	if filter.StartDate != "" {
		query += " AND gsc_date >= ?"
		args = append(args, filter.StartDate)
	}
	if filter.EndDate != "" {
		query += " AND gsc_date <= ?"
		args = append(args, filter.EndDate)
	}
	if filter.Intent != "" {
		query += " AND intent = ?"
		args = append(args, filter.Intent)
	}
	if filter.Format != "" {
		query += " AND format = ?"
		args = append(args, filter.Format)
	}

	query += " ORDER BY gsc_date DESC, id DESC"

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	return scanHistoryRows(rows)
}

// KeywordTimeseries returns one keyword's daily trend, ascending by date.
func (c *Client) KeywordTimeseries(ctx context.Context, keyword string) ([]models.TimeseriesPoint, error) {
	query := `
		SELECT gsc_date, clicks, ctr, position
		FROM keyword_history
		WHERE keyword = ?
		ORDER BY gsc_date ASC
	`

	rows, err := c.db.QueryContext(ctx, query, keyword)
	if err != nil {
		return nil, fmt.Errorf("failed to query timeseries: %w", err)
	}
	defer rows.Close()

	points := []models.TimeseriesPoint{}
	for rows.Next() {
		var p models.TimeseriesPoint
		if err := rows.Scan(&p.GSCDate, &p.Clicks, &p.CTR, &p.Position); err != nil {
			return nil, fmt.Errorf("failed to scan timeseries row: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate timeseries rows: %w", err)
	}

	return points, nil
}

func scanHistoryRows(rows *sql.Rows) ([]models.KeywordHistoryRecord, error) {
	records := []models.KeywordHistoryRecord{}
	for rows.Next() {
		var r models.KeywordHistoryRecord
		var createdAt int64

		err := rows.Scan(&r.ID, &r.Keyword, &r.Intent, &r.Format, &r.Clicks,
			&r.Impressions, &r.CTR, &r.Position, &r.GSCDate, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		r.CreatedAt = time.Unix(createdAt, 0)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return records, nil
}
