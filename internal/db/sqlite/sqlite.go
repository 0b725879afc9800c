package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/AI2HU/geolens/internal/models"
)

// SQLite implements the result store on a local SQLite file
type SQLite struct {
	db     *sql.DB
	config *models.Config
}

// New creates a new SQLite store instance
func New(config *models.Config) (*SQLite, error) {
	return &SQLite{
		config: config,
	}, nil
}

// Connect opens the database file and applies migrations
func (s *SQLite) Connect(ctx context.Context) error {
	dbPath, err := expandPath(s.config.URI)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000")
	if err != nil {
		return fmt.Errorf("failed to open SQLite database at path '%s': %w", dbPath, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping SQLite database at path '%s': %w", dbPath, err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return err
	}

	s.db = db
	return nil
}

func expandPath(uri string) (string, error) {
	dbPath := strings.TrimPrefix(uri, "sqlite://")
	if strings.HasPrefix(dbPath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, dbPath[1:]), nil
	}
	if !filepath.IsAbs(dbPath) {
		absPath, err := filepath.Abs(dbPath)
		if err != nil {
			return "", fmt.Errorf("failed to resolve absolute path: %w", err)
		}
		return absPath, nil
	}
	return dbPath, nil
}

// Disconnect closes the SQLite connection
func (s *SQLite) Disconnect(ctx context.Context) error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ping checks the database connection
func (s *SQLite) Ping(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("not connected to database")
	}
	return s.db.PingContext(ctx)
}

// DB exposes the underlying handle
func (s *SQLite) DB() *sql.DB {
	return s.db
}

// Run operations

// SaveRun replaces a run and all of its results in one transaction
func (s *SQLite) SaveRun(ctx context.Context, run *models.Run, results []models.Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO runs (id, brand, search_type, category, total_cost, total_calls, completed_calls, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.Brand,
		run.SearchType,
		run.Category,
		run.TotalCost,
		run.TotalCalls,
		run.CompletedCalls,
		run.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM results WHERE run_id = ?`, run.ID); err != nil {
		return fmt.Errorf("failed to clear results: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO results (run_id, id, position, provider, prompt, temperature, model, response_text,
			tokens, cost, response_type, brand_mentioned, brand_sentiment, competitors_mentioned,
			all_brands_mentioned, competitor_sentiments, sources, grounding_metadata, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare result insert: %w", err)
	}
	defer stmt.Close()

	for i := range results {
		r := &results[i]
		cols, err := encodeResult(r)
		if err != nil {
			return fmt.Errorf("failed to encode result %s: %w", r.ID, err)
		}
		_, err = stmt.ExecContext(ctx,
			run.ID,
			r.ID,
			i,
			r.Provider,
			r.Prompt,
			r.Temperature,
			r.Model,
			r.ResponseText,
			r.Tokens,
			r.Cost,
			r.ResponseType,
			r.BrandMentioned,
			r.BrandSentiment,
			cols.competitors,
			cols.allBrands,
			cols.sentiments,
			cols.sources,
			cols.grounding,
			r.Failed(),
		)
		if err != nil {
			return fmt.Errorf("failed to save result %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

const runColumns = `id, brand, search_type, category, total_cost, total_calls, completed_calls, created_at`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scanner) (*models.Run, error) {
	var run models.Run
	err := row.Scan(
		&run.ID,
		&run.Brand,
		&run.SearchType,
		&run.Category,
		&run.TotalCost,
		&run.TotalCalls,
		&run.CompletedCalls,
		&run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// GetRun retrieves a run by ID
func (s *SQLite) GetRun(ctx context.Context, id string) (*models.Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// LatestRun returns the most recently created run
func (s *SQLite) LatestRun(ctx context.Context) (*models.Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, id ASC LIMIT 1`)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no runs found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}
	return run, nil
}

// ListRuns lists runs, newest first; limit <= 0 means no limit
func (s *SQLite) ListRuns(ctx context.Context, limit int) ([]*models.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC, id ASC`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// DeleteRun deletes a run and its results
func (s *SQLite) DeleteRun(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM results WHERE run_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete results: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run not found: %s", id)
	}
	return tx.Commit()
}

// Result operations

const resultColumns = `id, position, provider, prompt, temperature, model, response_text, tokens, cost,
	response_type, brand_mentioned, brand_sentiment, competitors_mentioned, all_brands_mentioned,
	competitor_sentiments, sources, grounding_metadata, error`

// ListResults returns a run's results in their original order
func (s *SQLite) ListResults(ctx context.Context, runID string) ([]models.Result, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+resultColumns+` FROM results WHERE run_id = ? ORDER BY position ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	defer rows.Close()
	return scanResults(rows, runID)
}

// SearchResults finds results whose response text contains keyword
func (s *SQLite) SearchResults(ctx context.Context, runID, keyword string, limit int) ([]models.Result, error) {
	query := `SELECT ` + resultColumns + ` FROM results
		WHERE run_id = ? AND instr(lower(response_text), lower(?)) > 0
		ORDER BY position ASC`
	args := []interface{}{runID, keyword}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search results: %w", err)
	}
	defer rows.Close()
	return scanResults(rows, runID)
}

func scanResults(rows *sql.Rows, runID string) ([]models.Result, error) {
	results := []models.Result{}
	for rows.Next() {
		var r models.Result
		var cols encodedColumns
		var failed bool
		err := rows.Scan(
			&r.ID,
			&r.Position,
			&r.Provider,
			&r.Prompt,
			&r.Temperature,
			&r.Model,
			&r.ResponseText,
			&r.Tokens,
			&r.Cost,
			&r.ResponseType,
			&r.BrandMentioned,
			&r.BrandSentiment,
			&cols.competitors,
			&cols.allBrands,
			&cols.sentiments,
			&cols.sources,
			&cols.grounding,
			&failed,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		if err := cols.decodeInto(&r); err != nil {
			return nil, fmt.Errorf("failed to decode result %s: %w", r.ID, err)
		}
		r.RunID = runID
		r.Error = models.Flag(failed)
		results = append(results, r)
	}
	return results, rows.Err()
}

// encodedColumns holds the JSON-encoded collection columns of a result row
type encodedColumns struct {
	competitors string
	allBrands   string
	sentiments  string
	sources     string
	grounding   sql.NullString
}

func encodeResult(r *models.Result) (*encodedColumns, error) {
	var cols encodedColumns
	var err error
	if cols.competitors, err = toJSON(r.CompetitorsMentioned, "[]"); err != nil {
		return nil, err
	}
	if cols.allBrands, err = toJSON(r.AllBrandsMentioned, "[]"); err != nil {
		return nil, err
	}
	if cols.sentiments, err = toJSON(r.CompetitorSentiments, "{}"); err != nil {
		return nil, err
	}
	if cols.sources, err = toJSON(r.Sources, "[]"); err != nil {
		return nil, err
	}
	if r.GroundingMetadata != nil {
		data, err := json.Marshal(r.GroundingMetadata)
		if err != nil {
			return nil, err
		}
		cols.grounding = sql.NullString{String: string(data), Valid: true}
	}
	return &cols, nil
}

func toJSON(v interface{}, empty string) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if string(data) == "null" {
		return empty, nil
	}
	return string(data), nil
}

func (c *encodedColumns) decodeInto(r *models.Result) error {
	if err := fromJSON(c.competitors, &r.CompetitorsMentioned); err != nil {
		return err
	}
	if err := fromJSON(c.allBrands, &r.AllBrandsMentioned); err != nil {
		return err
	}
	if err := fromJSON(c.sentiments, &r.CompetitorSentiments); err != nil {
		return err
	}
	if err := fromJSON(c.sources, &r.Sources); err != nil {
		return err
	}
	if c.grounding.Valid && c.grounding.String != "" {
		var gm models.GroundingMetadata
		if err := json.Unmarshal([]byte(c.grounding.String), &gm); err != nil {
			return err
		}
		r.GroundingMetadata = &gm
	}
	return nil
}

// fromJSON leaves empty collections nil so a stored snapshot reads back like the imported one
func fromJSON(data string, v interface{}) error {
	switch strings.TrimSpace(data) {
	case "", "[]", "{}", "null":
		return nil
	}
	return json.Unmarshal([]byte(data), v)
}
