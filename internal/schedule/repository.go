package schedule

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nerrad567/gray-logic-daylight/internal/solar"
)

// Run statuses.
const (
	RunStatusOK     = "ok"
	RunStatusFailed = "failed"
)

// Run records one scheduling pass.
type Run struct {
	ID         string         `json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	Trigger    string         `json:"trigger"`
	Theme      string         `json:"theme"`
	Location   Location       `json:"location"`
	NightMode  bool           `json:"night_mode"`
	Instants   solar.Instants `json:"instants"`
	Status     string         `json:"status"`
	Error      string         `json:"error,omitempty"`
	OutputPath string         `json:"output_path,omitempty"`
	Schedule   *Schedule      `json:"schedule,omitempty"`
}

// Repository stores scheduling runs.
type Repository interface {
	SaveRun(ctx context.Context, run *Run) error
	GetRun(ctx context.Context, id string) (*Run, error)
	LatestSuccessful(ctx context.Context) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)
}

// timeLayout sorts lexically in UTC.
const timeLayout = "2006-01-02T15:04:05.000000Z"

const runColumns = `id, created_at, trigger_type, theme, latitude, longitude, tz_offset,
			night_mode, sunrise, solar_noon, sunset, civil_twilight,
			status, error, output_path, schedule_json`

// SQLiteRepository implements Repository on the schedule_runs table.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a SQLite-backed repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// SaveRun inserts a run. CreatedAt defaults to now.
func (r *SQLiteRepository) SaveRun(ctx context.Context, run *Run) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	var scheduleJSON sql.NullString
	if run.Schedule != nil {
		b, err := json.Marshal(run.Schedule)
		if err != nil {
			return fmt.Errorf("marshalling schedule: %w", err)
		}
		scheduleJSON = sql.NullString{String: string(b), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO schedule_runs (`+runColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.CreatedAt.UTC().Format(timeLayout),
		run.Trigger,
		run.Theme,
		run.Location.Latitude,
		run.Location.Longitude,
		run.Location.TZOffset,
		boolToInt(run.NightMode),
		run.Instants.Sunrise,
		run.Instants.SolarNoon,
		run.Instants.Sunset,
		run.Instants.CivilTwilightEnd,
		run.Status,
		nullableString(run.Error),
		nullableString(run.OutputPath),
		scheduleJSON,
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (r *SQLiteRepository) GetRun(ctx context.Context, id string) (*Run, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM schedule_runs WHERE id = ?`, id)
	return scanSingleRun(row)
}

// LatestSuccessful returns the most recent run with status ok.
func (r *SQLiteRepository) LatestSuccessful(ctx context.Context) (*Run, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM schedule_runs
		WHERE status = ? ORDER BY created_at DESC LIMIT 1`, RunStatusOK)
	return scanSingleRun(row)
}

// ListRuns returns up to limit runs, newest first.
func (r *SQLiteRepository) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+runColumns+` FROM schedule_runs
		ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSingleRun(row *sql.Row) (*Run, error) {
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	return run, err
}

func scanRun(s scanner) (*Run, error) {
	var (
		run          Run
		createdAt    string
		nightMode    int
		errText      sql.NullString
		outputPath   sql.NullString
		scheduleJSON sql.NullString
	)
	err := s.Scan(
		&run.ID, &createdAt, &run.Trigger, &run.Theme,
		&run.Location.Latitude, &run.Location.Longitude, &run.Location.TZOffset,
		&nightMode,
		&run.Instants.Sunrise, &run.Instants.SolarNoon, &run.Instants.Sunset, &run.Instants.CivilTwilightEnd,
		&run.Status, &errText, &outputPath, &scheduleJSON,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning run: %w", err)
	}

	run.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	run.NightMode = nightMode != 0
	run.Error = errText.String
	run.OutputPath = outputPath.String

	if scheduleJSON.Valid {
		var s Schedule
		if err := json.Unmarshal([]byte(scheduleJSON.String), &s); err != nil {
			return nil, fmt.Errorf("unmarshalling schedule: %w", err)
		}
		run.Schedule = &s
	}
	return &run, nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
