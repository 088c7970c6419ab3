package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/ymx/internal/models"
	"github.com/desertthunder/ymx/internal/shared"
)

// RunRepository implements models.Repository[*models.TransferRun] for transfer history.
//
// A run and its per-track rows are written together in one transaction.
type RunRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.TransferRun] = (*RunRepository)(nil)

// NewRunRepository creates a new RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

const runColumns = `
	id, sequence, started_at, finished_at, report_path,
	imported, not_found, errored, pending, created_at, updated_at
`

// Create inserts a new run with its track rows, assigning an ID and sequence
func (r *RunRepository) Create(run *models.TransferRun) error {
	sequence, err := NextSequence(r.db, "transfer_runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	run.SetID(shared.GenerateID())
	run.SetSequence(sequence)

	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO transfer_runs (` + runColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = tx.Exec(query,
		run.ID(),
		run.Sequence(),
		run.StartedAt(),
		nullTime(run.FinishedAt()),
		run.ReportPath(),
		run.Imported(),
		run.NotFound(),
		run.Errored(),
		run.Pending(),
		run.CreatedAt(),
		run.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	if err := insertTracks(tx, run.ID(), run.Tracks()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// Get retrieves a run and its track rows by ID
func (r *RunRepository) Get(id string) (*models.TransferRun, error) {
	query := `SELECT ` + runColumns + ` FROM transfer_runs WHERE id = ?`

	run, err := scanRun(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return r.withTracks(run)
}

// GetBySequence retrieves a run by its human-readable sequence number
func (r *RunRepository) GetBySequence(sequence int) (*models.TransferRun, error) {
	query := `SELECT ` + runColumns + ` FROM transfer_runs WHERE sequence = ?`

	run, err := scanRun(r.db.QueryRow(query, sequence))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: #%d", shared.ErrRunNotFound, sequence)
	}
	if err != nil {
		return nil, err
	}
	return r.withTracks(run)
}

// Update rewrites a run's counts and replaces its track rows
func (r *RunRepository) Update(run *models.TransferRun) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	run.SetUpdatedAt(now)

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE transfer_runs
		SET finished_at = ?, report_path = ?, imported = ?, not_found = ?,
			errored = ?, pending = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := tx.Exec(query,
		nullTime(run.FinishedAt()),
		run.ReportPath(),
		run.Imported(),
		run.NotFound(),
		run.Errored(),
		run.Pending(),
		now,
		run.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrRunNotFound, run.ID())
	}

	if _, err := tx.Exec(`DELETE FROM transfer_run_tracks WHERE run_id = ?`, run.ID()); err != nil {
		return fmt.Errorf("failed to clear run tracks: %w", err)
	}
	if err := insertTracks(tx, run.ID(), run.Tracks()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// Delete removes a run; its track rows go with it through the foreign key cascade
func (r *RunRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM transfer_runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrRunNotFound, id)
	}
	return nil
}

// List retrieves runs newest first without their track rows.
//
// Supported criteria: "finished" (bool) and "limit" (int).
func (r *RunRepository) List(criteria map[string]any) ([]*models.TransferRun, error) {
	query := `SELECT ` + runColumns + ` FROM transfer_runs WHERE 1 = 1`
	args := []any{}

	if finished, ok := criteria["finished"].(bool); ok {
		if finished {
			query += " AND finished_at IS NOT NULL"
		} else {
			query += " AND finished_at IS NULL"
		}
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.TransferRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return runs, nil
}

// Tracks returns a run's track rows in position order, optionally filtered by status
func (r *RunRepository) Tracks(runID string, status models.ItemStatus) ([]models.RunTrack, error) {
	query := `
		SELECT position, artist, name, status, video_id, error
		FROM transfer_run_tracks
		WHERE run_id = ?
	`
	args := []any{runID}

	if status != "" {
		query += " AND status = ?"
		args = append(args, string(status))
	}
	query += " ORDER BY position ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query run tracks: %w", err)
	}
	defer rows.Close()

	var tracks []models.RunTrack
	for rows.Next() {
		var (
			tr     models.RunTrack
			status string
		)
		if err := rows.Scan(&tr.Position, &tr.Track.Artist, &tr.Track.Name, &status, &tr.VideoID, &tr.Error); err != nil {
			return nil, fmt.Errorf("failed to scan run track: %w", err)
		}
		tr.Status = models.ItemStatus(status)
		tracks = append(tracks, tr)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return tracks, nil
}

func (r *RunRepository) withTracks(run *models.TransferRun) (*models.TransferRun, error) {
	tracks, err := r.Tracks(run.ID(), "")
	if err != nil {
		return nil, err
	}
	run.SetTracks(tracks)
	return run, nil
}

func insertTracks(tx *sql.Tx, runID string, tracks []models.RunTrack) error {
	if len(tracks) == 0 {
		return nil
	}

	stmt, err := tx.Prepare(`
		INSERT INTO transfer_run_tracks (run_id, position, artist, name, status, video_id, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare track insert: %w", err)
	}
	defer stmt.Close()

	for _, tr := range tracks {
		_, err := stmt.Exec(runID, tr.Position, tr.Track.Artist, tr.Track.Name, string(tr.Status), tr.VideoID, tr.Error)
		if err != nil {
			return fmt.Errorf("failed to insert run track %d: %w", tr.Position, err)
		}
	}
	return nil
}

// rowScanner is satisfied by both [sql.Row] and [sql.Rows]
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRun scans one transfer_runs row; [sql.ErrNoRows] is returned unwrapped
func scanRun(row rowScanner) (*models.TransferRun, error) {
	var (
		id         string
		sequence   int
		startedAt  time.Time
		finishedAt sql.NullTime
		reportPath string
		imported   int
		notFound   int
		errored    int
		pending    int
		createdAt  time.Time
		updatedAt  time.Time
	)

	err := row.Scan(
		&id, &sequence, &startedAt, &finishedAt, &reportPath,
		&imported, &notFound, &errored, &pending, &createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	run := models.NewTransferRun(sequence, startedAt)
	run.SetID(id)
	run.SetReportPath(reportPath)
	run.SetCounts(imported, notFound, errored, pending)
	run.SetCreatedAt(createdAt)
	run.SetUpdatedAt(updatedAt)
	if finishedAt.Valid {
		run.SetFinishedAt(&finishedAt.Time)
	}

	return run, nil
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
