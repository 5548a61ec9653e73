// Job history ledger for the laser host.
// Records one row per serialized job plus aggregate totals.
package history

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	stderrors "errors"
	"strings"
	"time"

	"liblasercut-go-migration/pkg/errors"
)

// Job status values recorded in the ledger.
const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusError      = "error"
)

// ErrNotFound reports that no job row exists for the requested ID.
var ErrNotFound = stderrors.New("job not found")

// Store is a job ledger backed by SQLite.
//
// It expects an *sql.DB that uses a SQLite driver (for example,
// "modernc.org/sqlite"). The caller is responsible for importing
// the driver, e.g.:
//
//	import _ "modernc.org/sqlite"
type Store struct {
	db *sql.DB
}

// JobRecord is one row of the ledger.
type JobRecord struct {
	JobID            string
	Filename         string
	Profile          string
	Status           string
	StartTime        float64
	EndTime          *float64
	Lines            int64
	Bytes            int64
	EstimatedSeconds float64
	CutMM            float64
	TravelMM         float64
}

// JobResult carries the outcome columns written when a job finishes.
type JobResult struct {
	Lines            int64
	Bytes            int64
	EstimatedSeconds float64
	CutMM            float64
	TravelMM         float64
}

// JobTotals holds aggregated ledger statistics.
type JobTotals struct {
	TotalJobs      int
	TotalLines     int64
	TotalBytes     int64
	TotalSeconds   float64
	TotalCutMM     float64
	TotalTravelMM  float64
	LongestSeconds float64
}

// New initializes the required schema in the given database and
// returns a new Store.
func New(db *sql.DB) (*Store, error) {
	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		return nil, errors.HistoryError("init", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS jobs (
			job_id TEXT PRIMARY KEY,
			filename TEXT NOT NULL,
			profile TEXT NOT NULL,
			status TEXT NOT NULL,
			start_time REAL NOT NULL,
			end_time REAL,
			lines INTEGER NOT NULL DEFAULT 0,
			bytes INTEGER NOT NULL DEFAULT 0,
			estimated_seconds REAL NOT NULL DEFAULT 0,
			cut_mm REAL NOT NULL DEFAULT 0,
			travel_mm REAL NOT NULL DEFAULT 0
		);`,
	)
	return err
}

func generateJobID() string {
	b := make([]byte, 6)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// StartJob inserts a new in-progress job row and returns it.
func (s *Store) StartJob(filename, profile string) (*JobRecord, error) {
	rec := &JobRecord{
		JobID:     generateJobID(),
		Filename:  filename,
		Profile:   profile,
		Status:    StatusInProgress,
		StartTime: float64(time.Now().Unix()),
	}

	_, err := s.db.Exec(`
		INSERT INTO jobs (job_id, filename, profile, status, start_time)
		VALUES (?, ?, ?, ?, ?)`,
		rec.JobID,
		rec.Filename,
		rec.Profile,
		rec.Status,
		rec.StartTime,
	)
	if err != nil {
		return nil, errors.HistoryError("start", err)
	}

	return rec, nil
}

// FinishJob stamps the end time, final status and outcome columns on
// an existing job row.
func (s *Store) FinishJob(jobID, status string, result JobResult) error {
	now := float64(time.Now().Unix())

	res, err := s.db.Exec(`
		UPDATE jobs
		SET status = ?, end_time = ?, lines = ?, bytes = ?, estimated_seconds = ?, cut_mm = ?, travel_mm = ?
		WHERE job_id = ?`,
		status,
		now,
		result.Lines,
		result.Bytes,
		result.EstimatedSeconds,
		result.CutMM,
		result.TravelMM,
		jobID,
	)
	if err != nil {
		return errors.HistoryError("finish", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return errors.HistoryError("finish", err)
	}
	if affected == 0 {
		return errors.HistoryError("finish", ErrNotFound)
	}

	return nil
}

// GetJob returns a job row by ID.
func (s *Store) GetJob(jobID string) (*JobRecord, error) {
	row := s.db.QueryRow(`
		SELECT job_id, filename, profile, status, start_time, end_time, lines, bytes, estimated_seconds, cut_mm, travel_mm
		FROM jobs
		WHERE job_id = ?`,
		jobID,
	)

	rec, err := scanJob(row)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.HistoryError("get", ErrNotFound)
		}
		return nil, errors.HistoryError("get", err)
	}

	return rec, nil
}

// ListJobs returns job rows ordered by start time with optional time
// filtering and pagination. Order is "asc" or "desc"; anything else
// means descending, most recent first. A since or before of zero
// disables that bound; a limit or start of zero disables paging.
func (s *Store) ListJobs(limit, start int, since, before float64, order string) ([]*JobRecord, error) {
	query := `
		SELECT job_id, filename, profile, status, start_time, end_time, lines, bytes, estimated_seconds, cut_mm, travel_mm
		FROM jobs`
	var args []any
	var clauses []string

	if since > 0 {
		clauses = append(clauses, "start_time >= ?")
		args = append(args, since)
	}
	if before > 0 {
		clauses = append(clauses, "start_time <= ?")
		args = append(args, before)
	}

	if len(clauses) > 0 {
		query = query + " WHERE " + strings.Join(clauses, " AND ")
	}

	if order == "asc" {
		query = query + " ORDER BY start_time ASC, job_id ASC"
	} else {
		query = query + " ORDER BY start_time DESC, job_id DESC"
	}

	switch {
	case limit > 0:
		query = query + " LIMIT ?"
		args = append(args, limit)
	case start > 0:
		// SQLite only accepts OFFSET after a LIMIT; -1 is unbounded.
		query = query + " LIMIT -1"
	}
	if start > 0 {
		query = query + " OFFSET ?"
		args = append(args, start)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, errors.HistoryError("list", err)
	}
	defer rows.Close()

	var records []*JobRecord
	for rows.Next() {
		rec, err := scanJob(rows)
		if err != nil {
			return nil, errors.HistoryError("list", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.HistoryError("list", err)
	}

	return records, nil
}

// Totals returns aggregated statistics over every job row.
func (s *Store) Totals() (*JobTotals, error) {
	row := s.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(lines), 0),
		       COALESCE(SUM(bytes), 0),
		       COALESCE(SUM(estimated_seconds), 0),
		       COALESCE(SUM(cut_mm), 0),
		       COALESCE(SUM(travel_mm), 0),
		       COALESCE(MAX(estimated_seconds), 0)
		FROM jobs`,
	)

	var totals JobTotals
	err := row.Scan(
		&totals.TotalJobs,
		&totals.TotalLines,
		&totals.TotalBytes,
		&totals.TotalSeconds,
		&totals.TotalCutMM,
		&totals.TotalTravelMM,
		&totals.LongestSeconds,
	)
	if err != nil {
		return nil, errors.HistoryError("totals", err)
	}

	return &totals, nil
}

// DeleteJob removes a job row from the ledger.
func (s *Store) DeleteJob(jobID string) error {
	res, err := s.db.Exec(`DELETE FROM jobs WHERE job_id = ?`, jobID)
	if err != nil {
		return errors.HistoryError("delete", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return errors.HistoryError("delete", err)
	}
	if affected == 0 {
		return errors.HistoryError("delete", ErrNotFound)
	}

	return nil
}

// ResetTotals clears every job row.
func (s *Store) ResetTotals() error {
	if _, err := s.db.Exec(`DELETE FROM jobs`); err != nil {
		return errors.HistoryError("reset", err)
	}
	return nil
}

// scanRow is satisfied by both *sql.Row and *sql.Rows.
type scanRow interface {
	Scan(dest ...any) error
}

func scanJob(row scanRow) (*JobRecord, error) {
	var rec JobRecord
	var endTime sql.NullFloat64

	err := row.Scan(
		&rec.JobID,
		&rec.Filename,
		&rec.Profile,
		&rec.Status,
		&rec.StartTime,
		&endTime,
		&rec.Lines,
		&rec.Bytes,
		&rec.EstimatedSeconds,
		&rec.CutMM,
		&rec.TravelMM,
	)
	if err != nil {
		return nil, err
	}

	if endTime.Valid {
		rec.EndTime = &endTime.Float64
	}

	return &rec, nil
}
