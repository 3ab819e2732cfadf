package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobtrack-engine/internal/domain"
)

// followUpDateLayouts: the UI sends a bare date from its date picker; RFC3339
// is accepted for API callers.
var followUpDateLayouts = []string{"2006-01-02", time.RFC3339}

func parseFollowUpDate(raw string) (time.Time, error) {
	for _, layout := range followUpDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, domain.Validationf("followUpDate", "must be yyyy-mm-dd or RFC3339, got %q", raw)
}

// PutFollowUp creates the follow-up for a job, replacing any existing one.
// One reminder per job; a new one supersedes the old rather than appending.
func PutFollowUp(ctx context.Context, db *sql.DB, owner string, jobID int64, date, note string) (domain.FollowUp, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return domain.FollowUp{}, domain.Validationf("note", "is required")
	}
	if strings.TrimSpace(date) == "" {
		return domain.FollowUp{}, domain.Validationf("followUpDate", "is required")
	}
	due, err := parseFollowUpDate(strings.TrimSpace(date))
	if err != nil {
		return domain.FollowUp{}, err
	}

	if _, err := GetJob(ctx, db, owner, jobID); err != nil {
		return domain.FollowUp{}, err
	}

	f := domain.FollowUp{JobID: jobID, FollowUpDate: due, Note: note}

	// RETURNING id rather than LastInsertId: on the replace path no insert
	// happens, so last_insert_rowid() would be some unrelated row.
	err = db.QueryRowContext(ctx, `
INSERT INTO follow_ups(job_id, follow_up_date, note, completed)
VALUES(?,?,?,0)
ON CONFLICT(job_id) DO UPDATE SET
  follow_up_date = excluded.follow_up_date,
  note = excluded.note,
  completed = 0
RETURNING id;`,
		jobID, due.Format(time.RFC3339), note,
	).Scan(&f.ID)
	if err != nil {
		return domain.FollowUp{}, fmt.Errorf("put follow-up: %w", err)
	}
	return f, nil
}

// CompleteFollowUp marks the job's follow-up done. Completing an already
// completed one is a no-op; having none at all is NotFound.
func CompleteFollowUp(ctx context.Context, db *sql.DB, owner string, jobID int64) error {
	res, err := db.ExecContext(ctx, `
UPDATE follow_ups SET completed = 1
WHERE job_id = ?
  AND job_id IN (SELECT id FROM jobs WHERE owner = ?);`, jobID, owner)
	if err != nil {
		return fmt.Errorf("complete follow-up: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("follow-up for job %d: %w", jobID, domain.ErrNotFound)
	}
	return nil
}

// GetFollowUp returns the job's follow-up, or (nil, nil) when it has none.
func GetFollowUp(ctx context.Context, db *sql.DB, owner string, jobID int64) (*domain.FollowUp, error) {
	row := db.QueryRowContext(ctx, `
SELECT f.id, f.job_id, f.follow_up_date, f.note, f.completed
FROM follow_ups f
JOIN jobs j ON j.id = f.job_id
WHERE f.job_id = ? AND j.owner = ?;`, jobID, owner)

	var f domain.FollowUp
	var due string
	var completed int
	err := row.Scan(&f.ID, &f.JobID, &due, &f.Note, &completed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get follow-up: %w", err)
	}
	f.FollowUpDate, _ = time.Parse(time.RFC3339, due)
	f.Completed = completed != 0
	return &f, nil
}

// ListOverdue joins live job rows so company/role reflect current data.
// Strictly before now: a follow-up dated exactly now is not overdue.
func ListOverdue(ctx context.Context, db *sql.DB, owner string, now time.Time) ([]domain.OverdueFollowUp, error) {
	rows, err := db.QueryContext(ctx, `
SELECT f.job_id, j.company, j.role, f.follow_up_date, f.note
FROM follow_ups f
JOIN jobs j ON j.id = f.job_id
WHERE j.owner = ? AND f.completed = 0 AND f.follow_up_date < ?
ORDER BY f.follow_up_date;`, owner, now.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("list overdue: %w", err)
	}
	defer rows.Close()

	out := []domain.OverdueFollowUp{}
	for rows.Next() {
		var o domain.OverdueFollowUp
		var due string
		if err := rows.Scan(&o.JobID, &o.Company, &o.Role, &due, &o.Note); err != nil {
			return nil, err
		}
		o.FollowUpDate, _ = time.Parse(time.RFC3339, due)
		out = append(out, o)
	}
	return out, rows.Err()
}

// CountOverdue spans all owners; the sweeper uses it for the SSE nudge.
func CountOverdue(ctx context.Context, db *sql.DB, now time.Time) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `
SELECT COUNT(*)
FROM follow_ups
WHERE completed = 0 AND follow_up_date < ?;`, now.UTC().Format(time.RFC3339)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count overdue: %w", err)
	}
	return n, nil
}
