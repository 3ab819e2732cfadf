package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobtrack-engine/internal/domain"
	"jobtrack-engine/internal/status"
)

// NewJob carries the caller-supplied fields for CreateJob. Everything except
// Company and Role is optional.
type NewJob struct {
	Company       string
	Role          string
	Status        string
	Location      string
	CTC           string
	JobLink       string
	AppliedDate   string
	ResumeVersion string
}

func CreateJob(ctx context.Context, db *sql.DB, owner string, in NewJob) (domain.Job, error) {
	company := strings.TrimSpace(in.Company)
	role := strings.TrimSpace(in.Role)
	if company == "" {
		return domain.Job{}, domain.Validationf("company", "is required")
	}
	if role == "" {
		return domain.Job{}, domain.Validationf("role", "is required")
	}

	// Default SAVED. A caller-supplied status is honored without a history
	// row: the ledger starts at the first explicit change, not at creation.
	st := domain.StatusSaved
	if s := strings.TrimSpace(in.Status); s != "" {
		st = domain.Status(s)
		if !status.IsValid(st) {
			return domain.Job{}, domain.Validationf("status", "must be one of %v", domain.AllStatuses)
		}
	}

	j := domain.Job{
		Owner:         owner,
		Company:       company,
		Role:          role,
		Status:        st,
		Location:      strings.TrimSpace(in.Location),
		CTC:           strings.TrimSpace(in.CTC),
		JobLink:       strings.TrimSpace(in.JobLink),
		AppliedDate:   strings.TrimSpace(in.AppliedDate),
		ResumeVersion: strings.TrimSpace(in.ResumeVersion),
		CreatedAt:     utcNow(),
	}

	res, err := db.ExecContext(ctx, `
INSERT INTO jobs(owner, company, role, status, location, ctc, job_link, applied_date, resume_version, created_at)
VALUES(?,?,?,?,?,?,?,?,?,?);`,
		j.Owner, j.Company, j.Role, string(j.Status), j.Location, j.CTC, j.JobLink,
		j.AppliedDate, j.ResumeVersion, j.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return domain.Job{}, fmt.Errorf("insert job: %w", err)
	}
	j.ID, _ = res.LastInsertId()
	return j, nil
}

const jobColumns = `id, owner, company, role, status, location, ctc, job_link, applied_date, resume_version, created_at`

func scanJob(row interface{ Scan(...any) error }) (domain.Job, error) {
	var j domain.Job
	var st, createdAt string
	err := row.Scan(&j.ID, &j.Owner, &j.Company, &j.Role, &st, &j.Location,
		&j.CTC, &j.JobLink, &j.AppliedDate, &j.ResumeVersion, &createdAt)
	if err != nil {
		return domain.Job{}, err
	}
	j.Status = domain.Status(st)
	j.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return j, nil
}

func GetJob(ctx context.Context, db *sql.DB, owner string, id int64) (domain.Job, error) {
	row := db.QueryRowContext(ctx, `
SELECT `+jobColumns+` FROM jobs WHERE id = ? AND owner = ?;`, id, owner)

	j, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Job{}, fmt.Errorf("job %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Job{}, fmt.Errorf("get job: %w", err)
	}
	return j, nil
}

func ListJobs(ctx context.Context, db *sql.DB, owner string) ([]domain.Job, error) {
	rows, err := db.QueryContext(ctx, `
SELECT `+jobColumns+` FROM jobs WHERE owner = ? ORDER BY id;`, owner)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var out []domain.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

// UpdateStatus applies a policy-checked transition and appends the matching
// ledger row in the same transaction, so no reader sees one without the other.
func UpdateStatus(ctx context.Context, db *sql.DB, owner string, id int64, next domain.Status) (domain.StatusChange, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return domain.StatusChange{}, err
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var cur string
	err = tx.QueryRowContext(ctx, `SELECT status FROM jobs WHERE id = ? AND owner = ?;`, id, owner).Scan(&cur)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.StatusChange{}, fmt.Errorf("job %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.StatusChange{}, fmt.Errorf("read status: %w", err)
	}

	change, err := status.Transition(domain.Status(cur), next)
	if err != nil {
		return domain.StatusChange{}, err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE jobs SET status = ? WHERE id = ?;`, string(change.To), id); err != nil {
		return domain.StatusChange{}, fmt.Errorf("update status: %w", err)
	}

	// Ledger timestamps must never decrease per job, even across a clock
	// step. Clamp to the newest existing entry.
	now := utcNow()
	var last sql.NullString
	if err := tx.QueryRowContext(ctx, `
SELECT MAX(changed_at) FROM status_history WHERE job_id = ?;`, id).Scan(&last); err != nil {
		return domain.StatusChange{}, err
	}
	if last.Valid {
		if prev, perr := time.Parse(time.RFC3339, last.String); perr == nil && now.Before(prev) {
			now = prev
		}
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO status_history(job_id, old_status, new_status, changed_at)
VALUES(?,?,?,?);`,
		id, string(change.From), string(change.To), now.Format(time.RFC3339),
	); err != nil {
		return domain.StatusChange{}, fmt.Errorf("append history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.StatusChange{}, err
	}
	committed = true
	return change, nil
}

// DeleteJob removes the job plus its history and follow-up (FK cascades).
// Deleting a job that does not exist is a no-op, not an error.
func DeleteJob(ctx context.Context, db *sql.DB, owner string, id int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM jobs WHERE id = ? AND owner = ?;`, id, owner)
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	return nil
}
