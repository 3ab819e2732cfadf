package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"jobtrack-engine/internal/domain"
)

// GetHistory returns the job's transition ledger oldest first. A job that has
// never changed status yields an empty slice, not an error.
func GetHistory(ctx context.Context, db *sql.DB, owner string, jobID int64) ([]domain.StatusHistoryEntry, error) {
	if _, err := GetJob(ctx, db, owner, jobID); err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
SELECT id, job_id, old_status, new_status, changed_at
FROM status_history
WHERE job_id = ?
ORDER BY changed_at, id;`, jobID)
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}
	defer rows.Close()

	out := []domain.StatusHistoryEntry{}
	for rows.Next() {
		var e domain.StatusHistoryEntry
		var oldSt, newSt, changedAt string
		if err := rows.Scan(&e.ID, &e.JobID, &oldSt, &newSt, &changedAt); err != nil {
			return nil, err
		}
		e.OldStatus = domain.Status(oldSt)
		e.NewStatus = domain.Status(newSt)
		e.ChangedAt, _ = time.Parse(time.RFC3339, changedAt)
		out = append(out, e)
	}
	return out, rows.Err()
}
