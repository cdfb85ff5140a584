package account

import (
	"context"
	"errors"
	"strings"

	"careers-backend/internal/applications"
)

type Service struct {
	Repo applications.Repo
}

type ClaimResult struct {
	MigratedApplications int `json:"migratedApplications"`
	SkippedApplications  int `json:"skippedApplications"`
}

func NewService(repo applications.Repo) *Service {
	return &Service{Repo: repo}
}

// ClaimGuest reassigns the guest's application records to the signed-in
// account. A record is skipped when the account already has one for the same
// job: the one-record-per-pair rule wins over the migration.
func (s *Service) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (ClaimResult, error) {
	if strings.TrimSpace(guestUserID) == "" || strings.TrimSpace(authedUserID) == "" {
		return ClaimResult{}, errors.New("guestUserID and authedUserID are required")
	}

	if pg, ok := s.Repo.(*applications.PGRepo); ok && pg != nil && pg.DB != nil {
		return claimWithTx(ctx, pg, guestUserID, authedUserID)
	}

	recs, err := s.Repo.ListByApplicant(ctx, guestUserID)
	if err != nil {
		return ClaimResult{}, err
	}

	var out ClaimResult
	for _, rec := range recs {
		if taken(ctx, s.Repo, rec.JobID, authedUserID) {
			out.SkippedApplications++
			continue
		}
		rec.ApplicantID = authedUserID
		if err := s.Repo.Update(ctx, rec); err != nil {
			return ClaimResult{}, err
		}
		out.MigratedApplications++
	}
	return out, nil
}

func taken(ctx context.Context, repo applications.Repo, jobID, applicantID string) bool {
	if _, err := repo.FindActive(ctx, jobID, applicantID); err == nil {
		return true
	}
	if _, err := repo.FindDraft(ctx, jobID, applicantID); err == nil {
		return true
	}
	return false
}

func claimWithTx(ctx context.Context, pg *applications.PGRepo, guestUserID, authedUserID string) (ClaimResult, error) {
	tx, err := pg.DB.BeginTx(ctx, nil)
	if err != nil {
		return ClaimResult{}, err
	}
	defer tx.Rollback()

	var total int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM applications WHERE applicant_id = $1`, guestUserID,
	).Scan(&total); err != nil {
		return ClaimResult{}, err
	}

	res, err := tx.ExecContext(ctx, `
UPDATE applications a SET applicant_id = $1
WHERE a.applicant_id = $2
  AND NOT EXISTS (
    SELECT 1 FROM applications b
    WHERE b.applicant_id = $1 AND b.job_id = a.job_id
  )`, authedUserID, guestUserID)
	if err != nil {
		return ClaimResult{}, err
	}
	migrated, _ := res.RowsAffected()

	if err := tx.Commit(); err != nil {
		return ClaimResult{}, err
	}
	return ClaimResult{
		MigratedApplications: int(migrated),
		SkippedApplications:  total - int(migrated),
	}, nil
}
