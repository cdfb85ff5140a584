package applications

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres. Identity and status columns stay
// relational for querying; the section payloads are JSONB documents.
type PGRepo struct {
	DB *sql.DB
}

const recordColumns = `
id, job_id, job_title, applicant_id, status, current_step,
personal, emergency, education, licenses, employment, documents,
admin_notes, interview_scheduled_date,
created_at, updated_at, submitted_at, reviewed_at, reviewed_by`

// Create inserts a new record.
func (r *PGRepo) Create(ctx context.Context, rec Record) error {
	const query = `
INSERT INTO applications (
    id, job_id, job_title, applicant_id, status, current_step,
    personal, emergency, education, licenses, employment, documents,
    admin_notes, interview_scheduled_date,
    created_at, updated_at, submitted_at, reviewed_at, reviewed_by
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

	args, err := recordArgs(rec)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query, args...)
	return err
}

// Update overwrites an existing record.
func (r *PGRepo) Update(ctx context.Context, rec Record) error {
	const query = `
UPDATE applications SET
    job_id = $2, job_title = $3, applicant_id = $4, status = $5, current_step = $6,
    personal = $7, emergency = $8, education = $9, licenses = $10, employment = $11, documents = $12,
    admin_notes = $13, interview_scheduled_date = $14,
    created_at = $15, updated_at = $16, submitted_at = $17, reviewed_at = $18, reviewed_by = $19
WHERE id = $1`

	args, err := recordArgs(rec)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID returns a record by id.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Record, error) {
	query := `SELECT ` + recordColumns + ` FROM applications WHERE id = $1 LIMIT 1`
	return scanRecord(r.DB.QueryRowContext(ctx, query, id))
}

// Delete removes a record.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// FindDraft returns the draft for a (job, applicant) pair.
func (r *PGRepo) FindDraft(ctx context.Context, jobID, applicantID string) (Record, error) {
	query := `SELECT ` + recordColumns + `
FROM applications
WHERE job_id = $1 AND applicant_id = $2 AND status = 'draft'
LIMIT 1`
	return scanRecord(r.DB.QueryRowContext(ctx, query, jobID, applicantID))
}

// FindActive returns the post-submission record for a (job, applicant) pair.
// The legacy 'new' value counts as submitted.
func (r *PGRepo) FindActive(ctx context.Context, jobID, applicantID string) (Record, error) {
	query := `SELECT ` + recordColumns + `
FROM applications
WHERE job_id = $1 AND applicant_id = $2
  AND status IN ('submitted', 'new', 'under_review', 'interview_scheduled', 'hired', 'not_hired')
LIMIT 1`
	return scanRecord(r.DB.QueryRowContext(ctx, query, jobID, applicantID))
}

// ListByApplicant returns the applicant's records, newest first.
func (r *PGRepo) ListByApplicant(ctx context.Context, applicantID string) ([]Record, error) {
	query := `SELECT ` + recordColumns + `
FROM applications
WHERE applicant_id = $1
ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, applicantID)
	if err != nil {
		return nil, err
	}
	return collectRecords(rows)
}

// ListByStatus returns records in the given status, newest submission first.
func (r *PGRepo) ListByStatus(ctx context.Context, status Status) ([]Record, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if status == "" {
		query := `SELECT ` + recordColumns + `
FROM applications
ORDER BY submitted_at DESC NULLS LAST, updated_at DESC`
		rows, err = r.DB.QueryContext(ctx, query)
	} else {
		query := `SELECT ` + recordColumns + `
FROM applications
WHERE status = $1
ORDER BY submitted_at DESC NULLS LAST, updated_at DESC`
		rows, err = r.DB.QueryContext(ctx, query, string(status))
	}
	if err != nil {
		return nil, err
	}
	return collectRecords(rows)
}

func recordArgs(rec Record) ([]any, error) {
	personal, err := json.Marshal(rec.Personal)
	if err != nil {
		return nil, fmt.Errorf("marshal personal: %w", err)
	}
	emergency, err := json.Marshal(rec.Emergency)
	if err != nil {
		return nil, fmt.Errorf("marshal emergency: %w", err)
	}
	education, err := json.Marshal(rec.Education)
	if err != nil {
		return nil, fmt.Errorf("marshal education: %w", err)
	}
	licenses, err := json.Marshal(rec.Licenses)
	if err != nil {
		return nil, fmt.Errorf("marshal licenses: %w", err)
	}
	employment, err := json.Marshal(rec.Employment)
	if err != nil {
		return nil, fmt.Errorf("marshal employment: %w", err)
	}
	documents, err := json.Marshal(rec.Documents)
	if err != nil {
		return nil, fmt.Errorf("marshal documents: %w", err)
	}

	var adminNotes sql.NullString
	if rec.AdminNotes != "" {
		adminNotes = sql.NullString{String: rec.AdminNotes, Valid: true}
	}
	var reviewedBy sql.NullString
	if rec.ReviewedBy != "" {
		reviewedBy = sql.NullString{String: rec.ReviewedBy, Valid: true}
	}
	var interviewAt, submittedAt, reviewedAt sql.NullTime
	if rec.InterviewScheduledDate != nil {
		interviewAt = sql.NullTime{Time: *rec.InterviewScheduledDate, Valid: true}
	}
	if rec.SubmittedAt != nil {
		submittedAt = sql.NullTime{Time: *rec.SubmittedAt, Valid: true}
	}
	if rec.ReviewedAt != nil {
		reviewedAt = sql.NullTime{Time: *rec.ReviewedAt, Valid: true}
	}

	return []any{
		rec.ID,
		rec.JobID,
		rec.JobTitle,
		rec.ApplicantID,
		string(rec.Status),
		rec.CurrentStep,
		personal,
		emergency,
		education,
		licenses,
		employment,
		documents,
		adminNotes,
		interviewAt,
		rec.CreatedAt,
		rec.UpdatedAt,
		submittedAt,
		reviewedAt,
		reviewedBy,
	}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var (
		rec        Record
		status     string
		personal   []byte
		emergency  []byte
		education  []byte
		licenses   []byte
		employment []byte
		documents  []byte

		adminNotes  sql.NullString
		reviewedBy  sql.NullString
		interviewAt sql.NullTime
		submittedAt sql.NullTime
		reviewedAt  sql.NullTime
	)

	err := row.Scan(
		&rec.ID,
		&rec.JobID,
		&rec.JobTitle,
		&rec.ApplicantID,
		&status,
		&rec.CurrentStep,
		&personal,
		&emergency,
		&education,
		&licenses,
		&employment,
		&documents,
		&adminNotes,
		&interviewAt,
		&rec.CreatedAt,
		&rec.UpdatedAt,
		&submittedAt,
		&reviewedAt,
		&reviewedBy,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}

	rec.Status = NormalizeStatus(status)
	if err := unmarshalSection(personal, &rec.Personal); err != nil {
		return Record{}, err
	}
	if err := unmarshalSection(emergency, &rec.Emergency); err != nil {
		return Record{}, err
	}
	if err := unmarshalSection(education, &rec.Education); err != nil {
		return Record{}, err
	}
	if err := unmarshalSection(licenses, &rec.Licenses); err != nil {
		return Record{}, err
	}
	if err := unmarshalSection(employment, &rec.Employment); err != nil {
		return Record{}, err
	}
	if err := unmarshalSection(documents, &rec.Documents); err != nil {
		return Record{}, err
	}
	if adminNotes.Valid {
		rec.AdminNotes = adminNotes.String
	}
	if reviewedBy.Valid {
		rec.ReviewedBy = reviewedBy.String
	}
	if interviewAt.Valid {
		t := interviewAt.Time
		rec.InterviewScheduledDate = &t
	}
	if submittedAt.Valid {
		t := submittedAt.Time
		rec.SubmittedAt = &t
	}
	if reviewedAt.Valid {
		t := reviewedAt.Time
		rec.ReviewedAt = &t
	}

	return rec.MergeOverDefaults(), nil
}

func unmarshalSection(raw []byte, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func collectRecords(rows *sql.Rows) ([]Record, error) {
	defer rows.Close()
	out := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
