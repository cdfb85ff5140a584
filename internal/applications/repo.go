package applications

import "context"

// Repo is the record-store adapter: create/get/update a record by id, plus
// the field-equality queries the lifecycle needs.
type Repo interface {
	Create(ctx context.Context, rec Record) error
	GetByID(ctx context.Context, id string) (Record, error)
	Update(ctx context.Context, rec Record) error
	Delete(ctx context.Context, id string) error

	// FindDraft returns the draft for a (job, applicant) pair, ErrNotFound
	// if no draft exists.
	FindDraft(ctx context.Context, jobID, applicantID string) (Record, error)

	// FindActive returns the record for a (job, applicant) pair whose status
	// is in the post-submission set, ErrNotFound if none exists.
	FindActive(ctx context.Context, jobID, applicantID string) (Record, error)

	// ListByApplicant returns the applicant's records, newest first.
	ListByApplicant(ctx context.Context, applicantID string) ([]Record, error)

	// ListByStatus returns records in the given status ordered by submission
	// time, newest first. An empty status lists every record.
	ListByStatus(ctx context.Context, status Status) ([]Record, error)
}
