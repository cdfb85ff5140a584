package jobs

import "context"

// Repo abstracts posting persistence.
type Repo interface {
	Create(ctx context.Context, p Posting) error
	GetByID(ctx context.Context, id string) (Posting, error)
	Update(ctx context.Context, p Posting) error
	Delete(ctx context.Context, id string) error
	// List returns postings newest first. An empty status means all.
	List(ctx context.Context, status Status) ([]Posting, error)
	// IncrementApplications bumps the submission counter by one.
	IncrementApplications(ctx context.Context, id string) error
}
