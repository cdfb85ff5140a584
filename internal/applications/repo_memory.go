package applications

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Record // record id -> record
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Record)}
}

// Create stores a new record.
func (r *MemoryRepo) Create(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[rec.ID] = rec.Clone()
	return nil
}

// GetByID returns a record by id.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.data[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec.Clone(), nil
}

// Update overwrites an existing record.
func (r *MemoryRepo) Update(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[rec.ID]; !ok {
		return ErrNotFound
	}
	r.data[rec.ID] = rec.Clone()
	return nil
}

// Delete removes a record.
func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return ErrNotFound
	}
	delete(r.data, id)
	return nil
}

// FindDraft returns the draft for a (job, applicant) pair.
func (r *MemoryRepo) FindDraft(ctx context.Context, jobID, applicantID string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.data {
		if rec.JobID == jobID && rec.ApplicantID == applicantID && rec.Status == StatusDraft {
			return rec.Clone(), nil
		}
	}
	return Record{}, ErrNotFound
}

// FindActive returns the post-submission record for a (job, applicant) pair.
func (r *MemoryRepo) FindActive(ctx context.Context, jobID, applicantID string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.data {
		if rec.JobID == jobID && rec.ApplicantID == applicantID && rec.Status.IsActive() {
			return rec.Clone(), nil
		}
	}
	return Record{}, ErrNotFound
}

// ListByApplicant returns the applicant's records, newest first.
func (r *MemoryRepo) ListByApplicant(ctx context.Context, applicantID string) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []Record{}
	for _, rec := range r.data {
		if rec.ApplicantID == applicantID {
			out = append(out, rec.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// ListByStatus returns records in the given status, newest submission first.
func (r *MemoryRepo) ListByStatus(ctx context.Context, status Status) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []Record{}
	for _, rec := range r.data {
		if status == "" || rec.Status == status {
			out = append(out, rec.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ti, tj := out[i].UpdatedAt, out[j].UpdatedAt
		if out[i].SubmittedAt != nil {
			ti = *out[i].SubmittedAt
		}
		if out[j].SubmittedAt != nil {
			tj = *out[j].SubmittedAt
		}
		return ti.After(tj)
	})
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
