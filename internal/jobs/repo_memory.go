package jobs

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repo used in development and tests.
type MemoryRepo struct {
	mu       sync.RWMutex
	postings map[string]Posting
}

// NewMemoryRepo constructs an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{postings: make(map[string]Posting)}
}

func clonePosting(p Posting) Posting {
	out := p
	out.Requirements = append([]string(nil), p.Requirements...)
	out.Responsibilities = append([]string(nil), p.Responsibilities...)
	out.Benefits = append([]string(nil), p.Benefits...)
	if p.ClosedAt != nil {
		t := *p.ClosedAt
		out.ClosedAt = &t
	}
	if p.Salary.Min != nil {
		v := *p.Salary.Min
		out.Salary.Min = &v
	}
	if p.Salary.Max != nil {
		v := *p.Salary.Max
		out.Salary.Max = &v
	}
	return out
}

func (r *MemoryRepo) Create(ctx context.Context, p Posting) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.postings[p.ID] = clonePosting(p)
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Posting, error) {
	if err := ctx.Err(); err != nil {
		return Posting{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.postings[id]
	if !ok {
		return Posting{}, ErrNotFound
	}
	return clonePosting(p), nil
}

func (r *MemoryRepo) Update(ctx context.Context, p Posting) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.postings[p.ID]; !ok {
		return ErrNotFound
	}
	r.postings[p.ID] = clonePosting(p)
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.postings[id]; !ok {
		return ErrNotFound
	}
	delete(r.postings, id)
	return nil
}

func (r *MemoryRepo) List(ctx context.Context, status Status) ([]Posting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Posting, 0, len(r.postings))
	for _, p := range r.postings {
		if status != "" && p.Status != status {
			continue
		}
		out = append(out, clonePosting(p))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PostedAt.After(out[j].PostedAt)
	})
	return out, nil
}

func (r *MemoryRepo) IncrementApplications(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.postings[id]
	if !ok {
		return ErrNotFound
	}
	p.ApplicationsCount++
	r.postings[id] = p
	return nil
}
