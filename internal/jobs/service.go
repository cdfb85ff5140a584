package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service owns posting lifecycle and serves as the job directory for the
// application side.
type Service struct {
	Repo Repo
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Input is the editable subset of a posting.
type Input struct {
	Title            string
	Department       string
	Location         string
	Type             string
	Description      string
	Requirements     []string
	Responsibilities []string
	Benefits         []string
	Salary           Salary
	Status           Status
}

func (in Input) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if in.Status != "" && !ValidStatus(in.Status) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, in.Status)
	}
	if in.Salary.Min != nil && in.Salary.Max != nil && *in.Salary.Min > *in.Salary.Max {
		return fmt.Errorf("%w: salary range is inverted", ErrInvalidInput)
	}
	return nil
}

// Create publishes a new posting. Status defaults to draft when unset.
func (s *Service) Create(ctx context.Context, postedBy string, in Input) (Posting, error) {
	if err := in.validate(); err != nil {
		return Posting{}, err
	}
	now := time.Now().UTC()
	p := Posting{
		ID:               uuid.NewString(),
		Title:            strings.TrimSpace(in.Title),
		Department:       strings.TrimSpace(in.Department),
		Location:         strings.TrimSpace(in.Location),
		Type:             strings.TrimSpace(in.Type),
		Description:      in.Description,
		Requirements:     emptyIfNil(in.Requirements),
		Responsibilities: emptyIfNil(in.Responsibilities),
		Benefits:         emptyIfNil(in.Benefits),
		Salary:           in.Salary,
		Status:           in.Status,
		PostedBy:         postedBy,
		PostedAt:         now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if p.Status == "" {
		p.Status = StatusDraft
	}
	if p.Salary.Currency == "" {
		p.Salary.Currency = "USD"
	}
	if p.Salary.Period == "" {
		p.Salary.Period = "annual"
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		return Posting{}, err
	}
	return p, nil
}

// Update replaces the editable fields of a posting. Closing a posting stamps
// ClosedAt; reopening clears it.
func (s *Service) Update(ctx context.Context, id string, in Input) (Posting, error) {
	if err := in.validate(); err != nil {
		return Posting{}, err
	}
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Posting{}, err
	}

	p.Title = strings.TrimSpace(in.Title)
	p.Department = strings.TrimSpace(in.Department)
	p.Location = strings.TrimSpace(in.Location)
	p.Type = strings.TrimSpace(in.Type)
	p.Description = in.Description
	p.Requirements = emptyIfNil(in.Requirements)
	p.Responsibilities = emptyIfNil(in.Responsibilities)
	p.Benefits = emptyIfNil(in.Benefits)
	p.Salary = in.Salary
	if in.Status != "" && in.Status != p.Status {
		if in.Status == StatusClosed {
			now := time.Now().UTC()
			p.ClosedAt = &now
		} else {
			p.ClosedAt = nil
		}
		p.Status = in.Status
	}
	p.UpdatedAt = time.Now().UTC()

	if err := s.Repo.Update(ctx, p); err != nil {
		return Posting{}, err
	}
	return p, nil
}

// Delete removes a posting outright.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.Repo.Delete(ctx, id)
}

// Get returns one posting.
func (s *Service) Get(ctx context.Context, id string) (Posting, error) {
	return s.Repo.GetByID(ctx, id)
}

// ListActive returns postings open for applications, newest first.
func (s *Service) ListActive(ctx context.Context) ([]Posting, error) {
	return s.Repo.List(ctx, StatusActive)
}

// List returns postings in the given status, or all when status is empty.
func (s *Service) List(ctx context.Context, status Status) ([]Posting, error) {
	if status != "" && !ValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	return s.Repo.List(ctx, status)
}

// Title returns the display title for a posting, for denormalizing onto
// application records.
func (s *Service) Title(ctx context.Context, jobID string) (string, error) {
	p, err := s.Repo.GetByID(ctx, jobID)
	if err != nil {
		return "", err
	}
	return p.Title, nil
}

// RecordSubmission bumps the posting's submission counter.
func (s *Service) RecordSubmission(ctx context.Context, jobID string) error {
	return s.Repo.IncrementApplications(ctx, jobID)
}

// EnsureAccepting returns ErrNotActive for postings that no longer take
// applications.
func (s *Service) EnsureAccepting(ctx context.Context, jobID string) error {
	p, err := s.Repo.GetByID(ctx, jobID)
	if err != nil {
		return err
	}
	if p.Status != StatusActive {
		return ErrNotActive
	}
	return nil
}

func emptyIfNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
