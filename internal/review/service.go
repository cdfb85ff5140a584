package review

import (
	"context"
	"errors"
	"time"

	"careers-backend/internal/applications"
)

var (
	ErrNotSubmitted  = errors.New("record has not been submitted")
	ErrInvalidTarget = errors.New("status is not reviewer-settable")
)

// Service is the reviewer side of the lifecycle. It never touches drafts:
// only records that have crossed the submission boundary are reviewable.
type Service struct {
	Repo applications.Repo
}

// NewService constructs a Service.
func NewService(repo applications.Repo) *Service {
	return &Service{Repo: repo}
}

// List returns submitted-or-later records, optionally filtered by status.
// An empty status returns the whole post-submission set.
func (s *Service) List(ctx context.Context, status applications.Status) ([]applications.Record, error) {
	if status != "" {
		if !status.IsActive() {
			return nil, ErrInvalidTarget
		}
		return s.Repo.ListByStatus(ctx, status)
	}
	recs, err := s.Repo.ListByStatus(ctx, "")
	if err != nil {
		return nil, err
	}
	out := recs[:0]
	for _, rec := range recs {
		if rec.Status.IsActive() {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Get returns one record regardless of owner.
func (s *Service) Get(ctx context.Context, id string) (applications.Record, error) {
	return s.Repo.GetByID(ctx, id)
}

// SetStatus moves a record within the flat reviewer sub-machine. Any
// reviewer-settable status is reachable from any post-submission state,
// including lateral moves between terminal states; drafts are untouchable.
func (s *Service) SetStatus(ctx context.Context, id, reviewerID string, target applications.Status) (applications.Record, error) {
	if !target.IsReviewerSettable() {
		return applications.Record{}, ErrInvalidTarget
	}
	rec, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return applications.Record{}, err
	}
	if !rec.Status.IsActive() {
		return applications.Record{}, ErrNotSubmitted
	}

	now := time.Now().UTC()
	rec.Status = target
	rec.ReviewedBy = reviewerID
	rec.ReviewedAt = &now
	rec.UpdatedAt = now
	if target != applications.StatusInterviewScheduled {
		rec.InterviewScheduledDate = nil
	}
	if err := s.Repo.Update(ctx, rec); err != nil {
		return applications.Record{}, err
	}
	return rec, nil
}

// ScheduleInterview sets the interview slot and moves the record to
// interview_scheduled in one write.
func (s *Service) ScheduleInterview(ctx context.Context, id, reviewerID string, at time.Time) (applications.Record, error) {
	rec, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return applications.Record{}, err
	}
	if !rec.Status.IsActive() {
		return applications.Record{}, ErrNotSubmitted
	}

	now := time.Now().UTC()
	slot := at.UTC()
	rec.Status = applications.StatusInterviewScheduled
	rec.InterviewScheduledDate = &slot
	rec.ReviewedBy = reviewerID
	rec.ReviewedAt = &now
	rec.UpdatedAt = now
	if err := s.Repo.Update(ctx, rec); err != nil {
		return applications.Record{}, err
	}
	return rec, nil
}

// SetNotes replaces the reviewer's notes on a record.
func (s *Service) SetNotes(ctx context.Context, id, reviewerID, notes string) (applications.Record, error) {
	rec, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return applications.Record{}, err
	}
	if !rec.Status.IsActive() {
		return applications.Record{}, ErrNotSubmitted
	}

	rec.AdminNotes = notes
	rec.ReviewedBy = reviewerID
	rec.UpdatedAt = time.Now().UTC()
	if err := s.Repo.Update(ctx, rec); err != nil {
		return applications.Record{}, err
	}
	return rec, nil
}

// Delete removes a record in any state, drafts included. Reviewers use this
// for cleanup; applicants can only delete their own drafts.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.Repo.Delete(ctx, id)
}
