package jobs

import (
	"context"
	"errors"
	"testing"
)

func TestCreateDefaults(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	p, err := svc.Create(ctx, "admin-1", Input{Title: "  Registered Nurse  "})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == "" {
		t.Fatal("id not assigned")
	}
	if p.Title != "Registered Nurse" {
		t.Fatalf("title not trimmed: %q", p.Title)
	}
	if p.Status != StatusDraft {
		t.Fatalf("expected draft default, got %s", p.Status)
	}
	if p.Salary.Currency != "USD" || p.Salary.Period != "annual" {
		t.Fatalf("salary defaults missing: %+v", p.Salary)
	}
	if p.PostedBy != "admin-1" || p.PostedAt.IsZero() {
		t.Fatalf("posting attribution missing: %+v", p)
	}
	if p.Requirements == nil || p.Responsibilities == nil || p.Benefits == nil {
		t.Fatal("list fields should never be nil")
	}
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	if _, err := svc.Create(ctx, "admin-1", Input{Title: "   "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("blank title: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Create(ctx, "admin-1", Input{Title: "RN", Status: Status("paused")}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad status: expected ErrInvalidInput, got %v", err)
	}

	lo, hi := 90000, 60000
	if _, err := svc.Create(ctx, "admin-1", Input{Title: "RN", Salary: Salary{Min: &lo, Max: &hi}}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("inverted salary: expected ErrInvalidInput, got %v", err)
	}
}

func TestUpdateCloseAndReopen(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	p, err := svc.Create(ctx, "admin-1", Input{Title: "RN", Status: StatusActive})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	closed, err := svc.Update(ctx, p.ID, Input{Title: "RN", Status: StatusClosed})
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if closed.Status != StatusClosed || closed.ClosedAt == nil {
		t.Fatalf("close not stamped: %+v", closed)
	}

	reopened, err := svc.Update(ctx, p.ID, Input{Title: "RN", Status: StatusActive})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.Status != StatusActive || reopened.ClosedAt != nil {
		t.Fatalf("reopen should clear ClosedAt: %+v", reopened)
	}
}

func TestListActiveOnly(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	if _, err := svc.Create(ctx, "admin-1", Input{Title: "Open", Status: StatusActive}); err != nil {
		t.Fatalf("create open: %v", err)
	}
	if _, err := svc.Create(ctx, "admin-1", Input{Title: "Hidden"}); err != nil {
		t.Fatalf("create draft: %v", err)
	}

	active, err := svc.ListActive(ctx)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 1 || active[0].Title != "Open" {
		t.Fatalf("unexpected active set: %+v", active)
	}

	all, err := svc.List(ctx, "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 postings, got %d", len(all))
	}

	if _, err := svc.List(ctx, Status("paused")); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad filter: expected ErrInvalidInput, got %v", err)
	}
}

func TestDirectoryView(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	p, err := svc.Create(ctx, "admin-1", Input{Title: "RN", Status: StatusActive})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	title, err := svc.Title(ctx, p.ID)
	if err != nil || title != "RN" {
		t.Fatalf("title lookup: %q, %v", title, err)
	}
	if _, err := svc.Title(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := svc.RecordSubmission(ctx, p.ID); err != nil {
		t.Fatalf("record submission: %v", err)
	}
	if err := svc.RecordSubmission(ctx, p.ID); err != nil {
		t.Fatalf("record submission: %v", err)
	}
	got, err := svc.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ApplicationsCount != 2 {
		t.Fatalf("applications count = %d", got.ApplicationsCount)
	}
}

func TestEnsureAccepting(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	active, err := svc.Create(ctx, "admin-1", Input{Title: "RN", Status: StatusActive})
	if err != nil {
		t.Fatalf("create active: %v", err)
	}
	closed, err := svc.Create(ctx, "admin-1", Input{Title: "LPN", Status: StatusClosed})
	if err != nil {
		t.Fatalf("create closed: %v", err)
	}

	if err := svc.EnsureAccepting(ctx, active.ID); err != nil {
		t.Fatalf("active posting: %v", err)
	}
	if err := svc.EnsureAccepting(ctx, closed.ID); !errors.Is(err, ErrNotActive) {
		t.Fatalf("expected ErrNotActive for closed posting, got %v", err)
	}
	if err := svc.EnsureAccepting(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
