package applications

import "testing"

func TestClampStep(t *testing.T) {
	cases := []struct {
		in, want int
	}{
		{-5, 0},
		{-1, 0},
		{0, 0},
		{3, 3},
		{StepReview, StepReview},
		{StepReview + 1, StepReview},
		{99, StepReview},
	}
	for _, tc := range cases {
		if got := ClampStep(tc.in); got != tc.want {
			t.Errorf("ClampStep(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestNextPreviousAtBounds(t *testing.T) {
	if got := NextStep(StepReview); got != StepReview {
		t.Fatalf("next past last = %d", got)
	}
	if got := PreviousStep(StepSummary); got != StepSummary {
		t.Fatalf("previous before first = %d", got)
	}
	if got := NextStep(StepSummary); got != StepPersonal {
		t.Fatalf("next from summary = %d", got)
	}
}

func TestStepsCompletion(t *testing.T) {
	rec := NewRecord("job-1", "", "user-1")
	rec.CurrentStep = StepEducation

	states := Steps(rec)
	if len(states) != StepCount() {
		t.Fatalf("expected %d steps, got %d", StepCount(), len(states))
	}

	// Optional sections read complete even when empty.
	for _, i := range []int{StepSummary, StepLicenses, StepDocuments} {
		if !states[i].Complete {
			t.Errorf("step %s should always be complete", states[i].Name)
		}
	}
	if states[StepPersonal].Complete {
		t.Error("empty personal section should be incomplete")
	}
	if states[StepReview].Complete {
		t.Error("review should be incomplete for a draft")
	}
	if !states[StepEducation].Current {
		t.Error("current flag missing on current step")
	}

	rec.Personal.FirstName = "Ann"
	rec.Personal.LastName = "Lee"
	rec.Personal.Email = "ann@example.com"
	rec.Personal.Phone = "208-555-0100"
	rec.Status = StatusSubmitted
	states = Steps(rec)
	if !states[StepPersonal].Complete {
		t.Error("filled personal section should be complete")
	}
	if !states[StepReview].Complete {
		t.Error("review should complete after submission")
	}
}
