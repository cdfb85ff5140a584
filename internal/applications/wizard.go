package applications

import "strings"

// Step indices in the canonical wizard configuration.
const (
	StepSummary = iota
	StepPersonal
	StepEmergency
	StepEducation
	StepLicenses
	StepEmployment
	StepDocuments
	StepReview
)

// StepNames is the ordered step sequence. The Review step is where
// submission happens; every other step may save progress independently.
var StepNames = []string{
	"Summary",
	"Personal",
	"Emergency",
	"Education",
	"Licenses",
	"Employment",
	"Documents",
	"Review",
}

// StepCount returns the number of wizard steps.
func StepCount() int { return len(StepNames) }

// ClampStep bounds a step index into the valid range. Transitions never
// validate or discard state; they only move the current pointer.
func ClampStep(step int) int {
	if step < 0 {
		return 0
	}
	if step >= len(StepNames) {
		return len(StepNames) - 1
	}
	return step
}

// NextStep advances one step, clamped at the Review step.
func NextStep(current int) int { return ClampStep(current + 1) }

// PreviousStep backs up one step, clamped at the Summary step.
func PreviousStep(current int) int { return ClampStep(current - 1) }

// StepState is one entry of the wizard sidebar: the step's name, whether the
// section it covers has the data it needs, and whether it is current.
type StepState struct {
	Name     string `json:"name"`
	Index    int    `json:"index"`
	Complete bool   `json:"complete"`
	Current  bool   `json:"current"`
}

// Steps computes the completion signal for every step of a record. Optional
// sections (Licenses, Documents) always read complete; the Summary step is
// informational and the Review step completes on submission.
func Steps(rec Record) []StepState {
	out := make([]StepState, len(StepNames))
	for i, name := range StepNames {
		out[i] = StepState{
			Name:    name,
			Index:   i,
			Current: i == rec.CurrentStep,
		}
		switch i {
		case StepSummary, StepLicenses, StepDocuments:
			out[i].Complete = true
		case StepPersonal:
			out[i].Complete = personalComplete(rec.Personal)
		case StepEmergency:
			out[i].Complete = contactComplete(rec.Emergency.Primary)
		case StepEducation:
			out[i].Complete = len(rec.Education) > 0
		case StepEmployment:
			out[i].Complete = len(rec.Employment) > 0
		case StepReview:
			out[i].Complete = rec.Status != StatusDraft
		}
	}
	return out
}

func personalComplete(p Personal) bool {
	return filled(p.FirstName) && filled(p.LastName) && filled(p.Email) && filled(p.Phone)
}

func contactComplete(c EmergencyContact) bool {
	return filled(c.Name) && filled(c.Relationship) && filled(c.Phone)
}

func filled(s string) bool { return strings.TrimSpace(s) != "" }
