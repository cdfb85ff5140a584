package applications

import (
	"strings"
	"time"
)

// recordPayload is the wire shape of the session's record state. Identity
// fields come from the route and the authenticated caller, never from here.
type recordPayload struct {
	ID          string       `json:"id"`
	CurrentStep int          `json:"currentStep"`
	Personal    Personal     `json:"personal"`
	Emergency   Emergency    `json:"emergency"`
	Education   []Education  `json:"education"`
	Licenses    []License    `json:"licenses"`
	Employment  []Employment `json:"employment"`
}

func (p recordPayload) toRecord(jobID, applicantID string) Record {
	rec := NewRecord(jobID, "", applicantID)
	rec.ID = p.ID
	rec.CurrentStep = p.CurrentStep
	rec.Personal = p.Personal
	rec.Emergency = p.Emergency
	if p.Education != nil {
		rec.Education = p.Education
	}
	if p.Licenses != nil {
		rec.Licenses = p.Licenses
	}
	if p.Employment != nil {
		rec.Employment = p.Employment
	}
	return rec
}

// documentView is a descriptor without the encoded payload; the bytes come
// back through the content endpoint instead of every listing.
type documentView struct {
	Index            int          `json:"index"`
	DisplayName      string       `json:"displayName"`
	DocumentType     DocumentType `json:"documentType"`
	OriginalFileName string       `json:"originalFileName"`
	MimeType         string       `json:"mimeType"`
	SizeBytes        int64        `json:"sizeBytes"`
	Inline           bool         `json:"inline"`
	StorageKey       string       `json:"storageKey,omitempty"`
	TextPreview      string       `json:"textPreview,omitempty"`
	UploadedAt       time.Time    `json:"uploadedAt"`
}

type recordView struct {
	ID          string         `json:"id"`
	JobID       string         `json:"jobId"`
	JobTitle    string         `json:"jobTitle"`
	Status      Status         `json:"status"`
	CurrentStep int            `json:"currentStep"`
	Personal    Personal       `json:"personal"`
	Emergency   Emergency      `json:"emergency"`
	Education   []Education    `json:"education"`
	Licenses    []License      `json:"licenses"`
	Employment  []Employment   `json:"employment"`
	Documents   []documentView `json:"documents"`
	Steps       []StepState    `json:"steps"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	SubmittedAt *time.Time     `json:"submittedAt,omitempty"`
}

func toView(rec Record) recordView {
	view := recordView{
		ID:          rec.ID,
		JobID:       rec.JobID,
		JobTitle:    rec.JobTitle,
		Status:      rec.Status,
		CurrentStep: rec.CurrentStep,
		Personal:    rec.Personal,
		Emergency:   rec.Emergency,
		Education:   rec.Education,
		Licenses:    rec.Licenses,
		Employment:  rec.Employment,
		Documents:   make([]documentView, 0, len(rec.Documents)),
		Steps:       Steps(rec),
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
		SubmittedAt: rec.SubmittedAt,
	}
	view.Personal.SSN = MaskSSN(rec.Personal.SSN)
	for i, doc := range rec.Documents {
		view.Documents = append(view.Documents, documentView{
			Index:            i,
			DisplayName:      doc.DisplayName,
			DocumentType:     doc.DocumentType,
			OriginalFileName: doc.OriginalFileName,
			MimeType:         doc.MimeType,
			SizeBytes:        doc.SizeBytes,
			Inline:           doc.Inline(),
			StorageKey:       doc.StorageKey,
			TextPreview:      doc.TextPreview,
			UploadedAt:       doc.UploadedAt,
		})
	}
	return view
}

type summaryView struct {
	ID          string     `json:"id"`
	JobID       string     `json:"jobId"`
	JobTitle    string     `json:"jobTitle"`
	Status      Status     `json:"status"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`
}

func toSummary(rec Record) summaryView {
	return summaryView{
		ID:          rec.ID,
		JobID:       rec.JobID,
		JobTitle:    rec.JobTitle,
		Status:      rec.Status,
		UpdatedAt:   rec.UpdatedAt,
		SubmittedAt: rec.SubmittedAt,
	}
}

// MaskSSN hides all but the last four digits for display. Stored values are
// never masked.
func MaskSSN(ssn string) string {
	trimmed := strings.TrimSpace(ssn)
	if trimmed == "" {
		return ""
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, trimmed)
	if len(digits) <= 4 {
		return "***-**-" + digits
	}
	return "***-**-" + digits[len(digits)-4:]
}
