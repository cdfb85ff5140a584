package review

import (
	"time"

	"careers-backend/internal/applications"
)

// documentView is a descriptor without the encoded payload; reviewers fetch
// bytes through the content endpoint.
type documentView struct {
	Index            int                       `json:"index"`
	DisplayName      string                    `json:"displayName"`
	DocumentType     applications.DocumentType `json:"documentType"`
	OriginalFileName string                    `json:"originalFileName"`
	MimeType         string                    `json:"mimeType"`
	SizeBytes        int64                     `json:"sizeBytes"`
	TextPreview      string                    `json:"textPreview,omitempty"`
	UploadedAt       time.Time                 `json:"uploadedAt"`
}

// recordView is the reviewer-facing record shape. Unlike the applicant view
// it carries the review fields. The government id stays masked here too:
// stored values are full, every display surface shows the tail only.
type recordView struct {
	ID                     string                    `json:"id"`
	JobID                  string                    `json:"jobId"`
	JobTitle               string                    `json:"jobTitle"`
	ApplicantID            string                    `json:"applicantId"`
	Status                 applications.Status       `json:"status"`
	Personal               applications.Personal     `json:"personal"`
	Emergency              applications.Emergency    `json:"emergency"`
	Education              []applications.Education  `json:"education"`
	Licenses               []applications.License    `json:"licenses"`
	Employment             []applications.Employment `json:"employment"`
	Documents              []documentView            `json:"documents"`
	AdminNotes             string                    `json:"adminNotes"`
	InterviewScheduledDate *time.Time                `json:"interviewScheduledDate,omitempty"`
	ReviewedBy             string                    `json:"reviewedBy,omitempty"`
	ReviewedAt             *time.Time                `json:"reviewedAt,omitempty"`
	CreatedAt              time.Time                 `json:"createdAt"`
	UpdatedAt              time.Time                 `json:"updatedAt"`
	SubmittedAt            *time.Time                `json:"submittedAt,omitempty"`
}

func toView(rec applications.Record) recordView {
	view := recordView{
		ID:                     rec.ID,
		JobID:                  rec.JobID,
		JobTitle:               rec.JobTitle,
		ApplicantID:            rec.ApplicantID,
		Status:                 rec.Status,
		Personal:               rec.Personal,
		Emergency:              rec.Emergency,
		Education:              rec.Education,
		Licenses:               rec.Licenses,
		Employment:             rec.Employment,
		Documents:              make([]documentView, 0, len(rec.Documents)),
		AdminNotes:             rec.AdminNotes,
		InterviewScheduledDate: rec.InterviewScheduledDate,
		ReviewedBy:             rec.ReviewedBy,
		ReviewedAt:             rec.ReviewedAt,
		CreatedAt:              rec.CreatedAt,
		UpdatedAt:              rec.UpdatedAt,
		SubmittedAt:            rec.SubmittedAt,
	}
	view.Personal.SSN = applications.MaskSSN(rec.Personal.SSN)
	for i, doc := range rec.Documents {
		view.Documents = append(view.Documents, documentView{
			Index:            i,
			DisplayName:      doc.DisplayName,
			DocumentType:     doc.DocumentType,
			OriginalFileName: doc.OriginalFileName,
			MimeType:         doc.MimeType,
			SizeBytes:        doc.SizeBytes,
			TextPreview:      doc.TextPreview,
			UploadedAt:       doc.UploadedAt,
		})
	}
	return view
}

// summaryView is the list row for the review queue.
type summaryView struct {
	ID          string              `json:"id"`
	JobID       string              `json:"jobId"`
	JobTitle    string              `json:"jobTitle"`
	Applicant   string              `json:"applicant"`
	Email       string              `json:"email"`
	Status      applications.Status `json:"status"`
	Documents   int                 `json:"documents"`
	SubmittedAt *time.Time          `json:"submittedAt,omitempty"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

func toSummary(rec applications.Record) summaryView {
	name := rec.Personal.FirstName
	if rec.Personal.LastName != "" {
		if name != "" {
			name += " "
		}
		name += rec.Personal.LastName
	}
	return summaryView{
		ID:          rec.ID,
		JobID:       rec.JobID,
		JobTitle:    rec.JobTitle,
		Applicant:   name,
		Email:       rec.Personal.Email,
		Status:      rec.Status,
		Documents:   len(rec.Documents),
		SubmittedAt: rec.SubmittedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
}
