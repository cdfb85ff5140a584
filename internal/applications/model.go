package applications

import (
	"encoding/base64"
	"errors"
	"strings"
	"time"
)

// Status is the lifecycle state of an application record.
type Status string

const (
	StatusDraft              Status = "draft"
	StatusSubmitted          Status = "submitted"
	StatusUnderReview        Status = "under_review"
	StatusInterviewScheduled Status = "interview_scheduled"
	StatusHired              Status = "hired"
	StatusNotHired           Status = "not_hired"
)

// ActiveStatuses is the post-submission set: once a record carries one of
// these, the applicant may not open a second record for the same job.
var ActiveStatuses = []Status{
	StatusSubmitted,
	StatusUnderReview,
	StatusInterviewScheduled,
	StatusHired,
	StatusNotHired,
}

// NormalizeStatus maps the legacy "new" value onto the canonical submitted
// state. Writers never produce "new"; old rows may still carry it.
func NormalizeStatus(raw string) Status {
	s := Status(strings.TrimSpace(raw))
	if s == "new" {
		return StatusSubmitted
	}
	return s
}

// IsActive reports whether the status belongs to the post-submission set.
func (s Status) IsActive() bool {
	for _, a := range ActiveStatuses {
		if s == a {
			return true
		}
	}
	return false
}

// IsReviewerSettable reports whether a reviewer may write this status.
// The reviewer sub-machine is flat: any of these is reachable from any
// post-submission state, and nothing moves back into draft.
func (s Status) IsReviewerSettable() bool {
	switch s {
	case StatusUnderReview, StatusInterviewScheduled, StatusHired, StatusNotHired:
		return true
	default:
		return false
	}
}

// DocumentType classifies an attached document.
type DocumentType string

const (
	DocTypeResume        DocumentType = "resume"
	DocTypeLicense       DocumentType = "license"
	DocTypeCertification DocumentType = "certification"
	DocTypeDiploma       DocumentType = "diploma"
	DocTypeDriverLicense DocumentType = "driver_license"
	DocTypeReference     DocumentType = "reference"
	DocTypeOther         DocumentType = "other"
)

// ValidDocumentType reports whether t is a known document type.
func ValidDocumentType(t DocumentType) bool {
	switch t {
	case DocTypeResume, DocTypeLicense, DocTypeCertification, DocTypeDiploma,
		DocTypeDriverLicense, DocTypeReference, DocTypeOther:
		return true
	default:
		return false
	}
}

// Address is a postal address shared by several sections.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
}

// DriversLicense is the driver's-license triple on the personal section.
type DriversLicense struct {
	Number         string `json:"number"`
	State          string `json:"state"`
	ExpirationDate string `json:"expirationDate"`
}

// Personal holds the applicant's personal information. The SSN is stored
// unmasked; masking happens at the response layer only.
type Personal struct {
	FirstName      string         `json:"firstName"`
	MiddleName     string         `json:"middleName"`
	LastName       string         `json:"lastName"`
	Email          string         `json:"email"`
	Phone          string         `json:"phone"`
	SSN            string         `json:"ssn"`
	DateOfBirth    string         `json:"dateOfBirth"`
	Address        Address        `json:"address"`
	DriversLicense DriversLicense `json:"driversLicense"`
	DateAvailable  string         `json:"dateAvailable"`
}

// EmergencyContact is one name/relationship/phone/address tuple.
type EmergencyContact struct {
	Name         string  `json:"name"`
	Relationship string  `json:"relationship"`
	Phone        string  `json:"phone"`
	Address      Address `json:"address"`
}

// Emergency holds the required primary and optional secondary contact.
type Emergency struct {
	Primary   EmergencyContact `json:"primary"`
	Secondary EmergencyContact `json:"secondary"`
}

// Education is one school entry.
type Education struct {
	Degree         string `json:"degree"`
	FieldOfStudy   string `json:"fieldOfStudy"`
	SchoolName     string `json:"schoolName"`
	GraduationDate string `json:"graduationDate"`
}

// License is one professional license or certification entry.
type License struct {
	Name             string `json:"name"`
	IssuingAuthority string `json:"issuingAuthority"`
	Number           string `json:"number"`
	ExpirationDate   string `json:"expirationDate"`
	Category         string `json:"category,omitempty"`
}

// Employment is one employment-history entry. EndDate is meaningless while
// CurrentEmployment is true.
type Employment struct {
	EmployerName      string  `json:"employerName"`
	PositionTitle     string  `json:"positionTitle"`
	Phone             string  `json:"phone"`
	Address           Address `json:"address"`
	StartDate         string  `json:"startDate"`
	EndDate           string  `json:"endDate"`
	CurrentEmployment bool    `json:"currentEmployment"`
}

// Document describes one attached file. EncodedContent (inline data URI) and
// StorageKey (external object) are mutually exclusive representations of
// where the bytes live.
type Document struct {
	DisplayName      string       `json:"displayName"`
	DocumentType     DocumentType `json:"documentType"`
	OriginalFileName string       `json:"originalFileName"`
	MimeType         string       `json:"mimeType"`
	SizeBytes        int64        `json:"sizeBytes"`
	EncodedContent   string       `json:"encodedContent,omitempty"`
	StorageKey       string       `json:"storageKey,omitempty"`
	TextPreview      string       `json:"textPreview,omitempty"`
	UploadedAt       time.Time    `json:"uploadedAt"`
}

// Inline reports whether the document bytes are embedded in the record.
func (d Document) Inline() bool { return d.EncodedContent != "" }

// Decode returns the raw bytes of an inline document.
func (d Document) Decode() ([]byte, error) {
	if !d.Inline() {
		return nil, errors.New("document has no inline content")
	}
	payload := d.EncodedContent
	if i := strings.Index(payload, ";base64,"); i >= 0 {
		payload = payload[i+len(";base64,"):]
	}
	return base64.StdEncoding.DecodeString(payload)
}

// Record is one application per (job, applicant) pair. Identity fields are
// immutable once created.
type Record struct {
	ID          string `json:"id"`
	JobID       string `json:"jobId"`
	JobTitle    string `json:"jobTitle"`
	ApplicantID string `json:"applicantId"`
	Status      Status `json:"status"`
	CurrentStep int    `json:"currentStep"`

	Personal   Personal     `json:"personal"`
	Emergency  Emergency    `json:"emergency"`
	Education  []Education  `json:"education"`
	Licenses   []License    `json:"licenses"`
	Employment []Employment `json:"employment"`
	Documents  []Document   `json:"documents"`

	AdminNotes             string     `json:"adminNotes,omitempty"`
	InterviewScheduledDate *time.Time `json:"interviewScheduledDate,omitempty"`

	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`
	ReviewedAt  *time.Time `json:"reviewedAt,omitempty"`
	ReviewedBy  string     `json:"reviewedBy,omitempty"`
}

// NewRecord returns the empty draft shape for a (job, applicant) pair. The
// record id stays empty until the first save persists it.
func NewRecord(jobID, jobTitle, applicantID string) Record {
	return Record{
		JobID:       jobID,
		JobTitle:    jobTitle,
		ApplicantID: applicantID,
		Status:      StatusDraft,
		Education:   []Education{},
		Licenses:    []License{},
		Employment:  []Employment{},
		Documents:   []Document{},
	}
}

// Clone returns a deep copy of the record. Struct sections copy by value;
// only the slices need explicit copies.
func (r Record) Clone() Record {
	out := r
	out.Education = append([]Education(nil), r.Education...)
	out.Licenses = append([]License(nil), r.Licenses...)
	out.Employment = append([]Employment(nil), r.Employment...)
	out.Documents = append([]Document(nil), r.Documents...)
	if r.InterviewScheduledDate != nil {
		t := *r.InterviewScheduledDate
		out.InterviewScheduledDate = &t
	}
	if r.SubmittedAt != nil {
		t := *r.SubmittedAt
		out.SubmittedAt = &t
	}
	if r.ReviewedAt != nil {
		t := *r.ReviewedAt
		out.ReviewedAt = &t
	}
	return out
}

// MergeOverDefaults fills in the holes an older, partial stored draft may
// have: optional fields added to the shape after the draft was written come
// back as their defaults instead of clobbering the shape. With typed structs
// the zero values already are the defaults, so only nil slices need repair.
func (r Record) MergeOverDefaults() Record {
	out := r.Clone()
	if out.Education == nil {
		out.Education = []Education{}
	}
	if out.Licenses == nil {
		out.Licenses = []License{}
	}
	if out.Employment == nil {
		out.Employment = []Employment{}
	}
	if out.Documents == nil {
		out.Documents = []Document{}
	}
	return out
}
