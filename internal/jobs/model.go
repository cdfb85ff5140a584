package jobs

import "time"

// Status is the lifecycle state of a posting. Only active postings accept
// applications.
type Status string

const (
	StatusActive Status = "active"
	StatusClosed Status = "closed"
	StatusDraft  Status = "draft"
)

// ValidStatus reports whether s is a known posting status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusActive, StatusClosed, StatusDraft:
		return true
	}
	return false
}

// Salary is the advertised compensation range. Min and Max are nil when the
// posting does not disclose them.
type Salary struct {
	Min      *int   `json:"min"`
	Max      *int   `json:"max"`
	Currency string `json:"currency"`
	Period   string `json:"period"`
}

// Posting is a published job opening.
type Posting struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Department        string     `json:"department"`
	Location          string     `json:"location"`
	Type              string     `json:"type"`
	Description       string     `json:"description"`
	Requirements      []string   `json:"requirements"`
	Responsibilities  []string   `json:"responsibilities"`
	Benefits          []string   `json:"benefits"`
	Salary            Salary     `json:"salary"`
	Status            Status     `json:"status"`
	PostedBy          string     `json:"postedBy"`
	PostedAt          time.Time  `json:"postedAt"`
	ClosedAt          *time.Time `json:"closedAt,omitempty"`
	ApplicationsCount int        `json:"applicationsCount"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}
