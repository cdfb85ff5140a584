package applications

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"careers-backend/internal/jobs"
	"careers-backend/internal/shared/metrics"
	"careers-backend/internal/shared/storage/object"
	"careers-backend/internal/shared/telemetry"
)

// JobDirectory is what the lifecycle needs from the postings side: the title
// to denormalize onto a new draft, the open-for-applications check, and a
// submission counter bump.
type JobDirectory interface {
	Title(ctx context.Context, jobID string) (string, error)
	EnsureAccepting(ctx context.Context, jobID string) error
	RecordSubmission(ctx context.Context, jobID string) error
}

// Service owns the application record lifecycle: draft resolution, saves,
// document staging and the single-shot submission transition.
type Service struct {
	Repo   Repo
	Jobs   JobDirectory
	Store  object.ObjectStore
	Stager *Stager

	// ExtractPreview, when set, turns committed PDF resume bytes into a
	// reviewer-readable text preview. Failures never block a commit.
	ExtractPreview func(data []byte, mimeType string) (string, error)

	// ExtractStoredPreview does the same for a resume whose bytes were
	// uploaded straight to the object store.
	ExtractStoredPreview func(ctx context.Context, storageKey, mimeType string) (string, error)

	mu         sync.Mutex
	submitting map[string]struct{}
}

// NewService constructs a Service.
func NewService(repo Repo, jobs JobDirectory, store object.ObjectStore) *Service {
	return &Service{
		Repo:       repo,
		Jobs:       jobs,
		Store:      store,
		Stager:     NewStager(),
		submitting: make(map[string]struct{}),
	}
}

// Resolution is the outcome of opening the wizard for a (job, applicant)
// pair. ExistingStatus is set when a post-submission record already exists;
// the caller must redirect instead of presenting a form.
type Resolution struct {
	Record         Record
	ExistingStatus Status
}

// ResolveDraft finds the editable record for a (job, applicant) pair. An
// existing draft is loaded over the default shape; with no record at all a
// fresh unpersisted draft comes back, its id assigned on first save, so an
// abandoned session leaves no orphan row.
func (s *Service) ResolveDraft(ctx context.Context, jobID, applicantID string) (Resolution, error) {
	active, err := s.Repo.FindActive(ctx, jobID, applicantID)
	if err == nil {
		return Resolution{ExistingStatus: active.Status}, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Resolution{}, err
	}

	draft, err := s.Repo.FindDraft(ctx, jobID, applicantID)
	if err == nil {
		return Resolution{Record: draft.MergeOverDefaults()}, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Resolution{}, err
	}

	rec := NewRecord(jobID, s.jobTitle(ctx, jobID), applicantID)
	return Resolution{Record: rec}, nil
}

// SaveProgress persists the draft, creating the row on the first save. The
// record stays a draft; identity and reviewer-owned fields are preserved
// from the stored copy rather than trusted from the caller.
func (s *Service) SaveProgress(ctx context.Context, rec Record) (Record, error) {
	return s.persistDraft(ctx, rec)
}

// SaveAndExit is SaveProgress; walking away afterwards is the caller's
// concern. It exists so both explicit wizard actions name their intent.
func (s *Service) SaveAndExit(ctx context.Context, rec Record) (Record, error) {
	return s.persistDraft(ctx, rec)
}

// GotoStep moves the wizard pointer, clamped to the valid range. It never
// validates or discards collected state and performs no store operation.
func (s *Service) GotoStep(rec Record, step int) Record {
	out := rec
	out.CurrentStep = ClampStep(step)
	return out
}

// Submit performs the single-shot draft -> submitted transition. The
// re-entrancy lock for the (job, applicant) pair is taken synchronously
// before any store round-trip and released only on failure: a successful
// submission makes the record permanently non-draft, so later calls staying
// locked out is the intended behavior.
func (s *Service) Submit(ctx context.Context, rec Record) (Record, error) {
	if verr := validateForSubmission(rec); verr != nil {
		return Record{}, verr
	}
	if err := s.ensurePostingOpen(ctx, rec.JobID); err != nil {
		return Record{}, err
	}

	key := rec.JobID + "|" + rec.ApplicantID
	s.mu.Lock()
	if _, inflight := s.submitting[key]; inflight {
		s.mu.Unlock()
		return Record{}, ErrSubmitInFlight
	}
	s.submitting[key] = struct{}{}
	s.mu.Unlock()

	metrics.IncSubmissionStarted()
	started := time.Now()

	out, err := s.submitLocked(ctx, rec)
	if err != nil {
		metrics.IncSubmissionFailed()
		s.mu.Lock()
		delete(s.submitting, key)
		s.mu.Unlock()
		return Record{}, err
	}
	metrics.IncSubmissionCompleted()
	metrics.ObserveSubmissionDurationMs(float64(time.Since(started)) / float64(time.Millisecond))
	return out, nil
}

// ensurePostingOpen rejects submissions against postings that stopped
// accepting applications. Lookup failures are tolerated the same way title
// denormalization is: a broken postings side must not take submissions down.
func (s *Service) ensurePostingOpen(ctx context.Context, jobID string) error {
	if s.Jobs == nil {
		return nil
	}
	err := s.Jobs.EnsureAccepting(ctx, jobID)
	if err == nil {
		return nil
	}
	if errors.Is(err, jobs.ErrNotActive) {
		return ErrJobClosed
	}
	telemetry.Error("application.posting_check_failed", map[string]any{
		"job_id": jobID,
		"err":    err.Error(),
	})
	return nil
}

func (s *Service) submitLocked(ctx context.Context, rec Record) (Record, error) {
	now := time.Now().UTC()
	creating := false

	if rec.ID == "" {
		if _, err := s.Repo.FindActive(ctx, rec.JobID, rec.ApplicantID); err == nil {
			return Record{}, ErrAlreadyApplied
		} else if !errors.Is(err, ErrNotFound) {
			return Record{}, err
		}
		// A draft saved from another tab keeps its identity.
		if draft, err := s.Repo.FindDraft(ctx, rec.JobID, rec.ApplicantID); err == nil {
			rec.ID = draft.ID
			rec.CreatedAt = draft.CreatedAt
			rec.Documents = draft.Documents
		} else if errors.Is(err, ErrNotFound) {
			rec.ID = uuid.NewString()
			rec.CreatedAt = now
			rec.Documents = []Document{}
			creating = true
		} else {
			return Record{}, err
		}
	} else {
		stored, err := s.Repo.GetByID(ctx, rec.ID)
		if err != nil {
			return Record{}, err
		}
		if stored.ApplicantID != rec.ApplicantID {
			return Record{}, ErrNotOwner
		}
		if stored.Status != StatusDraft {
			return Record{}, ErrAlreadyApplied
		}
		rec.JobID = stored.JobID
		rec.JobTitle = stored.JobTitle
		rec.CreatedAt = stored.CreatedAt
		rec.Documents = stored.Documents
	}

	if rec.JobTitle == "" {
		rec.JobTitle = s.jobTitle(ctx, rec.JobID)
	}
	rec.Status = StatusSubmitted
	rec.SubmittedAt = &now
	rec.UpdatedAt = now
	rec.CurrentStep = ClampStep(rec.CurrentStep)

	var err error
	if creating {
		// First persistence of a lazily created draft: the full record goes
		// out, not just a status delta.
		err = s.Repo.Create(ctx, rec)
	} else {
		err = s.Repo.Update(ctx, rec)
	}
	if err != nil {
		return Record{}, err
	}

	if s.Jobs != nil {
		if err := s.Jobs.RecordSubmission(ctx, rec.JobID); err != nil {
			telemetry.Error("application.submission_count_failed", map[string]any{
				"job_id": rec.JobID,
				"err":    err.Error(),
			})
		}
	}
	return rec, nil
}

// StageDocument validates and holds a candidate file pending a display name
// and classification.
func (s *Service) StageDocument(fileName, mimeType string, declaredSize int64, r io.Reader) (StagedFile, error) {
	staged, err := s.Stager.Stage(fileName, mimeType, declaredSize, r)
	if err != nil {
		return StagedFile{}, err
	}
	metrics.IncDocumentStaged()
	return staged, nil
}

// CancelStaged clears a staged file before any store call begins.
func (s *Service) CancelStaged(stagedID string) {
	s.Stager.Discard(stagedID)
}

// CommitDocument turns a staged file into an inline document descriptor,
// appends it and write-through persists the record: a multi-hundred-KB
// payload should not be lost to an abandoned session. The staged file is
// cleared only on success, so a failed persist can be retried.
func (s *Service) CommitDocument(ctx context.Context, rec Record, stagedID, displayName string, docType DocumentType) (Record, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return Record{}, &ValidationError{Missing: []string{"displayName"}}
	}
	if !ValidDocumentType(docType) {
		return Record{}, ErrInvalidDocumentType
	}
	staged, err := s.Stager.Get(stagedID)
	if err != nil {
		return Record{}, err
	}

	desc := Document{
		DisplayName:      displayName,
		DocumentType:     docType,
		OriginalFileName: staged.FileName,
		MimeType:         staged.MimeType,
		SizeBytes:        staged.SizeBytes,
		EncodedContent:   staged.DataURI(),
		UploadedAt:       time.Now().UTC(),
	}
	if docType == DocTypeResume && staged.MimeType == "application/pdf" && s.ExtractPreview != nil {
		if preview, err := s.ExtractPreview(staged.Bytes(), staged.MimeType); err == nil {
			desc.TextPreview = preview
		} else {
			telemetry.Error("document.preview_failed", map[string]any{
				"file": staged.FileName,
				"err":  err.Error(),
			})
		}
	}

	saved, err := s.appendDocument(ctx, rec, desc)
	if err != nil {
		return Record{}, err
	}
	s.Stager.Discard(stagedID)
	return saved, nil
}

// RegisterExternalDocument appends a descriptor whose bytes live in the
// object store (the presigned-upload path) and persists the record. It is
// the mutually exclusive alternative to inline encoding.
func (s *Service) RegisterExternalDocument(ctx context.Context, rec Record, storageKey, displayName string, docType DocumentType, originalFileName, mimeType string, sizeBytes int64) (Record, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return Record{}, &ValidationError{Missing: []string{"displayName"}}
	}
	if strings.TrimSpace(storageKey) == "" {
		return Record{}, &ValidationError{Missing: []string{"storageKey"}}
	}
	if !ValidDocumentType(docType) {
		return Record{}, ErrInvalidDocumentType
	}

	desc := Document{
		DisplayName:      displayName,
		DocumentType:     docType,
		OriginalFileName: originalFileName,
		MimeType:         mimeType,
		SizeBytes:        sizeBytes,
		StorageKey:       storageKey,
		UploadedAt:       time.Now().UTC(),
	}
	if docType == DocTypeResume && strings.EqualFold(mimeType, "application/pdf") && s.ExtractStoredPreview != nil {
		if preview, err := s.ExtractStoredPreview(ctx, storageKey, mimeType); err == nil {
			desc.TextPreview = preview
		} else {
			telemetry.Error("document.preview_failed", map[string]any{
				"storage_key": storageKey,
				"err":         err.Error(),
			})
		}
	}
	return s.appendDocument(ctx, rec, desc)
}

// RemoveDocument drops the descriptor at index, persists the shortened list
// and then best-effort deletes externally stored bytes; the object may
// already be gone, and that must never block the list update.
func (s *Service) RemoveDocument(ctx context.Context, rec Record, index int) (Record, error) {
	base, err := s.persistDraft(ctx, rec)
	if err != nil {
		return Record{}, err
	}
	if index < 0 || index >= len(base.Documents) {
		return Record{}, ErrIndexOutOfRange
	}
	removed := base.Documents[index]

	base.Documents = append(append([]Document(nil), base.Documents[:index]...), base.Documents[index+1:]...)
	base.UpdatedAt = time.Now().UTC()
	if err := s.Repo.Update(ctx, base); err != nil {
		return Record{}, err
	}

	if removed.StorageKey != "" && s.Store != nil {
		if err := s.Store.Delete(ctx, removed.StorageKey); err != nil {
			telemetry.Error("document.external_delete_failed", map[string]any{
				"storage_key": removed.StorageKey,
				"err":         err.Error(),
			})
		}
	}
	return base, nil
}

// appendDocument persists the session's draft state first, then write-through
// persists the grown documents array. Documents are server-owned: a plain
// save never rewrites them, only commit/register/remove do.
func (s *Service) appendDocument(ctx context.Context, rec Record, desc Document) (Record, error) {
	base, err := s.persistDraft(ctx, rec)
	if err != nil {
		return Record{}, err
	}
	base.Documents = append(append([]Document(nil), base.Documents...), desc)
	base.UpdatedAt = time.Now().UTC()
	if err := s.Repo.Update(ctx, base); err != nil {
		return Record{}, err
	}
	return base, nil
}

// ListMine returns the applicant's records, newest first.
func (s *Service) ListMine(ctx context.Context, applicantID string) ([]Record, error) {
	return s.Repo.ListByApplicant(ctx, applicantID)
}

// GetOwned returns a record if the applicant owns it.
func (s *Service) GetOwned(ctx context.Context, id, applicantID string) (Record, error) {
	rec, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Record{}, err
	}
	if rec.ApplicantID != applicantID {
		return Record{}, ErrNotOwner
	}
	return rec, nil
}

// DocumentContent returns the raw bytes of one attached document for the
// owning applicant.
func (s *Service) DocumentContent(ctx context.Context, id, applicantID string, index int) ([]byte, Document, error) {
	rec, err := s.GetOwned(ctx, id, applicantID)
	if err != nil {
		return nil, Document{}, err
	}
	return DocumentBytes(ctx, s.Store, rec, index)
}

// DocumentBytes resolves one attached document to its raw bytes, decoding
// inline content or streaming from the object store as needed.
func DocumentBytes(ctx context.Context, store object.ObjectStore, rec Record, index int) ([]byte, Document, error) {
	if index < 0 || index >= len(rec.Documents) {
		return nil, Document{}, ErrIndexOutOfRange
	}
	doc := rec.Documents[index]
	if doc.Inline() {
		data, err := doc.Decode()
		if err != nil {
			return nil, Document{}, fmt.Errorf("decode document: %w", err)
		}
		return data, doc, nil
	}
	if doc.StorageKey == "" || store == nil {
		return nil, Document{}, ErrNotFound
	}
	rc, err := store.Open(ctx, doc.StorageKey)
	if err != nil {
		return nil, Document{}, fmt.Errorf("open document: %w", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, Document{}, fmt.Errorf("read document: %w", err)
	}
	return data, doc, nil
}

// DeleteDraft removes the applicant's own record while it is still a draft.
func (s *Service) DeleteDraft(ctx context.Context, id, applicantID string) error {
	rec, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rec.ApplicantID != applicantID {
		return ErrNotOwner
	}
	if rec.Status != StatusDraft {
		return ErrNotDraft
	}
	return s.Repo.Delete(ctx, id)
}

func (s *Service) persistDraft(ctx context.Context, rec Record) (Record, error) {
	if rec.ApplicantID == "" || rec.JobID == "" {
		return Record{}, &ValidationError{Missing: []string{"jobId", "applicantId"}}
	}
	now := time.Now().UTC()
	rec.Status = StatusDraft
	rec.SubmittedAt = nil
	rec.CurrentStep = ClampStep(rec.CurrentStep)
	rec.UpdatedAt = now

	if rec.ID != "" {
		stored, err := s.Repo.GetByID(ctx, rec.ID)
		if err != nil {
			return Record{}, err
		}
		if stored.ApplicantID != rec.ApplicantID {
			return Record{}, ErrNotOwner
		}
		if stored.Status != StatusDraft {
			return Record{}, ErrNotDraft
		}
		rec.JobID = stored.JobID
		rec.JobTitle = stored.JobTitle
		rec.CreatedAt = stored.CreatedAt
		rec.Documents = stored.Documents
		rec.AdminNotes = stored.AdminNotes
		rec.InterviewScheduledDate = stored.InterviewScheduledDate
		rec.ReviewedAt = stored.ReviewedAt
		rec.ReviewedBy = stored.ReviewedBy
		if err := s.Repo.Update(ctx, rec); err != nil {
			return Record{}, err
		}
		return rec, nil
	}

	if _, err := s.Repo.FindActive(ctx, rec.JobID, rec.ApplicantID); err == nil {
		return Record{}, ErrAlreadyApplied
	} else if !errors.Is(err, ErrNotFound) {
		return Record{}, err
	}
	// A concurrent tab may have created the draft already; adopt it so the
	// pair never carries two drafts.
	if draft, err := s.Repo.FindDraft(ctx, rec.JobID, rec.ApplicantID); err == nil {
		rec.ID = draft.ID
		rec.CreatedAt = draft.CreatedAt
		rec.JobTitle = draft.JobTitle
		rec.Documents = draft.Documents
		if err := s.Repo.Update(ctx, rec); err != nil {
			return Record{}, err
		}
		return rec, nil
	} else if !errors.Is(err, ErrNotFound) {
		return Record{}, err
	}

	rec.ID = uuid.NewString()
	rec.CreatedAt = now
	// Inline-encoded content only ever enters through the staging pipeline.
	rec.Documents = []Document{}
	if rec.JobTitle == "" {
		rec.JobTitle = s.jobTitle(ctx, rec.JobID)
	}
	if err := s.Repo.Create(ctx, rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *Service) jobTitle(ctx context.Context, jobID string) string {
	if s.Jobs == nil {
		return ""
	}
	title, err := s.Jobs.Title(ctx, jobID)
	if err != nil {
		return ""
	}
	return title
}

func validateForSubmission(rec Record) *ValidationError {
	var missing []string
	check := func(field, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}
	check("personal.firstName", rec.Personal.FirstName)
	check("personal.lastName", rec.Personal.LastName)
	check("personal.email", rec.Personal.Email)
	check("personal.phone", rec.Personal.Phone)
	check("emergency.primary.name", rec.Emergency.Primary.Name)
	check("emergency.primary.relationship", rec.Emergency.Primary.Relationship)
	check("emergency.primary.phone", rec.Emergency.Primary.Phone)
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}
