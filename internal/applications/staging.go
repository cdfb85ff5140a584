package applications

import (
	"encoding/base64"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MaxDocumentBytes is the staging size cap.
const MaxDocumentBytes = 5 << 20 // 5 MiB

var allowedMimeTypes = map[string]struct{}{
	"application/pdf": {},
	"image/jpeg":      {},
	"image/jpg":       {},
	"image/png":       {},
}

// StagedFile is a validated file held server-side, not yet part of any
// record. It disappears on commit or cancel.
type StagedFile struct {
	ID            string    `json:"stagedFileId"`
	FileName      string    `json:"fileName"`
	SuggestedName string    `json:"suggestedName"`
	MimeType      string    `json:"mimeType"`
	SizeBytes     int64     `json:"sizeBytes"`
	StagedAt      time.Time `json:"stagedAt"`

	data []byte
}

// Stager holds staged files pending a display name and classification.
type Stager struct {
	mu     sync.Mutex
	staged map[string]StagedFile
}

// NewStager constructs a Stager.
func NewStager() *Stager {
	return &Stager{staged: make(map[string]StagedFile)}
}

// Stage validates a candidate file and holds its bytes. Size is rejected
// before type, matching the order users see the errors in.
func (s *Stager) Stage(fileName, mimeType string, declaredSize int64, r io.Reader) (StagedFile, error) {
	if declaredSize > MaxDocumentBytes {
		return StagedFile{}, ErrFileTooLarge
	}
	normalized := strings.ToLower(strings.TrimSpace(mimeType))
	if _, ok := allowedMimeTypes[normalized]; !ok {
		return StagedFile{}, ErrUnsupportedFileType
	}

	// The declared size is client-supplied; trust the bytes instead.
	data, err := io.ReadAll(io.LimitReader(r, MaxDocumentBytes+1))
	if err != nil {
		return StagedFile{}, fmt.Errorf("read staged file: %w", err)
	}
	if int64(len(data)) > MaxDocumentBytes {
		return StagedFile{}, ErrFileTooLarge
	}

	base := filepath.Base(fileName)
	staged := StagedFile{
		ID:            uuid.NewString(),
		FileName:      base,
		SuggestedName: strings.TrimSuffix(base, filepath.Ext(base)),
		MimeType:      normalized,
		SizeBytes:     int64(len(data)),
		StagedAt:      time.Now().UTC(),
		data:          data,
	}

	s.mu.Lock()
	s.staged[staged.ID] = staged
	s.mu.Unlock()
	return staged, nil
}

// Get returns a staged file without consuming it.
func (s *Stager) Get(id string) (StagedFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	staged, ok := s.staged[id]
	if !ok {
		return StagedFile{}, ErrStagedFileNotFound
	}
	return staged, nil
}

// Discard removes a staged file. It is used both by explicit cancel and by
// a successful commit.
func (s *Stager) Discard(id string) {
	s.mu.Lock()
	delete(s.staged, id)
	s.mu.Unlock()
}

// DataURI encodes the staged bytes into the transportable text form stored
// inline on the record.
func (f StagedFile) DataURI() string {
	return fmt.Sprintf("data:%s;base64,%s", f.MimeType, base64.StdEncoding.EncodeToString(f.data))
}

// Bytes returns the staged raw bytes.
func (f StagedFile) Bytes() []byte { return f.data }
