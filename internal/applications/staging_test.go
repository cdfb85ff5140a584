package applications

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestStageRejectsSizeBeforeType(t *testing.T) {
	s := NewStager()

	// Oversized and wrong type at once: size wins.
	_, err := s.Stage("huge.exe", "application/octet-stream", MaxDocumentBytes+1, bytes.NewReader(nil))
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge first, got %v", err)
	}
}

func TestStageRejectsUnsupportedType(t *testing.T) {
	s := NewStager()
	_, err := s.Stage("notes.txt", "text/plain", 10, strings.NewReader("0123456789"))
	if !errors.Is(err, ErrUnsupportedFileType) {
		t.Fatalf("expected ErrUnsupportedFileType, got %v", err)
	}
}

func TestStageDistrustsDeclaredSize(t *testing.T) {
	s := NewStager()
	// Declared small, actually over the cap.
	big := bytes.Repeat([]byte("x"), MaxDocumentBytes+1)
	_, err := s.Stage("big.pdf", "application/pdf", 100, bytes.NewReader(big))
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge for oversized body, got %v", err)
	}
}

func TestStageAndDataURI(t *testing.T) {
	s := NewStager()
	staged, err := s.Stage("dir/Resume Final.PDF", "Application/PDF", 9, strings.NewReader("%PDF-1.4\n"))
	if err != nil {
		t.Fatalf("stage: %v", err)
	}
	if staged.ID == "" {
		t.Fatal("expected staged id")
	}
	if staged.FileName != "Resume Final.PDF" {
		t.Fatalf("expected base file name, got %q", staged.FileName)
	}
	if staged.SuggestedName != "Resume Final" {
		t.Fatalf("expected extension stripped, got %q", staged.SuggestedName)
	}
	if staged.MimeType != "application/pdf" {
		t.Fatalf("expected normalized mime, got %q", staged.MimeType)
	}
	if staged.SizeBytes != 9 {
		t.Fatalf("expected actual byte count, got %d", staged.SizeBytes)
	}

	uri := staged.DataURI()
	if !strings.HasPrefix(uri, "data:application/pdf;base64,") {
		t.Fatalf("unexpected data uri prefix: %q", uri)
	}

	got, err := s.Get(staged.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got.Bytes()) != "%PDF-1.4\n" {
		t.Fatalf("staged bytes mismatch: %q", got.Bytes())
	}

	s.Discard(staged.ID)
	if _, err := s.Get(staged.ID); !errors.Is(err, ErrStagedFileNotFound) {
		t.Fatalf("expected ErrStagedFileNotFound after discard, got %v", err)
	}
}

func TestInlineDocumentDecode(t *testing.T) {
	s := NewStager()
	staged, err := s.Stage("scan.png", "image/png", 4, strings.NewReader("PNG!"))
	if err != nil {
		t.Fatalf("stage: %v", err)
	}
	doc := Document{EncodedContent: staged.DataURI()}
	data, err := doc.Decode()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(data) != "PNG!" {
		t.Fatalf("roundtrip mismatch: %q", data)
	}
}
