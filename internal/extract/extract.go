package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"careers-backend/internal/shared/storage/object"
)

const mimePDF = "application/pdf"

// PreviewLimit caps stored text previews. Reviewers skim these in the list
// view; the full document stays downloadable.
const PreviewLimit = 4000

// ExtractText pulls text from a stored PDF and persists a derived
// .extracted.txt copy next to it.
func ExtractText(ctx context.Context, store object.ObjectStore, fileKey string, mimeType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	body, err := store.Open(ctx, fileKey)
	if err != nil {
		return "", fmt.Errorf("extract text key=%s mime=%s: %w", fileKey, mimeType, err)
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("extract text key=%s mime=%s: read: %w", fileKey, mimeType, err)
	}

	text, err := TextFromBytes(raw, mimeType)
	if err != nil {
		return "", fmt.Errorf("extract text key=%s mime=%s: %w", fileKey, mimeType, err)
	}

	extractedKey := fileKey + ".extracted.txt"
	if err := saveExtracted(ctx, store, extractedKey, text); err != nil {
		return "", fmt.Errorf("extract text key=%s mime=%s: %w", fileKey, mimeType, err)
	}

	return text, nil
}

// TextFromBytes extracts text from an in-memory PDF payload.
func TextFromBytes(data []byte, mimeType string) (string, error) {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	if clean != mimePDF {
		return "", fmt.Errorf("unsupported mime type: %s", clean)
	}
	return extractPDF(data)
}

// Preview extracts text and truncates it to PreviewLimit runes.
func Preview(data []byte, mimeType string) (string, error) {
	text, err := TextFromBytes(data, mimeType)
	if err != nil {
		return "", err
	}
	return truncate(text), nil
}

// PreviewStored is Preview for a PDF that lives in the object store. The
// full extracted text is persisted next to the source object; only the
// truncated preview comes back.
func PreviewStored(ctx context.Context, store object.ObjectStore, fileKey, mimeType string) (string, error) {
	text, err := ExtractText(ctx, store, fileKey, mimeType)
	if err != nil {
		return "", err
	}
	return truncate(text), nil
}

func truncate(text string) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) > PreviewLimit {
		return string(runes[:PreviewLimit])
	}
	return text
}

type keySaver interface {
	SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
}

func saveExtracted(ctx context.Context, store object.ObjectStore, key string, text string) error {
	saver, ok := store.(keySaver)
	if !ok {
		return errors.New("object store does not support SaveWithKey")
	}
	reader := strings.NewReader(text)
	_, err := saver.SaveWithKey(ctx, key, "text/plain; charset=utf-8", reader)
	return err
}

func extractPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}
