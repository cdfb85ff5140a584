package applications_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"careers-backend/internal/bootstrap"
	"careers-backend/internal/shared/config"
)

func newTestApp(t *testing.T) *bootstrap.App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Port:            "0",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		LocalStoreDir:   t.TempDir(),
		Env:             "dev",
		ObjectStoreType: "local",
	}

	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app
}

func addGuestHeader(req *http.Request) {
	req.Header.Set("X-Guest-Id", "test-guest")
}

func doJSON(t *testing.T, router http.Handler, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		body = bytes.NewBuffer(raw)
	} else {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestApplicationLifecycle(t *testing.T) {
	app := newTestApp(t)
	router := app.Router

	// Opening the wizard for the first time yields an unpersisted draft.
	resp := doJSON(t, router, http.MethodGet, "/api/v1/jobs/job-1/application", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("resolve: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var resolved struct {
		AlreadyApplied bool `json:"alreadyApplied"`
		Record         struct {
			ID string `json:"id"`
		} `json:"record"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&resolved); err != nil {
		t.Fatalf("decode resolve: %v", err)
	}
	if resolved.AlreadyApplied {
		t.Fatal("fresh pair reported as already applied")
	}
	if resolved.Record.ID != "" {
		t.Fatalf("fresh draft should be unpersisted, got id %q", resolved.Record.ID)
	}

	// First save assigns identity.
	record := map[string]any{
		"personal": map[string]any{
			"firstName": "Ann",
			"lastName":  "Lee",
			"email":     "ann@example.com",
			"phone":     "208-555-0100",
			"ssn":       "123-45-6789",
		},
		"emergency": map[string]any{
			"primary": map[string]any{
				"name":         "Bob Lee",
				"relationship": "spouse",
				"phone":        "208-555-0101",
			},
		},
	}
	resp = doJSON(t, router, http.MethodPut, "/api/v1/jobs/job-1/application", map[string]any{"record": record})
	if resp.Code != http.StatusOK {
		t.Fatalf("save: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var saved struct {
		ID       string `json:"id"`
		Status   string `json:"status"`
		Personal struct {
			SSN string `json:"ssn"`
		} `json:"personal"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&saved); err != nil {
		t.Fatalf("decode save: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("save did not assign an id")
	}
	if saved.Status != "draft" {
		t.Fatalf("expected draft, got %s", saved.Status)
	}
	if saved.Personal.SSN != "***-**-6789" {
		t.Fatalf("ssn not masked in response: %q", saved.Personal.SSN)
	}

	record["id"] = saved.ID

	// Submit.
	resp = doJSON(t, router, http.MethodPost, "/api/v1/jobs/job-1/application/submit", map[string]any{"record": record})
	if resp.Code != http.StatusOK {
		t.Fatalf("submit: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var submitted struct {
		ID          string  `json:"id"`
		Status      string  `json:"status"`
		SubmittedAt *string `json:"submittedAt"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&submitted); err != nil {
		t.Fatalf("decode submit: %v", err)
	}
	if submitted.Status != "submitted" {
		t.Fatalf("expected submitted, got %s", submitted.Status)
	}
	if submitted.SubmittedAt == nil {
		t.Fatal("submittedAt missing")
	}
	if submitted.ID != saved.ID {
		t.Fatalf("identity changed on submit: %q vs %q", submitted.ID, saved.ID)
	}

	// A repeat submit for the pair is locked out.
	resp = doJSON(t, router, http.MethodPost, "/api/v1/jobs/job-1/application/submit", map[string]any{"record": record})
	if resp.Code != http.StatusConflict {
		t.Fatalf("repeat submit: expected 409, got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if envelope.Error.Code != "SUBMIT_IN_FLIGHT" {
		t.Fatalf("expected SUBMIT_IN_FLIGHT, got %s", envelope.Error.Code)
	}

	// Re-opening the wizard redirects instead of offering a form.
	resp = doJSON(t, router, http.MethodGet, "/api/v1/jobs/job-1/application", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("re-resolve: expected 200, got %d", resp.Code)
	}
	var again struct {
		AlreadyApplied bool   `json:"alreadyApplied"`
		Status         string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&again); err != nil {
		t.Fatalf("decode re-resolve: %v", err)
	}
	if !again.AlreadyApplied || again.Status != "submitted" {
		t.Fatalf("expected submitted redirect, got %+v", again)
	}

	// The record shows up in the applicant's listing.
	resp = doJSON(t, router, http.MethodGet, "/api/v1/applications/mine", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("mine: expected 200, got %d", resp.Code)
	}
	var mine []struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&mine); err != nil {
		t.Fatalf("decode mine: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != saved.ID || mine[0].Status != "submitted" {
		t.Fatalf("unexpected listing: %+v", mine)
	}
}

func TestSubmitValidationEnvelope(t *testing.T) {
	app := newTestApp(t)

	record := map[string]any{
		"personal": map[string]any{"firstName": "Ann"},
	}
	resp := doJSON(t, app.Router, http.MethodPost, "/api/v1/jobs/job-1/application/submit", map[string]any{"record": record})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Details struct {
				Missing []string `json:"missing"`
			} `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("expected VALIDATION_ERROR, got %s", envelope.Error.Code)
	}
	if len(envelope.Error.Details.Missing) == 0 {
		t.Fatal("missing field list empty")
	}
}

func stageFile(t *testing.T, router http.Handler, fileName, contentType, content string) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/job-1/application/documents/stage", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestDocumentStagingAndCommit(t *testing.T) {
	app := newTestApp(t)
	router := app.Router

	// Unsupported types bounce before staging.
	resp := stageFile(t, router, "notes.txt", "text/plain", "plain text")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("text file: expected 400, got %d: %s", resp.Code, resp.Body.String())
	}

	resp = stageFile(t, router, "resume.pdf", "application/pdf", "%PDF-1.4\nfake body")
	if resp.Code != http.StatusCreated {
		t.Fatalf("stage: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var staged struct {
		ID       string `json:"stagedFileId"`
		FileName string `json:"fileName"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&staged); err != nil {
		t.Fatalf("decode staged: %v", err)
	}
	if staged.ID == "" {
		t.Fatal("staged id missing")
	}

	// Committing requires a classification.
	commit := map[string]any{
		"record":       map[string]any{},
		"stagedFileId": staged.ID,
		"displayName":  "My Resume",
		"documentType": "resume",
	}
	resp = doJSON(t, router, http.MethodPost, "/api/v1/jobs/job-1/application/documents", commit)
	if resp.Code != http.StatusCreated {
		t.Fatalf("commit: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var committed struct {
		ID        string `json:"id"`
		Documents []struct {
			Index        int    `json:"index"`
			DisplayName  string `json:"displayName"`
			DocumentType string `json:"documentType"`
			Inline       bool   `json:"inline"`
		} `json:"documents"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&committed); err != nil {
		t.Fatalf("decode commit: %v", err)
	}
	if len(committed.Documents) != 1 {
		t.Fatalf("expected 1 document, got %d", len(committed.Documents))
	}
	doc := committed.Documents[0]
	if doc.DisplayName != "My Resume" || doc.DocumentType != "resume" || !doc.Inline {
		t.Fatalf("unexpected descriptor: %+v", doc)
	}

	// The committed bytes come back through the content endpoint.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/applications/"+committed.ID+"/documents/0/content", nil)
	addGuestHeader(req)
	content := httptest.NewRecorder()
	router.ServeHTTP(content, req)
	if content.Code != http.StatusOK {
		t.Fatalf("content: expected 200, got %d: %s", content.Code, content.Body.String())
	}
	if !strings.HasPrefix(content.Body.String(), "%PDF-1.4") {
		t.Fatalf("content bytes mangled: %q", content.Body.String())
	}
	if got := content.Header().Get("Content-Disposition"); !strings.Contains(got, "resume.pdf") {
		t.Fatalf("content disposition missing file name: %q", got)
	}

	// The staged copy is gone once committed.
	resp = doJSON(t, router, http.MethodPost, "/api/v1/jobs/job-1/application/documents", commit)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("recommit: expected 404, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestFieldAndSectionEndpoints(t *testing.T) {
	app := newTestApp(t)
	router := app.Router

	// A scalar edit echoes the changed record without persisting.
	resp := doJSON(t, router, http.MethodPost, "/api/v1/jobs/job-1/application/field", map[string]any{
		"record": map[string]any{},
		"path":   "personal.firstName",
		"value":  "Ann",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("field: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var edited struct {
		Personal struct {
			FirstName string `json:"firstName"`
		} `json:"personal"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&edited); err != nil {
		t.Fatalf("decode field: %v", err)
	}
	if edited.Personal.FirstName != "Ann" {
		t.Fatalf("edit not applied: %+v", edited)
	}

	// Unknown paths are rejected.
	resp = doJSON(t, router, http.MethodPost, "/api/v1/jobs/job-1/application/field", map[string]any{
		"record": map[string]any{},
		"path":   "documents.0.displayName",
		"value":  "x",
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("bad path: expected 400, got %d", resp.Code)
	}

	// Section list ops.
	resp = doJSON(t, router, http.MethodPost, "/api/v1/jobs/job-1/application/sections", map[string]any{
		"record":  map[string]any{},
		"section": "education",
		"op":      "add",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("section add: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var grown struct {
		Education []map[string]any `json:"education"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&grown); err != nil {
		t.Fatalf("decode section: %v", err)
	}
	if len(grown.Education) != 1 {
		t.Fatalf("expected 1 education entry, got %d", len(grown.Education))
	}

	resp = doJSON(t, router, http.MethodPost, "/api/v1/jobs/job-1/application/sections", map[string]any{
		"record":  map[string]any{},
		"section": "education",
		"op":      "remove",
		"index":   3,
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("bad index: expected 400, got %d", resp.Code)
	}
}
