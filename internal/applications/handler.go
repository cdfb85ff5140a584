package applications

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"careers-backend/internal/shared/server/middleware"
	"careers-backend/internal/shared/server/respond"
)

// maxStageBody leaves headroom over the document cap for multipart framing.
const maxStageBody = MaxDocumentBytes + 1<<20

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches application routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/jobs/:jobId/application", h.resolve)
	rg.PUT("/jobs/:jobId/application", h.save)
	rg.POST("/jobs/:jobId/application/step", h.step)
	rg.POST("/jobs/:jobId/application/field", h.field)
	rg.POST("/jobs/:jobId/application/sections", h.section)
	rg.POST("/jobs/:jobId/application/submit", h.submit)
	rg.POST("/jobs/:jobId/application/documents/stage", h.stage)
	rg.DELETE("/jobs/:jobId/application/documents/staged/:stagedId", h.cancelStaged)
	rg.POST("/jobs/:jobId/application/documents", h.commitDocument)
	rg.POST("/jobs/:jobId/application/documents/external", h.registerExternal)
	rg.POST("/jobs/:jobId/application/documents/remove", h.removeDocument)

	rg.GET("/applications/mine", h.listMine)
	rg.GET("/applications/:id", h.get)
	rg.GET("/applications/:id/documents/:index/content", h.documentContent)
	rg.DELETE("/applications/:id", h.deleteDraft)
}

func (h *Handler) resolve(c *gin.Context) {
	applicantID := middleware.UserIDFromContext(c)
	jobID := c.Param("jobId")

	res, err := h.Svc.ResolveDraft(c.Request.Context(), jobID, applicantID)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	if res.ExistingStatus != "" {
		respond.JSON(c, http.StatusOK, gin.H{
			"alreadyApplied": true,
			"status":         res.ExistingStatus,
			"record":         toView(res.Record),
		})
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{
		"alreadyApplied": false,
		"record":         toView(res.Record),
	})
}

type saveRequest struct {
	Record recordPayload `json:"record"`
	Exit   bool          `json:"exit"`
}

func (h *Handler) save(c *gin.Context) {
	applicantID := middleware.UserIDFromContext(c)
	jobID := c.Param("jobId")

	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "invalid request body", nil)
		return
	}

	rec := req.Record.toRecord(jobID, applicantID)
	var (
		saved Record
		err   error
	)
	if req.Exit {
		saved, err = h.Svc.SaveAndExit(c.Request.Context(), rec)
	} else {
		saved, err = h.Svc.SaveProgress(c.Request.Context(), rec)
	}
	if err != nil {
		h.serviceError(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, toView(saved))
}

type stepRequest struct {
	Record recordPayload `json:"record"`
	Step   int           `json:"step"`
}

// step clamps navigation without touching the store; the moved-to position
// persists on the next save.
func (h *Handler) step(c *gin.Context) {
	applicantID := middleware.UserIDFromContext(c)
	jobID := c.Param("jobId")

	var req stepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "invalid request body", nil)
		return
	}

	rec := h.Svc.GotoStep(req.Record.toRecord(jobID, applicantID), req.Step)
	respond.JSON(c, http.StatusOK, toView(rec))
}

type fieldRequest struct {
	Record recordPayload `json:"record"`
	Path   string        `json:"path"`
	Value  string        `json:"value"`
}

// field applies a single scalar edit and echoes the whole record back; the
// result is not persisted until the next save.
func (h *Handler) field(c *gin.Context) {
	applicantID := middleware.UserIDFromContext(c)
	jobID := c.Param("jobId")

	var req fieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "invalid request body", nil)
		return
	}

	rec, err := Apply(req.Record.toRecord(jobID, applicantID), req.Path, req.Value)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, toView(rec))
}

type sectionRequest struct {
	Record  recordPayload `json:"record"`
	Section string        `json:"section"`
	Op      string        `json:"op"`
	Index   int           `json:"index"`
	Field   string        `json:"field"`
	Value   string        `json:"value"`
}

func (h *Handler) section(c *gin.Context) {
	applicantID := middleware.UserIDFromContext(c)
	jobID := c.Param("jobId")

	var req sectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "invalid request body", nil)
		return
	}

	rec := req.Record.toRecord(jobID, applicantID)
	var err error
	switch req.Section + "/" + req.Op {
	case "education/add":
		rec = AddEducation(rec)
	case "education/update":
		rec, err = UpdateEducation(rec, req.Index, req.Field, req.Value)
	case "education/remove":
		rec, err = RemoveEducation(rec, req.Index)
	case "licenses/add":
		rec = AddLicense(rec)
	case "licenses/update":
		rec, err = UpdateLicense(rec, req.Index, req.Field, req.Value)
	case "licenses/remove":
		rec, err = RemoveLicense(rec, req.Index)
	case "employment/add":
		rec = AddEmployment(rec)
	case "employment/update":
		rec, err = UpdateEmployment(rec, req.Index, req.Field, req.Value)
	case "employment/remove":
		rec, err = RemoveEmployment(rec, req.Index)
	default:
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "unknown section or op", nil)
		return
	}
	if err != nil {
		h.serviceError(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, toView(rec))
}

type submitRequest struct {
	Record recordPayload `json:"record"`
}

func (h *Handler) submit(c *gin.Context) {
	applicantID := middleware.UserIDFromContext(c)
	jobID := c.Param("jobId")

	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "invalid request body", nil)
		return
	}

	submitted, err := h.Svc.Submit(c.Request.Context(), req.Record.toRecord(jobID, applicantID))
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.Set("jobId", jobID)
	c.Set("applicationId", submitted.ID)
	c.Set("statusTransition", string(StatusDraft)+"->"+string(StatusSubmitted))
	respond.JSON(c, http.StatusOK, toView(submitted))
}

func (h *Handler) stage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxStageBody)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "unable to read file", nil)
		return
	}
	defer file.Close()

	mimeType := fileHeader.Header.Get("Content-Type")
	staged, err := h.Svc.StageDocument(fileHeader.Filename, mimeType, fileHeader.Size, file)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, staged)
}

func (h *Handler) cancelStaged(c *gin.Context) {
	h.Svc.CancelStaged(c.Param("stagedId"))
	c.Status(http.StatusNoContent)
}

type commitDocumentRequest struct {
	Record       recordPayload `json:"record"`
	StagedFileID string        `json:"stagedFileId"`
	DisplayName  string        `json:"displayName"`
	DocumentType DocumentType  `json:"documentType"`
}

func (h *Handler) commitDocument(c *gin.Context) {
	applicantID := middleware.UserIDFromContext(c)
	jobID := c.Param("jobId")

	var req commitDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "invalid request body", nil)
		return
	}

	rec := req.Record.toRecord(jobID, applicantID)
	saved, err := h.Svc.CommitDocument(c.Request.Context(), rec, req.StagedFileID, req.DisplayName, req.DocumentType)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, toView(saved))
}

type registerExternalRequest struct {
	Record           recordPayload `json:"record"`
	StorageKey       string        `json:"storageKey"`
	DisplayName      string        `json:"displayName"`
	DocumentType     DocumentType  `json:"documentType"`
	OriginalFileName string        `json:"originalFileName"`
	MimeType         string        `json:"mimeType"`
	SizeBytes        int64         `json:"sizeBytes"`
}

func (h *Handler) registerExternal(c *gin.Context) {
	applicantID := middleware.UserIDFromContext(c)
	jobID := c.Param("jobId")

	var req registerExternalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "invalid request body", nil)
		return
	}

	rec := req.Record.toRecord(jobID, applicantID)
	saved, err := h.Svc.RegisterExternalDocument(c.Request.Context(), rec, req.StorageKey, req.DisplayName,
		req.DocumentType, req.OriginalFileName, req.MimeType, req.SizeBytes)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, toView(saved))
}

type removeDocumentRequest struct {
	Record recordPayload `json:"record"`
	Index  int           `json:"index"`
}

func (h *Handler) removeDocument(c *gin.Context) {
	applicantID := middleware.UserIDFromContext(c)
	jobID := c.Param("jobId")

	var req removeDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "invalid request body", nil)
		return
	}

	saved, err := h.Svc.RemoveDocument(c.Request.Context(), req.Record.toRecord(jobID, applicantID), req.Index)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, toView(saved))
}

func (h *Handler) listMine(c *gin.Context) {
	applicantID := middleware.UserIDFromContext(c)

	recs, err := h.Svc.ListMine(c.Request.Context(), applicantID)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	resp := make([]summaryView, 0, len(recs))
	for _, rec := range recs {
		resp = append(resp, toSummary(rec))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) get(c *gin.Context) {
	applicantID := middleware.UserIDFromContext(c)

	rec, err := h.Svc.GetOwned(c.Request.Context(), c.Param("id"), applicantID)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, toView(rec))
}

func (h *Handler) documentContent(c *gin.Context) {
	applicantID := middleware.UserIDFromContext(c)

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "index must be a number", nil)
		return
	}

	data, doc, err := h.Svc.DocumentContent(c.Request.Context(), c.Param("id"), applicantID, index)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+doc.OriginalFileName+`"`)
	c.Data(http.StatusOK, doc.MimeType, data)
}

func (h *Handler) deleteDraft(c *gin.Context) {
	applicantID := middleware.UserIDFromContext(c)

	if err := h.Svc.DeleteDraft(c.Request.Context(), c.Param("id"), applicantID); err != nil {
		h.serviceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// serviceError maps lifecycle errors to the standard error envelope.
func (h *Handler) serviceError(c *gin.Context, err error) {
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, vErr.Error(), gin.H{"missing": vErr.Missing})
	case errors.Is(err, ErrSubmitInFlight):
		respond.Error(c, http.StatusConflict, ErrorCodeReentrancy, "submission already in progress", nil)
	case errors.Is(err, ErrAlreadyApplied):
		respond.Error(c, http.StatusConflict, ErrorCodeConflict, "an application for this job already exists", nil)
	case errors.Is(err, ErrJobClosed):
		respond.Error(c, http.StatusConflict, ErrorCodeConflict, "job posting is no longer accepting applications", nil)
	case errors.Is(err, ErrNotDraft):
		respond.Error(c, http.StatusConflict, ErrorCodeConflict, "record is no longer editable", nil)
	case errors.Is(err, ErrNotOwner):
		respond.Error(c, http.StatusForbidden, "FORBIDDEN", "record belongs to another applicant", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "NOT_FOUND", "application not found", nil)
	case errors.Is(err, ErrFileTooLarge):
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "file exceeds the 5 MiB limit", nil)
	case errors.Is(err, ErrUnsupportedFileType):
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "only PDF, JPEG and PNG files are accepted", nil)
	case errors.Is(err, ErrStagedFileNotFound):
		respond.Error(c, http.StatusNotFound, "NOT_FOUND", "staged file not found or expired", nil)
	case errors.Is(err, ErrInvalidDocumentType):
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "unknown document type", nil)
	case errors.Is(err, ErrIndexOutOfRange):
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "index out of range", nil)
	case errors.Is(err, ErrUnknownField):
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "unknown field path", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, ErrorCodeTransport, "operation failed", nil)
	}
}
