package review

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"careers-backend/internal/applications"
	"careers-backend/internal/shared/server/middleware"
	"careers-backend/internal/shared/server/respond"
	"careers-backend/internal/shared/storage/object"
)

// Handler wires the reviewer routes to the service.
type Handler struct {
	Svc   *Service
	Store object.ObjectStore
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, store object.ObjectStore) *Handler {
	return &Handler{Svc: svc, Store: store}
}

// RegisterRoutes attaches reviewer routes. The group must already carry the
// reviewer guard.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/applications", h.list)
	rg.GET("/applications/:id", h.get)
	rg.PUT("/applications/:id/status", h.setStatus)
	rg.PUT("/applications/:id/interview", h.scheduleInterview)
	rg.PUT("/applications/:id/notes", h.setNotes)
	rg.GET("/applications/:id/documents/:index/content", h.documentContent)
	rg.DELETE("/applications/:id", h.remove)
}

func (h *Handler) list(c *gin.Context) {
	recs, err := h.Svc.List(c.Request.Context(), applications.NormalizeStatus(c.Query("status")))
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
	rec, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.serviceError(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, toView(rec))
}

type setStatusRequest struct {
	Status applications.Status `json:"status"`
}

func (h *Handler) setStatus(c *gin.Context) {
	reviewerID := middleware.UserIDFromContext(c)

	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, applications.ErrorCodeValidation, "invalid request body", nil)
		return
	}

	rec, err := h.Svc.SetStatus(c.Request.Context(), c.Param("id"), reviewerID, req.Status)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, toView(rec))
}

type scheduleInterviewRequest struct {
	At time.Time `json:"at"`
}

func (h *Handler) scheduleInterview(c *gin.Context) {
	reviewerID := middleware.UserIDFromContext(c)

	var req scheduleInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.At.IsZero() {
		respond.Error(c, http.StatusBadRequest, applications.ErrorCodeValidation, "a valid interview time is required", nil)
		return
	}

	rec, err := h.Svc.ScheduleInterview(c.Request.Context(), c.Param("id"), reviewerID, req.At)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, toView(rec))
}

type setNotesRequest struct {
	Notes string `json:"notes"`
}

func (h *Handler) setNotes(c *gin.Context) {
	reviewerID := middleware.UserIDFromContext(c)

	var req setNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, applications.ErrorCodeValidation, "invalid request body", nil)
		return
	}

	rec, err := h.Svc.SetNotes(c.Request.Context(), c.Param("id"), reviewerID, req.Notes)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, toView(rec))
}

func (h *Handler) documentContent(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, applications.ErrorCodeValidation, "index must be a number", nil)
		return
	}

	rec, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.serviceError(c, err)
		return
	}
	data, doc, err := applications.DocumentBytes(c.Request.Context(), h.Store, rec, index)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+doc.OriginalFileName+`"`)
	c.Data(http.StatusOK, doc.MimeType, data)
}

func (h *Handler) remove(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.serviceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidTarget):
		respond.Error(c, http.StatusBadRequest, applications.ErrorCodeValidation, "status is not reviewer-settable", nil)
	case errors.Is(err, ErrNotSubmitted):
		respond.Error(c, http.StatusConflict, applications.ErrorCodeConflict, "record has not been submitted", nil)
	case errors.Is(err, applications.ErrIndexOutOfRange):
		respond.Error(c, http.StatusBadRequest, applications.ErrorCodeValidation, "index out of range", nil)
	case errors.Is(err, applications.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "NOT_FOUND", "application not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, applications.ErrorCodeTransport, "operation failed", nil)
	}
}
