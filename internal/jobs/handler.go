package jobs

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"careers-backend/internal/shared/server/middleware"
	"careers-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the applicant-facing posting routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/jobs", h.listActive)
	rg.GET("/jobs/:jobId", h.get)
}

// RegisterAdminRoutes attaches the posting management routes.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/jobs", h.listAll)
	rg.POST("/jobs", h.create)
	rg.PUT("/jobs/:jobId", h.update)
	rg.DELETE("/jobs/:jobId", h.remove)
}

func (h *Handler) listActive(c *gin.Context) {
	postings, err := h.Svc.ListActive(c.Request.Context())
	if err != nil {
		h.serviceError(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, postings)
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.Svc.Get(c.Request.Context(), c.Param("jobId"))
	if err != nil {
		h.serviceError(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, p)
}

func (h *Handler) listAll(c *gin.Context) {
	postings, err := h.Svc.List(c.Request.Context(), Status(c.Query("status")))
	if err != nil {
		h.serviceError(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, postings)
}

type postingRequest struct {
	Title            string   `json:"title"`
	Department       string   `json:"department"`
	Location         string   `json:"location"`
	Type             string   `json:"type"`
	Description      string   `json:"description"`
	Requirements     []string `json:"requirements"`
	Responsibilities []string `json:"responsibilities"`
	Benefits         []string `json:"benefits"`
	Salary           Salary   `json:"salary"`
	Status           Status   `json:"status"`
}

func (r postingRequest) toInput() Input {
	return Input{
		Title:            r.Title,
		Department:       r.Department,
		Location:         r.Location,
		Type:             r.Type,
		Description:      r.Description,
		Requirements:     r.Requirements,
		Responsibilities: r.Responsibilities,
		Benefits:         r.Benefits,
		Salary:           r.Salary,
		Status:           r.Status,
	}
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req postingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	p, err := h.Svc.Create(c.Request.Context(), userID, req.toInput())
	if err != nil {
		h.serviceError(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, p)
}

func (h *Handler) update(c *gin.Context) {
	var req postingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	p, err := h.Svc.Update(c.Request.Context(), c.Param("jobId"), req.toInput())
	if err != nil {
		h.serviceError(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, p)
}

func (h *Handler) remove(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("jobId")); err != nil {
		h.serviceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "job posting not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "operation failed", nil)
	}
}
