package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-jotter/internal/dtos"
)

type ApplicationHandler struct {
	Applications ApplicationService
	Extractor    Extractor // nil when no LLM is configured
}

func NewApplicationHandler(apps ApplicationService, extractor Extractor) *ApplicationHandler {
	return &ApplicationHandler{Applications: apps, Extractor: extractor}
}

// Create is POST /applications.
func (h *ApplicationHandler) Create(c *gin.Context) {
	var req dtos.CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(badRequest(err))
		return
	}
	app, err := h.Applications.Create(c.Request.Context(), mustActor(c), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"application": app})
}

// List is GET /applications: the caller's applications.
func (h *ApplicationHandler) List(c *gin.Context) {
	apps, err := h.Applications.List(c.Request.Context(), mustActor(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps})
}

func (h *ApplicationHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	app, err := h.Applications.Get(c.Request.Context(), mustActor(c), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"application": app})
}

func (h *ApplicationHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req dtos.UpdateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(badRequest(err))
		return
	}
	app, err := h.Applications.Update(c.Request.Context(), mustActor(c), id, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"application": app})
}

func (h *ApplicationHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.Applications.Delete(c.Request.Context(), mustActor(c), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// Interviews is GET /applications/:id/interviews.
func (h *ApplicationHandler) Interviews(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	ivs, err := h.Applications.Interviews(c.Request.Context(), mustActor(c), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"interviews": ivs})
}

// Reminders is GET /applications/:id/reminders.
func (h *ApplicationHandler) Reminders(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	rems, err := h.Applications.Reminders(c.Request.Context(), mustActor(c), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reminders": rems})
}

// Extract is POST /applications/extract. It returns a draft application
// read from a job posting; nothing is saved.
func (h *ApplicationHandler) Extract(c *gin.Context) {
	var req dtos.ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(badRequest(err))
		return
	}
	draft, err := h.Extractor.Extract(c.Request.Context(), req.RawHTML, req.URL)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"application": draft})
}

// idParam parses the :id path parameter, pushing a 400 when it is not a
// positive integer.
func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		_ = c.Error(badRequest(strconv.ErrSyntax))
		return 0, false
	}
	return id, true
}
