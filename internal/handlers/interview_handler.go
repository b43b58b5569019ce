package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-jotter/internal/dtos"
)

type InterviewHandler struct {
	Interviews InterviewService
}

func NewInterviewHandler(interviews InterviewService) *InterviewHandler {
	return &InterviewHandler{Interviews: interviews}
}

func (h *InterviewHandler) Create(c *gin.Context) {
	var req dtos.CreateInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(badRequest(err))
		return
	}
	iv, err := h.Interviews.Create(c.Request.Context(), mustActor(c), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"interview": iv})
}

func (h *InterviewHandler) List(c *gin.Context) {
	ivs, err := h.Interviews.List(c.Request.Context(), mustActor(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"interviews": ivs})
}

func (h *InterviewHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	iv, err := h.Interviews.Get(c.Request.Context(), mustActor(c), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"interview": iv})
}

func (h *InterviewHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req dtos.UpdateInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(badRequest(err))
		return
	}
	iv, err := h.Interviews.Update(c.Request.Context(), mustActor(c), id, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"interview": iv})
}

func (h *InterviewHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.Interviews.Delete(c.Request.Context(), mustActor(c), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
