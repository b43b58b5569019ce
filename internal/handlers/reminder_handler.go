package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-jotter/internal/dtos"
)

type ReminderHandler struct {
	Reminders ReminderService
}

func NewReminderHandler(reminders ReminderService) *ReminderHandler {
	return &ReminderHandler{Reminders: reminders}
}

func (h *ReminderHandler) Create(c *gin.Context) {
	var req dtos.CreateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(badRequest(err))
		return
	}
	rem, err := h.Reminders.Create(c.Request.Context(), mustActor(c), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"reminder": rem})
}

func (h *ReminderHandler) List(c *gin.Context) {
	rems, err := h.Reminders.List(c.Request.Context(), mustActor(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reminders": rems})
}

func (h *ReminderHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	rem, err := h.Reminders.Get(c.Request.Context(), mustActor(c), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reminder": rem})
}

func (h *ReminderHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req dtos.UpdateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(badRequest(err))
		return
	}
	rem, err := h.Reminders.Update(c.Request.Context(), mustActor(c), id, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reminder": rem})
}

func (h *ReminderHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.Reminders.Delete(c.Request.Context(), mustActor(c), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
