package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-jotter/internal/dtos"
	"google.golang.org/api/calendar/v3"
)

// CalendarHandler proxies the caller's primary Google Calendar.
type CalendarHandler struct {
	Calendar CalendarService
}

func NewCalendarHandler(cal CalendarService) *CalendarHandler {
	return &CalendarHandler{Calendar: cal}
}

func (h *CalendarHandler) List(c *gin.Context) {
	events, err := h.Calendar.ListEvents(c.Request.Context(), mustActor(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	if events == nil {
		events = []*calendar.Event{}
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (h *CalendarHandler) Create(c *gin.Context) {
	var req dtos.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(badRequest(err))
		return
	}
	ev, err := h.Calendar.InsertEvent(c.Request.Context(), mustActor(c), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"event": ev})
}

func (h *CalendarHandler) Update(c *gin.Context) {
	var req dtos.EventPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(badRequest(err))
		return
	}
	ev, err := h.Calendar.PatchEvent(c.Request.Context(), mustActor(c), c.Param("eventId"), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": ev})
}

func (h *CalendarHandler) Delete(c *gin.Context) {
	eventID := c.Param("eventId")
	if err := h.Calendar.DeleteEvent(c.Request.Context(), mustActor(c), eventID); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": eventID})
}
