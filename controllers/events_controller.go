package controllers

import (
	"net/http"
	"time"

	"babysteps/models"
	"babysteps/services"

	"github.com/gin-gonic/gin"
)

type EventsController struct {
	Store     *services.BabyBuddyService
	Reminders *services.ReminderService
}

func NewEventsController(store *services.BabyBuddyService, reminders *services.ReminderService) *EventsController {
	return &EventsController{Store: store, Reminders: reminders}
}

// POST /events/:category
// Quick-reschedules the category from the just-logged end time.
func (ec *EventsController) LogEvent(c *gin.Context) {
	uid := c.GetUint("userID")

	category, ok := models.ParseCategory(c.Param("category"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
		return
	}

	var req services.LogEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := ec.Store.CreateEvent(c.Request.Context(), category, req)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "retryable": true})
		return
	}

	ec.Reminders.RescheduleCategory(uid, category, event.End, time.Now())

	c.JSON(http.StatusCreated, event)
}

// GET /events/:category
func (ec *EventsController) ListEvents(c *gin.Context) {
	category, ok := models.ParseCategory(c.Param("category"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
		return
	}

	now := time.Now()
	days := 7
	events, err := ec.Store.ListEvents(c.Request.Context(), category, now.AddDate(0, 0, -days), now.AddDate(0, 0, 1), 1000)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "retryable": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}
