package controllers

import (
	"context"
	"net/http"
	"time"

	"babysteps/models"
	"babysteps/services"

	"github.com/gin-gonic/gin"
)

type SettingsController struct {
	Svc       *services.SettingsService
	Reminders *services.ReminderService
}

func NewSettingsController(svc *services.SettingsService, reminders *services.ReminderService) *SettingsController {
	return &SettingsController{Svc: svc, Reminders: reminders}
}

// GET /settings
func (sc *SettingsController) GetSettings(c *gin.Context) {
	uid := c.GetUint("userID")

	cs, err := sc.Svc.Get(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"settings": cs,
		"snapshot": services.SnapshotFrom(cs),
	})
}

// PUT /settings
// Settings changes kick a full reminder reschedule.
func (sc *SettingsController) UpdateSettings(c *gin.Context) {
	uid := c.GetUint("userID")

	var req models.CareSettings
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := sc.Svc.Upsert(uid, req); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	go sc.Reminders.RescheduleAll(context.Background(), uid, time.Now())

	cs, err := sc.Svc.Get(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"settings": cs,
		"snapshot": services.SnapshotFrom(cs),
	})
}
