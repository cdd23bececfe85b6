package controllers

import (
	"net/http"
	"time"

	"babysteps/services"

	"github.com/gin-gonic/gin"
)

type ReminderController struct {
	Svc  *services.ReminderService
	Push *services.PushService
}

func NewReminderController(svc *services.ReminderService, push *services.PushService) *ReminderController {
	return &ReminderController{Svc: svc, Push: push}
}

// POST /reminders/reschedule
func (rc *ReminderController) RescheduleAll(c *gin.Context) {
	uid := c.GetUint("userID")

	rc.Svc.RescheduleAll(c.Request.Context(), uid, time.Now())
	c.JSON(http.StatusOK, gin.H{"pending": rc.Svc.Pending(uid)})
}

// GET /reminders
func (rc *ReminderController) ListPending(c *gin.Context) {
	uid := c.GetUint("userID")
	c.JSON(http.StatusOK, gin.H{"pending": rc.Svc.Pending(uid)})
}

// GET /reminders/permission
func (rc *ReminderController) PermissionState(c *gin.Context) {
	uid := c.GetUint("userID")
	c.JSON(http.StatusOK, gin.H{"granted": rc.Push.PermissionGranted(uid)})
}

// DELETE /reminders
func (rc *ReminderController) CancelAll(c *gin.Context) {
	uid := c.GetUint("userID")
	rc.Svc.CancelAll(uid)
	c.Status(http.StatusNoContent)
}
