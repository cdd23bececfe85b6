package controllers

import (
	"net/http"
	"strconv"

	"babysteps/services"

	"github.com/gin-gonic/gin"
)

type AlertController struct {
	Svc *services.AlertService
}

func NewAlertController(svc *services.AlertService) *AlertController {
	return &AlertController{Svc: svc}
}

// GET /alerts?limit=20
func (ac *AlertController) ListAlerts(c *gin.Context) {
	uid := c.GetUint("userID")

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	alerts, err := ac.Svc.Recent(uid, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}
