package controllers

import (
	"net/http"
	"time"

	"babysteps/services"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	Svc *services.DashboardService
}

func NewDashboardController(svc *services.DashboardService) *DashboardController {
	return &DashboardController{Svc: svc}
}

// GET /dashboard
// A failed refresh is retryable; if a previous snapshot exists it is served
// stale instead of blanking the surfaces.
func (dc *DashboardController) GetDashboard(c *gin.Context) {
	uid := c.GetUint("userID")

	snapshot, err := dc.Svc.Refresh(c.Request.Context(), uid, time.Now())
	if err != nil {
		if last := dc.Svc.LastSnapshot(uid); last != nil {
			c.JSON(http.StatusOK, gin.H{
				"snapshot":  last,
				"stale":     true,
				"error":     err.Error(),
				"retryable": true,
			})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "retryable": true})
		return
	}

	c.JSON(http.StatusOK, gin.H{"snapshot": snapshot, "stale": false})
}
