package controllers

import (
	"net/http"
	"time"

	"babysteps/models"
	"babysteps/services"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	Store    services.EventSource
	Settings services.SettingsSource
}

func NewAnalyticsController(store services.EventSource, settings services.SettingsSource) *AnalyticsController {
	return &AnalyticsController{Store: store, Settings: settings}
}

// GET /analytics/chart
func (ac *AnalyticsController) GetCumulativeChart(c *gin.Context) {
	uid := c.GetUint("userID")
	now := time.Now()
	snap := ac.Settings.Snapshot(uid)

	today, week, err := ac.fetchFeedings(c, now)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "retryable": true})
		return
	}

	c.JSON(http.StatusOK, services.ComputeCumulativeChartData(today, week, snap, now))
}

// GET /analytics/progress
func (ac *AnalyticsController) GetFeedingProgress(c *gin.Context) {
	uid := c.GetUint("userID")
	now := time.Now()
	snap := ac.Settings.Snapshot(uid)

	today, _, err := ac.fetchFeedings(c, now)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "retryable": true})
		return
	}

	c.JSON(http.StatusOK, services.CalculateFeedingProgress(today, snap.TargetAmount, snap.TargetTime, now))
}

func (ac *AnalyticsController) fetchFeedings(c *gin.Context, now time.Time) (today, week []models.ActivityEvent, err error) {
	ctx := c.Request.Context()
	week, err = ac.Store.ListEvents(ctx, models.CategoryFeeding, now.AddDate(0, 0, -7), now.AddDate(0, 0, 1), 1000)
	if err != nil {
		return nil, nil, err
	}

	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 1)
	for _, ev := range week {
		if !ev.Start.Before(start) && ev.Start.Before(end) {
			today = append(today, ev)
		}
	}
	return today, week, nil
}
