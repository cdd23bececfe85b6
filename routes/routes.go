package routes

import (
	"babysteps/controllers"
	"babysteps/middlewares"
	"babysteps/services"

	"github.com/gin-gonic/gin"
)

type Deps struct {
	Store     *services.BabyBuddyService
	Settings  *services.SettingsService
	Dashboard *services.DashboardService
	Reminders *services.ReminderService
	Push      *services.PushService
	Alerts    *services.AlertService
	Hub       *services.RealtimeHub
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.Default()

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
	}

	dashboardCtl := controllers.NewDashboardController(d.Dashboard)
	analyticsCtl := controllers.NewAnalyticsController(d.Store, d.Settings)
	settingsCtl := controllers.NewSettingsController(d.Settings, d.Reminders)
	reminderCtl := controllers.NewReminderController(d.Reminders, d.Push)
	eventsCtl := controllers.NewEventsController(d.Store, d.Reminders)
	deviceCtl := controllers.NewDeviceController(d.Push)
	alertCtl := controllers.NewAlertController(d.Alerts)
	realtimeCtl := controllers.NewRealtimeController(d.Hub)

	api := r.Group("/")
	api.Use(middlewares.AuthMiddleware())
	{
		api.GET("/dashboard", dashboardCtl.GetDashboard)

		api.GET("/analytics/chart", analyticsCtl.GetCumulativeChart)
		api.GET("/analytics/progress", analyticsCtl.GetFeedingProgress)

		api.GET("/settings", settingsCtl.GetSettings)
		api.PUT("/settings", settingsCtl.UpdateSettings)

		api.GET("/reminders", reminderCtl.ListPending)
		api.POST("/reminders/reschedule", reminderCtl.RescheduleAll)
		api.GET("/reminders/permission", reminderCtl.PermissionState)
		api.DELETE("/reminders", reminderCtl.CancelAll)

		api.GET("/events/:category", eventsCtl.ListEvents)
		api.POST("/events/:category", eventsCtl.LogEvent)

		api.POST("/devices", deviceCtl.Register)
		api.POST("/devices/toggle", deviceCtl.Toggle)

		api.GET("/alerts", alertCtl.ListAlerts)

		api.GET("/ws", realtimeCtl.DashboardWS)
	}

	return r
}
