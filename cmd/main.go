package main

import (
	"log"

	"babysteps/config"
	"babysteps/routes"
	"babysteps/services"
)

func main() {
	config.InitDB()

	store := services.NewBabyBuddyService()
	settings := services.NewSettingsService(config.DB)
	hub := services.NewRealtimeHub()

	push, err := services.NewPushService(config.DB)
	if err != nil {
		log.Fatalf("push service init failed: %v", err)
	}

	alerts := services.NewAlertService(config.DB, hub, push)
	reminders := services.NewReminderService(store, settings, push, alerts)
	dashboard := services.NewDashboardService(store, settings, hub)

	r := routes.SetupRouter(routes.Deps{
		Store:     store,
		Settings:  settings,
		Dashboard: dashboard,
		Reminders: reminders,
		Push:      push,
		Alerts:    alerts,
		Hub:       hub,
	})

	if err := r.Run(config.ListenAddr()); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
