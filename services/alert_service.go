package services

import (
	"time"

	"babysteps/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AlertPusher delivers an alert to the user's registered devices.
type AlertPusher interface {
	PushToUser(userID uint, title, body string, data map[string]string)
}

// AlertService records why an immediate reminder fired (overdue category,
// nothing logged yet) and mirrors it to connected surfaces and devices.
type AlertService struct {
	db   *gorm.DB
	hub  *RealtimeHub
	push AlertPusher
}

func NewAlertService(db *gorm.DB, hub *RealtimeHub, push AlertPusher) *AlertService {
	return &AlertService{db: db, hub: hub, push: push}
}

func (a *AlertService) Emit(userID uint, category models.ActivityCategory, typ, message string) {
	if a == nil {
		return
	}
	alert := &models.Alert{
		ID:        uuid.NewString(),
		UserID:    userID,
		Category:  category,
		Type:      typ,
		Message:   message,
		CreatedAt: time.Now(),
	}
	if a.db != nil {
		_ = a.db.Create(alert).Error
	}

	if a.hub != nil {
		a.hub.BroadcastAlert(userID, alert)
	}
	if a.push != nil {
		a.push.PushToUser(userID, "New Alert", message, map[string]string{"alert_id": alert.ID})
	}
}

func (a *AlertService) Recent(userID uint, limit int) ([]models.Alert, error) {
	var alerts []models.Alert
	err := a.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&alerts).Error
	return alerts, err
}
