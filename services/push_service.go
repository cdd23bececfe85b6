package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"babysteps/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
	"gorm.io/gorm"
)

// Notifier is the platform notification subsystem as the reminder engine
// sees it: schedule a one-shot at a fire time, cancel by identifier, and
// report whether delivery is currently permitted for a user.
type Notifier interface {
	ScheduleOneShot(userID uint, identifier string, fireAt time.Time, title, body string)
	Cancel(identifiers []string)
	PermissionGranted(userID uint) bool
}

// PushService registers devices as SNS platform endpoints and delivers
// one-shot reminder notifications through them. Pending one-shots are held
// as in-process timers keyed by identifier; scheduling the same identifier
// again replaces the pending timer.
type PushService struct {
	db              *gorm.DB
	sns             *awssns.Client
	fcmPlatformArn  string
	apnsPlatformArn string

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func NewPushService(db *gorm.DB) (*PushService, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-west-2"
	}
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &PushService{
		db:              db,
		sns:             awssns.NewFromConfig(cfg),
		fcmPlatformArn:  os.Getenv("SNS_FCM_ARN"),
		apnsPlatformArn: os.Getenv("SNS_APNS_ARN"),
		timers:          map[string]*time.Timer{},
	}, nil
}

type RegisterDeviceReq struct {
	Platform string `json:"platform"` // "android" | "ios" | "watch"
	Token    string `json:"token"`
}

func (p *PushService) tokenHash(tok string) string {
	h := sha256.Sum256([]byte(tok))
	return hex.EncodeToString(h[:])
}

func (p *PushService) platformArn(platform string) (string, error) {
	switch strings.ToLower(platform) {
	case "android":
		if p.fcmPlatformArn == "" {
			return "", errors.New("SNS_FCM_ARN not set")
		}
		return p.fcmPlatformArn, nil
	case "ios", "watch":
		if p.apnsPlatformArn == "" {
			return "", errors.New("SNS_APNS_ARN not set")
		}
		return p.apnsPlatformArn, nil
	default:
		return "", errors.New("unknown platform")
	}
}

func (p *PushService) RegisterDevice(userID uint, platform, token string) (*models.UserDevice, error) {
	appArn, err := p.platformArn(platform)
	if err != nil {
		return nil, err
	}

	out, err := p.sns.CreatePlatformEndpoint(context.TODO(), &awssns.CreatePlatformEndpointInput{
		PlatformApplicationArn: aws.String(appArn),
		Token:                  aws.String(token),
	})
	if err != nil {
		return nil, err
	}

	dev := &models.UserDevice{
		UserID:      userID,
		Platform:    strings.ToLower(platform),
		TokenHash:   p.tokenHash(token),
		EndpointARN: aws.ToString(out.EndpointArn),
		Enabled:     true,
		UpdatedAt:   time.Now(),
	}
	var existing models.UserDevice
	if err := p.db.Where("user_id = ? AND token_hash = ?", userID, dev.TokenHash).First(&existing).Error; err == nil {
		existing.EndpointARN = dev.EndpointARN
		existing.Platform = dev.Platform
		existing.UpdatedAt = time.Now()
		_ = p.db.Save(&existing).Error
		return &existing, nil
	}
	_ = p.db.Create(dev).Error
	return dev, nil
}

// PermissionGranted reports whether the user can currently receive
// notifications: at least one enabled registered device.
func (p *PushService) PermissionGranted(userID uint) bool {
	var count int64
	if err := p.db.Model(&models.UserDevice{}).
		Where("user_id = ? AND enabled = ?", userID, true).
		Count(&count).Error; err != nil {
		return false
	}
	return count > 0
}

// ScheduleOneShot arms a single notification at fireAt. Fire times in the
// past (or under a second out) are clamped to one second. An existing
// pending one-shot with the same identifier is replaced, never duplicated.
func (p *PushService) ScheduleOneShot(userID uint, identifier string, fireAt time.Time, title, body string) {
	d := time.Until(fireAt)
	if d < time.Second {
		d = time.Second
	}

	p.mu.Lock()
	if t, ok := p.timers[identifier]; ok {
		t.Stop()
	}
	p.timers[identifier] = time.AfterFunc(d, func() {
		p.mu.Lock()
		delete(p.timers, identifier)
		p.mu.Unlock()
		p.PushToUser(userID, title, body, map[string]string{"identifier": identifier})
	})
	p.mu.Unlock()
}

// Cancel stops any pending one-shots for the given identifiers. Unknown
// identifiers are ignored, so cancellation is idempotent.
func (p *PushService) Cancel(identifiers []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, id := range identifiers {
		if t, ok := p.timers[id]; ok {
			t.Stop()
			delete(p.timers, id)
		}
	}
}

func (p *PushService) PushToUser(userID uint, title, body string, data map[string]string) {
	var endpoints []models.UserDevice
	if err := p.db.Where("user_id = ? AND enabled = ?", userID, true).Find(&endpoints).Error; err != nil {
		return
	}
	if len(endpoints) == 0 {
		return
	}

	msg := map[string]any{
		"default": body,
		"GCM": map[string]any{
			"notification": map[string]string{
				"title": title,
				"body":  body,
			},
			"data": data,
		},
		"APNS": map[string]any{
			"aps": map[string]any{
				"alert": map[string]string{"title": title, "body": body},
				"sound": "default",
			},
		},
	}

	raw, _ := json.Marshal(msg)
	for _, d := range endpoints {
		if _, err := p.sns.Publish(context.TODO(), &awssns.PublishInput{
			MessageStructure: aws.String("json"),
			Message:          aws.String(string(raw)),
			TargetArn:        aws.String(d.EndpointARN),
		}); err != nil {
			log.Printf("push to endpoint %s failed: %v", d.EndpointARN, err)
		}
	}
}
