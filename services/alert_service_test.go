package services

import (
	"testing"

	"babysteps/models"
)

type fakePusher struct {
	userID uint
	title  string
	body   string
	data   map[string]string
	calls  int
}

func (f *fakePusher) PushToUser(userID uint, title, body string, data map[string]string) {
	f.userID = userID
	f.title = title
	f.body = body
	f.data = data
	f.calls++
}

func TestEmitDeliversPush(t *testing.T) {
	pusher := &fakePusher{}
	svc := NewAlertService(nil, nil, pusher)

	svc.Emit(testUser, models.CategoryFeeding, "overdue", "Feeding is overdue.")

	if pusher.calls != 1 {
		t.Fatalf("expected one push, got %d", pusher.calls)
	}
	if pusher.userID != testUser || pusher.body != "Feeding is overdue." {
		t.Fatalf("push content wrong: user=%d body=%q", pusher.userID, pusher.body)
	}
	if pusher.data["alert_id"] == "" {
		t.Fatalf("push must carry the alert id")
	}
}

func TestEmitNilServiceIsNoop(t *testing.T) {
	var svc *AlertService
	svc.Emit(testUser, models.CategoryFeeding, "overdue", "msg")
}
