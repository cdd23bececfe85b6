package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"babysteps/models"
)

func newTestStore(t *testing.T, handler http.HandlerFunc) *BabyBuddyService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewBabyBuddyServiceWith(srv.URL, "test-token", 5, srv.Client())
}

func TestListEventsQueryAndDecode(t *testing.T) {
	svc := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/feedings/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Token test-token" {
			t.Errorf("unexpected auth header %q", got)
		}
		q := r.URL.Query()
		if q.Get("child") != "5" || q.Get("start_min") != "2026-01-14" || q.Get("start_max") != "2026-01-16" || q.Get("limit") != "1000" {
			t.Errorf("unexpected query %v", q)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"count": 1,
			"results": [{
				"id": 42,
				"start": "2026-01-15T07:50:00Z",
				"end": "2026-01-15T08:00:00Z",
				"type": "formula",
				"method": "bottle",
				"amount": 4.5,
				"notes": "morning"
			}]
		}`))
	})

	events, err := svc.ListEvents(context.Background(), models.CategoryFeeding,
		time.Date(2026, 1, 14, 12, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 16, 12, 0, 0, 0, time.UTC), 1000)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	ev := events[0]
	if ev.ID != 42 || ev.Method != models.FeedingMethodBottle || ev.Amount == nil || *ev.Amount != 4.5 {
		t.Fatalf("decoded event wrong: %+v", ev)
	}
	if !ev.End.Equal(time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC)) {
		t.Fatalf("end time wrong: %v", ev.End)
	}
	if ev.Category != models.CategoryFeeding {
		t.Fatalf("category wrong: %s", ev.Category)
	}
}

func TestListEventsDiaperUsesChangesPath(t *testing.T) {
	svc := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/changes/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"count":1,"results":[{"id":7,"time":"2026-01-15T09:00:00Z","wet":true,"solid":false}]}`))
	})

	events, err := svc.ListEvents(context.Background(), models.CategoryDiaper, time.Now(), time.Now(), 10)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	// Instantaneous events carry the same start and end.
	if !events[0].Start.Equal(events[0].End) {
		t.Fatalf("diaper start and end must match: %+v", events[0])
	}
}

func TestLatestEventOrderingAndLimit(t *testing.T) {
	svc := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("ordering") != "-end" || q.Get("limit") != "1" {
			t.Errorf("unexpected query %v", q)
		}
		_, _ = w.Write([]byte(`{"count":1,"results":[{"id":9,"start":"2026-01-15T07:50:00Z","end":"2026-01-15T08:00:00Z","method":"bottle","amount":4}]}`))
	})

	ev, err := svc.LatestEvent(context.Background(), models.CategoryFeeding)
	if err != nil {
		t.Fatalf("LatestEvent failed: %v", err)
	}
	if ev == nil || ev.ID != 9 {
		t.Fatalf("expected event 9, got %+v", ev)
	}
}

func TestLatestEventDiaperOrdersByTime(t *testing.T) {
	svc := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("ordering"); got != "-time" {
			t.Errorf("diaper ordering must be -time, got %q", got)
		}
		_, _ = w.Write([]byte(`{"count":0,"results":[]}`))
	})

	if _, err := svc.LatestEvent(context.Background(), models.CategoryDiaper); err != nil {
		t.Fatalf("LatestEvent failed: %v", err)
	}
}

func TestLatestEventNoneIsNilNil(t *testing.T) {
	svc := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"count":0,"results":[]}`))
	})

	ev, err := svc.LatestEvent(context.Background(), models.CategorySleep)
	if err != nil {
		t.Fatalf("no events is not an error: %v", err)
	}
	if ev != nil {
		t.Fatalf("expected nil event, got %+v", ev)
	}
}

func TestUnauthorizedMapsToSentinel(t *testing.T) {
	svc := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := svc.LatestEvent(context.Background(), models.CategoryFeeding)
	if !errors.Is(err, ErrStoreUnauthorized) {
		t.Fatalf("expected ErrStoreUnauthorized, got %v", err)
	}
}

func TestServerErrorCarriesStatus(t *testing.T) {
	svc := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	})

	_, err := svc.LatestEvent(context.Background(), models.CategoryFeeding)
	var se *StoreError
	if !errors.As(err, &se) {
		t.Fatalf("expected StoreError, got %v", err)
	}
	if se.Status != http.StatusBadGateway || se.Message != "upstream down" {
		t.Fatalf("unexpected StoreError: %+v", se)
	}
}

func TestCreateEventFeeding(t *testing.T) {
	svc := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/feedings/" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["child"] != float64(5) || body["method"] != "bottle" || body["amount"] != 4.0 {
			t.Errorf("unexpected body %v", body)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":100,"start":"2026-01-15T07:50:00Z","end":"2026-01-15T08:00:00Z","method":"bottle","amount":4}`))
	})

	ev, err := svc.CreateEvent(context.Background(), models.CategoryFeeding, LogEventRequest{
		Start:  "2026-01-15T07:50:00Z",
		End:    "2026-01-15T08:00:00Z",
		Method: models.FeedingMethodBottle,
		Amount: oz(4),
	})
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	if ev.ID != 100 || ev.Amount == nil || *ev.Amount != 4 {
		t.Fatalf("created event wrong: %+v", ev)
	}
}

func TestCreateEventDiaperSendsTimeField(t *testing.T) {
	svc := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["time"] != "2026-01-15T09:00:00Z" || body["wet"] != true {
			t.Errorf("unexpected body %v", body)
		}
		if _, ok := body["start"]; ok {
			t.Errorf("diaper writes must not carry start/end: %v", body)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":101,"time":"2026-01-15T09:00:00Z","wet":true,"solid":false}`))
	})

	ev, err := svc.CreateEvent(context.Background(), models.CategoryDiaper, LogEventRequest{
		Start: "2026-01-15T09:00:00Z",
		Wet:   true,
	})
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	if ev.ID != 101 {
		t.Fatalf("created event wrong: %+v", ev)
	}
}

func TestParseISOAcceptsFractionalAndNaive(t *testing.T) {
	for _, s := range []string{
		"2026-01-15T08:00:00Z",
		"2026-01-15T08:00:00.123456Z",
		"2026-01-15T08:00:00-05:00",
		"2026-01-15T08:00:00",
	} {
		if _, err := parseISO(s); err != nil {
			t.Fatalf("parseISO(%q) failed: %v", s, err)
		}
	}
	if _, err := parseISO("not a time"); err == nil {
		t.Fatalf("malformed timestamps must error")
	}
}
