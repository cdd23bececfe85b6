package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"babysteps/models"
)

// EventSource is the read contract the analytics and reminder engines
// consume. BabyBuddyService is the production implementation.
type EventSource interface {
	ListEvents(ctx context.Context, category models.ActivityCategory, startMin, startMax time.Time, limit int) ([]models.ActivityEvent, error)
	LatestEvent(ctx context.Context, category models.ActivityCategory) (*models.ActivityEvent, error)
}

var (
	ErrStoreUnauthorized = errors.New("record service rejected the API token")
	ErrStoreNotFound     = errors.New("record service resource not found")
)

// StoreError wraps a non-2xx response from the record service.
type StoreError struct {
	Status  int
	Message string
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("record service error (%d): %s", e.Status, e.Message)
}

// BabyBuddyService talks to a Baby Buddy-style record-keeping API: token
// auth, snake_case JSON, paginated {count, results} envelopes. All requests
// share one bounded-timeout client; callers treat failures as retryable and
// keep showing the previous snapshot.
type BabyBuddyService struct {
	baseURL string
	token   string
	childID int
	client  *http.Client
}

func NewBabyBuddyService() *BabyBuddyService {
	childID, _ := strconv.Atoi(os.Getenv("BABYBUDDY_CHILD_ID"))
	timeout := 15 * time.Second
	if v, err := strconv.Atoi(os.Getenv("BABYBUDDY_TIMEOUT_SECONDS")); err == nil && v > 0 {
		timeout = time.Duration(v) * time.Second
	}
	return &BabyBuddyService{
		baseURL: strings.TrimRight(os.Getenv("BABYBUDDY_URL"), "/"),
		token:   os.Getenv("BABYBUDDY_TOKEN"),
		childID: childID,
		client:  &http.Client{Timeout: timeout},
	}
}

// NewBabyBuddyServiceWith is used by tests and custom wiring.
func NewBabyBuddyServiceWith(baseURL, token string, childID int, client *http.Client) *BabyBuddyService {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &BabyBuddyService{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		childID: childID,
		client:  client,
	}
}

// ---------- wire formats ----------

type paginatedResponse struct {
	Count   int             `json:"count"`
	Results json.RawMessage `json:"results"`
}

type feedingPayload struct {
	ID     int      `json:"id"`
	Start  string   `json:"start"`
	End    string   `json:"end"`
	Type   string   `json:"type"`
	Method string   `json:"method"`
	Amount *float64 `json:"amount"`
	Notes  string   `json:"notes"`
}

type diaperPayload struct {
	ID    int    `json:"id"`
	Time  string `json:"time"`
	Wet   bool   `json:"wet"`
	Solid bool   `json:"solid"`
	Color string `json:"color"`
	Notes string `json:"notes"`
}

type sleepPayload struct {
	ID    int    `json:"id"`
	Start string `json:"start"`
	End   string `json:"end"`
	Nap   bool   `json:"nap"`
	Notes string `json:"notes"`
}

type pumpingPayload struct {
	ID     int      `json:"id"`
	Start  string   `json:"start"`
	End    string   `json:"end"`
	Amount *float64 `json:"amount"`
	Notes  string   `json:"notes"`
}

func categoryPath(category models.ActivityCategory) string {
	switch category {
	case models.CategoryDiaper:
		return "/api/changes/"
	case models.CategorySleep:
		return "/api/sleep/"
	case models.CategoryPumping:
		return "/api/pumping/"
	default:
		return "/api/feedings/"
	}
}

// orderingField is the descending sort key used for latest-event queries.
// Diaper changes are instantaneous and keyed by "time" instead of "end".
func orderingField(category models.ActivityCategory) string {
	if category == models.CategoryDiaper {
		return "-time"
	}
	return "-end"
}

// parseISO accepts the timestamp shapes Baby Buddy emits.
func parseISO(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05.999999Z07:00", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func decodeEvents(category models.ActivityCategory, raw json.RawMessage) ([]models.ActivityEvent, error) {
	var out []models.ActivityEvent

	switch category {
	case models.CategoryDiaper:
		var rows []diaperPayload
		if err := json.Unmarshal(raw, &rows); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		for _, r := range rows {
			t, err := parseISO(r.Time)
			if err != nil {
				continue
			}
			out = append(out, models.ActivityEvent{
				ID: r.ID, Category: category, Start: t, End: t, Notes: r.Notes,
			})
		}

	case models.CategorySleep:
		var rows []sleepPayload
		if err := json.Unmarshal(raw, &rows); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		for _, r := range rows {
			start, err := parseISO(r.Start)
			if err != nil {
				continue
			}
			end, err := parseISO(r.End)
			if err != nil {
				continue
			}
			out = append(out, models.ActivityEvent{
				ID: r.ID, Category: category, Start: start, End: end, Notes: r.Notes,
			})
		}

	case models.CategoryPumping:
		var rows []pumpingPayload
		if err := json.Unmarshal(raw, &rows); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		for _, r := range rows {
			start, err := parseISO(r.Start)
			if err != nil {
				continue
			}
			end, err := parseISO(r.End)
			if err != nil {
				continue
			}
			out = append(out, models.ActivityEvent{
				ID: r.ID, Category: category, Start: start, End: end, Amount: r.Amount, Notes: r.Notes,
			})
		}

	default:
		var rows []feedingPayload
		if err := json.Unmarshal(raw, &rows); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		for _, r := range rows {
			start, err := parseISO(r.Start)
			if err != nil {
				continue
			}
			end, err := parseISO(r.End)
			if err != nil {
				continue
			}
			out = append(out, models.ActivityEvent{
				ID: r.ID, Category: category, Start: start, End: end,
				Amount: r.Amount, Method: r.Method, Type: r.Type, Notes: r.Notes,
			})
		}
	}

	return out, nil
}

// ---------- reads ----------

// ListEvents fetches events whose start falls in [startMin, startMax],
// passed to the service as date-only bounds.
func (s *BabyBuddyService) ListEvents(ctx context.Context, category models.ActivityCategory, startMin, startMax time.Time, limit int) ([]models.ActivityEvent, error) {
	q := url.Values{}
	q.Set("child", strconv.Itoa(s.childID))
	q.Set("start_min", startMin.Format("2006-01-02"))
	q.Set("start_max", startMax.Format("2006-01-02"))
	q.Set("limit", strconv.Itoa(limit))

	page, err := s.getPage(ctx, categoryPath(category), q)
	if err != nil {
		return nil, err
	}
	return decodeEvents(category, page.Results)
}

// LatestEvent returns the most recent event for a category, or nil when
// nothing has been logged yet.
func (s *BabyBuddyService) LatestEvent(ctx context.Context, category models.ActivityCategory) (*models.ActivityEvent, error) {
	q := url.Values{}
	q.Set("child", strconv.Itoa(s.childID))
	q.Set("ordering", orderingField(category))
	q.Set("limit", "1")

	page, err := s.getPage(ctx, categoryPath(category), q)
	if err != nil {
		return nil, err
	}
	events, err := decodeEvents(category, page.Results)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, nil
	}
	return &events[0], nil
}

// ---------- writes ----------

// LogEventRequest is the inbound shape for the event-logging proxy.
type LogEventRequest struct {
	Start  string   `json:"start" binding:"required"`
	End    string   `json:"end"`
	Amount *float64 `json:"amount"`
	Method string   `json:"method"`
	Type   string   `json:"type"`
	Wet    bool     `json:"wet"`
	Solid  bool     `json:"solid"`
	Notes  string   `json:"notes"`
}

// CreateEvent writes one record through to the record service and returns
// the stored event.
func (s *BabyBuddyService) CreateEvent(ctx context.Context, category models.ActivityCategory, req LogEventRequest) (*models.ActivityEvent, error) {
	body := map[string]any{"child": s.childID, "notes": req.Notes}
	switch category {
	case models.CategoryDiaper:
		body["time"] = req.Start
		body["wet"] = req.Wet
		body["solid"] = req.Solid
	case models.CategorySleep:
		body["start"] = req.Start
		body["end"] = req.End
	case models.CategoryPumping:
		body["start"] = req.Start
		body["end"] = req.End
		body["amount"] = req.Amount
	default:
		body["start"] = req.Start
		body["end"] = req.End
		body["type"] = req.Type
		body["method"] = req.Method
		body["amount"] = req.Amount
	}

	raw, err := s.post(ctx, categoryPath(category), body)
	if err != nil {
		return nil, err
	}

	// Single objects decode through the same per-category path as lists.
	events, err := decodeEvents(category, json.RawMessage("["+string(raw)+"]"))
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("record service returned an undecodable event")
	}
	return &events[0], nil
}

// ---------- transport ----------

func (s *BabyBuddyService) getPage(ctx context.Context, path string, q url.Values) (*paginatedResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Token "+s.token)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("record service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var page paginatedResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &page, nil
}

func (s *BabyBuddyService) post(ctx context.Context, path string, body any) ([]byte, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Token "+s.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("record service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return io.ReadAll(resp.Body)
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrStoreUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrStoreNotFound
	default:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StoreError{Status: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}
}
