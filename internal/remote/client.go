package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/model"
	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/store"
)

// Client is a store.LogRepository, store.WeightHistory and
// store.ProfileStore backed by a remote Server. 404 responses become
// store.ErrNotFound; transport failures and 5xx become transient errors.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{BaseURL: baseURL}
}

type apiErrorBody struct {
	Error string `json:"error"`
}

func (c *Client) userURL(userID string, parts ...string) string {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	segs := []string{base, "api", "users", url.PathEscape(userID)}
	for _, p := range parts {
		segs = append(segs, url.PathEscape(p))
	}
	return strings.Join(segs, "/")
}

// do sends the request and decodes a 2xx JSON body into out when out is
// non-nil.
func (c *Client) do(ctx context.Context, op, method, target string, body any, out any) error {
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s payload: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("create %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return store.Transient(op, fmt.Errorf("execute request: %w", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return store.Transient(op, fmt.Errorf("read response: %w", err))
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return store.ErrNotFound
	case resp.StatusCode >= 500:
		return store.Transient(op, fmt.Errorf("status %d: %s", resp.StatusCode, errorMessage(raw)))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%s: status %d: %s", op, resp.StatusCode, errorMessage(raw))
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

func errorMessage(raw []byte) string {
	var body apiErrorBody
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != "" {
		return body.Error
	}
	return strings.TrimSpace(string(raw))
}

func (c *Client) FetchByDay(ctx context.Context, userID, day string) (model.DailyLog, error) {
	var rec store.DailyLogRecord
	if err := c.do(ctx, "fetch daily log", http.MethodGet, c.userURL(userID, "logs", day), nil, &rec); err != nil {
		return model.DailyLog{}, err
	}
	return store.DailyLogFromRecord(rec), nil
}

func (c *Client) Save(ctx context.Context, userID string, log model.DailyLog) error {
	rec := store.DailyLogToRecord(userID, log)
	return c.do(ctx, "save daily log", http.MethodPut, c.userURL(userID, "logs", log.Date), rec, nil)
}

func (c *Client) ListRange(ctx context.Context, userID, start, end string) ([]model.DailyLog, error) {
	q := url.Values{"start": {start}, "end": {end}}
	var recs []store.DailyLogRecord
	if err := c.do(ctx, "list daily logs", http.MethodGet, c.userURL(userID, "logs")+"?"+q.Encode(), nil, &recs); err != nil {
		return nil, err
	}
	out := make([]model.DailyLog, 0, len(recs))
	for _, rec := range recs {
		out = append(out, store.DailyLogFromRecord(rec))
	}
	return out, nil
}

func (c *Client) LatestWeightBefore(ctx context.Context, userID, day string) (float64, string, error) {
	q := url.Values{"before": {day}}
	var resp weightResponse
	if err := c.do(ctx, "latest weight", http.MethodGet, c.userURL(userID, "weights", "latest")+"?"+q.Encode(), nil, &resp); err != nil {
		return 0, "", err
	}
	return resp.Weight, resp.Date, nil
}

func (c *Client) GetProfile(ctx context.Context, userID string) (model.Profile, error) {
	var rec store.ProfileRecord
	if err := c.do(ctx, "get profile", http.MethodGet, c.userURL(userID, "profile"), nil, &rec); err != nil {
		return model.Profile{}, err
	}
	return store.ProfileFromRecord(rec), nil
}

func (c *Client) SaveProfile(ctx context.Context, profile model.Profile) error {
	return c.do(ctx, "save profile", http.MethodPut, c.userURL(profile.UserID, "profile"), store.ProfileToRecord(profile), nil)
}
