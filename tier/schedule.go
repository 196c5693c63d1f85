package tier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Schedule assigns a plan to an organization. Zero timestamps mean "now".
type Schedule struct {
	Plan        string
	Effective   time.Time
	ScheduledAt time.Time
}

// phase is the wire form of a Schedule
type phase struct {
	Plan        string `json:"plan"`
	Effective   string `json:"effective"`
	ScheduledAt string `json:"scheduled_at"`
}

type scheduleRequest struct {
	Org   string `json:"org"`
	Phase phase  `json:"phase"`
}

// Schedule reads the schedule of org when s is nil and sets it otherwise
func (c *Client) Schedule(ctx context.Context, org string, s *Schedule) (json.RawMessage, error) {
	if s == nil {
		return c.GetSchedule(ctx, org)
	}
	return c.SetSchedule(ctx, org, *s)
}

// GetSchedule retrieves the current schedule of org
func (c *Client) GetSchedule(ctx context.Context, org string) (json.RawMessage, error) {
	return c.Call(ctx, "schedule", CallOptions{
		Query: url.Values{"org": {org}},
	})
}

// SetSchedule submits a new phase for org
func (c *Client) SetSchedule(ctx context.Context, org string, s Schedule) (json.RawMessage, error) {
	return c.Call(ctx, "schedule", CallOptions{
		Method: http.MethodPost,
		Body: scheduleRequest{
			Org: org,
			Phase: phase{
				Plan:        s.Plan,
				Effective:   c.timestamp(s.Effective),
				ScheduledAt: c.timestamp(s.ScheduledAt),
			},
		},
	})
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp reads a timestamp given as RFC 3339, a plain date or unix
// seconds. It returns the zero time when s cannot be parsed.
func ParseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC()
	}
	return time.Time{}
}
