package tier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Usage is the usage summary of a feature
type Usage struct {
	Used    int `json:"Used"`
	Limit   int `json:"Limit"`
	Overage int `json:"Overage"`
}

// ReservationResult is the service's reply to a reservation, extended with
// the amount the caller may actually consume.
type ReservationResult struct {
	Org     string `json:"Org,omitempty"`
	Feature string `json:"Feature,omitempty"`
	N       int    `json:"N,omitempty"`
	Total   Usage  `json:"Total"`

	// AmountAuthorized is the part of N that fits within the plan
	AmountAuthorized int `json:"amountAuthorized"`
	// Overage is set only when the reservation spilled over the plan limit
	Overage int `json:"overage,omitempty"`

	// Raw is the reply exactly as the service sent it
	Raw json.RawMessage `json:"-"`
}

// MarshalJSON writes the reply as the service sent it, with
// amountAuthorized and overage set on top. Without a raw object reply the
// decoded fields are written instead.
func (r ReservationResult) MarshalJSON() ([]byte, error) {
	type plain ReservationResult

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(r.Raw, &fields); err != nil || fields == nil {
		return json.Marshal(plain(r))
	}

	authorized, err := json.Marshal(r.AmountAuthorized)
	if err != nil {
		return nil, err
	}
	fields["amountAuthorized"] = authorized

	delete(fields, "overage")
	if r.Overage > 0 {
		overage, err := json.Marshal(r.Overage)
		if err != nil {
			return nil, err
		}
		fields["overage"] = overage
	}
	return json.Marshal(fields)
}

// HasOverage reports whether any of the reservation went beyond the plan
func (r *ReservationResult) HasOverage() bool {
	return r.Overage > 0
}

type reserveOptions struct {
	now          time.Time
	allowOverage bool
}

// ReserveOption configures a reservation
type ReserveOption func(*reserveOptions)

// WithNow records the reservation at t instead of the current instant
func WithNow(t time.Time) ReserveOption {
	return func(o *reserveOptions) {
		o.now = t
	}
}

// WithAllowOverage controls whether a reservation entirely beyond the plan
// limit is reported as an OverageError. Overage is allowed by default.
func WithAllowOverage(allow bool) ReserveOption {
	return func(o *reserveOptions) {
		o.allowOverage = allow
	}
}

type reserveRequest struct {
	Org     string `json:"org"`
	Feature string `json:"feature"`
	N       int    `json:"N"`
	Now     string `json:"now"`
}

// Reserve consumes n units of feature for org and reports how many of them
// are covered by the plan. The service always records the full amount.
func (c *Client) Reserve(ctx context.Context, org, feature string, n int, opts ...ReserveOption) (*ReservationResult, error) {
	if n < 1 {
		return nil, ErrInvalidQuantity
	}

	o := reserveOptions{allowOverage: true}
	for _, opt := range opts {
		opt(&o)
	}

	raw, err := c.Call(ctx, "reserve", CallOptions{
		Method: http.MethodPost,
		Body: reserveRequest{
			Org:     org,
			Feature: feature,
			N:       n,
			Now:     c.timestamp(o.now),
		},
	})
	if err != nil {
		return nil, err
	}

	var result ReservationResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode reserve response: %w", err)
	}
	result.Raw = raw

	err = accountReservation(&result, n, o.allowOverage)
	c.metrics.observeOverage(feature, result.Total.Overage, err != nil)
	if err != nil {
		c.logger.Debug().
			Str("org", org).
			Str("feature", feature).
			Int("n", n).
			Int("overage", result.Total.Overage).
			Msg("reservation denied")
		return nil, err
	}
	return &result, nil
}

// accountReservation sets the authorized amount for a request of n units
func accountReservation(result *ReservationResult, n int, allowOverage bool) error {
	result.AmountAuthorized = n
	result.Overage = 0

	over := result.Total.Overage
	if over <= 0 {
		return nil
	}
	if !allowOverage && over >= n {
		return &OverageError{Code: OverageCode, Overage: over}
	}
	result.Overage = over
	result.AmountAuthorized -= min(n, over)
	return nil
}
