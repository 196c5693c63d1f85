package tier

import (
	"context"
	"encoding/json"
)

// API defines the operations offered by the Tier client
type API interface {
	// Call sends a raw request to an API endpoint
	Call(ctx context.Context, endpoint string, opts CallOptions) (json.RawMessage, error)

	// Schedule reads the schedule when s is nil and replaces it otherwise
	Schedule(ctx context.Context, org string, s *Schedule) (json.RawMessage, error)
	GetSchedule(ctx context.Context, org string) (json.RawMessage, error)
	SetSchedule(ctx context.Context, org string, s Schedule) (json.RawMessage, error)

	// Reserve consumes n units of feature for org
	Reserve(ctx context.Context, org, feature string, n int, opts ...ReserveOption) (*ReservationResult, error)
	ReserveAll(ctx context.Context, org string, reqs []ReserveRequest, opts ...ReserveOption) ([]ReserveOutcome, error)

	// Model reads the pricing model when model is nil and pushes it otherwise
	Model(ctx context.Context, model any) (json.RawMessage, error)
	GetModel(ctx context.Context) (json.RawMessage, error)
	SetModel(ctx context.Context, model any) (json.RawMessage, error)
}
