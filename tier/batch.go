package tier

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultReserveConcurrency bounds the requests in flight during ReserveAll
const DefaultReserveConcurrency = 4

// ReserveRequest is one item of a batch reservation
type ReserveRequest struct {
	Feature string
	N       int
}

// ReserveOutcome holds the result or error of one batch item
type ReserveOutcome struct {
	Feature string
	N       int
	Result  *ReservationResult
	Err     error
}

// ReserveAll reserves every request for org concurrently. Outcomes keep the
// order of reqs; a failing item does not stop the others. The returned error
// is non-nil only when ctx ends before all items were sent.
func (c *Client) ReserveAll(ctx context.Context, org string, reqs []ReserveRequest, opts ...ReserveOption) ([]ReserveOutcome, error) {
	outcomes := make([]ReserveOutcome, len(reqs))
	if len(reqs) == 0 {
		return outcomes, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(DefaultReserveConcurrency)

	for i, req := range reqs {
		outcomes[i] = ReserveOutcome{Feature: req.Feature, N: req.N}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				outcomes[i].Err = err
				return err
			}
			result, err := c.Reserve(gctx, org, req.Feature, req.N, opts...)
			// each goroutine owns its slot
			outcomes[i].Result = result
			outcomes[i].Err = err
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return outcomes, err
	}
	return outcomes, ctx.Err()
}
