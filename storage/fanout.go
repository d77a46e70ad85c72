package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/poiesic/bazaar/core"
)

// FanoutSink delivers each ticket to every wrapped sink.
// All sinks are attempted and their errors are joined. When at least one
// sink accepted the ticket the error also wraps ErrPartialDelivery.
type FanoutSink []TicketSink

var _ TicketSink = FanoutSink(nil)

// SubmitTicket submits ticket to each sink in order.
func (f FanoutSink) SubmitTicket(ctx context.Context, ticket *core.EscalationTicket) error {
	var errs []error
	delivered := 0
	for _, sink := range f {
		if sink == nil {
			continue
		}
		if err := sink.SubmitTicket(ctx, ticket); err != nil {
			errs = append(errs, err)
			continue
		}
		delivered++
	}
	if len(errs) == 0 {
		return nil
	}
	if delivered > 0 {
		return fmt.Errorf("%w: %w", ErrPartialDelivery, errors.Join(errs...))
	}
	return errors.Join(errs...)
}
