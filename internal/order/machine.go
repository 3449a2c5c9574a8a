package order

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vanshh13/GreenCart-sub000/internal/logkey"
	"github.com/vanshh13/GreenCart-sub000/internal/notify"
)

// StatusMachine applies status transitions to already-persisted orders. Each
// call re-reads the current status under a row lock before validating, so two
// concurrent attempts on the same order serialize and the loser validates
// against the winner's result.
type StatusMachine struct {
	uow      UnitOfWork
	notifier notify.Notifier
}

func NewStatusMachine(uow UnitOfWork, notifier notify.Notifier) *StatusMachine {
	return &StatusMachine{uow: uow, notifier: notifier}
}

func (m *StatusMachine) Transition(ctx context.Context, orderID string, requested Status, actorID string) (*Order, error) {
	var updated *Order
	var from Status

	err := m.uow.Run(ctx, func(ops Ops) error {
		o, err := ops.Orders().GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		from = o.Status
		if err := CanTransition(o.Status, requested); err != nil {
			return err
		}
		at := time.Now().UTC()
		if err := ops.Orders().SetStatus(ctx, orderID, requested, at); err != nil {
			return err
		}
		o.Status = requested
		o.Timestamps[requested] = at
		o.UpdatedAt = at
		updated = o
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}

	m.notifier.Emit(ctx, notify.Event{
		Type:    notify.TypeStatusChange,
		Message: fmt.Sprintf("Order %s moved from %s to %s", orderID, from, requested),
		ActorID: actorID,
		Data:    notify.OrderStatusEvent{OrderID: orderID, From: string(from), To: string(requested)},
	})
	slog.Info("order status changed",
		slog.String(logkey.OrderID, orderID),
		slog.String(logkey.Status, string(requested)),
	)
	return updated, nil
}
