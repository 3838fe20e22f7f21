package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"gatepass/internal/audit/models"
	"gatepass/internal/audit/store"
	"gatepass/internal/platform/kafka"
)

// Worker drains the audit inbox into the store and, when a publisher is
// wired, mirrors each event onto the audit topic. Store failures are logged
// and the worker keeps going; the trail is best-effort by design of the
// request path, which already succeeded.
type Worker struct {
	store     store.Store
	publisher *kafka.Publisher
	inbox     <-chan models.Event
	logger    *slog.Logger
}

func NewWorker(st store.Store, publisher *kafka.Publisher, inbox <-chan models.Event, logger *slog.Logger) *Worker {
	return &Worker{store: st, publisher: publisher, inbox: inbox, logger: logger}
}

// Run processes events until ctx is cancelled, then drains whatever is
// already buffered before returning.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return ctx.Err()
		case event := <-w.inbox:
			w.process(ctx, event)
		}
	}
}

func (w *Worker) drain() {
	// Persisting buffered events must outlive the server context.
	ctx := context.Background()
	for {
		select {
		case event := <-w.inbox:
			w.process(ctx, event)
		default:
			return
		}
	}
}

func (w *Worker) process(ctx context.Context, event models.Event) {
	if err := w.store.Append(ctx, event); err != nil {
		w.logger.Error("failed to persist audit event",
			"action", event.Action,
			"badge_num", event.BadgeNum,
			"error", err,
		)
	}

	if w.publisher == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		w.logger.Error("failed to marshal audit event", "action", event.Action, "error", err)
		return
	}
	key := event.BadgeNum
	if key == "" {
		key = event.Actor
	}
	w.publisher.Publish(ctx, key, payload)
}
