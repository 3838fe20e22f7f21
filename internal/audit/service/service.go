// Package service decouples audit capture from persistence. Domain services
// push events onto a buffered channel; a worker drains it to the store and,
// when configured, mirrors each event onto a Kafka topic.
package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"gatepass/internal/audit/models"
	"gatepass/pkg/requestcontext"
)

const defaultBufferSize = 256

// Service accepts audit events without blocking the request path. When the
// buffer is full the event is dropped with a warning; badge operations never
// wait on the audit trail.
type Service struct {
	inbox  chan models.Event
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	return &Service{
		inbox:  make(chan models.Event, defaultBufferSize),
		logger: logger,
	}
}

// Record fills in the event identity and timestamp, then hands it to the
// worker. Safe to call from any goroutine.
func (s *Service) Record(ctx context.Context, e models.Event) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.At.IsZero() {
		e.At = requestcontext.Now(ctx)
	}
	if e.Actor == "" {
		e.Actor = requestcontext.Username(ctx)
	}

	select {
	case s.inbox <- e:
	default:
		s.logger.WarnContext(ctx, "audit buffer full, event dropped",
			"action", e.Action,
			"badge_num", e.BadgeNum,
		)
	}
}

// Events exposes the inbox for the worker.
func (s *Service) Events() <-chan models.Event {
	return s.inbox
}
