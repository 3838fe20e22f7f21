package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	auditmodels "gatepass/internal/audit/models"
	"gatepass/internal/badge/models"
	"gatepass/internal/badge/store"
	notifmetrics "gatepass/internal/notification/metrics"
	dErrors "gatepass/pkg/domain-errors"
	"gatepass/pkg/platform/sentinel"
	"gatepass/pkg/requestcontext"
)

// Thresholds for feed derivation. Delay escalates to critique at ten elapsed
// days; expiry looks thirty days ahead; new-badge entries age out after a day.
const (
	criticalDelayDays = 10
	expiryWindowDays  = 30
	newBadgeWindow    = 24 * time.Hour
)

// AuditRecorder receives resolution and clear events, fire and forget.
type AuditRecorder interface {
	Record(ctx context.Context, e auditmodels.Event)
}

// Service derives the live notification feed and applies resolution actions.
// All derivation is on-demand; the only persisted state is the resolution
// ledger, the addition log, and suppression markers on the badges themselves.
type Service struct {
	badges    store.BadgeStore
	additions store.AdditionLog
	ledger    store.ResolutionLedger
	logger    *slog.Logger
	metrics   *notifmetrics.Metrics
	auditor   AuditRecorder
}

// Option configures optional Service collaborators.
type Option func(*Service)

func WithMetrics(m *notifmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAuditor(a AuditRecorder) Option {
	return func(s *Service) { s.auditor = a }
}

func NewService(badges store.BadgeStore, additions store.AdditionLog, ledger store.ResolutionLedger, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		badges:    badges,
		additions: additions,
		ledger:    ledger,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Derive computes the current feed. Collection scans fan out concurrently;
// assembly is sequential so ordering stays deterministic: severity rank
// descending, insertion order within a rank, permanent before temporary.
func (s *Service) Derive(ctx context.Context) (*Feed, error) {
	start := time.Now()
	now := requestcontext.Now(ctx)

	var (
		permanent, temporary []models.Badge
		recent               []models.BadgeAddition
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		permanent, err = s.badges.List(gctx, models.KindPermanent)
		return err
	})
	g.Go(func() error {
		var err error
		temporary, err = s.badges.List(gctx, models.KindTemporary)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.additions.ListNewSince(gctx, now.Add(-newBadgeWindow))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to derive notifications")
	}

	var feed []Notification
	summary := Summary{}

	// Delay: permanent first, then temporary, each in store order.
	for _, b := range append(append([]models.Badge{}, permanent...), temporary...) {
		if !models.IsDelayed(&b, now) {
			continue
		}
		resolved, err := s.ledger.Exists(ctx, b.BadgeNum, TypeDelay)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to derive notifications")
		}
		if resolved {
			continue
		}
		elapsed := models.DelayElapsedDays(&b, now)
		severity := SeverityAttention
		if elapsed >= criticalDelayDays {
			severity = SeverityCritique
		}
		feed = append(feed, Notification{
			Type:      TypeDelay,
			BadgeNum:  b.BadgeNum,
			BadgeKind: b.Kind,
			Message:   fmt.Sprintf("Badge %s processing delayed", b.BadgeNum),
			FullName:  b.FullName,
			Company:   b.Company,
			Severity:  severity,
			Details: map[string]any{
				"days_delayed":     elapsed,
				"dgsn_sent_date":   b.DGSNSentDate,
				"dgsn_return_date": b.DGSNReturnDate,
				"gr_sent_date":     b.GRSentDate,
				"gr_return_date":   b.GRReturnDate,
			},
		})
		summary.Delayed++
	}

	// Expiry: temporary badges inside the look-ahead window. Both suppression
	// paths are honored: a ledger entry or the in-record acknowledgement.
	for _, b := range temporary {
		if b.ValidityEnd == nil || b.ExpiryAcknowledged != nil {
			continue
		}
		end := *b.ValidityEnd
		if !now.Before(end) || end.After(now.AddDate(0, 0, expiryWindowDays)) {
			continue
		}
		remaining := models.DaysBetween(now, end)
		resolved, err := s.ledger.Exists(ctx, b.BadgeNum, TypeExpiry)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to derive notifications")
		}
		if resolved {
			continue
		}
		feed = append(feed, Notification{
			Type:      TypeExpiry,
			BadgeNum:  b.BadgeNum,
			BadgeKind: b.Kind,
			Message:   fmt.Sprintf("Badge %s nearing expiry", b.BadgeNum),
			FullName:  b.FullName,
			Company:   b.Company,
			Severity:  SeverityInfo,
			Details: map[string]any{
				"days_remaining": remaining,
				"validity_end":   b.ValidityEnd,
			},
		})
		summary.Expiring++
	}

	// New badges: suppression is solely the acknowledged flip on the addition.
	for _, a := range recent {
		addedAt := a.AddedAt
		feed = append(feed, Notification{
			Type:      TypeNewBadge,
			BadgeNum:  a.BadgeNum,
			BadgeKind: a.Kind,
			Message:   fmt.Sprintf("New %s badge added: %s", a.Kind, a.BadgeNum),
			Severity:  SeverityInfo,
			AddedBy:   a.AddedBy,
			AddedAt:   &addedAt,
		})
		summary.NewBadges++
	}

	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].Severity.rank() > feed[j].Severity.rank()
	})

	s.metrics.IncrementEmitted(TypeDelay, summary.Delayed)
	s.metrics.IncrementEmitted(TypeExpiry, summary.Expiring)
	s.metrics.IncrementEmitted(TypeNewBadge, summary.NewBadges)
	s.metrics.ObserveDerive(start)

	return &Feed{
		Notifications: feed,
		Summary:       summary,
		LastUpdated:   now,
	}, nil
}

// Resolve appends a ledger entry for (badgeNum, notifType). Resolving an
// already-resolved pair succeeds, adds no row, and reports alreadyResolved.
func (s *Service) Resolve(ctx context.Context, badgeNum, notifType string) (alreadyResolved bool, err error) {
	if badgeNum == "" || notifType == "" {
		return false, dErrors.New(dErrors.CodeBadRequest, "badge number and notification type are required")
	}
	if notifType != TypeDelay && notifType != TypeExpiry {
		return false, dErrors.New(dErrors.CodeBadRequest, "notification type is not resolvable")
	}

	entry := models.ResolvedNotification{
		BadgeNum:   badgeNum,
		Type:       notifType,
		ResolvedAt: requestcontext.Now(ctx),
		ResolvedBy: requestcontext.Username(ctx),
	}
	if err := s.ledger.Record(ctx, entry); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			s.metrics.IncrementResolution("already_resolved")
			return true, nil
		}
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve notification")
	}

	s.metrics.IncrementResolution("resolved")
	s.audit(ctx, auditmodels.ActionNotificationResolved, badgeNum, map[string]string{"type": notifType})
	return false, nil
}

// AcknowledgeNew flips a badge's addition entries to acknowledged, removing it
// from the new-badge feed. One-way; there is no un-acknowledge.
func (s *Service) AcknowledgeNew(ctx context.Context, badgeNum string) error {
	if badgeNum == "" {
		return dErrors.New(dErrors.CodeBadRequest, "badge number is required")
	}
	changed, err := s.additions.Acknowledge(ctx, badgeNum)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to acknowledge badge")
	}
	if !changed {
		return dErrors.New(dErrors.CodeNotFound, "notification not found")
	}
	s.audit(ctx, auditmodels.ActionNewBadgeAcknowledged, badgeNum, nil)
	return nil
}

// ClearAll is the administrative bulk sweep: every outstanding delay gets its
// DGSN send stamped now, every temporary badge gets expiry acknowledged, and
// the addition log is purged. No ledger rows are written; suppression comes
// entirely from the badge mutations.
func (s *Service) ClearAll(ctx context.Context) error {
	now := requestcontext.Now(ctx)

	for _, kind := range []models.Kind{models.KindPermanent, models.KindTemporary} {
		badges, err := s.badges.List(ctx, kind)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear notifications")
		}
		for _, b := range badges {
			dirty := false
			if models.IsDelayed(&b, now) {
				sent := now
				b.DGSNSent = &sent
				dirty = true
			}
			if kind == models.KindTemporary && b.ExpiryAcknowledged == nil {
				ack := now
				b.ExpiryAcknowledged = &ack
				dirty = true
			}
			if !dirty {
				continue
			}
			if err := s.badges.Update(ctx, kind, b.BadgeNum, b); err != nil {
				s.logger.ErrorContext(ctx, "failed to clear badge notification state",
					"badge_num", b.BadgeNum, "error", err)
			}
		}
	}

	if err := s.additions.Purge(ctx); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear notifications")
	}

	s.audit(ctx, auditmodels.ActionNotificationsCleared, "", nil)
	return nil
}

func (s *Service) audit(ctx context.Context, action auditmodels.Action, badgeNum string, details map[string]string) {
	if s.auditor == nil {
		return
	}
	s.auditor.Record(ctx, auditmodels.Event{
		Action:   action,
		BadgeNum: badgeNum,
		Actor:    requestcontext.Username(ctx),
		At:       requestcontext.Now(ctx),
		Details:  details,
	})
}
