package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	auditmodels "gatepass/internal/audit/models"
	badgemetrics "gatepass/internal/badge/metrics"
	"gatepass/internal/badge/models"
	"gatepass/internal/badge/store"
	dErrors "gatepass/pkg/domain-errors"
	"gatepass/pkg/platform/sentinel"
	"gatepass/pkg/requestcontext"
)

// AuditRecorder receives lifecycle events. Recording is fire and forget; a
// full audit pipeline failure must never fail a badge write.
type AuditRecorder interface {
	Record(ctx context.Context, e auditmodels.Event)
}

// BadgeView is a badge decorated with its derived validity and processing
// state, the shape list and get responses carry.
type BadgeView struct {
	models.Badge
	StatusReport     models.StatusReport     `json:"status_report"`
	ProcessingReport models.ProcessingReport `json:"processing_report"`
}

// BadgeService orchestrates badge CRUD across the three variant collections,
// keeping the addition log and resolution ledger consistent with badge writes.
type BadgeService struct {
	badges    store.BadgeStore
	additions store.AdditionLog
	ledger    store.ResolutionLedger
	logger    *slog.Logger
	metrics   *badgemetrics.Metrics
	auditor   AuditRecorder
}

// Option configures optional BadgeService collaborators.
type Option func(*BadgeService)

func WithMetrics(m *badgemetrics.Metrics) Option {
	return func(s *BadgeService) { s.metrics = m }
}

func WithAuditor(a AuditRecorder) Option {
	return func(s *BadgeService) { s.auditor = a }
}

func NewBadgeService(badges store.BadgeStore, additions store.AdditionLog, ledger store.ResolutionLedger, logger *slog.Logger, opts ...Option) *BadgeService {
	s := &BadgeService{
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

// Create validates and inserts a badge. Badge numbers are unique across the
// union of the three collections, not per collection. Every successful create
// appends an addition log entry in status new.
func (s *BadgeService) Create(ctx context.Context, b models.Badge) error {
	if err := validateForCreate(b); err != nil {
		return err
	}

	taken, err := s.badges.ExistsAnywhere(ctx, b.BadgeNum)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check badge number")
	}
	if taken {
		return dErrors.New(dErrors.CodeConflict, "badge number already exists")
	}

	if err := s.badges.Create(ctx, b); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return dErrors.New(dErrors.CodeConflict, "badge number already exists")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create badge")
	}

	now := requestcontext.Now(ctx)
	addition := models.BadgeAddition{
		BadgeNum: b.BadgeNum,
		Kind:     b.Kind,
		AddedAt:  now,
		AddedBy:  requestcontext.Username(ctx),
		Status:   models.AdditionNew,
	}
	if err := s.additions.Append(ctx, addition); err != nil {
		// The badge exists; a missed addition entry only costs a new-badge
		// notification.
		s.logger.ErrorContext(ctx, "failed to record badge addition",
			"badge_num", b.BadgeNum, "error", err)
		s.metrics.IncrementCascadeFailure("addition_append")
	}

	s.metrics.IncrementCreated(string(b.Kind))
	s.audit(ctx, auditmodels.ActionBadgeCreated, b.Kind, b.BadgeNum, nil)
	return nil
}

// Get returns one badge decorated with its derived state.
func (s *BadgeService) Get(ctx context.Context, kind models.Kind, badgeNum string) (BadgeView, error) {
	b, err := s.badges.Get(ctx, kind, badgeNum)
	if err != nil {
		return BadgeView{}, wrapBadgeErr(err)
	}
	return s.decorate(ctx, b), nil
}

// List returns one variant's collection, each badge decorated. A record with
// corrupt dates degrades to unknown/pending status; it never aborts the list.
func (s *BadgeService) List(ctx context.Context, kind models.Kind) ([]BadgeView, error) {
	badges, err := s.badges.List(ctx, kind)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list badges")
	}
	views := make([]BadgeView, 0, len(badges))
	for _, b := range badges {
		views = append(views, s.decorate(ctx, b))
	}
	return views, nil
}

// Update replaces a badge's stored fields. The badge number may change; the
// new number must be free across all collections and the change cascades to
// the addition log and resolution ledger as sequential steps. A crash between
// steps can leave entries under the old number; that window is accepted.
func (s *BadgeService) Update(ctx context.Context, kind models.Kind, badgeNum string, b models.Badge) error {
	b.Kind = kind
	if b.BadgeNum == "" {
		b.BadgeNum = badgeNum
	}

	renamed := b.BadgeNum != badgeNum
	if renamed {
		taken, err := s.badges.ExistsAnywhere(ctx, b.BadgeNum)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check badge number")
		}
		if taken {
			return dErrors.New(dErrors.CodeConflict, "badge number already exists")
		}
	}

	if err := s.badges.Update(ctx, kind, badgeNum, b); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return dErrors.New(dErrors.CodeConflict, "badge number already exists")
		}
		return wrapBadgeErr(err)
	}

	if renamed {
		if err := s.additions.RenameBadge(ctx, badgeNum, b.BadgeNum); err != nil {
			s.logger.ErrorContext(ctx, "failed to rename addition entries",
				"old", badgeNum, "new", b.BadgeNum, "error", err)
			s.metrics.IncrementCascadeFailure("addition_rename")
		}
		if err := s.ledger.RenameBadge(ctx, badgeNum, b.BadgeNum); err != nil {
			s.logger.ErrorContext(ctx, "failed to rename ledger entries",
				"old", badgeNum, "new", b.BadgeNum, "error", err)
			s.metrics.IncrementCascadeFailure("ledger_rename")
		}
		s.audit(ctx, auditmodels.ActionBadgeRenamed, kind, b.BadgeNum, map[string]string{"old_badge_num": badgeNum})
		return nil
	}

	s.audit(ctx, auditmodels.ActionBadgeUpdated, kind, badgeNum, nil)
	return nil
}

// Delete removes a badge and cascades its addition log and resolution ledger
// entries as sequential steps (same accepted window as rename).
func (s *BadgeService) Delete(ctx context.Context, kind models.Kind, badgeNum string) error {
	if err := s.badges.Delete(ctx, kind, badgeNum); err != nil {
		return wrapBadgeErr(err)
	}
	if err := s.additions.DeleteByBadge(ctx, badgeNum); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete addition entries",
			"badge_num", badgeNum, "error", err)
		s.metrics.IncrementCascadeFailure("addition_delete")
	}
	if err := s.ledger.DeleteByBadge(ctx, badgeNum); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete ledger entries",
			"badge_num", badgeNum, "error", err)
		s.metrics.IncrementCascadeFailure("ledger_delete")
	}

	s.metrics.IncrementDeleted(string(kind))
	s.audit(ctx, auditmodels.ActionBadgeDeleted, kind, badgeNum, nil)
	return nil
}

// Count returns the size of one variant's collection.
func (s *BadgeService) Count(ctx context.Context, kind models.Kind) (int, error) {
	n, err := s.badges.Count(ctx, kind)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count badges")
	}
	return n, nil
}

// Search matches the query as a case-insensitive substring against badge
// number, full name, company, and CIN across all three collections. Results
// keep store iteration order, permanent first.
func (s *BadgeService) Search(ctx context.Context, query string) ([]models.Badge, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "search query is required")
	}

	var results []models.Badge
	for _, kind := range models.Kinds() {
		badges, err := s.badges.List(ctx, kind)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to search badges")
		}
		for _, b := range badges {
			if matchesQuery(b, query) {
				results = append(results, b)
			}
		}
	}
	return results, nil
}

func matchesQuery(b models.Badge, query string) bool {
	for _, field := range []string{b.BadgeNum, b.FullName, b.Company, b.CIN} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// AttachContract records the stored contract document path on the badge. The
// file itself is owned by the contract storage layer; only the path lives here.
func (s *BadgeService) AttachContract(ctx context.Context, kind models.Kind, badgeNum, path string) error {
	b, err := s.badges.Get(ctx, kind, badgeNum)
	if err != nil {
		return wrapBadgeErr(err)
	}
	b.ContractPath = path
	if err := s.badges.Update(ctx, kind, badgeNum, b); err != nil {
		return wrapBadgeErr(err)
	}
	s.audit(ctx, auditmodels.ActionContractAttached, kind, badgeNum, map[string]string{"path": path})
	return nil
}

// ContractPath returns the stored contract path for a badge, or a not-found
// error when the badge has no contract attached.
func (s *BadgeService) ContractPath(ctx context.Context, kind models.Kind, badgeNum string) (string, error) {
	b, err := s.badges.Get(ctx, kind, badgeNum)
	if err != nil {
		return "", wrapBadgeErr(err)
	}
	if b.ContractPath == "" {
		return "", dErrors.New(dErrors.CodeNotFound, "contract not found")
	}
	return b.ContractPath, nil
}

func (s *BadgeService) decorate(ctx context.Context, b models.Badge) BadgeView {
	now := requestcontext.Now(ctx)
	return BadgeView{
		Badge:            b,
		StatusReport:     models.Classify(&b, now),
		ProcessingReport: models.ProcessingStatusOf(&b, now),
	}
}

func (s *BadgeService) audit(ctx context.Context, action auditmodels.Action, kind models.Kind, badgeNum string, details map[string]string) {
	if s.auditor == nil {
		return
	}
	s.auditor.Record(ctx, auditmodels.Event{
		Action:   action,
		BadgeNum: badgeNum,
		Kind:     string(kind),
		Actor:    requestcontext.Username(ctx),
		At:       requestcontext.Now(ctx),
		Details:  details,
	})
}

func wrapBadgeErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "badge not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "badge store failure")
}
