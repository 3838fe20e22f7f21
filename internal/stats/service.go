package stats

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"gatepass/internal/badge/models"
	"gatepass/internal/badge/store"
	dErrors "gatepass/pkg/domain-errors"
	"gatepass/pkg/requestcontext"
)

// Bucket is one period's creation count.
type Bucket struct {
	Period string `json:"period"`
	Count  int    `json:"count"`
}

// Creations groups per-variant creation counts by month and year. Permanent
// and temporary bucket on the request date, recovered on the recovery date.
type Creations struct {
	PermanentByMonth []Bucket `json:"permanent_by_month"`
	TemporaryByMonth []Bucket `json:"temporary_by_month"`
	RecoveredByMonth []Bucket `json:"recovered_by_month"`
	PermanentByYear  []Bucket `json:"permanent_by_year"`
	TemporaryByYear  []Bucket `json:"temporary_by_year"`
	RecoveredByYear  []Bucket `json:"recovered_by_year"`
}

// Summary is the population snapshot. Status counts are derived live through
// the validity policies, never read from stored fields.
type Summary struct {
	TotalPermanent    int     `json:"total_permanent"`
	TotalTemporary    int     `json:"total_temporary"`
	TotalRecovered    int     `json:"total_recovered"`
	ActiveBadges      int     `json:"active_badges"`
	ExpiredBadges     int     `json:"expired_badges"`
	PendingBadges     int     `json:"pending_badges"`
	Companies         int     `json:"companies"`
	AvgProcessingTime float64 `json:"avg_processing_time"`
}

// NotificationCounts mirrors the feed categories as raw counts, without the
// suppression checks the real feed applies.
type NotificationCounts struct {
	Delayed   int `json:"delayed"`
	Expiring  int `json:"expiring"`
	NewBadges int `json:"new_badges"`
	Total     int `json:"total"`
}

// Overview is the full stats response.
type Overview struct {
	Stats         Creations          `json:"stats"`
	Summary       Summary            `json:"summary"`
	Notifications NotificationCounts `json:"notifications"`
}

// Service aggregates the badge population into dashboard figures.
type Service struct {
	badges    store.BadgeStore
	additions store.AdditionLog
	logger    *slog.Logger
}

func NewService(badges store.BadgeStore, additions store.AdditionLog, logger *slog.Logger) *Service {
	return &Service{badges: badges, additions: additions, logger: logger}
}

// Overview computes all dashboard aggregates in one pass over the three
// collections, fanned out concurrently.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	now := requestcontext.Now(ctx)

	var (
		permanent, temporary, recovered []models.Badge
		recent                          []models.BadgeAddition
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
		recovered, err = s.badges.List(gctx, models.KindRecovered)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.additions.ListNewSince(gctx, now.Add(-24*time.Hour))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to compute stats")
	}

	requestDate := func(b models.Badge) *time.Time { return b.RequestDate }
	recoveryDate := func(b models.Badge) *time.Time { return b.RecoveryDate }

	overview := &Overview{
		Stats: Creations{
			PermanentByMonth: bucketize(permanent, requestDate, "2006-01"),
			TemporaryByMonth: bucketize(temporary, requestDate, "2006-01"),
			RecoveredByMonth: bucketize(recovered, recoveryDate, "2006-01"),
			PermanentByYear:  bucketize(permanent, requestDate, "2006"),
			TemporaryByYear:  bucketize(temporary, requestDate, "2006"),
			RecoveredByYear:  bucketize(recovered, recoveryDate, "2006"),
		},
	}

	overview.Summary = s.summarize(permanent, temporary, recovered, now)
	overview.Notifications = s.countNotifications(permanent, temporary, recent, now)
	return overview, nil
}

// bucketize groups badges by the layout-formatted value of one date field.
// Records without the field are skipped, never counted as a failure.
func bucketize(badges []models.Badge, field func(models.Badge) *time.Time, layout string) []Bucket {
	counts := make(map[string]int)
	for _, b := range badges {
		if d := field(b); d != nil {
			counts[d.Format(layout)]++
		}
	}
	buckets := make([]Bucket, 0, len(counts))
	for period, count := range counts {
		buckets = append(buckets, Bucket{Period: period, Count: count})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Period < buckets[j].Period })
	return buckets
}

func (s *Service) summarize(permanent, temporary, recovered []models.Badge, now time.Time) Summary {
	summary := Summary{
		TotalPermanent: len(permanent),
		TotalTemporary: len(temporary),
		TotalRecovered: len(recovered),
	}

	companies := make(map[string]struct{})
	var processingDays []int

	for _, b := range append(append([]models.Badge{}, permanent...), temporary...) {
		companies[b.Company] = struct{}{}

		switch models.Classify(&b, now).Status {
		case models.StatusValid, models.StatusActive:
			summary.ActiveBadges++
		case models.StatusExpired:
			summary.ExpiredBadges++
		case models.StatusPending:
			summary.PendingBadges++
		}

		// Negative samples (return recorded before the request) are excluded
		// from the average, matching the historical figure.
		if report := models.ProcessingStatusOf(&b, now); report.Completed && report.ProcessingDays >= 0 {
			processingDays = append(processingDays, report.ProcessingDays)
		}
	}

	summary.Companies = len(companies)
	if len(processingDays) > 0 {
		total := 0
		for _, d := range processingDays {
			total += d
		}
		avg := float64(total) / float64(len(processingDays))
		summary.AvgProcessingTime = math.Round(avg*10) / 10
	}
	return summary
}

func (s *Service) countNotifications(permanent, temporary []models.Badge, recent []models.BadgeAddition, now time.Time) NotificationCounts {
	counts := NotificationCounts{NewBadges: len(recent)}

	for _, b := range append(append([]models.Badge{}, permanent...), temporary...) {
		if models.IsDelayed(&b, now) {
			counts.Delayed++
		}
	}
	for _, b := range temporary {
		if b.ValidityEnd == nil {
			continue
		}
		end := *b.ValidityEnd
		if now.Before(end) && !end.After(now.AddDate(0, 0, 30)) {
			counts.Expiring++
		}
	}

	counts.Total = counts.Delayed + counts.Expiring + counts.NewBadges
	return counts
}
