package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"gatepass/internal/badge/models"
	"gatepass/internal/badge/store"
	dErrors "gatepass/pkg/domain-errors"
	"gatepass/pkg/requestcontext"
)

type BadgeServiceSuite struct {
	suite.Suite
	badges    *store.InMemoryBadgeStore
	additions *store.InMemoryAdditionLog
	ledger    *store.InMemoryResolutionLedger
	svc       *BadgeService
	ctx       context.Context
	now       time.Time
}

func (s *BadgeServiceSuite) SetupTest() {
	s.badges = store.NewInMemoryBadgeStore()
	s.additions = store.NewInMemoryAdditionLog()
	s.ledger = store.NewInMemoryResolutionLedger()
	s.svc = NewBadgeService(s.badges, s.additions, s.ledger, slog.Default())
	s.now = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
	s.ctx = requestcontext.WithUser(s.ctx, "admin", "admin")
}

func TestBadgeServiceSuite(t *testing.T) {
	suite.Run(t, new(BadgeServiceSuite))
}

func (s *BadgeServiceSuite) permanentBadge(num string) models.Badge {
	req := s.now.AddDate(0, 0, -2)
	return models.Badge{
		Kind:             models.KindPermanent,
		BadgeNum:         num,
		FullName:         "Imane Alaoui",
		Company:          "Atlas Handling",
		CIN:              "AB123456",
		ValidityDuration: models.Validity1Year,
		RequestDate:      &req,
	}
}

func (s *BadgeServiceSuite) temporaryBadge(num string) models.Badge {
	req := s.now.AddDate(0, 0, -1)
	start := s.now.AddDate(0, 0, -1)
	end := s.now.AddDate(0, 0, 60)
	return models.Badge{
		Kind:          models.KindTemporary,
		BadgeNum:      num,
		FullName:      "Youssef Berrada",
		Company:       "Tanger Med Services",
		CIN:           "CD654321",
		RequestDate:   &req,
		ValidityStart: &start,
		ValidityEnd:   &end,
	}
}

func (s *BadgeServiceSuite) TestCreate() {
	s.Run("creates a badge and logs the addition", func() {
		s.Require().NoError(s.svc.Create(s.ctx, s.permanentBadge("P-1")))

		view, err := s.svc.Get(s.ctx, models.KindPermanent, "P-1")
		s.Require().NoError(err)
		s.Equal("Imane Alaoui", view.FullName)

		added, err := s.additions.ListNewSince(s.ctx, s.now.Add(-time.Minute))
		s.Require().NoError(err)
		s.Require().Len(added, 1)
		s.Equal("admin", added[0].AddedBy)
		s.Equal(models.AdditionNew, added[0].Status)
		s.True(added[0].AddedAt.Equal(s.now))
	})

	s.Run("rejects missing required fields per variant", func() {
		b := s.permanentBadge("P-2")
		b.ValidityDuration = ""
		err := s.svc.Create(s.ctx, b)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		tb := s.temporaryBadge("T-2")
		tb.ValidityEnd = nil
		err = s.svc.Create(s.ctx, tb)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("enforces number uniqueness across variants", func() {
		s.Require().NoError(s.svc.Create(s.ctx, s.permanentBadge("B-9")))

		dup := s.temporaryBadge("B-9")
		err := s.svc.Create(s.ctx, dup)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})
}

func (s *BadgeServiceSuite) TestGetAndList() {
	s.Require().NoError(s.svc.Create(s.ctx, s.permanentBadge("P-1")))

	s.Run("decorates with derived status", func() {
		view, err := s.svc.Get(s.ctx, models.KindPermanent, "P-1")
		s.Require().NoError(err)
		s.Equal(models.StatusPending, view.StatusReport.Status)
		s.Equal(models.ProcessingNormal, view.ProcessingReport.Status)
		s.Equal(2, view.ProcessingReport.ElapsedDays)
	})

	s.Run("a corrupt record degrades instead of aborting the list", func() {
		// Inserted behind the service's back with no dates at all.
		s.Require().NoError(s.badges.Create(s.ctx, models.Badge{
			Kind: models.KindPermanent, BadgeNum: "P-corrupt",
		}))

		views, err := s.svc.List(s.ctx, models.KindPermanent)
		s.Require().NoError(err)
		s.Require().Len(views, 2)
		s.Equal(models.StatusPending, views[1].StatusReport.Status)
		s.Equal(models.ProcessingUnknown, views[1].ProcessingReport.Status)
	})

	s.Run("get returns not found for unknown number", func() {
		_, err := s.svc.Get(s.ctx, models.KindPermanent, "P-404")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *BadgeServiceSuite) TestUpdate() {
	s.Run("updates fields in place", func() {
		s.Require().NoError(s.svc.Create(s.ctx, s.permanentBadge("P-1")))

		b := s.permanentBadge("P-1")
		b.Company = "Nador West Med"
		s.Require().NoError(s.svc.Update(s.ctx, models.KindPermanent, "P-1", b))

		view, err := s.svc.Get(s.ctx, models.KindPermanent, "P-1")
		s.Require().NoError(err)
		s.Equal("Nador West Med", view.Company)
	})

	s.Run("rename cascades to additions and ledger", func() {
		s.Require().NoError(s.svc.Create(s.ctx, s.permanentBadge("P-2")))
		s.Require().NoError(s.ledger.Record(s.ctx, models.ResolvedNotification{
			BadgeNum: "P-2", Type: "delay", ResolvedAt: s.now, ResolvedBy: "admin",
		}))

		b := s.permanentBadge("P-2-R")
		s.Require().NoError(s.svc.Update(s.ctx, models.KindPermanent, "P-2", b))

		_, err := s.svc.Get(s.ctx, models.KindPermanent, "P-2")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		_, err = s.svc.Get(s.ctx, models.KindPermanent, "P-2-R")
		s.NoError(err)

		resolved, err := s.ledger.Exists(s.ctx, "P-2-R", "delay")
		s.Require().NoError(err)
		s.True(resolved)
		resolved, err = s.ledger.Exists(s.ctx, "P-2", "delay")
		s.Require().NoError(err)
		s.False(resolved)

		added, err := s.additions.ListNewSince(s.ctx, s.now.Add(-time.Minute))
		s.Require().NoError(err)
		nums := make([]string, len(added))
		for i, a := range added {
			nums[i] = a.BadgeNum
		}
		s.Contains(nums, "P-2-R")
		s.NotContains(nums, "P-2")
	})

	s.Run("rename onto a taken number is rejected", func() {
		s.Require().NoError(s.svc.Create(s.ctx, s.temporaryBadge("T-1")))
		s.Require().NoError(s.svc.Create(s.ctx, s.temporaryBadge("T-2")))

		b := s.temporaryBadge("T-2")
		err := s.svc.Update(s.ctx, models.KindTemporary, "T-1", b)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})
}

func (s *BadgeServiceSuite) TestDelete() {
	s.Require().NoError(s.svc.Create(s.ctx, s.permanentBadge("P-1")))
	s.Require().NoError(s.ledger.Record(s.ctx, models.ResolvedNotification{
		BadgeNum: "P-1", Type: "delay", ResolvedAt: s.now, ResolvedBy: "admin",
	}))

	s.Require().NoError(s.svc.Delete(s.ctx, models.KindPermanent, "P-1"))

	_, err := s.svc.Get(s.ctx, models.KindPermanent, "P-1")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	added, err := s.additions.ListNewSince(s.ctx, s.now.Add(-time.Minute))
	s.Require().NoError(err)
	s.Empty(added)

	resolved, err := s.ledger.Exists(s.ctx, "P-1", "delay")
	s.Require().NoError(err)
	s.False(resolved)

	err = s.svc.Delete(s.ctx, models.KindPermanent, "P-1")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *BadgeServiceSuite) TestSearch() {
	s.Require().NoError(s.svc.Create(s.ctx, s.permanentBadge("P-100")))
	s.Require().NoError(s.svc.Create(s.ctx, s.temporaryBadge("T-200")))

	s.Run("matches case-insensitively across fields and variants", func() {
		results, err := s.svc.Search(s.ctx, "ATLAS")
		s.Require().NoError(err)
		s.Require().Len(results, 1)
		s.Equal("P-100", results[0].BadgeNum)

		results, err = s.svc.Search(s.ctx, "berrada")
		s.Require().NoError(err)
		s.Require().Len(results, 1)
		s.Equal(models.KindTemporary, results[0].Kind)
	})

	s.Run("permanent results come before temporary", func() {
		results, err := s.svc.Search(s.ctx, "-")
		s.Require().NoError(err)
		s.Require().Len(results, 2)
		s.Equal(models.KindPermanent, results[0].Kind)
	})

	s.Run("empty query is rejected", func() {
		_, err := s.svc.Search(s.ctx, "  ")
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func (s *BadgeServiceSuite) TestContracts() {
	s.Require().NoError(s.svc.Create(s.ctx, s.permanentBadge("P-1")))

	_, err := s.svc.ContractPath(s.ctx, models.KindPermanent, "P-1")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	s.Require().NoError(s.svc.AttachContract(s.ctx, models.KindPermanent, "P-1", "uploads/contracts/contract_P-1.pdf"))

	path, err := s.svc.ContractPath(s.ctx, models.KindPermanent, "P-1")
	s.Require().NoError(err)
	s.Equal("uploads/contracts/contract_P-1.pdf", path)
}
