package dashboard

import (
	"context"
	"sort"
	"time"

	"github.com/repsboard/payroll-backend/internal/domain/candidate"
	"github.com/repsboard/payroll-backend/internal/domain/dashboard"
	"github.com/repsboard/payroll-backend/internal/domain/user"
	"github.com/repsboard/payroll-backend/internal/domain/workrecord"
	"github.com/repsboard/payroll-backend/internal/pkg/daterange"
	"github.com/repsboard/payroll-backend/internal/pkg/timecodec"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type DashboardServiceImpl struct {
	recordRepo    workrecord.WorkRecordRepository
	candidateRepo candidate.CandidateRepository
	now           func() time.Time
}

func NewDashboardService(recordRepo workrecord.WorkRecordRepository, candidateRepo candidate.CandidateRepository) dashboard.DashboardService {
	return &DashboardServiceImpl{
		recordRepo:    recordRepo,
		candidateRepo: candidateRepo,
		now:           time.Now,
	}
}

// UnpaidSummary loads the open records and the active reps in parallel.
func (s *DashboardServiceImpl) UnpaidSummary(ctx context.Context, principal user.Principal, req dashboard.UnpaidSummaryRequest) (dashboard.UnpaidSummaryResponse, error) {
	if err := principal.Require(user.PermissionDashboardViewAll); err != nil {
		return dashboard.UnpaidSummaryResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return dashboard.UnpaidSummaryResponse{}, err
	}

	now := s.now()
	filter := workrecord.Filter{
		EmployeeIDs: req.EmployeeIDs,
		DateFrom:    req.DateFrom,
		DateTo:      req.DateTo,
		Statuses:    []workrecord.PaymentStatus{workrecord.PaymentStatusUnpaid, workrecord.PaymentStatusPending},
	}
	if filter.DateFrom == "" && filter.DateTo == "" && req.Period != "" {
		if rng, err := daterange.Resolve(daterange.Preset(req.Period), now); err == nil {
			filter.DateFrom, filter.DateTo = rng.From, rng.To
		}
	}

	var (
		records []workrecord.WorkRecord
		active  []candidate.Candidate
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		records, err = s.recordRepo.Find(gCtx, filter)
		return err
	})

	g.Go(func() error {
		var err error
		active, err = s.candidateRepo.List(gCtx, candidate.Filter{ActiveOnly: true})
		return err
	})

	if err := g.Wait(); err != nil {
		return dashboard.UnpaidSummaryResponse{}, err
	}

	resp := dashboard.UnpaidSummaryResponse{
		TotalAmount: decimal.Zero,
		TotalBonus:  decimal.Zero,
		ActiveReps:  len(active),
		DateFrom:    filter.DateFrom,
		DateTo:      filter.DateTo,
		UpdatedAt:   now.Format(time.RFC3339),
	}

	reps := make(map[string]struct{})
	for _, r := range records {
		resp.TotalAmount = resp.TotalAmount.Add(r.TotalPayment())
		resp.TotalBonus = resp.TotalBonus.Add(r.MoesTotal)
		resp.RecordCount++
		reps[r.EmployeeID] = struct{}{}
	}
	resp.RepCount = len(reps)

	return resp, nil
}

// RepSummary implements dashboard.DashboardService.
func (s *DashboardServiceImpl) RepSummary(ctx context.Context, principal user.Principal) (dashboard.RepSummaryResponse, error) {
	if err := principal.Require(user.PermissionDashboardViewOwn); err != nil {
		return dashboard.RepSummaryResponse{}, err
	}

	records, err := s.recordRepo.Find(ctx, workrecord.Filter{EmployeeIDs: []string{principal.ID}})
	if err != nil {
		return dashboard.RepSummaryResponse{}, err
	}

	resp := dashboard.RepSummaryResponse{
		EmployeeID:     principal.ID,
		UnpaidTotal:    decimal.Zero,
		PaidTotal:      decimal.Zero,
		PendingBatches: []string{},
	}

	var talk, wait int64
	pending := make(map[string]struct{})
	for _, r := range records {
		base := r.BasePayment()
		if r.PaymentStatus.Is(workrecord.PaymentStatusPaid) {
			resp.PaidTotal = resp.PaidTotal.Add(base)
		} else {
			resp.UnpaidTotal = resp.UnpaidTotal.Add(base)
		}
		if r.PaymentStatus.Is(workrecord.PaymentStatusPending) && r.PaymentBatchID != nil {
			pending[*r.PaymentBatchID] = struct{}{}
		}

		talk = timecodec.AddSeconds(talk, timecodec.ParseDuration(r.TalkTime))
		wait = timecodec.AddSeconds(wait, timecodec.ParseDuration(r.WaitTime))
		resp.TotalSets += r.SetsAdded
		resp.RecordCount++
	}

	resp.TotalTalkTime = timecodec.FormatDuration(talk)
	resp.TotalWaitTime = timecodec.FormatDuration(wait)
	resp.TotalActive = timecodec.FormatDuration(timecodec.AddSeconds(talk, wait))

	for id := range pending {
		resp.PendingBatches = append(resp.PendingBatches, id)
	}
	sort.Strings(resp.PendingBatches)

	return resp, nil
}
