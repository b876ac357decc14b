package batch

import (
	"sort"
	"time"

	"github.com/repsboard/payroll-backend/internal/domain/workrecord"
	"github.com/shopspring/decimal"
)

// Summary is a read-only view over the work records that share a batch id.
// Batches are not stored on their own.
type Summary struct {
	ID            string
	Status        workrecord.PaymentStatus
	RecordCount   int
	EmployeeCount int
	TotalBase     decimal.Decimal
	TotalBonus    decimal.Decimal
	TotalAmount   decimal.Decimal
	DateFrom      string
	DateTo        string
	CreatedAt     time.Time
}

// Summarize groups records by batch id. Records without a batch are ignored.
// The result is ordered newest batch first.
func Summarize(records []workrecord.WorkRecord) []Summary {
	byID := make(map[string]*Summary)
	employees := make(map[string]map[string]struct{})

	for _, r := range records {
		if r.PaymentBatchID == nil || *r.PaymentBatchID == "" {
			continue
		}
		id := *r.PaymentBatchID
		s, ok := byID[id]
		if !ok {
			createdAt, _ := CreatedAt(id)
			s = &Summary{ID: id, Status: r.PaymentStatus, DateFrom: r.Date, DateTo: r.Date, CreatedAt: createdAt}
			byID[id] = s
			employees[id] = make(map[string]struct{})
		}

		base := r.BasePayment()
		s.RecordCount++
		s.TotalBase = s.TotalBase.Add(base)
		s.TotalBonus = s.TotalBonus.Add(r.MoesTotal)
		s.TotalAmount = s.TotalAmount.Add(base).Add(r.MoesTotal)
		if r.Date < s.DateFrom {
			s.DateFrom = r.Date
		}
		if r.Date > s.DateTo {
			s.DateTo = r.Date
		}
		// A batch caught mid-transition reports pending until every member moved.
		if r.PaymentStatus.Is(workrecord.PaymentStatusPending) {
			s.Status = workrecord.PaymentStatusPending
		}
		employees[id][r.EmployeeID] = struct{}{}
	}

	summaries := make([]Summary, 0, len(byID))
	for id, s := range byID {
		s.EmployeeCount = len(employees[id])
		summaries = append(summaries, *s)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ID > summaries[j].ID })
	return summaries
}

// IsStale reports a batch still pending longer than after. Batches without a readable
// creation time are never stale.
func (s Summary) IsStale(now time.Time, after time.Duration) bool {
	if s.CreatedAt.IsZero() || !s.Status.Is(workrecord.PaymentStatusPending) {
		return false
	}
	return now.Sub(s.CreatedAt) > after
}
