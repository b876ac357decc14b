package workrecord

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/repsboard/payroll-backend/internal/domain/user"
	"github.com/repsboard/payroll-backend/internal/domain/workrecord"
	"github.com/repsboard/payroll-backend/internal/pkg/compensation"
	"github.com/repsboard/payroll-backend/internal/pkg/database"
	"github.com/repsboard/payroll-backend/internal/pkg/sse"
	"github.com/repsboard/payroll-backend/internal/pkg/timecodec"
)

type WorkRecordServiceImpl struct {
	tx         database.Transactor
	recordRepo workrecord.WorkRecordRepository
	events     sse.Publisher
	now        func() time.Time
}

func NewWorkRecordService(
	tx database.Transactor,
	recordRepo workrecord.WorkRecordRepository,
	events sse.Publisher,
) workrecord.WorkRecordService {
	return &WorkRecordServiceImpl{
		tx:         tx,
		recordRepo: recordRepo,
		events:     events,
		now:        time.Now,
	}
}

// ========== SAVE ==========

func (s *WorkRecordServiceImpl) Save(ctx context.Context, principal user.Principal, req workrecord.SaveWorkRecordRequest) (workrecord.SaveWorkRecordResponse, error) {
	if err := principal.Require(user.PermissionWorkRecordManage); err != nil {
		return workrecord.SaveWorkRecordResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return workrecord.SaveWorkRecordResponse{}, err
	}

	session := req.Session()
	sub := workrecord.NewSubmission(session, req.ID)

	var outcome workrecord.Outcome
	var saved workrecord.WorkRecord
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.lockAndLoad(ctx, session, req.ID)
		if err != nil {
			return err
		}

		outcome, err = workrecord.Reconcile(sub, existing)
		if err != nil {
			return err
		}

		if outcome.Action == workrecord.ActionCreated {
			saved, err = s.recordRepo.Insert(ctx, outcome.Record)
		} else {
			saved, err = s.recordRepo.Update(ctx, outcome.Record.ID, workrecord.FullPatch(outcome.Record))
		}
		return err
	})
	if err != nil {
		return workrecord.SaveWorkRecordResponse{}, err
	}

	slog.Info("Work record saved",
		"record_id", saved.ID,
		"employee_id", saved.EmployeeID,
		"date", saved.Date,
		"action", outcome.Action)

	resp := workrecord.SaveWorkRecordResponse{
		Action: outcome.Action,
		Record: workrecord.ToResponse(saved),
	}
	if session.ZeroActiveTime() {
		resp.Warnings = append(resp.Warnings, workrecord.WarningZeroActiveTime)
	}

	s.publish(saved.EmployeeID, sse.EventWorkRecordSaved, resp)
	return resp, nil
}

type dayKey struct {
	employeeID string
	date       string
}

// lockAndLoad locks the submitted day and, for an edit, the day the target
// currently sits on, then loads the records the submission is reconciled against.
func (s *WorkRecordServiceImpl) lockAndLoad(ctx context.Context, session workrecord.WorkSession, targetID string) ([]workrecord.WorkRecord, error) {
	locked := make(map[dayKey]bool)
	next := dayKey{employeeID: session.EmployeeID, date: session.Date}

	if targetID == "" {
		if err := s.lockDays(ctx, locked, next); err != nil {
			return nil, err
		}
		return s.recordRepo.Find(ctx, workrecord.Filter{
			EmployeeIDs: []string{session.EmployeeID},
			Date:        session.Date,
		})
	}

	target, err := s.recordRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if err := s.lockDays(ctx, locked, next, dayKey{employeeID: target.EmployeeID, date: target.Date}); err != nil {
		return nil, err
	}

	// Re-read under the lock: the target may have moved before its day was locked.
	for {
		target, err = s.recordRepo.GetByID(ctx, targetID)
		if err != nil {
			return nil, err
		}
		current := dayKey{employeeID: target.EmployeeID, date: target.Date}
		if locked[current] {
			return []workrecord.WorkRecord{target}, nil
		}
		if err := s.lockDays(ctx, locked, current); err != nil {
			return nil, err
		}
	}
}

// lockDays takes the day locks not yet held, in a fixed order.
func (s *WorkRecordServiceImpl) lockDays(ctx context.Context, locked map[dayKey]bool, keys ...dayKey) error {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].employeeID != keys[j].employeeID {
			return keys[i].employeeID < keys[j].employeeID
		}
		return keys[i].date < keys[j].date
	})
	for _, k := range keys {
		if locked[k] {
			continue
		}
		if err := s.recordRepo.LockEmployeeDay(ctx, k.employeeID, k.date); err != nil {
			return err
		}
		locked[k] = true
	}
	return nil
}

// ========== READ ==========

func (s *WorkRecordServiceImpl) Get(ctx context.Context, principal user.Principal, id string) (workrecord.WorkRecordResponse, error) {
	if err := principal.Require(user.PermissionWorkRecordViewOwn); err != nil {
		return workrecord.WorkRecordResponse{}, err
	}

	rec, err := s.recordRepo.GetByID(ctx, id)
	if err != nil {
		return workrecord.WorkRecordResponse{}, err
	}
	// Reps must not learn that another rep's record exists.
	if !principal.CanView(rec.EmployeeID) {
		return workrecord.WorkRecordResponse{}, workrecord.ErrWorkRecordNotFound
	}
	return workrecord.ToResponse(rec), nil
}

func (s *WorkRecordServiceImpl) List(ctx context.Context, principal user.Principal, req workrecord.ListWorkRecordsRequest) ([]workrecord.WorkRecordResponse, error) {
	if err := principal.Require(user.PermissionWorkRecordViewOwn); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	filter := req.Filter(s.now())
	if !principal.IsAdmin() {
		filter.EmployeeIDs = []string{principal.ID}
	}

	records, err := s.recordRepo.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(records, func(i, j int) bool {
		return workrecord.Less(records[i], records[j])
	})

	responses := make([]workrecord.WorkRecordResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, workrecord.ToResponse(r))
	}
	return responses, nil
}

// ========== DELETE ==========

func (s *WorkRecordServiceImpl) Delete(ctx context.Context, principal user.Principal, id string) error {
	if err := principal.Require(user.PermissionWorkRecordManage); err != nil {
		return err
	}

	var deleted workrecord.WorkRecord
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		rec, err := s.recordRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if rec.IsLocked() {
			return workrecord.ErrWorkRecordLocked
		}
		deleted = rec
		return s.recordRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	slog.Info("Work record deleted", "record_id", id, "employee_id", deleted.EmployeeID, "date", deleted.Date)
	s.publish(deleted.EmployeeID, sse.EventWorkRecordDeleted, map[string]string{"id": id, "date": deleted.Date})
	return nil
}

// ========== PREVIEW ==========

func (s *WorkRecordServiceImpl) Preview(req workrecord.PreviewRequest) workrecord.PreviewResponse {
	active := timecodec.AddSeconds(timecodec.ParseDuration(req.TalkTime), timecodec.ParseDuration(req.WaitTime))

	base := compensation.BasePaymentFloat(float64(active), req.MeetingMinutes, req.BreakMinutes,
		req.MorningMeetingMinutes, req.RatePerHour, req.SetsAdded)
	bonus := compensation.RepsBonusFloat(float64(active), req.SetsAdded, req.BreakMinutes,
		req.MeetingMinutes, req.MorningMeetingMinutes, req.IsTraining)

	resp := workrecord.PreviewResponse{
		ActiveTime:    timecodec.FormatDuration(active),
		ActiveSeconds: active,
		BasePayment:   base,
		RepsBonus:     bonus,
		TotalPayment:  base.Add(bonus),
		Training:      req.IsTraining || bonus.IsZero(),
	}
	if active == 0 {
		resp.Warnings = append(resp.Warnings, workrecord.WarningZeroActiveTime)
	}
	return resp
}

// publish notifies the rep and the administrator.
func (s *WorkRecordServiceImpl) publish(employeeID, name string, data interface{}) {
	if s.events == nil {
		return
	}
	s.events.PublishToMany([]string{employeeID, user.AdminID}, sse.Event{Event: name, Data: data})
}
