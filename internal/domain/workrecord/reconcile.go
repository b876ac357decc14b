package workrecord

import (
	"github.com/repsboard/payroll-backend/internal/pkg/compensation"
	"github.com/repsboard/payroll-backend/internal/pkg/timecodec"
	"github.com/shopspring/decimal"
)

// Action tells the caller what Reconcile did with a submission.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionMerged  Action = "merged"
)

// Submission is a session together with the bonus and training flag computed at submit time.
type Submission struct {
	// TargetID is set when an existing record is being edited.
	TargetID string
	Session  WorkSession
	Bonus    decimal.Decimal
	Training bool
}

// NewSubmission computes the session bonus. A session is training when it was
// flagged as such or when its bonus comes out as zero. The rate is rounded to
// the precision it is stored with.
func NewSubmission(session WorkSession, targetID string) Submission {
	session.RatePerHour = compensation.RoundRate(session.RatePerHour)
	bonus := compensation.RepsBonus(session.Measures(), session.IsTrainingRequested)
	return Submission{
		TargetID: targetID,
		Session:  session,
		Bonus:    bonus,
		Training: session.IsTrainingRequested || bonus.IsZero(),
	}
}

// Outcome is the record to persist and how it was derived.
type Outcome struct {
	Action Action
	Record WorkRecord
}

// Reconcile decides how a submission lands in the record set.
//
// An edit overwrites the targeted record. Otherwise a record for the same employee and
// date absorbs the submission (merge), and if there is none a new record is produced.
// A created record has no ID yet; the repository assigns it on insert.
// Paid records are never modified.
func Reconcile(sub Submission, existing []WorkRecord) (Outcome, error) {
	if sub.TargetID != "" {
		for _, r := range existing {
			if r.ID != sub.TargetID {
				continue
			}
			if r.IsLocked() {
				return Outcome{}, ErrWorkRecordLocked
			}
			return Outcome{Action: ActionUpdated, Record: overwrite(r, sub)}, nil
		}
		return Outcome{}, ErrWorkRecordNotFound
	}

	for _, r := range existing {
		if r.EmployeeID != sub.Session.EmployeeID || r.Date != sub.Session.Date {
			continue
		}
		if r.IsLocked() {
			return Outcome{}, ErrWorkRecordLocked
		}
		return Outcome{Action: ActionMerged, Record: merge(r, sub)}, nil
	}

	return Outcome{Action: ActionCreated, Record: create(sub)}, nil
}

func create(sub Submission) WorkRecord {
	s := sub.Session
	return WorkRecord{
		EmployeeID:            s.EmployeeID,
		Date:                  s.Date,
		TalkTime:              timecodec.Normalize(s.TalkTime),
		WaitTime:              timecodec.Normalize(s.WaitTime),
		RatePerHour:           nonNegative(s.RatePerHour),
		SetsAdded:             s.SetsAdded,
		BreakMinutes:          s.BreakMinutes,
		MeetingMinutes:        s.MeetingMinutes,
		MorningMeetingMinutes: s.MorningMeetingMinutes,
		MoesTotal:             sub.Bonus,
		Training:              sub.Training,
		PaymentStatus:         PaymentStatusUnpaid,
	}
}

func overwrite(r WorkRecord, sub Submission) WorkRecord {
	s := sub.Session
	r.EmployeeID = s.EmployeeID
	r.Date = s.Date
	r.TalkTime = timecodec.Normalize(s.TalkTime)
	r.WaitTime = timecodec.Normalize(s.WaitTime)
	r.RatePerHour = nonNegative(s.RatePerHour)
	r.SetsAdded = s.SetsAdded
	r.BreakMinutes = s.BreakMinutes
	r.MeetingMinutes = s.MeetingMinutes
	r.MorningMeetingMinutes = s.MorningMeetingMinutes
	r.MoesTotal = sub.Bonus
	r.Training = sub.Training
	return r
}

// merge adds the submission onto an existing same-day record. The rate is replaced
// only by a positive new rate, and training is re-derived from the accumulated bonus.
func merge(r WorkRecord, sub Submission) WorkRecord {
	s := sub.Session
	r.TalkTime = timecodec.SumDurations(r.TalkTime, s.TalkTime)
	r.WaitTime = timecodec.SumDurations(r.WaitTime, s.WaitTime)
	r.BreakMinutes += s.BreakMinutes
	r.MeetingMinutes += s.MeetingMinutes
	r.MorningMeetingMinutes += s.MorningMeetingMinutes
	r.SetsAdded += s.SetsAdded
	r.MoesTotal = r.MoesTotal.Add(sub.Bonus)
	if s.RatePerHour.IsPositive() {
		r.RatePerHour = s.RatePerHour
	}
	r.Training = r.MoesTotal.IsZero()
	return r
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
