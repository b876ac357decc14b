// Package compensation holds the pay rules for a single work session: the base payment
// (hourly rate plus a fixed amount per set) and the reps bonus stored as moes_total.
//
// Breaks, meetings and morning meetings are paid time for both calculations.
// All functions are pure and safe for concurrent use.
package compensation

import (
	"math"

	"github.com/shopspring/decimal"
)

var (
	// PerSetPay is paid on top of the hourly amount for every set added.
	PerSetPay = decimal.NewFromInt(20)
	// BonusPerHour is the reps bonus earned per hour of active, break or meeting time.
	BonusPerHour = decimal.NewFromInt(2)
	// BonusPerSet is the reps bonus earned per set added.
	BonusPerSet = decimal.NewFromInt(5)

	secondsPerHour   = decimal.NewFromInt(3600)
	secondsPerMinute = decimal.NewFromInt(60)
)

// Stored precision of hourly rates and reps bonuses.
const (
	RatePlaces  int32 = 2
	BonusPlaces int32 = 4
)

// RoundRate brings an hourly rate to its stored precision. Negative rates read as zero.
func RoundRate(rate decimal.Decimal) decimal.Decimal {
	if rate.IsNegative() {
		return decimal.Zero
	}
	return rate.Round(RatePlaces)
}

// Measures are the measured quantities of one session.
type Measures struct {
	ActiveSeconds         int64
	SetsAdded             int
	BreakMinutes          int
	MeetingMinutes        int
	MorningMeetingMinutes int
}

// PaidSeconds is active time plus breaks, meetings and morning meetings, in seconds.
func (m Measures) PaidSeconds() int64 {
	minutes := nonNegative(int64(m.BreakMinutes)) + nonNegative(int64(m.MeetingMinutes)) + nonNegative(int64(m.MorningMeetingMinutes))
	return nonNegative(m.ActiveSeconds) + minutes*60
}

// BasePayment computes paid hours times the rate plus PerSetPay for every set.
func BasePayment(m Measures, ratePerHour decimal.Decimal) decimal.Decimal {
	if ratePerHour.IsNegative() {
		ratePerHour = decimal.Zero
	}
	sets := decimal.NewFromInt(nonNegative(int64(m.SetsAdded)))
	return basePayment(decimal.NewFromInt(m.PaidSeconds()), ratePerHour, sets)
}

// RepsBonus computes the reps bonus rounded to BonusPlaces. Training sessions earn nothing.
func RepsBonus(m Measures, isTraining bool) decimal.Decimal {
	if isTraining {
		return decimal.Zero
	}
	sets := decimal.NewFromInt(nonNegative(int64(m.SetsAdded)))
	return repsBonus(decimal.NewFromInt(m.PaidSeconds()), sets)
}

// BasePaymentFloat is BasePayment for loosely parsed input. Any NaN or infinite
// argument yields exactly zero instead of poisoning the money math.
func BasePaymentFloat(activeSeconds, meetingMinutes, breakMinutes, morningMeetingMinutes, ratePerHour, setsAdded float64) decimal.Decimal {
	if !allFinite(activeSeconds, meetingMinutes, breakMinutes, morningMeetingMinutes, ratePerHour, setsAdded) {
		return decimal.Zero
	}
	seconds := paidSecondsFloat(activeSeconds, meetingMinutes, breakMinutes, morningMeetingMinutes)
	return basePayment(seconds, fromFloat(ratePerHour), fromFloat(setsAdded))
}

// RepsBonusFloat is RepsBonus for loosely parsed input, with the same NaN fail-safe.
func RepsBonusFloat(activeSeconds, setsAdded, breakMinutes, meetingMinutes, morningMeetingMinutes float64, isTraining bool) decimal.Decimal {
	if isTraining {
		return decimal.Zero
	}
	if !allFinite(activeSeconds, setsAdded, breakMinutes, meetingMinutes, morningMeetingMinutes) {
		return decimal.Zero
	}
	seconds := paidSecondsFloat(activeSeconds, meetingMinutes, breakMinutes, morningMeetingMinutes)
	return repsBonus(seconds, fromFloat(setsAdded))
}

// Multiply before dividing so whole minutes stay exact.
func basePayment(paidSeconds, rate, sets decimal.Decimal) decimal.Decimal {
	hourly := paidSeconds.Mul(rate).Div(secondsPerHour)
	return hourly.Add(sets.Mul(PerSetPay))
}

func repsBonus(paidSeconds, sets decimal.Decimal) decimal.Decimal {
	timeBonus := paidSeconds.Mul(BonusPerHour).Div(secondsPerHour)
	return timeBonus.Add(sets.Mul(BonusPerSet)).Round(BonusPlaces)
}

func paidSecondsFloat(activeSeconds, meetingMinutes, breakMinutes, morningMeetingMinutes float64) decimal.Decimal {
	minutes := fromFloat(meetingMinutes).Add(fromFloat(breakMinutes)).Add(fromFloat(morningMeetingMinutes))
	return fromFloat(activeSeconds).Add(minutes.Mul(secondsPerMinute))
}

func fromFloat(f float64) decimal.Decimal {
	if f <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

func allFinite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func nonNegative(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}
