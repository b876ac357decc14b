package performance

import (
	"time"

	"github.com/shopspring/decimal"
)

// AgentPerformance is a row of the agent performance sync table, keyed by the agent's full name.
type AgentPerformance struct {
	ID            string
	FullName      string
	Breaks        *int
	ZoomMeetings  *int
	RatePerHour   *decimal.Decimal
	ZoomScheduled *int
	CreatedAt     time.Time
}

// Metrics are the values an administrator can overwrite for an agent.
type Metrics struct {
	Breaks        int
	ZoomMeetings  int
	RatePerHour   decimal.Decimal
	ZoomScheduled int
}
