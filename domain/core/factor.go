package core

import "time"

// FactorStatus tracks where a factor sits in the research-to-production lifecycle
type FactorStatus string

const (
	StatusResearch     FactorStatus = "research"
	StatusPaperTrading FactorStatus = "paper_trading"
	StatusActive       FactorStatus = "active"
	StatusRetired      FactorStatus = "retired"
)

// Factor is a candidate or deployed trading signal tracked by the gate
type Factor struct {
	ID          FactorID     `json:"id"`
	Name        string       `json:"name"`
	Status      FactorStatus `json:"status"`
	ActivatedAt Timestamp    `json:"activated_at"`
}

// PerformanceRecord is one day of realized factor performance.
// Repositories return these ordered most-recent-first.
type PerformanceRecord struct {
	Date        time.Time `json:"date"`
	IC          float64   `json:"ic"`
	ICIR        float64   `json:"icir"`
	Sharpe      *float64  `json:"sharpe,omitempty"`
	Weight      float64   `json:"weight"`
	SignalCount int       `json:"signal_count"`
}
