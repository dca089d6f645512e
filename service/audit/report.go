package audit

import (
	"github.com/colloquyhq/colloquy/service/approval"
)

// RiskStats aggregates decisions for one risk level.
type RiskStats struct {
	Total    int `json:"total"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	TimedOut int `json:"timedOut"`
}

// Report aggregates the audit log. ApprovalRate is approved/total and 0 for
// an empty log.
type Report struct {
	Total        int                  `json:"total"`
	Approved     int                  `json:"approved"`
	Rejected     int                  `json:"rejected"`
	TimedOut     int                  `json:"timedOut"`
	Failed       int                  `json:"failed"` // approved but execution failed
	ApprovalRate float64              `json:"approvalRate"`
	ByRisk       map[string]RiskStats `json:"byRisk"`
}

// Report derives the aggregate view from a consistent snapshot of the log.
// Repeated calls without intervening Record return identical results.
func (l *Log) Report() *Report {
	entries := l.Entries()
	ret := &Report{ByRisk: make(map[string]RiskStats)}
	ret.Total = len(entries)
	for _, entry := range entries {
		stats := ret.ByRisk[entry.Risk.String()]
		stats.Total++
		switch entry.Status {
		case approval.StatusApproved:
			ret.Approved++
			stats.Approved++
			if entry.Error != "" {
				ret.Failed++
			}
		case approval.StatusRejected:
			ret.Rejected++
			stats.Rejected++
		case approval.StatusTimedOut:
			ret.TimedOut++
			stats.TimedOut++
		}
		ret.ByRisk[entry.Risk.String()] = stats
	}
	if ret.Total > 0 {
		ret.ApprovalRate = float64(ret.Approved) / float64(ret.Total)
	}
	return ret
}
