package audit

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/afs"

	"github.com/colloquyhq/colloquy/policy"
	"github.com/colloquyhq/colloquy/service/approval"
)

func entry(op string, risk policy.Risk, status approval.Status, execErr string) *Entry {
	return &Entry{
		RequestID: "req-" + op,
		Operation: op,
		Risk:      risk,
		Status:    status,
		DecidedAt: time.Now(),
		Executed:  status == approval.StatusApproved,
		Error:     execErr,
	}
}

func TestReport(t *testing.T) {
	type testCase struct {
		name             string
		entries          []*Entry
		expectedApproved int
		expectedRejected int
		expectedTimedOut int
		expectedFailed   int
		expectedRate     float64
	}

	tests := []testCase{{
		name:         "empty log has zero rate",
		expectedRate: 0,
	}, {
		name: "mixed outcomes",
		entries: []*Entry{
			entry("transferMoney", policy.RiskHigh, approval.StatusApproved, ""),
			entry("deleteUser", policy.RiskHigh, approval.StatusRejected, ""),
			entry("sendEmail", policy.RiskLow, approval.StatusApproved, ""),
			entry("archive", policy.RiskMedium, approval.StatusTimedOut, ""),
		},
		expectedApproved: 2,
		expectedRejected: 1,
		expectedTimedOut: 1,
		expectedRate:     0.5,
	}, {
		name: "approved but failed execution",
		entries: []*Entry{
			entry("uploadFile", policy.RiskMedium, approval.StatusApproved, "disk full"),
		},
		expectedApproved: 1,
		expectedFailed:   1,
		expectedRate:     1,
	}}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			log := NewLog()
			for _, e := range tc.entries {
				log.Record(e)
			}
			report := log.Report()
			assert.Equal(t, len(tc.entries), report.Total)
			assert.Equal(t, tc.expectedApproved, report.Approved)
			assert.Equal(t, tc.expectedRejected, report.Rejected)
			assert.Equal(t, tc.expectedTimedOut, report.TimedOut)
			assert.Equal(t, tc.expectedFailed, report.Failed)
			assert.InDelta(t, tc.expectedRate, report.ApprovalRate, 1e-9)

			// Reporting is read-only.
			assert.Equal(t, report, log.Report())
		})
	}
}

func TestReportByRisk(t *testing.T) {
	log := NewLog()
	log.Record(entry("transferMoney", policy.RiskHigh, approval.StatusApproved, ""))
	log.Record(entry("closeAccount", policy.RiskHigh, approval.StatusRejected, ""))
	log.Record(entry("sendEmail", policy.RiskLow, approval.StatusApproved, ""))

	report := log.Report()
	assert.Equal(t, 2, report.ByRisk["high"].Total)
	assert.Equal(t, 1, report.ByRisk["high"].Approved)
	assert.Equal(t, 1, report.ByRisk["high"].Rejected)
	assert.Equal(t, 1, report.ByRisk["low"].Approved)
}

func TestRecent(t *testing.T) {
	log := NewLog()
	operations := []string{"a", "b", "c", "d", "e", "f"}
	for _, op := range operations {
		log.Record(entry(op, policy.RiskLow, approval.StatusApproved, ""))
	}

	recent := log.Recent(5)
	assert.Len(t, recent, 5)
	assert.Equal(t, "b", recent[0].Operation)
	assert.Equal(t, "f", recent[4].Operation)

	assert.Len(t, log.Recent(100), 6)
	assert.Empty(t, log.Recent(0))
}

func TestExport(t *testing.T) {
	log := NewLog()
	log.Record(entry("transferMoney", policy.RiskHigh, approval.StatusApproved, ""))
	log.Record(entry("deleteUser", policy.RiskMedium, approval.StatusRejected, ""))

	ctx := context.Background()
	fs := afs.New()
	URL := "mem://localhost/audit/report.json"
	assert.NoError(t, log.Export(ctx, fs, URL))

	data, err := fs.DownloadWithURL(ctx, URL)
	assert.NoError(t, err)

	var exported struct {
		Total   int      `json:"total"`
		Report  *Report  `json:"report"`
		Entries []*Entry `json:"entries"`
	}
	assert.NoError(t, json.Unmarshal(data, &exported))
	assert.Equal(t, 2, exported.Total)
	assert.Equal(t, 1, exported.Report.Approved)
	assert.Equal(t, "transferMoney", exported.Entries[0].Operation)
}
