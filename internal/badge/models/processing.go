package models

import "time"

// ProcessingStatus bands how long a badge has been, or was, in process.
type ProcessingStatus string

const (
	ProcessingCompleted ProcessingStatus = "completed"
	ProcessingNormal    ProcessingStatus = "normal"
	ProcessingWarning   ProcessingStatus = "warning"
	ProcessingCritical  ProcessingStatus = "critical"
	ProcessingExpired   ProcessingStatus = "expired"
	ProcessingUnknown   ProcessingStatus = "unknown"
)

// Elapsed-day thresholds for in-flight badges. Each band is inclusive on its
// lower bound: <6 normal, 6-8 warning, 9 critical, >=10 expired.
const (
	delayThresholdDays    = 6
	criticalThresholdDays = 9
	expiredThresholdDays  = 10
)

// ProcessingReport quantifies a badge's workflow progress.
type ProcessingReport struct {
	Status ProcessingStatus `json:"status"`
	// ProcessingDays is set once the GR return closed the workflow. A negative
	// value (return recorded before the request) is passed through unclamped;
	// callers must tolerate it.
	ProcessingDays int `json:"processing_days,omitempty"`
	// ElapsedDays is set while the badge is still in flight.
	ElapsedDays int  `json:"elapsed_days,omitempty"`
	Completed   bool `json:"completed"`
}

// ProcessingStatusOf derives elapsed or completed processing time from the
// request and GR return milestones.
func ProcessingStatusOf(b *Badge, now time.Time) ProcessingReport {
	if b.RequestDate == nil {
		return ProcessingReport{Status: ProcessingUnknown}
	}
	if b.GRReturnDate != nil {
		return ProcessingReport{
			Status:         ProcessingCompleted,
			ProcessingDays: DaysBetween(*b.RequestDate, *b.GRReturnDate),
			Completed:      true,
		}
	}

	elapsed := DaysBetween(*b.RequestDate, now)
	report := ProcessingReport{ElapsedDays: elapsed}
	switch {
	case elapsed >= expiredThresholdDays:
		report.Status = ProcessingExpired
	case elapsed >= criticalThresholdDays:
		report.Status = ProcessingCritical
	case elapsed >= delayThresholdDays:
		report.Status = ProcessingWarning
	default:
		report.Status = ProcessingNormal
	}
	return report
}

// IsDelayed reports whether the first workflow handoff has stalled: six or
// more days since the request with no DGSN send recorded. This is independent
// of the processing-time banding above; it is what drives delay notifications.
func IsDelayed(b *Badge, now time.Time) bool {
	if b.RequestDate == nil || b.DGSNSent != nil {
		return false
	}
	return DaysBetween(*b.RequestDate, now) >= delayThresholdDays
}

// DelayElapsedDays returns the days since the request, zero when absent.
func DelayElapsedDays(b *Badge, now time.Time) int {
	if b.RequestDate == nil {
		return 0
	}
	return DaysBetween(*b.RequestDate, now)
}
