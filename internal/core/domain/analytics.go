package domain

import (
	"sort"
	"time"
)

// WaitingZone is the coarse severity bucket for a ticket's wait time.
type WaitingZone string

const (
	ZoneGreen WaitingZone = "green"
	ZoneAmber WaitingZone = "amber"
	ZoneRed   WaitingZone = "red"
)

// SizeCategory buckets a company relative to the median company size of the
// analyzed ticket set.
type SizeCategory string

const (
	SizeSmall SizeCategory = "small"
	SizeLarge SizeCategory = "large"
)

// Waiting zone thresholds, in minutes. A wait of exactly 60.0 is amber and
// exactly 30.0 is green.
const (
	amberThresholdMinutes = 30.0
	redThresholdMinutes   = 60.0
)

// AssignWaitingZone classifies a wait time into a zone.
func AssignWaitingZone(waitMinutes float64) WaitingZone {
	switch {
	case waitMinutes > redThresholdMinutes:
		return ZoneRed
	case waitMinutes > amberThresholdMinutes:
		return ZoneAmber
	default:
		return ZoneGreen
	}
}

// ClassifySize buckets a company size against a median. Sizes at or below
// the median are small.
func ClassifySize(size, median float64) SizeCategory {
	if size <= median {
		return SizeSmall
	}
	return SizeLarge
}

// MedianSize returns the 50th percentile of the given sizes using linear
// interpolation: for an even count it is the mean of the two middle values.
// The caller passes per-ticket sizes, so companies are weighted by their
// ticket volume. Returns 0 for an empty input.
func MedianSize(sizes []float64) float64 {
	if len(sizes) == 0 {
		return 0
	}

	sorted := make([]float64, len(sizes))
	copy(sorted, sizes)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// AnalyticRecord is one denormalized per-ticket row of the derived table.
// WaitingZone and SizeCategory are pure functions of the other fields and
// are never mutated independently.
type AnalyticRecord struct {
	TicketID      int64        `json:"ticketId"`
	UserID        int64        `json:"userId"`
	CompanyID     int64        `json:"companyId"`
	StaffID       int64        `json:"staffId"`
	IssueCategory string       `json:"issueCategory"`
	CompanySize   float64      `json:"companySize"`
	CreatedAt     time.Time    `json:"createdAt"`
	MatchedAt     time.Time    `json:"matchedAt"`
	ActiveAt      time.Time    `json:"activeAt"`
	InactiveAt    time.Time    `json:"inactiveAt"`
	WaitMinutes   float64      `json:"waitTimeMinutes"`
	SolveMinutes  float64      `json:"solveTimeMinutes"`
	SizeCategory  SizeCategory `json:"companySizeCategory"`
	WaitingZone   WaitingZone  `json:"waitingZone"`
}

// AnalyticsResult is the output of one builder invocation. The three views
// hold independent copies: a consumer mutating one cannot corrupt another.
type AnalyticsResult struct {
	// Records is the canonical table, ordered by ticket ID.
	Records []AnalyticRecord
	// TimeIndexed is a copy ordered by CreatedAt, for time-series access.
	TimeIndexed []AnalyticRecord
	// Dashboard is a copy owned by interactive-filtering consumers.
	Dashboard []AnalyticRecord
	// ExcludedTickets counts tickets dropped for violating the
	// one-active-one-inactive status assumption.
	ExcludedTickets int
}

// DailyPoint is one calendar-day bucket of a resampled series. Days with no
// tickets appear with zero counts and a zero mean.
type DailyPoint struct {
	Day         time.Time `json:"day"`
	TicketCount int       `json:"ticketCount"`
	MeanWait    float64   `json:"meanWaitMinutes"`
	GreenCount  int       `json:"greenCount"`
	AmberCount  int       `json:"amberCount"`
	RedCount    int       `json:"redCount"`
}

// ZoneSummary aggregates a filtered ticket set.
type ZoneSummary struct {
	TicketCount int     `json:"ticketCount"`
	MeanWait    float64 `json:"meanWaitMinutes"`
	GreenCount  int     `json:"greenCount"`
	AmberCount  int     `json:"amberCount"`
	RedCount    int     `json:"redCount"`
}
