// Package stats provides plan analytics.
package stats

import (
	"sort"

	"github.com/google/uuid"

	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/model"
)

// GapSeverity ranks an unfilled demand.
type GapSeverity string

const (
	GapLow      GapSeverity = "low"
	GapMedium   GapSeverity = "medium"
	GapHigh     GapSeverity = "high"
	GapCritical GapSeverity = "critical"
)

// Gap is one under-filled demand slot.
type Gap struct {
	DemandID  uuid.UUID   `json:"demand_id"`
	StationID uuid.UUID   `json:"station_id"`
	Date      string      `json:"date"`
	Severity  GapSeverity `json:"severity"`
	Required  int         `json:"required"`
	Assigned  int         `json:"assigned"`
	Shortage  int         `json:"shortage"`
}

// DayCoverage summarises one day of the plan.
type DayCoverage struct {
	Date         string  `json:"date"`
	TotalSlots   int     `json:"total_slots"`
	FilledSlots  int     `json:"filled_slots"`
	CoverageRate float64 `json:"coverage_rate"`
}

// Report is the coverage analysis of a demand/assignment set.
type Report struct {
	TotalSlots         int                    `json:"total_slots"`
	FilledSlots        int                    `json:"filled_slots"`
	CoveragePercentage float64                `json:"coverage_percentage"`
	DailyCoverage      map[string]DayCoverage `json:"daily_coverage"`
	StationCoverage    map[string]float64     `json:"station_coverage"`
	Gaps               []Gap                  `json:"gaps"`
}

// GapCount counts gaps at one severity.
func (r *Report) GapCount(severity GapSeverity) int {
	count := 0
	for _, g := range r.Gaps {
		if g.Severity == severity {
			count++
		}
	}
	return count
}

// CoverageAnalyzer computes fill rates and gap lists.
type CoverageAnalyzer struct{}

// NewCoverageAnalyzer creates a coverage analyzer.
func NewCoverageAnalyzer() *CoverageAnalyzer {
	return &CoverageAnalyzer{}
}

// Analyze computes the coverage of assignments against demands. A demand slot
// counts as filled when an active assignment occupies it; head counts above
// the requirement do not inflate coverage.
func (c *CoverageAnalyzer) Analyze(demands []*model.ShiftDemand, assignments []*model.Assignment) *Report {
	report := &Report{
		DailyCoverage:   make(map[string]DayCoverage),
		StationCoverage: make(map[string]float64),
		Gaps:            make([]Gap, 0),
	}
	if len(demands) == 0 {
		report.CoveragePercentage = 100
		return report
	}

	filledByDemand := make(map[uuid.UUID]int)
	for _, a := range assignments {
		if a.IsActive() {
			filledByDemand[a.DemandID]++
		}
	}

	stationRequired := make(map[uuid.UUID]int)
	stationFilled := make(map[uuid.UUID]int)

	for _, d := range demands {
		filled := filledByDemand[d.ID]
		if filled > d.RequiredCount {
			filled = d.RequiredCount
		}

		report.TotalSlots += d.RequiredCount
		report.FilledSlots += filled
		stationRequired[d.StationID] += d.RequiredCount
		stationFilled[d.StationID] += filled

		day := report.DailyCoverage[d.Date]
		day.Date = d.Date
		day.TotalSlots += d.RequiredCount
		day.FilledSlots += filled
		report.DailyCoverage[d.Date] = day

		if filled < d.RequiredCount {
			report.Gaps = append(report.Gaps, Gap{
				DemandID:  d.ID,
				StationID: d.StationID,
				Date:      d.Date,
				Severity:  gapSeverity(d.Priority),
				Required:  d.RequiredCount,
				Assigned:  filled,
				Shortage:  d.RequiredCount - filled,
			})
		}
	}

	for date, day := range report.DailyCoverage {
		if day.TotalSlots > 0 {
			day.CoverageRate = float64(day.FilledSlots) / float64(day.TotalSlots) * 100
		}
		report.DailyCoverage[date] = day
	}
	for stationID, required := range stationRequired {
		if required > 0 {
			report.StationCoverage[stationID.String()] = float64(stationFilled[stationID]) / float64(required) * 100
		}
	}
	if report.TotalSlots > 0 {
		report.CoveragePercentage = float64(report.FilledSlots) / float64(report.TotalSlots) * 100
	}

	sort.Slice(report.Gaps, func(i, j int) bool {
		gi, gj := report.Gaps[i], report.Gaps[j]
		if gi.Date != gj.Date {
			return gi.Date < gj.Date
		}
		return gapRank(gi.Severity) > gapRank(gj.Severity)
	})

	return report
}

// gapSeverity maps demand priority onto gap severity.
func gapSeverity(p model.Priority) GapSeverity {
	switch p {
	case model.PriorityCritical:
		return GapCritical
	case model.PriorityHigh:
		return GapHigh
	case model.PriorityMedium:
		return GapMedium
	default:
		return GapLow
	}
}

// gapRank returns the numeric rank of a gap severity.
func gapRank(s GapSeverity) int {
	switch s {
	case GapCritical:
		return 4
	case GapHigh:
		return 3
	case GapMedium:
		return 2
	default:
		return 1
	}
}
