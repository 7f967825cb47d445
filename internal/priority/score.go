// Package priority computes the 0-100 display-ordering score, the
// action-urgency bucket, and the composed sort order for task lists. All of
// it is pure: callers pass the reference time explicitly.
package priority

import (
	"math"
	"time"

	"taskboard/internal/model"
)

// Sub-score weights.
const (
	deadlineWeight = 0.4
	workloadWeight = 0.2
	ageWeight      = 0.2
	symbolWeight   = 0.2
)

// Defaults for missing input. The asymmetry is deliberate: a task without a
// deadline, estimate or creation time is treated as low urgency, while a
// task without a symbol is treated as neutral.
const (
	noDeadlineScore    = 10
	noEstimateScore    = 20
	noAgeScore         = 20
	neutralSymbolScore = 50
)

// symbolWeights is the static per-symbol weight table, grouped by family.
var symbolWeights = map[string]int{
	// 一級|營收
	"client-contract":    100,
	"direct-sales":       95,
	"business-meeting":   90,
	"revenue-analysis":   85,
	"pricing-strategy":   80,
	"client-visit":       75,
	"product-demo":       70,
	"proposal-writing":   65,
	"contract-review":    60,
	"payment-collection": 55,

	// 二級|流量
	"seo-optimization": 100,
	"social-media":     95,
	"content-marketing": 90,
	"ad-campaign":       85,
	"data-analysis":     80,
	"email-marketing":   75,
	"influencer-collab": 70,
	"event-planning":    65,
	"brand-building":    60,
	"market-research":   55,

	// 三級|行政
	"compliance":            100,
	"team-management":       95,
	"process-optimization":  90,
	"document-filing":       85,
	"admin-tasks":           80,
	"meeting-coordination":  75,
	"equipment-maintenance": 70,
	"office-supplies":       65,
	"weekly-report":         60,
	"schedule-planning":     55,
}

// DeadlineScore rates deadline urgency. Overdue and due-within-24h score the
// same 100; that conflation is intentional and preserved.
func DeadlineScore(deadline *time.Time, now time.Time) int {
	if deadline == nil {
		return noDeadlineScore
	}

	days := deadline.Sub(now).Hours() / 24

	switch {
	case days < 0:
		return 100
	case days < 1:
		return 100
	case days < 2:
		return 80
	case days < 5:
		return 60
	case days < 7:
		return 40
	default:
		return 20
	}
}

// WorkloadScore rates the estimated effort; bigger tasks rank earlier.
func WorkloadScore(estimatedMinutes int) int {
	if estimatedMinutes <= 0 {
		return noEstimateScore
	}

	hours := float64(estimatedMinutes) / 60

	switch {
	case hours >= 8:
		return 100
	case hours >= 4:
		return 80
	case hours >= 2:
		return 60
	case hours >= 1:
		return 40
	default:
		return 20
	}
}

// AgeScore rates how long the task has sat unhandled.
func AgeScore(createdAt time.Time, now time.Time) int {
	if createdAt.IsZero() {
		return noAgeScore
	}

	days := now.Sub(createdAt).Hours() / 24

	switch {
	case days >= 7:
		return 100
	case days >= 5:
		return 80
	case days >= 3:
		return 60
	case days >= 1:
		return 40
	default:
		return 20
	}
}

// SymbolScore looks the task's symbol up in the static weight table. Unknown
// or absent symbols are neutral, not penalized.
func SymbolScore(symbolID string) int {
	if symbolID == "" {
		return neutralSymbolScore
	}
	if weight, ok := symbolWeights[symbolID]; ok {
		return weight
	}
	return neutralSymbolScore
}

// Score computes the weighted priority total. It never touches the persisted
// tier — it exists purely as a secondary sort key.
func Score(task *model.Task, now time.Time) int {
	total := float64(DeadlineScore(task.Deadline, now))*deadlineWeight +
		float64(WorkloadScore(task.EstimatedMinutes))*workloadWeight +
		float64(AgeScore(task.CreatedAt, now))*ageWeight +
		float64(SymbolScore(task.SymbolID))*symbolWeight

	return int(math.Round(total))
}

// Component is one sub-score with its weight and weighted contribution.
type Component struct {
	Score        int
	Weight       float64
	Contribution float64
}

// Breakdown shows the user how a score was assembled.
type Breakdown struct {
	Deadline Component
	Workload Component
	Age      Component
	Symbol   Component
	Total    int
}

// ScoreBreakdown returns the per-component detail behind Score.
func ScoreBreakdown(task *model.Task, now time.Time) Breakdown {
	deadline := DeadlineScore(task.Deadline, now)
	workload := WorkloadScore(task.EstimatedMinutes)
	age := AgeScore(task.CreatedAt, now)
	sym := SymbolScore(task.SymbolID)

	return Breakdown{
		Deadline: Component{Score: deadline, Weight: deadlineWeight, Contribution: float64(deadline) * deadlineWeight},
		Workload: Component{Score: workload, Weight: workloadWeight, Contribution: float64(workload) * workloadWeight},
		Age:      Component{Score: age, Weight: ageWeight, Contribution: float64(age) * ageWeight},
		Symbol:   Component{Score: sym, Weight: symbolWeight, Contribution: float64(sym) * symbolWeight},
		Total:    Score(task, now),
	}
}

// Level is the coarse P1-P5 grade shown next to a score.
type Level struct {
	Code  string
	Label string
}

// LevelFor grades a priority score.
func LevelFor(score int) Level {
	switch {
	case score >= 80:
		return Level{Code: "P1", Label: "極高"}
	case score >= 60:
		return Level{Code: "P2", Label: "高"}
	case score >= 40:
		return Level{Code: "P3", Label: "中"}
	case score >= 20:
		return Level{Code: "P4", Label: "低"}
	default:
		return Level{Code: "P5", Label: "極低"}
	}
}
