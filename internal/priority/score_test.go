package priority

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"taskboard/internal/model"
)

// Wednesday 2026-03-11 10:00 local.
var frozenNow = time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)

func deadlineIn(d time.Duration) *time.Time {
	t := frozenNow.Add(d)
	return &t
}

func TestDeadlineScore(t *testing.T) {
	tests := []struct {
		name     string
		deadline *time.Time
		want     int
	}{
		{"no deadline", nil, 10},
		{"overdue", deadlineIn(-48 * time.Hour), 100},
		{"due within a day", deadlineIn(6 * time.Hour), 100},
		{"due in a day and a half", deadlineIn(36 * time.Hour), 80},
		{"due in three days", deadlineIn(72 * time.Hour), 60},
		{"due in six days", deadlineIn(6 * 24 * time.Hour), 40},
		{"due far out", deadlineIn(30 * 24 * time.Hour), 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeadlineScore(tt.deadline, frozenNow))
		})
	}
}

func TestDeadlineScore_OverdueEqualsDueToday(t *testing.T) {
	// A week overdue and due in an hour both score 100.
	assert.Equal(t,
		DeadlineScore(deadlineIn(-7*24*time.Hour), frozenNow),
		DeadlineScore(deadlineIn(time.Hour), frozenNow))
}

func TestWorkloadScore(t *testing.T) {
	assert.Equal(t, 20, WorkloadScore(0))
	assert.Equal(t, 20, WorkloadScore(-5))
	assert.Equal(t, 20, WorkloadScore(30))
	assert.Equal(t, 40, WorkloadScore(60))
	assert.Equal(t, 60, WorkloadScore(120))
	assert.Equal(t, 80, WorkloadScore(240))
	assert.Equal(t, 100, WorkloadScore(480))
	assert.Equal(t, 100, WorkloadScore(600))
}

func TestAgeScore(t *testing.T) {
	assert.Equal(t, 20, AgeScore(time.Time{}, frozenNow))
	assert.Equal(t, 20, AgeScore(frozenNow.Add(-time.Hour), frozenNow))
	assert.Equal(t, 40, AgeScore(frozenNow.AddDate(0, 0, -1), frozenNow))
	assert.Equal(t, 60, AgeScore(frozenNow.AddDate(0, 0, -3), frozenNow))
	assert.Equal(t, 80, AgeScore(frozenNow.AddDate(0, 0, -5), frozenNow))
	assert.Equal(t, 100, AgeScore(frozenNow.AddDate(0, 0, -10), frozenNow))
}

func TestSymbolScore(t *testing.T) {
	assert.Equal(t, 50, SymbolScore(""))
	assert.Equal(t, 50, SymbolScore("unknown-symbol"))
	assert.Equal(t, 100, SymbolScore("client-contract"))
	assert.Equal(t, 55, SymbolScore("schedule-planning"))
}

func TestScore_AllDefaults(t *testing.T) {
	// No deadline (10), no estimate (20), zero creation time (20), no symbol
	// (50): 4 + 4 + 4 + 10 = 22.
	task := &model.Task{}
	assert.Equal(t, 22, Score(task, frozenNow))
}

func TestScore_MaximalTask(t *testing.T) {
	task := &model.Task{
		Deadline:         deadlineIn(-time.Hour),
		EstimatedMinutes: 480,
		CreatedAt:        frozenNow.AddDate(0, 0, -10),
		SymbolID:         "client-contract",
	}
	assert.Equal(t, 100, Score(task, frozenNow))
}

func TestScore_Rounded(t *testing.T) {
	// 100*0.4 + 20*0.2 + 20*0.2 + 50*0.2 = 58.
	task := &model.Task{Deadline: deadlineIn(time.Hour)}
	assert.Equal(t, 58, Score(task, frozenNow))
}

func TestScoreBreakdown(t *testing.T) {
	task := &model.Task{
		Deadline:         deadlineIn(36 * time.Hour),
		EstimatedMinutes: 120,
		CreatedAt:        frozenNow.AddDate(0, 0, -1),
		SymbolID:         "weekly-report",
	}

	breakdown := ScoreBreakdown(task, frozenNow)
	assert.Equal(t, 80, breakdown.Deadline.Score)
	assert.Equal(t, 60, breakdown.Workload.Score)
	assert.Equal(t, 40, breakdown.Age.Score)
	assert.Equal(t, 60, breakdown.Symbol.Score)
	assert.Equal(t, Score(task, frozenNow), breakdown.Total)
	assert.InDelta(t, 32.0, breakdown.Deadline.Contribution, 0.001)
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, "P1", LevelFor(95).Code)
	assert.Equal(t, "P1", LevelFor(80).Code)
	assert.Equal(t, "P2", LevelFor(79).Code)
	assert.Equal(t, "P3", LevelFor(40).Code)
	assert.Equal(t, "P4", LevelFor(25).Code)
	assert.Equal(t, "P5", LevelFor(10).Code)
}
