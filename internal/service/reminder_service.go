package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"taskboard/internal/model"
	"taskboard/internal/priority"
	"taskboard/internal/timetrack"
)

// ReminderService builds the morning digest: open tasks grouped by urgency
// bucket plus yesterday's-carryover signals and the day-budget line. The bot
// decides who receives it and when.
type ReminderService struct {
	taskSvc  *TaskService
	trackSvc *TimetrackService
}

func NewReminderService(taskSvc *TaskService, trackSvc *TimetrackService) *ReminderService {
	return &ReminderService{taskSvc: taskSvc, trackSvc: trackSvc}
}

// DailySummary renders the user's digest as Telegram HTML. Returns "" when
// the user has no open tasks at all.
func (s *ReminderService) DailySummary(ctx context.Context, user *model.User) (string, error) {
	grouped, err := s.taskSvc.GroupedByBucket(ctx, user)
	if err != nil {
		return "", err
	}

	total := 0
	for _, tasks := range grouped {
		total += len(tasks)
	}
	if total == 0 {
		return "", nil
	}

	now := time.Now()

	var b strings.Builder
	b.WriteString(fmt.Sprintf("📋 <b>今日任務總覽</b> · %s\n", now.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("共 %d 項待辦\n\n", total))

	for _, bucket := range priority.Buckets {
		tasks := grouped[bucket]
		if len(tasks) == 0 {
			continue
		}

		b.WriteString(fmt.Sprintf("<b>%s</b>（%s）\n", bucket.Label(), bucket.Description()))
		for i := range tasks {
			writeTaskLine(&b, &tasks[i], now)
		}
		b.WriteByte('\n')
	}

	summary, err := s.trackSvc.TodaySummary(ctx, user)
	if err != nil {
		return "", err
	}
	writeBudgetLine(&b, summary.DayLog)

	return b.String(), nil
}

func writeTaskLine(b *strings.Builder, task *model.Task, now time.Time) {
	score := priority.Score(task, now)
	level := priority.LevelFor(score)
	b.WriteString(fmt.Sprintf("• [%s·%d] %s %s\n",
		level.Code, score, html.EscapeString(task.Title), task.Tier.String()))
	if reason := priority.Reason(task, now); reason != "" {
		b.WriteString(fmt.Sprintf("   └ %s\n", reason))
	}
}

func writeBudgetLine(b *strings.Builder, dayLog *model.DayLog) {
	b.WriteString(fmt.Sprintf("⏱ 今日已投入 %s / %s，剩餘 %s\n",
		timetrack.FormatMinutes(dayLog.UsedMinutes),
		timetrack.FormatMinutes(dayLog.BudgetMinutes),
		timetrack.FormatMinutes(dayLog.RemainingMinutes())))
}
