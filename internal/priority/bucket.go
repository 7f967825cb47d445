package priority

import (
	"strconv"
	"time"

	"taskboard/internal/classify"
	"taskboard/internal/model"
)

// Bucket is the "what to work on now" grouping of the dashboard.
type Bucket string

const (
	BucketUrgent      Bucket = "URGENT"
	BucketToday       Bucket = "TODAY"
	BucketThisWeek    Bucket = "THIS_WEEK"
	BucketPostponable Bucket = "POSTPONABLE"
)

// Buckets lists all buckets in display order.
var Buckets = []Bucket{BucketUrgent, BucketToday, BucketThisWeek, BucketPostponable}

// Label is the bucket heading shown to users.
func (b Bucket) Label() string {
	switch b {
	case BucketUrgent:
		return "🔥 立即處理"
	case BucketToday:
		return "⚡ 今日建議完成"
	case BucketThisWeek:
		return "📅 本週安排"
	default:
		return "💡 可延後處理"
	}
}

// Description is the one-line rationale next to the heading.
func (b Bucket) Description() string {
	switch b {
	case BucketUrgent:
		return "主管今天會問"
	case BucketToday:
		return "有時間壓力"
	case BucketThisWeek:
		return "重要但不緊急"
	default:
		return "例行性工作"
	}
}

// Categorize runs the rule tree top to bottom; the first matching rule wins.
// There is no scoring here, only precedence.
func Categorize(task *model.Task, now time.Time) Bucket {
	if isDelayed(task, now) {
		return BucketUrgent
	}
	if dueToday(task, now) {
		return BucketUrgent
	}
	if isCustomerFacing(task) && dueThisWeek(task, now) {
		return BucketUrgent
	}

	if dueTomorrow(task, now) {
		return BucketToday
	}
	if dueThisWeek(task, now) && task.HasCollaborators() {
		return BucketToday
	}

	if dueThisWeek(task, now) {
		return BucketThisWeek
	}

	if isRoutine(task) {
		return BucketPostponable
	}
	if task.Deadline == nil {
		return BucketPostponable
	}

	return BucketThisWeek
}

// isDelayed: the deadline has passed and the task is not completed.
func isDelayed(task *model.Task, now time.Time) bool {
	if task.Deadline == nil {
		return false
	}
	return task.Deadline.Before(now) && task.Status != model.StatusCompleted
}

func dueToday(task *model.Task, now time.Time) bool {
	if task.Deadline == nil {
		return false
	}
	return sameDate(task.Deadline.In(now.Location()), now)
}

func dueTomorrow(task *model.Task, now time.Time) bool {
	if task.Deadline == nil {
		return false
	}
	return sameDate(task.Deadline.In(now.Location()), now.AddDate(0, 0, 1))
}

// dueThisWeek: strictly after now and no later than the upcoming Sunday.
func dueThisWeek(task *model.Task, now time.Time) bool {
	if task.Deadline == nil {
		return false
	}
	endOfWeek := now.AddDate(0, 0, 7-int(now.Weekday()))
	deadline := task.Deadline.In(now.Location())
	return deadline.After(now) && !deadline.After(endOfWeek)
}

func isCustomerFacing(task *model.Task) bool {
	return classify.ContainsAny(task.Title, classify.Keywords().CustomerFacing)
}

func isRoutine(task *model.Task) bool {
	return classify.ContainsAny(task.Title, classify.Keywords().Routine)
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DelayDays reports how many days the task has slipped past its deadline,
// rounded up; zero when there is no deadline or it has not passed.
func DelayDays(task *model.Task, now time.Time) int {
	if task.Deadline == nil {
		return 0
	}
	diff := now.Sub(*task.Deadline)
	days := int(diff.Hours() / 24)
	if diff > time.Duration(days)*24*time.Hour {
		days++
	}
	if days < 0 {
		return 0
	}
	return days
}

// Reason returns the label explaining why a task sits where it does.
func Reason(task *model.Task, now time.Time) string {
	switch {
	case isDelayed(task, now):
		return "已延遲 " + strconv.Itoa(DelayDays(task, now)) + " 天"
	case dueToday(task, now):
		return "今日截止"
	case dueTomorrow(task, now):
		return "明天截止"
	case dueThisWeek(task, now):
		return "本週截止"
	case isCustomerFacing(task):
		return "影響客戶"
	case task.HasCollaborators():
		return "需要協作"
	case isRoutine(task):
		return "例行性工作"
	default:
		return "無截止日期"
	}
}
