package priority

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"taskboard/internal/model"
)

func TestCategorize_Urgent(t *testing.T) {
	t.Run("overdue task", func(t *testing.T) {
		task := &model.Task{Title: "完成報價單", Deadline: deadlineIn(-24 * time.Hour)}
		assert.Equal(t, BucketUrgent, Categorize(task, frozenNow))
	})

	t.Run("due today", func(t *testing.T) {
		task := &model.Task{Title: "出貨確認", Deadline: deadlineIn(5 * time.Hour)}
		assert.Equal(t, BucketUrgent, Categorize(task, frozenNow))
	})

	t.Run("customer facing due this week", func(t *testing.T) {
		task := &model.Task{Title: "客戶提案簡報", Deadline: deadlineIn(3 * 24 * time.Hour)}
		assert.Equal(t, BucketUrgent, Categorize(task, frozenNow))
	})
}

func TestCategorize_OverdueButCompletedIsNotUrgent(t *testing.T) {
	task := &model.Task{
		Title:    "回覆郵件",
		Status:   model.StatusCompleted,
		Deadline: deadlineIn(-24 * time.Hour),
	}
	assert.NotEqual(t, BucketUrgent, Categorize(task, frozenNow))
}

func TestCategorize_Today(t *testing.T) {
	t.Run("due tomorrow", func(t *testing.T) {
		task := &model.Task{Title: "整理出貨資料", Deadline: deadlineIn(24 * time.Hour)}
		assert.Equal(t, BucketToday, Categorize(task, frozenNow))
	})

	t.Run("collaborative due this week", func(t *testing.T) {
		task := &model.Task{
			Title:         "排定上線時程",
			Deadline:      deadlineIn(3 * 24 * time.Hour),
			Collaborators: []model.User{{ID: "u2"}},
		}
		assert.Equal(t, BucketToday, Categorize(task, frozenNow))
	})
}

func TestCategorize_ThisWeek(t *testing.T) {
	task := &model.Task{Title: "撰寫教學文件", Deadline: deadlineIn(3 * 24 * time.Hour)}
	assert.Equal(t, BucketThisWeek, Categorize(task, frozenNow))
}

func TestCategorize_DeadlineBeyondWeekFallsBackToThisWeek(t *testing.T) {
	task := &model.Task{Title: "規劃下季目標", Deadline: deadlineIn(20 * 24 * time.Hour)}
	assert.Equal(t, BucketThisWeek, Categorize(task, frozenNow))
}

func TestCategorize_Postponable(t *testing.T) {
	t.Run("routine task without deadline", func(t *testing.T) {
		task := &model.Task{Title: "回覆郵件"}
		assert.Equal(t, BucketPostponable, Categorize(task, frozenNow))
	})

	t.Run("routine task with far deadline", func(t *testing.T) {
		task := &model.Task{Title: "整理歸檔", Deadline: deadlineIn(20 * 24 * time.Hour)}
		assert.Equal(t, BucketPostponable, Categorize(task, frozenNow))
	})

	t.Run("no deadline", func(t *testing.T) {
		task := &model.Task{Title: "研究新框架"}
		assert.Equal(t, BucketPostponable, Categorize(task, frozenNow))
	})
}

func TestCategorize_RuleOrder(t *testing.T) {
	// Routine title but overdue: the delay rule runs first.
	task := &model.Task{Title: "回覆郵件", Deadline: deadlineIn(-2 * time.Hour)}
	assert.Equal(t, BucketUrgent, Categorize(task, frozenNow))
}

func TestDelayDays(t *testing.T) {
	assert.Equal(t, 0, DelayDays(&model.Task{}, frozenNow))
	assert.Equal(t, 0, DelayDays(&model.Task{Deadline: deadlineIn(24 * time.Hour)}, frozenNow))
	assert.Equal(t, 1, DelayDays(&model.Task{Deadline: deadlineIn(-2 * time.Hour)}, frozenNow))
	assert.Equal(t, 1, DelayDays(&model.Task{Deadline: deadlineIn(-24 * time.Hour)}, frozenNow))
	assert.Equal(t, 3, DelayDays(&model.Task{Deadline: deadlineIn(-50 * time.Hour)}, frozenNow))
}

func TestReason(t *testing.T) {
	assert.Equal(t, "已延遲 2 天", Reason(&model.Task{Title: "出貨", Deadline: deadlineIn(-36 * time.Hour)}, frozenNow))
	assert.Equal(t, "今日截止", Reason(&model.Task{Title: "出貨", Deadline: deadlineIn(4 * time.Hour)}, frozenNow))
	assert.Equal(t, "明天截止", Reason(&model.Task{Title: "出貨", Deadline: deadlineIn(24 * time.Hour)}, frozenNow))
	assert.Equal(t, "本週截止", Reason(&model.Task{Title: "出貨", Deadline: deadlineIn(3 * 24 * time.Hour)}, frozenNow))
	assert.Equal(t, "影響客戶", Reason(&model.Task{Title: "客戶需求訪談"}, frozenNow))
	assert.Equal(t, "需要協作", Reason(&model.Task{Title: "上線", Collaborators: []model.User{{ID: "u2"}}}, frozenNow))
	assert.Equal(t, "例行性工作", Reason(&model.Task{Title: "站會"}, frozenNow))
	assert.Equal(t, "無截止日期", Reason(&model.Task{Title: "研究"}, frozenNow))
}

func TestBucketLabels(t *testing.T) {
	for _, bucket := range Buckets {
		assert.NotEmpty(t, bucket.Label())
		assert.NotEmpty(t, bucket.Description())
	}
}
