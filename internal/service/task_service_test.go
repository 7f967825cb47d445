package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"taskboard/internal/model"
	"taskboard/internal/repository"
	"taskboard/internal/symbol"
)

func newTestService(t *testing.T) (*TaskService, *model.User) {
	t.Helper()
	db, err := repository.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	svc := NewTaskService(repository.NewTaskRepository(db), userRepo)

	user, err := userRepo.UpsertFromTelegram(context.Background(), 42, "小明")
	require.NoError(t, err)
	return svc, user
}

func TestCreateTask_AdvancedClassification(t *testing.T) {
	svc, user := newTestService(t)

	task, warning, err := svc.CreateTask(context.Background(), user, TaskInput{
		Title:         "簽約大客戶",
		Priority:      model.PriorityHigh,
		FinancialText: "預計帶來 200萬元 營收",
		QuantityText:  "新增 20000 個客戶",
		TimeText:      "節省 100 小時",
	})
	require.NoError(t, err)

	assert.Equal(t, model.TierRevenue, task.Tier)
	assert.Empty(t, warning)
	assert.NotEmpty(t, task.ID)
	assert.Positive(t, task.PriorityScore)
	require.NotNil(t, task.Metrics)
	assert.Equal(t, "預計帶來 200萬元 營收", task.Metrics.Financial.Description)

	// A symbol was auto-matched from the title.
	_, ok := symbol.ByID(task.SymbolID)
	assert.True(t, ok)
}

func TestCreateTask_BasicFallback(t *testing.T) {
	svc, user := newTestService(t)

	task, warning, err := svc.CreateTask(context.Background(), user, TaskInput{
		Title:    "投放新一波廣告",
		Priority: model.PriorityMedium,
	})
	require.NoError(t, err)
	assert.Equal(t, model.TierTraffic, task.Tier)
	assert.Empty(t, warning)
	assert.Nil(t, task.Metrics)
}

func TestCreateTask_DailyTaskOverride(t *testing.T) {
	svc, user := newTestService(t)

	task, _, err := svc.CreateTask(context.Background(), user, TaskInput{
		Title:    "回覆郵件",
		Priority: model.PriorityHigh,
	})
	require.NoError(t, err)
	assert.Equal(t, model.TierDaily, task.Tier)
}

func TestCreateTask_WarnsWhenNumbersUndercutIntent(t *testing.T) {
	svc, user := newTestService(t)

	// High priority signals a revenue-tier intent, but the numbers are tiny.
	_, warning, err := svc.CreateTask(context.Background(), user, TaskInput{
		Title:         "簽約新客戶",
		Priority:      model.PriorityHigh,
		FinancialText: "帶來 100 元",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, warning)
}

func TestCreateTask_Rejections(t *testing.T) {
	svc, user := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.CreateTask(ctx, user, TaskInput{Title: "   "})
	assert.ErrorIs(t, err, ErrEmptyTitle)

	_, _, err = svc.CreateTask(ctx, user, TaskInput{
		Title:         "新功能上線",
		Priority:      model.PriorityMedium,
		FinancialText: "盡力達成目標",
	})
	assert.ErrorIs(t, err, ErrInvalidMetric)

	_, _, err = svc.CreateTask(ctx, user, TaskInput{
		Title:        "新功能上線",
		Priority:     model.PriorityMedium,
		QuantityText: "大幅提升50%",
	})
	assert.ErrorIs(t, err, ErrInvalidMetric)
}

func TestTaskLifecycle(t *testing.T) {
	svc, user := newTestService(t)
	ctx := context.Background()

	task, _, err := svc.CreateTask(ctx, user, TaskInput{Title: "出貨", Priority: model.PriorityHigh})
	require.NoError(t, err)

	started, err := svc.StartTask(ctx, user, task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, started.Status)

	paused, err := svc.PauseTask(ctx, user, task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, paused.Status)

	completed, err := svc.CompleteTask(ctx, user, task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, completed.Status)
	assert.NotNil(t, completed.CompletedAt)

	// Completed tasks drop out of the sorted open list.
	open, err := svc.ListSorted(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, open)

	_, err = svc.StartTask(ctx, user, task.ID)
	assert.ErrorIs(t, err, ErrTaskNotStartable)
}

func TestListSorted_OrdersByRankThenScore(t *testing.T) {
	svc, user := newTestService(t)
	ctx := context.Background()

	low, _, err := svc.CreateTask(ctx, user, TaskInput{Title: "研究", Priority: model.PriorityLow})
	require.NoError(t, err)
	high, _, err := svc.CreateTask(ctx, user, TaskInput{Title: "出貨", Priority: model.PriorityHigh})
	require.NoError(t, err)

	sorted, err := svc.ListSorted(ctx, user)
	require.NoError(t, err)
	require.Len(t, sorted, 2)
	assert.Equal(t, high.ID, sorted[0].ID)
	assert.Equal(t, low.ID, sorted[1].ID)
}

func TestGetTask_NotFound(t *testing.T) {
	svc, user := newTestService(t)
	_, err := svc.GetTask(context.Background(), user, "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRescoreAll(t *testing.T) {
	svc, user := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.CreateTask(ctx, user, TaskInput{Title: "出貨", Priority: model.PriorityHigh})
	require.NoError(t, err)

	assert.NoError(t, svc.RescoreAll(ctx))
}
