package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"taskboard/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return db
}

func TestUserRepository_UpsertFromTelegram(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	created, err := repo.UpsertFromTelegram(ctx, 42, "小明")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, int64(42), created.TelegramID)
	assert.Equal(t, "小明", created.Name)

	// Same telegram ID again: same record, refreshed name.
	updated, err := repo.UpsertFromTelegram(ctx, 42, "王小明")
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "王小明", updated.Name)

	users, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestUserRepository_FindByIDs(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	a, err := repo.UpsertFromTelegram(ctx, 1, "A")
	require.NoError(t, err)
	_, err = repo.UpsertFromTelegram(ctx, 2, "B")
	require.NoError(t, err)

	found, err := repo.FindByIDs(ctx, []string{a.ID, "no-such-id"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, a.ID, found[0].ID)

	none, err := repo.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestTaskRepository_CRUD(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	tasks := NewTaskRepository(db)
	ctx := context.Background()

	user, err := users.UpsertFromTelegram(ctx, 7, "小美")
	require.NoError(t, err)

	deadline := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	task := &model.Task{
		ID:         "task-1",
		Title:      "簽約大客戶",
		Priority:   model.PriorityHigh,
		Tier:       model.TierRevenue,
		Status:     model.StatusPending,
		AssigneeID: user.ID,
		Deadline:   &deadline,
		Metrics: &model.QuantitativeMetrics{
			Financial: &model.MetricItem{Value: 150, Unit: "萬", Type: model.FinancialRevenue, Description: "預計帶來 150萬 營收"},
		},
	}
	require.NoError(t, tasks.Create(ctx, task))

	found, err := tasks.FindByID(ctx, user.ID, "task-1")
	require.NoError(t, err)
	assert.Equal(t, "簽約大客戶", found.Title)
	require.NotNil(t, found.Metrics)
	require.NotNil(t, found.Metrics.Financial)
	assert.Equal(t, "預計帶來 150萬 營收", found.Metrics.Financial.Description)

	open, err := tasks.ListOpenByAssignee(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, open, 1)

	// Completion stamps CompletedAt and hides the task from the open list.
	at := time.Now()
	require.NoError(t, tasks.SetStatus(ctx, found, model.StatusCompleted, at))
	assert.NotNil(t, found.CompletedAt)

	open, err = tasks.ListOpenByAssignee(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, open)

	// Back to pending clears the stamp.
	require.NoError(t, tasks.SetStatus(ctx, found, model.StatusPending, at))
	assert.Nil(t, found.CompletedAt)

	require.NoError(t, tasks.SavePriorityScore(ctx, "task-1", 77))
	found, err = tasks.FindByID(ctx, user.ID, "task-1")
	require.NoError(t, err)
	assert.Equal(t, 77, found.PriorityScore)

	require.NoError(t, tasks.Delete(ctx, user.ID, "task-1"))
	_, err = tasks.FindByID(ctx, user.ID, "task-1")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestTaskRepository_ScopedToAssignee(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	tasks := NewTaskRepository(db)
	ctx := context.Background()

	owner, err := users.UpsertFromTelegram(ctx, 1, "A")
	require.NoError(t, err)
	other, err := users.UpsertFromTelegram(ctx, 2, "B")
	require.NoError(t, err)

	require.NoError(t, tasks.Create(ctx, &model.Task{ID: "task-1", Title: "x", AssigneeID: owner.ID}))

	_, err = tasks.FindByID(ctx, other.ID, "task-1")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSessionRepository_DayLogs(t *testing.T) {
	repo := NewSessionRepository(newTestDB(t))
	ctx := context.Background()

	first, err := repo.GetOrCreateDayLog(ctx, "u1", "2026-03-11", 480)
	require.NoError(t, err)
	assert.Equal(t, 480, first.BudgetMinutes)
	assert.False(t, first.Ended)

	// Second call returns the same log, not a new one.
	again, err := repo.GetOrCreateDayLog(ctx, "u1", "2026-03-11", 480)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	first.UsedMinutes = 120
	first.Ended = true
	require.NoError(t, repo.SaveDayLog(ctx, first))

	open, err := repo.ListOpenDayLogs(ctx, "2026-03-11")
	require.NoError(t, err)
	assert.Empty(t, open)

	fresh, err := repo.GetOrCreateDayLog(ctx, "u2", "2026-03-11", 480)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, fresh.ID)

	open, err = repo.ListOpenDayLogs(ctx, "2026-03-11")
	require.NoError(t, err)
	assert.Len(t, open, 1)
}

func TestSessionRepository_Sessions(t *testing.T) {
	repo := NewSessionRepository(newTestDB(t))
	ctx := context.Background()

	mk := func(date string, start time.Time, minutes int) *model.WorkSession {
		return &model.WorkSession{
			UserID:          "u1",
			TaskID:          "t1",
			TaskTitle:       "x",
			Tier:            model.TierAdmin,
			Date:            date,
			StartTime:       start,
			EndTime:         start.Add(time.Duration(minutes) * time.Minute),
			DurationMinutes: minutes,
		}
	}

	base := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.CreateSession(ctx, mk("2026-03-11", base.Add(2*time.Hour), 30)))
	require.NoError(t, repo.CreateSession(ctx, mk("2026-03-11", base, 60)))
	require.NoError(t, repo.CreateSession(ctx, mk("2026-03-12", base.AddDate(0, 0, 1), 45)))

	today, err := repo.ListByUserDate(ctx, "u1", "2026-03-11")
	require.NoError(t, err)
	require.Len(t, today, 2)
	// Ordered by start time.
	assert.Equal(t, 60, today[0].DurationMinutes)
	assert.Equal(t, 30, today[1].DurationMinutes)

	week, err := repo.ListRange(ctx, "u1", "2026-03-09", "2026-03-12")
	require.NoError(t, err)
	assert.Len(t, week, 3)

	other, err := repo.ListByUserDate(ctx, "u2", "2026-03-11")
	require.NoError(t, err)
	assert.Empty(t, other)
}
