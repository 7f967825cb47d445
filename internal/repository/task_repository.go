package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"taskboard/internal/model"
)

// TaskRepository handles CRUD for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// ListOpenByAssignee returns the assignee's not-yet-completed tasks with
// collaborators preloaded, earliest deadline first.
func (r *TaskRepository) ListOpenByAssignee(ctx context.Context, userID string) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Preload("Collaborators").
		Where("assignee_id = ? AND status <> ?", userID, model.StatusCompleted).
		Order("deadline NULLS LAST, created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) ListAll(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Preload("Collaborators").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, userID, taskID string) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).
		Preload("Collaborators").
		Where("assignee_id = ? AND id = ?", userID, taskID).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// SetStatus moves a task through its lifecycle. Completion stamps
// CompletedAt; moving back to pending clears it.
func (r *TaskRepository) SetStatus(ctx context.Context, task *model.Task, status model.TaskStatus, at time.Time) error {
	task.Status = status
	if status == model.StatusCompleted {
		task.CompletedAt = &at
	} else {
		task.CompletedAt = nil
	}
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("set task status: %w", err)
	}
	return nil
}

// SavePriorityScore refreshes the cached score column. The stored value is
// display-only; it is recomputed before every use.
func (r *TaskRepository) SavePriorityScore(ctx context.Context, taskID string, score int) error {
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ?", taskID).
		Update("priority_score", score).Error; err != nil {
		return fmt.Errorf("save priority score: %w", err)
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, userID, taskID string) error {
	if err := r.db.WithContext(ctx).Where("assignee_id = ? AND id = ?", userID, taskID).
		Delete(&model.Task{}).Error; err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
