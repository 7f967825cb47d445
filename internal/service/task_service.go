package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskboard/internal/classify"
	"taskboard/internal/model"
	"taskboard/internal/priority"
	"taskboard/internal/repository"
	"taskboard/internal/symbol"
)

var (
	ErrEmptyTitle       = errors.New("task title is empty")
	ErrInvalidMetric    = errors.New("invalid quantitative input")
	ErrTaskNotStartable = errors.New("task is not in a startable state")
)

// TaskService owns the task lifecycle: creation with tier classification,
// priority scoring, status transitions and the sorted/bucketed views the bot
// renders.
type TaskService struct {
	taskRepo *repository.TaskRepository
	userRepo *repository.UserRepository
}

func NewTaskService(taskRepo *repository.TaskRepository, userRepo *repository.UserRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo, userRepo: userRepo}
}

// TaskInput carries everything the creation dialog collected. The three
// quantitative texts stay raw strings; parsing and typing happen here.
type TaskInput struct {
	Title       string
	Description string
	Priority    model.TaskPriority

	FinancialText string
	QuantityText  string
	TimeText      string

	Deadline         *time.Time
	EstimatedMinutes int
	SymbolID         string
	CollaboratorIDs  []string
}

// CreateTask validates the quantitative inputs, classifies the task into a
// tier, assigns a symbol, scores it and persists it. The returned string is
// the tier-alignment warning, "" when tier and numbers agree; warnings never
// block creation.
func (s *TaskService) CreateTask(ctx context.Context, user *model.User, input TaskInput) (*model.Task, string, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, "", ErrEmptyTitle
	}

	for _, text := range []string{input.FinancialText, input.QuantityText, input.TimeText} {
		if result := classify.ValidateField(text); !result.Valid {
			return nil, "", fmt.Errorf("%w: %s", ErrInvalidMetric, result.Message)
		}
	}

	description := strings.TrimSpace(input.Description)
	metrics := classify.BuildMetrics(input.FinancialText, input.QuantityText, input.TimeText)

	tier := classify.StrategyFor(input.Priority, metrics).Classify(title, description)

	// The warning compares the user's coarse judgement against the numbers;
	// the persisted tier already follows the metrics.
	warning := ""
	if !metrics.Empty() {
		intended := classify.ClassifyBasic(title, description, input.Priority)
		warning = classify.CheckAlignment(intended, metrics)
	}

	symbolID := input.SymbolID
	if symbolID == "" {
		matchText := description
		if matchText == "" {
			matchText = title
		}
		symbolID = symbol.Match(matchText).ID
	}

	collaborators, err := s.userRepo.FindByIDs(ctx, input.CollaboratorIDs)
	if err != nil {
		return nil, "", fmt.Errorf("resolve collaborators: %w", err)
	}

	now := time.Now()
	task := &model.Task{
		ID:               uuid.NewString(),
		Title:            title,
		Description:      description,
		Priority:         input.Priority,
		Tier:             tier,
		Status:           model.StatusPending,
		AssigneeID:       user.ID,
		Collaborators:    collaborators,
		SymbolID:         symbolID,
		Deadline:         input.Deadline,
		EstimatedMinutes: input.EstimatedMinutes,
		Metrics:          metrics,
		CreatedAt:        now,
	}
	task.PriorityScore = priority.Score(task, now)

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, "", err
	}

	log.Printf("[info] task created id=%s tier=%d score=%d user=%s", task.ID, task.Tier, task.PriorityScore, user.ID)
	return task, warning, nil
}

// ListSorted returns the user's open tasks ordered for list rendering, with
// priority scores recomputed against the current time.
func (s *TaskService) ListSorted(ctx context.Context, user *model.User) ([]model.Task, error) {
	tasks, err := s.taskRepo.ListOpenByAssignee(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	now := time.Now()
	sorted := priority.SortForDisplay(tasks, now)
	for i := range sorted {
		sorted[i].PriorityScore = priority.Score(&sorted[i], now)
	}
	return sorted, nil
}

// GroupedByBucket splits the user's open tasks into the four action-urgency
// buckets, sorted within each bucket.
func (s *TaskService) GroupedByBucket(ctx context.Context, user *model.User) (map[priority.Bucket][]model.Task, error) {
	tasks, err := s.taskRepo.ListOpenByAssignee(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return priority.GroupByBucket(tasks, time.Now()), nil
}

func (s *TaskService) GetTask(ctx context.Context, user *model.User, taskID string) (*model.Task, error) {
	return s.taskRepo.FindByID(ctx, user.ID, taskID)
}

// StartTask moves a pending task to in-progress.
func (s *TaskService) StartTask(ctx context.Context, user *model.User, taskID string) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, user.ID, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status == model.StatusCompleted {
		return nil, ErrTaskNotStartable
	}
	if err := s.taskRepo.SetStatus(ctx, task, model.StatusInProgress, time.Now()); err != nil {
		return nil, err
	}
	return task, nil
}

// PauseTask returns an in-progress task to pending.
func (s *TaskService) PauseTask(ctx context.Context, user *model.User, taskID string) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, user.ID, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.taskRepo.SetStatus(ctx, task, model.StatusPending, time.Now()); err != nil {
		return nil, err
	}
	return task, nil
}

// CompleteTask marks the task completed and stamps the completion time.
func (s *TaskService) CompleteTask(ctx context.Context, user *model.User, taskID string) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, user.ID, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.taskRepo.SetStatus(ctx, task, model.StatusCompleted, time.Now()); err != nil {
		return nil, err
	}
	log.Printf("[info] task completed id=%s user=%s", task.ID, user.ID)
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, user *model.User, taskID string) error {
	return s.taskRepo.Delete(ctx, user.ID, taskID)
}

// RescoreAll recomputes the cached priority score of every task and persists
// the ones that drifted. Runs from the daily job; scores drift with time even
// when tasks do not change.
func (s *TaskService) RescoreAll(ctx context.Context) error {
	tasks, err := s.taskRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}

	now := time.Now()
	updated := 0
	for i := range tasks {
		score := priority.Score(&tasks[i], now)
		if score == tasks[i].PriorityScore {
			continue
		}
		if err := s.taskRepo.SavePriorityScore(ctx, tasks[i].ID, score); err != nil {
			return err
		}
		updated++
	}

	if updated > 0 {
		log.Printf("[info] priority scores refreshed count=%d", updated)
	}
	return nil
}
