package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"taskboard/internal/model"
)

// SessionRepository persists work sessions and day logs.
type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) CreateSession(ctx context.Context, session *model.WorkSession) error {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (r *SessionRepository) ListByUserDate(ctx context.Context, userID, date string) ([]model.WorkSession, error) {
	var sessions []model.WorkSession
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		Order("start_time").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListRange returns one user's sessions with dates in [from, to] inclusive.
func (r *SessionRepository) ListRange(ctx context.Context, userID, from, to string) ([]model.WorkSession, error) {
	var sessions []model.WorkSession
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Order("start_time").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// GetOrCreateDayLog returns the user's log for the given date, creating a
// fresh one with the default 8-hour budget when none exists yet.
func (r *SessionRepository) GetOrCreateDayLog(ctx context.Context, userID, date string, budgetMinutes int) (*model.DayLog, error) {
	var dayLog model.DayLog
	db := r.db.WithContext(ctx)
	err := db.Where("user_id = ? AND date = ?", userID, date).First(&dayLog).Error
	switch {
	case err == nil:
		return &dayLog, nil
	case err == gorm.ErrRecordNotFound:
		dayLog = model.DayLog{
			UserID:        userID,
			Date:          date,
			BudgetMinutes: budgetMinutes,
		}
		if err := db.Create(&dayLog).Error; err != nil {
			return nil, fmt.Errorf("create day log: %w", err)
		}
		return &dayLog, nil
	default:
		return nil, fmt.Errorf("find day log: %w", err)
	}
}

func (r *SessionRepository) SaveDayLog(ctx context.Context, dayLog *model.DayLog) error {
	if err := r.db.WithContext(ctx).Save(dayLog).Error; err != nil {
		return fmt.Errorf("save day log: %w", err)
	}
	return nil
}

// ListOpenDayLogs returns every not-yet-ended log for the given date,
// regardless of user. Used by the end-of-day job.
func (r *SessionRepository) ListOpenDayLogs(ctx context.Context, date string) ([]model.DayLog, error) {
	var logs []model.DayLog
	if err := r.db.WithContext(ctx).
		Where("date = ? AND ended = ?", date, false).
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
