package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"taskboard/internal/model"
	"taskboard/internal/repository"
	"taskboard/internal/timetrack"
)

var (
	ErrPastEndOfDay = errors.New("workday is over, tracking starts again tomorrow")
	ErrDayEnded     = errors.New("today's work log is already closed")
	ErrNotTracking  = errors.New("no work session is running")
)

// ActiveSession is an in-memory running span; it only becomes a persisted
// WorkSession once it ends.
type ActiveSession struct {
	TaskID    string
	TaskTitle string
	Tier      model.Tier
	StartedAt time.Time
}

// TimetrackService runs the start/stop work-session flow against the 8-hour
// day budget. At most one session runs per user; starting a new one ends the
// previous one first.
type TimetrackService struct {
	sessionRepo *repository.SessionRepository

	mu     sync.Mutex
	active map[string]*ActiveSession // keyed by user ID
}

func NewTimetrackService(sessionRepo *repository.SessionRepository) *TimetrackService {
	return &TimetrackService{
		sessionRepo: sessionRepo,
		active:      make(map[string]*ActiveSession),
	}
}

// Start begins tracking the given task. Refused after 18:30 and on a closed
// day; a session already running for the user is ended and recorded first.
func (s *TimetrackService) Start(ctx context.Context, user *model.User, task *model.Task) (*model.WorkSession, error) {
	now := time.Now()
	if timetrack.PastEndOfDay(now) {
		return nil, ErrPastEndOfDay
	}

	dayLog, err := s.sessionRepo.GetOrCreateDayLog(ctx, user.ID, timetrack.DateString(now), timetrack.DayBudgetMinutes)
	if err != nil {
		return nil, err
	}
	if dayLog.Ended {
		return nil, ErrDayEnded
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var previous *model.WorkSession
	if running, ok := s.active[user.ID]; ok {
		previous, err = s.finishLocked(ctx, user.ID, running, now, true)
		if err != nil {
			return nil, err
		}
	}

	s.active[user.ID] = &ActiveSession{
		TaskID:    task.ID,
		TaskTitle: task.Title,
		Tier:      task.Tier,
		StartedAt: now,
	}

	log.Printf("[info] session started user=%s task=%s tier=%d", user.ID, task.ID, task.Tier)
	return previous, nil
}

// Stop ends the user's running session. An end time past 18:30 is capped at
// 18:30 so late stops never book after-hours minutes.
func (s *TimetrackService) Stop(ctx context.Context, user *model.User) (*model.WorkSession, *model.DayLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	running, ok := s.active[user.ID]
	if !ok {
		return nil, nil, ErrNotTracking
	}

	end := time.Now()
	if timetrack.PastEndOfDay(end) {
		end = timetrack.EndOfDay(end)
	}

	session, err := s.finishLocked(ctx, user.ID, running, end, true)
	if err != nil {
		return nil, nil, err
	}

	dayLog, err := s.sessionRepo.GetOrCreateDayLog(ctx, user.ID, session.Date, timetrack.DayBudgetMinutes)
	if err != nil {
		return nil, nil, err
	}
	return session, dayLog, nil
}

// Active returns the user's running session, or nil.
func (s *TimetrackService) Active(userID string) *ActiveSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active[userID]
}

// finishLocked persists the running span as a WorkSession, books its minutes
// into the day log and clears the in-memory state. Caller holds the mutex.
func (s *TimetrackService) finishLocked(ctx context.Context, userID string, running *ActiveSession, end time.Time, manual bool) (*model.WorkSession, error) {
	delete(s.active, userID)

	if end.Before(running.StartedAt) {
		end = running.StartedAt
	}

	session := &model.WorkSession{
		UserID:          userID,
		TaskID:          running.TaskID,
		TaskTitle:       running.TaskTitle,
		Tier:            running.Tier,
		Date:            timetrack.DateString(running.StartedAt),
		StartTime:       running.StartedAt,
		EndTime:         end,
		DurationMinutes: timetrack.WorkDuration(running.StartedAt, end),
		ManualEnd:       manual,
	}
	if err := s.sessionRepo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	dayLog, err := s.sessionRepo.GetOrCreateDayLog(ctx, userID, session.Date, timetrack.DayBudgetMinutes)
	if err != nil {
		return nil, err
	}
	dayLog.UsedMinutes += session.DurationMinutes
	if err := s.sessionRepo.SaveDayLog(ctx, dayLog); err != nil {
		return nil, err
	}

	log.Printf("[info] session ended user=%s task=%s minutes=%d manual=%t", userID, session.TaskID, session.DurationMinutes, manual)
	return session, nil
}

// CloseDay ends every still-open day log for the given date and force-stops
// any session still running, booking it up to the 18:30 cutoff. Runs from the
// end-of-day job.
func (s *TimetrackService) CloseDay(ctx context.Context, at time.Time) error {
	date := timetrack.DateString(at)
	cutoff := timetrack.EndOfDay(at)

	s.mu.Lock()
	for userID, running := range s.active {
		if timetrack.DateString(running.StartedAt) != date {
			continue
		}
		if _, err := s.finishLocked(ctx, userID, running, cutoff, false); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	s.mu.Unlock()

	logs, err := s.sessionRepo.ListOpenDayLogs(ctx, date)
	if err != nil {
		return fmt.Errorf("list open day logs: %w", err)
	}

	for i := range logs {
		logs[i].Ended = true
		endedAt := at
		logs[i].AutoEndedAt = &endedAt
		if err := s.sessionRepo.SaveDayLog(ctx, &logs[i]); err != nil {
			return err
		}
	}

	if len(logs) > 0 {
		log.Printf("[info] day closed date=%s logs=%d", date, len(logs))
	}
	return nil
}

// DaySummary is one user's tracked day: the budget log, its sessions and the
// per-tier time split.
type DaySummary struct {
	DayLog   *model.DayLog
	Sessions []model.WorkSession
	Shares   []timetrack.TierShare
}

// TodaySummary assembles the user's summary for the current date.
func (s *TimetrackService) TodaySummary(ctx context.Context, user *model.User) (*DaySummary, error) {
	date := timetrack.DateString(time.Now())

	dayLog, err := s.sessionRepo.GetOrCreateDayLog(ctx, user.ID, date, timetrack.DayBudgetMinutes)
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessionRepo.ListByUserDate(ctx, user.ID, date)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	return &DaySummary{
		DayLog:   dayLog,
		Sessions: sessions,
		Shares:   timetrack.TierShares(sessions),
	}, nil
}
