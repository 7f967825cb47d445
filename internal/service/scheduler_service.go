package service

import (
	"fmt"
	"log"
	"strings"

	"github.com/robfig/cron/v3"
)

// SchedulerService wraps cron for the recurring jobs: the morning digest and
// the 18:30 day close.
type SchedulerService struct {
	cron *cron.Cron
}

func NewSchedulerService() *SchedulerService {
	return &SchedulerService{cron: cron.New()}
}

// ScheduleDaily registers a job to run every day at "HH:MM".
func (s *SchedulerService) ScheduleDaily(at string, job func()) error {
	parts := strings.Split(strings.TrimSpace(at), ":")
	if len(parts) != 2 {
		return fmt.Errorf("invalid daily time %q, expected HH:MM", at)
	}

	spec := fmt.Sprintf("%s %s * * *", parts[1], parts[0])
	if _, err := s.cron.AddFunc(spec, job); err != nil {
		return fmt.Errorf("schedule daily job at %s: %w", at, err)
	}

	log.Printf("[info] daily job scheduled at=%s", at)
	return nil
}

func (s *SchedulerService) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for running jobs to finish.
func (s *SchedulerService) Stop() {
	<-s.cron.Stop().Done()
}
