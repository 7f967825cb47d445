package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskboard/internal/bot"
	"taskboard/internal/classify"
	"taskboard/internal/config"
	"taskboard/internal/repository"
	"taskboard/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if cfg.KeywordsFile != "" {
		if err := classify.LoadKeywords(cfg.KeywordsFile); err != nil {
			log.Fatalf("keywords: %v", err)
		}
		log.Printf("[info] keyword overrides loaded from %s", cfg.KeywordsFile)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	taskSvc := service.NewTaskService(taskRepo, userRepo)
	trackSvc := service.NewTimetrackService(sessionRepo)
	reminderSvc := service.NewReminderService(taskSvc, trackSvc)
	reportSvc := service.NewReportService(sessionRepo)

	telegramBot, err := bot.New(cfg.TelegramToken, userRepo, taskSvc, trackSvc, reminderSvc, reportSvc, &cfg)
	if err != nil {
		log.Fatalf("bot: %v", err)
	}

	scheduler := service.NewSchedulerService()
	if err := scheduler.ScheduleDaily(cfg.ReportTime, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		if err := taskSvc.RescoreAll(jobCtx); err != nil {
			log.Printf("rescore: %v", err)
		}
		if err := telegramBot.SendDailyReports(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("digest: %v", err)
		}
	}); err != nil {
		log.Fatalf("schedule digest: %v", err)
	}
	if err := scheduler.ScheduleDaily(cfg.WorkdayEnd, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		if err := trackSvc.CloseDay(jobCtx, time.Now()); err != nil {
			log.Printf("close day: %v", err)
		}
	}); err != nil {
		log.Fatalf("schedule day close: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	log.Println("Taskboard bot started.")
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("bot stopped with error: %v", err)
	}
	log.Println("Shutdown complete.")
}
