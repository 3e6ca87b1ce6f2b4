package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"calendar-planner/internal/bot"
	"calendar-planner/internal/config"
	"calendar-planner/internal/model"
	"calendar-planner/internal/repository"
	"calendar-planner/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	categories := model.NewCategorySet(cfg.Settings.Categories)

	userRepo := repository.NewUserRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	activitySvc := service.NewActivityService(activityRepo, categories)
	agendaSvc := service.NewAgendaService(activityRepo, categories, &cfg.Settings)
	exportSvc := service.NewExportService(activityRepo, categories)

	plannerBot, err := bot.New(cfg.TelegramToken, userRepo, activitySvc, agendaSvc, exportSvc)
	if err != nil {
		log.Fatalf("bot: %v", err)
	}

	if cfg.Settings.ReportTime != "" {
		scheduler := service.NewSchedulerService()
		if _, err := scheduler.ScheduleDaily(cfg.Settings.ReportTime, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := plannerBot.SendDailyReports(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("report: %v", err)
			}
		}); err != nil {
			log.Fatalf("schedule reports: %v", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	log.Println("Calendar planner bot started.")
	if err := plannerBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("bot stopped with error: %v", err)
	}
	log.Println("Shutdown complete.")
}
