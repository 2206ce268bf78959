package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/kostadin12/sis-api/internal/config"
	appHTTP "github.com/kostadin12/sis-api/internal/handler/http"
	"github.com/kostadin12/sis-api/internal/pkg/cron"
	"github.com/kostadin12/sis-api/internal/pkg/database"
	"github.com/kostadin12/sis-api/internal/pkg/email"
	"github.com/kostadin12/sis-api/internal/pkg/holiday"
	"github.com/kostadin12/sis-api/internal/repository/postgresql"
	absenceService "github.com/kostadin12/sis-api/internal/service/absence"
	calendarService "github.com/kostadin12/sis-api/internal/service/calendar"
	notificationService "github.com/kostadin12/sis-api/internal/service/notification"
	reportService "github.com/kostadin12/sis-api/internal/service/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	userRepo := postgresql.NewUserRepository(db)
	absenceRepo := postgresql.NewAbsenceRepository(db)
	membershipRepo := postgresql.NewMembershipRepository(db)
	subscriptionRepo := postgresql.NewSubscriptionRepository(db)
	yearEntryRepo := postgresql.NewYearEntryRepository(db)
	transactor := postgresql.NewTransactor(db)

	mailer, err := email.NewMailer(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize mailer:", err)
	}

	holidayClient := holiday.NewClient(cfg.Holiday)
	calendarSvc := calendarService.NewService(yearEntryRepo, holidayClient)
	reportSvc := reportService.NewService(calendarSvc, absenceRepo, userRepo)
	notificationSvc := notificationService.NewService(userRepo, membershipRepo, subscriptionRepo, mailer)

	overlaps := absenceService.NewOverlapValidator(absenceRepo)
	substitutes := absenceService.NewSubstituteResolver(userRepo, membershipRepo)
	absenceSvc := absenceService.NewService(transactor, absenceRepo, userRepo, overlaps, substitutes, notificationSvc)

	absenceHandler := appHTTP.NewAbsenceHandler(absenceSvc, userRepo)
	calendarHandler := appHTTP.NewCalendarHandler(calendarSvc)
	reportHandler := appHTTP.NewReportHandler(reportSvc)

	router := appHTTP.NewRouter(cfg.App, absenceHandler, calendarHandler, reportHandler)

	scheduler := cron.NewScheduler()
	cron.NewCalendarJobs(calendarSvc).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
