package main

import (
	"github.com/rs/zerolog/log"

	"campusmate-backend/cmd/api"
	authdelivery "campusmate-backend/internal/auth/delivery"
	authdomain "campusmate-backend/internal/auth/domain"
	authrepo "campusmate-backend/internal/auth/repository"
	authusecase "campusmate-backend/internal/auth/usecase"
	eventdelivery "campusmate-backend/internal/event/delivery"
	eventdomain "campusmate-backend/internal/event/domain"
	eventrepo "campusmate-backend/internal/event/repository"
	eventusecase "campusmate-backend/internal/event/usecase"
	habitdelivery "campusmate-backend/internal/habit/delivery"
	habitdomain "campusmate-backend/internal/habit/domain"
	habitrepo "campusmate-backend/internal/habit/repository"
	habitusecase "campusmate-backend/internal/habit/usecase"
	notedelivery "campusmate-backend/internal/note/delivery"
	notedomain "campusmate-backend/internal/note/domain"
	noterepo "campusmate-backend/internal/note/repository"
	noteusecase "campusmate-backend/internal/note/usecase"
	"campusmate-backend/internal/portal/browser"
	portaldelivery "campusmate-backend/internal/portal/delivery"
	portaldomain "campusmate-backend/internal/portal/domain"
	"campusmate-backend/internal/portal/notify"
	portalrepo "campusmate-backend/internal/portal/repository"
	portalscheduler "campusmate-backend/internal/portal/scheduler"
	"campusmate-backend/internal/portal/scrape"
	portalusecase "campusmate-backend/internal/portal/usecase"
	taskdelivery "campusmate-backend/internal/task/delivery"
	taskdomain "campusmate-backend/internal/task/domain"
	taskrepo "campusmate-backend/internal/task/repository"
	taskscheduler "campusmate-backend/internal/task/scheduler"
	taskusecase "campusmate-backend/internal/task/usecase"
	txdelivery "campusmate-backend/internal/transaction/delivery"
	txdomain "campusmate-backend/internal/transaction/domain"
	txrepo "campusmate-backend/internal/transaction/repository"
	txusecase "campusmate-backend/internal/transaction/usecase"
	"campusmate-backend/pkg/config"
	"campusmate-backend/pkg/crypto"
	"campusmate-backend/pkg/database"
	"campusmate-backend/pkg/fcm"
	"campusmate-backend/pkg/logger"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	if err := db.AutoMigrate(
		&authdomain.User{},
		&authdomain.RefreshToken{},
		&authdomain.FCMToken{},
		&taskdomain.Task{},
		&notedomain.Note{},
		&habitdomain.Habit{},
		&habitdomain.HabitLog{},
		&txdomain.Transaction{},
		&eventdomain.Event{},
		&portaldomain.CourseGradeRecord{},
		&portaldomain.ResultHistoryRecord{},
		&portaldomain.StudentStatsRecord{},
	); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	box, err := crypto.NewBox(cfg.CredSecretKey)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize credential cipher")
	}

	// Repositories
	userRepo := authrepo.NewUserRepository(db)
	fcmTokenRepo := authrepo.NewFCMTokenRepository(db)
	taskRepository := taskrepo.NewGormTaskRepository(db)
	noteRepository := noterepo.NewNoteRepository(db)
	habitRepository := habitrepo.NewGormHabitRepository(db)
	txRepository := txrepo.NewGormTransactionRepository(db)
	eventRepository := eventrepo.NewGormEventRepository(db)
	gradeRepo := portalrepo.NewGradeRepository(db)
	historyRepo := portalrepo.NewHistoryRepository(db)
	statsRepo := portalrepo.NewStatsRepository(db)

	// Use cases
	authUc := authusecase.NewAuthUsecase(userRepo, fcmTokenRepo, box, cfg)
	taskUc := taskusecase.NewTaskUsecase(taskRepository)
	noteUc := noteusecase.NewNoteUsecase(noteRepository)
	habitUc := habitusecase.NewHabitUsecase(habitRepository)
	txUc := txusecase.NewTransactionUsecase(txRepository)
	eventUc := eventusecase.NewEventUsecase(eventRepository)

	// Portal sync agent
	sessions := browser.NewManager(cfg)
	auth := portalusecase.NewMachineAuthenticator(cfg)
	grades := scrape.NewGradeExtractor(cfg.PortalBaseURL)
	history := scrape.NewHistoryExtractor(cfg.PortalBaseURL)
	coordinator := portalusecase.NewSyncCoordinator(
		userRepo, sessions, auth, grades, history,
		gradeRepo, historyRepo, statsRepo, box, cfg,
	)

	// FCM is optional; without credentials reminders and sync pushes
	// are disabled.
	var fcmClient *fcm.Client
	if cfg.FirebaseCredentials != "" {
		fcmClient, err = fcm.NewClient(cfg.FirebaseCredentials)
		if err != nil {
			log.Warn().Err(err).Msg("FCM disabled, continuing without push notifications")
			fcmClient = nil
		} else {
			coordinator.SetNotifier(notify.NewPushNotifier(fcmClient, fcmTokenRepo))
		}
	}

	// Background schedulers
	reminders := taskscheduler.NewTaskReminderScheduler(taskRepository, fcmTokenRepo, fcmClient)
	reminders.Start()
	defer reminders.Stop()

	syncScheduler := portalscheduler.NewSyncScheduler(coordinator, userRepo, cfg.SyncCron)
	if err := syncScheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start sync scheduler")
	}
	defer syncScheduler.Stop()

	router := api.NewRouter(cfg, authUc, api.Handlers{
		Auth:        authdelivery.NewAuthHandler(authUc),
		Portal:      portaldelivery.NewPortalHandler(coordinator, gradeRepo, historyRepo, statsRepo),
		Task:        taskdelivery.NewTaskHandler(taskUc),
		Note:        notedelivery.NewNoteHandler(noteUc),
		Habit:       habitdelivery.NewHabitHandler(habitUc),
		Transaction: txdelivery.NewTransactionHandler(txUc),
		Event:       eventdelivery.NewEventHandler(eventUc),
	})

	log.Info().Str("port", cfg.Port).Msg("Server starting")
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}
