package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	_ "eventhub/docs"
	"eventhub/internal/config"
	"eventhub/internal/handlers"
	"eventhub/internal/middleware"
	"eventhub/internal/pdf"
	"eventhub/internal/repositories"
	"eventhub/internal/routes"
	"eventhub/internal/services"
)

const shutdownTimeout = 15 * time.Second

func Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	loc := cfg.Location()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// === DB ===
	db, err := repositories.Open(ctx, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("[app][db][close][err] %v", err)
		}
	}()
	if err := repositories.Migrate(ctx, db); err != nil {
		return err
	}

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	departmentRepo := repositories.NewDepartmentRepository(db)
	eventRepo := repositories.NewEventRepository(db)
	taskRepo := repositories.NewTaskRepository(db)
	partnershipRepo := repositories.NewPartnershipRepository(db)
	contactRepo := repositories.NewContactRepository(db)

	// === Services ===
	authService := services.NewAuthService()
	userService := services.NewUserService(userRepo, authService)
	departmentService := services.NewDepartmentService(departmentRepo)
	eventService := services.NewEventService(eventRepo)
	taskService := services.NewTaskService(taskRepo, eventRepo, departmentRepo)
	partnershipService := services.NewPartnershipService(partnershipRepo)
	contactService := services.NewContactService(contactRepo)

	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
		cfg.Email.DryRun,
	)
	whatsAppService := services.NewWhatsAppService(cfg.WhatsApp.BaseURL, cfg.WhatsApp.Token, cfg.WhatsApp.DryRun)
	notifier := services.MultiNotifier{emailService, whatsAppService}

	monitor := services.NewInactivityMonitor(
		partnershipRepo,
		notifier,
		cfg.Notifications.InactivityEmails,
		cfg.Notifications.InactivityPhones,
		cfg.Notifications.Locale,
	)
	digest := services.NewPendingDigest(taskService, notifier, loc, cfg.Notifications.Locale)

	// === Scheduler ===
	if cfg.Scheduler.Enabled {
		scheduler := services.NewSchedulerService(loc)
		if _, err := scheduler.ScheduleDaily("inactivity_check", cfg.Scheduler.InactivityCheck, func(ctx context.Context) error {
			_, err := monitor.Run(ctx)
			return err
		}); err != nil {
			return err
		}
		if _, err := scheduler.ScheduleDaily("pending_digest", cfg.Scheduler.PendingDigest, func(ctx context.Context) error {
			_, err := digest.Run(ctx)
			return err
		}); err != nil {
			return err
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	reportGen := pdf.NewPendingReportGenerator(cfg.PDF.FontPath)

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(userService, authService, []byte(cfg.Auth.JWTSecret), cfg.Auth.AccessTTL)
	userHandler := handlers.NewUserHandler(userService)
	healthHandler := handlers.NewHealthHandler(db)
	departmentHandler := handlers.NewDepartmentHandler(departmentService)
	eventHandler := handlers.NewEventHandler(eventService)
	taskHandler := handlers.NewTaskHandler(taskService, reportGen, loc, cfg.Notifications.Locale)
	partnershipHandler := handlers.NewPartnershipHandler(partnershipService)
	contactHandler := handlers.NewContactHandler(contactService)
	jobsHandler := handlers.NewJobsHandler(monitor, digest)

	// === Gin ===
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())

	routes.SetupRoutes(
		router,
		[]byte(cfg.Auth.JWTSecret),
		authHandler,
		userHandler,
		healthHandler,
		departmentHandler,
		eventHandler,
		taskHandler,
		partnershipHandler,
		contactHandler,
		jobsHandler,
	)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader, "Content-Disposition"},
	})

	// === Run ===
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[app][http] listening on %s (tz=%s)", srv.Addr, loc)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Printf("[app][http] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
