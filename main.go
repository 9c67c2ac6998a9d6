package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"barberbook/config"
	"barberbook/cron"
	"barberbook/handlers"
	"barberbook/middleware"
	"barberbook/routes"
	"barberbook/services/availability"
	"barberbook/services/backend"
	"barberbook/services/catalog"
	"barberbook/services/notification"
	"barberbook/services/payment"
	"barberbook/services/session"
	"barberbook/services/tasks"
	"barberbook/services/wizard"
	"barberbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	loc := cfg.Location()
	cat := catalog.New(catalog.BusinessHours{
		OpenHour:    cfg.BusinessOpenHour,
		CloseHour:   cfg.BusinessCloseHour,
		SlotMinutes: cfg.SlotMinutes,
	})

	// Scheduling backend. Tokens come from each request's context.
	backendClient := backend.NewClient(backend.Options{
		BaseURL:           cfg.BackendBaseURL,
		Timeout:           cfg.BackendTimeout(),
		RequestsPerSecond: cfg.BackendRPS,
		Tokens:            backend.ContextTokenStore{},
		Navigator:         handlers.Navigator(),
		Logger:            logger.Named("backend"),
	})

	// Card verification.
	stripeProcessor := payment.NewStripeProcessor(cfg.StripeSecretKey, payment.StripeOptions{
		AmountCents: cfg.VerificationAmountCents,
		Currency:    cfg.Currency,
	}, logger.Named("stripe"))
	var processor payment.Processor = payment.NewGatewayProcessor(stripeProcessor, backendClient)
	if cfg.PaymentVerifyMode == "stripe" {
		processor = stripeProcessor
	}

	// Booking sessions.
	var redisClients []*redis.Client
	var store session.Store
	if cfg.SessionStore == "redis" {
		client := utils.GetSessionCacheClient()
		redisClients = append(redisClients, client)
		store = session.NewRedisStore(client, cfg.SessionTTL())
	} else {
		mem := session.NewMemoryStore(cfg.SessionTTL())
		store = mem
		go func() {
			ticker := time.NewTicker(time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-rootCtx.Done():
					return
				case <-ticker.C:
					mem.Sweep()
				}
			}
		}()
	}

	// Appointment reminders.
	var reminders wizard.ReminderScheduler
	stopWorker := func() {}
	if cfg.RemindersEnabled {
		queue := asynq.NewClient(cron.RedisOpt())
		defer queue.Close()
		reminders = tasks.NewScheduler(queue, cfg.ReminderLead(), loc, logger.Named("reminders"))

		notifSvc, err := notification.NewLogNotificationService(logger.Named("notification"))
		if err != nil {
			logger.Fatal("main: failed to initialize notification service", zap.Error(err))
		}
		stopWorker = cron.InitReminderWorker(rootCtx, notifSvc, logger.Named("worker"))
	}

	deps := wizard.Deps{
		Catalog:      cat,
		Availability: availability.NewResolver(backendClient, logger.Named("availability")),
		Bookings:     backendClient,
		Reminders:    reminders,
		Location:     loc,
		Logger:       logger.Named("wizard"),
	}

	catalogHandler := handlers.NewCatalogHandler(cat, loc)
	bookingHandler := handlers.NewBookingHandler(deps, store, processor, cfg.PaymentStrategy, logger.Named("booking"))
	adminHandler := handlers.NewAdminHandler(backendClient, loc, logger.Named("admin"))
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-rootCtx.Done():
				return
			case <-ticker.C:
				if n := bookingHandler.Sweep(cfg.SessionTTL()); n > 0 {
					logger.Debug("closed idle booking sessions", zap.Int("count", n))
				}
			}
		}
	}()

	utils.StartHealthMonitor(rootCtx, 30*time.Second, redisClients, backendClient)

	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	routes.RegisterRoutes(router, handlers.NewHandlerBundle(catalogHandler, bookingHandler, adminHandler))

	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	stop()
	stopWorker()

	logger.Sugar().Info("main: server stopped gracefully")
}
