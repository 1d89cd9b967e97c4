package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"aitana/config"
	"aitana/cron"
	"aitana/database"
	recordsRepo "aitana/database/repository/records"
	"aitana/handlers"
	"aitana/middleware"
	"aitana/routes"
	"aitana/services/calendar"
	"aitana/services/chat"
	"aitana/services/relay"
	"aitana/services/roster"
	"aitana/services/storage"
	"aitana/services/tasks"
	"aitana/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Session store.
	var store chat.SessionStore
	idleTTL := time.Duration(config.AppConfig.SessionIdleTTLMin) * time.Minute
	switch config.AppConfig.SessionBackend {
	case "redis":
		ttl := idleTTL
		if ttl <= 0 {
			ttl = 24 * time.Hour
		}
		store = chat.NewRedisSessionStore(utils.GetSessionCacheClient(), ttl)
	default:
		memStore := chat.NewMemorySessionStore(idleTTL)
		memStore.StartReaper(ctx, time.Minute)
		store = memStore
	}

	// Completion gateway.
	var gateway chat.CompletionGateway
	var threads chat.ThreadedGateway
	pollInterval := time.Duration(config.AppConfig.RunPollMillis) * time.Millisecond
	switch config.AppConfig.AIProvider {
	case "openai-threads":
		threads = chat.NewAssistantGateway(
			config.AppConfig.OpenAIKey,
			config.AppConfig.OpenAIAssistant,
			pollInterval,
			config.AppConfig.RunPollMaxChecks,
		)
	case "gemini":
		g, err := chat.NewGeminiGateway(ctx, config.AppConfig.GeminiKey)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize gemini gateway: %v", err)
		}
		gateway = g
	default:
		gateway = chat.NewOpenAIGateway(config.AppConfig.OpenAIKey, config.AppConfig.OpenAIModel)
	}

	// Telegram relay.
	var relaySvc relay.Relay
	if config.AppConfig.TelegramBotToken != "" && config.AppConfig.TelegramChatID != "" {
		relaySvc = relay.NewTelegramRelay(config.AppConfig.TelegramBotToken, config.AppConfig.TelegramChatID)
	} else {
		logger.Warn("Telegram relay not configured; handoffs will only be logged")
	}

	// Handoff archive (optional).
	var records recordsRepo.RecordRepository
	if config.AppConfig.DatabaseURL != "" {
		database.InitDB()
		records = recordsRepo.NewMongoRecordRepo()
	}

	// Queued handoff dispatch (optional): the summary send becomes a
	// Redis-backed task with retries instead of an inline best-effort call.
	var dispatcher chat.HandoffDispatcher
	if config.AppConfig.HandoffDispatch == "queue" {
		if relaySvc == nil {
			logger.Warn("HANDOFF_DISPATCH=queue but no relay configured; staying inline")
		} else {
			qd := tasks.NewQueueDispatcher(cron.QueueRedisOpt())
			defer qd.Close()
			dispatcher = qd
			cron.InitHandoffWorker(relaySvc, records)
		}
	}

	chatService := &chat.DefaultChatService{
		Store:      store,
		Gateway:    gateway,
		Threads:    threads,
		Relay:      relaySvc,
		Records:    records,
		Dispatcher: dispatcher,
	}

	// Roster and calendar pass-throughs (optional).
	var rosterSvc roster.RosterService
	if key := config.AppConfig.GoogleSheetsKey; key != "" && config.AppConfig.SpreadsheetID != "" {
		svc, err := roster.NewSheetsRosterService(ctx, []byte(key), config.AppConfig.SpreadsheetID)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize sheets roster: %v", err)
		}
		rosterSvc = svc
	}

	var calendarSvc calendar.CalendarService
	if key := config.AppConfig.GoogleCalendarKey; key != "" {
		svc, err := calendar.NewGoogleCalendarService(ctx, []byte(key), config.AppConfig.CalendarID)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize calendar: %v", err)
		}
		calendarSvc = svc
	}

	// Reference image storage (optional).
	var storageSvc storage.StorageService
	if cloudName := viper.GetString("CLOUDINARY_CLOUD_NAME"); cloudName != "" {
		svc, err := storage.NewCloudinaryStorage(
			cloudName,
			viper.GetString("CLOUDINARY_API_KEY"),
			viper.GetString("CLOUDINARY_API_SECRET"),
		)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize cloudinary storage: %v", err)
		}
		storageSvc = svc
	}

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	handlerBundle := &handlers.HandlerBundle{
		Chat:         handlers.NewChatHandler(chatService),
		Notification: handlers.NewNotificationHandler(relaySvc),
		Roster:       handlers.NewRosterHandler(rosterSvc),
		Appointments: handlers.NewAppointmentHandler(calendarSvc),
		Storage:      handlers.NewStorageHandler(storageSvc),
		Records:      handlers.NewRecordsHandler(records),
	}
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "3000"
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
	<-ctx.Done()
	logger.Sugar().Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
