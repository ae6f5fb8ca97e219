package main

import (
	"context"
	"log"
	"net/http"
	"os"
	ossignal "os/signal"
	"strings"
	"syscall"
	"time"

	"event-radar/internal/bot"
	"event-radar/internal/cache"
	"event-radar/internal/config"
	"event-radar/internal/db"
	"event-radar/internal/handler"
	"event-radar/internal/job"
	"event-radar/internal/notify"
	"event-radar/internal/provider"
	"event-radar/internal/repository"
	"event-radar/internal/service"
	"event-radar/pkg/tracing"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	_ "event-radar/docs"
)

var (
	loadEnvFunc             = godotenv.Load
	loadConfigFunc          = config.Load
	initPostgresFunc        = db.InitPostgres
	initRedisFunc           = cache.InitRedis
	initTracerFunc          = tracing.InitTracer
	newEventRepoFunc        = repository.NewEventRepository
	newPreferenceRepoFunc   = repository.NewPreferenceRepository
	newNotificationRepoFunc = repository.NewNotificationRepository
	newAnalysisRepoFunc     = repository.NewAnalysisRepository
	newCalendarClientFunc   = func(baseURL string, tracer trace.Tracer) service.CalendarProvider {
		return provider.NewCalendarClient(baseURL, tracer, cache.Client)
	}
	newCalendarServiceFunc     = service.NewCalendarService
	newAnalysisServiceFunc     = service.NewAnalysisService
	newNotificationServiceFunc = service.NewNotificationService
	newCalendarPollerFunc      = job.NewCalendarPoller
	startCalendarPollerFunc    = func(p *job.CalendarPoller, ctx context.Context) { go p.Start(ctx) }
	newAnalysisSchedulerFunc   = job.NewAnalysisScheduler
	startAnalysisSchedFunc     = func(s *job.AnalysisScheduler, ctx context.Context) { go s.Start(ctx) }
	startTelegramBotFunc       = bot.StartTelegramBot
	newHandlerFunc             = handler.New
	newRouterFunc              = gin.Default
	setupSignalNotify          = ossignal.Notify
	waitForSignalFunc          = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc        = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc     = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           Event Radar API
// @version         1.0
// @description     Event intelligence and notification targeting service with OpenTelemetry tracing.

// @host      localhost:8080
// @BasePath  /
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	initPostgresFunc(ctx, cfg.DatabaseURL)
	initRedisFunc(ctx, cfg.RedisURL)

	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	eventRepo := newEventRepoFunc(db.Pool, tracer)
	prefRepo := newPreferenceRepoFunc(db.Pool, tracer)
	notifRepo := newNotificationRepoFunc(db.Pool, tracer)
	analysisRepo := newAnalysisRepoFunc(db.Pool, tracer)
	if db.Pool != nil {
		if err := eventRepo.RunMigrations(ctx); err != nil {
			log.Fatalf("failed to run event migrations: %v", err)
		}
		if err := prefRepo.RunMigrations(ctx); err != nil {
			log.Fatalf("failed to run preference migrations: %v", err)
		}
		if err := notifRepo.RunMigrations(ctx); err != nil {
			log.Fatalf("failed to run notification migrations: %v", err)
		}
		if err := analysisRepo.RunMigrations(ctx); err != nil {
			log.Fatalf("failed to run analysis migrations: %v", err)
		}
	}

	calendarProvider := newCalendarClientFunc(cfg.CalendarAPIURL, tracer)
	calendarService := newCalendarServiceFunc(tracer, eventRepo, calendarProvider)
	calendarService.SetMatchWindow(cfg.MatchWindowDays)
	analysisService := newAnalysisServiceFunc(tracer, analysisRepo, eventRepo)

	dispatcher := startTelegramBotFunc(cfg.TelegramBotToken, calendarService)
	var transport service.Transport
	if dispatcher != nil {
		transport = dispatcher
	}

	notifyService := newNotificationServiceFunc(tracer, prefRepo, notifRepo, notify.NewEngine(nil), transport)
	notifyService.SetWorkers(cfg.NotifyWorkers)
	notifyService.SetRetention(cfg.RetentionLimit)
	notifyService.SetBaseURL(cfg.NotificationURL)

	poller := newCalendarPollerFunc(tracer, calendarService, time.Duration(cfg.CalendarPollSecs)*time.Second)
	startCalendarPollerFunc(poller, ctx)
	scheduler := newAnalysisSchedulerFunc(tracer, analysisService, time.Duration(cfg.AnalysisPollSecs)*time.Second)
	startAnalysisSchedFunc(scheduler, ctx)

	h := newHandlerFunc(tracer, calendarService, analysisService, notifyService)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("event-radar"))
	r.Use(cors.Default())

	h.RegisterRoutes(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    httpAddrFromEnv(),
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}

func httpAddrFromEnv() string {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		return ":8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}
