package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	ossignal "os/signal"
	"strings"
	"syscall"
	"time"

	"event-radar/internal/cache"
	"event-radar/internal/config"
	"event-radar/internal/db"
	mcpserver "event-radar/internal/mcp"
	"event-radar/internal/notify"
	"event-radar/internal/provider"
	"event-radar/internal/repository"
	"event-radar/internal/service"
	"event-radar/pkg/tracing"

	"github.com/joho/godotenv"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/trace"
)

const defaultMCPHTTPMaxBodyBytes int64 = 1 << 20 // 1MiB

var (
	loadEnvFunc             = godotenv.Load
	loadConfigFunc          = config.Load
	initPostgresFunc        = db.InitPostgres
	initRedisFunc           = cache.InitRedis
	initTracerFunc          = tracing.InitTracer
	newEventRepoFunc        = repository.NewEventRepository
	newPreferenceRepoFunc   = repository.NewPreferenceRepository
	newNotificationRepoFunc = repository.NewNotificationRepository
	newMCPServerFunc        = mcpserver.NewServer
	newMCPHandlerFunc       = mcpserver.NewHTTPTransportHandler
	newCalendarClientFunc   = func(baseURL string, tracer trace.Tracer) service.CalendarProvider {
		return provider.NewCalendarClient(baseURL, tracer, cache.Client)
	}
	newCalendarServiceFunc     = service.NewCalendarService
	newNotificationServiceFunc = service.NewNotificationService
	runStdioFunc               = func(ctx context.Context, server *sdkmcp.Server) error {
		return server.Run(ctx, &sdkmcp.StdioTransport{})
	}
	startHTTPServerFunc  = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFn = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
	setupSignalNotify    = ossignal.Notify
	waitForSignalFunc    = func(quit <-chan os.Signal) { <-quit }
)

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

	calendarProvider := newCalendarClientFunc(cfg.CalendarAPIURL, tracer)
	calendarService := newCalendarServiceFunc(tracer, eventRepo, calendarProvider)
	calendarService.SetMatchWindow(cfg.MatchWindowDays)

	notifyService := newNotificationServiceFunc(tracer, prefRepo, notifRepo, notify.NewEngine(nil), nil)
	notifyService.SetWorkers(cfg.NotifyWorkers)
	notifyService.SetRetention(cfg.RetentionLimit)
	notifyService.SetBaseURL(cfg.NotificationURL)

	mcpSrv := newMCPServerFunc(tracer, calendarService, notifyService, mcpserver.ServerConfig{
		RequestTimeout: time.Duration(cfg.MCPRequestTimeoutSecs) * time.Second,
	})

	transport := strings.ToLower(strings.TrimSpace(cfg.MCPTransport))
	switch transport {
	case "", "stdio":
		if err := runStdioFunc(ctx, mcpSrv); err != nil {
			log.Fatalf("mcp stdio server failed: %v", err)
		}
	case "http":
		if err := runHTTPMode(ctx, cancel, cfg, mcpSrv); err != nil {
			log.Fatalf("mcp http server failed: %v", err)
		}
	default:
		log.Fatalf("unsupported MCP_TRANSPORT: %s", cfg.MCPTransport)
	}
}

func runHTTPMode(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, mcpSrv *sdkmcp.Server) error {
	if !cfg.MCPHTTPEnabled {
		return fmt.Errorf("MCP_HTTP_ENABLED must be true when MCP_TRANSPORT=http")
	}
	if strings.TrimSpace(cfg.MCPAuthToken) == "" {
		return fmt.Errorf("MCP_AUTH_TOKEN is required when MCP_TRANSPORT=http")
	}

	handler := newMCPHandlerFunc(mcpSrv, mcpserver.HTTPHandlerConfig{
		AuthToken:       cfg.MCPAuthToken,
		RateLimitPerMin: cfg.MCPRateLimitPerMin,
		MaxBodyBytes:    defaultMCPHTTPMaxBodyBytes,
	})

	addr := net.JoinHostPort(cfg.MCPHTTPBind, fmt.Sprintf("%d", cfg.MCPHTTPPort))
	srv := &http.Server{Addr: addr, Handler: handler}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Printf("mcp http server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFn(srv, shutdownCtx); err != nil {
		return fmt.Errorf("mcp server forced to shutdown: %w", err)
	}
	return nil
}
