// Package main is the entry point for the API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/parentbridge/parent-assistant/internal/config"
	"github.com/parentbridge/parent-assistant/internal/events"
	"github.com/parentbridge/parent-assistant/internal/handler"
	"github.com/parentbridge/parent-assistant/internal/llm"
	"github.com/parentbridge/parent-assistant/internal/middleware"
	natsclient "github.com/parentbridge/parent-assistant/internal/nats"
	"github.com/parentbridge/parent-assistant/internal/service"
	"github.com/parentbridge/parent-assistant/internal/store"
	memorystore "github.com/parentbridge/parent-assistant/internal/store/memory"
	mongostore "github.com/parentbridge/parent-assistant/internal/store/mongo"
	"github.com/parentbridge/parent-assistant/pkg/logger"
	"github.com/parentbridge/parent-assistant/pkg/tracing"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting API server")

	ctx := context.Background()

	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "parent-assistant", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Store: a startup failure here is fatal.
	var (
		convStore   store.ConversationStore
		schoolStore store.SchoolStore
		pinger      store.Pinger
	)
	switch cfg.StorageBackend {
	case "memory":
		log.Warn("using in-memory storage, data will not survive a restart")
		mem := memorystore.NewConversationStore()
		convStore = mem
		schoolStore = memorystore.NewSchoolStore(nil)
		pinger = mem
	default:
		ms, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			log.Error("failed to connect to store", zap.Error(err))
			os.Exit(1)
		}
		defer ms.Close(context.Background())

		if err := ms.EnsureIndexes(ctx); err != nil {
			log.Error("failed to ensure indexes", zap.Error(err))
			os.Exit(1)
		}

		convStore = ms
		schoolStore = ms
		pinger = ms
		log.Info("connected to mongodb", zap.String("database", cfg.MongoDatabase))
	}

	// Optional conversation event feed.
	var publisher events.Publisher = events.NewNoop()
	if cfg.NATSURL != "" {
		nc, err := natsclient.Connect(ctx, natsclient.Config{
			URL:   cfg.NATSURL,
			Token: cfg.NATSToken,
		}, log)
		if err != nil {
			log.Warn("failed to connect to NATS, event feed disabled", zap.Error(err))
		} else {
			defer nc.Close()
			np := events.NewNATSPublisher(nc)
			if err := np.EnsureStream(ctx); err != nil {
				log.Warn("failed to ensure events stream, event feed disabled", zap.Error(err))
			} else {
				publisher = np
				log.Info("conversation event feed enabled")
			}
		}
	}

	// Completion gateway.
	var llmClient llm.Client
	switch {
	case cfg.DefaultLLM == "anthropic" && cfg.AnthropicAPIKey != "":
		llmClient, err = llm.NewAnthropicClient(cfg.AnthropicAPIKey)
	case cfg.OpenAIAPIKey != "":
		llmClient, err = llm.NewOpenAIClient(cfg.OpenAIAPIKey)
	case cfg.AnthropicAPIKey != "":
		llmClient, err = llm.NewAnthropicClient(cfg.AnthropicAPIKey)
	default:
		log.Warn("no LLM API key configured, using mock completion client")
		llmClient = llm.NewMockClient()
	}
	if err != nil {
		log.Error("failed to create LLM client", zap.Error(err))
		os.Exit(1)
	}
	gateway := llm.NewGateway(llmClient, cfg.CompletionModel, cfg.GatewayTimeout)
	log.Info("completion gateway ready", zap.String("provider", gateway.Provider()))

	// Services and handlers.
	conversationSvc := service.NewConversationService(convStore, gateway, publisher, log)
	schoolSvc := service.NewSchoolService(schoolStore, log)

	healthHandler := handler.NewHealthHandler(pinger)
	conversationHandler := handler.NewConversationHandler(conversationSvc, log)
	messageHandler := handler.NewMessageHandler(conversationSvc, log)
	schoolHandler := handler.NewSchoolHandler(schoolSvc, log)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Correlation-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		if cfg.AuthEnabled && cfg.JWTSecret != "" {
			r.Use(middleware.Auth(cfg.JWTSecret))
		}

		r.Route("/conversations", func(r chi.Router) {
			r.Post("/", conversationHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", conversationHandler.Get)
				r.Delete("/", conversationHandler.Delete)

				r.Get("/messages", messageHandler.List)
				r.Post("/messages", messageHandler.Append)
			})
		})

		r.Get("/users/{userID}/conversations", conversationHandler.ListForUser)

		r.Route("/schools", func(r chi.Router) {
			r.Get("/", schoolHandler.List)
			r.Get("/nearby", schoolHandler.Nearby)
		})
	})

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
