package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rentchat/internal/config"
	"rentchat/internal/handler"
	"rentchat/internal/logger"
	"rentchat/internal/model"
	"rentchat/internal/prompt"
	"rentchat/internal/repository"
	"rentchat/internal/service"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer log.Sync()

	log.Info("rentchat server starting",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
	)

	gin.SetMode(cfg.Server.GinMode)

	// Prompt templates are part of the deployment; failing to load them is
	// fatal, unlike any data-dependent failure at request time.
	prompts, err := prompt.NewRenderer()
	if err != nil {
		log.Fatal("failed to load prompt templates", zap.Error(err))
	}

	store, cleanup, err := buildStore(cfg, log)
	if err != nil {
		log.Fatal("failed to initialize catalog store", zap.Error(err))
	}
	if cleanup != nil {
		defer cleanup()
	}

	if cfg.OpenAI.APIKey == "" {
		log.Warn("OPENAI_API_KEY is not set, replies will be placeholder text")
	}
	llm := service.NewOpenAIClient(&cfg.OpenAI, log.Named("openai"))

	parser := service.NewQueryParser(llm, log.Named("nlu"))
	chatService := service.NewChatService(llm, parser, store, prompts, cfg.Chat.ResetKeywords, log.Named("chat"))
	sessions := service.NewSessionRegistry()
	chatHandler := handler.NewChatHandler(chatService, sessions, log.Named("http"))

	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.AllowedOrigins}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "rentchat",
			"version": Version,
		})
	})
	router.POST("/chat", chatHandler.Chat)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Info("listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
}

// buildStore selects the catalog source: Postgres when configured, otherwise
// a JSON catalog file, otherwise the built-in demo data.
func buildStore(cfg *config.Config, log *zap.Logger) (repository.HouseStore, func(), error) {
	if cfg.HasPostgres() {
		store, err := repository.NewPostgresStore(
			cfg.PostgresDSN(),
			cfg.Postgres.MaxConnections,
			cfg.Postgres.MaxIdleConnections,
			log.Named("store"),
		)
		if err != nil {
			return nil, nil, err
		}
		log.Info("catalog store ready", zap.String("backend", "postgres"))
		return store, func() { _ = store.Close() }, nil
	}

	var houses []model.House
	if cfg.Chat.CatalogPath != "" {
		loaded, err := repository.LoadCatalogFile(cfg.Chat.CatalogPath)
		if err != nil {
			return nil, nil, err
		}
		houses = loaded
		log.Info("catalog store ready",
			zap.String("backend", "file"),
			zap.String("path", cfg.Chat.CatalogPath),
			zap.Int("listings", len(houses)),
		)
	} else {
		houses = repository.MockHouses()
		log.Info("catalog store ready",
			zap.String("backend", "memory"),
			zap.Int("listings", len(houses)),
		)
	}
	return repository.NewMemoryStore(houses, log.Named("store")), nil, nil
}
