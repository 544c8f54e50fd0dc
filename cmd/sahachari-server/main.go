// cmd/sahachari-server/main.go
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

	firebase "firebase.google.com/go/v4"
	"go.uber.org/zap"

	"sahachari/internal/common/auth"
	"sahachari/internal/common/config"
	"sahachari/internal/common/database"
	apperrors "sahachari/internal/common/errors"
	"sahachari/internal/common/llm"
	"sahachari/internal/common/logger"
	"sahachari/internal/common/observability"
	"sahachari/internal/common/speech"
	"sahachari/internal/common/storage"
	"sahachari/internal/library"
	"sahachari/internal/server"

	// Content generators
	gyankosh "sahachari/internal/generators/gyan-kosh"
	"sahachari/internal/generators/rupdrishti"
	speechtotext "sahachari/internal/generators/speech-to-text"
	storymaker "sahachari/internal/generators/story-maker"
	texttospeech "sahachari/internal/generators/text-to-speech"
	worksheetcreator "sahachari/internal/generators/worksheet-creator"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	bootLog := logger.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}
	_ = bootLog.Sync()

	zapLog := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"service":     cfg.App.Name,
		"environment": cfg.App.Environment,
	})

	zapLog.Info("Starting sahachari server...", zap.String("version", cfg.App.Version))

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("observability init failed, upstream metrics disabled", zap.Error(err))
	}
	defer obs.Shutdown()

	ctx := context.Background()
	errHandler := apperrors.NewHTTPErrorHandler(log)

	// --- Firebase (identity + textbook storage) ---
	var app *firebase.App
	if cfg.Auth.Firebase.ProjectID != "" || cfg.Storage.Bucket != "" {
		app, err = firebase.NewApp(ctx, &firebase.Config{
			ProjectID:     cfg.Auth.Firebase.ProjectID,
			StorageBucket: cfg.Storage.Bucket,
		})
		if err != nil {
			zapLog.Fatal("firebase app init failed", zap.Error(err))
		}
	}

	verifier, err := auth.NewFromConfig(ctx, cfg.Auth, app)
	if err != nil {
		zapLog.Fatal("auth verifier init failed", zap.Error(err))
	}
	zapLog.Info("Auth verifier ready", zap.String("provider", cfg.Auth.Provider))

	var textbooks worksheetcreator.TextbookSource
	if app != nil && cfg.Storage.Bucket != "" {
		client, err := app.Storage(ctx)
		if err != nil {
			zapLog.Fatal("firebase storage init failed", zap.Error(err))
		}
		bucket, err := client.Bucket(cfg.Storage.Bucket)
		if err != nil {
			zapLog.Fatal("textbook bucket init failed", zap.Error(err))
		}
		textbooks = storage.NewTextbookStore(bucket, cfg.Storage.TextbookPrefix, cfg.Server.MaxUploadBytes)
		zapLog.Info("Textbook store ready", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		zapLog.Info("No storage bucket configured, worksheet image URLs disabled")
	}

	// --- Generative AI providers ---
	registry := llm.NewRegistry(cfg.AI.DefaultProvider, obs, log)

	if cfg.AI.Gemini.APIKey != "" || cfg.AI.Gemini.Backend == "vertex" {
		gemini, err := llm.NewGeminiClient(ctx, cfg.AI.Gemini)
		if err != nil {
			zapLog.Fatal("gemini client init failed", zap.Error(err))
		}
		registry.Register(gemini, cfg.AI.Gemini.Models...)
		zapLog.Info("Gemini provider registered", zap.String("backend", cfg.AI.Gemini.Backend))
	}

	if cfg.AI.OpenAI.APIKey != "" {
		registry.Register(llm.NewOpenAI(cfg.AI.OpenAI), cfg.AI.OpenAI.Models...)
		zapLog.Info("OpenAI provider registered", zap.Strings("models", cfg.AI.OpenAI.Models))
	}

	synthesizer, err := speech.NewClient(ctx, cfg.Speech)
	if err != nil {
		zapLog.Fatal("text-to-speech client init failed", zap.Error(err))
	}
	defer synthesizer.Close()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return pg.Ping(pingCtx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres connection failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	repo := library.NewPostgresRepository(pg.DB)
	if err := repo.EnsureSchema(ctx); err != nil {
		zapLog.Fatal("saved library schema init failed", zap.Error(err))
	}

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return rdb.Ping(pingCtx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis connection failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Elasticsearch with retry (optional) ---
	var searcher library.Searcher
	if cfg.Database.Elasticsearch.Enabled {
		var es *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return es.Ping(pingCtx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch connection failed after retries", zap.Error(err))
		}

		index := library.NewSearchIndex(es.Client, cfg.Database.Elasticsearch.Index)
		if err := index.EnsureIndex(ctx); err != nil {
			zapLog.Fatal("search index init failed", zap.Error(err))
		}
		searcher = index
		zapLog.Info("Elasticsearch connected successfully", zap.String("index", cfg.Database.Elasticsearch.Index))
	}

	// --- Handlers ---
	answers := gyankosh.NewHandler(gyankosh.LoadConfig(cfg), registry, library.NewRecentQuestions(rdb.Client), errHandler, log)
	handlers := server.Handlers{
		Story:      storymaker.NewHandler(storymaker.LoadConfig(cfg), registry, errHandler, log),
		Worksheet:  worksheetcreator.NewHandler(worksheetcreator.LoadConfig(cfg), registry, textbooks, errHandler, log),
		Answer:     answers,
		VisualAid:  rupdrishti.NewHandler(rupdrishti.LoadConfig(cfg), registry, errHandler, log),
		Transcribe: speechtotext.NewHandler(speechtotext.LoadConfig(cfg), registry, errHandler, log),
		Speech:     texttospeech.NewHandler(synthesizer, cfg.Server.MaxBodyBytes, errHandler, log),
		Library:    library.NewHandler(repo, searcher, cfg.Server.MaxBodyBytes, errHandler, log),
	}

	srv := server.New(server.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RequestTimeout: config.GetDuration(cfg.Server.RequestTimeout),
	}, handlers, verifier, map[string]server.Pinger{
		"postgres": pg,
		"redis":    rdb,
	}, errHandler, log)

	httpServer := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}
	answers.Wait()

	zapLog.Info("Sahachari server stopped gracefully")
}
