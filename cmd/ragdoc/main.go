package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/xxxsen/ragdoc/internal/ai"
	"github.com/xxxsen/ragdoc/internal/config"
	"github.com/xxxsen/ragdoc/internal/db"
	"github.com/xxxsen/ragdoc/internal/embedcache"
	"github.com/xxxsen/ragdoc/internal/filestore"
	"github.com/xxxsen/ragdoc/internal/handler"
	"github.com/xxxsen/ragdoc/internal/job"
	"github.com/xxxsen/ragdoc/internal/middleware"
	"github.com/xxxsen/ragdoc/internal/repo"
	"github.com/xxxsen/ragdoc/internal/schedule"
	"github.com/xxxsen/ragdoc/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "ragdoc",
		Short: "ragdoc document question-answering server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run ragdoc server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

			database, err := db.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := db.ApplyMigrations(database); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			return runServer(cfg, database)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func buildGenerator(cfg config.AIConfig) (ai.IGenerator, error) {
	entries := make([]ai.GeneratorEntry, 0, len(cfg.Generators))
	for _, ref := range cfg.Generators {
		provider, err := ai.NewProvider(ref.Provider, ref.Data)
		if err != nil {
			return nil, fmt.Errorf("init generator %s: %w", ref.Name, err)
		}
		entries = append(entries, ai.GeneratorEntry{
			Name: ref.Name,
			Generator: ai.NewGenerator(provider, ref.Model, ai.GenerateOptions{
				MaxTokens:   cfg.Generation.MaxTokens,
				Temperature: cfg.Generation.Temperature,
			}),
		})
	}
	return ai.NewGroupGenerator(entries), nil
}

func buildEmbedder(cfg config.AIConfig) (ai.IEmbedder, error) {
	entries := make([]ai.EmbedderEntry, 0, len(cfg.Embedders))
	for _, ref := range cfg.Embedders {
		provider, err := ai.NewProvider(ref.Provider, ref.Data)
		if err != nil {
			return nil, fmt.Errorf("init embedder %s: %w", ref.Name, err)
		}
		entries = append(entries, ai.EmbedderEntry{
			Name:     ref.Name,
			Embedder: ai.NewEmbedder(provider, ref.Model),
		})
	}
	return ai.NewGroupEmbedder(entries), nil
}

func runServer(cfg *config.Config, database *sql.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("retrieval_preset", cfg.Retrieval.Preset),
		zap.Int("top_k", cfg.Retrieval.TopK),
	)

	chunkRepo := repo.NewChunkRepo(database)
	documentRepo := repo.NewDocumentRepo(database)
	cacheRepo := repo.NewEmbeddingCacheRepo(database)

	generator, err := buildGenerator(cfg.AI)
	if err != nil {
		return err
	}
	embedder, err := buildEmbedder(cfg.AI)
	if err != nil {
		return err
	}
	embedder = embedcache.WrapDBCacheToEmbedder(embedder, cacheRepo)
	embedder = embedcache.WrapLruCacheToEmbedder(
		embedder,
		cfg.EmbedCache.LRUSize,
		time.Duration(cfg.EmbedCache.LRUTTLMinutes)*time.Minute,
	)
	manager := ai.NewManager(generator, embedder, ai.ManagerConfig{
		Timeout:       cfg.AI.Timeout,
		MaxInputChars: cfg.AI.MaxInputChars,
	})

	store, err := filestore.New(cfg.FileStore)
	if err != nil {
		return fmt.Errorf("init file store: %w", err)
	}

	ingestService := service.NewIngestService(manager, chunkRepo, documentRepo, store, cfg.Retrieval)
	queryService := service.NewQueryService(manager, chunkRepo, documentRepo, cfg.Retrieval)

	deps := handler.RouterDeps{
		Ingest: handler.NewIngestHandler(ingestService, cfg.MaxUploadSize),
		Query:  handler.NewQueryHandler(queryService),
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.CORS(cfg.CORSAllowlist),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewCronScheduler()
	if err := scheduler.AddJob(job.NewEmbeddingCacheCleanupJob(cacheRepo, cfg.EmbedCache.DBKeepDays), "30 4 * * *"); err != nil {
		return err
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))
	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
