package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/valkey-io/valkey-go"

	"github.com/campushelp/faqbot/internal/domain/faq"
	"github.com/campushelp/faqbot/internal/infra/config"
	"github.com/campushelp/faqbot/internal/infra/docarchive"
	"github.com/campushelp/faqbot/internal/infra/embedder"
	"github.com/campushelp/faqbot/internal/infra/faqfile"
	"github.com/campushelp/faqbot/internal/infra/faqpg"
	"github.com/campushelp/faqbot/internal/infra/openai"
	"github.com/campushelp/faqbot/internal/infra/querylog"
	"github.com/campushelp/faqbot/internal/infra/stats"
	"github.com/campushelp/faqbot/internal/infra/textdoc"
)

func provideFAQConfig(cfg *config.Config) faq.Config {
	return faq.Config{
		SimilarityThreshold: cfg.FAQ.SimilarityThreshold,
		TopTrending:         cfg.FAQ.TopTrending,
		FallbackAnswer:      cfg.FAQ.FallbackAnswer,
		OperatorContact:     cfg.FAQ.OperatorContact,
	}
}

func provideEmbedder(cfg *config.Config, logger *slog.Logger) faq.Embedder {
	apiKey := strings.TrimSpace(cfg.Embedding.APIKey)
	if apiKey == "" {
		logger.Warn("embedding api key not set, using offline deterministic embedder")
		return embedder.NewDeterministicEmbedder(cfg.Embedding.Dim)
	}
	client, err := openai.NewClient(apiKey, cfg.Embedding.BaseURL)
	if err != nil {
		logger.Error("invalid embedding client config, using offline deterministic embedder", "error", err)
		return embedder.NewDeterministicEmbedder(cfg.Embedding.Dim)
	}
	return embedder.NewOpenAIEmbedder(client, cfg.Embedding.Model, logger)
}

func provideSnapshotter(cfg *config.Config, logger *slog.Logger) faq.Snapshotter {
	fallback := faqfile.NewStore(cfg.Storage.FilePath)
	dsn := strings.TrimSpace(cfg.Storage.Postgres.DSN)
	if dsn == "" {
		logger.Info("faq postgres dsn not set, using file store", "path", cfg.Storage.FilePath)
		return fallback
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using file store", "error", err)
		return fallback
	}
	if cfg.Storage.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Storage.Postgres.MaxConns
	}
	if cfg.Storage.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Storage.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using file store", "error", err)
		return fallback
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using file store", "error", err)
		pool.Close()
		return fallback
	}
	logger.Info("faq postgres store enabled")
	return faqpg.NewStore(pool)
}

func provideQueryLog(cfg *config.Config) faq.QueryLog {
	return querylog.NewFileLog(cfg.Storage.QueryLogPath, cfg.Storage.FeedbackLogPath)
}

func provideStats(cfg *config.Config, logger *slog.Logger) faq.Stats {
	if cfg.FAQ.Valkey.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory stats", "error", err)
			return stats.NewMemoryStats()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory stats", "error", err)
			return stats.NewMemoryStats()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory stats", "error", err)
		} else {
			logger.Info("valkey stats enabled", "addr", cfg.FAQ.Valkey.Addr)
			return stats.NewValkeyStats(client, "faq")
		}
	}
	return stats.NewMemoryStats()
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.FAQ.Valkey.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.FAQ.Valkey.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.FAQ.Valkey.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}

func provideLineExtractor(cfg *config.Config) faq.LineExtractor {
	return textdoc.NewExtractor(cfg.Storage.MaxImportBytes)
}

func provideArchive(cfg *config.Config, logger *slog.Logger) faq.Archive {
	if !cfg.Storage.Archive.Enabled {
		return nil
	}
	client, err := minio.New(cfg.Storage.Archive.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.Archive.AccessKey, cfg.Storage.Archive.SecretKey, ""),
		Secure: cfg.Storage.Archive.UseSSL,
	})
	if err != nil {
		logger.Error("failed to create archive client, imports will not be archived", "error", err)
		return nil
	}
	archive := docarchive.NewMinioArchive(client, cfg.Storage.Archive.Bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := archive.EnsureBucket(ctx); err != nil {
		logger.Error("archive bucket unavailable, imports will not be archived", "error", err)
		return nil
	}
	logger.Info("document archive enabled", "bucket", cfg.Storage.Archive.Bucket)
	return archive
}

func provideFAQService(cfg faq.Config, emb faq.Embedder, snap faq.Snapshotter, queries faq.QueryLog, st faq.Stats, lines faq.LineExtractor, archive faq.Archive, logger *slog.Logger) (faq.Service, error) {
	svc := faq.NewService(cfg, emb, snap, queries, st, lines, archive, logger)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if err := svc.Restore(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}
