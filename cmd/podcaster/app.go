package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"podcaster/internal/asset"
	"podcaster/internal/config"
	"podcaster/internal/feed"
	"podcaster/internal/fetch"
	"podcaster/internal/genre"
	"podcaster/internal/importer"
	"podcaster/internal/metadata"
	"podcaster/internal/pathspec"
	"podcaster/internal/publisher"
	"podcaster/internal/scheduler"
	"podcaster/internal/server"
	"podcaster/internal/service"
	"podcaster/internal/source/assetindex"
	"podcaster/internal/source/rss"
	"podcaster/internal/storage/postgres"
)

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// app holds the wired components shared by every command.
type app struct {
	db        *sqlx.DB
	publisher service.Publisher
	jobs      *postgres.JobStore
	feeds     *feed.Assembler
	content   *service.ContentService
	meta      *service.MetaService
	imports   *service.ImportService
	scheduler *scheduler.Scheduler
	server    *server.Server
	logger    *slog.Logger
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	db, err := postgres.Connect(ctx, cfg.Database.DSN(), postgres.PoolConfig{
		MaxOpenConns:    cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:    cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.Pool.ConnMaxLifetime,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("connected to database")

	pub, err := newPublisher(cfg.RabbitMQ, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	volumes, err := newVolumes(ctx, cfg.Volumes)
	if err != nil {
		pub.Close()
		db.Close()
		return nil, err
	}

	clock := systemClock{}

	contentStore := postgres.NewContentStore(db)
	schemaStore := postgres.NewSchemaStore(db)
	settingsStore := postgres.NewSettingsStore(db)
	taxonomyStore := postgres.NewTaxonomyStore(db)
	assetStore := postgres.NewAssetStore(db)
	jobStore := postgres.NewJobStore(db, cfg.Worker.JobTimeout)
	txManager := postgres.NewTransactionManager(db)

	resolver := pathspec.NewResolver(schemaStore, assetStore, schemaStore, logger)

	cache, err := feed.NewCache[*feed.Document](cfg.Feed.CacheSize, cfg.Feed.CacheTTL, clock)
	if err != nil {
		pub.Close()
		db.Close()
		return nil, err
	}
	feeds := feed.NewAssembler(contentStore, resolver, taxonomyStore, cache, clock, feed.Config{BaseURL: cfg.Feed.BaseURL}, logger)

	client := fetch.New(fetch.Config{
		Timeout:        cfg.Fetch.Timeout,
		MaxAttempts:    cfg.Fetch.Retry.MaxAttempts,
		InitialBackoff: cfg.Fetch.Retry.InitialBackoff,
		MaxBackoff:     cfg.Fetch.Retry.MaxBackoff,
		UserAgent:      cfg.Fetch.UserAgent,
		TempDir:        cfg.Metadata.TempDir,
	}, logger)

	extractor := metadata.NewExtractor(
		metadata.FileTagReader{},
		metadata.FFProbe{Binary: cfg.Metadata.FFProbe},
		client,
		metadata.Config{DownloadTimeout: cfg.Metadata.DownloadTimeout, ProbeDuration: cfg.Metadata.ProbeDuration},
		logger,
	)

	ingestor := asset.NewIngestor(schemaStore, assetStore, assetStore, volumes, resolver, logger)
	genres := genre.NewResolver(taxonomyStore, logger)
	engine := importer.NewEngine(resolver, genres, schemaStore, ingestor, clock, logger)

	content := service.NewContentService(contentStore, txManager, feeds, pub, clock, logger)
	meta := service.NewMetaService(contentStore, settingsStore, resolver, extractor, engine, content, logger)
	imports := service.NewImportService(
		[]service.RecordSource{
			rss.New(client, rss.Config{Timeout: cfg.Fetch.Timeout}, logger),
			assetindex.New(assetStore, settingsStore, logger),
		},
		contentStore,
		content,
		settingsStore,
		resolver,
		schemaStore,
		client,
		ingestor,
		extractor,
		engine,
		genres,
		clock,
		service.ImportConfig{MediaTimeout: cfg.Import.MediaTimeout, ImageTimeout: cfg.Import.ImageTimeout},
		logger,
	)

	sched := scheduler.NewScheduler(jobStore, imports, clock, scheduler.Config{
		PollInterval: cfg.Worker.PollInterval,
		JobTimeout:   cfg.Worker.JobTimeout,
	}, logger)

	srv := server.New(feeds, meta, jobStore, server.Config{
		Addr:         cfg.HTTP.Addr,
		AdminToken:   cfg.HTTP.AdminToken,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}, logger)

	return &app{
		db:        db,
		publisher: pub,
		jobs:      jobStore,
		feeds:     feeds,
		content:   content,
		meta:      meta,
		imports:   imports,
		scheduler: sched,
		server:    srv,
		logger:    logger,
	}, nil
}

func (a *app) Close() error {
	return errors.Join(a.publisher.Close(), a.db.Close())
}

func newPublisher(cfg config.RabbitMQConfig, logger *slog.Logger) (service.Publisher, error) {
	if !cfg.Enabled {
		logger.Info("rabbitmq disabled, content events are dropped")
		return publisher.Nop{Logger: logger}, nil
	}
	rmq, err := publisher.NewRabbitMQ(publisher.Config{
		URL:        cfg.URL,
		Exchange:   cfg.Exchange,
		RoutingKey: cfg.RoutingKey,
		QueueName:  cfg.QueueName,
	}, logger)
	if err != nil {
		return nil, err
	}
	return rmq, nil
}

func newVolumes(ctx context.Context, configs map[string]config.VolumeConfig) (asset.Volumes, error) {
	volumes := make(asset.Volumes, len(configs))
	for handle, vc := range configs {
		var (
			vol asset.Volume
			err error
		)
		if vc.IsS3() {
			vol, err = asset.NewS3Volume(ctx, asset.S3Config{
				Bucket:    vc.Bucket,
				Region:    vc.Region,
				Prefix:    vc.Prefix,
				Endpoint:  vc.Endpoint,
				AccessKey: vc.AccessKey,
				SecretKey: vc.SecretKey,
				BaseURL:   vc.BaseURL,
			})
		} else {
			vol, err = asset.NewFileSystemVolume(vc.Root, vc.BaseURL)
		}
		if err != nil {
			return nil, fmt.Errorf("volume %q: %w", handle, err)
		}
		volumes[handle] = vol
	}
	return volumes, nil
}
