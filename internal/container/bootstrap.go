package container

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/taskquest/config"
	"github.com/oksasatya/taskquest/internal/infrastructure/filestore"
	"github.com/oksasatya/taskquest/internal/infrastructure/gcs"
	pginfra "github.com/oksasatya/taskquest/internal/infrastructure/postgres"
	"github.com/oksasatya/taskquest/pkg/helpers"
)

// Bootstrap connects every configured backend and stores it in the container.
// The returned func releases them in reverse order.
func Bootstrap(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	SetConfig(cfg)
	SetLogger(logger)
	SetTokens(helpers.NewTokenManager(cfg.SessionSecret, cfg.SessionTTL))

	// Document storage
	switch cfg.StorageDriver {
	case "file":
		store, err := filestore.New(cfg.DataDir)
		if err != nil {
			return cleanup, fmt.Errorf("open data dir: %w", err)
		}
		SetBlobStore(store)
	case "postgres":
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			return cleanup, fmt.Errorf("connect postgres: %w", err)
		}
		closers = append(closers, pool.Close)
		if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			return cleanup, fmt.Errorf("migrate: %w", err)
		}
		SetPGPool(pool)
		SetBlobStore(pginfra.NewBlobStore(pool))
	default:
		return cleanup, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	// Profile pictures
	switch cfg.PhotoDriver {
	case "local":
		photos, err := filestore.NewPhotoStore(cfg.StaticDir)
		if err != nil {
			return cleanup, fmt.Errorf("open static dir: %w", err)
		}
		SetPhotoStore(photos)
	case "gcs":
		client, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			return cleanup, fmt.Errorf("init GCS client: %w", err)
		}
		closers = append(closers, func() { _ = client.Close() })
		photos, err := gcs.NewPhotoStore(client, cfg.GCSBucket)
		if err != nil {
			return cleanup, err
		}
		SetGCS(client)
		SetPhotoStore(photos)
	default:
		return cleanup, fmt.Errorf("unknown PHOTO_DRIVER %q", cfg.PhotoDriver)
	}

	// Redis (rate limiting); nil when not configured
	if rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); rdb != nil {
		closers = append(closers, func() { _ = rdb.Close() })
		SetRedis(rdb)
	}

	// Elasticsearch (user search); nil when not configured
	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		return cleanup, fmt.Errorf("init elasticsearch: %w", err)
	}
	SetES(es)

	logger.WithFields(logrus.Fields{
		"storage": cfg.StorageDriver,
		"photos":  cfg.PhotoDriver,
		"redis":   cfg.RedisAddr != "",
		"search":  es != nil,
	}).Info("backends ready")
	return cleanup, nil
}
