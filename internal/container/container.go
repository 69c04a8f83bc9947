package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/taskquest/config"
	"github.com/oksasatya/taskquest/internal/domain/repository"
	"github.com/oksasatya/taskquest/pkg/helpers"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	gcsClient   *storage.Client
	esClient    *elasticsearch.Client

	blobStore    repository.BlobStore
	photoStore   repository.PhotoStore
	tokenManager *helpers.TokenManager
)

func SetConfig(c *config.Config) { cfg = c }
func GetConfig() *config.Config  { return cfg }
func SetLogger(l *logrus.Logger) { logger = l }
func GetLogger() *logrus.Logger {
	if logger != nil {
		return logger
	}
	return helpers.NewDiscardLogger()
}
func SetPGPool(p *pgxpool.Pool)             { pgPool = p }
func GetPGPool() *pgxpool.Pool              { return pgPool }
func SetRedis(r *redis.Client)              { redisClient = r }
func GetRedis() *redis.Client               { return redisClient }
func SetGCS(s *storage.Client)              { gcsClient = s }
func GetGCS() *storage.Client               { return gcsClient }
func SetES(c *elasticsearch.Client)         { esClient = c }
func GetES() *elasticsearch.Client          { return esClient }
func SetBlobStore(s repository.BlobStore)   { blobStore = s }
func GetBlobStore() repository.BlobStore    { return blobStore }
func SetPhotoStore(p repository.PhotoStore) { photoStore = p }
func GetPhotoStore() repository.PhotoStore  { return photoStore }
func SetTokens(m *helpers.TokenManager)     { tokenManager = m }
func GetTokens() *helpers.TokenManager {
	if tokenManager != nil {
		return tokenManager
	}
	if cfg != nil {
		return helpers.NewTokenManager(cfg.SessionSecret, cfg.SessionTTL)
	}
	return nil
}

// Reset clears every component; used by tests that build several apps.
func Reset() {
	cfg, logger, pgPool, redisClient, gcsClient, esClient = nil, nil, nil, nil, nil, nil
	blobStore, photoStore, tokenManager = nil, nil, nil
}
