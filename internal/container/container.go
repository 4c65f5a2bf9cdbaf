package container

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/portofolio/config"
	"github.com/oksasatya/portofolio/internal/gate"
	"github.com/oksasatya/portofolio/internal/infrastructure/search"
	"github.com/oksasatya/portofolio/internal/infrastructure/storage"
	"github.com/oksasatya/portofolio/internal/metrics"
	"github.com/oksasatya/portofolio/pkg/helpers"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client

	jwtManager *helpers.JWTManager
	edgeGate   *gate.Gate

	objects      storage.ObjectStore
	projectIndex *search.ProjectIndex
	rabbitPub    *helpers.RabbitPublisher

	collector *metrics.Collector
	gatherer  prometheus.Gatherer
)

func SetConfig(c *config.Config)   { cfg = c }
func GetConfig() *config.Config    { return cfg }
func SetLogger(l *logrus.Logger)   { logger = l }
func GetLogger() *logrus.Logger    { return logger }
func SetPGPool(p *pgxpool.Pool)    { pgPool = p }
func GetPGPool() *pgxpool.Pool     { return pgPool }
func SetRedis(r *redis.Client)     { redisClient = r }
func GetRedis() *redis.Client      { return redisClient }
func SetJWT(m *helpers.JWTManager) { jwtManager = m }
func GetJWT() *helpers.JWTManager  { return jwtManager }
func SetGate(g *gate.Gate)         { edgeGate = g }
func GetGate() *gate.Gate          { return edgeGate }

func SetObjects(s storage.ObjectStore) { objects = s }

// GetObjects never returns nil; without a configured bucket uploads fail
// with storage.ErrNotConfigured.
func GetObjects() storage.ObjectStore {
	if objects == nil {
		return storage.Disabled{}
	}
	return objects
}

func SetProjectIndex(x *search.ProjectIndex)  { projectIndex = x }
func GetProjectIndex() *search.ProjectIndex   { return projectIndex }
func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }

func SetMetrics(c *metrics.Collector, g prometheus.Gatherer) { collector, gatherer = c, g }
func GetGatherer() prometheus.Gatherer                       { return gatherer }

// GetWriteRecorder returns the collector, or a no-op when metrics are off.
func GetWriteRecorder() metrics.WriteRecorder {
	if collector == nil {
		return metrics.Nop{}
	}
	return collector
}

// GetCookies builds the session cookie writer from the config.
func GetCookies() *helpers.Manager {
	if cfg == nil {
		return helpers.NewCookie("", false)
	}
	return helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure)
}
