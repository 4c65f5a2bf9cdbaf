package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/oksasatya/portofolio/config"
	"github.com/oksasatya/portofolio/internal/container"
	"github.com/oksasatya/portofolio/internal/gate"
	pginfra "github.com/oksasatya/portofolio/internal/infrastructure/postgres"
	"github.com/oksasatya/portofolio/internal/infrastructure/search"
	"github.com/oksasatya/portofolio/internal/infrastructure/storage"
	"github.com/oksasatya/portofolio/internal/interface/middleware"
	"github.com/oksasatya/portofolio/internal/metrics"
	"github.com/oksasatya/portofolio/internal/router"
	"github.com/oksasatya/portofolio/pkg/helpers"
	"github.com/oksasatya/portofolio/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	// Initialize Postgres pool
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	// Run migrations using database/sql with pgx stdlib
	if err := runMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	// Redis
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()

	// Object storage (GCS or S3)
	objects, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to init object storage: %v", err)
	}
	if closer, ok := objects.(interface{ Close() error }); ok {
		defer func() { _ = closer.Close() }()
	}

	// JWT
	jwtManager := helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL)

	// Elasticsearch is optional; the gallery falls back to Postgres filtering.
	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			helpers.LogError(logger, "elasticsearch unavailable, search disabled", err, nil)
		} else {
			container.SetProjectIndex(search.NewProjectIndex(es, cfg.ESProjectsIndex))
		}
	}

	// RabbitMQ publisher only when mail is actually sent by the worker
	if cfg.MailSendEnabled {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			helpers.LogError(logger, "rabbitmq unavailable, contact mail disabled", err, logrus.Fields{"queue": cfg.RabbitMQEmailQueue})
		} else {
			container.SetRabbitPub(pub)
			defer pub.Close()
		}
	}

	// Prometheus
	var collector *metrics.Collector
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		collector = metrics.NewCollector(reg)
		container.SetMetrics(collector, reg)
	}

	// Edge gate: role lookups read profiles.role
	def := gate.DefaultMatcher()
	g := gate.New(gate.Config{
		Matcher: gate.Matcher{
			Protected:       cfg.Protected(),
			ExcludePrefixes: def.ExcludePrefixes,
			ExcludeExts:     def.ExcludeExts,
		},
		LoginPath: cfg.LoginPath,
		HomePath:  cfg.HomePath,
		Timeout:   cfg.GateTimeout,
	}, pginfra.NewProfileRepository(pool), logger)
	if collector != nil {
		g = g.WithMetrics(collector)
	}

	// Provide infra singletons to container for registry auto-wiring
	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetPGPool(pool)
	container.SetRedis(rdb)
	container.SetJWT(jwtManager)
	container.SetObjects(objects)
	container.SetGate(g)

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RealIP())
	r.Use(middleware.RequestID())
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsCfg.AllowOrigins) > 0 {
		r.Use(cors.New(corsCfg))
	}
	if cfg.Env == "development" || cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}
	r.Use(middleware.Locale(cfg.DefaultLocale, cfg.CookieSecure))

	svc := router.BuildServices()

	// Registry: the gate runs ahead of every module route
	reg := router.NewRegistry(r)
	reg.Use(middleware.EdgeGate(svc.Auth, g, container.GetCookies(), logger))
	router.InitModules(reg, svc)
	reg.RegisterAll()

	r.Static("/static", cfg.StaticDir)
	r.StaticFile("/favicon.ico", filepath.Join(cfg.StaticDir, "favicon.ico"))

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		helpers.LogInfo(logger, "server starting", logrus.Fields{"port": cfg.Port, "protected": cfg.Protected()})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

func runMigrations(dsn string, migrationsDir string, logger *logrus.Logger) error {
	// Open sql DB via pgx stdlib
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsDir), "postgres", driver)
	if err != nil {
		return err
	}
	logger.Info("running migrations...")
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}
