package main

import (
	"fmt"
	"net/http"
	"time"

	"podreport/app/handler"
	"podreport/app/router"
	"podreport/internal/jobs"
	"podreport/internal/service"
	"podreport/pkg/config"
	"podreport/pkg/logger"
	"podreport/pkg/report"
	mysqlstore "podreport/pkg/store/mysql"
	redisstore "podreport/pkg/store/redis"

	"github.com/gin-gonic/gin"
)

const (
	defaultCacheTTL     = 5 * time.Minute
	defaultQueryTimeout = 30 * time.Second
)

// initConfig initializes configuration
func (app *Application) initConfig() error {
	if err := config.Init(); err != nil {
		return err
	}
	app.config = config.GlobalConfig
	return nil
}

// initLogger initializes logging
func (app *Application) initLogger() error {
	if err := logger.Init(); err != nil {
		return err
	}
	app.registerCleanup(func() {
		logger.Sync()
		logger.InfoCtx(app.ctx, "Logging system has been closed")
	})
	return nil
}

// initMySQL initializes MySQL
func (app *Application) initMySQL() error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		app.config.MySQL.User,
		app.config.MySQL.Password,
		app.config.MySQL.Host,
		app.config.MySQL.Port,
		app.config.MySQL.Database,
	)

	repo, err := mysqlstore.NewRepository(dsn)
	if err != nil {
		return err
	}

	app.mysqlRepo = repo
	app.registerCleanup(func() {
		repo.Close()
		logger.InfoCtx(app.ctx, "MySQL connection has been closed")
	})

	return nil
}

// initRedis initializes Redis and the response cache backed by it
func (app *Application) initRedis() error {
	client, err := redisstore.NewRedisClient(app.config)
	if err != nil {
		return err
	}

	app.redisClient = client
	app.registerCleanup(func() {
		client.Close()
		logger.InfoCtx(app.ctx, "Redis connection has been closed")
	})

	ttl := defaultCacheTTL
	if app.config.Report.CacheTTLSeconds > 0 {
		ttl = time.Duration(app.config.Report.CacheTTLSeconds) * time.Second
	}
	app.reportCache = redisstore.NewReportCache(client.GetClient(), ttl)

	return nil
}

// initServices initializes service layer
func (app *Application) initServices() error {
	timeout := defaultQueryTimeout
	if app.config.Report.QueryTimeoutSeconds > 0 {
		timeout = time.Duration(app.config.Report.QueryTimeoutSeconds) * time.Second
	}

	app.reportService = service.NewReportService(
		app.mysqlRepo.Task,
		app.mysqlRepo.CompletionEvent,
		app.mysqlRepo.TrainerMapping,
		app.mysqlRepo.TimeLog,
		app.reportCache,
		service.Options{
			Exclusions: report.Exclusions{
				Batches:      app.config.Report.ExcludedBatches,
				DraftBatches: app.config.Report.ExcludeDraftBatches,
			},
			QueryTimeout: timeout,
		},
	)

	return nil
}

// initJobs initializes background jobs
func (app *Application) initJobs() error {
	app.jobsManager = jobs.NewManager(app.ctx)

	warm := app.config.Report.Warm
	if warm.Enabled && len(warm.Scopes) > 0 {
		interval := time.Duration(warm.IntervalSeconds) * time.Second
		lock := redisstore.NewJobLock(app.redisClient.GetClient(), warmLockKey, interval)
		app.jobsManager.Register(newCacheWarmJob(app.reportService, lock, warm.Scopes, interval))
		logger.InfoCtx(app.ctx, "Cache warm job registered, scopes=%d interval=%v", len(warm.Scopes), interval)
	}

	return nil
}

// initHandlers initializes handler layer
func (app *Application) initHandlers() error {
	app.reportHandler = handler.NewReportHandler(app.reportService)
	return nil
}

// initHTTPServer initializes the HTTP server
func (app *Application) initHTTPServer() error {
	// Initialize router
	r := router.NewRouter(app.reportHandler)

	// Set Gin mode
	gin.SetMode(app.config.Server.Mode)

	// Create Gin engine
	app.ginEngine = gin.New()
	app.ginEngine.Use(gin.Recovery())

	// Setup routes
	r.Setup(app.ginEngine)

	// Create HTTP server
	app.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.config.Server.Port),
		Handler: app.ginEngine,
	}

	return nil
}
