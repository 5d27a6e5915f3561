package internal

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"preservation-api/config"
	"preservation-api/internal/application/ports"
	"preservation-api/internal/application/services"
	"preservation-api/internal/infrastructure/archivematica"
	"preservation-api/internal/infrastructure/db/postgres"
	"preservation-api/internal/infrastructure/db/postgres/document"
	"preservation-api/internal/infrastructure/db/postgres/user"
	"preservation-api/internal/infrastructure/jwt"
	"preservation-api/internal/infrastructure/metrics"
	"preservation-api/internal/infrastructure/mq"
	"preservation-api/internal/infrastructure/storage/shared"
	"preservation-api/internal/interface/api/rest"
	"preservation-api/internal/interface/api/rest/middleware"
	"preservation-api/pkg/rmqconsumer"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	logger     *zap.Logger
	cfg        config.Config
	db         *pgxpool.Pool
	storage    ports.TransferStorage
	remote     ports.PreservationClient
	httpSrv    *http.Server
	router     *gin.Engine
	mCounter   *prometheus.CounterVec
	mq         ports.RabbitMQ
	mqConsumer ports.RMQConsumer

	// monitors outlive the request that started them and stop with the app
	monitorCtx     context.Context
	cancelMonitors context.CancelFunc
}

func NewApp(ctx context.Context) (*App, error) {
	// logger
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("init zap logger: %w", err)
	}

	// config
	if err = godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg := config.Load()
	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	// metrics
	mCounter := metrics.NewCounter()

	// router
	switch cfg.App.Env {
	case gin.ReleaseMode, "prod", "production":
		gin.SetMode(gin.ReleaseMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogGin(logger, mCounter))
	r.MaxMultipartMemory = 8 << 20

	// httpServer
	httpSrv := &http.Server{
		Addr:              cfg.App.Host + ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// db
	dbDsn, err := cfg.DBDSN()
	if err != nil {
		return nil, fmt.Errorf("db config: %w", err)
	}
	migrateDsn, err := cfg.MigrateDSN()
	if err != nil {
		return nil, fmt.Errorf("db config: %w", err)
	}
	if err = postgres.Migrate(logger, migrateDsn); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	dbPool, err := postgres.New(ctx, logger, dbDsn)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	// shared watched directory
	storage, err := shared.New(logger, cfg.Storage)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("shared directory: %w", err)
	}

	// remote pipeline
	remote := archivematica.New(cfg.Archivematica, logger, mCounter)

	// rabbitMQ
	rabbitDsn, err := cfg.AMQPDSN()
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("rabbitmq config: %w", err)
	}
	rbMQ := mq.New(cfg.MQ, logger)
	if err = rbMQ.Connect(ctx, rabbitDsn); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	if err = rbMQ.Init(); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("init rabbitmq: %w", err)
	}
	// rmqConsumer
	rmqConsumer := rmqconsumer.New(cfg.MQ, logger, rbMQ.GetConn())
	if err = rmqConsumer.Connect(rabbitDsn); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("connect rabbitmq consumer: %w", err)
	}
	if err = rmqConsumer.Init(); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("init rabbitmq consumer: %w", err)
	}

	monitorCtx, cancelMonitors := context.WithCancel(context.Background())

	return &App{
		logger:         logger,
		cfg:            cfg,
		db:             dbPool,
		storage:        storage,
		remote:         remote,
		httpSrv:        httpSrv,
		router:         r,
		mCounter:       mCounter,
		mq:             rbMQ,
		mqConsumer:     rmqConsumer,
		monitorCtx:     monitorCtx,
		cancelMonitors: cancelMonitors,
	}, nil
}

func (a *App) Close() {
	if a.cancelMonitors != nil {
		a.cancelMonitors()
	}
	if a.db != nil {
		a.db.Close()
	}
	if a.mq != nil && a.mq.GetConn() != nil {
		_ = a.mq.GetConn().Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// Run serves HTTP and the mq workers under one context until a signal arrives.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGUSR1)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("starting "+a.cfg.App.Name, zap.String("addr", a.httpSrv.Addr))
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server "+a.cfg.App.Name+" error: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		a.mq.PublisherWorker(ctx)
		return nil
	})

	g.Go(func() error {
		a.mqConsumer.DeliveryWorker(ctx)
		return nil
	})

	<-ctx.Done()

	a.logger.Info("shutting down " + a.cfg.App.Name + " gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown "+a.cfg.App.Name+" error", zap.Error(err))
		a.cancelMonitors()
		return err
	}
	// in-flight transfers stay INICIADA; there is no resumption after restart
	a.cancelMonitors()

	if err := g.Wait(); err != nil {
		a.logger.Error(a.cfg.App.Name+" returning an error", zap.Error(err))
		return err
	}

	a.logger.Info(a.cfg.App.Name + " gracefully stopped")

	return nil
}

func (a *App) InitControllers() {
	// repos
	userRepo := user.NewRepository(a.db)
	documentRepo := document.NewRepository(a.db)

	// services
	jwtService := jwt.New(a.cfg.App.JWTSecret)
	authService := services.NewAuthService(jwtService)
	userService := services.NewUserService(userRepo, a.logger, a.mCounter)
	transferService := services.NewTransferService(
		a.remote,
		a.cfg.Transfer,
		a.cfg.Archivematica.SourceLocationUUID,
		a.logger,
		a.mCounter,
		metrics.NewMonitorGauge(),
	)
	documentService := services.NewDocumentService(
		a.monitorCtx,
		transferService,
		documentRepo,
		a.storage,
		a.mq,
		a.cfg.Transfer,
		a.logger,
		a.mCounter,
	)

	// controllers
	rest.NewAuthController(a.router, a.logger, userService, authService)
	rest.NewUserController(a.router, userService, a.logger, jwtService)
	rest.NewDocumentController(a.router, documentService, a.logger, jwtService)
	rest.NewTransferController(a.router, transferService, a.logger, jwtService)

	// ops
	a.router.GET(rest.RouteHealth, a.healthHandler)
	a.router.GET(rest.RouteMetrics, gin.WrapH(promhttp.Handler()))
}

func (a *App) healthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := a.db.Ping(ctx); err != nil {
		a.logger.Warn("health check: database unreachable", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "down"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (a *App) Logger() *zap.Logger { return a.logger }
