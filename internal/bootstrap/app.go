package bootstrap

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"paperlens/internal/ai"
	"paperlens/internal/app"
	"paperlens/internal/config"
	"paperlens/internal/metrics"
	"paperlens/internal/pkg/logger"
	"paperlens/internal/pkg/pdfextract"
	"paperlens/internal/platform/database"
	rabbitmqClient "paperlens/internal/platform/rabbitmq"
	redisClient "paperlens/internal/platform/redis"
	"paperlens/internal/repository"
	"paperlens/internal/worker"
)

// App holds the process-wide resources. Redis and MQConn are nil when the
// corresponding section is not configured; Completer is nil without an API key.
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	DB        *gorm.DB
	Redis     *redis.Client
	MQConn    *amqp.Connection
	Registry  *prometheus.Registry
	Metrics   *metrics.Metrics
	Completer ai.Completer
	Extractor app.TextExtractor
	Sweeper   *worker.UploadSweeper

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("build logger failed: %w", err)
	}

	a := &App{
		Config:    cfg,
		Logger:    log,
		StartedAt: time.Now(),
	}
	if err := a.init(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) init(ctx context.Context) error {
	cfg := a.Config

	db, err := database.New(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return err
	}
	a.DB = db
	if err := repository.NewPaperRepository(db).Migrate(); err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.Upload.Dir, 0o755); err != nil {
		return fmt.Errorf("create upload dir failed: %w", err)
	}

	if cfg.Redis.Addr != "" {
		client, err := redisClient.New(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		a.Redis = client
	}

	if cfg.RabbitMQ.URL != "" {
		conn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue)
		if err != nil {
			return err
		}
		a.MQConn = conn
	}

	a.Registry = prometheus.NewRegistry()
	a.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.Metrics = metrics.New(a.Registry)

	a.Completer = ai.NewCompleter(cfg.LLM)
	if a.Completer == nil {
		a.Logger.Warn("llm api key not configured, analyses will hold a notice instead")
	}
	a.Extractor = pdfextract.New(a.Logger)

	a.Sweeper = worker.NewUploadSweeper(cfg.Upload.Dir, cfg.Upload.SweepSchedule, cfg.StaleUploadAge(), a.Logger, a.Metrics)
	if err := a.Sweeper.Start(); err != nil {
		return err
	}

	a.Logger.Info("application initialised",
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.Bool("redis", a.Redis != nil),
		zap.Bool("rabbitmq", a.MQConn != nil),
	)
	return nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Sweeper != nil {
		a.Sweeper.Close()
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if err := database.Close(a.DB); err != nil {
		closeErr = err
	}
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
	return closeErr
}
