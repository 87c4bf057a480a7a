package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"

	"listing-ingest-service/internal/adapters/dedup"
	"listing-ingest-service/internal/adapters/geocoder"
	"listing-ingest-service/internal/adapters/htmlsource"
	"listing-ingest-service/internal/adapters/jsonwriter"
	logger_adapter "listing-ingest-service/internal/adapters/logger"
	postgres_adapter "listing-ingest-service/internal/adapters/postgres"
	"listing-ingest-service/internal/adapters/progress"
	rabbitmq_adapter "listing-ingest-service/internal/adapters/rabbitmq"
	"listing-ingest-service/internal/adapters/rediscache"
	"listing-ingest-service/internal/adapters/rest"
	"listing-ingest-service/internal/adapters/uploader"
	"listing-ingest-service/internal/adapters/xmlsource"
	"listing-ingest-service/internal/configs"
	"listing-ingest-service/internal/contextkeys"
	"listing-ingest-service/internal/core/domain"
	"listing-ingest-service/internal/core/port"
	usecases_port "listing-ingest-service/internal/core/port/usecases"
	"listing-ingest-service/internal/core/usecase"
)

const fingerprintTTL = 90 * 24 * time.Hour

// App is the composition root: configuration, one source adapter, and every
// collaborator of a single run, created and wired in NewApp.
type App struct {
	config  *configs.AppConfig
	profile *configs.SourceProfile
	logger  port.LoggerPort

	dbPool       *pgxpool.Pool
	redisClient  *rediscache.Client
	amqpConn     *amqp.Connection
	amqpChannel  *amqp.Channel
	fluentClient *fluent.Fluent

	writer     *jsonwriter.Writer
	runStore   *postgres_adapter.RunStoreAdapter
	restServer *rest.Server
	runSource  usecases_port.RunSourcePort
}

func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	profile, err := configs.LoadSourceProfile(appConfig.SourceProfilePath)
	if err != nil {
		return nil, fmt.Errorf("error loading source profile: %w", err)
	}

	// --- loggers ---
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		UseColor: true,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = logger_adapter.NewFluentClient(
			appConfig.FluentBit.Host, appConfig.FluentBit.Port, appConfig.AppName)
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}
		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{
		"service_name": appConfig.AppName,
		"source":       profile.Name,
	})
	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers),
		"fluent_enabled": appConfig.FluentBit.Enabled,
	})

	app := &App{
		config:       appConfig,
		profile:      profile,
		logger:       baseLogger,
		fluentClient: fluentClient,
	}

	// --- optional infrastructure ---
	if appConfig.Postgres.Enabled {
		pool, err := pgxpool.New(context.Background(), appConfig.Postgres.URL)
		if err != nil {
			appLogger.Error("Failed to connect to PostgreSQL", err, nil)
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		app.dbPool = pool

		app.runStore, err = postgres_adapter.NewRunStoreAdapter(pool)
		if err != nil {
			return nil, err
		}
		if err := app.runStore.Migrate(context.Background()); err != nil {
			appLogger.Error("Failed to migrate run tables", err, nil)
			return nil, err
		}
		appLogger.Info("PostgreSQL run store initialized.", nil)
	}

	if appConfig.Redis.Enabled {
		client := rediscache.New(appConfig.Redis.Addr, appConfig.Redis.Password, appConfig.Redis.DB)
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := client.Ping(pingCtx); err != nil {
			appLogger.Warn("Redis unreachable, caching and dedup disabled", port.Fields{"error": err.Error()})
			client.Close()
		} else {
			app.redisClient = client
			appLogger.Info("Redis cache initialized.", nil)
		}
		cancel()
	}

	// --- outgoing adapters ---
	var geo port.GeocoderPort = geocoder.NewNominatimClient(appConfig.Geocoder)
	if app.redisClient != nil {
		geo = geocoder.NewCachedGeocoder(geo, app.redisClient, appConfig.Geocoder.CacheTTL)
	}

	var fingerprints port.FingerprintStorePort
	if app.redisClient != nil {
		fingerprints = dedup.NewRedisFingerprintStore(app.redisClient, fingerprintTTL)
	}

	app.writer, err = jsonwriter.New(profile.Output.Folder, profile.Output.Filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open output file: %w", err)
	}

	var uploadClient port.UploaderPort
	if profile.UploadEnabled && appConfig.Upload.APIURL != "" {
		uploadClient = uploader.NewClient(appConfig.Upload)
		appLogger.Info("Upload client initialized.", port.Fields{"endpoint": appConfig.Upload.APIURL})
	} else {
		appLogger.Info("Upload disabled, writing output file only.", nil)
	}

	var source port.SourceAdapterPort
	switch profile.Type {
	case configs.SourceTypeWebsite:
		source, err = htmlsource.NewAdapter(profile, geo)
		if err != nil {
			return nil, err
		}
	case configs.SourceTypeXML:
		source = xmlsource.NewAdapter(profile, geo)
	default:
		return nil, fmt.Errorf("unknown source type %q", profile.Type)
	}
	appLogger.Info("Source adapter initialized.", port.Fields{"type": profile.Type})

	sinks := []port.ProgressSinkPort{progress.NewLoggerSink()}
	if app.runStore != nil {
		sinks = append(sinks, progress.NewStoreSink(app.runStore))
	}
	if appConfig.RabbitMQ.Enabled {
		conn, channel, err := rabbitmq_adapter.Connect(appConfig.RabbitMQ.URL)
		if err != nil {
			appLogger.Warn("RabbitMQ unreachable, progress publishing disabled", port.Fields{"error": err.Error()})
		} else {
			app.amqpConn = conn
			app.amqpChannel = channel
			publisher, err := rabbitmq_adapter.NewProgressEnqueueAdapter(channel, appConfig.RabbitMQ.Exchange, profile.Name)
			if err != nil {
				return nil, err
			}
			sinks = append(sinks, publisher)
			appLogger.Info("RabbitMQ progress publisher initialized.", nil)
		}
	}

	tracker := rest.NewInMemoryStatusTracker(profile.Name)
	app.restServer = rest.NewServer(appConfig.Rest.Port, rest.NewStatusHandler(profile.Name, tracker), baseLogger)

	// a nil concrete pointer must not end up as a non-nil interface
	var runStore port.RunStorePort
	if app.runStore != nil {
		runStore = app.runStore
	}

	app.runSource, err = usecase.NewRunSourceUseCase(usecase.RunSourceConfig{
		Source:       source,
		Writer:       app.writer,
		Uploader:     uploadClient,
		Fingerprints: fingerprints,
		Progress:     progress.NewMultiSink(sinks...),
		RunStore:     runStore,
		Tracker:      tracker,
		PaceEvery:    appConfig.PaceInterval.Seconds(),
		TestingMode:  profile.TestingMode,
	})
	if err != nil {
		return nil, err
	}

	appLogger.Info("All use cases initialized.", nil)
	return app, nil
}

// Run executes one full run of the configured source and shuts everything
// down afterwards. The process exits when the run is done; the orchestration
// layer schedules the next one.
func (a *App) Run() error {
	runID := uuid.New()
	runLogger := a.logger.WithFields(port.Fields{"run_id": runID.String()})

	signalCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	runCtx, cancelRun := context.WithCancel(signalCtx)
	defer cancelRun()

	runCtx = contextkeys.ContextWithLogger(runCtx, runLogger)
	runCtx = contextkeys.ContextWithRunID(runCtx, runID)

	if a.runStore != nil {
		if err := a.runStore.CreateRun(runCtx, runID, a.profile.Name); err != nil {
			runLogger.Error("Failed to create run record", err, nil)
			return err
		}
	}

	go func() {
		if err := a.restServer.Start(); err != nil && err != http.ErrServerClosed {
			runLogger.Error("REST server failed", err, nil)
		}
	}()

	if a.runStore != nil {
		go a.pollStopFlag(runCtx, runID, cancelRun)
	}

	stats, runErr := a.runSource.Execute(runCtx)

	if err := a.writer.Close(); err != nil {
		runLogger.Error("Failed to close output file", err, nil)
		if runErr == nil {
			runErr = err
		}
	}

	if a.runStore != nil {
		status := domainStatus(runErr)
		finishCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		finishCtx = contextkeys.ContextWithLogger(finishCtx, runLogger)
		if err := a.runStore.FinishRun(finishCtx, runID, status, stats); err != nil {
			runLogger.Error("Failed to finalize run record", err, nil)
		}
		cancel()
	}

	a.shutdown(runLogger)
	return runErr
}

func (a *App) pollStopFlag(ctx context.Context, runID uuid.UUID, cancelRun context.CancelFunc) {
	ticker := time.NewTicker(a.config.StopPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stop, err := a.runStore.ShouldStop(ctx, runID)
			if err != nil {
				continue
			}
			if stop {
				contextkeys.LoggerFromContext(ctx).Warn("Stop flag set, cancelling run", nil)
				cancelRun()
				return
			}
		}
	}
}

func (a *App) shutdown(logger port.LoggerPort) {
	logger.Info("Shutdown sequence initiated...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.restServer.Stop(shutdownCtx); err != nil {
		logger.Error("Error stopping REST server", err, nil)
	}

	if a.amqpChannel != nil {
		if err := a.amqpChannel.Close(); err != nil {
			logger.Error("Error closing RabbitMQ channel", err, nil)
		}
	}
	if a.amqpConn != nil {
		if err := a.amqpConn.Close(); err != nil {
			logger.Error("Error closing RabbitMQ connection", err, nil)
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			logger.Error("Error closing Redis client", err, nil)
		}
	}
	if a.dbPool != nil {
		a.dbPool.Close()
	}
	if a.fluentClient != nil {
		a.fluentClient.Close()
	}

	logger.Info("Shutdown complete.", nil)
}

func domainStatus(runErr error) domain.RunStatus {
	if runErr != nil {
		return domain.RunStatusFailed
	}
	return domain.RunStatusFinished
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
