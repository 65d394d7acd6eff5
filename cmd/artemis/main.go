// Command artemis detects the frameworks used by analysed applications.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"github.com/custodia-labs/artemis/internal/adapters/driven/config/file"
	"github.com/custodia-labs/artemis/internal/adapters/driven/graph/cypher"
	"github.com/custodia-labs/artemis/internal/adapters/driven/graph/fixture"
	"github.com/custodia-labs/artemis/internal/adapters/driven/metrics/prometheus"
	filemodel "github.com/custodia-labs/artemis/internal/adapters/driven/modelstore/file"
	s3model "github.com/custodia-labs/artemis/internal/adapters/driven/modelstore/s3"
	"github.com/custodia-labs/artemis/internal/adapters/driven/nlp/bayes"
	"github.com/custodia-labs/artemis/internal/adapters/driven/nlp/corpus"
	"github.com/custodia-labs/artemis/internal/adapters/driven/notify/email"
	"github.com/custodia-labs/artemis/internal/adapters/driven/oracle/pythia"
	filereport "github.com/custodia-labs/artemis/internal/adapters/driven/report/file"
	"github.com/custodia-labs/artemis/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/artemis/internal/adapters/driving/cli"
	"github.com/custodia-labs/artemis/internal/core/domain"
	"github.com/custodia-labs/artemis/internal/core/ports/driven"
	"github.com/custodia-labs/artemis/internal/core/services"
	"github.com/custodia-labs/artemis/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	baseDir, err := configDir()
	if err != nil {
		return err
	}

	if err := file.LoadEnvFiles(baseDir); err != nil {
		return fmt.Errorf("loading .env: %w", err)
	}

	configStore, err := file.NewConfigStore(baseDir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, baseDir)

	settings, err := settingsService.Get()
	if err != nil {
		// Still let the user fix the settings.
		cli.SetServices(cli.Services{Settings: settingsService, ConfigErr: err})
		logger.Warn("invalid settings: %v", err)
		return cli.Execute(ctx)
	}
	logger.SetVerbose(settings.Verbose)

	store, err := sqlite.NewStore(settings.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening catalog: %w", err)
	}
	defer store.Close()

	graph, closeGraph := openGraph(ctx, settings.Graph)
	defer closeGraph()

	modelStore, err := openModelStore(settings.Model)
	if err != nil {
		return err
	}

	var oracleClient driven.OracleClient
	if settings.Oracle.Enabled {
		client, err := pythia.NewClient(pythia.Config{
			BaseURL:       settings.Oracle.URL,
			Token:         settings.Oracle.Token,
			Timeout:       settings.Oracle.Timeout,
			RatePerSecond: settings.Oracle.RatePerSecond,
			CacheSize:     settings.Oracle.CacheSize,
		})
		if err != nil {
			return err
		}
		oracleClient = client
	}

	var reportWriter driven.ReportWriter
	if settings.Report.Dir != "" {
		reportWriter = filereport.NewWriter(settings.Report.Dir)
	}

	var notifier driven.Notifier
	if settings.Mail.Enabled {
		n, err := email.NewNotifier(email.Config{
			Host:       settings.Mail.Host,
			Port:       settings.Mail.Port,
			Username:   settings.Mail.Username,
			Password:   settings.Mail.Password,
			From:       settings.Mail.From,
			Recipients: settings.Mail.Recipients,
		})
		if err != nil {
			return err
		}
		notifier = n
	}

	metrics := prometheus.NewRecorder(true)

	var selector *services.CandidateSelector
	if graph != nil {
		selector = services.NewCandidateSelector(graph, services.RandomShuffle)
	}
	catalog := services.NewFrameworkCatalog(store.FrameworkStore(), selector, settings.PersistenceEnabled)
	classifier := services.NewTextClassifier(
		corpus.NewSource(settings.Classifier.CorpusDir),
		bayes.NewTrainer(),
		modelStore,
		metrics,
		settings.Classifier.ConfidenceThreshold,
	)
	oracle := services.NewOracleSync(oracleClient, store.WatermarkStore(), catalog, metrics)

	detection := services.NewDetectionOrchestrator(services.DetectionDeps{
		Selector:   selector,
		Classifier: classifier,
		Catalog:    catalog,
		Oracle:     oracle,
		Reports:    services.NewReportGenerator(reportWriter, notifier),
		Watcher:    corpus.NewWatcher(settings.Classifier.CorpusDir),
		Metrics:    metrics,
		Retry:      settings.Oracle.Retry,
		NewRunID:   uuid.NewString,
	})

	scheduler := services.NewScheduler(
		domain.NewSchedulerConfig(settings.Oracle.SyncInterval),
		store.SchedulerStore(),
		oracle,
	)

	cli.SetServices(cli.Services{
		Detection:  detection,
		Frameworks: catalog,
		Oracle:     oracle,
		Settings:   settingsService,
		Metrics:    metrics.Handler(),
		Scheduler:  scheduler,
	})

	return cli.Execute(ctx)
}

func configDir() (string, error) {
	if dir := os.Getenv(file.EnvPrefix + "HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".artemis"), nil
}

// openGraph connects to the configured graph. A file:// URI loads a JSON
// fixture instead of a database. Without a usable graph, detection commands
// report the missing configuration when they run.
func openGraph(ctx context.Context, cfg domain.GraphSettings) (driven.GraphStore, func()) {
	noop := func() {}
	if strings.TrimSpace(cfg.URI) == "" {
		return nil, noop
	}

	if path, ok := strings.CutPrefix(cfg.URI, "file://"); ok {
		g, err := fixture.Load(path)
		if err != nil {
			logger.Warn("graph fixture unavailable: %v", err)
			return nil, noop
		}
		return g, noop
	}

	g, err := cypher.Open(ctx, cypher.Config{
		URI:      cfg.URI,
		Username: cfg.Username,
		Password: cfg.Password,
		Database: cfg.Database,
		Schema:   cfg.Schema,
	})
	if err != nil {
		logger.Warn("graph database unavailable: %v", err)
		return nil, noop
	}
	return g, func() {
		if err := g.Close(context.Background()); err != nil {
			logger.Warn("closing graph: %v", err)
		}
	}
}

func openModelStore(cfg domain.ModelSettings) (driven.ModelStore, error) {
	if cfg.Store == domain.ModelStoreS3 {
		store, err := s3model.NewStore(s3model.Config{
			Endpoint:  cfg.S3.Endpoint,
			Bucket:    cfg.S3.Bucket,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Region:    cfg.S3.Region,
			UseSSL:    cfg.S3.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("opening model bucket: %w", err)
		}
		return store, nil
	}
	return filemodel.NewStore(cfg.Dir), nil
}
