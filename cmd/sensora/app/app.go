/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package app assembles and runs the sensora service.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"

	"github.com/carverauto/sensora/pkg/api"
	"github.com/carverauto/sensora/pkg/benchmark"
	"github.com/carverauto/sensora/pkg/config"
	"github.com/carverauto/sensora/pkg/db"
	"github.com/carverauto/sensora/pkg/device"
	"github.com/carverauto/sensora/pkg/entity"
	"github.com/carverauto/sensora/pkg/events"
	"github.com/carverauto/sensora/pkg/forward"
	"github.com/carverauto/sensora/pkg/ingest"
	"github.com/carverauto/sensora/pkg/integration"
	"github.com/carverauto/sensora/pkg/kv"
	"github.com/carverauto/sensora/pkg/lifecycle"
	"github.com/carverauto/sensora/pkg/logger"
	"github.com/carverauto/sensora/pkg/metrics"
	"github.com/carverauto/sensora/pkg/models"
	"github.com/carverauto/sensora/pkg/mqtt"
	"github.com/carverauto/sensora/pkg/natsutil"
	"github.com/carverauto/sensora/pkg/probe"
	"github.com/carverauto/sensora/pkg/registry"
	"github.com/carverauto/sensora/pkg/status"
	"github.com/carverauto/sensora/pkg/version"
)

const (
	serviceName           = "sensora"
	defaultConfigBucket   = "sensora-config"
	defaultMQTTConnectMax = 10 * time.Second
	defaultReportLoadMax  = 5 * time.Second
)

// Options contains runtime configuration derived from CLI flags.
type Options struct {
	ConfigPath string
}

// Run boots the service and blocks until it is asked to stop.
func Run(ctx context.Context, opts Options) error {
	cfgStore, err := openConfigStore(ctx)
	if err != nil {
		return err
	}

	if cfgStore != nil {
		defer func() { _ = cfgStore.Close() }()
	}

	cfg, err := loadConfig(ctx, opts.ConfigPath, cfgStore)
	if err != nil {
		return err
	}

	mainLogger, err := lifecycle.CreateComponentLogger(ctx, "sensora-main", cfg.Logging)
	if err != nil {
		return err
	}

	if cfg.Logging != nil {
		if _, metricsErr := logger.InitializeMetrics(ctx, logger.MetricsConfig{
			ServiceName:    serviceName,
			ServiceVersion: version.GetVersion(),
			OTel:           &cfg.Logging.OTel,
		}); metricsErr != nil && !errors.Is(metricsErr, logger.ErrOTelMetricsDisabled) {
			return metricsErr
		}
	}

	defer func() {
		if shutdownErr := lifecycle.ShutdownLogger(); shutdownErr != nil {
			mainLogger.Error().Err(shutdownErr).Msg("Error shutting down logger")
		}
	}()

	mainLogger.Info().
		Str("version", version.GetFullVersion()).
		Str("integration", cfg.IntegrationID).
		Str("listen_addr", cfg.ListenAddr).
		Msg("Starting sensora")

	errCh := make(chan error, 1)

	svc, err := NewService(ctx, &cfg, mainLogger, errCh)
	if err != nil {
		return err
	}

	if cfgStore != nil {
		watchCtx, cancelWatch := context.WithCancel(ctx)
		defer cancelWatch()

		svc.WatchConfig(watchCtx, cfgStore, config.KVKeyForPath(opts.ConfigPath))
	}

	return lifecycle.RunService(ctx, &lifecycle.ServiceOptions{
		Service: svc,
		Logger:  mainLogger,
	}, errCh)
}

// LoadConfig reads the service config from the source chosen by
// CONFIG_SOURCE. The kv source reads from the bucket named by
// CONFIG_KV_BUCKET on the server at CONFIG_KV_URL.
func LoadConfig(ctx context.Context, path string) (models.ServiceConfig, error) {
	store, err := openConfigStore(ctx)
	if err != nil {
		return models.ServiceConfig{}, err
	}

	if store != nil {
		defer func() { _ = store.Close() }()
	}

	return loadConfig(ctx, path, store)
}

// openConfigStore opens the config bucket when CONFIG_SOURCE=kv and returns
// nil otherwise.
func openConfigStore(ctx context.Context) (kv.KVStore, error) {
	if !strings.EqualFold(os.Getenv("CONFIG_SOURCE"), "kv") {
		return nil, nil
	}

	bucket := os.Getenv("CONFIG_KV_BUCKET")
	if bucket == "" {
		bucket = defaultConfigBucket
	}

	store, err := kv.NewNatsStore(ctx, os.Getenv("CONFIG_KV_URL"), os.Getenv("CONFIG_KV_DOMAIN"), bucket, 0, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open config KV: %w", err)
	}

	return store, nil
}

func loadConfig(ctx context.Context, path string, store kv.KVStore) (models.ServiceConfig, error) {
	var cfg models.ServiceConfig

	loader := config.NewConfig(nil)
	if store != nil {
		loader.SetKVStore(store)
	}

	if err := loader.LoadAndValidate(ctx, path, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Service owns every long lived component of the process.
type Service struct {
	cfg    *models.ServiceConfig
	logger logger.Logger
	errCh  chan<- error

	nc        *nats.Conn
	store     kv.KVStore
	pool      *pgxpool.Pool
	mqtt      *mqtt.Client
	forwarder *forward.KafkaForwarder
	scheduler *benchmark.Scheduler
	cache     *ingest.Cache
	bootstrap *integration.Bootstrap
	api       *api.Server
}

func component(log logger.Logger, name string) logger.Logger {
	return logger.Wrap(log.WithComponent(name))
}

// NewService connects the backends selected by cfg and wires the components.
func NewService(ctx context.Context, cfg *models.ServiceConfig, log logger.Logger, errCh chan<- error) (*Service, error) {
	s := &Service{cfg: cfg, logger: log, errCh: errCh}

	if err := s.build(ctx); err != nil {
		_ = s.closeBackends()

		return nil, err
	}

	return s, nil
}

func (s *Service) build(ctx context.Context) error {
	cfg := s.cfg

	if s.needsNATS() {
		nc, err := natsutil.Connect(cfg.NATS, serviceName+"-"+cfg.IntegrationID, component(s.logger, "nats"))
		if err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}

		s.nc = nc
	}

	if err := s.openStatusStore(ctx); err != nil {
		return err
	}

	values := entity.NewKVValueStore(s.store, component(s.logger, "entity"))

	reg, reports, err := s.openRegistry(ctx, values)
	if err != nil {
		return err
	}

	bus := events.NewBus(component(s.logger, "events"))

	if err := s.forwardEvents(ctx, bus); err != nil {
		return err
	}

	collector := metrics.NewCollector()

	prober, err := probe.New(&cfg.Benchmark, component(s.logger, "probe"))
	if err != nil {
		return err
	}

	benchOpts := []benchmark.Option{
		benchmark.WithPublisher(bus),
		benchmark.WithRecorder(collector),
	}

	if reports != nil {
		benchOpts = append(benchOpts, benchmark.WithLatestReport(s.restoreReport(ctx, reports)))
	}

	orchestrator := benchmark.NewOrchestrator(benchmark.Config{
		IntegrationID:  cfg.IntegrationID,
		ProbeTimeout:   time.Duration(cfg.Benchmark.ProbeTimeout),
		MaxConcurrency: cfg.Benchmark.MaxConcurrency,
	}, reg, values, prober, component(s.logger, "benchmark"), benchOpts...)

	s.scheduler = benchmark.NewScheduler(orchestrator, time.Duration(cfg.Benchmark.Interval), component(s.logger, "scheduler"))

	statusSvc := status.NewService(cfg.IntegrationID, reg, values, orchestrator, component(s.logger, "status"))
	deviceSvc := device.NewService(cfg.IntegrationID, reg, values, statusSvc, bus, component(s.logger, "device"))

	var bootOpts []integration.Option
	if reports != nil {
		bootOpts = append(bootOpts, integration.WithReportSink(reports))
	}

	s.bootstrap = integration.NewBootstrap(cfg.IntegrationID, entity.NewCatalog(), bus, s.scheduler, deviceSvc,
		component(s.logger, "integration"), bootOpts...)

	username, subPath := models.DefaultMQTTUsername, models.DefaultTopicSubPath
	if cfg.MQTT != nil && cfg.MQTT.Enabled {
		username, subPath = cfg.MQTT.Username, cfg.MQTT.TopicSubPath
		s.mqtt = mqtt.NewClient(cfg.MQTT, component(s.logger, "mqtt"))
	}

	var cacheOpts []ingest.Option
	if cfg.Kafka != nil && cfg.Kafka.Enabled {
		s.forwarder = forward.NewKafkaForwarder(cfg.Kafka, component(s.logger, "kafka"))
		cacheOpts = append(cacheOpts, ingest.WithForwarder(s.forwarder))
	}

	s.cache = ingest.NewCache(username, subPath, collector, component(s.logger, "ingest"), cacheOpts...)

	s.api = api.NewServer(cfg.IntegrationID, cfg.CORS, component(s.logger, "api"),
		api.WithStatusQuerier(statusSvc),
		api.WithDeviceManager(deviceSvc),
		api.WithRunner(orchestrator),
		api.WithSensorSource(s.cache),
		api.WithMetricsHandler(collector.Handler()),
	)

	return nil
}

func (s *Service) needsNATS() bool {
	return s.cfg.StatusStore.Backend == models.StoreBackendNATS ||
		(s.cfg.Events != nil && s.cfg.Events.Enabled)
}

func (s *Service) openStatusStore(ctx context.Context) error {
	if s.cfg.StatusStore.Backend != models.StoreBackendNATS {
		s.store = kv.NewMemoryStore()

		return nil
	}

	store, err := kv.NewNatsStoreFromConn(ctx, s.nc, s.cfg.NATS.Domain, s.cfg.StatusStore.Bucket, 0, component(s.logger, "kv"))
	if err != nil {
		return fmt.Errorf("failed to open status store: %w", err)
	}

	s.store = store

	return nil
}

func (s *Service) openRegistry(ctx context.Context, values entity.ValueStore) (registry.Registry, *db.ReportStore, error) {
	if s.cfg.Database == nil {
		return registry.NewMemoryRegistry(values, component(s.logger, "registry")), nil, nil
	}

	pool, err := db.NewPool(ctx, s.cfg.Database, component(s.logger, "db"))
	if err != nil {
		return nil, nil, err
	}

	s.pool = pool

	if err := db.RunMigrations(ctx, pool, component(s.logger, "migrations")); err != nil {
		return nil, nil, err
	}

	return registry.NewCNPGRegistry(pool, values, component(s.logger, "registry")), db.NewReportStore(pool), nil
}

// restoreReport loads the newest persisted report so /report survives a
// restart. A missing or unreadable history starts empty.
func (s *Service) restoreReport(ctx context.Context, reports *db.ReportStore) *models.DetectReport {
	loadCtx, cancel := context.WithTimeout(ctx, defaultReportLoadMax)
	defer cancel()

	report, err := reports.LatestReport(loadCtx, s.cfg.IntegrationID)

	switch {
	case errors.Is(err, models.ErrNotFound):
		return nil
	case err != nil:
		s.logger.Warn().Err(err).Msg("Failed to load the latest detect report")

		return nil
	}

	s.logger.Info().
		Time("finished_at", report.FinishedAt).
		Int64("online", report.OnlineCount).
		Int64("offline", report.OfflineCount).
		Msg("Restored latest detect report")

	return report
}

func (s *Service) forwardEvents(ctx context.Context, bus *events.Bus) error {
	if s.cfg.Events == nil || !s.cfg.Events.Enabled {
		return nil
	}

	js, err := natsutil.JetStream(s.nc, s.cfg.NATS.Domain)
	if err != nil {
		return err
	}

	publisher := events.NewNATSPublisher(js, s.cfg.Events.SubjectPrefix, serviceName+"/"+s.cfg.IntegrationID,
		component(s.logger, "event-publisher"))

	if err := natsutil.EnsureStream(ctx, js, s.cfg.Events.StreamName, publisher.Subjects()...); err != nil {
		return err
	}

	bus.Forward(publisher)

	return nil
}

// WatchConfig follows the config document stored under key. The benchmark
// interval is applied live; any other change is logged and waits for a
// restart.
func (s *Service) WatchConfig(ctx context.Context, store kv.KVStore, key string) {
	config.WatchKV(ctx, store, key, component(s.logger, "config"), s.applyConfig)
}

func (s *Service) applyConfig(data []byte) {
	var next models.ServiceConfig

	if err := json.Unmarshal(data, &next); err != nil {
		s.logger.Warn().Err(err).Msg("Ignoring unparsable config update")

		return
	}

	if err := next.Validate(); err != nil {
		s.logger.Warn().Err(err).Msg("Ignoring invalid config update")

		return
	}

	s.scheduler.SetInterval(time.Duration(next.Benchmark.Interval))

	next.Benchmark.Interval = s.cfg.Benchmark.Interval
	if !reflect.DeepEqual(&next, s.cfg) {
		s.logger.Warn().Msg("Config update contains settings that only apply after a restart")
	}
}

// Start runs the integration hooks, connects MQTT and starts the HTTP API.
func (s *Service) Start(ctx context.Context) error {
	if err := s.bootstrap.OnPrepared(ctx); err != nil {
		return err
	}

	if err := s.bootstrap.OnStarted(ctx); err != nil {
		return err
	}

	if s.mqtt != nil {
		connectCtx, cancel := context.WithTimeout(ctx, defaultMQTTConnectMax)
		err := s.mqtt.Connect(connectCtx)
		cancel()

		if err != nil {
			s.logger.Warn().Err(err).Str("broker", s.cfg.MQTT.Broker).
				Msg("MQTT broker not reachable yet, subscribing once connected")
		}

		if err := s.cache.Start(ctx, s.mqtt); err != nil {
			return fmt.Errorf("failed to start sensor ingestion: %w", err)
		}
	}

	go func() {
		if err := s.api.Start(s.cfg.ListenAddr); err != nil {
			s.errCh <- fmt.Errorf("HTTP API server error: %w", err)
		}
	}()

	return nil
}

// Stop shuts the components down in reverse order.
func (s *Service) Stop(ctx context.Context) error {
	var errs []error

	if err := s.api.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}

	if err := s.bootstrap.OnDestroy(ctx); err != nil {
		errs = append(errs, err)
	}

	if s.mqtt != nil {
		if err := s.mqtt.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if s.forwarder != nil {
		if err := s.forwarder.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	errs = append(errs, s.closeBackends())

	return errors.Join(errs...)
}

func (s *Service) closeBackends() error {
	var err error

	if s.store != nil {
		err = s.store.Close()
	}

	if s.pool != nil {
		s.pool.Close()
	}

	if s.nc != nil {
		if drainErr := s.nc.Drain(); drainErr != nil {
			s.nc.Close()
		}
	}

	return err
}
