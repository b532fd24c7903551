package main

import (
	"context"
	"encoding/json"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"go.uber.org/automaxprocs/maxprocs"

	appscanning "github.com/bsheehan3117/serverless-security-scanner/internal/app/scanning"
	"github.com/bsheehan3117/serverless-security-scanner/internal/config/envloader"
	"github.com/bsheehan3117/serverless-security-scanner/internal/config/fileloader"
	"github.com/bsheehan3117/serverless-security-scanner/internal/domain/events"
	"github.com/bsheehan3117/serverless-security-scanner/internal/domain/scanning"
	eventdispatcher "github.com/bsheehan3117/serverless-security-scanner/internal/infra/event_dispatcher"
	"github.com/bsheehan3117/serverless-security-scanner/internal/infra/eventbus/kafka"
	"github.com/bsheehan3117/serverless-security-scanner/internal/infra/metrics"
	s3store "github.com/bsheehan3117/serverless-security-scanner/internal/infra/storage/s3"
	"github.com/bsheehan3117/serverless-security-scanner/pkg/common"
	"github.com/bsheehan3117/serverless-security-scanner/pkg/common/logger"
	"github.com/bsheehan3117/serverless-security-scanner/pkg/common/otel"
)

const serviceType = "scanner"

func main() {
	_, _ = maxprocs.Set()

	hostname, err := os.Hostname()
	if err != nil {
		stdlog.Fatalf("failed to get hostname: %v", err)
	}

	var log *logger.Logger

	logEvents := logger.Events{
		Error: func(ctx context.Context, r logger.Record) {
			errorAttrs := map[string]any{
				"error_message": r.Message,
				"error_time":    r.Time.UTC().Format(time.RFC3339),
				"trace_id":      otel.GetTraceID(ctx),
			}

			// Add any error-specific attributes.
			for k, v := range r.Attributes {
				errorAttrs[k] = v
			}

			errorAttrsJSON, err := json.Marshal(errorAttrs)
			if err != nil {
				fmt.Fprintf(os.Stderr, "failed to marshal error attributes: %v\n", err)
				return
			}

			// Output the error event with valid JSON details.
			fmt.Fprintf(os.Stderr, "Error event: %s, details: %s\n",
				r.Message, errorAttrsJSON)
		},
	}

	traceIDFn := func(ctx context.Context) string {
		return otel.GetTraceID(ctx)
	}

	svcName := fmt.Sprintf("SCANNER-%s", hostname)
	metadata := map[string]string{
		"service":  svcName,
		"hostname": hostname,
		"app":      serviceType,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration before constructing the logger so the level is honored.
	loadCfg := envloader.NewEnvLoader().Load
	if path := os.Getenv("SCANNER_CONFIG_FILE"); path != "" {
		loadCfg = fileloader.NewFileLoader(path).Load
	}
	cfg, err := loadCfg(ctx)
	if err != nil {
		stdlog.Fatalf("failed to load configuration: %v", err)
	}

	log = logger.NewWithMetadata(os.Stdout, logger.ParseLevel(cfg.LogLevel), svcName, traceIDFn, logEvents, metadata)

	// Setup signal handling.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	// Initialize telemetry.
	tp, telemetryTeardown, err := otel.InitTelemetry(log, otel.Config{
		ServiceName:      svcName,
		ExporterEndpoint: cfg.Telemetry.Endpoint,
		ExcludedRoutes: map[string]struct{}{
			"/v1/health":    {},
			"/v1/readiness": {},
		},
		Probability:        cfg.Telemetry.SamplingRatio,
		ResourceAttributes: map[string]string{"library.language": "go"},
		InsecureExporter:   cfg.Telemetry.InsecureExporter,
	})
	if err != nil {
		log.Error(ctx, "failed to initialize telemetry", "error", err)
		os.Exit(1)
	}
	defer telemetryTeardown(ctx)

	tracer := tp.Tracer(svcName)

	ready := &atomic.Bool{}
	healthServer := common.NewHealthServer(ready)
	defer func() {
		if err := healthServer.Server().Shutdown(ctx); err != nil {
			log.Error(ctx, "Error shutting down health server", "error", err)
		}
	}()

	m, err := metrics.New("config_scanner")
	if err != nil {
		log.Error(ctx, "failed to initialize metrics", "error", err)
		os.Exit(1)
	}

	busCfg := &kafka.Config{
		Brokers:            cfg.Kafka.Brokers,
		NotificationsTopic: cfg.Kafka.NotificationsTopic,
		AlertsTopic:        cfg.Kafka.AlertsTopic,
		GroupID:            cfg.Kafka.GroupID,
		ClientID:           fmt.Sprintf("scanner-%s", hostname),
		ServiceType:        serviceType,
	}
	bus, err := kafka.ConnectWithRetry(ctx, busCfg, log, m, tracer)
	if err != nil {
		log.Error(ctx, "failed to connect to Kafka", "error", err)
		os.Exit(1)
	}
	defer bus.Close()
	log.Info(ctx, "Connected to Kafka", "brokers", cfg.Kafka.Brokers)

	publisher := kafka.NewDomainEventPublisher(bus, events.NewDomainEventTranslator())

	s3Client, err := s3store.NewClient(ctx, s3store.ClientConfig{
		Region:       cfg.S3.Region,
		Endpoint:     cfg.S3.Endpoint,
		UsePathStyle: cfg.S3.UsePathStyle,
	})
	if err != nil {
		log.Error(ctx, "failed to create S3 client", "error", err)
		os.Exit(1)
	}
	store := s3store.NewStore(s3Client, log, tracer)

	orchestrator := appscanning.NewScanOrchestrator(store, publisher, log, tracer, m)

	dispatcher := eventdispatcher.New(tracer, log)
	dispatcher.RegisterHandler(ctx, scanning.EventTypeObjectUploaded, orchestrator.HandleObjectUploaded)

	if err := bus.Subscribe(ctx, []events.EventType{scanning.EventTypeObjectUploaded}, dispatcher.Dispatch); err != nil {
		log.Error(ctx, "failed to subscribe to upload notifications", "error", err)
		os.Exit(1)
	}

	ready.Store(true)
	log.Info(ctx, "Scanner started", "hostname", hostname)

	<-sigCh
	log.Info(ctx, "Scanner shutting down...")
	cancel()
}
