package main

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"kioskgate/internal/audit"
	"kioskgate/internal/auth"
	authmetrics "kioskgate/internal/auth/metrics"
	"kioskgate/internal/device"
	"kioskgate/internal/identity"
	identitystore "kioskgate/internal/identity/store"
	"kioskgate/internal/ledger"
	ledgerkafka "kioskgate/internal/ledger/kafka"
	ledgerpg "kioskgate/internal/ledger/postgres"
	"kioskgate/internal/platform/config"
	"kioskgate/internal/platform/httpserver"
	"kioskgate/internal/platform/logger"
	"kioskgate/internal/platform/opsapi"
	platformredis "kioskgate/internal/platform/redis"
	"kioskgate/internal/reader"
	"kioskgate/internal/scan"
	scanmetrics "kioskgate/internal/scan/metrics"
	sessionstore "kioskgate/internal/session/store"
	id "kioskgate/pkg/domain"
)

// main wires the stores, the per-device runtimes, and the ops listener, then
// supervises everything until a shutdown signal arrives. Business logic lives
// in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ops := opsapi.New(log)

	// Directory: postgres when configured, otherwise an empty in-memory one
	// for bench rigs.
	var directory identity.Directory
	var db *sql.DB
	if cfg.PostgresDSN != "" {
		var err error
		db, err = sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("open postgres: %v", err)
		}
		if err := db.PingContext(ctx); err != nil {
			log.Fatalf("ping postgres: %v", err)
		}
		defer db.Close()
		directory = identitystore.NewPostgresDirectory(db)
		ops.AddCheck("postgres", db.PingContext)
	} else {
		log.Printf("no KIOSKGATE_POSTGRES_DSN; using an empty in-memory directory")
		directory = identitystore.NewInMemoryDirectory()
	}

	// Sessions: redis is the cross-process arbiter of one-session-per-device;
	// the in-memory store only covers single-process bench rigs.
	var sessions sessionstore.Store
	redisClient, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("connect redis: %v", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		sessions = sessionstore.NewRedisStore(redisClient.Client)
		ops.AddCheck("redis", redisClient.Health)
	} else {
		log.Printf("no KIOSKGATE_REDIS_URL; using the in-memory session store")
		sessions = sessionstore.NewInMemoryStore()
	}

	// Ledger: kafka when brokers are configured, else postgres, else memory.
	var attendance ledger.Ledger
	switch {
	case len(cfg.Kafka.SeedBrokers) > 0:
		kafkaClient, err := ledgerkafka.NewClient(cfg.Kafka.SeedBrokers)
		if err != nil {
			log.Fatalf("connect kafka: %v", err)
		}
		defer kafkaClient.Close()
		attendance = ledgerkafka.NewPublisher(kafkaClient, cfg.Kafka.Topic)
		ops.AddCheck("kafka", kafkaClient.Ping)
	case db != nil:
		attendance = ledgerpg.NewStore(db)
	default:
		log.Printf("no ledger backend configured; events stay in memory")
		attendance = ledger.NewInMemoryLedger()
	}

	auditInbox := make(chan audit.Event, cfg.AuditBuffer)
	auditPublisher := audit.NewPublisher(auditInbox)
	auditWorker := audit.NewWorker(audit.NewInMemoryStore(), auditInbox, log)

	authMetrics := authmetrics.New()
	scanMetrics := scanmetrics.New()

	supervisor := device.NewSupervisor(log)
	for _, dev := range cfg.Devices {
		deviceID := id.DeviceID(dev.ID)
		deviceType := id.DeviceType(dev.Type)

		src, err := readerSource(dev)
		if err != nil {
			log.Fatalf("device %s: open reader: %v", dev.ID, err)
		}
		tagReader := reader.NewLineReader(deviceID, src)

		authSvc := auth.NewService(deviceID, deviceType, directory, auth.NewBcryptVerifier(directory), sessions,
			auth.WithAudit(auditPublisher),
			auth.WithMetrics(authMetrics),
			auth.WithPinLength(cfg.PinLength),
		)
		coord := scan.NewCoordinator(deviceID, ledger.Action(cfg.Action), directory, sessions, attendance, tagReader,
			scan.WithMetrics(scanMetrics),
			scan.WithConfirmTTL(cfg.ConfirmTTL),
			scan.WithLogger(log),
		)
		supervisor.Add(device.NewRuntime(deviceID, authSvc, coord, tagReader, log))
		log.Printf("device %s (%s) registered", dev.ID, dev.Type)
	}

	srv := httpserver.New(cfg.OpsAddr, ops.Router())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return supervisor.Run(ctx) })
	g.Go(func() error { return auditWorker.Run(ctx) })
	g.Go(func() error {
		log.Printf("ops listener on %s", cfg.OpsAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("kioskd: %v", err)
	}
	log.Printf("kioskd stopped")
}

func readerSource(dev config.Device) (io.Reader, error) {
	if dev.ReaderPath == "" {
		return os.Stdin, nil
	}
	return os.Open(dev.ReaderPath)
}
