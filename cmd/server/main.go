package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"laurelid/internal/audit"
	"laurelid/internal/audit/kafka"
	jwttoken "laurelid/internal/jwt_token"
	"laurelid/internal/platform/config"
	"laurelid/internal/platform/httpserver"
	"laurelid/internal/platform/logger"
	"laurelid/internal/platform/metrics"
	"laurelid/internal/platform/postgres"
	platformredis "laurelid/internal/platform/redis"
	"laurelid/internal/pos"
	"laurelid/internal/session"
	sessionmetrics "laurelid/internal/session/metrics"
	"laurelid/internal/status"
	httptransport "laurelid/internal/transport/http"
	"laurelid/internal/trust"
	trustmetrics "laurelid/internal/trust/metrics"
	"laurelid/internal/trust/source"
	"laurelid/internal/verification"
	verificationmetrics "laurelid/internal/verification/metrics"
	"laurelid/internal/verification/parser"
	"laurelid/internal/verification/store"
	"laurelid/pkg/platform/circuit"
)

// main wires the kiosk verifier: trust store, engine, scan session and the
// HTTP bridge the native scanner components talk to.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("kiosk verifier stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	reg := metrics.NewRegistry()
	health := map[string]httptransport.HealthCheck{}

	// Trust list: HTTP source behind a circuit breaker, optionally mirrored
	// in Redis so a kiosk can boot while the source is down.
	httpSource, err := source.NewHTTPSource(cfg.Trust.URL)
	if err != nil {
		return err
	}
	breaker := circuit.New("trust_list",
		circuit.WithFailureThreshold(cfg.Trust.BreakerFailures),
		circuit.WithCooldown(cfg.Trust.BreakerCooldown),
	)
	var trustSource trust.Source = source.WithBreaker(httpSource, breaker, log)

	redisClient, err := platformredis.New(ctx, cfg.Redis, "laurelid-"+cfg.KioskID)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		trustSource = source.NewRedisMirror(trustSource, redisClient.Client,
			source.WithMirrorRetention(cfg.Trust.MirrorRetention),
			source.WithMirrorLogger(log),
		)
		health["redis"] = redisClient.Health
	}

	trustStore, err := trust.New(trustSource,
		trust.WithLogger(log),
		trust.WithMetrics(trustmetrics.New(reg)),
		trust.WithFetchTimeout(cfg.Trust.FetchTimeout),
	)
	if err != nil {
		return err
	}

	// Decision log.
	var decisions store.Store = store.NewInMemory(store.DefaultMemoryCapacity)
	db, err := postgres.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		pg := store.NewPostgres(db.Pool)
		applied, err := pg.Migrate(ctx)
		if err != nil {
			return err
		}
		log.Info("verifications schema ready", "migrations_applied", applied)
		decisions = pg
		health["postgres"] = db.Health
	}

	recorders := []session.Recorder{
		session.RecorderFunc(decisions.Save),
		pos.NewRecorder(log),
	}

	// Fleet event stream.
	var auditWorker *audit.Worker
	if len(cfg.Kafka.Brokers) > 0 {
		sink, err := kafka.New(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return err
		}
		defer sink.Close()
		if err := sink.EnsureTopic(ctx, 1, 1); err != nil {
			log.Warn("unable to ensure audit topic", "topic", sink.Topic(), "error", err)
		}
		publisher := audit.NewPublisher(cfg.KioskID, audit.DefaultQueueSize, log)
		auditWorker = audit.NewWorker(sink, publisher.Inbox(), log)
		recorders = append(recorders, publisher)
		health["kafka"] = sink.Health
	}

	engine := verification.NewEngine(trustStore,
		verification.WithLogger(log),
		verification.WithMetrics(verificationmetrics.New(reg)),
	)
	tracker := status.NewTracker()
	scan, err := session.New(parser.New(), engine,
		session.WithLogger(log),
		session.WithMetrics(sessionmetrics.New(reg)),
		session.WithRecorder(session.Recorders(recorders...)),
		session.WithObserver(tracker),
		session.WithSettings(cfg.SessionSettings()),
	)
	if err != nil {
		return err
	}

	var admin *jwttoken.JWTServiceAdapter
	if cfg.Server.AdminJWTKey != "" {
		admin = jwttoken.NewJWTServiceAdapter(
			jwttoken.NewJWTService(cfg.Server.AdminJWTKey, jwttoken.DefaultIssuer, jwttoken.DefaultAudience))
	} else {
		log.Warn("ADMIN_JWT_KEY not set, admin endpoints disabled")
	}

	deps := httptransport.Dependencies{
		Session:        scan,
		Status:         tracker,
		Trust:          trustStore,
		Decisions:      decisions,
		Settings:       reloadSettings,
		Health:         health,
		Metrics:        metrics.Handler(reg),
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}
	if admin != nil {
		deps.Admin = admin
	}
	srv := httpserver.New(cfg.Server, httptransport.NewRouter(deps, log), log)
	ln, err := srv.Listen()
	if err != nil {
		return err
	}

	// The audit worker outlives the session so the last decision is published.
	auditCtx, stopAudit := context.WithCancel(context.WithoutCancel(ctx))
	defer stopAudit()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if _, err := trustStore.Refresh(gctx); err != nil {
			log.Warn("initial trust list load failed, will retry on first scan", "error", err)
		}
		return nil
	})
	g.Go(func() error {
		defer stopAudit()
		return ignoreCanceled(scan.Run(gctx))
	})
	if auditWorker != nil {
		g.Go(func() error {
			return ignoreCanceled(auditWorker.Run(auditCtx))
		})
	}
	g.Go(func() error {
		return srv.Serve(gctx, ln)
	})

	log.Info("kiosk verifier started",
		"kiosk_id", cfg.KioskID,
		"addr", cfg.Server.Addr,
		"trust_ttl", cfg.TrustTTL().String(),
		"demo_mode", cfg.Session.DemoMode,
	)
	return g.Wait()
}

func reloadSettings() (session.Settings, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return session.Settings{}, err
	}
	return cfg.SessionSettings(), nil
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
