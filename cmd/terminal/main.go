package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"clicker/internal/auth"
	authhandler "clicker/internal/auth/handler"
	authstore "clicker/internal/auth/store"
	"clicker/internal/backend"
	"clicker/internal/counts"
	"clicker/internal/diagnostics"
	"clicker/internal/platform/config"
	"clicker/internal/platform/httpserver"
	"clicker/internal/platform/logger"
	"clicker/internal/platform/metrics"
	"clicker/internal/platform/redis"
	"clicker/internal/registration"
	bindingstore "clicker/internal/registration/store"
	"clicker/internal/scanner"
	scannerhandler "clicker/internal/scanner/handler"
	"clicker/internal/terminal"
	terminalhandler "clicker/internal/terminal/handler"
	httptransport "clicker/internal/transport/http"
	"clicker/pkg/platform/audit"
	"clicker/pkg/platform/audit/publisher"
	auditmemory "clicker/pkg/platform/audit/store/memory"
	auditpostgres "clicker/pkg/platform/audit/store/postgres"
	"clicker/pkg/platform/circuit"
)

const barcodeBuffer = 4

// gateway is everything the terminal needs from the counting service. Both
// the HTTP client and the in-process mock implement it.
type gateway interface {
	counts.Counter
	counts.DetailsFetcher
	registration.Registrar
	auth.Gateway
}

// main wires the station, the login flow and the local API, then runs the
// card loops and the server until SIGINT or SIGTERM.
func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("terminal stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	var checks []func(context.Context) error

	events, db, err := newAuditStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		checks = append(checks, db.PingContext)
	}
	audits := publisher.NewPublisher(events,
		publisher.WithAsyncBuffer(cfg.Audit.Buffer),
		publisher.WithLogger(log),
	)
	defer audits.Close()
	reporter := diagnostics.New(
		diagnostics.WithLogger(log),
		diagnostics.WithAuditPublisher(audits),
		diagnostics.WithMetrics(m),
	)

	service, err := newGateway(cfg.Backend, log, m, reporter)
	if err != nil {
		return err
	}

	rc, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	var (
		bindings registration.BindingStore = bindingstore.NewInMemory(cfg.Bindings.TTL)
		logins   auth.RecordStore          = authstore.NewInMemory()
	)
	if rc != nil {
		defer rc.Close()
		bindings = bindingstore.NewRedis(rc.Client, cfg.Bindings.TTL)
		logins = authstore.NewRedis(rc.Client, cfg.Station.TerminalID)
		checks = append(checks, rc.Health)
		log.Info("using redis for card bindings and saved login")
	}

	login, err := auth.New(service,
		auth.WithStore(logins),
		auth.WithReporter(reporter),
		auth.WithLogger(log),
	)
	if err != nil {
		return err
	}
	if err := login.Restore(ctx); err != nil {
		log.Warn("could not restore saved login", "error", err)
	}

	tally, err := counts.NewTally(service, login)
	if err != nil {
		return err
	}
	coordinator, err := counts.New(service, login,
		counts.WithLogger(log),
		counts.WithReporter(reporter),
		counts.WithMetrics(m),
		counts.WithTally(tally),
	)
	if err != nil {
		return err
	}
	resolver, err := registration.New(service, login, bindings,
		registration.WithLogger(log),
		registration.WithReporter(reporter),
		registration.WithMetrics(m),
	)
	if err != nil {
		return err
	}

	reader := scanner.NewSimulated()
	session, err := scanner.NewSession(reader,
		scanner.WithLogger(log),
		scanner.WithMetrics(m),
		scanner.WithReporter(reporter),
		scanner.WithRetryDelay(cfg.Scanner.RetryDelay),
	)
	if err != nil {
		return err
	}
	barcode := scanner.NewBarcode(barcodeBuffer)

	mode, err := counts.ParseGantryMode(cfg.Station.GantryMode)
	if err != nil {
		return err
	}
	station, err := terminal.New(coordinator, resolver, session, mode,
		terminal.WithLogger(log),
		terminal.WithBarcode(barcode),
	)
	if err != nil {
		return err
	}

	routerCfg := httptransport.Config{
		AdminToken:     cfg.AdminToken,
		AdminTokenHash: cfg.AdminTokenHash,
		Health:         healthCheck(checks),
	}
	if cfg.MetricsEnabled {
		routerCfg.Metrics = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}
	router := httptransport.NewRouter(log, routerCfg,
		terminalhandler.New(station, tally, log),
		authhandler.New(login, log),
		scannerhandler.New(barcode, reader, log),
		httptransport.NewAuditHandler(audits, log),
	)
	srv := httpserver.New(cfg.HTTP, router)
	ln, err := net.Listen("tcp", cfg.HTTP.Addr)
	if err != nil {
		return err
	}
	log.Info("starting terminal", "mock_backend", cfg.Backend.Mock)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return httpserver.Serve(ctx, srv, ln, cfg.HTTP, log) })
	g.Go(func() error { return station.Run(ctx) })
	g.Go(func() error { return station.RunBarcode(ctx) })
	return g.Wait()
}

func newGateway(cfg config.BackendConfig, log *slog.Logger, m *metrics.Metrics, reporter *diagnostics.Reporter) (gateway, error) {
	if cfg.Mock {
		log.Warn("using the in-process counting service mock")
		return backend.NewMock(), nil
	}
	breaker := circuit.New("counting-service",
		circuit.WithFailureThreshold(cfg.FailureThreshold),
		circuit.WithCooldown(cfg.Cooldown),
	)
	return backend.New(cfg.Endpoint, cfg.ClientAPIKey,
		backend.WithTimeout(cfg.Timeout),
		backend.WithBreaker(breaker),
		backend.WithReporter(reporter),
		backend.WithLogger(log),
		backend.WithMetrics(m),
	)
}

// newAuditStore keeps the audit trail in PostgreSQL when configured and in
// memory otherwise. The returned database is nil in the memory case.
func newAuditStore(ctx context.Context, cfg config.Server, log *slog.Logger) (audit.Store, *sql.DB, error) {
	if cfg.Audit.DatabaseURL == "" {
		return auditmemory.NewInMemoryStore(), nil, nil
	}
	db, err := auditpostgres.Open(ctx, cfg.Audit.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	store := auditpostgres.New(db, cfg.Station.TerminalID)
	if err := store.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	log.Info("audit trail stored in postgres")
	return store, db, nil
}

// healthCheck fails on the first unreachable dependency. Nil when there is
// nothing to check.
func healthCheck(checks []func(context.Context) error) func(context.Context) error {
	if len(checks) == 0 {
		return nil
	}
	return func(ctx context.Context) error {
		for _, check := range checks {
			if err := check(ctx); err != nil {
				return err
			}
		}
		return nil
	}
}
