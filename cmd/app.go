package main

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/senyabanana/procurement-service/internal/ai"
	"github.com/senyabanana/procurement-service/internal/db"
	"github.com/senyabanana/procurement-service/internal/handlers"
	"github.com/senyabanana/procurement-service/internal/mailbox"
	"github.com/senyabanana/procurement-service/internal/mailer"
	"github.com/senyabanana/procurement-service/internal/metrics"
	"github.com/senyabanana/procurement-service/internal/notify"
	"github.com/senyabanana/procurement-service/internal/repository"
	"github.com/senyabanana/procurement-service/internal/router"
	"github.com/senyabanana/procurement-service/internal/router/config"
	"github.com/senyabanana/procurement-service/internal/services"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type app struct {
	pool   *pgxpool.Pool
	nc     *nats.Conn
	routes http.Handler
	poller *mailbox.Poller
}

func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*app, error) {
	dbPool, err := db.InitDb(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a := &app{pool: dbPool}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	rfpRepo := repository.NewPostgresRFPRepository(dbPool)
	vendorRepo := repository.NewPostgresVendorRepository(dbPool)
	proposalRepo := repository.NewPostgresProposalRepository(dbPool)

	engine := ai.NewBudgetedEngine(ai.NewOpenAIEngine(cfg.AIAPIKey, cfg.AIBaseURL, cfg.AIModel, cfg.AIRequestTimeout), cfg.AIDailyBudget)
	aiClient := ai.NewClient(engine, ai.WithLogger(logger), ai.WithMetrics(m))

	smtp := mailer.NewSMTPMailer(mailer.Settings{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.EmailUser,
		Password: cfg.EmailPassword,
		From:     cfg.EmailFrom,
	})

	hooks := []notify.Hook{notify.NewEmailNotifier(smtp, aiClient, logger)}
	if cfg.NATSURL != "" {
		nc, err := notify.ConnectNATS(cfg.NATSURL)
		if err != nil {
			logger.Warn("NATS unavailable, status events disabled", "url", cfg.NATSURL, "error", err)
		} else {
			a.nc = nc
			hooks = append(hooks, notify.NewEventPublisher(nc, cfg.NATSSubject))
		}
	}
	chain := notify.NewChain(logger, hooks...)

	rfpService := services.NewRFPService(rfpRepo, vendorRepo, proposalRepo, aiClient, smtp, logger)
	vendorService := services.NewVendorService(vendorRepo)
	proposalService := services.NewProposalService(proposalRepo, rfpRepo, aiClient, chain, logger)
	comparisonService := services.NewComparisonService(rfpRepo, proposalRepo, aiClient, logger, m)
	ingestionService := services.NewIngestionService(proposalRepo, aiClient, logger)

	rfpHandler := handlers.NewRFPHandler(rfpService, logger, cfg.RequestTimeout, cfg.AIRequestTimeout)
	vendorHandler := handlers.NewVendorHandler(vendorService, logger, cfg.RequestTimeout)
	proposalHandler := handlers.NewProposalHandler(proposalService, comparisonService, logger, cfg.RequestTimeout, cfg.AIRequestTimeout)

	a.routes = router.InitRoutes(rfpHandler, vendorHandler, proposalHandler, reg)
	a.poller = mailbox.NewPoller(mailbox.Settings{
		User:     cfg.IMAPUser,
		Password: cfg.IMAPPassword,
		Host:     cfg.IMAPHost,
		Port:     cfg.IMAPPort,
		TLS:      cfg.IMAPTLS,
		Mailbox:  cfg.IMAPMailbox,
		Timeout:  cfg.IMAPTimeout,
	}, nil, rfpRepo, vendorRepo, ingestionService, logger, m)

	return a, nil
}

func (a *app) Close() {
	if a.nc != nil {
		_ = a.nc.Drain()
	}
	a.pool.Close()
}
