package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/shubh-37/startupai/config"
	"github.com/shubh-37/startupai/internal/agents"
	"github.com/shubh-37/startupai/internal/analysis"
	"github.com/shubh-37/startupai/internal/api"
	"github.com/shubh-37/startupai/internal/canvas"
	"github.com/shubh-37/startupai/internal/collaboration"
	"github.com/shubh-37/startupai/internal/database"
	"github.com/shubh-37/startupai/internal/gate"
	"github.com/shubh-37/startupai/internal/linear"
	"github.com/shubh-37/startupai/internal/llm"
	"github.com/shubh-37/startupai/internal/logging"
	"github.com/shubh-37/startupai/internal/memstore"
	"github.com/shubh-37/startupai/internal/mongostore"
	"github.com/shubh-37/startupai/internal/onboarding"
	slackpkg "github.com/shubh-37/startupai/internal/slack"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the JSON API. Slack events and the Linear webhook are mounted when
their credentials are configured.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.LoadConfig()
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("configuration error: %w", err)
			}

			logger, err := logging.New(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, cfg, logger)
		},
	}
}

type evidenceStore interface {
	gate.EvidenceStore
	api.EvidenceStore
}

type stores struct {
	canvases   canvas.Store
	evidence   evidenceStore
	onboarding onboarding.Store
	health     func(ctx context.Context) error
	close      func()
}

func openStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*stores, error) {
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		db, err := database.NewDB(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.CreateTables(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create tables: %w", err)
		}
		return &stores{
			canvases:   database.NewCanvasRepository(db),
			evidence:   database.NewEvidenceRepository(db),
			onboarding: database.NewOnboardingRepository(db),
			health:     db.Health,
			close:      db.Close,
		}, nil

	case config.BackendMongo:
		store, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, logger)
		if err != nil {
			return nil, err
		}
		return &stores{
			canvases:   store,
			evidence:   store.Evidence(),
			onboarding: store.Onboarding(),
			health:     store.Health,
			close: func() {
				closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				_ = store.Close(closeCtx)
			},
		}, nil

	case config.BackendMemory:
		logger.Warn("Using in-memory storage, data is lost on restart")
		return &stores{
			canvases:   memstore.NewCanvasStore(),
			evidence:   memstore.NewEvidenceStore(),
			onboarding: memstore.NewOnboardingStore(),
			close:      func() {},
		}, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}

func newLLM(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	switch cfg.LLMProvider {
	case config.ProviderGemini:
		return llm.NewGeminiClient(ctx, llm.GeminiConfig{APIKey: cfg.GeminiKey, Model: cfg.LLMModel})
	case config.ProviderAnthropic:
		return llm.NewAnthropicClient(llm.AnthropicConfig{APIKey: cfg.AnthropicKey, Model: cfg.LLMModel})
	}
	return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
}

func runServer(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.close()

	client, err := newLLM(ctx, cfg)
	if err != nil {
		return err
	}
	catalog, err := agents.DefaultCatalog()
	if err != nil {
		return fmt.Errorf("failed to load agent definitions: %w", err)
	}

	canvases := canvas.NewService(st.canvases, logger, canvas.WithQualityThreshold(cfg.QualityThreshold))
	gates := gate.NewService(st.evidence, logger)
	orchestrator := collaboration.NewOrchestrator(client, catalog, logger,
		collaboration.WithCanvasStore(st.canvases),
		collaboration.WithQualityThreshold(cfg.QualityThreshold),
	)
	orchestrator.Subscribe(func(e collaboration.Event) {
		logger.Debug("Collaboration event",
			zap.String("type", string(e.Type)),
			zap.String("session_id", e.SessionID),
			zap.String("phase", string(e.Phase)),
		)
	})

	deps := api.Deps{
		Canvases:     canvases,
		Generator:    agents.NewCanvasGenerator(client, canvases, catalog, logger),
		Orchestrator: orchestrator,
		Gates:        gates,
		Evidence:     st.evidence,
		Onboarding:   onboarding.NewService(st.onboarding, onboarding.NewEngine(), logger),
		Analysis:     analysis.NewEngine(client, logger),
		Health:       st.health,
		Logger:       logger,
	}

	var importer *linear.Importer
	if cfg.LinearToken != "" {
		linearClient, err := linear.NewClient(cfg.LinearToken, logger)
		if err != nil {
			return err
		}
		importer = linear.NewImporter(linearClient, st.evidence, logger)
		deps.LinearWebhook = linear.NewWebhookHandler(importer, cfg.LinearWebhookSecret, logger)
		if cfg.LinearWebhookSecret == "" {
			logger.Warn("LINEAR_WEBHOOK_SECRET is not set, Linear webhooks are accepted unsigned")
		}
		logger.Info("Linear import enabled")
	}

	if cfg.SlackEnabled() {
		slackClient, err := slackpkg.NewClient(ctx, cfg.SlackToken, logger)
		if err != nil {
			return err
		}
		approvals := slackpkg.NewApprovalHandler(slackClient, canvases, logger)
		if cfg.SlackChannelID != "" {
			canvases.SetNotifier(slackpkg.NewNotifier(slackClient, cfg.SlackChannelID, approvals, cfg.QualityThreshold, logger))
		}

		var evidenceImporter slackpkg.EvidenceImporter
		if importer != nil {
			evidenceImporter = importer
		}
		commands := slackpkg.NewCommandHandler(slackClient, canvases, gates, evidenceImporter, logger)
		messages := slackpkg.NewMessageHandler(slackClient, commands, logger)
		deps.SlackEvents = slackpkg.NewServer(messages, approvals, cfg.SlackSigningSecret, logger)
		logger.Info("Slack integration enabled", zap.String("channel_id", cfg.SlackChannelID))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewServer(deps).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP server listening",
			zap.String("addr", srv.Addr),
			zap.String("storage", cfg.StorageBackend),
			zap.String("llm", cfg.LLMProvider),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
