package main

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/hannes/kanoon/src/backend/accounts"
	"github.com/hannes/kanoon/src/backend/analysis"
	"github.com/hannes/kanoon/src/backend/cache"
	"github.com/hannes/kanoon/src/backend/catalog"
	"github.com/hannes/kanoon/src/backend/chat"
	"github.com/hannes/kanoon/src/backend/config"
	"github.com/hannes/kanoon/src/backend/legal"
	"github.com/hannes/kanoon/src/backend/logging"
	"github.com/hannes/kanoon/src/backend/news"
	"github.com/hannes/kanoon/src/backend/processor"
	"github.com/hannes/kanoon/src/backend/providers"
	"github.com/hannes/kanoon/src/backend/redact"
	"github.com/hannes/kanoon/src/backend/server"
	"github.com/hannes/kanoon/src/backend/storage"
	"github.com/hannes/kanoon/src/backend/translate"
)

// app holds the wired services shared by the serve and chat commands
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	store     storage.Store
	catalog   *catalog.Catalog
	assistant *chat.Assistant
	closers   []func()
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	logger, flush, err := logging.New(cfg.Logging, cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	a := &app{cfg: cfg, logger: logger, closers: []func(){flush}}

	cat, err := catalog.Load()
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	a.catalog = cat

	a.store = storage.Open(ctx, cfg.Database, logger)
	a.addCloser("storage", a.store)

	opts := chat.Options{
		Processor: processor.NewResponseProcessor(cfg.Logging, logger),
		Activity:  a.store,
		Chat:      cfg.Chat,
		Logging:   cfg.Logging,
		Logger:    logger,
	}

	provider, err := providers.New(cfg)
	if err != nil {
		// The site still serves the catalog pages; chat replies fall back
		logger.Warn("text generation disabled", zap.Error(err))
	} else {
		opts.Provider = provider
		logger.Info("text generation provider ready", zap.String("provider", provider.GetName()))
	}

	if cfg.Privacy.RedactPrompts {
		opts.Masker = redact.NewDefaultMaskingService(cfg.Logging, logger)
	}

	if cfg.Cache.Enabled {
		rc, err := cache.New(cfg.Cache, logger)
		if err != nil {
			logger.Warn("response cache disabled", zap.Error(err))
		} else {
			opts.Cache = rc
			a.addCloser("cache", rc)
		}
	}

	counter, err := chat.NewTokenCounter(cfg.Chat.TokenizerPath)
	if err != nil {
		logger.Warn("falling back to whitespace token counting", zap.Error(err))
		counter = chat.WhitespaceCounter{}
	}
	if c, ok := counter.(io.Closer); ok {
		a.addCloser("tokenizer", c)
	}
	opts.Counter = counter

	a.assistant = chat.NewAssistant(opts)
	return a, nil
}

func (a *app) addCloser(name string, c io.Closer) {
	a.closers = append(a.closers, func() {
		if err := c.Close(); err != nil {
			a.logger.Warn("failed to close", zap.String("component", name), zap.Error(err))
		}
	})
}

// Close releases resources in reverse order of acquisition
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *app) server() *server.Server {
	return server.NewServer(server.Deps{
		Config:     a.cfg,
		Assistant:  a.assistant,
		Legal:      legal.NewService(a.assistant, a.logger),
		Analyzer:   analysis.NewAnalyzer(a.cfg.Simulation.AnalysisDelay, a.logger),
		Catalog:    a.catalog,
		News:       news.NewClient(a.cfg.News, a.logger),
		Library:    news.NewLibrary(a.store),
		Translator: translate.NewClient(a.cfg.Translate, a.logger),
		Accounts:   accounts.NewService(a.store, a.logger),
		KYC:        accounts.NewKYCRegistry(),
		Store:      a.store,
		Logger:     a.logger,
	})
}
