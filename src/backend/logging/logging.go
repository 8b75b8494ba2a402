// Package logging builds the service's zap logger and mirrors error logs to Sentry.
package logging

import (
	"fmt"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/hannes/kanoon/src/backend/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const sentryFlushTimeout = 2 * time.Second

// New returns a logger configured from cfg and a function that flushes it.
// When a Sentry DSN is configured, entries at error level and above are also
// sent to Sentry.
func New(cfg config.LoggingConfig, sentryCfg config.SentryConfig) (*zap.Logger, func(), error) {
	zcfg := zap.NewProductionConfig()
	if strings.EqualFold(cfg.Format, "console") {
		zcfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	zcfg.Level.SetLevel(level)

	logger, err := zcfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}

	var client *sentry.Client
	if sentryCfg.DSN != "" {
		client, err = sentry.NewClient(sentry.ClientOptions{
			Dsn:         sentryCfg.DSN,
			Environment: sentryCfg.Environment,
			SampleRate:  sentryCfg.SampleRate,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialise sentry: %w", err)
		}
		logger = WithSentry(logger, client)
	}

	flush := func() {
		_ = logger.Sync()
		if client != nil {
			client.Flush(sentryFlushTimeout)
		}
	}
	return logger, flush, nil
}

// WithSentry tees logger into a core that reports error entries to client
func WithSentry(logger *zap.Logger, client *sentry.Client) *zap.Logger {
	return logger.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, newSentryCore(client))
	}))
}
