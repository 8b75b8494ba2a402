package logging

import (
	"github.com/getsentry/sentry-go"
	"go.uber.org/zap/zapcore"
)

type sentryCore struct {
	client *sentry.Client
	fields []zapcore.Field
}

func newSentryCore(client *sentry.Client) *sentryCore {
	return &sentryCore{client: client}
}

func (c *sentryCore) Enabled(level zapcore.Level) bool {
	return level >= zapcore.ErrorLevel
}

func (c *sentryCore) With(fields []zapcore.Field) zapcore.Core {
	clone := &sentryCore{client: c.client}
	clone.fields = append(clone.fields, c.fields...)
	clone.fields = append(clone.fields, fields...)
	return clone
}

func (c *sentryCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *sentryCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range c.fields {
		f.AddTo(enc)
	}
	for _, f := range fields {
		f.AddTo(enc)
	}

	event := sentry.NewEvent()
	event.Level = sentry.LevelError
	if entry.Level >= zapcore.DPanicLevel {
		event.Level = sentry.LevelFatal
	}
	event.Message = entry.Message
	event.Logger = entry.LoggerName
	event.Timestamp = entry.Time
	event.Extra = enc.Fields

	c.client.CaptureEvent(event, nil, nil)
	return nil
}

func (c *sentryCore) Sync() error {
	return nil
}
