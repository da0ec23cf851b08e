// Package logging wires logrus to sentry.
package logging

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

const flushTimeout = 2 * time.Second

// SentryHook forwards error-and-above log entries to sentry.
type SentryHook struct {
	levels []logrus.Level
}

// NewSentryHook initializes the sentry client and returns a hook for logrus.
func NewSentryHook(dsn, release, serverName string) (*SentryHook, error) {
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Release:          release,
		ServerName:       serverName,
		AttachStacktrace: true,
	}); err != nil {
		return nil, fmt.Errorf("failed to init sentry: %w", err)
	}

	return &SentryHook{
		levels: []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel},
	}, nil
}

// Levels ...
func (h *SentryHook) Levels() []logrus.Level {
	return h.levels
}

// Fire ...
func (h *SentryHook) Fire(e *logrus.Entry) error {
	event := sentry.NewEvent()
	event.Timestamp = e.Time
	event.Level = sentryLevel(e.Level)
	event.Message = e.Message

	for k, v := range e.Data {
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		event.Extra[k] = v
	}

	sentry.CaptureEvent(event)

	if e.Level <= logrus.FatalLevel {
		sentry.Flush(flushTimeout)
	}

	return nil
}

func sentryLevel(l logrus.Level) sentry.Level {
	switch l {
	case logrus.PanicLevel, logrus.FatalLevel:
		return sentry.LevelFatal
	default:
		return sentry.LevelError
	}
}
