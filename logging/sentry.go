package logging

import (
	"fmt"
	"time"

	"github.com/oginisearch/ogini-go/config"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

// SentryHook forwards warning-and-above entries to Sentry.
type SentryHook struct{}

func (h *SentryHook) Levels() []logrus.Level {
	return []logrus.Level{logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel, logrus.WarnLevel}
}

func (h *SentryHook) Fire(entry *logrus.Entry) error {
	event := sentry.NewEvent()
	event.Message = entry.Message
	event.Timestamp = entry.Time
	event.Level = sentryLevel(entry.Level)
	for k, v := range entry.Data {
		event.Extra[k] = v
	}
	sentry.CaptureEvent(event)
	return nil
}

func sentryLevel(level logrus.Level) sentry.Level {
	switch level {
	case logrus.WarnLevel:
		return sentry.LevelWarning
	case logrus.ErrorLevel:
		return sentry.LevelError
	case logrus.FatalLevel, logrus.PanicLevel:
		return sentry.LevelFatal
	default:
		return sentry.LevelInfo
	}
}

// InitSentry registers sentry and attaches the hook to the standard logger
func InitSentry(opt *config.Sentry, release string) (func(), error) {
	// if not exist sentry config, break
	if opt == nil || opt.Dsn == "" {
		return func() {}, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              opt.Dsn,
		AttachStacktrace: true,
		Release:          release,
		Environment:      opt.Environment,
	})
	if err != nil {
		return nil, fmt.Errorf("error initializing sentry: %w", err)
	}

	AddHook(&SentryHook{})

	return func() {
		sentry.Flush(2 * time.Second)
	}, nil
}
