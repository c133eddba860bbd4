package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
)

// Init installs the process-wide slog logger.
// Development logs as text, production as JSON. When sentryDSN is set,
// error records are additionally forwarded to Sentry.
func Init(production bool, level, sentryDSN string) *slog.Logger {
	return setup(os.Stdout, production, level, sentryDSN)
}

func setup(w io.Writer, production bool, level, sentryDSN string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handlers []slog.Handler
	if production {
		handlers = append(handlers, slog.NewJSONHandler(w, opts))
	} else {
		handlers = append(handlers, slog.NewTextHandler(w, opts))
	}

	if sentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              sentryDSN,
			AttachStacktrace: true,
		})
		if err == nil {
			handlers = append(handlers, slogsentry.Option{Level: slog.LevelError}.NewSentryHandler())
		}
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = slogmulti.Fanout(handlers...)
	} else {
		handler = handlers[0]
	}

	log := slog.New(handler)
	slog.SetDefault(log)
	return log
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
