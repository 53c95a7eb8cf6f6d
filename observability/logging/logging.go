package logging

import (
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
)

// New builds a JSON logger writing to w. Attribute keys follow the ledger's
// log schema: timestamp, severity, message, plus the service name and, when
// provided, the environment the process runs as.
func New(w io.Writer, service, env string) *slog.Logger {
	logger := slog.New(newHandler(w)).With(slog.String("service", strings.TrimSpace(service)))
	if env = strings.TrimSpace(env); env != "" {
		logger = logger.With(slog.String("env", env))
	}
	return logger
}

// Setup builds the process-wide ledger logger on stdout, installs it as the
// slog default, and bridges the standard library logger so existing packages
// keep emitting structured lines.
func Setup(service, env string) *slog.Logger {
	base := New(os.Stdout, service, env)
	slog.SetDefault(base)

	bridge := slog.NewLogLogger(newHandler(os.Stdout), slog.LevelInfo)
	bridge.SetFlags(0)
	log.SetOutput(bridge.Writer())
	log.SetFlags(0)
	log.SetPrefix("")

	return base
}

func newHandler(w io.Writer) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.TimeKey:
				attr.Key = "timestamp"
			case slog.LevelKey:
				return slog.String("severity", strings.ToUpper(attr.Value.String()))
			case slog.MessageKey:
				attr.Key = "message"
			}
			return attr
		},
	})
}
