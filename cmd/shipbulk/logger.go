package main

import (
	"log/slog"
	"os"

	"github.com/getsentry/sentry-go"
	"github.com/lmittmann/tint"
	"github.com/relay-resources/shipbulk/config"
)

func createLogger(cfg *config.Config) *slog.Logger {
	var logger *slog.Logger
	loggerOptions := &slog.HandlerOptions{
		Level:     cfg.Log.Level.ToSlog(),
		AddSource: cfg.Log.Verbose && cfg.App.Debug,
	}
	switch cfg.Log.Format {
	case config.LogFormatPlaintext:
		{
			logger = slog.New(tint.NewHandler(os.Stderr, &tint.Options{
				Level:     loggerOptions.Level,
				AddSource: loggerOptions.AddSource,
			}))
		}
	case config.LogFormatJSON:
		{
			logger = slog.New(slog.NewJSONHandler(os.Stderr, loggerOptions))
		}
	default:
		{
			logger = slog.New(slog.NewTextHandler(os.Stderr, loggerOptions))
		}
	}
	slog.SetDefault(logger)
	return logger
}

func initSentry(logger *slog.Logger, cfg *config.Config) {
	logger.Debug("Trying to initialise Sentry")
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.Sentry.DSN,
		Debug:            cfg.App.Debug,
		AttachStacktrace: true,
		SampleRate:       cfg.Sentry.SampleRate,
		ServerName:       cfg.App.Name,
		Release:          cfg.App.Version,
		Environment:      string(cfg.App.Env),
	}); err != nil {
		logger.Error("Sentry initialization failed", "error", err)
	} else {
		logger.Debug("Sentry initialised")
	}
}
