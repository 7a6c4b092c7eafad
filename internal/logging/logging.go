// Package logging configures the global zerolog logger.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Qata-Mo7ammad-Isma3el/Course-Enrollment-Api/internal/config"
)

const timeFormat = "2006-01-02 15:04:05"

// Apply sets the global log level and output writers.
//
// dev writes human-readable console lines; staging and prod write JSON.
// When cfg.Log.File is set, the same stream is also written to a
// rotating file.
func Apply(cfg *config.Config) {
	applyLevel(cfg.Log.Level)

	var console io.Writer = os.Stdout
	if cfg.Env == "dev" {
		console = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: timeFormat}
	}
	log.Logger = zerolog.New(console).With().Timestamp().Logger()

	if cfg.Log.File == "" {
		return
	}
	if err := ensureLogDir(cfg.Log.File); err != nil {
		log.Error().Err(err).Str("path", cfg.Log.File).Msg("Failed to prepare log directory; logging to console only")
		return
	}

	fileWriter := &lumberjack.Logger{
		Filename:   cfg.Log.File,
		MaxSize:    cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAgeDays,
		Compress:   true,
	}

	multi := zerolog.MultiLevelWriter(console, fileWriter)
	log.Logger = zerolog.New(multi).With().Timestamp().Logger()
}

func applyLevel(level string) {
	switch level {
	case "trace":
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
