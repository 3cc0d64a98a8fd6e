// Package logger configures the process-wide zerolog logger.
package logger

import (
    "os"
    "strings"
    "time"

    "github.com/rs/zerolog"
    "github.com/rs/zerolog/log"
)

// Init sets the global logger.  Development gets a human-readable console
// writer; every other environment logs JSON lines to stdout.  An unknown
// level name falls back to info.
func Init(env, level string) {
    zerolog.TimeFieldFormat = time.RFC3339
    lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
    if err != nil || lvl == zerolog.NoLevel {
        lvl = zerolog.InfoLevel
    }
    zerolog.SetGlobalLevel(lvl)

    switch env {
    case "development", "dev", "local":
        cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
        log.Logger = zerolog.New(cw).With().Timestamp().Logger()
    default:
        log.Logger = zerolog.New(os.Stdout).With().Timestamp().Str("env", env).Logger()
    }
}
