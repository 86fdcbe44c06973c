// Package logger exposes the process-wide structured logger. Output is JSON
// on stdout so log collectors can parse it without configuration.
package logger

import (
	"log/slog"
	"os"
)

// Log is nil until Init runs; call Init before any code path that logs.
var Log *slog.Logger

func Init() {
	Log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	// Route stray slog/log calls from dependencies through the same handler
	slog.SetDefault(Log)
}
