package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// setupLogging returns the run logger. Without debug only warnings reach w.
// With debug and a non-empty logPath, debug records go to that file instead of w
func setupLogging(debug bool, w io.Writer, logPath string) (*slog.Logger, io.Closer, error) {
	if !debug {
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelWarn})), nil, nil
	}

	var closer io.Closer
	if logPath != "" {
		if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, err
		}
		w, closer = f, f
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})), closer, nil
}
