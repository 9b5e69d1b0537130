package heliscene

import "log/slog"

var logger *slog.Logger

// SetLogger sets the logger heliscene reports through. Passing nil reverts to slog.Default().
func SetLogger(l *slog.Logger) {
	logger = l
}

// Logger returns the logger heliscene reports through.
func Logger() *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}
