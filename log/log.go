// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log is a thin layer over the go-ethereum structured logger.
// Package level loggers resolve the root handler on every call, so a handler
// installed by the host after package init is honoured.
package log

import (
	"io"
	"log/slog"

	"github.com/ethereum/go-ethereum/log"
)

// Logger writes key/value pair records.
type Logger interface {
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	With(ctx ...any) Logger
}

type contextLogger struct {
	ctx []any
}

// WithContext returns a logger which prefixes every record with ctx.
func WithContext(ctx ...any) Logger {
	return &contextLogger{ctx: ctx}
}

// Root returns a logger without context.
func Root() Logger {
	return &contextLogger{}
}

func (l *contextLogger) target() log.Logger {
	if len(l.ctx) == 0 {
		return log.Root()
	}
	return log.Root().With(l.ctx...)
}

func (l *contextLogger) Trace(msg string, ctx ...any) { l.target().Trace(msg, ctx...) }
func (l *contextLogger) Debug(msg string, ctx ...any) { l.target().Debug(msg, ctx...) }
func (l *contextLogger) Info(msg string, ctx ...any)  { l.target().Info(msg, ctx...) }
func (l *contextLogger) Warn(msg string, ctx ...any)  { l.target().Warn(msg, ctx...) }
func (l *contextLogger) Error(msg string, ctx ...any) { l.target().Error(msg, ctx...) }

func (l *contextLogger) With(ctx ...any) Logger {
	merged := make([]any, 0, len(l.ctx)+len(ctx))
	merged = append(merged, l.ctx...)
	merged = append(merged, ctx...)
	return &contextLogger{ctx: merged}
}

// Levels of the root logger.
const (
	LevelTrace = log.LevelTrace
	LevelDebug = log.LevelDebug
	LevelInfo  = log.LevelInfo
	LevelWarn  = log.LevelWarn
	LevelError = log.LevelError
	LevelCrit  = log.LevelCrit
)

// Levels ordered by legacy verbosity, 0 is the quietest.
var verbosityLevels = []slog.Level{
	log.LevelCrit,
	log.LevelError,
	log.LevelWarn,
	log.LevelInfo,
	log.LevelDebug,
	log.LevelTrace,
}

// LevelOf maps a verbosity in [0, 5] to a slog level. Out of range values are clamped.
func LevelOf(verbosity int) slog.Level {
	if verbosity < 0 {
		verbosity = 0
	}
	if verbosity >= len(verbosityLevels) {
		verbosity = len(verbosityLevels) - 1
	}
	return verbosityLevels[verbosity]
}

// Init installs a terminal handler on the root logger. The returned level
// controls the handler from then on.
func Init(w io.Writer, verbosity int, useColor bool) *slog.LevelVar {
	var lvl slog.LevelVar
	lvl.Set(LevelOf(verbosity))
	log.SetDefault(log.NewLogger(NewTerminalHandlerWithLevel(w, &lvl, useColor)))
	return &lvl
}

// Discard silences the root logger.
func Discard() {
	log.SetDefault(log.NewLogger(log.DiscardHandler()))
}

// Trace logs a message at trace level with the root logger.
func Trace(msg string, ctx ...any) { Root().Trace(msg, ctx...) }

// Debug logs a message at debug level with the root logger.
func Debug(msg string, ctx ...any) { Root().Debug(msg, ctx...) }

// Info logs a message at info level with the root logger.
func Info(msg string, ctx ...any) { Root().Info(msg, ctx...) }

// Warn logs a message at warn level with the root logger.
func Warn(msg string, ctx ...any) { Root().Warn(msg, ctx...) }

// Error logs a message at error level with the root logger.
func Error(msg string, ctx ...any) { Root().Error(msg, ctx...) }
