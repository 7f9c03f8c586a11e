// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package log is the user-facing console output of edrn, mirrored into
// zerolog for debugging.
package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/edrn/pkg/plan"
)

// 🎨 Display configuration
const (
	sourceWidth = 35 // base width for the source path column
)

// 🎯 Logger handles structured logging with console output. Its Applied
// and Previewed methods satisfy the executor's Reporter interface.
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
}

// 🏭 New creates a new logger.
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🔑 contextKey is the type for context values.
type contextKey struct{}

// 🎯 FromContext gets the logger from context.
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context.
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 Applied reports a rename that was performed.
func (l *Logger) Applied(op plan.Operation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.console, "%s %s %s\n",
		fmt.Sprintf("%-*s", sourceWidth, op.Source),
		color.New(color.FgGreen).Sprint("->"),
		op.Destination)

	l.zlog.Info().
		Str("source", op.Source).
		Str("destination", op.Destination).
		Msg("renamed")
}

// 📝 Previewed reports a rename that would be performed under dry-run.
func (l *Logger) Previewed(op plan.Operation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.console, "%s %s %s\n",
		fmt.Sprintf("%-*s", sourceWidth, op.Source),
		color.New(color.FgYellow).Sprint("->"),
		color.New(color.Faint).Sprint(op.Destination))

	l.zlog.Info().
		Str("source", op.Source).
		Str("destination", op.Destination).
		Msg("preview")
}

// 📊 Summary reports the final count, the last line of every run.
func (l *Logger) Summary(changed int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.console, "%d path(s) changed\n", changed)
	l.zlog.Info().Int("changed", changed).Msg("run complete")
}

// 📝 Warning logs a warning message.
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	pterm.Warning.WithWriter(l.console).Println(msg)
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message.
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	pterm.Error.WithWriter(l.console).Println(msg)
	l.zlog.Error().Msg(msg)
}

// 📝 Errorf logs a formatted error message.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}
