// Copyright © 2026 The Space Place Authors

// This file is part of Space Place <https://github.com/Spaces-Place/space-place-space>.

// Space Place is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License
// as published by the Free Software Foundation,
// either version 3 of the License, or (at your option)
// any later version.

// Space Place is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public License
// along with Space Place.  If not, see <http://www.gnu.org/licenses/>.

package logging

import (
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/nats-io/nats.go"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

var Module = fx.Module("logger",
	fx.Provide(
		New,
	),
)

// Logger hands out component loggers that share one level and one set of sinks.
type Logger struct {
	out      io.Writer
	levelVar *slog.LevelVar
	console  atomic.Bool
	nc       atomic.Pointer[nats.Conn]
}

func New() *Logger {
	return NewWithWriter(os.Stdout)
}

func NewWithWriter(out io.Writer) *Logger {
	levelVar := slog.LevelVar{}
	levelVar.Set(slog.LevelInfo)
	return &Logger{out: out, levelVar: &levelVar}
}

func (l *Logger) SetLevel(level slog.Level) {
	l.levelVar.Set(level)
}

// SetConsole switches loggers created afterwards to the colored console format.
func (l *Logger) SetConsole(console bool) {
	l.console.Store(console)
}

// SetNats forwards log records of all loggers to nc. A nil connection disables forwarding.
func (l *Logger) SetNats(nc *nats.Conn) {
	l.nc.Store(nc)
}

func (l *Logger) GetLogger(name string) *slog.Logger {
	var stdout slog.Handler
	if l.console.Load() {
		stdout = NewConsoleHandler(l.out, l.levelVar)
	} else {
		stdout = slog.NewTextHandler(l.out, &slog.HandlerOptions{
			Level: l.levelVar,
		})
	}
	return slog.New(NewHandlerMux(stdout, NewNatsHandler(l, l.levelVar))).With("component", name)
}

func FxLogger() fx.Option {
	return fx.WithLogger(func(l *Logger) fxevent.Logger {
		return &fxevent.SlogLogger{Logger: l.GetLogger("fx")}
	})
}
