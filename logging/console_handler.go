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
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/fatih/color"
)

var timeColor = color.New(color.FgWhite)
var componentColor = color.New(color.FgCyan)
var attrColor = color.New(color.FgWhite).Add(color.Faint)

var debugColor = color.New(color.FgYellow)
var infoColor = color.New(color.FgGreen)
var warnColor = color.New(color.FgYellow, color.Bold)
var errorColor = color.New(color.FgRed, color.Bold)
var errorDetailLabelColor = color.New(color.BgRed)
var errorDetailColor = color.New(color.FgRed)

func levelColor(level slog.Level) *color.Color {
	switch {
	case level >= slog.LevelError:
		return errorColor
	case level >= slog.LevelWarn:
		return warnColor
	case level >= slog.LevelInfo:
		return infoColor
	default:
		return debugColor
	}
}

// ConsoleHandler renders records as single colored lines for local development.
// The "error" attribute is printed on its own line below the message.
type ConsoleHandler struct {
	mu     *sync.Mutex
	out    io.Writer
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
}

func NewConsoleHandler(out io.Writer, level slog.Leveler) *ConsoleHandler {
	return &ConsoleHandler{
		mu:     &sync.Mutex{},
		out:    out,
		level:  level,
		attrs:  make([]slog.Attr, 0),
		groups: make([]string, 0),
	}
}

// implements slog.Handler
var _ slog.Handler = &ConsoleHandler{}

func (h *ConsoleHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *ConsoleHandler) Handle(ctx context.Context, r slog.Record) error {
	if !h.Enabled(ctx, r.Level) {
		return nil
	}

	var component string
	var errText string
	other := make([]string, 0)
	prefix := strings.Join(h.groups, ".")

	collect := func(attr slog.Attr) bool {
		switch attr.Key {
		case "component":
			component = attr.Value.String()
		case "error":
			errText = attr.Value.String()
		default:
			key := attr.Key
			if prefix != "" {
				key = prefix + "." + key
			}
			other = append(other, key+"="+attr.Value.Resolve().String())
		}
		return true
	}
	for _, attr := range h.attrs {
		collect(attr)
	}
	r.Attrs(collect)

	buf := bytes.Buffer{}
	timeColor.Fprint(&buf, r.Time.Format("2006-01-02 15:04:05.000 "))
	levelColor(r.Level).Fprint(&buf, r.Level.String())
	buf.WriteString(" ")
	if component != "" {
		componentColor.Fprint(&buf, component)
		buf.WriteString(" ")
	}
	buf.WriteString(r.Message)
	if len(other) > 0 {
		buf.WriteString(" ")
		attrColor.Fprint(&buf, strings.Join(other, " "))
	}
	buf.WriteString("\n")
	if errText != "" {
		errorDetailLabelColor.Fprint(&buf, "ERR")
		buf.WriteString(" ")
		errorDetailColor.Fprint(&buf, errText)
		buf.WriteString("\n")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(buf.Bytes())
	return err
}

func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	copy := *h
	copy.attrs = append(clone(h.attrs), attrs...)
	return &copy
}

func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	copy := *h
	copy.groups = append(clone(h.groups), name)
	return &copy
}

func clone[T any](s []T) []T {
	return append([]T{}, s...)
}
