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
	"context"
	"errors"
	"log/slog"
)

// HandlerMux fans a record out to several handlers.
type HandlerMux struct {
	Handlers []slog.Handler
}

func NewHandlerMux(handlers ...slog.Handler) *HandlerMux {
	return &HandlerMux{handlers}
}

// implements slog.Handler
var _ slog.Handler = &HandlerMux{}

func (h *HandlerMux) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.Handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *HandlerMux) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, handler := range h.Handlers {
		if !handler.Enabled(ctx, r.Level) {
			continue
		}
		if err := handler.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *HandlerMux) WithAttrs(attrs []slog.Attr) slog.Handler {
	copy := HandlerMux{make([]slog.Handler, len(h.Handlers))}
	for i, handler := range h.Handlers {
		copy.Handlers[i] = handler.WithAttrs(attrs)
	}
	return &copy
}

func (h *HandlerMux) WithGroup(name string) slog.Handler {
	copy := HandlerMux{make([]slog.Handler, len(h.Handlers))}
	for i, handler := range h.Handlers {
		copy.Handlers[i] = handler.WithGroup(name)
	}
	return &copy
}
