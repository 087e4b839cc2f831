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
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"
)

const LogTopic = "spaceplace.log"

type natsSource interface {
	natsConn() *nats.Conn
}

func (l *Logger) natsConn() *nats.Conn {
	return l.nc.Load()
}

// NatsHandler publishes records as JSON documents on LogTopic, so that a central
// log viewer can follow all instances of the service.
type NatsHandler struct {
	source natsSource
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
}

func NewNatsHandler(source natsSource, level slog.Leveler) *NatsHandler {
	return &NatsHandler{
		source: source,
		level:  level,
		attrs:  make([]slog.Attr, 0),
		groups: make([]string, 0),
	}
}

// implements slog.Handler
var _ slog.Handler = &NatsHandler{}

func (h *NatsHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.source.natsConn() != nil && level >= h.level.Level()
}

func (h *NatsHandler) Handle(ctx context.Context, r slog.Record) error {
	nc := h.source.natsConn()
	if nc == nil {
		return nil
	}

	m := make(map[string]any)
	m["time"] = r.Time
	m["level"] = r.Level.String()
	m["msg"] = r.Message

	makeGroup(nil, h.attrs, m)

	recordAttrs := make([]slog.Attr, 0, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		recordAttrs = append(recordAttrs, a)
		return true
	})
	makeGroup(h.groups, recordAttrs, m)

	j, err := json.Marshal(m)
	if err != nil {
		return err
	}

	return nc.Publish(LogTopic, j)
}

func (h *NatsHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	copy := *h
	copy.attrs = append(clone(h.attrs), attrs...)
	return &copy
}

func (h *NatsHandler) WithGroup(name string) slog.Handler {
	copy := *h
	copy.groups = append(clone(h.groups), name)
	return &copy
}

func makeGroup(groups []string, attrs []slog.Attr, m map[string]any) {
	current := m
	for _, group := range groups {
		next, ok := current[group].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[group] = next
		}
		current = next
	}

	for _, attr := range attrs {
		key := attr.Key
		value := attr.Value.Resolve()

		if value.Kind() == slog.KindGroup {
			makeGroup([]string{key}, value.Group(), current)
		} else if e, ok := value.Any().(error); ok {
			current[key] = e.Error()
		} else {
			current[key] = value.Any()
		}
	}
}
