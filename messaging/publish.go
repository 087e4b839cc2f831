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

package messaging

import (
	"context"
	"errors"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel/propagation"
)

var ErrNotConnected = errors.New("messaging is not configured")

// Publish sends data on subject and carries the trace context of ctx in the
// message headers.
func Publish(ctx context.Context, nc *nats.Conn, subject string, data []byte) error {
	if nc == nil {
		return ErrNotConnected
	}

	return nc.PublishMsg(&nats.Msg{
		Subject: subject,
		Header:  injectTraceContext(ctx, make(nats.Header)),
		Data:    data,
	})
}

// ExtractTraceContext returns ctx enriched with the trace context carried by msg.
func ExtractTraceContext(ctx context.Context, msg *nats.Msg) context.Context {
	propagator := propagation.TraceContext{}
	return propagator.Extract(ctx, propagation.HeaderCarrier(msg.Header))
}

func injectTraceContext(ctx context.Context, header nats.Header) nats.Header {
	propagator := propagation.TraceContext{}
	propagator.Inject(ctx, propagation.HeaderCarrier(header))
	return header
}
