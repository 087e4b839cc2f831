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

package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/Spaces-Place/space-place-space/logging"
	"github.com/Spaces-Place/space-place-space/messaging"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/fx"
)

var Module = fx.Module("events",
	fx.Provide(
		NewPublisher,
	),
)

type Params struct {
	fx.In

	Nc     *nats.Conn `optional:"true"`
	Logger *logging.Logger
}

type Result struct {
	fx.Out

	Publisher *Publisher
}

// Publisher emits space lifecycle events. Delivery is best-effort: failures
// are logged and never reach the caller.
type Publisher struct {
	nc  *nats.Conn
	log *slog.Logger
}

func NewPublisher(p Params) Result {
	return Result{
		Publisher: &Publisher{
			nc:  p.Nc,
			log: p.Logger.GetLogger("events"),
		},
	}
}

func (p *Publisher) Publish(ctx context.Context, typ SpaceEventType, spaceID string, ownerID string, fields []string) {
	if p == nil || p.nc == nil {
		return
	}

	if fields == nil {
		fields = []string{}
	}

	ev := SpaceEvent{
		ID:        uuid.NewString(),
		Version:   CurrentVersion,
		Type:      typ,
		SpaceID:   spaceID,
		OwnerID:   ownerID,
		Fields:    fields,
		Timestamp: time.Now().UnixMilli(),
	}

	data, err := Api.Marshal(Schema, &ev)
	if err != nil {
		p.log.Error("unable to encode space event", "type", typ, "spaceId", spaceID, "error", err)
		return
	}

	err = messaging.Publish(ctx, p.nc, SpaceEventsTopic, data)
	if err != nil {
		p.log.Warn("unable to publish space event", "type", typ, "spaceId", spaceID, "error", err)
		return
	}

	p.log.Debug("published space event", "type", typ, "spaceId", spaceID, "eventId", ev.ID)
}

// Decode reads a SpaceEvent published by a Publisher.
func Decode(data []byte) (SpaceEvent, error) {
	ev := SpaceEvent{}
	err := Api.Unmarshal(Schema, data, &ev)
	return ev, err
}
