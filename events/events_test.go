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

package events_test

import (
	"context"
	"testing"
	"time"

	"github.com/Spaces-Place/space-place-space/events"
	"github.com/Spaces-Place/space-place-space/logging"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpaceEvent(t *testing.T) {
	input := events.SpaceEvent{
		ID:        "abc",
		Version:   events.CurrentVersion,
		Type:      events.SpaceUpdated,
		SpaceID:   "6650a1f2c3d4e5f601234567",
		OwnerID:   "vendor-1",
		Fields:    []string{"capacity", "images"},
		Timestamp: time.Now().UnixMilli(),
	}

	data, err := events.Api.Marshal(events.Schema, &input)
	require.NoError(t, err)

	output, err := events.Decode(data)
	require.NoError(t, err)

	assert.Equal(t, input, output)
}

func TestPublishWithoutConnection(t *testing.T) {
	res := events.NewPublisher(events.Params{Logger: logging.New()})

	assert.NotPanics(t, func() {
		res.Publisher.Publish(context.Background(), events.SpaceCreated, "id", "owner", nil)
	})
}

func TestPublish(t *testing.T) {
	srv, err := server.NewServer(&server.Options{Port: server.RANDOM_PORT})
	require.NoError(t, err)
	srv.Start()
	defer srv.Shutdown()
	require.True(t, srv.ReadyForConnections(5*time.Second))

	nc, err := nats.Connect(srv.ClientURL())
	require.NoError(t, err)
	defer nc.Close()

	sub, err := nc.SubscribeSync(events.SpaceEventsTopic)
	require.NoError(t, err)

	res := events.NewPublisher(events.Params{Nc: nc, Logger: logging.New()})
	res.Publisher.Publish(context.Background(), events.SpaceDeleted, "space-1", "owner-1", nil)

	msg, err := sub.NextMsg(5 * time.Second)
	require.NoError(t, err)

	ev, err := events.Decode(msg.Data)
	require.NoError(t, err)

	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, events.SpaceDeleted, ev.Type)
	assert.Equal(t, "space-1", ev.SpaceID)
	assert.Equal(t, "owner-1", ev.OwnerID)
	assert.Empty(t, ev.Fields)
	assert.Equal(t, events.CurrentVersion, ev.Version)
}
