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

package logging_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/Spaces-Place/space-place-space/logging"
	"github.com/fatih/color"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextLoggerAddsComponent(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := logging.NewWithWriter(buf)

	logger.GetLogger("spaces").Info("space created", "spaceId", "abc")

	assert.Contains(t, buf.String(), "component=spaces")
	assert.Contains(t, buf.String(), "spaceId=abc")
	assert.Contains(t, buf.String(), "msg=\"space created\"")
}

func TestLevelIsShared(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := logging.NewWithWriter(buf)
	log := logger.GetLogger("spaces")

	log.Debug("hidden")
	assert.Empty(t, buf.String())

	logger.SetLevel(slog.LevelDebug)
	log.Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestConsoleHandler(t *testing.T) {
	color.NoColor = true

	buf := &bytes.Buffer{}
	logger := logging.NewWithWriter(buf)
	logger.SetConsole(true)

	logger.GetLogger("objectstore").Warn("delete failed", "key", "o/s/0.png", "error", errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, "WARN objectstore delete failed key=o/s/0.png\n")
	assert.Contains(t, out, "ERR boom\n")
}

func TestConsoleHandlerGroups(t *testing.T) {
	color.NoColor = true

	buf := &bytes.Buffer{}
	handler := logging.NewConsoleHandler(buf, slog.LevelInfo)
	slog.New(handler).WithGroup("req").Info("done", "status", 200)

	assert.Contains(t, buf.String(), "INFO done req.status=200")
}

func TestHandlerMuxSkipsDisabledHandlers(t *testing.T) {
	infoBuf := &bytes.Buffer{}
	errorBuf := &bytes.Buffer{}
	mux := logging.NewHandlerMux(
		slog.NewTextHandler(infoBuf, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewTextHandler(errorBuf, &slog.HandlerOptions{Level: slog.LevelError}),
	)

	log := slog.New(mux)
	log.Info("info message")
	log.Error("error message")

	assert.Contains(t, infoBuf.String(), "info message")
	assert.Contains(t, infoBuf.String(), "error message")
	assert.NotContains(t, errorBuf.String(), "info message")
	assert.Contains(t, errorBuf.String(), "error message")
}

func TestNatsHandlerPublishes(t *testing.T) {
	natsServer, err := server.NewServer(&server.Options{Port: server.RANDOM_PORT})
	require.NoError(t, err)
	natsServer.Start()
	defer natsServer.Shutdown()
	require.True(t, natsServer.ReadyForConnections(5*time.Second))

	nc, err := nats.Connect(natsServer.ClientURL())
	require.NoError(t, err)
	defer nc.Close()

	sub, err := nc.SubscribeSync(logging.LogTopic)
	require.NoError(t, err)
	require.NoError(t, nc.Flush())

	logger := logging.NewWithWriter(&bytes.Buffer{})
	logger.SetNats(nc)
	logger.GetLogger("spaces").Error("upload failed", "error", errors.New("timeout"))

	msg, err := sub.NextMsg(5 * time.Second)
	require.NoError(t, err)

	record := map[string]any{}
	require.NoError(t, json.Unmarshal(msg.Data, &record))
	assert.Equal(t, "upload failed", record["msg"])
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "spaces", record["component"])
	assert.Equal(t, "timeout", record["error"])
}
