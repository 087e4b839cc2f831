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
	"github.com/Spaces-Place/space-place-space/logging"
	"github.com/nats-io/nats.go"
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

var Module = fx.Module("messaging",
	fx.Provide(
		NewNats,
	),
	fx.Invoke(func(logger *logging.Logger, nc *nats.Conn) {
		if nc != nil {
			logger.SetNats(nc)
		}
	}),
)

type Params struct {
	fx.In

	Viper  *viper.Viper
	Logger *logging.Logger
	Lc     fx.Lifecycle
}

// NewNats connects to the message broker. With messaging.disabled the
// connection is nil and every consumer has to treat that as "not configured".
func NewNats(p Params) (*nats.Conn, error) {
	log := p.Logger.GetLogger("messaging")

	p.Viper.SetDefault("messaging.disabled", false)
	p.Viper.SetDefault("messaging.url", nats.DefaultURL)

	if p.Viper.GetBool("messaging.disabled") {
		log.Warn("messaging disabled, lifecycle events will not be published")
		return nil, nil
	}

	closeChan := make(chan bool)
	conn, err := nats.Connect(p.Viper.GetString("messaging.url"),
		nats.Name("space-place-space"),
		// events are best effort; a missing broker must not stop the service
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ConnectHandler(func(nc *nats.Conn) {
			log.Info("connected to message broker", "url", nc.ConnectedUrl())
		}),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				log.Warn("disconnected from message broker", "error", err)
			}
		}),
		nats.ClosedHandler(func(*nats.Conn) {
			close(closeChan)
		}))

	if err == nil {
		p.Lc.Append(fx.StopHook(func() {
			p.Logger.SetNats(nil)
			if err := conn.Drain(); err != nil {
				// never connected, nothing to drain
				conn.Close()
				return
			}
			<-closeChan
		}))
	}

	return conn, err
}
