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

package gateway

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/Cyprinus12138/otelgin"
	"github.com/Spaces-Place/space-place-space/logging"
	"github.com/Spaces-Place/space-place-space/tracing"
	"github.com/gin-gonic/gin"
	sloggin "github.com/samber/slog-gin"
	"github.com/spf13/viper"
	cachecontrol "go.eigsys.de/gin-cachecontrol/v2"
	"go.uber.org/fx"
)

const ApiPrefix = "/api/v1"

var Module = fx.Module("gateway",
	fx.Provide(
		New,
	),
	fx.Invoke(func(g Gateway) {
		// required to bootstrap the Gateway
	}),
)

// GatewayHandler registers routes on the engine.
type GatewayHandler interface {
	Setup(engine *gin.Engine, apiGroup *gin.RouterGroup)
}

type Params struct {
	fx.In

	Log      *logging.Logger
	Viper    *viper.Viper
	Tracing  *tracing.Tracing
	Handlers []GatewayHandler `group:"gatewayhandlers"`
	Lc       fx.Lifecycle
}

type Result struct {
	fx.Out

	Gateway Gateway
}

type Gateway interface {
	Start() error
	Stop(ctx context.Context) error
	Handler() http.Handler
}

type gateway struct {
	log    *slog.Logger
	viper  *viper.Viper
	engine *gin.Engine
	server *http.Server
}

func New(p Params) Result {
	p.Viper.SetDefault("gateway.address", ":8080")
	p.Viper.SetDefault("gateway.mode", gin.ReleaseMode)

	gin.SetMode(p.Viper.GetString("gateway.mode"))

	g := &gateway{
		log:    p.Log.GetLogger("gateway"),
		viper:  p.Viper,
		engine: NewEngine(p.Log, p.Tracing, p.Viper.GetString("tracing.serviceName"), p.Handlers),
	}

	p.Lc.Append(fx.StartHook(g.Start))
	p.Lc.Append(fx.StopHook(g.Stop))

	return Result{Gateway: g}
}

// NewEngine builds the HTTP engine with request logging, tracing and the
// routes of all handlers.
func NewEngine(logger *logging.Logger, tr *tracing.Tracing, serviceName string, handlers []GatewayHandler) *gin.Engine {
	engine := gin.New()

	engine.Use(
		gin.Recovery(),
		otelgin.Middleware(serviceName,
			otelgin.WithTracerProvider(tr.TracerProvider),
			otelgin.WithPropagators(tr.Propagator)),
		sloggin.NewWithConfig(logger.GetLogger("http"), sloggin.Config{
			DefaultLevel:     slog.LevelInfo,
			ClientErrorLevel: slog.LevelWarn,
			ServerErrorLevel: slog.LevelError,
			WithRequestID:    true,
			WithTraceID:      true,
		}),
	)

	engine.GET("/health", cachecontrol.New(cachecontrol.NoCachePreset), getHealth)

	apiGroup := engine.Group(ApiPrefix, cachecontrol.New(cachecontrol.NoCachePreset))

	for _, handler := range handlers {
		handler.Setup(engine, apiGroup)
	}

	return engine
}

func (g *gateway) Start() error {
	address := g.viper.GetString("gateway.address")

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return err
	}

	g.server = &http.Server{
		Addr:    address,
		Handler: g.engine.Handler(),
	}

	go func(server *http.Server) {
		err := server.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			g.log.Error("HTTP Server failed", "error", err)
		}
	}(g.server)

	g.log.Info("HTTP Server listening on " + listener.Addr().String())
	return nil
}

func (g *gateway) Stop(ctx context.Context) error {
	if g.server == nil {
		return nil
	}
	err := g.server.Shutdown(ctx)
	g.server = nil
	g.log.Info("HTTP Server closed")
	return err
}

func (g *gateway) Handler() http.Handler {
	return g.engine.Handler()
}

func getHealth(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
