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

package spaceapi

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/Spaces-Place/space-place-space/auth"
	"github.com/Spaces-Place/space-place-space/gateway"
	"github.com/Spaces-Place/space-place-space/logging"
	"github.com/Spaces-Place/space-place-space/spaces"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/fx"
)

const (
	defaultLimit  = 10
	maxLimit      = 100
	defaultRadius = 1.0
)

var Module = fx.Module("spaceapi",
	fx.Provide(
		New,
	),
)

// SpaceService is the part of the space manager used by the HTTP layer.
type SpaceService interface {
	Create(ctx context.Context, ownerId string, in spaces.SpaceInput, images []spaces.ImageUpload) (primitive.ObjectID, error)
	Get(ctx context.Context, spaceId string) (*spaces.SpaceDetail, error)
	List(ctx context.Context, q spaces.ListQuery) ([]spaces.SpaceSummary, error)
	Update(ctx context.Context, callerId string, spaceId string, in spaces.UpdateInput, images []spaces.ImageUpload) error
	Delete(ctx context.Context, callerId string, spaceId string) error
	Nearby(ctx context.Context, q spaces.NearbyQuery) ([]spaces.SpaceSummary, error)
	Quote(ctx context.Context, req spaces.QuoteRequest) (*spaces.Quote, error)
}

var _ SpaceService = (*spaces.Manager)(nil)

type Params struct {
	fx.In

	Log     *logging.Logger
	Viper   *viper.Viper
	Auth    auth.Auth
	Manager *spaces.Manager
}

type Result struct {
	fx.Out

	Handler gateway.GatewayHandler `group:"gatewayhandlers"`
}

type spacesHandler struct {
	log          *slog.Logger
	auth         auth.Auth
	spaces       SpaceService
	exposeErrors bool
}

func New(p Params) Result {
	p.Viper.SetDefault("gateway.exposeErrors", false)

	return Result{
		Handler: NewHandler(p.Log, p.Auth, p.Manager, p.Viper.GetBool("gateway.exposeErrors")),
	}
}

func NewHandler(log *logging.Logger, a auth.Auth, service SpaceService, exposeErrors bool) gateway.GatewayHandler {
	return &spacesHandler{
		log:          log.GetLogger("spaceapi"),
		auth:         a,
		spaces:       service,
		exposeErrors: exposeErrors,
	}
}

type messageResponse struct {
	Message string `json:"message"`
}

type createResponse struct {
	Message string `json:"message"`
	SpaceId string `json:"space_id"`
}

type detailResponse struct {
	Message string `json:"message"`
	*spaces.SpaceDetail
}

func (h *spacesHandler) Setup(app *gin.Engine, apiGroup *gin.RouterGroup) {
	group := apiGroup.Group("/spaces")

	group.GET("", h.list)
	group.GET("/nearby", h.nearby)
	group.GET("/:spaceId", h.get)

	authenticated := group.Group("", h.auth.AuthMiddleware())
	authenticated.POST("", h.create)
	authenticated.POST("/pre-order", h.quote)
	authenticated.PUT("/:spaceId", h.update)
	authenticated.DELETE("/:spaceId", h.delete)
}

func (h *spacesHandler) create(ctx *gin.Context) {
	identity, _ := auth.GetIdentity(ctx)

	form, err := ctx.MultipartForm()
	if err != nil {
		h.respondError(ctx, badRequest("invalid multipart form: %v", err))
		return
	}

	ownerId, in, err := parseCreateForm(form)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	if ownerId != identity.OwnerId {
		h.respondError(ctx, spaces.ErrForbidden)
		return
	}

	images, err := readImages(form)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	id, err := h.spaces.Create(ctx.Request.Context(), identity.OwnerId, in, images)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, createResponse{
		Message: "space created",
		SpaceId: id.Hex(),
	})
}

func (h *spacesHandler) list(ctx *gin.Context) {
	q := spaces.ListQuery{Sido: ctx.Query("sido")}

	skip, err := queryInt(ctx, "skip", 0)
	if err != nil || skip < 0 {
		h.respondError(ctx, badRequest("skip must be a non-negative integer"))
		return
	}
	limit, err := queryInt(ctx, "limit", defaultLimit)
	if err != nil || limit < 1 || limit > maxLimit {
		h.respondError(ctx, badRequest("limit must be between 1 and %d", maxLimit))
		return
	}
	q.Skip = skip
	q.Limit = limit

	if st := ctx.Query("space_type"); st != "" {
		if err := q.SpaceType.UnmarshalText([]byte(st)); err != nil {
			h.respondError(ctx, err)
			return
		}
	}

	found, err := h.spaces.List(ctx.Request.Context(), q)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, found)
}

func (h *spacesHandler) get(ctx *gin.Context) {
	detail, err := h.spaces.Get(ctx.Request.Context(), ctx.Param("spaceId"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, detailResponse{
		Message:     "space found",
		SpaceDetail: detail,
	})
}

func (h *spacesHandler) update(ctx *gin.Context) {
	identity, _ := auth.GetIdentity(ctx)

	form, err := ctx.MultipartForm()
	if err != nil {
		h.respondError(ctx, badRequest("invalid multipart form: %v", err))
		return
	}

	in, err := parseUpdateForm(form)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	images, err := readImages(form)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	err = h.spaces.Update(ctx.Request.Context(), identity.OwnerId, ctx.Param("spaceId"), in, images)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, messageResponse{Message: "space updated"})
}

func (h *spacesHandler) delete(ctx *gin.Context) {
	identity, _ := auth.GetIdentity(ctx)

	err := h.spaces.Delete(ctx.Request.Context(), identity.OwnerId, ctx.Param("spaceId"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, messageResponse{Message: "space deleted"})
}

func (h *spacesHandler) nearby(ctx *gin.Context) {
	longitude, err := queryFloat(ctx, "longitude")
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	latitude, err := queryFloat(ctx, "latitude")
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	radius := defaultRadius
	if ctx.Query("radius") != "" {
		radius, err = queryFloat(ctx, "radius")
		if err != nil {
			h.respondError(ctx, err)
			return
		}
	}

	found, err := h.spaces.Nearby(ctx.Request.Context(), spaces.NearbyQuery{
		Longitude: longitude,
		Latitude:  latitude,
		RadiusKm:  radius,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, found)
}

func (h *spacesHandler) quote(ctx *gin.Context) {
	req := spaces.QuoteRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.respondError(ctx, badRequest("invalid request body: %v", err))
		return
	}
	if req.SpaceId == "" {
		h.respondError(ctx, badRequest("space_id is required"))
		return
	}

	q, err := h.spaces.Quote(ctx.Request.Context(), req)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, q)
}

func queryInt(ctx *gin.Context, key string, def int64) (int64, error) {
	v := ctx.Query(key)
	if v == "" {
		return def, nil
	}
	return strconv.ParseInt(v, 10, 64)
}

// queryFloat parses a finite number.
func queryFloat(ctx *gin.Context, key string) (float64, error) {
	f, err := strconv.ParseFloat(ctx.Query(key), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, badRequest("%s must be a number", key)
	}
	return f, nil
}

// statusFor maps manager errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, spaces.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, spaces.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, spaces.ErrForbidden):
		return http.StatusUnauthorized
	case errors.Is(err, spaces.ErrConnectivity):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *spacesHandler) respondError(ctx *gin.Context, err error) {
	status := statusFor(err)
	detail := err.Error()

	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", "path", ctx.FullPath(), "status", status, "error", err)
		if !h.exposeErrors {
			switch {
			case errors.Is(err, spaces.ErrUpload):
				detail = spaces.ErrUpload.Error()
			case errors.Is(err, spaces.ErrConnectivity):
				detail = spaces.ErrConnectivity.Error()
			default:
				detail = "internal server error"
			}
		}
	}

	ctx.AbortWithStatusJSON(status, gin.H{"detail": detail})
}
