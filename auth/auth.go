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

package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Spaces-Place/space-place-space/config"
	"github.com/Spaces-Place/space-place-space/logging"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

const identityKey = "auth.identity"

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

var Module = fx.Module("auth",
	fx.Provide(
		New,
	),
)

type Params struct {
	fx.In

	Log     *logging.Logger
	Viper   *viper.Viper
	Secrets *config.Secrets
}

type Result struct {
	fx.Out

	Auth Auth
}

// Identity is the verified caller of a request.
type Identity struct {
	OwnerId string
}

// Claims are the claims carried by user tokens.
type Claims struct {
	UserId string `json:"user_id"`
	jwt.RegisteredClaims
}

type Auth interface {
	// AuthMiddleware rejects requests without a valid bearer token and
	// stores the caller identity in the context.
	AuthMiddleware() gin.HandlerFunc
	// Verify checks a raw token.
	Verify(raw string) (Identity, error)
}

type jwtAuth struct {
	log    *slog.Logger
	secret []byte
}

func New(p Params) (Result, error) {
	log := p.Log.GetLogger("auth")

	p.Viper.SetDefault("auth.disabled", false)

	if p.Viper.GetBool("auth.disabled") {
		log.Warn("AUTHENTICATION DISABLED via auth.disabled parameter!! Token signatures are not checked.")
		return Result{Auth: &noAuth{log: log}}, nil
	}

	if p.Secrets.JWTSecret == "" {
		return Result{}, errors.New("auth: token secret is not configured")
	}

	return Result{
		Auth: &jwtAuth{
			log:    log,
			secret: []byte(p.Secrets.JWTSecret),
		},
	}, nil
}

func (a *jwtAuth) Verify(raw string) (Identity, error) {
	claims := Claims{}
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())

	if errors.Is(err, jwt.ErrTokenExpired) {
		return Identity{}, ErrExpiredToken
	}
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.UserId == "" {
		return Identity{}, fmt.Errorf("%w: missing user_id claim", ErrInvalidToken)
	}

	return Identity{OwnerId: claims.UserId}, nil
}

func (a *jwtAuth) AuthMiddleware() gin.HandlerFunc {
	return middleware(a.log, a)
}

func middleware(log *slog.Logger, a Auth) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		raw, err := bearerToken(ctx.GetHeader("Authorization"))
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": err.Error()})
			return
		}

		identity, err := a.Verify(raw)
		if err != nil {
			log.Debug("rejected token", "path", ctx.FullPath(), "error", err)
			detail := "invalid token"
			if errors.Is(err, ErrExpiredToken) {
				detail = "token expired"
			}
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": detail})
			return
		}

		ctx.Set(identityKey, identity)
		ctx.Next()
	}
}

// GetIdentity returns the identity stored by AuthMiddleware.
func GetIdentity(ctx *gin.Context) (Identity, bool) {
	v, ok := ctx.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	identity, ok := v.(Identity)
	return identity, ok
}

// Sign issues a token for userId that is accepted by Verify.
func Sign(secret string, userId string, expiresAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserId: userId,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
	return token.SignedString([]byte(secret))
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrMissingToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", fmt.Errorf("%w: invalid Authorization header", ErrInvalidToken)
	}
	return token, nil
}
