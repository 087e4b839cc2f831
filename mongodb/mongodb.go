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

package mongodb

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/Spaces-Place/space-place-space/config"
	"github.com/Spaces-Place/space-place-space/entities"
	"github.com/Spaces-Place/space-place-space/tracing"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"
	"go.uber.org/fx"
)

const defaultPort = "27017"

var Module = fx.Module("mongodb",
	fx.Provide(
		NewClient,
		NewDb,
	),
)

type ClientParams struct {
	fx.In

	Secrets *config.Secrets
	Tracing *tracing.Tracing
	Lc      fx.Lifecycle
}

type ClientResult struct {
	fx.Out

	Client *mongo.Client
}

func getCustomRegistry() *bsoncodec.Registry {
	r := bson.NewRegistry()

	entities.RegisterEncoders(r)

	return r
}

func NewClient(p ClientParams) (ClientResult, error) {
	uri, err := ConnectionString(p.Secrets)
	if err != nil {
		return ClientResult{}, err
	}

	opts := options.Client().
		ApplyURI(uri).
		SetRegistry(getCustomRegistry()).
		SetMonitor(otelmongo.NewMonitor(otelmongo.WithTracerProvider(p.Tracing.TracerProvider)))

	client, err := mongo.Connect(context.Background(), opts)
	if err != nil {
		return ClientResult{}, fmt.Errorf("While connecting to the database: %w", err)
	}

	p.Lc.Append(fx.StartHook(func(ctx context.Context) error {
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			return fmt.Errorf("While connecting to the database: %w", err)
		}
		return nil
	}))
	p.Lc.Append(fx.StopHook(func(ctx context.Context) error {
		return client.Disconnect(ctx)
	}))

	return ClientResult{
		Client: client,
	}, nil
}

type DbParams struct {
	fx.In

	Secrets *config.Secrets
	Client  *mongo.Client
}

type DbResult struct {
	fx.Out

	Db *mongo.Database
}

func NewDb(p DbParams) DbResult {
	return DbResult{
		Db: p.Client.Database(p.Secrets.MongoDB),
	}
}

// ConnectionString builds the connection URI. Without a password MongoHost is
// used as a complete URI, otherwise it is a host name and the credentials are
// authenticated against the service database.
func ConnectionString(s *config.Secrets) (string, error) {
	if s.MongoPassword == "" {
		return s.MongoHost, nil
	}

	host := strings.TrimPrefix(s.MongoHost, "mongodb://")
	host = strings.TrimSuffix(host, "/")
	if host == "" {
		return "", fmt.Errorf("invalid database host %q", s.MongoHost)
	}
	if !strings.Contains(host, ":") {
		host = host + ":" + defaultPort
	}

	u := url.URL{
		Scheme: "mongodb",
		User:   url.UserPassword(s.MongoUser, s.MongoPassword),
		Host:   host,
		Path:   "/" + s.MongoDB,
	}
	return u.String(), nil
}

// WithDatabase returns uri with its path replaced by dbName.
func WithDatabase(uri string, dbName string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("invalid database uri: %w", err)
	}
	u.Path = "/" + dbName
	return u.String(), nil
}
