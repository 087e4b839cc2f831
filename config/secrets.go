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

package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/Spaces-Place/space-place-space/logging"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

const (
	SecretsSourceEnv = "env"
	SecretsSourceSSM = "ssm"
)

// Secrets holds the environment specific values that are resolved once at startup.
type Secrets struct {
	MongoHost     string
	MongoDB       string
	MongoUser     string
	MongoPassword string
	JWTSecret     string
	BucketName    string
}

// ParameterStore is a remote source of (encrypted) configuration values.
type ParameterStore interface {
	GetParameter(ctx context.Context, name string) (string, error)
}

// ErrParameterNotFound is returned by a ParameterStore for unknown names.
var ErrParameterNotFound = errors.New("parameter not found")

type SecretsParams struct {
	fx.In

	Viper  *viper.Viper
	Aws    aws.Config
	Logger *logging.Logger
}

type SecretsResult struct {
	fx.Out

	Secrets *Secrets
}

type secretSpec struct {
	key       string
	parameter string
	required  bool
	target    func(*Secrets) *string
}

func secretSpecs(v *viper.Viper) []secretSpec {
	return []secretSpec{
		{"mongo.host", "SPACE_DB_HOST", true, func(s *Secrets) *string { return &s.MongoHost }},
		{"mongo.db", "SPACE_DB_NAME", true, func(s *Secrets) *string { return &s.MongoDB }},
		{"mongo.user", "SPACE_DB_USER", false, func(s *Secrets) *string { return &s.MongoUser }},
		{"mongo.password", "SPACE_DB_PASSWORD", false, func(s *Secrets) *string { return &s.MongoPassword }},
		{"auth.jwtSecret", "USER_JWT_SECRET", !v.GetBool("auth.disabled"), func(s *Secrets) *string { return &s.JWTSecret }},
		{"objectstore.bucket", "SPACE_S3_BUCKET_NAME", true, func(s *Secrets) *string { return &s.BucketName }},
	}
}

func NewSecrets(p SecretsParams) (SecretsResult, error) {
	log := p.Logger.GetLogger("secrets")

	p.Viper.SetDefault("secrets.source", SecretsSourceEnv)
	p.Viper.SetDefault("mongo.host", "mongodb://localhost:27017/")
	p.Viper.SetDefault("mongo.db", "space-place")
	p.Viper.SetDefault("objectstore.bucket", "space-place-bucket")
	p.Viper.SetDefault("auth.disabled", false)

	var store ParameterStore
	switch source := p.Viper.GetString("secrets.source"); source {
	case SecretsSourceEnv:
	case SecretsSourceSSM:
		store = NewSSMStore(ssm.NewFromConfig(p.Aws))
	default:
		return SecretsResult{}, fmt.Errorf("invalid secrets.source %q", source)
	}

	secrets, err := ResolveSecrets(context.Background(), p.Viper, store)
	if err != nil {
		return SecretsResult{}, err
	}

	log.Info("resolved secrets", "source", p.Viper.GetString("secrets.source"), "db", secrets.MongoDB, "bucket", secrets.BucketName)

	return SecretsResult{Secrets: secrets}, nil
}

// ResolveSecrets reads every secret from the parameter store, or from viper when
// store is nil. Parameter names can be overridden with "secrets.parameters.<key>".
func ResolveSecrets(ctx context.Context, v *viper.Viper, store ParameterStore) (*Secrets, error) {
	secrets := &Secrets{}

	for _, spec := range secretSpecs(v) {
		var value string
		if store == nil {
			value = v.GetString(spec.key)
		} else {
			name := v.GetString("secrets.parameters." + spec.key)
			if name == "" {
				name = spec.parameter
			}
			var err error
			value, err = store.GetParameter(ctx, name)
			if errors.Is(err, ErrParameterNotFound) && !spec.required {
				err = nil
			}
			if err != nil {
				return nil, fmt.Errorf("While resolving secret %s: %w", spec.key, err)
			}
		}

		if value == "" && spec.required {
			return nil, fmt.Errorf("missing required secret %s", spec.key)
		}
		*spec.target(secrets) = value
	}

	return secrets, nil
}

type ssmStore struct {
	client *ssm.Client
}

func NewSSMStore(client *ssm.Client) ParameterStore {
	return &ssmStore{client}
}

func (s *ssmStore) GetParameter(ctx context.Context, name string) (string, error) {
	out, err := s.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		var notFound *ssmtypes.ParameterNotFound
		if errors.As(err, &notFound) {
			return "", fmt.Errorf("%s: %w", name, ErrParameterNotFound)
		}
		return "", fmt.Errorf("While reading parameter %s: %w", name, err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return "", fmt.Errorf("%s: %w", name, ErrParameterNotFound)
	}
	return *out.Parameter.Value, nil
}
