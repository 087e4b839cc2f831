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

package objectstore

import (
	"context"
	"encoding/hex"
	"fmt"
	"mime"
	"path"
	"strings"

	"github.com/Spaces-Place/space-place-space/config"
	"github.com/Spaces-Place/space-place-space/logging"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/gabriel-vasile/mimetype"
	"github.com/kalafut/imohash"
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

const (
	DriverS3     = "s3"
	DriverMemory = "memory"

	// ChecksumKey is the object metadata entry holding the content checksum.
	ChecksumKey = "checksum"
)

var Module = fx.Module("objectstore",
	fx.Provide(
		NewStore,
	),
)

// Store holds binary objects addressed by slash separated keys.
type Store interface {
	// Put stores data at key. When the object at key already carries the same
	// content checksum the upload is skipped.
	Put(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	// List returns the keys of all objects below prefix.
	List(ctx context.Context, prefix string) ([]string, error)
	// URL returns the public address of key.
	URL(key string) string
}

type Params struct {
	fx.In

	Viper   *viper.Viper
	Secrets *config.Secrets
	Aws     aws.Config
	Logger  *logging.Logger
}

type Result struct {
	fx.Out

	Store Store
}

func NewStore(p Params) (Result, error) {
	log := p.Logger.GetLogger("objectstore")

	p.Viper.SetDefault("objectstore.driver", DriverS3)
	p.Viper.SetDefault("objectstore.acl", "public-read")
	p.Viper.SetDefault("objectstore.endpoint", "")
	p.Viper.SetDefault("objectstore.publicBaseURL", "")

	baseURL := p.Viper.GetString("objectstore.publicBaseURL")

	switch driver := p.Viper.GetString("objectstore.driver"); driver {
	case DriverS3:
		if baseURL == "" {
			baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", p.Secrets.BucketName, p.Aws.Region)
		}
		log.Info("using s3 object store", "bucket", p.Secrets.BucketName, "baseURL", baseURL)
		return Result{
			Store: NewS3Store(p.Aws, S3Options{
				Bucket:   p.Secrets.BucketName,
				Endpoint: p.Viper.GetString("objectstore.endpoint"),
				ACL:      p.Viper.GetString("objectstore.acl"),
				BaseURL:  baseURL,
			}),
		}, nil
	case DriverMemory:
		if baseURL == "" {
			baseURL = "memory://" + p.Secrets.BucketName
		}
		log.Warn("using in-memory object store, uploaded objects are not persisted")
		return Result{Store: NewMemoryStore(baseURL)}, nil
	default:
		return Result{}, fmt.Errorf("unknown object store driver %q", driver)
	}
}

// Checksum returns the content hash recorded with every stored object.
func Checksum(data []byte) string {
	sum := imohash.Sum(data)
	return hex.EncodeToString(sum[:])
}

// ContentType guesses the media type of an object from its key, falling back
// to content sniffing.
func ContentType(key string, data []byte) string {
	if typ := mime.TypeByExtension(strings.ToLower(path.Ext(key))); typ != "" {
		return typ
	}
	return mimetype.Detect(data).String()
}

func joinURL(base string, key string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(key, "/")
}
