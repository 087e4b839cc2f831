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
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Spaces-Place/space-place-space/logging"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

type AWSParams struct {
	fx.In

	Viper  *viper.Viper
	Logger *logging.Logger
}

type AWSResult struct {
	fx.Out

	Aws aws.Config
}

// NewAWS loads the AWS client configuration shared by the object store and the
// parameter store. Static keys come from configuration in development and from
// the mounted secret volume in production; otherwise the SDK default chain applies.
func NewAWS(p AWSParams) (AWSResult, error) {
	log := p.Logger.GetLogger("aws")

	p.Viper.SetDefault("aws.region", "ap-northeast-2")
	p.Viper.SetDefault("aws.credentialsDir", "/etc/secret-volume")

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(p.Viper.GetString("aws.region")),
	}

	accessKey, secretKey, err := readStaticCredentials(p.Viper)
	if err != nil {
		return AWSResult{}, err
	}
	if accessKey != "" {
		log.Info("using static AWS credentials")
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")))
	} else {
		log.Info("using default AWS credential chain")
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return AWSResult{}, fmt.Errorf("While loading AWS configuration: %w", err)
	}

	return AWSResult{Aws: cfg}, nil
}

func readStaticCredentials(v *viper.Viper) (string, string, error) {
	if accessKey := v.GetString("aws.accessKey"); accessKey != "" {
		return accessKey, v.GetString("aws.secretKey"), nil
	}

	dir := v.GetString("aws.credentialsDir")
	if dir == "" {
		return "", "", nil
	}

	access, err := os.ReadFile(filepath.Join(dir, "access"))
	if errors.Is(err, fs.ErrNotExist) {
		return "", "", nil
	}
	if err != nil {
		return "", "", fmt.Errorf("While reading AWS access key: %w", err)
	}
	secret, err := os.ReadFile(filepath.Join(dir, "secret"))
	if err != nil {
		return "", "", fmt.Errorf("While reading AWS secret key: %w", err)
	}

	return strings.TrimSpace(string(access)), strings.TrimSpace(string(secret)), nil
}
