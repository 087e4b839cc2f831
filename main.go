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

package main

import (
	"github.com/Spaces-Place/space-place-space/auth"
	"github.com/Spaces-Place/space-place-space/config"
	"github.com/Spaces-Place/space-place-space/events"
	"github.com/Spaces-Place/space-place-space/gateway"
	"github.com/Spaces-Place/space-place-space/gateway/spaceapi"
	"github.com/Spaces-Place/space-place-space/logging"
	"github.com/Spaces-Place/space-place-space/messaging"
	"github.com/Spaces-Place/space-place-space/mongodb"
	"github.com/Spaces-Place/space-place-space/objectstore"
	"github.com/Spaces-Place/space-place-space/spaces"
	"github.com/Spaces-Place/space-place-space/tracing"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		logging.Module,
		config.Module,
		tracing.Module,
		messaging.Module,
		mongodb.Module,
		objectstore.Module,
		events.Module,
		auth.Module,
		spaces.Module,
		gateway.Module,
		spaceapi.Module,
		logging.FxLogger(),
	).Run()
}
