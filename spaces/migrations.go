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

package spaces

import (
	"embed"

	"github.com/Spaces-Place/space-place-space/config"
	"github.com/Spaces-Place/space-place-space/mongodb"
)

//go:embed migrations/*.json
var migrations embed.FS

// Migrations is provided once the indexes of the spaces collection exist.
type Migrations struct{}

func NewMigrations(secrets *config.Secrets) (Migrations, error) {
	err := mongodb.ApplyMigrations(migrations, secrets)

	return Migrations{}, err
}
