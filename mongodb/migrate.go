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
	"errors"
	"fmt"
	"io/fs"

	"github.com/Spaces-Place/space-place-space/config"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mongodb"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// ApplyMigrations runs all pending JSON command migrations found in the
// "migrations" directory of fsys against the service database.
func ApplyMigrations(fsys fs.FS, secrets *config.Secrets) error {
	d, err := iofs.New(fsys, "migrations")
	if err != nil {
		return err
	}

	uri, err := ConnectionString(secrets)
	if err != nil {
		return err
	}
	uri, err = WithDatabase(uri, secrets.MongoDB)
	if err != nil {
		return err
	}

	mig, err := migrate.NewWithSourceInstance("iofs", d, uri)
	if err != nil {
		return fmt.Errorf("While preparing migrations: %w", err)
	}
	defer mig.Close()

	err = mig.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("While applying migrations: %w", err)
	}

	return nil
}
