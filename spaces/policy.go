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
	"context"
)

// OwnershipPolicy decides whether a caller may change a space. It is consulted
// before any mutation.
type OwnershipPolicy interface {
	Authorize(ctx context.Context, callerId string, space *Space) error
}

type ownerOnly struct{}

// OwnerOnly admits only the owner of the space.
func OwnerOnly() OwnershipPolicy {
	return ownerOnly{}
}

func (ownerOnly) Authorize(ctx context.Context, callerId string, space *Space) error {
	if callerId == "" || callerId != space.OwnerId {
		return ErrForbidden
	}
	return nil
}
