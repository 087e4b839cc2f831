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

package events

const SpaceEventsTopic = "spaceplace.spaces.events"

const CurrentVersion = 1

type SpaceEventType string

const (
	SpaceCreated SpaceEventType = "CREATED"
	SpaceUpdated SpaceEventType = "UPDATED"
	SpaceDeleted SpaceEventType = "DELETED"
)

type SpaceEvent struct {
	ID      string         `avro:"id"`
	Version int            `avro:"version"`
	Type    SpaceEventType `avro:"type"`
	SpaceID string         `avro:"space_id"`
	OwnerID string         `avro:"owner_id"`
	// Fields names the document fields written by the change.
	Fields []string `avro:"fields"`
	// Timestamp in unix milliseconds.
	Timestamp int64 `avro:"timestamp"`
}
