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
	"math"
	"slices"
)

func validateLocation(loc Location) error {
	if loc.Point.Type != "Point" || len(loc.Point.Coordinates) != 2 {
		return validationError("location must be a point with [longitude, latitude] coordinates")
	}
	return validateCoordinates(loc.Point.Longitude(), loc.Point.Latitude())
}

func validateCoordinates(longitude float64, latitude float64) error {
	if math.IsNaN(longitude) || math.IsNaN(latitude) {
		return validationError("coordinates must be numbers")
	}
	if longitude < -180 || longitude > 180 {
		return validationError("longitude %v out of range", longitude)
	}
	if latitude < -90 || latitude > 90 {
		return validationError("latitude %v out of range", latitude)
	}
	return nil
}

func validateOperatingHours(hours []OperatingHour) error {
	for _, h := range hours {
		if !h.Day.Valid() {
			return validationError("unknown day of week %q", h.Day)
		}
	}
	return nil
}

func validatePricing(capacity int, unit UsageUnit, price int) error {
	if capacity <= 0 {
		return validationError("capacity must be positive")
	}
	if !unit.Valid() {
		return validationError("unknown usage unit %q", unit)
	}
	if price <= 0 {
		return validationError("unit price must be positive")
	}
	return nil
}

func (in *SpaceInput) validate() error {
	if in.Name == "" {
		return validationError("space name is required")
	}
	if !in.SpaceType.Valid() {
		return validationError("unknown space type %q", in.SpaceType)
	}
	if in.Size <= 0 {
		return validationError("space size must be positive")
	}
	if err := validatePricing(in.Capacity, in.UsageUnit, in.UnitPrice); err != nil {
		return err
	}
	if err := validateLocation(in.Location); err != nil {
		return err
	}
	return validateOperatingHours(in.OperatingHours)
}

func (in *UpdateInput) validate() error {
	if err := validatePricing(in.Capacity, in.UsageUnit, in.UnitPrice); err != nil {
		return err
	}
	return validateOperatingHours(in.OperatingHours)
}

// dedupe drops repeated amenities, keeping the first occurrence.
func dedupe(values []string) []string {
	ret := make([]string, 0, len(values))
	for _, v := range values {
		if !slices.Contains(ret, v) {
			ret = append(ret, v)
		}
	}
	return ret
}

func nonNil[T any](values []T) []T {
	if values == nil {
		return []T{}
	}
	return values
}
