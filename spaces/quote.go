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
	"time"
)

const (
	quoteTimeLayout = "2006-01-02 15:04:05"
	quoteDateLayout = "2006-01-02"
)

// quote computes the price preview of a booking. Hourly spaces are charged
// for the exact duration, daily spaces for a single day. A use date, when
// given, must be the day the booking starts on.
func quote(space *Space, req QuoteRequest) (*Quote, error) {
	var useDate time.Time
	if req.UseDate != "" {
		var err error
		useDate, err = time.Parse(quoteDateLayout, req.UseDate)
		if err != nil {
			return nil, validationError("use date %q must have the form %s", req.UseDate, quoteDateLayout)
		}
	}

	if space.UsageUnit != UsageUnitTime {
		return &Quote{
			Name:        space.Name,
			TotalAmount: int64(space.UnitPrice),
			Quantity:    1,
		}, nil
	}

	start, err := time.Parse(quoteTimeLayout, req.StartTime)
	if err != nil {
		return nil, validationError("start time %q must have the form %s", req.StartTime, quoteTimeLayout)
	}
	end, err := time.Parse(quoteTimeLayout, req.EndTime)
	if err != nil {
		return nil, validationError("end time %q must have the form %s", req.EndTime, quoteTimeLayout)
	}
	if end.Before(start) {
		return nil, validationError("end time is before start time")
	}
	if !useDate.IsZero() && start.Format(quoteDateLayout) != useDate.Format(quoteDateLayout) {
		return nil, validationError("start time %q is not on use date %q", req.StartTime, req.UseDate)
	}

	hours := end.Sub(start).Hours()

	return &Quote{
		Name:        space.Name,
		TotalAmount: int64(math.Round(float64(space.UnitPrice) * hours)),
		Quantity:    hours,
	}, nil
}
