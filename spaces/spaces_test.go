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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() SpaceInput {
	return SpaceInput{
		SpaceType: SpaceTypeStudio,
		Name:      "studio",
		Capacity:  4,
		Size:      30,
		UsageUnit: UsageUnitTime,
		UnitPrice: 10000,
		Location: Location{
			Sido:    "서울특별시",
			Address: "somewhere",
			Point:   NewPoint(127.0, 37.5),
		},
		OperatingHours: []OperatingHour{{Day: Monday, Open: "09:00", Close: "18:00"}},
	}
}

func TestImageExtension(t *testing.T) {
	for _, name := range []string{"a.png", "a.jpg", "a.jpeg", "a.gif", "a.bmp", "A.PNG", "b.JpEg", "dir.x/c.bmp"} {
		ext, err := imageExtension(name)
		assert.NoError(t, err, name)
		assert.NotEmpty(t, ext)
	}

	ext, err := imageExtension("Photo.JPG")
	require.NoError(t, err)
	assert.Equal(t, ".JPG", ext)

	for _, name := range []string{"a.txt", "png", "a.png.exe", "", "a.", "a.webp"} {
		_, err := imageExtension(name)
		assert.ErrorIs(t, err, ErrValidation, name)
	}
}

func TestImageKey(t *testing.T) {
	assert.Equal(t, "owner/space/0.png", imageKey("owner", "space", imageFilename(0, ".png")))
	assert.Equal(t, "owner/space/", spacePrefix("owner", "space"))
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []string{"wifi", "parking", "tv"}, dedupe([]string{"wifi", "parking", "wifi", "tv", "parking"}))
	assert.Equal(t, []string{}, dedupe(nil))
}

func TestValidateInput(t *testing.T) {
	in := validInput()
	assert.NoError(t, in.validate())

	cases := map[string]func(*SpaceInput){
		"no name":        func(in *SpaceInput) { in.Name = "" },
		"space type":     func(in *SpaceInput) { in.SpaceType = "CASTLE" },
		"capacity":       func(in *SpaceInput) { in.Capacity = 0 },
		"size":           func(in *SpaceInput) { in.Size = -1 },
		"usage unit":     func(in *SpaceInput) { in.UsageUnit = "WEEK" },
		"price":          func(in *SpaceInput) { in.UnitPrice = 0 },
		"longitude":      func(in *SpaceInput) { in.Location.Point = NewPoint(180.5, 37) },
		"latitude":       func(in *SpaceInput) { in.Location.Point = NewPoint(127, -90.1) },
		"point type":     func(in *SpaceInput) { in.Location.Point.Type = "Polygon" },
		"coordinates":    func(in *SpaceInput) { in.Location.Point.Coordinates = []float64{127} },
		"operating hour": func(in *SpaceInput) { in.OperatingHours = []OperatingHour{{Day: "FUNDAY"}} },
	}
	for name, mutate := range cases {
		in := validInput()
		mutate(&in)
		assert.ErrorIs(t, in.validate(), ErrValidation, name)
	}
}

func TestValidateBoundaryCoordinates(t *testing.T) {
	assert.NoError(t, validateCoordinates(-180, -90))
	assert.NoError(t, validateCoordinates(180, 90))

	assert.ErrorIs(t, validateCoordinates(math.NaN(), 37.5), ErrValidation)
	assert.ErrorIs(t, validateCoordinates(127, math.NaN()), ErrValidation)
	assert.ErrorIs(t, validateCoordinates(math.Inf(1), 37.5), ErrValidation)
	assert.ErrorIs(t, validateLocation(Location{Sido: "Seoul", Point: NewPoint(127, math.NaN())}), ErrValidation)
}

func TestEnumUnmarshalText(t *testing.T) {
	var st SpaceType
	require.NoError(t, st.UnmarshalText([]byte("STUDYROOM")))
	assert.Equal(t, SpaceTypeStudyroom, st)
	assert.ErrorIs(t, st.UnmarshalText([]byte("studio")), ErrValidation)

	var u UsageUnit
	require.NoError(t, u.UnmarshalText([]byte("DAY")))
	assert.Equal(t, UsageUnitDay, u)
	assert.ErrorIs(t, u.UnmarshalText([]byte("HOUR")), ErrValidation)

	var d DayOfWeek
	require.NoError(t, d.UnmarshalText([]byte("SUNDAY")))
	assert.Equal(t, Sunday, d)
	assert.ErrorIs(t, d.UnmarshalText([]byte("MON")), ErrValidation)
}

func TestOwnerOnly(t *testing.T) {
	space := &Space{OwnerId: "owner"}

	assert.NoError(t, OwnerOnly().Authorize(context.Background(), "owner", space))
	assert.ErrorIs(t, OwnerOnly().Authorize(context.Background(), "other", space), ErrForbidden)
	assert.ErrorIs(t, OwnerOnly().Authorize(context.Background(), "", &Space{}), ErrForbidden)
}

func TestQuoteTime(t *testing.T) {
	space := &Space{Name: "studio", UsageUnit: UsageUnitTime, UnitPrice: 10000}

	q, err := quote(space, QuoteRequest{StartTime: "2024-05-01 10:00:00", EndTime: "2024-05-01 12:30:00"})
	require.NoError(t, err)
	assert.Equal(t, &Quote{Name: "studio", TotalAmount: 25000, Quantity: 2.5}, q)

	q, err = quote(&Space{UsageUnit: UsageUnitTime, UnitPrice: 1000}, QuoteRequest{StartTime: "2024-05-01 10:00:00", EndTime: "2024-05-01 10:20:00"})
	require.NoError(t, err)
	assert.Equal(t, int64(333), q.TotalAmount)
}

func TestQuoteTimeInvalid(t *testing.T) {
	space := &Space{UsageUnit: UsageUnitTime, UnitPrice: 10000}

	_, err := quote(space, QuoteRequest{StartTime: "10:00", EndTime: "2024-05-01 12:30:00"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = quote(space, QuoteRequest{StartTime: "2024-05-01 10:00:00", EndTime: ""})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = quote(space, QuoteRequest{StartTime: "2024-05-01 12:00:00", EndTime: "2024-05-01 10:00:00"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestQuoteUseDate(t *testing.T) {
	space := &Space{Name: "studio", UsageUnit: UsageUnitTime, UnitPrice: 10000}

	q, err := quote(space, QuoteRequest{UseDate: "2024-05-01", StartTime: "2024-05-01 10:00:00", EndTime: "2024-05-01 12:00:00"})
	require.NoError(t, err)
	assert.Equal(t, int64(20000), q.TotalAmount)

	_, err = quote(space, QuoteRequest{UseDate: "2024-05-02", StartTime: "2024-05-01 10:00:00", EndTime: "2024-05-01 12:00:00"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = quote(space, QuoteRequest{UseDate: "05/01/2024", StartTime: "2024-05-01 10:00:00", EndTime: "2024-05-01 12:00:00"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = quote(&Space{UsageUnit: UsageUnitDay, UnitPrice: 80000}, QuoteRequest{UseDate: "tomorrow"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestQuoteDay(t *testing.T) {
	space := &Space{Name: "camp", UsageUnit: UsageUnitDay, UnitPrice: 80000}

	q, err := quote(space, QuoteRequest{})
	require.NoError(t, err)
	assert.Equal(t, &Quote{Name: "camp", TotalAmount: 80000, Quantity: 1}, q)
}
