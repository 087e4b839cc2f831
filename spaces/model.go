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
	"fmt"
	"slices"
	"time"

	"github.com/Spaces-Place/space-place-space/entities"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SpaceType string

const (
	SpaceTypePlaying       SpaceType = "PLAYING"
	SpaceTypeParty         SpaceType = "PARTY"
	SpaceTypeDance         SpaceType = "DANCE"
	SpaceTypeKaraoke       SpaceType = "KARAOKE"
	SpaceTypeStudio        SpaceType = "STUDIO"
	SpaceTypeCamping       SpaceType = "CAMPING"
	SpaceTypeGym           SpaceType = "GYM"
	SpaceTypeOffice        SpaceType = "OFFICE"
	SpaceTypeAccommodation SpaceType = "ACCOMMODATION"
	SpaceTypeKitchen       SpaceType = "KITCHEN"
	SpaceTypeStudyroom     SpaceType = "STUDYROOM"
)

var spaceTypes = []SpaceType{
	SpaceTypePlaying, SpaceTypeParty, SpaceTypeDance, SpaceTypeKaraoke, SpaceTypeStudio, SpaceTypeCamping,
	SpaceTypeGym, SpaceTypeOffice, SpaceTypeAccommodation, SpaceTypeKitchen, SpaceTypeStudyroom,
}

func (t SpaceType) Valid() bool {
	return slices.Contains(spaceTypes, t)
}

func (t *SpaceType) UnmarshalText(text []byte) error {
	v := SpaceType(text)
	if !v.Valid() {
		return fmt.Errorf("%w: unknown space type %q", ErrValidation, text)
	}
	*t = v
	return nil
}

type UsageUnit string

const (
	UsageUnitTime UsageUnit = "TIME"
	UsageUnitDay  UsageUnit = "DAY"
)

func (u UsageUnit) Valid() bool {
	return u == UsageUnitTime || u == UsageUnitDay
}

func (u *UsageUnit) UnmarshalText(text []byte) error {
	v := UsageUnit(text)
	if !v.Valid() {
		return fmt.Errorf("%w: unknown usage unit %q", ErrValidation, text)
	}
	*u = v
	return nil
}

type DayOfWeek string

const (
	Monday    DayOfWeek = "MONDAY"
	Tuesday   DayOfWeek = "TUESDAY"
	Wednesday DayOfWeek = "WEDNESDAY"
	Thursday  DayOfWeek = "THURSDAY"
	Friday    DayOfWeek = "FRIDAY"
	Saturday  DayOfWeek = "SATURDAY"
	Sunday    DayOfWeek = "SUNDAY"
)

var daysOfWeek = []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

func (d DayOfWeek) Valid() bool {
	return slices.Contains(daysOfWeek, d)
}

func (d *DayOfWeek) UnmarshalText(text []byte) error {
	v := DayOfWeek(text)
	if !v.Valid() {
		return fmt.Errorf("%w: unknown day of week %q", ErrValidation, text)
	}
	*d = v
	return nil
}

// Point is a GeoJSON point. Coordinates are [longitude, latitude].
type Point struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

func NewPoint(longitude float64, latitude float64) Point {
	return Point{
		Type:        "Point",
		Coordinates: []float64{longitude, latitude},
	}
}

func (p Point) Longitude() float64 {
	if len(p.Coordinates) < 2 {
		return 0
	}
	return p.Coordinates[0]
}

func (p Point) Latitude() float64 {
	if len(p.Coordinates) < 2 {
		return 0
	}
	return p.Coordinates[1]
}

type Location struct {
	Sido    string `bson:"sido" json:"sido"`
	Address string `bson:"address" json:"address"`
	Point   Point  `bson:"point" json:"point"`
}

type Image struct {
	Filename         string `bson:"filename" json:"filename"`
	OriginalFilename string `bson:"original_filename" json:"original_filename"`
}

type OperatingHour struct {
	Day   DayOfWeek `bson:"day" json:"day"`
	Open  string    `bson:"open" json:"open"`
	Close string    `bson:"close" json:"close"`
}

// Space is the stored document.
type Space struct {
	Id             primitive.ObjectID `bson:"_id,omitempty"`
	OwnerId        string             `bson:"owner_id"`
	SpaceType      SpaceType          `bson:"space_type"`
	Name           string             `bson:"space_name"`
	Capacity       int                `bson:"capacity"`
	Size           int                `bson:"space_size"`
	UsageUnit      UsageUnit          `bson:"usage_unit"`
	UnitPrice      int                `bson:"unit_price"`
	Amenities      []string           `bson:"amenities"`
	Description    string             `bson:"description"`
	Content        string             `bson:"content"`
	Location       Location           `bson:"location"`
	Images         []Image            `bson:"images"`
	OperatingHours []OperatingHour    `bson:"operating_hour"`
	IsOperate      bool               `bson:"is_operate"`
	CreatedAt      time.Time          `bson:"created_at"`
}

// SpacePrototype is a partial Space used for updates.
type SpacePrototype struct {
	entities.Prototype

	Capacity       entities.Definable[int]             `bson:"capacity"`
	UsageUnit      entities.Definable[UsageUnit]       `bson:"usage_unit"`
	UnitPrice      entities.Definable[int]             `bson:"unit_price"`
	Amenities      entities.Definable[[]string]        `bson:"amenities"`
	Description    entities.Definable[string]          `bson:"description"`
	Content        entities.Definable[string]          `bson:"content"`
	OperatingHours entities.Definable[[]OperatingHour] `bson:"operating_hour"`
	IsOperate      entities.Definable[bool]            `bson:"is_operate"`
	Images         entities.Definable[[]Image]         `bson:"images"`
}

// SpaceInput carries the attributes of a new space.
type SpaceInput struct {
	SpaceType      SpaceType
	Name           string
	Capacity       int
	Size           int
	UsageUnit      UsageUnit
	UnitPrice      int
	Amenities      []string
	Description    string
	Content        string
	Location       Location
	OperatingHours []OperatingHour
}

// UpdateInput carries the mutable attributes of a space. They replace the
// stored values wholesale.
type UpdateInput struct {
	Capacity       int
	UsageUnit      UsageUnit
	UnitPrice      int
	Amenities      []string
	Description    string
	Content        string
	OperatingHours []OperatingHour
	IsOperate      bool
}

// ImageUpload is an uploaded image file.
type ImageUpload struct {
	Filename string
	Data     []byte
}

type ImageLink struct {
	URL              string `json:"url"`
	Order            int    `json:"order"`
	OriginalFilename string `json:"original_filename"`
}

type SpaceDetail struct {
	SpaceId        string          `json:"space_id"`
	OwnerId        string          `json:"owner_id"`
	SpaceType      SpaceType       `json:"space_type"`
	Name           string          `json:"space_name"`
	Capacity       int             `json:"capacity"`
	Size           int             `json:"space_size"`
	UsageUnit      UsageUnit       `json:"usage_unit"`
	UnitPrice      int             `json:"unit_price"`
	Amenities      []string        `json:"amenities"`
	Description    string          `json:"description"`
	Content        string          `json:"content"`
	Location       Location        `json:"location"`
	Images         []ImageLink     `json:"images"`
	OperatingHours []OperatingHour `json:"operating_hour"`
	IsOperate      bool            `json:"is_operate"`
	CreatedAt      time.Time       `json:"created_at"`
}

type SpaceSummary struct {
	SpaceId     string    `json:"space_id"`
	SpaceType   SpaceType `json:"space_type"`
	Name        string    `json:"space_name"`
	Description string    `json:"description"`
	UsageUnit   UsageUnit `json:"usage_unit"`
	UnitPrice   int       `json:"unit_price"`
	Amenities   []string  `json:"amenities"`
	Location    Location  `json:"location"`
	Thumbnail   string    `json:"thumbnail"`
}

type ListQuery struct {
	Skip      int64
	Limit     int64
	SpaceType SpaceType
	Sido      string
}

type NearbyQuery struct {
	Longitude float64
	Latitude  float64
	RadiusKm  float64
}

type QuoteRequest struct {
	SpaceId   string `json:"space_id"`
	UseDate   string `json:"use_date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type Quote struct {
	Name        string  `json:"space_name"`
	TotalAmount int64   `json:"total_amount"`
	Quantity    float64 `json:"quantity"`
}
