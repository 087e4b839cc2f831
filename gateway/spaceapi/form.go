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

package spaceapi

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"

	"github.com/Spaces-Place/space-place-space/spaces"
)

// locationForm is the location field of the multipart forms.
type locationForm struct {
	Sido        string    `json:"sido"`
	Address     string    `json:"address"`
	Coordinates []float64 `json:"coordinates"`
}

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", spaces.ErrValidation, fmt.Sprintf(format, args...))
}

func formValue(form *multipart.Form, key string) (string, bool) {
	values := form.Value[key]
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func requiredValue(form *multipart.Form, key string) (string, error) {
	v, ok := formValue(form, key)
	if !ok || v == "" {
		return "", badRequest("%s is required", key)
	}
	return v, nil
}

func requiredInt(form *multipart.Form, key string) (int, error) {
	v, err := requiredValue(form, key)
	if err != nil {
		return 0, err
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, badRequest("%s must be an integer", key)
	}
	return i, nil
}

func parseOperatingHours(form *multipart.Form) ([]spaces.OperatingHour, error) {
	v, ok := formValue(form, "operating_hour")
	if !ok || v == "" {
		return []spaces.OperatingHour{}, nil
	}
	hours := make([]spaces.OperatingHour, 0)
	if err := json.Unmarshal([]byte(v), &hours); err != nil {
		return nil, badRequest("operating_hour must be a JSON array: %v", err)
	}
	return hours, nil
}

func parseLocation(form *multipart.Form) (spaces.Location, error) {
	v, err := requiredValue(form, "location")
	if err != nil {
		return spaces.Location{}, err
	}
	loc := locationForm{}
	if err := json.Unmarshal([]byte(v), &loc); err != nil {
		return spaces.Location{}, badRequest("location must be a JSON object: %v", err)
	}
	if len(loc.Coordinates) != 2 {
		return spaces.Location{}, badRequest("location coordinates must be [longitude, latitude]")
	}
	return spaces.Location{
		Sido:    loc.Sido,
		Address: loc.Address,
		Point:   spaces.NewPoint(loc.Coordinates[0], loc.Coordinates[1]),
	}, nil
}

// parseCreateForm reads the fields of a create request. The returned owner id
// is the one named by the form.
func parseCreateForm(form *multipart.Form) (string, spaces.SpaceInput, error) {
	in := spaces.SpaceInput{}

	ownerId, err := requiredValue(form, "owner_id")
	if err != nil {
		return "", in, err
	}
	spaceType, err := requiredValue(form, "space_type")
	if err != nil {
		return "", in, err
	}
	if err := in.SpaceType.UnmarshalText([]byte(spaceType)); err != nil {
		return "", in, err
	}
	if in.Name, err = requiredValue(form, "space_name"); err != nil {
		return "", in, err
	}
	if in.Size, err = requiredInt(form, "space_size"); err != nil {
		return "", in, err
	}
	if in.Location, err = parseLocation(form); err != nil {
		return "", in, err
	}

	attrs, err := parseAttributes(form)
	if err != nil {
		return "", in, err
	}
	in.Capacity = attrs.Capacity
	in.UsageUnit = attrs.UsageUnit
	in.UnitPrice = attrs.UnitPrice
	in.Amenities = attrs.Amenities
	in.Description = attrs.Description
	in.Content = attrs.Content
	in.OperatingHours = attrs.OperatingHours

	return ownerId, in, nil
}

// parseUpdateForm reads the mutable fields. is_operate defaults to true.
func parseUpdateForm(form *multipart.Form) (spaces.UpdateInput, error) {
	in, err := parseAttributes(form)
	if err != nil {
		return in, err
	}

	in.IsOperate = true
	if v, ok := formValue(form, "is_operate"); ok && v != "" {
		in.IsOperate, err = strconv.ParseBool(v)
		if err != nil {
			return in, badRequest("is_operate must be a boolean")
		}
	}
	return in, nil
}

func parseAttributes(form *multipart.Form) (spaces.UpdateInput, error) {
	in := spaces.UpdateInput{}

	var err error
	if in.Capacity, err = requiredInt(form, "capacity"); err != nil {
		return in, err
	}
	usageUnit, err := requiredValue(form, "usage_unit")
	if err != nil {
		return in, err
	}
	if err := in.UsageUnit.UnmarshalText([]byte(usageUnit)); err != nil {
		return in, err
	}
	if in.UnitPrice, err = requiredInt(form, "unit_price"); err != nil {
		return in, err
	}
	if in.OperatingHours, err = parseOperatingHours(form); err != nil {
		return in, err
	}

	in.Amenities = form.Value["amenities"]
	in.Description, _ = formValue(form, "description")
	in.Content, _ = formValue(form, "content")

	return in, nil
}

// readImages loads the uploaded image files. At least one image is required.
func readImages(form *multipart.Form) ([]spaces.ImageUpload, error) {
	files := form.File["images"]
	if len(files) == 0 {
		return nil, badRequest("at least one image is required")
	}

	images := make([]spaces.ImageUpload, 0, len(files))
	for _, fh := range files {
		data, err := readFile(fh)
		if err != nil {
			return nil, badRequest("unable to read image %s: %v", fh.Filename, err)
		}
		images = append(images, spaces.ImageUpload{
			Filename: fh.Filename,
			Data:     data,
		})
	}
	return images, nil
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(f)
}
