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
	"path"
	"slices"
	"strconv"
	"strings"
)

var allowedExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp"}

// imageExtension returns the extension of filename as given, or an error when
// it is not one of the accepted image extensions.
func imageExtension(filename string) (string, error) {
	ext := path.Ext(filename)
	if ext == "" || !slices.Contains(allowedExtensions, strings.ToLower(ext)) {
		return "", validationError("%s is not a supported image format", filename)
	}
	return ext, nil
}

func validateImages(images []ImageUpload) error {
	for _, img := range images {
		if _, err := imageExtension(img.Filename); err != nil {
			return err
		}
	}
	return nil
}

func imageFilename(index int, ext string) string {
	return strconv.Itoa(index) + ext
}

func spacePrefix(ownerId string, spaceId string) string {
	return ownerId + "/" + spaceId + "/"
}

func imageKey(ownerId string, spaceId string, filename string) string {
	return spacePrefix(ownerId, spaceId) + filename
}
