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

package entities

// Definable is a value that may be left out of a document. Only defined
// values are written by ToBson and the bson encoders.
type Definable[T any] struct {
	Value   T
	Defined bool
}

type definable interface {
	definedValue() (any, bool)
}

var _ definable = Definable[any]{}

func Define[T any](value T) Definable[T] {
	return Definable[T]{Value: value, Defined: true}
}

func (d *Definable[T]) Set(value T) {
	d.Value = value
	d.Defined = true
}

func (d *Definable[T]) Unset() {
	var null T
	d.Value = null
	d.Defined = false
}

func (d *Definable[T]) Get() T {
	return d.Value
}

func (d *Definable[T]) IsDefined() bool {
	return d.Defined
}

func (d Definable[T]) definedValue() (any, bool) {
	return d.Value, d.Defined
}
