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

import (
	"errors"
	"reflect"

	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"go.mongodb.org/mongo-driver/bson/bsonrw"
)

// PrototypeEncoder writes a prototype as a document containing only its
// defined fields, so prototypes can be used directly as filters.
type PrototypeEncoder struct{}

func (e *PrototypeEncoder) EncodeValue(ctx bsoncodec.EncodeContext, vw bsonrw.ValueWriter, val reflect.Value) error {
	typ := val.Type()

	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
		val = val.Elem()
	}

	docWriter, err := vw.WriteDocument()
	if err != nil {
		return err
	}

	for i := 0; i < typ.NumField(); i++ {
		fieldName, ok := bsonName(typ.Field(i))
		if !ok {
			continue
		}

		fieldValue := val.Field(i)
		if def, ok := fieldValue.Interface().(definable); ok {
			v, defined := def.definedValue()
			if !defined {
				continue
			}
			fieldValue = reflect.ValueOf(v)
		}
		if !fieldValue.IsValid() || safeIsNil(fieldValue) {
			continue
		}

		valWriter, err := docWriter.WriteDocumentElement(fieldName)
		if err != nil {
			return err
		}
		enc, err := ctx.LookupEncoder(fieldValue.Type())
		if err != nil {
			return err
		}
		err = enc.EncodeValue(ctx, valWriter, fieldValue)
		if err != nil {
			return err
		}
	}

	return docWriter.WriteDocumentEnd()
}

// DefinableEncoder writes the wrapped value of a Definable outside of a
// prototype, where it cannot be omitted.
type DefinableEncoder struct{}

func (e *DefinableEncoder) EncodeValue(ctx bsoncodec.EncodeContext, vw bsonrw.ValueWriter, val reflect.Value) error {
	def, ok := val.Interface().(definable)
	if !ok {
		return errors.New("value is not Definable")
	}
	value, _ := def.definedValue()
	if value == nil {
		return vw.WriteNull()
	}

	encoder, err := ctx.LookupEncoder(reflect.TypeOf(value))
	if err != nil {
		return err
	}

	return encoder.EncodeValue(ctx, vw, reflect.ValueOf(value))
}

func RegisterEncoders(r *bsoncodec.Registry) {
	var d definable
	r.RegisterInterfaceEncoder(reflect.TypeOf(&d).Elem(), &DefinableEncoder{})

	var p Prototype
	r.RegisterInterfaceEncoder(reflect.TypeOf(&p).Elem(), &PrototypeEncoder{})
}
