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
	"reflect"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// Prototype marks a struct of Definable fields describing a partial document.
// Embed it to turn a struct into a prototype.
type Prototype interface {
	isPrototype()
}

// ToBson collects the defined fields of p, keyed by their bson names.
func ToBson(p Prototype) bson.M {
	t := reflect.TypeOf(p)
	v := reflect.ValueOf(p)

	if t.Kind() == reflect.Pointer {
		t = t.Elem()
		v = v.Elem()
	}

	ret := bson.M{}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldName, ok := bsonName(field)
		if !ok {
			continue
		}

		fieldValue := v.Field(i)
		if def, ok := fieldValue.Interface().(definable); ok {
			if val, defined := def.definedValue(); defined {
				ret[fieldName] = val
			}
		} else if !safeIsNil(fieldValue) {
			ret[fieldName] = fieldValue.Interface()
		}
	}

	return ret
}

// SetDocument wraps the defined fields of p in a $set update.
func SetDocument(p Prototype) bson.M {
	return bson.M{"$set": ToBson(p)}
}

func bsonName(field reflect.StructField) (string, bool) {
	if !field.IsExported() || field.Anonymous {
		return "", false
	}

	tag, _, _ := strings.Cut(field.Tag.Get("bson"), ",")
	switch tag {
	case "-":
		return "", false
	case "":
		return strings.ToLower(field.Name), true
	default:
		return tag, true
	}
}

func safeIsNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Map, reflect.Pointer, reflect.UnsafePointer, reflect.Interface, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}
