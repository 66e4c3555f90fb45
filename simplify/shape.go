// Copyright (c) 2021-2026 Rustam Gilyazov and Contributors.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package simplify

// In this file: shape validation primitives shared by all entity variants.

import (
	"bytes"
	"encoding/json"

	"github.com/go-playground/validator/v10"
)

// validate caches struct metadata, it is safe for concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

// decodeShape reports whether data is a JSON object that decodes into dst
// without type errors and satisfies the validation tags of dst.  Required
// fields are pointers tagged `validate:"required"`, so a missing field and a
// null are both rejected, while a zero value is accepted.
func decodeShape(data []byte, dst any) bool {
	if !isObject(data) {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false
	}
	return validate.Struct(dst) == nil
}

// decodeLoose decodes data into dst ignoring type mismatches of individual
// fields.  It returns false only if data is not a JSON object.  dst should
// consist of opt and json.RawMessage fields, which never fail to decode.
func decodeLoose(data []byte, dst any) bool {
	if !isObject(data) {
		return false
	}
	_ = json.Unmarshal(data, dst)
	return true
}

func isObject(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) > 1 && data[0] == '{' && json.Valid(data)
}

// isNull reports whether data is absent or a JSON null.
func isNull(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) == 0 || bytes.Equal(data, []byte("null"))
}

// opt is an optional scalar.  A value of the wrong type or a null leaves it
// unset instead of failing the decode of the enclosing object.
type opt[T any] struct {
	v  T
	ok bool
}

func (o *opt[T]) UnmarshalJSON(b []byte) error {
	if isNull(b) {
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	o.v, o.ok = v, true
	return nil
}

// get returns the value, or the zero value if unset.
func (o opt[T]) get() T {
	return o.v
}

// or returns the value, or def if unset.
func (o opt[T]) or(def T) T {
	if !o.ok {
		return def
	}
	return o.v
}

// ptr returns a pointer to a copy of the value, or nil if unset.
func (o opt[T]) ptr() *T {
	if !o.ok {
		return nil
	}
	v := o.v
	return &v
}

// nextPage returns nextPageStart of a Bitbucket page, unless it is the last
// one.
func nextPage(isLast bool, next opt[int64]) *int64 {
	if isLast {
		return nil
	}
	return next.ptr()
}

// keep reports whether a collection with accepted elements out of total
// raw elements should be simplified.  A non-empty collection where nothing
// was accepted is passed through.
func keep(accepted, total int) bool {
	return accepted > 0 || total == 0
}
