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

// In this file: the tagged result returned by the top-level simplifiers.

import "encoding/json"

// Result is the outcome of a simplification.  It is either Simplified,
// holding the reduced value, or a Passthrough of the original input.
type Result[T any] struct {
	value *T
	raw   json.RawMessage
}

func simplified[T any](v *T) Result[T] {
	return Result[T]{value: v}
}

func passthrough[T any](raw json.RawMessage) Result[T] {
	return Result[T]{raw: raw}
}

// IsPassthrough reports whether the input was returned unchanged.
func (r Result[T]) IsPassthrough() bool {
	return r.value == nil
}

// Simplified returns the simplified value and true, or nil and false on
// passthrough.
func (r Result[T]) Simplified() (*T, bool) {
	return r.value, r.value != nil
}

// Raw returns the original input on passthrough.  It is the same slice that
// was given to the simplifier, not a copy.  Raw returns nil for a simplified
// result.
func (r Result[T]) Raw() json.RawMessage {
	return r.raw
}

// Value returns either the simplified value (*T) or the original input
// (json.RawMessage).
func (r Result[T]) Value() any {
	if r.value != nil {
		return r.value
	}
	return r.raw
}

// MarshalJSON encodes the simplified value, or emits the original input
// verbatim.  Passthrough of an input that is not valid JSON fails in
// json.Marshal, use Raw to get at such input.
func (r Result[T]) MarshalJSON() ([]byte, error) {
	if r.value != nil {
		return json.Marshal(r.value)
	}
	if len(r.raw) == 0 {
		return []byte("null"), nil
	}
	return r.raw, nil
}
