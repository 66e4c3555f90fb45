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

// Package payload loads raw upstream API responses for the tool layer.  A
// response arrives either inline, as JSON text, or as a file under a base
// directory.  Files may be gzip or zstd compressed.  Whatever the source,
// the result is a size-capped, syntactically valid JSON document.
package payload

// In this file: the Loader interface and the shared reader.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/rusq/atlassian-dc-mcp/internal/osext"
)

//go:generate mockgen -destination=mock_payload/mock_payload.go . Loader

// DefaultMaxSize is the default cap on the decoded size of a payload.
const DefaultMaxSize int64 = 16 << 20

var (
	// ErrNoInput is returned when neither inline payload nor path is given.
	ErrNoInput = errors.New("one of payload or path is required")
	// ErrAmbiguous is returned when both inline payload and path are given.
	ErrAmbiguous = errors.New("payload and path are mutually exclusive")
	// ErrEmpty is returned for a payload that is empty or only whitespace.
	ErrEmpty = errors.New("payload is empty")
	// ErrTooLarge is returned when the decoded payload exceeds the limit.
	ErrTooLarge = errors.New("payload is too large")
	// ErrNotJSON is returned when the payload is not valid JSON.
	ErrNotJSON = errors.New("payload is not valid JSON")
	// ErrNoFiles is returned for a path source when the loader has no base
	// directory.
	ErrNoFiles = errors.New("file access is disabled")
	// ErrOutside is returned for paths that escape the base directory.
	ErrOutside = errors.New("path is outside of the base directory")
)

// Source describes where the raw response comes from.  Exactly one of the
// fields must be set.
type Source struct {
	// Payload is the inline JSON text.
	Payload string
	// Path is the file name, relative to the loader base directory.
	Path string
}

// Validate checks that exactly one of the source fields is set.
func (s Source) Validate() error {
	switch {
	case s.Payload == "" && s.Path == "":
		return ErrNoInput
	case s.Payload != "" && s.Path != "":
		return ErrAmbiguous
	}
	return nil
}

// Loader loads a raw response.
type Loader interface {
	Load(ctx context.Context, src Source) (json.RawMessage, error)
}

// Read reads the stream r, transparently decompressing it, and returns
// the JSON document it contains.  It fails with ErrTooLarge if the decoded
// data is larger than limit bytes.
func Read(r io.Reader, limit int64) (json.RawMessage, error) {
	rc, _, err := osext.Decompress(r)
	if err != nil {
		return nil, fmt.Errorf("decompress: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, ErrTooLarge
	}
	return Parse(data)
}

// Parse trims the surrounding whitespace of data and checks that the
// remainder is a JSON document.
func Parse(data []byte) (json.RawMessage, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if !json.Valid(data) {
		return nil, ErrNotJSON
	}
	return json.RawMessage(data), nil
}
