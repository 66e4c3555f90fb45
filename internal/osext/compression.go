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

package osext

import (
	"bufio"
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compression is the detected compression of a stream.
type Compression int

const (
	None Compression = iota
	GZIP
	ZSTD
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

func (c Compression) String() string {
	switch c {
	case GZIP:
		return "gzip"
	case ZSTD:
		return "zstd"
	default:
		return "none"
	}
}

// Sniff returns the compression of the stream by its magic bytes.
func Sniff(head []byte) Compression {
	switch {
	case bytes.HasPrefix(head, gzipMagic):
		return GZIP
	case bytes.HasPrefix(head, zstdMagic):
		return ZSTD
	default:
		return None
	}
}

// Decompress returns a reader that transparently decompresses gzip and zstd
// streams, plain data is returned as is.  The caller must close the returned
// reader, it does not close r.
func Decompress(r io.Reader) (io.ReadCloser, Compression, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF {
		return nil, None, err
	}
	switch c := Sniff(head); c {
	case GZIP:
		gr, err := gzip.NewReader(br)
		if err != nil {
			return nil, c, err
		}
		return gr, c, nil
	case ZSTD:
		zr, err := zstd.NewReader(br, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, c, err
		}
		return zr.IOReadCloser(), c, nil
	default:
		return io.NopCloser(br), None, nil
	}
}
