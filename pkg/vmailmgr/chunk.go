// vmailmgr
// Copyright 2026 Blue Static <https://www.bluestatic.org>
// This program is free software licensed under the GNU General Public License,
// version 3.0. The full text of the license can be found in LICENSE.txt.
// SPDX-License-Identifier: GPL-3.0-only

package vmailmgr

import (
	"encoding/binary"
)

// MaxChunkLen is the largest payload a 16-bit length prefix can describe.
const MaxChunkLen = 0xffff

// EncodeChunk prepends the big-endian length of `b` to it.
func EncodeChunk(b []byte) ([]byte, error) {
	return appendChunk(make([]byte, 0, 2+len(b)), b)
}

func appendChunk(dst, b []byte) ([]byte, error) {
	if len(b) > MaxChunkLen {
		return nil, &ProtocolError{Kind: ErrChunkTooLarge, Value: len(b)}
	}
	dst = binary.BigEndian.AppendUint16(dst, uint16(len(b)))
	return append(dst, b...), nil
}

// DecodeChunk reads one chunk from `buf` starting at `offset`. It returns the
// payload and the offset just past it. A zero-length chunk yields a nil
// payload.
func DecodeChunk(buf []byte, offset int) ([]byte, int, error) {
	if offset < 0 || offset+2 > len(buf) {
		return nil, offset, truncated(offset, 2, max(len(buf)-offset, 0))
	}
	n := int(binary.BigEndian.Uint16(buf[offset:]))
	start := offset + 2
	if start+n > len(buf) {
		return nil, offset, truncated(offset, 2+n, len(buf)-offset)
	}
	if n == 0 {
		return nil, start, nil
	}
	payload := make([]byte, n)
	copy(payload, buf[start:start+n])
	return payload, start + n, nil
}
