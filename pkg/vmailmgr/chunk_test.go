// vmailmgr
// Copyright 2026 Blue Static <https://www.bluestatic.org>
// This program is free software licensed under the GNU General Public License,
// version 3.0. The full text of the license can be found in LICENSE.txt.
// SPDX-License-Identifier: GPL-3.0-only

package vmailmgr

import (
	"bytes"
	"testing"
)

func TestChunkRoundTrip(t *testing.T) {
	cases := [][]byte{
		[]byte("a"),
		[]byte("hello world"),
		{0, 1, 2, 0},
		bytes.Repeat([]byte{'x'}, 300),
		bytes.Repeat([]byte{'y'}, MaxChunkLen),
	}
	for _, c := range cases {
		enc, err := EncodeChunk(c)
		ok(t, err)
		if want, got := 2+len(c), len(enc); want != got {
			t.Errorf("Expected encoded length %d, got %d", want, got)
		}
		dec, next, err := DecodeChunk(enc, 0)
		ok(t, err)
		if !bytes.Equal(c, dec) {
			t.Errorf("Chunk of %d bytes did not round trip", len(c))
		}
		if next != len(enc) {
			t.Errorf("Expected next offset %d, got %d", len(enc), next)
		}
	}
}

func TestChunkEmptyIsAbsent(t *testing.T) {
	enc, err := EncodeChunk(nil)
	ok(t, err)
	if !bytes.Equal([]byte{0, 0}, enc) {
		t.Errorf("Expected zero length prefix, got %v", enc)
	}
	enc, err = EncodeChunk([]byte{})
	ok(t, err)
	dec, next, err := DecodeChunk(enc, 0)
	ok(t, err)
	if dec != nil {
		t.Errorf("Expected absent payload, got %q", dec)
	}
	if next != 2 {
		t.Errorf("Expected next offset 2, got %d", next)
	}
}

func TestChunkTooLarge(t *testing.T) {
	_, err := EncodeChunk(make([]byte, MaxChunkLen+1))
	isErr(t, err, ErrChunkTooLarge)
}

func TestDecodeChunkAtOffset(t *testing.T) {
	buf := []byte{9, 0, 3, 'a', 'b', 'c', 0, 1, 'd'}
	dec, next, err := DecodeChunk(buf, 1)
	ok(t, err)
	if string(dec) != "abc" || next != 6 {
		t.Errorf("Expected abc/6, got %q/%d", dec, next)
	}
	dec, next, err = DecodeChunk(buf, next)
	ok(t, err)
	if string(dec) != "d" || next != len(buf) {
		t.Errorf("Expected d/%d, got %q/%d", len(buf), dec, next)
	}
}

func TestDecodeChunkTruncated(t *testing.T) {
	cases := []struct {
		buf    []byte
		offset int
	}{
		{nil, 0},
		{[]byte{0}, 0},
		{[]byte{0, 5, 'a', 'b'}, 0},
		{[]byte{0, 1, 'a'}, 3},
		{[]byte{0, 1, 'a'}, 2},
	}
	for i, c := range cases {
		_, next, err := DecodeChunk(c.buf, c.offset)
		if err == nil {
			t.Errorf("Expected error for case #%d", i)
			continue
		}
		isErr(t, err, ErrTruncatedBuffer)
		if next != c.offset {
			t.Errorf("Case #%d advanced cursor to %d", i, next)
		}
	}
}
