// vmailmgr
// Copyright 2026 Blue Static <https://www.bluestatic.org>
// This program is free software licensed under the GNU General Public License,
// version 3.0. The full text of the license can be found in LICENSE.txt.
// SPDX-License-Identifier: GPL-3.0-only

package vmailmgr

import (
	"encoding/binary"
)

const (
	// requestMarker is the first byte of every request envelope.
	requestMarker byte = 0x02

	// envelopeHeaderLen covers the marker and the 16-bit length field.
	envelopeHeaderLen = 3

	// MaxArguments is the most arguments the 8-bit count field can describe.
	MaxArguments = 0xff
)

// Request is one decoded command envelope.
type Request struct {
	Command string
	Args    [][]byte
}

// BuildRequest frames `command` and `args` into a single request envelope.
func BuildRequest(command string, args [][]byte) ([]byte, error) {
	if len(args) > MaxArguments {
		return nil, &ProtocolError{Kind: ErrTooManyArguments, Value: len(args)}
	}

	size := envelopeHeaderLen + 1 + 2 + len(command)
	for _, a := range args {
		size += 2 + len(a)
	}

	buf := make([]byte, envelopeHeaderLen+1, size)
	buf[0] = requestMarker
	buf[3] = byte(len(args))

	var err error
	if buf, err = appendChunk(buf, []byte(command)); err != nil {
		return nil, err
	}
	for _, a := range args {
		if buf, err = appendChunk(buf, a); err != nil {
			return nil, err
		}
	}

	// The length covers the argument count byte and every chunk.
	payloadLen := len(buf) - envelopeHeaderLen
	if payloadLen > MaxChunkLen {
		return nil, &ProtocolError{Kind: ErrChunkTooLarge, Value: payloadLen}
	}
	binary.BigEndian.PutUint16(buf[1:], uint16(payloadLen))
	return buf, nil
}

// StringArgs converts string arguments to the byte form BuildRequest takes.
func StringArgs(args ...string) [][]byte {
	out := make([][]byte, len(args))
	for i, a := range args {
		out[i] = []byte(a)
	}
	return out
}

// ParseRequest decodes an envelope produced by BuildRequest. Empty arguments
// come back as nil.
func ParseRequest(buf []byte) (*Request, error) {
	if len(buf) < envelopeHeaderLen+1 {
		return nil, truncated(0, envelopeHeaderLen+1, len(buf))
	}
	if buf[0] != requestMarker {
		return nil, &ProtocolError{Kind: ErrMalformedRequest, Value: buf[0]}
	}
	payloadLen := int(binary.BigEndian.Uint16(buf[1:]))
	end := envelopeHeaderLen + payloadLen
	if end > len(buf) {
		return nil, truncated(1, payloadLen, len(buf)-envelopeHeaderLen)
	}
	if payloadLen < 1 {
		return nil, &ProtocolError{Kind: ErrMalformedRequest, Offset: 1, Value: payloadLen}
	}
	body := buf[:end]

	argc := int(body[envelopeHeaderLen])
	offset := envelopeHeaderLen + 1

	cmd, offset, err := DecodeChunk(body, offset)
	if err != nil {
		return nil, err
	}
	req := &Request{
		Command: string(cmd),
		Args:    make([][]byte, argc),
	}
	for i := 0; i < argc; i++ {
		if req.Args[i], offset, err = DecodeChunk(body, offset); err != nil {
			return nil, err
		}
	}
	if offset != end {
		return nil, &ProtocolError{Kind: ErrMalformedRequest, Offset: offset, Value: "trailing bytes"}
	}
	return req, nil
}

// Arg returns argument `i` as a string, or "" if it is absent.
func (r *Request) Arg(i int) string {
	if i < 0 || i >= len(r.Args) {
		return ""
	}
	return string(r.Args[i])
}
