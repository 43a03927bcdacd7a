// vmailmgr
// Copyright 2026 Blue Static <https://www.bluestatic.org>
// This program is free software licensed under the GNU General Public License,
// version 3.0. The full text of the license can be found in LICENSE.txt.
// SPDX-License-Identifier: GPL-3.0-only

package vmailmgr

import (
	"fmt"
)

// ResultCode is the status byte that opens every reply.
type ResultCode byte

const (
	// CodeOK reports success.
	CodeOK ResultCode = 0
	// CodeBadRequest reports a request the daemon could not parse.
	CodeBadRequest ResultCode = 1
	// CodeFailed reports a well-formed request that the daemon refused or
	// could not carry out.
	CodeFailed ResultCode = 2
)

func (c ResultCode) String() string {
	switch c {
	case CodeOK:
		return "ok"
	case CodeBadRequest:
		return "bad request"
	case CodeFailed:
		return "failed"
	default:
		return fmt.Sprintf("code %d", byte(c))
	}
}

// Reply is a decoded daemon response. A zero-length chunk cannot carry text,
// so an empty Message means the daemon sent none.
type Reply struct {
	Code    ResultCode
	Message string
	// Data is the opaque payload of a data-mode reply; nil when absent.
	Data []byte
}

func (r *Reply) OK() bool {
	return r.Code == CodeOK
}

// Err returns a *DaemonError for a failed reply, or nil.
func (r *Reply) Err() error {
	if r.OK() {
		return nil
	}
	return &DaemonError{Code: r.Code, Message: r.Message}
}

// DecodeStatusReply decodes a reply consisting of the result code and a
// single message chunk.
func DecodeStatusReply(buf []byte) (*Reply, error) {
	rr, err := NewReplyReader(buf)
	if err != nil {
		return nil, err
	}
	msg, err := rr.NextChunk()
	if err != nil {
		return nil, err
	}
	return &Reply{Code: rr.Code, Message: string(msg)}, nil
}

// DecodeDataReply decodes a reply whose first chunk is an opaque payload and
// whose second chunk is the status message. A failed reply that ends after
// its first chunk is read as a status reply.
func DecodeDataReply(buf []byte) (*Reply, error) {
	rr, err := NewReplyReader(buf)
	if err != nil {
		return nil, err
	}
	data, err := rr.NextChunk()
	if err != nil {
		return nil, err
	}
	if rr.Code != CodeOK && !rr.More() {
		return &Reply{Code: rr.Code, Message: string(data)}, nil
	}
	msg, err := rr.NextChunk()
	if err != nil {
		return nil, err
	}
	return &Reply{Code: rr.Code, Message: string(msg), Data: data}, nil
}

// ReplyReader walks the chunks of a reply buffer after its result code.
type ReplyReader struct {
	Code ResultCode

	buf []byte
	off int
}

// NewReplyReader consumes the result code from `buf` and positions the cursor
// on the first chunk.
func NewReplyReader(buf []byte) (*ReplyReader, error) {
	if len(buf) < 1 {
		return nil, truncated(0, 1, 0)
	}
	return &ReplyReader{
		Code: ResultCode(buf[0]),
		buf:  buf,
		off:  1,
	}, nil
}

// NextChunk returns the next chunk payload, nil when the chunk is empty.
func (rr *ReplyReader) NextChunk() ([]byte, error) {
	payload, next, err := DecodeChunk(rr.buf, rr.off)
	if err != nil {
		return nil, err
	}
	rr.off = next
	return payload, nil
}

// More reports whether any bytes remain after the cursor.
func (rr *ReplyReader) More() bool {
	return rr.off < len(rr.buf)
}

// Offset is the cursor position within the reply buffer.
func (rr *ReplyReader) Offset() int {
	return rr.off
}

// EncodeReply writes `code` followed by each chunk. It is the inverse of the
// decoders above and is what a daemon puts on the wire.
func EncodeReply(code ResultCode, chunks ...[]byte) ([]byte, error) {
	size := 1
	for _, c := range chunks {
		size += 2 + len(c)
	}
	buf := make([]byte, 1, size)
	buf[0] = byte(code)
	var err error
	for _, c := range chunks {
		if buf, err = appendChunk(buf, c); err != nil {
			return nil, err
		}
	}
	return buf, nil
}
