// vmailmgr
// Copyright 2026 Blue Static <https://www.bluestatic.org>
// This program is free software licensed under the GNU General Public License,
// version 3.0. The full text of the license can be found in LICENSE.txt.
// SPDX-License-Identifier: GPL-3.0-only

package vmailmgr

import (
	"bytes"
)

const RecordVersion = 2

const (
	flagEnd            byte = 0
	flagMailboxEnabled byte = 8
	flagHasMailbox     byte = 10
)

// undefinedScalar is how the daemon writes an unset quota, limit or time.
const undefinedScalar = "-"

// Record is one mailbox's attribute set. String fields are empty when the
// daemon left them undefined. Scalars are kept as the daemon's text.
type Record struct {
	Name string

	MailboxEnabled bool
	HasMailbox     bool

	PasswordHash string
	Mailbox      string
	Forwards     []string
	Personal     string

	HardQuota         string
	SoftQuota         string
	MessageSizeLimit  string
	MessageCountLimit string
	CreationTime      string
	ExpiryTime        string
}

type recordState int

const (
	stateName recordState = iota
	stateVersion
	stateFlags
	stateTail
	stateDone
)

type recordParser struct {
	buf []byte
	pos int
	rec Record
}

// DecodeRecord parses a mailbox record chunk. If `withName` is set, the
// record is prefixed by its NUL-terminated local part, as in a domain listing.
func DecodeRecord(chunk []byte, withName bool) (*Record, error) {
	p := &recordParser{buf: chunk}
	state := stateVersion
	if withName {
		state = stateName
	}
	for state != stateDone {
		var err error
		switch state {
		case stateName:
			state, err = p.name()
		case stateVersion:
			state, err = p.version()
		case stateFlags:
			state, err = p.flags()
		case stateTail:
			state, err = p.tail()
		}
		if err != nil {
			return nil, err
		}
	}
	return &p.rec, nil
}

func (p *recordParser) name() (recordState, error) {
	i := bytes.IndexByte(p.buf[p.pos:], 0)
	if i <= 0 {
		return stateDone, &ProtocolError{Kind: ErrTruncatedBuffer, Offset: p.pos, Value: "missing name terminator"}
	}
	p.rec.Name = string(p.buf[p.pos : p.pos+i])
	p.pos += i + 1
	return stateVersion, nil
}

func (p *recordParser) readByte() (byte, error) {
	if p.pos >= len(p.buf) {
		return 0, truncated(p.pos, 1, 0)
	}
	b := p.buf[p.pos]
	p.pos++
	return b, nil
}

func (p *recordParser) version() (recordState, error) {
	v, err := p.readByte()
	if err != nil {
		return stateDone, err
	}
	if v != RecordVersion {
		return stateDone, &ProtocolError{Kind: ErrUnsupportedRecordVersion, Offset: p.pos - 1, Value: v}
	}
	return stateFlags, nil
}

// flags reads one key/value pair per call until the zero key.
func (p *recordParser) flags() (recordState, error) {
	key, err := p.readByte()
	if err != nil {
		return stateDone, err
	}
	if key == flagEnd {
		return stateTail, nil
	}
	val, err := p.readByte()
	if err != nil {
		return stateDone, err
	}
	switch key {
	case flagMailboxEnabled:
		p.rec.MailboxEnabled = val == 1
	case flagHasMailbox:
		p.rec.HasMailbox = val == 1
	}
	return stateFlags, nil
}

func (p *recordParser) tail() (recordState, error) {
	toks := &tokens{list: bytes.Split(p.buf[p.pos:], []byte{0})}
	p.pos = len(p.buf)

	p.rec.PasswordHash = toks.next()
	p.rec.Mailbox = toks.next()
	for toks.more() {
		fwd := toks.next()
		if fwd == "" {
			break
		}
		p.rec.Forwards = append(p.rec.Forwards, fwd)
	}
	// A lone dash is a real value here, unlike the scalars below.
	p.rec.Personal = toks.next()

	for _, field := range []*string{
		&p.rec.HardQuota,
		&p.rec.SoftQuota,
		&p.rec.MessageSizeLimit,
		&p.rec.MessageCountLimit,
		&p.rec.CreationTime,
		&p.rec.ExpiryTime,
	} {
		if v := toks.next(); v != undefinedScalar {
			*field = v
		}
	}
	return stateDone, nil
}

// tokens yields "" once the list runs out.
type tokens struct {
	list [][]byte
	i    int
}

func (t *tokens) more() bool {
	return t.i < len(t.list)
}

func (t *tokens) next() string {
	if !t.more() {
		return ""
	}
	tok := t.list[t.i]
	t.i++
	return string(tok)
}

// EncodeRecord writes `rec` in the layout DecodeRecord reads. Forward
// addresses must be non-empty.
func EncodeRecord(rec *Record, withName bool) []byte {
	var buf bytes.Buffer
	if withName {
		buf.WriteString(rec.Name)
		buf.WriteByte(0)
	}
	buf.WriteByte(RecordVersion)
	buf.Write([]byte{flagMailboxEnabled, boolByte(rec.MailboxEnabled)})
	buf.Write([]byte{flagHasMailbox, boolByte(rec.HasMailbox)})
	buf.WriteByte(flagEnd)

	toks := []string{rec.PasswordHash, rec.Mailbox}
	toks = append(toks, rec.Forwards...)
	toks = append(toks, "", rec.Personal)
	for _, v := range []string{
		rec.HardQuota,
		rec.SoftQuota,
		rec.MessageSizeLimit,
		rec.MessageCountLimit,
		rec.CreationTime,
		rec.ExpiryTime,
	} {
		if v == "" {
			v = undefinedScalar
		}
		toks = append(toks, v)
	}
	for i, t := range toks {
		if i > 0 {
			buf.WriteByte(0)
		}
		buf.WriteString(t)
	}
	return buf.Bytes()
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
