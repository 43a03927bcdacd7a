// vmailmgr
// Copyright 2026 Blue Static <https://www.bluestatic.org>
// This program is free software licensed under the GNU General Public License,
// version 3.0. The full text of the license can be found in LICENSE.txt.
// SPDX-License-Identifier: GPL-3.0-only

package vmailmgr

import (
	"errors"
	"reflect"
	"testing"
)

func TestDecodeRecord(t *testing.T) {
	chunk := []byte("\x02\x08\x01\x00" +
		"crypt\x00maildir\x00fwd1\x00\x00personal\x00100\x00200\x00-\x00-\x00-\x00-")
	rec, err := DecodeRecord(chunk, false)
	ok(t, err)

	want := &Record{
		MailboxEnabled: true,
		PasswordHash:   "crypt",
		Mailbox:        "maildir",
		Forwards:       []string{"fwd1"},
		Personal:       "personal",
		HardQuota:      "100",
		SoftQuota:      "200",
	}
	if !reflect.DeepEqual(want, rec) {
		t.Errorf("Expected %+v, got %+v", want, rec)
	}
}

func TestDecodeRecordWithName(t *testing.T) {
	chunk := []byte("bob\x00\x02\x0a\x01\x08\x00\x00" +
		"$1$x\x00./users/bob\x00\x00\x00-\x00-\x00-\x00-\x001700000000\x00-")
	rec, err := DecodeRecord(chunk, true)
	ok(t, err)
	if rec.Name != "bob" {
		t.Errorf("Expected name bob, got %q", rec.Name)
	}
	if !rec.HasMailbox || rec.MailboxEnabled {
		t.Errorf("Unexpected flags: has=%v enabled=%v", rec.HasMailbox, rec.MailboxEnabled)
	}
	if len(rec.Forwards) != 0 {
		t.Errorf("Expected no forwards, got %v", rec.Forwards)
	}
	if rec.Personal != "" {
		t.Errorf("Expected undefined personal, got %q", rec.Personal)
	}
	if rec.CreationTime != "1700000000" || rec.ExpiryTime != "" || rec.HardQuota != "" {
		t.Errorf("Unexpected scalars: %+v", rec)
	}
}

func TestDecodeRecordUnknownFlags(t *testing.T) {
	// Key 0x63 and its value 0x00 must be skipped as a pair.
	chunk := []byte("\x02\x63\x00\x08\x01\x07\x09\x00" + "pw\x00\x00a@x\x00b@y\x00\x00-\x00")
	rec, err := DecodeRecord(chunk, false)
	ok(t, err)
	if !rec.MailboxEnabled {
		t.Errorf("Flag after unknown key was not read")
	}
	if !reflect.DeepEqual([]string{"a@x", "b@y"}, rec.Forwards) {
		t.Errorf("Unexpected forwards %v", rec.Forwards)
	}
	if rec.Mailbox != "" {
		t.Errorf("Expected undefined mailbox, got %q", rec.Mailbox)
	}
	// A lone dash is kept for personal information.
	if rec.Personal != "-" {
		t.Errorf("Expected personal \"-\", got %q", rec.Personal)
	}
	// Missing trailing scalars are undefined.
	if rec.HardQuota != "" || rec.ExpiryTime != "" {
		t.Errorf("Expected undefined scalars, got %+v", rec)
	}
}

func TestDecodeRecordBadVersion(t *testing.T) {
	_, err := DecodeRecord([]byte("\x03\x08\x01\x00crypt"), false)
	isErr(t, err, ErrUnsupportedRecordVersion)

	var pe *ProtocolError
	if errors.As(err, &pe) {
		if pe.Offset != 0 || pe.Value != byte(3) {
			t.Errorf("Expected version 3 at offset 0, got %v at %d", pe.Value, pe.Offset)
		}
	} else {
		t.Errorf("Expected ProtocolError, got %T", err)
	}
}

func TestDecodeRecordTruncated(t *testing.T) {
	cases := []struct {
		chunk    string
		withName bool
	}{
		{"", false},
		{"\x02", false},
		{"\x02\x08", false},
		{"\x02\x08\x01", false},
		{"bob", true},
		{"\x00\x02\x00", true},
	}
	for i, c := range cases {
		_, err := DecodeRecord([]byte(c.chunk), c.withName)
		if !errors.Is(err, ErrTruncatedBuffer) {
			t.Errorf("Case #%d: expected truncated buffer, got %v", i, err)
		}
	}
}

func TestRecordRoundTrip(t *testing.T) {
	recs := []*Record{
		{
			Name:              "alice",
			MailboxEnabled:    true,
			HasMailbox:        true,
			PasswordHash:      "$1$abc$def",
			Mailbox:           "./users/alice",
			Forwards:          []string{"a@example.org", "b@example.net"},
			Personal:          "Alice Example",
			HardQuota:         "1000000",
			SoftQuota:         "900000",
			MessageSizeLimit:  "50000",
			MessageCountLimit: "100",
			CreationTime:      "1700000000",
			ExpiryTime:        "1800000000",
		},
		{Name: "empty"},
	}
	for _, want := range recs {
		for _, withName := range []bool{true, false} {
			got, err := DecodeRecord(EncodeRecord(want, withName), withName)
			ok(t, err)
			if got == nil {
				continue
			}
			if !withName {
				got.Name = want.Name
			}
			if !reflect.DeepEqual(want, got) {
				t.Errorf("Expected %+v, got %+v", want, got)
			}
		}
	}
}
