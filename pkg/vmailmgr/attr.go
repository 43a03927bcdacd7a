// vmailmgr
// Copyright 2026 Blue Static <https://www.bluestatic.org>
// This program is free software licensed under the GNU General Public License,
// version 3.0. The full text of the license can be found in LICENSE.txt.
// SPDX-License-Identifier: GPL-3.0-only

package vmailmgr

import (
	"fmt"
	"strconv"
)

// Attribute is the daemon's numeric identifier for a mailbox attribute.
type Attribute byte

const (
	AttrPassword          Attribute = 1
	AttrDestination       Attribute = 2
	AttrHardQuota         Attribute = 3
	AttrSoftQuota         Attribute = 4
	AttrMessageSizeLimit  Attribute = 5
	AttrMessageCountLimit Attribute = 6
	AttrExpiry            Attribute = 7
	AttrMailboxEnabled    Attribute = 8
	AttrPersonal          Attribute = 9
)

type attrInfo struct {
	name string
	// unset is the value the daemon reads as "clear this attribute".
	unset string
}

var attributes = map[Attribute]attrInfo{
	AttrPassword:          {"password", ""},
	AttrDestination:       {"destination", ""},
	AttrHardQuota:         {"hard_quota", "-"},
	AttrSoftQuota:         {"soft_quota", "-"},
	AttrMessageSizeLimit:  {"message_size_limit", "-"},
	AttrMessageCountLimit: {"message_count_limit", "-"},
	AttrExpiry:            {"expiry", "-"},
	AttrMailboxEnabled:    {"mailbox_enabled", "0"},
	AttrPersonal:          {"personal", ""},
}

func (a Attribute) String() string {
	if info, ok := attributes[a]; ok {
		return info.name
	}
	return "attribute(" + strconv.Itoa(int(a)) + ")"
}

// Role selects which attributes a session may change.
type Role int

const (
	// RoleOwner is an authenticated mailbox owner.
	RoleOwner Role = iota
	// RoleAdmin is the domain administrator.
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleOwner:
		return "owner"
	case RoleAdmin:
		return "admin"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

var ownerAttributes = map[Attribute]bool{
	AttrMailboxEnabled: true,
	AttrPersonal:       true,
}

// Allows reports whether `r` may set attribute `a`.
func (r Role) Allows(a Attribute) bool {
	if _, ok := attributes[a]; !ok {
		return false
	}
	switch r {
	case RoleAdmin:
		return true
	case RoleOwner:
		return ownerAttributes[a]
	default:
		return false
	}
}

// Check validates `a` against the role's table.
func (r Role) Check(a Attribute) error {
	if !r.Allows(a) {
		return &ProtocolError{Kind: ErrUnknownAttribute, Value: fmt.Sprintf("%s for %s", a, r)}
	}
	return nil
}

// AttributeID resolves a symbolic attribute name within the role's table.
func AttributeID(r Role, name string) (Attribute, error) {
	for a, info := range attributes {
		if info.name == name && r.Allows(a) {
			return a, nil
		}
	}
	return 0, &ProtocolError{Kind: ErrUnknownAttribute, Value: name}
}

// AttributeNames lists the names settable by `r`, in identifier order.
func AttributeNames(r Role) []string {
	var names []string
	for a := AttrPassword; a <= AttrPersonal; a++ {
		if r.Allows(a) {
			names = append(names, a.String())
		}
	}
	return names
}

// Value returns a pointer to `s`, for passing a defined attribute value.
func Value(s string) *string {
	return &s
}

// EncodeAttributeValue returns the wire form of `value`, or the attribute's
// unset sentinel when `value` is nil.
func EncodeAttributeValue(a Attribute, value *string) []byte {
	if value != nil {
		return []byte(*value)
	}
	return []byte(attributes[a].unset)
}
