// vmailmgr
// Copyright 2026 Blue Static <https://www.bluestatic.org>
// This program is free software licensed under the GNU General Public License,
// version 3.0. The full text of the license can be found in LICENSE.txt.
// SPDX-License-Identifier: GPL-3.0-only

package vmailmgr

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"
)

// Daemon command names.
const (
	CmdCheck        = "check"
	CmdLookup       = "lookup"
	CmdListDomain   = "listdomain"
	CmdAddUser      = "adduser2"
	CmdAddAlias     = "addalias"
	CmdDeleteUser   = "deluser"
	CmdChangeAttr   = "chattr"
	CmdAutoresponse = "autoresponse"
)

type session struct {
	c      *Client
	log    *zap.Logger
	domain string
	// name is the authenticating user, empty for the domain administrator.
	name     string
	password string
}

func (s *session) status(ctx context.Context, command string, args ...string) error {
	reply, err := s.c.Status(ctx, command, StringArgs(args...)...)
	if err != nil {
		return err
	}
	return reply.Err()
}

func (s *session) lookup(ctx context.Context, user string) (*Record, error) {
	reply, err := s.c.Data(ctx, CmdLookup, StringArgs(s.domain, user, s.password)...)
	if err != nil {
		return nil, err
	}
	if err := reply.Err(); err != nil {
		return nil, err
	}
	rec, err := DecodeRecord(reply.Data, false)
	if err != nil {
		s.log.Error("Bad mailbox record", zap.String("user", user), zap.Error(err))
		return nil, fmt.Errorf("Failed to decode record for %s: %w", user, err)
	}
	rec.Name = user
	return rec, nil
}

func (s *session) setAttribute(ctx context.Context, r Role, user string, a Attribute, values ...[]byte) error {
	if err := r.Check(a); err != nil {
		return err
	}
	args := StringArgs(s.domain, user, s.password, strconv.Itoa(int(a)))
	args = append(args, values...)
	reply, err := s.c.Status(ctx, CmdChangeAttr, args...)
	if err != nil {
		return err
	}
	if err := reply.Err(); err != nil {
		return err
	}
	s.log.Info("Changed attribute", zap.String("user", user), zap.Stringer("attribute", a))
	return nil
}

// DomainSession issues commands as the domain administrator.
type DomainSession struct {
	session
}

func NewDomainSession(c *Client, domain, password string) *DomainSession {
	return &DomainSession{session{
		c:        c,
		log:      c.log.With(zap.String("domain", domain), zap.Stringer("role", RoleAdmin)),
		domain:   domain,
		password: password,
	}}
}

func (s *DomainSession) Domain() string { return s.domain }

// Check verifies the domain password.
func (s *DomainSession) Check(ctx context.Context) error {
	return s.status(ctx, CmdCheck, s.domain, "", s.password)
}

// Lookup fetches the record of one user in the domain.
func (s *DomainSession) Lookup(ctx context.Context, user string) (*Record, error) {
	return s.lookup(ctx, user)
}

// List returns the record of every user in the domain.
func (s *DomainSession) List(ctx context.Context) ([]*Record, error) {
	rr, err := s.c.Raw(ctx, CmdListDomain, StringArgs(s.domain, s.password)...)
	if err != nil {
		return nil, err
	}
	msg, err := rr.NextChunk()
	if err != nil {
		return nil, err
	}
	if rr.Code != CodeOK {
		return nil, &DaemonError{Code: rr.Code, Message: string(msg)}
	}

	var recs []*Record
	for rr.More() {
		offset := rr.Offset()
		chunk, err := rr.NextChunk()
		if err != nil {
			return nil, err
		}
		if chunk == nil {
			break
		}
		rec, err := DecodeRecord(chunk, true)
		if err != nil {
			s.log.Error("Bad listing record", zap.Int("offset", offset), zap.Error(err))
			return nil, fmt.Errorf("Failed to decode listing: %w", err)
		}
		recs = append(recs, rec)
	}
	s.log.Info("Listed domain", zap.Int("users", len(recs)))
	return recs, nil
}

// AddUser creates a mailbox for `user`, optionally forwarding its mail.
func (s *DomainSession) AddUser(ctx context.Context, user, password string, forwards ...string) error {
	args := append([]string{s.domain, user, s.password, password}, forwards...)
	return s.status(ctx, CmdAddUser, args...)
}

// AddAlias creates a forward-only entry with no mailbox.
func (s *DomainSession) AddAlias(ctx context.Context, name string, forwards ...string) error {
	if len(forwards) == 0 {
		return fmt.Errorf("Alias %q needs at least one forward", name)
	}
	args := append([]string{s.domain, name, s.password, ""}, forwards...)
	return s.status(ctx, CmdAddAlias, args...)
}

func (s *DomainSession) DeleteUser(ctx context.Context, user string) error {
	return s.status(ctx, CmdDeleteUser, s.domain, user, s.password)
}

// SetAttribute changes one attribute of `user`. A nil value clears it.
func (s *DomainSession) SetAttribute(ctx context.Context, user string, a Attribute, value *string) error {
	return s.setAttribute(ctx, RoleAdmin, user, a, EncodeAttributeValue(a, value))
}

// SetForwards replaces the forward addresses of `user`. An empty list clears
// them.
func (s *DomainSession) SetForwards(ctx context.Context, user string, forwards []string) error {
	if len(forwards) == 0 {
		return s.SetAttribute(ctx, user, AttrDestination, nil)
	}
	return s.setAttribute(ctx, RoleAdmin, user, AttrDestination, StringArgs(forwards...)...)
}

// Autoresponder manages the autoresponder of `user`.
func (s *DomainSession) Autoresponder(user string) *Autoresponder {
	return &Autoresponder{s: &s.session, user: user}
}

// UserSession issues commands as an authenticated mailbox owner.
type UserSession struct {
	session
}

func NewUserSession(c *Client, domain, user, password string) *UserSession {
	return &UserSession{session{
		c:        c,
		log:      c.log.With(zap.String("domain", domain), zap.String("user", user), zap.Stringer("role", RoleOwner)),
		domain:   domain,
		name:     user,
		password: password,
	}}
}

func (s *UserSession) Domain() string { return s.domain }
func (s *UserSession) User() string   { return s.name }

// Check verifies the mailbox password.
func (s *UserSession) Check(ctx context.Context) error {
	return s.status(ctx, CmdCheck, s.domain, s.name, s.password)
}

// Lookup logs in to the mailbox and returns its record.
func (s *UserSession) Lookup(ctx context.Context) (*Record, error) {
	return s.lookup(ctx, s.name)
}

// SetAttribute changes one of the attributes an owner may set. A nil value
// clears it.
func (s *UserSession) SetAttribute(ctx context.Context, a Attribute, value *string) error {
	return s.setAttribute(ctx, RoleOwner, s.name, a, EncodeAttributeValue(a, value))
}

func (s *UserSession) Autoresponder() *Autoresponder {
	return &Autoresponder{s: &s.session, user: s.name}
}

// Autoresponse actions.
const (
	autoresponseRead    = "read"
	autoresponseWrite   = "write"
	autoresponseEnable  = "enable"
	autoresponseDisable = "disable"
	autoresponseDelete  = "delete"
	autoresponseStatus  = "status"
)

type Autoresponder struct {
	s    *session
	user string
}

func (a *Autoresponder) args(action string) []string {
	return []string{a.s.domain, a.user, a.s.password, action}
}

// Read returns the raw autoresponse message.
func (a *Autoresponder) Read(ctx context.Context) ([]byte, error) {
	reply, err := a.s.c.Data(ctx, CmdAutoresponse, StringArgs(a.args(autoresponseRead)...)...)
	if err != nil {
		return nil, err
	}
	if err := reply.Err(); err != nil {
		return nil, err
	}
	return reply.Data, nil
}

// Write stores `msg` as the autoresponse message.
func (a *Autoresponder) Write(ctx context.Context, msg []byte) error {
	args := append(StringArgs(a.args(autoresponseWrite)...), msg)
	reply, err := a.s.c.Status(ctx, CmdAutoresponse, args...)
	if err != nil {
		return err
	}
	return reply.Err()
}

func (a *Autoresponder) Enable(ctx context.Context) error {
	return a.s.status(ctx, CmdAutoresponse, a.args(autoresponseEnable)...)
}

func (a *Autoresponder) Disable(ctx context.Context) error {
	return a.s.status(ctx, CmdAutoresponse, a.args(autoresponseDisable)...)
}

func (a *Autoresponder) Delete(ctx context.Context) error {
	return a.s.status(ctx, CmdAutoresponse, a.args(autoresponseDelete)...)
}

// Status returns the daemon's description of the autoresponder state.
func (a *Autoresponder) Status(ctx context.Context) (string, error) {
	reply, err := a.s.c.Status(ctx, CmdAutoresponse, StringArgs(a.args(autoresponseStatus)...)...)
	if err != nil {
		return "", err
	}
	if err := reply.Err(); err != nil {
		return "", err
	}
	return reply.Message, nil
}
