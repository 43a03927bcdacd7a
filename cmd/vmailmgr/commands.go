// vmailmgr
// Copyright 2026 Blue Static <https://www.bluestatic.org>
// This program is free software licensed under the GNU General Public License,
// version 3.0. The full text of the license can be found in LICENSE.txt.
// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"src.bluestatic.org/vmailmgr/pkg/vmailmgr"
)

type usageError string

func (e usageError) Error() string { return string(e) }

func usagef(format string, args ...any) error {
	return usageError(fmt.Sprintf(format, args...))
}

func (c *cli) domain() *vmailmgr.DomainSession {
	return vmailmgr.NewDomainSession(c.client, c.cfg.Domain, c.cfg.Password)
}

func (c *cli) user() *vmailmgr.UserSession {
	return vmailmgr.NewUserSession(c.client, c.cfg.Domain, c.cfg.User, c.cfg.Password)
}

// target splits the leading user argument off `args` for admin commands.
func (c *cli) target(cmd string, args []string) (string, []string, error) {
	if !c.cfg.Admin {
		return c.cfg.User, args, nil
	}
	if len(args) < 1 {
		return "", nil, usagef("%s: missing user", cmd)
	}
	return args[0], args[1:], nil
}

func (c *cli) requireAdmin(cmd string) error {
	if !c.cfg.Admin {
		return usagef("%s requires --admin", cmd)
	}
	return nil
}

func (c *cli) dispatch(ctx context.Context, cmd string, args []string) error {
	c.log.Debug("Running command", zap.String("command", cmd), zap.Stringer("role", c.cfg.Role()))
	switch cmd {
	case "check":
		return c.doCheck(ctx)
	case "lookup":
		return c.doLookup(ctx, args)
	case "list":
		return c.doList(ctx)
	case "adduser":
		return c.doAddUser(ctx, args)
	case "addalias":
		return c.doAddAlias(ctx, args)
	case "deluser":
		return c.doDelUser(ctx, args)
	case "forward":
		return c.doForward(ctx, args)
	case "set":
		return c.doSet(ctx, args)
	case "autoresponse":
		return c.doAutoresponse(ctx, args)
	default:
		return usagef("unknown command %q", cmd)
	}
}

func (c *cli) doCheck(ctx context.Context) error {
	var err error
	if c.cfg.Admin {
		err = c.domain().Check(ctx)
	} else {
		err = c.user().Check(ctx)
	}
	if err == nil {
		fmt.Fprintln(c.stdout, "OK")
	}
	return err
}

func (c *cli) doLookup(ctx context.Context, args []string) error {
	user, args, err := c.target("lookup", args)
	if err != nil {
		return err
	}
	if len(args) != 0 {
		return usagef("lookup: too many arguments")
	}
	var rec *vmailmgr.Record
	if c.cfg.Admin {
		rec, err = c.domain().Lookup(ctx, user)
	} else {
		rec, err = c.user().Lookup(ctx)
	}
	if err != nil {
		return err
	}
	printRecord(c.stdout, rec)
	return nil
}

func (c *cli) doList(ctx context.Context) error {
	if err := c.requireAdmin("list"); err != nil {
		return err
	}
	recs, err := c.domain().List(ctx)
	if err != nil {
		return err
	}
	for i, rec := range recs {
		if i > 0 {
			fmt.Fprintln(c.stdout)
		}
		printRecord(c.stdout, rec)
	}
	return nil
}

func (c *cli) doAddUser(ctx context.Context, args []string) error {
	if err := c.requireAdmin("adduser"); err != nil {
		return err
	}
	if len(args) < 2 {
		return usagef("adduser: need <user> <password>")
	}
	return c.domain().AddUser(ctx, args[0], args[1], args[2:]...)
}

func (c *cli) doAddAlias(ctx context.Context, args []string) error {
	if err := c.requireAdmin("addalias"); err != nil {
		return err
	}
	if len(args) < 2 {
		return usagef("addalias: need <name> <forward...>")
	}
	return c.domain().AddAlias(ctx, args[0], args[1:]...)
}

func (c *cli) doDelUser(ctx context.Context, args []string) error {
	if err := c.requireAdmin("deluser"); err != nil {
		return err
	}
	if len(args) != 1 {
		return usagef("deluser: need <user>")
	}
	return c.domain().DeleteUser(ctx, args[0])
}

func (c *cli) doForward(ctx context.Context, args []string) error {
	if err := c.requireAdmin("forward"); err != nil {
		return err
	}
	if len(args) < 1 {
		return usagef("forward: need <user>")
	}
	return c.domain().SetForwards(ctx, args[0], args[1:])
}

func (c *cli) doSet(ctx context.Context, args []string) error {
	user, args, err := c.target("set", args)
	if err != nil {
		return err
	}
	if len(args) < 1 || len(args) > 2 {
		return usagef("set: need <attribute> [value]")
	}
	attr, err := vmailmgr.AttributeID(c.cfg.Role(), args[0])
	if err != nil {
		return usagef("set: %v (one of: %s)", err, strings.Join(vmailmgr.AttributeNames(c.cfg.Role()), ", "))
	}
	var value *string
	if len(args) == 2 {
		value = vmailmgr.Value(args[1])
	}
	if c.cfg.Admin {
		return c.domain().SetAttribute(ctx, user, attr, value)
	}
	return c.user().SetAttribute(ctx, attr, value)
}

func (c *cli) doAutoresponse(ctx context.Context, args []string) error {
	user, args, err := c.target("autoresponse", args)
	if err != nil {
		return err
	}
	if len(args) < 1 {
		return usagef("autoresponse: missing action")
	}
	var ar *vmailmgr.Autoresponder
	if c.cfg.Admin {
		ar = c.domain().Autoresponder(user)
	} else {
		ar = c.user().Autoresponder()
	}

	switch action := args[0]; action {
	case "read":
		msg, err := ar.Read(ctx)
		if err != nil {
			return err
		}
		_, err = c.stdout.Write(msg)
		return err
	case "write":
		var msg []byte
		if len(args) > 1 {
			msg = []byte(strings.Join(args[1:], " "))
		} else if msg, err = io.ReadAll(c.stdin); err != nil {
			return err
		}
		return ar.Write(ctx, msg)
	case "enable":
		return ar.Enable(ctx)
	case "disable":
		return ar.Disable(ctx)
	case "delete":
		return ar.Delete(ctx)
	case "status":
		st, err := ar.Status(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.stdout, st)
		return nil
	default:
		return usagef("autoresponse: unknown action %q", action)
	}
}

func printRecord(w io.Writer, rec *vmailmgr.Record) {
	field := func(name, value string) {
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(w, "%-20s %s\n", name+":", value)
	}
	field("name", rec.Name)
	field("mailbox_enabled", fmt.Sprint(rec.MailboxEnabled))
	field("has_mailbox", fmt.Sprint(rec.HasMailbox))
	field("mailbox", rec.Mailbox)
	field("forwards", strings.Join(rec.Forwards, ", "))
	field("personal", rec.Personal)
	field("hard_quota", rec.HardQuota)
	field("soft_quota", rec.SoftQuota)
	field("message_size_limit", rec.MessageSizeLimit)
	field("message_count_limit", rec.MessageCountLimit)
	field("created", rec.CreationTime)
	field("expiry", rec.ExpiryTime)
}
