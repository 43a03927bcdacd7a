// vmailmgr
// Copyright 2026 Blue Static <https://www.bluestatic.org>
// This program is free software licensed under the GNU General Public License,
// version 3.0. The full text of the license can be found in LICENSE.txt.
// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestInvalidConfigs(t *testing.T) {
	configs := []Config{
		// Missing Socket.
		{Timeout: time.Second, Domain: "d", User: "u", Password: "p"},
		// Missing Timeout.
		{Socket: "/s", Domain: "d", User: "u", Password: "p"},
		// Missing Domain.
		{Socket: "/s", Timeout: time.Second, User: "u", Password: "p"},
		// Missing User for an owner login.
		{Socket: "/s", Timeout: time.Second, Domain: "d", Password: "p"},
		// Missing Password.
		{Socket: "/s", Timeout: time.Second, Domain: "d", Admin: true},
	}
	for i, cfg := range configs {
		err := cfg.Validate()
		if err == nil {
			t.Errorf("Expected error for config #%d: %#v", i, cfg)
		}
	}

	admin := Config{Socket: "/s", Timeout: time.Second, Domain: "d", Password: "p", Admin: true}
	if err := admin.Validate(); err != nil {
		t.Errorf("Admin config without user should be valid: %v", err)
	}
}

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	addFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatal(err)
	}
	return fs
}

func TestLoadConfigPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vmailmgr.yaml")
	err := os.WriteFile(path, []byte("socket: /var/run/vmailmgrd\ndomain: file.example\nuser: filebob\ntimeout: 5s\n"), 0600)
	if err != nil {
		t.Fatal(err)
	}
	t.Setenv("VMAILMGR_USER", "envbob")
	t.Setenv("VMAILMGR_PASSWORD", "envpw")

	c, err := LoadConfig(newFlags(t, "--config", path, "-d", "flag.example"))
	if err != nil {
		t.Fatal(err)
	}
	if c.Socket != "/var/run/vmailmgrd" {
		t.Errorf("Expected socket from file, got %q", c.Socket)
	}
	if c.Domain != "flag.example" {
		t.Errorf("Expected domain from flag, got %q", c.Domain)
	}
	if c.User != "envbob" || c.Password != "envpw" {
		t.Errorf("Expected user and password from env, got %q/%q", c.User, c.Password)
	}
	if c.Timeout != 5*time.Second {
		t.Errorf("Expected timeout 5s, got %v", c.Timeout)
	}
	if c.Role().String() != "owner" {
		t.Errorf("Expected owner role, got %v", c.Role())
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	c, err := LoadConfig(newFlags(t, "-a"))
	if err != nil {
		t.Fatal(err)
	}
	if c.Socket != "/tmp/.vmailmgrd" || c.Timeout != 30*time.Second || !c.Admin {
		t.Errorf("Unexpected defaults %#v", c)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(newFlags(t, "--config", filepath.Join(t.TempDir(), "nope.json")))
	if err == nil {
		t.Errorf("Expected error for missing config file")
	}
}
