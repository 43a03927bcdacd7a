// vmailmgr
// Copyright 2026 Blue Static <https://www.bluestatic.org>
// This program is free software licensed under the GNU General Public License,
// version 3.0. The full text of the license can be found in LICENSE.txt.
// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"src.bluestatic.org/vmailmgr/pkg/vmailmgr"
)

type Config struct {
	// Socket is the path of the vmailmgrd unix socket.
	Socket string `mapstructure:"socket"`

	Domain string `mapstructure:"domain"`
	// User is the mailbox to log in as. Ignored when Admin is set.
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Admin    bool   `mapstructure:"admin"`

	Timeout time.Duration `mapstructure:"timeout"`
	Verbose bool          `mapstructure:"verbose"`
}

func addFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a JSON, YAML or TOML config file")
	fs.String("socket", vmailmgr.DefaultSocket, "vmailmgrd socket path")
	fs.StringP("domain", "d", "", "virtual domain")
	fs.StringP("user", "u", "", "mailbox to log in as")
	fs.StringP("password", "p", "", "password (or VMAILMGR_PASSWORD)")
	fs.BoolP("admin", "a", false, "authenticate as the domain administrator")
	fs.Duration("timeout", vmailmgr.DefaultTimeout, "per-command timeout")
	fs.BoolP("verbose", "v", false, "log protocol exchanges")
}

// LoadConfig merges, from lowest to highest precedence, flag defaults, the
// config file, VMAILMGR_* environment variables and explicitly set flags.
func LoadConfig(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}
	v.SetEnvPrefix("vmailmgr")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("Failed to read config file: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("Failed to decode config: %w", err)
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c.Socket == "" {
		return fmt.Errorf("Missing socket")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("Invalid timeout: %v", c.Timeout)
	}
	if c.Domain == "" {
		return fmt.Errorf("Missing domain")
	}
	if !c.Admin && c.User == "" {
		return fmt.Errorf("Missing user for mailbox login")
	}
	if c.Password == "" {
		return fmt.Errorf("Missing password")
	}
	return nil
}

func (c *Config) Role() vmailmgr.Role {
	if c.Admin {
		return vmailmgr.RoleAdmin
	}
	return vmailmgr.RoleOwner
}
