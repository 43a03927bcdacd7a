// vmailmgr
// Copyright 2026 Blue Static <https://www.bluestatic.org>
// This program is free software licensed under the GNU General Public License,
// version 3.0. The full text of the license can be found in LICENSE.txt.
// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"src.bluestatic.org/vmailmgr/pkg/version"
	"src.bluestatic.org/vmailmgr/pkg/vmailmgr"
)

const (
	exitUsage = 1 + iota
	exitConfig
	exitProtocol
	exitDaemon
)

const usage = `Usage: %s [flags] <command> [args]

Commands:
  version
  check
  lookup [user]
  list
  adduser <user> <password> [forward...]
  addalias <name> <forward...>
  deluser <user>
  forward <user> [forward...]
  set [user] <attribute> [value]      (omit value to unset)
  autoresponse [user] <read|write|enable|disable|delete|status> [message]

The user argument is only given with --admin.

Flags:
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr, newLogger))
}

func newLogger(verbose bool) (*zap.Logger, error) {
	logConfig := zap.NewDevelopmentConfig()
	logConfig.Development = false
	logConfig.DisableStacktrace = true
	if verbose {
		logConfig.Level.SetLevel(zap.DebugLevel)
	} else {
		logConfig.Level.SetLevel(zap.WarnLevel)
	}
	return logConfig.Build()
}

type cli struct {
	cfg    *Config
	log    *zap.Logger
	stdin  io.Reader
	stdout io.Writer
	client *vmailmgr.Client
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer, mkLog func(bool) (*zap.Logger, error)) int {
	fs := pflag.NewFlagSet("vmailmgr", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	addFlags(fs)
	fs.Usage = func() {
		fmt.Fprintf(stderr, usage, "vmailmgr")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return exitUsage
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return exitUsage
	}
	if rest[0] == "version" {
		fmt.Fprint(stdout, version.VersionString)
		return 0
	}

	cfg, err := LoadConfig(fs)
	if err != nil {
		fmt.Fprintf(stderr, "config: %s\n", err)
		return exitConfig
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "config: %s\n", err)
		return exitConfig
	}

	log, err := mkLog(cfg.Verbose)
	if err != nil {
		fmt.Fprintf(stderr, "create logger: %v\n", err)
		return exitConfig
	}
	defer log.Sync()

	c := &cli{
		cfg:    cfg,
		log:    log,
		stdin:  stdin,
		stdout: stdout,
		client: vmailmgr.NewClient(cfg.Socket, cfg.Timeout, log),
	}
	err = c.dispatch(context.Background(), rest[0], rest[1:])

	var usageErr usageError
	var daemonErr *vmailmgr.DaemonError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &usageErr):
		fmt.Fprintf(stderr, "%s\n", err)
		fs.Usage()
		return exitUsage
	case errors.As(err, &daemonErr):
		fmt.Fprintf(stderr, "%s: %s\n", rest[0], err)
		return exitDaemon
	default:
		fmt.Fprintf(stderr, "%s: %s\n", rest[0], err)
		return exitProtocol
	}
}
