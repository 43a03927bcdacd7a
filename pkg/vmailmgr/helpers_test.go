// vmailmgr
// Copyright 2026 Blue Static <https://www.bluestatic.org>
// This program is free software licensed under the GNU General Public License,
// version 3.0. The full text of the license can be found in LICENSE.txt.
// SPDX-License-Identifier: GPL-3.0-only

package vmailmgr

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"go.uber.org/zap"
)

func _fl(depth int) string {
	_, file, line, _ := runtime.Caller(depth + 1)
	return fmt.Sprintf("[%s:%d]", filepath.Base(file), line)
}

func ok(t testing.TB, err error) {
	if err != nil {
		t.Errorf("%s unexpected error: %v", _fl(1), err)
	}
}

func isErr(t testing.TB, err, kind error) {
	if !errors.Is(err, kind) {
		t.Errorf("%s expected %v, got %v", _fl(1), kind, err)
	}
}

// runDaemon listens on a unix socket and serves every connection with `h`.
// The listener is closed when the test ends.
func runDaemon(t *testing.T, h Handler) string {
	// Unix socket paths are length limited, so avoid t.TempDir().
	dir, err := os.MkdirTemp("", "vmm")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "sock")
	l, err := net.Listen("unix", path)
	if err != nil {
		os.RemoveAll(dir)
		t.Fatal(err)
	}
	go Serve(l, h, zap.L())
	t.Cleanup(func() {
		l.Close()
		os.RemoveAll(dir)
	})
	return path
}
