// vmailmgr
// Copyright 2026 Blue Static <https://www.bluestatic.org>
// This program is free software licensed under the GNU General Public License,
// version 3.0. The full text of the license can be found in LICENSE.txt.
// SPDX-License-Identifier: GPL-3.0-only

package vmailmgr

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"go.uber.org/zap"
)

// DefaultSocket is where vmailmgrd listens unless configured otherwise.
const DefaultSocket = "/tmp/.vmailmgrd"

const DefaultTimeout = 30 * time.Second

// Client sends commands to the daemon. The daemon serves one request per
// connection, so every call dials a fresh socket. A Client is safe for
// concurrent use.
type Client struct {
	socket  string
	timeout time.Duration
	log     *zap.Logger

	dial func(ctx context.Context, network, addr string) (net.Conn, error)
}

// NewClient creates a Client for the daemon listening on the unix socket at
// `socket`.
func NewClient(socket string, timeout time.Duration, log *zap.Logger) *Client {
	if socket == "" {
		socket = DefaultSocket
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	var d net.Dialer
	return &Client{
		socket:  socket,
		timeout: timeout,
		log:     log.With(zap.String("socket", socket)),
		dial:    d.DialContext,
	}
}

func (c *Client) Socket() string {
	return c.socket
}

// Status runs `command` and decodes the reply as a result code and message.
func (c *Client) Status(ctx context.Context, command string, args ...[]byte) (*Reply, error) {
	buf, err := c.transaction(ctx, command, args)
	if err != nil {
		return nil, err
	}
	reply, err := DecodeStatusReply(buf)
	if err != nil {
		return nil, fmt.Errorf("Bad %s reply: %w", command, err)
	}
	c.logReply(command, reply)
	return reply, nil
}

// Data runs `command` and decodes the reply as a payload followed by a
// status message.
func (c *Client) Data(ctx context.Context, command string, args ...[]byte) (*Reply, error) {
	buf, err := c.transaction(ctx, command, args)
	if err != nil {
		return nil, err
	}
	reply, err := DecodeDataReply(buf)
	if err != nil {
		return nil, fmt.Errorf("Bad %s reply: %w", command, err)
	}
	c.logReply(command, reply)
	return reply, nil
}

// Raw runs `command` and returns a cursor over the reply chunks.
func (c *Client) Raw(ctx context.Context, command string, args ...[]byte) (*ReplyReader, error) {
	buf, err := c.transaction(ctx, command, args)
	if err != nil {
		return nil, err
	}
	rr, err := NewReplyReader(buf)
	if err != nil {
		return nil, fmt.Errorf("Bad %s reply: %w", command, err)
	}
	return rr, nil
}

func (c *Client) logReply(command string, reply *Reply) {
	log := c.log.With(zap.String("command", command), zap.Stringer("code", reply.Code))
	if reply.OK() {
		log.Info("Command succeeded", zap.String("reply", reply.Message))
	} else {
		log.Error("Command failed", zap.String("reply", reply.Message))
	}
}

// transaction performs one request/response exchange and returns the raw
// reply bytes. Arguments are never logged since they carry passwords.
func (c *Client) transaction(ctx context.Context, command string, args [][]byte) ([]byte, error) {
	log := c.log.With(zap.String("command", command), zap.Int("args", len(args)))

	req, err := BuildRequest(command, args)
	if err != nil {
		log.Error("Failed to build request", zap.Error(err))
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	nc, err := c.dial(ctx, "unix", c.socket)
	if err != nil {
		log.Error("Failed to connect", zap.Error(err))
		return nil, fmt.Errorf("Failed to connect to %s: %w", c.socket, err)
	}
	defer nc.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := nc.SetDeadline(deadline); err != nil {
			log.Error("Failed to set deadline", zap.Error(err))
			return nil, fmt.Errorf("Failed to set deadline on %s: %w", c.socket, err)
		}
	}

	log.Debug("Sending transaction")
	if _, err := nc.Write(req); err != nil {
		log.Error("Failed to send command", zap.Error(err))
		return nil, fmt.Errorf("Failed to send %s: %w", command, err)
	}

	reply, err := io.ReadAll(nc)
	if err != nil {
		log.Error("Failed to read reply", zap.Error(err))
		return nil, fmt.Errorf("Failed to read %s reply: %w", command, err)
	}
	log.Debug("Received reply", zap.Int("bytes", len(reply)))
	return reply, nil
}
