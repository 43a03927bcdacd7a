// vmailmgr
// Copyright 2026 Blue Static <https://www.bluestatic.org>
// This program is free software licensed under the GNU General Public License,
// version 3.0. The full text of the license can be found in LICENSE.txt.
// SPDX-License-Identifier: GPL-3.0-only

package vmailmgr

import (
	"encoding/binary"
	"io"
	"net"

	"go.uber.org/zap"
)

// Handler answers one daemon request with an encoded reply, as built by
// EncodeReply.
type Handler interface {
	HandleRequest(*Request) []byte
}

type HandlerFunc func(*Request) []byte

func (f HandlerFunc) HandleRequest(req *Request) []byte {
	return f(req)
}

// ReadRequest reads exactly one request envelope from `r`.
func ReadRequest(r io.Reader) (*Request, error) {
	header := make([]byte, envelopeHeaderLen)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}
	buf := make([]byte, envelopeHeaderLen+int(binary.BigEndian.Uint16(header[1:])))
	copy(buf, header)
	if _, err := io.ReadFull(r, buf[envelopeHeaderLen:]); err != nil {
		return nil, err
	}
	return ParseRequest(buf)
}

// AcceptConnection serves a single daemon exchange on `netConn`: it reads one
// request, passes it to `h`, writes the reply and closes the connection.
func AcceptConnection(netConn net.Conn, h Handler, log *zap.Logger) {
	defer netConn.Close()

	req, err := ReadRequest(netConn)
	if err != nil {
		log.Error("Failed to read request", zap.Error(err))
		reply, _ := EncodeReply(CodeBadRequest, []byte("malformed request"))
		netConn.Write(reply)
		return
	}

	log = log.With(zap.String("command", req.Command), zap.Int("args", len(req.Args)))
	log.Debug("Accepted request")

	reply := h.HandleRequest(req)
	if len(reply) > 0 && ResultCode(reply[0]) != CodeOK {
		log.Info("Request failed", zap.Stringer("code", ResultCode(reply[0])))
	}
	if _, err := netConn.Write(reply); err != nil {
		log.Error("Failed to write reply", zap.Error(err))
	}
}

// Serve accepts connections on `l` until it is closed, running each exchange
// on its own goroutine.
func Serve(l net.Listener, h Handler, log *zap.Logger) error {
	for {
		conn, err := l.Accept()
		if err != nil {
			return err
		}
		go AcceptConnection(conn, h, log)
	}
}
