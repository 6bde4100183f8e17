// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package postmessage

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"syscall"
	"time"
)

// maxMessageSize bounds a single line. Task messages are a few dozen
// bytes.
const maxMessageSize = 64 * 1024

// idleTimeout closes connections that stop sending.
const idleTimeout = 30 * time.Second

// Handler receives one raw message line. The slice is owned by the
// handler.
type Handler func(message []byte)

// Listener accepts message connections on a Unix socket.
type Listener struct {
	socketPath string
	handler    Handler
	logger     *slog.Logger

	ready     chan struct{}
	readyOnce sync.Once

	activeConnections sync.WaitGroup
}

// NewListener creates a listener for socketPath. Call [Listener.Serve]
// to start it.
func NewListener(socketPath string, handler Handler, logger *slog.Logger) *Listener {
	return &Listener{
		socketPath: socketPath,
		handler:    handler,
		logger:     logger,
		ready:      make(chan struct{}),
	}
}

// Listen is shorthand for NewListener(...).Serve(ctx).
func Listen(ctx context.Context, socketPath string, handler Handler, logger *slog.Logger) error {
	return NewListener(socketPath, handler, logger).Serve(ctx)
}

// Ready is closed once the socket is accepting connections.
func (listener *Listener) Ready() <-chan struct{} { return listener.ready }

// Serve accepts connections until ctx is cancelled, then waits for
// active connections to finish. A stale socket file at the path is
// removed first; the socket file is removed on return.
func (listener *Listener) Serve(ctx context.Context) error {
	if err := os.Remove(listener.socketPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing stale socket %s: %w", listener.socketPath, err)
	}

	socket, err := net.Listen("unix", listener.socketPath)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", listener.socketPath, err)
	}
	defer func() {
		socket.Close()
		os.Remove(listener.socketPath)
	}()

	// Unblock Accept, and any connection blocked in Read, on cancel.
	connectionContext, cancelConnections := context.WithCancel(ctx)
	defer cancelConnections()
	go func() {
		<-connectionContext.Done()
		socket.Close()
	}()

	listener.logger.Info("message listener ready", "path", listener.socketPath)
	listener.readyOnce.Do(func() { close(listener.ready) })

	for {
		conn, err := socket.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			listener.logger.Error("accept failed", "error", err)
			continue
		}

		listener.activeConnections.Add(1)
		go func() {
			defer listener.activeConnections.Done()
			listener.handleConnection(connectionContext, conn)
		}()
	}

	cancelConnections()
	listener.activeConnections.Wait()
	return nil
}

func (listener *Listener) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), maxMessageSize)
	for {
		conn.SetReadDeadline(time.Now().Add(idleTimeout))
		if !scanner.Scan() {
			break
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		// The scanner reuses its buffer.
		listener.handler(append([]byte(nil), line...))
	}

	if err := scanner.Err(); err != nil && !isExpectedCloseError(err) && ctx.Err() == nil {
		listener.logger.Warn("message connection failed", "error", err)
	}
}

// Send connects to socketPath and writes message as one JSON line. The
// context's deadline bounds the dial and the write.
func Send(ctx context.Context, socketPath string, message any) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("encoding message: %w", err)
	}
	data = append(data, '\n')

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "unix", socketPath)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", socketPath, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetWriteDeadline(deadline)
	}
	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("writing message: %w", err)
	}
	return nil
}

// isExpectedCloseError reports whether err is a normal connection
// termination: EOF, closed connection, broken pipe, or connection
// reset. A timeout on an idle client counts too.
func isExpectedCloseError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == syscall.EPIPE || errno == syscall.ECONNRESET
	}
	return false
}
