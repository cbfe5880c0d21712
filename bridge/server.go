// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bridge

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"

	"github.com/bureau-foundation/audiobridge/lib/clock"
	"github.com/bureau-foundation/audiobridge/lib/netutil"
)

// Server accepts bridge clients on a TCP listener and runs each on its
// own goroutine. While running it keeps trying to hold the listener: a
// failed bind, or a listener that dies, is retried every
// RetryInterval until Stop.
//
// Stop only ends the accept side. Client goroutines are detached and
// keep running until their client quits or disconnects, or until
// CloseConnections is called.
type Server struct {
	ports   *PortTable
	midi    *MIDIDriver
	options Options
	logger  *slog.Logger
	clock   clock.Clock

	mutex    sync.Mutex
	listener net.Listener
	cancel   context.CancelFunc
	done     chan struct{}
	ready    chan struct{}

	readyOnce     sync.Once
	connectionIDs atomic.Int64

	connectionsMutex sync.Mutex
	connections      map[*Connection]struct{}
}

// NewServer creates a server that binds clients into ports and
// delivers their MIDI through midiDriver.
func NewServer(ports *PortTable, midiDriver *MIDIDriver, options Options) *Server {
	options = options.withDefaults()
	return &Server{
		ports:       ports,
		midi:        midiDriver,
		options:     options,
		logger:      options.Logger,
		clock:       options.Clock,
		ready:       make(chan struct{}),
		connections: make(map[*Connection]struct{}),
	}
}

// Start launches the serve loop in the background. It does not wait
// for the listener: a bind failure is logged and retried, never
// returned. Use Ready to wait for the first successful bind. Start
// returns an error only for invalid options or a second call.
func (s *Server) Start(ctx context.Context) error {
	if err := s.options.Validate(); err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.done != nil {
		return errors.New("bridge: server already started")
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go s.serve(ctx)
	return nil
}

// Stop ends the serve loop and waits for it to exit. The listener is
// closed, which unblocks Accept. Connected clients are not touched.
// Stop is idempotent and safe to call before Start.
func (s *Server) Stop() {
	s.mutex.Lock()
	cancel, done := s.cancel, s.done
	s.mutex.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Wait blocks until the serve loop has exited.
func (s *Server) Wait() {
	s.mutex.Lock()
	done := s.done
	s.mutex.Unlock()
	if done != nil {
		<-done
	}
}

// Ready is closed once the listener has been bound for the first time.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the current listener's address, useful when binding to
// port 0. Returns nil when no listener is bound.
func (s *Server) Addr() net.Addr {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// ListenAddr returns the configured listen address.
func (s *Server) ListenAddr() string {
	return s.options.ListenAddr
}

// ConnectionCount returns the number of live client sessions.
func (s *Server) ConnectionCount() int {
	s.connectionsMutex.Lock()
	defer s.connectionsMutex.Unlock()
	return len(s.connections)
}

// CloseConnections closes every live client socket and waits for the
// sessions to unwind and release their ports.
func (s *Server) CloseConnections() {
	s.connectionsMutex.Lock()
	live := make([]*Connection, 0, len(s.connections))
	for connection := range s.connections {
		live = append(live, connection)
	}
	s.connectionsMutex.Unlock()

	for _, connection := range live {
		connection.Close()
	}
	for _, connection := range live {
		<-connection.Done()
	}
}

// serve holds a listener for as long as ctx is live, rebinding after
// failures.
func (s *Server) serve(ctx context.Context) {
	defer close(s.done)

	for {
		listener, err := netutil.Listen(ctx, s.options.ListenAddr)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.Debug("bridge server listen failed",
				"listen_addr", s.options.ListenAddr,
				"error", err,
			)
			select {
			case <-ctx.Done():
				return
			case <-s.clock.After(s.options.RetryInterval):
			}
			continue
		}

		s.setListener(listener)
		s.readyOnce.Do(func() { close(s.ready) })
		s.logger.Info("bridge server started", "listen_addr", listener.Addr().String())

		stopAccept := context.AfterFunc(ctx, func() { listener.Close() })
		s.acceptLoop(ctx, listener)
		stopAccept()
		listener.Close()
		s.setListener(nil)

		s.logger.Info("bridge server closed", "listen_addr", s.options.ListenAddr)
		if ctx.Err() != nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-s.clock.After(s.options.RetryInterval):
		}
	}
}

func (s *Server) setListener(listener net.Listener) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.listener = listener
}

// acceptLoop runs until ctx is cancelled or the listener is closed.
// Transient accept errors back off for PollInterval.
func (s *Server) acceptLoop(ctx context.Context, listener net.Listener) {
	for {
		connection, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Warn("bridge server accept failed", "error", err)
			select {
			case <-ctx.Done():
				return
			case <-s.clock.After(s.options.PollInterval):
			}
			continue
		}
		s.spawn(connection)
	}
}

// spawn starts a detached session for an accepted socket.
func (s *Server) spawn(socket net.Conn) {
	if tcp, ok := socket.(*net.TCPConn); ok {
		if err := tcp.SetNoDelay(s.options.NoDelay); err != nil {
			s.logger.Debug("setting TCP_NODELAY failed", "error", err)
		}
	}

	connection := newConnection(s.connectionIDs.Add(1), socket, s.ports, s.midi, s.options)

	s.connectionsMutex.Lock()
	s.connections[connection] = struct{}{}
	s.connectionsMutex.Unlock()

	go func() {
		defer func() {
			s.connectionsMutex.Lock()
			delete(s.connections, connection)
			s.connectionsMutex.Unlock()
		}()
		connection.Run()
	}()
}
