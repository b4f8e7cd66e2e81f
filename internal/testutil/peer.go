// Package testutil provides a scripted loopback bridge peer for tests.
package testutil

import (
	"bufio"
	"errors"
	"net"
	"sync"
	"testing"
)

// Handler maps one received line to the bytes written back. A nil return
// closes the connection without replying.
type Handler func(line []byte) []byte

// Reply answers every request with text followed by a newline.
func Reply(text string) Handler {
	return func([]byte) []byte {
		return []byte(text + "\n")
	}
}

// Echo writes every received line back unchanged.
func Echo() Handler {
	return func(line []byte) []byte {
		return line
	}
}

// Hangup closes each connection after reading the request.
func Hangup() Handler {
	return func([]byte) []byte {
		return nil
	}
}

// Peer is a TCP listener on 127.0.0.1 that serves one line per connection.
type Peer struct {
	listener net.Listener
	handler  Handler

	mu    sync.Mutex
	lines [][]byte
	wg    sync.WaitGroup
}

// StartPeer listens on an ephemeral loopback port until the test ends.
func StartPeer(t testing.TB, handler Handler) *Peer {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	p := &Peer{listener: listener, handler: handler}
	p.wg.Add(1)
	go p.serve()

	t.Cleanup(func() {
		_ = listener.Close()
		p.wg.Wait()
	})
	return p
}

// Host returns the listening IP.
func (p *Peer) Host() string {
	return p.listener.Addr().(*net.TCPAddr).IP.String()
}

// Port returns the listening port.
func (p *Peer) Port() int {
	return p.listener.Addr().(*net.TCPAddr).Port
}

// Lines returns copies of every request line received so far.
func (p *Peer) Lines() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([][]byte, 0, len(p.lines))
	for _, line := range p.lines {
		out = append(out, append([]byte(nil), line...))
	}
	return out
}

func (p *Peer) serve() {
	defer p.wg.Done()

	for {
		conn, err := p.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			continue
		}

		p.wg.Add(1)
		go func(c net.Conn) {
			defer p.wg.Done()
			defer c.Close()

			line, err := bufio.NewReader(c).ReadBytes('\n')
			if err != nil && len(line) == 0 {
				return
			}

			p.mu.Lock()
			p.lines = append(p.lines, line)
			p.mu.Unlock()

			if reply := p.handler(line); reply != nil {
				_, _ = c.Write(reply)
			}
		}(conn)
	}
}

// FreePort returns a loopback port with nothing listening on it.
func FreePort(t testing.TB) int {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	if err := listener.Close(); err != nil {
		t.Fatalf("close listener: %v", err)
	}
	return port
}
