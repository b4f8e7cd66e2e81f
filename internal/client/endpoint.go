package client

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/rbright/notifyctl/internal/protocol"
)

// Endpoint identifies the bridge listener.
type Endpoint struct {
	Host string
	Port int
}

// DefaultEndpoint is the loopback bridge address.
func DefaultEndpoint() Endpoint {
	return Endpoint{Host: protocol.DefaultHost, Port: protocol.DefaultPort}
}

// Address renders host:port, bracketing IPv6 literals.
func (e Endpoint) Address() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

func (e Endpoint) String() string {
	return e.Address()
}

// Validate rejects endpoints that cannot be dialed.
func (e Endpoint) Validate() error {
	if strings.TrimSpace(e.Host) == "" {
		return errors.New("host must not be empty")
	}
	if e.Port < 1 || e.Port > 65535 {
		return fmt.Errorf("port %d out of range 1-65535", e.Port)
	}
	return nil
}
