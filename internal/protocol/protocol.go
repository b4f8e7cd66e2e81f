// Package protocol defines the line-delimited JSON framing spoken by the notify bridge.
package protocol

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
)

const (
	DefaultHost = "localhost"
	DefaultPort = 9876

	// MaxReplyBytes bounds how much of a bridge reply is read.
	MaxReplyBytes = 1024
)

// Request is one notification as written on the wire.
type Request struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Sound   string `json:"sound,omitempty"`
}

// Encode renders req as a single JSON line terminated by '\n'.
func Encode(req Request) ([]byte, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return append(data, '\n'), nil
}

// Reply is the opaque text line returned by the bridge.
type Reply string

const rejectionPrefix = "ERROR:"

// NewReply strips trailing whitespace from raw reply bytes.
func NewReply(raw []byte) Reply {
	return Reply(strings.TrimRightFunc(string(raw), unicode.IsSpace))
}

// Accepted reports whether the bridge acknowledged the notification.
func (r Reply) Accepted() bool {
	return string(r) == "OK"
}

// Rejection returns the bridge's error detail, or "" when r is not an ERROR reply.
func (r Reply) Rejection() string {
	text := string(r)
	if !strings.HasPrefix(text, rejectionPrefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(text, rejectionPrefix))
}

func (r Reply) String() string {
	return string(r)
}
