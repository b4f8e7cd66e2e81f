// Package doctor runs readiness diagnostics for config and the notify bridge.
package doctor

import (
	"context"
	"fmt"
	"strings"

	"github.com/rbright/notifyctl/internal/client"
	"github.com/rbright/notifyctl/internal/config"
)

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output contract.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Bridge is the client surface the doctor exercises.
type Bridge interface {
	Probe(context.Context) (bool, error)
	SendRaw(context.Context, []byte) client.Result
}

// handshake lacks title and message, so a live bridge rejects it without
// displaying anything.
var handshake = []byte("{}\n")

// Run executes config and bridge checks. Bridge checks stop at the first failure.
func Run(ctx context.Context, cfg config.Loaded, endpoint client.Endpoint, bridge Bridge) Report {
	checks := []Check{checkConfig(cfg)}

	endpointCheck := checkEndpoint(endpoint)
	checks = append(checks, endpointCheck)
	if !endpointCheck.Pass {
		return Report{Checks: checks}
	}

	reachable := checkReachable(ctx, endpoint, bridge)
	checks = append(checks, reachable)
	if !reachable.Pass {
		return Report{Checks: checks}
	}

	checks = append(checks, checkHandshake(ctx, bridge))
	return Report{Checks: checks}
}

func checkConfig(cfg config.Loaded) Check {
	if !cfg.Exists {
		return Check{Name: "config", Pass: true, Message: fmt.Sprintf("%q not found; using defaults", cfg.Path)}
	}
	return Check{Name: "config", Pass: true, Message: fmt.Sprintf("loaded %q", cfg.Path)}
}

func checkEndpoint(endpoint client.Endpoint) Check {
	if err := endpoint.Validate(); err != nil {
		return Check{Name: "bridge.endpoint", Pass: false, Message: err.Error()}
	}
	return Check{Name: "bridge.endpoint", Pass: true, Message: endpoint.Address()}
}

func checkReachable(ctx context.Context, endpoint client.Endpoint, bridge Bridge) Check {
	alive, err := bridge.Probe(ctx)
	if err != nil {
		return Check{Name: "bridge.reachable", Pass: false, Message: err.Error()}
	}
	if !alive {
		return Check{Name: "bridge.reachable", Pass: false, Message: fmt.Sprintf("nothing listening on %s", endpoint.Address())}
	}
	return Check{Name: "bridge.reachable", Pass: true, Message: fmt.Sprintf("accepting connections on %s", endpoint.Address())}
}

// checkHandshake confirms the listener speaks the bridge protocol: an empty
// object must come back as an ERROR reply.
func checkHandshake(ctx context.Context, bridge Bridge) Check {
	result := bridge.SendRaw(ctx, handshake)
	if !result.OK() {
		return Check{Name: "bridge.protocol", Pass: false, Message: result.Text()}
	}
	if result.Reply.Rejection() == "" {
		return Check{Name: "bridge.protocol", Pass: false, Message: fmt.Sprintf("unexpected reply %q", result.Reply.String())}
	}
	return Check{Name: "bridge.protocol", Pass: true, Message: fmt.Sprintf("bridge answered %q", result.Reply.String())}
}
