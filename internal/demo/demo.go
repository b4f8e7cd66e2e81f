// Package demo runs the fixed three-call diagnostic against a notify bridge.
package demo

import (
	"context"
	"fmt"
	"io"

	"github.com/rbright/notifyctl/internal/client"
	"github.com/rbright/notifyctl/internal/protocol"
)

// Sender is the subset of client.Client the demo drives.
type Sender interface {
	Notify(context.Context, protocol.Request) client.Result
	SendRaw(context.Context, []byte) client.Result
}

// Step is one demonstration call. Exactly one of Request or Raw is set.
type Step struct {
	Label   string
	Request *protocol.Request
	Raw     []byte
}

// Outcome pairs a step with what the bridge answered.
type Outcome struct {
	Step   Step
	Result client.Result
}

// Steps returns the demonstration calls in execution order.
func Steps() []Step {
	return []Step{
		{
			Label:   "Sending valid notification",
			Request: &protocol.Request{Title: "Test Notification", Message: "Hello from notifyctl test client!"},
		},
		{
			Label:   "Sending another notification",
			Request: &protocol.Request{Title: "Build Status", Message: "Build completed successfully!"},
		},
		{
			Label: "Testing error handling",
			Raw:   []byte("invalid json\n"),
		},
	}
}

// Run executes every step sequentially and prints each reply to out.
// Failures are reported inline; Run itself never fails.
func Run(ctx context.Context, sender Sender, target string, out io.Writer) []Outcome {
	fmt.Fprintf(out, "Testing notify bridge at %s...\n", target)

	steps := Steps()
	outcomes := make([]Outcome, 0, len(steps))
	for i, step := range steps {
		fmt.Fprintf(out, "\n%d. %s:\n", i+1, step.Label)

		var result client.Result
		if step.Request != nil {
			result = sender.Notify(ctx, *step.Request)
			fmt.Fprintf(out, "   Response: %s\n", result.Text())
		} else {
			result = sender.SendRaw(ctx, step.Raw)
			if result.OK() {
				fmt.Fprintf(out, "   Response: %s\n", result.Text())
			} else {
				fmt.Fprintf(out, "   Error: %v\n", result.Cause())
			}
		}

		outcomes = append(outcomes, Outcome{Step: step, Result: result})
	}

	fmt.Fprintln(out, "\nTest completed!")
	return outcomes
}
