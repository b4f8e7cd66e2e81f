// Package cli defines the notifyctl command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rbright/notifyctl/internal/protocol"
)

// Overrides carries persistent flags explicitly set on the command line.
// Nil fields defer to the config file.
type Overrides struct {
	ConfigPath string
	Host       *string
	Port       *int
	Timeout    *time.Duration
}

// Actions executes each command. Implementations own output and exit status.
type Actions interface {
	Demo(context.Context, Overrides) error
	Send(context.Context, Overrides, protocol.Request) error
	Raw(context.Context, Overrides, string) error
	Probe(context.Context, Overrides) error
	Doctor(context.Context, Overrides) error
	ConfigInit(context.Context, Overrides, string) error
	ConfigShow(context.Context, Overrides) error
	Version() error
}

// UsageError marks invalid invocations (unknown commands, bad flags).
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

func usageErrorf(format string, args ...any) error {
	return &UsageError{Err: fmt.Errorf(format, args...)}
}

// NewRootCommand builds the command tree. Running the root with no
// arguments executes the demonstration calls.
func NewRootCommand(binaryName string, actions Actions) *cobra.Command {
	var (
		overrides  Overrides
		hostFlag   string
		portFlag   int
		timeoutArg time.Duration
	)

	root := &cobra.Command{
		Use:           binaryName,
		Short:         "Send test notifications to a notify bridge",
		Long:          "Runs three demonstration calls against the notify bridge when invoked without a command.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usageErrorf("unknown command %q", args[0])
			}
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("host") {
				overrides.Host = &hostFlag
			}
			if flags.Changed("port") {
				overrides.Port = &portFlag
			}
			if flags.Changed("timeout") {
				overrides.Timeout = &timeoutArg
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return actions.Demo(cmd.Context(), overrides)
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	persistent := root.PersistentFlags()
	persistent.StringVarP(&overrides.ConfigPath, "config", "c", "", "Config file path (default: $XDG_CONFIG_HOME/notifyctl/config.toml)")
	persistent.StringVar(&hostFlag, "host", protocol.DefaultHost, "Bridge host")
	persistent.IntVarP(&portFlag, "port", "p", protocol.DefaultPort, "Bridge port")
	persistent.DurationVar(&timeoutArg, "timeout", 0, "Per-call deadline, e.g. 2s (0 waits forever)")

	root.AddCommand(
		newSendCommand(actions, &overrides),
		newRawCommand(actions, &overrides),
		newProbeCommand(actions, &overrides),
		newDoctorCommand(actions, &overrides),
		newConfigCommand(actions, &overrides),
		newVersionCommand(actions),
	)
	return root
}

func newSendCommand(actions Actions, overrides *Overrides) *cobra.Command {
	var req protocol.Request

	command := &cobra.Command{
		Use:   "send",
		Short: "Send one notification and print the bridge reply",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return actions.Send(cmd.Context(), *overrides, req)
		},
	}
	command.Flags().StringVarP(&req.Title, "title", "t", "", "Notification title")
	command.Flags().StringVarP(&req.Message, "message", "m", "", "Notification message")
	command.Flags().StringVarP(&req.Sound, "sound", "s", "", "Optional sound name")
	_ = command.MarkFlagRequired("title")
	_ = command.MarkFlagRequired("message")
	return command
}

func newRawCommand(actions Actions, overrides *Overrides) *cobra.Command {
	return &cobra.Command{
		Use:   "raw DATA",
		Short: "Send DATA plus a newline verbatim and print the reply",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return actions.Raw(cmd.Context(), *overrides, args[0])
		},
	}
}

func newProbeCommand(actions Actions, overrides *Overrides) *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Report whether the bridge is accepting connections",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return actions.Probe(cmd.Context(), *overrides)
		},
	}
}

func newDoctorCommand(actions Actions, overrides *Overrides) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Run configuration and bridge checks",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return actions.Doctor(cmd.Context(), *overrides)
		},
	}
}

func newConfigCommand(actions Actions, overrides *Overrides) *cobra.Command {
	command := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}
	command.AddCommand(
		&cobra.Command{
			Use:   "init [PATH]",
			Short: "Write a sample configuration file",
			Args:  maxArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				path := ""
				if len(args) == 1 {
					path = args[0]
				}
				return actions.ConfigInit(cmd.Context(), *overrides, path)
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration as TOML",
			Args:  exactArgs(0),
			RunE: func(cmd *cobra.Command, args []string) error {
				return actions.ConfigShow(cmd.Context(), *overrides)
			},
		},
	)
	return command
}

func newVersionCommand(actions Actions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return actions.Version()
		},
	}
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return &UsageError{Err: err}
		}
		return nil
	}
}

func maxArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MaximumNArgs(n)(cmd, args); err != nil {
			return &UsageError{Err: err}
		}
		return nil
	}
}

// IsUsage reports whether err came from argument or flag validation.
func IsUsage(err error) bool {
	var usageErr *UsageError
	return errors.As(err, &usageErr)
}
