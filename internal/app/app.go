package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/rbright/notifyctl/internal/cli"
	"github.com/rbright/notifyctl/internal/client"
	"github.com/rbright/notifyctl/internal/config"
	"github.com/rbright/notifyctl/internal/demo"
	"github.com/rbright/notifyctl/internal/doctor"
	"github.com/rbright/notifyctl/internal/logging"
	"github.com/rbright/notifyctl/internal/protocol"
	"github.com/rbright/notifyctl/internal/version"
)

const binaryName = "notifyctl"

type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	r := Runner{Stdout: stdout, Stderr: stderr}
	return r.Execute(ctx, args)
}

func (r Runner) Execute(ctx context.Context, args []string) int {
	root := cli.NewRootCommand(binaryName, r)
	root.SetArgs(args)
	root.SetOut(r.Stdout)
	root.SetErr(r.Stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var exit exitError
	switch {
	case errors.As(err, &exit):
		return exit.code
	case cli.IsUsage(err):
		fmt.Fprintf(r.Stderr, "error: %v\n\n", err)
		fmt.Fprint(r.Stderr, root.UsageString())
		return 2
	default:
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
}

// exitError ends a command with a non-zero status after its output was written.
type exitError struct {
	code int
}

func (e exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

var errFailed = exitError{code: 1}

// environment is the per-command runtime built from config and overrides.
type environment struct {
	loaded   config.Loaded
	logger   *slog.Logger
	endpoint client.Endpoint
	client   client.Client
	close    func()
}

func (r Runner) setup(command string, overrides cli.Overrides) (environment, error) {
	loaded, err := config.Load(overrides.ConfigPath)
	if err != nil {
		return environment{}, err
	}
	loaded.Config = applyOverrides(loaded.Config, overrides)

	for _, w := range loaded.Warnings {
		msg := w.Message
		if w.Line > 0 {
			msg = fmt.Sprintf("line %d: %s", w.Line, w.Message)
		}
		fmt.Fprintf(r.Stderr, "warning: %s\n", msg)
	}

	logger := r.Logger
	closeLog := func() {}
	if logger == nil {
		logRuntime, err := logging.New(loaded.Config.Log.Level)
		if err != nil {
			return environment{}, fmt.Errorf("setup logging: %w", err)
		}
		logger = logRuntime.Logger
		closeLog = func() { _ = logRuntime.Close() }
	}
	for _, w := range loaded.Warnings {
		logger.Warn("config warning", "line", w.Line, "message", w.Message)
	}

	endpoint := client.Endpoint{Host: loaded.Config.Bridge.Host, Port: loaded.Config.Bridge.Port}
	logger.Info("command start",
		"command", command,
		"config", loaded.Path,
		"endpoint", endpoint.Address(),
	)

	return environment{
		loaded:   loaded,
		logger:   logger,
		endpoint: endpoint,
		client: client.Client{
			Endpoint: endpoint,
			Timeout:  time.Duration(loaded.Config.Bridge.TimeoutMS) * time.Millisecond,
			Logger:   logger,
		},
		close: closeLog,
	}, nil
}

func applyOverrides(cfg config.Config, overrides cli.Overrides) config.Config {
	if overrides.Host != nil {
		cfg.Bridge.Host = *overrides.Host
	}
	if overrides.Port != nil {
		cfg.Bridge.Port = *overrides.Port
	}
	if overrides.Timeout != nil {
		cfg.Bridge.TimeoutMS = int(overrides.Timeout.Milliseconds())
	}
	return cfg
}

func (r Runner) Demo(ctx context.Context, overrides cli.Overrides) error {
	env, err := r.setup("demo", overrides)
	if err != nil {
		return err
	}
	defer env.close()

	outcomes := demo.Run(ctx, env.client, env.endpoint.Address(), r.Stdout)
	if demo.IsTerminal(r.Stdout) {
		fmt.Fprintln(r.Stdout)
		fmt.Fprintln(r.Stdout, demo.RenderSummary(outcomes))
	}
	return nil
}

func (r Runner) Send(ctx context.Context, overrides cli.Overrides, req protocol.Request) error {
	env, err := r.setup("send", overrides)
	if err != nil {
		return err
	}
	defer env.close()

	if err := env.endpoint.Validate(); err != nil {
		return err
	}
	return r.report(env.client.Notify(ctx, req))
}

func (r Runner) Raw(ctx context.Context, overrides cli.Overrides, data string) error {
	env, err := r.setup("raw", overrides)
	if err != nil {
		return err
	}
	defer env.close()

	if err := env.endpoint.Validate(); err != nil {
		return err
	}
	return r.report(env.client.SendRaw(ctx, []byte(data+"\n")))
}

// report prints the result line and fails on transport errors or bridge rejections.
func (r Runner) report(result client.Result) error {
	fmt.Fprintln(r.Stdout, result.Text())
	if !result.OK() || result.Reply.Rejection() != "" {
		return errFailed
	}
	return nil
}

func (r Runner) Probe(ctx context.Context, overrides cli.Overrides) error {
	env, err := r.setup("probe", overrides)
	if err != nil {
		return err
	}
	defer env.close()

	if err := env.endpoint.Validate(); err != nil {
		return err
	}
	alive, err := env.client.Probe(ctx)
	if err != nil {
		return err
	}
	if !alive {
		fmt.Fprintln(r.Stdout, "unreachable")
		return errFailed
	}
	fmt.Fprintln(r.Stdout, "reachable")
	return nil
}

func (r Runner) Doctor(ctx context.Context, overrides cli.Overrides) error {
	env, err := r.setup("doctor", overrides)
	if err != nil {
		return err
	}
	defer env.close()

	report := doctor.Run(ctx, env.loaded, env.endpoint, env.client)
	fmt.Fprintln(r.Stdout, report.String())
	if !report.OK() {
		env.logger.Warn("doctor failed", "report", report.String())
		return errFailed
	}
	return nil
}

func (r Runner) ConfigInit(_ context.Context, overrides cli.Overrides, path string) error {
	if path == "" {
		resolved, err := config.ResolvePath(overrides.ConfigPath)
		if err != nil {
			return err
		}
		path = resolved
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file %q already exists", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat config %q: %w", path, err)
	}

	if err := config.CreateSample(path); err != nil {
		return err
	}
	fmt.Fprintf(r.Stdout, "wrote sample config to %s\n", path)
	return nil
}

func (r Runner) ConfigShow(_ context.Context, overrides cli.Overrides) error {
	loaded, err := config.Load(overrides.ConfigPath)
	if err != nil {
		return err
	}
	cfg := applyOverrides(loaded.Config, overrides)
	if _, err := config.Validate(cfg); err != nil {
		return err
	}

	rendered, err := config.Render(cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.Stdout, "# %s\n%s", loaded.Path, rendered)
	return nil
}

func (r Runner) Version() error {
	fmt.Fprintln(r.Stdout, version.String())
	return nil
}
