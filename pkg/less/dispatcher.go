package less

import (
	"context"
	"fmt"
	"time"

	"github.com/chuva-io/less-mcp/pkg/logger"
	"github.com/chuva-io/less-mcp/pkg/metrics"
	"github.com/chuva-io/less-mcp/pkg/utils"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	DefaultProgram = "npx"
	DefaultPackage = "@chuva.io/less-cli"
)

// Options configures how the dispatcher reaches the Less CLI.
type Options struct {
	// Program is the executable to run.
	Program string
	// Prefix is inserted before every operation's command tokens.
	Prefix []string
	// WorkDir is the working directory of the CLI process.
	WorkDir string
	// StrictExit turns a non-zero exit status into an error result.
	// Off by default: the output is returned as-is whatever the status.
	StrictExit bool
	// DryRun returns the rendered command line without running it.
	DryRun bool
}

// DefaultOptions runs the CLI through npx.
func DefaultOptions() Options {
	return Options{
		Program: DefaultProgram,
		Prefix:  []string{DefaultPackage},
	}
}

// Dispatcher turns validated requests into Less CLI processes. It holds no
// per-call state and is safe for concurrent use.
type Dispatcher struct {
	opts     Options
	executor utils.ShellExecutor
	metrics  *metrics.Recorder
}

// NewDispatcher creates a dispatcher. recorder may be nil.
func NewDispatcher(opts Options, recorder *metrics.Recorder) *Dispatcher {
	if opts.Program == "" {
		opts.Program = DefaultProgram
	}
	return &Dispatcher{
		opts:     opts,
		executor: &utils.DefaultShellExecutor{Dir: opts.WorkDir},
		metrics:  recorder,
	}
}

// Invocation renders the command for op without running it.
func (d *Dispatcher) Invocation(op Operation, req Request) Invocation {
	return NewInvocation(d.opts.Program, d.opts.Prefix, op, req)
}

// Dispatch runs op with a validated request and wraps the output in a tool
// result. stdout is returned when non-empty, otherwise stderr.
//
// A process that cannot be started yields a Go error, which the MCP server
// reports to the client as a protocol error for this call.
func (d *Dispatcher) Dispatch(ctx context.Context, op Operation, req Request) (*mcp.CallToolResult, error) {
	inv := d.Invocation(op, req)

	if d.opts.DryRun {
		d.metrics.ObserveCommand(op.Name, metrics.OutcomeDryRun, 0)
		logger.Get().Info("dry run", "tool", op.Name, "command", inv.String())
		return mcp.NewToolResultText(inv.String()), nil
	}

	start := time.Now()
	result, err := utils.RunCommandWithContext(ctx, d.executor, inv.Program, inv.Args)
	elapsed := time.Since(start)
	if err != nil {
		d.metrics.ObserveCommand(op.Name, metrics.OutcomeLaunchFailed, elapsed)
		return nil, fmt.Errorf("%s: %w", op.Name, err)
	}

	output := result.Output()
	if result.ExitCode != 0 {
		d.metrics.ObserveCommand(op.Name, metrics.OutcomeExitNonZero, elapsed)
		logger.Get().Info("Less CLI exited with non-zero status", "tool", op.Name, "exit_code", result.ExitCode)
		if d.opts.StrictExit {
			if output == "" {
				output = fmt.Sprintf("%s exited with status %d", inv.Program, result.ExitCode)
			}
			return mcp.NewToolResultError(output), nil
		}
		return mcp.NewToolResultText(output), nil
	}

	d.metrics.ObserveCommand(op.Name, metrics.OutcomeSuccess, elapsed)
	return mcp.NewToolResultText(output), nil
}

// Handler validates the raw arguments of a tool call and dispatches it.
// Invalid arguments never reach the executor.
func (d *Dispatcher) Handler(op Operation) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		req, err := Validate(op, request.GetArguments())
		if err != nil {
			d.metrics.ObserveCommand(op.Name, metrics.OutcomeInvalid, 0)
			return mcp.NewToolResultError(err.Error()), nil
		}
		return d.Dispatch(ctx, op, req)
	}
}
