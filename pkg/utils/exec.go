package utils

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/chuva-io/less-mcp/pkg/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ExecResult holds what a finished process wrote and how it exited.
type ExecResult struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Output returns stdout when it is non-empty, otherwise stderr.
func (r *ExecResult) Output() string {
	if r == nil {
		return ""
	}
	if len(r.Stdout) > 0 {
		return string(r.Stdout)
	}
	return string(r.Stderr)
}

// ShellExecutor defines the interface for executing external commands.
//
// A non-zero exit is not an error: it is reported through ExecResult.ExitCode.
// The error return is reserved for processes that could not be started.
type ShellExecutor interface {
	Exec(ctx context.Context, command string, args ...string) (*ExecResult, error)
}

// DefaultShellExecutor implements ShellExecutor using os/exec
type DefaultShellExecutor struct {
	// Dir is the working directory of spawned processes. Empty means the
	// current directory.
	Dir string
}

// Exec runs the command to completion. Cancellation of ctx does not kill the
// process.
func (e *DefaultShellExecutor) Exec(ctx context.Context, command string, args ...string) (*ExecResult, error) {
	cmd := exec.CommandContext(context.WithoutCancel(ctx), command, args...)
	cmd.Dir = e.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := &ExecResult{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, err
	}
	return result, nil
}

// MockShellExecutor implements ShellExecutor for testing
type MockShellExecutor struct {
	mu sync.Mutex
	// Commands maps command+args to expected result
	Commands map[string]MockCommandResult
	// CallLog keeps track of all executed commands for verification
	CallLog []MockCommandCall
	// PartialMatchers allows partial matching for dynamic arguments
	PartialMatchers []PartialMatcher
}

// PartialMatcher represents a partial command matcher for dynamic arguments
type PartialMatcher struct {
	Command string
	Args    []string // Use "*" for wildcard matching
	Result  MockCommandResult
}

// MockCommandResult represents the expected result of a mocked command
type MockCommandResult struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Error    error
}

// MockCommandCall represents a logged command execution
type MockCommandCall struct {
	Command string
	Args    []string
}

// Exec executes a mocked command
func (m *MockShellExecutor) Exec(_ context.Context, command string, args ...string) (*ExecResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CallLog = append(m.CallLog, MockCommandCall{
		Command: command,
		Args:    append([]string(nil), args...),
	})

	key := m.commandKey(command, args...)
	if result, exists := m.Commands[key]; exists {
		return result.toExecResult(), result.Error
	}

	for _, matcher := range m.PartialMatchers {
		if m.matchesPartial(command, args, matcher) {
			return matcher.Result.toExecResult(), matcher.Result.Error
		}
	}

	return &ExecResult{}, fmt.Errorf("unmocked command: %s %v", command, args)
}

func (r MockCommandResult) toExecResult() *ExecResult {
	return &ExecResult{Stdout: r.Stdout, Stderr: r.Stderr, ExitCode: r.ExitCode}
}

func (m *MockShellExecutor) matchesPartial(command string, args []string, matcher PartialMatcher) bool {
	if command != matcher.Command {
		return false
	}
	if len(args) != len(matcher.Args) {
		return false
	}
	for i, expectedArg := range matcher.Args {
		if expectedArg == "*" {
			continue
		}
		if args[i] != expectedArg {
			return false
		}
	}
	return true
}

// AddCommand adds a command mock
func (m *MockShellExecutor) AddCommand(command string, args []string, result MockCommandResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Commands == nil {
		m.Commands = make(map[string]MockCommandResult)
	}
	m.Commands[m.commandKey(command, args...)] = result
}

// AddCommandString is a convenience method for a command that only writes to stdout
func (m *MockShellExecutor) AddCommandString(command string, args []string, output string, err error) {
	m.AddCommand(command, args, MockCommandResult{Stdout: []byte(output), Error: err})
}

// AddPartialMatcher adds a partial matcher for dynamic arguments
func (m *MockShellExecutor) AddPartialMatcher(command string, args []string, result MockCommandResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PartialMatchers = append(m.PartialMatchers, PartialMatcher{
		Command: command,
		Args:    args,
		Result:  result,
	})
}

// GetCallLog returns a copy of the log of all command calls
func (m *MockShellExecutor) GetCallLog() []MockCommandCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockCommandCall(nil), m.CallLog...)
}

// Reset clears the mock state
func (m *MockShellExecutor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Commands = make(map[string]MockCommandResult)
	m.CallLog = []MockCommandCall{}
	m.PartialMatchers = []PartialMatcher{}
}

func (m *MockShellExecutor) commandKey(command string, args ...string) string {
	return fmt.Sprintf("%s %s", command, strings.Join(args, " "))
}

// NewMockShellExecutor creates a new mock shell executor for testing
func NewMockShellExecutor() *MockShellExecutor {
	return &MockShellExecutor{
		Commands:        make(map[string]MockCommandResult),
		CallLog:         []MockCommandCall{},
		PartialMatchers: []PartialMatcher{},
	}
}

type contextKey string

const shellExecutorKey contextKey = "shellExecutor"

// WithShellExecutor returns a context with the given shell executor
func WithShellExecutor(ctx context.Context, executor ShellExecutor) context.Context {
	return context.WithValue(ctx, shellExecutorKey, executor)
}

// GetShellExecutor retrieves the shell executor from context, or returns fallback.
// A nil fallback yields a DefaultShellExecutor.
func GetShellExecutor(ctx context.Context, fallback ShellExecutor) ShellExecutor {
	if executor, ok := ctx.Value(shellExecutorKey).(ShellExecutor); ok {
		return executor
	}
	if fallback != nil {
		return fallback
	}
	return &DefaultShellExecutor{}
}

var tracer = otel.Tracer("less-mcp")

// RunCommandWithContext runs command through the executor found in ctx (or
// fallback) inside a tracing span, logging the invocation and its outcome.
func RunCommandWithContext(ctx context.Context, fallback ShellExecutor, command string, args []string) (*ExecResult, error) {
	_, file, line, _ := runtime.Caller(1)
	caller := fmt.Sprintf("%s:%d", file, line)

	ctx, span := tracer.Start(ctx, fmt.Sprintf("exec.%s", command))
	defer span.End()

	span.SetAttributes(
		attribute.String("command", command),
		attribute.StringSlice("args", args),
		attribute.String("caller", caller),
	)

	logger.LogExecCommand(command, args, caller)

	startTime := time.Now()
	result, err := GetShellExecutor(ctx, fallback).Exec(ctx, command, args...)
	duration := time.Since(startTime)

	span.SetAttributes(attribute.Float64("duration_seconds", duration.Seconds()))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.LogExecCommandResult(command, args, "", err, duration.Seconds(), caller)
		return nil, fmt.Errorf("command %s failed to start: %w", command, err)
	}

	span.SetAttributes(
		attribute.Int("exit_code", result.ExitCode),
		attribute.Int("stdout_size", len(result.Stdout)),
		attribute.Int("stderr_size", len(result.Stderr)),
	)
	span.SetStatus(codes.Ok, "CommandExec")

	logger.LogExecCommandResult(command, args, result.Output(), nil, duration.Seconds(), caller)

	return result, nil
}
