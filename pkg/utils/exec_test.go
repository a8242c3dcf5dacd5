package utils

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecResultOutput(t *testing.T) {
	tests := []struct {
		name   string
		result *ExecResult
		want   string
	}{
		{name: "nil result", result: nil, want: ""},
		{name: "stdout only", result: &ExecResult{Stdout: []byte("out")}, want: "out"},
		{name: "stderr only", result: &ExecResult{Stderr: []byte("err")}, want: "err"},
		{name: "stdout wins", result: &ExecResult{Stdout: []byte("out"), Stderr: []byte("err")}, want: "out"},
		{name: "both empty", result: &ExecResult{}, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.result.Output())
		})
	}
}

func TestMockShellExecutor(t *testing.T) {
	t.Run("exact match", func(t *testing.T) {
		mock := NewMockShellExecutor()
		mock.AddCommandString("npx", []string{"less", "list"}, "projects", nil)

		result, err := mock.Exec(context.Background(), "npx", "less", "list")
		require.NoError(t, err)
		assert.Equal(t, "projects", result.Output())

		callLog := mock.GetCallLog()
		require.Len(t, callLog, 1)
		assert.Equal(t, "npx", callLog[0].Command)
		assert.Equal(t, []string{"less", "list"}, callLog[0].Args)
	})

	t.Run("partial match", func(t *testing.T) {
		mock := NewMockShellExecutor()
		mock.AddPartialMatcher("npx", []string{"less", "delete", "*"}, MockCommandResult{Stderr: []byte("gone")})

		result, err := mock.Exec(context.Background(), "npx", "less", "delete", "store")
		require.NoError(t, err)
		assert.Equal(t, "gone", result.Output())
	})

	t.Run("unmocked command", func(t *testing.T) {
		mock := NewMockShellExecutor()
		_, err := mock.Exec(context.Background(), "npx", "unknown")
		assert.Error(t, err)
		assert.Len(t, mock.GetCallLog(), 1)
	})

	t.Run("reset", func(t *testing.T) {
		mock := NewMockShellExecutor()
		mock.AddCommandString("npx", nil, "x", nil)
		_, _ = mock.Exec(context.Background(), "npx")
		mock.Reset()
		assert.Empty(t, mock.GetCallLog())
		assert.Empty(t, mock.Commands)
	})
}

func TestGetShellExecutor(t *testing.T) {
	mock := NewMockShellExecutor()
	fallback := &DefaultShellExecutor{Dir: "/tmp"}

	assert.Same(t, mock, GetShellExecutor(WithShellExecutor(context.Background(), mock), fallback))
	assert.Same(t, fallback, GetShellExecutor(context.Background(), fallback))
	assert.IsType(t, &DefaultShellExecutor{}, GetShellExecutor(context.Background(), nil))
}

func TestRunCommandWithContext(t *testing.T) {
	t.Run("returns result", func(t *testing.T) {
		mock := NewMockShellExecutor()
		mock.AddCommand("npx", []string{"list"}, MockCommandResult{Stdout: []byte("ok"), ExitCode: 0})
		ctx := WithShellExecutor(context.Background(), mock)

		result, err := RunCommandWithContext(ctx, nil, "npx", []string{"list"})
		require.NoError(t, err)
		assert.Equal(t, "ok", result.Output())
	})

	t.Run("non-zero exit is not an error", func(t *testing.T) {
		mock := NewMockShellExecutor()
		mock.AddCommand("npx", []string{"list"}, MockCommandResult{Stderr: []byte("boom"), ExitCode: 2})
		ctx := WithShellExecutor(context.Background(), mock)

		result, err := RunCommandWithContext(ctx, nil, "npx", []string{"list"})
		require.NoError(t, err)
		assert.Equal(t, 2, result.ExitCode)
		assert.Equal(t, "boom", result.Output())
	})

	t.Run("launch failure is wrapped", func(t *testing.T) {
		mock := NewMockShellExecutor()
		mock.AddCommand("npx", []string{"list"}, MockCommandResult{Error: assert.AnError})
		ctx := WithShellExecutor(context.Background(), mock)

		_, err := RunCommandWithContext(ctx, nil, "npx", []string{"list"})
		require.Error(t, err)
		assert.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "command npx failed to start")
	})
}

func TestDefaultShellExecutor(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	executor := &DefaultShellExecutor{}
	ctx := context.Background()

	t.Run("stdout only", func(t *testing.T) {
		result, err := executor.Exec(ctx, "sh", "-c", "printf out")
		require.NoError(t, err)
		assert.Equal(t, "out", result.Output())
		assert.Equal(t, 0, result.ExitCode)
	})

	t.Run("stderr only", func(t *testing.T) {
		result, err := executor.Exec(ctx, "sh", "-c", "printf err >&2")
		require.NoError(t, err)
		assert.Equal(t, "err", result.Output())
	})

	t.Run("stdout wins over stderr", func(t *testing.T) {
		result, err := executor.Exec(ctx, "sh", "-c", "printf out; printf err >&2")
		require.NoError(t, err)
		assert.Equal(t, "out", result.Output())
		assert.Equal(t, "err", string(result.Stderr))
	})

	t.Run("non-zero exit", func(t *testing.T) {
		result, err := executor.Exec(ctx, "sh", "-c", "printf failed >&2; exit 3")
		require.NoError(t, err)
		assert.Equal(t, 3, result.ExitCode)
		assert.Equal(t, "failed", result.Output())
	})

	t.Run("working directory", func(t *testing.T) {
		dir := t.TempDir()
		result, err := (&DefaultShellExecutor{Dir: dir}).Exec(ctx, "sh", "-c", "pwd")
		require.NoError(t, err)
		assert.Contains(t, result.Output(), dir)
	})

	t.Run("missing program", func(t *testing.T) {
		_, err := executor.Exec(ctx, "less-mcp-definitely-not-installed")
		assert.Error(t, err)
	})

	t.Run("cancelled context still runs", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		result, err := executor.Exec(cancelled, "sh", "-c", "printf done")
		require.NoError(t, err)
		assert.Equal(t, "done", result.Output())
	})
}
