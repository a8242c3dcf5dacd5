package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chuva-io/less-mcp/pkg/less"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolatedHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestLoadDefaults(t *testing.T) {
	isolatedHome(t)

	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, less.DefaultProgram, cfg.CLICommand)
	assert.Equal(t, []string{less.DefaultPackage}, cfg.CLIArgs)
	assert.Equal(t, TransportStdio, cfg.Transport)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8084, cfg.Port)
	assert.False(t, cfg.StrictExit)
	assert.False(t, cfg.DryRun)
	assert.Empty(t, cfg.Tools)
}

func TestLoadConfigFile(t *testing.T) {
	isolatedHome(t)
	path := filepath.Join(t.TempDir(), "less.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
cli_command: less-cli
cli_args: []
work_dir: /srv/app
strict_exit: true
transport: sse
port: 9000
tools:
  - list-projects
  - deploy-project
`), 0o644))

	cfg, err := Load(New(), path)
	require.NoError(t, err)

	assert.Equal(t, "less-cli", cfg.CLICommand)
	assert.Empty(t, cfg.CLIArgs)
	assert.Equal(t, "/srv/app", cfg.WorkDir)
	assert.True(t, cfg.StrictExit)
	assert.Equal(t, TransportSSE, cfg.Transport)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, []string{"list-projects", "deploy-project"}, cfg.Tools)
}

func TestLoadHomeConfigFile(t *testing.T) {
	home := isolatedHome(t)
	dir := filepath.Join(home, ".less-mcp")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("dry_run: true\n"), 0o644))

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.True(t, cfg.DryRun)
}

func TestLoadMissingConfigFile(t *testing.T) {
	isolatedHome(t)
	_, err := Load(New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadEnvironment(t *testing.T) {
	isolatedHome(t)
	t.Setenv("LESS_MCP_CLI_COMMAND", "less-cli")
	t.Setenv("LESS_MCP_CLI_ARGS", "--profile dev")
	t.Setenv("LESS_MCP_STRICT_EXIT", "true")
	t.Setenv("LESS_MCP_TOOLS", "list-projects,run-project")

	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, "less-cli", cfg.CLICommand)
	assert.Equal(t, []string{"--profile", "dev"}, cfg.CLIArgs)
	assert.True(t, cfg.StrictExit)
	assert.Equal(t, []string{"list-projects", "run-project"}, cfg.Tools)
}

func TestLoadFlags(t *testing.T) {
	isolatedHome(t)
	t.Setenv("LESS_MCP_CLI_COMMAND", "from-env")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(fs)
	require.NoError(t, fs.Parse([]string{"--cli-command", "from-flag", "--dry-run", "--tools", "create-cron,create-route", "--log-level", "debug"}))

	v := New()
	require.NoError(t, BindFlags(v, fs))
	cfg, err := Load(v, "")
	require.NoError(t, err)

	assert.Equal(t, "from-flag", cfg.CLICommand)
	assert.True(t, cfg.DryRun)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"create-cron", "create-route"}, cfg.Tools)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{CLICommand: "npx", Transport: TransportStdio, Port: 8084}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "empty command", mutate: func(c *Config) { c.CLICommand = " " }, wantErr: "cli_command"},
		{name: "unknown transport", mutate: func(c *Config) { c.Transport = "grpc" }, wantErr: "unknown transport"},
		{name: "bad sse port", mutate: func(c *Config) { c.Transport = TransportSSE; c.Port = 0 }, wantErr: "invalid port"},
		{name: "stdio ignores port", mutate: func(c *Config) { c.Port = 0 }},
		{name: "unknown tool", mutate: func(c *Config) { c.Tools = []string{"list-projects", "rm-rf"} }, wantErr: `unknown tool "rm-rf"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDispatcherOptions(t *testing.T) {
	cfg := Config{CLICommand: "less-cli", CLIArgs: []string{"--x"}, WorkDir: "/w", StrictExit: true, DryRun: true}
	assert.Equal(t, less.Options{
		Program:    "less-cli",
		Prefix:     []string{"--x"},
		WorkDir:    "/w",
		StrictExit: true,
		DryRun:     true,
	}, cfg.DispatcherOptions())
}
