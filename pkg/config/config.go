package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chuva-io/less-mcp/pkg/less"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "LESS_MCP"

	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

type Config struct {
	CLICommand string   `mapstructure:"cli_command"`
	CLIArgs    []string `mapstructure:"cli_args"`
	WorkDir    string   `mapstructure:"work_dir"`
	StrictExit bool     `mapstructure:"strict_exit"`
	DryRun     bool     `mapstructure:"dry_run"`
	LogLevel   string   `mapstructure:"log_level"`
	Transport  string   `mapstructure:"transport"`
	Port       int      `mapstructure:"port"`
	Tools      []string `mapstructure:"tools"`
}

// flagKeys maps config keys to the command-line flags that override them.
var flagKeys = map[string]string{
	"cli_command": "cli-command",
	"cli_args":    "cli-args",
	"work_dir":    "work-dir",
	"strict_exit": "strict-exit",
	"dry_run":     "dry-run",
	"log_level":   "log-level",
	"transport":   "transport",
	"port":        "port",
	"tools":       "tools",
}

// New returns a viper instance with defaults and LESS_MCP_* environment
// bindings. Precedence: flags, environment, config file, defaults.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("cli_command", less.DefaultProgram)
	v.SetDefault("cli_args", []string{less.DefaultPackage})
	v.SetDefault("work_dir", "")
	v.SetDefault("strict_exit", false)
	v.SetDefault("dry_run", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("transport", TransportStdio)
	v.SetDefault("port", 8084)
	v.SetDefault("tools", []string{})

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// AddFlags registers the config flags on fs.
func AddFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "config file (default is $HOME/.less-mcp/config.yaml)")
	fs.String("cli-command", less.DefaultProgram, "Program used to run the Less CLI")
	fs.StringSlice("cli-args", []string{less.DefaultPackage}, "Arguments placed before every Less CLI sub-command")
	fs.String("work-dir", "", "Working directory of the Less CLI (default is the current directory)")
	fs.Bool("strict-exit", false, "Report a non-zero Less CLI exit status as a tool error")
	fs.Bool("dry-run", false, "Return the command line instead of running it")
	fs.String("log-level", "info", "Log level (debug, info, warn, error)")
	fs.String("transport", TransportStdio, "Transport to serve on (stdio or sse)")
	fs.IntP("port", "p", 8084, "Port for the sse transport")
	fs.StringSlice("tools", []string{}, "List of tools to register. If empty, all tools are registered.")
}

// BindFlags makes the flags in fs override config values once they are set.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for key, name := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("error binding flag %s: %w", name, err)
		}
	}
	return nil
}

// Load reads configFile, or $HOME/.less-mcp/config.yaml when configFile is
// empty and that file exists, and returns the merged configuration.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else if home, err := os.UserHomeDir(); err == nil {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(home, ".less-mcp"))
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	// Slices set through the environment arrive as one string.
	cfg.CLIArgs = v.GetStringSlice("cli_args")
	cfg.Tools = splitList(v.GetStringSlice("tools"))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.CLICommand) == "" {
		return errors.New("cli_command must not be empty")
	}
	switch c.Transport {
	case TransportStdio, TransportSSE:
	default:
		return fmt.Errorf("unknown transport %q (want %s or %s)", c.Transport, TransportStdio, TransportSSE)
	}
	if c.Transport == TransportSSE && (c.Port <= 0 || c.Port > 65535) {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	for _, name := range c.Tools {
		if _, ok := less.Lookup(strings.ToLower(strings.TrimSpace(name))); !ok {
			return fmt.Errorf("unknown tool %q", name)
		}
	}
	return nil
}

// DispatcherOptions converts the configuration into dispatcher options.
func (c *Config) DispatcherOptions() less.Options {
	return less.Options{
		Program:    c.CLICommand,
		Prefix:     c.CLIArgs,
		WorkDir:    c.WorkDir,
		StrictExit: c.StrictExit,
		DryRun:     c.DryRun,
	}
}
