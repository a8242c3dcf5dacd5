package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/chuva-io/less-mcp/internal/goruntime"
	"github.com/chuva-io/less-mcp/internal/version"
	"github.com/chuva-io/less-mcp/pkg/config"
	"github.com/chuva-io/less-mcp/pkg/logger"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := config.New()

	rootCmd := &cobra.Command{
		Use:   "less-mcp",
		Short: "MCP server for the Less CLI",
		Long: `less-mcp exposes Less project management and code generation
commands to MCP clients. Every tool call runs the Less CLI and returns
its output.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(v, configFile)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	config.AddFlags(rootCmd.PersistentFlags())
	// viper reads bound flags lazily, so binding before parsing is fine.
	if err := config.BindFlags(v, rootCmd.PersistentFlags()); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(newToolsCmd(v), newVersionCmd())
	return rootCmd
}

func run(ctx context.Context, cfg *config.Config) error {
	logger.Init(cfg.LogLevel)
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting "+version.Name, "version", version.Version, "git_commit", version.GitCommit, "build_date", version.BuildDate)
	goruntime.SetMaxProcs(log)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := NewApp(cfg)
	if err != nil {
		return err
	}
	if err := app.Run(ctx, os.Stdin, os.Stdout); err != nil {
		log.Error(err, "Server stopped with error")
		return err
	}
	log.Info("Server shutdown complete")
	return nil
}

func newVersionCmd() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the less-mcp version",
		Run: func(cmd *cobra.Command, args []string) {
			info := version.Get()
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), info.Short())
				return
			}
			fmt.Fprintln(cmd.OutOrStdout(), info.String())
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "Print only the version and commit")
	return cmd
}
