package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/chuva-io/less-mcp/pkg/config"
	"github.com/chuva-io/less-mcp/pkg/less"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type OutputFormat string

const (
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatTable OutputFormat = "table"
)

type paramView struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
	Flag     string   `json:"flag,omitempty"`
	Enum     []string `json:"enum,omitempty"`
}

type toolView struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Command     string      `json:"command"`
	Params      []paramView `json:"params"`
}

func newToolsCmd(v *viper.Viper) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the tools this server exposes",
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(v, configFile)
			if err != nil {
				return err
			}
			return printTools(cmd.OutOrStdout(), OutputFormat(output), toolViews(cfg))
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", string(OutputFormatTable), "Output format (table or json)")
	return cmd
}

// toolViews describes the enabled operations, with commands rendered using
// the configured program and prefix.
func toolViews(cfg *config.Config) []toolView {
	enabled := map[string]bool{}
	for _, name := range cfg.Tools {
		enabled[strings.ToLower(strings.TrimSpace(name))] = true
	}

	d := less.NewDispatcher(cfg.DispatcherOptions(), nil)
	var views []toolView
	for _, op := range less.Operations() {
		if len(enabled) > 0 && !enabled[op.Name] {
			continue
		}
		view := toolView{
			Name:        op.Name,
			Description: op.Description,
			Command:     d.Invocation(op, less.Request{}).String(),
			Params:      []paramView{},
		}
		for _, p := range op.Params {
			view.Params = append(view.Params, paramView{
				Name:     p.Name,
				Type:     p.Kind.String(),
				Required: p.Required,
				Flag:     p.Flag,
				Enum:     p.Enum,
			})
		}
		views = append(views, view)
	}
	return views
}

func printTools(w io.Writer, format OutputFormat, views []toolView) error {
	switch format {
	case OutputFormatJSON:
		output, err := json.MarshalIndent(views, "", "  ")
		if err != nil {
			return fmt.Errorf("error formatting JSON: %w", err)
		}
		fmt.Fprintln(w, string(output))
		return nil
	case OutputFormatTable:
		tw := table.NewWriter()
		tw.AppendHeader(table.Row{"Tool", "Command", "Required", "Optional"})
		for _, view := range views {
			var required, optional []string
			for _, p := range view.Params {
				if p.Required {
					required = append(required, p.Name)
				} else {
					optional = append(optional, p.Name)
				}
			}
			tw.AppendRow(table.Row{view.Name, view.Command, strings.Join(required, ", "), strings.Join(optional, ", ")})
		}
		fmt.Fprintln(w, tw.Render())
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}
