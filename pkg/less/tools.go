package less

import (
	"strings"

	"github.com/chuva-io/less-mcp/pkg/logger"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Tool builds the MCP tool definition advertised for op.
func Tool(op Operation) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(op.Description)}
	for _, p := range op.Params {
		props := []mcp.PropertyOption{mcp.Description(p.Description)}
		if p.Required {
			props = append(props, mcp.Required())
		}
		switch p.Kind {
		case KindEnum:
			props = append(props, mcp.Enum(p.Enum...))
			opts = append(opts, mcp.WithString(p.Name, props...))
		case KindStringList:
			props = append(props, mcp.WithStringItems())
			opts = append(opts, mcp.WithArray(p.Name, props...))
		default:
			opts = append(opts, mcp.WithString(p.Name, props...))
		}
	}
	return mcp.NewTool(op.Name, opts...)
}

// RegisterLessTools adds the Less tools to s and returns the registered
// names. An empty enabled list registers every tool; otherwise only the named
// ones are added and unknown names are logged.
func RegisterLessTools(s *server.MCPServer, d *Dispatcher, enabled []string) []string {
	var selected []Operation
	if len(enabled) == 0 {
		logger.Get().Info("No specific tools provided, registering all tools")
		selected = Operations()
	} else {
		for _, name := range enabled {
			op, ok := Lookup(strings.ToLower(strings.TrimSpace(name)))
			if !ok {
				logger.Get().Error(nil, "Unknown tool specified", "tool", name)
				continue
			}
			selected = append(selected, op)
		}
	}

	registered := make([]string, 0, len(selected))
	for _, op := range selected {
		logger.Get().V(1).Info("Registering tool", "tool", op.Name)
		s.AddTool(Tool(op), d.Handler(op))
		registered = append(registered, op.Name)
	}
	return registered
}
