// Copyright (c) 2021-2026 Rustam Gilyazov and Contributors.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package mcp

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpsrv "github.com/mark3labs/mcp-go/server"

	"github.com/rusq/atlassian-dc-mcp/cmd/atlsimplify/internal/golang/base"
	"github.com/rusq/atlassian-dc-mcp/cmd/atlsimplify/internal/golang/help"
)

const toolNameCommandHelp = "command_help"

// toolCommandHelp returns an MCP tool that provides CLI flag help for any
// atlsimplify subcommand.
func toolCommandHelp() mcpsrv.ServerTool {
	tool := mcplib.NewTool(toolNameCommandHelp,
		mcplib.WithDescription(`Return command-line flag help for an atlsimplify subcommand.

Providing no command name (or an empty string) returns the top-level help
listing all available commands. This is useful when a response should be
simplified from a shell script instead of the MCP tools.`),
		mcplib.WithString("command",
			mcplib.Description(`Subcommand name, e.g. "simplify", "fields", "mcp". Leave empty for top-level help.`),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
		mcplib.WithIdempotentHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: handleCommandHelp}
}

func handleCommandHelp(_ context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	cmdName := strings.TrimSpace(req.GetString("command", ""))

	var buf bytes.Buffer

	if cmdName == "" {
		fmt.Fprintln(&buf, "atlsimplify, available commands:")
		writeCommands(&buf, base.Atlsimplify.Commands)
		return mcplib.NewToolResultText(buf.String()), nil
	}

	parts := strings.Fields(cmdName)
	cur, n := help.Find(base.Atlsimplify, parts)
	if n < len(parts) {
		return mcplib.NewToolResultText(fmt.Sprintf(
			"Unknown command %q. Run %s with an empty command name to list all commands.",
			cmdName, toolNameCommandHelp,
		)), nil
	}

	fmt.Fprintf(&buf, "Command: %s %s\n", base.CmdName, cur.LongName())
	if cur.Short != "" {
		fmt.Fprintf(&buf, "Summary: %s\n", cur.Short)
	}
	if cur.Long != "" {
		fmt.Fprintf(&buf, "\nDescription:\n%s\n", strings.TrimSpace(cur.Long))
	}
	if cur.Runnable() {
		help.PrintFlags(&buf, cur)
	}
	if len(cur.Commands) > 0 {
		fmt.Fprintln(&buf, "\nSubcommands:")
		writeCommands(&buf, cur.Commands)
	}

	return mcplib.NewToolResultText(buf.String()), nil
}

func writeCommands(buf *bytes.Buffer, cmds []*base.Command) {
	for _, c := range cmds {
		if c.Short == "" {
			continue
		}
		fmt.Fprintf(buf, "  %-20s %s\n", c.Name(), c.Short)
	}
}
