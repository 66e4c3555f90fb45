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
	"context"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rusq/atlassian-dc-mcp/cmd/atlsimplify/internal/golang/base"
)

func withCommands(t *testing.T, cmds ...*base.Command) {
	t.Helper()
	old := base.Atlsimplify.Commands
	t.Cleanup(func() { base.Atlsimplify.Commands = old })
	base.Atlsimplify.Commands = cmds
}

func commandHelp(t *testing.T, command string) string {
	t.Helper()
	var req mcplib.CallToolRequest
	req.Params.Name = toolNameCommandHelp
	req.Params.Arguments = map[string]any{"command": command}

	res, err := handleCommandHelp(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(mcplib.TextContent)
	require.True(t, ok)
	return tc.Text
}

func Test_toolCommandHelp(t *testing.T) {
	st := toolCommandHelp()
	assert.Equal(t, toolNameCommandHelp, st.Tool.Name)
	require.NotNil(t, st.Tool.Annotations.ReadOnlyHint)
	assert.True(t, *st.Tool.Annotations.ReadOnlyHint)
	assert.NotNil(t, st.Handler)
}

func Test_handleCommandHelp(t *testing.T) {
	topic := &base.Command{
		UsageLine: "atlsimplify topic",
		Short:     "a help topic",
		Long:      "Topic text.",
	}
	withCommands(t, CmdMCP, topic)

	tests := []struct {
		name        string
		command     string
		wantContain []string
		wantMissing []string
	}{
		{
			name:        "top level",
			command:     "",
			wantContain: []string{"available commands", "mcp", "start an MCP server", "topic"},
		},
		{
			name:    "mcp",
			command: "mcp",
			wantContain: []string{
				"Command: atlsimplify mcp",
				"Summary: start an MCP server",
				"Description:",
				"Flags:",
				"-new",
				"-transport",
				"-base",
			},
			wantMissing: []string{"-format"},
		},
		{
			name:        "topic has no flags",
			command:     "topic",
			wantContain: []string{"Topic text."},
			wantMissing: []string{"Flags:"},
		},
		{
			name:        "unknown",
			command:     "frobnicate",
			wantContain: []string{"Unknown command \"frobnicate\""},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := commandHelp(t, tt.command)
			for _, s := range tt.wantContain {
				assert.Contains(t, got, s)
			}
			for _, s := range tt.wantMissing {
				assert.NotContains(t, got, s)
			}
		})
	}
}
