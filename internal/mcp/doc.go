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

// Package mcp implements a Model Context Protocol (MCP) server that exposes
// the Jira and Bitbucket Data Center response simplifiers as tools.
//
// An agent passes a raw REST API response to a tool, either inline as JSON
// text or as a path to a saved response file, and receives the reduced,
// agent-facing projection.  If a response does not look the way the
// simplifier expects, the tool returns it unchanged.  Both results are
// valid JSON.
//
// The server also publishes the JSON Schema of every simplified output type
// as an MCP resource under schema://simplify/.
//
// Transport: the server supports two transports selectable at runtime:
//   - stdio  – standard MCP stdio transport (default); suitable for local
//     agent integration.
//   - http   – Streamable HTTP transport mounted on /mcp, with a /healthz
//     probe; suitable for remote agents.
package mcp
