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

// In this file: MCP tool definitions and handler implementations.

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpsrv "github.com/mark3labs/mcp-go/server"

	"github.com/rusq/atlassian-dc-mcp/internal/payload"
	"github.com/rusq/atlassian-dc-mcp/simplify"
)

// Tool names.
const (
	ToolPRActivities    = "bitbucket_simplify_pr_activities"
	ToolPRChanges       = "bitbucket_simplify_pr_changes"
	ToolInbox           = "bitbucket_simplify_inbox"
	ToolChangesSummary  = "bitbucket_changes_summary"
	ToolCommentsSummary = "bitbucket_comments_summary"
	ToolIssue           = "jira_simplify_issue"
	ToolSearch          = "jira_simplify_search"
	ToolComments        = "jira_simplify_comments"
	ToolEssentialFields = "jira_essential_fields"
)

const (
	argPayload = "payload"
	argPath    = "path"
)

const inputHelp = `

Provide the response in exactly one of:
- payload: the raw JSON response text;
- path: a saved response file (plain, .gz or .zst) under the server base directory.`

// tools returns all MCP tools that this server exposes.
func (s *Server) tools() []mcpsrv.ServerTool {
	return []mcpsrv.ServerTool{
		simplifyTool(s, ToolPRActivities,
			"Simplify a Bitbucket Data Center pull request activities page (GET .../pull-requests/{id}/activities). Keeps action, user, comment text, anchor and thread state, and adds a summary with the PR author, comment count and unresolved thread count.",
			simplify.SimplifyPRActivities),
		simplifyTool(s, ToolPRChanges,
			"Simplify a Bitbucket Data Center pull request changes page (GET .../pull-requests/{id}/changes). Keeps path, change type, source path for moves and comment count, and adds a summary by change type.",
			simplify.SimplifyPRChanges),
		simplifyTool(s, ToolInbox,
			"Simplify a Bitbucket Data Center inbox pull request listing (GET /rest/api/latest/inbox/pull-requests). Keeps title, state, refs, author, reviewers and counters, and adds a summary grouped by repository.",
			simplify.SimplifyInboxPullRequests),
		linesTool(s, ToolChangesSummary,
			"Render a Bitbucket pull request changes page as one line per file, e.g. \"Moved: src/new.go (from src/old.go) [2 comments]\".",
			simplify.ChangeSummaryLines),
		linesTool(s, ToolCommentsSummary,
			"Render the comments of a Bitbucket pull request activities page as one line per comment, e.g. \"Jane Doe on config.yml:6: This needs review\".",
			simplify.CommentSummaryLines),
		simplifyTool(s, ToolIssue,
			"Simplify a Jira Data Center issue (GET /rest/api/2/issue/{key}). Keeps key, summary, status, people, dates, links to parent and subtasks, comments and all custom fields.",
			simplify.SimplifyIssue),
		simplifyTool(s, ToolSearch,
			"Simplify a Jira Data Center search result (GET /rest/api/2/search). Keeps paging and the simplified issues.",
			simplify.SimplifySearchResults),
		simplifyTool(s, ToolComments,
			"Simplify a Jira Data Center issue comment page (GET /rest/api/2/issue/{key}/comment).",
			simplify.SimplifyComments),
		s.toolEssentialFields(),
	}
}

// sourceOptions returns the tool arguments that select the input.
func sourceOptions() []mcplib.ToolOption {
	return []mcplib.ToolOption{
		mcplib.WithString(argPayload,
			mcplib.Description("Raw JSON response exactly as returned by the REST API."),
		),
		mcplib.WithString(argPath,
			mcplib.Description("Path to a saved response file, relative to the server base directory."),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
		mcplib.WithIdempotentHintAnnotation(true),
		mcplib.WithOpenWorldHintAnnotation(false),
	}
}

func newSourceTool(name, description string) mcplib.Tool {
	opts := append([]mcplib.ToolOption{mcplib.WithDescription(description + inputHelp)}, sourceOptions()...)
	return mcplib.NewTool(name, opts...)
}

// simplifyTool returns a tool that runs fn on the loaded response and
// returns the result as compact JSON.
func simplifyTool[T any](s *Server, name, description string, fn func(json.RawMessage) simplify.Result[T]) mcpsrv.ServerTool {
	handler := func(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		raw, err := s.load(ctx, req)
		if err != nil {
			return resultErr(fmt.Errorf("%s: %w", name, err)), nil
		}
		res := fn(raw)
		lg := s.log(ctx)
		if res.IsPassthrough() {
			lg.DebugContext(ctx, "mcp: response returned unchanged", "size", len(raw))
		}
		result, err := resultJSON(res)
		if err != nil {
			return resultErr(fmt.Errorf("%s: serialise: %w", name, err)), nil
		}
		lg.DebugContext(ctx, "mcp: response simplified", "passthrough", res.IsPassthrough(), "in", len(raw), "out", textLen(result))
		return result, nil
	}
	return mcpsrv.ServerTool{Tool: newSourceTool(name, description), Handler: handler}
}

// linesTool returns a tool that renders the loaded response as text lines.
func linesTool(s *Server, name, description string, fn func(json.RawMessage) []string) mcpsrv.ServerTool {
	handler := func(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		raw, err := s.load(ctx, req)
		if err != nil {
			return resultErr(fmt.Errorf("%s: %w", name, err)), nil
		}
		lines := fn(raw)
		if len(lines) == 0 {
			return resultText("Nothing to summarise: the response has no recognisable entries."), nil
		}
		return resultText(strings.Join(lines, "\n")), nil
	}
	return mcpsrv.ServerTool{Tool: newSourceTool(name, description), Handler: handler}
}

// ─── jira_essential_fields ────────────────────────────────────────────────────

func (s *Server) toolEssentialFields() mcpsrv.ServerTool {
	tool := mcplib.NewTool(ToolEssentialFields,
		mcplib.WithDescription(`Return the Jira field names to request with the "fields" query parameter of /issue and /search, so that responses carry only what the simplifiers keep. Custom fields are not included; append the ones you need.`),
		mcplib.WithReadOnlyHintAnnotation(true),
		mcplib.WithIdempotentHintAnnotation(true),
		mcplib.WithOpenWorldHintAnnotation(false),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleEssentialFields}
}

// essentialFields is the result of jira_essential_fields.
type essentialFields struct {
	Fields []string `json:"fields"`
	Param  string   `json:"param"`
}

func (s *Server) handleEssentialFields(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	ff := simplify.EssentialJiraFields()
	result, err := resultJSON(essentialFields{Fields: ff, Param: strings.Join(ff, ",")})
	if err != nil {
		return resultErr(fmt.Errorf("%s: serialise: %w", ToolEssentialFields, err)), nil
	}
	return result, nil
}

// ─── input ────────────────────────────────────────────────────────────────────

// load reads the raw response selected by the request arguments.
func (s *Server) load(ctx context.Context, req mcplib.CallToolRequest) (json.RawMessage, error) {
	inline, err := payloadArg(req)
	if err != nil {
		return nil, err
	}
	path, _ := stringArg(req, argPath)
	raw, err := s.loader.Load(ctx, payload.Source{Payload: inline, Path: path})
	if err != nil {
		return nil, err
	}
	s.log(ctx).DebugContext(ctx, "mcp: payload loaded", "path", path, "size", len(raw))
	return raw, nil
}

// payloadArg returns the inline payload.  Clients that send the response as
// a JSON value instead of a string get it re-encoded.
func payloadArg(req mcplib.CallToolRequest) (string, error) {
	args := req.GetArguments()
	v, ok := args[argPayload]
	if !ok || v == nil {
		return "", nil
	}
	if s, ok := v.(string); ok {
		return s, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("%s: %w", argPayload, err)
	}
	return string(b), nil
}

// textLen returns the length of the first text content of r.
func textLen(r *mcplib.CallToolResult) int {
	if len(r.Content) == 0 {
		return 0
	}
	if tc, ok := r.Content[0].(mcplib.TextContent); ok {
		return len(tc.Text)
	}
	return 0
}
