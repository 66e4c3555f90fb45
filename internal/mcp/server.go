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

// In this file: MCP server construction and transport management.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpsrv "github.com/mark3labs/mcp-go/server"

	"github.com/rusq/atlassian-dc-mcp/internal/payload"
)

const (
	serverName    = "atlassian-dc-mcp"
	serverVersion = "1.0.0"

	// EndpointPath is the path of the Streamable HTTP endpoint.
	EndpointPath = "/mcp"

	shutdownTimeout = 5 * time.Second
)

// Transport selects how the MCP server communicates with its client.
type Transport string

const (
	// TransportStdio uses stdin/stdout for communication (default, suitable
	// for local agent integrations).
	TransportStdio Transport = "stdio"
	// TransportHTTP uses Streamable HTTP transport (suitable for remote
	// agents or when multiple concurrent clients are needed).
	TransportHTTP Transport = "http"
)

// Server wraps an MCP server and the payload loader used by its tools.
type Server struct {
	mcp    *mcpsrv.MCPServer
	loader payload.Loader
	logger *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger.  A nil logger selects slog.Default().
func WithLogger(lg *slog.Logger) Option {
	return func(s *Server) {
		if lg == nil {
			lg = slog.Default()
		}
		s.logger = lg
	}
}

// WithLoader sets the loader that tools use to read their input.  The
// default loader accepts inline payloads only.
func WithLoader(ld payload.Loader) Option {
	return func(s *Server) {
		if ld != nil {
			s.loader = ld
		}
	}
}

// New creates a new MCP server.  The server is populated with all tools and
// schema resources but does not start listening until one of the Serve*
// methods is called.
func New(opts ...Option) *Server {
	s := &Server{
		loader: payload.New(nil),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	mcpServer := mcpsrv.NewMCPServer(
		serverName,
		serverVersion,
		mcpsrv.WithInstructions(instructions),
		mcpsrv.WithToolCapabilities(false),
		mcpsrv.WithResourceCapabilities(false, false),
		mcpsrv.WithToolHandlerMiddleware(s.traceCall),
		mcpsrv.WithRecovery(),
	)

	for _, t := range s.tools() {
		mcpServer.AddTool(t.Tool, t.Handler)
	}
	for _, r := range s.resources() {
		mcpServer.AddResource(r.Resource, r.Handler)
	}

	s.mcp = mcpServer
	return s
}

const instructions = `You are connected to the Atlassian Data Center simplifier MCP server.

Jira and Bitbucket Data Center REST responses are verbose.  The tools of
this server reduce a raw response to the fields an agent needs.  Pass the
response exactly as returned by the API, either inline in "payload" or as
a "path" to a saved response file (plain, .gz or .zst).

Bitbucket:
- bitbucket_simplify_pr_activities: /pull-requests/{id}/activities
- bitbucket_simplify_pr_changes: /pull-requests/{id}/changes
- bitbucket_simplify_inbox: /inbox/pull-requests
- bitbucket_changes_summary, bitbucket_comments_summary: one line per item

Jira:
- jira_simplify_issue: /issue/{key}
- jira_simplify_search: /search
- jira_simplify_comments: /issue/{key}/comment
- jira_essential_fields: the "fields" parameter that keeps requests small

If a response does not have the expected shape it is returned unchanged.
JSON Schemas of the simplified outputs are available as schema://simplify/* resources.
`

// ServeStdio runs the MCP server over stdin/stdout until ctx is cancelled.
// This is the standard transport used by local agent integrations.
func (s *Server) ServeStdio(ctx context.Context) error {
	return s.serveStdio(ctx, os.Stdin, os.Stdout)
}

func (s *Server) serveStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	srv := mcpsrv.NewStdioServer(s.mcp)
	s.logger.InfoContext(ctx, "mcp server listening on stdio")
	if err := srv.Listen(ctx, in, out); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("mcp stdio server error: %w", err)
	}
	return nil
}

// Handler returns the HTTP handler that serves the Streamable HTTP endpoint
// on EndpointPath and a health probe on /healthz.
func (s *Server) Handler() http.Handler {
	stream := mcpsrv.NewStreamableHTTPServer(s.mcp,
		mcpsrv.WithEndpointPath(EndpointPath),
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok\n")
	})
	r.Handle(EndpointPath, stream)
	return r
}

// ServeHTTP runs the MCP server as a Streamable HTTP server on addr until
// ctx is cancelled.  addr should be a host:port string such as "127.0.0.1:8483".
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("mcp http server error: %w", err)
	}
	return s.serve(ctx, l)
}

func (s *Server) serve(ctx context.Context, l net.Listener) error {
	httpSrv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	s.logger.InfoContext(ctx, "mcp server listening on http", "addr", l.Addr().String(), "path", EndpointPath)

	errCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("mcp http server error: %w", err)
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.InfoContext(ctx, "mcp server shutting down")
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(sctx); err != nil {
			return fmt.Errorf("mcp http server shutdown error: %w", err)
		}
		return nil
	case err := <-errCh:
		return err
	}
}

// AddTool adds an additional tool to the MCP server.  This can be called after
// New but before serving starts.  It is intended for CLI-layer tools that have
// access to internal CLI packages (e.g. command_help).
func (s *Server) AddTool(tool mcpsrv.ServerTool) {
	s.mcp.AddTool(tool.Tool, tool.Handler)
}

type loggerKey struct{}

// traceCall is the tool handler middleware that tags every call with a
// request id and logs its outcome.
func (s *Server) traceCall(next mcpsrv.ToolHandlerFunc) mcpsrv.ToolHandlerFunc {
	return func(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		lg := s.logger.With("request_id", uuid.NewString(), "tool", req.Params.Name)
		ctx = context.WithValue(ctx, loggerKey{}, lg)

		start := time.Now()
		res, err := next(ctx, req)
		lg.DebugContext(ctx, "mcp: tool call finished", "took", time.Since(start), "is_error", res != nil && res.IsError, "error", err)
		return res, err
	}
}

// log returns the logger of the current tool call.
func (s *Server) log(ctx context.Context) *slog.Logger {
	if lg, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return lg
	}
	return s.logger
}

// resultText is a helper that wraps text in a successful CallToolResult.
func resultText(text string) *mcplib.CallToolResult {
	return mcplib.NewToolResultText(text)
}

// resultErr is a helper that wraps an error in a CallToolResult with IsError=true.
func resultErr(err error) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(err.Error())},
		IsError: true,
	}
}

// resultJSON is a helper that serialises v to compact JSON text.
func resultJSON(v any) (*mcplib.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return mcplib.NewToolResultText(string(b)), nil
}

// stringArg extracts a named string argument from a tool call request.
// Returns ("", false) if the argument is absent or not a string.
func stringArg(req mcplib.CallToolRequest, name string) (string, bool) {
	args := req.GetArguments()
	if args == nil {
		return "", false
	}
	v, ok := args[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
