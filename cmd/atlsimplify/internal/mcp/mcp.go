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

// Package mcp contains the CLI command for starting the atlsimplify MCP server.
package mcp

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/rusq/atlassian-dc-mcp/cmd/atlsimplify/internal/cfg"
	"github.com/rusq/atlassian-dc-mcp/cmd/atlsimplify/internal/golang/base"
	internalmcp "github.com/rusq/atlassian-dc-mcp/internal/mcp"
	"github.com/rusq/atlassian-dc-mcp/internal/osext"
	"github.com/rusq/atlassian-dc-mcp/internal/payload"
)

//go:embed assets/mcp.md
var mdMCP string

//go:embed all:assets/layouts/*
var projectsFS embed.FS

// CmdMCP is the "atlsimplify mcp" command.
var CmdMCP = &base.Command{
	UsageLine:  "atlsimplify mcp [flags]",
	Short:      "start an MCP server with the simplifier tools",
	Long:       mdMCP,
	FlagMask:   cfg.OmitOutputFlags,
	PrintFlags: true,
	Run:        runMCP,
}

var newProjectLayout string

const (
	layoutOpencode = "opencode"
)

var projectLayouts = []string{
	layoutOpencode,
}

func init() {
	CmdMCP.Flag.StringVar(&newProjectLayout, "new", "", fmt.Sprintf("creates new project layout for AI. Type may be one of: %v", projectLayouts))
}

func runMCP(ctx context.Context, cmd *base.Command, args []string) error {
	if newProjectLayout != "" {
		if len(args) == 0 {
			base.SetExitStatus(base.SInvalidParameters)
			return errors.New("target directory must be provided (will be created)")
		}
		return runMCPNewProject(ctx, newProjectLayout, args[0])
	}
	return runMCPServer(ctx, cmd, args)
}

func runMCPServer(ctx context.Context, _ *base.Command, _ []string) error {
	lg := cfg.Log

	loader, err := newLoader(cfg.BaseDir, int64(cfg.MaxPayload))
	if err != nil {
		base.SetExitStatus(base.SUserError)
		return fmt.Errorf("mcp: %w", err)
	}
	if cfg.BaseDir == "" {
		lg.InfoContext(ctx, "mcp: no base directory specified, only inline payloads are accepted")
	} else {
		lg.InfoContext(ctx, "mcp: serving files", "base", cfg.BaseDir, "max_payload", cfg.MaxPayload.String())
	}

	srv := internalmcp.New(internalmcp.WithLogger(lg), internalmcp.WithLoader(loader))

	// command_help lives here, as it walks the CLI command tree.
	srv.AddTool(toolCommandHelp())

	switch internalmcp.Transport(strings.ToLower(cfg.Transport)) {
	case internalmcp.TransportStdio, "":
		return srv.ServeStdio(ctx)
	case internalmcp.TransportHTTP:
		lg.InfoContext(ctx, "mcp: http transport", "addr", cfg.ListenAddr, "endpoint", internalmcp.EndpointPath)
		return srv.ServeHTTP(ctx, cfg.ListenAddr)
	default:
		base.SetExitStatus(base.SInvalidParameters)
		return fmt.Errorf("mcp: unknown transport %q (use \"stdio\" or \"http\")", cfg.Transport)
	}
}

// newLoader returns the payload loader for the base directory.  Empty dir
// gives a loader that accepts inline payloads only.
func newLoader(dir string, maxSize int64) (*payload.FS, error) {
	opts := []payload.Option{payload.WithMaxSize(maxSize)}
	if dir == "" {
		return payload.New(nil, opts...), nil
	}
	return payload.NewDir(dir, opts...)
}

func runMCPNewProject(ctx context.Context, layout string, tgtDir string) error {
	// ensure we know the project type before accessing the FS
	if !slices.Contains(projectLayouts, layout) {
		base.SetExitStatus(base.SInvalidParameters)
		return fmt.Errorf("unknown project layout %q. Use one of %v", layout, projectLayouts)
	}
	subfs, err := fs.Sub(projectsFS, path.Join("assets", "layouts", layout))
	if err != nil {
		base.SetExitStatus(base.SApplicationError)
		return fmt.Errorf("fs chdir: %w", err)
	}
	if err := initNewProject(tgtDir, subfs); err != nil {
		return err
	}
	cfg.Log.InfoContext(ctx, "SUCCESS: new project created", "in", tgtDir, "layout", layout)
	return nil
}

func initNewProject(tgtDir string, fsys fs.FS) error {
	if err := osext.EnsureDir(tgtDir); err != nil {
		if errors.Is(err, osext.ErrNotADir) {
			base.SetExitStatus(base.SUserError)
			return err
		}
		base.SetExitStatus(base.SApplicationError)
		return fmt.Errorf("unable to initialise new project in %q: %w", tgtDir, err)
	}
	if err := os.CopyFS(tgtDir, fsys); err != nil {
		base.SetExitStatus(base.SApplicationError)
		return fmt.Errorf("copy project files: %w", err)
	}
	return nil
}
