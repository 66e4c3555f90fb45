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

// Command atlsimplify reduces Jira and Bitbucket Data Center REST API
// responses for AI agents and serves the simplifiers over MCP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/rusq/atlassian-dc-mcp/cmd/atlsimplify/internal/cfg"
	"github.com/rusq/atlassian-dc-mcp/cmd/atlsimplify/internal/fields"
	"github.com/rusq/atlassian-dc-mcp/cmd/atlsimplify/internal/golang/base"
	"github.com/rusq/atlassian-dc-mcp/cmd/atlsimplify/internal/golang/help"
	"github.com/rusq/atlassian-dc-mcp/cmd/atlsimplify/internal/man"
	"github.com/rusq/atlassian-dc-mcp/cmd/atlsimplify/internal/mcp"
	"github.com/rusq/atlassian-dc-mcp/cmd/atlsimplify/internal/simplifycmd"
)

// secrets lists the files that the environment is loaded from.  Notepad
// insists on the "txt" extension, so the .txt names are accepted too.
var secrets = []string{".env", ".env.txt", "secrets.txt"}

func init() {
	base.Atlsimplify.Commands = []*base.Command{
		mcp.CmdMCP,
		simplifycmd.CmdSimplify,
		fields.CmdFields,
		CmdVersion,
		man.Kinds,
		man.Config,
	}
	base.Usage = mainUsage
}

func main() {
	loadSecrets(secrets)

	flag.Usage = base.Usage
	flag.Parse()
	args := flag.Args()
	if len(args) < 1 {
		base.Usage()
	}

	if args[0] == "help" {
		if err := help.Help(os.Stdout, args[1:]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			base.SetExitStatus(base.SInvalidParameters)
		}
		base.Exit()
	}

	cmd, n := help.Find(base.Atlsimplify, args)
	if n == 0 {
		fmt.Fprintf(os.Stderr, "%s %s: unknown command\nRun '%s help' for usage.\n", base.CmdName, args[0], base.CmdName)
		base.SetExitStatus(base.SInvalidParameters)
		base.Exit()
	}
	if !cmd.Runnable() {
		if err := help.Help(os.Stdout, args[:n]); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		base.SetExitStatus(base.SHelpRequested)
		base.Exit()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := invoke(ctx, cmd, args[n:]); err != nil {
		base.SetExitStatus(base.SGenericError)
		slog.ErrorContext(ctx, "command failed", "command", cmd.LongName(), "error", err, "status", base.ExitStatus().String())
	}
	stop()
	base.Exit()
}

// invoke parses the command flags, initialises logging, tracing and the
// configuration file, and runs the command.
func invoke(ctx context.Context, cmd *base.Command, args []string) error {
	if !cmd.CustomFlags {
		cfg.SetBaseFlags(&cmd.Flag, cmd.FlagMask)
		cmd.Flag.Usage = func() {
			fmt.Fprintf(cmd.Flag.Output(), "usage: %s\n", cmd.UsageLine)
			help.PrintFlags(cmd.Flag.Output(), cmd)
		}
		if err := cmd.Flag.Parse(args); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				base.SetExitStatus(base.SHelpRequested)
				return nil
			}
			base.SetExitStatus(base.SInvalidParameters)
			return err
		}
		args = cmd.Flag.Args()
	}

	lg, err := initLog(cfg.LogFile, cfg.JSONHandler, cfg.Verbose)
	if err != nil {
		base.SetExitStatus(base.SInitializationError)
		return err
	}
	cfg.Log = lg

	if err := loadConfig(&cmd.Flag, cfg.ConfigFile); err != nil {
		base.SetExitStatus(base.SInitializationError)
		return err
	}

	stopTrace := initTrace(cfg.TraceFile)
	defer stopTrace()

	lg.DebugContext(ctx, "running command", "command", cmd.LongName(), "args", args)
	return cmd.Run(ctx, cmd, args)
}

// loadConfig loads the configuration file, if given, and applies it to
// the flags that were not set explicitly.
func loadConfig(fs *flag.FlagSet, filename string) error {
	if filename == "" {
		return nil
	}
	c, err := cfg.LoadConfig(filename)
	if err != nil {
		return err
	}
	cfg.Log.Debug("configuration loaded", "filename", filename)
	return c.Apply(fs)
}

// loadSecrets load secrets from the files in secrets slice.
func loadSecrets(files []string) {
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

func mainUsage() {
	printUsage(os.Stderr)
	base.SetExitStatus(base.SInvalidParameters)
	base.Exit()
}

func printUsage(w io.Writer) {
	if err := help.PrintUsage(w, base.Atlsimplify); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}
