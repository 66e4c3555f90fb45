// This package is based on the Golang source code with some modifications.
//
// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package help implements "atlsimplify help" command.
package help

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/template"
	"unicode"
	"unicode/utf8"

	"github.com/rusq/atlassian-dc-mcp/cmd/atlsimplify/internal/cfg"
	"github.com/rusq/atlassian-dc-mcp/cmd/atlsimplify/internal/golang/base"
)

// ErrUnknownTopic is returned by Help for topics that do not exist.
var ErrUnknownTopic = errors.New("unknown help topic")

func PrintUsage(w io.Writer, cmd *base.Command) error {
	bw := bufio.NewWriter(w)
	if err := tmpl(bw, usageTemplate, cmd); err != nil {
		return err
	}
	return bw.Flush()
}

// tmpl executes the given template text on data, writing the result to w.
func tmpl(w io.Writer, text string, data any) error {
	t := template.New("top")
	t.Funcs(template.FuncMap{"trim": strings.TrimSpace, "capitalize": capitalize})
	template.Must(t.Parse(text))
	ew := &errWriter{w: w}
	err := t.Execute(ew, data)
	if ew.err != nil {
		return fmt.Errorf("writing output: %w", ew.err)
	}
	return err
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, n := utf8.DecodeRuneInString(s)
	return string(unicode.ToTitle(r)) + s[n:]
}

// An errWriter wraps a writer, recording whether a write error occurred.
type errWriter struct {
	w   io.Writer
	err error
}

func (w *errWriter) Write(b []byte) (int, error) {
	n, err := w.w.Write(b)
	if err != nil {
		w.err = err
	}
	return n, err
}

// Find walks the command tree from root following args.  It returns the
// deepest command found and the number of args consumed.
func Find(root *base.Command, args []string) (*base.Command, int) {
	cmd := root
	for i, arg := range args {
		sub := cmd.Lookup(arg)
		if sub == nil {
			return cmd, i
		}
		cmd = sub
	}
	return cmd, len(args)
}

// Help implements the 'help' command.
func Help(w io.Writer, args []string) error {
	cmd, n := Find(base.Atlsimplify, args)
	if n < len(args) {
		// helpSuccess is the help command using as many args as possible that would succeed.
		helpSuccess := base.CmdName + " help"
		if n > 0 {
			helpSuccess += " " + strings.Join(args[:n], " ")
		}
		return fmt.Errorf("%s help %s: %w. Run '%s'", base.CmdName, strings.Join(args, " "), ErrUnknownTopic, helpSuccess)
	}

	if len(cmd.Commands) > 0 {
		return PrintUsage(w, cmd)
	}
	if err := tmpl(w, helpTemplate, cmd); err != nil {
		return err
	}
	if cmd.PrintFlags {
		PrintFlags(w, cmd)
	}
	return nil
}

// PrintFlags prints the flags of the command, including the base flags.
func PrintFlags(w io.Writer, cmd *base.Command) {
	fmt.Fprintln(w, "\nFlags:")
	cmd.Flag.SetOutput(w)
	cmd.Flag.PrintDefaults()
	// base flags are already in the set once the command has been parsed.
	if !cmd.CustomFlags && cmd.Flag.Lookup("log") == nil {
		cfg.PrintBaseFlags(w, cmd.FlagMask)
	}
}
