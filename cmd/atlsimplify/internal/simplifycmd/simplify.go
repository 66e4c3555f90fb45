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

// Package simplifycmd implements the "atlsimplify simplify" command.
package simplifycmd

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"runtime/trace"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/rusq/atlassian-dc-mcp/cmd/atlsimplify/internal/cfg"
	"github.com/rusq/atlassian-dc-mcp/cmd/atlsimplify/internal/golang/base"
	"github.com/rusq/atlassian-dc-mcp/internal/osext"
	"github.com/rusq/atlassian-dc-mcp/internal/payload"
)

//go:embed assets/simplify.md
var mdSimplify string

var CmdSimplify = &base.Command{
	UsageLine:  "atlsimplify simplify [flags] <file|-> ...",
	Short:      "simplify Data Center responses saved to files",
	Long:       mdSimplify,
	FlagMask:   cfg.OmitMCPFlags,
	PrintFlags: true,
	Run:        runSimplify,
}

const stdinName = "-"

type params struct {
	kind   string
	stats  bool
	outDir string
}

var p params

func init() {
	CmdSimplify.Flag.StringVar(&p.kind, "kind", "", "response `kind`, one of: "+strings.Join(kindNames(), ", "))
	CmdSimplify.Flag.BoolVar(&p.stats, "stats", false, "print the size reduction of each response to STDERR")
	CmdSimplify.Flag.StringVar(&p.outDir, "o", "", "output `directory`, if empty, results are printed to STDOUT")
}

var (
	errNoInput    = errors.New("no input files, use \"-\" to read from STDIN")
	errStdinTwice = errors.New("STDIN can be given only once")
)

func runSimplify(ctx context.Context, cmd *base.Command, args []string) error {
	k, ok := lookupKind(p.kind)
	if !ok {
		base.SetExitStatus(base.SInvalidParameters)
		return fmt.Errorf("unknown kind %q, use one of: %s", p.kind, strings.Join(kindNames(), ", "))
	}
	if err := checkArgs(args); err != nil {
		base.SetExitStatus(base.SInvalidParameters)
		return err
	}
	r, err := newRenderer(cfg.OutputFormat, k, useColour())
	if err != nil {
		base.SetExitStatus(base.SInvalidParameters)
		return err
	}
	rd, err := newReader(cfg.BaseDir, int64(cfg.MaxPayload))
	if err != nil {
		base.SetExitStatus(base.SUserError)
		return err
	}

	results, err := process(ctx, rd, r, k, args)
	if err != nil {
		base.SetExitStatus(base.SApplicationError)
		return err
	}
	if p.stats {
		printStats(os.Stderr, results)
	}
	if p.outDir != "" {
		if err := writeFiles(p.outDir, r.ext(), results); err != nil {
			base.SetExitStatus(base.SApplicationError)
			return err
		}
		cfg.Log.InfoContext(ctx, "results written", "dir", p.outDir, "count", len(results))
		return nil
	}
	return writeStream(os.Stdout, r.format, results)
}

func checkArgs(args []string) error {
	if len(args) == 0 {
		return errNoInput
	}
	var stdin int
	for _, a := range args {
		if a == stdinName {
			stdin++
		}
	}
	if stdin > 1 {
		return errStdinTwice
	}
	return nil
}

// useColour reports whether the text output should be coloured.
func useColour() bool {
	return !cfg.NoColor && p.outDir == "" && osext.IsTerminal(os.Stdout)
}

// reader reads the responses.
type reader struct {
	stdin   io.Reader
	loader  payload.Loader // nil if file names are not resolved against a base dir
	maxSize int64
}

func newReader(baseDir string, maxSize int64) (*reader, error) {
	rd := &reader{stdin: os.Stdin, maxSize: maxSize}
	if baseDir != "" {
		fsys, err := payload.NewDir(baseDir, payload.WithMaxSize(maxSize))
		if err != nil {
			return nil, err
		}
		rd.loader = fsys
	}
	return rd, nil
}

func (rd *reader) read(ctx context.Context, name string) (json.RawMessage, error) {
	if name == stdinName {
		return payload.Read(rd.stdin, rd.maxSize)
	}
	if rd.loader != nil {
		return rd.loader.Load(ctx, payload.Source{Path: name})
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	raw, err := payload.Read(f, rd.maxSize)
	if err != nil {
		return nil, &osext.Error{File: name, Err: err}
	}
	return raw, nil
}

// result is the outcome of simplifying one input.
type result struct {
	Name        string
	In          int
	Passthrough bool
	Data        []byte
}

// process simplifies the inputs concurrently.  The results are in the order
// of the inputs.
func process(ctx context.Context, rd *reader, r *renderer, k *kind, names []string) ([]result, error) {
	ctx, task := trace.NewTask(ctx, "process")
	defer task.End()

	results := make([]result, len(names))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, name := range names {
		eg.Go(func() error {
			trace.Logf(ctx, "file", "%s", name)
			raw, err := rd.read(ctx, name)
			if err != nil {
				return err
			}
			data, passthrough, err := r.render(k, raw)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			if passthrough {
				cfg.Log.WarnContext(ctx, "response not recognised, returned unchanged", "file", name, "kind", k.Name)
			}
			results[i] = result{Name: name, In: len(raw), Passthrough: passthrough, Data: data}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func printStats(w io.Writer, results []result) {
	for _, res := range results {
		if res.Passthrough {
			fmt.Fprintf(w, "%s: %s, unchanged\n", res.Name, humanize.Bytes(uint64(res.In)))
			continue
		}
		var saved float64
		if res.In > 0 {
			saved = 100 * (1 - float64(len(res.Data))/float64(res.In))
		}
		fmt.Fprintf(w, "%s: %s -> %s (%.0f%% smaller)\n", res.Name, humanize.Bytes(uint64(res.In)), humanize.Bytes(uint64(len(res.Data))), saved)
	}
}

// writeStream writes the results to w.  YAML documents are separated with
// "---", text outputs of several files get a header.
func writeStream(w io.Writer, format string, results []result) error {
	for i, res := range results {
		switch {
		case format == formatYAML && i > 0:
			if _, err := io.WriteString(w, "---\n"); err != nil {
				return err
			}
		case format == formatText && len(results) > 1:
			if i > 0 {
				if _, err := io.WriteString(w, "\n"); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(w, "==> %s <==\n", res.Name); err != nil {
				return err
			}
		}
		if _, err := w.Write(res.Data); err != nil {
			return err
		}
	}
	return nil
}

// writeFiles writes each result to its own file in dir.
func writeFiles(dir string, ext string, results []result) error {
	if err := osext.EnsureDir(dir); err != nil {
		return err
	}
	for _, res := range results {
		out := filepath.Join(dir, outputName(res.Name, ext))
		if same, err := osext.IsSame(res.Name, out); err != nil {
			return err
		} else if same {
			return &osext.Error{File: out, Err: errors.New("output file would overwrite the input")}
		}
		if err := os.WriteFile(out, res.Data, 0o644); err != nil {
			return err
		}
	}
	return nil
}

// outputName returns the output file name for the input name, i.e.
// "PROJ-1.json.gz" becomes "PROJ-1"+ext.
func outputName(name string, ext string) string {
	if name == stdinName {
		return "stdin" + ext
	}
	fn := filepath.Base(name)
	for _, e := range []string{".gz", ".zst", ".json"} {
		fn = strings.TrimSuffix(fn, e)
	}
	return fn + ext
}
