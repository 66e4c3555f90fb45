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

// Package cfg contains common configuration variables.
package cfg

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/rusq/osenv/v2"

	"github.com/rusq/atlassian-dc-mcp/internal/payload"
)

var (
	TraceFile   string
	LogFile     string
	Verbose     bool
	JSONHandler bool

	ConfigFile string

	Transport  string
	ListenAddr string
	BaseDir    string
	MaxPayload = ByteSize(payload.DefaultMaxSize)

	OutputFormat string
	NoColor      bool

	Log = slog.Default()
)

const (
	DefTransport  = "stdio"
	DefListenAddr = "127.0.0.1:8483"
	DefFormat     = "json"
)

type FlagMask int

const (
	DefaultFlags   FlagMask = 0
	OmitConfigFlag FlagMask = 1 << iota
	OmitMCPFlags
	OmitPayloadFlags
	OmitOutputFlags

	OmitAll = OmitConfigFlag |
		OmitMCPFlags |
		OmitPayloadFlags |
		OmitOutputFlags
)

// SetBaseFlags sets base flags
func SetBaseFlags(fs *flag.FlagSet, mask FlagMask) {
	fs.StringVar(&TraceFile, "trace", osenv.Value("TRACE_FILE", ""), "trace `filename`")
	fs.StringVar(&LogFile, "log", osenv.Value("LOG_FILE", ""), "log `file`, if not specified, messages are printed to STDERR")
	fs.BoolVar(&Verbose, "v", osenv.Value("DEBUG", false), "verbose messages")
	fs.BoolVar(&JSONHandler, "log-json", osenv.Value("LOG_JSON", false), "log in JSON format")

	if mask&OmitConfigFlag == 0 {
		fs.StringVar(&ConfigFile, "config", osenv.Value("ATLSIMPLIFY_CONFIG", ""), "configuration `file` in TOML format")
	}
	if mask&OmitMCPFlags == 0 {
		fs.StringVar(&Transport, "transport", osenv.Value("MCP_TRANSPORT", DefTransport), "MCP transport: \"stdio\" or \"http\"")
		fs.StringVar(&ListenAddr, "listen", osenv.Value("MCP_LISTEN", DefListenAddr), "`address` to listen on when -transport=http")
	}
	if mask&OmitPayloadFlags == 0 {
		fs.StringVar(&BaseDir, "base", osenv.Value("BASE_DIR", ""), "base `directory` for response files given by path,\nif empty, only inline payloads are accepted")
		if env := osenv.Value("MAX_PAYLOAD", ""); env != "" {
			if err := MaxPayload.Set(env); err != nil {
				slog.Warn("invalid MAX_PAYLOAD, using default", "value", env, "error", err)
			}
		}
		fs.Var(&MaxPayload, "max-payload", "maximum decoded `size` of a response, i.e. 512KiB or 16MB")
	}
	if mask&OmitOutputFlags == 0 {
		fs.StringVar(&OutputFormat, "format", DefFormat, "output `format`: \"json\", \"yaml\" or \"text\"")
		fs.BoolVar(&NoColor, "no-color", osenv.Value("NO_COLOR", false), "disable colours in text output")
	}
}

// SetDebugLevel sets the default log level to debug.
func SetDebugLevel() {
	slog.SetLogLoggerLevel(slog.LevelDebug)
}

// ByteSize is a flag value holding a size in bytes, it accepts human
// readable values, such as "16MiB".
type ByteSize int64

func (b *ByteSize) String() string {
	if b == nil {
		return ""
	}
	return humanize.IBytes(uint64(*b))
}

func (b *ByteSize) Set(s string) error {
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("size must be positive: %q", s)
	}
	*b = ByteSize(n)
	return nil
}

// state is a copy of the configuration variables.
type state struct {
	traceFile, logFile             string
	verbose, jsonHandler           bool
	configFile                     string
	transport, listenAddr, baseDir string
	maxPayload                     ByteSize
	outputFormat                   string
	noColor                        bool
}

func snapshot() state {
	return state{
		traceFile:    TraceFile,
		logFile:      LogFile,
		verbose:      Verbose,
		jsonHandler:  JSONHandler,
		configFile:   ConfigFile,
		transport:    Transport,
		listenAddr:   ListenAddr,
		baseDir:      BaseDir,
		maxPayload:   MaxPayload,
		outputFormat: OutputFormat,
		noColor:      NoColor,
	}
}

func (s state) restore() {
	TraceFile, LogFile = s.traceFile, s.logFile
	Verbose, JSONHandler = s.verbose, s.jsonHandler
	ConfigFile = s.configFile
	Transport, ListenAddr, BaseDir = s.transport, s.listenAddr, s.baseDir
	MaxPayload = s.maxPayload
	OutputFormat = s.outputFormat
	NoColor = s.noColor
}

// printMu serialises PrintBaseFlags, the MCP server may call it from
// several goroutines.
var printMu sync.Mutex

// PrintBaseFlags prints the defaults of the base flags selected by mask to
// w.  The configuration variables are left unchanged.
func PrintBaseFlags(w io.Writer, mask FlagMask) {
	printMu.Lock()
	defer printMu.Unlock()
	defer snapshot().restore()
	fs := flag.NewFlagSet("", flag.ContinueOnError)
	fs.SetOutput(w)
	SetBaseFlags(fs, mask)
	fs.PrintDefaults()
}
