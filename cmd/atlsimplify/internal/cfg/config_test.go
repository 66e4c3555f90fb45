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

package cfg

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "atlsimplify.toml")
	require.NoError(t, os.WriteFile(name, []byte(content), 0o644))
	return name
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name       string
		content    string
		want       *Config
		wantErr    bool
		wantErrIs  error
		wantFields []string
	}{
		{
			name: "full",
			content: `[mcp]
transport = "http"
listen = "127.0.0.1:9000"
base_dir = "` + filepath.ToSlash(dir) + `"
max_payload = "4MiB"

[output]
format = "yaml"
color = false
`,
			want: &Config{
				MCP: MCPConfig{
					Transport:  "http",
					Listen:     "127.0.0.1:9000",
					BaseDir:    filepath.ToSlash(dir),
					MaxPayload: "4MiB",
				},
				Output: OutputConfig{
					Format: "yaml",
					Color:  ptr(false),
				},
			},
		},
		{
			name:    "empty",
			content: "",
			want:    &Config{},
		},
		{
			name:       "invalid transport",
			content:    "[mcp]\ntransport = \"grpc\"\n",
			wantErr:    true,
			wantFields: []string{"Transport"},
		},
		{
			name:       "invalid format and listen",
			content:    "[mcp]\nlisten = \"localhost\"\n[output]\nformat = \"xml\"\n",
			wantErr:    true,
			wantFields: []string{"Listen", "Format"},
		},
		{
			name:       "base dir does not exist",
			content:    "[mcp]\nbase_dir = \"" + filepath.ToSlash(filepath.Join(dir, "missing")) + "\"\n",
			wantErr:    true,
			wantFields: []string{"BaseDir"},
		},
		{
			name:    "invalid max payload",
			content: "[mcp]\nmax_payload = \"huge\"\n",
			wantErr: true,
		},
		{
			name:      "unknown key",
			content:   "[mcp]\ntransprot = \"http\"\n",
			wantErr:   true,
			wantErrIs: ErrUnknownKeys,
		},
		{
			name:    "not toml",
			content: "{\"mcp\":{}}",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadConfig(writeConfig(t, tt.content))
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}
			require.Error(t, err)
			if tt.wantErrIs != nil {
				assert.ErrorIs(t, err, tt.wantErrIs)
			}
			if len(tt.wantFields) > 0 {
				var ce *ValidationError
				require.ErrorAs(t, err, &ce)
				var ve validator.ValidationErrors
				require.ErrorAs(t, err, &ve)
				var fields []string
				for _, fe := range ve {
					fields = append(fields, fe.Field())
				}
				assert.ElementsMatch(t, tt.wantFields, fields)
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	c := Config{MCP: MCPConfig{Transport: "pigeon"}}
	err := c.Validate()
	require.Error(t, err)
	assert.Equal(t, "Transport must be one of [stdio http]", err.Error())
}

func TestLoadConfig_missingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfig_Apply(t *testing.T) {
	c := &Config{
		MCP: MCPConfig{
			Transport:  "http",
			Listen:     "0.0.0.0:9000",
			BaseDir:    "/srv/responses",
			MaxPayload: "1KiB",
		},
		Output: OutputConfig{
			Format: "text",
			Color:  ptr(false),
		},
	}
	t.Run("flags not set", func(t *testing.T) {
		reset(t)
		fs := flag.NewFlagSet("test", flag.ContinueOnError)
		SetBaseFlags(fs, DefaultFlags)
		require.NoError(t, fs.Parse(nil))

		require.NoError(t, c.Apply(fs))
		assert.Equal(t, "http", Transport)
		assert.Equal(t, "0.0.0.0:9000", ListenAddr)
		assert.Equal(t, "/srv/responses", BaseDir)
		assert.Equal(t, ByteSize(1024), MaxPayload)
		assert.Equal(t, "text", OutputFormat)
		assert.True(t, NoColor)
	})
	t.Run("explicit flags win", func(t *testing.T) {
		reset(t)
		fs := flag.NewFlagSet("test", flag.ContinueOnError)
		SetBaseFlags(fs, DefaultFlags)
		require.NoError(t, fs.Parse([]string{"-transport", "stdio", "-format", "json", "-max-payload", "2KiB"}))

		require.NoError(t, c.Apply(fs))
		assert.Equal(t, "stdio", Transport)
		assert.Equal(t, "json", OutputFormat)
		assert.Equal(t, ByteSize(2048), MaxPayload)
		assert.Equal(t, "0.0.0.0:9000", ListenAddr)
	})
	t.Run("flags not defined are left alone", func(t *testing.T) {
		reset(t)
		Transport = DefTransport
		fs := flag.NewFlagSet("test", flag.ContinueOnError)
		SetBaseFlags(fs, OmitMCPFlags)
		require.NoError(t, fs.Parse(nil))

		require.NoError(t, c.Apply(fs))
		assert.Equal(t, DefTransport, Transport)
		assert.Equal(t, "text", OutputFormat)
	})
}

func ptr[T any](v T) *T {
	return &v
}
