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

// In this file: the TOML configuration file.

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Config is the configuration file.  Values in the file replace the
// defaults of the flags that were not set on the command line.
type Config struct {
	MCP    MCPConfig    `toml:"mcp"`
	Output OutputConfig `toml:"output"`
}

type MCPConfig struct {
	Transport  string `toml:"transport" validate:"omitempty,oneof=stdio http"`
	Listen     string `toml:"listen" validate:"omitempty,hostname_port"`
	BaseDir    string `toml:"base_dir" validate:"omitempty,dir"`
	MaxPayload string `toml:"max_payload"`
}

type OutputConfig struct {
	Format string `toml:"format" validate:"omitempty,oneof=json yaml text"`
	Color  *bool  `toml:"color"`
}

var (
	ErrUnknownKeys = errors.New("unknown configuration keys")

	validate = validator.New(validator.WithRequiredStructEnabled())
	trans    ut.Translator
)

func init() {
	enLocale := en.New()
	trans, _ = ut.New(enLocale, enLocale).GetTranslator(enLocale.Locale())
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		panic(err)
	}
}

// ValidationError is returned when the configuration file has invalid
// values.  The message is in plain English.
type ValidationError struct {
	Errs validator.ValidationErrors
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, fe := range e.Errs {
		msgs[i] = fe.Translate(trans)
	}
	return strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error {
	return e.Errs
}

// LoadConfig reads and validates the configuration file.
func LoadConfig(filename string) (*Config, error) {
	var c Config
	md, err := toml.DecodeFile(filename, &c)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", filename, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("config %s: %w: %s", filename, ErrUnknownKeys, strings.Join(keys, ", "))
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", filename, err)
	}
	return &c, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			return &ValidationError{Errs: ve}
		}
		return err
	}
	if c.MCP.MaxPayload != "" {
		var sz ByteSize
		if err := sz.Set(c.MCP.MaxPayload); err != nil {
			return fmt.Errorf("max_payload: %w", err)
		}
	}
	return nil
}

// Apply sets the configuration variables from c, leaving alone the ones
// whose flags were set explicitly in fs.  Only flags defined in fs are
// considered.
func (c *Config) Apply(fs *flag.FlagSet) error {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	apply := func(name string, present bool, fn func() error) error {
		if !present || set[name] || fs.Lookup(name) == nil {
			return nil
		}
		return fn()
	}
	return errors.Join(
		apply("transport", c.MCP.Transport != "", func() error {
			Transport = c.MCP.Transport
			return nil
		}),
		apply("listen", c.MCP.Listen != "", func() error {
			ListenAddr = c.MCP.Listen
			return nil
		}),
		apply("base", c.MCP.BaseDir != "", func() error {
			BaseDir = c.MCP.BaseDir
			return nil
		}),
		apply("max-payload", c.MCP.MaxPayload != "", func() error {
			return MaxPayload.Set(c.MCP.MaxPayload)
		}),
		apply("format", c.Output.Format != "", func() error {
			OutputFormat = c.Output.Format
			return nil
		}),
		apply("no-color", c.Output.Color != nil, func() error {
			NoColor = !*c.Output.Color
			return nil
		}),
	)
}
