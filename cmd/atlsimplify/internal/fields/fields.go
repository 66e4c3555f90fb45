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

// Package fields implements the "atlsimplify fields" command.
package fields

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rusq/atlassian-dc-mcp/cmd/atlsimplify/internal/cfg"
	"github.com/rusq/atlassian-dc-mcp/cmd/atlsimplify/internal/golang/base"
	"github.com/rusq/atlassian-dc-mcp/simplify"
)

var CmdFields = &base.Command{
	UsageLine: "atlsimplify fields [-lines]",
	Short:     "print the essential Jira fields",
	Long: `
# Fields

Prints the Jira fields that the issue and search simplifiers keep, comma
separated, ready to be used as the "fields" query parameter of a Jira REST
API request:

    curl -s "$JIRA/rest/api/2/search?jql=...&fields=$(atlsimplify fields)"

Custom fields are kept by the simplifiers as well, add the ones you need to
the list.
`,
	FlagMask:   cfg.OmitAll,
	PrintFlags: true,
	Run:        runFields,
}

var perLine bool

func init() {
	CmdFields.Flag.BoolVar(&perLine, "lines", false, "print one field per line")
}

func runFields(ctx context.Context, cmd *base.Command, args []string) error {
	if len(args) > 0 {
		base.SetExitStatus(base.SInvalidParameters)
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	return printFields(os.Stdout, perLine)
}

func printFields(w io.Writer, perLine bool) error {
	sep := ","
	if perLine {
		sep = "\n"
	}
	_, err := fmt.Fprintln(w, strings.Join(simplify.EssentialJiraFields(), sep))
	return err
}
