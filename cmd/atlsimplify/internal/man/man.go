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

// Package man contains the help topics that are not commands.
package man

import (
	_ "embed"

	"github.com/rusq/atlassian-dc-mcp/cmd/atlsimplify/internal/golang/base"
)

//go:embed assets/config.md
var mdConfig string

var Config = &base.Command{
	UsageLine: "atlsimplify config",
	Short:     "configuration file format",
	Long:      mdConfig,
}

//go:embed assets/kinds.md
var mdKinds string

var Kinds = &base.Command{
	UsageLine: "atlsimplify kinds",
	Short:     "supported response kinds",
	Long:      mdKinds,
}
