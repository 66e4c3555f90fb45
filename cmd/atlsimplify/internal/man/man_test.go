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

package man

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rusq/atlassian-dc-mcp/cmd/atlsimplify/internal/golang/base"
)

func TestTopics(t *testing.T) {
	for _, c := range []struct {
		name string
		cmd  *base.Command
		want string
	}{
		{"config", Config, "max_payload"},
		{"kinds", Kinds, "pr-activities"},
	} {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.name, c.cmd.Name())
			assert.False(t, c.cmd.Runnable())
			assert.Contains(t, c.cmd.Long, c.want)
		})
	}
}
