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

package simplify

// In this file: one line per element text summaries for quick-glance tool
// output.  These are advisory views: invalid input gives no lines, there is
// no passthrough.

import (
	"encoding/json"
	"fmt"
	"strconv"
)

var changeVerbs = map[string]string{
	ChangeAdd:    "Added",
	ChangeDelete: "Deleted",
	ChangeModify: "Modified",
	ChangeMove:   "Moved",
}

// values returns the "values" array of a Bitbucket page, or nil.
func values(raw json.RawMessage) []json.RawMessage {
	var p struct {
		Values []json.RawMessage `json:"values"`
	}
	decodeLoose(raw, &p)
	return p.Values
}

// ChangeSummaryLines renders a changes page as lines like
//
//	Moved: src/new.go (from src/old.go) [2 comments]
func ChangeSummaryLines(raw json.RawMessage) []string {
	lines := []string{}
	for _, v := range values(raw) {
		var c rawChange
		if !decodeShape(v, &c) {
			continue
		}
		verb, ok := changeVerbs[*c.Type]
		if !ok {
			verb = *c.Type
		}
		line := verb + ": " + *c.Path.ToString
		if src, ok := c.srcPath(); ok {
			line += " (from " + *src.ToString + ")"
		}
		if n := c.comments(); n > 0 {
			line += fmt.Sprintf(" [%d %s]", n, plural(n, "comment"))
		}
		lines = append(lines, line)
	}
	return lines
}

// CommentSummaryLines renders the comments of an activities page as lines
// like
//
//	Jane Doe on config.yml:6: This needs review
//
// Comments without an anchor are reported on "PR" with an empty line.
func CommentSummaryLines(raw json.RawMessage) []string {
	lines := []string{}
	for _, v := range values(raw) {
		a, ok := parseActivity(v)
		if !ok || a.Action != ActionCommented || a.Comment == nil {
			continue
		}
		lines = append(lines, commentLine(a.Comment))
	}
	return lines
}

func commentLine(c *Comment) string {
	where, line := "PR", ""
	if c.Anchor != nil {
		where = c.Anchor.Path
		if c.Anchor.Line > 0 {
			line = strconv.FormatInt(c.Anchor.Line, 10)
		}
	}
	return fmt.Sprintf("%s on %s:%s: %s", c.Author.label(), where, line, c.Text)
}

func plural(n int64, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
