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

package simplifycmd

import (
	"encoding/json"
	"slices"

	"github.com/rusq/atlassian-dc-mcp/simplify"
)

// kind is a response kind that the command can simplify.
type kind struct {
	Name        string
	Description string
	// simplify returns the value to encode, and whether the input was
	// returned unchanged.
	simplify func(json.RawMessage) (any, bool)
	// lines renders the text summary, nil if the kind has none.
	lines func(json.RawMessage) []string
}

// adapt converts a simplifier to the kind signature.
func adapt[T any](fn func(json.RawMessage) simplify.Result[T]) func(json.RawMessage) (any, bool) {
	return func(raw json.RawMessage) (any, bool) {
		res := fn(raw)
		return res, res.IsPassthrough()
	}
}

var kinds = []kind{
	{
		Name:        "pr-activities",
		Description: "Bitbucket pull request activities",
		simplify:    adapt(simplify.SimplifyPRActivities),
		lines:       simplify.CommentSummaryLines,
	},
	{
		Name:        "pr-changes",
		Description: "Bitbucket pull request changes",
		simplify:    adapt(simplify.SimplifyPRChanges),
		lines:       simplify.ChangeSummaryLines,
	},
	{
		Name:        "inbox",
		Description: "Bitbucket inbox pull requests",
		simplify:    adapt(simplify.SimplifyInboxPullRequests),
	},
	{
		Name:        "issue",
		Description: "Jira issue",
		simplify:    adapt(simplify.SimplifyIssue),
	},
	{
		Name:        "search",
		Description: "Jira search results",
		simplify:    adapt(simplify.SimplifySearchResults),
	},
	{
		Name:        "comments",
		Description: "Jira issue comments",
		simplify:    adapt(simplify.SimplifyComments),
	},
}

func lookupKind(name string) (*kind, bool) {
	i := slices.IndexFunc(kinds, func(k kind) bool { return k.Name == name })
	if i < 0 {
		return nil, false
	}
	return &kinds[i], true
}

func kindNames() []string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.Name
	}
	return names
}
