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

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// fixtures resembling real Data Center responses.
var (
	//go:embed testdata/pr_activities.json
	fxtrActivities []byte
	//go:embed testdata/pr_changes.json
	fxtrChanges []byte
	//go:embed testdata/inbox.json
	fxtrInbox []byte
	//go:embed testdata/jira_issue.json
	fxtrIssue []byte
	//go:embed testdata/jira_search.json
	fxtrSearch []byte
	//go:embed testdata/jira_comments.json
	fxtrComments []byte
)

// fixture returns a private copy of the fixture, so that tests can check
// that the input is not modified.
func fixture(b []byte) json.RawMessage {
	return bytes.Clone(b)
}

// reduction returns the relative size reduction of the compacted encoding
// of v against the compacted original.
func reduction(t *testing.T, original []byte, v any) float64 {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.Compact(&buf, original))
	got, err := json.Marshal(v)
	require.NoError(t, err)
	return float64(buf.Len()-len(got)) / float64(buf.Len())
}

// asMap encodes v and decodes it back into a generic map, to inspect which
// keys made it into the output.
func asMap(t *testing.T, v any) map[string]any {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	return m
}

// requirePassthrough checks that r is a passthrough of exactly raw.
func requirePassthrough[T any](t *testing.T, raw json.RawMessage, r Result[T]) {
	t.Helper()
	require.True(t, r.IsPassthrough(), "expected passthrough")
	got := r.Raw()
	require.Equal(t, len(raw), len(got))
	if len(raw) > 0 {
		require.Same(t, &raw[0], &got[0], "passthrough must return the input slice")
	}
}
