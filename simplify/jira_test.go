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
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimplifyIssue(t *testing.T) {
	raw := fixture(fxtrIssue)
	r := SimplifyIssue(raw)
	got, ok := r.Simplified()
	require.True(t, ok)

	assert.Equal(t, "10001", got.ID)
	assert.Equal(t, "PROJ-123", got.Key)
	f := got.Fields
	require.NotNil(t, f)
	assert.Equal(t, "Fix login bug", f.Summary)
	assert.JSONEq(t, `"Users cannot login with special characters in password"`, string(f.Description))
	assert.Equal(t, &Status{Name: "In Progress", StatusCategory: &StatusCategory{Key: "indeterminate", Name: "In Progress"}}, f.Status)
	assert.Equal(t, &Named{Name: "High"}, f.Priority)
	assert.Equal(t, &IssueType{Name: "Bug", Subtask: ptr(false)}, f.IssueType)
	assert.Equal(t, &Project{Key: "PROJ", Name: "Project Alpha"}, f.Project)
	assert.Equal(t, &JiraUser{DisplayName: "John Smith", EmailAddress: "jsmith@company.local", Active: ptr(true)}, f.Assignee)
	assert.Equal(t, "Alice Doe", f.Reporter.DisplayName)
	assert.Equal(t, []string{"security", "urgent"}, f.Labels)
	assert.Equal(t, []Named{{Name: "Authentication"}}, f.Components)
	assert.Equal(t, []Named{{Name: "2.4.0"}}, f.FixVersions)
	assert.Nil(t, f.Resolution)
	assert.Empty(t, f.ResolutionDate)

	require.NotNil(t, f.Comment)
	assert.Equal(t, ptr(int64(2)), f.Comment.Total)
	require.Len(t, f.Comment.Comments, 2)
	assert.Equal(t, "10051", f.Comment.Comments[1].ID)

	assert.JSONEq(t, `"Custom Value"`, string(f.Custom["customfield_10001"]))
	assert.NotContains(t, f.Custom, "customfield_10002", "null custom field")

	assert.Equal(t, fxtrIssue, []byte(raw), "input must not be modified")
	assert.Greater(t, reduction(t, raw, r), 0.3)
}

func TestSimplifyIssue_encoding(t *testing.T) {
	r := SimplifyIssue(fixture(fxtrIssue))
	m := asMap(t, r)
	for _, k := range []string{"self", "expand", "schema", "names", "operations", "editmeta", "renderedFields", "properties", "versionedRepresentations"} {
		assert.NotContains(t, m, k)
	}
	fields := m["fields"].(map[string]any)
	assert.Equal(t, "Custom Value", fields["customfield_10001"])
	assert.Equal(t, map[string]any{
		"self":  "https://jira.company.local/rest/api/2/customFieldOption/10100",
		"value": "Backend",
		"id":    "10100",
	}, fields["customfield_10003"])
	for _, k := range []string{"customfield_10002", "resolution", "resolutiondate", "duedate", "watches", "votes", "workratio", "lastViewed", "environment"} {
		assert.NotContains(t, fields, k)
	}
	assignee := fields["assignee"].(map[string]any)
	for _, k := range []string{"name", "key", "self", "avatarUrls", "timeZone"} {
		assert.NotContains(t, assignee, k)
	}
}

func TestSimplifyIssue_passthrough(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"no key", `{"id":"10001","fields":{"summary":"s"}}`},
		{"numeric key", `{"id":"10001","key":123}`},
		{"error response", `{"errorMessages":["Issue does not exist or you do not have permission to see it."],"errors":{}}`},
		{"null", `null`},
		{"array", `[{"key":"PROJ-1"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := json.RawMessage(tt.input)
			requirePassthrough(t, raw, SimplifyIssue(raw))
		})
	}
}

func TestSimplifyIssue_fields(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "no fields",
			input: `{"key":"PROJ-1"}`,
			want:  `{"key":"PROJ-1"}`,
		},
		{
			name:  "fields is not an object",
			input: `{"key":"PROJ-1","fields":"x"}`,
			want:  `{"key":"PROJ-1"}`,
		},
		{
			name:  "empty fields",
			input: `{"id":"1","key":"PROJ-1","fields":{}}`,
			want:  `{"id":"1","key":"PROJ-1","fields":{}}`,
		},
		{
			name:  "only custom fields",
			input: `{"key":"PROJ-1","fields":{"customfield_2":[1, 2],"customfield_1":{"value": "a"},"customfield_x":1,"mycustomfield_3":1}}`,
			want:  `{"key":"PROJ-1","fields":{"customfield_1":{"value":"a"},"customfield_2":[1,2]}}`,
		},
		{
			name: "parent and subtasks",
			input: `{"key":"PROJ-2","fields":{
				"parent":{"id":"1","key":"PROJ-1","self":"s","fields":{"summary":"Epic","status":{"name":"Open","id":"1"},"priority":{"name":"High"}}},
				"subtasks":[{"key":"PROJ-3","fields":"broken"},{"id":"4"}]
			}}`,
			want: `{"key":"PROJ-2","fields":{"parent":{"id":"1","key":"PROJ-1","summary":"Epic","status":"Open"},"subtasks":[{"key":"PROJ-3"}]}}`,
		},
		{
			name:  "wrong typed known fields",
			input: `{"key":"PROJ-1","fields":{"summary":5,"labels":"l","components":{"name":"c"},"status":"Open","comment":{"total":0}}}`,
			want:  `{"key":"PROJ-1","fields":{}}`,
		},
		{
			name:  "empty comment field",
			input: `{"key":"PROJ-1","fields":{"comment":{"comments":[],"total":0}}}`,
			want:  `{"key":"PROJ-1","fields":{"comment":{"total":0,"comments":[]}}}`,
		},
		{
			name:  "attachment and empty worklog",
			input: `{"id":"1","key":"P-1","fields":{"summary":"s","attachment":[{"filename":"log.txt","size":10}],"worklog":{"total":1,"worklogs":[]}}}`,
			want:  `{"id":"1","key":"P-1","fields":{"summary":"s","attachment":[{"filename":"log.txt","size":10}],"worklog":{"total":1,"worklogs":[]}}}`,
		},
		{
			name: "attachments and worklogs are projected",
			input: `{"key":"P-1","fields":{
				"attachment":[
					{"self":"u","id":"7","filename":"a.png","size":2048,"mimeType":"image/png","created":"2024-01-01","content":"http://x","author":{"name":"jd","displayName":"John","avatarUrls":{}}},
					{"id":"8"},
					"x"
				],
				"worklog":{"startAt":0,"maxResults":20,"total":2,"worklogs":[
					{"id":"1","author":{"displayName":"Jane","key":"jane"},"comment":"fixing","started":"2024-01-02","timeSpent":"1h","timeSpentSeconds":3600,"issueId":"10"},
					5
				]}
			}}`,
			want: `{"key":"P-1","fields":{
				"attachment":[{"filename":"a.png","size":2048,"mimeType":"image/png","created":"2024-01-01","author":{"displayName":"John"}}],
				"worklog":{"total":2,"worklogs":[{"author":{"displayName":"Jane"},"comment":"fixing","started":"2024-01-02","timeSpent":"1h","timeSpentSeconds":3600}]}
			}}`,
		},
		{
			name:  "worklog without entries",
			input: `{"key":"P-1","fields":{"worklog":{"total":0},"attachment":{}}}`,
			want:  `{"key":"P-1","fields":{}}`,
		},
		{
			name:  "null custom field is omitted",
			input: `{"key":"P-1","fields":{"customfield_1":null,"customfield_2":"v"}}`,
			want:  `{"key":"P-1","fields":{"customfield_2":"v"}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := SimplifyIssue(json.RawMessage(tt.input))
			require.False(t, r.IsPassthrough())
			b, err := json.Marshal(r)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(b))
		})
	}
}

func TestIssueFields_MarshalJSON(t *testing.T) {
	f := IssueFields{
		Summary: "s",
		Custom: map[string]json.RawMessage{
			"customfield_20": json.RawMessage(`"b"`),
			"customfield_10": json.RawMessage(`{ "a" : 1 }`),
		},
	}
	b, err := json.Marshal(f)
	require.NoError(t, err)
	assert.Equal(t, `{"summary":"s","customfield_10":{"a":1},"customfield_20":"b"}`, string(b))

	b, err = json.Marshal(IssueFields{Custom: map[string]json.RawMessage{"customfield_1": json.RawMessage(`1`)}})
	require.NoError(t, err)
	assert.Equal(t, `{"customfield_1":1}`, string(b))
}

func TestSimplifySearchResults(t *testing.T) {
	raw := fixture(fxtrSearch)
	r := SimplifySearchResults(raw)
	got, ok := r.Simplified()
	require.True(t, ok)

	assert.Equal(t, ptr(int64(2)), got.Total)
	assert.Equal(t, ptr(int64(0)), got.StartAt)
	assert.Equal(t, ptr(int64(50)), got.MaxResults)
	require.Len(t, got.Issues, 2)
	assert.Equal(t, "PROJ-124", got.Issues[1].Key)
	assert.Equal(t, "Password reset email is not sent", got.Issues[1].Fields.Summary)
	assert.NotContains(t, asMap(t, got), "expand")

	assert.Equal(t, fxtrSearch, []byte(raw), "input must not be modified")
	assert.Greater(t, reduction(t, raw, r), 0.3)
}

func TestSimplifySearchResults_cases(t *testing.T) {
	tests := []struct {
		name            string
		input           string
		wantPassthrough bool
		want            string
	}{
		{
			name:            "not a search response",
			input:           `{"values":[]}`,
			wantPassthrough: true,
		},
		{
			name:            "every issue invalid",
			input:           `{"total":2,"issues":[{"id":"1"},{"key":null}]}`,
			wantPassthrough: true,
		},
		{
			name:  "no results",
			input: `{"startAt":0,"maxResults":50,"total":0,"issues":[]}`,
			want:  `{"startAt":0,"maxResults":50,"total":0,"issues":[]}`,
		},
		{
			name:  "invalid issues are skipped",
			input: `{"total":2,"issues":[{"key":"PROJ-1"},{"id":"2"}],"warningMessages":["The value 'X' does not exist for the field 'project'."]}`,
			want:  `{"total":2,"issues":[{"key":"PROJ-1"}],"warningMessages":["The value 'X' does not exist for the field 'project'."]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := json.RawMessage(tt.input)
			r := SimplifySearchResults(raw)
			if tt.wantPassthrough {
				requirePassthrough(t, raw, r)
				return
			}
			require.False(t, r.IsPassthrough())
			b, err := json.Marshal(r)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(b))
		})
	}
}

func TestSimplifyComments(t *testing.T) {
	raw := fixture(fxtrComments)
	r := SimplifyComments(raw)
	got, ok := r.Simplified()
	require.True(t, ok)

	require.Len(t, got.Comments, 2)
	assert.Equal(t, JiraComment{
		ID:      "10050",
		Body:    json.RawMessage(`"This is a test comment"`),
		Author:  &JiraUser{DisplayName: "John Smith", EmailAddress: "jsmith@company.local", Active: ptr(true)},
		Created: "2024-01-16T14:20:00.000+0000",
		Updated: "2024-01-16T14:20:00.000+0000",
	}, got.Comments[0])
	assert.Equal(t, ptr(int64(2)), got.Total)

	c := asMap(t, got.Comments[1])
	for _, k := range []string{"self", "renderedBody", "properties", "updateAuthor"} {
		assert.NotContains(t, c, k)
	}

	assert.Equal(t, fxtrComments, []byte(raw), "input must not be modified")
	assert.Greater(t, reduction(t, raw, r), 0.4)
}

func TestSimplifyComments_cases(t *testing.T) {
	tests := []struct {
		name            string
		input           string
		wantPassthrough bool
		want            string
	}{
		{"not a comments page", `{"issues":[]}`, true, ""},
		{"comments is an object", `{"comments":{"id":"1"}}`, true, ""},
		{"every comment invalid", `{"comments":[{"id":1},{"body":"b"}]}`, true, ""},
		{"no comments", `{"startAt":0,"maxResults":50,"total":0,"comments":[]}`, false, `{"startAt":0,"maxResults":50,"total":0,"comments":[]}`},
		{
			"comment without author and body",
			`{"comments":[{"id":"7","author":null,"body":null}]}`,
			false,
			`{"comments":[{"id":"7"}]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := json.RawMessage(tt.input)
			r := SimplifyComments(raw)
			if tt.wantPassthrough {
				requirePassthrough(t, raw, r)
				return
			}
			require.False(t, r.IsPassthrough())
			b, err := json.Marshal(r)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(b))
		})
	}
}

func TestEssentialJiraFields(t *testing.T) {
	fields := EssentialJiraFields()
	assert.Len(t, fields, 15)
	assert.Contains(t, fields, "summary")
	assert.Contains(t, fields, "comment")

	fields[0] = "mutated"
	assert.Equal(t, "summary", EssentialJiraFields()[0])
}
