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

func TestSimplifyInboxPullRequests(t *testing.T) {
	raw := fixture(fxtrInbox)
	r := SimplifyInboxPullRequests(raw)
	got, ok := r.Simplified()
	require.True(t, ok)

	assert.True(t, got.IsLastPage)
	assert.Nil(t, got.NextPageStart)
	assert.Equal(t, InboxSummary{
		TotalCount: 3,
		ByRepository: map[string]int{
			"PROJ/myproject-api": 2,
			"WEB/frontend-app":   1,
		},
	}, got.Summary)
	require.Len(t, got.PullRequests, 3)

	assert.Equal(t, InboxPullRequest{
		ID:          101,
		Title:       "feat: Add user authentication module",
		Description: ptr("Implements OAuth2 login flow"),
		State:       "OPEN",
		Draft:       false,
		CreatedDate: 1700000000000,
		UpdatedDate: 1700001000000,
		Link:        "https://bitbucket.example.com/projects/PROJ/repos/myproject-api/pull-requests/101",
		Author:      &InboxAuthor{Name: "jsmith", DisplayName: "John Smith"},
		FromRef:     "feat/user-auth",
		ToRef:       "main",
		Repository:  Repository{Slug: "myproject-api", ProjectKey: "PROJ"},
		Reviewers: []InboxReviewer{
			{Name: "adoe", Approved: false, Status: "UNAPPROVED"},
			{Name: "bjones", Approved: true, Status: "APPROVED"},
		},
		CommentCount:  3,
		OpenTaskCount: 1,
	}, got.PullRequests[0])

	bare := got.PullRequests[1]
	assert.Equal(t, "refs/heads/feat/x", bare.FromRef, "falls back to the ref id")
	assert.False(t, bare.Draft)
	assert.Nil(t, bare.Description)
	assert.Empty(t, bare.Link)
	assert.Zero(t, bare.CommentCount)
	assert.Zero(t, bare.OpenTaskCount)

	draft := got.PullRequests[2]
	assert.True(t, draft.Draft)
	assert.Equal(t, ptr(""), draft.Description, "empty description is present")
	assert.Equal(t, "WEB/frontend-app", draft.Repository.Key())
	assert.Equal(t, []InboxReviewer{}, draft.Reviewers)
	assert.Equal(t, int64(8), draft.CommentCount)

	assert.Equal(t, fxtrInbox, []byte(raw), "input must not be modified")
	assert.Greater(t, reduction(t, raw, r), 0.5)
}

func TestSimplifyInboxPullRequests_omitsAbsentFields(t *testing.T) {
	got, ok := SimplifyInboxPullRequests(fixture(fxtrInbox)).Simplified()
	require.True(t, ok)

	m := asMap(t, got.PullRequests[1])
	assert.NotContains(t, m, "description")
	assert.NotContains(t, m, "link")
	assert.Equal(t, false, m["draft"])
	assert.Equal(t, float64(0), m["commentCount"])
	assert.Equal(t, float64(0), m["openTaskCount"])
}

func TestSimplifyInboxPullRequests_passthrough(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not an envelope", `{"invalid":"data"}`},
		{"missing isLastPage", `{"values":[]}`},
		{"string isLastPage", `{"values":[],"isLastPage":"true"}`},
		{"every element invalid", `{"values":[{"id":"101","title":"t","state":"OPEN"},{"id":102,"state":"OPEN"}],"isLastPage":true}`},
		{"number", `42`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := json.RawMessage(tt.input)
			requirePassthrough(t, raw, SimplifyInboxPullRequests(raw))
		})
	}
}

func TestSimplifyInboxPullRequests_edgeCases(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  InboxPullRequests
	}{
		{
			name:  "empty inbox",
			input: `{"size":0,"limit":25,"isLastPage":true,"values":[],"start":0}`,
			want: InboxPullRequests{
				PullRequests: []InboxPullRequest{},
				Summary:      InboxSummary{ByRepository: map[string]int{}},
				IsLastPage:   true,
			},
		},
		{
			name:  "minimal pull request with paging",
			input: `{"isLastPage":false,"nextPageStart":25,"values":[{"id":1,"title":"t","state":"MERGED"}]}`,
			want: InboxPullRequests{
				PullRequests: []InboxPullRequest{{
					ID:         1,
					Title:      "t",
					State:      "MERGED",
					Repository: Repository{Slug: unknownRepo, ProjectKey: unknownRepo},
					Reviewers:  []InboxReviewer{},
				}},
				Summary: InboxSummary{
					TotalCount:   1,
					ByRepository: map[string]int{"unknown/unknown": 1},
				},
				IsLastPage:    false,
				NextPageStart: ptr(int64(25)),
			},
		},
		{
			name: "repository from the source ref, reviewers without user skipped",
			input: `{"isLastPage":true,"values":[{
				"id":1,"title":"t","state":"OPEN",
				"author":{"user":{"displayName":"No Handle"}},
				"fromRef":{"id":"refs/heads/fork","repository":{"slug":"fork","project":{"key":"~JSMITH"}}},
				"toRef":{"id":"refs/heads/main","displayId":"main"},
				"reviewers":[{"approved":true,"status":"APPROVED"},{"user":{"name":"adoe"}}],
				"properties":{"commentCount":"many"},
				"links":{"self":[]}
			}]}`,
			want: InboxPullRequests{
				PullRequests: []InboxPullRequest{{
					ID:         1,
					Title:      "t",
					State:      "OPEN",
					FromRef:    "refs/heads/fork",
					ToRef:      "main",
					Repository: Repository{Slug: "fork", ProjectKey: "~JSMITH"},
					Reviewers:  []InboxReviewer{{Name: "adoe"}},
				}},
				Summary: InboxSummary{
					TotalCount:   1,
					ByRepository: map[string]int{"~JSMITH/fork": 1},
				},
				IsLastPage: true,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SimplifyInboxPullRequests(json.RawMessage(tt.input)).Simplified()
			require.True(t, ok)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestValidInboxPullRequest(t *testing.T) {
	assert.True(t, ValidInboxPullRequest(json.RawMessage(`{"id":1,"title":"","state":"OPEN"}`)))
	assert.False(t, ValidInboxPullRequest(json.RawMessage(`{"id":1,"title":"t"}`)))
	assert.False(t, ValidInboxPullRequest(json.RawMessage(`{"id":1.5,"title":"t","state":"OPEN"}`)))
	assert.False(t, ValidInboxPullRequest(json.RawMessage(`"pr"`)))
}
