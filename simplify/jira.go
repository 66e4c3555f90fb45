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

// In this file: Jira issues, search results and comments.

import "encoding/json"

// JiraUser is a Jira user without avatars, self links and time zone.
type JiraUser struct {
	DisplayName  string `json:"displayName,omitempty"`
	EmailAddress string `json:"emailAddress,omitempty"`
	Active       *bool  `json:"active,omitempty"`
}

type rawJiraUser struct {
	DisplayName  opt[string] `json:"displayName"`
	EmailAddress opt[string] `json:"emailAddress"`
	Active       opt[bool]   `json:"active"`
}

// parseJiraUser accepts any object, Jira users have no field that is
// present in every deployment.
func parseJiraUser(raw json.RawMessage) (*JiraUser, bool) {
	var u rawJiraUser
	if !decodeLoose(raw, &u) {
		return nil, false
	}
	return &JiraUser{
		DisplayName:  u.DisplayName.get(),
		EmailAddress: u.EmailAddress.get(),
		Active:       u.Active.ptr(),
	}, true
}

// JiraComment is an issue comment.  Body is kept as sent by Jira (wiki
// markup string on Data Center).
type JiraComment struct {
	ID      string          `json:"id"`
	Body    json.RawMessage `json:"body,omitempty"`
	Author  *JiraUser       `json:"author,omitempty"`
	Created string          `json:"created,omitempty"`
	Updated string          `json:"updated,omitempty"`
}

type rawJiraComment struct {
	ID      *string         `json:"id" validate:"required"`
	Body    json.RawMessage `json:"body"`
	Author  json.RawMessage `json:"author"`
	Created opt[string]     `json:"created"`
	Updated opt[string]     `json:"updated"`
}

// ValidJiraComment reports whether raw is a comment with a string id.
func ValidJiraComment(raw json.RawMessage) bool {
	_, ok := parseJiraComment(raw)
	return ok
}

func parseJiraComment(raw json.RawMessage) (JiraComment, bool) {
	var c rawJiraComment
	if !decodeShape(raw, &c) {
		return JiraComment{}, false
	}
	out := JiraComment{
		ID:      *c.ID,
		Body:    nonNull(c.Body),
		Created: c.Created.get(),
		Updated: c.Updated.get(),
	}
	if u, ok := parseJiraUser(c.Author); ok {
		out.Author = u
	}
	return out, true
}

// parseJiraComments projects comments, skipping invalid ones.  It returns
// the number of raw comments alongside.
func parseJiraComments(raws []json.RawMessage) ([]JiraComment, int) {
	out := make([]JiraComment, 0, len(raws))
	for _, r := range raws {
		if c, ok := parseJiraComment(r); ok {
			out = append(out, c)
		}
	}
	return out, len(raws)
}

// Issue is a Jira issue reduced to its fields.
type Issue struct {
	ID     string       `json:"id,omitempty"`
	Key    string       `json:"key"`
	Fields *IssueFields `json:"fields,omitempty"`
}

type rawIssue struct {
	ID     opt[string]     `json:"id"`
	Key    *string         `json:"key" validate:"required"`
	Fields json.RawMessage `json:"fields"`
}

// ValidIssue reports whether raw is an issue with a string key.
func ValidIssue(raw json.RawMessage) bool {
	var is rawIssue
	return decodeShape(raw, &is)
}

func parseIssue(raw json.RawMessage) (Issue, bool) {
	var is rawIssue
	if !decodeShape(raw, &is) {
		return Issue{}, false
	}
	return Issue{
		ID:     is.ID.get(),
		Key:    *is.Key,
		Fields: simplifyFields(is.Fields),
	}, true
}

// SimplifyIssue simplifies a single issue (/issue/{key}).  Issue level
// metadata (self, expand, schema, names, operations, editmeta,
// renderedFields, properties, versionedRepresentations, transitions,
// changelog) is dropped.
func SimplifyIssue(raw json.RawMessage) Result[Issue] {
	is, ok := parseIssue(raw)
	if !ok {
		return passthrough[Issue](raw)
	}
	return simplified(&is)
}

// SearchResults is the simplified JQL search response.
type SearchResults struct {
	Total           *int64   `json:"total,omitempty"`
	StartAt         *int64   `json:"startAt,omitempty"`
	MaxResults      *int64   `json:"maxResults,omitempty"`
	Issues          []Issue  `json:"issues"`
	WarningMessages []string `json:"warningMessages,omitempty"`
}

type rawSearchResults struct {
	Total           opt[int64]        `json:"total"`
	StartAt         opt[int64]        `json:"startAt"`
	MaxResults      opt[int64]        `json:"maxResults"`
	Issues          []json.RawMessage `json:"issues" validate:"required"`
	WarningMessages opt[[]string]     `json:"warningMessages"`
}

// SimplifySearchResults simplifies a JQL search response (/search).
func SimplifySearchResults(raw json.RawMessage) Result[SearchResults] {
	var sr rawSearchResults
	if !decodeShape(raw, &sr) {
		return passthrough[SearchResults](raw)
	}
	issues := make([]Issue, 0, len(sr.Issues))
	for _, r := range sr.Issues {
		if is, ok := parseIssue(r); ok {
			issues = append(issues, is)
		}
	}
	if !keep(len(issues), len(sr.Issues)) {
		return passthrough[SearchResults](raw)
	}
	return simplified(&SearchResults{
		Total:           sr.Total.ptr(),
		StartAt:         sr.StartAt.ptr(),
		MaxResults:      sr.MaxResults.ptr(),
		Issues:          issues,
		WarningMessages: sr.WarningMessages.get(),
	})
}

// Comments is the simplified issue comments page.
type Comments struct {
	Total      *int64        `json:"total,omitempty"`
	StartAt    *int64        `json:"startAt,omitempty"`
	MaxResults *int64        `json:"maxResults,omitempty"`
	Comments   []JiraComment `json:"comments"`
}

type rawComments struct {
	Total      opt[int64]        `json:"total"`
	StartAt    opt[int64]        `json:"startAt"`
	MaxResults opt[int64]        `json:"maxResults"`
	Comments   []json.RawMessage `json:"comments" validate:"required"`
}

// SimplifyComments simplifies an issue comments page
// (/issue/{key}/comment).
func SimplifyComments(raw json.RawMessage) Result[Comments] {
	var rc rawComments
	if !decodeShape(raw, &rc) {
		return passthrough[Comments](raw)
	}
	comments, total := parseJiraComments(rc.Comments)
	if !keep(len(comments), total) {
		return passthrough[Comments](raw)
	}
	return simplified(&Comments{
		Total:      rc.Total.ptr(),
		StartAt:    rc.StartAt.ptr(),
		MaxResults: rc.MaxResults.ptr(),
		Comments:   comments,
	})
}

// EssentialJiraFields returns the issue fields worth requesting from Jira.
// Pass them as the "fields" query parameter of /search or /issue to shrink
// the response before it is simplified.
func EssentialJiraFields() []string {
	return []string{
		"summary",
		"description",
		"status",
		"priority",
		"issuetype",
		"assignee",
		"reporter",
		"created",
		"updated",
		"resolutiondate",
		"labels",
		"components",
		"fixVersions",
		"project",
		"comment",
	}
}

// nonNull returns raw, or nil if it is absent or null.
func nonNull(raw json.RawMessage) json.RawMessage {
	if isNull(raw) {
		return nil
	}
	return raw
}
