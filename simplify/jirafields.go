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

// In this file: the allow-list of Jira issue fields.

import (
	"bytes"
	"encoding/json"
	"maps"
	"regexp"
	"slices"
)

// customFieldRe matches the keys of Jira custom fields.
var customFieldRe = regexp.MustCompile(`^customfield_\d+$`)

// IssueFields keeps the commonly used issue fields and every custom field.
type IssueFields struct {
	Summary string `json:"summary,omitempty"`
	// Description is kept verbatim: a string on Data Center, a document on
	// Cloud.
	Description    json.RawMessage `json:"description,omitempty"`
	Status         *Status         `json:"status,omitempty"`
	Priority       *Named          `json:"priority,omitempty"`
	IssueType      *IssueType      `json:"issuetype,omitempty"`
	Project        *Project        `json:"project,omitempty"`
	Resolution     *Named          `json:"resolution,omitempty"`
	Assignee       *JiraUser       `json:"assignee,omitempty"`
	Reporter       *JiraUser       `json:"reporter,omitempty"`
	Creator        *JiraUser       `json:"creator,omitempty"`
	Created        string          `json:"created,omitempty"`
	Updated        string          `json:"updated,omitempty"`
	ResolutionDate string          `json:"resolutiondate,omitempty"`
	DueDate        string          `json:"duedate,omitempty"`
	Labels         []string        `json:"labels,omitempty"`
	Components     []Named         `json:"components,omitempty"`
	FixVersions    []Named         `json:"fixVersions,omitempty"`
	Versions       []Named         `json:"versions,omitempty"`
	Parent         *IssueRef       `json:"parent,omitempty"`
	Subtasks       []IssueRef      `json:"subtasks,omitempty"`
	TimeTracking   json.RawMessage `json:"timetracking,omitempty"`
	Comment        *CommentField   `json:"comment,omitempty"`
	Attachment     []Attachment    `json:"attachment,omitempty"`
	Worklog        *WorklogField   `json:"worklog,omitempty"`

	// Custom holds customfield_NNNNN values as sent by Jira.  A custom
	// field whose value is null is omitted.
	Custom map[string]json.RawMessage `json:"-"`
}

// Named is any Jira entity that is only interesting by its name.
type Named struct {
	Name string `json:"name,omitempty"`
}

// Status is the workflow status of an issue.
type Status struct {
	Name           string          `json:"name,omitempty"`
	StatusCategory *StatusCategory `json:"statusCategory,omitempty"`
}

// StatusCategory groups statuses (new, indeterminate, done).
type StatusCategory struct {
	Key  string `json:"key,omitempty"`
	Name string `json:"name,omitempty"`
}

// IssueType is the type of an issue.
type IssueType struct {
	Name    string `json:"name,omitempty"`
	Subtask *bool  `json:"subtask,omitempty"`
}

// Project is the project an issue belongs to.
type Project struct {
	Key  string `json:"key,omitempty"`
	Name string `json:"name,omitempty"`
}

// IssueRef is a reference to a related issue (parent or subtask).
type IssueRef struct {
	ID      string `json:"id,omitempty"`
	Key     string `json:"key"`
	Summary string `json:"summary,omitempty"`
	Status  string `json:"status,omitempty"`
}

// CommentField is the comment field embedded in an issue.
type CommentField struct {
	Total    *int64        `json:"total,omitempty"`
	Comments []JiraComment `json:"comments"`
}

// Attachment is a file attached to an issue.
type Attachment struct {
	Filename string    `json:"filename"`
	Size     *int64    `json:"size,omitempty"`
	MimeType string    `json:"mimeType,omitempty"`
	Created  string    `json:"created,omitempty"`
	Author   *JiraUser `json:"author,omitempty"`
}

// WorklogField is the worklog field embedded in an issue.
type WorklogField struct {
	Total    *int64    `json:"total,omitempty"`
	Worklogs []Worklog `json:"worklogs"`
}

// Worklog is a single entry of logged work.
type Worklog struct {
	Author           *JiraUser `json:"author,omitempty"`
	Comment          string    `json:"comment,omitempty"`
	Started          string    `json:"started,omitempty"`
	TimeSpent        string    `json:"timeSpent,omitempty"`
	TimeSpentSeconds *int64    `json:"timeSpentSeconds,omitempty"`
}

// MarshalJSON encodes the known fields followed by the custom fields in key
// order.
func (f IssueFields) MarshalJSON() ([]byte, error) {
	type plain IssueFields
	b, err := json.Marshal(plain(f))
	if err != nil || len(f.Custom) == 0 {
		return b, err
	}
	var buf bytes.Buffer
	buf.Write(b[:len(b)-1])
	sep := len(b) > 2
	for _, k := range slices.Sorted(maps.Keys(f.Custom)) {
		if sep {
			buf.WriteByte(',')
		}
		sep = true
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if err := json.Compact(&buf, f.Custom[k]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// simplifyFields applies the allow-list to the raw fields object.  Nulls
// are dropped.
func simplifyFields(raw json.RawMessage) *IssueFields {
	if !isObject(raw) {
		return nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil
	}
	var out IssueFields
	for key, v := range fields {
		if isNull(v) {
			continue
		}
		switch key {
		case "summary":
			out.Summary = looseString(v)
		case "description":
			out.Description = v
		case "status":
			out.Status = parseStatus(v)
		case "priority":
			out.Priority = parseNamed(v)
		case "issuetype":
			out.IssueType = parseIssueType(v)
		case "project":
			out.Project = parseProject(v)
		case "resolution":
			out.Resolution = parseNamed(v)
		case "assignee":
			out.Assignee, _ = parseJiraUser(v)
		case "reporter":
			out.Reporter, _ = parseJiraUser(v)
		case "creator":
			out.Creator, _ = parseJiraUser(v)
		case "created":
			out.Created = looseString(v)
		case "updated":
			out.Updated = looseString(v)
		case "resolutiondate":
			out.ResolutionDate = looseString(v)
		case "duedate":
			out.DueDate = looseString(v)
		case "labels":
			var labels opt[[]string]
			_ = json.Unmarshal(v, &labels)
			out.Labels = labels.get()
		case "components":
			out.Components = parseNamedList(v)
		case "fixVersions":
			out.FixVersions = parseNamedList(v)
		case "versions":
			out.Versions = parseNamedList(v)
		case "parent":
			if ref, ok := parseIssueRef(v); ok {
				out.Parent = &ref
			}
		case "subtasks":
			out.Subtasks = parseIssueRefs(v)
		case "timetracking":
			out.TimeTracking = v
		case "comment":
			out.Comment = parseCommentField(v)
		case "attachment":
			out.Attachment = parseAttachments(v)
		case "worklog":
			out.Worklog = parseWorklogField(v)
		default:
			if customFieldRe.MatchString(key) {
				if out.Custom == nil {
					out.Custom = make(map[string]json.RawMessage)
				}
				out.Custom[key] = v
			}
		}
	}
	return &out
}

func looseString(raw json.RawMessage) string {
	var s opt[string]
	_ = json.Unmarshal(raw, &s)
	return s.get()
}

func parseNamed(raw json.RawMessage) *Named {
	var n struct {
		Name opt[string] `json:"name"`
	}
	if !decodeLoose(raw, &n) {
		return nil
	}
	return &Named{Name: n.Name.get()}
}

// parseNamedList projects an array of named entities, skipping elements
// that are not objects.
func parseNamedList(raw json.RawMessage) []Named {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := make([]Named, 0, len(items))
	for _, it := range items {
		if n := parseNamed(it); n != nil {
			out = append(out, *n)
		}
	}
	return out
}

func parseStatus(raw json.RawMessage) *Status {
	var s struct {
		Name           opt[string]     `json:"name"`
		StatusCategory json.RawMessage `json:"statusCategory"`
	}
	if !decodeLoose(raw, &s) {
		return nil
	}
	out := &Status{Name: s.Name.get()}
	var cat struct {
		Key  opt[string] `json:"key"`
		Name opt[string] `json:"name"`
	}
	if decodeLoose(s.StatusCategory, &cat) {
		out.StatusCategory = &StatusCategory{Key: cat.Key.get(), Name: cat.Name.get()}
	}
	return out
}

func parseIssueType(raw json.RawMessage) *IssueType {
	var it struct {
		Name    opt[string] `json:"name"`
		Subtask opt[bool]   `json:"subtask"`
	}
	if !decodeLoose(raw, &it) {
		return nil
	}
	return &IssueType{Name: it.Name.get(), Subtask: it.Subtask.ptr()}
}

func parseProject(raw json.RawMessage) *Project {
	var p struct {
		Key  opt[string] `json:"key"`
		Name opt[string] `json:"name"`
	}
	if !decodeLoose(raw, &p) {
		return nil
	}
	return &Project{Key: p.Key.get(), Name: p.Name.get()}
}

type rawIssueRef struct {
	ID     opt[string] `json:"id"`
	Key    *string     `json:"key"`
	Fields struct {
		Summary opt[string] `json:"summary"`
		Status  struct {
			Name opt[string] `json:"name"`
		} `json:"status"`
	} `json:"fields"`
}

// parseIssueRef requires a key, the nested fields are best effort.
func parseIssueRef(raw json.RawMessage) (IssueRef, bool) {
	var r rawIssueRef
	if !isObject(raw) {
		return IssueRef{}, false
	}
	// a wrong-typed fields object must not reject the reference.
	_ = json.Unmarshal(raw, &r)
	if r.Key == nil {
		return IssueRef{}, false
	}
	return IssueRef{
		ID:      r.ID.get(),
		Key:     *r.Key,
		Summary: r.Fields.Summary.get(),
		Status:  r.Fields.Status.Name.get(),
	}, true
}

func parseIssueRefs(raw json.RawMessage) []IssueRef {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := make([]IssueRef, 0, len(items))
	for _, it := range items {
		if ref, ok := parseIssueRef(it); ok {
			out = append(out, ref)
		}
	}
	return out
}

// parseCommentField projects the comment field, it is kept only when it
// carries a comments array.
func parseCommentField(raw json.RawMessage) *CommentField {
	var c struct {
		Total    opt[int64]        `json:"total"`
		Comments []json.RawMessage `json:"comments"`
	}
	if !decodeLoose(raw, &c) || c.Comments == nil {
		return nil
	}
	comments, _ := parseJiraComments(c.Comments)
	return &CommentField{
		Total:    c.Total.ptr(),
		Comments: comments,
	}
}

type rawAttachment struct {
	Filename *string         `json:"filename"`
	Size     opt[int64]      `json:"size"`
	MimeType opt[string]     `json:"mimeType"`
	Created  opt[string]     `json:"created"`
	Author   json.RawMessage `json:"author"`
}

// parseAttachments keeps the attachments that have a file name.
func parseAttachments(raw json.RawMessage) []Attachment {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := make([]Attachment, 0, len(items))
	for _, it := range items {
		var a rawAttachment
		if !decodeLoose(it, &a) || a.Filename == nil {
			continue
		}
		author, _ := parseJiraUser(a.Author)
		out = append(out, Attachment{
			Filename: *a.Filename,
			Size:     a.Size.ptr(),
			MimeType: a.MimeType.get(),
			Created:  a.Created.get(),
			Author:   author,
		})
	}
	return out
}

type rawWorklog struct {
	Author           json.RawMessage `json:"author"`
	Comment          opt[string]     `json:"comment"`
	Started          opt[string]     `json:"started"`
	TimeSpent        opt[string]     `json:"timeSpent"`
	TimeSpentSeconds opt[int64]      `json:"timeSpentSeconds"`
}

// parseWorklogField projects the worklog field, it is kept only when it
// carries a worklogs array.
func parseWorklogField(raw json.RawMessage) *WorklogField {
	var w struct {
		Total    opt[int64]        `json:"total"`
		Worklogs []json.RawMessage `json:"worklogs"`
	}
	if !decodeLoose(raw, &w) || w.Worklogs == nil {
		return nil
	}
	out := &WorklogField{
		Total:    w.Total.ptr(),
		Worklogs: make([]Worklog, 0, len(w.Worklogs)),
	}
	for _, it := range w.Worklogs {
		var e rawWorklog
		if !decodeLoose(it, &e) {
			continue
		}
		author, _ := parseJiraUser(e.Author)
		out.Worklogs = append(out.Worklogs, Worklog{
			Author:           author,
			Comment:          e.Comment.get(),
			Started:          e.Started.get(),
			TimeSpent:        e.TimeSpent.get(),
			TimeSpentSeconds: e.TimeSpentSeconds.ptr(),
		})
	}
	return out
}
