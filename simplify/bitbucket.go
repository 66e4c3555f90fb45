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

// In this file: Bitbucket users and pull request comments.

import "encoding/json"

// User is a Bitbucket user.  Name is the login handle, Bitbucket API calls
// (reviewers, mentions) key off it.
type User struct {
	Name         string `json:"name"`
	DisplayName  string `json:"displayName,omitempty"`
	EmailAddress string `json:"emailAddress,omitempty"`
	Active       *bool  `json:"active,omitempty"`
}

// label returns a human readable name of the user.
func (u User) label() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Name
}

type rawUser struct {
	Name         *string     `json:"name" validate:"required"`
	DisplayName  opt[string] `json:"displayName"`
	EmailAddress opt[string] `json:"emailAddress"`
	Active       opt[bool]   `json:"active"`
}

// ValidUser reports whether raw looks like a Bitbucket user: an object with
// a string name.
func ValidUser(raw json.RawMessage) bool {
	_, ok := parseUser(raw)
	return ok
}

func parseUser(raw json.RawMessage) (User, bool) {
	var u rawUser
	if !decodeShape(raw, &u) {
		return User{}, false
	}
	return User{
		Name:         *u.Name,
		DisplayName:  u.DisplayName.get(),
		EmailAddress: u.EmailAddress.get(),
		Active:       u.Active.ptr(),
	}, true
}

// Anchor is the location of a comment in the diff.
type Anchor struct {
	Line     int64  `json:"line,omitempty"`
	Path     string `json:"path"`
	FileType string `json:"fileType,omitempty"`
}

type rawAnchor struct {
	Path     *string     `json:"path" validate:"required"`
	Line     opt[int64]  `json:"line"`
	FileType opt[string] `json:"fileType"`
}

// ValidAnchor reports whether raw is a comment anchor with a string path.
// File-level comments carry no line.
func ValidAnchor(raw json.RawMessage) bool {
	_, ok := parseAnchor(raw)
	return ok
}

func parseAnchor(raw json.RawMessage) (Anchor, bool) {
	var a rawAnchor
	if !decodeShape(raw, &a) {
		return Anchor{}, false
	}
	return Anchor{
		Line:     a.Line.get(),
		Path:     *a.Path,
		FileType: a.FileType.get(),
	}, true
}

// Comment is a pull request comment without replies, permissions and
// properties.
type Comment struct {
	ID             int64   `json:"id"`
	Text           string  `json:"text"`
	Author         User    `json:"author"`
	CreatedDate    int64   `json:"createdDate,omitempty"`
	UpdatedDate    int64   `json:"updatedDate,omitempty"`
	Anchor         *Anchor `json:"anchor,omitempty"`
	ThreadResolved *bool   `json:"threadResolved,omitempty"`
	State          string  `json:"state,omitempty"`
}

type rawComment struct {
	ID             *int64          `json:"id" validate:"required"`
	Text           *string         `json:"text" validate:"required"`
	Author         json.RawMessage `json:"author"`
	CreatedDate    opt[int64]      `json:"createdDate"`
	UpdatedDate    opt[int64]      `json:"updatedDate"`
	Anchor         json.RawMessage `json:"anchor"`
	ThreadResolved opt[bool]       `json:"threadResolved"`
	State          opt[string]     `json:"state"`
}

// ValidComment reports whether raw is a comment with a numeric id, string
// text and a valid author.
func ValidComment(raw json.RawMessage) bool {
	_, ok := parseComment(raw)
	return ok
}

func parseComment(raw json.RawMessage) (Comment, bool) {
	var c rawComment
	if !decodeShape(raw, &c) {
		return Comment{}, false
	}
	author, ok := parseUser(c.Author)
	if !ok {
		return Comment{}, false
	}
	out := Comment{
		ID:             *c.ID,
		Text:           *c.Text,
		Author:         author,
		CreatedDate:    c.CreatedDate.get(),
		ThreadResolved: c.ThreadResolved.ptr(),
		State:          c.State.get(),
	}
	// unedited comments have updatedDate == createdDate.
	if upd := c.UpdatedDate.get(); upd != out.CreatedDate {
		out.UpdatedDate = upd
	}
	if a, ok := parseAnchor(c.Anchor); ok {
		out.Anchor = &a
	}
	return out, true
}

// Activity is a single entry of the pull request timeline.
type Activity struct {
	ID            int64    `json:"id"`
	CreatedDate   int64    `json:"createdDate"`
	User          User     `json:"user"`
	Action        string   `json:"action"`
	CommentAction string   `json:"commentAction,omitempty"`
	Comment       *Comment `json:"comment,omitempty"`
}

// Activity actions used by the summary.
const (
	ActionOpened    = "OPENED"
	ActionCommented = "COMMENTED"
)

type rawActivity struct {
	ID            *int64          `json:"id" validate:"required"`
	CreatedDate   *int64          `json:"createdDate" validate:"required"`
	User          json.RawMessage `json:"user"`
	Action        *string         `json:"action" validate:"required"`
	CommentAction opt[string]     `json:"commentAction"`
	Comment       json.RawMessage `json:"comment"`
}

// ValidActivity reports whether raw is a timeline entry with numeric id and
// createdDate, a valid user and a string action.  A malformed comment does
// not invalidate the activity.
func ValidActivity(raw json.RawMessage) bool {
	_, ok := parseActivity(raw)
	return ok
}

func parseActivity(raw json.RawMessage) (Activity, bool) {
	var a rawActivity
	if !decodeShape(raw, &a) {
		return Activity{}, false
	}
	user, ok := parseUser(a.User)
	if !ok {
		return Activity{}, false
	}
	out := Activity{
		ID:            *a.ID,
		CreatedDate:   *a.CreatedDate,
		User:          user,
		Action:        *a.Action,
		CommentAction: a.CommentAction.get(),
	}
	if c, ok := parseComment(a.Comment); ok {
		out.Comment = &c
	}
	return out, true
}
