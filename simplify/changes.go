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

// In this file: pull request changes (the file list of the diff).

import "encoding/json"

// Change types reported by Bitbucket.
const (
	ChangeAdd    = "ADD"
	ChangeDelete = "DELETE"
	ChangeModify = "MODIFY"
	ChangeMove   = "MOVE"
)

// Path is a repository path.
type Path struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	Extension string `json:"extension,omitempty"`
}

// Change is a single file of the pull request diff.
type Change struct {
	ContentID string `json:"contentId"`
	Path      Path   `json:"path"`
	// SrcPath is set for moves only.
	SrcPath       *Path  `json:"srcPath,omitempty"`
	Type          string `json:"type"`
	GitChangeType string `json:"gitChangeType"`
	// Comments is the number of orphaned and active comments on the file.
	Comments int64 `json:"comments,omitempty"`
}

// PRChanges is the simplified pull request changes page.
type PRChanges struct {
	FromHash      string         `json:"fromHash"`
	ToHash        string         `json:"toHash"`
	ChangeScope   string         `json:"changeScope,omitempty"`
	Changes       []Change       `json:"changes"`
	Summary       ChangesSummary `json:"summary"`
	IsLastPage    bool           `json:"isLastPage"`
	NextPageStart *int64         `json:"nextPageStart,omitempty"`
}

// ChangesSummary counts changes by type.
type ChangesSummary struct {
	TotalChanges      int `json:"totalChanges"`
	Additions         int `json:"additions"`
	Deletions         int `json:"deletions"`
	Modifications     int `json:"modifications"`
	Moves             int `json:"moves"`
	FilesWithComments int `json:"filesWithComments"`
}

type rawPath struct {
	Components []json.RawMessage `json:"components" validate:"required"`
	Name       *string           `json:"name" validate:"required"`
	ToString   *string           `json:"toString" validate:"required"`
	Extension  opt[string]       `json:"extension"`
}

func (p *rawPath) simplify() Path {
	return Path{
		Name:      *p.Name,
		Path:      *p.ToString,
		Extension: p.Extension.get(),
	}
}

type rawChangeProperties struct {
	GitChangeType    *string    `json:"gitChangeType" validate:"required"`
	OrphanedComments opt[int64] `json:"orphanedComments"`
	ActiveComments   opt[int64] `json:"activeComments"`
}

type rawChange struct {
	ContentID  *string              `json:"contentId" validate:"required"`
	Type       *string              `json:"type" validate:"required"`
	Path       *rawPath             `json:"path" validate:"required"`
	SrcPath    json.RawMessage      `json:"srcPath"`
	Properties *rawChangeProperties `json:"properties" validate:"required"`
}

func (c *rawChange) comments() int64 {
	return c.Properties.OrphanedComments.get() + c.Properties.ActiveComments.get()
}

// srcPath returns the source path of a move.
func (c *rawChange) srcPath() (*rawPath, bool) {
	if *c.Type != ChangeMove {
		return nil, false
	}
	var p rawPath
	if !decodeShape(c.SrcPath, &p) {
		return nil, false
	}
	return &p, true
}

// ValidChange reports whether raw is a change with string contentId and
// type, a valid path and a string properties.gitChangeType.
func ValidChange(raw json.RawMessage) bool {
	var c rawChange
	return decodeShape(raw, &c)
}

func parseChange(raw json.RawMessage) (Change, bool) {
	var c rawChange
	if !decodeShape(raw, &c) {
		return Change{}, false
	}
	out := Change{
		ContentID:     *c.ContentID,
		Path:          c.Path.simplify(),
		Type:          *c.Type,
		GitChangeType: *c.Properties.GitChangeType,
	}
	if src, ok := c.srcPath(); ok {
		p := src.simplify()
		out.SrcPath = &p
	}
	if n := c.comments(); n > 0 {
		out.Comments = n
	}
	return out, true
}

type rawChangesPage struct {
	FromHash      *string           `json:"fromHash" validate:"required"`
	ToHash        *string           `json:"toHash" validate:"required"`
	IsLastPage    *bool             `json:"isLastPage" validate:"required"`
	Values        []json.RawMessage `json:"values" validate:"required"`
	NextPageStart opt[int64]        `json:"nextPageStart"`
	Properties    json.RawMessage   `json:"properties"`
}

func (p *rawChangesPage) changeScope() string {
	var props struct {
		ChangeScope opt[string] `json:"changeScope"`
	}
	decodeLoose(p.Properties, &props)
	return props.ChangeScope.get()
}

// SimplifyPRChanges simplifies a Bitbucket pull request changes page
// (/pull-requests/{id}/changes).
func SimplifyPRChanges(raw json.RawMessage) Result[PRChanges] {
	var p rawChangesPage
	if !decodeShape(raw, &p) {
		return passthrough[PRChanges](raw)
	}
	changes := make([]Change, 0, len(p.Values))
	for _, v := range p.Values {
		if c, ok := parseChange(v); ok {
			changes = append(changes, c)
		}
	}
	if !keep(len(changes), len(p.Values)) {
		return passthrough[PRChanges](raw)
	}
	return simplified(&PRChanges{
		FromHash:      *p.FromHash,
		ToHash:        *p.ToHash,
		ChangeScope:   p.changeScope(),
		Changes:       changes,
		Summary:       summariseChanges(changes),
		IsLastPage:    *p.IsLastPage,
		NextPageStart: nextPage(*p.IsLastPage, p.NextPageStart),
	})
}

func summariseChanges(changes []Change) ChangesSummary {
	s := ChangesSummary{TotalChanges: len(changes)}
	for _, c := range changes {
		switch c.Type {
		case ChangeAdd:
			s.Additions++
		case ChangeDelete:
			s.Deletions++
		case ChangeModify:
			s.Modifications++
		case ChangeMove:
			s.Moves++
		}
		if c.Comments > 0 {
			s.FilesWithComments++
		}
	}
	return s
}
