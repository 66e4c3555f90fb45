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

// In this file: pull request activities (comments and timeline).

import "encoding/json"

// PRActivities is the simplified pull request activities page.
type PRActivities struct {
	IsLastPage    bool            `json:"isLastPage"`
	NextPageStart *int64          `json:"nextPageStart,omitempty"`
	Activities    []Activity      `json:"activities"`
	Summary       ActivitySummary `json:"summary"`
}

// ActivitySummary aggregates a page of activities.
type ActivitySummary struct {
	TotalActivities int `json:"totalActivities"`
	// PRAuthor is the user of the OPENED activity, if it is on this page.
	PRAuthor     *User `json:"prAuthor,omitempty"`
	CommentCount int   `json:"commentCount"`
	// UnresolvedCount counts comments whose thread is explicitly unresolved.
	UnresolvedCount int `json:"unresolvedCount"`
}

type rawActivityPage struct {
	Values        []json.RawMessage `json:"values" validate:"required"`
	IsLastPage    opt[bool]         `json:"isLastPage"`
	NextPageStart opt[int64]        `json:"nextPageStart"`
}

// SimplifyPRActivities simplifies a Bitbucket pull request activities page
// (/pull-requests/{id}/activities).  isLastPage defaults to true when the
// response omits it.
func SimplifyPRActivities(raw json.RawMessage) Result[PRActivities] {
	var p rawActivityPage
	if !decodeShape(raw, &p) {
		return passthrough[PRActivities](raw)
	}
	activities := make([]Activity, 0, len(p.Values))
	for _, v := range p.Values {
		if a, ok := parseActivity(v); ok {
			activities = append(activities, a)
		}
	}
	if !keep(len(activities), len(p.Values)) {
		return passthrough[PRActivities](raw)
	}
	isLast := p.IsLastPage.or(true)
	return simplified(&PRActivities{
		IsLastPage:    isLast,
		NextPageStart: nextPage(isLast, p.NextPageStart),
		Activities:    activities,
		Summary:       summariseActivities(activities),
	})
}

func summariseActivities(activities []Activity) ActivitySummary {
	s := ActivitySummary{TotalActivities: len(activities)}
	for _, a := range activities {
		if a.Action == ActionOpened && s.PRAuthor == nil {
			u := a.User
			s.PRAuthor = &u
		}
		if a.Action != ActionCommented || a.Comment == nil {
			continue
		}
		s.CommentCount++
		if tr := a.Comment.ThreadResolved; tr != nil && !*tr {
			s.UnresolvedCount++
		}
	}
	return s
}
