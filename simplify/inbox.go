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

// In this file: the pull request inbox (pull requests awaiting the user).

import (
	"encoding/json"
	"fmt"
)

const unknownRepo = "unknown"

// InboxPullRequest is a pull request from the inbox listing.
type InboxPullRequest struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	State       string  `json:"state"`
	Draft       bool    `json:"draft"`
	CreatedDate int64   `json:"createdDate"`
	UpdatedDate int64   `json:"updatedDate"`
	// Link is the first self link of the pull request.
	Link          string          `json:"link,omitempty"`
	Author        *InboxAuthor    `json:"author,omitempty"`
	FromRef       string          `json:"fromRef,omitempty"`
	ToRef         string          `json:"toRef,omitempty"`
	Repository    Repository      `json:"repository"`
	Reviewers     []InboxReviewer `json:"reviewers"`
	CommentCount  int64           `json:"commentCount"`
	OpenTaskCount int64           `json:"openTaskCount"`
}

// InboxAuthor is the author of an inbox pull request.
type InboxAuthor struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
}

// InboxReviewer is a reviewer and their verdict.
type InboxReviewer struct {
	Name     string `json:"name"`
	Approved bool   `json:"approved"`
	Status   string `json:"status"`
}

// Repository identifies the target repository of a pull request.
type Repository struct {
	Slug       string `json:"slug"`
	ProjectKey string `json:"projectKey"`
}

// Key returns the "PROJECT/slug" key of the repository.
func (r Repository) Key() string {
	return fmt.Sprintf("%s/%s", r.ProjectKey, r.Slug)
}

// InboxPullRequests is the simplified inbox page.
type InboxPullRequests struct {
	PullRequests  []InboxPullRequest `json:"pullRequests"`
	Summary       InboxSummary       `json:"summary"`
	IsLastPage    bool               `json:"isLastPage"`
	NextPageStart *int64             `json:"nextPageStart,omitempty"`
}

// InboxSummary counts pull requests per repository key.
type InboxSummary struct {
	TotalCount   int            `json:"totalCount"`
	ByRepository map[string]int `json:"byRepository"`
}

type rawInboxRepository struct {
	Slug    opt[string] `json:"slug"`
	Project struct {
		Key opt[string] `json:"key"`
	} `json:"project"`
}

type rawInboxRef struct {
	ID         opt[string]     `json:"id"`
	DisplayID  opt[string]     `json:"displayId"`
	Repository json.RawMessage `json:"repository"`
}

// name returns the display id of the ref, falling back to the full ref id.
func (r rawInboxRef) name() string {
	if r.DisplayID.ok {
		return r.DisplayID.v
	}
	return r.ID.get()
}

func (r rawInboxRef) repository() (rawInboxRepository, bool) {
	var repo rawInboxRepository
	ok := decodeLoose(r.Repository, &repo)
	return repo, ok
}

type rawInboxPR struct {
	ID          *int64          `json:"id" validate:"required"`
	Title       *string         `json:"title" validate:"required"`
	State       *string         `json:"state" validate:"required"`
	Description opt[string]     `json:"description"`
	Draft       opt[bool]       `json:"draft"`
	CreatedDate opt[int64]      `json:"createdDate"`
	UpdatedDate opt[int64]      `json:"updatedDate"`
	Author      json.RawMessage `json:"author"`
	FromRef     json.RawMessage `json:"fromRef"`
	ToRef       json.RawMessage `json:"toRef"`
	Reviewers   json.RawMessage `json:"reviewers"`
	Properties  json.RawMessage `json:"properties"`
	Links       json.RawMessage `json:"links"`
}

// ValidInboxPullRequest reports whether raw is a pull request with numeric
// id, string title and string state.
func ValidInboxPullRequest(raw json.RawMessage) bool {
	var pr rawInboxPR
	return decodeShape(raw, &pr)
}

func parseInboxPR(raw json.RawMessage) (InboxPullRequest, bool) {
	var pr rawInboxPR
	if !decodeShape(raw, &pr) {
		return InboxPullRequest{}, false
	}
	var from, to rawInboxRef
	decodeLoose(pr.FromRef, &from)
	decodeLoose(pr.ToRef, &to)

	out := InboxPullRequest{
		ID:            *pr.ID,
		Title:         *pr.Title,
		Description:   pr.Description.ptr(),
		State:         *pr.State,
		Draft:         pr.Draft.or(false),
		CreatedDate:   pr.CreatedDate.get(),
		UpdatedDate:   pr.UpdatedDate.get(),
		Link:          selfLink(pr.Links),
		Author:        inboxAuthor(pr.Author),
		FromRef:       from.name(),
		ToRef:         to.name(),
		Repository:    inboxRepository(to, from),
		Reviewers:     inboxReviewers(pr.Reviewers),
		CommentCount:  0,
		OpenTaskCount: 0,
	}
	var props struct {
		CommentCount  opt[int64] `json:"commentCount"`
		OpenTaskCount opt[int64] `json:"openTaskCount"`
	}
	if decodeLoose(pr.Properties, &props) {
		out.CommentCount = props.CommentCount.or(0)
		out.OpenTaskCount = props.OpenTaskCount.or(0)
	}
	return out, true
}

// inboxRepository takes the repository from the target ref, then from the
// source ref.
func inboxRepository(refs ...rawInboxRef) Repository {
	out := Repository{Slug: unknownRepo, ProjectKey: unknownRepo}
	for _, ref := range refs {
		repo, ok := ref.repository()
		if !ok {
			continue
		}
		out.Slug = repo.Slug.or(unknownRepo)
		out.ProjectKey = repo.Project.Key.or(unknownRepo)
		break
	}
	return out
}

func selfLink(raw json.RawMessage) string {
	var links struct {
		Self []json.RawMessage `json:"self"`
	}
	if !decodeLoose(raw, &links) || len(links.Self) == 0 {
		return ""
	}
	var first struct {
		Href opt[string] `json:"href"`
	}
	decodeLoose(links.Self[0], &first)
	return first.Href.get()
}

func inboxAuthor(raw json.RawMessage) *InboxAuthor {
	var author struct {
		User json.RawMessage `json:"user"`
	}
	if !decodeLoose(raw, &author) {
		return nil
	}
	u, ok := parseUser(author.User)
	if !ok {
		return nil
	}
	return &InboxAuthor{Name: u.Name, DisplayName: u.DisplayName}
}

// inboxReviewers projects the reviewers, skipping entries without a valid
// user.
func inboxReviewers(raw json.RawMessage) []InboxReviewer {
	out := []InboxReviewer{}
	var reviewers []json.RawMessage
	if err := json.Unmarshal(raw, &reviewers); err != nil {
		return out
	}
	for _, r := range reviewers {
		var rev struct {
			User     json.RawMessage `json:"user"`
			Approved opt[bool]       `json:"approved"`
			Status   opt[string]     `json:"status"`
		}
		if !decodeLoose(r, &rev) {
			continue
		}
		u, ok := parseUser(rev.User)
		if !ok {
			continue
		}
		out = append(out, InboxReviewer{
			Name:     u.Name,
			Approved: rev.Approved.or(false),
			Status:   rev.Status.get(),
		})
	}
	return out
}

type rawInboxPage struct {
	Values        []json.RawMessage `json:"values" validate:"required"`
	IsLastPage    *bool             `json:"isLastPage" validate:"required"`
	NextPageStart opt[int64]        `json:"nextPageStart"`
}

// SimplifyInboxPullRequests simplifies the Bitbucket pull request inbox
// (/inbox/pull-requests).
func SimplifyInboxPullRequests(raw json.RawMessage) Result[InboxPullRequests] {
	var p rawInboxPage
	if !decodeShape(raw, &p) {
		return passthrough[InboxPullRequests](raw)
	}
	prs := make([]InboxPullRequest, 0, len(p.Values))
	for _, v := range p.Values {
		if pr, ok := parseInboxPR(v); ok {
			prs = append(prs, pr)
		}
	}
	if !keep(len(prs), len(p.Values)) {
		return passthrough[InboxPullRequests](raw)
	}
	return simplified(&InboxPullRequests{
		PullRequests:  prs,
		Summary:       summariseInbox(prs),
		IsLastPage:    *p.IsLastPage,
		NextPageStart: nextPage(*p.IsLastPage, p.NextPageStart),
	})
}

func summariseInbox(prs []InboxPullRequest) InboxSummary {
	s := InboxSummary{
		TotalCount:   len(prs),
		ByRepository: make(map[string]int),
	}
	for _, pr := range prs {
		s.ByRepository[pr.Repository.Key()]++
	}
	return s
}
