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

// Package simplify reduces verbose Jira and Bitbucket Data Center REST
// responses to compact shapes that are cheap to hand to an LLM agent.
//
// Every entry point accepts the raw response bytes exactly as the upstream
// API returned them and produces a [Result].  A Result either carries the
// simplified value, or, when the input does not look like the expected
// response envelope, the original bytes untouched.  Simplification never
// fails with an error: a caller always gets something it can show.
//
// Individual elements of a collection that do not match the minimal shape
// are skipped.  If every element of a non-empty collection is skipped, the
// whole response is passed through, so an empty simplified collection always
// means the upstream collection was empty.
//
// The package is pure: no I/O, no logging, no shared mutable state.
package simplify
