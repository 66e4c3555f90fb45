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

package mcp

// In this file: JSON Schema resources of the simplified output types.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpsrv "github.com/mark3labs/mcp-go/server"

	"github.com/rusq/atlassian-dc-mcp/simplify"
)

const (
	schemaURIPrefix = "schema://simplify/"
	schemaMIMEType  = "application/schema+json"
)

// schemaDef names a simplified output type.
type schemaDef struct {
	name        string
	description string
	value       any
}

var schemaDefs = []schemaDef{
	{"pr_activities", "Output of " + ToolPRActivities, &simplify.PRActivities{}},
	{"pr_changes", "Output of " + ToolPRChanges, &simplify.PRChanges{}},
	{"inbox", "Output of " + ToolInbox, &simplify.InboxPullRequests{}},
	{"issue", "Output of " + ToolIssue, &simplify.Issue{}},
	{"search_results", "Output of " + ToolSearch, &simplify.SearchResults{}},
	{"comments", "Output of " + ToolComments, &simplify.Comments{}},
}

// GenerateSchema returns the JSON Schema of v.  Properties are not marked
// as required, and additional properties are allowed, as the tools may
// return the original response unchanged.
func GenerateSchema(v any) ([]byte, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct:             true,
		AllowAdditionalProperties:  true,
		RequiredFromJSONSchemaTags: true,
	}
	schema := reflector.Reflect(v)

	b, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return b, nil
}

// resources returns the schema resources.
func (s *Server) resources() []mcpsrv.ServerResource {
	rr := make([]mcpsrv.ServerResource, 0, len(schemaDefs))
	for _, def := range schemaDefs {
		uri := schemaURIPrefix + def.name
		res := mcplib.NewResource(uri, def.name+" schema",
			mcplib.WithResourceDescription(def.description),
			mcplib.WithMIMEType(schemaMIMEType),
		)
		rr = append(rr, mcpsrv.ServerResource{Resource: res, Handler: s.schemaHandler(def)})
	}
	return rr
}

func (s *Server) schemaHandler(def schemaDef) mcpsrv.ResourceHandlerFunc {
	return func(ctx context.Context, req mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		b, err := GenerateSchema(def.value)
		if err != nil {
			s.logger.ErrorContext(ctx, "mcp: schema", "uri", req.Params.URI, "error", err)
			return nil, err
		}
		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: schemaMIMEType,
				Text:     string(b),
			},
		}, nil
	}
}
