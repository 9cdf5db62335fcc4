// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package probe concurrently fetches a server's declared capabilities.
//
// The three capability fetches run in parallel against the same channel and
// each owns its own result slot, so no locking is needed. A failing fetch is
// demoted to "not supported" and never aborts the other two: total probe
// latency is the slowest fetch, not the sum. The probe never retries.
package probe

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/tombee/mcpdoctor/internal/connect"
)

// Prober gathers capability snapshots from negotiated channels.
type Prober struct {
	logger *slog.Logger
}

// New creates a Prober.
func New(logger *slog.Logger) *Prober {
	return &Prober{logger: logger}
}

// Probe fetches tools, resources, and prompts concurrently, plus a liveness
// ping, and assembles the snapshot. The channel remains owned by the caller,
// which releases it after the probe settles.
func (p *Prober) Probe(ctx context.Context, ch *connect.Channel) *Snapshot {
	session := ch.Session()
	info := ch.ServerInfo()

	snapshot := &Snapshot{
		ServerName:    info.Name,
		ServerVersion: info.Version,
	}

	// Each goroutine writes only its own snapshot fields, and every fetch
	// returns nil so one failure cannot cancel the siblings.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		start := time.Now()
		result, err := session.ListTools(gctx, mcp.ListToolsRequest{})
		snapshot.ToolsElapsedMs = time.Since(start).Milliseconds()
		if err != nil {
			p.logger.Debug("tools fetch failed", slog.Any("error", err))
			snapshot.Tools = []ToolDef{}
			return nil
		}
		snapshot.Tools = convertTools(result.Tools)
		return nil
	})

	g.Go(func() error {
		start := time.Now()
		result, err := session.ListResources(gctx, mcp.ListResourcesRequest{})
		elapsed := time.Since(start).Milliseconds()
		if err != nil {
			p.logger.Debug("resources fetch failed",
				slog.Bool("method_unsupported", isMethodNotSupported(err)),
				slog.Any("error", err))
			return nil
		}
		snapshot.Resources = convertResources(result.Resources)
		snapshot.ResourcesSupported = true
		snapshot.ResourcesElapsedMs = &elapsed
		return nil
	})

	g.Go(func() error {
		start := time.Now()
		result, err := session.ListPrompts(gctx, mcp.ListPromptsRequest{})
		elapsed := time.Since(start).Milliseconds()
		if err != nil {
			p.logger.Debug("prompts fetch failed",
				slog.Bool("method_unsupported", isMethodNotSupported(err)),
				slog.Any("error", err))
			return nil
		}
		snapshot.Prompts = convertPrompts(result.Prompts)
		snapshot.PromptsSupported = true
		snapshot.PromptsElapsedMs = &elapsed
		return nil
	})

	g.Go(func() error {
		start := time.Now()
		err := session.Ping(gctx)
		latency := time.Since(start).Milliseconds()
		if err != nil {
			snapshot.Health = &HealthResult{Available: false, Error: err.Error()}
			return nil
		}
		snapshot.Health = &HealthResult{Available: true, LatencyMs: latency}
		return nil
	})

	// All fetches settle before the snapshot is returned; none of them
	// surfaces an error past this point.
	_ = g.Wait()

	return snapshot
}

// isMethodNotSupported reports whether an error is the JSON-RPC "method not
// found" response servers give for capability categories they do not
// implement.
func isMethodNotSupported(err error) bool {
	if err == nil {
		return false
	}
	text := strings.ToLower(err.Error())
	return strings.Contains(text, "method not found") || strings.Contains(text, "-32601")
}

// convertTools maps SDK tools onto snapshot tools. Schemas and annotations
// are carried as raw JSON: the rule engine inspects them structurally and the
// report serializes them verbatim.
func convertTools(tools []mcp.Tool) []ToolDef {
	defs := make([]ToolDef, 0, len(tools))
	for _, tool := range tools {
		def := ToolDef{
			Name:        tool.Name,
			Description: tool.Description,
		}

		if len(tool.RawInputSchema) > 0 {
			def.InputSchema = append(json.RawMessage(nil), tool.RawInputSchema...)
		}

		// The SDK models schemas and annotations as structs; round-trip
		// through JSON once so the snapshot stays SDK-independent.
		if raw, err := json.Marshal(tool); err == nil {
			var fields struct {
				InputSchema  json.RawMessage `json:"inputSchema"`
				OutputSchema json.RawMessage `json:"outputSchema"`
				Annotations  json.RawMessage `json:"annotations"`
			}
			if json.Unmarshal(raw, &fields) == nil {
				if def.InputSchema == nil && !isJSONNull(fields.InputSchema) {
					def.InputSchema = fields.InputSchema
				}
				if !isJSONNull(fields.OutputSchema) {
					def.OutputSchema = fields.OutputSchema
				}
				if !isJSONNull(fields.Annotations) && string(fields.Annotations) != "{}" {
					def.Annotations = fields.Annotations
				}
			}
		}

		defs = append(defs, def)
	}
	return defs
}

func isJSONNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

func convertResources(resources []mcp.Resource) []ResourceDef {
	defs := make([]ResourceDef, 0, len(resources))
	for _, r := range resources {
		defs = append(defs, ResourceDef{
			URI:         r.URI,
			Name:        r.Name,
			Description: r.Description,
			MimeType:    r.MIMEType,
		})
	}
	return defs
}

func convertPrompts(prompts []mcp.Prompt) []PromptDef {
	defs := make([]PromptDef, 0, len(prompts))
	for _, pr := range prompts {
		def := PromptDef{
			Name:        pr.Name,
			Description: pr.Description,
		}
		for _, arg := range pr.Arguments {
			def.Arguments = append(def.Arguments, arg.Name)
		}
		defs = append(defs, def)
	}
	return defs
}
