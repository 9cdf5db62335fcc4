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

package probe

import "encoding/json"

// ToolDef is one tool declaration from the server's tool list. Read-only
// input to the quality rule engine.
type ToolDef struct {
	// Name is the tool identifier, unique within a snapshot but not globally.
	Name string `json:"name"`

	// Description explains what the tool does.
	Description string `json:"description,omitempty"`

	// InputSchema is the JSON Schema for the tool's arguments.
	InputSchema json.RawMessage `json:"inputSchema,omitempty"`

	// OutputSchema is the JSON Schema for the tool's structured result, when
	// declared.
	OutputSchema json.RawMessage `json:"outputSchema,omitempty"`

	// Annotations carries the server's behavior hints, when declared.
	Annotations json.RawMessage `json:"annotations,omitempty"`
}

// ResourceDef is one resource declaration.
type ResourceDef struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// PromptDef is one prompt declaration.
type PromptDef struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Arguments   []string `json:"arguments,omitempty"`
}

// HealthResult is the outcome of the liveness side request.
type HealthResult struct {
	// Available reports whether the server answered the ping.
	Available bool `json:"available"`

	// LatencyMs is the round-trip time of the ping, when it succeeded.
	LatencyMs int64 `json:"latencyMs,omitempty"`

	// Error carries the failure text when the ping failed.
	Error string `json:"error,omitempty"`
}

// Snapshot is the complete, point-in-time result of probing a server's
// capabilities. Built once per probe and never mutated. The three capability
// results are independent: a nil Resources or Prompts with Supported=false
// means the server declined that category (or its fetch failed), which is
// distinct from "supported but empty".
type Snapshot struct {
	// ServerName and ServerVersion identify the server, when it reported them
	// during the handshake.
	ServerName    string `json:"serverName,omitempty"`
	ServerVersion string `json:"serverVersion,omitempty"`

	// Tools is the tool list; empty when the fetch failed. ToolsElapsedMs is
	// the wall-clock time of that single fetch.
	Tools          []ToolDef `json:"tools"`
	ToolsElapsedMs int64     `json:"toolsElapsedMs"`

	// Resources is nil unless ResourcesSupported.
	Resources          []ResourceDef `json:"resources"`
	ResourcesSupported bool          `json:"resourcesSupported"`
	ResourcesElapsedMs *int64        `json:"resourcesElapsedMs"`

	// Prompts is nil unless PromptsSupported.
	Prompts          []PromptDef `json:"prompts"`
	PromptsSupported bool        `json:"promptsSupported"`
	PromptsElapsedMs *int64      `json:"promptsElapsedMs"`

	// Health is the liveness result, nil when the check was skipped.
	Health *HealthResult `json:"health"`
}
