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

// Package lint evaluates quality rules over a server's tool definitions.
//
// Evaluate is a pure function: no I/O, no hidden state, no time dependency.
// Identical input always yields the identical ordered findings list. Rules
// never fail; absent fields read as "missing", not as errors.
package lint

import "github.com/tombee/mcpdoctor/internal/probe"

// Severity ranks a finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Rank orders severities: error > warning > info.
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 0
	case SeverityWarning:
		return 1
	default:
		return 2
	}
}

// Rule identifiers. One per rule; a finding always carries exactly one.
const (
	RuleDuplicateToolName       = "duplicate-tool-name"
	RuleTooManyTools            = "too-many-tools"
	RuleSimilarDescriptions     = "similar-descriptions"
	RuleMissingToolDescription  = "missing-tool-description"
	RuleMissingInputDescription = "missing-input-description"
	RuleTooManyRequiredInputs   = "too-many-required-inputs"
	RuleDangerousTool           = "dangerous-tool"
	RulePIIHandling             = "pii-handling"
	RuleMissingOutputSchema     = "missing-output-schema"
)

// Thresholds for the server-level rules.
const (
	maxRequiredInputs   = 5
	maxToolCount        = 30
	similarityThreshold = 0.70
	minContentWords     = 3
)

// Finding is one diagnostic result. Produced by exactly one rule evaluation
// and never mutated. An empty ToolName marks a server-level finding.
type Finding struct {
	RuleID    string   `json:"ruleId"`
	Severity  Severity `json:"severity"`
	Message   string   `json:"message"`
	ToolName  string   `json:"toolName,omitempty"`
	InputName string   `json:"inputName,omitempty"`
}

// Evaluate runs every rule over the tool list. Server-level findings come
// first, then per-tool findings in input order; within each group the order
// follows rule-evaluation order. Findings are never deduplicated or merged.
func Evaluate(tools []probe.ToolDef) []Finding {
	findings := make([]Finding, 0)

	findings = append(findings, duplicateNameFindings(tools)...)
	findings = append(findings, toolCountFindings(tools)...)
	findings = append(findings, similarityFindings(tools)...)

	for _, tool := range tools {
		findings = append(findings, perToolFindings(tool)...)
	}

	return findings
}
