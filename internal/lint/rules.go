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

package lint

import (
	"fmt"
	"strings"

	"github.com/tombee/mcpdoctor/internal/probe"
)

// duplicateNameFindings emits one error per duplicated tool name, in order of
// each name's first occurrence. Duplicates are a data-quality condition, not
// an ingestion failure.
func duplicateNameFindings(tools []probe.ToolDef) []Finding {
	counts := make(map[string]int, len(tools))
	var order []string
	for _, tool := range tools {
		if counts[tool.Name] == 0 {
			order = append(order, tool.Name)
		}
		counts[tool.Name]++
	}

	var findings []Finding
	for _, name := range order {
		if counts[name] > 1 {
			findings = append(findings, Finding{
				RuleID:   RuleDuplicateToolName,
				Severity: SeverityError,
				Message:  fmt.Sprintf("tool name %q appears %d times", name, counts[name]),
				ToolName: name,
			})
		}
	}
	return findings
}

// toolCountFindings warns when the server exposes more tools than a model
// can reliably choose between.
func toolCountFindings(tools []probe.ToolDef) []Finding {
	if len(tools) <= maxToolCount {
		return nil
	}
	return []Finding{{
		RuleID:   RuleTooManyTools,
		Severity: SeverityWarning,
		Message:  fmt.Sprintf("server exposes %d tools; more than %d makes tool selection unreliable", len(tools), maxToolCount),
	}}
}

// perToolFindings runs the per-tool rules in their fixed order.
func perToolFindings(tool probe.ToolDef) []Finding {
	var findings []Finding
	schema := parseInputSchema(tool.InputSchema)

	if strings.TrimSpace(tool.Description) == "" {
		findings = append(findings, Finding{
			RuleID:   RuleMissingToolDescription,
			Severity: SeverityWarning,
			Message:  "tool has no description",
			ToolName: tool.Name,
		})
	}

	for _, prop := range schema.properties {
		if strings.TrimSpace(prop.description) == "" {
			findings = append(findings, Finding{
				RuleID:    RuleMissingInputDescription,
				Severity:  SeverityWarning,
				Message:   fmt.Sprintf("input property %q has no description", prop.name),
				ToolName:  tool.Name,
				InputName: prop.name,
			})
		}
	}

	if n := len(schema.required); n > maxRequiredInputs {
		findings = append(findings, Finding{
			RuleID:   RuleTooManyRequiredInputs,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("tool requires %d input properties; more than %d is hard to satisfy", n, maxRequiredInputs),
			ToolName: tool.Name,
		})
	}

	if word := firstDangerousWord(tool.Name); word != "" {
		findings = append(findings, Finding{
			RuleID:   RuleDangerousTool,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("tool name contains potentially destructive word %q", word),
			ToolName: tool.Name,
		})
	}

	if terms := piiTerms(tool, schema); len(terms) > 0 {
		findings = append(findings, Finding{
			RuleID:   RulePIIHandling,
			Severity: SeverityInfo,
			Message:  fmt.Sprintf("tool appears to handle personal data: %s", strings.Join(terms, ", ")),
			ToolName: tool.Name,
		})
	}

	if len(tool.OutputSchema) == 0 {
		findings = append(findings, Finding{
			RuleID:   RuleMissingOutputSchema,
			Severity: SeverityInfo,
			Message:  "tool declares no output schema; structured results cannot be validated",
			ToolName: tool.Name,
		})
	}

	return findings
}

// firstDangerousWord returns the first name token on the dangerous-word
// list, or "".
func firstDangerousWord(name string) string {
	for _, token := range splitIdentifier(name) {
		if dangerousWords[token] {
			return token
		}
	}
	return ""
}

// piiTerms collects the personal-data vocabulary terms matched by the tool's
// name, description, and input property names. Case-insensitive, unique,
// ordered by first occurrence.
func piiTerms(tool probe.ToolDef, schema inputSchema) []string {
	var terms []string
	seen := make(map[string]bool)

	match := func(tokens []string) {
		for _, token := range tokens {
			if piiVocabulary[token] && !seen[token] {
				seen[token] = true
				terms = append(terms, token)
			}
		}
	}

	match(splitIdentifier(tool.Name))
	match(splitText(tool.Description))
	for _, prop := range schema.properties {
		match(splitIdentifier(prop.name))
	}

	return terms
}
