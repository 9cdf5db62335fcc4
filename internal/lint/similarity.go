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
	"math"
	"sort"

	"github.com/tombee/mcpdoctor/internal/probe"
)

// similarityFindings scores every pair of tool descriptions and warns on
// near-duplicates. Tools whose descriptions carry fewer than minContentWords
// content words are skipped entirely, not scored as zero. Output is ordered
// by similarity, highest first; ties keep pair enumeration order.
func similarityFindings(tools []probe.ToolDef) []Finding {
	type scored struct {
		a, b       string
		similarity float64
	}

	sets := make([]map[string]bool, len(tools))
	for i, tool := range tools {
		set := contentWordSet(tool.Description)
		if len(set) >= minContentWords {
			sets[i] = set
		}
	}

	var pairs []scored
	for i := 0; i < len(tools); i++ {
		if sets[i] == nil {
			continue
		}
		for j := i + 1; j < len(tools); j++ {
			if sets[j] == nil {
				continue
			}
			similarity := jaccard(sets[i], sets[j])
			if similarity >= similarityThreshold {
				pairs = append(pairs, scored{a: tools[i].Name, b: tools[j].Name, similarity: similarity})
			}
		}
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].similarity > pairs[j].similarity
	})

	var findings []Finding
	for _, pair := range pairs {
		percent := int(math.Round(pair.similarity * 100))
		findings = append(findings, Finding{
			RuleID:   RuleSimilarDescriptions,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("tools %q and %q have very similar descriptions (%d%% overlap)", pair.a, pair.b, percent),
		})
	}
	return findings
}

// jaccard computes intersection size over union size for two sets.
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	intersection := 0
	for word := range a {
		if b[word] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
