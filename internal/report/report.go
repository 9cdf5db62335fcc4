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

// Package report renders a capability snapshot plus its findings into a
// console report or machine-readable JSON. It consumes probe and lint output;
// it never produces findings of its own.
package report

import (
	"time"

	"github.com/tombee/mcpdoctor/internal/lint"
	"github.com/tombee/mcpdoctor/internal/probe"
)

// Report is the assembled result of one diagnostic run. It is built once per
// invocation and read-only afterward; the JSON rendering serializes it
// verbatim.
type Report struct {
	Target        string         `json:"target"`
	Transport     string         `json:"transport"`
	Authenticated bool           `json:"authenticated"`
	ConnectMs     int64          `json:"connectMs"`
	GeneratedAt   time.Time      `json:"generatedAt"`
	Snapshot      probe.Snapshot `json:"snapshot"`
	Findings      []lint.Finding `json:"findings"`
}

// Assemble combines connection metadata with the probe snapshot and rule
// findings. It takes plain values rather than the channel so that callers can
// release the connection before the report exists.
func Assemble(target, transport string, authenticated bool, connectDuration time.Duration, snap probe.Snapshot, findings []lint.Finding) *Report {
	if findings == nil {
		findings = []lint.Finding{}
	}
	return &Report{
		Target:        target,
		Transport:     transport,
		Authenticated: authenticated,
		ConnectMs:     connectDuration.Milliseconds(),
		GeneratedAt:   time.Now().UTC(),
		Snapshot:      snap,
		Findings:      findings,
	}
}

// Counts tallies findings per severity.
func (r *Report) Counts() (errors, warnings, infos int) {
	for _, f := range r.Findings {
		switch f.Severity {
		case lint.SeverityError:
			errors++
		case lint.SeverityWarning:
			warnings++
		default:
			infos++
		}
	}
	return errors, warnings, infos
}

// bySeverity returns the findings carrying one severity, preserving their
// evaluation order.
func (r *Report) bySeverity(severity lint.Severity) []lint.Finding {
	var out []lint.Finding
	for _, f := range r.Findings {
		if f.Severity == severity {
			out = append(out, f)
		}
	}
	return out
}
