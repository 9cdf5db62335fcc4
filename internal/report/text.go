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

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tombee/mcpdoctor/internal/lint"
)

// CLI style colors using lipgloss
var (
	styleError  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")) // red
	styleWarn   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")) // orange
	styleInfo   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))  // blue
	styleOK     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))  // green
	styleMuted  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")) // gray
	styleHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
)

// Symbols for status indicators
const (
	symbolOK    = "✓"
	symbolWarn  = "⚠"
	symbolError = "✗"
	symbolInfo  = "•"
)

// Renderer writes the human-readable report. Color is decided by the caller
// (TTY detection plus the --no-color flag) rather than sniffed here, so
// output to a pipe stays reproducible.
type Renderer struct {
	out   io.Writer
	color bool
}

// NewRenderer returns a renderer writing to out.
func NewRenderer(out io.Writer, color bool) *Renderer {
	return &Renderer{out: out, color: color}
}

func (r *Renderer) paint(style lipgloss.Style, s string) string {
	if !r.color {
		return s
	}
	return style.Render(s)
}

// Render writes the full console report: connection summary, capability
// summary, then findings grouped by severity (error > warning > info).
func (r *Renderer) Render(rep *Report) {
	r.renderHeader(rep)
	r.renderCapabilities(rep)
	r.renderFindings(rep)
}

func (r *Renderer) renderHeader(rep *Report) {
	fmt.Fprintln(r.out, r.paint(styleHeader, "MCP Server Diagnostics"))

	transport := rep.Transport
	if rep.Authenticated {
		transport += " (authenticated)"
	}
	fmt.Fprintf(r.out, "%s %s\n", r.paint(styleMuted, "Target:"), rep.Target)
	fmt.Fprintf(r.out, "%s %s\n", r.paint(styleMuted, "Transport:"), transport)

	if rep.Snapshot.ServerName != "" {
		server := rep.Snapshot.ServerName
		if rep.Snapshot.ServerVersion != "" {
			server += " " + rep.Snapshot.ServerVersion
		}
		fmt.Fprintf(r.out, "%s %s\n", r.paint(styleMuted, "Server:"), server)
	}
	fmt.Fprintf(r.out, "%s %dms\n", r.paint(styleMuted, "Connect:"), rep.ConnectMs)
	fmt.Fprintln(r.out)
}

func (r *Renderer) renderCapabilities(rep *Report) {
	snap := rep.Snapshot
	fmt.Fprintln(r.out, r.paint(styleHeader, "Capabilities"))

	fmt.Fprintf(r.out, "  %s tools      %d (%dms)\n",
		r.paint(styleOK, symbolOK), len(snap.Tools), snap.ToolsElapsedMs)

	r.renderCapabilityLine("resources", len(snap.Resources), snap.ResourcesSupported, snap.ResourcesElapsedMs)
	r.renderCapabilityLine("prompts  ", len(snap.Prompts), snap.PromptsSupported, snap.PromptsElapsedMs)

	if health := snap.Health; health != nil {
		if health.Available {
			fmt.Fprintf(r.out, "  %s ping       ok (%dms)\n", r.paint(styleOK, symbolOK), health.LatencyMs)
		} else {
			fmt.Fprintf(r.out, "  %s ping       failed: %s\n", r.paint(styleError, symbolError), health.Error)
		}
	}
	fmt.Fprintln(r.out)
}

func (r *Renderer) renderCapabilityLine(name string, count int, supported bool, elapsedMs *int64) {
	if !supported {
		fmt.Fprintf(r.out, "  %s %s  %s\n",
			r.paint(styleMuted, symbolInfo), name, r.paint(styleMuted, "not supported"))
		return
	}
	elapsed := int64(0)
	if elapsedMs != nil {
		elapsed = *elapsedMs
	}
	fmt.Fprintf(r.out, "  %s %s  %d (%dms)\n", r.paint(styleOK, symbolOK), name, count, elapsed)
}

func (r *Renderer) renderFindings(rep *Report) {
	errors, warnings, infos := rep.Counts()
	if errors+warnings+infos == 0 {
		fmt.Fprintf(r.out, "%s No findings\n", r.paint(styleOK, symbolOK))
		return
	}

	fmt.Fprintln(r.out, r.paint(styleHeader,
		fmt.Sprintf("Findings (%s)", summaryCounts(errors, warnings, infos))))

	r.renderGroup("Errors", lint.SeverityError, styleError, symbolError, rep)
	r.renderGroup("Warnings", lint.SeverityWarning, styleWarn, symbolWarn, rep)
	r.renderGroup("Info", lint.SeverityInfo, styleInfo, symbolInfo, rep)
}

func (r *Renderer) renderGroup(title string, severity lint.Severity, style lipgloss.Style, symbol string, rep *Report) {
	findings := rep.bySeverity(severity)
	if len(findings) == 0 {
		return
	}

	fmt.Fprintf(r.out, "\n%s\n", r.paint(style, title))
	for _, f := range findings {
		prefix := ""
		if f.ToolName != "" {
			prefix = r.paint(styleMuted, "["+f.ToolName+"] ")
		}
		fmt.Fprintf(r.out, "  %s %s%s %s\n",
			r.paint(style, symbol), prefix, f.Message, r.paint(styleMuted, "("+f.RuleID+")"))
	}
}

func summaryCounts(errors, warnings, infos int) string {
	var parts []string
	if errors > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", errors, plural("error", errors)))
	}
	if warnings > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", warnings, plural("warning", warnings)))
	}
	if infos > 0 {
		parts = append(parts, fmt.Sprintf("%d info", infos))
	}
	return strings.Join(parts, ", ")
}

func plural(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
