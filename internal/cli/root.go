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

// Package cli assembles the root command and global flags.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/tombee/mcpdoctor/internal/commands/shared"
)

// SetVersion sets the version information (called from main)
func SetVersion(v, c, b string) {
	shared.SetVersion(v, c, b)
}

// NewRootCommand creates the root Cobra command for mcpdoctor
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcpdoctor",
		Short: "mcpdoctor - diagnostics for MCP servers",
		Long: `mcpdoctor connects to a Model Context Protocol server, probes the
capabilities it exposes (tools, resources, prompts), and reports quality
findings about its tool definitions.

Point it at an HTTP(S) URL or at a local server command:

  mcpdoctor inspect https://example.com/mcp
  mcpdoctor inspect npx my-mcp-server --stdio`,
		SilenceUsage:  true, // Don't show usage on errors
		SilenceErrors: true, // We handle errors ourselves for proper exit codes
	}

	// Get flag pointers from shared package
	verbose, quiet, json, noColor, config := shared.RegisterFlagPointers()

	// Add global flags
	cmd.PersistentFlags().BoolVarP(verbose, "verbose", "v", false, "Enable verbose output")
	cmd.PersistentFlags().BoolVarP(quiet, "quiet", "q", false, "Suppress non-error output")
	cmd.PersistentFlags().BoolVar(json, "json", false, "Output in JSON format")
	cmd.PersistentFlags().BoolVar(noColor, "no-color", false, "Disable styled output")
	cmd.PersistentFlags().StringVar(config, "config", "", "Path to config file (default: ~/.config/mcpdoctor/config.yaml)")

	return cmd
}

// GetVersion returns version information
func GetVersion() (string, string, string) {
	return shared.GetVersion()
}

// HandleExitError handles exit errors with proper exit codes
func HandleExitError(err error) {
	shared.HandleExitError(err)
}
