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

// Package ping implements a connectivity-only health check against an MCP
// server.
package ping

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tombee/mcpdoctor/internal/commands/shared"
	"github.com/tombee/mcpdoctor/internal/config"
	"github.com/tombee/mcpdoctor/internal/connect"
	"github.com/tombee/mcpdoctor/internal/log"
	"github.com/tombee/mcpdoctor/internal/target"
)

var timeoutSeconds int

// Result contains the ping health check result
type Result struct {
	Target        string `json:"target"`
	Transport     string `json:"transport,omitempty"`
	Reachable     bool   `json:"reachable"`
	Healthy       bool   `json:"healthy"`
	ConnectMs     int64  `json:"connectMs,omitempty"`
	PingMs        int64  `json:"pingMs,omitempty"`
	ServerName    string `json:"serverName,omitempty"`
	ServerVersion string `json:"serverVersion,omitempty"`
	Error         string `json:"error,omitempty"`
}

// NewCommand creates the ping command
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ping <url | command [args...]>",
		Short: "Quick connectivity check for an MCP server",
		Long: `Connect to an MCP server and issue a single ping, without probing
capabilities or running quality rules.

Exit codes:
  0 - Server is reachable and answered the ping
  1 - Server is unreachable or unhealthy`,
		Args: cobra.MinimumNArgs(1),
		RunE: runPing,
	}

	cmd.Flags().IntVar(&timeoutSeconds, "timeout", 0, "Connection timeout in seconds (default from config, 30)")

	return cmd
}

func runPing(cmd *cobra.Command, args []string) error {
	tgt, err := target.Parse(args)
	if err != nil {
		return shared.NewUsageError("invalid target", err)
	}

	settings, err := config.Load(shared.GetConfigPath())
	if err != nil {
		return shared.NewUsageError("failed to load configuration", err)
	}

	timeout := settings.Timeout()
	if timeoutSeconds > 0 {
		timeout = time.Duration(timeoutSeconds) * time.Second
	}

	logger := log.New(log.FromEnv())
	version, _, _ := shared.GetVersion()
	negotiator := connect.NewNegotiator(logger, version, connect.WithTimeout(timeout))

	result := Result{Target: tgt.String()}

	connectStart := time.Now()
	ch, err := negotiator.Negotiate(cmd.Context(), tgt, nil)
	if err != nil {
		result.Error = err.Error()
		return output(result)
	}
	defer ch.Close()

	result.Reachable = true
	result.Transport = string(ch.Kind())
	result.ConnectMs = time.Since(connectStart).Milliseconds()
	result.ServerName = ch.ServerInfo().Name
	result.ServerVersion = ch.ServerInfo().Version

	pingStart := time.Now()
	if err := ch.Session().Ping(cmd.Context()); err != nil {
		result.Error = err.Error()
		return output(result)
	}
	result.PingMs = time.Since(pingStart).Milliseconds()
	result.Healthy = true

	return output(result)
}

// output renders the result and translates health into the exit code.
func output(result Result) error {
	if shared.GetJSON() {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(result); err != nil {
			return err
		}
	} else if !shared.GetQuiet() {
		outputText(result)
	}

	if !result.Healthy {
		return &shared.ExitError{Code: shared.ExitRuntime, Message: "server is unhealthy"}
	}
	return nil
}

func outputText(result Result) {
	fmt.Printf("%s\n\n", shared.RenderHeader("Pinging "+result.Target))

	if !result.Reachable {
		fmt.Println(shared.RenderError("unreachable: " + result.Error))
		return
	}

	fmt.Println(shared.RenderOK(fmt.Sprintf("connected via %s in %dms", result.Transport, result.ConnectMs)))
	if result.ServerName != "" {
		server := result.ServerName
		if result.ServerVersion != "" {
			server += " " + result.ServerVersion
		}
		fmt.Printf("  %s %s\n", shared.RenderLabel("server:"), server)
	}

	if result.Healthy {
		fmt.Println(shared.RenderOK(fmt.Sprintf("ping answered in %dms", result.PingMs)))
	} else {
		fmt.Println(shared.RenderError("ping failed: " + result.Error))
	}
}
