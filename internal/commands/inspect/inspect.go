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

// Package inspect implements the inspect command: connect, probe, evaluate,
// report.
package inspect

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tombee/mcpdoctor/internal/commands/shared"
	"github.com/tombee/mcpdoctor/internal/config"
	"github.com/tombee/mcpdoctor/internal/connect"
	"github.com/tombee/mcpdoctor/internal/history"
	"github.com/tombee/mcpdoctor/internal/lint"
	"github.com/tombee/mcpdoctor/internal/log"
	"github.com/tombee/mcpdoctor/internal/probe"
	"github.com/tombee/mcpdoctor/internal/report"
	"github.com/tombee/mcpdoctor/internal/target"
)

var (
	timeoutSeconds int
	useOAuth       bool
	noHistory      bool
)

// NewCommand creates the inspect command
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <url | command [args...]>",
		Short: "Diagnose an MCP server",
		Long: `Connect to an MCP server, list the capabilities it exposes, and run
quality rules over its tool definitions.

HTTP targets are tried over streamable HTTP first, then SSE. A target that
does not look like a URL is treated as a command to spawn and speak stdio
with.

Exit codes:
  0 - Inspection completed (findings, even error-severity ones, are diagnostics)
  1 - Unclassified runtime failure
  2 - Usage error, authentication required, or classified network failure`,
		Args: cobra.MinimumNArgs(1),
		RunE: runInspect,
	}

	cmd.Flags().IntVar(&timeoutSeconds, "timeout", 0, "Connection timeout in seconds (default from config, 30)")
	cmd.Flags().BoolVar(&useOAuth, "oauth", false, "Authenticate via the browser OAuth flow if the server requires it")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record this run in history")

	return cmd
}

func runInspect(cmd *cobra.Command, args []string) error {
	tgt, err := target.Parse(args)
	if err != nil {
		return shared.NewUsageError("invalid target", err)
	}

	settings, err := config.Load(shared.GetConfigPath())
	if err != nil {
		return shared.NewUsageError("failed to load configuration", err)
	}

	logger := newLogger(settings)
	version, _, _ := shared.GetVersion()

	timeout := settings.Timeout()
	if timeoutSeconds > 0 {
		timeout = time.Duration(timeoutSeconds) * time.Second
	}

	var provider connect.CredentialProvider
	if useOAuth {
		provider = &connect.LoopbackProvider{
			ClientID:     settings.OAuth.ClientID,
			ClientSecret: settings.OAuth.ClientSecret,
			Port:         settings.OAuth.RedirectPort,
			Scopes:       settings.OAuth.Scopes,
			Wait:         time.Duration(settings.OAuth.WaitMinutes) * time.Minute,
			Out:          cmd.ErrOrStderr(),
		}
	}

	ctx := cmd.Context()
	negotiator := connect.NewNegotiator(logger, version, connect.WithTimeout(timeout))

	connectStart := time.Now()
	ch, err := negotiator.Negotiate(ctx, tgt, provider)
	if err != nil {
		return renderNegotiationFailure(err)
	}
	connectDuration := time.Since(connectStart)
	defer ch.Close()

	snap := probe.New(logger).Probe(ctx, ch)

	transport := string(ch.Kind())
	authenticated := ch.Authenticated()

	// The channel is done once the snapshot and its metadata exist; rule
	// evaluation and rendering must not touch it.
	if err := ch.Close(); err != nil {
		logger.Warn("failed to close channel", log.Error(err))
	}

	findings := lint.Evaluate(snap.Tools)
	rep := report.Assemble(tgt.String(), transport, authenticated, connectDuration, *snap, findings)

	recordHistory(ctx, logger, settings, rep)

	if shared.GetJSON() {
		return report.WriteJSON(os.Stdout, rep)
	}
	if !shared.GetQuiet() {
		report.NewRenderer(os.Stdout, shared.ColorEnabled()).Render(rep)
	}
	return nil
}

// renderNegotiationFailure maps the three negotiation outcomes onto output
// and exit codes: auth challenge and classified network failures exit 2,
// anything else exits 1 with the original cause visible.
func renderNegotiationFailure(err error) error {
	var challenge *connect.AuthChallenge
	if errors.As(err, &challenge) {
		if shared.GetJSON() {
			if writeErr := report.WriteAuthChallengeJSON(os.Stdout, challenge); writeErr != nil {
				return shared.NewRuntimeError("failed to write output", writeErr)
			}
			os.Exit(shared.ExitUsage)
		}
		return &shared.ExitError{Code: shared.ExitUsage, Message: "authentication required", Cause: challenge}
	}

	var connErr *connect.ConnectError
	if errors.As(err, &connErr) {
		if shared.GetJSON() {
			if writeErr := report.WriteConnectionErrorJSON(os.Stdout, connErr); writeErr != nil {
				return shared.NewRuntimeError("failed to write output", writeErr)
			}
			os.Exit(shared.ExitUsage)
		}
		return &shared.ExitError{Code: shared.ExitUsage, Message: "connection failed", Cause: connErr}
	}

	return shared.NewRuntimeError("failed to connect", err)
}

// recordHistory appends the run to the local history store. Best-effort: a
// broken history database must not fail the inspection.
func recordHistory(ctx context.Context, logger *slog.Logger, settings *config.Settings, rep *report.Report) {
	if noHistory || settings.History.Disabled {
		return
	}

	path, err := settings.HistoryPath()
	if err != nil {
		logger.Warn("history disabled", "reason", err.Error())
		return
	}

	store, err := history.New(history.Config{Path: path})
	if err != nil {
		logger.Warn("history disabled", "reason", err.Error())
		return
	}
	defer store.Close()

	if _, err := store.Append(ctx, rep); err != nil {
		logger.Warn("failed to record run", "reason", err.Error())
	}
}

func newLogger(settings *config.Settings) *slog.Logger {
	cfg := log.FromEnv()
	if settings.Log.Level != "" && os.Getenv("MCPDOCTOR_DEBUG") == "" &&
		os.Getenv("MCPDOCTOR_LOG_LEVEL") == "" && os.Getenv("LOG_LEVEL") == "" {
		cfg.Level = settings.Log.Level
	}
	if settings.Log.Format != "" && os.Getenv("LOG_FORMAT") == "" {
		cfg.Format = log.Format(settings.Log.Format)
	}
	if shared.GetVerbose() {
		cfg.Level = "debug"
	}
	return log.New(cfg)
}
