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

// Package history implements the history command over the local run store.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tombee/mcpdoctor/internal/commands/shared"
	"github.com/tombee/mcpdoctor/internal/config"
	store "github.com/tombee/mcpdoctor/internal/history"
	"github.com/tombee/mcpdoctor/internal/report"
)

var listLimit int

// NewCommand creates the history command
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past diagnostic runs",
		Long:  `List past inspections recorded in the local history database, newest first.`,
		RunE:  runList,
	}

	cmd.Flags().IntVar(&listLimit, "limit", 20, "Maximum number of runs to list (0 for all)")

	cmd.AddCommand(newShowCommand())

	return cmd
}

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show the full report of one recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}
}

func openStore() (*store.Store, error) {
	settings, err := config.Load(shared.GetConfigPath())
	if err != nil {
		return nil, shared.NewUsageError("failed to load configuration", err)
	}
	if settings.History.Disabled {
		return nil, shared.NewUsageError("history is disabled in configuration", nil)
	}

	path, err := settings.HistoryPath()
	if err != nil {
		return nil, shared.NewRuntimeError("failed to resolve history path", err)
	}

	s, err := store.New(store.Config{Path: path})
	if err != nil {
		return nil, shared.NewRuntimeError("failed to open history database", err)
	}
	return s, nil
}

func runList(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	records, err := s.List(cmd.Context(), listLimit)
	if err != nil {
		return shared.NewRuntimeError("failed to list runs", err)
	}

	if shared.GetJSON() {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if records == nil {
			records = []store.Record{}
		}
		return encoder.Encode(records)
	}

	if len(records) == 0 {
		fmt.Println("No recorded runs.")
		return nil
	}

	for _, rec := range records {
		summary := fmt.Sprintf("%d tools, %d errors, %d warnings",
			rec.ToolCount, rec.ErrorCount, rec.WarningCount)
		switch {
		case rec.ErrorCount > 0:
			summary = shared.RenderError(summary)
		case rec.WarningCount > 0:
			summary = shared.RenderWarn(summary)
		default:
			summary = shared.RenderOK(summary)
		}
		fmt.Printf("%s  %s  %s\n", rec.CreatedAt.Format("2006-01-02 15:04"),
			rec.Target, summary)
		fmt.Printf("  %s\n", shared.RenderLabel("id: "+rec.ID))
	}

	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	rec, err := s.Get(cmd.Context(), args[0])
	if errors.Is(err, store.ErrNotFound) {
		return shared.NewUsageError(fmt.Sprintf("no run with id %q", args[0]), nil)
	}
	if err != nil {
		return shared.NewRuntimeError("failed to load run", err)
	}

	if shared.GetJSON() {
		return report.WriteJSON(os.Stdout, rec.Report)
	}

	report.NewRenderer(os.Stdout, shared.ColorEnabled()).Render(rec.Report)
	return nil
}
