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

package history

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/mcpdoctor/internal/commands/shared"
	store "github.com/tombee/mcpdoctor/internal/history"
	"github.com/tombee/mcpdoctor/internal/probe"
	"github.com/tombee/mcpdoctor/internal/report"
)

// writeTestConfig points the shared config flag at a config file whose
// history database lives in a temp dir.
func writeTestConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "history.db")
	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := fmt.Sprintf("history:\n  path: %s\n", dbPath)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))

	shared.SetConfigPathForTest(cfgPath)
	t.Cleanup(func() { shared.SetConfigPathForTest("") })

	return dbPath
}

// runList and runShow are exercised directly rather than through Execute,
// so the tests must supply the context cobra would have set.
func withContext(t *testing.T, cmd *cobra.Command) *cobra.Command {
	t.Helper()
	cmd.SetContext(context.Background())
	return cmd
}

func TestRunList_EmptyStore(t *testing.T) {
	writeTestConfig(t)

	cmd := withContext(t, NewCommand())
	assert.NoError(t, runList(cmd, nil))
}

func TestRunShow_NotFound(t *testing.T) {
	writeTestConfig(t)

	err := runShow(withContext(t, newShowCommand()), []string{"missing-id"})

	var exitErr *shared.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, shared.ExitUsage, exitErr.Code)
}

func TestRunListAndShow_WithRecordedRun(t *testing.T) {
	dbPath := writeTestConfig(t)

	s, err := store.New(store.Config{Path: dbPath})
	require.NoError(t, err)
	id, err := s.Append(context.Background(), &report.Report{
		Target:      "https://example.com/mcp",
		Transport:   "sse",
		GeneratedAt: time.Now().UTC(),
		Snapshot:    probe.Snapshot{ServerName: "srv"},
	})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	assert.NoError(t, runList(withContext(t, NewCommand()), nil))
	assert.NoError(t, runShow(withContext(t, newShowCommand()), []string{id}))
}
