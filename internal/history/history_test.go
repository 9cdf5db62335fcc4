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
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/mcpdoctor/internal/lint"
	"github.com/tombee/mcpdoctor/internal/probe"
	"github.com/tombee/mcpdoctor/internal/report"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(Config{Path: filepath.Join(t.TempDir(), "history.db")})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testReport(target string, generatedAt time.Time) *report.Report {
	return &report.Report{
		Target:      target,
		Transport:   "streamable-http",
		GeneratedAt: generatedAt,
		Snapshot: probe.Snapshot{
			ServerName:    "test-server",
			ServerVersion: "0.1.0",
			Tools:         []probe.ToolDef{{Name: "search"}, {Name: "fetch"}},
		},
		Findings: []lint.Finding{
			{RuleID: lint.RuleMissingToolDescription, Severity: lint.SeverityWarning, Message: "tool has no description", ToolName: "search"},
			{RuleID: lint.RuleMissingOutputSchema, Severity: lint.SeverityInfo, Message: "tool declares no output schema; structured results cannot be validated", ToolName: "search"},
		},
	}
}

func TestNew_RequiresPath(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}

func TestAppendAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	generatedAt := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	id, err := store.Append(ctx, testReport("https://example.com/mcp", generatedAt))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	rec, err := store.Get(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, id, rec.ID)
	assert.Equal(t, "https://example.com/mcp", rec.Target)
	assert.Equal(t, "streamable-http", rec.Transport)
	assert.Equal(t, "test-server", rec.ServerName)
	assert.Equal(t, "0.1.0", rec.ServerVersion)
	assert.Equal(t, 2, rec.ToolCount)
	assert.Equal(t, 0, rec.ErrorCount)
	assert.Equal(t, 1, rec.WarningCount)
	assert.Equal(t, 1, rec.InfoCount)
	assert.Equal(t, generatedAt, rec.CreatedAt)

	require.NotNil(t, rec.Report)
	assert.Equal(t, "https://example.com/mcp", rec.Report.Target)
	assert.Len(t, rec.Report.Findings, 2)
}

func TestGet_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList_NewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	for i, target := range []string{"https://a.example.com", "https://b.example.com", "https://c.example.com"} {
		_, err := store.Append(ctx, testReport(target, base.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
	}

	records, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "https://c.example.com", records[0].Target)
	assert.Equal(t, "https://a.example.com", records[2].Target)
	assert.Nil(t, records[0].Report, "List omits report blobs")
}

func TestList_Limit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := store.Append(ctx, testReport("https://example.com", base.Add(time.Duration(i)*time.Second)))
		require.NoError(t, err)
	}

	records, err := store.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestList_Empty(t *testing.T) {
	store := newTestStore(t)

	records, err := store.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, records)
}
