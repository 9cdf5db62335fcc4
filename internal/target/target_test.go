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

package target

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantKind  Kind
		wantError bool
	}{
		{
			name:     "http URL",
			args:     []string{"http://localhost:3000/mcp"},
			wantKind: KindHTTP,
		},
		{
			name:     "https URL",
			args:     []string{"https://mcp.example.com/sse"},
			wantKind: KindHTTP,
		},
		{
			name:      "URL with trailing args",
			args:      []string{"http://localhost:3000/mcp", "extra"},
			wantError: true,
		},
		{
			name:      "URL without host",
			args:      []string{"http://"},
			wantError: true,
		},
		{
			name:     "command with args",
			args:     []string{"npx", "-y", "@modelcontextprotocol/server-github"},
			wantKind: KindStdio,
		},
		{
			name:     "bare command",
			args:     []string{"my-mcp-server"},
			wantKind: KindStdio,
		},
		{
			name:      "no args",
			args:      nil,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tgt, err := Parse(tt.args)
			if tt.wantError {
				if err == nil {
					t.Fatalf("Parse(%v) expected error, got %+v", tt.args, tgt)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%v) unexpected error: %v", tt.args, err)
			}
			if tgt.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", tgt.Kind, tt.wantKind)
			}
		})
	}
}

func TestParse_StdioFields(t *testing.T) {
	tgt, err := Parse([]string{"npx", "-y", "server"})
	if err != nil {
		t.Fatal(err)
	}
	if tgt.Command != "npx" {
		t.Errorf("Command = %q, want npx", tgt.Command)
	}
	if len(tgt.Args) != 2 || tgt.Args[0] != "-y" || tgt.Args[1] != "server" {
		t.Errorf("Args = %v, want [-y server]", tgt.Args)
	}
}

func TestString(t *testing.T) {
	httpTgt := Target{Kind: KindHTTP, URL: "http://localhost:3000/mcp"}
	if got := httpTgt.String(); got != "http://localhost:3000/mcp" {
		t.Errorf("String() = %q", got)
	}

	stdioTgt := Target{Kind: KindStdio, Command: "npx", Args: []string{"-y", "server"}}
	if got := stdioTgt.String(); got != "npx -y server" {
		t.Errorf("String() = %q", got)
	}
}

func TestHost(t *testing.T) {
	tgt := Target{Kind: KindHTTP, URL: "https://mcp.example.com:8443/path"}
	if got := tgt.Host(); got != "mcp.example.com:8443" {
		t.Errorf("Host() = %q", got)
	}

	stdio := Target{Kind: KindStdio, Command: "srv"}
	if got := stdio.Host(); got != "" {
		t.Errorf("Host() = %q, want empty", got)
	}
}
