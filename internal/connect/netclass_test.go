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

package connect

import (
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/tombee/mcpdoctor/internal/target"
)

func TestClassifyNetError(t *testing.T) {
	tgt := target.Target{Kind: target.KindHTTP, URL: "http://mcp.example.com:3000/mcp"}

	tests := []struct {
		name     string
		err      error
		wantKind NetErrorKind
		wantText string
	}{
		{
			name:     "dns failure",
			err:      errors.New(`dial tcp: lookup mcp.example.com: no such host`),
			wantKind: NetHostNotFound,
			wantText: "check the URL for typos",
		},
		{
			name:     "refused",
			err:      errors.New("dial tcp 127.0.0.1:3000: connect: connection refused"),
			wantKind: NetConnectionRefused,
			wantText: "is the server running?",
		},
		{
			name:     "timeout",
			err:      errors.New("context deadline exceeded"),
			wantKind: NetTimeout,
			wantText: "timed out",
		},
		{
			name:     "reset",
			err:      errors.New("read tcp: connection reset by peer"),
			wantKind: NetReset,
			wantText: "reset",
		},
		{
			name:     "unreachable",
			err:      errors.New("connect: network is unreachable"),
			wantKind: NetUnreachable,
			wantText: "unreachable",
		},
		{
			name:     "scheme typo",
			err:      errors.New(`Get "htp://x": unsupported protocol scheme "htp"`),
			wantKind: NetBadURL,
			wantText: "URL typo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ce := classifyNetError(tt.err, tgt)
			if ce == nil {
				t.Fatalf("classifyNetError(%v) = nil, want kind %s", tt.err, tt.wantKind)
			}
			if ce.Kind != tt.wantKind {
				t.Errorf("Kind = %s, want %s", ce.Kind, tt.wantKind)
			}
			if !strings.Contains(ce.Message, tt.wantText) {
				t.Errorf("Message = %q, want substring %q", ce.Message, tt.wantText)
			}
			if !errors.Is(ce, tt.err) {
				t.Error("classified error does not unwrap to its cause")
			}
		})
	}
}

func TestClassifyNetError_NonNetworkPassesThrough(t *testing.T) {
	if ce := classifyNetError(errors.New("invalid JSON-RPC response"), target.Target{}); ce != nil {
		t.Errorf("non-network error was classified as %s", ce.Kind)
	}
	if ce := classifyNetError(nil, target.Target{}); ce != nil {
		t.Error("nil error was classified")
	}
}

func TestClassifySpawnError(t *testing.T) {
	notFound := classifySpawnError(exec.ErrNotFound, "npx")
	var ce *ConnectError
	if !errors.As(notFound, &ce) || ce.Kind != NetCommandNotFound {
		t.Errorf("exec.ErrNotFound classified as %v", notFound)
	}

	denied := classifySpawnError(errors.New("fork/exec ./srv: permission denied"), "./srv")
	if !errors.As(denied, &ce) || ce.Kind != NetPermissionDenied {
		t.Errorf("permission denied classified as %v", denied)
	}

	other := errors.New("exit status 1")
	if got := classifySpawnError(other, "srv"); got != other {
		t.Errorf("other spawn failure was rewritten: %v", got)
	}
}

func TestIsAuthRequired(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{errors.New("request failed: 401 Unauthorized"), true},
		{errors.New("authentication required"), true},
		{errors.New("connection refused"), false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := isAuthRequired(tt.err); got != tt.want {
			t.Errorf("isAuthRequired(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
