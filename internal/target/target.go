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

// Package target describes how to reach an MCP server: either an HTTP-family
// URL or a command to spawn as a subprocess.
package target

import (
	"fmt"
	"net/url"
	"strings"
)

// Kind discriminates the target union.
type Kind int

const (
	// KindHTTP targets a server reachable over HTTP.
	KindHTTP Kind = iota
	// KindStdio targets a server spawned as a subprocess.
	KindStdio
)

// Target is the user-specified way to reach a server. Exactly one variant is
// active: URL for KindHTTP, Command/Args for KindStdio. Constructed once from
// user input and never mutated.
type Target struct {
	Kind Kind

	// URL is the server endpoint (KindHTTP only).
	URL string

	// Command and Args describe the subprocess to spawn (KindStdio only).
	Command string
	Args    []string
}

// Parse builds a Target from CLI arguments. A first argument starting with
// http:// or https:// is an HTTP target; anything else is treated as a
// command followed by its arguments.
func Parse(args []string) (Target, error) {
	if len(args) == 0 {
		return Target{}, fmt.Errorf("a server URL or command is required")
	}

	first := args[0]
	if strings.HasPrefix(first, "http://") || strings.HasPrefix(first, "https://") {
		if len(args) > 1 {
			return Target{}, fmt.Errorf("unexpected arguments after URL: %s", strings.Join(args[1:], " "))
		}
		parsed, err := url.Parse(first)
		if err != nil {
			return Target{}, fmt.Errorf("invalid server URL %q: %w", first, err)
		}
		if parsed.Host == "" {
			return Target{}, fmt.Errorf("invalid server URL %q: missing host", first)
		}
		return Target{Kind: KindHTTP, URL: first}, nil
	}

	return Target{Kind: KindStdio, Command: first, Args: args[1:]}, nil
}

// String returns a display form of the target.
func (t Target) String() string {
	switch t.Kind {
	case KindHTTP:
		return t.URL
	case KindStdio:
		if len(t.Args) == 0 {
			return t.Command
		}
		return t.Command + " " + strings.Join(t.Args, " ")
	default:
		return "<invalid target>"
	}
}

// Host returns the host portion of an HTTP target, or "" for stdio targets.
func (t Target) Host() string {
	if t.Kind != KindHTTP {
		return ""
	}
	parsed, err := url.Parse(t.URL)
	if err != nil {
		return ""
	}
	return parsed.Host
}
