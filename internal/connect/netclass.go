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
	"fmt"
	"io/fs"
	"os/exec"
	"strings"

	"github.com/tombee/mcpdoctor/internal/target"
)

// Substring classification of network errors. Go's net package does not
// expose a stable error taxonomy across platforms, so the matching fragments
// live here and nowhere else.
var netErrorSubstrings = []struct {
	kind      NetErrorKind
	fragments []string
}{
	{NetHostNotFound, []string{"no such host", "server misbehaving", "name resolution"}},
	{NetConnectionRefused, []string{"connection refused", "actively refused"}},
	{NetTimeout, []string{"timed out", "timeout", "deadline exceeded"}},
	{NetReset, []string{"connection reset", "broken pipe", "unexpected eof"}},
	{NetUnreachable, []string{"unreachable", "no route to host"}},
	{NetBadURL, []string{"unsupported protocol scheme", "invalid url", "first path segment", "missing protocol scheme"}},
}

// classifyNetError maps a raw connection failure onto a ConnectError with a
// human-readable, target-specific message. Returns nil when the error does
// not look like a network-level failure; the caller then propagates the raw
// error unchanged.
func classifyNetError(err error, tgt target.Target) *ConnectError {
	if err == nil {
		return nil
	}

	text := strings.ToLower(err.Error())
	for _, entry := range netErrorSubstrings {
		for _, fragment := range entry.fragments {
			if strings.Contains(text, fragment) {
				return &ConnectError{
					Kind:    entry.kind,
					Message: netErrorMessage(entry.kind, tgt),
					Cause:   err,
				}
			}
		}
	}
	return nil
}

func netErrorMessage(kind NetErrorKind, tgt target.Target) string {
	host := tgt.Host()
	if host == "" {
		host = tgt.String()
	}

	switch kind {
	case NetHostNotFound:
		return fmt.Sprintf("host not found: %s (check the URL for typos)", host)
	case NetConnectionRefused:
		return fmt.Sprintf("connection refused by %s (is the server running?)", host)
	case NetTimeout:
		return fmt.Sprintf("connection to %s timed out", host)
	case NetReset:
		return fmt.Sprintf("connection to %s was reset by the server", host)
	case NetUnreachable:
		return fmt.Sprintf("%s is unreachable (check your network connection)", host)
	case NetBadURL:
		return fmt.Sprintf("%s looks like a URL typo (expected something like http://localhost:3000/mcp)", tgt.String())
	default:
		return fmt.Sprintf("failed to connect to %s", host)
	}
}

// classifySpawnError maps subprocess spawn failures onto distinct
// command-not-found and permission-denied errors. Any other failure is
// passed through unchanged.
func classifySpawnError(err error, command string) error {
	if err == nil {
		return nil
	}

	text := strings.ToLower(err.Error())
	switch {
	case errors.Is(err, exec.ErrNotFound) || strings.Contains(text, "executable file not found"):
		return &ConnectError{
			Kind:    NetCommandNotFound,
			Message: fmt.Sprintf("command %q not found (verify it is installed and in your PATH)", command),
			Cause:   err,
		}
	case errors.Is(err, fs.ErrPermission) || strings.Contains(text, "permission denied"):
		return &ConnectError{
			Kind:    NetPermissionDenied,
			Message: fmt.Sprintf("permission denied running %q (check the file is executable)", command),
			Cause:   err,
		}
	default:
		return err
	}
}
