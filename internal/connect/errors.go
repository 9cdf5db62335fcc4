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
	"fmt"
	"strings"

	mcpclient "github.com/mark3labs/mcp-go/client"
)

// AuthChallenge is returned when a server demanded authentication and no
// credential provider was supplied. It is a final result: the negotiator
// never retries past it, and callers recover only by re-running with
// credentials. Immutable once produced.
type AuthChallenge struct {
	// StatusCode is the HTTP status the server answered with (usually 401).
	StatusCode int

	// WWWAuthenticate is the raw WWW-Authenticate header, if the best-effort
	// harvest recovered one.
	WWWAuthenticate string

	// ErrorDescription carries any human-readable detail from the response
	// body.
	ErrorDescription string
}

// Error implements the error interface.
func (a *AuthChallenge) Error() string {
	var sb strings.Builder
	sb.WriteString("server requires authentication")
	if a.StatusCode != 0 {
		fmt.Fprintf(&sb, " (HTTP %d)", a.StatusCode)
	}
	if a.ErrorDescription != "" {
		sb.WriteString(": ")
		sb.WriteString(a.ErrorDescription)
	}
	return sb.String()
}

// Suggestion returns remediation guidance for the user.
func (a *AuthChallenge) Suggestion() string {
	return "re-run with --oauth to authenticate via the browser"
}

// ConnectError is a network-level failure classified into a human-actionable
// message. It is never retried automatically; the caller decides.
type ConnectError struct {
	// Kind is the classified failure category.
	Kind NetErrorKind
	// Message is the human-readable, target-specific description.
	Message string
	// Cause is the underlying error.
	Cause error
}

// NetErrorKind categorizes a network-level connection failure.
type NetErrorKind string

const (
	// NetHostNotFound indicates DNS resolution failed.
	NetHostNotFound NetErrorKind = "host_not_found"
	// NetConnectionRefused indicates the host refused the connection.
	NetConnectionRefused NetErrorKind = "connection_refused"
	// NetTimeout indicates the attempt timed out.
	NetTimeout NetErrorKind = "timeout"
	// NetUnreachable indicates the network or host is unreachable.
	NetUnreachable NetErrorKind = "unreachable"
	// NetReset indicates the connection was reset mid-handshake.
	NetReset NetErrorKind = "reset"
	// NetBadURL indicates the URL itself looks malformed.
	NetBadURL NetErrorKind = "bad_url"
	// NetCommandNotFound indicates a stdio command was not found in PATH.
	NetCommandNotFound NetErrorKind = "command_not_found"
	// NetPermissionDenied indicates a stdio command could not be executed.
	NetPermissionDenied NetErrorKind = "permission_denied"
)

// Error implements the error interface.
func (e *ConnectError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *ConnectError) Unwrap() error {
	return e.Cause
}

// isAuthRequired reports whether an attempt failed because the server
// demanded authentication. The OAuth-aware transports surface a typed error;
// plain transports surface a 401 in the error text.
func isAuthRequired(err error) bool {
	if err == nil {
		return false
	}
	if mcpclient.IsOAuthAuthorizationRequiredError(err) {
		return true
	}
	text := strings.ToLower(err.Error())
	return strings.Contains(text, "401") ||
		strings.Contains(text, "unauthorized") ||
		strings.Contains(text, "authentication required")
}
