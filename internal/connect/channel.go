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
	"context"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
)

// TransportKind identifies the concrete transport a channel was opened over.
type TransportKind string

const (
	// TransportStreamableHTTP is the primary transport for HTTP targets.
	TransportStreamableHTTP TransportKind = "streamable-http"
	// TransportSSE is the fallback transport for HTTP targets.
	TransportSSE TransportKind = "sse"
	// TransportStdio is the only transport for subprocess targets.
	TransportStdio TransportKind = "stdio"
)

// Session is the subset of the MCP client surface used after negotiation.
// The capability probe treats it as read-only.
type Session interface {
	ListTools(ctx context.Context, request mcp.ListToolsRequest) (*mcp.ListToolsResult, error)
	ListResources(ctx context.Context, request mcp.ListResourcesRequest) (*mcp.ListResourcesResult, error)
	ListPrompts(ctx context.Context, request mcp.ListPromptsRequest) (*mcp.ListPromptsResult, error)
	Ping(ctx context.Context) error
	Close() error
}

// mcpClient extends Session with the handshake methods used only during
// negotiation. *client.Client satisfies it.
type mcpClient interface {
	Start(ctx context.Context) error
	Initialize(ctx context.Context, request mcp.InitializeRequest) (*mcp.InitializeResult, error)
	Session
}

// ServerInfo is the identity a server reported during the initialize
// handshake.
type ServerInfo struct {
	Name    string
	Version string
}

// Channel is a live, negotiated connection to an MCP server. It is owned by
// the call path that created it and must be closed exactly once on every exit
// path; Close is idempotent so error paths may call it defensively.
type Channel struct {
	mu            sync.Mutex
	session       Session
	kind          TransportKind
	authenticated bool
	serverInfo    ServerInfo
	closed        bool
}

// NewChannel wraps an already-established session in a Channel. The
// negotiator builds channels itself; this constructor exists for callers and
// tests that compose the probe with their own session implementation.
func NewChannel(s Session, kind TransportKind, info ServerInfo) *Channel {
	return &Channel{session: s, kind: kind, serverInfo: info}
}

func newChannel(s Session, kind TransportKind) *Channel {
	return &Channel{session: s, kind: kind}
}

// Session returns the underlying MCP session. The caller must not use it
// after Close.
func (c *Channel) Session() Session {
	return c.session
}

// Kind reports which transport the channel was actually opened over.
func (c *Channel) Kind() TransportKind {
	return c.kind
}

// Authenticated reports whether OAuth authentication was performed for this
// channel. Always false for stdio channels.
func (c *Channel) Authenticated() bool {
	return c.authenticated
}

// ServerInfo returns the server identity captured at initialize time.
func (c *Channel) ServerInfo() ServerInfo {
	return c.serverInfo
}

// Close releases the channel. Calling Close more than once, or on a channel
// that never finished opening, is a no-op.
func (c *Channel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.session == nil {
		return nil
	}
	c.closed = true
	return c.session.Close()
}
