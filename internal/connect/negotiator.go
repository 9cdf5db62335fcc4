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

// Package connect establishes an authenticated channel to an MCP server
// despite transport and authentication ambiguity.
//
// For HTTP targets the negotiator tries streamable HTTP first and falls back
// to SSE; each attempt is bounded by a fixed timeout. When a server demands
// authentication the outcome depends on whether a credential provider was
// supplied: without one, an AuthChallenge is harvested and returned as a
// final result; with one, the OAuth authorization-code flow runs and the
// connection is retried exactly once on a fresh transport of the same kind.
// Subprocess targets get a single attempt with no fallback.
package connect

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tombee/mcpdoctor/internal/target"
)

// DefaultTimeout bounds a single connection attempt.
const DefaultTimeout = 30 * time.Second

const (
	clientName = "mcpdoctor"
)

// dialFunc constructs an unstarted MCP client for one transport attempt.
// Swappable in tests.
type dialFunc func(kind TransportKind, tgt target.Target, oauth *mcpclient.OAuthConfig) (mcpClient, error)

// finishAuthFunc completes the OAuth handshake after an authorization-
// required failure. Swappable in tests.
type finishAuthFunc func(ctx context.Context, authErr error, cfg *mcpclient.OAuthConfig, provider CredentialProvider) error

// Negotiator produces a live channel to a target, or a classified error.
type Negotiator struct {
	logger        *slog.Logger
	timeout       time.Duration
	httpClient    *http.Client
	clientVersion string

	dial       dialFunc
	finishAuth finishAuthFunc
}

// Option configures a Negotiator.
type Option func(*Negotiator)

// WithTimeout overrides the per-attempt connection timeout.
func WithTimeout(d time.Duration) Option {
	return func(n *Negotiator) {
		if d > 0 {
			n.timeout = d
		}
	}
}

// WithHTTPClient overrides the HTTP client used for the best-effort
// auth-challenge harvest.
func WithHTTPClient(c *http.Client) Option {
	return func(n *Negotiator) { n.httpClient = c }
}

// NewNegotiator creates a Negotiator. The logger is threaded explicitly
// rather than read from a global.
func NewNegotiator(logger *slog.Logger, version string, opts ...Option) *Negotiator {
	n := &Negotiator{
		logger:        logger,
		timeout:       DefaultTimeout,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
		clientVersion: version,
	}
	n.dial = defaultDial
	n.finishAuth = n.runAuthorizationFlow
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Negotiate establishes a channel to the target. Possible outcomes:
//
//   - a live *Channel
//   - *AuthChallenge: the server wants credentials and none were supplied
//   - *ConnectError: a classified network-level failure
//   - any other error, passed through unchanged
func (n *Negotiator) Negotiate(ctx context.Context, tgt target.Target, provider CredentialProvider) (*Channel, error) {
	switch tgt.Kind {
	case target.KindHTTP:
		return n.negotiateHTTP(ctx, tgt, provider)
	case target.KindStdio:
		return n.negotiateStdio(ctx, tgt)
	default:
		return nil, fmt.Errorf("unknown target kind %d", tgt.Kind)
	}
}

// negotiateHTTP tries streamable HTTP, then SSE. Auth challenges and failed
// credential retries are final; any other primary failure falls through to
// the secondary transport. Only the secondary failure is classified into a
// ConnectError.
func (n *Negotiator) negotiateHTTP(ctx context.Context, tgt target.Target, provider CredentialProvider) (*Channel, error) {
	ch, final, err := n.attempt(ctx, tgt, TransportStreamableHTTP, provider)
	if err == nil {
		return ch, nil
	}
	if final {
		return nil, err
	}

	n.logger.Debug("primary transport failed, falling back",
		slog.String("transport", string(TransportStreamableHTTP)),
		slog.Any("error", err))

	ch, final, err = n.attempt(ctx, tgt, TransportSSE, provider)
	if err == nil {
		return ch, nil
	}
	if final {
		return nil, err
	}
	if ce := classifyNetError(err, tgt); ce != nil {
		return nil, ce
	}
	return nil, err
}

// negotiateStdio spawns the command and performs the handshake exactly once.
func (n *Negotiator) negotiateStdio(ctx context.Context, tgt target.Target) (*Channel, error) {
	ch, _, err := n.attempt(ctx, tgt, TransportStdio, nil)
	if err != nil {
		return nil, classifySpawnError(err, tgt.Command)
	}
	return ch, nil
}

// attempt runs a single transport attempt, including the credential flow when
// a provider is available. The final result indicates the error must not
// trigger a fallback transport: auth challenges and failed OAuth retries end
// negotiation.
func (n *Negotiator) attempt(ctx context.Context, tgt target.Target, kind TransportKind, provider CredentialProvider) (*Channel, bool, error) {
	var oauthCfg *mcpclient.OAuthConfig
	if provider != nil && kind != TransportStdio {
		cfg := provider.OAuthConfig(tgt.URL)
		oauthCfg = &cfg
	}

	raw, err := n.dial(kind, tgt, oauthCfg)
	if err != nil {
		return nil, false, err
	}

	ch := newChannel(raw, kind)
	info, err := n.handshake(ctx, raw)
	if err == nil {
		ch.serverInfo = info
		ch.authenticated = oauthCfg != nil
		return ch, false, nil
	}

	// Whatever went wrong, the partially-opened transport is released before
	// we return or retry.
	_ = ch.Close()

	if !isAuthRequired(err) {
		return nil, false, err
	}

	if provider == nil {
		challenge := n.harvestChallenge(ctx, tgt.URL)
		n.logger.Debug("authentication required and no credential provider supplied",
			slog.Int("status", challenge.StatusCode))
		return nil, true, challenge
	}

	// Credential flow: wait for the out-of-band authorization code, exchange
	// it, then retry once on a fresh transport of the same kind. A failure
	// here is final and propagates as-is.
	if authErr := n.finishAuth(ctx, err, oauthCfg, provider); authErr != nil {
		return nil, true, authErr
	}

	raw, err = n.dial(kind, tgt, oauthCfg)
	if err != nil {
		return nil, true, err
	}
	retryCh := newChannel(raw, kind)
	info, err = n.handshake(ctx, raw)
	if err != nil {
		_ = retryCh.Close()
		return nil, true, err
	}
	retryCh.serverInfo = info
	retryCh.authenticated = true
	return retryCh, false, nil
}

// handshake starts the transport and performs the MCP initialize exchange,
// bounded by the negotiator's timeout. Timeout and cleanup travel together:
// cancelling the context tears down the in-flight connect.
func (n *Negotiator) handshake(ctx context.Context, raw mcpClient) (ServerInfo, error) {
	connectCtx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	if err := raw.Start(connectCtx); err != nil {
		return ServerInfo{}, n.timeoutOr(connectCtx, err)
	}

	initReq := mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			Capabilities:    mcp.ClientCapabilities{},
			ClientInfo: mcp.Implementation{
				Name:    clientName,
				Version: n.clientVersion,
			},
		},
	}

	result, err := raw.Initialize(connectCtx, initReq)
	if err != nil {
		return ServerInfo{}, n.timeoutOr(connectCtx, err)
	}

	return ServerInfo{
		Name:    result.ServerInfo.Name,
		Version: result.ServerInfo.Version,
	}, nil
}

// timeoutOr folds a context deadline into a distinct "connection timed out"
// error so callers can tell a slow server from a broken one.
func (n *Negotiator) timeoutOr(ctx context.Context, err error) error {
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("connection timed out after %s: %w", n.timeout, err)
	}
	return err
}

// harvestChallenge issues a best-effort side GET against the target to
// recover the WWW-Authenticate header and any error description for
// diagnostics. Failures are swallowed and yield an empty challenge; this
// request never affects the primary control flow.
func (n *Negotiator) harvestChallenge(ctx context.Context, url string) *AuthChallenge {
	challenge := &AuthChallenge{StatusCode: http.StatusUnauthorized}

	harvestCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(harvestCtx, http.MethodGet, url, nil)
	if err != nil {
		return challenge
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return challenge
	}
	defer resp.Body.Close()

	challenge.StatusCode = resp.StatusCode
	challenge.WWWAuthenticate = resp.Header.Get("WWW-Authenticate")

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil || len(body) == 0 {
		return challenge
	}

	var parsed struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
		Message          string `json:"message"`
	}
	if json.Unmarshal(body, &parsed) == nil {
		switch {
		case parsed.ErrorDescription != "":
			challenge.ErrorDescription = parsed.ErrorDescription
		case parsed.Message != "":
			challenge.ErrorDescription = parsed.Message
		case parsed.Error != "":
			challenge.ErrorDescription = parsed.Error
		}
	}

	return challenge
}

// runAuthorizationFlow drives the mcp-go OAuth handler through the
// authorization-code exchange. The wait for the code is a suspension point:
// it blocks until the provider's own deadline, not the negotiator's.
func (n *Negotiator) runAuthorizationFlow(ctx context.Context, authErr error, cfg *mcpclient.OAuthConfig, provider CredentialProvider) error {
	handler := mcpclient.GetOAuthHandler(authErr)
	if handler == nil {
		return fmt.Errorf("server requires authentication but no OAuth handler is available: %w", authErr)
	}

	if cfg == nil || cfg.ClientID == "" {
		if err := handler.RegisterClient(ctx, clientName); err != nil {
			return fmt.Errorf("dynamic client registration failed: %w", err)
		}
	}

	verifier, err := mcpclient.GenerateCodeVerifier()
	if err != nil {
		return fmt.Errorf("failed to generate PKCE verifier: %w", err)
	}
	challenge := mcpclient.GenerateCodeChallenge(verifier)

	state, err := mcpclient.GenerateState()
	if err != nil {
		return fmt.Errorf("failed to generate OAuth state: %w", err)
	}

	authURL, err := handler.GetAuthorizationURL(ctx, state, challenge)
	if err != nil {
		return fmt.Errorf("failed to build authorization URL: %w", err)
	}

	if err := provider.PromptAuthorization(authURL); err != nil {
		return err
	}

	code, gotState, err := provider.WaitForAuthorizationCode(ctx)
	if err != nil {
		return fmt.Errorf("authorization wait failed: %w", err)
	}
	if gotState == "" {
		gotState = state
	}

	if err := handler.ProcessAuthorizationResponse(ctx, code, gotState, verifier); err != nil {
		return fmt.Errorf("authorization code exchange failed: %w", err)
	}
	return nil
}

// defaultDial builds a real mcp-go client for the given transport kind.
func defaultDial(kind TransportKind, tgt target.Target, oauth *mcpclient.OAuthConfig) (mcpClient, error) {
	switch kind {
	case TransportStreamableHTTP:
		if oauth != nil {
			return mcpclient.NewOAuthStreamableHttpClient(tgt.URL, *oauth)
		}
		return mcpclient.NewStreamableHttpClient(tgt.URL)
	case TransportSSE:
		if oauth != nil {
			return mcpclient.NewOAuthSSEClient(tgt.URL, *oauth)
		}
		return mcpclient.NewSSEMCPClient(tgt.URL)
	case TransportStdio:
		return mcpclient.NewStdioMCPClient(tgt.Command, os.Environ(), tgt.Args...)
	default:
		return nil, fmt.Errorf("unknown transport kind %q", kind)
	}
}
