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
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	mcpclient "github.com/mark3labs/mcp-go/client"
)

// CredentialProvider supplies OAuth credentials out of band. The wait for the
// authorization code can block indefinitely from the negotiator's point of
// view; it is bounded only by the provider's own timeout.
type CredentialProvider interface {
	// OAuthConfig returns the configuration used to build an authenticating
	// transport for the given server URL.
	OAuthConfig(serverURL string) mcpclient.OAuthConfig

	// PromptAuthorization surfaces the authorization URL to the user.
	PromptAuthorization(authURL string) error

	// WaitForAuthorizationCode blocks until the out-of-band flow delivers an
	// authorization code. The returned state, when non-empty, is the state
	// parameter echoed back by the authorization server.
	WaitForAuthorizationCode(ctx context.Context) (code string, state string, err error)
}

// LoopbackProvider implements CredentialProvider with a localhost redirect
// listener: the authorization server redirects the browser to
// http://127.0.0.1:<port>/callback, which delivers the code.
type LoopbackProvider struct {
	// ClientID and ClientSecret identify a pre-registered OAuth client.
	// Leave ClientID empty to use dynamic client registration.
	ClientID     string
	ClientSecret string

	// Port is the localhost port to bind for the redirect.
	Port int

	// Scopes are the OAuth scopes to request.
	Scopes []string

	// Wait bounds how long the listener waits for the redirect.
	Wait time.Duration

	// Out receives the user-facing authorization prompt.
	Out io.Writer

	// Tokens persists tokens across runs. Defaults to the system keyring,
	// falling back to process memory.
	Tokens mcpclient.TokenStore
}

// OAuthConfig implements CredentialProvider.
func (p *LoopbackProvider) OAuthConfig(serverURL string) mcpclient.OAuthConfig {
	store := p.Tokens
	if store == nil {
		store = NewKeyringTokenStore(serverURL)
		p.Tokens = store
	}
	return mcpclient.OAuthConfig{
		ClientID:     p.ClientID,
		ClientSecret: p.ClientSecret,
		RedirectURI:  fmt.Sprintf("http://127.0.0.1:%d/callback", p.Port),
		Scopes:       p.Scopes,
		TokenStore:   store,
		PKCEEnabled:  true,
	}
}

// PromptAuthorization implements CredentialProvider.
func (p *LoopbackProvider) PromptAuthorization(authURL string) error {
	out := p.Out
	if out == nil {
		return nil
	}
	fmt.Fprintf(out, "Open the following URL in your browser to authorize:\n\n  %s\n\n", authURL)
	return nil
}

// WaitForAuthorizationCode implements CredentialProvider. It binds the
// loopback listener, waits for the redirect to deliver code and state, and
// shuts the listener down before returning.
func (p *LoopbackProvider) WaitForAuthorizationCode(ctx context.Context) (string, string, error) {
	wait := p.Wait
	if wait <= 0 {
		wait = 5 * time.Minute
	}

	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", p.Port))
	if err != nil {
		return "", "", fmt.Errorf("failed to bind callback listener: %w", err)
	}

	type callback struct {
		code  string
		state string
		err   error
	}
	results := make(chan callback, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if errCode := query.Get("error"); errCode != "" {
			desc := query.Get("error_description")
			http.Error(w, "Authorization failed. You can close this window.", http.StatusBadRequest)
			results <- callback{err: fmt.Errorf("authorization denied: %s %s", errCode, desc)}
			return
		}
		code := query.Get("code")
		if code == "" {
			http.Error(w, "Missing authorization code.", http.StatusBadRequest)
			results <- callback{err: fmt.Errorf("callback received no authorization code")}
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, "Authorization complete. You can close this window and return to the terminal.")
		results <- callback{code: code, state: query.Get("state")}
	})

	server := &http.Server{Handler: mux}
	go func() {
		_ = server.Serve(listener)
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	select {
	case result := <-results:
		return result.code, result.state, result.err
	case <-time.After(wait):
		return "", "", fmt.Errorf("timed out after %s waiting for authorization", wait)
	case <-ctx.Done():
		return "", "", ctx.Err()
	}
}
