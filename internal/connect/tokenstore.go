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
	"encoding/json"
	"fmt"
	"sync"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/zalando/go-keyring"
)

const keyringService = "mcpdoctor"

// KeyringTokenStore persists OAuth tokens in the system keyring, keyed by
// server URL, so a re-run against the same server does not need to repeat the
// browser flow. When no keyring backend is available it degrades to process
// memory.
type KeyringTokenStore struct {
	mu        sync.Mutex
	serverURL string
	fallback  *mcpclient.Token
	broken    bool
}

// NewKeyringTokenStore creates a token store scoped to one server URL.
func NewKeyringTokenStore(serverURL string) *KeyringTokenStore {
	return &KeyringTokenStore{serverURL: serverURL}
}

// GetToken implements the mcp-go token store interface.
func (s *KeyringTokenStore) GetToken(ctx context.Context) (*mcpclient.Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.broken {
		if s.fallback == nil {
			return nil, fmt.Errorf("no token stored for %s", s.serverURL)
		}
		return s.fallback, nil
	}

	raw, err := keyring.Get(keyringService, s.serverURL)
	if err != nil {
		return nil, fmt.Errorf("no token stored for %s: %w", s.serverURL, err)
	}

	var token mcpclient.Token
	if err := json.Unmarshal([]byte(raw), &token); err != nil {
		return nil, fmt.Errorf("stored token for %s is corrupt: %w", s.serverURL, err)
	}
	return &token, nil
}

// SaveToken implements the mcp-go token store interface.
func (s *KeyringTokenStore) SaveToken(ctx context.Context, token *mcpclient.Token) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.broken {
		s.fallback = token
		return nil
	}

	raw, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	if err := keyring.Set(keyringService, s.serverURL, string(raw)); err != nil {
		// Headless environments often have no keyring daemon. Keep the token
		// for the lifetime of this process instead of failing the auth flow.
		s.broken = true
		s.fallback = token
		return nil
	}
	return nil
}
