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
	"testing"
	"time"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestKeyringTokenStore_RoundTrip(t *testing.T) {
	keyring.MockInit()
	ctx := context.Background()

	var store mcpclient.TokenStore = NewKeyringTokenStore("https://example.com/mcp")

	_, err := store.GetToken(ctx)
	require.Error(t, err, "no token stored yet")

	saved := &mcpclient.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		ExpiresAt:    time.Now().Add(time.Hour).UTC().Truncate(time.Second),
	}
	require.NoError(t, store.SaveToken(ctx, saved))

	got, err := store.GetToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved.AccessToken, got.AccessToken)
	assert.Equal(t, saved.RefreshToken, got.RefreshToken)
}

func TestKeyringTokenStore_ScopedByServerURL(t *testing.T) {
	keyring.MockInit()
	ctx := context.Background()

	first := NewKeyringTokenStore("https://a.example.com")
	second := NewKeyringTokenStore("https://b.example.com")

	require.NoError(t, first.SaveToken(ctx, &mcpclient.Token{AccessToken: "token-a"}))

	_, err := second.GetToken(ctx)
	assert.Error(t, err, "tokens are keyed by server URL")
}

func TestKeyringTokenStore_MemoryFallback(t *testing.T) {
	keyring.MockInitWithError(keyring.ErrUnsupportedPlatform)
	ctx := context.Background()

	store := NewKeyringTokenStore("https://example.com/mcp")
	require.NoError(t, store.SaveToken(ctx, &mcpclient.Token{AccessToken: "in-memory"}))

	got, err := store.GetToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "in-memory", got.AccessToken)
}

func TestKeyringTokenStore_HonorsCancellation(t *testing.T) {
	keyring.MockInit()

	store := NewKeyringTokenStore("https://example.com/mcp")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.GetToken(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, store.SaveToken(ctx, &mcpclient.Token{AccessToken: "x"}), context.Canceled)
}
