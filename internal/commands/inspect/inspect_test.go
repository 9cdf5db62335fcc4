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

package inspect

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/mcpdoctor/internal/commands/shared"
	"github.com/tombee/mcpdoctor/internal/connect"
)

func TestNewCommand(t *testing.T) {
	cmd := NewCommand()
	assert.Equal(t, "inspect <url | command [args...]>", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("timeout"))
	assert.NotNil(t, cmd.Flags().Lookup("oauth"))
	assert.NotNil(t, cmd.Flags().Lookup("no-history"))
}

func TestRunInspect_UsageErrorForBadURL(t *testing.T) {
	err := runInspect(NewCommand(), []string{"https://example.com/mcp", "extra"})

	var exitErr *shared.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, shared.ExitUsage, exitErr.Code)
}

func TestRenderNegotiationFailure_AuthChallenge(t *testing.T) {
	challenge := &connect.AuthChallenge{StatusCode: 401, ErrorDescription: "token expired"}

	err := renderNegotiationFailure(challenge)

	var exitErr *shared.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, shared.ExitUsage, exitErr.Code)
	assert.ErrorIs(t, err, challenge, "challenge stays in the chain for the suggestion hook")
}

func TestRenderNegotiationFailure_ClassifiedNetworkError(t *testing.T) {
	connErr := &connect.ConnectError{
		Kind:    connect.NetHostNotFound,
		Message: "host not found",
	}

	err := renderNegotiationFailure(connErr)

	var exitErr *shared.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, shared.ExitUsage, exitErr.Code)
}

func TestRenderNegotiationFailure_PassThroughIsRuntime(t *testing.T) {
	cause := errors.New("protocol violation")

	err := renderNegotiationFailure(cause)

	var exitErr *shared.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, shared.ExitRuntime, exitErr.Code)
	assert.ErrorIs(t, err, cause, "original cause stays visible")
}
