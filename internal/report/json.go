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

package report

import (
	"encoding/json"
	"io"

	"github.com/tombee/mcpdoctor/internal/connect"
)

// WriteJSON serializes the report verbatim, indented for readability.
func WriteJSON(w io.Writer, r *Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

// authChallengeJSON is the structured form of a negotiation that ended in an
// authentication challenge instead of a channel.
type authChallengeJSON struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	AuthHeader string `json:"authHeader,omitempty"`
}

// WriteAuthChallengeJSON emits the error object produced when negotiation was
// refused with an authentication challenge.
func WriteAuthChallengeJSON(w io.Writer, challenge *connect.AuthChallenge) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(authChallengeJSON{
		Error:      "authentication_required",
		Message:    challenge.Error(),
		AuthHeader: challenge.WWWAuthenticate,
	})
}

// connectionErrorJSON is the structured form of a classified network failure.
type connectionErrorJSON struct {
	Error   string `json:"error"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// WriteConnectionErrorJSON emits the error object for a classified
// network-level failure.
func WriteConnectionErrorJSON(w io.Writer, connErr *connect.ConnectError) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(connectionErrorJSON{
		Error:   "connection_failed",
		Kind:    string(connErr.Kind),
		Message: connErr.Message,
	})
}
