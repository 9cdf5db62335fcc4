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

package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderHelpers_PlainWhenColorDisabled(t *testing.T) {
	_, _, _, noColor, _ := RegisterFlagPointers()
	*noColor = true
	defer func() { *noColor = false }()

	assert.Equal(t, "✓ done", RenderOK("done"))
	assert.Equal(t, "⚠ degraded", RenderWarn("degraded"))
	assert.Equal(t, "✗ broken", RenderError("broken"))
	assert.Equal(t, "Section", RenderHeader("Section"))
	assert.Equal(t, "label:", RenderLabel("label:"))
}
