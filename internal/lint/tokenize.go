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

package lint

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode"
)

// splitIdentifier tokenizes an identifier into lowercase word tokens,
// splitting camelCase, PascalCase, snake_case, and kebab-case. An uppercase
// run followed by a capitalized word splits before the last uppercase letter:
// XMLParser -> [xml, parser].
func splitIdentifier(s string) []string {
	var words []string
	var current []rune

	flush := func() {
		if len(current) > 0 {
			words = append(words, strings.ToLower(string(current)))
			current = current[:0]
		}
	}

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if len(current) > 0 {
			prev := current[len(current)-1]
			switch {
			case unicode.IsUpper(r) && !unicode.IsUpper(prev):
				// lower/digit -> Upper starts a new word
				flush()
			case unicode.IsLower(r) && unicode.IsUpper(prev) && len(current) > 1:
				// Uppercase run ending in a capitalized word: the last
				// uppercase letter belongs to the new word.
				last := current[len(current)-1]
				current = current[:len(current)-1]
				flush()
				current = append(current, last)
			}
		}
		current = append(current, r)
	}
	flush()

	return words
}

// splitText tokenizes free text: lowercased, punctuation stripped, split on
// whitespace.
func splitText(s string) []string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Fields(b.String())
}

// contentWordSet reduces free text to its set of content words: tokenized,
// stop words removed.
func contentWordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, word := range splitText(s) {
		if !stopWords[word] {
			set[word] = true
		}
	}
	return set
}

// inputProperty is one declared input parameter, in schema declaration order.
type inputProperty struct {
	name        string
	description string
}

// inputSchema is the subset of a tool's input JSON Schema the rules inspect.
type inputSchema struct {
	properties []inputProperty
	required   []string
}

// parseInputSchema extracts properties (preserving declaration order, which
// keeps findings deterministic) and the required list. Malformed or absent
// schemas parse to an empty result; the rule engine treats that as "nothing
// declared", never as an error.
func parseInputSchema(raw json.RawMessage) inputSchema {
	var schema inputSchema
	if len(raw) == 0 {
		return schema
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return schema
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return schema
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return schema
		}
		key, _ := keyTok.(string)

		switch key {
		case "properties":
			schema.properties = parseOrderedProperties(dec)
		case "required":
			var required []string
			if err := dec.Decode(&required); err != nil {
				return schema
			}
			schema.required = required
		default:
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return schema
			}
		}
	}

	return schema
}

// parseOrderedProperties reads a JSON Schema properties object, keeping key
// order as declared. encoding/json maps would randomize it.
func parseOrderedProperties(dec *json.Decoder) []inputProperty {
	tok, err := dec.Token()
	if err != nil {
		return nil
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		// scalar (e.g. null), already consumed
		return nil
	}
	if delim != '{' {
		drain(dec)
		return nil
	}

	var props []inputProperty
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return props
		}
		name, _ := keyTok.(string)

		var detail struct {
			Description string `json:"description"`
		}
		if err := dec.Decode(&detail); err != nil {
			return props
		}
		props = append(props, inputProperty{name: name, description: detail.Description})
	}
	// closing brace
	_, _ = dec.Token()

	return props
}

// drain consumes the remainder of an already-opened array or object.
func drain(dec *json.Decoder) {
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '[', '{':
				depth++
			case ']', '}':
				depth--
			}
		}
	}
}
