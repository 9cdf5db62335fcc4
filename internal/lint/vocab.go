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

// dangerousWords are destructive, privileged, or execution verbs that
// deserve a second look when they appear in a tool name.
var dangerousWords = map[string]bool{
	"delete":    true,
	"remove":    true,
	"drop":      true,
	"destroy":   true,
	"erase":     true,
	"purge":     true,
	"wipe":      true,
	"truncate":  true,
	"kill":      true,
	"terminate": true,
	"shutdown":  true,
	"reboot":    true,
	"format":    true,
	"overwrite": true,
	"reset":     true,
	"revoke":    true,
	"exec":      true,
	"execute":   true,
	"eval":      true,
	"shell":     true,
	"spawn":     true,
	"sudo":      true,
	"root":      true,
	"admin":     true,
	"chmod":     true,
	"chown":     true,
	"grant":     true,
	"escalate":  true,
	"force":     true,
}

// piiVocabulary covers the personal-data categories flagged by the
// pii-handling rule: identifiers, financial, health, biometric, location,
// credential, and demographic terms.
var piiVocabulary = map[string]bool{
	// identifiers
	"email": true, "phone": true, "ssn": true, "passport": true,
	"license": true, "imei": true, "mac": true, "ip": true,
	"username": true, "firstname": true, "lastname": true, "fullname": true,
	"surname": true, "birthdate": true, "birthday": true, "dob": true,

	// financial
	"credit": true, "debit": true, "card": true, "iban": true,
	"swift": true, "account": true, "balance": true, "salary": true,
	"income": true, "tax": true, "payment": true, "invoice": true,

	// health
	"health": true, "medical": true, "diagnosis": true, "prescription": true,
	"allergy": true, "disability": true, "insurance": true,

	// biometric
	"biometric": true, "fingerprint": true, "faceprint": true, "retina": true,
	"dna": true, "genome": true, "voiceprint": true,

	// location
	"location": true, "geolocation": true, "gps": true, "latitude": true,
	"longitude": true, "address": true, "zipcode": true, "postcode": true,

	// credentials
	"password": true, "passcode": true, "pin": true, "secret": true,
	"token": true, "credential": true, "apikey": true, "session": true,
	"cookie": true,

	// demographics
	"gender": true, "race": true, "ethnicity": true, "religion": true,
	"nationality": true, "citizenship": true, "age": true,
}

// stopWords are dropped before description similarity is scored, so the
// comparison runs over content words only.
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true,
	"but": true, "if": true, "then": true, "of": true, "to": true,
	"in": true, "on": true, "at": true, "for": true, "with": true,
	"by": true, "from": true, "as": true, "is": true, "are": true,
	"was": true, "were": true, "be": true, "been": true, "being": true,
	"it": true, "its": true, "this": true, "that": true, "these": true,
	"those": true, "you": true, "your": true, "will": true, "can": true,
	"may": true, "should": true, "do": true, "does": true, "not": true,
	"no": true, "any": true, "all": true, "each": true, "which": true,
	"what": true, "when": true, "where": true, "how": true, "into": true,
	"over": true, "under": true, "about": true, "via": true, "using": true,
	"use": true, "used": true, "given": true, "returns": true, "return": true,
}
