// Copyright 2026 Teradata
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package runner

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/teradata-labs/debatekernel/internal/domain"
	"github.com/teradata-labs/debatekernel/internal/kernelerr"
)

// intentSchemas holds one JSON Schema per intent kind, validating the
// payload shape before permission-checking ever runs. Validation is a
// shape check only — permission and rule enforcement (own-namespace
// citations, closing-phase restrictions) still happens in statestore.
var intentSchemas = map[domain.IntentKind]*gojsonschema.Schema{}

func mustCompile(name, schemaJSON string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		panic(fmt.Sprintf("runner: invalid built-in schema %s: %v", name, err))
	}
	return s
}

func init() {
	intentSchemas[domain.IntentAppendPublicTurn] = mustCompile("append_public_turn", `{
		"type": "object",
		"required": ["statement"],
		"properties": {
			"round": {"type": "integer", "minimum": 0},
			"round_label": {"type": "string"},
			"statement": {"type": "string", "minLength": 1},
			"citations": {"type": "array", "items": {"type": "string"}}
		}
	}`)
	intentSchemas[domain.IntentAppendTeamNote] = mustCompile("append_team_note", `{
		"type": "object",
		"required": ["text"],
		"properties": {
			"round": {"type": "integer", "minimum": 0},
			"text": {"type": "string", "minLength": 1}
		}
	}`)
	intentSchemas[domain.IntentAddCitation] = mustCompile("add_citation", `{
		"type": "object",
		"required": ["url"],
		"properties": {
			"url": {"type": "string", "minLength": 1},
			"turn_id": {"type": "integer", "minimum": 0},
			"round": {"type": "integer", "minimum": 0}
		}
	}`)
	intentSchemas[domain.IntentSetVerification] = mustCompile("set_verification", `{
		"type": "object",
		"required": ["citation_key", "credibility", "correspondence"],
		"properties": {
			"citation_key": {"type": "string", "minLength": 1},
			"credibility": {"type": "integer", "minimum": 1, "maximum": 10},
			"correspondence": {"type": "integer", "minimum": 1, "maximum": 10},
			"adversary_comment": {"type": "string"}
		}
	}`)
	intentSchemas[domain.IntentSetProponentResponse] = mustCompile("set_proponent_response", `{
		"type": "object",
		"required": ["citation_key", "response"],
		"properties": {
			"citation_key": {"type": "string", "minLength": 1},
			"response": {"type": "string", "minLength": 1}
		}
	}`)
	intentSchemas[domain.IntentAppendLatent] = mustCompile("append_latent", `{
		"type": "object",
		"required": ["round"],
		"properties": {
			"round": {"type": "integer", "minimum": 1},
			"consensus": {"type": "array", "items": {"type": "string"}},
			"disagreement_frontier": {"type": "array"}
		}
	}`)
	intentSchemas[domain.IntentRecordCrowdVote] = mustCompile("record_crowd_vote", `{
		"type": "object",
		"required": ["voter_id", "round_sequence", "score"],
		"properties": {
			"voter_id": {"type": "string", "minLength": 1},
			"persona": {"type": "string"},
			"round_sequence": {"type": "integer", "minimum": 0},
			"score": {"type": "integer", "minimum": 1, "maximum": 100}
		}
	}`)
}

// ValidateIntent checks an intent's shape against its kind's schema
// before it ever reaches the state store. The payload struct is
// marshaled back to JSON for validation since gojsonschema works over
// untyped documents, not Go structs.
func ValidateIntent(intent domain.Intent) error {
	schema, ok := intentSchemas[intent.Kind]
	if !ok {
		return kernelerr.New(kernelerr.SchemaViolation, "unknown intent kind %q", intent.Kind)
	}

	payload := payloadOf(intent)
	if payload == nil {
		return kernelerr.New(kernelerr.SchemaViolation, "%s: missing payload", intent.Kind)
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return kernelerr.Wrap(kernelerr.SchemaViolation, err, "%s: marshal payload", intent.Kind)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(b))
	if err != nil {
		return kernelerr.Wrap(kernelerr.SchemaViolation, err, "%s: schema validation error", intent.Kind)
	}
	if !result.Valid() {
		return kernelerr.New(kernelerr.SchemaViolation, "%s: %v", intent.Kind, result.Errors())
	}
	return nil
}

// payloadOf returns the populated payload for intent.Kind, or nil if it
// was left unset. Returning through a typed-nil pointer would make the
// "== nil" check in ValidateIntent lie, so each case checks explicitly.
func payloadOf(intent domain.Intent) any {
	switch intent.Kind {
	case domain.IntentAppendPublicTurn:
		if intent.AppendPublicTurn == nil {
			return nil
		}
		return intent.AppendPublicTurn
	case domain.IntentAppendTeamNote:
		if intent.AppendTeamNote == nil {
			return nil
		}
		return intent.AppendTeamNote
	case domain.IntentAddCitation:
		if intent.AddCitation == nil {
			return nil
		}
		return intent.AddCitation
	case domain.IntentSetVerification:
		if intent.SetVerification == nil {
			return nil
		}
		return intent.SetVerification
	case domain.IntentSetProponentResponse:
		if intent.SetProponentResponse == nil {
			return nil
		}
		return intent.SetProponentResponse
	case domain.IntentAppendLatent:
		if intent.AppendLatent == nil {
			return nil
		}
		return intent.AppendLatent
	case domain.IntentRecordCrowdVote:
		if intent.RecordCrowdVote == nil {
			return nil
		}
		return intent.RecordCrowdVote
	default:
		return nil
	}
}
