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

package domain

import "time"

// IntentKind names one of the seven write operations a StateStore accepts.
type IntentKind string

const (
	IntentAppendPublicTurn      IntentKind = "APPEND_PUBLIC_TURN"
	IntentAppendTeamNote        IntentKind = "APPEND_TEAM_NOTE"
	IntentAddCitation           IntentKind = "ADD_CITATION"
	IntentSetVerification       IntentKind = "SET_VERIFICATION"
	IntentSetProponentResponse  IntentKind = "SET_PROPONENT_RESPONSE"
	IntentAppendLatent          IntentKind = "APPEND_LATENT"
	IntentRecordCrowdVote       IntentKind = "RECORD_CROWD_VOTE"
)

// Intent is a single requested write against one of the four canonical
// documents. Exactly one of the payload fields is populated, matching Kind;
// AgentRunner validates this shape before it ever reaches the StateStore.
type Intent struct {
	Kind  IntentKind `json:"kind"`
	Agent AgentRole  `json:"agent"`

	AppendPublicTurn     *AppendPublicTurnPayload     `json:"append_public_turn,omitempty"`
	AppendTeamNote       *AppendTeamNotePayload       `json:"append_team_note,omitempty"`
	AddCitation          *AddCitationPayload          `json:"add_citation,omitempty"`
	SetVerification      *SetVerificationPayload      `json:"set_verification,omitempty"`
	SetProponentResponse *SetProponentResponsePayload `json:"set_proponent_response,omitempty"`
	AppendLatent         *AppendLatentPayload         `json:"append_latent,omitempty"`
	RecordCrowdVote      *RecordCrowdVotePayload      `json:"record_crowd_vote,omitempty"`
}

// AppendPublicTurnPayload appends one turn to History.PublicTranscript.
type AppendPublicTurnPayload struct {
	Round      int        `json:"round"`
	RoundLabel RoundLabel `json:"round_label"`
	Statement  string     `json:"statement"`
	Citations  []string   `json:"citations"`
}

// AppendTeamNotePayload appends one note to a team's private stream.
type AppendTeamNotePayload struct {
	Round int    `json:"round"`
	Text  string `json:"text"`
}

// AddCitationPayload allocates a new key in the acting agent's team
// namespace and records the citation. The StateStore, not the caller,
// assigns the key.
type AddCitationPayload struct {
	URL    string `json:"url"`
	TurnID int    `json:"turn_id"`
	Round  int    `json:"round"`
}

// SetVerificationPayload records a FactChecker's assessment of a citation
// the FactChecker does not own (the opposing team's namespace).
type SetVerificationPayload struct {
	CitationKey      string `json:"citation_key"`
	Credibility      int    `json:"credibility"`
	Correspondence   int    `json:"correspondence"`
	AdversaryComment string `json:"adversary_comment"`
}

// SetProponentResponsePayload lets the citation's owning team answer a
// verification comment already recorded against its own citation.
type SetProponentResponsePayload struct {
	CitationKey string `json:"citation_key"`
	Response    string `json:"response"`
}

// AppendLatentPayload appends one round's consensus/disagreement summary,
// written only by the Judge.
type AppendLatentPayload struct {
	Round                int                 `json:"round"`
	Consensus            []string            `json:"consensus"`
	DisagreementFrontier []DisagreementIssue `json:"disagreement_frontier"`
}

// RecordCrowdVotePayload records one voter's ballot for one round.
type RecordCrowdVotePayload struct {
	VoterID       string `json:"voter_id"`
	Persona       string `json:"persona"`
	RoundSequence int    `json:"round_sequence"`
	Score         int    `json:"score"`
}

// AgentContext is the read-only bundle an AgentRunner hands to an agent
// contract's Execute method: everything the agent is permitted to see,
// plus the instructions driving this particular turn.
type AgentContext struct {
	DebateID      string         `json:"debate_id"`
	Topic         string         `json:"topic"`
	Phase         Phase          `json:"phase"`
	Round         int            `json:"round"`
	Agent         AgentRole      `json:"agent"`
	Team          Team           `json:"team"`
	Instructions  string         `json:"instructions"`
	History       *History       `json:"history"`
	CitationPool  *CitationPool  `json:"citation_pool"`
	DebateLatent  *DebateLatent  `json:"debate_latent"`
	CrowdOpinion  *CrowdOpinion  `json:"crowd_opinion,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// AgentResponse is the shape every agent contract returns from Execute.
type AgentResponse struct {
	Success           bool     `json:"success"`
	Output            string   `json:"output"`
	FileUpdateIntents []Intent `json:"file_update_intents"`
	Errors            []string `json:"errors,omitempty"`
	CostEstimate      float64  `json:"cost_estimate"`
}

// TurnRecord is what AgentRunner logs to raw_calls.jsonl for one completed
// agent turn (or one batch, for Crowd fan-out — a single record, not N).
type TurnRecord struct {
	DebateID     string        `json:"debate_id"`
	Agent        AgentRole     `json:"agent"`
	Phase        Phase         `json:"phase"`
	Round        int           `json:"round"`
	ModelID      string        `json:"model_id"`
	Prompt       string        `json:"prompt"`
	RawOutput    string        `json:"raw_output"`
	InputTokens  int           `json:"input_tokens"`
	OutputTokens int           `json:"output_tokens"`
	Attempts     int           `json:"attempts"`
	Duration     time.Duration `json:"duration"`
	Cost         float64       `json:"cost"`
	Timestamp    time.Time     `json:"timestamp"`
	Error        string        `json:"error,omitempty"`
}

// Event is one entry in events.jsonl, mirrored to the ambient logger.
type Event struct {
	DebateID  string         `json:"debate_id"`
	Timestamp time.Time      `json:"timestamp"`
	Kind      string         `json:"kind"`
	Detail    map[string]any `json:"detail,omitempty"`
}
