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

// Package domain holds the canonical document shapes shared by every
// component that reads or writes debate state: History, CitationPool,
// DebateLatent, CrowdOpinion, and the Checkpoint.
package domain

import "time"

// Team is one of the two adversarial sides.
type Team string

const (
	TeamA Team = "a"
	TeamB Team = "b"
)

// Other returns the opposing team.
func (t Team) Other() Team {
	if t == TeamA {
		return TeamB
	}
	return TeamA
}

// Phase is a state of the PhaseMachine.
type Phase string

const (
	PhaseInit    Phase = "INIT"
	PhaseOpening Phase = "OPENING"
	PhaseRounds  Phase = "ROUNDS"
	PhaseClosing Phase = "CLOSING"
	PhaseDone    Phase = "DONE"
)

// AgentRole identifies which of the five agent shapes produced a turn.
type AgentRole string

const (
	RoleDebatorA     AgentRole = "debator_a"
	RoleDebatorB     AgentRole = "debator_b"
	RoleFactCheckerA AgentRole = "factchecker_a"
	RoleFactCheckerB AgentRole = "factchecker_b"
	RoleJudge        AgentRole = "judge"
	RoleCrowd        AgentRole = "crowd"
)

// TeamOf returns the team namespace a role belongs to, or "" for
// team-agnostic roles (judge, crowd).
func (r AgentRole) TeamOf() Team {
	switch r {
	case RoleDebatorA, RoleFactCheckerA:
		return TeamA
	case RoleDebatorB, RoleFactCheckerB:
		return TeamB
	default:
		return ""
	}
}

// RoundLabel names the kind of round a public turn belongs to.
type RoundLabel string

const (
	RoundOpening  RoundLabel = "opening"
	RoundRebuttal RoundLabel = "rebuttal"
	RoundClosing  RoundLabel = "closing"
)

// PublicTurn is one entry in History.PublicTranscript.
type PublicTurn struct {
	TurnID      int        `json:"turn_id"`
	Round       int        `json:"round"`
	RoundLabel  RoundLabel `json:"round_label"`
	Phase       Phase      `json:"phase"`
	SpeakerTeam Team       `json:"speaker_team"`
	Agent       AgentRole  `json:"agent"`
	Timestamp   time.Time  `json:"timestamp"`
	Statement   string     `json:"statement"`
	Citations   []string   `json:"citations"`
}

// TeamNote is one entry in a team's private note stream.
type TeamNote struct {
	Agent     AgentRole `json:"agent"`
	Round     int       `json:"round"`
	Timestamp time.Time `json:"timestamp"`
	Text      string    `json:"text"`
}

// History is the history_chat.json document.
type History struct {
	DebateID         string              `json:"debate_id"`
	Topic            string              `json:"topic"`
	CreatedAt        time.Time           `json:"created_at"`
	CurrentPhase     Phase               `json:"current_phase"`
	CurrentRound     int                 `json:"current_round"`
	PublicTranscript []PublicTurn        `json:"public_transcript"`
	TeamNotes        map[Team][]TeamNote `json:"team_notes"`
}

// NextTurnID returns the next turn id without mutating state; StateStore
// is the only writer that actually advances it.
func (h *History) NextTurnID() int {
	return len(h.PublicTranscript) + 1
}

// VerificationBlock records a FactChecker's assessment of a citation.
// Unset integer fields are 0 ("not yet verified"); unset string/time
// fields are the zero value with the same meaning.
type VerificationBlock struct {
	Credibility        int       `json:"credibility"`
	Correspondence     int       `json:"correspondence"`
	AdversaryComment   string    `json:"adversary_comment"`
	ProponentResponse  string    `json:"proponent_response"`
	VerifiedBy         AgentRole `json:"verified_by"`
	VerifiedAt         time.Time `json:"verified_at"`
}

// Citation is one entry in a team's citation namespace.
type Citation struct {
	Key          string             `json:"key"`
	Team         Team               `json:"team"`
	URL          string             `json:"url"`
	AddedBy      AgentRole          `json:"added_by"`
	TurnID       int                `json:"turn_id"`
	Round        int                `json:"round"`
	CreatedAt    time.Time          `json:"created_at"`
	Verification VerificationBlock  `json:"verification"`
}

// CitationPool is the citation_pool.json document.
type CitationPool struct {
	DebateID   string                  `json:"debate_id"`
	Namespaces map[Team]map[string]*Citation `json:"namespaces"`
	NextSeq    map[Team]int            `json:"next_seq"`
	ByRound    map[int][]string        `json:"by_round"`
}

// DisagreementIssue is one contested issue on the disagreement frontier.
type DisagreementIssue struct {
	CoreIssue string `json:"core_issue"`
	AStance   string `json:"a_stance"`
	BStance   string `json:"b_stance"`
}

// LatentRound is one entry in DebateLatent.RoundHistory.
type LatentRound struct {
	Round               int                 `json:"round"`
	Consensus           []string            `json:"consensus"`
	DisagreementFrontier []DisagreementIssue `json:"disagreement_frontier"`
	CreatedAt           time.Time           `json:"created_at"`
}

// DebateLatent is the debate_latent.json document.
type DebateLatent struct {
	DebateID    string        `json:"debate_id"`
	RoundHistory []LatentRound `json:"round_history"`
}

// VoteEntry is one voter's ballot in a single round.
type VoteEntry struct {
	RoundSequence int `json:"round_sequence"`
	Score         int `json:"score"`
}

// Voter is one persona in the crowd.
type Voter struct {
	VoterID       string      `json:"voter_id"`
	Persona       string      `json:"persona"`
	VotingRecord  []VoteEntry `json:"voting_record"`
}

// CrowdOpinion is the crowd_opinion.json document.
type CrowdOpinion struct {
	DebateID string  `json:"debate_id"`
	Voters   []Voter `json:"voters"`
}

// TeamAssignment records one side's stance and agent roster.
type TeamAssignment struct {
	Stance string      `json:"stance"` // "FOR" or "AGAINST"
	Agents []AgentRole `json:"agents"`
}

// CompletedTurn is one entry in the checkpoint's audit trail. Resume uses
// Phase+Round+Agent to determine which turns in the current phase's
// schedule already ran, so it never re-invokes an agent a second time.
type CompletedTurn struct {
	Phase     Phase     `json:"phase"`
	Round     int       `json:"round"`
	Agent     AgentRole `json:"agent"`
	Cost      float64   `json:"cost"`
	Timestamp time.Time `json:"timestamp"`
}

// Checkpoint is the checkpoint.json document.
type Checkpoint struct {
	DebateID           string                `json:"debate_id"`
	Topic              string                `json:"topic"`
	Phase              Phase                 `json:"phase"`
	Round              int                   `json:"round"`
	TotalRounds        int                   `json:"total_rounds"`
	TurnCount          int                   `json:"turn_count"`
	CurrentSpeaker     AgentRole             `json:"current_speaker"`
	TeamA              TeamAssignment        `json:"team_a"`
	TeamB              TeamAssignment        `json:"team_b"`
	ResourceMultiplier map[Team]float64      `json:"resource_multiplier"`
	CumulativeCost     float64               `json:"cumulative_cost"`
	CostByAgent        map[string]float64    `json:"cost_by_agent"`
	DeepResearchDone   int                   `json:"deep_research_done"`
	CompletedTurns     []CompletedTurn       `json:"completed_turns"`
	SavedAt            time.Time             `json:"saved_at"`
}
