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

package statestore

import (
	"fmt"
	"time"

	"github.com/teradata-labs/debatekernel/internal/domain"
	"github.com/teradata-labs/debatekernel/internal/kernelerr"
)

// Apply validates and applies one intent from the given agent, persisting
// the affected document. Every write operation is the sole mutator of its
// field, matching the permission matrix; a forbidden write returns
// PermissionDenied and a malformed one returns SchemaViolation.
func (s *Store) Apply(agent domain.AgentRole, intent domain.Intent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch intent.Kind {
	case domain.IntentAppendPublicTurn:
		return s.appendPublicTurn(agent, intent.AppendPublicTurn)
	case domain.IntentAppendTeamNote:
		return s.appendTeamNote(agent, intent.AppendTeamNote)
	case domain.IntentAddCitation:
		return s.addCitation(agent, intent.AddCitation)
	case domain.IntentSetVerification:
		return s.setVerification(agent, intent.SetVerification)
	case domain.IntentSetProponentResponse:
		return s.setProponentResponse(agent, intent.SetProponentResponse)
	case domain.IntentAppendLatent:
		return s.appendLatentRound(agent, intent.AppendLatent)
	case domain.IntentRecordCrowdVote:
		return s.recordCrowdVote(agent, intent.RecordCrowdVote)
	default:
		return kernelerr.New(kernelerr.SchemaViolation, "unknown intent kind %q", intent.Kind)
	}
}

func (s *Store) appendPublicTurn(agent domain.AgentRole, p *domain.AppendPublicTurnPayload) error {
	if p == nil {
		return kernelerr.New(kernelerr.SchemaViolation, "append_public_turn: missing payload")
	}
	if p.Statement == "" {
		return kernelerr.New(kernelerr.SchemaViolation, "append_public_turn: empty statement")
	}

	turn := domain.PublicTurn{
		TurnID:      len(s.history.PublicTranscript) + 1,
		Round:       p.Round,
		RoundLabel:  p.RoundLabel,
		Phase:       s.history.CurrentPhase,
		SpeakerTeam: agent.TeamOf(),
		Agent:       agent,
		Timestamp:   time.Now(),
		Statement:   p.Statement,
		Citations:   p.Citations,
	}
	s.history.PublicTranscript = append(s.history.PublicTranscript, turn)
	return s.persistHistory()
}

func (s *Store) appendTeamNote(agent domain.AgentRole, p *domain.AppendTeamNotePayload) error {
	if p == nil {
		return kernelerr.New(kernelerr.SchemaViolation, "append_team_note: missing payload")
	}
	team := agent.TeamOf()
	if team == "" {
		return kernelerr.New(kernelerr.PermissionDenied, "append_team_note: %q has no team", agent)
	}
	s.history.TeamNotes[team] = append(s.history.TeamNotes[team], domain.TeamNote{
		Agent:     agent,
		Round:     p.Round,
		Timestamp: time.Now(),
		Text:      p.Text,
	})
	return s.persistHistory()
}

// addCitation allocates the next key in the caller's own namespace,
// <team>_<n>, monotonically increasing and never recycled.
func (s *Store) addCitation(agent domain.AgentRole, p *domain.AddCitationPayload) error {
	if p == nil {
		return kernelerr.New(kernelerr.SchemaViolation, "add_citation: missing payload")
	}
	if agent != domain.RoleDebatorA && agent != domain.RoleDebatorB {
		return kernelerr.New(kernelerr.PermissionDenied, "add_citation: %q may not add citations", agent)
	}
	if s.history.CurrentPhase == domain.PhaseClosing {
		return kernelerr.New(kernelerr.CitationRuleViolation, "add_citation: no new citations in closing")
	}

	team := agent.TeamOf()
	seq := s.citationPool.NextSeq[team]
	key := fmt.Sprintf("%s_%d", team, seq)
	if _, exists := s.citationPool.Namespaces[team][key]; exists {
		return kernelerr.New(kernelerr.KeyCollision, "add_citation: key %s already exists", key)
	}

	s.citationPool.Namespaces[team][key] = &domain.Citation{
		Key:       key,
		Team:      team,
		URL:       p.URL,
		AddedBy:   agent,
		TurnID:    p.TurnID,
		Round:     p.Round,
		CreatedAt: time.Now(),
	}
	s.citationPool.NextSeq[team] = seq + 1
	s.citationPool.ByRound[p.Round] = append(s.citationPool.ByRound[p.Round], key)
	return s.persistCitations()
}

// setVerification is written by a FactChecker against the *opposing*
// team's citation namespace.
func (s *Store) setVerification(agent domain.AgentRole, p *domain.SetVerificationPayload) error {
	if p == nil {
		return kernelerr.New(kernelerr.SchemaViolation, "set_verification: missing payload")
	}
	if agent != domain.RoleFactCheckerA && agent != domain.RoleFactCheckerB {
		return kernelerr.New(kernelerr.PermissionDenied, "set_verification: %q may not verify citations", agent)
	}
	opposing := agent.TeamOf().Other()
	cit, ok := s.citationPool.Namespaces[opposing][p.CitationKey]
	if !ok {
		return kernelerr.New(kernelerr.SchemaViolation, "set_verification: unknown citation %s", p.CitationKey)
	}
	cit.Verification.Credibility = p.Credibility
	cit.Verification.Correspondence = p.Correspondence
	cit.Verification.AdversaryComment = p.AdversaryComment
	cit.Verification.VerifiedBy = agent
	cit.Verification.VerifiedAt = time.Now()
	return s.persistCitations()
}

// setProponentResponse is written by a team's own agents in answer to a
// verification comment already recorded against one of their citations.
func (s *Store) setProponentResponse(agent domain.AgentRole, p *domain.SetProponentResponsePayload) error {
	if p == nil {
		return kernelerr.New(kernelerr.SchemaViolation, "set_proponent_response: missing payload")
	}
	team := agent.TeamOf()
	cit, ok := s.citationPool.Namespaces[team][p.CitationKey]
	if !ok {
		return kernelerr.New(kernelerr.PermissionDenied, "set_proponent_response: %q does not own %s", agent, p.CitationKey)
	}
	cit.Verification.ProponentResponse = p.Response
	cit.Verification.VerifiedAt = time.Now()
	return s.persistCitations()
}

// appendLatentRound is written only by the Judge, and must strictly
// increase the round number.
func (s *Store) appendLatentRound(agent domain.AgentRole, p *domain.AppendLatentPayload) error {
	if p == nil {
		return kernelerr.New(kernelerr.SchemaViolation, "append_latent: missing payload")
	}
	if agent != domain.RoleJudge {
		return kernelerr.New(kernelerr.PermissionDenied, "append_latent: %q may not write the latent map", agent)
	}
	if n := len(s.debateLatent.RoundHistory); n > 0 && p.Round <= s.debateLatent.RoundHistory[n-1].Round {
		return kernelerr.New(kernelerr.SchemaViolation, "append_latent: round %d does not strictly increase", p.Round)
	}
	s.debateLatent.RoundHistory = append(s.debateLatent.RoundHistory, domain.LatentRound{
		Round:                p.Round,
		Consensus:            p.Consensus,
		DisagreementFrontier: p.DisagreementFrontier,
		CreatedAt:            time.Now(),
	})
	return s.persistLatent()
}

// recordCrowdVote writes one ballot to the named voter, creating the
// voter's record on first vote.
func (s *Store) recordCrowdVote(agent domain.AgentRole, p *domain.RecordCrowdVotePayload) error {
	if p == nil {
		return kernelerr.New(kernelerr.SchemaViolation, "record_crowd_vote: missing payload")
	}
	if agent != domain.RoleCrowd {
		return kernelerr.New(kernelerr.PermissionDenied, "record_crowd_vote: %q may not vote", agent)
	}

	var voter *domain.Voter
	for i := range s.crowdOpinion.Voters {
		if s.crowdOpinion.Voters[i].VoterID == p.VoterID {
			voter = &s.crowdOpinion.Voters[i]
			break
		}
	}
	if voter == nil {
		s.crowdOpinion.Voters = append(s.crowdOpinion.Voters, domain.Voter{
			VoterID: p.VoterID,
			Persona: p.Persona,
		})
		voter = &s.crowdOpinion.Voters[len(s.crowdOpinion.Voters)-1]
	}
	voter.VotingRecord = append(voter.VotingRecord, domain.VoteEntry{
		RoundSequence: p.RoundSequence,
		Score:         p.Score,
	})
	return s.persistCrowd()
}
