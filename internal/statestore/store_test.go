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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teradata-labs/debatekernel/internal/domain"
	"github.com/teradata-labs/debatekernel/internal/kernelerr"
)

func kindOf(t *testing.T, err error) kernelerr.Kind {
	t.Helper()
	var kerr *kernelerr.Error
	require.True(t, errors.As(err, &kerr), "expected a *kernelerr.Error, got %T", err)
	return kerr.Kind
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(t.TempDir())
	require.NoError(t, s.InitializeFiles("debate-1", "Should the kernel budget deep research?"))
	return s
}

func TestInitializeFilesPersistsAllFourDocuments(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	require.NoError(t, s.InitializeFiles("debate-1", "topic"))

	reloaded := New(dir)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, "debate-1", reloaded.History().DebateID)
	assert.Equal(t, domain.PhaseInit, reloaded.History().CurrentPhase)
	assert.Equal(t, "debate-1", reloaded.CitationPool().DebateID)
	assert.Equal(t, "debate-1", reloaded.DebateLatent().DebateID)
	assert.Equal(t, "debate-1", reloaded.CrowdOpinion().DebateID)
}

func TestSetPhaseAndSetRoundKeepHistoryInLockstep(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SetPhase(domain.PhaseOpening))
	require.NoError(t, s.SetRound(1))

	ac, err := s.ReadFor(domain.RoleDebatorA)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseOpening, ac.Phase)
	assert.Equal(t, 1, ac.Round)
}

func TestReadForFiltersTeamNotesToOwnTeam(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Apply(domain.RoleDebatorA, domain.Intent{
		Kind:           domain.IntentAppendTeamNote,
		Agent:          domain.RoleDebatorA,
		AppendTeamNote: &domain.AppendTeamNotePayload{Round: 1, Text: "secret plan A"},
	}))
	require.NoError(t, s.Apply(domain.RoleDebatorB, domain.Intent{
		Kind:           domain.IntentAppendTeamNote,
		Agent:          domain.RoleDebatorB,
		AppendTeamNote: &domain.AppendTeamNotePayload{Round: 1, Text: "secret plan B"},
	}))

	acA, err := s.ReadFor(domain.RoleFactCheckerA)
	require.NoError(t, err)
	assert.Contains(t, acA.History.TeamNotes, domain.TeamA)
	assert.NotContains(t, acA.History.TeamNotes, domain.TeamB)

	acJudge, err := s.ReadFor(domain.RoleJudge)
	require.NoError(t, err)
	assert.Nil(t, acJudge.History.TeamNotes)
}

func TestReadForHidesCitationsFromCrowd(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Apply(domain.RoleDebatorA, domain.Intent{
		Kind:        domain.IntentAddCitation,
		Agent:       domain.RoleDebatorA,
		AddCitation: &domain.AddCitationPayload{URL: "https://example.com", TurnID: 1, Round: 1},
	}))

	acCrowd, err := s.ReadFor(domain.RoleCrowd)
	require.NoError(t, err)
	assert.Empty(t, acCrowd.CitationPool.Namespaces)

	acJudge, err := s.ReadFor(domain.RoleJudge)
	require.NoError(t, err)
	assert.NotEmpty(t, acJudge.CitationPool.Namespaces[domain.TeamA])
}

func TestReadForReturnsDeepCopyNotLiveState(t *testing.T) {
	s := newTestStore(t)
	ac, err := s.ReadFor(domain.RoleDebatorA)
	require.NoError(t, err)

	ac.History.Topic = "mutated by caller"

	ac2, err := s.ReadFor(domain.RoleDebatorA)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated by caller", ac2.History.Topic)
}

func TestAddCitationAllocatesMonotonicKeysPerTeam(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Apply(domain.RoleDebatorA, domain.Intent{
			Kind:        domain.IntentAddCitation,
			Agent:       domain.RoleDebatorA,
			AddCitation: &domain.AddCitationPayload{URL: "https://example.com", TurnID: i + 1, Round: 1},
		}))
	}
	pool := s.CitationPool()
	assert.Contains(t, pool.Namespaces[domain.TeamA], "a_1")
	assert.Contains(t, pool.Namespaces[domain.TeamA], "a_2")
	assert.Contains(t, pool.Namespaces[domain.TeamA], "a_3")
	assert.Equal(t, 4, pool.NextSeq[domain.TeamA])
}

func TestAddCitationRejectedInClosingPhase(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SetPhase(domain.PhaseClosing))

	err := s.Apply(domain.RoleDebatorA, domain.Intent{
		Kind:        domain.IntentAddCitation,
		Agent:       domain.RoleDebatorA,
		AddCitation: &domain.AddCitationPayload{URL: "https://example.com", TurnID: 1, Round: 4},
	})
	require.Error(t, err)
	assert.Equal(t, kernelerr.CitationRuleViolation, kindOf(t, err))
}

func TestAddCitationRejectsNonDebatorAgent(t *testing.T) {
	s := newTestStore(t)
	err := s.Apply(domain.RoleFactCheckerA, domain.Intent{
		Kind:        domain.IntentAddCitation,
		Agent:       domain.RoleFactCheckerA,
		AddCitation: &domain.AddCitationPayload{URL: "https://example.com", TurnID: 1, Round: 1},
	})
	require.Error(t, err)
	assert.Equal(t, kernelerr.PermissionDenied, kindOf(t, err))
}

func TestSetVerificationAppliesToOpposingNamespaceOnly(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Apply(domain.RoleDebatorA, domain.Intent{
		Kind:        domain.IntentAddCitation,
		Agent:       domain.RoleDebatorA,
		AddCitation: &domain.AddCitationPayload{URL: "https://example.com", TurnID: 1, Round: 1},
	}))

	require.NoError(t, s.Apply(domain.RoleFactCheckerB, domain.Intent{
		Kind:  domain.IntentSetVerification,
		Agent: domain.RoleFactCheckerB,
		SetVerification: &domain.SetVerificationPayload{
			CitationKey:      "a_1",
			Credibility:      8,
			Correspondence:   90,
			AdversaryComment: "checks out",
		},
	}))

	cit := s.CitationPool().Namespaces[domain.TeamA]["a_1"]
	require.NotNil(t, cit)
	assert.Equal(t, 8, cit.Verification.Credibility)
	assert.Equal(t, domain.RoleFactCheckerB, cit.Verification.VerifiedBy)
}

func TestSetVerificationUnknownCitationIsSchemaViolation(t *testing.T) {
	s := newTestStore(t)
	err := s.Apply(domain.RoleFactCheckerB, domain.Intent{
		Kind:  domain.IntentSetVerification,
		Agent: domain.RoleFactCheckerB,
		SetVerification: &domain.SetVerificationPayload{
			CitationKey: "a_999",
		},
	})
	require.Error(t, err)
	assert.Equal(t, kernelerr.SchemaViolation, kindOf(t, err))
}

func TestAppendLatentRoundRequiresStrictlyIncreasingRound(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Apply(domain.RoleJudge, domain.Intent{
		Kind:         domain.IntentAppendLatent,
		Agent:        domain.RoleJudge,
		AppendLatent: &domain.AppendLatentPayload{Round: 1, Consensus: []string{"fact x is agreed"}},
	}))

	err := s.Apply(domain.RoleJudge, domain.Intent{
		Kind:         domain.IntentAppendLatent,
		Agent:        domain.RoleJudge,
		AppendLatent: &domain.AppendLatentPayload{Round: 1},
	})
	require.Error(t, err)
	assert.Equal(t, kernelerr.SchemaViolation, kindOf(t, err))
}

func TestAppendLatentRejectsNonJudge(t *testing.T) {
	s := newTestStore(t)
	err := s.Apply(domain.RoleDebatorA, domain.Intent{
		Kind:         domain.IntentAppendLatent,
		Agent:        domain.RoleDebatorA,
		AppendLatent: &domain.AppendLatentPayload{Round: 1},
	})
	require.Error(t, err)
	assert.Equal(t, kernelerr.PermissionDenied, kindOf(t, err))
}

func TestRecordCrowdVoteCreatesVoterOnFirstBallot(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Apply(domain.RoleCrowd, domain.Intent{
		Kind:  domain.IntentRecordCrowdVote,
		Agent: domain.RoleCrowd,
		RecordCrowdVote: &domain.RecordCrowdVotePayload{
			VoterID: "voter-1", Persona: "Skeptical Engineer", RoundSequence: 0, Score: 40,
		},
	}))
	require.NoError(t, s.Apply(domain.RoleCrowd, domain.Intent{
		Kind:  domain.IntentRecordCrowdVote,
		Agent: domain.RoleCrowd,
		RecordCrowdVote: &domain.RecordCrowdVotePayload{
			VoterID: "voter-1", Persona: "Skeptical Engineer", RoundSequence: 1, Score: 55,
		},
	}))

	voters := s.CrowdOpinion().Voters
	require.Len(t, voters, 1)
	assert.Len(t, voters[0].VotingRecord, 2)
	assert.Equal(t, 55, voters[0].VotingRecord[1].Score)
}

func TestApplyUnknownIntentKindIsSchemaViolation(t *testing.T) {
	s := newTestStore(t)
	err := s.Apply(domain.RoleJudge, domain.Intent{Kind: "NOT_A_REAL_KIND"})
	require.Error(t, err)
	assert.Equal(t, kernelerr.SchemaViolation, kindOf(t, err))
}
