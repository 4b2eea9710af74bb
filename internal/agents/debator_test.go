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
package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teradata-labs/debatekernel/internal/costgov"
	"github.com/teradata-labs/debatekernel/internal/domain"
	"github.com/teradata-labs/debatekernel/pkg/llm"
)

// fakeClient returns canned text regardless of prompt contents, letting
// each test drive an agent's parsing/fallback behavior deterministically.
type fakeClient struct {
	text string
	err  error
}

func (f *fakeClient) Invoke(ctx context.Context, modelID, systemPrompt, userPrompt string, params llm.Params) (string, error) {
	return f.text, f.err
}

func (f *fakeClient) InvokeBatch(ctx context.Context, modelID string, prompts []llm.Prompt, params llm.Params) ([]string, error) {
	out := make([]string, len(prompts))
	for i := range out {
		out[i] = f.text
	}
	return out, f.err
}

func baseContext(agent domain.AgentRole, phase domain.Phase, round int) *domain.AgentContext {
	return &domain.AgentContext{
		DebateID: "debate-1",
		Topic:    "Should the kernel budget deep research?",
		Phase:    phase,
		Round:    round,
		Agent:    agent,
		Team:     agent.TeamOf(),
		History:  &domain.History{TeamNotes: map[domain.Team][]domain.TeamNote{}},
		CitationPool: &domain.CitationPool{
			Namespaces: map[domain.Team]map[string]*domain.Citation{domain.TeamA: {}, domain.TeamB: {}},
			ByRound:    map[int][]string{},
		},
		DebateLatent: &domain.DebateLatent{},
	}
}

func TestDebatorParsesWellFormedJSON(t *testing.T) {
	client := &fakeClient{text: `{"statement": "AI deserves a budget", "citations": ["https://example.com/a"], "team_note": "keep pressing cost"}`}
	d := &Debator{Client: client, ModelID: "m", Stance: "FOR"}

	resp, err := d.Execute(context.Background(), baseContext(domain.RoleDebatorA, domain.PhaseOpening, 1))
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "AI deserves a budget", resp.Output)

	var turn, citation, note bool
	for _, in := range resp.FileUpdateIntents {
		switch in.Kind {
		case domain.IntentAppendPublicTurn:
			turn = true
			assert.Equal(t, domain.RoundOpening, in.AppendPublicTurn.RoundLabel)
		case domain.IntentAddCitation:
			citation = true
			assert.Equal(t, 1, in.AddCitation.TurnID)
		case domain.IntentAppendTeamNote:
			note = true
		}
	}
	assert.True(t, turn)
	assert.True(t, citation)
	assert.True(t, note)
}

func TestDebatorCitationTurnIDMatchesNextTurnIDFromHistory(t *testing.T) {
	client := &fakeClient{text: `{"statement": "rebuttal with sources", "citations": ["https://example.com/c1", "https://example.com/c2"], "team_note": ""}`}
	d := &Debator{Client: client, ModelID: "m", Stance: "FOR"}

	ac := baseContext(domain.RoleDebatorA, domain.PhaseRounds, 2)
	ac.History.PublicTranscript = make([]domain.PublicTurn, 4) // next turn id is 5

	resp, err := d.Execute(context.Background(), ac)
	require.NoError(t, err)
	for _, in := range resp.FileUpdateIntents {
		if in.Kind == domain.IntentAddCitation {
			assert.Equal(t, 5, in.AddCitation.TurnID)
		}
	}
}

func TestDebatorFallsBackToRawTextWhenNotJSON(t *testing.T) {
	client := &fakeClient{text: "plain prose with no JSON braces"}
	d := &Debator{Client: client, ModelID: "m", Stance: "AGAINST"}

	resp, err := d.Execute(context.Background(), baseContext(domain.RoleDebatorB, domain.PhaseRounds, 2))
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "plain prose with no JSON braces", resp.Output)
}

func TestDebatorStripsCitationsInClosingPhase(t *testing.T) {
	client := &fakeClient{text: `{"statement": "closing remarks", "citations": ["https://example.com/late"]}`}
	d := &Debator{Client: client, ModelID: "m", Stance: "FOR"}

	resp, err := d.Execute(context.Background(), baseContext(domain.RoleDebatorA, domain.PhaseClosing, 4))
	require.NoError(t, err)
	for _, in := range resp.FileUpdateIntents {
		assert.NotEqual(t, domain.IntentAddCitation, in.Kind, "closing remarks must not add citations")
	}
}

func TestDebatorEmptyStatementIsUnsuccessful(t *testing.T) {
	client := &fakeClient{text: `{"statement": ""}`}
	d := &Debator{Client: client, ModelID: "m", Stance: "FOR"}

	resp, err := d.Execute(context.Background(), baseContext(domain.RoleDebatorA, domain.PhaseOpening, 1))
	require.NoError(t, err)
	assert.False(t, resp.Success)
}

func TestDebatorUsesTierFuncWhenProvided(t *testing.T) {
	client := &fakeClient{text: `{"statement": "s"}`}
	calledTier := false
	d := &Debator{
		Client: client, ModelID: "m", Stance: "FOR",
		Tier: func() costgov.Tier { calledTier = true; return costgov.TierQuick },
	}
	_, err := d.Execute(context.Background(), baseContext(domain.RoleDebatorA, domain.PhaseRounds, 2))
	require.NoError(t, err)
	assert.True(t, calledTier)
}
