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

	"github.com/teradata-labs/debatekernel/internal/domain"
)

func TestFactCheckerVerifiesOpposingCitationFromPriorRound(t *testing.T) {
	client := &fakeClient{text: `{"credibility": 8, "correspondence": 70, "adversary_comment": "source is dated"}`}
	fc := &FactChecker{Client: client, ModelID: "m"}

	ac := baseContext(domain.RoleFactCheckerA, domain.PhaseRounds, 2)
	ac.CitationPool.Namespaces[domain.TeamB]["b_1"] = &domain.Citation{Key: "b_1", Team: domain.TeamB, URL: "https://example.com/b1"}
	ac.CitationPool.ByRound[1] = []string{"b_1"}

	resp, err := fc.Execute(context.Background(), ac)
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.Len(t, resp.FileUpdateIntents, 1)
	v := resp.FileUpdateIntents[0].SetVerification
	require.NotNil(t, v)
	assert.Equal(t, "b_1", v.CitationKey)
	assert.Equal(t, 8, v.Credibility)
}

func TestFactCheckerDefendsOwnCitationWithUnansweredComment(t *testing.T) {
	client := &fakeClient{text: `{"response": "the date does not affect the claim"}`}
	fc := &FactChecker{Client: client, ModelID: "m"}

	ac := baseContext(domain.RoleFactCheckerA, domain.PhaseRounds, 2)
	ac.CitationPool.Namespaces[domain.TeamA]["a_1"] = &domain.Citation{
		Key: "a_1", Team: domain.TeamA, URL: "https://example.com/a1",
		Verification: domain.VerificationBlock{AdversaryComment: "source is dated"},
	}

	resp, err := fc.Execute(context.Background(), ac)
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.Len(t, resp.FileUpdateIntents, 1)
	assert.Equal(t, domain.IntentSetProponentResponse, resp.FileUpdateIntents[0].Kind)
	assert.Equal(t, "a_1", resp.FileUpdateIntents[0].SetProponentResponse.CitationKey)
}

func TestFactCheckerVerifiesOpposingCitationFromSameRoundDuringOpening(t *testing.T) {
	client := &fakeClient{text: `{"credibility": 8, "correspondence": 70, "adversary_comment": "source is dated"}`}
	fc := &FactChecker{Client: client, ModelID: "m"}

	// OPENING runs the factchecker in the same round as the debator it
	// checks, unlike ROUNDS/CLOSING which look a round behind.
	ac := baseContext(domain.RoleFactCheckerA, domain.PhaseOpening, 1)
	ac.CitationPool.Namespaces[domain.TeamB]["b_1"] = &domain.Citation{Key: "b_1", Team: domain.TeamB, URL: "https://example.com/b1"}
	ac.CitationPool.ByRound[1] = []string{"b_1"}

	resp, err := fc.Execute(context.Background(), ac)
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.Len(t, resp.FileUpdateIntents, 1)
	assert.Equal(t, "b_1", resp.FileUpdateIntents[0].SetVerification.CitationKey)
}

func TestFactCheckerClampsOutOfRangeScoresFromFallbackParse(t *testing.T) {
	client := &fakeClient{text: "I'd rate this citation a 55 out of 10, very unreliable prose"}
	fc := &FactChecker{Client: client, ModelID: "m"}

	ac := baseContext(domain.RoleFactCheckerA, domain.PhaseRounds, 2)
	ac.CitationPool.Namespaces[domain.TeamB]["b_1"] = &domain.Citation{Key: "b_1", Team: domain.TeamB, URL: "https://example.com/b1"}
	ac.CitationPool.ByRound[1] = []string{"b_1"}

	resp, err := fc.Execute(context.Background(), ac)
	require.NoError(t, err)
	v := resp.FileUpdateIntents[0].SetVerification
	assert.LessOrEqual(t, v.Credibility, 10)
	assert.GreaterOrEqual(t, v.Credibility, 1)
}

func TestFactCheckerNoWorkProducesEmptySuccessfulResponse(t *testing.T) {
	client := &fakeClient{text: "{}"}
	fc := &FactChecker{Client: client, ModelID: "m"}

	ac := baseContext(domain.RoleFactCheckerA, domain.PhaseRounds, 2)
	resp, err := fc.Execute(context.Background(), ac)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Empty(t, resp.FileUpdateIntents)
}

func TestCitationsAddedInRoundFiltersByTeamAndRound(t *testing.T) {
	pool := &domain.CitationPool{
		Namespaces: map[domain.Team]map[string]*domain.Citation{
			domain.TeamA: {"a_1": {Key: "a_1", Team: domain.TeamA}},
			domain.TeamB: {"b_1": {Key: "b_1", Team: domain.TeamB}},
		},
		ByRound: map[int][]string{1: {"a_1", "b_1"}},
	}
	assert.Equal(t, []string{"b_1"}, citationsAddedInRound(pool, domain.TeamB, 1))
	assert.Nil(t, citationsAddedInRound(pool, domain.TeamB, -1))
}

func TestCitationsWithUnansweredCommentSkipsAnsweredOnes(t *testing.T) {
	pool := &domain.CitationPool{
		Namespaces: map[domain.Team]map[string]*domain.Citation{
			domain.TeamA: {
				"a_1": {Key: "a_1", Verification: domain.VerificationBlock{AdversaryComment: "x"}},
				"a_2": {Key: "a_2", Verification: domain.VerificationBlock{AdversaryComment: "y", ProponentResponse: "answered"}},
			},
		},
	}
	assert.Equal(t, []string{"a_1"}, citationsWithUnansweredComment(pool, domain.TeamA))
}
