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
package crowd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teradata-labs/debatekernel/internal/domain"
)

func ballotsOf(scores ...int) []BallotResult {
	out := make([]BallotResult, len(scores))
	for i, s := range scores {
		out[i] = BallotResult{VoterID: "v", Score: s}
	}
	return out
}

func TestTallyVote0MajorityForWinsTeamA(t *testing.T) {
	split := TallyVote0("debate-1", ballotsOf(80, 90, 20), 0.6)
	assert.Equal(t, 2, split.For)
	assert.Equal(t, 1, split.Against)
	assert.Equal(t, domain.TeamA, split.MajorityTeam)
}

func TestTallyVote0MajorityAgainstWinsTeamB(t *testing.T) {
	split := TallyVote0("debate-1", ballotsOf(10, 20, 30, 90), 0.6)
	assert.Equal(t, 3, split.Against)
	assert.Equal(t, domain.TeamB, split.MajorityTeam)
}

func TestTallyVote0ScoreExactlyFiftyCountsAsAgainst(t *testing.T) {
	split := TallyVote0("debate-1", ballotsOf(50), 0.6)
	assert.Equal(t, 0, split.For)
	assert.Equal(t, 1, split.Against)
}

func TestTallyVote0TieBreakIsDeterministicAcrossCalls(t *testing.T) {
	ballots := ballotsOf(80, 20) // 1 for, 1 against -> tie
	first := TallyVote0("debate-xyz", ballots, 0.6)
	second := TallyVote0("debate-xyz", ballots, 0.6)
	assert.Equal(t, first.MajorityTeam, second.MajorityTeam)
}

func TestTallyVote0AppliesBiasMultiplierWhenSplitExceedsThreshold(t *testing.T) {
	// 9 for, 1 against: diff ratio 0.8, exceeds a 0.6 threshold.
	scores := make([]int, 0, 10)
	for i := 0; i < 9; i++ {
		scores = append(scores, 90)
	}
	scores = append(scores, 10)
	split := TallyVote0("debate-1", ballotsOf(scores...), 0.6)

	assert.Equal(t, domain.TeamA, split.MajorityTeam)
	assert.Equal(t, 1.25, split.ResourceMultiplier[domain.TeamB])
	assert.Equal(t, 1.0, split.ResourceMultiplier[domain.TeamA])
}

func TestTallyVote0NoMultiplierWhenSplitWithinThreshold(t *testing.T) {
	split := TallyVote0("debate-1", ballotsOf(60, 40), 0.6)
	assert.Equal(t, 1.0, split.ResourceMultiplier[domain.TeamA])
	assert.Equal(t, 1.0, split.ResourceMultiplier[domain.TeamB])
}

func TestTallyVote0EmptyBallotsDoesNotPanic(t *testing.T) {
	split := TallyVote0("debate-1", nil, 0.6)
	assert.Equal(t, 0, split.For)
	assert.Equal(t, 0, split.Against)
}
