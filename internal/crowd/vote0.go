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
	"hash/fnv"

	"github.com/teradata-labs/debatekernel/internal/domain"
)

// Vote0Split is the FOR/AGAINST tally from the initial stance vote.
type Vote0Split struct {
	For               int
	Against           int
	MajorityTeam      domain.Team
	ResourceMultiplier map[domain.Team]float64
}

// TallyVote0 splits ballots at score 50 (>50 is FOR, <=50 is AGAINST)
// and reports the majority side with FOR counted as Team A and AGAINST
// as Team B (MajorityTeam is TeamB when AGAINST wins); the moderator then
// swaps stances and multipliers so the majority stance lands on Team A.
// Ties are broken with a deterministic hash of the debate id rather than
// real randomness, so a resumed debate recomputes the same answer. If the
// split exceeds biasThreshold, the minority side's resource multiplier
// is set to 1.25.
func TallyVote0(debateID string, ballots []BallotResult, biasThreshold float64) Vote0Split {
	var forCount, againstCount int
	for _, b := range ballots {
		if b.Score > 50 {
			forCount++
		} else {
			againstCount++
		}
	}

	majority := domain.TeamA
	n := len(ballots)
	switch {
	case forCount > againstCount:
		majority = domain.TeamA
	case againstCount > forCount:
		majority = domain.TeamB
	default:
		if deterministicCoinFlip(debateID) {
			majority = domain.TeamA
		} else {
			majority = domain.TeamB
		}
	}

	mult := map[domain.Team]float64{domain.TeamA: 1.0, domain.TeamB: 1.0}
	if n > 0 {
		diff := float64(abs(forCount-againstCount)) / float64(n)
		if diff > biasThreshold {
			mult[majority.Other()] = 1.25
		}
	}

	return Vote0Split{For: forCount, Against: againstCount, MajorityTeam: majority, ResourceMultiplier: mult}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// deterministicCoinFlip derives a stable true/false from the debate id so
// repeated resumes of the same debate never re-flip a tie differently.
func deterministicCoinFlip(debateID string) bool {
	h := fnv.New32a()
	h.Write([]byte(debateID))
	return h.Sum32()%2 == 0
}
