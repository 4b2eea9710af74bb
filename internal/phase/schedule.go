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

package phase

import "github.com/teradata-labs/debatekernel/internal/domain"

// openingOrder is the fixed speaker order for the OPENING phase (round 1).
var openingOrder = []domain.AgentRole{
	domain.RoleDebatorA,
	domain.RoleFactCheckerB,
	domain.RoleDebatorB,
	domain.RoleFactCheckerA,
	domain.RoleJudge,
	domain.RoleCrowd,
}

// roundsOrder is the fixed speaker order for each ROUNDS-phase round
// (rounds 2..1+R). Each FactChecker speaks just before its own team's
// Debator, to both defend its own citations and verify the opposing
// debator's prior-round additions.
var roundsOrder = []domain.AgentRole{
	domain.RoleFactCheckerA,
	domain.RoleDebatorA,
	domain.RoleFactCheckerB,
	domain.RoleDebatorB,
	domain.RoleJudge,
	domain.RoleCrowd,
}

// closingOrder is the fixed speaker order for the single CLOSING
// pseudo-round. Debators speak but may not add citations.
var closingOrder = []domain.AgentRole{
	domain.RoleFactCheckerA,
	domain.RoleFactCheckerB,
	domain.RoleDebatorA,
	domain.RoleDebatorB,
	domain.RoleJudge,
	domain.RoleCrowd,
}

// OrderFor returns the fixed speaker order for a phase. INIT's schedule
// is the single Vote-0 turn, represented as a one-element slice.
func OrderFor(p domain.Phase) []domain.AgentRole {
	switch p {
	case domain.PhaseInit:
		return []domain.AgentRole{domain.RoleCrowd}
	case domain.PhaseOpening:
		return openingOrder
	case domain.PhaseRounds:
		return roundsOrder
	case domain.PhaseClosing:
		return closingOrder
	default:
		return nil
	}
}
