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
	"encoding/json"

	"github.com/teradata-labs/debatekernel/internal/domain"
	"github.com/teradata-labs/debatekernel/internal/kernelerr"
)

// ReadFor returns a permission-filtered deep copy of every document the
// given agent may see, per the kernel's read-scope matrix. The moderator
// itself should read the Store's own accessors directly; ReadFor is for
// everything handed to an agent contract.
func (s *Store) ReadFor(agent domain.AgentRole) (*domain.AgentContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, err := filterHistory(s.history, agent)
	if err != nil {
		return nil, err
	}
	cp, err := filterCitations(s.citationPool, agent)
	if err != nil {
		return nil, err
	}
	dl, err := deepCopy(s.debateLatent)
	if err != nil {
		return nil, err
	}
	var co *domain.CrowdOpinion
	if agent == domain.RoleCrowd {
		co, err = deepCopy(s.crowdOpinion)
		if err != nil {
			return nil, err
		}
	}

	return &domain.AgentContext{
		DebateID:     s.history.DebateID,
		Topic:        s.history.Topic,
		Phase:        s.history.CurrentPhase,
		Round:        s.history.CurrentRound,
		Agent:        agent,
		Team:         agent.TeamOf(),
		History:      h,
		CitationPool: cp,
		DebateLatent: dl,
		CrowdOpinion: co,
	}, nil
}

// filterHistory copies public_transcript for every agent, plus the
// caller's own team's notes for team-scoped agents. Judge and crowd never
// see team notes.
func filterHistory(h *domain.History, agent domain.AgentRole) (*domain.History, error) {
	cp, err := deepCopy(h)
	if err != nil {
		return nil, err
	}

	team := agent.TeamOf()
	switch agent {
	case domain.RoleDebatorA, domain.RoleDebatorB, domain.RoleFactCheckerA, domain.RoleFactCheckerB:
		for t := range cp.TeamNotes {
			if t != team {
				delete(cp.TeamNotes, t)
			}
		}
	case domain.RoleJudge, domain.RoleCrowd:
		cp.TeamNotes = nil
	default:
		return nil, kernelerr.New(kernelerr.PermissionDenied, "unknown agent %q requested history", agent)
	}
	return cp, nil
}

// filterCitations applies the citation read-scope: every agent sees
// "all" except crowd, which sees none by policy default.
func filterCitations(pool *domain.CitationPool, agent domain.AgentRole) (*domain.CitationPool, error) {
	if agent == domain.RoleCrowd {
		return &domain.CitationPool{DebateID: pool.DebateID}, nil
	}
	return deepCopy(pool)
}

func deepCopy[T any](v *T) (*T, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, kernelerr.Wrap(kernelerr.ParseFailure, err, "deep copy")
	}
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, kernelerr.Wrap(kernelerr.ParseFailure, err, "deep copy")
	}
	return &out, nil
}
