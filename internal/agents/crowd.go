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
	"encoding/json"
	"fmt"

	"github.com/teradata-labs/debatekernel/internal/crowd"
	"github.com/teradata-labs/debatekernel/internal/domain"
	"github.com/teradata-labs/debatekernel/internal/eventlog"
)

// Crowd fans a voting round out to N personas via the BatchFanout helper
// and folds the result into a single RECORD_CROWD_VOTE-bearing response.
// In PhaseInit this doubles as the Vote-0 Initializer: it additionally
// tallies the FOR/AGAINST split and reports it via Output as JSON so the
// moderator can assign team stances before any other turn runs.
type Crowd struct {
	Fanout        *crowd.Fanout
	Personas      []crowd.Persona
	Events        *eventlog.Logger
	BiasThreshold float64
}

func (c *Crowd) Execute(ctx context.Context, ac *domain.AgentContext) (*domain.AgentResponse, error) {
	roundSeq := ac.Round
	if ac.Phase == domain.PhaseInit {
		roundSeq = 0
	}

	transcriptSummary := renderTranscript(ac.History)
	latentDelta := renderLatest(ac.DebateLatent)

	ballots, prompts, responses, err := c.Fanout.Vote(ctx, roundSeq, ac.Topic, transcriptSummary, latentDelta, c.Personas)
	if err != nil {
		return nil, err
	}

	if c.Events != nil {
		flatPrompts := make([]string, len(prompts))
		for i, p := range prompts {
			flatPrompts[i] = p.System + "\n---\n" + p.User
		}
		_ = c.Events.BatchCall(eventlog.BatchRecord{
			DebateID:  ac.DebateID,
			CallType:  "batch",
			Agent:     string(domain.RoleCrowd),
			BatchSize: len(c.Personas),
			Prompts:   flatPrompts,
			Responses: responses,
		})
	}

	unparsed := 0
	for _, b := range ballots {
		if !b.Parsed {
			unparsed++
		}
	}
	if unparsed > 0 && c.Events != nil {
		_ = c.Events.Event(domain.Event{
			DebateID: ac.DebateID,
			Kind:     "crowd_vote_parse_failures",
			Detail:   map[string]any{"round_sequence": roundSeq, "unparsed": unparsed},
		})
	}

	intents := crowd.ToIntent(roundSeq, ballots)
	output := fmt.Sprintf("%d ballots cast for round %d", len(ballots), roundSeq)

	if ac.Phase == domain.PhaseInit {
		split := crowd.TallyVote0(ac.DebateID, ballots, c.BiasThreshold)
		if b, err := json.Marshal(split); err == nil {
			output = string(b)
		}
	}

	return &domain.AgentResponse{
		Success:           true,
		Output:            output,
		FileUpdateIntents: intents,
	}, nil
}
