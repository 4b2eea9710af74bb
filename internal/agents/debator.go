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
	"fmt"
	"time"

	"github.com/teradata-labs/debatekernel/internal/costgov"
	"github.com/teradata-labs/debatekernel/internal/domain"
	"github.com/teradata-labs/debatekernel/pkg/llm"
)

// researchDepthInstruction maps a cost tier to the depth of research the
// Debator should perform, honored as a prompt constraint since the
// kernel has no tool-use loop to cap directly.
var researchDepthInstruction = map[costgov.Tier]string{
	costgov.TierDeep:     "Conduct comprehensive research, drawing on multiple independent lines of evidence.",
	costgov.TierStandard: "Conduct a standard level of research sufficient to support your claim with 1-2 citations.",
	costgov.TierQuick:    "Keep research minimal; rely primarily on well-known facts and at most one citation.",
	costgov.TierNone:     "Do not introduce new research; argue from what is already on the record.",
}

// Debator argues one stance, citing sources in its own team's namespace
// and responding to the opposing team's rebuttals.
type Debator struct {
	Client  llm.Client
	ModelID string
	Tier    func() costgov.Tier
	Stance  string // "FOR" or "AGAINST"
}

type debatorOutput struct {
	Statement string   `json:"statement"`
	Citations []string `json:"citations"`
	TeamNote  string   `json:"team_note"`
}

func (d *Debator) Execute(ctx context.Context, ac *domain.AgentContext) (*domain.AgentResponse, error) {
	tier := costgov.TierStandard
	if d.Tier != nil {
		tier = d.Tier()
	}

	closing := ac.Phase == domain.PhaseClosing
	if closing {
		tier = costgov.TierNone
	}

	system := fmt.Sprintf(
		"You are a debator arguing %s the motion %q. %s Respond ONLY with a JSON object: "+
			`{"statement": "...", "citations": ["https://..."], "team_note": "..."}`+
			". citations must be omitted or empty during closing remarks.",
		d.Stance, ac.Topic, researchDepthInstruction[tier],
	)

	user := fmt.Sprintf(
		"Instructions: %s\n\nPublic transcript so far:\n%s\n\nYour team's private notes:\n%s\n\nCurrent disagreement frontier:\n%s",
		ac.Instructions, renderTranscript(ac.History), renderTeamNotes(ac.History, ac.Team), renderLatest(ac.DebateLatent),
	)

	raw, err := d.Client.Invoke(ctx, d.ModelID, system, user, llm.Params{MaxTokens: 2048, Temperature: 0.8, Timeout: 90 * time.Second})
	if err != nil {
		return nil, err
	}

	var out debatorOutput
	if !tryParseJSON(raw, &out) {
		out = debatorOutput{Statement: raw}
	}
	if out.Statement == "" {
		return &domain.AgentResponse{Success: false, Errors: []string{"debator: empty statement after parse"}}, nil
	}
	if closing {
		out.Citations = nil
	}

	intents := []domain.Intent{{
		Kind:  domain.IntentAppendPublicTurn,
		Agent: ac.Agent,
		AppendPublicTurn: &domain.AppendPublicTurnPayload{
			Round:      ac.Round,
			RoundLabel: roundLabelFor(ac.Phase),
			Statement:  out.Statement,
			Citations:  out.Citations,
		},
	}}
	for _, url := range out.Citations {
		intents = append(intents, domain.Intent{
			Kind:  domain.IntentAddCitation,
			Agent: ac.Agent,
			AddCitation: &domain.AddCitationPayload{
				URL:    url,
				TurnID: ac.History.NextTurnID(),
				Round:  ac.Round,
			},
		})
	}
	if out.TeamNote != "" {
		intents = append(intents, domain.Intent{
			Kind:  domain.IntentAppendTeamNote,
			Agent: ac.Agent,
			AppendTeamNote: &domain.AppendTeamNotePayload{
				Round: ac.Round,
				Text:  out.TeamNote,
			},
		})
	}

	return &domain.AgentResponse{Success: true, Output: out.Statement, FileUpdateIntents: intents}, nil
}

func roundLabelFor(p domain.Phase) domain.RoundLabel {
	switch p {
	case domain.PhaseOpening:
		return domain.RoundOpening
	case domain.PhaseClosing:
		return domain.RoundClosing
	default:
		return domain.RoundRebuttal
	}
}
