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

	"github.com/teradata-labs/debatekernel/internal/domain"
	"github.com/teradata-labs/debatekernel/pkg/llm"
)

// Judge summarizes consensus and the disagreement frontier each round.
// It never declares a winner and never reads team notes — ReadFor
// already strips them before the Judge sees its context.
type Judge struct {
	Client  llm.Client
	ModelID string
}

type judgeOutput struct {
	Consensus            []string                    `json:"consensus"`
	DisagreementFrontier []domain.DisagreementIssue `json:"disagreement_frontier"`
}

func (j *Judge) Execute(ctx context.Context, ac *domain.AgentContext) (*domain.AgentResponse, error) {
	system := "You are an impartial judge. Summarize the debate's current state of consensus and unresolved " +
		"disagreement. Do not declare a winner. Respond ONLY with JSON: " +
		`{"consensus": ["..."], "disagreement_frontier": [{"core_issue": "...", "a_stance": "...", "b_stance": "..."}]}`
	user := fmt.Sprintf("Topic: %q\n\nPublic transcript:\n%s\n\nCitation ledger:\nTeam A:\n%s\nTeam B:\n%s",
		ac.Topic, renderTranscript(ac.History), renderCitations(ac.CitationPool, domain.TeamA), renderCitations(ac.CitationPool, domain.TeamB))

	raw, err := j.Client.Invoke(ctx, j.ModelID, system, user, llm.Params{MaxTokens: 1024, Temperature: 0.3, Timeout: 90 * time.Second})
	if err != nil {
		return nil, err
	}

	var out judgeOutput
	if !tryParseJSON(raw, &out) {
		out.Consensus = []string{raw}
	}

	intent := domain.Intent{
		Kind:  domain.IntentAppendLatent,
		Agent: ac.Agent,
		AppendLatent: &domain.AppendLatentPayload{
			Round:                ac.Round,
			Consensus:            out.Consensus,
			DisagreementFrontier: out.DisagreementFrontier,
		},
	}

	return &domain.AgentResponse{Success: true, Output: fmt.Sprintf("%d consensus points, %d open issues", len(out.Consensus), len(out.DisagreementFrontier)), FileUpdateIntents: []domain.Intent{intent}}, nil
}
