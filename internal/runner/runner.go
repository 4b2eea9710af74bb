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

package runner

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/teradata-labs/debatekernel/internal/costgov"
	"github.com/teradata-labs/debatekernel/internal/domain"
	"github.com/teradata-labs/debatekernel/internal/eventlog"
	"github.com/teradata-labs/debatekernel/internal/kernelerr"
	"github.com/teradata-labs/debatekernel/internal/log"
	"github.com/teradata-labs/debatekernel/internal/statestore"
)

// Runner is the single code path every agent turn passes through: read a
// permission-filtered snapshot, invoke the agent, validate its intents,
// apply them, and log the turn.
type Runner struct {
	Store   *statestore.Store
	Events  *eventlog.Logger
	Retry   RetryConfig
	ModelID func(agent domain.AgentRole) string
	Limits  costgov.Limits
}

// Result is everything the moderator needs after a completed turn.
type Result struct {
	Response  *domain.AgentResponse
	Attempts  int
	Duration  time.Duration
	AppliedAt time.Time
}

// RunTurn executes one agent's turn end to end. instructions is the short
// directive describing what this turn must produce, constructed by the
// caller from the current phase/round.
func (r *Runner) RunTurn(ctx context.Context, agent Agent, role domain.AgentRole, instructions string) (*Result, error) {
	ac, err := r.Store.ReadFor(role)
	if err != nil {
		return nil, err
	}
	ac.Instructions = instructions

	modelID := ""
	if r.ModelID != nil {
		modelID = r.ModelID(role)
	}

	inputTokens := countContextTokens(ac)
	if r.Limits.MaxInputTokens > 0 && inputTokens > r.Limits.MaxInputTokens {
		log.Warn("agent context exceeds configured input token limit",
			zap.String("agent", string(role)),
			zap.Int("input_tokens", inputTokens),
			zap.Int("limit", r.Limits.MaxInputTokens),
		)
	}

	start := time.Now()
	resp, attempts, err := executeWithRetry(ctx, agent, ac, r.Retry)
	duration := time.Since(start)
	if err != nil {
		r.logRawCall(role, ac, modelID, inputTokens, nil, attempts, duration, err)
		return nil, kernelerr.Wrap(kernelerr.ProviderTransient, err, "%s: exhausted retries", role)
	}
	r.logRawCall(role, ac, modelID, inputTokens, resp, attempts, duration, nil)

	if !resp.Success {
		return &Result{Response: resp, Attempts: attempts, Duration: duration}, nil
	}

	for _, intent := range resp.FileUpdateIntents {
		if err := ValidateIntent(intent); err != nil {
			return nil, err // SchemaViolation: fatal, the agent violated its contract
		}
	}
	for _, intent := range resp.FileUpdateIntents {
		if err := r.Store.Apply(role, intent); err != nil {
			return nil, err
		}
	}

	return &Result{Response: resp, Attempts: attempts, Duration: duration, AppliedAt: time.Now()}, nil
}

// logRawCall appends one raw_calls.jsonl entry for a single-turn call.
// Crowd turns log their own batch entry from within agents.Crowd and are
// skipped here so a voting round never produces two raw-call lines.
func (r *Runner) logRawCall(role domain.AgentRole, ac *domain.AgentContext, modelID string, inputTokens int, resp *domain.AgentResponse, attempts int, duration time.Duration, callErr error) {
	if r.Events == nil || role == domain.RoleCrowd {
		return
	}
	rec := domain.TurnRecord{
		DebateID:    ac.DebateID,
		Agent:       role,
		Phase:       ac.Phase,
		Round:       ac.Round,
		ModelID:     modelID,
		Prompt:      ac.Instructions,
		InputTokens: inputTokens,
		Attempts:    attempts,
		Duration:    duration,
		Timestamp:   time.Now(),
	}
	if resp != nil {
		rec.RawOutput = resp.Output
		rec.Cost = resp.CostEstimate
		rec.OutputTokens = costgov.GetTokenCounter().Count(resp.Output)
	}
	if callErr != nil {
		rec.Error = callErr.Error()
	}
	_ = r.Events.RawCall(rec)
}

// countContextTokens estimates the size of everything an agent's prompt
// will draw from, so the moderator can flag a context that has grown
// past the configured input budget before it reaches the provider.
func countContextTokens(ac *domain.AgentContext) int {
	tc := costgov.GetTokenCounter()
	total := tc.Count(ac.Instructions) + tc.Count(ac.Topic)
	if b, err := json.Marshal(ac.History); err == nil {
		total += tc.Count(string(b))
	}
	if b, err := json.Marshal(ac.CitationPool); err == nil {
		total += tc.Count(string(b))
	}
	if b, err := json.Marshal(ac.DebateLatent); err == nil {
		total += tc.Count(string(b))
	}
	return total
}
