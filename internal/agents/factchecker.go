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

	"golang.org/x/sync/errgroup"

	"github.com/teradata-labs/debatekernel/internal/domain"
	"github.com/teradata-labs/debatekernel/pkg/llm"
)

const factCheckerConcurrency = 4

// FactChecker verifies the opposing team's citations from the most
// recent round and defends its own team's citations against prior
// adversary comments. It never adds citations.
type FactChecker struct {
	Client  llm.Client
	ModelID string
}

type verificationOutput struct {
	Credibility      int    `json:"credibility"`
	Correspondence   int    `json:"correspondence"`
	AdversaryComment string `json:"adversary_comment"`
}

type defenseOutput struct {
	Response string `json:"response"`
}

func (f *FactChecker) Execute(ctx context.Context, ac *domain.AgentContext) (*domain.AgentResponse, error) {
	opposing := ac.Team.Other()
	// OPENING runs the factchecker in the same round as the debator it
	// checks; ROUNDS and CLOSING run it a round after.
	lookupRound := ac.Round - 1
	if ac.Phase == domain.PhaseOpening {
		lookupRound = ac.Round
	}
	toVerify := citationsAddedInRound(ac.CitationPool, opposing, lookupRound)
	toDefend := citationsWithUnansweredComment(ac.CitationPool, ac.Team)

	var intents []domain.Intent
	var errs []string

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(factCheckerConcurrency)
	results := make([]domain.Intent, len(toVerify))
	resultErrs := make([]error, len(toVerify))

	for i, key := range toVerify {
		i, key := i, key
		cit := ac.CitationPool.Namespaces[opposing][key]
		g.Go(func() error {
			out, err := f.verifyOne(gctx, ac, cit)
			if err != nil {
				resultErrs[i] = err
				return nil // partial failure is reported, not fatal to the whole turn
			}
			results[i] = domain.Intent{
				Kind:  domain.IntentSetVerification,
				Agent: ac.Agent,
				SetVerification: &domain.SetVerificationPayload{
					CitationKey:      key,
					Credibility:      out.Credibility,
					Correspondence:   out.Correspondence,
					AdversaryComment: out.AdversaryComment,
				},
			}
			return nil
		})
	}
	_ = g.Wait()

	for i, r := range results {
		if resultErrs[i] != nil {
			errs = append(errs, resultErrs[i].Error())
			continue
		}
		if r.Kind != "" {
			intents = append(intents, r)
		}
	}

	for _, key := range toDefend {
		cit := ac.CitationPool.Namespaces[ac.Team][key]
		out, err := f.defendOne(ctx, ac, cit)
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}
		intents = append(intents, domain.Intent{
			Kind:  domain.IntentSetProponentResponse,
			Agent: ac.Agent,
			SetProponentResponse: &domain.SetProponentResponsePayload{
				CitationKey: key,
				Response:    out.Response,
			},
		})
	}

	if len(intents) == 0 && len(errs) > 0 {
		return &domain.AgentResponse{Success: false, Errors: errs}, nil
	}
	return &domain.AgentResponse{Success: true, FileUpdateIntents: intents, Errors: errs}, nil
}

func (f *FactChecker) verifyOne(ctx context.Context, ac *domain.AgentContext, cit *domain.Citation) (verificationOutput, error) {
	system := "You are a fact checker scoring an opposing team's citation. Respond ONLY with JSON: " +
		`{"credibility": 1-10, "correspondence": 1-10, "adversary_comment": "..."}`
	user := fmt.Sprintf("Topic: %q\nCitation URL: %s\nContext it was used in:\n%s", ac.Topic, cit.URL, renderTranscript(ac.History))

	raw, err := f.Client.Invoke(ctx, f.ModelID, system, user, llm.Params{MaxTokens: 512, Temperature: 0.3, Timeout: 60 * time.Second})
	if err != nil {
		return verificationOutput{}, err
	}

	var out verificationOutput
	if !tryParseJSON(raw, &out) {
		out.Credibility = extractFirstInt(raw, 1)
		out.Correspondence = extractFirstInt(raw, 1)
		out.AdversaryComment = raw
	}
	out.Credibility = clamp(out.Credibility, 1, 10)
	out.Correspondence = clamp(out.Correspondence, 1, 10)
	return out, nil
}

func (f *FactChecker) defendOne(ctx context.Context, ac *domain.AgentContext, cit *domain.Citation) (defenseOutput, error) {
	system := `You are defending your team's own citation against an adversary's comment. Respond ONLY with JSON: {"response": "..."}`
	user := fmt.Sprintf("Citation URL: %s\nAdversary comment: %s", cit.URL, cit.Verification.AdversaryComment)

	raw, err := f.Client.Invoke(ctx, f.ModelID, system, user, llm.Params{MaxTokens: 512, Temperature: 0.5, Timeout: 60 * time.Second})
	if err != nil {
		return defenseOutput{}, err
	}
	var out defenseOutput
	if !tryParseJSON(raw, &out) {
		out.Response = raw
	}
	return out, nil
}

func citationsAddedInRound(pool *domain.CitationPool, team domain.Team, round int) []string {
	if pool == nil || round < 0 {
		return nil
	}
	var keys []string
	for _, key := range pool.ByRound[round] {
		if c, ok := pool.Namespaces[team][key]; ok {
			_ = c
			keys = append(keys, key)
		}
	}
	return keys
}

func citationsWithUnansweredComment(pool *domain.CitationPool, team domain.Team) []string {
	if pool == nil {
		return nil
	}
	var keys []string
	for key, c := range pool.Namespaces[team] {
		if c.Verification.AdversaryComment != "" && c.Verification.ProponentResponse == "" {
			keys = append(keys, key)
		}
	}
	return keys
}
