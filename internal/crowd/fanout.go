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
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/teradata-labs/debatekernel/internal/domain"
	"github.com/teradata-labs/debatekernel/pkg/llm"
)

var scoreRe = regexp.MustCompile(`\b([1-9][0-9]?|100)\b`)

// BallotResult is one persona's parsed vote.
type BallotResult struct {
	VoterID string
	Persona string
	Score   int
	Parsed  bool
}

// Fanout drives one voting round for n personas and returns one ballot
// per persona plus the raw prompts/responses for a single batch log
// entry — never N individual ones. In-flight concurrency is bounded by
// the underlying llm.Client implementation, not by Fanout itself.
type Fanout struct {
	Client  llm.Client
	ModelID string
}

// Vote executes one voting round: builds N prompts from the persona
// catalog, the topic, and (for round > 0) the public transcript summary
// and latent-map delta since the voter's last vote, then fans them out
// concurrently.
func (f *Fanout) Vote(ctx context.Context, roundSeq int, topic, transcriptSummary, latentDelta string, personas []Persona) ([]BallotResult, []llm.Prompt, []string, error) {
	prompts := make([]llm.Prompt, len(personas))
	for i, p := range personas {
		prompts[i] = llm.Prompt{
			System: "You are " + p.Label + ". Respond with a single integer from 1 to 100 expressing how persuaded you are by the debate so far, where 1 is fully opposed and 100 is fully convinced. Respond with only the number.",
			User:   votePrompt(roundSeq, topic, transcriptSummary, latentDelta),
		}
	}

	responses, err := f.Client.InvokeBatch(ctx, f.ModelID, prompts, llm.Params{
		MaxTokens:   16,
		Temperature: 0.7,
		Timeout:     30 * time.Second,
	})
	if err != nil {
		return nil, prompts, nil, err
	}

	ballots := make([]BallotResult, len(personas))
	for i, p := range personas {
		score, ok := parseScore(responses[i])
		ballots[i] = BallotResult{VoterID: p.VoterID, Persona: p.Label, Score: score, Parsed: ok}
	}
	return ballots, prompts, responses, nil
}

func votePrompt(roundSeq int, topic, transcriptSummary, latentDelta string) string {
	if roundSeq == 0 {
		return fmt.Sprintf("Before any argument has been made, state your initial leaning on this topic: %q. 1 means strongly opposed, 100 means strongly in favor.", topic)
	}
	return fmt.Sprintf("Topic: %q\n\nDebate so far:\n%s\n\nLatest analysis:\n%s\n\nGiven the above, how persuaded are you now?", topic, transcriptSummary, latentDelta)
}

// parseScore extracts an integer vote in [1,100] from free-form model
// output via a regex fallback; unparseable output defaults to 50.
func parseScore(raw string) (int, bool) {
	m := scoreRe.FindString(raw)
	if m == "" {
		return 50, false
	}
	n, err := strconv.Atoi(m)
	if err != nil || n < 1 || n > 100 {
		return 50, false
	}
	return n, true
}

// ToIntent folds a voting round's ballots into the RECORD_CROWD_VOTE
// intents the kernel applies, one per voter.
func ToIntent(roundSeq int, ballots []BallotResult) []domain.Intent {
	intents := make([]domain.Intent, len(ballots))
	for i, b := range ballots {
		intents[i] = domain.Intent{
			Kind:  domain.IntentRecordCrowdVote,
			Agent: domain.RoleCrowd,
			RecordCrowdVote: &domain.RecordCrowdVotePayload{
				VoterID:       b.VoterID,
				Persona:       b.Persona,
				RoundSequence: roundSeq,
				Score:         b.Score,
			},
		}
	}
	return intents
}
