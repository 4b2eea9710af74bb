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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teradata-labs/debatekernel/internal/domain"
)

func TestJudgeParsesConsensusAndFrontier(t *testing.T) {
	client := &fakeClient{text: `{"consensus": ["both sides agree costs matter"], "disagreement_frontier": [{"core_issue": "speed vs safety", "a_stance": "favor speed", "b_stance": "favor safety"}]}`}
	j := &Judge{Client: client, ModelID: "m"}

	resp, err := j.Execute(context.Background(), baseContext(domain.RoleJudge, domain.PhaseRounds, 2))
	require.NoError(t, err)
	require.Len(t, resp.FileUpdateIntents, 1)
	intent := resp.FileUpdateIntents[0]
	assert.Equal(t, domain.IntentAppendLatent, intent.Kind)
	require.NotNil(t, intent.AppendLatent)
	assert.Equal(t, []string{"both sides agree costs matter"}, intent.AppendLatent.Consensus)
	require.Len(t, intent.AppendLatent.DisagreementFrontier, 1)
	assert.Equal(t, "speed vs safety", intent.AppendLatent.DisagreementFrontier[0].CoreIssue)
	assert.Equal(t, 2, intent.AppendLatent.Round)
}

func TestJudgeFallsBackToRawTextAsSingleConsensusEntry(t *testing.T) {
	client := &fakeClient{text: "no JSON here, just a summary sentence"}
	j := &Judge{Client: client, ModelID: "m"}

	resp, err := j.Execute(context.Background(), baseContext(domain.RoleJudge, domain.PhaseRounds, 1))
	require.NoError(t, err)
	intent := resp.FileUpdateIntents[0]
	assert.Equal(t, []string{"no JSON here, just a summary sentence"}, intent.AppendLatent.Consensus)
	assert.Empty(t, intent.AppendLatent.DisagreementFrontier)
}

func TestJudgeOutputSummarizesCounts(t *testing.T) {
	client := &fakeClient{text: `{"consensus": ["a", "b"], "disagreement_frontier": [{"core_issue": "x"}]}`}
	j := &Judge{Client: client, ModelID: "m"}

	resp, err := j.Execute(context.Background(), baseContext(domain.RoleJudge, domain.PhaseRounds, 1))
	require.NoError(t, err)
	assert.Equal(t, "2 consensus points, 1 open issues", resp.Output)
}

func TestJudgeNeverDeclaresWinner(t *testing.T) {
	client := &fakeClient{text: `{"consensus": ["team A wins outright"]}`}
	j := &Judge{Client: client, ModelID: "m"}

	resp, err := j.Execute(context.Background(), baseContext(domain.RoleJudge, domain.PhaseClosing, 4))
	require.NoError(t, err)
	assert.Equal(t, domain.IntentAppendLatent, resp.FileUpdateIntents[0].Kind)
}
