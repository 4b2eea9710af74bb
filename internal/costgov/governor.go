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

package costgov

import (
	"sync"
	"time"
)

// Preset names one of the three suggested cost tiers.
type Preset string

const (
	PresetConservative Preset = "conservative"
	PresetBalanced      Preset = "balanced"
	PresetPremium       Preset = "premium"
)

// Tier is the research depth the governor authorizes for a Debator turn.
type Tier string

const (
	TierDeep     Tier = "DEEP"
	TierStandard Tier = "STANDARD"
	TierQuick    Tier = "QUICK"
	TierNone     Tier = "NONE"
)

// Limits bounds every provider call the governor authorizes.
type Limits struct {
	MaxQueries        int
	MaxInputTokens    int
	MaxOutputTokens   int
	CallTimeout       time.Duration
}

// presetBudget holds one row of the preset table.
type presetBudget struct {
	perDebateCap       float64
	perDeepResearchCap float64
	deepResearchTurns  int
}

var presetTable = map[Preset]presetBudget{
	PresetConservative: {perDebateCap: 2.0, perDeepResearchCap: 1.0, deepResearchTurns: 2},
	PresetBalanced:      {perDebateCap: 5.0, perDeepResearchCap: 2.0, deepResearchTurns: 4},
	PresetPremium:       {perDebateCap: 15.0, perDeepResearchCap: 3.0, deepResearchTurns: 6},
}

const quickSearchThreshold = 1.0

// Governor tracks spend for a single debate and decides research tiers.
// It is safe for concurrent use: spend and tier state are guarded by mu.
type Governor struct {
	mu sync.Mutex

	preset           Preset
	budget           presetBudget
	limits           Limits
	spent            float64
	deepResearchDone int
	costByAgent      map[string]float64
}

// New builds a Governor for the named preset. Unknown presets fall back
// to balanced.
func New(preset Preset, limits Limits) *Governor {
	b, ok := presetTable[preset]
	if !ok {
		preset = PresetBalanced
		b = presetTable[PresetBalanced]
	}
	if limits.MaxQueries == 0 {
		limits.MaxQueries = 20
	}
	if limits.MaxInputTokens == 0 {
		limits.MaxInputTokens = 180_000
	}
	if limits.CallTimeout == 0 {
		limits.CallTimeout = 90 * time.Second
	}
	return &Governor{
		preset:      preset,
		budget:      b,
		limits:      limits,
		costByAgent: map[string]float64{},
	}
}

// Remaining returns the debate's remaining budget, which may be negative
// after an overshoot (the governor logs but never aborts on overshoot).
func (g *Governor) Remaining() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.budget.perDebateCap - g.spent
}

// Spent returns cumulative spend across the debate.
func (g *Governor) Spent() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.spent
}

// Limits returns the per-call limits every provider invocation must honor.
func (g *Governor) Limits() Limits {
	return g.limits
}

// NextResearchTier decides DEEP/STANDARD/QUICK/NONE for the next Debator
// research turn, based on remaining budget and how many deep-research
// turns have already been spent against the preset's cap.
func (g *Governor) NextResearchTier() Tier {
	g.mu.Lock()
	defer g.mu.Unlock()

	remaining := g.budget.perDebateCap - g.spent
	switch {
	case remaining >= g.budget.perDeepResearchCap && g.deepResearchDone < g.budget.deepResearchTurns:
		return TierDeep
	case remaining >= quickSearchThreshold:
		return TierStandard
	case remaining > 0:
		return TierQuick
	default:
		return TierNone
	}
}

// RecordSpend records actual cost for one agent turn after the call
// completes. tier should be the tier the turn was authorized under; DEEP
// turns count against the preset's deep-research-turn cap regardless of
// what the call actually cost.
func (g *Governor) RecordSpend(agent string, tier Tier, cost float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.spent += cost
	g.costByAgent[agent] += cost
	if tier == TierDeep {
		g.deepResearchDone++
	}
}

// CostByAgent returns a snapshot of cumulative spend per agent, for the
// checkpoint document.
func (g *Governor) CostByAgent() map[string]float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make(map[string]float64, len(g.costByAgent))
	for k, v := range g.costByAgent {
		out[k] = v
	}
	return out
}

// Restore reconstructs spend state from a checkpoint on resume.
func (g *Governor) Restore(spent float64, costByAgent map[string]float64, deepResearchDone int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.spent = spent
	g.deepResearchDone = deepResearchDone
	for k, v := range costByAgent {
		g.costByAgent[k] = v
	}
}
