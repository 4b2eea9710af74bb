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

// Package kernel is the Moderator: it composes the state store, phase
// machine, cost governor, checkpoint store, agent runner, and agent
// contracts into the run/resume entry points. The single invariant it
// must never violate is checking for a checkpoint before ever calling
// StateStore.InitializeFiles.
package kernel

import (
	"context"
	"encoding/json"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teradata-labs/debatekernel/internal/agents"
	"github.com/teradata-labs/debatekernel/internal/checkpoint"
	"github.com/teradata-labs/debatekernel/internal/costgov"
	"github.com/teradata-labs/debatekernel/internal/crowd"
	"github.com/teradata-labs/debatekernel/internal/domain"
	"github.com/teradata-labs/debatekernel/internal/eventlog"
	"github.com/teradata-labs/debatekernel/internal/kernelerr"
	"github.com/teradata-labs/debatekernel/internal/log"
	"github.com/teradata-labs/debatekernel/internal/outputs"
	"github.com/teradata-labs/debatekernel/internal/phase"
	"github.com/teradata-labs/debatekernel/internal/runner"
	"github.com/teradata-labs/debatekernel/internal/statestore"
	"github.com/teradata-labs/debatekernel/pkg/llm"
)

// Config configures one debate run. DataDir is the root data directory
// (e.g. ~/.debatekernel); each debate lives under DataDir/debates/<id>.
type Config struct {
	DataDir        string
	Topic          string
	Rounds         int
	CrowdSize      int
	Preset         costgov.Preset
	BiasThreshold  float64
	Client         llm.Client
	ModelDebator   string
	ModelJudge     string
	ModelFactCheck string
	ModelCrowd     string
}

// debateRoot returns the per-debate working directory for id.
func debateRoot(dataDir, id string) string {
	return filepath.Join(dataDir, "debates", id)
}

// Moderator owns one debate's full lifecycle.
type Moderator struct {
	cfg        Config
	debateID   string
	root       string
	store      *statestore.Store
	checkpoint *checkpoint.Store
	governor   *costgov.Governor
	events     *eventlog.Logger
	machine    *phase.Machine
	runner     *runner.Runner

	teamA domain.TeamAssignment
	teamB domain.TeamAssignment
	mult  map[domain.Team]float64

	// completedTurns is the full audit trail of turns run so far, carried
	// across checkpoints so a resumed run never re-invokes a turn already
	// recorded against its (phase, round, agent).
	completedTurns []domain.CompletedTurn
}

// Run starts a brand-new debate. It must never be called when a
// checkpoint already exists in the debate's root directory; Resume
// handles that case.
func Run(ctx context.Context, cfg Config) (string, error) {
	debateID := uuid.NewString()
	root := debateRoot(cfg.DataDir, debateID)
	m := newModerator(cfg, root, debateID)

	if m.checkpoint.Exists() {
		return "", kernelerr.New(kernelerr.InvalidTransition, "checkpoint already exists at %s; use Resume", root)
	}

	if err := m.store.InitializeFiles(debateID, cfg.Topic); err != nil {
		return debateID, err
	}

	if err := m.runLoop(ctx); err != nil {
		return debateID, err
	}
	return debateID, nil
}

// Resume reconstructs a Moderator from an on-disk checkpoint and
// continues the run loop. It must never reinitialize the canonical
// documents.
func Resume(ctx context.Context, cfg Config, debateID string) error {
	root := debateRoot(cfg.DataDir, debateID)
	m := newModerator(cfg, root, debateID)

	if !m.checkpoint.Exists() {
		return kernelerr.New(kernelerr.InvalidTransition, "no checkpoint for debate %s", debateID)
	}
	cp, err := m.checkpoint.Load()
	if err != nil {
		return err
	}

	if err := m.store.Load(); err != nil {
		return err
	}

	m.cfg.Topic = cp.Topic
	m.machine = phase.Restore(cp.Phase, cp.Round, cp.TurnCount, cp.CurrentSpeaker, cp.TotalRounds)
	m.teamA, m.teamB = cp.TeamA, cp.TeamB
	m.mult = cp.ResourceMultiplier
	m.completedTurns = cp.CompletedTurns
	m.governor.Restore(cp.CumulativeCost, cp.CostByAgent, cp.DeepResearchDone)

	return m.runLoop(ctx)
}

func newModerator(cfg Config, root, debateID string) *Moderator {
	if cfg.Rounds == 0 {
		cfg.Rounds = 2
	}
	if cfg.CrowdSize == 0 {
		cfg.CrowdSize = 100
	}
	if cfg.BiasThreshold == 0 {
		cfg.BiasThreshold = 0.6
	}

	store := statestore.New(root)
	events := eventlog.New(root)
	governor := costgov.New(cfg.Preset, costgov.Limits{})

	m := &Moderator{
		cfg:        cfg,
		debateID:   debateID,
		root:       root,
		store:      store,
		checkpoint: checkpoint.New(root),
		governor:   governor,
		events:     events,
		machine:    phase.New(cfg.Rounds),
		mult:       map[domain.Team]float64{domain.TeamA: 1.0, domain.TeamB: 1.0},
	}
	m.runner = &runner.Runner{
		Store:   store,
		Events:  events,
		Retry:   runner.DefaultRetryConfig(),
		ModelID: modelIDFor(cfg),
		Limits:  governor.Limits(),
	}
	return m
}

// modelIDFor returns the per-role model lookup used for raw_calls.jsonl
// and request construction, closing over the config's model assignments.
func modelIDFor(cfg Config) func(domain.AgentRole) string {
	return func(role domain.AgentRole) string {
		switch role {
		case domain.RoleDebatorA, domain.RoleDebatorB:
			return cfg.ModelDebator
		case domain.RoleFactCheckerA, domain.RoleFactCheckerB:
			return cfg.ModelFactCheck
		case domain.RoleJudge:
			return cfg.ModelJudge
		case domain.RoleCrowd:
			return cfg.ModelCrowd
		default:
			return ""
		}
	}
}

// runLoop drives the schedule from the machine's current position to
// DONE, skipping past any turns already recorded as completed (resume
// idempotence) and checkpointing per the trigger policy after each turn.
func (m *Moderator) runLoop(ctx context.Context) error {
	logger := log.With(zap.String("debate_id", m.debateID))
	logger.Info("debate run loop starting", zap.String("phase", string(m.machine.Phase())))

	if m.machine.Phase() == domain.PhaseInit {
		if err := m.runVote0(ctx); err != nil {
			return err
		}
		if err := m.transitionTo(domain.PhaseOpening); err != nil {
			return err
		}
		if err := m.advanceRound(); err != nil {
			return err
		}
		if err := m.checkpointNow(); err != nil {
			return err
		}
	}

	if m.machine.Phase() == domain.PhaseOpening {
		if err := m.runScheduledRound(ctx, domain.PhaseOpening); err != nil {
			return err
		}
		if err := m.transitionTo(domain.PhaseRounds); err != nil {
			return err
		}
		if err := m.checkpointNow(); err != nil {
			return err
		}
	}

	if m.machine.Phase() == domain.PhaseRounds {
		// On resume mid-round, the current round's schedule may already be
		// partially complete; finish it before advancing, since NextRound
		// only permits moving forward, never revisiting a round.
		if m.machine.Round() > 0 && len(m.completedRoles(domain.PhaseRounds, m.machine.Round())) > 0 {
			if err := m.runScheduledRound(ctx, domain.PhaseRounds); err != nil {
				return err
			}
		}
		for !m.machine.LastRound() {
			if err := m.advanceRound(); err != nil {
				return err
			}
			if err := m.runScheduledRound(ctx, domain.PhaseRounds); err != nil {
				return err
			}
		}
		if err := m.transitionTo(domain.PhaseClosing); err != nil {
			return err
		}
		if err := m.checkpointNow(); err != nil {
			return err
		}
	}

	if m.machine.Phase() == domain.PhaseClosing {
		if m.machine.ClosingRoundPending() {
			if err := m.advanceRound(); err != nil {
				return err
			}
		}
		if err := m.runScheduledRound(ctx, domain.PhaseClosing); err != nil {
			return err
		}
		if err := m.renderOutputs(); err != nil {
			return err
		}
		if err := m.transitionTo(domain.PhaseDone); err != nil {
			return err
		}
		if err := m.checkpointNow(); err != nil {
			return err
		}
	}

	logger.Info("debate run loop complete")
	return nil
}

// transitionTo moves the phase machine and keeps the history document's
// current_phase in lockstep, since agent read-scope and write rules key
// off the persisted document rather than the in-memory machine.
func (m *Moderator) transitionTo(p domain.Phase) error {
	if err := m.machine.Transition(p); err != nil {
		return err
	}
	return m.store.SetPhase(p)
}

// advanceRound moves the phase machine's round counter and keeps the
// history document's current_round in lockstep.
func (m *Moderator) advanceRound() error {
	if err := m.machine.NextRound(); err != nil {
		return err
	}
	return m.store.SetRound(m.machine.Round())
}

func (m *Moderator) runVote0(ctx context.Context) error {
	personas := crowd.BuildPersonas(m.cfg.CrowdSize)
	crowdAgent := &agents.Crowd{
		Fanout:        &crowd.Fanout{Client: m.cfg.Client, ModelID: m.cfg.ModelCrowd},
		Personas:      personas,
		Events:        m.events,
		BiasThreshold: m.cfg.BiasThreshold,
	}

	result, err := m.runner.RunTurn(ctx, crowdAgent, domain.RoleCrowd, "Cast your initial stance before any argument has been made.")
	if err != nil {
		return err
	}
	m.machine.NextTurn(domain.RoleCrowd)

	var split crowd.Vote0Split
	if err := json.Unmarshal([]byte(result.Response.Output), &split); err != nil {
		return kernelerr.Wrap(kernelerr.ParseFailure, err, "vote0: parse split")
	}

	m.teamA = domain.TeamAssignment{Stance: "FOR", Agents: []domain.AgentRole{domain.RoleDebatorA, domain.RoleFactCheckerA}}
	m.teamB = domain.TeamAssignment{Stance: "AGAINST", Agents: []domain.AgentRole{domain.RoleDebatorB, domain.RoleFactCheckerB}}
	m.mult = split.ResourceMultiplier
	if split.MajorityTeam == domain.TeamB {
		m.teamA, m.teamB = m.teamB, m.teamA
		m.mult = map[domain.Team]float64{
			domain.TeamA: split.ResourceMultiplier[domain.TeamB],
			domain.TeamB: split.ResourceMultiplier[domain.TeamA],
		}
	}

	return m.events.Event(domain.Event{
		DebateID: m.debateID,
		Kind:     "vote0_complete",
		Detail:   map[string]any{"for": split.For, "against": split.Against, "majority": string(split.MajorityTeam)},
	})
}

// completedRoles returns the set of roles already recorded as completed
// for the exact (phase, round) pair, so a resumed run never re-invokes a
// turn it already paid for and applied.
func (m *Moderator) completedRoles(p domain.Phase, round int) map[domain.AgentRole]bool {
	done := make(map[domain.AgentRole]bool)
	for _, ct := range m.completedTurns {
		if ct.Phase == p && ct.Round == round {
			done[ct.Agent] = true
		}
	}
	return done
}

// runScheduledRound runs every speaker in the fixed order for phase,
// skipping speakers already recorded as completed against the current
// (phase, round) pair (resume idempotence).
func (m *Moderator) runScheduledRound(ctx context.Context, p domain.Phase) error {
	round := m.machine.Round()
	done := m.completedRoles(p, round)

	for _, role := range phase.OrderFor(p) {
		if done[role] {
			continue
		}

		agent, instructions := m.buildAgent(role, p)
		result, err := m.runner.RunTurn(ctx, agent, role, instructions)
		if err != nil {
			return err
		}
		m.machine.NextTurn(role)

		cost := 0.0
		if result.Response != nil {
			cost = result.Response.CostEstimate
		}
		tier := costgov.TierStandard
		if role == domain.RoleDebatorA || role == domain.RoleDebatorB {
			tier = m.governor.NextResearchTier()
		}
		m.governor.RecordSpend(string(role), tier, cost)
		m.completedTurns = append(m.completedTurns, domain.CompletedTurn{
			Phase: p, Round: round, Agent: role, Cost: cost, Timestamp: time.Now(),
		})

		if checkpoint.ShouldCheckpointAfter(m.machine.Phase(), role, false) {
			if err := m.checkpointNow(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *Moderator) buildAgent(role domain.AgentRole, p domain.Phase) (runner.Agent, string) {
	switch role {
	case domain.RoleDebatorA, domain.RoleDebatorB:
		stance := m.teamA.Stance
		if role == domain.RoleDebatorB {
			stance = m.teamB.Stance
		}
		return &agents.Debator{
			Client:  m.cfg.Client,
			ModelID: m.cfg.ModelDebator,
			Tier:    m.governor.NextResearchTier,
			Stance:  stance,
		}, instructionsFor(role, p)
	case domain.RoleFactCheckerA, domain.RoleFactCheckerB:
		return &agents.FactChecker{Client: m.cfg.Client, ModelID: m.cfg.ModelFactCheck}, instructionsFor(role, p)
	case domain.RoleJudge:
		return &agents.Judge{Client: m.cfg.Client, ModelID: m.cfg.ModelJudge}, instructionsFor(role, p)
	case domain.RoleCrowd:
		return &agents.Crowd{
			Fanout:        &crowd.Fanout{Client: m.cfg.Client, ModelID: m.cfg.ModelCrowd},
			Personas:      crowd.BuildPersonas(m.cfg.CrowdSize),
			Events:        m.events,
			BiasThreshold: m.cfg.BiasThreshold,
		}, instructionsFor(role, p)
	default:
		return nil, ""
	}
}

func instructionsFor(role domain.AgentRole, p domain.Phase) string {
	switch {
	case (role == domain.RoleDebatorA || role == domain.RoleDebatorB) && p == domain.PhaseOpening:
		return "Present your opening argument with comprehensive research."
	case (role == domain.RoleDebatorA || role == domain.RoleDebatorB) && p == domain.PhaseRounds:
		return "Rebut the opposing debator's most recent statement, targeting the current disagreement frontier."
	case (role == domain.RoleDebatorA || role == domain.RoleDebatorB) && p == domain.PhaseClosing:
		return "Deliver closing remarks. Do not introduce new research or citations."
	case role == domain.RoleFactCheckerA || role == domain.RoleFactCheckerB:
		return "Verify opponent citations added in the most recent round and respond to criticism left against your own."
	case role == domain.RoleJudge:
		return "Summarize consensus and the current disagreement frontier. Do not declare a winner."
	case role == domain.RoleCrowd:
		return "Cast your updated vote given the debate so far."
	default:
		return ""
	}
}

func (m *Moderator) checkpointNow() error {
	cp := &domain.Checkpoint{
		DebateID:           m.debateID,
		Topic:              m.cfg.Topic,
		Phase:              m.machine.Phase(),
		Round:              m.machine.Round(),
		TotalRounds:        m.machine.TotalRounds(),
		TurnCount:          m.machine.TurnCount(),
		CurrentSpeaker:     m.machine.CurrentSpeaker(),
		TeamA:              m.teamA,
		TeamB:              m.teamB,
		ResourceMultiplier: m.mult,
		CumulativeCost:     m.governor.Spent(),
		CostByAgent:        m.governor.CostByAgent(),
		CompletedTurns:     m.completedTurns,
		SavedAt:            time.Now(),
	}
	if err := m.checkpoint.Save(cp); err != nil {
		return err
	}
	return m.events.Event(domain.Event{
		DebateID: m.debateID,
		Kind:     "checkpoint_saved",
		Detail:   map[string]any{"phase": string(cp.Phase), "turn_count": cp.TurnCount},
	})
}

func (m *Moderator) renderOutputs() error {
	now := time.Now().Format(time.RFC3339)
	if err := outputs.RenderTranscript(m.root, m.store.History(), m.store.CitationPool(), now); err != nil {
		return err
	}
	if err := outputs.RenderCitationLedger(m.root, m.store.CitationPool()); err != nil {
		return err
	}
	if err := outputs.RenderLogicMap(m.root, m.store.DebateLatent()); err != nil {
		return err
	}
	return outputs.RenderSentimentGraph(m.root, m.store.CrowdOpinion())
}
