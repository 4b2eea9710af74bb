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

// Package phase implements the debate's one-way phase/turn state machine:
// INIT -> OPENING -> ROUNDS -> CLOSING -> DONE. It tracks turn count,
// round number, and current speaker, and is serialized verbatim into the
// checkpoint document.
package phase

import (
	"github.com/teradata-labs/debatekernel/internal/domain"
	"github.com/teradata-labs/debatekernel/internal/kernelerr"
)

var legalTransitions = map[domain.Phase]domain.Phase{
	domain.PhaseInit:    domain.PhaseOpening,
	domain.PhaseOpening: domain.PhaseRounds,
	domain.PhaseRounds:  domain.PhaseClosing,
	domain.PhaseClosing: domain.PhaseDone,
}

// Machine tracks the mutable cursor into the debate schedule.
type Machine struct {
	phase          domain.Phase
	round          int
	turnCount      int
	currentSpeaker domain.AgentRole
	rounds         int // total ROUNDS-phase rounds (R in the schedule, default 2)
}

// New returns a machine positioned at INIT, ready for Vote 0.
func New(totalRounds int) *Machine {
	return &Machine{phase: domain.PhaseInit, rounds: totalRounds}
}

// Restore reconstructs a machine from a checkpoint's serialized fields,
// for resume. It does not validate the values: a corrupt checkpoint is a
// bug in whatever wrote it, not something Machine can repair.
func Restore(phase domain.Phase, round, turnCount int, currentSpeaker domain.AgentRole, totalRounds int) *Machine {
	return &Machine{phase: phase, round: round, turnCount: turnCount, currentSpeaker: currentSpeaker, rounds: totalRounds}
}

func (m *Machine) Phase() domain.Phase            { return m.phase }
func (m *Machine) Round() int                     { return m.round }
func (m *Machine) TurnCount() int                 { return m.turnCount }
func (m *Machine) CurrentSpeaker() domain.AgentRole { return m.currentSpeaker }
func (m *Machine) TotalRounds() int               { return m.rounds }

// LastRound reports whether m.round is the final ROUNDS-phase round
// (round 1+rounds), after which the schedule moves to CLOSING.
func (m *Machine) LastRound() bool {
	return m.round >= 1+m.rounds
}

// ClosingRoundPending reports whether CLOSING still needs its own round
// number advanced once, mirroring the INIT->OPENING boundary case: CLOSING
// must not reuse the final ROUNDS-phase round, or the Judge's APPEND_LATENT
// entry for it would collide with the one already recorded for that round.
func (m *Machine) ClosingRoundPending() bool {
	return m.phase == domain.PhaseClosing && m.round == 1+m.rounds
}

// Transition moves the machine to the next phase. Only the pairs in
// legalTransitions are permitted; anything else is InvalidTransition,
// which is fatal and never retried.
func (m *Machine) Transition(to domain.Phase) error {
	want, ok := legalTransitions[m.phase]
	if !ok || want != to {
		return kernelerr.New(kernelerr.InvalidTransition, "cannot move from %s to %s", m.phase, to)
	}
	m.phase = to
	return nil
}

// NextTurn records that agent is about to speak and increments the turn
// counter. It does not itself validate that agent is next in the
// schedule; the moderator walks OrderFor to pick the speaker.
func (m *Machine) NextTurn(agent domain.AgentRole) {
	m.turnCount++
	m.currentSpeaker = agent
}

// NextRound increments the round number. Valid in ROUNDS, once at the
// INIT->OPENING boundary to enter round 1, and once at the ROUNDS->CLOSING
// boundary to give CLOSING its own round.
func (m *Machine) NextRound() error {
	openingBoundary := m.phase == domain.PhaseOpening && m.round == 0
	if m.phase != domain.PhaseRounds && !openingBoundary && !m.ClosingRoundPending() {
		return kernelerr.New(kernelerr.InvalidTransition, "next_round invalid in phase %s", m.phase)
	}
	m.round++
	return nil
}
