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

// Package statestore owns the four canonical debate documents on disk and
// is the only component permitted to mutate them. Every write lands
// through a sibling temp file, fsync, and rename, so a crash mid-write
// never leaves a partially written document behind. Reads are permission
// filtered per agent and always returned as deep copies: an agent that
// mutates its own snapshot can never touch committed state.
package statestore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/teradata-labs/debatekernel/internal/domain"
	"github.com/teradata-labs/debatekernel/internal/kernelerr"
	"github.com/teradata-labs/debatekernel/internal/log"
)

const (
	historyFile      = "history_chat.json"
	citationPoolFile = "citation_pool.json"
	debateLatentFile = "debate_latent.json"
	crowdOpinionFile = "crowd_opinion.json"
)

// Store owns the four canonical documents for a single debate. It is not
// safe for concurrent use from more than one goroutine; the kernel is
// single-writer by construction and never needs to be.
type Store struct {
	mu   sync.Mutex
	root string

	history      *domain.History
	citationPool *domain.CitationPool
	debateLatent *domain.DebateLatent
	crowdOpinion *domain.CrowdOpinion
}

// New returns a Store rooted at dir. It does not touch disk.
func New(dir string) *Store {
	return &Store{root: dir}
}

// InitializeFiles creates all four canonical documents fresh for a new
// debate. Callers MUST check for a checkpoint before calling this — a
// resumed debate must never re-enter this path.
func (s *Store) InitializeFiles(debateID, topic string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return kernelerr.Wrap(kernelerr.ParseFailure, err, "create debate root %s", s.root)
	}

	now := time.Now()
	s.history = &domain.History{
		DebateID:     debateID,
		Topic:        topic,
		CreatedAt:    now,
		CurrentPhase: domain.PhaseInit,
		TeamNotes:    map[domain.Team][]domain.TeamNote{domain.TeamA: {}, domain.TeamB: {}},
	}
	s.citationPool = &domain.CitationPool{
		DebateID:   debateID,
		Namespaces: map[domain.Team]map[string]*domain.Citation{domain.TeamA: {}, domain.TeamB: {}},
		NextSeq:    map[domain.Team]int{domain.TeamA: 1, domain.TeamB: 1},
		ByRound:    map[int][]string{},
	}
	s.debateLatent = &domain.DebateLatent{DebateID: debateID}
	s.crowdOpinion = &domain.CrowdOpinion{DebateID: debateID}

	if err := s.persistAll(); err != nil {
		return err
	}
	log.Info("state store initialized", zap.String("debate_id", debateID))
	return nil
}

// Load reads all four canonical documents from disk into memory, for a
// resumed debate. The caller is responsible for having already found a
// checkpoint before calling this.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var h domain.History
	if err := readJSON(filepath.Join(s.root, historyFile), &h); err != nil {
		return err
	}
	var cp domain.CitationPool
	if err := readJSON(filepath.Join(s.root, citationPoolFile), &cp); err != nil {
		return err
	}
	var dl domain.DebateLatent
	if err := readJSON(filepath.Join(s.root, debateLatentFile), &dl); err != nil {
		return err
	}
	var co domain.CrowdOpinion
	if err := readJSON(filepath.Join(s.root, crowdOpinionFile), &co); err != nil {
		return err
	}

	s.history, s.citationPool, s.debateLatent, s.crowdOpinion = &h, &cp, &dl, &co
	return nil
}

func readJSON(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return kernelerr.Wrap(kernelerr.ParseFailure, err, "read %s", path)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return kernelerr.Wrap(kernelerr.ParseFailure, err, "parse %s", path)
	}
	return nil
}

// writeAtomic writes v as pretty-printed JSON to a sibling temp file,
// fsyncs it, then renames it over path.
func writeAtomic(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return kernelerr.Wrap(kernelerr.ParseFailure, err, "marshal %s", path)
	}
	b = append(b, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return kernelerr.Wrap(kernelerr.ParseFailure, err, "create temp for %s", path)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return kernelerr.Wrap(kernelerr.ParseFailure, err, "write temp for %s", path)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return kernelerr.Wrap(kernelerr.ParseFailure, err, "fsync temp for %s", path)
	}
	if err := tmp.Close(); err != nil {
		return kernelerr.Wrap(kernelerr.ParseFailure, err, "close temp for %s", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return kernelerr.Wrap(kernelerr.ParseFailure, err, "rename into %s", path)
	}
	return nil
}

func (s *Store) persistAll() error {
	if err := writeAtomic(filepath.Join(s.root, historyFile), s.history); err != nil {
		return err
	}
	if err := writeAtomic(filepath.Join(s.root, citationPoolFile), s.citationPool); err != nil {
		return err
	}
	if err := writeAtomic(filepath.Join(s.root, debateLatentFile), s.debateLatent); err != nil {
		return err
	}
	if err := writeAtomic(filepath.Join(s.root, crowdOpinionFile), s.crowdOpinion); err != nil {
		return err
	}
	return nil
}

// SetPhase updates the history document's current_phase, the field every
// read-scope and write-rule check derives an agent's phase from. The
// kernel calls this immediately after the phase machine transitions, so
// the two never drift.
func (s *Store) SetPhase(p domain.Phase) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history.CurrentPhase = p
	return s.persistHistory()
}

// SetRound updates the history document's current_round, mirroring the
// phase machine's round counter.
func (s *Store) SetRound(round int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history.CurrentRound = round
	return s.persistHistory()
}

func (s *Store) persistHistory() error      { return writeAtomic(filepath.Join(s.root, historyFile), s.history) }
func (s *Store) persistCitations() error    { return writeAtomic(filepath.Join(s.root, citationPoolFile), s.citationPool) }
func (s *Store) persistLatent() error       { return writeAtomic(filepath.Join(s.root, debateLatentFile), s.debateLatent) }
func (s *Store) persistCrowd() error        { return writeAtomic(filepath.Join(s.root, crowdOpinionFile), s.crowdOpinion) }

// History returns the live document pointer for components (e.g. the
// phase machine, checkpoint writer) that are trusted with direct access.
// Agent-facing code must go through ReadFor instead.
func (s *Store) History() *domain.History           { return s.history }
func (s *Store) CitationPool() *domain.CitationPool { return s.citationPool }
func (s *Store) DebateLatent() *domain.DebateLatent { return s.debateLatent }
func (s *Store) CrowdOpinion() *domain.CrowdOpinion { return s.crowdOpinion }
