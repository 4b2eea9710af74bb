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

// Package checkpoint persists and reloads the debate's crash-recovery
// document. A checkpoint's presence or absence is the single signal the
// moderator uses to decide whether a run is fresh or resumed; it must be
// checked before the state store ever initializes its documents.
package checkpoint

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/teradata-labs/debatekernel/internal/domain"
	"github.com/teradata-labs/debatekernel/internal/kernelerr"
)

const fileName = "checkpoint.json"

// Store reads and writes checkpoint.json for one debate root.
type Store struct {
	root string
}

// New returns a Store rooted at dir.
func New(dir string) *Store {
	return &Store{root: dir}
}

func (s *Store) path() string {
	return filepath.Join(s.root, fileName)
}

// Exists reports whether a checkpoint is already on disk. The moderator
// calls this before StateStore.InitializeFiles; a true result means the
// debate must resume, never reinitialize.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path())
	return err == nil
}

// Load reads the checkpoint document. Callers should have already
// checked Exists.
func (s *Store) Load() (*domain.Checkpoint, error) {
	b, err := os.ReadFile(s.path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, kernelerr.Wrap(kernelerr.ParseFailure, err, "no checkpoint at %s", s.path())
		}
		return nil, kernelerr.Wrap(kernelerr.ParseFailure, err, "read checkpoint")
	}
	var cp domain.Checkpoint
	if err := json.Unmarshal(b, &cp); err != nil {
		return nil, kernelerr.Wrap(kernelerr.ParseFailure, err, "parse checkpoint")
	}
	return &cp, nil
}

// Save writes the checkpoint atomically: temp file, fsync, rename. Same
// discipline as every canonical document the state store owns.
func (s *Store) Save(cp *domain.Checkpoint) error {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return kernelerr.Wrap(kernelerr.ParseFailure, err, "create checkpoint dir")
	}

	b, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return kernelerr.Wrap(kernelerr.ParseFailure, err, "marshal checkpoint")
	}
	b = append(b, '\n')

	tmp, err := os.CreateTemp(s.root, ".tmp-checkpoint-*")
	if err != nil {
		return kernelerr.Wrap(kernelerr.ParseFailure, err, "create temp checkpoint")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return kernelerr.Wrap(kernelerr.ParseFailure, err, "write temp checkpoint")
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return kernelerr.Wrap(kernelerr.ParseFailure, err, "fsync temp checkpoint")
	}
	if err := tmp.Close(); err != nil {
		return kernelerr.Wrap(kernelerr.ParseFailure, err, "close temp checkpoint")
	}
	if err := os.Rename(tmpName, s.path()); err != nil {
		return kernelerr.Wrap(kernelerr.ParseFailure, err, "rename checkpoint into place")
	}
	return nil
}

// ShouldCheckpointAfter reports whether completing a turn by the given
// agent in the given phase should trigger a checkpoint, per the
// CheckpointStore trigger list: vote 0, every Debator turn, every Judge
// turn, and every phase transition (phaseChanged covers the last case).
func ShouldCheckpointAfter(phase domain.Phase, agent domain.AgentRole, phaseChanged bool) bool {
	if phaseChanged {
		return true
	}
	if phase == domain.PhaseInit && agent == domain.RoleCrowd {
		return true // Vote 0
	}
	switch agent {
	case domain.RoleDebatorA, domain.RoleDebatorB, domain.RoleJudge:
		return true
	default:
		return false
	}
}
