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

// Package eventlog appends structured events and raw provider calls to
// their respective JSONL files. Both logs are single-writer, append-only,
// and strictly reflect the order the kernel observed events — a batch
// turn produces exactly one raw-call entry, never one per persona.
package eventlog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/teradata-labs/debatekernel/internal/domain"
	"github.com/teradata-labs/debatekernel/internal/kernelerr"
	"github.com/teradata-labs/debatekernel/internal/log"
)

// Logger appends to events.jsonl and raw_calls.jsonl under one debate
// root, mirroring every event to the ambient zap logger as well.
type Logger struct {
	mu         sync.Mutex
	eventsPath string
	callsPath  string
}

// New returns a Logger rooted at dir. The files are created lazily on
// first append.
func New(dir string) *Logger {
	return &Logger{
		eventsPath: filepath.Join(dir, "events.jsonl"),
		callsPath:  filepath.Join(dir, "raw_calls.jsonl"),
	}
}

// Event appends one events.jsonl line and mirrors it to the ambient
// logger at info level.
func (l *Logger) Event(ev domain.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := appendJSONLine(l.eventsPath, ev); err != nil {
		return err
	}
	log.Info("debate event",
		zap.String("debate_id", ev.DebateID),
		zap.String("kind", ev.Kind),
		zap.Any("detail", ev.Detail),
	)
	return nil
}

// RawCall appends one raw_calls.jsonl line for a single-turn agent call.
func (l *Logger) RawCall(rec domain.TurnRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return appendJSONLine(l.callsPath, rec)
}

// BatchCall appends exactly one raw_calls.jsonl line summarizing an
// entire crowd-voting batch, never one line per persona.
func (l *Logger) BatchCall(rec BatchRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return appendJSONLine(l.callsPath, rec)
}

// BatchRecord is the raw_calls.jsonl shape for a crowd voting round:
// call_type=batch, one entry regardless of batch_size.
type BatchRecord struct {
	DebateID  string    `json:"debate_id"`
	CallType  string    `json:"call_type"`
	Agent     string    `json:"agent"`
	BatchSize int       `json:"batch_size"`
	ModelID   string    `json:"model_id"`
	Prompts   []string  `json:"prompts"`
	Responses []string  `json:"responses"`
	Cost      float64   `json:"cost"`
}

func appendJSONLine(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return kernelerr.Wrap(kernelerr.ParseFailure, err, "create log dir for %s", path)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return kernelerr.Wrap(kernelerr.ParseFailure, err, "open %s", path)
	}
	defer f.Close()

	b, err := json.Marshal(v)
	if err != nil {
		return kernelerr.Wrap(kernelerr.ParseFailure, err, "marshal line for %s", path)
	}
	b = append(b, '\n')
	if _, err := f.Write(b); err != nil {
		return kernelerr.Wrap(kernelerr.ParseFailure, err, "append to %s", path)
	}
	return nil
}
