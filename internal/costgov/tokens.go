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

// Package costgov tracks cumulative spend per debate and decides, before
// every Debator research turn, which research tier (DEEP, STANDARD,
// QUICK, or NONE) the remaining budget affords.
package costgov

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter counts input-context tokens with the cl100k_base encoding,
// a reasonable Claude-compatible approximation absent a model-specific
// tokenizer from the provider SDK.
type TokenCounter struct {
	mu      sync.Mutex
	encoder *tiktoken.Tiktoken
}

var (
	globalCounter     *TokenCounter
	globalCounterOnce sync.Once
)

// GetTokenCounter returns the process-wide counter, built once.
func GetTokenCounter() *TokenCounter {
	globalCounterOnce.Do(func() {
		tkm, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			globalCounter = &TokenCounter{encoder: nil}
			return
		}
		globalCounter = &TokenCounter{encoder: tkm}
	})
	return globalCounter
}

// Count returns the token count for text, falling back to a character
// heuristic if the encoder failed to load.
func (tc *TokenCounter) Count(text string) int {
	if tc.encoder == nil {
		return len(text) / 4
	}
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return len(tc.encoder.Encode(text, nil, nil))
}

// CountAll sums Count across multiple strings, for tallying an
// AgentContext's filtered state alongside its instructions.
func (tc *TokenCounter) CountAll(texts ...string) int {
	total := 0
	for _, t := range texts {
		total += tc.Count(t)
	}
	return total
}
