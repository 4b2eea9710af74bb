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

// Package llm defines the narrow provider-invocation interface the kernel
// depends on. Auth, streaming, and HTTP-layer retries are the concern of
// whatever implements it; the kernel only ever calls Invoke or InvokeBatch.
package llm

import (
	"context"
	"time"
)

// Params bounds a single provider call. Each calling agent sets these
// from its own fixed values; the cost governor's tier and Limits are not
// read when building them.
type Params struct {
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// Prompt is one half of a batch entry: a system/user pair evaluated
// independently of the others in the same batch.
type Prompt struct {
	System string
	User   string
}

// Client is the only interface the kernel depends on from an LLM provider.
type Client interface {
	// Invoke makes a single-turn call and returns the model's raw text.
	Invoke(ctx context.Context, modelID, systemPrompt, userPrompt string, params Params) (string, error)

	// InvokeBatch evaluates N prompts concurrently and returns N texts in
	// the same order as prompts.
	InvokeBatch(ctx context.Context, modelID string, prompts []Prompt, params Params) ([]string, error)
}
