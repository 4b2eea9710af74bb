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

package runner

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/teradata-labs/debatekernel/internal/domain"
	"github.com/teradata-labs/debatekernel/internal/log"
)

// RetryConfig controls the exponential backoff applied to LLM transport
// errors. Intent-validation failures are never retried — those indicate
// the agent violated its contract, not a transient transport issue.
type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	Multiplier   float64
}

// DefaultRetryConfig is 3 attempts with exponential backoff starting at
// 1s and doubling, so a turn that fails every attempt waits 1s then 2s.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{MaxAttempts: 3, InitialDelay: time.Second, Multiplier: 2}
}

// executeWithRetry invokes agent.Execute up to cfg.MaxAttempts times,
// starting the turn completely afresh on each retry — no partial state
// is retained between attempts, matching the agent's stateless contract.
func executeWithRetry(ctx context.Context, agent Agent, ac *domain.AgentContext, cfg RetryConfig) (*domain.AgentResponse, int, error) {
	delay := cfg.InitialDelay
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		resp, err := agent.Execute(ctx, ac)
		if err == nil {
			return resp, attempt, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, attempt, ctx.Err()
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		log.Warn("agent call failed, retrying",
			zap.String("agent", string(ac.Agent)),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return nil, attempt, ctx.Err()
		case <-time.After(delay):
		}
		delay = time.Duration(float64(delay) * cfg.Multiplier)
	}

	return nil, cfg.MaxAttempts, lastErr
}
