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

// Package runner is the single code path through which every agent turn
// passes: build a permission-filtered context, invoke the agent contract,
// validate the response's intents, apply them through the state store,
// and checkpoint when policy demands.
package runner

import (
	"context"

	"github.com/teradata-labs/debatekernel/internal/domain"
)

// Agent is the single polymorphic contract every agent class implements.
// Agents differ only in which intent kinds they are permitted to emit;
// AgentRunner enforces that boundary independently of what the agent
// returns.
type Agent interface {
	Execute(ctx context.Context, ac *domain.AgentContext) (*domain.AgentResponse, error)
}
