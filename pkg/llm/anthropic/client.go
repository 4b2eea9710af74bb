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

// Package anthropic implements llm.Client against the Anthropic Messages
// API via the official SDK.
package anthropic

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"golang.org/x/sync/errgroup"

	"github.com/teradata-labs/debatekernel/pkg/llm"
)

const (
	// DefaultModel is used when a caller does not pin a model id.
	DefaultModel = "claude-sonnet-4-5"
	// DefaultMaxConcurrency bounds in-flight batch calls absent an explicit override.
	DefaultMaxConcurrency = 16
)

// Client implements llm.Client for Anthropic's Claude API.
type Client struct {
	sdk            anthropic.Client
	rateLimiter    *llm.RateLimiter
	maxConcurrency int
}

// Config configures a Client.
type Config struct {
	APIKey            string // falls back to DEBATEKERNEL_PROVIDER_API_KEY if empty
	BaseURL           string // falls back to ANTHROPIC_API_ENDPOINT, then the SDK default
	MaxConcurrency    int    // batch fan-out cap; default DefaultMaxConcurrency
	RateLimiterConfig llm.RateLimiterConfig
}

var (
	globalRateLimiter     *llm.RateLimiter
	globalRateLimiterOnce sync.Once
)

func getOrCreateGlobalRateLimiter(cfg llm.RateLimiterConfig) *llm.RateLimiter {
	globalRateLimiterOnce.Do(func() {
		globalRateLimiter = llm.NewRateLimiter(cfg)
	})
	return globalRateLimiter
}

// NewClient builds a Client, resolving missing config from the environment
// the same way the kernel resolves every other external credential.
func NewClient(cfg Config) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("DEBATEKERNEL_PROVIDER_API_KEY")
	}
	if cfg.MaxConcurrency == 0 {
		cfg.MaxConcurrency = DefaultMaxConcurrency
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if baseURL := cfg.BaseURL; baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	} else if envURL := os.Getenv("ANTHROPIC_API_ENDPOINT"); envURL != "" {
		opts = append(opts, option.WithBaseURL(envURL))
	}

	var rl *llm.RateLimiter
	if cfg.RateLimiterConfig.Enabled {
		rl = getOrCreateGlobalRateLimiter(cfg.RateLimiterConfig)
	}

	return &Client{
		sdk:            anthropic.NewClient(opts...),
		rateLimiter:    rl,
		maxConcurrency: cfg.MaxConcurrency,
	}
}

// Invoke makes a single-turn call and returns the model's raw text.
func (c *Client) Invoke(ctx context.Context, modelID, systemPrompt, userPrompt string, params llm.Params) (string, error) {
	if params.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, params.Timeout)
		defer cancel()
	}

	model := anthropic.Model(modelID)
	if modelID == "" {
		model = anthropic.Model(DefaultModel)
	}

	req := anthropic.MessageNewParams{
		Model:     model,
		MaxTokens: int64(maxTokensOrDefault(params.MaxTokens)),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}
	if systemPrompt != "" {
		req.System = []anthropic.TextBlockParam{{Text: systemPrompt}}
	}
	if params.Temperature > 0 {
		req.Temperature = anthropic.Float(params.Temperature)
	}

	call := func(ctx context.Context) (interface{}, error) {
		return c.sdk.Messages.New(ctx, req)
	}

	var result interface{}
	var err error
	if c.rateLimiter != nil {
		result, err = c.rateLimiter.Do(ctx, call)
	} else {
		result, err = call(ctx)
	}
	if err != nil {
		return "", fmt.Errorf("anthropic messages.new: %w", err)
	}

	msg := result.(*anthropic.Message)
	return extractText(msg), nil
}

// InvokeBatch evaluates N prompts concurrently, bounded by maxConcurrency,
// and returns N texts in the same order as prompts.
func (c *Client) InvokeBatch(ctx context.Context, modelID string, prompts []llm.Prompt, params llm.Params) ([]string, error) {
	results := make([]string, len(prompts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.maxConcurrency)

	for i, p := range prompts {
		i, p := i, p
		g.Go(func() error {
			text, err := c.Invoke(gctx, modelID, p.System, p.User, params)
			if err != nil {
				return fmt.Errorf("batch item %d: %w", i, err)
			}
			results[i] = text
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func maxTokensOrDefault(n int) int {
	if n <= 0 {
		return 4096
	}
	return n
}

func extractText(msg *anthropic.Message) string {
	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	return text
}

var _ llm.Client = (*Client)(nil)
