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

// Package agents implements the five agent contracts (Debator,
// FactChecker, Judge, Crowd, Vote-0 Initializer) as the single Execute
// method the runner depends on. Every agent constrains its model prompt
// to a JSON shape and falls back to a regex extractor, then safe
// defaults, when the model doesn't comply.
package agents

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/teradata-labs/debatekernel/internal/domain"
)

// renderTranscript renders the public transcript as plain text for
// inclusion in a prompt.
func renderTranscript(h *domain.History) string {
	if h == nil || len(h.PublicTranscript) == 0 {
		return "(no turns yet)"
	}
	var b strings.Builder
	for _, t := range h.PublicTranscript {
		fmt.Fprintf(&b, "[turn %d | round %d | %s | %s]: %s\n", t.TurnID, t.Round, t.RoundLabel, t.Agent, t.Statement)
		for _, c := range t.Citations {
			fmt.Fprintf(&b, "  cites: %s\n", c)
		}
	}
	return b.String()
}

// renderTeamNotes renders a team's private note stream.
func renderTeamNotes(h *domain.History, team domain.Team) string {
	if h == nil {
		return "(none)"
	}
	notes := h.TeamNotes[team]
	if len(notes) == 0 {
		return "(none)"
	}
	var b strings.Builder
	for _, n := range notes {
		fmt.Fprintf(&b, "[round %d | %s]: %s\n", n.Round, n.Agent, n.Text)
	}
	return b.String()
}

// renderLatest renders the most recent latent-round entry, if any.
func renderLatest(dl *domain.DebateLatent) string {
	if dl == nil || len(dl.RoundHistory) == 0 {
		return "(no disagreement frontier yet)"
	}
	latest := dl.RoundHistory[len(dl.RoundHistory)-1]
	var b strings.Builder
	fmt.Fprintf(&b, "Consensus: %s\n", strings.Join(latest.Consensus, "; "))
	b.WriteString("Disagreement frontier:\n")
	for _, d := range latest.DisagreementFrontier {
		fmt.Fprintf(&b, "  - %s (A: %s | B: %s)\n", d.CoreIssue, d.AStance, d.BStance)
	}
	return b.String()
}

// renderCitations renders one team's citation namespace, including
// verification state. The Judge's prompt renders both teams with it.
func renderCitations(pool *domain.CitationPool, team domain.Team) string {
	if pool == nil {
		return "(none)"
	}
	ns := pool.Namespaces[team]
	if len(ns) == 0 {
		return "(none)"
	}
	var b strings.Builder
	for key, c := range ns {
		fmt.Fprintf(&b, "%s: %s (credibility=%d correspondence=%d comment=%q response=%q)\n",
			key, c.URL, c.Verification.Credibility, c.Verification.Correspondence,
			c.Verification.AdversaryComment, c.Verification.ProponentResponse)
	}
	return b.String()
}

// extractJSONObject finds the first top-level {...} region in raw model
// output, tolerating surrounding prose or markdown fencing.
func extractJSONObject(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return raw[start : end+1]
}

// tryParseJSON attempts to unmarshal raw model output into v after
// extracting the JSON object region. Returns false on any failure so the
// caller can fall through to its regex fallback.
func tryParseJSON(raw string, v any) bool {
	obj := extractJSONObject(raw)
	if obj == "" {
		return false
	}
	return json.Unmarshal([]byte(obj), v) == nil
}

var integerRe = regexp.MustCompile(`-?\d+`)

// extractFirstInt is the regex-based fallback for fields that should be a
// small integer (credibility, correspondence, score) when JSON parsing
// fails outright.
func extractFirstInt(raw string, fallback int) int {
	m := integerRe.FindString(raw)
	if m == "" {
		return fallback
	}
	var n int
	if _, err := fmt.Sscanf(m, "%d", &n); err != nil {
		return fallback
	}
	return n
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
