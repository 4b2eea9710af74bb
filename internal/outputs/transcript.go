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

// Package outputs derives the four artifact files from the canonical
// documents at the end of CLOSING, each as a pure function with no
// dependency on StateStore internals beyond the documents themselves.
package outputs

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"text/template"

	"github.com/teradata-labs/debatekernel/internal/domain"
	"github.com/teradata-labs/debatekernel/internal/kernelerr"
)

const transcriptTemplate = `# {{.Topic}}

Debate ID: {{.DebateID}}
Generated: {{.GeneratedAt}}

{{range .Turns}}
## Turn {{.TurnID}} — {{.Agent}} ({{.RoundLabel}}, round {{.Round}})

{{.Statement}}
{{if .Citations}}
Citations: {{range .Citations}}[{{.}}]({{.URL}}) {{end}}
{{end}}
{{end}}
`

type transcriptTurn struct {
	TurnID     int
	Agent      domain.AgentRole
	RoundLabel domain.RoundLabel
	Round      int
	Statement  string
	Citations  []transcriptCitation
}

type transcriptCitation struct {
	Key string
	URL string
}

func (c transcriptCitation) String() string { return c.Key }

// RenderTranscript writes outputs/transcript_full.md: the public
// transcript with citation keys linkified to their URLs.
func RenderTranscript(root string, h *domain.History, pool *domain.CitationPool, generatedAt string) error {
	tmpl, err := template.New("transcript").Parse(transcriptTemplate)
	if err != nil {
		return kernelerr.Wrap(kernelerr.ParseFailure, err, "parse transcript template")
	}

	turns := make([]transcriptTurn, len(h.PublicTranscript))
	for i, t := range h.PublicTranscript {
		cites := make([]transcriptCitation, 0, len(t.Citations))
		for _, key := range t.Citations {
			url := lookupURL(pool, key)
			cites = append(cites, transcriptCitation{Key: key, URL: url})
		}
		turns[i] = transcriptTurn{
			TurnID:     t.TurnID,
			Agent:      t.Agent,
			RoundLabel: t.RoundLabel,
			Round:      t.Round,
			Statement:  t.Statement,
			Citations:  cites,
		}
	}

	data := struct {
		Topic       string
		DebateID    string
		GeneratedAt string
		Turns       []transcriptTurn
	}{Topic: h.Topic, DebateID: h.DebateID, GeneratedAt: generatedAt, Turns: turns}

	path := filepath.Join(root, "outputs", "transcript_full.md")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return kernelerr.Wrap(kernelerr.ParseFailure, err, "create outputs dir")
	}
	f, err := os.Create(path)
	if err != nil {
		return kernelerr.Wrap(kernelerr.ParseFailure, err, "create transcript file")
	}
	defer f.Close()

	if err := tmpl.Execute(f, data); err != nil {
		return kernelerr.Wrap(kernelerr.ParseFailure, err, "render transcript")
	}
	return nil
}

func lookupURL(pool *domain.CitationPool, key string) string {
	if pool == nil {
		return ""
	}
	for _, ns := range pool.Namespaces {
		if c, ok := ns[key]; ok {
			return c.URL
		}
	}
	return ""
}

// RenderCitationLedger writes outputs/citation_ledger.json: citation_pool
// reformatted flat for auditing, sorted by key for deterministic output.
func RenderCitationLedger(root string, pool *domain.CitationPool) error {
	type entry struct {
		Key            string `json:"key"`
		Team           string `json:"team"`
		URL            string `json:"url"`
		AddedBy        string `json:"added_by"`
		Round          int    `json:"round"`
		Credibility    int    `json:"credibility"`
		Correspondence int    `json:"correspondence"`
		Verified       bool   `json:"verified"`
	}

	var entries []entry
	for _, ns := range pool.Namespaces {
		for _, c := range ns {
			entries = append(entries, entry{
				Key:            c.Key,
				Team:           string(c.Team),
				URL:            c.URL,
				AddedBy:        string(c.AddedBy),
				Round:          c.Round,
				Credibility:    c.Verification.Credibility,
				Correspondence: c.Verification.Correspondence,
				Verified:       c.Verification.VerifiedBy != "",
			})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })

	return writeJSON(filepath.Join(root, "outputs", "citation_ledger.json"), entries)
}

// RenderLogicMap writes outputs/debate_logic_map.json: the debate_latent
// document verbatim, since it is already the logic map's shape.
func RenderLogicMap(root string, dl *domain.DebateLatent) error {
	return writeJSON(filepath.Join(root, "outputs", "debate_logic_map.json"), dl)
}

// RenderSentimentGraph writes outputs/voter_sentiment_graph.csv: one row
// per voter, one column per voting round.
func RenderSentimentGraph(root string, co *domain.CrowdOpinion) error {
	maxRound := -1
	for _, v := range co.Voters {
		for _, e := range v.VotingRecord {
			if e.RoundSequence > maxRound {
				maxRound = e.RoundSequence
			}
		}
	}

	path := filepath.Join(root, "outputs", "voter_sentiment_graph.csv")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return kernelerr.Wrap(kernelerr.ParseFailure, err, "create outputs dir")
	}
	f, err := os.Create(path)
	if err != nil {
		return kernelerr.Wrap(kernelerr.ParseFailure, err, "create sentiment csv")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"voter_id", "persona"}
	for r := 0; r <= maxRound; r++ {
		header = append(header, fmt.Sprintf("round_%d", r))
	}
	if err := w.Write(header); err != nil {
		return kernelerr.Wrap(kernelerr.ParseFailure, err, "write csv header")
	}

	voters := append([]domain.Voter(nil), co.Voters...)
	sort.Slice(voters, func(i, j int) bool { return voters[i].VoterID < voters[j].VoterID })

	for _, v := range voters {
		scores := make(map[int]int, len(v.VotingRecord))
		for _, e := range v.VotingRecord {
			scores[e.RoundSequence] = e.Score
		}
		row := []string{v.VoterID, v.Persona}
		for r := 0; r <= maxRound; r++ {
			if s, ok := scores[r]; ok {
				row = append(row, strconv.Itoa(s))
			} else {
				row = append(row, "")
			}
		}
		if err := w.Write(row); err != nil {
			return kernelerr.Wrap(kernelerr.ParseFailure, err, "write csv row for %s", v.VoterID)
		}
	}
	w.Flush()
	return w.Error()
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return kernelerr.Wrap(kernelerr.ParseFailure, err, "create outputs dir")
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return kernelerr.Wrap(kernelerr.ParseFailure, err, "marshal %s", path)
	}
	b = append(b, '\n')
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return kernelerr.Wrap(kernelerr.ParseFailure, err, "write %s", path)
	}
	return nil
}
