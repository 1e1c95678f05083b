/*
Copyright 2026 the Unikorn Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/unikorn-cloud/books-contract/pkg/harness"
)

// Summary counts outcomes by result.
type Summary struct {
	Total            int `json:"total"`
	Passed           int `json:"passed"`
	Failed           int `json:"failed"`
	Errors           int `json:"errors"`
	KnownDivergences int `json:"knownDivergences"`
}

// Report is a single run of a suite.
type Report struct {
	// RunID identifies the run in every output format.
	RunID uuid.UUID
	// Started is when the first scenario was issued.
	Started time.Time
	// Duration is the wall time of the whole run.
	Duration time.Duration
	// Outcomes in scenario order.
	Outcomes []*harness.Outcome
}

// New creates a report for a run that started and finished at the given times.
func New(started, finished time.Time, outcomes []*harness.Outcome) *Report {
	return &Report{
		RunID:    uuid.New(),
		Started:  started,
		Duration: finished.Sub(started),
		Outcomes: outcomes,
	}
}

// Summary tallies the outcomes.
func (r *Report) Summary() Summary {
	summary := Summary{
		Total: len(r.Outcomes),
	}

	for _, outcome := range r.Outcomes {
		switch outcome.Result() {
		case harness.ResultPass:
			summary.Passed++
		case harness.ResultFail:
			summary.Failed++
		case harness.ResultError:
			summary.Errors++
		}

		if outcome.KnownDivergence() {
			summary.KnownDivergences++
		}
	}

	return summary
}

// Succeeded is true when every scenario passed.
func (r *Report) Succeeded() bool {
	summary := r.Summary()

	return summary.Passed == summary.Total
}

func label(outcome *harness.Outcome) string {
	return strings.ToUpper(string(outcome.Result()))
}

func roleName(outcome *harness.Outcome) string {
	if outcome.Role == "" {
		return "anonymous"
	}

	return string(outcome.Role)
}

// WriteText renders a human readable report, one line per scenario with any
// diagnostics indented beneath it, followed by a summary.
func (r *Report) WriteText(w io.Writer) error {
	var b strings.Builder

	for _, outcome := range r.Outcomes {
		fmt.Fprintf(&b, "%-5s %s (%s): expected %d, got %d\n", label(outcome), outcome.Scenario, roleName(outcome), outcome.ExpectedStatus, outcome.Status)

		if outcome.Result() == harness.ResultPass {
			continue
		}

		if outcome.Diagnostic != "" {
			fmt.Fprintf(&b, "      %s\n", outcome.Diagnostic)
		}

		if outcome.KnownIssue != "" {
			fmt.Fprintf(&b, "      known issue: %s\n", outcome.KnownIssue)
		}
	}

	summary := r.Summary()

	fmt.Fprintf(&b, "\nrun %s: %d scenarios, %d passed, %d failed (%d known), %d errors in %s\n",
		r.RunID, summary.Total, summary.Passed, summary.Failed, summary.KnownDivergences, summary.Errors, r.Duration)

	_, err := io.WriteString(w, b.String())

	return err
}

type outcomeJSON struct {
	Name            string         `json:"name"`
	Role            string         `json:"role"`
	Result          harness.Result `json:"result"`
	ExpectedStatus  int            `json:"expectedStatus"`
	Status          int            `json:"status"`
	Diagnostic      string         `json:"diagnostic,omitempty"`
	KnownIssue      string         `json:"knownIssue,omitempty"`
	KnownDivergence bool           `json:"knownDivergence"`
	TraceID         string         `json:"traceId,omitempty"`
	Curl            string         `json:"curl,omitempty"`
	DurationMS      int64          `json:"durationMs"`
}

type reportJSON struct {
	RunID      string        `json:"runId"`
	Started    string        `json:"started"`
	DurationMS int64         `json:"durationMs"`
	Summary    Summary       `json:"summary"`
	Outcomes   []outcomeJSON `json:"outcomes"`
}

// WriteJSON renders the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	out := &reportJSON{
		RunID:      r.RunID.String(),
		Started:    r.Started.UTC().Format(time.RFC3339),
		DurationMS: r.Duration.Milliseconds(),
		Summary:    r.Summary(),
		Outcomes:   make([]outcomeJSON, len(r.Outcomes)),
	}

	for i, outcome := range r.Outcomes {
		out.Outcomes[i] = outcomeJSON{
			Name:            outcome.Scenario,
			Role:            roleName(outcome),
			Result:          outcome.Result(),
			ExpectedStatus:  outcome.ExpectedStatus,
			Status:          outcome.Status,
			Diagnostic:      outcome.Diagnostic,
			KnownIssue:      outcome.KnownIssue,
			KnownDivergence: outcome.KnownDivergence(),
			TraceID:         outcome.TraceID,
			Curl:            outcome.Curl,
			DurationMS:      outcome.Duration.Milliseconds(),
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")

	return encoder.Encode(out)
}
