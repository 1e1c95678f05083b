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

package harness

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/unikorn-cloud/books-contract/pkg/config"
	"github.com/unikorn-cloud/books-contract/pkg/openapi"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

// Harness executes scenarios against the configured service.
type Harness struct {
	config   *config.Configuration
	client   Doer
	contract *openapi.Contract
}

// Option customizes a Harness.
type Option func(*Harness)

// WithClient replaces the default HTTP client.
func WithClient(client Doer) Option {
	return func(h *Harness) {
		h.client = client
	}
}

// WithContract validates every response against the contract, an
// undocumented status or a body that violates its schema is a mismatch.
func WithContract(contract *openapi.Contract) Option {
	return func(h *Harness) {
		h.contract = contract
	}
}

// New creates a harness.  The configuration is shared, read only, by every
// scenario.
func New(config *config.Configuration, options ...Option) *Harness {
	h := &Harness{
		config: config,
		client: &http.Client{
			Timeout: config.RequestTimeout,
		},
	}

	for _, o := range options {
		o(h)
	}

	return h
}

// expectation is what a single request must observe.
type expectation struct {
	status       int
	contentType  string
	bodyContains *string
}

// credentials picks explicit credentials over the role's.
func (h *Harness) credentials(scenario *Scenario) (*config.Credentials, error) {
	if scenario.Credentials != nil {
		return scenario.Credentials, nil
	}

	if scenario.Role == "" {
		return nil, nil //nolint:nilnil
	}

	credentials, err := h.config.CredentialsFor(scenario.Role)
	if err != nil {
		return nil, err
	}

	return &credentials, nil
}

// Execute runs a single scenario.  Mismatches never return an error, they
// are recorded on the outcome.  A *TransportError is returned, and also
// recorded on the outcome, when a request could not complete.
func (h *Harness) Execute(ctx context.Context, scenario *Scenario) (*Outcome, error) {
	logger := log.FromContext(ctx).WithValues("scenario", scenario.Name)
	ctx = log.IntoContext(ctx, logger)

	start := time.Now()

	outcome := &Outcome{
		Scenario:       scenario.Name,
		Role:           scenario.Role,
		Method:         http.MethodPost,
		URL:            h.config.Resolve(scenario.Endpoint),
		RequestBody:    scenario.Body,
		ExpectedStatus: scenario.ExpectedStatus,
		KnownIssue:     scenario.KnownIssue,
	}

	defer func() {
		outcome.Duration = time.Since(start)
	}()

	credentials, err := h.credentials(scenario)
	if err != nil {
		outcome.Diagnostic = err.Error()

		return outcome, nil
	}

	path := requestPath(outcome.URL)

	var diagnostics []string

	for i := range scenario.Prior {
		step := &scenario.Prior[i]

		result, err := h.send(ctx, outcome.URL, credentials, step.Body)
		if err != nil {
			outcome.Err = err
			outcome.TraceID = result.traceID
			outcome.Curl = result.curl
			outcome.Diagnostic = fmt.Sprintf("prior request %d: %v", i+1, err)

			return outcome, err
		}

		problems := h.verify(path, result, expectation{
			status:      step.ExpectedStatus,
			contentType: step.ExpectedContentType,
		})

		stepOutcome := StepOutcome{
			Status:      result.status,
			Body:        string(result.body),
			ContentType: result.contentType,
			Matched:     len(problems) == 0,
			Diagnostic:  strings.Join(problems, "; "),
		}

		if !stepOutcome.Matched {
			diagnostics = append(diagnostics, fmt.Sprintf("prior request %d: %s (trace ID: %s)", i+1, stepOutcome.Diagnostic, result.traceID))
		}

		outcome.Prior = append(outcome.Prior, stepOutcome)
	}

	result, err := h.send(ctx, outcome.URL, credentials, scenario.Body)

	outcome.TraceID = result.traceID
	outcome.Curl = result.curl

	if err != nil {
		outcome.Err = err
		outcome.Diagnostic = fmt.Sprintf("%v (trace ID: %s)", err, result.traceID)

		return outcome, err
	}

	outcome.Status = result.status
	outcome.Body = string(result.body)
	outcome.ContentType = result.contentType

	problems := h.verify(path, result, expectation{
		status:       scenario.ExpectedStatus,
		contentType:  scenario.ExpectedContentType,
		bodyContains: scenario.ExpectedBodyContains,
	})

	if len(problems) > 0 {
		diagnostics = append(diagnostics, strings.Join(problems, "; ")+fmt.Sprintf(" (trace ID: %s)", result.traceID))
	}

	outcome.Matched = len(diagnostics) == 0
	outcome.Diagnostic = strings.Join(diagnostics, "; ")

	if !outcome.Matched {
		logger.Info("scenario mismatch", "diagnostic", outcome.Diagnostic, "curl", outcome.Curl)
	}

	return outcome, nil
}

// verify returns a description of every expectation that did not hold.
func (h *Harness) verify(path string, result *exchange, expected expectation) []string {
	var problems []string

	if result.status != expected.status {
		problems = append(problems, fmt.Sprintf("expected status %d, got %d", expected.status, result.status))
	}

	if expected.contentType != "" && !mediaTypeMatches(expected.contentType, result.contentType) {
		problems = append(problems, fmt.Sprintf("expected content type %q, got %q", expected.contentType, result.contentType))
	}

	if expected.bodyContains != nil && !strings.Contains(string(result.body), *expected.bodyContains) {
		problems = append(problems, fmt.Sprintf("expected body to contain %q, got %q", *expected.bodyContains, string(result.body)))
	}

	if h.contract != nil {
		if err := h.contract.ValidateResponse(http.MethodPost, path, result.status, result.contentType, result.body); err != nil {
			problems = append(problems, fmt.Sprintf("contract: %v", err))
		}
	}

	return problems
}

// mediaTypeMatches compares media types ignoring parameters such as charset.
func mediaTypeMatches(expected, actual string) bool {
	want, _, err := mime.ParseMediaType(expected)
	if err != nil {
		want = strings.ToLower(strings.TrimSpace(expected))
	}

	got, _, err := mime.ParseMediaType(actual)
	if err != nil {
		return false
	}

	return want == got
}

func requestPath(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	return u.Path
}

// RunSuite executes scenarios one at a time in declaration order.  Every
// scenario is executed, regardless of earlier failures, and an outcome is
// returned for each.
func (h *Harness) RunSuite(ctx context.Context, scenarios []*Scenario) []*Outcome {
	outcomes := make([]*Outcome, len(scenarios))

	for i, scenario := range scenarios {
		outcomes[i] = h.execute(ctx, scenario)
	}

	return outcomes
}

// RunSuiteParallel executes up to parallelism scenarios at once.  Outcomes
// are returned in declaration order.  Scenarios must be independent of one
// another for the results to be meaningful.
func (h *Harness) RunSuiteParallel(ctx context.Context, scenarios []*Scenario, parallelism int) []*Outcome {
	if parallelism <= 1 {
		return h.RunSuite(ctx, scenarios)
	}

	outcomes := make([]*Outcome, len(scenarios))

	var group errgroup.Group

	group.SetLimit(parallelism)

	for i, scenario := range scenarios {
		group.Go(func() error {
			outcomes[i] = h.execute(ctx, scenario)

			return nil
		})
	}

	_ = group.Wait()

	return outcomes
}

func (h *Harness) execute(ctx context.Context, scenario *Scenario) *Outcome {
	outcome, err := h.Execute(ctx, scenario)
	if err != nil {
		log.FromContext(ctx).Info("scenario did not complete", "scenario", scenario.Name, "error", err.Error())
	}

	return outcome
}
