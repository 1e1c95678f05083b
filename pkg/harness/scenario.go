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
	"time"

	"github.com/unikorn-cloud/books-contract/pkg/config"
)

// Step is a request issued ahead of a scenario's main request, e.g. to
// create the book a duplicate is then checked against.
type Step struct {
	// Body is sent verbatim.
	Body string
	// ExpectedStatus is the status the step must observe.
	ExpectedStatus int
	// ExpectedContentType, if set, is compared on media type only.
	ExpectedContentType string
}

// Scenario is a single declarative test case.  Scenarios are immutable once
// built and may be shared between goroutines.
type Scenario struct {
	// Name uniquely identifies the scenario within a suite.
	Name string
	// Description is free text for reports.
	Description string
	// Role selects credentials from the configuration.  An empty role with
	// no explicit credentials sends no Authorization header.
	Role config.Role
	// Credentials, when set, are used instead of the role's.  Empty
	// credentials send no Authorization header.
	Credentials *config.Credentials
	// Endpoint overrides the configured endpoint.  Absolute URLs are used
	// verbatim, anything else is a path relative to the base URL.
	Endpoint string
	// Body is sent verbatim, it need not be valid JSON.
	Body string
	// ExpectedStatus is the status the main request must observe.
	ExpectedStatus int
	// ExpectedBodyContains, if set, must be a case sensitive substring of
	// the response body.
	ExpectedBodyContains *string
	// ExpectedContentType, if set, is compared on media type only.
	ExpectedContentType string
	// Prior requests are issued in order before the main request with the
	// same credentials and endpoint.
	Prior []Step
	// KnownIssue names a divergence the live service is known to exhibit.
	KnownIssue string
}

// StepOutcome records the result of a prior step.
type StepOutcome struct {
	Status      int
	Body        string
	ContentType string
	Matched     bool
	Diagnostic  string
}

// Result classifies an outcome.
type Result string

const (
	// ResultPass means every expectation held.
	ResultPass Result = "pass"
	// ResultFail means an expectation did not hold.
	ResultFail Result = "fail"
	// ResultError means the scenario could not complete its requests.
	ResultError Result = "error"
)

// Outcome is the recorded result of executing a scenario.
type Outcome struct {
	// Scenario is the scenario name.
	Scenario string
	// Role is the role the scenario ran as.
	Role config.Role
	// Method and URL describe the main request.
	Method string
	URL    string
	// RequestBody is the main request body.
	RequestBody string
	// ExpectedStatus is copied from the scenario.
	ExpectedStatus int
	// Status is the observed status, zero if no response was received.
	Status int
	// Body is the observed response body.
	Body string
	// ContentType is the observed Content-Type header.
	ContentType string
	// Matched is true when every expectation, including those of prior
	// steps, held.
	Matched bool
	// Diagnostic describes every expectation that did not hold.
	Diagnostic string
	// Prior records prior step results in order.
	Prior []StepOutcome
	// Err is set to a *TransportError when a request could not complete.
	Err error
	// KnownIssue is copied from the scenario.
	KnownIssue string
	// TraceID is the W3C trace ID sent with the main request.
	TraceID string
	// Curl reproduces the main request, with the password redacted.
	Curl string
	// Duration is the wall time of the whole scenario.
	Duration time.Duration
}

// Result classifies the outcome.
func (o *Outcome) Result() Result {
	switch {
	case o.Err != nil:
		return ResultError
	case o.Matched:
		return ResultPass
	default:
		return ResultFail
	}
}

// KnownDivergence is true when the scenario failed and a known issue
// accounts for it.  It is still a failure.
func (o *Outcome) KnownDivergence() bool {
	return o.Result() == ResultFail && o.KnownIssue != ""
}
