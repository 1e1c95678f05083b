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

package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spjmurray/go-util/pkg/set"
	"gopkg.in/yaml.v3"

	"github.com/unikorn-cloud/books-contract/pkg/config"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"
)

var (
	// ErrInvalidScenario is raised when a scenario fails validation.
	ErrInvalidScenario = errors.New("invalid scenario")

	// ErrUnknownScenario is raised when a filter names a scenario that does not exist.
	ErrUnknownScenario = errors.New("unknown scenario")
)

//go:embed books.yaml
var booksCatalog []byte

// Credentials are explicit basic authentication credentials.
type Credentials struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Expect is what a request must observe.
type Expect struct {
	// Status is the expected HTTP status code.
	Status int `yaml:"status"`
	// ContentType, if set, is compared on media type only.
	ContentType string `yaml:"contentType,omitempty"`
	// BodyContains, if set, is a case sensitive substring of the body.
	BodyContains *string `yaml:"bodyContains,omitempty"`
}

// Step is a request sent before the main request.
type Step struct {
	Body      Payload `yaml:"body"`
	Malformed bool    `yaml:"malformed,omitempty"`
	Expect    Expect  `yaml:"expect"`
}

// Scenario is a catalog entry.
type Scenario struct {
	// Name uniquely identifies the scenario.
	Name string `yaml:"name"`
	// Description explains what the scenario checks.
	Description string `yaml:"description,omitempty"`
	// Role pins the scenario to a role regardless of the suite it runs in.
	Role config.Role `yaml:"role,omitempty"`
	// Credentials pins the scenario to explicit credentials.
	Credentials *Credentials `yaml:"credentials,omitempty"`
	// Endpoint overrides the configured endpoint.
	Endpoint string `yaml:"endpoint,omitempty"`
	// Body is the main request body.
	Body Payload `yaml:"body"`
	// Malformed allows a body that is not valid JSON.
	Malformed bool `yaml:"malformed,omitempty"`
	// Expect is what the main request must observe.
	Expect Expect `yaml:"expect"`
	// Prior requests are sent in order before the main request.
	Prior []Step `yaml:"prior,omitempty"`
	// KnownIssue documents a divergence the live service exhibits.
	KnownIssue string `yaml:"knownIssue,omitempty"`
}

// Catalog is an ordered list of scenarios.
type Catalog struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// Parse decodes and validates a catalog.  Unknown fields are rejected so
// typos are caught rather than silently ignored.
func Parse(data []byte) (*Catalog, error) {
	var catalog Catalog

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&catalog); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	if err := catalog.validate(); err != nil {
		return nil, err
	}

	return &catalog, nil
}

// Load reads a catalog from the filesystem.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	return Parse(data)
}

// Default returns the built in create book catalog.
func Default() (*Catalog, error) {
	return Parse(booksCatalog)
}

func validateExpect(expect *Expect) error {
	if expect.Status < 100 || expect.Status > 599 {
		return fmt.Errorf("status %d out of range", expect.Status)
	}

	return nil
}

func validateBody(body Payload, malformed bool) error {
	if !malformed && !json.Valid([]byte(body.Raw)) {
		return fmt.Errorf("body is not valid JSON, set malformed if that is intended")
	}

	return nil
}

func (s *Scenario) validate() error {
	var errs []error

	if s.Role != "" && s.Credentials != nil {
		errs = append(errs, fmt.Errorf("role and credentials are mutually exclusive"))
	}

	if err := validateBody(s.Body, s.Malformed); err != nil {
		errs = append(errs, err)
	}

	if err := validateExpect(&s.Expect); err != nil {
		errs = append(errs, err)
	}

	for i := range s.Prior {
		step := &s.Prior[i]

		if err := validateBody(step.Body, step.Malformed); err != nil {
			errs = append(errs, fmt.Errorf("prior %d: %w", i+1, err))
		}

		if err := validateExpect(&step.Expect); err != nil {
			errs = append(errs, fmt.Errorf("prior %d: %w", i+1, err))
		}
	}

	return utilerrors.NewAggregate(errs)
}

// validate checks every scenario and reports all problems at once.
func (c *Catalog) validate() error {
	var errs []error

	if len(c.Scenarios) == 0 {
		errs = append(errs, fmt.Errorf("%w: catalog has no scenarios", ErrInvalidScenario))
	}

	seen := map[string]bool{}

	for i := range c.Scenarios {
		scenario := &c.Scenarios[i]

		name := strings.TrimSpace(scenario.Name)
		if name == "" {
			errs = append(errs, fmt.Errorf("%w: scenario %d: name is required", ErrInvalidScenario, i+1))

			continue
		}

		if seen[name] {
			errs = append(errs, fmt.Errorf("%w: %s: duplicate name", ErrInvalidScenario, name))
		}

		seen[name] = true

		if err := scenario.validate(); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %w", ErrInvalidScenario, name, err))
		}
	}

	return utilerrors.NewAggregate(errs)
}

// Names lists scenario names in declaration order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.Scenarios))

	for i := range c.Scenarios {
		names[i] = c.Scenarios[i].Name
	}

	return names
}

// Filter returns a catalog holding only the named scenarios, still in
// declaration order.  Naming a scenario that does not exist is an error.
func (c *Catalog) Filter(names []string) (*Catalog, error) {
	if len(names) == 0 {
		return c, nil
	}

	known := set.New[string](c.Names()...)
	wanted := set.New[string](names...)

	if unknown := slices.Sorted(wanted.Difference(known).All()); len(unknown) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownScenario, strings.Join(unknown, ", "))
	}

	selected := map[string]bool{}

	for name := range known.Intersection(wanted).All() {
		selected[name] = true
	}

	filtered := &Catalog{}

	for _, scenario := range c.Scenarios {
		if selected[scenario.Name] {
			filtered.Scenarios = append(filtered.Scenarios, scenario)
		}
	}

	return filtered, nil
}
