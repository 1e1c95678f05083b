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

//nolint:revive,staticcheck // dot imports are standard for Ginkgo/Gomega test code
package conformance_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/unikorn-cloud/books-contract/pkg/catalog"
	"github.com/unikorn-cloud/books-contract/pkg/config"
	"github.com/unikorn-cloud/books-contract/pkg/harness"
	"github.com/unikorn-cloud/books-contract/pkg/openapi"
	"github.com/unikorn-cloud/books-contract/pkg/server"
	"github.com/unikorn-cloud/books-contract/pkg/server/handler"
)

// newTwin starts a books twin with an empty store and returns a
// configuration pointing at it.
func newTwin(quirks handler.Quirks) *config.Configuration {
	options := handler.NewOptions()
	options.Quirks = quirks

	twin := httptest.NewServer(server.NewRouter(options))
	DeferCleanup(twin.Close)

	return &config.Configuration{
		BaseURL:  twin.URL,
		Endpoint: openapi.CreateBookPath,
		Credentials: map[config.Role]config.Credentials{
			config.RoleAdmin:   {Username: "admin", Password: "password"},
			config.RoleUser:    {Username: "user", Password: "password"},
			config.RoleInvalid: {Username: "dev", Password: "123"},
		},
		RequestTimeout: 5 * time.Second,
	}
}

func resolve(cfg *config.Configuration, roles ...config.Role) []*harness.Scenario {
	c, err := catalog.Default()
	Expect(err).NotTo(HaveOccurred())

	scenarios, err := catalog.Resolve(c, cfg, roles)
	Expect(err).NotTo(HaveOccurred())

	return scenarios
}

func newHarness(cfg *config.Configuration) *harness.Harness {
	contract, err := openapi.Default()
	Expect(err).NotTo(HaveOccurred())

	return harness.New(cfg, harness.WithContract(contract))
}

func listBookIDs(ctx context.Context, cfg *config.Configuration) []int {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.URL(), nil)
	Expect(err).NotTo(HaveOccurred())

	req.SetBasicAuth("admin", "password")

	resp, err := http.DefaultClient.Do(req)
	Expect(err).NotTo(HaveOccurred())

	defer resp.Body.Close()

	Expect(resp.StatusCode).To(Equal(http.StatusOK))

	var books openapi.Books
	Expect(json.NewDecoder(resp.Body).Decode(&books)).To(Succeed())

	ids := make([]int, len(books))
	for i := range books {
		ids[i] = books[i].ID
	}

	return ids
}

func mismatched(outcomes []*harness.Outcome) []string {
	var names []string

	for _, outcome := range outcomes {
		if !outcome.Matched {
			names = append(names, outcome.Scenario)
		}
	}

	return names
}

var _ = Describe("Books twin", func() {
	Context("When the twin follows the documented contract", func() {
		for _, role := range []config.Role{config.RoleAdmin, config.RoleUser} {
			It("should match every catalog scenario as "+string(role), func(ctx SpecContext) {
				cfg := newTwin(handler.Quirks{})

				outcomes := newHarness(cfg).RunSuite(ctx, resolve(cfg, role))

				Expect(outcomes).To(HaveLen(12))

				for _, outcome := range outcomes {
					Expect(outcome.Err).NotTo(HaveOccurred())
					Expect(outcome.Matched).To(BeTrue(), "%s: %s", outcome.Scenario, outcome.Diagnostic)
					Expect(outcome.TraceID).To(HaveLen(32))
				}
			})
		}

		It("should give the same results when run in parallel", func(ctx SpecContext) {
			sequential := newTwin(handler.Quirks{})
			parallel := newTwin(handler.Quirks{})

			expected := newHarness(sequential).RunSuite(ctx, resolve(sequential))
			actual := newHarness(parallel).RunSuiteParallel(ctx, resolve(parallel), 8)

			Expect(actual).To(HaveLen(len(expected)))

			for i := range expected {
				Expect(actual[i].Scenario).To(Equal(expected[i].Scenario))
				Expect(actual[i].Status).To(Equal(expected[i].Status))
				Expect(actual[i].Matched).To(Equal(expected[i].Matched), actual[i].Diagnostic)
			}
		})

		It("should never assign the same id twice", func(ctx SpecContext) {
			cfg := newTwin(handler.Quirks{})

			newHarness(cfg).RunSuiteParallel(ctx, resolve(cfg), 4)

			ids := listBookIDs(ctx, cfg)
			Expect(ids).NotTo(BeEmpty())

			seen := map[int]bool{}
			for _, id := range ids {
				Expect(seen).NotTo(HaveKey(id))
				seen[id] = true
			}
		})

		It("should report repeated creations when roles share a store", func(ctx SpecContext) {
			cfg := newTwin(handler.Quirks{})

			outcomes := newHarness(cfg).RunSuite(ctx, resolve(cfg, config.RoleAdmin, config.RoleUser))

			byName := map[string]*harness.Outcome{}
			for _, outcome := range outcomes {
				byName[outcome.Scenario] = outcome
			}

			Expect(byName["admin/mandatory-fields"].Matched).To(BeTrue())
			Expect(byName["user/mandatory-fields"].Status).To(Equal(http.StatusAlreadyReported))
		})
	})

	Context("When the twin reproduces the live service's defects", func() {
		It("should diverge only where a known issue is recorded", func(ctx SpecContext) {
			cfg := newTwin(handler.LiveQuirks())

			outcomes := newHarness(cfg).RunSuite(ctx, resolve(cfg))

			Expect(mismatched(outcomes)).To(ConsistOf(
				"optional-id",
				"non-integer-id",
				"empty-mandatory-fields",
				"invalid-mandatory-fields",
				"duplicate-id",
			))

			for _, outcome := range outcomes {
				Expect(outcome.Err).NotTo(HaveOccurred())

				if !outcome.Matched {
					Expect(outcome.KnownDivergence()).To(BeTrue(), outcome.Scenario)
				}
			}
		})

		It("should show the supplied id being ignored", func(ctx SpecContext) {
			cfg := newTwin(handler.Quirks{IgnoreSuppliedID: true})

			c, err := catalog.Default()
			Expect(err).NotTo(HaveOccurred())

			c, err = c.Filter([]string{"optional-id"})
			Expect(err).NotTo(HaveOccurred())

			scenarios, err := catalog.Resolve(c, cfg, nil)
			Expect(err).NotTo(HaveOccurred())

			outcome, err := newHarness(cfg).Execute(ctx, scenarios[0])
			Expect(err).NotTo(HaveOccurred())
			Expect(outcome.Status).To(Equal(http.StatusCreated))
			Expect(outcome.Body).To(ContainSubstring(`"id":1`))
			Expect(outcome.Diagnostic).To(ContainSubstring("expected body to contain"))
		})
	})
})
