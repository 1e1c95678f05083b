//go:build integration

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

//nolint:testpackage,revive // test package in suites is standard for these tests, dot imports standard for Ginkgo
package suites

import (
	"fmt"
	"net/http"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/unikorn-cloud/books-contract/pkg/harness"
	"github.com/unikorn-cloud/books-contract/test/api"
)

const concurrentRequests = 10

var _ = Describe("Concurrency and Performance", func() {
	Context("When creating books concurrently", func() {
		Describe("Given distinct payloads", func() {
			It("should assign every book a unique id", func() {
				ids := make([]int, concurrentRequests)

				var wg sync.WaitGroup

				for i := range concurrentRequests {
					wg.Add(1)

					go func() {
						defer GinkgoRecover()
						defer wg.Done()

						book, err := client.CreateBook(ctx, client.Credentials(cfg.Roles[0]), api.NewBookPayload().WithAuthor(fmt.Sprintf("Concurrent %d", i)).Build())
						Expect(err).NotTo(HaveOccurred())

						ids[i] = book.ID
					}()
				}

				wg.Wait()

				Expect(ids).To(HaveLen(concurrentRequests))

				seen := map[int]bool{}
				for _, id := range ids {
					Expect(seen).NotTo(HaveKey(id))
					seen[id] = true
				}
			})
		})

		Describe("Given the contract harness", func() {
			It("should match every independent scenario when run in parallel", func() {
				scenarios := make([]*harness.Scenario, concurrentRequests)

				for i := range scenarios {
					scenarios[i] = &harness.Scenario{
						Name:                fmt.Sprintf("parallel-%d", i),
						Role:                cfg.Roles[0],
						Body:                api.NewBookPayload().Build(),
						ExpectedStatus:      http.StatusCreated,
						ExpectedContentType: "application/json",
					}
				}

				outcomes := harness.New(cfg.Configuration).RunSuiteParallel(ctx, scenarios, 4)
				Expect(outcomes).To(HaveLen(concurrentRequests))

				for i, outcome := range outcomes {
					Expect(outcome.Scenario).To(Equal(scenarios[i].Name))
					Expect(outcome.Matched).To(BeTrue(), outcome.Diagnostic)
				}
			})
		})
	})
})
