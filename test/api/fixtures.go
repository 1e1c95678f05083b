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
package api

import (
	"context"
	"slices"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/unikorn-cloud/books-contract/pkg/catalog"
	"github.com/unikorn-cloud/books-contract/pkg/config"
	"github.com/unikorn-cloud/books-contract/pkg/harness"
	"github.com/unikorn-cloud/books-contract/pkg/openapi"
)

// CreateBookFixture creates a uniquely titled book as the given role and
// checks the service echoed it back.
func CreateBookFixture(client *APIClient, ctx context.Context, role config.Role) (*openapi.Book, *BookPayloadBuilder) {
	payload := NewBookPayload()

	book, err := client.CreateBook(ctx, client.Credentials(role), payload.Build())
	Expect(err).NotTo(HaveOccurred())
	Expect(book.Title).To(Equal(payload.Title()))

	GinkgoWriter.Printf("Created book with ID: %d\n", book.ID)

	return book, payload
}

// VerifyBookPresence checks every expected id appears in the list.
func VerifyBookPresence(books openapi.Books, expectedIDs []int) {
	actual := extractBookIDs(books)

	for _, id := range expectedIDs {
		Expect(actual).To(ContainElement(id), "book %d should be listed", id)
	}
}

func extractBookIDs(books openapi.Books) []int {
	ids := make([]int, 0, len(books))

	for _, book := range books {
		ids = append(ids, book.ID)
	}

	slices.Sort(ids)

	return ids
}

// CatalogScenarioNames lists the embedded catalog, for building tables.
func CatalogScenarioNames() []string {
	c, err := catalog.Default()
	if err != nil {
		panic(err)
	}

	return c.Names()
}

// RunCatalogScenario resolves a single named catalog scenario for a role
// and executes it through the contract harness.
func RunCatalogScenario(ctx context.Context, cfg *TestConfig, name string, role config.Role) *harness.Outcome {
	c, err := catalog.Default()
	Expect(err).NotTo(HaveOccurred())

	c, err = c.Filter([]string{name})
	Expect(err).NotTo(HaveOccurred())

	scenarios, err := catalog.Resolve(c, cfg.Configuration, []config.Role{role})
	Expect(err).NotTo(HaveOccurred())
	Expect(scenarios).To(HaveLen(1))

	outcome, err := harness.New(cfg.Configuration).Execute(ctx, scenarios[0])
	if err != nil {
		GinkgoWriter.Printf("Scenario %s did not complete: %v\n", name, err)
	}

	GinkgoWriter.Printf("Scenario %s: %s %s\n", outcome.Scenario, outcome.Result(), outcome.Curl)

	return outcome
}
