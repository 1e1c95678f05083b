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
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/unikorn-cloud/books-contract/test/api"
)

var _ = Describe("Contract Catalog", func() {
	Context("When running the embedded scenario catalog", func() {
		for _, name := range api.CatalogScenarioNames() {
			It("should match scenario "+name+" for every role", func() {
				for _, role := range cfg.Roles {
					outcome := api.RunCatalogScenario(ctx, cfg, name, role)

					Expect(outcome.Err).NotTo(HaveOccurred())
					Expect(outcome.Matched).To(BeTrue(), "%s as %s: %s %s", name, role, outcome.Diagnostic, outcome.KnownIssue)
				}
			})
		}
	})
})
