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
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/unikorn-cloud/books-contract/test/api"
)

var _ = Describe("State Management", func() {
	Context("When a book already exists", func() {
		var payload *api.BookPayloadBuilder

		BeforeEach(func() {
			_, payload = api.CreateBookFixture(client, ctx, cfg.Roles[0])
		})

		It("should report a repeated title and author as already present", func() {
			resp, err := client.PostBook(ctx, client.Credentials(cfg.Roles[0]), payload.Build())
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusAlreadyReported))
		})

		It("should report a repeated id as already present", func() {
			books, err := client.ListBooks(ctx, client.Credentials(cfg.Roles[0]))
			Expect(err).NotTo(HaveOccurred())
			Expect(books).NotTo(BeEmpty())

			resp, err := client.PostBook(ctx, client.Credentials(cfg.Roles[0]), api.NewBookPayload().WithID(books[0].ID).Build())
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusAlreadyReported))
		})
	})

	Context("When books are created in sequence", func() {
		It("should never reuse an id", func() {
			first, _ := api.CreateBookFixture(client, ctx, cfg.Roles[0])
			second, _ := api.CreateBookFixture(client, ctx, cfg.Roles[0])

			Expect(second.ID).NotTo(Equal(first.ID))
		})
	})
})
