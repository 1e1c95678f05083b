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

	"github.com/unikorn-cloud/books-contract/pkg/openapi"
	"github.com/unikorn-cloud/books-contract/test/api"
)

var _ = Describe("Book Creation", func() {
	Context("When creating a new book", func() {
		Describe("Given only the mandatory fields", func() {
			It("should create the book for every role", func() {
				for _, role := range cfg.Roles {
					book, payload := api.CreateBookFixture(client, ctx, role)

					Expect(book.ID).To(BeNumerically(">", 0))
					Expect(book.Title).To(Equal(payload.Title()))
					Expect(book.Author).To(Equal("Test Automation"))
				}
			})

			It("should return a JSON body matching the contract", func() {
				resp, err := client.PostBook(ctx, client.Credentials(cfg.Roles[0]), api.NewBookPayload().Build())
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusCreated))
				Expect(resp.ContentType).To(HavePrefix("application/json"))

				contract, err := openapi.Default()
				Expect(err).NotTo(HaveOccurred())
				Expect(contract.ValidateResponse(http.MethodPost, openapi.CreateBookPath, resp.StatusCode, resp.ContentType, resp.Body)).To(Succeed())
			})
		})

		Describe("Given an explicit id", func() {
			It("should create the book with that id", func() {
				existing, err := client.ListBooks(ctx, client.Credentials(cfg.Roles[0]))
				Expect(err).NotTo(HaveOccurred())

				id := 1
				for _, book := range existing {
					id = max(id, book.ID+1000)
				}

				book, err := client.CreateBook(ctx, client.Credentials(cfg.Roles[0]), api.NewBookPayload().WithID(id).Build())
				Expect(err).NotTo(HaveOccurred())
				Expect(book.ID).To(Equal(id))
			})
		})
	})

	Context("When reading a created book", func() {
		Describe("Given the book exists", func() {
			It("should be retrievable and listed", func() {
				book, _ := api.CreateBookFixture(client, ctx, cfg.Roles[0])

				fetched, err := client.GetBook(ctx, client.Credentials(cfg.Roles[0]), book.ID)
				Expect(err).NotTo(HaveOccurred())
				Expect(fetched).To(Equal(book))

				books, err := client.ListBooks(ctx, client.Credentials(cfg.Roles[0]))
				Expect(err).NotTo(HaveOccurred())
				api.VerifyBookPresence(books, []int{book.ID})
			})
		})
	})
})
