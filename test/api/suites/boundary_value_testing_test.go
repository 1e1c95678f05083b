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
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/unikorn-cloud/books-contract/test/api"
)

var _ = Describe("Boundary Value Testing", func() {
	Context("When submitting fields at their length limits", func() {
		Describe("Given boundary value testing", func() {
			It("should accept a title of exactly 100 characters", func() {
				book, err := client.CreateBook(ctx, client.Credentials(cfg.Roles[0]), api.NewBookPayload().WithTitleLength(100).Build())
				Expect(err).NotTo(HaveOccurred())
				Expect(book.Title).To(HaveLen(100))
			})

			It("should reject a title of 101 characters", func() {
				resp, err := client.PostBook(ctx, client.Credentials(cfg.Roles[0]), api.NewBookPayload().WithTitleLength(101).Build())
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			})

			It("should reject an author of 101 characters", func() {
				resp, err := client.PostBook(ctx, client.Credentials(cfg.Roles[0]), api.NewBookPayload().WithAuthor(strings.Repeat("a", 101)).Build())
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			})

			It("should count characters rather than bytes", func() {
				author := strings.Repeat("é", 100)

				book, err := client.CreateBook(ctx, client.Credentials(cfg.Roles[0]), api.NewBookPayload().WithAuthor(author).Build())
				Expect(err).NotTo(HaveOccurred())
				Expect(book.Author).To(Equal(author))
			})
		})
	})

	Context("When submitting empty or missing fields", func() {
		Describe("Given a mandatory field is absent", func() {
			It("should reject an empty title", func() {
				resp, err := client.PostBook(ctx, client.Credentials(cfg.Roles[0]), api.NewBookPayload().WithTitle("").Build())
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			})

			It("should reject a missing author", func() {
				resp, err := client.PostBook(ctx, client.Credentials(cfg.Roles[0]), api.NewBookPayload().Without("author").Build())
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			})
		})
	})
})
