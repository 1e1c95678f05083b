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

	"github.com/unikorn-cloud/books-contract/pkg/config"
	"github.com/unikorn-cloud/books-contract/test/api"
)

var _ = Describe("Security and Authentication", func() {
	Context("When accessing API with different authentication states", func() {
		Describe("Given invalid authentication", func() {
			It("should reject an unknown user", func() {
				resp, err := client.PostBook(ctx, client.Credentials(config.RoleInvalid), api.NewBookPayload().Build())
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
			})

			It("should reject a known user with the wrong password", func() {
				credentials := *client.Credentials(config.RoleAdmin)
				credentials.Password += "-wrong"

				resp, err := client.PostBook(ctx, &credentials, api.NewBookPayload().Build())
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
			})

			It("should reject requests with missing authentication", func() {
				resp, err := client.PostBook(ctx, nil, api.NewBookPayload().Build())
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
			})

			It("should check authentication before the body", func() {
				resp, err := client.PostBook(ctx, client.Credentials(config.RoleInvalid), `{"title":`)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
			})
		})

		Describe("Given role-based access", func() {
			It("should allow every configured role to create books", func() {
				for _, role := range cfg.Roles {
					_, err := client.CreateBook(ctx, client.Credentials(role), api.NewBookPayload().Build())
					Expect(err).NotTo(HaveOccurred(), "role %s", role)
				}
			})
		})
	})
})
