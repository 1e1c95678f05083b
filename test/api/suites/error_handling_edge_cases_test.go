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

var _ = Describe("Error Handling and Edge Cases", func() {
	Context("When submitting requests the service cannot parse", func() {
		DescribeTable("should reject the request",
			func(body func() string) {
				resp, err := client.PostBook(ctx, client.Credentials(cfg.Roles[0]), body())
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest), "trace ID: %s", resp.TraceID)
			},
			Entry("with truncated JSON", func() string { return `{"title":` }),
			Entry("with an array body", func() string { return `[]` }),
			Entry("with an empty body", func() string { return `` }),
			Entry("with a string id", func() string { return api.NewBookPayload().WithID("75").Build() }),
			Entry("with a fractional id", func() string { return api.NewBookPayload().WithID(7.5).Build() }),
			Entry("with a numeric title", func() string { return api.NewBookPayload().WithTitle(5093).Build() }),
			Entry("with a numeric author", func() string { return api.NewBookPayload().WithAuthor(7041).Build() }),
			Entry("with a null title", func() string { return api.NewBookPayload().WithTitle(nil).Build() }),
		)
	})
})
