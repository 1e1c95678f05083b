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
	"fmt"
	"net/http"
	"net/url"

	"github.com/unikorn-cloud/books-contract/pkg/config"
	"github.com/unikorn-cloud/books-contract/pkg/harness"
	"github.com/unikorn-cloud/books-contract/pkg/openapi"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/utils/ptr"
)

// Resolve expands the catalog into runnable scenarios, once per role, in
// role then declaration order.  With no roles the user role is used.  When
// more than one role is requested names are prefixed with the role, e.g.
// "admin/optional-id".  Scenarios pinned to a role or credentials keep them
// in every suite.
func Resolve(catalog *Catalog, cfg *config.Configuration, roles []config.Role) ([]*harness.Scenario, error) {
	if len(roles) == 0 {
		roles = []config.Role{config.RoleUser}
	}

	for _, role := range roles {
		if _, err := cfg.CredentialsFor(role); err != nil {
			return nil, err
		}
	}

	scenarios := make([]*harness.Scenario, 0, len(roles)*len(catalog.Scenarios))

	for _, suite := range roles {
		for i := range catalog.Scenarios {
			s := &catalog.Scenarios[i]

			scenario := &harness.Scenario{
				Name:                 s.Name,
				Description:          s.Description,
				Role:                 suite,
				Endpoint:             s.Endpoint,
				Body:                 s.Body.Raw,
				ExpectedStatus:       s.Expect.Status,
				ExpectedBodyContains: s.Expect.BodyContains,
				ExpectedContentType:  s.Expect.ContentType,
				KnownIssue:           s.KnownIssue,
			}

			if len(roles) > 1 {
				scenario.Name = fmt.Sprintf("%s/%s", suite, s.Name)
			}

			if s.Role != "" {
				if _, err := cfg.CredentialsFor(s.Role); err != nil {
					return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
				}

				scenario.Role = s.Role
			}

			if s.Credentials != nil {
				scenario.Credentials = ptr.To(config.Credentials{
					Username: s.Credentials.Username,
					Password: s.Credentials.Password,
				})
			}

			for _, step := range s.Prior {
				scenario.Prior = append(scenario.Prior, harness.Step{
					Body:                step.Body.Raw,
					ExpectedStatus:      step.Expect.Status,
					ExpectedContentType: step.Expect.ContentType,
				})
			}

			scenarios = append(scenarios, scenario)
		}
	}

	return scenarios, nil
}

// CheckContract ensures every expected status in the catalog is documented
// for the create endpoint at path, or the scenario's own endpoint override.
func CheckContract(catalog *Catalog, contract *openapi.Contract, path string) error {
	var errs []error

	for i := range catalog.Scenarios {
		s := &catalog.Scenarios[i]

		p := path

		if s.Endpoint != "" {
			p = endpointPath(s.Endpoint)
		}

		for j, step := range s.Prior {
			if err := contract.CheckStatus(http.MethodPost, p, step.Expect.Status); err != nil {
				errs = append(errs, fmt.Errorf("scenario %s: prior %d: %w", s.Name, j+1, err))
			}
		}

		if err := contract.CheckStatus(http.MethodPost, p, s.Expect.Status); err != nil {
			errs = append(errs, fmt.Errorf("scenario %s: %w", s.Name, err))
		}
	}

	return utilerrors.NewAggregate(errs)
}

func endpointPath(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Path == "" {
		return endpoint
	}

	if u.Path[0] != '/' {
		return "/" + u.Path
	}

	return u.Path
}
