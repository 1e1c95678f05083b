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

package config

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Role names a set of credentials held in the configuration.
type Role string

const (
	// RoleAdmin is the administrative account.
	RoleAdmin Role = "admin"
	// RoleUser is the ordinary account.
	RoleUser Role = "user"
	// RoleInvalid is an account the service must not recognise.
	RoleInvalid Role = "invalid"
)

// Property keys understood by the loader.
const (
	KeyBaseURL         = "base.url"
	KeyEndpoint        = "api.endpoint"
	KeyAdminUsername   = "admin.username"
	KeyAdminPassword   = "admin.password"
	KeyUserUsername    = "user.username"
	KeyUserPassword    = "user.password"
	KeyInvalidUsername = "invalid.username"
	KeyInvalidPassword = "invalid.password"
	KeyRequestTimeout  = "request.timeout"
	KeyLogRequests     = "log.requests"
	KeyLogResponses    = "log.responses"
)

const (
	// DefaultRequestTimeout bounds a single request when request.timeout is unset.
	DefaultRequestTimeout = 30 * time.Second

	defaultInvalidUsername = "dev"
	defaultInvalidPassword = "123"
)

// Credentials are a basic authentication username and password.
type Credentials struct {
	Username string
	Password string
}

// Empty is true when no username has been set.
func (c Credentials) Empty() bool {
	return c.Username == ""
}

// Configuration describes the service under test.  It is read-only once
// loaded and is shared by every scenario in a run.
type Configuration struct {
	// BaseURL is the scheme and authority of the service, e.g. http://localhost:7081.
	BaseURL string
	// Endpoint is the path of the create endpoint, always with a leading slash.
	Endpoint string
	// Credentials maps a role to its basic authentication credentials.
	Credentials map[Role]Credentials
	// RequestTimeout bounds each HTTP round trip.
	RequestTimeout time.Duration
	// LogRequests logs the status and duration of every request.
	LogRequests bool
	// LogResponses logs every response body.
	LogResponses bool
}

// URL returns the absolute URL of the create endpoint.
func (c *Configuration) URL() string {
	return strings.TrimSuffix(c.BaseURL, "/") + c.Endpoint
}

// Resolve turns an endpoint override into an absolute URL.  Absolute
// overrides are returned untouched, anything else is treated as a path
// relative to the base URL.
func (c *Configuration) Resolve(endpoint string) string {
	if endpoint == "" {
		return c.URL()
	}

	if strings.Contains(endpoint, "://") {
		return endpoint
	}

	return strings.TrimSuffix(c.BaseURL, "/") + normalizeEndpoint(endpoint)
}

// CredentialsFor looks up the credentials configured for a role.
func (c *Configuration) CredentialsFor(role Role) (Credentials, error) {
	credentials, ok := c.Credentials[role]
	if !ok {
		return Credentials{}, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}

	return credentials, nil
}

// Roles returns the configured roles in a stable order.
func (c *Configuration) Roles() []Role {
	roles := make([]Role, 0, len(c.Credentials))

	for role := range c.Credentials {
		roles = append(roles, role)
	}

	slices.Sort(roles)

	return roles
}

// ParseRoles converts role names, e.g. from the command line, and rejects
// any the configuration does not hold credentials for.
func (c *Configuration) ParseRoles(names []string) ([]Role, error) {
	roles := make([]Role, 0, len(names))

	for _, name := range names {
		role := Role(strings.ToLower(strings.TrimSpace(name)))

		if _, err := c.CredentialsFor(role); err != nil {
			return nil, err
		}

		roles = append(roles, role)
	}

	return roles, nil
}

func normalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)

	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}

	return endpoint
}
