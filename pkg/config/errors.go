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
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownRole is returned when no credentials exist for a role.
	ErrUnknownRole = errors.New("no credentials configured for role")
)

// ConfigurationError is fatal to a run, it is raised before any request
// is sent when the properties resource is missing, unreadable or lacks
// required keys.
type ConfigurationError struct {
	// Source is the properties resource that was being loaded.
	Source string
	// Missing lists required keys that had no value, in declaration order.
	Missing []string
	// Err is the underlying cause, if any.
	Err error
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "configuration %q", e.Source)

	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, ": missing required configuration: %s", strings.Join(e.Missing, ", "))
	}

	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}

	return b.String()
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// IsConfigurationError tells whether any error in the chain is a ConfigurationError.
func IsConfigurationError(err error) bool {
	var target *ConfigurationError

	return errors.As(err, &target)
}
