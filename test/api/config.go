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

package api

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/unikorn-cloud/books-contract/pkg/config"
)

type TestConfig struct {
	// Configuration is shared with the contract harness.
	*config.Configuration

	// Roles are the roles every suite runs as.
	Roles           []config.Role
	TestTimeout     time.Duration
	SkipIntegration bool
}

// LoadTestConfig loads configuration from the properties resource, .env
// files and environment variables.  Returns an error if required
// configuration values are missing.
func LoadTestConfig() (*TestConfig, error) {
	options := config.Options{
		Path:    getWithDefault("BOOKS_CONFIG_FILE", findFile(config.DefaultPath)),
		EnvFile: findFile(".env"),
	}

	cfg, err := config.Load(options)
	if err != nil {
		return nil, err
	}

	roles, err := cfg.ParseRoles(strings.Split(getWithDefault("BOOKS_TEST_ROLES", "admin,user"), ","))
	if err != nil {
		return nil, err
	}

	return &TestConfig{
		Configuration:   cfg,
		Roles:           roles,
		TestTimeout:     getDurationWithDefault("TEST_TIMEOUT", 5*time.Minute),
		SkipIntegration: getBoolWithDefault("SKIP_INTEGRATION", false),
	}, nil
}

func getWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// getDurationWithDefault gets a duration from environment variable or returns default.
func getDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}

// getBoolWithDefault gets a boolean from environment variable or returns default.
func getBoolWithDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolValue
}

// findFile looks for a file in the test directory, relative to the suites,
// returning an empty string if it doesn't exist.  That's fine in CI/CD
// where everything is set in the environment.
func findFile(name string) string {
	paths := []string{
		filepath.Join("..", "..", name), // From test/api/suites directory
		filepath.Join("..", "..", "..", name),
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if absPath, err := filepath.Abs(path); err == nil {
				return absPath
			}
		}
	}

	if name == config.DefaultPath {
		return name
	}

	return ""
}
