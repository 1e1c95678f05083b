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

package cli_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unikorn-cloud/books-contract/pkg/cli"
	"github.com/unikorn-cloud/books-contract/pkg/constants"
	"github.com/unikorn-cloud/books-contract/pkg/server"
	"github.com/unikorn-cloud/books-contract/pkg/server/handler"
)

// twinConfig starts a books twin and writes a properties file pointing at it.
func twinConfig(t *testing.T, quirks handler.Quirks) string {
	t.Helper()

	options := handler.NewOptions()
	options.Quirks = quirks

	twin := httptest.NewServer(server.NewRouter(options))
	t.Cleanup(twin.Close)

	properties := fmt.Sprintf(`base.url=%s
api.endpoint=/api/books
admin.username=admin
admin.password=password
user.username=user
user.password=password
`, twin.URL)

	path := filepath.Join(t.TempDir(), "config.properties")
	require.NoError(t, os.WriteFile(path, []byte(properties), 0o600))

	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd := cli.NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)

	err := cmd.ExecuteContext(t.Context())

	return out.String(), err
}

func TestCommandPresence(t *testing.T) {
	cmd := cli.NewRootCommand()

	for _, name := range []string{"run", "validate", "version"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}

	format := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "text", format.DefValue)
	assert.NotNil(t, cmd.PersistentFlags().Lookup("zap-log-level"))
}

func TestInvalidFormat(t *testing.T) {
	_, err := execute(t, "version", "--format", "yaml")
	require.Error(t, err)
	assert.Equal(t, cli.ExitCommandError, cli.GetExitCode(err))
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, constants.VersionString()+"\n", out)
}

func TestValidate(t *testing.T) {
	out, err := execute(t, "validate")
	require.NoError(t, err)
	assert.Equal(t, "catalog valid: 12 scenarios\n", out)

	out, err = execute(t, "validate", "--format", "json")
	require.NoError(t, err)

	var result cli.ValidationResult

	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.Valid)
	assert.Len(t, result.Scenarios, 12)
}

func TestValidateUndocumentedStatus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenarios.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scenarios:\n- name: teapot\n  body: {}\n  expect:\n    status: 418\n"), 0o600))

	_, err := execute(t, "validate", "--scenarios", path)
	require.Error(t, err)
	assert.Equal(t, cli.ExitCommandError, cli.GetExitCode(err))
	assert.Contains(t, err.Error(), "teapot")

	// Without a contract only the catalog itself is checked.
	_, err = execute(t, "validate", "--scenarios", path, "--contract", "")
	require.NoError(t, err)
}

func TestRun(t *testing.T) {
	path := twinConfig(t, handler.Quirks{})

	dir := t.TempDir()
	workbook := filepath.Join(dir, "report.xlsx")
	metrics := filepath.Join(dir, "books_contract.prom")

	out, err := execute(t, "run",
		"--config", path,
		"--format", "json",
		"--filter", "mandatory-fields",
		"--filter", "duplicate-data",
		"--contract", "builtin",
		"--xlsx", workbook,
		"--metrics-textfile", metrics,
	)
	require.NoError(t, err, out)

	var result struct {
		Summary struct {
			Total  int `json:"total"`
			Passed int `json:"passed"`
		} `json:"summary"`
	}

	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 2, result.Summary.Total)
	assert.Equal(t, 2, result.Summary.Passed)

	assert.FileExists(t, workbook)

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), `books_contract_scenarios_total{result="pass",role="user"} 2`)
}

func TestRunRoles(t *testing.T) {
	path := twinConfig(t, handler.Quirks{})

	out, err := execute(t, "run", "--config", path, "--role", "admin", "--role", "invalid", "--filter", "invalid-user", "--parallel", "2")
	require.NoError(t, err, out)
	assert.Contains(t, out, "PASS  admin/invalid-user (invalid)")
	assert.Contains(t, out, "PASS  invalid/invalid-user (invalid)")
}

func TestRunMismatch(t *testing.T) {
	path := twinConfig(t, handler.LiveQuirks())

	out, err := execute(t, "run", "--config", path, "--filter", "optional-id")
	require.Error(t, err)
	assert.Equal(t, cli.ExitFailure, cli.GetExitCode(err))
	assert.Contains(t, out, "FAIL  optional-id (user)")
	assert.Contains(t, out, "known issue:")
}

func TestRunCommandErrors(t *testing.T) {
	path := twinConfig(t, handler.Quirks{})

	tests := []struct {
		name string
		args []string
	}{
		{name: "MissingConfig", args: []string{"run", "--config", filepath.Join(t.TempDir(), "absent.properties")}},
		{name: "UnknownScenario", args: []string{"run", "--config", path, "--filter", "no-such-scenario"}},
		{name: "UnknownRole", args: []string{"run", "--config", path, "--role", "guest"}},
		{name: "Parallel", args: []string{"run", "--config", path, "--parallel", "0"}},
		{name: "Contract", args: []string{"run", "--config", path, "--contract", filepath.Join(t.TempDir(), "absent.yaml")}},
		{name: "Flag", args: []string{"run", "--no-such-flag"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := execute(t, test.args...)
			require.Error(t, err)
			assert.Equal(t, cli.ExitCommandError, cli.GetExitCode(err))
		})
	}
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, cli.ExitSuccess, cli.GetExitCode(nil))
	assert.Equal(t, cli.ExitFailure, cli.GetExitCode(fmt.Errorf("wrapped: %w", cli.NewExitError(cli.ExitFailure, "failed"))))
	assert.Equal(t, cli.ExitCommandError, cli.GetExitCode(io.EOF))

	err := cli.WrapExitError(cli.ExitCommandError, "configuration", io.EOF)
	assert.Equal(t, "configuration: EOF", err.Error())
	assert.ErrorIs(t, err, io.EOF)
}
