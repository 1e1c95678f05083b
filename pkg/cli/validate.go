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

package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unikorn-cloud/books-contract/pkg/catalog"
	"github.com/unikorn-cloud/books-contract/pkg/openapi"
)

type validateOptions struct {
	scenarios string
	contract  string
}

// ValidationResult is the JSON form of a successful validation.
type ValidationResult struct {
	Valid     bool     `json:"valid"`
	Scenarios []string `json:"scenarios"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a scenario catalog without sending any requests",
		Long: `Decode a scenario catalog and check that every status it expects is
documented by the contract for the create endpoint.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadCatalog(opts.scenarios, nil)
			if err != nil {
				return WrapExitError(ExitCommandError, "scenarios", err)
			}

			contract, err := loadContract(cmd.Context(), opts.contract)
			if err != nil {
				return WrapExitError(ExitCommandError, "contract", err)
			}

			if contract != nil {
				if err := catalog.CheckContract(c, contract, openapi.CreateBookPath); err != nil {
					return WrapExitError(ExitCommandError, "scenarios do not match contract", err)
				}
			}

			if rootOpts.Format == FormatJSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(&ValidationResult{
					Valid:     true,
					Scenarios: c.Names(),
				})
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "catalog valid: %d scenarios\n", len(c.Scenarios))

			return err
		},
	}

	cmd.Flags().StringVar(&opts.scenarios, "scenarios", "", "Scenario catalog, the embedded books catalog when unset")
	cmd.Flags().StringVar(&opts.contract, "contract", ContractBuiltin, "OpenAPI document to check against, \"builtin\" for the embedded one, empty to skip")

	return cmd
}
