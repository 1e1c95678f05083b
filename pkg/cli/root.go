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
	"flag"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// ValidFormats defines the allowed output formats.
//
//nolint:gochecknoglobals
var ValidFormats = []string{FormatText, FormatJSON}

// RootOptions holds global flags for all commands.
type RootOptions struct {
	// Format selects text or JSON output.
	Format string

	// ZapOptions configure logging, which is always written to stderr.
	ZapOptions zap.Options
}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "books-contract",
		Short: "Contract tests for the books API",
		Long: `Runs declarative contract scenarios against the books API create
endpoint and reports, per scenario, whether the service behaved as
documented.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}

			log.SetLogger(zap.New(zap.UseFlagOptions(&opts.ZapOptions), zap.WriteTo(cmd.ErrOrStderr())))

			return nil
		},
	}

	goflags := flag.NewFlagSet("logging", flag.ContinueOnError)
	opts.ZapOptions.BindFlags(goflags)

	cmd.PersistentFlags().AddGoFlagSet(goflags)
	cmd.PersistentFlags().StringVar(&opts.Format, "format", FormatText, "Output format (text|json)")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewVersionCommand(opts))

	return cmd
}
