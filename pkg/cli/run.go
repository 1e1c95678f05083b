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
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/unikorn-cloud/books-contract/pkg/catalog"
	"github.com/unikorn-cloud/books-contract/pkg/config"
	"github.com/unikorn-cloud/books-contract/pkg/harness"
	"github.com/unikorn-cloud/books-contract/pkg/report"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

type runOptions struct {
	config          config.Options
	scenarios       string
	roles           []string
	filter          []string
	parallel        int
	contract        string
	xlsx            string
	metricsTextfile string
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run contract scenarios against the books API",
		Long: `Run every scenario in the catalog against the configured service, once
per requested role, and report the outcome of each.

Exits 0 when every scenario matched, 1 when any did not, and 2 when the
run could not start.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuite(cmd.Context(), rootOpts, opts, cmd.OutOrStdout())
		},
	}

	opts.config.AddFlags(cmd.Flags())

	cmd.Flags().StringVar(&opts.scenarios, "scenarios", "", "Scenario catalog, the embedded books catalog when unset")
	cmd.Flags().StringSliceVar(&opts.roles, "role", nil, "Role to run the suite as, may be repeated (default user)")
	cmd.Flags().StringSliceVar(&opts.filter, "filter", nil, "Only run the named scenarios, may be repeated")
	cmd.Flags().IntVar(&opts.parallel, "parallel", 1, "Maximum scenarios in flight at once")
	cmd.Flags().StringVar(&opts.contract, "contract", "", "Validate responses against an OpenAPI document, \"builtin\" for the embedded one")
	cmd.Flags().StringVar(&opts.xlsx, "xlsx", "", "Add a worksheet for the run to this workbook")
	cmd.Flags().StringVar(&opts.metricsTextfile, "metrics-textfile", "", "Write Prometheus metrics to this textfile")

	return cmd
}

// prepare does everything that can fail before any request is sent.
func prepare(ctx context.Context, opts *runOptions) (*harness.Harness, []*harness.Scenario, error) {
	cfg, err := config.Load(opts.config)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "configuration", err)
	}

	roles, err := cfg.ParseRoles(opts.roles)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "roles", err)
	}

	c, err := loadCatalog(opts.scenarios, opts.filter)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "scenarios", err)
	}

	contract, err := loadContract(ctx, opts.contract)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "contract", err)
	}

	var options []harness.Option

	if contract != nil {
		if err := catalog.CheckContract(c, contract, cfg.Endpoint); err != nil {
			return nil, nil, WrapExitError(ExitCommandError, "scenarios do not match contract", err)
		}

		options = append(options, harness.WithContract(contract))
	}

	scenarios, err := catalog.Resolve(c, cfg, roles)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "scenarios", err)
	}

	return harness.New(cfg, options...), scenarios, nil
}

func runSuite(ctx context.Context, rootOpts *RootOptions, opts *runOptions, out io.Writer) error {
	if opts.parallel < 1 {
		return NewExitError(ExitCommandError, fmt.Sprintf("parallel must be at least 1, got %d", opts.parallel))
	}

	h, scenarios, err := prepare(ctx, opts)
	if err != nil {
		return err
	}

	log.FromContext(ctx).V(1).Info("running suite", "scenarios", len(scenarios), "parallel", opts.parallel)

	started := time.Now()
	outcomes := h.RunSuiteParallel(ctx, scenarios, opts.parallel)

	r := report.New(started, time.Now(), outcomes)

	if err := writeReport(rootOpts, opts, r, out); err != nil {
		return WrapExitError(ExitCommandError, "report", err)
	}

	if !r.Succeeded() {
		summary := r.Summary()

		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenarios did not pass", summary.Total-summary.Passed, summary.Total))
	}

	return nil
}

func writeReport(rootOpts *RootOptions, opts *runOptions, r *report.Report, out io.Writer) error {
	if rootOpts.Format == FormatJSON {
		if err := r.WriteJSON(out); err != nil {
			return err
		}
	} else if err := r.WriteText(out); err != nil {
		return err
	}

	if opts.xlsx != "" {
		if err := r.WriteWorkbook(opts.xlsx); err != nil {
			return err
		}
	}

	if opts.metricsTextfile != "" {
		metrics := report.NewMetrics()
		metrics.Observe(r.Outcomes...)

		if err := metrics.WriteTextfile(opts.metricsTextfile); err != nil {
			return err
		}
	}

	return nil
}
