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

package report

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/xuri/excelize/v2"

	"github.com/unikorn-cloud/books-contract/pkg/harness"
)

const (
	sheetNameFormat = "run-%s"
	sheetTimeFormat = "2006-01-02_15-04-05"

	defaultSheet       = "Sheet1"
	defaultColumnWidth = 16

	fillPattern = "pattern"
	fillSolid   = 1

	failureColor   = "FF5900"
	divergentColor = "FFEB9C"
)

//nolint:gochecknoglobals
var workbookHeaders = []string{
	"Scenario", "Role", "Result", "Expected status", "Actual status",
	"Request body", "Response body", "Diagnostic", "Known issue",
	"Trace ID", "Curl", "Duration (ms)",
}

// SheetName is the worksheet a run is written to.
func (r *Report) SheetName() string {
	return fmt.Sprintf(sheetNameFormat, r.Started.Format(sheetTimeFormat))
}

// newSheetName returns the run's sheet name, suffixed when a run that
// started in the same second already has a sheet in the workbook.
func (r *Report) newSheetName(f *excelize.File) (string, error) {
	base := r.SheetName()

	for i := 1; ; i++ {
		name := base
		if i > 1 {
			name = fmt.Sprintf("%s-%d", base, i)
		}

		index, err := f.GetSheetIndex(name)
		if err != nil {
			return "", err
		}

		if index < 0 {
			return name, nil
		}
	}
}

// openWorkbook opens an existing workbook so runs accumulate, or creates
// a new one.
func openWorkbook(path string) (*excelize.File, bool, error) {
	f, err := excelize.OpenFile(path)
	if err == nil {
		return f, false, nil
	}

	if !errors.Is(err, fs.ErrNotExist) {
		return nil, false, fmt.Errorf("failed to open workbook: %w", err)
	}

	return excelize.NewFile(), true, nil
}

// WriteWorkbook adds a worksheet for the run to the workbook at path,
// never overwriting an earlier run's sheet.
// Failing rows are filled red, known divergences amber, and a summary is
// written beneath the results.
func (r *Report) WriteWorkbook(path string) error {
	f, created, err := openWorkbook(path)
	if err != nil {
		return err
	}

	defer f.Close()

	sheet, err := r.newSheetName(f)
	if err != nil {
		return err
	}

	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("failed to create worksheet: %w", err)
	}

	f.SetActiveSheet(index)

	if created {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return err
		}
	}

	last, err := excelize.ColumnNumberToName(len(workbookHeaders))
	if err != nil {
		return err
	}

	if err := f.SetColWidth(sheet, "A", last, defaultColumnWidth); err != nil {
		return err
	}

	if err := f.SetSheetRow(sheet, "A1", &workbookHeaders); err != nil {
		return err
	}

	failureStyle, err := fillStyle(f, failureColor)
	if err != nil {
		return err
	}

	divergentStyle, err := fillStyle(f, divergentColor)
	if err != nil {
		return err
	}

	for i, outcome := range r.Outcomes {
		row := i + 2

		if err := writeOutcome(f, sheet, row, outcome); err != nil {
			return err
		}

		style := 0

		switch {
		case outcome.KnownDivergence():
			style = divergentStyle
		case outcome.Result() != harness.ResultPass:
			style = failureStyle
		}

		if style != 0 {
			if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", last, row), style); err != nil {
				return err
			}
		}
	}

	if err := r.writeSummary(f, sheet, len(r.Outcomes)+3); err != nil {
		return err
	}

	if created {
		return f.SaveAs(path)
	}

	return f.Save()
}

func fillStyle(f *excelize.File, color string) (int, error) {
	return f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{
			Type:    fillPattern,
			Pattern: fillSolid,
			Color:   []string{color},
		},
	})
}

func writeOutcome(f *excelize.File, sheet string, row int, outcome *harness.Outcome) error {
	cells := []any{
		outcome.Scenario,
		roleName(outcome),
		string(outcome.Result()),
		outcome.ExpectedStatus,
		outcome.Status,
		outcome.RequestBody,
		outcome.Body,
		outcome.Diagnostic,
		outcome.KnownIssue,
		outcome.TraceID,
		outcome.Curl,
		outcome.Duration.Milliseconds(),
	}

	return f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &cells)
}

func (r *Report) writeSummary(f *excelize.File, sheet string, row int) error {
	summary := r.Summary()

	lines := []string{
		"Summary",
		fmt.Sprintf("Run: %s", r.RunID),
		fmt.Sprintf("Duration: %s", r.Duration),
		fmt.Sprintf("Scenarios: %d", summary.Total),
		fmt.Sprintf("Passed: %d", summary.Passed),
		fmt.Sprintf("Failed: %d (%d known)", summary.Failed, summary.KnownDivergences),
		fmt.Sprintf("Errors: %d", summary.Errors),
	}

	for i, line := range lines {
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", row+i), line); err != nil {
			return err
		}
	}

	return nil
}
