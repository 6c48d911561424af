/*
 * Copyright 2025 Google LLC
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *    https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package render formats report results for people (Text) and for other programs (JSON).
package render

import (
	"fmt"
	"io"
	"math/big"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/GoogleCloudPlatform/db-summary-reports/internal/report"
)

const nullCell = "NULL"

// Text writes every result as a titled section followed by a one-line summary.
func Text(w io.Writer, results []report.Result) error {
	ew := &errWriter{w: w}
	failed := 0
	for i, res := range results {
		if i > 0 {
			fmt.Fprintln(ew)
		}
		if !res.Ok() {
			failed++
		}
		writeSection(ew, res)
	}
	if len(results) > 0 {
		fmt.Fprintln(ew)
	}
	fmt.Fprintf(ew, "%d reports, %d failed\n", len(results), failed)
	return ew.err
}

func writeSection(w io.Writer, res report.Result) {
	fmt.Fprintf(w, "== %s (%s) ==\n", res.Spec.Name, res.Spec.Kind)
	switch {
	case res.Err != nil:
		fmt.Fprintf(w, "ERROR: %v\n", res.Err)
		return
	case res.Empty:
		fmt.Fprintln(w, "no rows")
		return
	}

	fmt.Fprintf(w, "Found %d rows.\n", res.RowCount)
	switch {
	case res.Distribution != nil:
		writeDistribution(w, res.Distribution)
	case res.Aggregates != nil:
		writeAggregates(w, res.Aggregates)
	case res.Table != nil:
		preview := res.Table.Head(res.Spec.Limit)
		writeTable(w, preview)
		if shown := preview.RowCount(); shown < res.Table.RowCount() {
			fmt.Fprintf(w, "(showing %d of %d rows)\n", shown, res.Table.RowCount())
		}
	}
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(true)
	table.SetHeader(header)
	return table
}

func writeTable(w io.Writer, t *report.Table) {
	table := newTable(w, t.Columns)
	for _, row := range t.Rows {
		cells := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			cells[i] = FormatValue(row[c])
		}
		table.Append(cells)
	}
	table.Render()
}

func writeDistribution(w io.Writer, d *report.Distribution) {
	table := newTable(w, []string{d.Column, "count", "percent"})
	for _, b := range d.Buckets {
		table.Append([]string{
			FormatValue(b.Value),
			strconv.Itoa(b.Count),
			fmt.Sprintf("%.1f%%", b.Percent),
		})
	}
	if d.NullCount > 0 {
		table.SetFooter([]string{nullCell, strconv.Itoa(d.NullCount), ""})
	}
	table.Render()
}

func writeAggregates(w io.Writer, aggs []report.Aggregate) {
	table := newTable(w, []string{"column", "mean", "count", "min", "max", "sum", "nulls"})
	for _, a := range aggs {
		table.Append([]string{
			a.Column,
			fmt.Sprintf("%.2f", a.Mean),
			strconv.Itoa(a.Count),
			formatFloat(a.Min),
			formatFloat(a.Max),
			formatFloat(a.Sum),
			strconv.Itoa(a.NullCount),
		})
	}
	table.Render()
	for _, a := range aggs {
		fmt.Fprintf(w, "Average %s: %.2f\n", a.Column, a.Mean)
	}
}

// FormatValue renders a cell value for display. NULL is shown as "NULL".
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return nullCell
	case string:
		return val
	case float64:
		return formatFloat(val)
	case float32:
		return formatFloat(float64(val))
	case time.Time:
		return val.Format(time.RFC3339)
	case *big.Int:
		if val == nil {
			return nullCell
		}
		return val.String()
	case []byte:
		return string(val)
	default:
		return fmt.Sprint(val)
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// errWriter keeps the first write error so the rendering code can ignore per-call errors.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}
