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
package cmd

import (
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/GoogleCloudPlatform/db-summary-reports/internal/report"
)

// listReportsCmd represents the list-reports command
var listReportsCmd = &cobra.Command{
	Use:     "list-reports",
	Short:   "List the configured reports without connecting to the database",
	Example: `./db_summary_reports list-reports --config reports.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		specs, err := configuredSpecs()
		if err != nil {
			return err
		}
		writeSpecList(cmd.OutOrStdout(), specs)
		return nil
	},
}

func writeSpecList(w io.Writer, specs []report.Spec) {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"name", "kind", "columns", "filter", "limit", "query"})
	for _, s := range specs {
		limit := ""
		if s.Limit > 0 {
			limit = strconv.Itoa(s.Limit)
		}
		columns := s.Column
		if s.Kind == report.KindNumericAggregate {
			columns = strings.Join(s.NumericColumns(), ",")
		}
		table.Append([]string{
			s.Name,
			string(s.Kind),
			columns,
			s.Filter,
			limit,
			strings.Join(strings.Fields(s.Query), " "),
		})
	}
	table.Render()
}
