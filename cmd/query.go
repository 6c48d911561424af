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
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GoogleCloudPlatform/db-summary-reports/internal/database"
	"github.com/GoogleCloudPlatform/db-summary-reports/internal/report"
	"github.com/GoogleCloudPlatform/db-summary-reports/internal/utils"
)

// queryCmd represents the query command
var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Run a single ad-hoc report",
	Long: `Runs one report defined entirely by flags. The query comes from --sql, --sql-file, or
--table, which selects every row of the named table.`,
	Example: `./db_summary_reports query --kind categorical_distribution --table Word --column difficulty
./db_summary_reports query --name hard_words --kind numeric_aggregate --sql 'SELECT * FROM "Word"' --column mastery --filter 'difficulty == "hard"'`,
	RunE: runQuery,
}

type queryFlags struct {
	name    string
	kind    string
	sql     string
	sqlFile string
	table   string
	column  string
	columns string
	filter  string
	limit   int
}

func (f queryFlags) sources() int {
	n := 0
	for _, s := range []string{f.sql, f.sqlFile, f.table} {
		if strings.TrimSpace(s) != "" {
			n++
		}
	}
	return n
}

// buildSpec turns the query flags into a validated spec. quote is used for --table.
func (f queryFlags) buildSpec(quote func(string) string) (report.Spec, error) {
	if f.sources() != 1 {
		return report.Spec{}, fmt.Errorf("exactly one of --sql, --sql-file or --table is required")
	}
	kind, err := report.ParseKind(f.kind)
	if err != nil {
		return report.Spec{}, err
	}

	query := f.sql
	switch {
	case f.sqlFile != "":
		query, err = utils.ReadQueryFile(f.sqlFile)
		if err != nil {
			return report.Spec{}, err
		}
	case f.table != "":
		query = "SELECT * FROM " + quoteTable(f.table, quote)
	}

	name := f.name
	if name == "" {
		name = "query"
	}
	spec := report.Spec{
		Name:    name,
		Kind:    kind,
		Query:   strings.TrimSpace(query),
		Column:  strings.TrimSpace(f.column),
		Columns: utils.ParseListFlag(f.columns),
		Filter:  f.filter,
		Limit:   f.limit,
	}
	if err := spec.Validate(); err != nil {
		return report.Spec{}, err
	}
	return spec, nil
}

// quoteTable quotes each dot separated part of a possibly schema qualified table name.
func quoteTable(table string, quote func(string) string) string {
	parts := strings.Split(strings.TrimSpace(table), ".")
	for i, p := range parts {
		parts[i] = quote(p)
	}
	return strings.Join(parts, ".")
}

func readQueryFlags(cmd *cobra.Command) queryFlags {
	f := queryFlags{}
	flags := cmd.Flags()
	f.name, _ = flags.GetString("name")
	f.kind, _ = flags.GetString("kind")
	f.sql, _ = flags.GetString("sql")
	f.sqlFile, _ = flags.GetString("sql-file")
	f.table, _ = flags.GetString("table")
	f.column, _ = flags.GetString("column")
	f.columns, _ = flags.GetString("columns")
	f.filter, _ = flags.GetString("filter")
	f.limit, _ = flags.GetInt("limit")
	return f
}

func runQuery(cmd *cobra.Command, args []string) error {
	f := readQueryFlags(cmd)

	// Catch flag mistakes before connecting. --table needs the dialect, so it is quoted later.
	if _, err := f.buildSpec(func(s string) string { return s }); err != nil {
		return err
	}

	failOnError, _ := cmd.Flags().GetBool("fail-on-error")
	out := outputOptions{
		format:  cmd.Flag("format").Value.String(),
		outFile: cmd.Flag("out_file").Value.String(),
	}
	return executeSpecs(cmd, func(db *database.DB) ([]report.Spec, error) {
		spec, err := f.buildSpec(db.QuoteIdentifier)
		if err != nil {
			return nil, err
		}
		return []report.Spec{spec}, nil
	}, out, failOnError)
}

func init() {
	queryCmd.Flags().String("name", "query", "Report name")
	queryCmd.Flags().String("kind", string(report.KindRawTable), "Report kind (raw_table, categorical_distribution, numeric_aggregate, grouped_aggregate)")
	queryCmd.Flags().String("sql", "", "SQL query to run")
	queryCmd.Flags().String("sql-file", "", "File containing the SQL query to run")
	queryCmd.Flags().String("table", "", "Table to select every row from (optionally schema qualified)")
	queryCmd.Flags().String("column", "", "Column to summarise (categorical_distribution, numeric_aggregate)")
	queryCmd.Flags().String("columns", "", "Comma-separated numeric columns to summarise (numeric_aggregate)")
	queryCmd.Flags().String("filter", "", `Row filter expression, e.g. 'difficulty == "hard"'`)
	queryCmd.Flags().Int("limit", 0, "Maximum number of rows to show for raw and grouped reports (0 shows all)")
	addOutputFlags(queryCmd)
}
