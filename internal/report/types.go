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
package report

import (
	"fmt"
	"strings"
	"time"
)

// Kind selects how a report's rows are summarised.
type Kind string

const (
	KindRawTable                Kind = "raw_table"
	KindCategoricalDistribution Kind = "categorical_distribution"
	KindNumericAggregate        Kind = "numeric_aggregate"
	KindGroupedAggregate        Kind = "grouped_aggregate"
)

// Kinds lists every supported report kind.
var Kinds = []Kind{KindRawTable, KindCategoricalDistribution, KindNumericAggregate, KindGroupedAggregate}

// ParseKind accepts a kind name case-insensitively, with '-' allowed in place of '_'.
func ParseKind(s string) (Kind, error) {
	normalized := Kind(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	for _, k := range Kinds {
		if k == normalized {
			return k, nil
		}
	}
	names := make([]string, len(Kinds))
	for i, k := range Kinds {
		names[i] = string(k)
	}
	return "", fmt.Errorf("unknown report kind %q (expected one of %s)", s, strings.Join(names, ", "))
}

// Spec is a named query plus the summarisation it requires.
type Spec struct {
	Name  string
	Kind  Kind
	Query string
	// Column is the grouped column of a categorical distribution. For numeric aggregates it
	// is shorthand for a single entry in Columns.
	Column  string
	Columns []string
	// Filter is an optional boolean expression applied to each row before summarising.
	Filter string
	// Limit caps the number of rows shown when the result is rendered. Zero shows all rows.
	Limit int
}

// NumericColumns returns the columns a numeric aggregate reduces.
func (s Spec) NumericColumns() []string {
	if len(s.Columns) > 0 {
		return s.Columns
	}
	if s.Column != "" {
		return []string{s.Column}
	}
	return nil
}

// Validate checks that the spec can be executed.
func (s Spec) Validate() error {
	invalid := func(msg string) error {
		return &InvalidSpecError{Report: s.Name, Msg: msg}
	}
	if strings.TrimSpace(s.Name) == "" {
		return invalid("name is required")
	}
	if strings.TrimSpace(s.Query) == "" {
		return invalid("query is required")
	}
	if s.Limit < 0 {
		return invalid("limit must not be negative")
	}
	switch s.Kind {
	case KindRawTable, KindGroupedAggregate:
	case KindCategoricalDistribution:
		if s.Column == "" {
			return invalid("column is required for " + string(s.Kind))
		}
	case KindNumericAggregate:
		if len(s.NumericColumns()) == 0 {
			return invalid("column or columns is required for " + string(s.Kind))
		}
	default:
		return invalid(fmt.Sprintf("unknown kind %q", s.Kind))
	}
	return nil
}

func (s Spec) clone() Spec {
	if s.Columns != nil {
		s.Columns = append([]string(nil), s.Columns...)
	}
	return s
}

// Row maps column name to a cell value: nil, string, int64, float64, bool, time.Time or a
// driver specific numeric type.
type Row map[string]any

// Table is an ordered set of rows sharing one column list.
type Table struct {
	Columns []string
	Rows    []Row
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn reports whether the result set contains column.
func (t *Table) HasColumn(column string) bool {
	for _, c := range t.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// Head returns a table with at most n rows. n <= 0 returns t unchanged.
func (t *Table) Head(n int) *Table {
	if t == nil || n <= 0 || n >= len(t.Rows) {
		return t
	}
	return &Table{Columns: t.Columns, Rows: t.Rows[:n]}
}

// Bucket is one distinct value of a distribution.
type Bucket struct {
	Value   any
	Count   int
	Percent float64
}

// Distribution counts occurrences of each distinct value of Column, most frequent first.
type Distribution struct {
	Column    string
	Buckets   []Bucket
	Total     int // non-null values, equal to the sum of bucket counts
	NullCount int
}

// Aggregate summarises one numeric column. Mean, Sum, Min and Max cover the Count non-null
// numeric values only.
type Aggregate struct {
	Column    string
	Mean      float64
	Sum       float64
	Min       float64
	Max       float64
	Count     int
	NullCount int
	Invalid   int // non-null values that are not numbers
}

// Result is the outcome of one report. When Err is nil and Empty is false the payload
// matching Spec.Kind is set: Table for raw and grouped reports, Distribution for categorical
// reports and Aggregates for numeric reports.
type Result struct {
	Spec         Spec
	Table        *Table
	Distribution *Distribution
	Aggregates   []Aggregate
	RowCount     int
	Empty        bool
	Err          error
	Elapsed      time.Duration
}

// Ok reports whether the report ran without error. Empty results are Ok.
func (r Result) Ok() bool {
	return r.Err == nil
}

// Status is "error", "empty" or "ok".
func (r Result) Status() string {
	switch {
	case r.Err != nil:
		return "error"
	case r.Empty:
		return "empty"
	default:
		return "ok"
	}
}

// AsError returns Err, ErrEmptyResultSet for empty results, or nil.
func (r Result) AsError() error {
	if r.Err != nil {
		return r.Err
	}
	if r.Empty {
		return ErrEmptyResultSet
	}
	return nil
}
