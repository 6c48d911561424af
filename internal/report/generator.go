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
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/GoogleCloudPlatform/db-summary-reports/internal/database"
	"github.com/GoogleCloudPlatform/db-summary-reports/internal/report/filter"
)

// Querier is the read-only view of a database connection the generator needs.
type Querier interface {
	Ping(ctx context.Context) error
	Query(ctx context.Context, query string) (*database.ResultSet, error)
}

var _ Querier = (*database.DB)(nil)

// Generator runs report specs one after another against a single connection.
type Generator struct {
	querier Querier
	logger  *zap.Logger
}

type Option func(*Generator)

// WithLogger sets the logger used for per-report progress.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

func NewGenerator(q Querier, opts ...Option) *Generator {
	g := &Generator{
		querier: q,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Run executes specs in order and returns one Result per spec, in the same order.
// A failing report does not stop the batch. The only error Run itself returns is a
// *database.ConnectionError when the connection is unusable before any report runs.
func (g *Generator) Run(ctx context.Context, specs []Spec) ([]Result, error) {
	if err := g.querier.Ping(ctx); err != nil {
		var connErr *database.ConnectionError
		if !errors.As(err, &connErr) {
			err = &database.ConnectionError{Msg: "ping failed", Err: err}
		}
		g.logger.Error("database is not reachable, no reports were run", zap.Error(err))
		return nil, err
	}

	startTime := time.Now()
	g.logger.Info("running reports", zap.Int("count", len(specs)))

	results := make([]Result, 0, len(specs))
	failed := 0
	for _, spec := range specs {
		res := g.runOne(ctx, spec)
		if !res.Ok() {
			failed++
		}
		results = append(results, res)
	}

	g.logger.Info("reports completed",
		zap.Int("count", len(results)),
		zap.Int("failed", failed),
		zap.Duration("elapsed", time.Since(startTime)),
	)
	return results, nil
}

func (g *Generator) runOne(ctx context.Context, spec Spec) Result {
	start := time.Now()
	res := Result{Spec: spec.clone()}
	res.Err = g.summarize(ctx, &res)
	res.Elapsed = time.Since(start)

	fields := []zap.Field{
		zap.String("report", spec.Name),
		zap.String("kind", string(spec.Kind)),
		zap.Int("rows", res.RowCount),
		zap.Duration("elapsed", res.Elapsed),
	}
	switch {
	case res.Err != nil:
		g.logger.Warn("report failed", append(fields, zap.Error(res.Err))...)
	case res.Empty:
		g.logger.Info("report returned no rows", fields...)
	default:
		g.logger.Info("report completed", fields...)
	}
	return res
}

// summarize fills res for res.Spec and returns the report error, if any.
func (g *Generator) summarize(ctx context.Context, res *Result) error {
	spec := res.Spec
	if err := spec.Validate(); err != nil {
		return err
	}

	var rowFilter *filter.Evaluator
	if spec.Filter != "" {
		ev, err := filter.New(spec.Filter)
		if err != nil {
			return &InvalidSpecError{Report: spec.Name, Msg: "invalid filter", Err: err}
		}
		rowFilter = &ev
	}

	rs, err := g.querier.Query(ctx, spec.Query)
	if err != nil {
		return &QueryFailedError{Report: spec.Name, Err: err}
	}

	table := newTable(rs)
	if rowFilter != nil {
		table, err = filterTable(table, *rowFilter)
		if err != nil {
			return &InvalidSpecError{Report: spec.Name, Msg: "filter evaluation failed", Err: err}
		}
	}

	res.RowCount = table.RowCount()
	if res.RowCount == 0 {
		res.Empty = true
		return nil
	}

	switch spec.Kind {
	case KindRawTable, KindGroupedAggregate:
		res.Table = table
	case KindCategoricalDistribution:
		dist, err := Distribute(table, spec.Column)
		if err != nil {
			return withReport(err, spec.Name)
		}
		res.Distribution = dist
	case KindNumericAggregate:
		aggs, err := Aggregates(table, spec.NumericColumns())
		if err != nil {
			return withReport(err, spec.Name)
		}
		for _, agg := range aggs {
			if agg.Invalid > 0 {
				g.logger.Warn("ignored non-numeric values",
					zap.String("report", spec.Name),
					zap.String("column", agg.Column),
					zap.Int("count", agg.Invalid),
				)
			}
		}
		res.Aggregates = aggs
	default:
		return &InvalidSpecError{Report: spec.Name, Msg: fmt.Sprintf("unknown kind %q", spec.Kind)}
	}
	return nil
}

func newTable(rs *database.ResultSet) *Table {
	if rs == nil {
		return &Table{}
	}
	t := &Table{Columns: rs.Columns, Rows: make([]Row, len(rs.Rows))}
	for i, r := range rs.Rows {
		t.Rows[i] = Row(r)
	}
	return t
}

func filterTable(t *Table, ev filter.Evaluator) (*Table, error) {
	out := &Table{Columns: t.Columns, Rows: make([]Row, 0, len(t.Rows))}
	for _, row := range t.Rows {
		ok, err := ev.Match(row)
		if err != nil {
			return nil, err
		}
		if ok {
			out.Rows = append(out.Rows, row)
		}
	}
	return out, nil
}
