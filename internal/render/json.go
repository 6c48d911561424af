package render

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/big"
	"time"

	"github.com/GoogleCloudPlatform/db-summary-reports/internal/report"
)

type jsonResult struct {
	Name         string            `json:"name"`
	Kind         string            `json:"kind"`
	Status       string            `json:"status"`
	RowCount     int               `json:"row_count"`
	Columns      []string          `json:"columns,omitempty"`
	Rows         []map[string]any  `json:"rows,omitempty"`
	Truncated    bool              `json:"truncated,omitempty"`
	Distribution *jsonDistribution `json:"distribution,omitempty"`
	Aggregates   []jsonAggregate   `json:"aggregates,omitempty"`
	Error        string            `json:"error,omitempty"`
	ElapsedMS    int64             `json:"elapsed_ms"`
}

type jsonDistribution struct {
	Column    string       `json:"column"`
	Total     int          `json:"total"`
	NullCount int          `json:"null_count"`
	Buckets   []jsonBucket `json:"buckets"`
}

type jsonBucket struct {
	Value   any     `json:"value"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

type jsonAggregate struct {
	Column    string  `json:"column"`
	Mean      float64 `json:"mean"`
	Sum       float64 `json:"sum"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Count     int     `json:"count"`
	NullCount int     `json:"null_count"`
	Invalid   int     `json:"invalid,omitempty"`
}

// JSON writes results as an indented JSON array, one object per report.
// Raw and grouped tables honour Spec.Limit and set "truncated" when rows were cut.
func JSON(w io.Writer, results []report.Result) error {
	out := make([]jsonResult, 0, len(results))
	for _, res := range results {
		out = append(out, toJSON(res))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	return nil
}

func toJSON(res report.Result) jsonResult {
	jr := jsonResult{
		Name:      res.Spec.Name,
		Kind:      string(res.Spec.Kind),
		Status:    res.Status(),
		RowCount:  res.RowCount,
		ElapsedMS: res.Elapsed.Milliseconds(),
	}
	if res.Err != nil {
		jr.Error = res.Err.Error()
		return jr
	}

	if res.Table != nil {
		preview := res.Table.Head(res.Spec.Limit)
		jr.Columns = res.Table.Columns
		jr.Rows = make([]map[string]any, len(preview.Rows))
		for i, row := range preview.Rows {
			m := make(map[string]any, len(row))
			for k, v := range row {
				m[k] = jsonValue(v)
			}
			jr.Rows[i] = m
		}
		jr.Truncated = preview.RowCount() < res.Table.RowCount()
	}
	if d := res.Distribution; d != nil {
		jd := &jsonDistribution{
			Column:    d.Column,
			Total:     d.Total,
			NullCount: d.NullCount,
			Buckets:   make([]jsonBucket, len(d.Buckets)),
		}
		for i, b := range d.Buckets {
			jd.Buckets[i] = jsonBucket{Value: jsonValue(b.Value), Count: b.Count, Percent: b.Percent}
		}
		jr.Distribution = jd
	}
	for _, a := range res.Aggregates {
		jr.Aggregates = append(jr.Aggregates, jsonAggregate(a))
	}
	return jr
}

// jsonValue maps driver values onto types encoding/json can always encode.
func jsonValue(v any) any {
	switch val := v.(type) {
	case nil, string, bool, int64, int, time.Time, *big.Int:
		return val
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return FormatValue(val)
		}
		return val
	case json.Marshaler:
		return val
	default:
		if f, ok := report.ToFloat(val); ok {
			return f
		}
		return FormatValue(val)
	}
}
