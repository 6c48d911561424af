package report

import (
	"fmt"
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"
)

// Distribute counts the distinct non-null values of column. Buckets are ordered by count,
// descending; equal counts keep the order in which the values were first seen.
func Distribute(t *Table, column string) (*Distribution, error) {
	if !t.HasColumn(column) {
		return nil, &UnknownColumnError{Column: column}
	}

	dist := &Distribution{Column: column}
	index := make(map[string]int)
	for _, row := range t.Rows {
		v := row[column]
		if v == nil {
			dist.NullCount++
			continue
		}
		key := distinctKey(v)
		i, ok := index[key]
		if !ok {
			i = len(dist.Buckets)
			index[key] = i
			dist.Buckets = append(dist.Buckets, Bucket{Value: v})
		}
		dist.Buckets[i].Count++
		dist.Total++
	}

	sort.SliceStable(dist.Buckets, func(i, j int) bool {
		return dist.Buckets[i].Count > dist.Buckets[j].Count
	})
	for i := range dist.Buckets {
		dist.Buckets[i].Percent = float64(dist.Buckets[i].Count) / float64(dist.Total) * 100
	}
	return dist, nil
}

// distinctKey keeps values of different dynamic types apart, so 1 and "1" are distinct.
func distinctKey(v any) string {
	return fmt.Sprintf("%T\x00%v", v, v)
}

// Aggregates computes an Aggregate for each column, in order. It fails on the first column
// that is missing from the table or holds no numeric values.
func Aggregates(t *Table, columns []string) ([]Aggregate, error) {
	out := make([]Aggregate, 0, len(columns))
	for _, column := range columns {
		agg, err := NumericAggregate(t, column)
		if err != nil {
			return nil, err
		}
		out = append(out, agg)
	}
	return out, nil
}

// NumericAggregate computes the mean, sum, min and max of column, ignoring nulls.
// Values that are not numbers are counted in Invalid and otherwise ignored.
func NumericAggregate(t *Table, column string) (Aggregate, error) {
	if !t.HasColumn(column) {
		return Aggregate{}, &UnknownColumnError{Column: column}
	}

	agg := Aggregate{Column: column, Min: math.Inf(1), Max: math.Inf(-1)}
	for _, row := range t.Rows {
		v := row[column]
		if v == nil {
			agg.NullCount++
			continue
		}
		f, ok := ToFloat(v)
		if !ok {
			agg.Invalid++
			continue
		}
		agg.Count++
		agg.Sum += f
		agg.Min = math.Min(agg.Min, f)
		agg.Max = math.Max(agg.Max, f)
	}
	if agg.Count == 0 {
		return Aggregate{}, &NoNumericDataError{Column: column}
	}
	agg.Mean = agg.Sum / float64(agg.Count)
	return agg, nil
}

// ToFloat converts a cell value to float64. Strings are parsed, which covers NUMERIC
// columns that drivers return as text. NaN is not considered a number.
func ToFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int64:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int16:
		f = float64(n)
	case int8:
		f = float64(n)
	case uint64:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint:
		f = float64(n)
	case *big.Int:
		if n == nil {
			return 0, false
		}
		f, _ = new(big.Float).SetInt(n).Float64()
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	case interface{ Float64() float64 }:
		f = n.Float64()
	case interface{ Float64() (float64, bool) }:
		f, _ = n.Float64()
	default:
		return 0, false
	}
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
