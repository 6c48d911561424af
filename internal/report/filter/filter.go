// Package filter evaluates boolean row expressions such as
// `difficulty == "easy" and userId != "demo"` against report rows.
package filter

import (
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-bexpr"
)

type Evaluator struct {
	expr      string
	evaluator *bexpr.Evaluator
}

func New(expr string) (Evaluator, error) {
	evaluator, err := bexpr.CreateEvaluator(expr)
	if err != nil {
		return Evaluator{}, fmt.Errorf("error parsing expression '%s': %w", expr, err)
	}

	return Evaluator{
		expr:      expr,
		evaluator: evaluator,
	}, nil
}

// Match reports whether row satisfies the expression. Referencing a column that is not in
// the row is an error.
func (e Evaluator) Match(row map[string]any) (bool, error) {
	result, err := e.evaluator.Evaluate(row)
	if err != nil {
		return false, fmt.Errorf(
			"error evaluating expression '%s': %w, input values: %s",
			e.expr, err, stringify(row),
		)
	}

	return result, nil
}

func (e Evaluator) String() string {
	return e.expr
}

func stringify(obj any) string {
	b, err := json.Marshal(obj)
	if err != nil {
		b = []byte(fmt.Sprintf("%+v", obj))
	}

	return string(b)
}
