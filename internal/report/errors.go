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
	"errors"
	"fmt"
)

// ErrEmptyResultSet marks a report whose query returned no rows. It is not a failure:
// Run reports it through Result.Empty and only Result.AsError returns it.
var ErrEmptyResultSet = errors.New("empty result set")

// QueryFailedError represents a report whose query could not be prepared or executed
type QueryFailedError struct {
	Report string
	Err    error
}

// NoNumericDataError represents a numeric aggregate over a column without numeric values
type NoNumericDataError struct {
	Report string
	Column string
}

// UnknownColumnError represents a summarised column missing from the result set
type UnknownColumnError struct {
	Report string
	Column string
}

// InvalidSpecError represents a report definition that cannot be executed
type InvalidSpecError struct {
	Report string
	Msg    string
	Err    error
}

func (e *QueryFailedError) Error() string {
	return fmt.Sprintf("report %s: query failed: %v", e.Report, e.Err)
}

func (e *QueryFailedError) Unwrap() error {
	return e.Err
}

func (e *NoNumericDataError) Error() string {
	return fmt.Sprintf("report %s: column %s has no numeric data", e.Report, e.Column)
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("report %s: column %s is not in the result set", e.Report, e.Column)
}

func (e *InvalidSpecError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("report %s: invalid definition: %s: %v", e.Report, e.Msg, e.Err)
	}
	return fmt.Sprintf("report %s: invalid definition: %s", e.Report, e.Msg)
}

func (e *InvalidSpecError) Unwrap() error {
	return e.Err
}

// withReport stamps the report name on column errors returned by the summarisers.
func withReport(err error, name string) error {
	var unknown *UnknownColumnError
	if errors.As(err, &unknown) {
		unknown.Report = name
	}
	var noData *NoNumericDataError
	if errors.As(err, &noData) {
		noData.Report = name
	}
	return err
}
