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
package database

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingConnectionString is returned when no database URI was configured.
	ErrMissingConnectionString = errors.New("connection string is empty")

	// ErrEmptyQuery is returned by Query for blank SQL.
	ErrEmptyQuery = errors.New("query is empty")
)

// ConnectionError represents a failure to establish or use the database connection.
// Nothing that needs the database can run after one.
type ConnectionError struct {
	Msg string
	Err error
}

func (e *ConnectionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("database connection error: %s", e.Msg)
	}
	return fmt.Sprintf("database connection error: %s: %v", e.Msg, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}
