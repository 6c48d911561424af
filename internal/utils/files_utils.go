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
package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var ErrEmptyQueryFile = errors.New("query file is empty")

// ReadQueryFile reads a single SQL statement from filePath. Surrounding whitespace and
// trailing semicolons are removed.
func ReadQueryFile(filePath string) (string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	query := strings.TrimSpace(string(content))
	for strings.HasSuffix(query, ";") {
		query = strings.TrimSpace(strings.TrimSuffix(query, ";"))
	}
	if query == "" {
		return "", fmt.Errorf("%s: %w", filePath, ErrEmptyQueryFile)
	}
	return query, nil
}

// ResolvePath joins a relative path onto baseDir. Absolute paths and an empty baseDir
// return path unchanged.
func ResolvePath(baseDir, path string) string {
	if baseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

func GetDefaultOutputFilePath(dbName, format string) string {
	if dbName == "" {
		dbName = "reports"
	}
	switch format {
	case "json":
		return fmt.Sprintf("%s_reports.json", dbName)
	default:
		return fmt.Sprintf("%s_reports.txt", dbName)
	}
}

// ParseListFlag splits a comma separated flag value, dropping blanks and surrounding whitespace.
// Commas inside square brackets do not split, so "a,b[x,y]" yields "a" and "b[x,y]".
func ParseListFlag(flag string) []string {
	var out []string
	for _, part := range SplitOutsideBrackets(flag) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// SplitOutsideBrackets Helper function to split string by commas that are not within brackets
func SplitOutsideBrackets(s string) []string {
	var result []string
	var current strings.Builder
	inBrackets := false

	for _, char := range s {
		switch char {
		case '[':
			inBrackets = true
			current.WriteRune(char)
		case ']':
			inBrackets = false
			current.WriteRune(char)
		case ',':
			if inBrackets {
				current.WriteRune(char)
			} else {
				result = append(result, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(char)
		}
	}

	if current.Len() > 0 {
		result = append(result, current.String())
	}

	return result
}
