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

	"github.com/GoogleCloudPlatform/db-summary-reports/internal/config"
	"github.com/GoogleCloudPlatform/db-summary-reports/internal/utils"
)

// FromConfig converts configured reports into specs. Relative query_file paths are resolved
// against baseDir. Every returned spec has been validated.
func FromConfig(reports []config.ReportConfig, baseDir string) ([]Spec, error) {
	specs := make([]Spec, 0, len(reports))
	seen := make(map[string]bool, len(reports))
	for i, rc := range reports {
		name := strings.TrimSpace(rc.Name)
		if name == "" {
			name = fmt.Sprintf("#%d", i+1)
		}
		if seen[name] {
			return nil, &InvalidSpecError{Report: name, Msg: "duplicate report name"}
		}
		seen[name] = true

		kind, err := ParseKind(rc.Kind)
		if err != nil {
			return nil, &InvalidSpecError{Report: name, Msg: "invalid kind", Err: err}
		}

		query := rc.Query
		if rc.QueryFile != "" {
			if strings.TrimSpace(query) != "" {
				return nil, &InvalidSpecError{Report: name, Msg: "query and query_file are mutually exclusive"}
			}
			query, err = utils.ReadQueryFile(utils.ResolvePath(baseDir, rc.QueryFile))
			if err != nil {
				return nil, &InvalidSpecError{Report: name, Msg: "cannot read query_file", Err: err}
			}
		}

		spec := Spec{
			Name:   name,
			Kind:   kind,
			Query:  strings.TrimSpace(query),
			Column: strings.TrimSpace(rc.Column),
			Filter: strings.TrimSpace(rc.Filter),
			Limit:  rc.Limit,
		}
		for _, c := range rc.Columns {
			if c = strings.TrimSpace(c); c != "" {
				spec.Columns = append(spec.Columns, c)
			}
		}
		if err := spec.Validate(); err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// FilterSpecs keeps the specs named in names, in their original order. An empty names list
// keeps every spec; naming a report that does not exist is an error.
func FilterSpecs(specs []Spec, names []string) ([]Spec, error) {
	if len(names) == 0 {
		return specs, nil
	}
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}
	var out []Spec
	for _, s := range specs {
		if wanted[s.Name] {
			out = append(out, s)
			delete(wanted, s.Name)
		}
	}
	if len(wanted) > 0 {
		missing := make([]string, 0, len(wanted))
		for _, n := range names {
			if wanted[n] {
				missing = append(missing, n)
				delete(wanted, n)
			}
		}
		return nil, fmt.Errorf("unknown report(s): %s", strings.Join(missing, ", "))
	}
	return out, nil
}
